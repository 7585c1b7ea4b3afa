package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"scenegen/internal/adapters/urdf"
	"scenegen/internal/core/domain"
)

// PatchStatus classifies the outcome for one asset directory.
type PatchStatus string

const (
	StatusPatched        PatchStatus = "patched"
	StatusAlreadyPatched PatchStatus = "already-patched"
	StatusMissingPair    PatchStatus = "missing-pair"
	StatusFailed         PatchStatus = "failed"
)

// PatchService inserts inertial blocks into robot-description files, one
// urdf+stl pair per asset directory.
type PatchService struct {
	inertia *InertiaService
}

// NewPatchService creates a new patch service.
func NewPatchService(inertia *InertiaService) *PatchService {
	return &PatchService{inertia: inertia}
}

// PatchRequest describes one batch run over a dataset root.
type PatchRequest struct {
	// Root holds one subdirectory per object, each with a .urdf and a .stl.
	Root    string
	Density float64
}

// PatchResult is the outcome for one object directory.
type PatchResult struct {
	Dir      string
	URDFPath string
	MeshPath string
	Status   PatchStatus
	Props    domain.InertialProperties
	Err      error
}

// PatchResponse summarizes a batch run.
type PatchResponse struct {
	Total   int
	Patched int
	Skipped int
	Failed  int
	Results []PatchResult
}

// Execute walks the dataset root and patches every discovered pair. Failures
// are per-directory and never abort the batch.
func (s *PatchService) Execute(ctx context.Context, req PatchRequest) (*PatchResponse, error) {
	entries, err := os.ReadDir(req.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset root: %w", err)
	}

	resp := &PatchResponse{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return resp, err
		}

		dir := filepath.Join(req.Root, entry.Name())
		result := s.patchDir(dir, req.Density)
		resp.Results = append(resp.Results, result)
		resp.Total++
		switch result.Status {
		case StatusPatched:
			resp.Patched++
		case StatusFailed:
			resp.Failed++
		default:
			resp.Skipped++
		}
	}
	return resp, nil
}

// PatchPair patches a single description file against a single mesh file.
// Used directly by the watch loop.
func (s *PatchService) PatchPair(urdfPath, meshPath string, density float64) PatchResult {
	result := PatchResult{
		Dir:      filepath.Dir(urdfPath),
		URDFPath: urdfPath,
		MeshPath: meshPath,
	}

	doc, err := urdf.Load(urdfPath)
	if err != nil {
		result.Status = StatusFailed
		result.Err = err
		return result
	}
	if doc.HasInertial() {
		result.Status = StatusAlreadyPatched
		return result
	}

	props := s.inertia.EstimateFile(meshPath, density)
	result.Props = props

	if err := doc.InsertInertial(props); err != nil {
		result.Status = StatusFailed
		result.Err = err
		return result
	}
	if err := doc.Save(); err != nil {
		result.Status = StatusFailed
		result.Err = err
		return result
	}
	result.Status = StatusPatched
	return result
}

func (s *PatchService) patchDir(dir string, density float64) PatchResult {
	urdfPath, meshPath, err := FindPair(dir)
	if err != nil {
		return PatchResult{Dir: dir, Status: StatusMissingPair, Err: err}
	}
	return s.PatchPair(urdfPath, meshPath, density)
}

// FindPair locates the description file and mesh file inside one object
// directory. The lexicographically first match of each wins, matching how
// dataset exporters lay the files out.
func FindPair(dir string) (urdfPath, meshPath string, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", "", fmt.Errorf("failed to read object directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		switch strings.ToLower(filepath.Ext(name)) {
		case ".urdf":
			if urdfPath == "" {
				urdfPath = filepath.Join(dir, name)
			}
		case ".stl":
			if meshPath == "" {
				meshPath = filepath.Join(dir, name)
			}
		}
	}

	if urdfPath == "" || meshPath == "" {
		return "", "", fmt.Errorf("no urdf+stl pair in %s", dir)
	}
	return urdfPath, meshPath, nil
}
