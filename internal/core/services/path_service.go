package services

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"scenegen/internal/adapters/urdf"
)

// PathService rewrites mesh references in description files from local
// filesystem paths to package-relative URIs.
type PathService struct{}

// NewPathService creates a new path service.
func NewPathService() *PathService {
	return &PathService{}
}

// RewriteRequest describes one rewrite run.
type RewriteRequest struct {
	// Root is the directory tree to scan for description files.
	Root string
	// SourceRoot is the declared module root; the package prefix of each
	// rewritten URI is the description file's directory relative to it.
	SourceRoot string
}

// FileResult is the outcome for a single description file.
type FileResult struct {
	Path      string
	Package   string
	Rewritten int
	Err       error
}

// RewriteResponse summarizes a rewrite run.
type RewriteResponse struct {
	Files     int
	Rewritten int
	Failed    int
	Results   []FileResult
}

// Execute walks Root, rewriting every local .stl mesh reference into
// package://<rel-dir>/<file>. Files already in package form are untouched,
// so a second run is a no-op. Per-file failures are recorded and skipped.
func (s *PathService) Execute(ctx context.Context, req RewriteRequest) (*RewriteResponse, error) {
	srcRoot, err := filepath.Abs(req.SourceRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve source root: %w", err)
	}

	resp := &RewriteResponse{}
	walkErr := filepath.WalkDir(req.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".urdf") {
			return nil
		}

		resp.Files++
		result := s.rewriteFile(path, srcRoot)
		resp.Results = append(resp.Results, result)
		if result.Err != nil {
			resp.Failed++
		} else {
			resp.Rewritten += result.Rewritten
		}
		return nil
	})
	if walkErr != nil {
		return resp, fmt.Errorf("failed to walk %s: %w", req.Root, walkErr)
	}
	return resp, nil
}

func (s *PathService) rewriteFile(path, srcRoot string) FileResult {
	result := FileResult{Path: path}

	absDir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		result.Err = err
		return result
	}
	rel, err := filepath.Rel(srcRoot, absDir)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		result.Err = fmt.Errorf("%s is outside source root %s", absDir, srcRoot)
		return result
	}
	result.Package = filepath.ToSlash(rel)

	doc, err := urdf.Load(path)
	if err != nil {
		result.Err = err
		return result
	}
	n, err := doc.RewriteMeshPaths(result.Package)
	if err != nil {
		result.Err = err
		return result
	}
	result.Rewritten = n
	if n == 0 {
		return result
	}
	if err := doc.Save(); err != nil {
		result.Err = err
	}
	return result
}

// VerifyResponse reports how many mesh references in a tree use the package
// scheme versus plain paths.
type VerifyResponse struct {
	PackageRefs []string
	PlainRefs   []string
}

// Verify scans Root and classifies every mesh reference. Used after a
// rewrite to confirm nothing was left behind.
func (s *PathService) Verify(ctx context.Context, root string) (*VerifyResponse, error) {
	resp := &VerifyResponse{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".urdf") {
			return nil
		}
		doc, err := urdf.Load(path)
		if err != nil {
			return nil // malformed files were already reported by Execute
		}
		refs, err := doc.MeshReferences()
		if err != nil {
			return nil
		}
		for _, ref := range refs {
			if strings.HasPrefix(ref, "package://") {
				resp.PackageRefs = append(resp.PackageRefs, ref)
			} else {
				resp.PlainRefs = append(resp.PlainRefs, ref)
			}
		}
		return nil
	})
	if err != nil {
		return resp, fmt.Errorf("failed to walk %s: %w", root, err)
	}
	return resp, nil
}
