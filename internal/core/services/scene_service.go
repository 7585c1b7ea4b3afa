package services

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"scenegen/internal/core/domain"
	"scenegen/internal/core/ports"
)

// SceneService drives randomized scene generation against a simulator:
// sample positions, spawn descriptors, nudge everything toward the scene
// center, and tear the scene down again.
type SceneService struct {
	sim     ports.Simulator
	sampler *SamplerService
	rng     *rand.Rand
	sleep   func(time.Duration)
}

// NewSceneService creates a scene service. Seed 0 uses a time-based seed.
func NewSceneService(sim ports.Simulator, sampler *SamplerService, seed int64) *SceneService {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &SceneService{
		sim:     sim,
		sampler: sampler,
		rng:     rand.New(rand.NewSource(seed)),
		sleep:   time.Sleep,
	}
}

// GenerateRequest describes one randomized scene.
type GenerateRequest struct {
	// MeshDir holds one subdirectory per model, each with a .sdf descriptor.
	MeshDir      string
	NumObstacles int

	// DropZone bounds the target object's drop pose; Workspace bounds the
	// obstacle positions around it.
	DropZone  domain.Workspace
	Workspace domain.Workspace

	MinDist     float64
	MaxDist     float64
	MaxAttempts int

	ForceMagnitude float64
	ForceDuration  time.Duration
	// SettleDelay is the fixed pause between spawning and force
	// application, giving the physics a chance to come to rest.
	SettleDelay time.Duration
}

// GenerateResponse reports what was actually built.
type GenerateResponse struct {
	Session  domain.SceneSession
	Center   domain.Point3
	Placed   int
	Nudged   int
	Warnings []string
}

// TargetModelName is the name given to the first spawned object.
const TargetModelName = "target_object"

// Execute builds one randomized scene. Individual spawn or force failures
// are recorded as warnings and the run continues; the returned session
// lists exactly the models that exist in the simulator afterwards.
func (s *SceneService) Execute(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	descriptors, err := s.selectDescriptors(req.MeshDir, req.NumObstacles+1)
	if err != nil {
		return nil, err
	}

	resp := &GenerateResponse{}

	// Target drop pose seeds the placement set.
	positions := []domain.Point3{{
		X: s.sampler.Uniform(req.DropZone.X),
		Y: s.sampler.Uniform(req.DropZone.Y),
		Z: s.sampler.Uniform(req.DropZone.Z),
	}}

	for i := 0; i < req.NumObstacles; i++ {
		sample, err := s.sampler.FindSafePosition(SampleRequest{
			Existing:    positions,
			Workspace:   req.Workspace,
			MinDist:     req.MinDist,
			MaxDist:     req.MaxDist,
			MaxAttempts: req.MaxAttempts,
		})
		if err != nil {
			return nil, err
		}
		if !sample.Found {
			resp.Warnings = append(resp.Warnings,
				fmt.Sprintf("could not place obstacle %d within %d attempts", i+1, req.MaxAttempts))
			break
		}
		positions = append(positions, sample.Point)
	}
	resp.Placed = len(positions)

	session := domain.SceneSession{}
	for i, pos := range positions {
		if i >= len(descriptors) {
			resp.Warnings = append(resp.Warnings,
				fmt.Sprintf("only %d descriptors available, skipping remaining objects", len(descriptors)))
			break
		}
		name := TargetModelName
		if i > 0 {
			name = fmt.Sprintf("object_%d", i)
		}
		yaw := s.rng.Float64()*2*math.Pi - math.Pi

		descriptor, err := loadDescriptor(descriptors[i])
		if err != nil {
			resp.Warnings = append(resp.Warnings, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		pose := domain.Pose{Position: pos, RPY: [3]float64{0, 0, yaw}}
		if err := s.sim.Spawn(ctx, name, descriptor, pose); err != nil {
			resp.Warnings = append(resp.Warnings, fmt.Sprintf("failed to spawn %s: %v", name, err))
			continue
		}
		session = session.WithSpawn(name, pos, yaw)
	}

	resp.Session = session
	resp.Center = session.Centroid()
	if session.Len() == 0 {
		return resp, fmt.Errorf("no models spawned")
	}

	// Let everything land before pushing it around.
	s.sleep(req.SettleDelay)

	for _, name := range session.Models {
		if err := s.nudgeToward(ctx, name, resp.Center, req.ForceMagnitude, req.ForceDuration); err != nil {
			resp.Warnings = append(resp.Warnings, fmt.Sprintf("failed to nudge %s: %v", name, err))
			continue
		}
		resp.Nudged++
	}
	return resp, nil
}

// Clear deletes every model in the session. Failures are collected, not
// fatal; the returned count is the number actually deleted.
func (s *SceneService) Clear(ctx context.Context, session domain.SceneSession) (int, []string) {
	deleted := 0
	var warnings []string
	for _, name := range session.Models {
		if err := s.sim.Delete(ctx, name); err != nil {
			warnings = append(warnings, fmt.Sprintf("failed to delete %s: %v", name, err))
			continue
		}
		deleted++
	}
	return deleted, warnings
}

// nudgeToward applies a unit-direction force from the model's current pose
// toward the target point.
func (s *SceneService) nudgeToward(ctx context.Context, name string, target domain.Point3, magnitude float64, duration time.Duration) error {
	current, err := s.sim.GetPose(ctx, name)
	if err != nil {
		return err
	}
	dir := target.Sub(current)
	norm := dir.Norm()
	if norm == 0 {
		// Already at the target; nothing to push.
		return nil
	}
	unit := domain.Point3{X: dir.X / norm, Y: dir.Y / norm, Z: dir.Z / norm}
	return s.sim.ApplyForce(ctx, name, unit, magnitude, duration)
}

// selectDescriptors picks up to n random .sdf descriptors, one directory
// level below meshDir. Fewer descriptors than requested is a warning at the
// call site, not an error here: everything available is returned shuffled.
func (s *SceneService) selectDescriptors(meshDir string, n int) ([]string, error) {
	entries, err := os.ReadDir(meshDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read mesh directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		sub, err := os.ReadDir(filepath.Join(meshDir, entry.Name()))
		if err != nil {
			continue
		}
		for _, f := range sub {
			if !f.IsDir() && strings.EqualFold(filepath.Ext(f.Name()), ".sdf") {
				files = append(files, filepath.Join(meshDir, entry.Name(), f.Name()))
			}
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no descriptors found under %s", meshDir)
	}

	s.rng.Shuffle(len(files), func(i, j int) { files[i], files[j] = files[j], files[i] })
	if len(files) > n {
		files = files[:n]
	}
	return files, nil
}

// loadDescriptor reads a descriptor file and forces the model dynamic, as
// spawned obstacles must respond to forces.
func loadDescriptor(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read descriptor: %w", err)
	}
	return strings.ReplaceAll(string(data), "<static>true</static>", "<static>false</static>"), nil
}

// SetSleep overrides the settle-delay sleeper. Tests use this to avoid
// real waiting.
func (s *SceneService) SetSleep(fn func(time.Duration)) {
	s.sleep = fn
}
