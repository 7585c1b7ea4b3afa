package services

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"scenegen/internal/core/domain"
	"scenegen/internal/core/ports/mocks"
)

const testSDF = `<sdf version="1.6">
  <model name="box">
    <static>true</static>
  </model>
</sdf>
`

// writeMeshDir creates n model folders each holding one descriptor.
func writeMeshDir(t *testing.T, n int) string {
	t.Helper()
	root := t.TempDir()
	for i := 0; i < n; i++ {
		dir := filepath.Join(root, fmt.Sprintf("model_%02d", i))
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, "model.sdf"), []byte(testSDF), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func testGenerateRequest(meshDir string) GenerateRequest {
	return GenerateRequest{
		MeshDir:      meshDir,
		NumObstacles: 3,
		DropZone: domain.Workspace{
			X: domain.Interval{Min: -0.6, Max: -0.4},
			Y: domain.Interval{Min: -0.1, Max: 0.1},
			Z: domain.Interval{Min: 0.025, Max: 0.025},
		},
		Workspace: domain.Workspace{
			X: domain.Interval{Min: -0.65, Max: -0.35},
			Y: domain.Interval{Min: -0.15, Max: 0.15},
			Z: domain.Interval{Min: 0.02, Max: 0.04},
		},
		MinDist:        0.07,
		MaxDist:        0.1,
		MaxAttempts:    10000,
		ForceMagnitude: 2,
		ForceDuration:  100 * time.Millisecond,
		SettleDelay:    time.Second,
	}
}

func newTestSceneService(sim *mocks.MockSimulator) (*SceneService, *time.Duration) {
	svc := NewSceneService(sim, NewSamplerService(11), 13)
	var slept time.Duration
	svc.SetSleep(func(d time.Duration) { slept += d })
	return svc, &slept
}

func TestSceneGenerate(t *testing.T) {
	sim := mocks.NewMockSimulator()
	svc, slept := newTestSceneService(sim)
	meshDir := writeMeshDir(t, 6)

	resp, err := svc.Execute(context.Background(), testGenerateRequest(meshDir))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.Session.Len() == 0 {
		t.Fatal("no models spawned")
	}
	if resp.Session.Models[0] != TargetModelName {
		t.Errorf("first model = %s, want %s", resp.Session.Models[0], TargetModelName)
	}
	for i, name := range resp.Session.Models[1:] {
		if want := fmt.Sprintf("object_%d", i+1); name != want {
			t.Errorf("model %d = %s, want %s", i+1, name, want)
		}
	}
	if len(sim.Spawned) != resp.Session.Len() {
		t.Errorf("simulator saw %d spawns, session has %d", len(sim.Spawned), resp.Session.Len())
	}

	// Descriptors are forced dynamic before spawning.
	for name, descriptor := range sim.Descriptors {
		if strings.Contains(descriptor, "<static>true</static>") {
			t.Errorf("descriptor for %s still static", name)
		}
		if !strings.Contains(descriptor, "<static>false</static>") {
			t.Errorf("descriptor for %s missing dynamic flag", name)
		}
	}

	// One force per model, unit direction, toward the recorded center.
	if resp.Nudged != resp.Session.Len() {
		t.Errorf("nudged %d of %d models", resp.Nudged, resp.Session.Len())
	}
	for _, call := range sim.Forces {
		n := call.Direction.Norm()
		if math.Abs(n-1) > 1e-9 {
			t.Errorf("force direction for %s has norm %g, want 1", call.Name, n)
		}
		if call.Magnitude != 2 {
			t.Errorf("force magnitude = %g, want 2", call.Magnitude)
		}
	}

	if *slept < time.Second {
		t.Error("settle delay was not observed")
	}
}

func TestSceneGenerateRespectsSamplingConstraints(t *testing.T) {
	sim := mocks.NewMockSimulator()
	svc, _ := newTestSceneService(sim)
	meshDir := writeMeshDir(t, 6)
	req := testGenerateRequest(meshDir)

	resp, err := svc.Execute(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	positions := resp.Session.Positions
	for i := 1; i < len(positions); i++ {
		if !req.Workspace.Contains(positions[i]) {
			t.Errorf("obstacle %d at %+v outside workspace", i, positions[i])
		}
		for j := 0; j < i; j++ {
			if d := positions[i].DistanceTo(positions[j]); d < req.MinDist {
				t.Errorf("objects %d and %d only %g apart", i, j, d)
			}
		}
	}
}

func TestSceneGenerateDescriptorShortage(t *testing.T) {
	sim := mocks.NewMockSimulator()
	svc, _ := newTestSceneService(sim)
	meshDir := writeMeshDir(t, 2) // fewer than obstacles+1

	resp, err := svc.Execute(context.Background(), testGenerateRequest(meshDir))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Session.Len() > 2 {
		t.Errorf("spawned %d models with only 2 descriptors", resp.Session.Len())
	}
	if len(resp.Warnings) == 0 {
		t.Error("expected a shortage warning")
	}
}

func TestSceneGenerateSpawnFailure(t *testing.T) {
	sim := mocks.NewMockSimulator()
	sim.SpawnErr = fmt.Errorf("bridge down")
	svc, _ := newTestSceneService(sim)
	meshDir := writeMeshDir(t, 6)

	resp, err := svc.Execute(context.Background(), testGenerateRequest(meshDir))
	if err == nil {
		t.Fatal("expected error when nothing could be spawned")
	}
	if resp == nil || resp.Session.Len() != 0 {
		t.Fatal("expected an empty session")
	}
	if len(resp.Warnings) == 0 {
		t.Error("expected per-model warnings")
	}
}

func TestSceneGenerateEmptyMeshDir(t *testing.T) {
	sim := mocks.NewMockSimulator()
	svc, _ := newTestSceneService(sim)

	if _, err := svc.Execute(context.Background(), testGenerateRequest(t.TempDir())); err == nil {
		t.Fatal("expected error for empty mesh directory")
	}
}

func TestSceneClear(t *testing.T) {
	sim := mocks.NewMockSimulator()
	svc, _ := newTestSceneService(sim)
	meshDir := writeMeshDir(t, 6)

	resp, err := svc.Execute(context.Background(), testGenerateRequest(meshDir))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	deleted, warnings := svc.Clear(context.Background(), resp.Session)
	if deleted != resp.Session.Len() {
		t.Errorf("deleted %d of %d models", deleted, resp.Session.Len())
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}

	// Clearing twice warns per missing model instead of failing.
	deleted, warnings = svc.Clear(context.Background(), resp.Session)
	if deleted != 0 {
		t.Errorf("second clear deleted %d models", deleted)
	}
	if len(warnings) != resp.Session.Len() {
		t.Errorf("expected %d warnings, got %d", resp.Session.Len(), len(warnings))
	}
}
