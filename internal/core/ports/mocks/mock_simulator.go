package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"scenegen/internal/core/domain"
)

// ForceCall records one ApplyForce invocation.
type ForceCall struct {
	Name      string
	Direction domain.Point3
	Magnitude float64
	Duration  time.Duration
}

// MockSimulator is an in-memory implementation of the Simulator port for
// testing. Spawned models report their spawn position as their pose unless
// one is overridden via SetPose.
type MockSimulator struct {
	mu          sync.Mutex
	poses       map[string]domain.Point3
	Spawned     []string
	Descriptors map[string]string
	Deleted     []string
	Forces      []ForceCall

	// Error overrides, nil means success.
	SpawnErr  error
	PoseErr   error
	ForceErr  error
	DeleteErr error
}

// NewMockSimulator creates a new mock simulator.
func NewMockSimulator() *MockSimulator {
	return &MockSimulator{
		poses:       make(map[string]domain.Point3),
		Descriptors: make(map[string]string),
	}
}

// Spawn records the model and its position.
func (m *MockSimulator) Spawn(ctx context.Context, name, descriptor string, pose domain.Pose) error {
	if m.SpawnErr != nil {
		return m.SpawnErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Spawned = append(m.Spawned, name)
	m.Descriptors[name] = descriptor
	m.poses[name] = pose.Position
	return nil
}

// GetPose returns the recorded position for a spawned model.
func (m *MockSimulator) GetPose(ctx context.Context, name string) (domain.Point3, error) {
	if m.PoseErr != nil {
		return domain.Point3{}, m.PoseErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.poses[name]
	if !ok {
		return domain.Point3{}, fmt.Errorf("model not found: %s", name)
	}
	return p, nil
}

// ApplyForce records the call.
func (m *MockSimulator) ApplyForce(ctx context.Context, name string, direction domain.Point3, magnitude float64, duration time.Duration) error {
	if m.ForceErr != nil {
		return m.ForceErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Forces = append(m.Forces, ForceCall{
		Name:      name,
		Direction: direction,
		Magnitude: magnitude,
		Duration:  duration,
	})
	return nil
}

// Delete removes the model.
func (m *MockSimulator) Delete(ctx context.Context, name string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.poses[name]; !ok {
		return fmt.Errorf("model not found: %s", name)
	}
	delete(m.poses, name)
	m.Deleted = append(m.Deleted, name)
	return nil
}

// SetPose overrides the pose reported for a model.
func (m *MockSimulator) SetPose(name string, p domain.Point3) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.poses[name] = p
}
