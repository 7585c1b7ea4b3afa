package mocks

import (
	"fmt"

	"scenegen/pkg/geometry"
)

// MockMeshLoader serves canned meshes by path.
type MockMeshLoader struct {
	Meshes map[string]*geometry.Mesh
	Err    error
}

// NewMockMeshLoader creates an empty mock loader.
func NewMockMeshLoader() *MockMeshLoader {
	return &MockMeshLoader{Meshes: make(map[string]*geometry.Mesh)}
}

// Load returns the canned mesh registered for path.
func (m *MockMeshLoader) Load(path string) (*geometry.Mesh, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	mesh, ok := m.Meshes[path]
	if !ok {
		return nil, fmt.Errorf("mesh not found: %s", path)
	}
	return mesh, nil
}
