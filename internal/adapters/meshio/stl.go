// Package meshio adapts on-disk mesh files to the geometry types the
// services work with.
package meshio

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hschendel/stl"
	"gonum.org/v1/gonum/spatial/r3"

	"scenegen/pkg/geometry"
)

// STLLoader reads binary or ASCII STL files.
type STLLoader struct{}

// NewSTLLoader creates a new STL loader.
func NewSTLLoader() *STLLoader {
	return &STLLoader{}
}

// Load reads an STL file into a triangle soup. The solid name falls back to
// the file name when the file carries none.
func (l *STLLoader) Load(path string) (*geometry.Mesh, error) {
	solid, err := stl.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mesh %s: %w", path, err)
	}

	name := strings.TrimSpace(solid.Name)
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	mesh := &geometry.Mesh{
		Name:      name,
		Triangles: make([]geometry.Triangle, 0, len(solid.Triangles)),
	}
	for _, t := range solid.Triangles {
		mesh.Triangles = append(mesh.Triangles, geometry.Triangle{
			vec(t.Vertices[0]),
			vec(t.Vertices[1]),
			vec(t.Vertices[2]),
		})
	}
	if len(mesh.Triangles) == 0 {
		return nil, fmt.Errorf("mesh %s contains no triangles", path)
	}
	return mesh, nil
}

func vec(v stl.Vec3) r3.Vec {
	return r3.Vec{X: float64(v[0]), Y: float64(v[1]), Z: float64(v[2])}
}
