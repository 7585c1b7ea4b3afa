package geometry

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

// boxMesh builds a closed, outward-wound triangle mesh for the box [min,max].
func boxMesh(min, max r3.Vec) *Mesh {
	v := []r3.Vec{
		{X: min.X, Y: min.Y, Z: min.Z},
		{X: max.X, Y: min.Y, Z: min.Z},
		{X: max.X, Y: max.Y, Z: min.Z},
		{X: min.X, Y: max.Y, Z: min.Z},
		{X: min.X, Y: min.Y, Z: max.Z},
		{X: max.X, Y: min.Y, Z: max.Z},
		{X: max.X, Y: max.Y, Z: max.Z},
		{X: min.X, Y: max.Y, Z: max.Z},
	}
	idx := [][3]int{
		{0, 2, 1}, {0, 3, 2}, // bottom
		{4, 5, 6}, {4, 6, 7}, // top
		{0, 1, 5}, {0, 5, 4}, // front
		{3, 7, 6}, {3, 6, 2}, // back
		{0, 4, 7}, {0, 7, 3}, // left
		{1, 2, 6}, {1, 6, 5}, // right
	}
	m := &Mesh{Name: "box"}
	for _, f := range idx {
		m.Triangles = append(m.Triangles, Triangle{v[f[0]], v[f[1]], v[f[2]]})
	}
	return m
}

func TestMeshBounds(t *testing.T) {
	m := boxMesh(r3.Vec{X: -1, Y: -2, Z: -3}, r3.Vec{X: 4, Y: 5, Z: 6})
	b := m.Bounds()

	if b.Min != (r3.Vec{X: -1, Y: -2, Z: -3}) {
		t.Errorf("unexpected min: %+v", b.Min)
	}
	if b.Max != (r3.Vec{X: 4, Y: 5, Z: 6}) {
		t.Errorf("unexpected max: %+v", b.Max)
	}
	if got, want := b.Volume(), 5.0*7*9; math.Abs(got-want) > 1e-9 {
		t.Errorf("volume = %g, want %g", got, want)
	}
	if c := b.Center(); math.Abs(c.X-1.5) > 1e-9 {
		t.Errorf("unexpected center: %+v", c)
	}
}

func TestIsWatertight(t *testing.T) {
	closed := boxMesh(r3.Vec{}, r3.Vec{X: 1, Y: 1, Z: 1})
	if !closed.IsWatertight() {
		t.Error("closed box reported as not watertight")
	}

	open := &Mesh{Triangles: closed.Triangles[1:]} // drop one facet
	if open.IsWatertight() {
		t.Error("box with a hole reported as watertight")
	}

	soup := &Mesh{Triangles: closed.Triangles[:2]}
	if soup.IsWatertight() {
		t.Error("flat soup reported as watertight")
	}
}

func TestVerticesDeduplicates(t *testing.T) {
	m := boxMesh(r3.Vec{}, r3.Vec{X: 1, Y: 1, Z: 1})
	if got := len(m.Vertices()); got != 8 {
		t.Errorf("expected 8 distinct vertices, got %d", got)
	}
}
