// Package geometry provides the triangle-mesh math behind the inertia
// estimator: bounding boxes, watertightness checks, convex hulls and
// mass-property integration.
package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Triangle is a single mesh facet, vertices in counter-clockwise order when
// viewed from outside.
type Triangle [3]r3.Vec

// Normal returns the (non-normalized) facet normal.
func (t Triangle) Normal() r3.Vec {
	return r3.Cross(r3.Sub(t[1], t[0]), r3.Sub(t[2], t[0]))
}

// Box is an axis-aligned bounding box.
type Box struct {
	Min r3.Vec
	Max r3.Vec
}

// Size returns the box extents per axis.
func (b Box) Size() r3.Vec {
	return r3.Sub(b.Max, b.Min)
}

// Center returns the box center.
func (b Box) Center() r3.Vec {
	return r3.Scale(0.5, r3.Add(b.Min, b.Max))
}

// Volume returns the box volume.
func (b Box) Volume() float64 {
	s := b.Size()
	return s.X * s.Y * s.Z
}

// Mesh is an immutable triangle soup loaded from a file.
type Mesh struct {
	Name      string
	Triangles []Triangle
}

// Bounds returns the axis-aligned bounding box of all vertices. An empty
// mesh yields the zero box.
func (m *Mesh) Bounds() Box {
	if len(m.Triangles) == 0 {
		return Box{}
	}
	min := r3.Vec{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	max := r3.Vec{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)}
	for _, t := range m.Triangles {
		for _, v := range t {
			min.X = math.Min(min.X, v.X)
			min.Y = math.Min(min.Y, v.Y)
			min.Z = math.Min(min.Z, v.Z)
			max.X = math.Max(max.X, v.X)
			max.Y = math.Max(max.Y, v.Y)
			max.Z = math.Max(max.Z, v.Z)
		}
	}
	return Box{Min: min, Max: max}
}

// Vertices returns the deduplicated vertex set. STL soups repeat shared
// vertices with bit-identical coordinates, so exact comparison is enough.
func (m *Mesh) Vertices() []r3.Vec {
	seen := make(map[r3.Vec]struct{}, len(m.Triangles)*3)
	out := make([]r3.Vec, 0, len(m.Triangles)*3)
	for _, t := range m.Triangles {
		for _, v := range t {
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}

// IsWatertight reports whether the mesh is a closed 2-manifold: every
// directed edge must be matched by exactly one opposite directed edge.
// Volume integration is only meaningful on a watertight mesh.
func (m *Mesh) IsWatertight() bool {
	if len(m.Triangles) < 4 {
		return false
	}
	type edge struct{ a, b r3.Vec }
	count := make(map[edge]int, len(m.Triangles)*3)
	for _, t := range m.Triangles {
		for i := 0; i < 3; i++ {
			count[edge{t[i], t[(i+1)%3]}]++
		}
	}
	for e, n := range count {
		if n != 1 {
			return false
		}
		if count[edge{e.b, e.a}] != 1 {
			return false
		}
	}
	return true
}
