package domain

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// InertiaSource identifies how an inertial result was obtained. Anything
// other than SourceIntegrated means a fallback kicked in; FallbackReason
// says why.
type InertiaSource string

const (
	// SourceIntegrated: mass properties integrated from the mesh itself.
	SourceIntegrated InertiaSource = "integrated"
	// SourceConvexHull: mesh was not watertight, its convex hull was
	// integrated instead.
	SourceConvexHull InertiaSource = "convex-hull"
	// SourceBoundingBox: volume or tensor was degenerate, a rectangular
	// prism of the bounding-box dimensions was substituted.
	SourceBoundingBox InertiaSource = "bounding-box"
	// SourceDefault: the mesh could not be processed at all; a fixed safe
	// default was substituted so the batch keeps going.
	SourceDefault InertiaSource = "default"
)

// MinDiagonalInertia is the floor for tensor diagonal entries, in kg·m².
const MinDiagonalInertia = 1e-7

// InertialProperties is a rigid body's mass, center of mass (mesh-local
// frame) and inertia tensor about the center of mass.
type InertialProperties struct {
	Mass           float64
	CenterOfMass   Point3
	Tensor         *mat.SymDense // 3x3, symmetric
	Source         InertiaSource
	FallbackReason string
}

// Computed reports whether the values came from mesh integration rather
// than a fallback approximation.
func (ip InertialProperties) Computed() bool {
	return ip.Source == SourceIntegrated || ip.Source == SourceConvexHull
}

// Validate checks the invariants callers rely on before serializing: mass
// strictly positive, tensor present and 3x3, diagonal entries at or above
// the floor.
func (ip InertialProperties) Validate() error {
	if ip.Mass <= 0 {
		return fmt.Errorf("mass must be positive, got %g", ip.Mass)
	}
	if ip.Tensor == nil {
		return fmt.Errorf("inertia tensor missing")
	}
	if r, c := ip.Tensor.Dims(); r != 3 || c != 3 {
		return fmt.Errorf("inertia tensor must be 3x3, got %dx%d", r, c)
	}
	for i := 0; i < 3; i++ {
		if ip.Tensor.At(i, i) < MinDiagonalInertia {
			return fmt.Errorf("inertia diagonal entry %d below floor: %g", i, ip.Tensor.At(i, i))
		}
	}
	return nil
}
