package services

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"scenegen/internal/core/domain"
	"scenegen/internal/core/ports"
	"scenegen/pkg/geometry"
)

const (
	// DefaultDensity is a compromise value for household-object datasets,
	// in kg/m^3.
	DefaultDensity = 800.0

	// minVolume is the floor below which an integrated volume is treated
	// as degenerate.
	minVolume = 1e-9

	// minExtent keeps bounding-box fallbacks away from zero-size axes.
	minExtent = 1e-6
)

// InertiaService estimates physically plausible mass properties for mesh
// assets. It never fails: degenerate geometry degrades through a chain of
// fallbacks, each recorded in the result's Source and FallbackReason.
type InertiaService struct {
	loader ports.MeshLoader
}

// NewInertiaService creates a new inertia service.
func NewInertiaService(loader ports.MeshLoader) *InertiaService {
	return &InertiaService{loader: loader}
}

// EstimateFile loads a mesh and estimates its inertial properties. An
// unreadable mesh yields the fixed safe default rather than an error, so a
// bad file never stops a batch.
func (s *InertiaService) EstimateFile(path string, density float64) domain.InertialProperties {
	mesh, err := s.loader.Load(path)
	if err != nil {
		return defaultInertial(fmt.Sprintf("mesh unreadable: %v", err))
	}
	return s.Estimate(mesh, density)
}

// Estimate computes mass, center of mass and inertia tensor for a mesh of
// uniform density:
//
//  1. a non-watertight mesh is replaced by its convex hull;
//  2. a near-zero volume falls back to the bounding-box prism;
//  3. a tensor with near-zero or sub-floor diagonal entries is replaced by
//     the closed-form prism tensor for the bounding box and computed mass.
func (s *InertiaService) Estimate(mesh *geometry.Mesh, density float64) domain.InertialProperties {
	if density <= 0 {
		density = DefaultDensity
	}

	work := mesh
	source := domain.SourceIntegrated
	reason := ""

	if !mesh.IsWatertight() {
		hull, err := geometry.ConvexHull(mesh.Vertices())
		if err != nil {
			// Flat or collinear geometry: nothing left to integrate.
			return boxApproximation(mesh.Bounds(), density,
				fmt.Sprintf("mesh not watertight and hull degenerate: %v", err))
		}
		work = hull
		source = domain.SourceConvexHull
		reason = "mesh not watertight, integrated its convex hull"
	}

	props, err := geometry.ComputeMassProperties(work, density)
	if err != nil || props.Volume < minVolume {
		return boxApproximation(work.Bounds(), density,
			fmt.Sprintf("enclosed volume too small (%.3e)", props.Volume))
	}

	tensor := props.Inertia
	if degenerateTensor(tensor) {
		bounds := work.Bounds()
		size := clampExtent(bounds.Size())
		return domain.InertialProperties{
			Mass:           props.Mass,
			CenterOfMass:   domain.FromVec(props.Centroid),
			Tensor:         geometry.BoxInertia(props.Mass, size, domain.MinDiagonalInertia),
			Source:         domain.SourceBoundingBox,
			FallbackReason: "integrated inertia tensor below floor",
		}
	}

	return domain.InertialProperties{
		Mass:           props.Mass,
		CenterOfMass:   domain.FromVec(props.Centroid),
		Tensor:         tensor,
		Source:         source,
		FallbackReason: reason,
	}
}

// boxApproximation treats the object as a solid rectangular prism filling
// its bounding box.
func boxApproximation(bounds geometry.Box, density float64, reason string) domain.InertialProperties {
	size := clampExtent(bounds.Size())
	volume := size.X * size.Y * size.Z
	mass := density * volume
	return domain.InertialProperties{
		Mass:           mass,
		CenterOfMass:   domain.FromVec(bounds.Center()),
		Tensor:         geometry.BoxInertia(mass, size, domain.MinDiagonalInertia),
		Source:         domain.SourceBoundingBox,
		FallbackReason: reason,
	}
}

// defaultInertial is the last-resort substitute: small positive mass, zero
// centroid, small uniform diagonal tensor.
func defaultInertial(reason string) domain.InertialProperties {
	tensor := mat.NewSymDense(3, nil)
	for i := 0; i < 3; i++ {
		tensor.SetSym(i, i, 1e-3)
	}
	return domain.InertialProperties{
		Mass:           0.1,
		CenterOfMass:   domain.Point3{},
		Tensor:         tensor,
		Source:         domain.SourceDefault,
		FallbackReason: reason,
	}
}

func degenerateTensor(t *mat.SymDense) bool {
	allZero := true
	for i := 0; i < 3; i++ {
		if t.At(i, i) < domain.MinDiagonalInertia {
			return true
		}
		for j := 0; j < 3; j++ {
			if t.At(i, j) != 0 {
				allZero = false
			}
		}
	}
	return allZero
}

func clampExtent(size r3.Vec) r3.Vec {
	clamp := func(v float64) float64 {
		if v < minExtent {
			return minExtent
		}
		return v
	}
	return r3.Vec{X: clamp(size.X), Y: clamp(size.Y), Z: clamp(size.Z)}
}
