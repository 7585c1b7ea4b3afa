package geometry

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// MassProperties holds the result of integrating a solid of uniform density
// bounded by a mesh. Centroid is in the mesh-local frame; Inertia is taken
// about the centroid.
type MassProperties struct {
	Volume   float64
	Mass     float64
	Centroid r3.Vec
	Inertia  *mat.SymDense
}

// canonical covariance of the tetrahedron (origin, e1, e2, e3), scaled by
// its determinant. See Blow & Binstock, "How to find the inertia tensor of
// an arbitrary polyhedron".
var canonicalCov = [3][3]float64{
	{1.0 / 60, 1.0 / 120, 1.0 / 120},
	{1.0 / 120, 1.0 / 60, 1.0 / 120},
	{1.0 / 120, 1.0 / 120, 1.0 / 60},
}

// ComputeMassProperties integrates volume, centroid and inertia tensor from
// a closed mesh by summing signed tetrahedra between each facet and the
// origin. The caller is responsible for ensuring the mesh is watertight;
// on a soup with holes the result is meaningless. An error is returned only
// when the enclosed volume is too small to normalize.
func ComputeMassProperties(m *Mesh, density float64) (MassProperties, error) {
	var (
		volume float64
		first  r3.Vec // centroid accumulator, scaled by volume
		cov    [3][3]float64
	)
	for _, t := range m.Triangles {
		p, q, r := t[0], t[1], t[2]
		det := r3.Dot(p, r3.Cross(q, r)) // 6x signed tetra volume
		volume += det / 6
		first = r3.Add(first, r3.Scale(det/24, r3.Add(r3.Add(p, q), r)))

		// cov += det * Vᵀ · canonicalCov · V, rows of V being p, q, r.
		v := [3][3]float64{
			{p.X, p.Y, p.Z},
			{q.X, q.Y, q.Z},
			{r.X, r.Y, r.Z},
		}
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				var s float64
				for k := 0; k < 3; k++ {
					for l := 0; l < 3; l++ {
						s += v[k][i] * canonicalCov[k][l] * v[l][j]
					}
				}
				cov[i][j] += det * s
			}
		}
	}

	// Inward winding flips every sign uniformly.
	if volume < 0 {
		volume = -volume
		first = r3.Scale(-1, first)
		for i := range cov {
			for j := range cov[i] {
				cov[i][j] = -cov[i][j]
			}
		}
	}
	if volume < 1e-12 {
		return MassProperties{Volume: volume}, fmt.Errorf("mesh volume too small to integrate: %g", volume)
	}

	centroid := r3.Scale(1/volume, first)
	mass := density * volume

	// Scale covariance by density, then translate it to the centroid.
	c := [3]float64{centroid.X, centroid.Y, centroid.Z}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			cov[i][j] = density*cov[i][j] - mass*c[i]*c[j]
		}
	}

	// I = trace(C)·E - C
	tr := cov[0][0] + cov[1][1] + cov[2][2]
	inertia := mat.NewSymDense(3, nil)
	for i := 0; i < 3; i++ {
		for j := i; j < 3; j++ {
			v := -((cov[i][j] + cov[j][i]) / 2)
			if i == j {
				v += tr
			}
			inertia.SetSym(i, j, v)
		}
	}

	return MassProperties{
		Volume:   volume,
		Mass:     mass,
		Centroid: centroid,
		Inertia:  inertia,
	}, nil
}

// BoxInertia returns the closed-form inertia tensor of a solid rectangular
// prism of the given mass and extents, about its center. Diagonal entries
// are floored at minDiag; off-diagonals are zero.
func BoxInertia(mass float64, size r3.Vec, minDiag float64) *mat.SymDense {
	ixx := mass / 12 * (size.Y*size.Y + size.Z*size.Z)
	iyy := mass / 12 * (size.X*size.X + size.Z*size.Z)
	izz := mass / 12 * (size.X*size.X + size.Y*size.Y)
	out := mat.NewSymDense(3, nil)
	out.SetSym(0, 0, math.Max(ixx, minDiag))
	out.SetSym(1, 1, math.Max(iyy, minDiag))
	out.SetSym(2, 2, math.Max(izz, minDiag))
	return out
}
