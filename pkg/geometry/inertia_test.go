package geometry

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestComputeMassPropertiesBox(t *testing.T) {
	// 0.1 m cube at density 800 kg/m^3: mass 0.8 kg, diagonal inertia
	// m/12*(a^2+b^2) = 0.8/12*0.02 ~= 0.001333.
	m := boxMesh(r3.Vec{X: -0.05, Y: -0.05, Z: -0.05}, r3.Vec{X: 0.05, Y: 0.05, Z: 0.05})

	props, err := ComputeMassProperties(m, 800)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if math.Abs(props.Volume-0.001) > 1e-9 {
		t.Errorf("volume = %g, want 0.001", props.Volume)
	}
	if math.Abs(props.Mass-0.8) > 1e-6 {
		t.Errorf("mass = %g, want 0.8", props.Mass)
	}
	if r3.Norm(props.Centroid) > 1e-9 {
		t.Errorf("centroid = %+v, want origin", props.Centroid)
	}
	want := 0.8 / 12 * 0.02
	for i := 0; i < 3; i++ {
		if got := props.Inertia.At(i, i); math.Abs(got-want) > 1e-6 {
			t.Errorf("inertia[%d][%d] = %g, want %g", i, i, got, want)
		}
		for j := 0; j < 3; j++ {
			if i != j && math.Abs(props.Inertia.At(i, j)) > 1e-9 {
				t.Errorf("off-diagonal inertia[%d][%d] = %g, want 0", i, j, props.Inertia.At(i, j))
			}
		}
	}
}

func TestComputeMassPropertiesOffCenter(t *testing.T) {
	// Same cube shifted away from the origin: tensor is about the centroid,
	// so it must not change.
	m := boxMesh(r3.Vec{X: 1.0, Y: 2.0, Z: 3.0}, r3.Vec{X: 1.1, Y: 2.1, Z: 3.1})

	props, err := ComputeMassProperties(m, 800)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if math.Abs(props.Mass-0.8) > 1e-6 {
		t.Errorf("mass = %g, want 0.8", props.Mass)
	}
	wantCentroid := r3.Vec{X: 1.05, Y: 2.05, Z: 3.05}
	if r3.Norm(r3.Sub(props.Centroid, wantCentroid)) > 1e-9 {
		t.Errorf("centroid = %+v, want %+v", props.Centroid, wantCentroid)
	}
	want := 0.8 / 12 * 0.02
	for i := 0; i < 3; i++ {
		if got := props.Inertia.At(i, i); math.Abs(got-want) > 1e-6 {
			t.Errorf("inertia[%d][%d] = %g, want %g", i, i, got, want)
		}
	}
}

func TestComputeMassPropertiesInwardWinding(t *testing.T) {
	m := boxMesh(r3.Vec{}, r3.Vec{X: 0.2, Y: 0.2, Z: 0.2})
	for i, tri := range m.Triangles {
		m.Triangles[i] = Triangle{tri[0], tri[2], tri[1]}
	}

	props, err := ComputeMassProperties(m, 1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(props.Volume-0.008) > 1e-9 {
		t.Errorf("volume = %g, want 0.008", props.Volume)
	}
	if props.Mass <= 0 {
		t.Errorf("mass = %g, want > 0", props.Mass)
	}
}

func TestComputeMassPropertiesDegenerate(t *testing.T) {
	// A flat soup encloses no volume.
	flat := &Mesh{Triangles: []Triangle{
		{r3.Vec{}, r3.Vec{X: 1}, r3.Vec{Y: 1}},
		{r3.Vec{X: 1}, r3.Vec{X: 1, Y: 1}, r3.Vec{Y: 1}},
	}}
	if _, err := ComputeMassProperties(flat, 800); err == nil {
		t.Error("expected error for zero-volume mesh")
	}
}

func TestBoxInertia(t *testing.T) {
	tests := []struct {
		name    string
		mass    float64
		size    r3.Vec
		minDiag float64
		want    [3]float64
	}{
		{
			name: "0.1m cube at 0.8kg",
			mass: 0.8,
			size: r3.Vec{X: 0.1, Y: 0.1, Z: 0.1},
			want: [3]float64{0.8 / 12 * 0.02, 0.8 / 12 * 0.02, 0.8 / 12 * 0.02},
		},
		{
			name:    "tiny box floors at minimum",
			mass:    1e-6,
			size:    r3.Vec{X: 1e-4, Y: 1e-4, Z: 1e-4},
			minDiag: 1e-7,
			want:    [3]float64{1e-7, 1e-7, 1e-7},
		},
		{
			name: "flat plate",
			mass: 1.2,
			size: r3.Vec{X: 0.3, Y: 0.2, Z: 0},
			want: [3]float64{1.2 / 12 * 0.04, 1.2 / 12 * 0.09, 1.2 / 12 * 0.13},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BoxInertia(tt.mass, tt.size, tt.minDiag)
			for i := 0; i < 3; i++ {
				if math.Abs(got.At(i, i)-tt.want[i]) > 1e-12 {
					t.Errorf("diag[%d] = %g, want %g", i, got.At(i, i), tt.want[i])
				}
				for j := 0; j < 3; j++ {
					if i != j && got.At(i, j) != 0 {
						t.Errorf("off-diagonal [%d][%d] = %g, want 0", i, j, got.At(i, j))
					}
				}
			}
		})
	}
}
