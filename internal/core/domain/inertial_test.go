package domain

import (
	"testing"

	"gonum.org/v1/gonum/mat"
)

func diagTensor(xx, yy, zz float64) *mat.SymDense {
	t := mat.NewSymDense(3, nil)
	t.SetSym(0, 0, xx)
	t.SetSym(1, 1, yy)
	t.SetSym(2, 2, zz)
	return t
}

func TestInertialValidate(t *testing.T) {
	tests := []struct {
		name    string
		props   InertialProperties
		wantErr bool
	}{
		{
			name: "valid",
			props: InertialProperties{
				Mass:   0.8,
				Tensor: diagTensor(0.001, 0.001, 0.001),
				Source: SourceIntegrated,
			},
		},
		{
			name: "zero mass",
			props: InertialProperties{
				Mass:   0,
				Tensor: diagTensor(0.001, 0.001, 0.001),
			},
			wantErr: true,
		},
		{
			name: "missing tensor",
			props: InertialProperties{
				Mass: 0.8,
			},
			wantErr: true,
		},
		{
			name: "diagonal below floor",
			props: InertialProperties{
				Mass:   0.8,
				Tensor: diagTensor(1e-9, 0.001, 0.001),
			},
			wantErr: true,
		},
		{
			name: "diagonal at floor",
			props: InertialProperties{
				Mass:   0.8,
				Tensor: diagTensor(MinDiagonalInertia, MinDiagonalInertia, MinDiagonalInertia),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.props.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestInertialComputed(t *testing.T) {
	for source, want := range map[InertiaSource]bool{
		SourceIntegrated:  true,
		SourceConvexHull:  true,
		SourceBoundingBox: false,
		SourceDefault:     false,
	} {
		if got := (InertialProperties{Source: source}).Computed(); got != want {
			t.Errorf("Computed() for %s = %v, want %v", source, got, want)
		}
	}
}
