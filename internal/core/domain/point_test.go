package domain

import (
	"math"
	"testing"
)

func TestPointDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b Point3
		want float64
	}{
		{"coincident", Point3{X: 1, Y: 2, Z: 3}, Point3{X: 1, Y: 2, Z: 3}, 0},
		{"unit x", Point3{}, Point3{X: 1}, 1},
		{"pythagorean", Point3{}, Point3{X: 3, Y: 4}, 5},
		{"negative coords", Point3{X: -1, Y: -1, Z: -1}, Point3{X: 1, Y: 1, Z: 1}, 2 * math.Sqrt(3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.DistanceTo(tt.b); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("distance = %g, want %g", got, tt.want)
			}
			if got := tt.b.DistanceTo(tt.a); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("distance not symmetric: %g", got)
			}
		})
	}
}

func TestWorkspaceValidate(t *testing.T) {
	valid := Workspace{
		X: Interval{Min: -1, Max: 1},
		Y: Interval{Min: 0, Max: 0}, // degenerate axis is legal
		Z: Interval{Min: 0.02, Max: 0.04},
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	inverted := valid
	inverted.Z = Interval{Min: 1, Max: -1}
	if err := inverted.Validate(); err == nil {
		t.Error("expected error for inverted axis")
	}
}

func TestWorkspaceContains(t *testing.T) {
	ws := Workspace{
		X: Interval{Min: -1, Max: 1},
		Y: Interval{Min: -1, Max: 1},
		Z: Interval{Min: 0, Max: 0.5},
	}

	tests := []struct {
		name string
		p    Point3
		want bool
	}{
		{"interior", Point3{Z: 0.25}, true},
		{"on boundary", Point3{X: 1, Y: -1, Z: 0}, true},
		{"outside x", Point3{X: 1.001}, false},
		{"outside z", Point3{Z: 0.6}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ws.Contains(tt.p); got != tt.want {
				t.Errorf("Contains(%+v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}
