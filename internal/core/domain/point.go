package domain

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Point3 is a position in meters. Pure value, no identity.
type Point3 struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
	Z float64 `yaml:"z" json:"z"`
}

// DistanceTo returns the Euclidean distance between two points.
func (p Point3) DistanceTo(other Point3) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	dz := p.Z - other.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Norm returns the distance from the origin.
func (p Point3) Norm() float64 {
	return p.DistanceTo(Point3{})
}

// Sub returns p - other.
func (p Point3) Sub(other Point3) Point3 {
	return Point3{X: p.X - other.X, Y: p.Y - other.Y, Z: p.Z - other.Z}
}

// Vec converts the point to a gonum r3 vector.
func (p Point3) Vec() r3.Vec {
	return r3.Vec{X: p.X, Y: p.Y, Z: p.Z}
}

// FromVec converts a gonum r3 vector to a Point3.
func FromVec(v r3.Vec) Point3 {
	return Point3{X: v.X, Y: v.Y, Z: v.Z}
}

// Interval is a closed interval on one axis.
type Interval struct {
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max"`
}

// Workspace is a sampling volume: one closed interval per axis.
// A degenerate axis (Min == Max) is legal and collapses sampling to a
// fixed coordinate on that axis.
type Workspace struct {
	X Interval `yaml:"x" json:"x"`
	Y Interval `yaml:"y" json:"y"`
	Z Interval `yaml:"z" json:"z"`
}

// Validate checks the min <= max invariant on every axis.
func (w Workspace) Validate() error {
	for _, axis := range []struct {
		name string
		iv   Interval
	}{
		{"x", w.X},
		{"y", w.Y},
		{"z", w.Z},
	} {
		if axis.iv.Min > axis.iv.Max {
			return fmt.Errorf("workspace %s axis: min %g > max %g", axis.name, axis.iv.Min, axis.iv.Max)
		}
	}
	return nil
}

// Contains reports whether p lies inside the workspace (bounds inclusive).
func (w Workspace) Contains(p Point3) bool {
	return w.X.Min <= p.X && p.X <= w.X.Max &&
		w.Y.Min <= p.Y && p.Y <= w.Y.Max &&
		w.Z.Min <= p.Z && p.Z <= w.Z.Max
}

// Pose is a position plus a roll/pitch/yaw orientation in radians.
type Pose struct {
	Position Point3     `yaml:"position" json:"position"`
	RPY      [3]float64 `yaml:"rpy" json:"rpy"`
}
