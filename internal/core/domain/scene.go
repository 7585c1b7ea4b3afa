package domain

// SceneSession records everything spawned during one scene-generation run.
// It replaces ambient global state: operations take a session and return an
// updated copy, so tests and callers always see the full picture.
type SceneSession struct {
	Models    []string `yaml:"models"`
	Positions []Point3 `yaml:"positions"`
	Yaws      []float64 `yaml:"yaws"`
}

// WithSpawn returns a copy of the session extended by one spawned model.
func (s SceneSession) WithSpawn(name string, position Point3, yaw float64) SceneSession {
	out := SceneSession{
		Models:    make([]string, 0, len(s.Models)+1),
		Positions: make([]Point3, 0, len(s.Positions)+1),
		Yaws:      make([]float64, 0, len(s.Yaws)+1),
	}
	out.Models = append(append(out.Models, s.Models...), name)
	out.Positions = append(append(out.Positions, s.Positions...), position)
	out.Yaws = append(append(out.Yaws, s.Yaws...), yaw)
	return out
}

// Centroid returns the mean of all recorded positions. The zero point is
// returned for an empty session.
func (s SceneSession) Centroid() Point3 {
	if len(s.Positions) == 0 {
		return Point3{}
	}
	var c Point3
	for _, p := range s.Positions {
		c.X += p.X
		c.Y += p.Y
		c.Z += p.Z
	}
	n := float64(len(s.Positions))
	return Point3{X: c.X / n, Y: c.Y / n, Z: c.Z / n}
}

// Len returns the number of spawned models in the session.
func (s SceneSession) Len() int {
	return len(s.Models)
}
