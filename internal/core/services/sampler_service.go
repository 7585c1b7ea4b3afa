package services

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"scenegen/internal/core/domain"
)

// coordPrecision rounds sampled coordinates to 4 decimals (0.1 mm) to keep
// floating noise out of descriptor files and logs.
const coordPrecision = 1e4

// SamplerService draws random positions inside a workspace subject to
// separation constraints. It is stateless apart from its RNG.
type SamplerService struct {
	rng *rand.Rand
}

// NewSamplerService creates a sampler. Seed 0 uses a time-based seed;
// anything else makes runs reproducible.
func NewSamplerService(seed int64) *SamplerService {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &SamplerService{rng: rand.New(rand.NewSource(seed))}
}

// SampleRequest describes one sampling call.
type SampleRequest struct {
	// Existing are the already-placed points; must not be empty, the
	// nearest-neighbor constraint is undefined without a seed point.
	Existing  []domain.Point3
	Workspace domain.Workspace
	// MinDist is the minimum separation from every existing point.
	MinDist float64
	// MaxDist is the maximum allowed distance to the nearest existing
	// point; together with MinDist it encourages loose clustering instead
	// of scattering.
	MaxDist     float64
	MaxAttempts int
}

// SampleResponse carries the accepted point, if any.
type SampleResponse struct {
	Point    domain.Point3
	Found    bool
	Attempts int
}

// FindSafePosition rejection-samples a point that keeps MinDist from every
// existing point while staying within MaxDist of its nearest neighbor. The
// first valid candidate wins. Exhausting the attempt budget is not an
// error: Found is false and the caller decides what "could not place"
// means for it.
func (s *SamplerService) FindSafePosition(req SampleRequest) (*SampleResponse, error) {
	if len(req.Existing) == 0 {
		return nil, fmt.Errorf("sampler needs at least one seed point")
	}
	if err := req.Workspace.Validate(); err != nil {
		return nil, err
	}
	if req.MaxAttempts <= 0 {
		return nil, fmt.Errorf("max attempts must be positive, got %d", req.MaxAttempts)
	}

	for attempt := 1; attempt <= req.MaxAttempts; attempt++ {
		candidate := domain.Point3{
			X: s.Uniform(req.Workspace.X),
			Y: s.Uniform(req.Workspace.Y),
			Z: s.Uniform(req.Workspace.Z),
		}
		// Rounding can nudge a coordinate just past a bound.
		if !req.Workspace.Contains(candidate) {
			continue
		}
		if s.isValid(candidate, req) {
			return &SampleResponse{Point: candidate, Found: true, Attempts: attempt}, nil
		}
	}
	return &SampleResponse{Attempts: req.MaxAttempts}, nil
}

func (s *SamplerService) isValid(candidate domain.Point3, req SampleRequest) bool {
	nearest := math.Inf(1)
	for _, p := range req.Existing {
		d := candidate.DistanceTo(p)
		if d < req.MinDist {
			return false
		}
		nearest = math.Min(nearest, d)
	}
	return nearest <= req.MaxDist
}

// Uniform draws one rounded coordinate from the interval. Also used by the
// scene service for drop-pose and yaw sampling.
func (s *SamplerService) Uniform(iv domain.Interval) float64 {
	v := iv.Min + s.rng.Float64()*(iv.Max-iv.Min)
	return math.Round(v*coordPrecision) / coordPrecision
}
