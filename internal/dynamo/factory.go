package dynamo

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"
)

// DefaultMaxAttempts is the per-particle placement budget used when
// GenerateSpec.MaxAttempts is zero.
const DefaultMaxAttempts = 10000

// VelocityMode selects the sampling range of velocity components.
type VelocityMode string

const (
	// VelocitySymmetric draws components from [-max, max].
	VelocitySymmetric VelocityMode = "symmetric"
	// VelocityPositive draws components from [0, max].
	VelocityPositive VelocityMode = "positive"
)

// GenerateSpec describes a random particle population.
type GenerateSpec struct {
	Count        int
	MinMass      float64
	MaxMass      float64
	MaxVelocity  float64
	Radius       float64
	Bounds       Bounds
	VelocityMode VelocityMode
	// NoOverlap rejects candidates whose circle intersects an accepted one.
	NoOverlap   bool
	MaxAttempts int
}

func (s GenerateSpec) Validate() error {
	switch {
	case s.Count < 1:
		return &ConfigError{Field: "num_particles", Reason: fmt.Sprintf("must be at least 1, got %d", s.Count)}
	case !(s.MinMass > 0):
		return &ConfigError{Field: "min_mass", Reason: fmt.Sprintf("must be positive, got %g", s.MinMass)}
	case s.MaxMass < s.MinMass || math.IsInf(s.MaxMass, 0):
		return &ConfigError{Field: "max_mass", Reason: fmt.Sprintf("must be finite and >= min_mass (%g), got %g", s.MinMass, s.MaxMass)}
	case !(s.MaxVelocity >= 0) || math.IsInf(s.MaxVelocity, 0):
		return &ConfigError{Field: "max_velocity", Reason: fmt.Sprintf("must be finite and non-negative, got %g", s.MaxVelocity)}
	case !(s.Radius >= 0) || math.IsInf(s.Radius, 0):
		return &ConfigError{Field: "radius", Reason: fmt.Sprintf("must be finite and non-negative, got %g", s.Radius)}
	case s.NoOverlap && s.Radius == 0:
		return &ConfigError{Field: "radius", Reason: "must be positive when particles may not overlap"}
	case !s.Bounds.Valid():
		return &ConfigError{Field: "arena", Reason: "must have positive finite extent"}
	case s.MaxAttempts < 0:
		return &ConfigError{Field: "max_placement_attempts", Reason: fmt.Sprintf("must be non-negative, got %d", s.MaxAttempts)}
	}
	switch s.VelocityMode {
	case "", VelocitySymmetric, VelocityPositive:
	default:
		return &ConfigError{Field: "velocity_mode", Reason: fmt.Sprintf("unknown mode %q", s.VelocityMode)}
	}
	ext := s.Bounds.Extent()
	if ext.X < 2*s.Radius || ext.Y < 2*s.Radius {
		return &ConfigError{Field: "radius", Reason: fmt.Sprintf("particle diameter %g exceeds arena extent (%g, %g)", 2*s.Radius, ext.X, ext.Y)}
	}
	return nil
}

// Generate draws spec.Count particles from rng. IDs follow creation order
// starting at 0. With NoOverlap set each particle gets at most MaxAttempts
// candidates; running out returns a *PlacementError.
func Generate(rng *rand.Rand, spec GenerateSpec) ([]Particle, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	attempts := spec.MaxAttempts
	if attempts == 0 {
		attempts = DefaultMaxAttempts
	}

	log := Logger()
	ps := make([]Particle, 0, spec.Count)
	for i := 0; i < spec.Count; i++ {
		placed := false
		for try := 1; try <= attempts; try++ {
			cand := spec.sample(rng, uint32(i))
			if spec.NoOverlap && overlapsAny(cand, ps) {
				continue
			}
			ps = append(ps, cand)
			placed = true
			if try > 1 {
				log.Debug("particle placed after retries", "index", i, "attempts", try)
			}
			break
		}
		if !placed {
			return nil, &PlacementError{Index: i, Attempts: attempts}
		}
	}
	return ps, nil
}

func (s GenerateSpec) sample(rng *rand.Rand, id uint32) Particle {
	lo := r2.Add(s.Bounds.Min, r2.Vec{X: s.Radius, Y: s.Radius})
	hi := r2.Sub(s.Bounds.Max, r2.Vec{X: s.Radius, Y: s.Radius})

	vlo := -s.MaxVelocity
	if s.VelocityMode == VelocityPositive {
		vlo = 0
	}

	return Particle{
		ID: id,
		Position: r2.Vec{
			X: uniform(rng, lo.X, hi.X),
			Y: uniform(rng, lo.Y, hi.Y),
		},
		Velocity: r2.Vec{
			X: uniform(rng, vlo, s.MaxVelocity),
			Y: uniform(rng, vlo, s.MaxVelocity),
		},
		mass:   uniform(rng, s.MinMass, s.MaxMass),
		radius: s.Radius,
	}
}

func overlapsAny(p Particle, ps []Particle) bool {
	for _, q := range ps {
		if Overlaps(p, q) {
			return true
		}
	}
	return false
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
