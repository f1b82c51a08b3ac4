package dynamo

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Particle is a circular point mass. Mass and radius are fixed at
// construction; Position and Velocity are advanced by a Strategy.
type Particle struct {
	ID       uint32
	Position r2.Vec
	Velocity r2.Vec
	mass     float64
	radius   float64
}

// NewParticle validates mass and radius and returns the particle.
func NewParticle(id uint32, mass, radius float64, pos, vel r2.Vec) (Particle, error) {
	if !(mass > 0) || math.IsInf(mass, 0) {
		return Particle{}, &ConfigError{Field: "mass", Reason: fmt.Sprintf("must be positive, got %g", mass)}
	}
	if radius < 0 || math.IsNaN(radius) || math.IsInf(radius, 0) {
		return Particle{}, &ConfigError{Field: "radius", Reason: fmt.Sprintf("must be non-negative, got %g", radius)}
	}
	return Particle{ID: id, Position: pos, Velocity: vel, mass: mass, radius: radius}, nil
}

func (p Particle) Mass() float64   { return p.mass }
func (p Particle) Radius() float64 { return p.radius }

// Speed is the magnitude of the velocity.
func (p Particle) Speed() float64 { return r2.Norm(p.Velocity) }

// Momentum returns m·v.
func (p Particle) Momentum() r2.Vec { return r2.Scale(p.mass, p.Velocity) }

func (p Particle) IsValid() bool {
	for _, v := range [4]float64{p.Position.X, p.Position.Y, p.Velocity.X, p.Velocity.Y} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (p Particle) String() string {
	return fmt.Sprintf("particle %d: mass=%.3f radius=%.3f pos=(%.4f, %.4f) vel=(%.4f, %.4f)",
		p.ID, p.mass, p.radius, p.Position.X, p.Position.Y, p.Velocity.X, p.Velocity.Y)
}

// Overlaps reports whether the circles of a and b intersect. Touching
// circles do not overlap.
func Overlaps(a, b Particle) bool {
	sum := a.radius + b.radius
	return r2.Norm2(r2.Sub(a.Position, b.Position)) < sum*sum
}

// Bounds is an axis-aligned arena.
type Bounds struct {
	Min r2.Vec
	Max r2.Vec
}

// Symmetric returns the arena [-b, b] × [-b, b].
func Symmetric(b float64) Bounds {
	return Bounds{Min: r2.Vec{X: -b, Y: -b}, Max: r2.Vec{X: b, Y: b}}
}

// Rect returns the arena [0, w] × [0, h].
func Rect(w, h float64) Bounds {
	return Bounds{Max: r2.Vec{X: w, Y: h}}
}

func (b Bounds) Extent() r2.Vec { return r2.Sub(b.Max, b.Min) }

func (b Bounds) Valid() bool {
	ext := b.Extent()
	return ext.X > 0 && ext.Y > 0 && !math.IsInf(ext.X, 0) && !math.IsInf(ext.Y, 0)
}

// Contains reports whether a circle of radius r centred at p lies fully
// inside the arena.
func (b Bounds) Contains(p r2.Vec, r float64) bool {
	return p.X-r >= b.Min.X && p.X+r <= b.Max.X && p.Y-r >= b.Min.Y && p.Y+r <= b.Max.Y
}

// Strategy is a physics mode. Step advances ps by one tick in place.
type Strategy interface {
	Name() string
	Step(ps []Particle)
}

type Metric interface {
	Name() string
	Observe(ps []Particle, frame uint64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(ps []Particle, frame uint64)
}

// RunConfig controls Simulation.Run.
type RunConfig struct {
	Steps         int
	SampleEvery   int
	ValidateState bool
}

func DefaultRunConfig() RunConfig {
	return RunConfig{
		Steps:         1000,
		SampleEvery:   10,
		ValidateState: true,
	}
}

// Snapshot is a copy of the particle population at a frame.
type Snapshot struct {
	Frame     uint64
	Particles []Particle
}

type Result struct {
	Strategy   string
	Snapshots  []Snapshot
	Metrics    map[string]float64
	StepsTaken int
}

// Final returns the last recorded snapshot.
func (r *Result) Final() (Snapshot, bool) {
	if r == nil || len(r.Snapshots) == 0 {
		return Snapshot{}, false
	}
	return r.Snapshots[len(r.Snapshots)-1], true
}
