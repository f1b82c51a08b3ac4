package physics

import (
	"math"

	"github.com/san-kum/particlespace/internal/dynamo"
)

// Boundary enforces the arena edge on a single particle after it moved.
type Boundary interface {
	Name() string
	Apply(p *dynamo.Particle, b dynamo.Bounds)
}

// Wrap gives the arena toroidal topology. A centre leaving one edge is
// translated by the arena extent so it re-enters from the opposite edge.
// Radius is ignored.
type Wrap struct{}

func (Wrap) Name() string { return "wrap" }

func (Wrap) Apply(p *dynamo.Particle, b dynamo.Bounds) {
	p.Position.X = wrap(p.Position.X, b.Min.X, b.Max.X)
	p.Position.Y = wrap(p.Position.Y, b.Min.Y, b.Max.Y)
}

func wrap(x, lo, hi float64) float64 {
	if x >= lo && x < hi {
		return x
	}
	ext := hi - lo
	x = lo + math.Mod(x-lo, ext)
	if x < lo {
		x += ext
	}
	// x+ext can round up to hi for tiny negative offsets.
	if x >= hi {
		x = lo
	}
	return x
}

// Reflect bounces particles off the walls. When the circle crosses an edge
// the velocity component on that axis is turned back into the arena and
// the centre is clamped to [Min+r, Max-r].
type Reflect struct{}

func (Reflect) Name() string { return "reflect" }

func (Reflect) Apply(p *dynamo.Particle, b dynamo.Bounds) {
	r := p.Radius()
	p.Position.X, p.Velocity.X = reflect(p.Position.X, p.Velocity.X, b.Min.X+r, b.Max.X-r)
	p.Position.Y, p.Velocity.Y = reflect(p.Position.Y, p.Velocity.Y, b.Min.Y+r, b.Max.Y-r)
}

func reflect(x, v, lo, hi float64) (float64, float64) {
	if lo > hi {
		return (lo + hi) / 2, 0
	}
	switch {
	case x < lo:
		return lo, math.Abs(v)
	case x > hi:
		return hi, -math.Abs(v)
	}
	return x, v
}

// Open leaves particles free to drift out of the arena.
type Open struct{}

func (Open) Name() string                           { return "open" }
func (Open) Apply(*dynamo.Particle, dynamo.Bounds) {}
