package physics

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/particlespace/internal/dynamo"
)

// DefaultEpsilon is the centre separation below which Elastic skips a pair.
const DefaultEpsilon = 1e-9

// Pair indexes two overlapping particles, I < J.
type Pair struct {
	I, J int
}

// Detect returns every overlapping pair in ascending (I, J) order.
func Detect(ps []dynamo.Particle) []Pair {
	return appendOverlaps(nil, ps)
}

func appendOverlaps(dst []Pair, ps []dynamo.Particle) []Pair {
	for i := range ps {
		for j := i + 1; j < len(ps); j++ {
			if dynamo.Overlaps(ps[i], ps[j]) {
				dst = append(dst, Pair{I: i, J: j})
			}
		}
	}
	return dst
}

// Resolver updates the velocities of a colliding pair in place and reports
// whether it changed anything.
type Resolver interface {
	Name() string
	Resolve(a, b *dynamo.Particle) bool
}

// Elastic conserves momentum and kinetic energy along the line of centres.
// Pairs closer than Epsilon and pairs already moving apart are skipped.
type Elastic struct {
	Epsilon float64
}

func NewElastic() Elastic {
	return Elastic{Epsilon: DefaultEpsilon}
}

func (Elastic) Name() string { return "elastic" }

func (e Elastic) Resolve(a, b *dynamo.Particle) bool {
	dx := r2.Sub(a.Position, b.Position)
	d2 := r2.Norm2(dx)
	if d2 < e.Epsilon*e.Epsilon || d2 == 0 {
		dynamo.Logger().Debug("skipping coincident pair", "a", a.ID, "b", b.ID)
		return false
	}
	dot := r2.Dot(r2.Sub(a.Velocity, b.Velocity), dx)
	if dot >= 0 {
		return false
	}

	m1, m2 := a.Mass(), b.Mass()
	k := dot / d2 * 2 / (m1 + m2)
	a.Velocity = r2.Sub(a.Velocity, r2.Scale(k*m2, dx))
	b.Velocity = r2.Add(b.Velocity, r2.Scale(k*m1, dx))
	return true
}

// Reverse negates both velocities. It conserves kinetic energy but only
// conserves momentum when the pair's total momentum is zero.
type Reverse struct{}

func (Reverse) Name() string { return "reverse" }

func (Reverse) Resolve(a, b *dynamo.Particle) bool {
	a.Velocity = r2.Scale(-1, a.Velocity)
	b.Velocity = r2.Scale(-1, b.Velocity)
	return true
}

// ResolveAll applies r to pairs in order. Each pair sees the velocities
// left by the pairs before it. It returns the number of pairs changed.
func ResolveAll(ps []dynamo.Particle, pairs []Pair, r Resolver) int {
	n := 0
	for _, pr := range pairs {
		if r.Resolve(&ps[pr.I], &ps[pr.J]) {
			n++
		}
	}
	return n
}

// Collision is the hard-sphere mode. There is no sub-stepping, so fast
// particles may pass through each other within one tick.
type Collision struct {
	Resolver Resolver
	Boundary Boundary
	Bounds   dynamo.Bounds

	pairs []Pair
}

func NewCollision(resolver Resolver, boundary Boundary, bounds dynamo.Bounds) *Collision {
	return &Collision{
		Resolver: resolver,
		Boundary: boundary,
		Bounds:   bounds,
	}
}

func (c *Collision) Name() string { return "collision" }

func (c *Collision) Step(ps []dynamo.Particle) {
	for i := range ps {
		p := &ps[i]
		p.Position = r2.Add(p.Position, p.Velocity)
		c.Boundary.Apply(p, c.Bounds)
	}
	c.pairs = appendOverlaps(c.pairs[:0], ps)
	ResolveAll(ps, c.pairs, c.Resolver)
}
