package metrics

import (
	"github.com/san-kum/particlespace/internal/dynamo"
)

// Containment is the fraction of observed frames in which every circle
// lies inside the arena, within tolerance.
type Containment struct {
	name       string
	bounds     dynamo.Bounds
	tolerance  float64
	violations int
	samples    int
}

func NewContainment(bounds dynamo.Bounds, tolerance float64) *Containment {
	return &Containment{
		name:      "containment",
		bounds:    bounds,
		tolerance: tolerance,
	}
}

func (c *Containment) Name() string {
	return c.name
}

func (c *Containment) Observe(ps []dynamo.Particle, _ uint64) {
	c.samples++
	b := c.bounds
	b.Min.X -= c.tolerance
	b.Min.Y -= c.tolerance
	b.Max.X += c.tolerance
	b.Max.Y += c.tolerance
	for i := range ps {
		if !b.Contains(ps[i].Position, ps[i].Radius()) {
			c.violations++
			break
		}
	}
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Containment) Reset() {
	c.violations = 0
	c.samples = 0
}

// Overlaps is the mean number of overlapping pairs per observed frame.
type Overlaps struct {
	pairs   int
	samples int
}

func NewOverlaps() *Overlaps {
	return &Overlaps{}
}

func (o *Overlaps) Name() string { return "overlaps" }

func (o *Overlaps) Observe(ps []dynamo.Particle, _ uint64) {
	for i := range ps {
		for j := i + 1; j < len(ps); j++ {
			if dynamo.Overlaps(ps[i], ps[j]) {
				o.pairs++
			}
		}
	}
	o.samples++
}

func (o *Overlaps) Value() float64 {
	if o.samples == 0 {
		return 0
	}
	return float64(o.pairs) / float64(o.samples)
}

func (o *Overlaps) Reset() {
	o.pairs = 0
	o.samples = 0
}
