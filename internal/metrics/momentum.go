package metrics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/particlespace/internal/dynamo"
	"github.com/san-kum/particlespace/internal/physics"
)

// MomentumDrift is the largest |P(t) - P(0)| seen, normalised by Σ m|v|
// of the first frame so that a population at rest does not divide by zero.
type MomentumDrift struct {
	initial  r2.Vec
	scale    float64
	maxDrift float64
	samples  int
}

func NewMomentumDrift() *MomentumDrift {
	return &MomentumDrift{}
}

func (m *MomentumDrift) Name() string { return "momentum_drift" }

func (m *MomentumDrift) Observe(ps []dynamo.Particle, _ uint64) {
	p := physics.Momentum(ps)
	if m.samples == 0 {
		m.initial = p
		for i := range ps {
			m.scale += r2.Norm(ps[i].Momentum())
		}
	}
	m.samples++

	drift := r2.Norm(r2.Sub(p, m.initial))
	if m.scale > 0 {
		drift /= m.scale
	}
	m.maxDrift = math.Max(m.maxDrift, drift)
}

func (m *MomentumDrift) Value() float64 { return m.maxDrift }

func (m *MomentumDrift) Reset() {
	m.initial = r2.Vec{}
	m.scale = 0
	m.maxDrift = 0
	m.samples = 0
}
