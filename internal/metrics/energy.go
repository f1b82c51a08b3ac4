package metrics

import (
	"math"

	"github.com/san-kum/particlespace/internal/dynamo"
	"github.com/san-kum/particlespace/internal/physics"
)

// Energy is the mean total energy over all observed frames.
type Energy struct {
	name        string
	g           float64
	minDist     float64
	samples     int
	totalEnergy float64
}

func NewEnergy(G, minDist float64) *Energy {
	return &Energy{
		name:    "energy",
		g:       G,
		minDist: minDist,
	}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(ps []dynamo.Particle, _ uint64) {
	e.totalEnergy += physics.TotalEnergy(ps, e.g, e.minDist)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// EnergyDrift is the largest relative deviation of total energy from the
// first observed frame. With G = 0 it tracks kinetic energy only.
type EnergyDrift struct {
	name          string
	g             float64
	minDist       float64
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift(G, minDist float64) *EnergyDrift {
	return &EnergyDrift{
		name:    "energy_drift",
		g:       G,
		minDist: minDist,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(ps []dynamo.Particle, _ uint64) {
	energy := physics.TotalEnergy(ps, e.g, e.minDist)

	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}

// KineticEnergy is the kinetic energy of the last observed frame.
type KineticEnergy struct {
	last float64
}

func NewKineticEnergy() *KineticEnergy { return &KineticEnergy{} }

func (k *KineticEnergy) Name() string { return "kinetic_energy" }
func (k *KineticEnergy) Observe(ps []dynamo.Particle, _ uint64) {
	k.last = physics.KineticEnergy(ps)
}
func (k *KineticEnergy) Value() float64 { return k.last }
func (k *KineticEnergy) Reset()         { k.last = 0 }
