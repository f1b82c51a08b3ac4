package analysis

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/particlespace/internal/dynamo"
	"github.com/san-kum/particlespace/internal/physics"
)

// EnergySeries returns the energy of every snapshot. With G zero only the
// kinetic term is used.
func EnergySeries(snaps []dynamo.Snapshot, G, minDist float64) []float64 {
	out := make([]float64, len(snaps))
	for i, s := range snaps {
		if G == 0 {
			out[i] = physics.KineticEnergy(s.Particles)
		} else {
			out[i] = physics.TotalEnergy(s.Particles, G, minDist)
		}
	}
	return out
}

type Summary struct {
	N        int
	Mean     float64
	StdDev   float64
	Min, Max float64
	// Drift is |last - first| / |first|, or the absolute change when first is 0.
	Drift float64
}

// Summarize returns the zero Summary for an empty series.
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	s := Summary{
		N:   len(values),
		Min: floats.Min(values),
		Max: floats.Max(values),
	}
	if len(values) > 1 {
		s.Mean, s.StdDev = stat.MeanStdDev(values, nil)
	} else {
		s.Mean = values[0]
	}
	first, last := values[0], values[len(values)-1]
	s.Drift = math.Abs(last - first)
	if first != 0 {
		s.Drift /= math.Abs(first)
	}
	return s
}
