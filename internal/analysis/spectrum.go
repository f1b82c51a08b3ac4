package analysis

import (
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/stat"
)

// Bin is one frequency of a power spectrum.
type Bin struct {
	Frequency float64
	Power     float64
}

// PowerSpectrum returns the magnitude of the real FFT of values with the
// mean removed, so the zero bin only holds residual offset. dt is the
// spacing between samples.
func PowerSpectrum(values []float64, dt float64) []Bin {
	n := len(values)
	if n < 2 || dt <= 0 {
		return nil
	}

	mean := stat.Mean(values, nil)
	centered := make([]float64, n)
	for i, v := range values {
		centered[i] = v - mean
	}

	fft := fourier.NewFFT(n)
	coeff := fft.Coefficients(nil, centered)

	bins := make([]Bin, len(coeff))
	for i, c := range coeff {
		bins[i] = Bin{Frequency: fft.Freq(i) / dt, Power: cmplx.Abs(c)}
	}
	return bins
}

// DominantFrequency returns the strongest non-zero bin. ok is false when
// the series is too short or flat.
func DominantFrequency(values []float64, dt float64) (Bin, bool) {
	bins := PowerSpectrum(values, dt)
	var best Bin
	for _, b := range bins[min(1, len(bins)):] {
		if b.Power > best.Power {
			best = b
		}
	}
	return best, best.Power > 0
}
