package testutil

import (
	"math"
	"math/rand"
)

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// ComplexNoise generates complex white noise with a fixed seed.
func ComplexNoise(seed int64, length int) []complex128 {
	out := make([]complex128, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = complex(rng.Float64()*2-1, rng.Float64()*2-1)
	}
	return out
}

// PeriodizedGauss returns a length-l Gaussian window matched to hop a and m
// channels, summed over its periodic images. The resulting Gabor frame is
// well conditioned whenever a*m < l, which keeps dual-window solves in tests
// numerically tame.
func PeriodizedGauss(l, a, m int) []float64 {
	out := make([]float64, l)
	w := float64(a*m) / float64(l)
	for i := range out {
		for k := -4; k <= 4; k++ {
			x := float64(i+k*l) / math.Sqrt(float64(l))
			out[i] += math.Exp(-math.Pi * x * x / w)
		}
	}
	return out
}

// Impulse generates a unit impulse at the given position.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}
