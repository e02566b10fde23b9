package gabor

import (
	"github.com/cwbudde/algo-vecmath"
)

// Coefficients holds a Gabor coefficient array in the canonical M x N x W
// layout: M frequency channels, N time frames, W signal channels. Data is
// stored flat with the frequency index fastest; entry (m, n, w) lives at
// Data[(w*N+n)*M+m].
type Coefficients struct {
	M, N, W int
	Data    []complex128
}

// NewCoefficients allocates a zeroed coefficient array.
func NewCoefficients(m, n, w int) *Coefficients {
	return &Coefficients{M: m, N: n, W: w, Data: make([]complex128, m*n*w)}
}

// At returns the coefficient for frequency channel m, time frame n and
// signal channel w.
func (c *Coefficients) At(m, n, w int) complex128 {
	return c.Data[(w*c.N+n)*c.M+m]
}

// Channel returns the M x N coefficient slab of signal channel w as a view
// into the underlying data.
func (c *Coefficients) Channel(w int) []complex128 {
	return c.Data[w*c.M*c.N : (w+1)*c.M*c.N]
}

// Magnitudes returns |c(m,n)| for signal channel w as a flat M x N slice in
// the same layout as Channel. This is the spectrogram fast path; the
// magnitude extraction is SIMD-accelerated where available.
func (c *Coefficients) Magnitudes(w int) []float64 {
	slab := c.Channel(w)
	re := make([]float64, len(slab))
	im := make([]float64, len(slab))
	for i, v := range slab {
		re[i] = real(v)
		im[i] = imag(v)
	}
	out := make([]float64, len(slab))
	vecmath.Magnitude(out, re, im)
	return out
}
