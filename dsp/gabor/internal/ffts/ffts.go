// Package ffts provides fixed-size complex DFT plans for the Gabor transform
// kernels. Power-of-two sizes are served by the algo-fft codelet plans; every
// other size falls back to gonum's general mixed-radix transform, which
// handles arbitrary composite and prime lengths exactly.
//
// Both directions are unnormalized: Forward computes the plain DFT sum and
// Inverse its adjoint without the 1/n factor. The factorization kernels rely
// on this convention to absorb all scaling into the factored windows.
package ffts

import (
	"math/cmplx"

	algofft "github.com/MeKo-Christian/algo-fft"
	"gonum.org/v1/gonum/dsp/fourier"
)

// Plan computes unnormalized DFTs of a fixed size n.
type Plan struct {
	n    int
	fast *algofft.FastPlan[complex128]
	gen  *fourier.CmplxFFT
	buf  []complex128
}

// New creates a plan for size n. n must be positive.
func New(n int) *Plan {
	p := &Plan{n: n, buf: make([]complex128, n)}
	if n >= 2 && n&(n-1) == 0 {
		if fp, err := algofft.NewFastPlan[complex128](n); err == nil {
			p.fast = fp
			return p
		}
	}
	p.gen = fourier.NewCmplxFFT(n)
	return p
}

// Len returns the transform size.
func (p *Plan) Len() int { return p.n }

// Forward computes the unnormalized forward DFT of src into dst.
// dst and src must both have length n and must not alias.
func (p *Plan) Forward(dst, src []complex128) {
	if p.fast != nil {
		p.fast.Forward(dst, src)
		return
	}
	p.gen.Coefficients(dst, src)
}

// Inverse computes the unnormalized inverse DFT (the plain adjoint sum,
// without the 1/n factor) of src into dst. dst and src must both have
// length n and must not alias.
func (p *Plan) Inverse(dst, src []complex128) {
	if p.fast != nil {
		buf := p.buf
		for i, v := range src {
			buf[i] = cmplx.Conj(v)
		}
		p.fast.Forward(dst, buf)
		for i, v := range dst {
			dst[i] = cmplx.Conj(v)
		}
		return
	}
	p.gen.Sequence(dst, src)
}
