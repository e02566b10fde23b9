package gabor

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/tphakala/simd/c128"

	"github.com/cwbudde/algo-gabor/dsp/gabor/internal/ffts"
	"github.com/cwbudde/algo-gabor/dsp/lattice"
)

// NonsepPlan computes Gabor transforms on a non-separable (quincunx-style)
// time-frequency lattice by shearing it onto an equivalent rectangular
// lattice. The plan solves for the shear once, caches the chirp sequences and
// the coefficient permutation, and delegates the heavy lifting to the
// rectangular kernel on the sheared parameters.
//
// Analysis runs in three stages: the signal and window are multiplied by a
// quadratic time chirp and a frequency-domain chirp, a rectangular transform
// with time step ar and mr channels is taken, and the resulting coefficients
// are phase-corrected and permuted back onto the requested lattice.
type NonsepPlan struct {
	par   *lattice.Params
	shear lattice.Shear
	w     int

	rect   *Plan
	fftL   *ffts.Plan
	chirp1 []complex128 // time-domain chirp, exponent s1
	chirp0 []complex128 // frequency-domain chirp, exponent -s0
	phase  []complex128 // per rectangular cell, |phase| == 1
	perm   []int        // rectangular cell -> n*M+m on the target lattice

	sigBuf  []complex128
	specBuf []complex128
}

// NewNonsepPlan creates a plan for W-channel signals of length l on the
// lattice (a, m, lt1, lt2).
func NewNonsepPlan(l, a, m, lt1, lt2, w int) (*NonsepPlan, error) {
	par, err := lattice.NewNonsep(l, a, m, lt1, lt2)
	if err != nil {
		return nil, err
	}
	sh, err := lattice.FindShear(par)
	if err != nil {
		return nil, err
	}
	rect, err := NewPlan(l, sh.Ar, sh.Mr, w)
	if err != nil {
		return nil, err
	}
	p := &NonsepPlan{
		par:     par,
		shear:   sh,
		w:       w,
		rect:    rect,
		fftL:    ffts.New(l),
		chirp1:  chirpSeq(l, sh.S1),
		chirp0:  chirpSeq(l, -sh.S0),
		sigBuf:  make([]complex128, l),
		specBuf: make([]complex128, l),
	}
	if err := p.buildMapping(); err != nil {
		return nil, err
	}
	return p, nil
}

// Params returns the validated lattice parameters of the plan.
func (p *NonsepPlan) Params() *lattice.Params { return p.par }

// Shear returns the cached shear decomposition of the lattice.
func (p *NonsepPlan) Shear() lattice.Shear { return p.shear }

// buildMapping precomputes, for every cell of the sheared rectangular
// coefficient grid, the metaplectic phase factor and the destination cell on
// the requested lattice. The shear maps the rectangular grid bijectively onto
// the lattice, so every destination is hit exactly once.
func (p *NonsepPlan) buildMapping() error {
	par, sh := p.par, p.shear
	l := par.L
	nr := l / sh.Ar
	p.phase = make([]complex128, sh.Mr*nr)
	p.perm = make([]int, sh.Mr*nr)
	mod2l := 2 * int64(l)
	lp1 := int64(l+1) % mod2l
	for j := 0; j < nr; j++ {
		u := j * sh.Ar
		for i := 0; i < sh.Mr; i++ {
			v := i * sh.X
			k := j*sh.Mr + i

			// Undo the shears on the lattice point: S1 acts on time after
			// S0 acted on frequency, so they unwind in the opposite order.
			upp := mod(u-sh.S0*v, l)
			vpp := mod(v-sh.S1*upp, l)
			if upp%par.A != 0 {
				return &LatticeIndexingError{I: i, J: j,
					Reason: "time position not on the lattice"}
			}
			n := upp / par.A
			m := vpp / par.B
			if vpp%par.B != par.FreqOffset(n) {
				return &LatticeIndexingError{I: i, J: j,
					Reason: "frequency position off the lattice column"}
			}
			p.perm[k] = n*par.M + m

			e1 := int64(upp%l) % mod2l
			e2 := int64(v % l)
			e := (int64(sh.S0)%mod2l*(e2*e2%mod2l) + int64(sh.S1)%mod2l*(e1*e1%mod2l)) % mod2l
			e = (e%mod2l + mod2l) % mod2l
			e = (e * lp1) % mod2l
			p.phase[k] = cmplx.Exp(complex(0, math.Pi*float64(e)/float64(l)))
		}
	}
	return nil
}

// Analyze computes Gabor coefficients of signal with the analysis window g on
// the plan's lattice. The window must have length L; the signal is not
// modified.
func (p *NonsepPlan) Analyze(signal [][]complex128, g []complex128) (*Coefficients, error) {
	if err := p.rect.checkSignal(signal); err != nil {
		return nil, err
	}
	fw, err := p.chirpedFactorization(g)
	if err != nil {
		return nil, err
	}
	return p.analyzeFactored(signal, fw)
}

// analyzeFactored runs the sheared analysis against an already chirped and
// factored window. The streaming engine uses it to amortize the window
// factorization across buffers.
func (p *NonsepPlan) analyzeFactored(signal [][]complex128, fw *FactoredWindow) (*Coefficients, error) {
	chirped := make([][]complex128, p.w)
	for w, ch := range signal {
		cc := make([]complex128, p.par.L)
		p.chirpInto(cc, ch)
		chirped[w] = cc
	}
	rc, err := p.rect.Analyze(chirped, fw)
	if err != nil {
		return nil, err
	}

	out := NewCoefficients(p.par.M, p.par.N, p.w)
	mn := p.par.M * p.par.N
	for w := 0; w < p.w; w++ {
		src := rc.Data[w*mn : (w+1)*mn]
		dst := out.Data[w*mn : (w+1)*mn]
		for k, pk := range p.perm {
			dst[pk] = src[k] * p.phase[k]
		}
	}
	return out, nil
}

// Synthesize maps coefficients back to a signal using the synthesis window
// gd. It is the exact adjoint of Analyze; with the canonical dual of the
// analysis window it reconstructs the input exactly up to floating-point
// error.
func (p *NonsepPlan) Synthesize(coef *Coefficients, gd []complex128) ([][]complex128, error) {
	if coef.M != p.par.M || coef.N != p.par.N || coef.W != p.w {
		return nil, &ShapeMismatchError{
			WantM: p.par.M, WantN: p.par.N, WantW: p.w,
			GotM: coef.M, GotN: coef.N, GotW: coef.W,
		}
	}
	fw, err := p.chirpedFactorization(gd)
	if err != nil {
		return nil, err
	}

	rc := NewCoefficients(p.shear.Mr, p.par.L/p.shear.Ar, p.w)
	mn := p.par.M * p.par.N
	for w := 0; w < p.w; w++ {
		src := coef.Data[w*mn : (w+1)*mn]
		dst := rc.Data[w*mn : (w+1)*mn]
		for k, pk := range p.perm {
			dst[k] = src[pk] * cmplx.Conj(p.phase[k])
		}
	}
	out, err := p.rect.Synthesize(rc, fw)
	if err != nil {
		return nil, err
	}
	for _, ch := range out {
		p.unchirpInPlace(ch)
	}
	return out, nil
}

// chirpedFactorization applies the plan's forward chirps to win and factors
// the result for the sheared rectangular lattice.
func (p *NonsepPlan) chirpedFactorization(win []complex128) (*FactoredWindow, error) {
	if len(win) != p.par.L {
		return nil, fmt.Errorf("gabor: window has length %d, want %d", len(win), p.par.L)
	}
	cw := make([]complex128, p.par.L)
	p.chirpInto(cw, win)
	return Factorize([][]complex128{cw}, p.shear.Ar, p.shear.Mr)
}

// chirpInto writes the chirped copy of src into dst: time chirp first, then
// the frequency-domain chirp through a full-length FFT pair.
func (p *NonsepPlan) chirpInto(dst, src []complex128) {
	if p.shear.S0 == 0 && p.shear.S1 == 0 {
		copy(dst, src)
		return
	}
	l := p.par.L
	c128.Mul(p.sigBuf, src, p.chirp1)
	if p.shear.S0 == 0 {
		copy(dst, p.sigBuf)
		return
	}
	p.fftL.Forward(p.specBuf, p.sigBuf)
	c128.Mul(p.specBuf, p.specBuf, p.chirp0)
	copy(p.sigBuf, p.specBuf)
	p.fftL.Inverse(dst, p.sigBuf)
	scale := complex(1/float64(l), 0)
	for i := range dst {
		dst[i] *= scale
	}
}

// unchirpInPlace removes the forward chirps from ch, frequency first.
func (p *NonsepPlan) unchirpInPlace(ch []complex128) {
	if p.shear.S0 == 0 && p.shear.S1 == 0 {
		return
	}
	l := p.par.L
	if p.shear.S0 != 0 {
		p.fftL.Forward(p.specBuf, ch)
		for i, v := range p.specBuf {
			p.sigBuf[i] = v * cmplx.Conj(p.chirp0[i])
		}
		p.fftL.Inverse(ch, p.sigBuf)
		scale := complex(1/float64(l), 0)
		for i := range ch {
			ch[i] *= scale
		}
	}
	for i, v := range ch {
		ch[i] = v * cmplx.Conj(p.chirp1[i])
	}
}

func mod(x, m int) int {
	r := x % m
	if r < 0 {
		r += m
	}
	return r
}

// NonsepAnalyze computes Gabor coefficients on the non-separable lattice
// (a, m, lt1, lt2) without a reusable plan. For repeated transforms with the
// same parameters, create a NonsepPlan.
func NonsepAnalyze(signal [][]complex128, g []complex128, a, m, lt1, lt2 int) (*Coefficients, error) {
	p, err := NewNonsepPlan(len(g), a, m, lt1, lt2, len(signal))
	if err != nil {
		return nil, err
	}
	return p.Analyze(signal, g)
}

// NonsepSynthesize maps coefficients back to a signal on the non-separable
// lattice (a, m, lt1, lt2). For repeated transforms with the same parameters,
// create a NonsepPlan.
func NonsepSynthesize(coef *Coefficients, gd []complex128, a, m, lt1, lt2 int) ([][]complex128, error) {
	p, err := NewNonsepPlan(len(gd), a, m, lt1, lt2, coef.W)
	if err != nil {
		return nil, err
	}
	return p.Synthesize(coef, gd)
}
