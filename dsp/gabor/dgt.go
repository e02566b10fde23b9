package gabor

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-gabor/dsp/gabor/internal/ffts"
	"github.com/cwbudde/algo-gabor/dsp/lattice"
)

// Plan is a reusable rectangular-lattice Gabor transform for fixed
// (L, a, M, W). It owns all FFT plans and scratch buffers, so repeated calls
// allocate only their output arrays. A Plan must not be shared between
// concurrent callers.
//
// The transform convention is
//
//	c(m,n) = sum_l f(l) * conj(g(l - a*n)) * exp(-2i*pi*l*m/M)
//
// with all indices periodic modulo L. Analyze computes c from a factored
// analysis window; Synthesize is its exact adjoint and reconstructs f when
// given the factorization of the canonical dual window.
type Plan struct {
	par *lattice.Params
	w   int

	fftD *ffts.Plan
	fftM *ffts.Plan

	tw     []complex128 // exp(2i*pi*nu/d)
	sf     []complex128 // factored signal, (p*q*W) x (c*d)
	hdata  []complex128 // M x N x W intermediate for synthesis
	rowBuf []complex128 // length M
	acc    []complex128 // length d
	seq    []complex128 // length d
	fscale complex128   // 1/sqrt(d)
}

// NewPlan creates a rectangular transform plan for signals of length l with
// w channels on the lattice (a, m).
func NewPlan(l, a, m, w int) (*Plan, error) {
	par, err := lattice.New(l, a, m)
	if err != nil {
		return nil, err
	}
	if w <= 0 {
		return nil, fmt.Errorf("gabor: channel count must be positive: %d", w)
	}
	p := &Plan{
		par:    par,
		w:      w,
		fftD:   ffts.New(par.D),
		fftM:   ffts.New(par.M),
		tw:     make([]complex128, par.D),
		sf:     make([]complex128, par.P*par.Q*w*par.C*par.D),
		hdata:  make([]complex128, par.M*par.N*w),
		rowBuf: make([]complex128, par.M),
		acc:    make([]complex128, par.D),
		seq:    make([]complex128, par.D),
		fscale: complex(1/math.Sqrt(float64(par.D)), 0),
	}
	for nu := range p.tw {
		p.tw[nu] = cmplx.Exp(complex(0, 2*math.Pi*float64(nu)/float64(par.D)))
	}
	return p, nil
}

// Params returns the validated lattice parameters of the plan.
func (p *Plan) Params() *lattice.Params { return p.par }

// Analyze computes the rectangular-lattice Gabor coefficients of signal with
// the factored analysis window fw. The signal is not modified.
func (p *Plan) Analyze(signal [][]complex128, fw *FactoredWindow) (*Coefficients, error) {
	if err := p.checkSignal(signal); err != nil {
		return nil, err
	}
	if err := p.checkWindow(fw); err != nil {
		return nil, err
	}
	par := p.par
	p.factorSignal(signal)

	out := NewCoefficients(par.M, par.N, p.w)
	cd := par.C * par.D
	for w := 0; w < p.w; w++ {
		for r := 0; r < par.C; r++ {
			for s := 0; s < par.Q; s++ {
				v := r + par.C*s
				for nt := 0; nt < par.Q; nt++ {
					sp, k0 := shiftPair(s, nt, par.P, par.Q)
					for nu := range p.acc {
						p.acc[nu] = 0
					}
					for e := 0; e < par.P; e++ {
						ep := e - k0
						wrapped := ep < 0
						if wrapped {
							ep += par.P
						}
						fb := p.sf[((w*par.Q+s)*par.P+e)*cd+r*par.D:]
						gb := fw.Data[(sp*par.P+ep)*cd+r*par.D:]
						if wrapped {
							for nu := 0; nu < par.D; nu++ {
								p.acc[nu] += fb[nu] * cmplx.Conj(gb[nu]) * p.tw[nu]
							}
						} else {
							for nu := 0; nu < par.D; nu++ {
								p.acc[nu] += fb[nu] * cmplx.Conj(gb[nu])
							}
						}
					}
					p.fftD.Inverse(p.seq, p.acc)
					for tau := 0; tau < par.D; tau++ {
						out.Data[(w*par.N+nt+par.Q*tau)*par.M+v] = p.seq[tau]
					}
				}
			}
		}
	}

	// Length-M DFT across frequency residues turns the folded frames into
	// the final coefficients.
	for w := 0; w < p.w; w++ {
		for n := 0; n < par.N; n++ {
			row := out.Data[(w*par.N+n)*par.M : (w*par.N+n+1)*par.M]
			copy(p.rowBuf, row)
			p.fftM.Forward(row, p.rowBuf)
		}
	}
	return out, nil
}

// Synthesize applies the adjoint transform: it maps coefficients back to a
// signal using the factored synthesis window fw. When fw is the factorization
// of the canonical dual of the analysis window, Synthesize inverts Analyze
// exactly up to floating-point error.
func (p *Plan) Synthesize(coef *Coefficients, fw *FactoredWindow) ([][]complex128, error) {
	par := p.par
	if coef.M != par.M || coef.N != par.N || coef.W != p.w {
		return nil, &ShapeMismatchError{
			WantM: par.M, WantN: par.N, WantW: p.w,
			GotM: coef.M, GotN: coef.N, GotW: coef.W,
		}
	}
	if err := p.checkWindow(fw); err != nil {
		return nil, err
	}

	// Per-frame inverse DFT back to frequency residues.
	for w := 0; w < p.w; w++ {
		for n := 0; n < par.N; n++ {
			src := coef.Data[(w*par.N+n)*par.M : (w*par.N+n+1)*par.M]
			copy(p.rowBuf, src)
			p.fftM.Inverse(p.hdata[(w*par.N+n)*par.M:(w*par.N+n+1)*par.M], p.rowBuf)
		}
	}

	for i := range p.sf {
		p.sf[i] = 0
	}
	cd := par.C * par.D
	for w := 0; w < p.w; w++ {
		for r := 0; r < par.C; r++ {
			for s := 0; s < par.Q; s++ {
				v := r + par.C*s
				for nt := 0; nt < par.Q; nt++ {
					sp, k0 := shiftPair(s, nt, par.P, par.Q)
					for tau := 0; tau < par.D; tau++ {
						p.seq[tau] = p.hdata[(w*par.N+nt+par.Q*tau)*par.M+v]
					}
					p.fftD.Forward(p.acc, p.seq)
					for e := 0; e < par.P; e++ {
						ep := e - k0
						wrapped := ep < 0
						if wrapped {
							ep += par.P
						}
						sb := p.sf[((w*par.Q+s)*par.P+e)*cd+r*par.D:]
						gb := fw.Data[(sp*par.P+ep)*cd+r*par.D:]
						if wrapped {
							for nu := 0; nu < par.D; nu++ {
								sb[nu] += p.acc[nu] * gb[nu] * cmplx.Conj(p.tw[nu])
							}
						} else {
							for nu := 0; nu < par.D; nu++ {
								sb[nu] += p.acc[nu] * gb[nu]
							}
						}
					}
				}
			}
		}
	}
	return p.defactorSignal(), nil
}

// factorSignal fills p.sf with the Walnut factorization of the signal, using
// the same decomposition as Factorize with the channel count in place of R.
func (p *Plan) factorSignal(signal [][]complex128) {
	par := p.par
	cd := par.C * par.D
	for w, ch := range signal {
		for r := 0; r < par.C; r++ {
			for s := 0; s < par.Q; s++ {
				base := r + par.C*s
				for e := 0; e < par.P; e++ {
					for h := 0; h < par.D; h++ {
						p.seq[h] = ch[base+par.M*(e+par.P*h)]
					}
					p.fftD.Forward(p.acc, p.seq)
					dst := p.sf[((w*par.Q+s)*par.P+e)*cd+r*par.D:]
					for nu := 0; nu < par.D; nu++ {
						dst[nu] = p.acc[nu] * p.fscale
					}
				}
			}
		}
	}
}

func (p *Plan) defactorSignal() [][]complex128 {
	par := p.par
	cd := par.C * par.D
	out := make([][]complex128, p.w)
	for w := range out {
		ch := make([]complex128, par.L)
		for r := 0; r < par.C; r++ {
			for s := 0; s < par.Q; s++ {
				base := r + par.C*s
				for e := 0; e < par.P; e++ {
					src := p.sf[((w*par.Q+s)*par.P+e)*cd+r*par.D:]
					copy(p.acc, src[:par.D])
					p.fftD.Inverse(p.seq, p.acc)
					for h := 0; h < par.D; h++ {
						ch[base+par.M*(e+par.P*h)] = p.seq[h] * p.fscale
					}
				}
			}
		}
		out[w] = ch
	}
	return out
}

func (p *Plan) checkSignal(signal [][]complex128) error {
	if len(signal) != p.w {
		return fmt.Errorf("gabor: expected %d signal channels, got %d", p.w, len(signal))
	}
	for w, ch := range signal {
		if len(ch) != p.par.L {
			return fmt.Errorf("gabor: signal channel %d has length %d, want %d", w, len(ch), p.par.L)
		}
	}
	return nil
}

func (p *Plan) checkWindow(fw *FactoredWindow) error {
	if fw.L != p.par.L || fw.A != p.par.A || fw.M != p.par.M {
		return fmt.Errorf("gabor: factored window is for L=%d a=%d M=%d, want L=%d a=%d M=%d",
			fw.L, fw.A, fw.M, p.par.L, p.par.A, p.par.M)
	}
	if fw.R != 1 {
		return fmt.Errorf("gabor: transform requires a single factored window, got %d", fw.R)
	}
	return nil
}

// shiftPair returns the folded residue shift s' and the carry k0 linking the
// signal residue s with the window residue for frame residue nt.
func shiftPair(s, nt, p, q int) (sp, k0 int) {
	t := p * nt
	sp = (s - t) % q
	if sp < 0 {
		sp += q
	}
	return sp, (t + sp - s) / q
}

// Analyze computes rectangular-lattice Gabor coefficients without a reusable
// plan. For repeated transforms with the same parameters, create a Plan.
func Analyze(signal [][]complex128, fw *FactoredWindow, a, m int) (*Coefficients, error) {
	if len(signal) == 0 {
		return nil, fmt.Errorf("gabor: empty signal")
	}
	p, err := NewPlan(len(signal[0]), a, m, len(signal))
	if err != nil {
		return nil, err
	}
	return p.Analyze(signal, fw)
}

// AnalyzeReal computes rectangular-lattice Gabor coefficients of a real
// signal. The channels are widened to complex and routed through the general
// kernel; the factored window may come from FactorizeReal.
func AnalyzeReal(signal [][]float64, fw *FactoredWindow, a, m int) (*Coefficients, error) {
	cs := make([][]complex128, len(signal))
	for w, ch := range signal {
		cc := make([]complex128, len(ch))
		for i, v := range ch {
			cc[i] = complex(v, 0)
		}
		cs[w] = cc
	}
	return Analyze(cs, fw, a, m)
}

// Synthesize maps coefficients back to a length-l signal without a reusable
// plan. For repeated transforms with the same parameters, create a Plan.
func Synthesize(coef *Coefficients, fw *FactoredWindow, l, a, m int) ([][]complex128, error) {
	p, err := NewPlan(l, a, m, coef.W)
	if err != nil {
		return nil, err
	}
	return p.Synthesize(coef, fw)
}
