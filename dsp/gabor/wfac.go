package gabor

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/cwbudde/algo-gabor/dsp/gabor/internal/ffts"
	"github.com/cwbudde/algo-gabor/dsp/lattice"
)

// FactoredWindow is the Walnut-representation factorization of R length-L
// windows for the lattice (a, M). Block (r, s, e, rw) with r < c, s < q,
// e < p holds the length-d DFT of h -> g[r + c*s + M*(e + p*h)], scaled by
// 1/sqrt(d). Data is laid out as (p*q*R) rows of (c*d) columns: the entry
// (r, s, e, rw, nu) lives at Data[((rw*q+s)*p+e)*(c*d) + r*d + nu].
//
// The factored form is the unique intermediate that turns the per-frame
// correlation of the direct transform into block FFTs; it is owned
// transiently per transform call and never persisted.
type FactoredWindow struct {
	L, A, M, R int
	C, D, P, Q int
	Data       []complex128
}

// Factorize computes the Walnut factorization of one or more windows for the
// lattice (a, M). All windows must share the same length L, which together
// with a and M must form a valid rectangular lattice.
func Factorize(windows [][]complex128, a, m int) (*FactoredWindow, error) {
	par, err := factorParams(len(windows), windows, a, m)
	if err != nil {
		return nil, err
	}
	fw := newFactoredWindow(par, len(windows))
	ft := ffts.New(par.D)
	tmp := make([]complex128, par.D)
	out := make([]complex128, par.D)
	scale := complex(1/math.Sqrt(float64(par.D)), 0)
	cd := par.C * par.D
	for rw, win := range windows {
		for r := 0; r < par.C; r++ {
			for s := 0; s < par.Q; s++ {
				base := r + par.C*s
				for e := 0; e < par.P; e++ {
					for h := 0; h < par.D; h++ {
						tmp[h] = win[base+par.M*(e+par.P*h)]
					}
					ft.Forward(out, tmp)
					dst := fw.Data[((rw*par.Q+s)*par.P+e)*cd+r*par.D:]
					for nu := 0; nu < par.D; nu++ {
						dst[nu] = out[nu] * scale
					}
				}
			}
		}
	}
	return fw, nil
}

// FactorizeReal is the real-input fast path of Factorize. It runs length-d
// real FFTs and expands the Hermitian half-spectra, avoiding the complex
// transforms entirely.
func FactorizeReal(windows [][]float64, a, m int) (*FactoredWindow, error) {
	if len(windows) == 0 {
		return nil, fmt.Errorf("gabor: factorization requires at least one window")
	}
	l := len(windows[0])
	for _, win := range windows {
		if len(win) != l {
			return nil, fmt.Errorf("gabor: window length mismatch: %d != %d", len(win), l)
		}
	}
	par, err := lattice.New(l, a, m)
	if err != nil {
		return nil, err
	}
	fw := newFactoredWindow(par, len(windows))
	ft := fourier.NewFFT(par.D)
	tmp := make([]float64, par.D)
	half := make([]complex128, par.D/2+1)
	scale := complex(1/math.Sqrt(float64(par.D)), 0)
	cd := par.C * par.D
	for rw, win := range windows {
		for r := 0; r < par.C; r++ {
			for s := 0; s < par.Q; s++ {
				base := r + par.C*s
				for e := 0; e < par.P; e++ {
					for h := 0; h < par.D; h++ {
						tmp[h] = win[base+par.M*(e+par.P*h)]
					}
					ft.Coefficients(half, tmp)
					dst := fw.Data[((rw*par.Q+s)*par.P+e)*cd+r*par.D:]
					for nu := 0; nu < par.D; nu++ {
						if nu < len(half) {
							dst[nu] = half[nu] * scale
						} else {
							dst[nu] = cmplx.Conj(half[par.D-nu]) * scale
						}
					}
				}
			}
		}
	}
	return fw, nil
}

// Defactorize reconstructs the windows from their factorization. It is the
// inverse of Factorize up to floating-point error of the length-d FFTs.
func Defactorize(fw *FactoredWindow, l, a, m int) ([][]complex128, error) {
	if fw.L != l || fw.A != a || fw.M != m {
		return nil, fmt.Errorf("gabor: factored window is for L=%d a=%d M=%d, not L=%d a=%d M=%d",
			fw.L, fw.A, fw.M, l, a, m)
	}
	par, err := lattice.New(l, a, m)
	if err != nil {
		return nil, err
	}
	windows := make([][]complex128, fw.R)
	ft := ffts.New(par.D)
	tmp := make([]complex128, par.D)
	out := make([]complex128, par.D)
	scale := complex(1/math.Sqrt(float64(par.D)), 0)
	cd := par.C * par.D
	for rw := range windows {
		win := make([]complex128, l)
		for r := 0; r < par.C; r++ {
			for s := 0; s < par.Q; s++ {
				base := r + par.C*s
				for e := 0; e < par.P; e++ {
					src := fw.Data[((rw*par.Q+s)*par.P+e)*cd+r*par.D:]
					copy(tmp, src[:par.D])
					ft.Inverse(out, tmp)
					for h := 0; h < par.D; h++ {
						win[base+par.M*(e+par.P*h)] = out[h] * scale
					}
				}
			}
		}
		windows[rw] = win
	}
	return windows, nil
}

func factorParams(r int, windows [][]complex128, a, m int) (*lattice.Params, error) {
	if r == 0 {
		return nil, fmt.Errorf("gabor: factorization requires at least one window")
	}
	l := len(windows[0])
	for _, win := range windows {
		if len(win) != l {
			return nil, fmt.Errorf("gabor: window length mismatch: %d != %d", len(win), l)
		}
	}
	return lattice.New(l, a, m)
}

func newFactoredWindow(par *lattice.Params, r int) *FactoredWindow {
	return &FactoredWindow{
		L: par.L, A: par.A, M: par.M, R: r,
		C: par.C, D: par.D, P: par.P, Q: par.Q,
		Data: make([]complex128, par.P*par.Q*r*par.C*par.D),
	}
}
