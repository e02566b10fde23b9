package gabor

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/cwbudde/algo-gabor/dsp/lattice"
	"github.com/cwbudde/algo-gabor/internal/testutil"
)

// directDGT evaluates the transform straight from its definition:
// c(m,n) = sum_l f(l) * conj(g(l-a*n)) * exp(-2i*pi*l*(m*b + offset(n))/L).
// It covers rectangular and non-separable lattices and is the ground truth
// for every fast-path test.
func directDGT(t *testing.T, f, g []complex128, par *lattice.Params) *Coefficients {
	t.Helper()
	if len(f) != par.L || len(g) != par.L {
		t.Fatalf("reference inputs must have length %d", par.L)
	}
	out := NewCoefficients(par.M, par.N, 1)
	for n := 0; n < par.N; n++ {
		off := par.FreqOffset(n)
		for m := 0; m < par.M; m++ {
			freq := float64(m*par.B+off) / float64(par.L)
			var acc complex128
			for l := 0; l < par.L; l++ {
				gi := (l - par.A*n) % par.L
				if gi < 0 {
					gi += par.L
				}
				ph := cmplx.Exp(complex(0, -2*math.Pi*freq*float64(l)))
				acc += f[l] * cmplx.Conj(g[gi]) * ph
			}
			out.Data[n*par.M+m] = acc
		}
	}
	return out
}

// dualWindow computes the canonical dual of g on the lattice by solving the
// frame-operator system S gd = g built from the direct transform matrix.
func dualWindow(t *testing.T, g []complex128, par *lattice.Params) []complex128 {
	t.Helper()
	l := par.L
	// S[l1][l2] = sum over lattice atoms of g_mn(l1) * conj(g_mn(l2)).
	s := make([][]complex128, l)
	for i := range s {
		s[i] = make([]complex128, l)
	}
	atom := make([]complex128, l)
	for n := 0; n < par.N; n++ {
		off := par.FreqOffset(n)
		for m := 0; m < par.M; m++ {
			freq := float64(m*par.B+off) / float64(l)
			for i := 0; i < l; i++ {
				gi := (i - par.A*n) % l
				if gi < 0 {
					gi += l
				}
				atom[i] = g[gi] * cmplx.Exp(complex(0, 2*math.Pi*freq*float64(i)))
			}
			for i := 0; i < l; i++ {
				ai := atom[i]
				for j := 0; j < l; j++ {
					s[i][j] += ai * cmplx.Conj(atom[j])
				}
			}
		}
	}
	return solveLinear(t, s, g)
}

// solveLinear solves A x = b by Gaussian elimination with partial pivoting.
// The matrix is overwritten. Test-only: gonum's LU factorizations are real
// valued, and the frame systems here are small dense complex matrices.
func solveLinear(t *testing.T, a [][]complex128, b []complex128) []complex128 {
	t.Helper()
	n := len(a)
	x := make([]complex128, n)
	copy(x, b)
	for col := 0; col < n; col++ {
		piv := col
		for r := col + 1; r < n; r++ {
			if cmplx.Abs(a[r][col]) > cmplx.Abs(a[piv][col]) {
				piv = r
			}
		}
		if cmplx.Abs(a[piv][col]) == 0 {
			t.Fatal("singular frame operator; the test window does not generate a frame")
		}
		a[col], a[piv] = a[piv], a[col]
		x[col], x[piv] = x[piv], x[col]
		inv := 1 / a[col][col]
		for r := col + 1; r < n; r++ {
			factor := a[r][col] * inv
			if factor == 0 {
				continue
			}
			for c := col; c < n; c++ {
				a[r][c] -= factor * a[col][c]
			}
			x[r] -= factor * x[col]
		}
	}
	for col := n - 1; col >= 0; col-- {
		acc := x[col]
		for c := col + 1; c < n; c++ {
			acc -= a[col][c] * x[c]
		}
		x[col] = acc / a[col][col]
	}
	return x
}

// testWindow returns a periodized Gaussian matched to the lattice with a
// small deterministic complex perturbation, so duals exist and stay well
// conditioned while the window is still fully complex.
func testWindow(t *testing.T, par *lattice.Params, seed int64) []complex128 {
	t.Helper()
	g := make([]complex128, par.L)
	for i, v := range testutil.PeriodizedGauss(par.L, par.A, par.M) {
		g[i] = complex(v, 0)
	}
	for i, v := range testutil.ComplexNoise(seed, par.L) {
		g[i] += 0.05 * v
	}
	return g
}
