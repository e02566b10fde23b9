package gabor

import (
	"math"
	"math/cmplx"
)

// chirpSeq returns the length-l quadratic chirp
//
//	w(n) = exp(i*pi*s*n^2*(l+1)/l)
//
// with the exponent reduced modulo 2l in exact integer arithmetic before the
// complex exponential is taken. The reduction keeps the phase argument small,
// so the sequence stays accurate for lattice sizes far beyond what naive
// float accumulation of s*n^2 would allow.
func chirpSeq(l, s int) []complex128 {
	out := make([]complex128, l)
	mod := 2 * int64(l)
	ss := int64(s) % mod
	if ss < 0 {
		ss += mod
	}
	lp1 := int64(l+1) % mod
	for n := 0; n < l; n++ {
		n2 := (int64(n) * int64(n)) % mod
		e := (ss * n2) % mod
		e = (e * lp1) % mod
		out[n] = cmplx.Exp(complex(0, math.Pi*float64(e)/float64(l)))
	}
	return out
}
