package lattice

// Params holds a validated lattice description together with the derived
// factorization integers. All fields are fixed once the parameters are
// validated; they must be recomputed whenever L, A or M changes.
type Params struct {
	L int // transform length
	A int // time hop
	M int // number of frequency channels

	// Lattice type. (0, 1) describes a rectangular lattice.
	Lt1, Lt2 int

	B int // L/M, frequency hop
	N int // L/A, number of time frames
	C int // gcd(A, M)
	D int // gcd(B, N)
	P int // A/C
	Q int // M/C
}

// New validates a rectangular lattice (L, a, M) and derives its factorization.
func New(l, a, m int) (*Params, error) {
	return NewNonsep(l, a, m, 0, 1)
}

// NewNonsep validates a possibly non-separable lattice (L, a, M, lt1, lt2)
// and derives its factorization. The rectangular case is lt1 = 0, lt2 = 1.
func NewNonsep(l, a, m, lt1, lt2 int) (*Params, error) {
	fail := func(reason string) error {
		return &IncompatibleLatticeError{L: l, A: a, M: m, Lt1: lt1, Lt2: lt2, Reason: reason}
	}
	switch {
	case l <= 0:
		return nil, fail("transform length must be positive")
	case a <= 0:
		return nil, fail("time hop must be positive")
	case m <= 0:
		return nil, fail("channel count must be positive")
	case lt2 <= 0:
		return nil, fail("lt2 must be positive")
	case lt1 < 0 || lt1 >= lt2:
		return nil, fail("lt1 must satisfy 0 <= lt1 < lt2")
	case l%a != 0:
		return nil, fail("hop does not divide transform length")
	case l%m != 0:
		return nil, fail("channel count does not divide transform length")
	}

	p := &Params{
		L: l, A: a, M: m,
		Lt1: lt1, Lt2: lt2,
		B: l / m, N: l / a,
	}
	if p.B%lt2 != 0 {
		return nil, fail("lt2 does not divide the frequency hop L/M")
	}
	p.C = gcd(a, m)
	p.D = gcd(p.B, p.N)
	p.P = a / p.C
	p.Q = m / p.C
	return p, nil
}

// Nonseparable reports whether the lattice type describes a sheared lattice.
func (p *Params) Nonseparable() bool { return p.Lt1 != 0 }

// FreqOffset returns the frequency offset w(n) of time frame n, in bins of
// the length-L transform. It is always a multiple of B/Lt2 and less than B.
func (p *Params) FreqOffset(n int) int {
	if p.Lt1 == 0 {
		return 0
	}
	r := n * p.Lt1 % p.Lt2
	if r < 0 {
		r += p.Lt2
	}
	return p.B / p.Lt2 * r
}

// MinimalLength returns the smallest transform length admissible for the
// lattice (a, M, lt1, lt2): the smallest L that a and M divide and whose
// frequency hop L/M is divisible by lt2, so that the fundamental-domain
// tiling closes exactly. Every valid transform length is a multiple of it.
func MinimalLength(a, m, lt1, lt2 int) (int, error) {
	fail := func(reason string) error {
		return &IncompatibleLatticeError{A: a, M: m, Lt1: lt1, Lt2: lt2, Reason: reason}
	}
	switch {
	case a <= 0:
		return 0, fail("time hop must be positive")
	case m <= 0:
		return 0, fail("channel count must be positive")
	case lt2 <= 0:
		return 0, fail("lt2 must be positive")
	case lt1 < 0 || lt1 >= lt2:
		return 0, fail("lt1 must satisfy 0 <= lt1 < lt2")
	}
	l0 := lcm(a, m)
	return l0 * (lt2 / gcd(lt2, l0/m)), nil
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func lcm(a, b int) int { return a / gcd(a, b) * b }
