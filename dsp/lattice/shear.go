package lattice

// Shear describes an integer shear pair together with the equivalent
// rectangular lattice it produces. Applying a quadratic-phase chirp with
// parameter S1 in the time domain and -S0 in the frequency domain maps the
// non-separable lattice onto the rectangular lattice with hop Ar and channel
// count Mr = L/X, where X = L/Mr is the rectangular frequency hop.
type Shear struct {
	S0, S1 int
	X      int // frequency hop of the rectangular lattice (br)
	Ar     int // time hop of the rectangular lattice
	Mr     int // channel count of the rectangular lattice
}

// FindShear searches for the integer shear parameters of a non-separable
// lattice. The search is exhaustive over the lattice-distinct shear values,
// so it is bounded by L in each direction; candidates are ranked by smallest
// X, then smallest S1 and S0. A rectangular lattice trivially maps to itself.
//
// The accepted solution always satisfies Ar*X == A*B: shearing re-parameterizes
// the lattice without changing its fundamental-domain area, so the redundancy
// Mr/Ar equals M/A.
func FindShear(p *Params) (Shear, error) {
	if !p.Nonseparable() {
		return Shear{X: p.B, Ar: p.A, Mr: p.M}, nil
	}

	// Lattice generators as (time, frequency) pairs: (A, sigma) and (0, B).
	sigma := p.B / p.Lt2 * p.Lt1

	var best Shear
	found := false
	for s1 := 0; s1 < p.N; s1++ {
		// Frequency coordinate of the first generator after the s1 shear.
		// The second generator (0, B) is unchanged, so the sheared lattice
		// has frequency coordinates gcd(sig1, B)*Z exactly.
		sig1 := (p.A*s1 + sigma) % p.L
		x := gcd(sig1, p.B)
		ar := p.A * (p.B / x)
		if p.L%ar != 0 {
			continue
		}
		if found && x >= best.X {
			continue
		}
		// The s0 shear leaves frequency coordinates untouched; both sheared
		// generators must land on time coordinates divisible by ar. Equality
		// with the rectangular lattice then follows from unimodularity of the
		// combined shear and equal point counts.
		for s0 := 0; s0 < p.L/x; s0++ {
			w1t := (p.A + s0*sig1) % p.L
			w2t := s0 * p.B % p.L
			if w1t%ar == 0 && w2t%ar == 0 {
				best = Shear{S0: s0, S1: s1, X: x, Ar: ar, Mr: p.L / x}
				found = true
				break
			}
		}
	}
	if !found {
		return Shear{}, &NoShearFoundError{L: p.L, A: p.A, M: p.M, Lt1: p.Lt1, Lt2: p.Lt2}
	}
	return best, nil
}
