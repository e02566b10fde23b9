package lattice

import "fmt"

// IncompatibleLatticeError reports a lattice parameter combination that fails
// a divisibility or minimal-length constraint. It is returned before any
// numeric work is attempted; parameters are never silently corrected.
type IncompatibleLatticeError struct {
	L, A, M  int
	Lt1, Lt2 int
	Reason   string
}

func (e *IncompatibleLatticeError) Error() string {
	if e.Lt2 > 1 {
		return fmt.Sprintf("lattice: incompatible parameters L=%d a=%d M=%d lt=(%d,%d): %s",
			e.L, e.A, e.M, e.Lt1, e.Lt2, e.Reason)
	}
	return fmt.Sprintf("lattice: incompatible parameters L=%d a=%d M=%d: %s", e.L, e.A, e.M, e.Reason)
}

// NoShearFoundError reports that the integer shear search found no solution
// for the given lattice. This indicates an incompatible transform length; the
// caller should use a length derived from MinimalLength or a multiple of it.
type NoShearFoundError struct {
	L, A, M  int
	Lt1, Lt2 int
}

func (e *NoShearFoundError) Error() string {
	return fmt.Sprintf("lattice: no integer shear solution for L=%d a=%d M=%d lt=(%d,%d)",
		e.L, e.A, e.M, e.Lt1, e.Lt2)
}
