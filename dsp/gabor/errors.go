package gabor

import "fmt"

// ShapeMismatchError reports a coefficient array whose dimensions are
// inconsistent with the M x N x W contract of the transform it was passed to.
type ShapeMismatchError struct {
	WantM, WantN, WantW int
	GotM, GotN, GotW    int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("gabor: coefficient shape %dx%dx%d does not match expected %dx%dx%d",
		e.GotM, e.GotN, e.GotW, e.WantM, e.WantN, e.WantW)
}

// LatticeIndexingError reports an internal invariant violation in the shear
// permutation: a rectangular grid point failed to map to an integer position
// on the non-separable lattice. This cannot happen for shear parameters
// produced by the solver and is a defect, not a user error.
type LatticeIndexingError struct {
	I, J   int
	Reason string
}

func (e *LatticeIndexingError) Error() string {
	return fmt.Sprintf("gabor: shear permutation failed at rectangular grid point (%d,%d): %s",
		e.I, e.J, e.Reason)
}
