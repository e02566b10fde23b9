// Package lattice derives and validates the integer structure of time-frequency
// sampling lattices used by the Gabor transform kernels.
//
// A rectangular lattice is described by the time hop a and the channel count M,
// both of which must divide the transform length L. A non-separable lattice
// additionally carries a lattice type (lt1, lt2) describing a parallelogram
// fundamental domain: coefficient cell (m, n) samples the time-frequency point
// (n*a, m*b + w(n)) with b = L/M and w(n) = b*((n*lt1) mod lt2)/lt2.
//
// The package exposes the number-theoretic factorization (b, N, c, d, p, q)
// consumed by the fast transform kernels, the minimal admissible transform
// length for a lattice, and the integer shear search that converts a
// non-separable lattice into an equivalent rectangular one.
package lattice
