// Package gabor computes the Discrete Gabor Transform (DGT) and its inverse
// on rectangular and non-separable time-frequency lattices.
//
// The rectangular path factors the window with the Walnut representation and
// reduces the transform to block FFTs, giving O(L·q + L·log d + N·M·log M)
// work instead of the O(L·M·N) of the direct definition. Non-separable
// (sheared/quincunx) lattices are handled by chirp-multiplying signal and
// window onto an equivalent rectangular lattice, transforming there, and
// permuting the coefficients back.
//
// Plans own all FFT state and scratch buffers:
//
//	p, _ := gabor.NewPlan(l, a, m, 1)
//	fw, _ := gabor.Factorize([][]complex128{g}, a, m)
//	coef, _ := p.Analyze(signal, fw)
//
// For one-off transforms the package-level Analyze, Synthesize, NonsepAnalyze
// and NonsepSynthesize wrappers build a throwaway plan. Streaming analysis
// over unbounded signals goes through OpenStream, which carries overlap state
// across fixed-size buffers so the emitted blocks match the one-shot
// transform of the whole signal.
//
// All transforms treat signals and windows as periodic with period L. None of
// the entry points design windows; analysis and synthesis windows, including
// canonical duals, are the caller's responsibility.
package gabor
