package gabor

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/cwbudde/algo-gabor/dsp/lattice"
)

// Source supplies successive fixed-length signal buffers to a Stream.
// ReadBuffer fills dst and returns the number of samples written. A short
// count or io.EOF marks the end of the signal; a short count may carry the
// final partial buffer. Any other error aborts the stream.
type Source interface {
	ReadBuffer(dst []float64) (int, error)
}

// StreamConfig describes a streaming Gabor analysis session.
//
// Each incoming buffer of BufLen samples is zero-padded to the working length
// Lext = BufLen + ZeroPad and transformed on the lattice (A, M, Lt1, Lt2) over
// that length. Window is a FIR analysis window of length at most ZeroPad; it
// is embedded zero-centered into the working length, so every coefficient
// frame depends on at most len(Window) consecutive signal samples. The
// overlap-add of frame contributions across buffer boundaries then reproduces
// the one-shot transform of the concatenated signal exactly.
//
// BufLen must be a multiple of Lt2*lcm(A,M), and Lext/A must be a multiple of
// Lt2; together these keep the modulation phases and the lattice's frequency
// offsets aligned from one buffer to the next.
type StreamConfig struct {
	A, M     int
	Lt1, Lt2 int
	BufLen   int
	ZeroPad  int
	Window   []float64
}

// Stream states, in lifecycle order.
const (
	streamIdle = iota
	streamPriming
	streamStreaming
	streamDraining
	streamDone
)

// Stream is a streaming Gabor analyzer. It pulls buffers from a Source,
// transforms each over a fixed working length, and accumulates the per-buffer
// frame contributions so that the emitted coefficient frames, concatenated in
// order, equal the one-shot transform of the whole signal.
//
// A Stream owns all of its state exclusively; independent streams never
// share anything and a single Stream must not be used concurrently.
type Stream struct {
	src   Source
	cfg   StreamConfig
	plan  *NonsepPlan
	fw    *FactoredWindow
	state int

	glPos int // taps at and after the window center
	glNeg int // taps before the window center

	block    int                  // buffers consumed so far
	nextEmit int                  // first absolute frame not yet emitted
	acc      map[int][]complex128 // absolute frame -> length-M row

	readBuf []float64
	segment [][]complex128
}

// OpenStream validates cfg, solves the shear for the working length once, and
// returns a Stream in its priming state. No data is read until the first
// NextBlock call.
func OpenStream(src Source, cfg StreamConfig) (*Stream, error) {
	if src == nil {
		return nil, errors.New("gabor: stream source is nil")
	}
	if cfg.BufLen <= 0 {
		return nil, fmt.Errorf("gabor: stream buffer length must be positive: %d", cfg.BufLen)
	}
	gl := len(cfg.Window)
	if gl == 0 {
		return nil, errors.New("gabor: stream requires a FIR analysis window")
	}
	if gl > cfg.ZeroPad {
		return nil, fmt.Errorf("gabor: window length %d exceeds zero padding %d", gl, cfg.ZeroPad)
	}
	lext := cfg.BufLen + cfg.ZeroPad
	plan, err := NewNonsepPlan(lext, cfg.A, cfg.M, cfg.Lt1, cfg.Lt2, 1)
	if err != nil {
		return nil, err
	}
	stride := cfg.Lt2 * lcm(cfg.A, cfg.M)
	if cfg.BufLen%stride != 0 {
		return nil, fmt.Errorf("gabor: buffer length %d is not a multiple of the lattice stride %d",
			cfg.BufLen, stride)
	}
	if (lext/cfg.A)%cfg.Lt2 != 0 {
		return nil, fmt.Errorf("gabor: working length %d gives %d frames per buffer, not a multiple of lt2=%d",
			lext, lext/cfg.A, cfg.Lt2)
	}

	glNeg := gl / 2
	glPos := gl - glNeg
	wext := make([]complex128, lext)
	for i := 0; i < glPos; i++ {
		wext[i] = complex(cfg.Window[glNeg+i], 0)
	}
	for i := 0; i < glNeg; i++ {
		wext[lext-glNeg+i] = complex(cfg.Window[i], 0)
	}
	fw, err := plan.chirpedFactorization(wext)
	if err != nil {
		return nil, err
	}

	s := &Stream{
		src:     src,
		cfg:     cfg,
		plan:    plan,
		fw:      fw,
		state:   streamPriming,
		glPos:   glPos,
		glNeg:   glNeg,
		acc:     make(map[int][]complex128),
		readBuf: make([]float64, cfg.BufLen),
		segment: [][]complex128{make([]complex128, lext)},
	}
	return s, nil
}

// NextBlock consumes one buffer from the source and returns the coefficient
// frames that became final, as an M x n x 1 array whose frames continue
// exactly where the previous block ended. A block may be empty early in the
// stream while frames still await future samples. more is false once the
// source is exhausted and every remaining frame has been flushed; after that
// every call returns more == false with a nil block.
func (s *Stream) NextBlock() (*Coefficients, bool, error) {
	switch s.state {
	case streamDone:
		return nil, false, nil
	case streamIdle:
		return nil, false, errors.New("gabor: stream is not open")
	}

	n, err := s.src.ReadBuffer(s.readBuf)
	if err != nil && !errors.Is(err, io.EOF) {
		s.state = streamDone
		return nil, false, fmt.Errorf("gabor: stream source: %w", err)
	}
	eof := errors.Is(err, io.EOF) || n < s.cfg.BufLen
	if n > 0 {
		for i := 0; i < n; i++ {
			s.segment[0][i] = complex(s.readBuf[i], 0)
		}
		for i := n; i < len(s.segment[0]); i++ {
			s.segment[0][i] = 0
		}
		if aerr := s.accumulate(); aerr != nil {
			s.state = streamDone
			return nil, false, aerr
		}
	}
	if !eof {
		s.state = streamStreaming
		return s.emitStable(), true, nil
	}
	s.state = streamDraining
	block := s.drain()
	s.state = streamDone
	return block, false, nil
}

// Close discards all stream state. Pending unemitted frames are dropped;
// NextBlock afterwards reports an exhausted stream.
func (s *Stream) Close() {
	s.state = streamDone
	s.acc = nil
}

// accumulate transforms the current segment and adds every local frame into
// its absolute frame row. Local frames whose window support wraps past the
// working length carry contributions to earlier absolute frames.
func (s *Stream) accumulate() error {
	coef, err := s.plan.analyzeFactored(s.segment, s.fw)
	if err != nil {
		return err
	}
	par := s.plan.par
	lext := par.L
	perBuf := s.cfg.BufLen / par.A
	for j := 0; j < par.N; j++ {
		abs := s.block*perBuf + j
		if j*par.A+s.glPos > lext {
			abs -= par.N
		}
		row := s.acc[abs]
		if row == nil {
			row = make([]complex128, par.M)
			s.acc[abs] = row
		}
		src := coef.Data[j*par.M : (j+1)*par.M]
		for m := range row {
			row[m] += src[m]
		}
	}
	s.block++
	return nil
}

// emitStable flushes, in order, every frame that no future buffer can touch:
// frame n is final once all samples under its window, up to n*a+glPos-1,
// have been consumed.
func (s *Stream) emitStable() *Coefficients {
	seen := s.block * s.cfg.BufLen
	last := floorDiv(seen-s.glPos, s.cfg.A) + 1 // frames [nextEmit, last)
	if last <= s.nextEmit {
		return NewCoefficients(s.cfg.M, 0, 1)
	}
	out := NewCoefficients(s.cfg.M, last-s.nextEmit, 1)
	for n := s.nextEmit; n < last; n++ {
		row := s.acc[n]
		if row != nil {
			copy(out.Data[(n-s.nextEmit)*s.cfg.M:], row)
			delete(s.acc, n)
		}
	}
	s.nextEmit = last
	return out
}

// drain resolves the warm-up frames against the periodic wrap of the full
// signal and flushes everything left. Frames accumulated at negative indices
// came from windows reaching before sample zero; on the full-length circular
// transform they belong at the end of the frame axis.
func (s *Stream) drain() *Coefficients {
	perBuf := s.cfg.BufLen / s.cfg.A
	total := s.block * perBuf
	keys := make([]int, 0, len(s.acc))
	for n := range s.acc {
		keys = append(keys, n)
	}
	for _, n := range keys {
		if n < 0 {
			dst := s.acc[total+n]
			if dst == nil {
				s.acc[total+n] = s.acc[n]
			} else {
				for m, v := range s.acc[n] {
					dst[m] += v
				}
			}
			delete(s.acc, n)
		}
	}
	if total <= s.nextEmit {
		return NewCoefficients(s.cfg.M, 0, 1)
	}
	out := NewCoefficients(s.cfg.M, total-s.nextEmit, 1)
	rest := make([]int, 0, len(s.acc))
	for n := range s.acc {
		rest = append(rest, n)
	}
	sort.Ints(rest)
	for _, n := range rest {
		if n >= s.nextEmit && n < total {
			copy(out.Data[(n-s.nextEmit)*s.cfg.M:], s.acc[n])
		}
	}
	s.nextEmit = total
	s.acc = make(map[int][]complex128)
	return out
}

// Lattice returns the lattice parameters of the stream's working length.
func (s *Stream) Lattice() *lattice.Params { return s.plan.par }

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func lcm(a, b int) int { return a / gcd(a, b) * b }
