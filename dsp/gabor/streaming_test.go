package gabor

import (
	"io"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-gabor/internal/testutil"
)

type sliceSource struct {
	data []float64
	pos  int
}

func (s *sliceSource) ReadBuffer(dst []float64) (int, error) {
	if s.pos >= len(s.data) {
		return 0, io.EOF
	}
	n := copy(dst, s.data[s.pos:])
	s.pos += n
	return n, nil
}

// firGauss is a short Gaussian analysis window with its center at index gl/2,
// matching the zero-centered embedding the stream applies.
func firGauss(gl int) []float64 {
	out := make([]float64, gl)
	c := float64(gl / 2)
	for i := range out {
		x := (float64(i) - c) / (float64(gl) / 4)
		out[i] = math.Exp(-math.Pi * x * x)
	}
	return out
}

func TestStreamMatchesOneShot(t *testing.T) {
	cfg := StreamConfig{
		A: 4, M: 6, Lt1: 1, Lt2: 2,
		BufLen:  24,
		ZeroPad: 24,
		Window:  firGauss(16),
	}
	const total = 240
	signal := testutil.DeterministicNoise(77, 1, total)

	s, err := OpenStream(&sliceSource{data: signal}, cfg)
	require.NoError(t, err)
	defer s.Close()

	var streamed []complex128
	frames := 0
	for {
		block, more, err := s.NextBlock()
		require.NoError(t, err)
		if block != nil {
			require.Equal(t, cfg.M, block.M)
			streamed = append(streamed, block.Data...)
			frames += block.N
		}
		if !more {
			break
		}
	}
	require.Equal(t, total/cfg.A, frames, "stream must emit every frame exactly once")

	// One-shot reference: the same FIR window embedded zero-centered into the
	// full length, transformed on the same lattice.
	gl := len(cfg.Window)
	glNeg, glPos := gl/2, gl-gl/2
	wext := make([]complex128, total)
	for i := 0; i < glPos; i++ {
		wext[i] = complex(cfg.Window[glNeg+i], 0)
	}
	for i := 0; i < glNeg; i++ {
		wext[total-glNeg+i] = complex(cfg.Window[i], 0)
	}
	cs := make([]complex128, total)
	for i, v := range signal {
		cs[i] = complex(v, 0)
	}
	oneShot, err := NonsepAnalyze([][]complex128{cs}, wext, cfg.A, cfg.M, cfg.Lt1, cfg.Lt2)
	require.NoError(t, err)

	// The first and last zeroPad/a frames are the documented warm-up and
	// cool-down region: their periodic wrap-around contributions straddle the
	// stream boundaries. Everything in between must agree.
	skip := cfg.ZeroPad / cfg.A
	lo, hi := skip*cfg.M, (frames-skip)*cfg.M
	e := testutil.RelativeError(t, streamed[lo:hi], oneShot.Data[lo:hi])
	require.Less(t, e, 1e-6, "streamed frames must match the one-shot transform")
}

func TestStreamEmitsInOrderWithMoreFlag(t *testing.T) {
	cfg := StreamConfig{
		A: 4, M: 6, Lt1: 1, Lt2: 2,
		BufLen:  24,
		ZeroPad: 24,
		Window:  firGauss(16),
	}
	signal := testutil.DeterministicNoise(5, 1, 3*cfg.BufLen)
	s, err := OpenStream(&sliceSource{data: signal}, cfg)
	require.NoError(t, err)

	calls := 0
	frames := 0
	for {
		block, more, err := s.NextBlock()
		require.NoError(t, err)
		calls++
		if block != nil {
			frames += block.N
		}
		if !more {
			break
		}
		require.Less(t, calls, 100, "stream did not terminate")
	}
	require.Equal(t, 3*cfg.BufLen/cfg.A, frames)

	// Exhausted streams stay exhausted.
	block, more, err := s.NextBlock()
	require.NoError(t, err)
	require.Nil(t, block)
	require.False(t, more)
}

func TestStreamValidation(t *testing.T) {
	base := StreamConfig{
		A: 4, M: 6, Lt1: 1, Lt2: 2,
		BufLen:  24,
		ZeroPad: 24,
		Window:  firGauss(16),
	}
	src := &sliceSource{data: make([]float64, 48)}

	t.Run("nil source", func(t *testing.T) {
		_, err := OpenStream(nil, base)
		require.Error(t, err)
	})
	t.Run("buffer off stride", func(t *testing.T) {
		cfg := base
		cfg.BufLen = 20 // stride is lt2*lcm(a,M) = 24
		_, err := OpenStream(src, cfg)
		require.Error(t, err)
	})
	t.Run("window longer than padding", func(t *testing.T) {
		cfg := base
		cfg.Window = firGauss(30)
		_, err := OpenStream(src, cfg)
		require.Error(t, err)
	})
	t.Run("missing window", func(t *testing.T) {
		cfg := base
		cfg.Window = nil
		_, err := OpenStream(src, cfg)
		require.Error(t, err)
	})
}

func TestStreamCloseDropsPendingFrames(t *testing.T) {
	cfg := StreamConfig{
		A: 4, M: 6, Lt1: 1, Lt2: 2,
		BufLen:  24,
		ZeroPad: 24,
		Window:  firGauss(16),
	}
	s, err := OpenStream(&sliceSource{data: make([]float64, 10*cfg.BufLen)}, cfg)
	require.NoError(t, err)
	_, more, err := s.NextBlock()
	require.NoError(t, err)
	require.True(t, more)

	s.Close()
	block, more, err := s.NextBlock()
	require.NoError(t, err)
	require.Nil(t, block)
	require.False(t, more)
}
