package gabor

import (
	"math"
	"testing"
)

func TestCoefficientsLayout(t *testing.T) {
	c := NewCoefficients(3, 4, 2)
	if len(c.Data) != 3*4*2 {
		t.Fatalf("data length %d, want %d", len(c.Data), 3*4*2)
	}
	c.Data[(1*4+2)*3+1] = 5 + 2i
	if got := c.At(1, 2, 1); got != 5+2i {
		t.Fatalf("At(1,2,1) = %v, want 5+2i", got)
	}
	ch := c.Channel(1)
	if len(ch) != 12 || ch[2*3+1] != 5+2i {
		t.Fatal("Channel(1) does not view the second slab")
	}
}

func TestCoefficientsMagnitudes(t *testing.T) {
	c := NewCoefficients(2, 2, 1)
	c.Data[0] = 3 + 4i
	c.Data[3] = -2i
	mags := c.Magnitudes(0)
	want := []float64{5, 0, 0, 2}
	for i := range want {
		if math.Abs(mags[i]-want[i]) > 1e-12 {
			t.Fatalf("index %d: got %v, want %v", i, mags[i], want[i])
		}
	}
}
