package lattice

import (
	"errors"
	"testing"
)

func TestNewDerivesFactorization(t *testing.T) {
	tests := []struct {
		name       string
		l, a, m    int
		b, n       int
		c, d, p, q int
	}{
		{"L24", 24, 4, 6, 4, 6, 2, 2, 2, 3},
		{"L144", 144, 9, 16, 9, 16, 1, 1, 9, 16},
		{"L77", 77, 7, 11, 7, 11, 1, 1, 7, 11},
		{"critical", 64, 8, 8, 8, 8, 8, 8, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(tt.l, tt.a, tt.m)
			if err != nil {
				t.Fatal(err)
			}
			if p.B != tt.b || p.N != tt.n || p.C != tt.c || p.D != tt.d || p.P != tt.p || p.Q != tt.q {
				t.Fatalf("got b=%d N=%d c=%d d=%d p=%d q=%d, want b=%d N=%d c=%d d=%d p=%d q=%d",
					p.B, p.N, p.C, p.D, p.P, p.Q, tt.b, tt.n, tt.c, tt.d, tt.p, tt.q)
			}
			if p.C*p.D*p.P*p.Q != tt.l {
				t.Fatalf("c*d*p*q = %d, want L = %d", p.C*p.D*p.P*p.Q, tt.l)
			}
		})
	}
}

func TestNewRejectsIncompatibleParameters(t *testing.T) {
	tests := []struct {
		name     string
		l, a, m  int
		lt1, lt2 int
	}{
		{"hop does not divide L", 25, 4, 5, 0, 1},
		{"channels do not divide L", 24, 4, 5, 0, 1},
		{"zero hop", 24, 0, 6, 0, 1},
		{"negative length", -24, 4, 6, 0, 1},
		{"lt1 out of range", 24, 4, 6, 2, 2},
		{"lt2 does not divide b", 24, 4, 6, 1, 3},
		{"nonpositive lt2", 24, 4, 6, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewNonsep(tt.l, tt.a, tt.m, tt.lt1, tt.lt2)
			var lerr *IncompatibleLatticeError
			if !errors.As(err, &lerr) {
				t.Fatalf("got %v, want IncompatibleLatticeError", err)
			}
		})
	}
}

func TestFreqOffset(t *testing.T) {
	p, err := NewNonsep(120, 4, 6, 1, 2)
	if err != nil {
		t.Fatal(err)
	}
	// b = 20, offsets alternate 0, 10 with period lt2 = 2.
	for n := 0; n < p.N; n++ {
		want := 0
		if n%2 == 1 {
			want = 10
		}
		if got := p.FreqOffset(n); got != want {
			t.Fatalf("frame %d: offset %d, want %d", n, got, want)
		}
	}
}

func TestMinimalLength(t *testing.T) {
	tests := []struct {
		name     string
		a, m     int
		lt1, lt2 int
		want     int
	}{
		{"rectangular", 4, 6, 0, 1, 12},
		{"quincunx", 4, 6, 1, 2, 12},
		{"thirds", 4, 6, 2, 3, 36},
		{"coprime quincunx", 3, 5, 1, 2, 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MinimalLength(tt.a, tt.m, tt.lt1, tt.lt2)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Fatalf("got %d, want %d", got, tt.want)
			}

			// The minimal length itself must validate; one sample less must not.
			if _, err := NewNonsep(got, tt.a, tt.m, tt.lt1, tt.lt2); err != nil {
				t.Fatalf("minimal length %d rejected: %v", got, err)
			}
			_, err = NewNonsep(got-1, tt.a, tt.m, tt.lt1, tt.lt2)
			var lerr *IncompatibleLatticeError
			if !errors.As(err, &lerr) {
				t.Fatalf("length %d: got %v, want IncompatibleLatticeError", got-1, err)
			}
		})
	}
}
