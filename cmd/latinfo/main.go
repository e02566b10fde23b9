// Command latinfo prints factorization and shear properties of Gabor
// time-frequency lattices.
//
// Usage:
//
//	latinfo [flags]
//
// Examples:
//
//	latinfo -L 480 -a 4 -M 6
//	latinfo -L 480 -a 4 -M 6 -lt1 1 -lt2 2
//	latinfo -a 4 -M 6 -lt1 2 -lt2 3 -min
package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/cwbudde/algo-gabor/dsp/lattice"
)

func main() {
	l := flag.Int("L", 0, "signal length (omit with -min to print the minimal admissible length)")
	a := flag.Int("a", 0, "time hop size")
	m := flag.Int("M", 0, "number of frequency channels")
	lt1 := flag.Int("lt1", 0, "lattice type numerator (0 for a rectangular lattice)")
	lt2 := flag.Int("lt2", 1, "lattice type denominator")
	min := flag.Bool("min", false, "print the minimal admissible length and use it when -L is omitted")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: latinfo [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Prints factorization and shear properties of Gabor lattices.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  latinfo -L 480 -a 4 -M 6 -lt1 1 -lt2 2\n")
		fmt.Fprintf(os.Stderr, "  latinfo -a 4 -M 6 -lt1 2 -lt2 3 -min\n")
	}
	flag.Parse()

	if *a <= 0 || *m <= 0 {
		fmt.Fprintf(os.Stderr, "error: -a and -M are required and must be positive\n")
		os.Exit(1)
	}

	minL, err := lattice.MinimalLength(*a, *m, *lt1, *lt2)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if *min {
		fmt.Printf("minimal length: %d\n", minL)
	}
	length := *l
	if length == 0 {
		if !*min {
			fmt.Fprintf(os.Stderr, "error: -L is required unless -min is given\n")
			os.Exit(1)
		}
		length = minL
	}

	par, err := lattice.NewNonsep(length, *a, *m, *lt1, *lt2)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "L\ta\tM\tlt1/lt2\tb\tN\tc\td\tp\tq\n")
	fmt.Fprintf(tw, "-\t-\t-\t-------\t-\t-\t-\t-\t-\t-\n")
	fmt.Fprintf(tw, "%d\t%d\t%d\t%d/%d\t%d\t%d\t%d\t%d\t%d\t%d\n",
		par.L, par.A, par.M, par.Lt1, par.Lt2, par.B, par.N, par.C, par.D, par.P, par.Q)
	if err := tw.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to flush output: %v\n", err)
		os.Exit(1)
	}

	sh, err := lattice.FindShear(par)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if !par.Nonseparable() {
		fmt.Println("\nrectangular lattice, no shear required")
		return
	}
	fmt.Printf("\nshear: s0=%d s1=%d br=%d  equivalent rectangular lattice: ar=%d Mr=%d\n",
		sh.S0, sh.S1, sh.X, sh.Ar, sh.Mr)
}
