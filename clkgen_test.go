// Copyright 2021 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package clkgen

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/go-lpc/clkgen/clkerr"
	"github.com/go-lpc/clkgen/fs"
	"github.com/go-lpc/clkgen/pll"
)

func TestSolve(t *testing.T) {
	for _, tc := range []struct {
		name   string
		topo   Topology
		in     uint64
		out    uint64
		opts   []fs.Option
		fields []uint32
		rate   uint64
	}{
		{
			name: "pll3200-25MHz-1.6GHz",
			topo: PLL3200, in: 25_000_000, out: 1_600_000_000,
			fields: []uint32{0, 32, 0, 1, 0, 0, 6},
			rate:   1_600_000_000,
		},
		{
			name: "fs660-vco-30MHz-600MHz",
			topo: FS660VCO, in: 30_000_000, out: 600_000_000,
			fields: []uint32{4, 0, 0, 0, 0},
			rate:   600_000_000,
		},
		{
			name: "pll1600c65-25MHz-1.2GHz",
			topo: PLL1600C65, in: 25_000_000, out: 1_200_000_000,
			fields: []uint32{1, 24, 0, 0, 0, 0, 0},
			rate:   1_200_000_000,
		},
		{
			name: "pll1600c45-phi-30MHz-100MHz",
			topo: PLL1600C45Phi, in: 30_000_000, out: 100_000_000,
			fields: []uint32{0, 40, 0, 3, 0, 4, 7},
			rate:   100_000_000,
		},
		{
			name: "pll1200-27MHz-100MHz",
			topo: PLL1200, in: 27_000_000, out: 100_000_000,
			fields: []uint32{0, 0, 0, 5, 111, 6, 0},
			rate:   99_900_000,
		},
		{
			name: "fs216-30MHz-148.5MHz",
			topo: FS216, in: 30_000_000, out: 148_500_000,
			fields: []uint32{0, 25, 4634, 0, 1},
			rate:   148_500_024,
		},
		{
			name: "fs216-30MHz-27MHz-nsdiv=1",
			topo: FS216, in: 30_000_000, out: 27_000_000,
			opts:   []fs.Option{fs.WithNSDiv(1)},
			fields: []uint32{0, 17, 7282, 3, 1},
			rate:   27_000_010,
		},
		{
			name: "fs432-30MHz-16MHz",
			topo: FS432, in: 30_000_000, out: 16_000_000,
			fields: []uint32{0, 29, 0, 4, 1},
			rate:   16_000_000,
		},
		{
			name: "fs660-594MHz-74.25MHz",
			topo: FS660, in: 594_000_000, out: 74_250_000,
			fields: []uint32{0, 0, 0, 3, 1},
			rate:   74_250_000,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			sol, err := Solve(tc.topo, tc.in, tc.out, tc.opts...)
			if err != nil {
				t.Fatalf("could not solve: %+v", err)
			}
			if got, want := sol.Fields(), tc.fields; !reflect.DeepEqual(got, want) {
				t.Fatalf("invalid fields:\ngot= %v\nwant=%v", got, want)
			}
			if got, want := sol.Rate, tc.rate; got != want {
				t.Fatalf("invalid rate: got=%d, want=%d", got, want)
			}
			var dev uint64
			switch {
			case tc.rate > tc.out:
				dev = tc.rate - tc.out
			default:
				dev = tc.out - tc.rate
			}
			if got, want := sol.Deviation, dev; got != want {
				t.Fatalf("invalid deviation: got=%d, want=%d", got, want)
			}

			rate, err := Rate(tc.topo, tc.in, sol.Fields())
			if err != nil {
				t.Fatalf("could not evaluate fields: %+v", err)
			}
			if rate != sol.Rate {
				t.Fatalf("round trip failed: got=%d, want=%d", rate, sol.Rate)
			}
		})
	}
}

func TestSolveErrors(t *testing.T) {
	for _, tc := range []struct {
		name string
		topo Topology
		in   uint64
		out  uint64
		want error
	}{
		{"pll800-6MHz", PLL800, 6_000_000, 6_000_000, clkerr.ErrBadParameter},
		{"fs660-vco-pdiv", FS660VCO, 50_000_000, 600_000_000, clkerr.ErrFeatureNotSupported},
		{"fs216-zero", FS216, 30_000_000, 0, clkerr.ErrBadParameter},
		{"unknown", Topology(0), 30_000_000, 100_000_000, clkerr.ErrBadParameter},
		{"out-of-range", Topology(42), 30_000_000, 100_000_000, clkerr.ErrBadParameter},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Solve(tc.topo, tc.in, tc.out)
			if !errors.Is(err, tc.want) {
				t.Fatalf("invalid error: got=%+v, want=%+v", err, tc.want)
			}
		})
	}
}

func TestFamilyMismatch(t *testing.T) {
	for _, topo := range Topologies() {
		switch topo.Family() {
		case FamilyPLL:
			_, err := FSParams(topo, 30_000_000, 100_000_000)
			if !errors.Is(err, clkerr.ErrBadParameter) {
				t.Fatalf("%v: invalid error: %+v", topo, err)
			}
			_, err = FSRate(topo, 30_000_000, fs.Fields{})
			if !errors.Is(err, clkerr.ErrBadParameter) {
				t.Fatalf("%v: invalid error: %+v", topo, err)
			}
		case FamilyFS:
			_, err := PLLParams(topo, 30_000_000, 100_000_000)
			if !errors.Is(err, clkerr.ErrBadParameter) {
				t.Fatalf("%v: invalid error: %+v", topo, err)
			}
			_, err = PLLRate(topo, 30_000_000, pll.Fields{})
			if !errors.Is(err, clkerr.ErrBadParameter) {
				t.Fatalf("%v: invalid error: %+v", topo, err)
			}
		default:
			t.Fatalf("%v: invalid family %v", topo, topo.Family())
		}
	}
}

func TestRateFields(t *testing.T) {
	_, err := Rate(PLL3200, 25_000_000, []uint32{1, 2})
	if !errors.Is(err, clkerr.ErrBadParameter) {
		t.Fatalf("invalid error: %+v", err)
	}
	_, err = Rate(Topology(0), 25_000_000, nil)
	if !errors.Is(err, clkerr.ErrBadParameter) {
		t.Fatalf("invalid error: %+v", err)
	}

	// Mdiv=0 and Mdiv=1 both mean a divider of 1.
	r0, err := Rate(PLL1600C65, 25_000_000, []uint32{0, 24, 0, 0, 0, 0, 0})
	if err != nil {
		t.Fatalf("could not evaluate fields: %+v", err)
	}
	r1, err := Rate(PLL1600C65, 25_000_000, []uint32{1, 24, 0, 0, 0, 0, 0})
	if err != nil {
		t.Fatalf("could not evaluate fields: %+v", err)
	}
	if r0 != r1 {
		t.Fatalf("mdiv=0 and mdiv=1 differ: %d != %d", r0, r1)
	}

	// FS660-VCO validates its rate.
	_, err = Rate(FS660VCO, 30_000_000, []uint32{7, 0, 0, 0, 0})
	if !errors.Is(err, clkerr.ErrBadParameter) {
		t.Fatalf("invalid error: %+v", err)
	}
}

func TestPPM(t *testing.T) {
	for _, tc := range []struct {
		sol  Solution
		want float64
	}{
		{Solution{Output: 1_000_000, Deviation: 1}, 1},
		{Solution{Output: 148_500_000, Deviation: 0}, 0},
		{Solution{Output: 27_000_000, Deviation: 27}, 1},
		{Solution{Output: 0, Deviation: 10}, 0},
	} {
		if got := tc.sol.PPM(); math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("invalid ppm for %+v: got=%g, want=%g", tc.sol, got, tc.want)
		}
	}
}

func TestTopology(t *testing.T) {
	topos := Topologies()
	if got, want := len(topos), 11; got != want {
		t.Fatalf("invalid number of topologies: got=%d, want=%d", got, want)
	}
	for _, topo := range topos {
		got, err := ParseTopology(topo.String())
		if err != nil {
			t.Fatalf("could not parse %q: %+v", topo.String(), err)
		}
		if got != topo {
			t.Fatalf("invalid topology: got=%v, want=%v", got, topo)
		}
		if NumFields(topo) == 0 {
			t.Fatalf("%v: no fields", topo)
		}
	}

	for _, tc := range []struct {
		name string
		want Topology
	}{
		{"PLL3200", PLL3200},
		{" fs660-vco ", FS660VCO},
		{"FS660_VCO", FS660VCO},
		{"pll1600c45-phi", PLL1600C45Phi},
		{"fs660", FS660},
	} {
		got, err := ParseTopology(tc.name)
		if err != nil {
			t.Fatalf("could not parse %q: %+v", tc.name, err)
		}
		if got != tc.want {
			t.Fatalf("%q: got=%v, want=%v", tc.name, got, tc.want)
		}
	}

	_, err := ParseTopology("pll9000")
	if !errors.Is(err, clkerr.ErrBadParameter) {
		t.Fatalf("invalid error: %+v", err)
	}

	if got, want := Topology(0).String(), "Topology(0)"; got != want {
		t.Fatalf("invalid string: got=%q, want=%q", got, want)
	}
	if got, want := FS432.Family().String(), "fs"; got != want {
		t.Fatalf("invalid family: got=%q, want=%q", got, want)
	}
}

func TestParseFields(t *testing.T) {
	for _, tc := range []struct {
		name string
		topo Topology
		kvs  []string
		want []uint32
		err  error
	}{
		{
			name: "pll3200",
			topo: PLL3200,
			kvs:  []string{"idf=1", "ndiv=32", "CP=0x6"},
			want: []uint32{0, 32, 0, 1, 0, 0, 6},
		},
		{
			name: "fs216",
			topo: FS216,
			kvs:  []string{"mdiv=25", "pe=4634", "nsdiv=1"},
			want: []uint32{0, 25, 4634, 0, 1},
		},
		{name: "empty", topo: FS660VCO, want: []uint32{0, 0, 0, 0, 0}},
		{name: "no-value", topo: PLL800, kvs: []string{"mdiv"}, err: clkerr.ErrBadParameter},
		{name: "unknown-field", topo: PLL800, kvs: []string{"pe=1"}, err: clkerr.ErrBadParameter},
		{name: "invalid-value", topo: PLL800, kvs: []string{"mdiv=x"}, err: clkerr.ErrBadParameter},
		{name: "unknown-topology", topo: Topology(0), err: clkerr.ErrBadParameter},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseFields(tc.topo, tc.kvs)
			if tc.err != nil {
				if !errors.Is(err, tc.err) {
					t.Fatalf("invalid error: got=%+v, want=%+v", err, tc.err)
				}
				return
			}
			if err != nil {
				t.Fatalf("could not parse fields: %+v", err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("invalid fields:\ngot= %v\nwant=%v", got, tc.want)
			}
		})
	}
}
