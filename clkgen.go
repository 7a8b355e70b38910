// Copyright 2021 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package clkgen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-lpc/clkgen/clkerr"
	"github.com/go-lpc/clkgen/fs"
	"github.com/go-lpc/clkgen/internal/xmath"
	"github.com/go-lpc/clkgen/pll"
)

const (
	nPLLFields = 7 // number of fields in pll.Fields
	nFSFields  = 5 // number of fields in fs.Fields
)

func errTopology(t Topology, fam Family) error {
	return fmt.Errorf("clkgen: topology %v is not a %v topology: %w", t, fam, clkerr.ErrBadParameter)
}

// PLLParams computes the fields of the PLL topology t.
func PLLParams(t Topology, input, output uint64) (pll.Fields, error) {
	switch t {
	case PLL800:
		return pll.Params800(input, output)
	case PLL1200:
		return pll.Params1200(input, output)
	case PLL1600C45:
		return pll.Params1600C45(input, output)
	case PLL1600C45Phi:
		return pll.Params1600C45Phi(input, output)
	case PLL1600C65:
		return pll.Params1600C65(input, output)
	case PLL3200:
		return pll.Params3200(input, output)
	case PLL4600:
		return pll.Params4600(input, output)
	default:
		return pll.Fields{}, errTopology(t, FamilyPLL)
	}
}

// PLLRate evaluates the fields of the PLL topology t into a frequency.
func PLLRate(t Topology, input uint64, f pll.Fields) (uint64, error) {
	switch t {
	case PLL800:
		return pll.Rate800(input, f), nil
	case PLL1200:
		return pll.Rate1200(input, f), nil
	case PLL1600C45:
		return pll.Rate1600C45(input, f), nil
	case PLL1600C45Phi:
		return pll.Rate1600C45Phi(input, f), nil
	case PLL1600C65:
		return pll.Rate1600C65(input, f), nil
	case PLL3200:
		return pll.Rate3200(input, f), nil
	case PLL4600:
		return pll.Rate4600(input, f), nil
	default:
		return 0, errTopology(t, FamilyPLL)
	}
}

// FSParams computes the fields of the FS topology t.
// Options are ignored by FS660VCO.
func FSParams(t Topology, input, output uint64, opts ...fs.Option) (fs.Fields, error) {
	switch t {
	case FS216:
		return fs.Params216(input, output, opts...)
	case FS432:
		return fs.Params432(input, output, opts...)
	case FS660VCO:
		return fs.Params660VCO(input, output)
	case FS660:
		return fs.Params660(input, output, opts...)
	default:
		return fs.Fields{}, errTopology(t, FamilyFS)
	}
}

// FSRate evaluates the fields of the FS topology t into a frequency.
func FSRate(t Topology, input uint64, f fs.Fields) (uint64, error) {
	switch t {
	case FS216:
		return fs.Rate216(input, f), nil
	case FS432:
		return fs.Rate432(input, f), nil
	case FS660VCO:
		return fs.Rate660VCO(input, f)
	case FS660:
		return fs.Rate660(input, f), nil
	default:
		return 0, errTopology(t, FamilyFS)
	}
}

// Solution is the outcome of a parameter search.
type Solution struct {
	Topology  Topology
	Input     uint64     // input frequency, in Hz
	Output    uint64     // requested output frequency, in Hz
	PLL       pll.Fields // valid for FamilyPLL topologies
	FS        fs.Fields  // valid for FamilyFS topologies
	Rate      uint64     // achieved output frequency, in Hz
	Deviation uint64     // |Rate-Output|, in Hz
}

// Family returns the family of the solved topology.
func (sol Solution) Family() Family { return sol.Topology.Family() }

// PPM returns the relative deviation of the solution in parts-per-million.
func (sol Solution) PPM() float64 {
	if sol.Output == 0 {
		return 0
	}
	return float64(sol.Deviation) / float64(sol.Output) * 1e6
}

// Fields returns the register fields of the solution, in declaration order.
func (sol Solution) Fields() []uint32 {
	switch sol.Family() {
	case FamilyPLL:
		f := sol.PLL
		return []uint32{f.Mdiv, f.Ndiv, f.Pdiv, f.Idf, f.Ldf, f.Odf, f.Cp}
	case FamilyFS:
		f := sol.FS
		return []uint32{f.Ndiv, f.Mdiv, f.Pe, f.Sdiv, f.NSDiv}
	}
	return nil
}

func (sol Solution) String() string {
	switch sol.Family() {
	case FamilyPLL:
		return fmt.Sprintf("%v: in=%d out=%d rate=%d dev=%d fields=%+v", sol.Topology, sol.Input, sol.Output, sol.Rate, sol.Deviation, sol.PLL)
	case FamilyFS:
		return fmt.Sprintf("%v: in=%d out=%d rate=%d dev=%d fields=%+v", sol.Topology, sol.Input, sol.Output, sol.Rate, sol.Deviation, sol.FS)
	}
	return fmt.Sprintf("%v: in=%d out=%d", sol.Topology, sol.Input, sol.Output)
}

// Solve computes the fields of topology t producing the frequency
// closest to output, together with the achieved rate.
// Options only apply to FS topologies.
func Solve(t Topology, input, output uint64, opts ...fs.Option) (Solution, error) {
	sol := Solution{
		Topology: t,
		Input:    input,
		Output:   output,
	}

	var err error
	switch t.Family() {
	case FamilyPLL:
		sol.PLL, err = PLLParams(t, input, output)
		if err != nil {
			return sol, fmt.Errorf("clkgen: could not solve %v: %w", t, err)
		}
		sol.Rate, err = PLLRate(t, input, sol.PLL)
	case FamilyFS:
		sol.FS, err = FSParams(t, input, output, opts...)
		if err != nil {
			return sol, fmt.Errorf("clkgen: could not solve %v: %w", t, err)
		}
		sol.Rate, err = FSRate(t, input, sol.FS)
	default:
		return sol, fmt.Errorf("clkgen: unknown topology %v: %w", t, clkerr.ErrBadParameter)
	}
	if err != nil {
		return sol, fmt.Errorf("clkgen: could not evaluate %v: %w", t, err)
	}
	sol.Deviation = xmath.AbsDiff(sol.Rate, output)
	return sol, nil
}

// NumFields returns the number of register fields of topology t.
func NumFields(t Topology) int {
	switch t.Family() {
	case FamilyPLL:
		return nPLLFields
	case FamilyFS:
		return nFSFields
	}
	return 0
}

// Rate evaluates the register fields of topology t, given in
// declaration order, into a frequency.
func Rate(t Topology, input uint64, fields []uint32) (uint64, error) {
	if n := NumFields(t); n == 0 || len(fields) != n {
		return 0, fmt.Errorf(
			"clkgen: invalid number of fields for %v (got=%d, want=%d): %w",
			t, len(fields), n, clkerr.ErrBadParameter,
		)
	}
	switch t.Family() {
	case FamilyPLL:
		return PLLRate(t, input, pll.Fields{
			Mdiv: fields[0],
			Ndiv: fields[1],
			Pdiv: fields[2],
			Idf:  fields[3],
			Ldf:  fields[4],
			Odf:  fields[5],
			Cp:   fields[6],
		})
	default:
		return FSRate(t, input, fs.Fields{
			Ndiv:  fields[0],
			Mdiv:  fields[1],
			Pe:    fields[2],
			Sdiv:  fields[3],
			NSDiv: fields[4],
		})
	}
}

var (
	pllFieldNames = []string{"mdiv", "ndiv", "pdiv", "idf", "ldf", "odf", "cp"}
	fsFieldNames  = []string{"ndiv", "mdiv", "pe", "sdiv", "nsdiv"}
)

// FieldNames returns the names of the register fields of topology t,
// in declaration order.
func FieldNames(t Topology) []string {
	switch t.Family() {
	case FamilyPLL:
		return append([]string(nil), pllFieldNames...)
	case FamilyFS:
		return append([]string(nil), fsFieldNames...)
	}
	return nil
}

// ParseFields parses register fields of topology t given as "name=value"
// pairs. Missing fields are set to 0.
func ParseFields(t Topology, kvs []string) ([]uint32, error) {
	names := FieldNames(t)
	if names == nil {
		return nil, fmt.Errorf("clkgen: unknown topology %v: %w", t, clkerr.ErrBadParameter)
	}
	vs := make([]uint32, len(names))
	for _, kv := range kvs {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("clkgen: invalid field %q (want name=value): %w", kv, clkerr.ErrBadParameter)
		}
		i := indexOf(names, strings.ToLower(strings.TrimSpace(k)))
		if i < 0 {
			return nil, fmt.Errorf("clkgen: unknown %v field %q: %w", t, k, clkerr.ErrBadParameter)
		}
		u, err := strconv.ParseUint(strings.TrimSpace(v), 0, 32)
		if err != nil {
			return nil, fmt.Errorf("clkgen: could not parse field %q: %w", kv, clkerr.ErrBadParameter)
		}
		vs[i] = uint32(u)
	}
	return vs, nil
}

func indexOf(vs []string, v string) int {
	for i, s := range vs {
		if s == v {
			return i
		}
	}
	return -1
}
