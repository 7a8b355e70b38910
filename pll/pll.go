// Copyright 2021 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pll computes and evaluates the register fields of the
// integer PLLs found in clock-generation blocks.
//
// Each topology provides a ParamsXXX function, searching the divider
// combination whose frequency is the closest to a requested output, and
// a RateXXX function evaluating a set of fields back into a frequency.
// Field values are register values: 0 in Mdiv, Idf or Odf stands for a
// divider of 1.
package pll // import "github.com/go-lpc/clkgen/pll"

import (
	"fmt"

	"github.com/go-lpc/clkgen/clkerr"
	"github.com/go-lpc/clkgen/internal/xmath"
)

// Fields holds the register fields of a PLL.
// Only the subset relevant to a given topology is meaningful.
type Fields struct {
	Mdiv uint32 // pre-divider (PLL800, PLL1600-C65)
	Ndiv uint32 // feedback divider
	Pdiv uint32 // post-divider exponent (PLL800)
	Idf  uint32 // input division factor
	Ldf  uint32 // loop division factor (PLL1200)
	Odf  uint32 // output division factor
	Cp   uint32 // charge pump
}

// window is the valid output range of a topology, in Hz.
type window struct {
	min, max uint64
}

func (w window) check(name string, input, output uint64) error {
	if input == 0 {
		return fmt.Errorf("pll: %s: invalid input frequency 0 Hz: %w", name, clkerr.ErrBadParameter)
	}
	if output < w.min || output > w.max {
		return fmt.Errorf(
			"pll: %s: output frequency %d Hz outside of [%d, %d] Hz: %w",
			name, output, w.min, w.max, clkerr.ErrBadParameter,
		)
	}
	return nil
}

// search keeps track of the best candidate seen so far.
// Ties are won by the earliest candidate.
type search struct {
	best  Fields
	dev   uint64
	found bool
}

// add records f if it deviates strictly less from want than the current
// best candidate, and reports whether f is an exact match.
func (s *search) add(f Fields, rate, want uint64) bool {
	dev := xmath.AbsDiff(rate, want)
	if !s.found || dev < s.dev {
		s.best = f
		s.dev = dev
		s.found = true
	}
	return dev == 0
}

func (s *search) result(name string, input, output uint64) (Fields, error) {
	if !s.found {
		return Fields{}, errNoSolution(name, input, output)
	}
	return s.best, nil
}

func errNoSolution(name string, input, output uint64) error {
	return fmt.Errorf(
		"pll: %s: no divider combination for %d Hz -> %d Hz: %w",
		name, input, output, clkerr.ErrBadParameter,
	)
}

// dec decodes a divider register value, where 0 means 1.
func dec(v uint32) uint64 {
	if v == 0 {
		return 1
	}
	return uint64(v)
}
