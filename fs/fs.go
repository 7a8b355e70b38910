// Copyright 2021 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fs computes and evaluates the register fields of the
// fractional frequency synthesizers (FS) found in clock-generation blocks.
//
// The synthesizers divide a reference by a fractional ratio built out
// of a coarse divider (mdiv), a fine fixed-point correction (pe), a
// power-of-two output divider (sdiv) and an optional pre-divider (nsdiv).
package fs // import "github.com/go-lpc/clkgen/fs"

import (
	"fmt"

	"github.com/go-lpc/clkgen/clkerr"
	"github.com/go-lpc/clkgen/internal/xmath"
)

const (
	p15   = 1 << 15
	p20   = 1 << 20
	peMax = 32767
)

// Fields holds the register fields of a frequency synthesizer.
type Fields struct {
	Ndiv  uint32 // feedback divider (fixed, except for FS660-VCO)
	Mdiv  uint32 // coarse divider
	Pe    uint32 // fine divider, fixed-point fraction
	Sdiv  uint32 // output divider exponent
	NSDiv uint32 // pre-divider: 0 means 3, 1 means 1
}

// Option configures a parameter search.
type Option func(*config)

type config struct {
	nsdiv  uint32
	pinned bool
}

// WithNSDiv pins the nsdiv register to v (0 or 1) instead of searching
// both values.
func WithNSDiv(v uint32) Option {
	return func(cfg *config) {
		cfg.nsdiv = v
		cfg.pinned = true
	}
}

// nsdivs returns the nsdiv values to explore, in search order.
func (cfg config) nsdivs() ([]uint32, error) {
	if !cfg.pinned {
		return []uint32{1, 0}, nil
	}
	if cfg.nsdiv > 1 {
		return nil, fmt.Errorf("fs: invalid nsdiv value %d: %w", cfg.nsdiv, clkerr.ErrBadParameter)
	}
	return []uint32{cfg.nsdiv}, nil
}

func newConfig(opts []Option) config {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// nsdec decodes the nsdiv register.
func nsdec(v uint32) uint64 {
	if v == 1 {
		return 1
	}
	return 3
}

// search keeps track of the best candidate seen so far.
// Ties are won by the earliest candidate.
type search struct {
	best  Fields
	dev   uint64
	found bool
}

func (s *search) add(f Fields, rate, want uint64) bool {
	dev := xmath.AbsDiff(rate, want)
	if !s.found || dev < s.dev {
		s.best = f
		s.dev = dev
		s.found = true
	}
	return dev == 0
}

// merge keeps o if it is strictly better than s.
func (s *search) merge(o search) {
	if !o.found {
		return
	}
	if !s.found || o.dev < s.dev {
		*s = o
	}
}

// refine evaluates f, then every pe within 2 LSBs of f.Pe, to correct
// the rounding of the closed-form pe computation.
// It reports whether an exact match was found.
func (s *search) refine(f Fields, rate func(Fields) uint64, want uint64) bool {
	if s.add(f, rate(f), want) {
		return true
	}
	pe0 := f.Pe
	lo := uint32(0)
	if pe0 > 2 {
		lo = pe0 - 2
	}
	for pe := lo; pe <= pe0+2 && pe <= peMax; pe++ {
		if pe == pe0 {
			continue
		}
		f.Pe = pe
		if s.add(f, rate(f), want) {
			return true
		}
	}
	return false
}

func check(name string, input, output uint64) error {
	if input == 0 || output == 0 {
		return fmt.Errorf(
			"fs: %s: invalid frequencies (input=%d Hz, output=%d Hz): %w",
			name, input, output, clkerr.ErrBadParameter,
		)
	}
	return nil
}

func errNoSolution(name string, input, output uint64) error {
	return fmt.Errorf(
		"fs: %s: no divider combination for %d Hz -> %d Hz: %w",
		name, input, output, clkerr.ErrBadParameter,
	)
}
