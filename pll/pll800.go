// Copyright 2021 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pll

import (
	"github.com/go-lpc/clkgen/internal/xmath"
)

var win800 = window{min: 6_250_000, max: 800_000_000}

const (
	pdiv800Max = 5
)

// Params800 computes the PLL800 fields for the output frequency closest
// to output, from the reference frequency input.
//
//	out = 2*ndiv*in / (mdiv * 2^pdiv)
//
// pdiv is the largest value keeping out*2^pdiv below 800 MHz; mdiv is
// then searched over 1..255 and ndiv over 3..255.
func Params800(input, output uint64) (Fields, error) {
	const name = "PLL800"
	if err := win800.check(name, input, output); err != nil {
		return Fields{}, err
	}

	var p uint32
	for p < pdiv800Max && output<<(p+1) <= win800.max {
		p++
	}
	fpll := output << p

	var s search
	for m := uint64(1); m <= 255; m++ {
		n := xmath.MustMulDiv(fpll, m, 2*input)
		if n < 3 {
			continue
		}
		if n > 255 {
			break
		}
		f := Fields{Mdiv: uint32(m), Ndiv: uint32(n), Pdiv: p}
		if s.add(f, Rate800(input, f), output) {
			break
		}
	}
	return s.result(name, input, output)
}

// Rate800 returns the PLL800 output frequency for the given fields.
func Rate800(input uint64, f Fields) uint64 {
	den := dec(f.Mdiv) << (f.Pdiv & 0x7)
	return xmath.MustMulDiv(2*input, uint64(f.Ndiv), den)
}
