// Copyright 2021 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pll

import (
	"github.com/go-lpc/clkgen/internal/xmath"
)

var win3200 = window{min: 800_000_000, max: 1_600_000_000}

// Params3200 computes the PLL3200 fields and the matching charge pump.
//
//	fvcoby2 = 2*ndiv*in / idf
//
// idf is searched over 1..7 and ndiv over 8..200.
func Params3200(input, output uint64) (Fields, error) {
	const name = "PLL3200"
	if err := win3200.check(name, input, output); err != nil {
		return Fields{}, err
	}

	var s search
	for idf := uint64(1); idf <= 7; idf++ {
		n := xmath.MustMulDiv(output, idf, 2*input)
		if n < 8 {
			continue
		}
		if n > 200 {
			break
		}
		f := Fields{Idf: uint32(idf), Ndiv: uint32(n)}
		if s.add(f, Rate3200(input, f), output) {
			break
		}
	}

	f, err := s.result(name, input, output)
	if err != nil {
		return f, err
	}
	f.Cp = cp3200.lookup(f.Ndiv)
	return f, nil
}

// Rate3200 returns the PLL3200 FVCOBY2 frequency.
func Rate3200(input uint64, f Fields) uint64 {
	return xmath.MustMulDiv(2*input, uint64(f.Ndiv), dec(f.Idf))
}
