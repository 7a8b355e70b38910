// Copyright 2021 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pll

import (
	"github.com/go-lpc/clkgen/internal/xmath"
)

var win1200 = window{min: 9_520_000, max: 1_200_000_000}

const (
	fvco1200Min = 600_000_000 // minimum FVCO, used to derive ODF
	odf1200Max  = 63
)

// Params1200 computes the PLL1200 fields.
//
//	phi = ((in/1000)*ldf / (odf*idf)) * 1000
//
// odf is the smallest divider bringing FVCO above 600 MHz, then idf is
// searched over 1..7 and ldf over 8..127.
func Params1200(input, output uint64) (Fields, error) {
	const name = "PLL1200"
	if err := win1200.check(name, input, output); err != nil {
		return Fields{}, err
	}

	inK := input / 1000
	if inK == 0 {
		return Fields{}, errNoSolution(name, input, output)
	}

	odf := xmath.Clamp(xmath.CeilDiv(uint64(fvco1200Min), output), 1, odf1200Max)
	fvcoK := output * odf / 1000

	var s search
	for idf := uint64(1); idf <= 7; idf++ {
		ldf := fvcoK * idf / inK
		if ldf < 8 {
			continue
		}
		if ldf > 127 {
			break
		}
		f := Fields{Idf: uint32(idf), Ldf: uint32(ldf), Odf: uint32(odf)}
		if s.add(f, Rate1200(input, f), output) {
			break
		}
	}
	return s.result(name, input, output)
}

// Rate1200 returns the PLL1200 PHI frequency for the given fields.
func Rate1200(input uint64, f Fields) uint64 {
	return (input / 1000) * uint64(f.Ldf) / (dec(f.Odf) * dec(f.Idf)) * 1000
}
