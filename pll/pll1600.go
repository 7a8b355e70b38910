// Copyright 2021 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pll

import (
	"fmt"

	"github.com/go-lpc/clkgen/internal/xmath"
)

var (
	win1600C65    = window{min: 600_000_000, max: 1_800_000_000}
	win1600C45    = window{min: 800_000_000, max: 1_800_000_000}
	win1600C45Phi = window{min: 6_350_000, max: 900_000_000}

	pfdin1600C65 = window{min: 4_000_000, max: 75_000_000}
)

const (
	fvcoby2C45Min = 400_000_000 // minimum FVCO/2, used to derive ODF
	odfC45Max     = 63
)

// Params1600C65 computes the PLL1600 (C65) fields.
//
//	out = 2*ndiv*in / mdiv
//
// mdiv is searched over 1..7, keeping PFDIN (in/mdiv) within
// 4 MHz..75 MHz, and ndiv over 4..255.
func Params1600C65(input, output uint64) (Fields, error) {
	const name = "PLL1600-C65"
	if err := win1600C65.check(name, input, output); err != nil {
		return Fields{}, err
	}

	var s search
	for m := uint64(1); m <= 7; m++ {
		pfdin := input / m
		if pfdin < pfdin1600C65.min || pfdin > pfdin1600C65.max {
			continue
		}
		n := xmath.MustMulDiv(output, m, 2*input)
		if n < 4 {
			continue
		}
		if n > 255 {
			break
		}
		f := Fields{Mdiv: uint32(m), Ndiv: uint32(n)}
		if s.add(f, Rate1600C65(input, f), output) {
			break
		}
	}
	return s.result(name, input, output)
}

// Rate1600C65 returns the PLL1600 (C65) output frequency.
func Rate1600C65(input uint64, f Fields) uint64 {
	return xmath.MustMulDiv(2*input, uint64(f.Ndiv), dec(f.Mdiv))
}

// Params1600C45 computes the PLL1600 (C45) FVCO fields and the matching
// charge pump.
//
//	fvco = 2*ndiv*in / idf
//
// idf is searched over 1..7 and ndiv over 8..225.
func Params1600C45(input, output uint64) (Fields, error) {
	const name = "PLL1600-C45"
	if err := win1600C45.check(name, input, output); err != nil {
		return Fields{}, err
	}

	var s search
	for idf := uint64(1); idf <= 7; idf++ {
		n := xmath.MustMulDiv(output, idf, 2*input)
		if n < 8 {
			continue
		}
		if n > 225 {
			break
		}
		f := Fields{Idf: uint32(idf), Ndiv: uint32(n)}
		if s.add(f, Rate1600C45(input, f), output) {
			break
		}
	}

	f, err := s.result(name, input, output)
	if err != nil {
		return f, err
	}
	f.Cp = cp1600c45.lookup(f.Ndiv)
	return f, nil
}

// Rate1600C45 returns the PLL1600 (C45) FVCO frequency.
func Rate1600C45(input uint64, f Fields) uint64 {
	return xmath.MustMulDiv(2*input, uint64(f.Ndiv), dec(f.Idf))
}

// Params1600C45Phi computes the PLL1600 (C45) fields for a PHI output.
//
//	phi = ndiv*in / (idf*odf)
//
// odf is the smallest divider keeping FVCO/2 above 400 MHz; the FVCO
// fields are then solved for 2*out*odf.
func Params1600C45Phi(input, output uint64) (Fields, error) {
	const name = "PLL1600-C45-PHI"
	if err := win1600C45Phi.check(name, input, output); err != nil {
		return Fields{}, err
	}

	odf := xmath.Clamp(xmath.CeilDiv(uint64(fvcoby2C45Min), output), 1, odfC45Max)
	f, err := Params1600C45(input, 2*output*odf)
	if err != nil {
		return Fields{}, fmt.Errorf("pll: %s: could not solve FVCO (odf=%d): %w", name, odf, err)
	}
	f.Odf = uint32(odf)
	return f, nil
}

// Rate1600C45Phi returns the PLL1600 (C45) PHI frequency.
func Rate1600C45Phi(input uint64, f Fields) uint64 {
	return xmath.MustMulDiv(input, uint64(f.Ndiv), dec(f.Idf)*dec(f.Odf))
}
