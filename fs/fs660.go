// Copyright 2021 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fs

import (
	"fmt"

	"github.com/go-lpc/clkgen/clkerr"
	"github.com/go-lpc/clkgen/internal/xmath"
)

const (
	vco660Min   = 384_000_000
	vco660Max   = 660_000_000
	vco660InMax = 40_000_000 // above, the PLL needs pdiv=2

	ndiv660Offset = 16 // ndiv register holds n-16
	ndiv660Max    = 7  // 3-bit register

	sdiv660Max = 8
	mdiv660Max = 31
)

// Params660VCO computes the feedback divider of the PLL embedded in
// the FS660, for a VCO frequency of output.
//
//	fvco = in * (ndiv+16)
func Params660VCO(input, output uint64) (Fields, error) {
	const name = "FS660-VCO"
	if err := check(name, input, output); err != nil {
		return Fields{}, err
	}
	if output < vco660Min || output > vco660Max {
		return Fields{}, fmt.Errorf(
			"fs: %s: output frequency %d Hz outside of [%d, %d] Hz: %w",
			name, output, uint64(vco660Min), uint64(vco660Max), clkerr.ErrBadParameter,
		)
	}
	if input > vco660InMax {
		return Fields{}, fmt.Errorf(
			"fs: %s: input frequency %d Hz requires pdiv=2: %w",
			name, input, clkerr.ErrFeatureNotSupported,
		)
	}

	inK := input / 1000
	if inK == 0 {
		return Fields{}, errNoSolution(name, input, output)
	}
	n := (output / 1000) / inK
	if n < ndiv660Offset {
		n = ndiv660Offset
	}
	if n-ndiv660Offset > ndiv660Max {
		return Fields{}, errNoSolution(name, input, output)
	}
	return Fields{Ndiv: uint32(n - ndiv660Offset)}, nil
}

// Rate660VCO returns the VCO frequency of the PLL embedded in the FS660.
//
// Unlike every other rate function, Rate660VCO validates its result and
// fails with clkerr.ErrBadParameter outside of 384 MHz..660 MHz.
func Rate660VCO(input uint64, f Fields) (uint64, error) {
	rate := input * (uint64(f.Ndiv) + ndiv660Offset)
	if rate < vco660Min || rate > vco660Max {
		return rate, fmt.Errorf(
			"fs: FS660-VCO: rate %d Hz outside of [%d, %d] Hz: %w",
			rate, uint64(vco660Min), uint64(vco660Max), clkerr.ErrBadParameter,
		)
	}
	return rate, nil
}

// Params660 computes the FS660 digital divider fields, from the VCO
// frequency input.
//
//	out = in*P20*32 / ((P20*(32+mdiv) + 32*pe) * s * ns)
//
// with mdiv in [0,31], s=2^sdiv (sdiv in [0,8]) and ns in {1,3}.
func Params660(input, output uint64, opts ...Option) (Fields, error) {
	const name = "FS660"
	if err := check(name, input, output); err != nil {
		return Fields{}, err
	}
	nss, err := newConfig(opts).nsdivs()
	if err != nil {
		return Fields{}, err
	}

	var best search
	for _, ns := range nss {
		best.merge(search660(input, output, ns))
		if best.found && best.dev == 0 {
			break
		}
	}
	if !best.found {
		return Fields{}, errNoSolution(name, input, output)
	}
	return best.best, nil
}

func search660(input, output uint64, ns uint32) search {
	var s search
	rate := func(f Fields) uint64 { return Rate660(input, f) }

loop:
	for si := int64(sdiv660Max); si >= 0; si-- {
		sd := uint64(1) << si
		q := xmath.MustMulDiv(input, p20, sd*nsdec(ns)*output)
		for md := uint64(0); md <= mdiv660Max; md++ {
			base := p15 * (32 + md)
			if q < base {
				// larger mdiv only lowers pe further.
				break
			}
			pe := q - base
			if pe > peMax {
				continue
			}
			f := Fields{
				Mdiv:  uint32(md),
				Pe:    uint32(pe),
				Sdiv:  uint32(si),
				NSDiv: ns,
			}
			if s.refine(f, rate, output) {
				break loop
			}
		}
	}
	return s
}

// Rate660 returns the FS660 digital output frequency.
// Only the register bits of mdiv (5) and pe (15) are taken into account.
func Rate660(input uint64, f Fields) uint64 {
	var (
		md  = uint64(f.Mdiv & 0x1f)
		pe  = uint64(f.Pe & 0x7fff)
		sd  = uint64(1) << (f.Sdiv & 0xf)
		ns  = nsdec(f.NSDiv)
		div = (p20*(32+md) + 32*pe) * sd * ns
	)
	return xmath.MustMulDiv(input, p20*32, div)
}
