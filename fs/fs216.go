// Copyright 2021 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fs

import (
	"github.com/go-lpc/clkgen/internal/xmath"
)

const (
	nd216 = 8  // ndiv stuck at 0
	nd432 = 16 // ndiv stuck at 0

	sdiv216Max = 7
	mdivOffset = 32 // mdiv register holds md+32
)

// mdOrder is the order in which md values are explored.
// -17 is only tried once every other value failed to hit the target.
var mdOrder = [...]int64{
	-16, -15, -14, -13, -12, -11, -10, -9,
	-8, -7, -6, -5, -4, -3, -2, -1,
	-17,
}

// Params216 computes the FS216 fields.
//
//	out = P15*nd*in*32 / (s*ns*(P15*(md+33) - pe))
//
// with nd=8, md=mdiv-32 in [-17,-1], s=2^(sdiv+1) and ns in {1,3}.
func Params216(input, output uint64, opts ...Option) (Fields, error) {
	return paramsC65("FS216", nd216, input, output, opts)
}

// Rate216 returns the FS216 output frequency.
func Rate216(input uint64, f Fields) uint64 {
	return rateC65(nd216, input, f)
}

// Params432 computes the FS432 fields.
// The formula is the one of FS216, with nd=16.
func Params432(input, output uint64, opts ...Option) (Fields, error) {
	return paramsC65("FS432", nd432, input, output, opts)
}

// Rate432 returns the FS432 output frequency.
func Rate432(input uint64, f Fields) uint64 {
	return rateC65(nd432, input, f)
}

func paramsC65(name string, nd, input, output uint64, opts []Option) (Fields, error) {
	if err := check(name, input, output); err != nil {
		return Fields{}, err
	}
	nss, err := newConfig(opts).nsdivs()
	if err != nil {
		return Fields{}, err
	}

	var best search
	for _, ns := range nss {
		s := searchC65(nd, input, output, ns)
		best.merge(s)
		if best.found && best.dev == 0 {
			break
		}
	}
	if !best.found {
		return Fields{}, errNoSolution(name, input, output)
	}

	f := best.best
	// md=-17/pe=0 is programmed as md=-16/pe=32767.
	// The two encodings differ by one LSB of pe.
	if int64(f.Mdiv)-mdivOffset == -17 && f.Pe == 0 {
		f.Mdiv = -16 + mdivOffset
		f.Pe = peMax
	}
	return f, nil
}

func searchC65(nd, input, output uint64, ns uint32) search {
	var (
		s   search
		num = p15 * 32 * nd
	)
	rate := func(f Fields) uint64 { return rateC65(nd, input, f) }

loop:
	for si := int64(sdiv216Max); si >= 0; si-- {
		sd := uint64(1) << (si + 1)
		q := xmath.MustMulDiv(input, num, sd*nsdec(ns)*output)
		for _, md := range mdOrder {
			top := uint64(p15 * (md + 33))
			if q > top {
				continue
			}
			pe := top - q
			if pe > peMax {
				continue
			}
			f := Fields{
				Mdiv:  uint32(md + mdivOffset),
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

// rateC65 evaluates the FS216/FS432 formula.
// It returns 0 when the fields encode a non-positive divider.
func rateC65(nd, input uint64, f Fields) uint64 {
	var (
		md = int64(f.Mdiv&0x1f) - mdivOffset
		sd = uint64(1) << ((f.Sdiv & 0x7) + 1)
		ns = nsdec(f.NSDiv)
	)
	div := p15*(md+33) - int64(f.Pe)
	if div <= 0 {
		return 0
	}
	return xmath.MustMulDiv(input, p15*32*nd, sd*ns*uint64(div))
}
