// Copyright 2021 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pll

var (
	win4600   = window{min: 19_000_000, max: 3_000_000_000}
	infin4600 = window{min: 4_000_000, max: 50_000_000}
)

const (
	ndiv4600Min = 8
	ndiv4600Max = 246
)

// Params4600 computes the PLL4600 fields.
//
//	fvcoby2 = 2*(in/idf)*ndiv
//
// idf is kept as small as possible and ndiv as large as possible.
// Only candidates at or above the requested output are retained.
func Params4600(input, output uint64) (Fields, error) {
	const name = "PLL4600"
	if err := win4600.check(name, input, output); err != nil {
		return Fields{}, err
	}

	var s search
loop:
	for idf := uint64(1); idf <= 7; idf++ {
		infin := input / idf
		if infin < infin4600.min || infin > infin4600.max {
			continue
		}

		n := output / (2 * infin)
		if n < ndiv4600Min || n > ndiv4600Max {
			continue
		}
		if n < ndiv4600Max {
			n++ // round up the fractional part of out/(2*infin)
		}

		for ; n >= ndiv4600Min; n-- {
			f := Fields{Idf: uint32(idf), Ndiv: uint32(n)}
			rate := Rate4600(input, f)
			if rate < output {
				break
			}
			if s.add(f, rate, output) {
				break loop
			}
		}
	}
	return s.result(name, input, output)
}

// Rate4600 returns the PLL4600 FVCOBY2 frequency.
func Rate4600(input uint64, f Fields) uint64 {
	return (input / dec(f.Idf)) * 2 * uint64(f.Ndiv)
}
