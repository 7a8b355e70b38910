// Copyright 2021 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pll

// cpTable maps a feedback divider to its recommended charge pump.
// max[i] is the highest ndiv accepted by charge pump first+i.
type cpTable struct {
	first uint32
	max   []uint32
}

var (
	// cp1600c45 covers cp=7 to cp=27.
	cp1600c45 = cpTable{
		first: 7,
		max: []uint32{
			71, 79, 87, 95, 103, 111, 119, 127, 135, 143,
			151, 159, 167, 175, 183, 191, 199, 207, 215, 223,
			231,
		},
	}

	// cp3200 covers cp=6 to cp=24; larger dividers use cp=25.
	cp3200 = cpTable{
		first: 6,
		max: []uint32{
			48, 56, 64, 72, 80, 88, 96, 104, 112, 120,
			128, 136, 144, 152, 160, 168, 176, 184, 192,
		},
	}
)

// lookup returns the smallest charge pump whose threshold is >= ndiv.
func (tbl cpTable) lookup(ndiv uint32) uint32 {
	for i, v := range tbl.max {
		if ndiv <= v {
			return tbl.first + uint32(i)
		}
	}
	return tbl.first + uint32(len(tbl.max))
}
