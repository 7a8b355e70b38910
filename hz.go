// Copyright 2021 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package clkgen

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-lpc/clkgen/clkerr"
)

var hzUnits = []struct {
	suffix string
	scale  float64
}{
	{"ghz", 1e9},
	{"mhz", 1e6},
	{"khz", 1e3},
	{"hz", 1},
	{"g", 1e9},
	{"m", 1e6},
	{"k", 1e3},
}

// ParseHz parses a frequency such as "25000000", "25e6", "25MHz",
// "1.6GHz" or "32kHz" into Hz.
// The result is rounded to the nearest Hz.
func ParseHz(s string) (uint64, error) {
	str := strings.TrimSpace(s)
	if v, err := strconv.ParseUint(str, 10, 64); err == nil {
		return v, nil
	}

	var (
		num   = strings.ToLower(str)
		scale = 1.0
	)
	for _, u := range hzUnits {
		if strings.HasSuffix(num, u.suffix) {
			num = strings.TrimSpace(num[:len(num)-len(u.suffix)])
			scale = u.scale
			break
		}
	}

	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("clkgen: could not parse frequency %q: %w", s, clkerr.ErrBadParameter)
	}
	v = math.Round(v * scale)
	if math.IsNaN(v) || v < 0 || v >= math.MaxUint64 {
		return 0, fmt.Errorf("clkgen: invalid frequency %q: %w", s, clkerr.ErrBadParameter)
	}
	return uint64(v), nil
}

// FormatHz formats a frequency in Hz with the largest unit that keeps
// it exact.
func FormatHz(v uint64) string {
	switch {
	case v != 0 && v%1_000_000_000 == 0:
		return strconv.FormatUint(v/1_000_000_000, 10) + "GHz"
	case v != 0 && v%1_000_000 == 0:
		return strconv.FormatUint(v/1_000_000, 10) + "MHz"
	case v != 0 && v%1_000 == 0:
		return strconv.FormatUint(v/1_000, 10) + "kHz"
	}
	return strconv.FormatUint(v, 10) + "Hz"
}
