// Copyright 2021 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package xmath provides overflow-safe integer helpers for Hz-scale
// arithmetic.
package xmath // import "github.com/go-lpc/clkgen/internal/xmath"

import (
	"errors"
	"math/bits"

	"golang.org/x/exp/constraints"
)

// ErrOverflow is returned when a quotient does not fit in 64 bits.
var ErrOverflow = errors.New("xmath: overflow")

// MulDiv returns a*b/den computed with a 128-bit intermediate product.
// MulDiv panics if den is zero.
func MulDiv(a, b, den uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if den <= hi {
		return 0, ErrOverflow
	}
	q, _ := bits.Div64(hi, lo, den)
	return q, nil
}

// MustMulDiv is like MulDiv but saturates to the maximum uint64 value
// on overflow.
func MustMulDiv(a, b, den uint64) uint64 {
	q, err := MulDiv(a, b, den)
	if err != nil {
		return ^uint64(0)
	}
	return q
}

// CeilDiv returns ceil(num/den).
func CeilDiv[T constraints.Unsigned](num, den T) T {
	q := num / den
	if num%den != 0 {
		q++
	}
	return q
}

// AbsDiff returns |a-b| without underflow.
func AbsDiff[T constraints.Unsigned](a, b T) T {
	if a > b {
		return a - b
	}
	return b - a
}

// Clamp returns v limited to [lo, hi].
func Clamp[T constraints.Integer](v, lo, hi T) T {
	switch {
	case v < lo:
		return lo
	case v > hi:
		return hi
	}
	return v
}
