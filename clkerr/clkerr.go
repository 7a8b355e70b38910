// Copyright 2021 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package clkerr describes the errors reported by the clock solvers.
package clkerr // import "github.com/go-lpc/clkgen/clkerr"

import (
	"errors"
	"fmt"
)

// Code classifies the outcome of a solver call.
type Code uint8

const (
	None                Code = iota // success
	BadParameter                    // out-of-window request, no solution or invalid topology
	FeatureNotSupported             // request needs a hardware mode that is not implemented
	Internal                        // unreachable state
)

func (c Code) String() string {
	switch c {
	case None:
		return "none"
	case BadParameter:
		return "bad parameter"
	case FeatureNotSupported:
		return "feature not supported"
	case Internal:
		return "internal"
	default:
		return fmt.Sprintf("Code(%d)", uint8(c))
	}
}

var (
	ErrBadParameter        = errors.New("clk: bad parameter")
	ErrFeatureNotSupported = errors.New("clk: feature not supported")
	ErrInternal            = errors.New("clk: internal error")
)

// CodeOf returns the code carried by err.
// Errors outside of the taxonomy are reported as Internal.
func CodeOf(err error) Code {
	switch {
	case err == nil:
		return None
	case errors.Is(err, ErrBadParameter):
		return BadParameter
	case errors.Is(err, ErrFeatureNotSupported):
		return FeatureNotSupported
	default:
		return Internal
	}
}
