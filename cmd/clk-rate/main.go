// Copyright 2021 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command clk-rate evaluates the register fields of a clock generator
// into an output frequency.
//
// Usage: clk-rate [OPTIONS] TOPOLOGY INPUT [FIELD=VALUE ...]
//
// Example:
//
//	$> clk-rate pll3200 25MHz idf=1 ndiv=32
//	1600000000
package main // import "github.com/go-lpc/clkgen/cmd/clk-rate"

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/go-lpc/clkgen"
)

func main() {
	log.SetPrefix("clk-rate: ")
	log.SetFlags(0)

	var (
		human = flag.Bool("h", false, "display the rate with units")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `clk-rate evaluates the register fields of a clock generator.

Usage: clk-rate [OPTIONS] TOPOLOGY INPUT [FIELD=VALUE ...]

Example:

 $> clk-rate pll3200 25MHz idf=1 ndiv=32
 $> clk-rate fs216 30MHz mdiv=25 pe=4634 nsdiv=1

Options:
`)
		flag.PrintDefaults()
	}

	flag.Parse()

	if flag.NArg() < 2 {
		flag.Usage()
		log.Fatalf("missing topology and input frequency")
	}

	err := process(os.Stdout, flag.Arg(0), flag.Arg(1), flag.Args()[2:], *human)
	if err != nil {
		log.Fatalf("could not compute rate: %+v", err)
	}
}

func process(w io.Writer, topo, input string, fields []string, human bool) error {
	t, err := clkgen.ParseTopology(topo)
	if err != nil {
		return fmt.Errorf("could not parse topology: %w", err)
	}

	in, err := clkgen.ParseHz(input)
	if err != nil {
		return fmt.Errorf("could not parse input frequency: %w", err)
	}

	vs, err := clkgen.ParseFields(t, fields)
	if err != nil {
		return fmt.Errorf("could not parse fields: %w", err)
	}

	rate, err := clkgen.Rate(t, in, vs)
	if err != nil {
		return fmt.Errorf("could not evaluate %v fields: %w", t, err)
	}

	switch {
	case human:
		fmt.Fprintf(w, "%s\n", clkgen.FormatHz(rate))
	default:
		fmt.Fprintf(w, "%d\n", rate)
	}
	return nil
}
