// Copyright 2021 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command clk-params computes the register fields of a clock generator.
//
// Usage: clk-params [OPTIONS] TOPOLOGY INPUT OUTPUT
//
// Example:
//
//	$> clk-params pll3200 25MHz 1.6GHz
//	topology: pll3200
//	input:    25000000 Hz
//	output:   1600000000 Hz
//	rate:     1600000000 Hz (dev=0 Hz, 0.000 ppm)
//	mdiv:     0
//	ndiv:     32
//	[...]
package main // import "github.com/go-lpc/clkgen/cmd/clk-params"

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/go-lpc/clkgen"
	"github.com/go-lpc/clkgen/fs"
)

func main() {
	log.SetPrefix("clk-params: ")
	log.SetFlags(0)

	var (
		nsdiv = flag.Int("nsdiv", -1, "pin the nsdiv field of FS topologies (0 or 1, -1 to search)")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `clk-params computes the register fields of a clock generator.

Usage: clk-params [OPTIONS] TOPOLOGY INPUT OUTPUT

Example:

 $> clk-params pll3200 25MHz 1.6GHz
 $> clk-params -nsdiv=1 fs216 30e6 27MHz

Topologies: %v

Options:
`, clkgen.Topologies())
		flag.PrintDefaults()
	}

	flag.Parse()

	if flag.NArg() != 3 {
		flag.Usage()
		log.Fatalf("invalid number of arguments (got=%d, want=3)", flag.NArg())
	}

	err := process(os.Stdout, flag.Arg(0), flag.Arg(1), flag.Arg(2), *nsdiv)
	if err != nil {
		log.Fatalf("could not compute parameters: %+v", err)
	}
}

func process(w io.Writer, topo, input, output string, nsdiv int) error {
	t, err := clkgen.ParseTopology(topo)
	if err != nil {
		return fmt.Errorf("could not parse topology: %w", err)
	}

	in, err := clkgen.ParseHz(input)
	if err != nil {
		return fmt.Errorf("could not parse input frequency: %w", err)
	}

	out, err := clkgen.ParseHz(output)
	if err != nil {
		return fmt.Errorf("could not parse output frequency: %w", err)
	}

	var opts []fs.Option
	if nsdiv >= 0 {
		opts = append(opts, fs.WithNSDiv(uint32(nsdiv)))
	}

	sol, err := clkgen.Solve(t, in, out, opts...)
	if err != nil {
		return fmt.Errorf("could not solve %v: %w", t, err)
	}

	fmt.Fprintf(w, "topology: %v\n", sol.Topology)
	fmt.Fprintf(w, "input:    %d Hz\n", sol.Input)
	fmt.Fprintf(w, "output:   %d Hz\n", sol.Output)
	fmt.Fprintf(w, "rate:     %d Hz (dev=%d Hz, %.3f ppm)\n", sol.Rate, sol.Deviation, sol.PPM())
	names := clkgen.FieldNames(t)
	for i, v := range sol.Fields() {
		fmt.Fprintf(w, "%-9s %d\n", names[i]+":", v)
	}

	return nil
}
