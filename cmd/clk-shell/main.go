// Copyright 2021 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command clk-shell is an interactive shell to solve and evaluate clock
// generator register fields.
//
// Example:
//
//	$> clk-shell
//	clk> solve pll3200 25MHz 1.6GHz
//	pll3200: in=25000000 out=1600000000 rate=1600000000 dev=0 fields=[...]
//	clk> rate pll3200 25MHz idf=1 ndiv=32
//	1600000000 Hz
//	clk> quit
package main // import "github.com/go-lpc/clkgen/cmd/clk-shell"

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/peterh/liner"

	"github.com/go-lpc/clkgen"
	"github.com/go-lpc/clkgen/fs"
)

func main() {
	log.SetPrefix("clk-shell: ")
	log.SetFlags(0)

	var (
		hist = flag.String("hist", "", "path to history file")
	)

	flag.Parse()

	err := run(os.Stdout, *hist)
	if err != nil {
		log.Fatalf("%+v", err)
	}
}

func run(w io.Writer, hist string) error {
	ln := liner.NewLiner()
	defer ln.Close()

	ln.SetCtrlCAborts(true)
	ln.SetCompleter(complete)

	if hist != "" {
		f, err := os.Open(hist)
		if err == nil {
			_, _ = ln.ReadHistory(f)
			f.Close()
		}
		defer func() {
			f, err := os.Create(hist)
			if err != nil {
				log.Printf("could not create history file: %+v", err)
				return
			}
			defer f.Close()
			_, err = ln.WriteHistory(f)
			if err != nil {
				log.Printf("could not write history file: %+v", err)
			}
		}()
	}

	sh := newShell(w)
	for {
		line, err := ln.Prompt("clk> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Fprintf(w, "\n")
				return nil
			}
			return fmt.Errorf("could not read prompt: %w", err)
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		ln.AppendHistory(line)

		quit, err := sh.exec(line)
		if err != nil {
			fmt.Fprintf(w, "error: %+v\n", err)
		}
		if quit {
			return nil
		}
	}
}

var cmdNames = []string{"help", "nsdiv", "quit", "rate", "solve", "topos"}

func complete(line string) []string {
	toks := strings.Fields(line)
	switch {
	case len(toks) == 0:
		return cmdNames
	case len(toks) == 1 && !strings.HasSuffix(line, " "):
		return prefixed(cmdNames, "", toks[0])
	case len(toks) == 1 && (toks[0] == "solve" || toks[0] == "rate"):
		return prefixed(topoNames(), line, "")
	case len(toks) == 2 && !strings.HasSuffix(line, " ") && (toks[0] == "solve" || toks[0] == "rate"):
		return prefixed(topoNames(), toks[0]+" ", toks[1])
	}
	return nil
}

func topoNames() []string {
	var names []string
	for _, t := range clkgen.Topologies() {
		names = append(names, t.String())
	}
	sort.Strings(names)
	return names
}

func prefixed(vs []string, head, prefix string) []string {
	var out []string
	for _, v := range vs {
		if strings.HasPrefix(v, prefix) {
			out = append(out, head+v)
		}
	}
	return out
}

type shell struct {
	w    io.Writer
	opts []fs.Option
}

func newShell(w io.Writer) *shell {
	return &shell{w: w}
}

// exec executes a single command line.
// It reports whether the shell should exit.
func (sh *shell) exec(line string) (bool, error) {
	toks := strings.Fields(line)
	if len(toks) == 0 {
		return false, nil
	}

	switch cmd, args := toks[0], toks[1:]; cmd {
	case "quit", "exit":
		return true, nil
	case "help":
		sh.help()
		return false, nil
	case "topos":
		for _, t := range clkgen.Topologies() {
			fmt.Fprintf(sh.w, "%-16s %v %v\n", t, t.Family(), clkgen.FieldNames(t))
		}
		return false, nil
	case "nsdiv":
		return false, sh.nsdiv(args)
	case "solve":
		return false, sh.solve(args)
	case "rate":
		return false, sh.rate(args)
	default:
		return false, fmt.Errorf("unknown command %q (try 'help')", cmd)
	}
}

func (sh *shell) help() {
	fmt.Fprintf(sh.w, `commands:
  solve TOPOLOGY INPUT OUTPUT      compute the register fields of TOPOLOGY
  rate  TOPOLOGY INPUT [F=V ...]   evaluate register fields into a frequency
  nsdiv [0|1|auto]                 pin (or search) the nsdiv field of FS topologies
  topos                            list known topologies
  help                             display this help message
  quit                             exit the shell
`)
}

func (sh *shell) nsdiv(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("nsdiv: invalid number of arguments (got=%d, want=1)", len(args))
	}
	switch args[0] {
	case "auto":
		sh.opts = nil
	case "0":
		sh.opts = []fs.Option{fs.WithNSDiv(0)}
	case "1":
		sh.opts = []fs.Option{fs.WithNSDiv(1)}
	default:
		return fmt.Errorf("nsdiv: invalid value %q", args[0])
	}
	return nil
}

func (sh *shell) solve(args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("solve: invalid number of arguments (got=%d, want=3)", len(args))
	}
	t, err := clkgen.ParseTopology(args[0])
	if err != nil {
		return fmt.Errorf("solve: %w", err)
	}
	in, err := clkgen.ParseHz(args[1])
	if err != nil {
		return fmt.Errorf("solve: %w", err)
	}
	out, err := clkgen.ParseHz(args[2])
	if err != nil {
		return fmt.Errorf("solve: %w", err)
	}

	sol, err := clkgen.Solve(t, in, out, sh.opts...)
	if err != nil {
		return fmt.Errorf("solve: %w", err)
	}

	names := clkgen.FieldNames(t)
	kvs := make([]string, len(names))
	for i, v := range sol.Fields() {
		kvs[i] = fmt.Sprintf("%s=%d", names[i], v)
	}
	fmt.Fprintf(sh.w, "%v: rate=%d Hz dev=%d Hz (%.3f ppm)\n  %s\n",
		t, sol.Rate, sol.Deviation, sol.PPM(), strings.Join(kvs, " "),
	)
	return nil
}

func (sh *shell) rate(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("rate: invalid number of arguments (got=%d, want>=2)", len(args))
	}
	t, err := clkgen.ParseTopology(args[0])
	if err != nil {
		return fmt.Errorf("rate: %w", err)
	}
	in, err := clkgen.ParseHz(args[1])
	if err != nil {
		return fmt.Errorf("rate: %w", err)
	}
	vs, err := clkgen.ParseFields(t, args[2:])
	if err != nil {
		return fmt.Errorf("rate: %w", err)
	}
	rate, err := clkgen.Rate(t, in, vs)
	if err != nil {
		return fmt.Errorf("rate: %w", err)
	}
	fmt.Fprintf(sh.w, "%d Hz\n", rate)
	return nil
}
