// Copyright 2021 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command clk-sweep solves a clock generator over a range of output
// frequencies and histograms the achieved deviations.
//
// Usage: clk-sweep [OPTIONS] TOPOLOGY
//
// Example:
//
//	$> clk-sweep -in=30MHz -min=20MHz -max=200MHz -step=1MHz -o=fs216.yoda fs216
//	clk-sweep: fs216: 181 frequencies, 181 solved, 0 failed
//	clk-sweep: ppm: mean=0.145 stddev=0.171 max=0.611 (at 197000000 Hz)
package main // import "github.com/go-lpc/clkgen/cmd/clk-sweep"

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"time"

	"github.com/sbinet/pmon"
	"go-hep.org/x/hep/hbook"
	"golang.org/x/sync/errgroup"

	"github.com/go-lpc/clkgen"
)

func main() {
	log.SetPrefix("clk-sweep: ")
	log.SetFlags(0)

	var (
		input = flag.String("in", "30MHz", "input frequency")
		fmin  = flag.String("min", "10MHz", "first output frequency")
		fmax  = flag.String("max", "100MHz", "last output frequency")
		step  = flag.String("step", "1MHz", "output frequency step")
		nbins = flag.Int("nbins", 100, "number of bins of the ppm histogram")
		xmax  = flag.Float64("xmax", 100, "upper edge of the ppm histogram")
		njobs = flag.Int("j", runtime.NumCPU(), "number of concurrent solvers")
		oname = flag.String("o", "", "path to YODA output file for the ppm histogram")

		doMon  = flag.Bool("pmon", false, "enable pmon monitoring")
		doFreq = flag.Duration("freq", 1*time.Second, "pmon frequency")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `clk-sweep solves a clock generator over a range of output frequencies.

Usage: clk-sweep [OPTIONS] TOPOLOGY

Example:

 $> clk-sweep -in=30MHz -min=20MHz -max=200MHz -step=1MHz -o=fs216.yoda fs216

Options:
`)
		flag.PrintDefaults()
	}

	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		log.Fatalf("missing topology")
	}

	cfg, err := newConfig(flag.Arg(0), *input, *fmin, *fmax, *step)
	if err != nil {
		log.Fatalf("could not create sweep configuration: %+v", err)
	}
	cfg.nbins = *nbins
	cfg.xmax = *xmax
	cfg.njobs = *njobs

	if *doMon {
		stop, err := monitor(*doFreq)
		if err != nil {
			log.Fatalf("could not start monitoring: %+v", err)
		}
		defer stop()
	}

	sum, err := sweep(cfg)
	if err != nil {
		log.Fatalf("could not sweep %v: %+v", cfg.topo, err)
	}
	sum.print(log.Writer())

	if *oname != "" {
		err = save(*oname, sum.h)
		if err != nil {
			log.Fatalf("could not save histogram: %+v", err)
		}
	}
}

type config struct {
	topo  clkgen.Topology
	in    uint64
	fmin  uint64
	fmax  uint64
	step  uint64
	nbins int
	xmax  float64
	njobs int
}

func newConfig(topo, in, fmin, fmax, step string) (config, error) {
	var (
		cfg = config{nbins: 100, xmax: 100, njobs: 1}
		err error
	)

	cfg.topo, err = clkgen.ParseTopology(topo)
	if err != nil {
		return cfg, fmt.Errorf("could not parse topology: %w", err)
	}

	for _, v := range []struct {
		name string
		str  string
		ptr  *uint64
	}{
		{"input", in, &cfg.in},
		{"min", fmin, &cfg.fmin},
		{"max", fmax, &cfg.fmax},
		{"step", step, &cfg.step},
	} {
		*v.ptr, err = clkgen.ParseHz(v.str)
		if err != nil {
			return cfg, fmt.Errorf("could not parse %s frequency: %w", v.name, err)
		}
	}

	if cfg.step == 0 {
		return cfg, fmt.Errorf("invalid null frequency step")
	}
	if cfg.fmax < cfg.fmin {
		return cfg, fmt.Errorf("invalid frequency range [%d, %d]", cfg.fmin, cfg.fmax)
	}
	return cfg, nil
}

func (cfg config) outputs() []uint64 {
	n := (cfg.fmax-cfg.fmin)/cfg.step + 1
	vs := make([]uint64, 0, n)
	for i := uint64(0); i < n; i++ {
		vs = append(vs, cfg.fmin+i*cfg.step)
	}
	return vs
}

type summary struct {
	topo   clkgen.Topology
	n      int
	failed int
	worst  clkgen.Solution
	h      *hbook.H1D
}

func (sum summary) print(w io.Writer) {
	fmt.Fprintf(w, "%v: %d frequencies, %d solved, %d failed\n",
		sum.topo, sum.n, sum.n-sum.failed, sum.failed,
	)
	if sum.h.Entries() == 0 {
		return
	}
	fmt.Fprintf(w, "ppm: mean=%.3f stddev=%.3f max=%.3f (at %d Hz)\n",
		sum.h.XMean(), sum.h.XStdDev(), sum.worst.PPM(), sum.worst.Output,
	)
}

// sweep solves every output frequency of cfg with cfg.njobs workers.
// Frequencies with no solution are counted, not reported as errors.
func sweep(cfg config) (summary, error) {
	var (
		outs = cfg.outputs()
		sols = make([]clkgen.Solution, len(outs))
		oks  = make([]bool, len(outs))
		grp  errgroup.Group
	)
	if cfg.njobs > 0 {
		grp.SetLimit(cfg.njobs)
	}

	for i := range outs {
		i := i
		grp.Go(func() error {
			sol, err := clkgen.Solve(cfg.topo, cfg.in, outs[i])
			if err != nil {
				return nil
			}
			sols[i] = sol
			oks[i] = true
			return nil
		})
	}

	err := grp.Wait()
	if err != nil {
		return summary{}, fmt.Errorf("could not run sweep: %w", err)
	}

	sum := summary{
		topo: cfg.topo,
		n:    len(outs),
		h:    hbook.NewH1D(cfg.nbins, 0, cfg.xmax),
	}
	sum.h.Annotation()["name"] = "ppm-" + cfg.topo.String()
	sum.h.Annotation()["title"] = fmt.Sprintf(
		"%v deviation (ppm), in=%d Hz, out=[%d, %d] Hz",
		cfg.topo, cfg.in, cfg.fmin, cfg.fmax,
	)

	found := false
	for i, ok := range oks {
		if !ok {
			sum.failed++
			continue
		}
		sol := sols[i]
		sum.h.Fill(sol.PPM(), 1)
		if !found || sol.PPM() > sum.worst.PPM() {
			sum.worst = sol
			found = true
		}
	}

	return sum, nil
}

func save(fname string, h *hbook.H1D) error {
	raw, err := h.MarshalYODA()
	if err != nil {
		return fmt.Errorf("could not marshal histogram to YODA: %w", err)
	}

	err = os.WriteFile(fname, raw, 0644)
	if err != nil {
		return fmt.Errorf("could not write YODA file %q: %w", fname, err)
	}
	return nil
}

// monitor starts monitoring the current process, logging to stderr.
func monitor(freq time.Duration) (func(), error) {
	pid := os.Getpid()
	p, err := pmon.Monitor(pid)
	if err != nil {
		return nil, fmt.Errorf("could not monitor pid=%d: %w", pid, err)
	}
	p.W = os.Stderr
	p.Freq = freq

	go func() {
		err := p.Run()
		if err != nil {
			log.Printf("could not run pmon: %+v", err)
		}
	}()

	return func() {
		err := p.Kill()
		if err != nil {
			log.Printf("could not stop monitoring: %+v", err)
		}
	}, nil
}
