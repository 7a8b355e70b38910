// Copyright 2021 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command clk-sql solves all the clock targets stored in the clock
// database, and records their solutions.
package main // import "github.com/go-lpc/clkgen/cmd/clk-sql"

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/go-lpc/clkgen"
	"github.com/go-lpc/clkgen/clkdb"
)

func main() {
	log.SetPrefix("clk-sql: ")
	log.SetFlags(0)

	var (
		dbname = flag.String("db", "clkgen", "name of the clock database")
		dryRun = flag.Bool("dry-run", false, "do not record solutions")
	)

	flag.Parse()

	db, err := clkdb.Open(*dbname)
	if err != nil {
		log.Fatalf("could not open clock db: %+v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err = process(ctx, db, *dryRun)
	if err != nil {
		log.Fatalf("could not process clock targets: %+v", err)
	}
}

type store interface {
	Targets(ctx context.Context) ([]clkdb.Target, error)
	Record(ctx context.Context, name string, sol clkgen.Solution) error
}

// process solves all the targets of db.
// Unsolvable targets are logged and skipped.
func process(ctx context.Context, db store, dryRun bool) error {
	tgts, err := db.Targets(ctx)
	if err != nil {
		return fmt.Errorf("could not retrieve clock targets: %w", err)
	}
	log.Printf("targets: %d", len(tgts))

	nfail := 0
	for _, tgt := range tgts {
		sol, err := clkgen.Solve(tgt.Topology, tgt.Input, tgt.Output)
		if err != nil {
			log.Printf("could not solve target %q: %+v", tgt.Name, err)
			nfail++
			continue
		}
		log.Printf(">>> %s: %v", tgt.Name, sol)

		if dryRun {
			continue
		}
		err = db.Record(ctx, tgt.Name, sol)
		if err != nil {
			return fmt.Errorf("could not record solution for target %q: %w", tgt.Name, err)
		}
	}

	if nfail > 0 {
		log.Printf("could not solve %d/%d targets", nfail, len(tgts))
	}

	return nil
}
