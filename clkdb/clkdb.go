// Copyright 2021 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package clkdb gives access to the database of requested clock targets
// and of their solved register fields.
package clkdb // import "github.com/go-lpc/clkgen/clkdb"

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/go-lpc/clkgen"
)

const (
	host = "localhost"
)

var (
	usr = "username"
	pwd = "s3cr3t"

	drvName = "mysql"
)

// Target is a requested clock.
type Target struct {
	Name     string
	Topology clkgen.Topology
	Input    uint64 // input frequency, in Hz
	Output   uint64 // requested output frequency, in Hz
}

// Record is a solved clock target, as stored in the database.
type Record struct {
	Name      string
	Topology  clkgen.Topology
	Input     uint64
	Output    uint64
	Rate      uint64
	Deviation uint64
	Fields    []uint32
}

// DB exposes convenience methods to retrieve clock targets and store
// their solutions.
type DB struct {
	db   *sql.DB
	name string // name of the clock database
}

// Open opens a connection to the clock database dbname.
func Open(dbname string) (*DB, error) {
	db, err := sql.Open(drvName, dsn(dbname))
	if err != nil {
		return nil, fmt.Errorf("clkdb: could not open %q db: %w", dbname, err)
	}

	err = ping(db, dbname)
	if err != nil {
		return nil, fmt.Errorf("clkdb: could not ping %q db: %w", dbname, err)
	}

	return &DB{db: db, name: dbname}, nil
}

func dsn(db string) string {
	return fmt.Sprintf("%s:%s@tcp(%s)/%s", usr, pwd, host, db)
}

func ping(db *sql.DB, dbname string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := db.PingContext(ctx)
	if err != nil {
		return fmt.Errorf("clkdb: could not ping %q db: %w", dbname, err)
	}

	return nil
}

func (db *DB) Close() error {
	return db.db.Close()
}

func (db *DB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

// Targets returns all the requested clock targets.
func (db *DB) Targets(ctx context.Context) ([]Target, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var tgts []Target
	rows, err := db.db.QueryContext(
		ctx,
		"SELECT name, topology, input, output FROM clk_targets",
	)
	if err != nil {
		return tgts, fmt.Errorf("clkdb: could not run targets query: %w", err)
	}
	defer rows.Close()

	i := 0
	for rows.Next() {
		var (
			tgt  Target
			topo string
		)
		err = rows.Scan(&tgt.Name, &topo, &tgt.Input, &tgt.Output)
		if err != nil {
			return tgts, fmt.Errorf("clkdb: could not scan row %d for targets: %w", i, err)
		}
		tgt.Topology, err = clkgen.ParseTopology(topo)
		if err != nil {
			return tgts, fmt.Errorf("clkdb: invalid topology for target %q: %w", tgt.Name, err)
		}
		i++

		tgts = append(tgts, tgt)
	}

	if err := rows.Err(); err != nil {
		return tgts, fmt.Errorf("clkdb: could not scan db for targets: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return tgts, fmt.Errorf("clkdb: context error while retrieving targets: %w", err)
	}

	return tgts, nil
}

// Record stores the solution of the target name.
func (db *DB) Record(ctx context.Context, name string, sol clkgen.Solution) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := db.db.ExecContext(
		ctx,
		`
INSERT INTO clk_solutions (
	name, topology, input, output, rate, deviation, fields
) VALUES (?, ?, ?, ?, ?, ?, ?)
`,
		name, sol.Topology.String(),
		sol.Input, sol.Output, sol.Rate, sol.Deviation,
		formatFields(sol.Fields()),
	)
	if err != nil {
		return fmt.Errorf("clkdb: could not record solution for %q: %w", name, err)
	}

	return nil
}

// LastRecord returns the most recent solution stored for target name.
func (db *DB) LastRecord(ctx context.Context, name string) (Record, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var rec Record
	rows, err := db.db.QueryContext(
		ctx,
		`
SELECT name, topology, input, output, rate, deviation, fields
FROM clk_solutions
WHERE name=?
ORDER BY datetime DESC LIMIT 1
`,
		name,
	)
	if err != nil {
		return rec, fmt.Errorf("clkdb: could not query solution for %q: %w", name, err)
	}
	defer rows.Close()

	found := false
	for rows.Next() {
		var topo, fields string
		err = rows.Scan(
			&rec.Name, &topo,
			&rec.Input, &rec.Output, &rec.Rate, &rec.Deviation,
			&fields,
		)
		if err != nil {
			return rec, fmt.Errorf("clkdb: could not get solution for %q: %w", name, err)
		}
		rec.Topology, err = clkgen.ParseTopology(topo)
		if err != nil {
			return rec, fmt.Errorf("clkdb: invalid topology for solution %q: %w", name, err)
		}
		rec.Fields, err = parseFields(fields)
		if err != nil {
			return rec, fmt.Errorf("clkdb: invalid fields for solution %q: %w", name, err)
		}
		found = true
	}

	if err := rows.Err(); err != nil {
		return rec, fmt.Errorf("clkdb: could not scan db for solution %q: %w", name, err)
	}

	if err := ctx.Err(); err != nil {
		return rec, fmt.Errorf("clkdb: context error while retrieving solution %q: %w", name, err)
	}

	if !found {
		return rec, fmt.Errorf("clkdb: no solution for %q: %w", name, sql.ErrNoRows)
	}

	return rec, nil
}

func formatFields(vs []uint32) string {
	strs := make([]string, len(vs))
	for i, v := range vs {
		strs[i] = strconv.FormatUint(uint64(v), 10)
	}
	return strings.Join(strs, ",")
}

func parseFields(s string) ([]uint32, error) {
	if s == "" {
		return nil, nil
	}
	toks := strings.Split(s, ",")
	vs := make([]uint32, len(toks))
	for i, tok := range toks {
		v, err := strconv.ParseUint(strings.TrimSpace(tok), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("clkdb: could not parse field %d: %w", i, err)
		}
		vs[i] = uint32(v)
	}
	return vs, nil
}
