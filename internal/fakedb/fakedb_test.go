// Copyright 2021 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fakedb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"
)

func TestRun(t *testing.T) {
	db, err := sql.Open("fakedb", "")
	if err != nil {
		t.Fatalf("could not open fakedb: %+v", err)
	}
	defer db.Close()

	execs, err := Run(context.Background(), Rows{
		Names:  []string{"name"},
		Values: [][]driver.Value{{"a"}, {"b"}},
	}, func(ctx context.Context) error {
		rows, err := db.QueryContext(ctx, "SELECT name FROM t")
		if err != nil {
			return err
		}
		defer rows.Close()

		var names []string
		for rows.Next() {
			var name string
			if err := rows.Scan(&name); err != nil {
				return err
			}
			names = append(names, name)
		}
		if err := rows.Err(); err != nil {
			return err
		}
		if got, want := len(names), 2; got != want {
			t.Fatalf("invalid number of rows: got=%d, want=%d", got, want)
		}

		res, err := db.ExecContext(ctx, "INSERT INTO t (name) VALUES (?)", "c")
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n != 1 {
			t.Fatalf("invalid rows affected: %d", n)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("could not run queries: %+v", err)
	}

	if got, want := len(execs), 1; got != want {
		t.Fatalf("invalid number of execs: got=%d, want=%d", got, want)
	}
	if got, want := execs[0].Query, "INSERT INTO t (name) VALUES (?)"; got != want {
		t.Fatalf("invalid query: got=%q, want=%q", got, want)
	}
	if got, want := execs[0].Args, []driver.Value{"c"}; len(got) != 1 || got[0] != want[0] {
		t.Fatalf("invalid args: got=%v, want=%v", got, want)
	}
}

func TestFail(t *testing.T) {
	db, err := sql.Open("fakedb", "")
	if err != nil {
		t.Fatalf("could not open fakedb: %+v", err)
	}
	defer db.Close()

	boom := errors.New("boom")
	err = Fail(context.Background(), boom, func(ctx context.Context) error {
		_, err := db.ExecContext(ctx, "DELETE FROM t")
		return err
	})
	if !errors.Is(err, boom) {
		t.Fatalf("invalid error: got=%+v, want=%+v", err, boom)
	}
}
