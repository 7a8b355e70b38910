// Copyright 2021 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/go-lpc/clkgen/clkerr"
)

func TestShell(t *testing.T) {
	for _, tc := range []struct {
		name  string
		lines []string
		want  string
		quit  bool
	}{
		{
			name:  "solve",
			lines: []string{"solve pll3200 25MHz 1.6GHz"},
			want:  "pll3200: rate=1600000000 Hz dev=0 Hz (0.000 ppm)\n  mdiv=0 ndiv=32 pdiv=0 idf=1 ldf=0 odf=0 cp=6\n",
		},
		{
			name:  "solve-nsdiv",
			lines: []string{"nsdiv 1", "solve fs216 30MHz 27MHz"},
			want:  "fs216: rate=27000010 Hz dev=10 Hz (0.370 ppm)\n  ndiv=0 mdiv=17 pe=7282 sdiv=3 nsdiv=1\n",
		},
		{
			name:  "solve-nsdiv-auto",
			lines: []string{"nsdiv 1", "nsdiv auto", "solve fs216 30MHz 27MHz"},
			want:  "fs216: rate=26999998 Hz dev=2 Hz (0.074 ppm)\n  ndiv=0 mdiv=23 pe=9709 sdiv=1 nsdiv=0\n",
		},
		{
			name:  "rate",
			lines: []string{"rate fs660-vco 30MHz ndiv=4"},
			want:  "600000000 Hz\n",
		},
		{
			name:  "empty",
			lines: []string{"   "},
			want:  "",
		},
		{
			name:  "quit",
			lines: []string{"quit"},
			quit:  true,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			o := new(bytes.Buffer)
			sh := newShell(o)
			var quit bool
			for _, line := range tc.lines {
				var err error
				quit, err = sh.exec(line)
				if err != nil {
					t.Fatalf("could not execute %q: %+v", line, err)
				}
			}
			if quit != tc.quit {
				t.Fatalf("invalid quit status: got=%v, want=%v", quit, tc.quit)
			}
			if got, want := o.String(), tc.want; got != want {
				t.Fatalf("invalid output:\ngot= %q\nwant=%q", got, want)
			}
		})
	}
}

func TestShellErrors(t *testing.T) {
	for _, tc := range []struct {
		line string
		want error
	}{
		{"solve pll800 6MHz 6MHz", clkerr.ErrBadParameter},
		{"solve pll9000 6MHz 6MHz", clkerr.ErrBadParameter},
		{"solve fs660-vco 50MHz 600MHz", clkerr.ErrFeatureNotSupported},
		{"rate fs660-vco 30MHz ndiv=7", clkerr.ErrBadParameter},
		{"rate pll800 30MHz foo=1", clkerr.ErrBadParameter},
	} {
		t.Run(tc.line, func(t *testing.T) {
			_, err := newShell(new(bytes.Buffer)).exec(tc.line)
			if !errors.Is(err, tc.want) {
				t.Fatalf("invalid error: got=%+v, want=%+v", err, tc.want)
			}
		})
	}

	for _, line := range []string{
		"solve pll800",
		"rate pll800",
		"nsdiv 2",
		"nsdiv",
		"frobnicate",
	} {
		_, err := newShell(new(bytes.Buffer)).exec(line)
		if err == nil {
			t.Fatalf("%q: expected an error", line)
		}
	}
}

func TestHelp(t *testing.T) {
	o := new(bytes.Buffer)
	_, err := newShell(o).exec("help")
	if err != nil {
		t.Fatalf("could not run help: %+v", err)
	}
	for _, cmd := range cmdNames {
		if !strings.Contains(o.String(), cmd) {
			t.Fatalf("missing command %q in help:\n%s", cmd, o.String())
		}
	}

	o.Reset()
	_, err = newShell(o).exec("topos")
	if err != nil {
		t.Fatalf("could not run topos: %+v", err)
	}
	if got, want := strings.Count(o.String(), "\n"), 11; got != want {
		t.Fatalf("invalid number of topologies: got=%d, want=%d", got, want)
	}
}

func TestComplete(t *testing.T) {
	for _, tc := range []struct {
		line string
		want []string
	}{
		{"so", []string{"solve"}},
		{"q", []string{"quit"}},
		{"solve fs6", []string{"solve fs660", "solve fs660-vco"}},
		{"rate pll16", []string{"rate pll1600c45", "rate pll1600c45-phi", "rate pll1600c65"}},
		{"solve pll3200 25MHz", nil},
	} {
		t.Run(tc.line, func(t *testing.T) {
			got := complete(tc.line)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("invalid completion:\ngot= %q\nwant=%q", got, tc.want)
			}
		})
	}
}
