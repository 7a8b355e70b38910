// Copyright 2021 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/go-lpc/clkgen/clkerr"
)

func TestProcess(t *testing.T) {
	for _, tc := range []struct {
		name   string
		topo   string
		in     string
		fields []string
		human  bool
		want   string
		err    error
	}{
		{
			name: "pll3200",
			topo: "pll3200", in: "25MHz",
			fields: []string{"idf=1", "ndiv=32"},
			want:   "1600000000\n",
		},
		{
			name: "pll3200-human",
			topo: "pll3200", in: "25MHz",
			fields: []string{"idf=1", "ndiv=32"},
			human:  true,
			want:   "1600MHz\n",
		},
		{
			name: "pll3200-no-validation",
			topo: "pll3200", in: "25MHz",
			fields: []string{"idf=1", "ndiv=255"},
			want:   "12750000000\n",
		},
		{
			name: "fs216",
			topo: "fs216", in: "30MHz",
			fields: []string{"mdiv=25", "pe=4634", "nsdiv=1"},
			want:   "148500024\n",
		},
		{
			name: "fs660-vco",
			topo: "fs660-vco", in: "30MHz",
			fields: []string{"ndiv=4"},
			want:   "600000000\n",
		},
		{
			name: "fs660-vco-out-of-range",
			topo: "fs660-vco", in: "30MHz",
			fields: []string{"ndiv=7"},
			err:    clkerr.ErrBadParameter,
		},
		{
			name: "invalid-field",
			topo: "pll800", in: "30MHz",
			fields: []string{"pe=1"},
			err:    clkerr.ErrBadParameter,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			o := new(bytes.Buffer)
			err := process(o, tc.topo, tc.in, tc.fields, tc.human)
			if tc.err != nil {
				if !errors.Is(err, tc.err) {
					t.Fatalf("invalid error: got=%+v, want=%+v", err, tc.err)
				}
				return
			}
			if err != nil {
				t.Fatalf("could not process: %+v", err)
			}
			if got, want := o.String(), tc.want; got != want {
				t.Fatalf("invalid output: got=%q, want=%q", got, want)
			}
		})
	}
}
