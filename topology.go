// Copyright 2021 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package clkgen

import (
	"fmt"
	"strings"

	"github.com/go-lpc/clkgen/clkerr"
)

// Family is a family of clock generators.
type Family uint8

const (
	FamilyPLL Family = iota + 1 // integer PLLs
	FamilyFS                    // fractional frequency synthesizers
)

func (f Family) String() string {
	switch f {
	case FamilyPLL:
		return "pll"
	case FamilyFS:
		return "fs"
	}
	return fmt.Sprintf("Family(%d)", uint8(f))
}

// Topology identifies a clock generator topology.
type Topology uint8

const (
	PLL800 Topology = iota + 1
	PLL1200
	PLL1600C45    // PLL1600 in C45 technology, VCO output
	PLL1600C45Phi // PLL1600 in C45 technology, PHI output
	PLL1600C65
	PLL3200
	PLL4600
	FS216
	FS432
	FS660VCO // PLL embedded in the FS660
	FS660    // FS660 digital part
)

var topoNames = [...]string{
	PLL800:        "pll800",
	PLL1200:       "pll1200",
	PLL1600C45:    "pll1600c45",
	PLL1600C45Phi: "pll1600c45-phi",
	PLL1600C65:    "pll1600c65",
	PLL3200:       "pll3200",
	PLL4600:       "pll4600",
	FS216:         "fs216",
	FS432:         "fs432",
	FS660VCO:      "fs660-vco",
	FS660:         "fs660",
}

func (t Topology) String() string {
	if t.valid() {
		return topoNames[t]
	}
	return fmt.Sprintf("Topology(%d)", uint8(t))
}

func (t Topology) valid() bool {
	return PLL800 <= t && t <= FS660
}

// Family returns the family of the topology, or 0 for an unknown topology.
func (t Topology) Family() Family {
	switch t {
	case PLL800, PLL1200, PLL1600C45, PLL1600C45Phi, PLL1600C65, PLL3200, PLL4600:
		return FamilyPLL
	case FS216, FS432, FS660VCO, FS660:
		return FamilyFS
	}
	return 0
}

// Topologies returns all the known topologies.
func Topologies() []Topology {
	ts := make([]Topology, 0, len(topoNames)-1)
	for t := PLL800; t <= FS660; t++ {
		ts = append(ts, t)
	}
	return ts
}

// ParseTopology returns the topology named name.
// Names are case-insensitive and '_' may be used in place of '-'.
func ParseTopology(name string) (Topology, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.ReplaceAll(key, "_", "-")
	for t := PLL800; t <= FS660; t++ {
		if topoNames[t] == key {
			return t, nil
		}
	}
	return 0, fmt.Errorf("clkgen: unknown topology %q: %w", name, clkerr.ErrBadParameter)
}
