// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package memo

import "math"

// Cost is the best-effort approximation of the actual cost of executing a
// plan. It is expressed in abstract units.
type Cost struct {
	C float64
}

// MaxCost is the maximum possible estimated cost. It's used to suppress
// expression alternatives during exploration.
var MaxCost = Cost{C: math.Inf(+1)}

// Less returns true if this cost is lower than the given cost. Costs that are
// within a small relative tolerance of each other compare as equal, so that
// floating point noise does not flip plan choices.
func (c Cost) Less(other Cost) bool {
	// Two plans with the same cost can have slightly different floating point
	// results (e.g. same subcosts being added up in a different order). So we
	// treat plans with very similar cost as equal.
	const tolerance = 1e-10
	if c.C == other.C {
		return false
	}
	if math.IsInf(other.C, +1) {
		return true
	}
	return c.C < other.C*(1-tolerance) && other.C-c.C > math.Abs(other.C)*tolerance
}

// Add adds the other cost to this cost.
func (c *Cost) Add(other Cost) {
	c.C += other.C
}
