// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package humanizeutil formats estimates for people to read.
package humanizeutil

import (
	"math"

	"github.com/dustin/go-humanize"
)

// Count formats an estimated number of rows, rounded to the nearest integer,
// with thousands separators: 8333.4 -> "8,333".
func Count(rows float64) string {
	if math.IsInf(rows, 0) || math.IsNaN(rows) {
		return "∞"
	}
	return humanize.Comma(int64(math.Round(rows)))
}

// Cost formats a cost with thousands separators and two decimals:
// 35804.8181 -> "35,804.82".
func Cost(c float64) string {
	if math.IsInf(c, 0) || math.IsNaN(c) {
		return "∞"
	}
	return humanize.FormatFloat("#,###.##", c)
}
