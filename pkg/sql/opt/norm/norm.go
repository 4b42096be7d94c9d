// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package norm contains rewrites that are always beneficial and therefore
// applied unconditionally to a physical plan before it is costed: filter
// pushdown and column pruning.
//
// Rewrites never modify their input. They return a new tree that shares every
// unchanged subtree with the original, or the original root itself if nothing
// changed.
package norm

import (
	"github.com/cockroachdb/physplan/pkg/sql/opt"
	"github.com/cockroachdb/physplan/pkg/sql/opt/physical"
)

// Normalize pushes filters below windows and then prunes every column that
// is not needed to produce the needed output columns of e.
func Normalize(e *physical.Expr, needed opt.ColSet) *physical.Expr {
	return PruneCols(PushFilterIntoWindow(e), needed)
}

// withInput returns e with its input replaced, or e itself if the input is
// unchanged.
func withInput(e *physical.Expr, input *physical.Expr) *physical.Expr {
	if input == e.Input() {
		return e
	}
	return physical.NewExpr(e.Operator(), input)
}
