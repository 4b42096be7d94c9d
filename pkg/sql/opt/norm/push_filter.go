// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package norm

import (
	"github.com/cockroachdb/physplan/pkg/sql/opt"
	"github.com/cockroachdb/physplan/pkg/sql/opt/physical"
	"github.com/cockroachdb/physplan/pkg/sql/opt/scalar"
)

// PushFilterIntoWindow moves filter conditions below the windows they sit on
// whenever that cannot change the result of the window functions.
//
// A Filter directly above a Window is split into its conjuncts. A conjunct
// that only reads partition columns and calls no function selects or rejects
// whole partitions, so it is evaluated below the window; every other
// conjunct stays above. This includes any that reads a window function
// result, and any function call, since a call such as random() can reject
// single rows of a partition. Nothing is pushed below a
// window that limits or projects its output, and limits are never pushed.
//
// The rewrite is applied to every Filter-over-Window pair in the tree.
func PushFilterIntoWindow(e *physical.Expr) *physical.Expr {
	if e.ChildCount() == 0 {
		return e
	}
	e = withInput(e, PushFilterIntoWindow(e.Input()))
	if e.Op() != opt.FilterOp || e.Input().Op() != opt.WindowOp {
		return e
	}
	filter := e.Operator().(*physical.Filter)
	windowExpr := e.Input()
	w := windowExpr.Operator().(*physical.Window)
	if w.HasLimit() || w.Projection() != nil || filter.Predicate() == nil {
		return e
	}

	partitionCols := partitionColumns(w)
	resultCols := w.ResultCols()
	var pushed, kept []scalar.Expr
	for _, c := range scalar.Conjuncts(filter.Predicate()) {
		cols := c.ColumnsRead()
		if cols.SubsetOf(partitionCols) && !cols.Intersects(resultCols) && !scalar.HasCall(c) {
			pushed = append(pushed, c)
		} else {
			kept = append(kept, c)
		}
	}
	if len(pushed) == 0 {
		return e
	}

	below := pushBelow(windowExpr.Input(), pushed)
	res := physical.NewExpr(w, below)
	if len(kept) == 0 && !filter.HasLimit() && filter.Projection() == nil {
		return res
	}
	above := physical.NewFilter(physical.MakeProps(filter.Limit(), scalar.NewAnd(kept...), filter.Projection()))
	return physical.NewExpr(above, res)
}

// pushBelow returns input filtered by the conjunction of conds. The
// conditions are merged into input if it is already a plain Filter.
func pushBelow(input *physical.Expr, conds []scalar.Expr) *physical.Expr {
	if f, ok := input.Operator().(*physical.Filter); ok && !f.HasLimit() && f.Projection() == nil {
		merged := append(scalar.Conjuncts(f.Predicate()), conds...)
		return physical.NewExpr(
			physical.NewFilter(physical.MakeProps(physical.NoLimit, scalar.NewAnd(merged...), nil)),
			input.Input(),
		)
	}
	return physical.NewExpr(
		physical.NewFilter(physical.MakeProps(physical.NoLimit, scalar.NewAnd(conds...), nil)), input,
	)
}

// partitionColumns returns the columns the window partitions by directly.
// Computed partition expressions do not contribute.
func partitionColumns(w *physical.Window) opt.ColSet {
	var cols opt.ColSet
	for _, e := range w.PartitionExprs() {
		if v, ok := e.(*scalar.Variable); ok {
			cols.Add(v.Col)
		}
	}
	return cols
}
