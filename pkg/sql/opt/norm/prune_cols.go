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

// PruneCols returns an expression equivalent to e for a consumer that only
// reads the needed columns of e's output. Scans stop reading columns nobody
// uses, projections drop unused items, and windows drop the functions whose
// results are not needed. A window left with no functions is removed
// entirely, unless it also limits, filters or projects its output.
//
// The columns each operator reads are taken from its UsedColumns, so the
// output of PruneCols always still provides every column that is read.
func PruneCols(e *physical.Expr, needed opt.ColSet) *physical.Expr {
	return physical.AcceptExpr[*physical.Expr, opt.ColSet](e, pruneColsVisitor{}, needed)
}

type pruneColsVisitor struct{}

var _ physical.ExprVisitor[*physical.Expr, opt.ColSet] = pruneColsVisitor{}

// neededOutput returns the columns an operator must compute so that its
// consumer sees the needed columns after the operator's predicate and
// projection are applied. A projection determines the output on its own.
func neededOutput(op physical.Operator, needed opt.ColSet) opt.ColSet {
	props := op.PhysicalProps()
	cols := props.UsedColumns()
	if op.Projection() == nil {
		cols.UnionWith(needed)
	}
	return cols
}

// neededInput returns the columns that the input of a pass-through
// operator must produce: those the operator outputs plus those it reads.
func neededInput(op physical.Operator, needed opt.ColSet) opt.ColSet {
	cols := op.UsedColumns()
	if op.Projection() == nil {
		cols.UnionWith(needed)
	}
	return cols
}

func (pruneColsVisitor) VisitScan(e *physical.Expr, needed opt.ColSet) *physical.Expr {
	scan := e.Operator().(*physical.Scan)
	cols := scan.Cols()
	keep := cols.Intersection(neededInput(scan, needed))
	if keep.Equals(cols) {
		return e
	}
	return physical.NewExpr(physical.NewScan(
		scan.Table(), keep, scan.RowCount(), trimOrdering(scan.Ordering(), keep), scan.PhysicalProps(),
	))
}

func (pruneColsVisitor) VisitFilter(e *physical.Expr, needed opt.ColSet) *physical.Expr {
	return withInput(e, PruneCols(e.Input(), neededInput(e.Operator(), needed)))
}

func (pruneColsVisitor) VisitProject(e *physical.Expr, needed opt.ColSet) *physical.Expr {
	project := e.Operator().(*physical.Project)
	keepCols := neededOutput(project, needed)
	items := project.Items().Items()
	kept := items[:0:0]
	for _, item := range items {
		if keepCols.Contains(item.Col) {
			kept = append(kept, item)
		}
	}
	if len(kept) != len(items) {
		project = physical.NewProject(physical.NewProjection(kept...), project.PhysicalProps())
	}
	input := PruneCols(e.Input(), project.UsedColumns())
	if project == e.Operator() {
		return withInput(e, input)
	}
	return physical.NewExpr(project, input)
}

func (pruneColsVisitor) VisitSort(e *physical.Expr, needed opt.ColSet) *physical.Expr {
	return withInput(e, PruneCols(e.Input(), neededInput(e.Operator(), needed)))
}

func (pruneColsVisitor) VisitAnalytic(e *physical.Expr, needed opt.ColSet) *physical.Expr {
	w := e.Operator().(*physical.Window)
	outNeeded := neededOutput(w, needed)

	calls := w.AnalyticCalls()
	keep := make(map[opt.ColumnID]*scalar.Call, len(calls))
	for _, c := range calls {
		if outNeeded.Contains(c.Col) {
			keep[c.Col] = c.Call
		}
	}
	if len(keep) == 0 && w.IsEmpty() {
		return PruneCols(e.Input(), needed)
	}
	if len(keep) != len(calls) {
		w = physical.NewWindow(
			keep, w.PartitionExprs(), w.OrderBy(), w.Frame(), w.EnforceOrderBy(), w.PhysicalProps(),
		)
	}

	inputNeeded := outNeeded.Union(w.UsedColumns())
	inputNeeded.UnionWith(w.EnforceOrderBy().ColSet())
	inputNeeded.DifferenceWith(e.Operator().(*physical.Window).ResultCols())
	input := PruneCols(e.Input(), inputNeeded)
	if w == e.Operator() {
		return withInput(e, input)
	}
	return physical.NewExpr(w, input)
}

// trimOrdering returns the longest prefix of ordering over the given columns.
func trimOrdering(ordering opt.Ordering, cols opt.ColSet) opt.Ordering {
	for i, c := range ordering {
		if !cols.Contains(c.ID) {
			return ordering[:i]
		}
	}
	return ordering
}
