// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package ordering derives the orderings that physical operators provide and
// require, and decides where sort enforcers are needed.
package ordering

import (
	"github.com/cockroachdb/physplan/pkg/sql/opt"
	"github.com/cockroachdb/physplan/pkg/sql/opt/physical"
	"github.com/cockroachdb/physplan/pkg/sql/opt/scalar"
)

// CanProvide returns true if the rows produced by e are ordered in a way
// that satisfies the required ordering.
func CanProvide(e *physical.Expr, required opt.Ordering) bool {
	if required.Empty() {
		return true
	}
	return Provided(e).Provides(required)
}

// Provided returns the ordering of the rows produced by e. The result is
// restricted to the columns e outputs: an ordering column that is projected
// away ends the provided ordering.
func Provided(e *physical.Expr) opt.Ordering {
	provided := physical.AcceptExpr[opt.Ordering, struct{}](e, providedVisitor{}, struct{}{})
	if p := e.Operator().Projection(); p != nil {
		provided = remapThroughProjection(provided, p)
	}
	return provided
}

// RequiredInputOrdering returns the ordering op requires of its input, or nil
// if it has no requirement.
func RequiredInputOrdering(op physical.Operator) opt.Ordering {
	if w, ok := op.(*physical.Window); ok {
		return WindowRequiredInputOrdering(w)
	}
	return nil
}

// NeedsSort returns true if the input of e does not provide the ordering e
// requires, so that a sort must be placed between them.
func NeedsSort(e *physical.Expr) bool {
	required := RequiredInputOrdering(e.Operator())
	if required.Empty() {
		return false
	}
	return !CanProvide(e.Input(), required)
}

// EnforceInputOrderings returns a copy of the tree rooted at e in which a
// Sort is placed below every node whose input does not provide the ordering
// the node requires. Subtrees that need no change are shared with e.
func EnforceInputOrderings(e *physical.Expr) *physical.Expr {
	if e.ChildCount() == 0 {
		return e
	}
	input := EnforceInputOrderings(e.Input())
	if required := RequiredInputOrdering(e.Operator()); !required.Empty() && !CanProvide(input, required) {
		input = physical.NewExpr(physical.NewSort(required, physical.Props{}), input)
	}
	if input == e.Input() {
		return e
	}
	return physical.NewExpr(e.Operator(), input)
}

type providedVisitor struct{}

var _ physical.ExprVisitor[opt.Ordering, struct{}] = providedVisitor{}

func (providedVisitor) VisitScan(e *physical.Expr, _ struct{}) opt.Ordering {
	return e.Operator().(*physical.Scan).Ordering()
}

func (providedVisitor) VisitFilter(e *physical.Expr, _ struct{}) opt.Ordering {
	// Filtering rows does not reorder them.
	return Provided(e.Input())
}

func (providedVisitor) VisitProject(e *physical.Expr, _ struct{}) opt.Ordering {
	return remapThroughProjection(Provided(e.Input()), e.Operator().(*physical.Project).Items())
}

func (providedVisitor) VisitSort(e *physical.Expr, _ struct{}) opt.Ordering {
	return e.Operator().(*physical.Sort).Ordering()
}

func (providedVisitor) VisitAnalytic(e *physical.Expr, _ struct{}) opt.Ordering {
	// The window emits its input rows in the order it receives them.
	return Provided(e.Input())
}

// remapThroughProjection returns the longest prefix of ordering whose columns
// are passed through p, renamed to the projected column ids.
func remapThroughProjection(ordering opt.Ordering, p *physical.Projection) opt.Ordering {
	var res opt.Ordering
	for _, c := range ordering {
		to, ok := passedThrough(p, c.ID)
		if !ok {
			break
		}
		res = append(res, c.RemapColumn(to))
	}
	return res
}

func passedThrough(p *physical.Projection, col opt.ColumnID) (opt.ColumnID, bool) {
	for i, n := 0, p.Len(); i < n; i++ {
		item := p.Item(i)
		if v, ok := item.Expr.(*scalar.Variable); ok && v.Col == col {
			return item.Col, true
		}
	}
	return 0, false
}
