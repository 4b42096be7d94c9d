// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package physical

import "github.com/cockroachdb/errors"

// OperatorVisitor has one method per physical operator. It is used by passes
// that only need the operator's own fields. R is the result type of the pass
// and C the type of the context threaded through it.
type OperatorVisitor[R, C any] interface {
	VisitScan(op *Scan, ctx C) R
	VisitFilter(op *Filter, ctx C) R
	VisitProject(op *Project, ctx C) R
	VisitSort(op *Sort, ctx C) R
	// VisitAnalytic handles window operators.
	VisitAnalytic(op *Window, ctx C) R
}

// ExprVisitor has one method per physical operator, like OperatorVisitor, but
// its methods receive the plan-tree node owning the operator, so that the
// pass can also inspect the node's inputs.
type ExprVisitor[R, C any] interface {
	VisitScan(e *Expr, ctx C) R
	VisitFilter(e *Expr, ctx C) R
	VisitProject(e *Expr, ctx C) R
	VisitSort(e *Expr, ctx C) R
	// VisitAnalytic handles plan nodes whose operator is a window.
	VisitAnalytic(e *Expr, ctx C) R
}

// Accept dispatches op to the method of v that handles its kind. Window
// operators are always routed to VisitAnalytic.
func Accept[R, C any](op Operator, v OperatorVisitor[R, C], ctx C) R {
	switch t := op.(type) {
	case *Scan:
		return v.VisitScan(t, ctx)
	case *Filter:
		return v.VisitFilter(t, ctx)
	case *Project:
		return v.VisitProject(t, ctx)
	case *Sort:
		return v.VisitSort(t, ctx)
	case *Window:
		return v.VisitAnalytic(t, ctx)
	}
	panic(errors.AssertionFailedf("unhandled physical operator %T", op))
}

// AcceptExpr dispatches e to the method of v that handles the kind of its
// operator. Nodes holding a window operator are always routed to
// VisitAnalytic.
func AcceptExpr[R, C any](e *Expr, v ExprVisitor[R, C], ctx C) R {
	switch e.Operator().(type) {
	case *Scan:
		return v.VisitScan(e, ctx)
	case *Filter:
		return v.VisitFilter(e, ctx)
	case *Project:
		return v.VisitProject(e, ctx)
	case *Sort:
		return v.VisitSort(e, ctx)
	case *Window:
		return v.VisitAnalytic(e, ctx)
	}
	panic(errors.AssertionFailedf("unhandled physical operator %T", e.Operator()))
}
