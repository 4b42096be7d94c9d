// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package physical

import (
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/physplan/pkg/sql/opt"
)

// Expr is a node of a physical plan tree: an operator together with the
// plan nodes producing its inputs. Scans have no inputs; every other operator
// has exactly one. Like operators, Exprs are immutable; rewriting a plan
// builds new nodes and shares unchanged subtrees.
type Expr struct {
	op     Operator
	inputs []*Expr
}

// NewExpr returns a plan node for op over the given inputs. It panics with an
// assertion failure if the number of inputs does not match the operator.
func NewExpr(op Operator, inputs ...*Expr) *Expr {
	want := 1
	if op.Op() == opt.ScanOp {
		want = 0
	}
	if len(inputs) != want {
		panic(errors.AssertionFailedf("%s expects %d input(s), got %d", op.Op(), want, len(inputs)))
	}
	return &Expr{op: op, inputs: append([]*Expr(nil), inputs...)}
}

// Operator returns the node's operator.
func (e *Expr) Operator() Operator { return e.op }

// Op returns the kind of the node's operator.
func (e *Expr) Op() opt.Operator { return e.op.Op() }

// ChildCount returns the number of inputs.
func (e *Expr) ChildCount() int { return len(e.inputs) }

// Child returns the i-th input.
func (e *Expr) Child(i int) *Expr { return e.inputs[i] }

// Input returns the single input of a non-scan node.
func (e *Expr) Input() *Expr { return e.inputs[0] }

// OutputCols returns a new set with the columns produced by the node.
func (e *Expr) OutputCols() opt.ColSet {
	if p := e.op.Projection(); p != nil {
		return p.OutputCols()
	}
	return AcceptExpr[opt.ColSet, struct{}](e, outputColsVisitor{}, struct{}{})
}

// outputColsVisitor derives the columns an operator produces before its
// projection (if any) is applied.
type outputColsVisitor struct{}

var _ ExprVisitor[opt.ColSet, struct{}] = outputColsVisitor{}

func (outputColsVisitor) VisitScan(e *Expr, _ struct{}) opt.ColSet {
	return e.op.(*Scan).Cols()
}

func (outputColsVisitor) VisitFilter(e *Expr, _ struct{}) opt.ColSet {
	return e.Input().OutputCols()
}

func (outputColsVisitor) VisitProject(e *Expr, _ struct{}) opt.ColSet {
	return e.op.(*Project).Items().OutputCols()
}

func (outputColsVisitor) VisitSort(e *Expr, _ struct{}) opt.ColSet {
	return e.Input().OutputCols()
}

func (outputColsVisitor) VisitAnalytic(e *Expr, _ struct{}) opt.ColSet {
	cols := e.Input().OutputCols()
	cols.UnionWith(e.op.(*Window).ResultCols())
	return cols
}

// Walk calls fn for every node of the tree rooted at e, parents before
// children.
func (e *Expr) Walk(fn func(e *Expr)) {
	fn(e)
	for _, in := range e.inputs {
		in.Walk(fn)
	}
}
