// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package explain renders physical plans as indented trees.
package explain

import (
	"fmt"

	"github.com/cockroachdb/physplan/pkg/sql/opt"
	"github.com/cockroachdb/physplan/pkg/sql/opt/ordering"
	"github.com/cockroachdb/physplan/pkg/sql/opt/physical"
	"github.com/cockroachdb/physplan/pkg/sql/opt/scalar"
	"github.com/cockroachdb/physplan/pkg/sql/opt/xform"
	"github.com/cockroachdb/physplan/pkg/util/humanizeutil"
)

// Flags are modifiers for EXPLAIN.
type Flags struct {
	// Verbose shows the output columns and the ordering of every node, and
	// the input ordering that windows require.
	Verbose bool
	// Costs, if set, is used to show the estimated row count and cost of
	// every node.
	Costs *xform.Coster
}

// Emit returns the EXPLAIN output of the plan rooted at e. Columns are
// labeled through md.
func Emit(e *physical.Expr, md *opt.Metadata, flags Flags) string {
	em := emitter{md: md, flags: flags, ob: NewOutputBuilder()}
	em.emit(e)
	return em.ob.String()
}

type emitter struct {
	md    *opt.Metadata
	flags Flags
	ob    *OutputBuilder
}

var _ physical.ExprVisitor[struct{}, struct{}] = (*emitter)(nil)

func (em *emitter) emit(e *physical.Expr) {
	physical.AcceptExpr[struct{}, struct{}](e, em, struct{}{})
}

func (em *emitter) enterNode(name string, e *physical.Expr) {
	em.ob.EnterNode(name)
	if em.flags.Verbose {
		em.ob.AddField("columns", em.formatCols(e.OutputCols()))
		if provided := ordering.Provided(e); !provided.Empty() {
			em.ob.AddField("ordering", provided.Format(em.md))
		}
	}
}

// leaveNode adds the properties layered on the node's operator and the
// node's input, and leaves the node.
func (em *emitter) leaveNode(e *physical.Expr) {
	em.addProps(e)
	em.emitInputs(e)
}

func (em *emitter) addProps(e *physical.Expr) {
	op := e.Operator()
	if limit := op.Limit(); limit != physical.NoLimit {
		em.ob.AddField("limit", fmt.Sprint(limit))
	}
	if pred := op.Predicate(); pred != nil && op.Op() != opt.FilterOp {
		em.ob.AddField("filter", em.formatScalar(pred))
	}
	if p := op.Projection(); p != nil {
		em.ob.AddField("projection", p.Format(em.md))
	}
	if em.flags.Costs != nil {
		est := em.flags.Costs.Estimate(e)
		em.ob.AddField("estimated row count", humanizeutil.Count(est.Rows))
		em.ob.AddField("cost", humanizeutil.Cost(est.Cost.C))
	}
}

func (em *emitter) emitInputs(e *physical.Expr) {
	for i, n := 0, e.ChildCount(); i < n; i++ {
		em.emit(e.Child(i))
	}
	em.ob.LeaveNode()
}

// VisitScan is part of the physical.ExprVisitor interface.
func (em *emitter) VisitScan(e *physical.Expr, _ struct{}) struct{} {
	scan := e.Operator().(*physical.Scan)
	em.enterNode("scan "+scan.Table(), e)
	if !em.flags.Verbose {
		em.ob.AddField("columns", em.formatCols(scan.Cols()))
		if ord := scan.Ordering(); !ord.Empty() {
			em.ob.AddField("ordering", ord.Format(em.md))
		}
	}
	em.leaveNode(e)
	return struct{}{}
}

// VisitFilter is part of the physical.ExprVisitor interface.
func (em *emitter) VisitFilter(e *physical.Expr, _ struct{}) struct{} {
	em.enterNode("filter", e)
	if pred := e.Operator().Predicate(); pred != nil {
		em.ob.AddField("filter", em.formatScalar(pred))
	}
	em.leaveNode(e)
	return struct{}{}
}

// VisitProject is part of the physical.ExprVisitor interface.
func (em *emitter) VisitProject(e *physical.Expr, _ struct{}) struct{} {
	em.enterNode("project", e)
	em.ob.AddField("items", e.Operator().(*physical.Project).Items().Format(em.md))
	em.leaveNode(e)
	return struct{}{}
}

// VisitSort is part of the physical.ExprVisitor interface.
func (em *emitter) VisitSort(e *physical.Expr, _ struct{}) struct{} {
	em.enterNode("sort", e)
	em.ob.AddField("order", e.Operator().(*physical.Sort).Ordering().Format(em.md))
	em.leaveNode(e)
	return struct{}{}
}

// VisitAnalytic is part of the physical.ExprVisitor interface.
func (em *emitter) VisitAnalytic(e *physical.Expr, _ struct{}) struct{} {
	w := e.Operator().(*physical.Window)
	em.enterNode("window", e)
	if partition := w.PartitionExprs(); len(partition) > 0 {
		var buf []byte
		for i, p := range partition {
			if i > 0 {
				buf = append(buf, ", "...)
			}
			buf = append(buf, em.formatScalar(p)...)
		}
		em.ob.AddField("partition by", string(buf))
	}
	if orderBy := w.OrderBy(); !orderBy.Empty() {
		em.ob.AddField("order by", orderBy.Format(em.md))
	}
	if frame := w.Frame(); frame != nil {
		em.ob.AddField("frame", frame.Format(em.md))
	}
	if enforce := w.EnforceOrderBy(); !enforce.Empty() {
		em.ob.AddField("enforce ordering", enforce.Format(em.md))
	}
	if em.flags.Verbose {
		required := ordering.WindowRequiredInputOrdering(w)
		if !required.Empty() {
			text := required.Format(em.md)
			if ordering.NeedsSort(e) {
				text += " (not provided)"
			}
			em.ob.AddField("required input ordering", text)
		}
	}
	em.addProps(e)
	if calls := w.AnalyticCalls(); len(calls) > 0 {
		em.ob.EnterNode("functions")
		for _, c := range calls {
			em.ob.AddLine(fmt.Sprintf("%s = %s", em.md.ColumnLabel(c.Col), em.formatScalar(c.Call)))
		}
		em.ob.LeaveNode()
	}
	em.emitInputs(e)
	return struct{}{}
}

func (em *emitter) formatScalar(e scalar.Expr) string {
	return scalar.FormatWithMetadata(e, em.md)
}

func (em *emitter) formatCols(cols opt.ColSet) string {
	return em.md.FormatColSet(cols)
}
