// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package physical

import (
	"sort"

	"github.com/cockroachdb/physplan/pkg/sql/opt"
	"github.com/cockroachdb/physplan/pkg/sql/opt/scalar"
	"github.com/cockroachdb/physplan/pkg/util"
)

// AnalyticCall binds the column that holds the result of a window function
// to the call computing it.
type AnalyticCall struct {
	Col  opt.ColumnID
	Call *scalar.Call
}

// Window computes one or more window functions that share the same
// partitioning, ordering and frame.
//
// A Window is constructed once with all of its fields and never changes
// afterwards; rules that transform it build a new Window. The constructor
// snapshots every collection it is given, so the caller may reuse or mutate
// them, and performs no validation: the frame, the types of the expressions
// and the presence of at least one call are the builder's responsibility.
//
// Two windows are Equal when their calls, partition expressions, order-by
// columns and frame are equal. The enforced input ordering and the limit,
// predicate and projection do not take part: they are physical properties
// layered on an otherwise identical computation, and the memo treats windows
// that differ only in those as the same candidate.
type Window struct {
	Props

	// calls is sorted by result column.
	calls          []AnalyticCall
	partitionExprs []scalar.Expr
	orderBy        opt.Ordering
	frame          *AnalyticWindow
	enforceOrderBy opt.Ordering
}

var _ Operator = (*Window)(nil)

// NewWindow constructs a window operator.
//
//   - analyticCall maps each result column to the window function computing
//     it. Every call must be non-nil.
//   - partitionExprs is the PARTITION BY list.
//   - orderBy is the ORDER BY list that sequences rows within a partition.
//   - frame is the frame clause, or nil for functions that take no frame
//     (such as rank()).
//   - enforceOrderBy is the ordering the window requires of its input, if it
//     differs from what partitionExprs and orderBy imply.
//   - props carries the limit, predicate and projection applied to the
//     window's output.
func NewWindow(
	analyticCall map[opt.ColumnID]*scalar.Call,
	partitionExprs []scalar.Expr,
	orderBy opt.Ordering,
	frame *AnalyticWindow,
	enforceOrderBy opt.Ordering,
	props Props,
) *Window {
	calls := make([]AnalyticCall, 0, len(analyticCall))
	for col, call := range analyticCall {
		calls = append(calls, AnalyticCall{Col: col, Call: call})
	}
	sort.Slice(calls, func(i, j int) bool { return calls[i].Col < calls[j].Col })

	w := &Window{
		Props:          props,
		calls:          calls,
		orderBy:        orderBy.Copy(),
		frame:          frame.Copy(),
		enforceOrderBy: enforceOrderBy.Copy(),
	}
	if len(partitionExprs) > 0 {
		w.partitionExprs = append([]scalar.Expr(nil), partitionExprs...)
	}
	return w
}

// AnalyticCall returns a new map from result column to window function.
func (w *Window) AnalyticCall() map[opt.ColumnID]*scalar.Call {
	m := make(map[opt.ColumnID]*scalar.Call, len(w.calls))
	for _, c := range w.calls {
		m[c.Col] = c.Call
	}
	return m
}

// AnalyticCalls returns the window functions ordered by result column. The
// returned slice is a copy.
func (w *Window) AnalyticCalls() []AnalyticCall {
	return append([]AnalyticCall(nil), w.calls...)
}

// ResultCols returns a new set with the columns holding the results of the
// window functions.
func (w *Window) ResultCols() opt.ColSet {
	var cols opt.ColSet
	for _, c := range w.calls {
		cols.Add(c.Col)
	}
	return cols
}

// PartitionExprs returns a copy of the PARTITION BY list.
func (w *Window) PartitionExprs() []scalar.Expr {
	if w.partitionExprs == nil {
		return nil
	}
	return append([]scalar.Expr(nil), w.partitionExprs...)
}

// OrderBy returns a copy of the ORDER BY list.
func (w *Window) OrderBy() opt.Ordering {
	return w.orderBy.Copy()
}

// Frame returns a copy of the frame, or nil if the window has none.
func (w *Window) Frame() *AnalyticWindow {
	return w.frame.Copy()
}

// EnforceOrderBy returns a copy of the ordering the window requires of its
// input beyond its own ORDER BY, or nil.
func (w *Window) EnforceOrderBy() opt.Ordering {
	return w.enforceOrderBy.Copy()
}

// Op is part of the Operator interface.
func (w *Window) Op() opt.Operator { return opt.WindowOp }

// UsedColumns is part of the Operator interface. It returns the columns read
// by the predicate and projection, the arguments of every window function,
// the partition expressions and the order-by columns. The result columns of
// the calls are produced, not read, and are not included unless the
// predicate or projection reads them.
func (w *Window) UsedColumns() opt.ColSet {
	cols := w.Props.UsedColumns()
	for _, c := range w.calls {
		cols.UnionWith(c.Call.ColumnsRead())
	}
	for _, e := range w.partitionExprs {
		cols.UnionWith(e.ColumnsRead())
	}
	for _, o := range w.orderBy {
		cols.Add(o.ID)
	}
	return cols
}

// Equals is part of the Operator interface. See the Window comment for the
// fields that take part.
func (w *Window) Equals(other Operator) bool {
	o, ok := other.(*Window)
	if !ok {
		return false
	}
	if w == o {
		return true
	}
	if len(w.calls) != len(o.calls) {
		return false
	}
	for i := range w.calls {
		if w.calls[i].Col != o.calls[i].Col || !w.calls[i].Call.Equals(o.calls[i].Call) {
			return false
		}
	}
	return scalar.ListEqual(w.partitionExprs, o.partitionExprs) &&
		w.orderBy.Equals(o.orderBy) &&
		w.frame.Equals(o.frame)
}

// Hash is part of the Operator interface. It mixes, in order, the calls (by
// increasing result column), the partition expressions, the order-by columns
// and the frame.
func (w *Window) Hash() uint64 {
	h := hashOp(opt.WindowOp)
	h = util.FNV64AddToHash(h, int32(len(w.calls)))
	for _, c := range w.calls {
		h = util.FNV64AddToHash(h, int32(c.Col))
		h = util.FNV64AddUint64(h, c.Call.Hash())
	}
	h = scalar.HashList(h, w.partitionExprs)
	h = w.orderBy.Hash(h)
	return w.frame.Hash(h)
}

func (*Window) physicalOperator() {}
