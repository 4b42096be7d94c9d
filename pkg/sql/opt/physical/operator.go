// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package physical defines the physical operators of a query plan and the
// plan tree built from them.
//
// The set of physical operators is closed: Scan, Filter, Project, Sort and
// Window. Passes over physical plans (costing, ordering derivation, plan
// printing, lowering to execution stages) implement OperatorVisitor or
// ExprVisitor, which have one method per operator, and are invoked through
// Accept and AcceptExpr. Adding an operator means adding a method to both
// visitor interfaces, so every pass fails to compile until it handles the new
// operator.
//
// Every operator is immutable once constructed and embeds a Props value
// (limit, predicate, projection). Operators can be compared structurally and
// hashed, which is how the memo recognizes duplicate plan candidates.
package physical

import (
	"github.com/cockroachdb/physplan/pkg/sql/opt"
	"github.com/cockroachdb/physplan/pkg/sql/opt/scalar"
	"github.com/cockroachdb/physplan/pkg/util"
)

// Operator is the contract every physical plan operator satisfies.
type Operator interface {
	// Op returns the kind of the operator.
	Op() opt.Operator

	// PhysicalProps returns the limit, predicate and projection layered on top
	// of the operator.
	PhysicalProps() Props

	// Limit returns the operator's row cap, or NoLimit.
	Limit() int64

	// Predicate returns the filter applied to the operator's output, or nil.
	Predicate() scalar.Expr

	// Projection returns the projection applied to the operator's output, or
	// nil.
	Projection() *Projection

	// UsedColumns returns a new set with every column the operator reads from
	// its input. The caller owns the returned set.
	UsedColumns() opt.ColSet

	// Equals returns true if other is structurally equivalent to this
	// operator, for the purpose of plan deduplication.
	Equals(other Operator) bool

	// Hash returns a hash consistent with Equals.
	Hash() uint64

	// physicalOperator seals the interface.
	physicalOperator()
}

// Scan reads a set of columns from a table. If the table is read through an
// index, Ordering is the order in which rows are produced.
type Scan struct {
	Props

	table    string
	cols     opt.ColSet
	rowCount float64
	ordering opt.Ordering
}

var _ Operator = (*Scan)(nil)

// NewScan constructs a scan of the given table. rowCount is the estimated
// number of rows in the table.
func NewScan(
	table string, cols opt.ColSet, rowCount float64, ordering opt.Ordering, props Props,
) *Scan {
	return &Scan{
		Props:    props,
		table:    table,
		cols:     cols.Copy(),
		rowCount: rowCount,
		ordering: ordering.Copy(),
	}
}

// Table returns the name of the scanned table.
func (s *Scan) Table() string { return s.table }

// Cols returns a new set with the scanned columns.
func (s *Scan) Cols() opt.ColSet { return s.cols.Copy() }

// RowCount returns the estimated number of rows in the table.
func (s *Scan) RowCount() float64 { return s.rowCount }

// Ordering returns the order in which the scan produces rows.
func (s *Scan) Ordering() opt.Ordering { return s.ordering.Copy() }

// Op is part of the Operator interface.
func (s *Scan) Op() opt.Operator { return opt.ScanOp }

// UsedColumns is part of the Operator interface.
func (s *Scan) UsedColumns() opt.ColSet { return s.Props.UsedColumns() }

// Equals is part of the Operator interface. The row count is an estimate and
// does not take part in equality.
func (s *Scan) Equals(other Operator) bool {
	o, ok := other.(*Scan)
	return ok && s.table == o.table && s.cols.Equals(o.cols) &&
		s.ordering.Equals(o.ordering) && s.Props.Equals(&o.Props)
}

// Hash is part of the Operator interface.
func (s *Scan) Hash() uint64 {
	h := hashString(hashOp(opt.ScanOp), s.table)
	s.cols.ForEach(func(col opt.ColumnID) {
		h = util.FNV64AddToHash(h, int32(col))
	})
	h = s.ordering.Hash(h)
	return s.Props.Hash(h)
}

func (*Scan) physicalOperator() {}

// Filter discards the rows of its input that do not satisfy its predicate.
type Filter struct {
	Props
}

var _ Operator = (*Filter)(nil)

// NewFilter constructs a filter. The filter condition is the predicate of
// props.
func NewFilter(props Props) *Filter {
	return &Filter{Props: props}
}

// Op is part of the Operator interface.
func (f *Filter) Op() opt.Operator { return opt.FilterOp }

// UsedColumns is part of the Operator interface.
func (f *Filter) UsedColumns() opt.ColSet { return f.Props.UsedColumns() }

// Equals is part of the Operator interface.
func (f *Filter) Equals(other Operator) bool {
	o, ok := other.(*Filter)
	return ok && f.Props.Equals(&o.Props)
}

// Hash is part of the Operator interface.
func (f *Filter) Hash() uint64 {
	return f.Props.Hash(hashOp(opt.FilterOp))
}

func (*Filter) physicalOperator() {}

// Project computes its output columns from its input.
type Project struct {
	Props

	items *Projection
}

var _ Operator = (*Project)(nil)

// NewProject constructs a project operator computing the given items.
func NewProject(items *Projection, props Props) *Project {
	return &Project{Props: props, items: items}
}

// Items returns the projection computed by the operator.
func (p *Project) Items() *Projection { return p.items }

// Op is part of the Operator interface.
func (p *Project) Op() opt.Operator { return opt.ProjectOp }

// UsedColumns is part of the Operator interface.
func (p *Project) UsedColumns() opt.ColSet {
	cols := p.Props.UsedColumns()
	cols.UnionWith(p.items.ColumnsRead())
	return cols
}

// Equals is part of the Operator interface.
func (p *Project) Equals(other Operator) bool {
	o, ok := other.(*Project)
	return ok && p.items.Equals(o.items) && p.Props.Equals(&o.Props)
}

// Hash is part of the Operator interface.
func (p *Project) Hash() uint64 {
	h := util.FNV64AddUint64(hashOp(opt.ProjectOp), p.items.Hash())
	return p.Props.Hash(h)
}

func (*Project) physicalOperator() {}

// Sort enforces an ordering on its input.
type Sort struct {
	Props

	ordering opt.Ordering
}

var _ Operator = (*Sort)(nil)

// NewSort constructs a sort that orders its input by ordering.
func NewSort(ordering opt.Ordering, props Props) *Sort {
	return &Sort{Props: props, ordering: ordering.Copy()}
}

// Ordering returns the ordering the sort produces.
func (s *Sort) Ordering() opt.Ordering { return s.ordering.Copy() }

// Op is part of the Operator interface.
func (s *Sort) Op() opt.Operator { return opt.SortOp }

// UsedColumns is part of the Operator interface.
func (s *Sort) UsedColumns() opt.ColSet {
	cols := s.Props.UsedColumns()
	cols.UnionWith(s.ordering.ColSet())
	return cols
}

// Equals is part of the Operator interface.
func (s *Sort) Equals(other Operator) bool {
	o, ok := other.(*Sort)
	return ok && s.ordering.Equals(o.ordering) && s.Props.Equals(&o.Props)
}

// Hash is part of the Operator interface.
func (s *Sort) Hash() uint64 {
	return s.Props.Hash(s.ordering.Hash(hashOp(opt.SortOp)))
}

func (*Sort) physicalOperator() {}

func hashOp(op opt.Operator) uint64 {
	return util.FNV64AddToHash(util.FNV64Init(), int32(op))
}

func hashString(h uint64, s string) uint64 {
	for _, r := range s {
		h = util.FNV64AddToHash(h, r)
	}
	return h
}
