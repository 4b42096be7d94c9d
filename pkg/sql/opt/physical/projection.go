// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package physical

import (
	"strings"

	"github.com/cockroachdb/physplan/pkg/sql/opt"
	"github.com/cockroachdb/physplan/pkg/sql/opt/scalar"
	"github.com/cockroachdb/physplan/pkg/util"
)

// ProjectionItem binds an output column to the expression computing it. A
// pass-through column is bound to a Variable referencing itself.
type ProjectionItem struct {
	Col  opt.ColumnID
	Expr scalar.Expr
}

// Projection remaps the output of an operator: the operator outputs exactly
// the projection's columns, in item order. A Projection is immutable.
type Projection struct {
	items []ProjectionItem
}

// NewProjection returns a projection over the given items. The slice is
// copied.
func NewProjection(items ...ProjectionItem) *Projection {
	return &Projection{items: append([]ProjectionItem(nil), items...)}
}

// PassThrough returns a projection that outputs the given input columns
// unchanged, in increasing id order.
func PassThrough(cols opt.ColSet) *Projection {
	p := &Projection{}
	cols.ForEach(func(col opt.ColumnID) {
		p.items = append(p.items, ProjectionItem{Col: col, Expr: scalar.NewVariable(col)})
	})
	return p
}

// Len returns the number of projected columns.
func (p *Projection) Len() int {
	return len(p.items)
}

// Item returns the i-th projection item.
func (p *Projection) Item(i int) ProjectionItem {
	return p.items[i]
}

// Items returns a copy of the projection items.
func (p *Projection) Items() []ProjectionItem {
	return append([]ProjectionItem(nil), p.items...)
}

// OutputCols returns a new set with the projected columns.
func (p *Projection) OutputCols() opt.ColSet {
	var cols opt.ColSet
	for _, item := range p.items {
		cols.Add(item.Col)
	}
	return cols
}

// ColumnsRead returns a new set with the columns read by the projection's
// expressions.
func (p *Projection) ColumnsRead() opt.ColSet {
	var cols opt.ColSet
	for _, item := range p.items {
		cols.UnionWith(item.Expr.ColumnsRead())
	}
	return cols
}

// Equals returns true if both projections are nil, or both have the same
// items in the same order.
func (p *Projection) Equals(other *Projection) bool {
	if p == nil || other == nil {
		return p == nil && other == nil
	}
	if len(p.items) != len(other.items) {
		return false
	}
	for i := range p.items {
		if p.items[i].Col != other.items[i].Col || !p.items[i].Expr.Equals(other.items[i].Expr) {
			return false
		}
	}
	return true
}

// Hash returns a hash consistent with Equals.
func (p *Projection) Hash() uint64 {
	h := util.FNV64Init()
	if p == nil {
		return h
	}
	h = util.FNV64AddToHash(h, int32(len(p.items)))
	for _, item := range p.items {
		h = util.FNV64AddToHash(h, int32(item.Col))
		h = util.FNV64AddUint64(h, item.Expr.Hash())
	}
	return h
}

// Format returns the projection as "col:1, expr AS col:2", eliding the
// expression of pass-through columns.
func (p *Projection) Format(md *opt.Metadata) string {
	var buf strings.Builder
	for i, item := range p.items {
		if i > 0 {
			buf.WriteString(", ")
		}
		if v, ok := item.Expr.(*scalar.Variable); ok && v.Col == item.Col {
			buf.WriteString(md.ColumnLabel(item.Col))
			continue
		}
		buf.WriteString(scalar.FormatWithMetadata(item.Expr, md))
		buf.WriteString(" AS ")
		buf.WriteString(md.ColumnLabel(item.Col))
	}
	return buf.String()
}
