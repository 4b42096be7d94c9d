// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package physical

import (
	"github.com/cockroachdb/physplan/pkg/sql/opt"
	"github.com/cockroachdb/physplan/pkg/sql/opt/scalar"
	"github.com/cockroachdb/physplan/pkg/util"
)

// NoLimit is the limit of an operator that does not cap its output.
const NoLimit int64 = -1

// Props are the properties layered on top of every physical operator: a row
// cap, a filter and an output projection, all applied after the operator's
// own computation. Props is an immutable value that operators embed by value.
//
// The zero value has no limit, predicate or projection.
type Props struct {
	hasLimit   bool
	limit      int64
	predicate  scalar.Expr
	projection *Projection
}

// MakeProps returns properties with the given limit (NoLimit, or any
// negative value, for none), predicate (nil for none) and projection (nil
// for none).
func MakeProps(limit int64, predicate scalar.Expr, projection *Projection) Props {
	p := Props{predicate: predicate, projection: projection}
	if limit >= 0 {
		p.hasLimit, p.limit = true, limit
	}
	return p
}

// Limit returns the row cap, or NoLimit.
func (p *Props) Limit() int64 {
	if !p.hasLimit {
		return NoLimit
	}
	return p.limit
}

// HasLimit returns true if the operator caps its output.
func (p *Props) HasLimit() bool {
	return p.hasLimit
}

// Predicate returns the post-operator filter, or nil.
func (p *Props) Predicate() scalar.Expr {
	return p.predicate
}

// Projection returns the output projection, or nil.
func (p *Props) Projection() *Projection {
	return p.projection
}

// PhysicalProps returns a copy of the properties.
func (p *Props) PhysicalProps() Props {
	return *p
}

// IsEmpty returns true if the properties neither limit, filter nor project.
func (p *Props) IsEmpty() bool {
	return !p.HasLimit() && p.predicate == nil && p.projection == nil
}

// UsedColumns returns a new set with the columns read by the predicate and
// the projection.
func (p *Props) UsedColumns() opt.ColSet {
	var cols opt.ColSet
	if p.predicate != nil {
		cols.UnionWith(p.predicate.ColumnsRead())
	}
	if p.projection != nil {
		cols.UnionWith(p.projection.ColumnsRead())
	}
	return cols
}

// Equals returns true if the two sets of properties are identical.
func (p *Props) Equals(other *Props) bool {
	return p.Limit() == other.Limit() &&
		scalar.Equal(p.predicate, other.predicate) &&
		p.projection.Equals(other.projection)
}

// Hash mixes the properties into h.
func (p *Props) Hash(h uint64) uint64 {
	h = util.FNV64AddUint64(h, uint64(p.Limit()))
	h = util.FNV64AddUint64(h, scalar.HashExpr(p.predicate))
	return util.FNV64AddUint64(h, p.projection.Hash())
}
