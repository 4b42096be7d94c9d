// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package opt

import (
	"github.com/cockroachdb/physplan/pkg/util"
	"github.com/cockroachdb/redact"
)

// OrderingColumn is one key of a sort: a column, a direction and the position
// of NULLs relative to non-NULL values. OrderingColumn is an immutable value.
type OrderingColumn struct {
	ID         ColumnID
	Descending bool
	NullsFirst bool
}

// MakeOrderingColumn initializes an ordering column with the default NULL
// placement for the direction: NULLs sort before all other values, so they
// come first when ascending and last when descending.
func MakeOrderingColumn(id ColumnID, descending bool) OrderingColumn {
	return OrderingColumn{ID: id, Descending: descending, NullsFirst: !descending}
}

// Ascending returns true if the ordering on this column is ascending.
func (c OrderingColumn) Ascending() bool {
	return !c.Descending
}

// DefaultNulls returns true if the NULL placement is the default one for the
// direction (see MakeOrderingColumn).
func (c OrderingColumn) DefaultNulls() bool {
	return c.NullsFirst == !c.Descending
}

// RemapColumn returns a copy of the ordering column that refers to a
// different column id.
func (c OrderingColumn) RemapColumn(to ColumnID) OrderingColumn {
	c.ID = to
	return c
}

// SafeFormat implements redact.SafeFormatter. Columns print as +1 or -1, with
// the NULL placement appended when it is not the default.
func (c OrderingColumn) SafeFormat(w redact.SafePrinter, _ rune) {
	c.format(w, func(id ColumnID) redact.RedactableString {
		return redact.Sprint(id)
	})
}

func (c OrderingColumn) format(
	w redact.SafeWriter, label func(id ColumnID) redact.RedactableString,
) {
	if c.Descending {
		w.SafeRune('-')
	} else {
		w.SafeRune('+')
	}
	w.Print(label(c.ID))
	if !c.DefaultNulls() {
		if c.NullsFirst {
			w.SafeString(" nulls-first")
		} else {
			w.SafeString(" nulls-last")
		}
	}
}

// String implements fmt.Stringer.
func (c OrderingColumn) String() string {
	return redact.StringWithoutMarkers(c)
}

// Ordering defines the order of rows provided or required by an operator. The
// first column is the primary sort key. A nil Ordering means that no
// ordering is required or provided.
type Ordering []OrderingColumn

// Empty returns true if the ordering has no columns.
func (o Ordering) Empty() bool {
	return len(o) == 0
}

// ColSet returns the set of column IDs used in the ordering.
func (o Ordering) ColSet() ColSet {
	var colSet ColSet
	for _, col := range o {
		colSet.Add(col.ID)
	}
	return colSet
}

// Equals returns true if the two orderings are identical, column by column.
func (o Ordering) Equals(rhs Ordering) bool {
	if len(o) != len(rhs) {
		return false
	}
	for i := range o {
		if o[i] != rhs[i] {
			return false
		}
	}
	return true
}

// Provides returns true if the required ordering is a prefix of this ordering.
func (o Ordering) Provides(required Ordering) bool {
	if len(o) < len(required) {
		return false
	}
	return o[:len(required)].Equals(required)
}

// Copy returns an independent copy of the ordering.
func (o Ordering) Copy() Ordering {
	if o == nil {
		return nil
	}
	res := make(Ordering, len(o))
	copy(res, o)
	return res
}

// Hash mixes the ordering into an FNV-64 hash state, column by column.
func (o Ordering) Hash(h uint64) uint64 {
	h = util.FNV64AddToHash(h, int32(len(o)))
	for _, c := range o {
		h = util.FNV64AddToHash(h, int32(c.ID))
		h = util.FNV64AddBool(h, c.Descending)
		h = util.FNV64AddBool(h, c.NullsFirst)
	}
	return h
}

// SafeFormat implements redact.SafeFormatter.
func (o Ordering) SafeFormat(w redact.SafePrinter, _ rune) {
	for i := range o {
		if i > 0 {
			w.SafeRune(',')
		}
		w.Print(o[i])
	}
}

// String implements fmt.Stringer.
func (o Ordering) String() string {
	return redact.StringWithoutMarkers(o)
}

// Format returns the ordering with each column labeled by md, for example
// "+region:1,-date:2 nulls-first".
func (o Ordering) Format(md *Metadata) string {
	var b redact.StringBuilder
	for i, c := range o {
		if i > 0 {
			b.SafeRune(',')
		}
		c.format(&b, func(id ColumnID) redact.RedactableString {
			return redact.Sprint(md.ColumnLabel(id))
		})
	}
	return b.RedactableString().StripMarkers()
}
