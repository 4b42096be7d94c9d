// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package ordering

import (
	"github.com/cockroachdb/physplan/pkg/sql/opt"
	"github.com/cockroachdb/physplan/pkg/sql/opt/physical"
	"github.com/cockroachdb/physplan/pkg/sql/opt/scalar"
)

// WindowRequiredInputOrdering returns the ordering w requires of its input.
// An explicit enforced ordering wins. Otherwise the input must be grouped by
// the partition columns (ascending) and, within each partition, sorted by the
// window's ORDER BY; columns repeated in the ORDER BY are dropped.
//
// Only partition expressions that are plain column references can be
// required of the input. The requirement ends at the first one that is not,
// and in that case does not include the ORDER BY either.
func WindowRequiredInputOrdering(w *physical.Window) opt.Ordering {
	if enforce := w.EnforceOrderBy(); !enforce.Empty() {
		return enforce
	}
	var required opt.Ordering
	var seen opt.ColSet
	for _, e := range w.PartitionExprs() {
		v, ok := e.(*scalar.Variable)
		if !ok {
			return required
		}
		if !seen.Contains(v.Col) {
			seen.Add(v.Col)
			required = append(required, opt.MakeOrderingColumn(v.Col, false))
		}
	}
	for _, c := range w.OrderBy() {
		if !seen.Contains(c.ID) {
			seen.Add(c.ID)
			required = append(required, c)
		}
	}
	return required
}
