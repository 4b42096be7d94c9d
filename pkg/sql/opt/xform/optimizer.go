// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package xform

import (
	"context"

	"github.com/cockroachdb/physplan/pkg/sql/opt"
	"github.com/cockroachdb/physplan/pkg/sql/opt/memo"
	"github.com/cockroachdb/physplan/pkg/sql/opt/ordering"
	"github.com/cockroachdb/physplan/pkg/sql/opt/physical"
	"github.com/cockroachdb/physplan/pkg/util/log"
)

// Optimizer finds the cheapest plan of a memo group.
type Optimizer struct {
	mem    *memo.Memo
	coster *Coster
}

// NewOptimizer returns an optimizer over the given memo.
func NewOptimizer(mem *memo.Memo, cfg Config) *Optimizer {
	return &Optimizer{mem: mem, coster: NewCoster(cfg)}
}

// Optimize returns the cheapest plan of group id whose output satisfies the
// required ordering. Every member of the group is costed over the cheapest
// plans of its inputs that provide the ordering the member requires. A member
// that does not provide the required ordering is costed with a Sort enforcer
// on top. The best plan of every group visited is recorded in the memo.
func (o *Optimizer) Optimize(
	ctx context.Context, id memo.GroupID, required opt.Ordering,
) memo.BestExpr {
	if best, ok := o.mem.Best(id, required); ok {
		return best
	}
	for _, m := range o.mem.Members(id) {
		inputRequired := ordering.RequiredInputOrdering(m.Op)
		inputs := make([]*physical.Expr, len(m.Inputs))
		for i, in := range m.Inputs {
			inputs[i] = o.Optimize(ctx, in, inputRequired).Expr
		}
		candidate := physical.NewExpr(m.Op, inputs...)
		if !ordering.CanProvide(candidate, required) {
			candidate = physical.NewExpr(physical.NewSort(required, physical.Props{}), candidate)
		}
		est := o.coster.Estimate(candidate)
		if o.mem.SetBest(id, required, candidate, est.Cost) {
			log.VEventf(ctx, 2, "group %d: new best %s with cost %.2f", id, m.Op.Op(), est.Cost.C)
		}
	}
	best, _ := o.mem.Best(id, required)
	return best
}
