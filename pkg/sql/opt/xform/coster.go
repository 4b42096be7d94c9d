// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package xform estimates the cost of physical plans and picks the cheapest
// alternative of every memo group.
package xform

import (
	"math"

	"github.com/cockroachdb/physplan/pkg/sql/opt/memo"
	"github.com/cockroachdb/physplan/pkg/sql/opt/ordering"
	"github.com/cockroachdb/physplan/pkg/sql/opt/physical"
)

// Estimate is the estimated output size and cumulative cost of a plan.
type Estimate struct {
	Rows float64
	Cost memo.Cost
}

// Coster estimates plan costs from the constants of a Config.
type Coster struct {
	cfg Config
}

// NewCoster returns a coster using the given cost constants.
func NewCoster(cfg Config) *Coster {
	return &Coster{cfg: cfg}
}

// Estimate returns the estimated output size and cost of the plan rooted at
// e, including its inputs.
func (c *Coster) Estimate(e *physical.Expr) Estimate {
	est := physical.AcceptExpr[Estimate, struct{}](e, c, struct{}{})
	return c.applyProps(e.Operator(), est)
}

var _ physical.ExprVisitor[Estimate, struct{}] = (*Coster)(nil)

// VisitScan is part of the physical.ExprVisitor interface.
func (c *Coster) VisitScan(e *physical.Expr, _ struct{}) Estimate {
	scan := e.Operator().(*physical.Scan)
	rows := scan.RowCount()
	return Estimate{Rows: rows, Cost: memo.Cost{C: rows * (c.cfg.SeqIOCostPerRow + c.cfg.CPUCostPerRow)}}
}

// VisitFilter is part of the physical.ExprVisitor interface. The filter's
// predicate is costed with the other layered properties.
func (c *Coster) VisitFilter(e *physical.Expr, _ struct{}) Estimate {
	return c.Estimate(e.Input())
}

// VisitProject is part of the physical.ExprVisitor interface.
func (c *Coster) VisitProject(e *physical.Expr, _ struct{}) Estimate {
	est := c.Estimate(e.Input())
	items := e.Operator().(*physical.Project).Items().Len()
	est.Cost.Add(memo.Cost{C: est.Rows * c.cfg.CPUCostPerRow * float64(items)})
	return est
}

// VisitSort is part of the physical.ExprVisitor interface.
func (c *Coster) VisitSort(e *physical.Expr, _ struct{}) Estimate {
	est := c.Estimate(e.Input())
	est.Cost.Add(c.sortCost(est.Rows))
	return est
}

// VisitAnalytic is part of the physical.ExprVisitor interface. A window pays
// for every function and partition key on every row, plus a sort when its
// input is not already in the order it requires.
func (c *Coster) VisitAnalytic(e *physical.Expr, _ struct{}) Estimate {
	w := e.Operator().(*physical.Window)
	est := c.Estimate(e.Input())
	perRow := c.cfg.CPUCostPerRow * float64(len(w.PartitionExprs())+1)
	perRow += c.cfg.WindowFunctionCostFactor * float64(len(w.AnalyticCalls()))
	est.Cost.Add(memo.Cost{C: est.Rows * perRow})
	if ordering.NeedsSort(e) {
		est.Cost.Add(c.sortCost(est.Rows))
	}
	return est
}

func (c *Coster) sortCost(rows float64) memo.Cost {
	if rows < 2 {
		return memo.Cost{C: rows * c.cfg.CPUCostPerRow}
	}
	return memo.Cost{C: rows * math.Log2(rows) * c.cfg.SortCostFactor}
}

// applyProps accounts for the predicate, limit and projection layered on an
// operator, in that order.
func (c *Coster) applyProps(op physical.Operator, est Estimate) Estimate {
	if op.Predicate() != nil {
		est.Cost.Add(memo.Cost{C: est.Rows * c.cfg.CPUCostPerRow})
		est.Rows *= c.cfg.FilterSelectivity
	}
	if limit := op.Limit(); limit != physical.NoLimit && float64(limit) < est.Rows {
		est.Rows = float64(limit)
	}
	if p := op.Projection(); p != nil {
		est.Cost.Add(memo.Cost{C: est.Rows * c.cfg.CPUCostPerRow * float64(p.Len())})
	}
	return est
}
