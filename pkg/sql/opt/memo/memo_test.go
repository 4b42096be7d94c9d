// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package memo_test

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/cockroachdb/logtags"
	"github.com/cockroachdb/physplan/pkg/sql/opt"
	"github.com/cockroachdb/physplan/pkg/sql/opt/memo"
	"github.com/cockroachdb/physplan/pkg/sql/opt/physical"
	"github.com/cockroachdb/physplan/pkg/sql/opt/scalar"
	"github.com/cockroachdb/physplan/pkg/util/log"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func scanOp() *physical.Scan {
	return physical.NewScan("sales", opt.MakeColSet(1, 2, 3), 1000, nil, physical.Props{})
}

func windowOp(enforce opt.Ordering, props physical.Props) *physical.Window {
	return physical.NewWindow(
		map[opt.ColumnID]*scalar.Call{4: scalar.NewCall("sum", scalar.NewVariable(3))},
		[]scalar.Expr{scalar.NewVariable(1)},
		opt.Ordering{opt.MakeOrderingColumn(2, false)},
		physical.DefaultFrame(), enforce, props,
	)
}

func TestMemoizeDeduplicates(t *testing.T) {
	ctx := context.Background()
	m := memo.New()

	scan, added := m.Memoize(ctx, scanOp())
	require.True(t, added)
	scan2, added := m.Memoize(ctx, scanOp())
	require.False(t, added)
	require.Equal(t, scan, scan2)

	first := windowOp(nil, physical.Props{})
	w1, added := m.Memoize(ctx, first, scan)
	require.True(t, added)

	// Windows that only differ in their enforced ordering or layered
	// properties collapse into the first one.
	for _, op := range []*physical.Window{
		windowOp(opt.Ordering{opt.MakeOrderingColumn(1, true)}, physical.Props{}),
		windowOp(nil, physical.MakeProps(10, nil, nil)),
		windowOp(nil, physical.MakeProps(physical.NoLimit, scalar.NewIsNull(scalar.NewVariable(4)), nil)),
	} {
		id, added := m.Memoize(ctx, op, scan)
		require.False(t, added)
		require.Equal(t, w1, id)
	}
	members := m.Members(w1)
	require.Len(t, members, 1)
	require.Same(t, first, members[0].Op)

	// The same window over a different input is a different expression.
	sorted, _ := m.Memoize(ctx, physical.NewSort(opt.Ordering{opt.MakeOrderingColumn(1, false)}, physical.Props{}), scan)
	w2, added := m.Memoize(ctx, windowOp(nil, physical.Props{}), sorted)
	require.True(t, added)
	require.NotEqual(t, w1, w2)

	require.Equal(t, memo.Stats{Groups: 4, Members: 4, Deduplicated: 4}, m.Stats())
	require.Equal(t, 4, m.NumGroups())
}

func TestMemoizeExpr(t *testing.T) {
	ctx := context.Background()
	m := memo.New()
	scan := physical.NewExpr(scanOp())
	e := physical.NewExpr(windowOp(nil, physical.Props{}), scan)
	id := m.MemoizeExpr(ctx, e)
	require.Equal(t, id, m.MemoizeExpr(ctx, physical.NewExpr(windowOp(nil, physical.Props{}), physical.NewExpr(scanOp()))))
	require.Equal(t, 2, m.NumGroups())

	res := m.Expr(id)
	require.Equal(t, opt.WindowOp, res.Op())
	require.True(t, res.Operator().Equals(e.Operator()))
	require.True(t, res.Input().Operator().Equals(scan.Operator()))
}

func TestAddAlternative(t *testing.T) {
	ctx := context.Background()
	m := memo.New()
	scan, _ := m.Memoize(ctx, scanOp())
	w, _ := m.Memoize(ctx, windowOp(nil, physical.Props{}), scan)

	sorted, _ := m.Memoize(ctx, physical.NewSort(opt.Ordering{opt.MakeOrderingColumn(1, false)}, physical.Props{}), scan)
	id, added := m.AddAlternative(ctx, w, windowOp(nil, physical.Props{}), sorted)
	require.True(t, added)
	require.Equal(t, w, id)
	require.Len(t, m.Members(w), 2)

	id, added = m.AddAlternative(ctx, sorted, windowOp(nil, physical.Props{}), scan)
	require.False(t, added)
	require.Equal(t, w, id)

	require.Panics(t, func() { m.AddAlternative(ctx, 99, scanOp()) })
	require.Panics(t, func() {
		m.AddAlternative(ctx, w, physical.NewSort(opt.Ordering{opt.MakeOrderingColumn(1, false)}, physical.Props{}), w)
	})
	require.Panics(t, func() { m.Memoize(ctx, windowOp(nil, physical.Props{}), 42) })
	require.Panics(t, func() { m.Memoize(ctx, windowOp(nil, physical.Props{})) })
}

func TestSetBest(t *testing.T) {
	ctx := context.Background()
	m := memo.New()
	scan, _ := m.Memoize(ctx, scanOp())
	e := physical.NewExpr(scanOp())
	asc := opt.Ordering{opt.MakeOrderingColumn(1, false)}

	_, ok := m.Best(scan, nil)
	require.False(t, ok)

	require.True(t, m.SetBest(scan, nil, e, memo.Cost{C: 10}))
	require.False(t, m.SetBest(scan, nil, e, memo.Cost{C: 10}))
	require.False(t, m.SetBest(scan, nil, e, memo.Cost{C: 20}))
	require.True(t, m.SetBest(scan, asc, e, memo.Cost{C: 20}))
	require.True(t, m.SetBest(scan, nil, e, memo.Cost{C: 5}))

	best, ok := m.Best(scan, nil)
	require.True(t, ok)
	require.Equal(t, memo.Cost{C: 5}, best.Cost)
	best, ok = m.Best(scan, asc)
	require.True(t, ok)
	require.Equal(t, memo.Cost{C: 20}, best.Cost)
}

func TestMemoizeConcurrent(t *testing.T) {
	ctx := context.Background()
	m := memo.New()
	const workers = 8
	ids := make([]memo.GroupID, workers)

	g, gCtx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		i := i
		g.Go(func() error {
			wCtx := logtags.AddTag(gCtx, "worker", i)
			scan, _ := m.Memoize(wCtx, scanOp())
			w, _ := m.Memoize(wCtx, windowOp(nil, physical.MakeProps(int64(i), nil, nil)), scan)
			ids[i] = w
			if m.Members(w)[0].Op.Op() != opt.WindowOp {
				return fmt.Errorf("unexpected member in group %d", w)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	for _, id := range ids {
		require.Equal(t, ids[0], id)
	}
	require.Equal(t, memo.Stats{Groups: 2, Members: 2, Deduplicated: 2*workers - 2}, m.Stats())
}

func TestMemoizeLogsDeduplication(t *testing.T) {
	var buf bytes.Buffer
	defer log.SetOutput(&buf)()
	log.SetVerbosity(2)
	defer log.SetVerbosity(0)

	ctx := logtags.AddTag(context.Background(), "memo", nil)
	m := memo.New()
	m.Memoize(ctx, scanOp())
	require.Empty(t, buf.String())
	m.Memoize(ctx, scanOp())
	require.Contains(t, buf.String(), "[memo] scan deduplicated into group 1")
}

func TestCostLess(t *testing.T) {
	testCases := []struct {
		left, right memo.Cost
		expected    bool
	}{
		{memo.Cost{C: 0.0}, memo.Cost{C: 1.0}, true},
		{memo.Cost{C: 0.0}, memo.Cost{C: 1e-20}, true},
		{memo.Cost{C: 0.0}, memo.Cost{C: 0.0}, false},
		{memo.Cost{C: 1.0}, memo.Cost{C: 0.0}, false},
		{memo.Cost{C: 1}, memo.Cost{C: 1.00000000000001}, false},
		{memo.Cost{C: 1}, memo.Cost{C: 1.00000001}, true},
		{memo.Cost{C: 1000}, memo.Cost{C: 1000.00000000001}, false},
		{memo.Cost{C: 1000}, memo.Cost{C: 1000.00001}, true},
		{memo.MaxCost, memo.Cost{C: 1.0}, false},
		{memo.Cost{C: 0.0}, memo.MaxCost, true},
		{memo.MaxCost, memo.MaxCost, false},
	}
	for _, tc := range testCases {
		if tc.left.Less(tc.right) != tc.expected {
			t.Errorf("expected %v.Less(%v) to be %v", tc.left, tc.right, tc.expected)
		}
	}
}
