// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package physical

import (
	"testing"

	"github.com/cockroachdb/physplan/pkg/sql/opt"
	"github.com/cockroachdb/physplan/pkg/sql/opt/scalar"
	"github.com/stretchr/testify/require"
)

// salesWindow holds the columns of the running-total example:
//
//	SELECT sum(amount) OVER (PARTITION BY region ORDER BY date NULLS LAST) AS out
type salesWindow struct {
	md opt.Metadata

	region, date, amount, out opt.ColumnID
}

func newSalesWindow() *salesWindow {
	s := &salesWindow{}
	s.region = s.md.AddColumn("region")
	s.date = s.md.AddColumn("date")
	s.amount = s.md.AddColumn("amount")
	s.out = s.md.AddColumn("out")
	return s
}

func (s *salesWindow) calls() map[opt.ColumnID]*scalar.Call {
	return map[opt.ColumnID]*scalar.Call{
		s.out: scalar.NewCall("sum", scalar.NewVariable(s.amount)),
	}
}

func (s *salesWindow) partition() []scalar.Expr {
	return []scalar.Expr{scalar.NewVariable(s.region)}
}

func (s *salesWindow) orderBy(descending bool) opt.Ordering {
	return opt.Ordering{{ID: s.date, Descending: descending, NullsFirst: false}}
}

func (s *salesWindow) build(props Props) *Window {
	return NewWindow(s.calls(), s.partition(), s.orderBy(false), DefaultFrame(), nil, props)
}

func TestWindowEndToEnd(t *testing.T) {
	s := newSalesWindow()
	w := s.build(Props{})

	require.Equal(t, opt.MakeColSet(s.amount, s.region, s.date).String(), w.UsedColumns().String())
	require.False(t, w.HasLimit())
	require.Equal(t, NoLimit, w.Limit())
	require.Nil(t, w.Predicate())
	require.Nil(t, w.Projection())

	limited := s.build(MakeProps(10, nil, nil))
	require.True(t, w.Equals(limited))
	require.True(t, limited.Equals(w))
	require.Equal(t, w.Hash(), limited.Hash())

	desc := NewWindow(s.calls(), s.partition(), s.orderBy(true), DefaultFrame(), nil, Props{})
	require.False(t, w.Equals(desc))
	require.NotEqual(t, w.Hash(), desc.Hash())
}

func TestWindowEqualityIgnoresLayeredProps(t *testing.T) {
	s := newSalesWindow()
	base := s.build(Props{})

	pred := scalar.NewComparison(opt.GtOp, scalar.NewVariable(s.out), scalar.NewInt(100))
	proj := NewProjection(ProjectionItem{Col: s.out, Expr: scalar.NewVariable(s.out)})
	enforce := opt.Ordering{opt.MakeOrderingColumn(s.region, false), opt.MakeOrderingColumn(s.date, false)}

	variants := []*Window{
		NewWindow(s.calls(), s.partition(), s.orderBy(false), DefaultFrame(), enforce, Props{}),
		s.build(MakeProps(5, nil, nil)),
		s.build(MakeProps(NoLimit, pred, nil)),
		s.build(MakeProps(NoLimit, nil, proj)),
		NewWindow(s.calls(), s.partition(), s.orderBy(false), DefaultFrame(), enforce, MakeProps(1, pred, proj)),
	}
	for i, v := range variants {
		require.True(t, base.Equals(v), "variant %d", i)
		require.True(t, v.Equals(base), "variant %d", i)
		require.Equal(t, base.Hash(), v.Hash(), "variant %d", i)
	}
}

func TestWindowEqualityDiscrimination(t *testing.T) {
	s := newSalesWindow()
	other := s.md.AddColumn("other")
	base := s.build(Props{})

	rowsFrame := &AnalyticWindow{
		Type:  RowsFrame,
		Left:  Boundary{Type: UnboundedPreceding},
		Right: Boundary{Type: CurrentRow},
	}
	twoOrderCols := opt.Ordering{opt.MakeOrderingColumn(s.date, false), opt.MakeOrderingColumn(s.region, false)}
	reordered := opt.Ordering{twoOrderCols[1], twoOrderCols[0]}

	testCases := []struct {
		name string
		w    *Window
	}{
		{
			name: "different function",
			w: NewWindow(map[opt.ColumnID]*scalar.Call{
				s.out: scalar.NewCall("avg", scalar.NewVariable(s.amount)),
			}, s.partition(), s.orderBy(false), DefaultFrame(), nil, Props{}),
		},
		{
			name: "different result column",
			w: NewWindow(map[opt.ColumnID]*scalar.Call{
				other: scalar.NewCall("sum", scalar.NewVariable(s.amount)),
			}, s.partition(), s.orderBy(false), DefaultFrame(), nil, Props{}),
		},
		{
			name: "extra call",
			w: NewWindow(map[opt.ColumnID]*scalar.Call{
				s.out: scalar.NewCall("sum", scalar.NewVariable(s.amount)),
				other: scalar.NewCall("rank"),
			}, s.partition(), s.orderBy(false), DefaultFrame(), nil, Props{}),
		},
		{
			name: "no partition",
			w:    NewWindow(s.calls(), nil, s.orderBy(false), DefaultFrame(), nil, Props{}),
		},
		{
			name: "different partition",
			w: NewWindow(s.calls(), []scalar.Expr{scalar.NewVariable(s.date)},
				s.orderBy(false), DefaultFrame(), nil, Props{}),
		},
		{
			name: "different nulls placement",
			w: NewWindow(s.calls(), s.partition(),
				opt.Ordering{{ID: s.date, NullsFirst: true}}, DefaultFrame(), nil, Props{}),
		},
		{
			name: "different frame type",
			w:    NewWindow(s.calls(), s.partition(), s.orderBy(false), rowsFrame, nil, Props{}),
		},
		{
			name: "no frame",
			w:    NewWindow(s.calls(), s.partition(), s.orderBy(false), nil, nil, Props{}),
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.False(t, base.Equals(tc.w))
			require.False(t, tc.w.Equals(base))
			require.NotEqual(t, base.Hash(), tc.w.Hash())
		})
	}

	// Reordering the ORDER BY list changes the window.
	a := NewWindow(s.calls(), s.partition(), twoOrderCols, DefaultFrame(), nil, Props{})
	b := NewWindow(s.calls(), s.partition(), reordered, DefaultFrame(), nil, Props{})
	require.False(t, a.Equals(b))
	require.NotEqual(t, a.Hash(), b.Hash())

	// So does reordering the PARTITION BY list.
	p1 := []scalar.Expr{scalar.NewVariable(s.region), scalar.NewVariable(s.date)}
	p2 := []scalar.Expr{scalar.NewVariable(s.date), scalar.NewVariable(s.region)}
	require.False(t, NewWindow(s.calls(), p1, nil, nil, nil, Props{}).Equals(
		NewWindow(s.calls(), p2, nil, nil, nil, Props{}),
	))

	// A window never equals another kind of operator.
	require.False(t, base.Equals(NewFilter(Props{})))
}

func TestWindowHashIsDeterministic(t *testing.T) {
	s := newSalesWindow()
	rank := s.md.AddColumn("rank")
	rowNum := s.md.AddColumn("row_number")
	calls := func() map[opt.ColumnID]*scalar.Call {
		return map[opt.ColumnID]*scalar.Call{
			s.out:  scalar.NewCall("sum", scalar.NewVariable(s.amount)),
			rank:   scalar.NewCall("rank"),
			rowNum: scalar.NewCall("row_number"),
		}
	}
	first := NewWindow(calls(), s.partition(), s.orderBy(false), nil, nil, Props{})
	for i := 0; i < 20; i++ {
		// Map iteration order varies between constructions.
		w := NewWindow(calls(), s.partition(), s.orderBy(false), nil, nil, Props{})
		require.True(t, first.Equals(w))
		require.Equal(t, first.Hash(), w.Hash())
	}
}

func TestWindowUsedColumns(t *testing.T) {
	var md opt.Metadata
	slot1 := md.AddColumn("slot1")
	c1 := md.AddColumn("c1")
	c2 := md.AddColumn("c2")
	c3 := md.AddColumn("c3")
	c4 := md.AddColumn("c4")
	c5 := md.AddColumn("c5")

	pred := scalar.NewComparison(opt.LtOp, scalar.NewVariable(c3), scalar.NewInt(0))
	w := NewWindow(
		map[opt.ColumnID]*scalar.Call{slot1: scalar.NewCall("rank")},
		[]scalar.Expr{scalar.NewVariable(c1)},
		opt.Ordering{opt.MakeOrderingColumn(c2, false)},
		nil,
		nil,
		MakeProps(NoLimit, pred, nil),
	)
	require.Equal(t, opt.MakeColSet(c1, c2, c3).String(), w.UsedColumns().String())

	// The projection's input columns are included as well.
	proj := NewProjection(
		ProjectionItem{Col: slot1, Expr: scalar.NewVariable(slot1)},
		ProjectionItem{Col: c5, Expr: scalar.NewCall("abs", scalar.NewVariable(c4))},
	)
	w = NewWindow(
		map[opt.ColumnID]*scalar.Call{slot1: scalar.NewCall("rank")},
		[]scalar.Expr{scalar.NewVariable(c1)},
		opt.Ordering{opt.MakeOrderingColumn(c2, false)},
		nil,
		nil,
		MakeProps(NoLimit, pred, proj),
	)
	require.Equal(t, opt.MakeColSet(slot1, c1, c2, c3, c4).String(), w.UsedColumns().String())

	// Enforced orderings are a requirement on the input, not a read.
	w = NewWindow(
		map[opt.ColumnID]*scalar.Call{slot1: scalar.NewCall("lag", scalar.NewVariable(c4), scalar.NewInt(1))},
		[]scalar.Expr{scalar.NewCall("lower", scalar.NewVariable(c5))},
		nil,
		nil,
		opt.Ordering{opt.MakeOrderingColumn(c1, false)},
		Props{},
	)
	require.Equal(t, opt.MakeColSet(c4, c5).String(), w.UsedColumns().String())
}

func TestWindowUsedColumnsIsolation(t *testing.T) {
	s := newSalesWindow()
	w := s.build(Props{})

	first := w.UsedColumns()
	first.Add(s.out)
	first.UnionWith(opt.MakeColSet(100))

	second := w.UsedColumns()
	require.Equal(t, opt.MakeColSet(s.region, s.date, s.amount).String(), second.String())
	require.False(t, second.Contains(s.out))
}

func TestWindowConstructorSnapshots(t *testing.T) {
	s := newSalesWindow()
	calls := s.calls()
	partition := s.partition()
	orderBy := s.orderBy(false)
	frame := DefaultFrame()
	enforce := opt.Ordering{opt.MakeOrderingColumn(s.region, false)}

	w := NewWindow(calls, partition, orderBy, frame, enforce, Props{})
	before := w.Hash()

	calls[s.region] = scalar.NewCall("rank")
	delete(calls, s.out)
	partition[0] = scalar.NewVariable(s.amount)
	orderBy[0].Descending = true
	frame.Type = RowsFrame
	enforce[0] = opt.MakeOrderingColumn(s.amount, true)

	require.Equal(t, before, w.Hash())
	require.Equal(t, s.calls(), w.AnalyticCall())
	require.Equal(t, s.partition(), w.PartitionExprs())
	require.Equal(t, s.orderBy(false), w.OrderBy())
	require.True(t, w.Frame().Equals(DefaultFrame()))
	require.Equal(t, opt.Ordering{opt.MakeOrderingColumn(s.region, false)}, w.EnforceOrderBy())

	// Accessors return copies as well.
	w.OrderBy()[0].ID = s.amount
	w.PartitionExprs()[0] = nil
	w.AnalyticCall()[s.date] = scalar.NewCall("rank")
	w.AnalyticCalls()[0].Col = s.date
	w.Frame().Left = Boundary{Type: CurrentRow}
	w.EnforceOrderBy()[0].Descending = true
	require.Equal(t, before, w.Hash())
	require.Equal(t, opt.Ordering{opt.MakeOrderingColumn(s.region, false)}, w.EnforceOrderBy())
	require.Equal(t, []AnalyticCall{{Col: s.out, Call: s.calls()[s.out]}}, w.AnalyticCalls())
}

func TestWindowAccessors(t *testing.T) {
	s := newSalesWindow()
	pred := scalar.NewComparison(opt.GtOp, scalar.NewVariable(s.out), scalar.NewInt(0))
	w := NewWindow(s.calls(), s.partition(), s.orderBy(false), nil, nil, MakeProps(3, pred, nil))

	require.Equal(t, opt.WindowOp, w.Op())
	require.Equal(t, int64(3), w.Limit())
	require.True(t, w.HasLimit())
	require.True(t, scalar.Equal(pred, w.Predicate()))
	require.Nil(t, w.Frame())
	require.Nil(t, w.EnforceOrderBy())
	require.Equal(t, opt.MakeColSet(s.out).String(), w.ResultCols().String())
	props := w.PhysicalProps()
	require.Equal(t, int64(3), props.Limit())

	empty := NewWindow(nil, nil, nil, nil, nil, Props{})
	require.Empty(t, empty.AnalyticCall())
	require.Nil(t, empty.PartitionExprs())
	require.True(t, empty.UsedColumns().Empty())
}
