// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package plandef_test

import (
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/physplan/pkg/sql/opt"
	"github.com/cockroachdb/physplan/pkg/sql/opt/physical"
	"github.com/cockroachdb/physplan/pkg/sql/opt/plandef"
	"github.com/cockroachdb/physplan/pkg/sql/opt/scalar"
	"github.com/stretchr/testify/require"
)

func TestLoadFile(t *testing.T) {
	p, err := plandef.LoadFile(filepath.Join("testdata", "sales_window.yaml"))
	require.NoError(t, err)
	md := p.Metadata
	require.Equal(t, 6, md.NumColumns())

	root := p.Root
	require.Equal(t, opt.FilterOp, root.Op())
	require.Equal(t,
		`(region:1 = "west") AND (running:5 > 100.50)`,
		scalar.FormatWithMetadata(root.Operator().Predicate(), md),
	)

	w := root.Input().Operator().(*physical.Window)
	require.Equal(t, "(5,6)", w.ResultCols().String())
	require.Equal(t, "+date:2", w.OrderBy().Format(md))
	require.Equal(t, "ROWS BETWEEN UNBOUNDED PRECEDING AND CURRENT ROW", w.Frame().String())
	calls := w.AnalyticCalls()
	require.Len(t, calls, 2)
	require.Equal(t, "sum(@3)", calls[0].Call.String())
	require.Equal(t, "rank()", calls[1].Call.String())

	scan := root.Input().Input().Operator().(*physical.Scan)
	require.Equal(t, "sales", scan.Table())
	require.Equal(t, 25000.0, scan.RowCount())
	require.Equal(t, "+1", scan.Ordering().String())
}

func TestLoadFileWithMetadata(t *testing.T) {
	path := filepath.Join("testdata", "sales_window.yaml")
	var md opt.Metadata
	a, err := plandef.LoadFileWithMetadata(path, &md)
	require.NoError(t, err)
	b, err := plandef.LoadFileWithMetadata(path, &md)
	require.NoError(t, err)
	require.Same(t, &md, a.Metadata)
	require.Same(t, &md, b.Metadata)
	// The scanned table columns are shared; the window results are not.
	require.Equal(t, 8, md.NumColumns())

	scanA := a.Root.Input().Input().Operator()
	scanB := b.Root.Input().Input().Operator()
	require.True(t, scanA.Equals(scanB))

	wA := a.Root.Input().Operator().(*physical.Window)
	wB := b.Root.Input().Operator().(*physical.Window)
	require.Equal(t, "(5,6)", wA.ResultCols().String())
	require.Equal(t, "(7,8)", wB.ResultCols().String())
	require.False(t, wA.Equals(wB))
	require.Equal(t,
		`(region:1 = "west") AND (running:7 > 100.50)`,
		scalar.FormatWithMetadata(b.Root.Operator().Predicate(), &md),
	)
}

func TestParse(t *testing.T) {
	p, err := plandef.Parse([]byte(`
columns: [x]
plan:
  project:
    items:
      - col: x
      - col: y
        expr: {fn: abs, args: [{col: x}]}
    limit: 5
    input:
      sort:
        ordering: [-x nulls-last]
        input:
          scan: {table: t, columns: [x], rows: 10}
`))
	require.NoError(t, err)
	// The top-level x is shadowed by the scanned x.
	require.Equal(t, 3, p.Metadata.NumColumns())
	project := p.Root.Operator().(*physical.Project)
	require.Equal(t, "x:2, abs(x:2) AS y:3", project.Items().Format(p.Metadata))
	require.Equal(t, int64(5), project.Limit())
	sort := p.Root.Input().Operator().(*physical.Sort)
	require.Equal(t, "-2", sort.Ordering().String())
}

func TestParseErrors(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		err   string
		hint  string
	}{
		{
			name:  "unknown field",
			input: "plan: {scan: {table: t, columns: [a], bogus: 1}}",
			err:   "parsing plan definition",
		},
		{
			name:  "no operator",
			input: "plan: {}",
			err:   "plan: expected exactly one operator, found 0",
			hint:  "use one of scan, filter, project, sort or window",
		},
		{
			name:  "two operators",
			input: "plan: {scan: {table: t, columns: [a]}, sort: {ordering: [a], input: {scan: {table: t, columns: [a]}}}}",
			err:   "plan: expected exactly one operator, found 2",
		},
		{
			name:  "unknown column",
			input: "plan: {filter: {predicate: {is_null: {col: b}}, input: {scan: {table: t, columns: [a]}}}}",
			err:   `plan.filter.predicate.is_null: unknown column "b"`,
		},
		{
			name:  "filter without predicate",
			input: "plan: {filter: {input: {scan: {table: t, columns: [a]}}}}",
			err:   "plan.filter: filter without a predicate",
		},
		{
			name: "invalid frame",
			input: `
plan:
  window:
    calls: [{col: r, fn: rank}]
    order_by: [a]
    frame: {type: rows, start: {type: current_row}, end: {type: preceding, offset: {int: 1}}}
    input: {scan: {table: t, columns: [a]}}`,
			err: "plan.window.frame: frame starting from current row cannot end with 1 preceding",
		},
		{
			name: "range offset with two order by columns",
			input: `
plan:
  window:
    calls: [{col: r, fn: rank}]
    order_by: [a, b]
    frame: {type: range, start: {type: preceding, offset: {int: 1}}, end: {type: current_row}}
    input: {scan: {table: t, columns: [a, b]}}`,
			err:  "plan.window.frame: RANGE with offset PRECEDING/FOLLOWING requires exactly one ORDER BY column, found 2",
			hint: "use ROWS framing, or order the window by a single column",
		},
		{
			name: "missing offset",
			input: `
plan:
  window:
    calls: [{col: r, fn: rank}]
    frame: {type: rows, start: {type: preceding}, end: {type: current_row}}
    input: {scan: {table: t, columns: [a]}}`,
			err: "plan.window.frame.start: preceding requires an offset",
		},
		{
			name: "call reads another call",
			input: `
plan:
  window:
    calls: [{col: r, fn: rank}, {col: s, fn: sum, args: [{col: r}]}]
    input: {scan: {table: t, columns: [a]}}`,
			err: `plan.window.calls.args: unknown column "r"`,
		},
		{
			name:  "bad comparison",
			input: "plan: {filter: {predicate: {cmp: '~', left: {col: a}, right: {int: 1}}, input: {scan: {table: t, columns: [a]}}}}",
			err:   `plan.filter.predicate: invalid comparison "~"`,
		},
		{
			name:  "two scalar kinds",
			input: "plan: {filter: {predicate: {col: a, int: 1}, input: {scan: {table: t, columns: [a]}}}}",
			err:   "plan.filter.predicate: expected exactly one kind of scalar expression, found 2",
		},
		{
			name:  "bad decimal",
			input: "plan: {filter: {predicate: {decimal: abc}, input: {scan: {table: t, columns: [a]}}}}",
			err:   "plan.filter.predicate",
		},
		{
			name:  "scan ordering",
			input: "columns: [b]\nplan: {scan: {table: t, columns: [a], ordering: [b]}}",
			err:   "plan.scan: ordering +b:1 is not over the scanned columns",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := plandef.Parse([]byte(tc.input))
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.err)
			if tc.hint != "" {
				require.Contains(t, errors.FlattenHints(err), tc.hint)
			}
		})
	}
}
