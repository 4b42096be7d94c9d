// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/physplan/pkg/util/log"
	"github.com/stretchr/testify/require"
)

var salesPlan = filepath.Join("testdata", "sales_window.yaml")

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestExplainCmd(t *testing.T) {
	out, err := runCmd(t, "explain", salesPlan)
	require.NoError(t, err)
	require.Contains(t, out, "running:5 = sum(amount:3)")
	require.Contains(t, out, "frame: ROWS BETWEEN UNBOUNDED PRECEDING AND CURRENT ROW")
	require.NotContains(t, out, "cost:")

	out, err = runCmd(t, "explain", "--costs", salesPlan)
	require.NoError(t, err)
	require.Contains(t, out, "cost: 35,804.82")

	// The configured constants change the cost of the scan.
	out, err = runCmd(t, "explain", "--costs",
		"--cost-config", filepath.Join("testdata", "costs.yaml"), salesPlan)
	require.NoError(t, err)
	require.Contains(t, out, "cost: 62,500")
}

func TestExplainCmdNormalize(t *testing.T) {
	out, err := runCmd(t, "explain", "--normalize", "--needed", "region,rnk", salesPlan)
	require.NoError(t, err)
	require.NotContains(t, out, "note:4")

	_, err = runCmd(t, "explain", "--normalize", "--needed", "bogus", salesPlan)
	require.EqualError(t, err, `unknown column "bogus"`)
}

func TestUsedColsCmd(t *testing.T) {
	out, err := runCmd(t, "used-cols", salesPlan)
	require.NoError(t, err)
	for _, s := range []string{"operator", "filter", "window", "scan", "region:1 date:2 amount:3"} {
		require.Contains(t, out, s)
	}
}

func TestMemoCmd(t *testing.T) {
	defer log.SetVerbosity(0)
	var logs bytes.Buffer
	defer log.SetOutput(&logs)()

	out, err := runCmd(t, "--v", "1", "memo", salesPlan, salesPlan)
	require.NoError(t, err)
	require.Contains(t, out, "best cost")
	// The plans share their scan, but each window computes its own result
	// columns.
	require.Contains(t, out, "groups: 5, members: 5, deduplicated: 1")
	require.Contains(t, logs.String(), "memoized into group")
	require.Contains(t, logs.String(), "[plan=")
}

func TestMemoCmdDistinctPartitions(t *testing.T) {
	out, err := runCmd(t, "memo",
		filepath.Join("testdata", "sales_by_region.yaml"),
		filepath.Join("testdata", "sales_by_date.yaml"),
	)
	require.NoError(t, err)
	require.Contains(t, out, "groups: 3, members: 3, deduplicated: 1")
}

func TestLowerCmd(t *testing.T) {
	out, err := runCmd(t, "lower", salesPlan)
	require.NoError(t, err)
	require.Equal(t, `noop
 ├── post
 │    └── filter: (@1 = "west") AND (@5 > 100.50)
 └── windower
      ├── partition by: @1
      ├── @5 = sum(@3)
      │    ├── ordering: +@2
      │    └── frame: ROWS BETWEEN UNBOUNDED PRECEDING AND CURRENT ROW
      ├── @6 = rank()
      │    ├── ordering: +@2
      │    └── frame: ROWS BETWEEN UNBOUNDED PRECEDING AND CURRENT ROW
      └── sorter
           ├── ordering: +@1,+@2
           └── table reader sales
                ├── columns: region, date, amount, note
                └── ordering: +@1
`, out)
}

func TestCmdErrors(t *testing.T) {
	_, err := runCmd(t, "explain", filepath.Join("testdata", "missing.yaml"))
	require.ErrorContains(t, err, "reading plan definition")

	_, err = runCmd(t, "explain")
	require.Error(t, err)

	_, err = runCmd(t, "memo", "--cost-config", salesPlan, salesPlan)
	require.ErrorContains(t, err, "parsing cost config")
}
