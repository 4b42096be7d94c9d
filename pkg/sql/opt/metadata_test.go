// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package opt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMetadata(t *testing.T) {
	var md Metadata
	a := md.AddColumn("a")
	b := md.AddColumn("b")
	a2 := md.AddColumn("a")

	require.Equal(t, ColumnID(1), a)
	require.Equal(t, ColumnID(2), b)
	require.Equal(t, ColumnID(3), a2)
	require.Equal(t, 3, md.NumColumns())

	require.Equal(t, "b", md.ColumnName(b))
	require.Equal(t, "", md.ColumnName(4))
	require.Equal(t, "a:1", md.ColumnLabel(a))
	require.Equal(t, "@9", md.ColumnLabel(9))
	require.Equal(t, "@1", (*Metadata)(nil).ColumnLabel(1))

	id, ok := md.ColumnByName("a")
	require.True(t, ok)
	require.Equal(t, a2, id)
	_, ok = md.ColumnByName("z")
	require.False(t, ok)

	require.Equal(t, "a:1 a:3", md.FormatColSet(MakeColSet(a, a2)))
}

func TestAddTableColumn(t *testing.T) {
	var md Metadata
	region := md.AddTableColumn("sales", "region")
	require.Equal(t, ColumnID(1), region)
	require.Equal(t, region, md.AddTableColumn("sales", "region"))

	other := md.AddTableColumn("returns", "region")
	require.NotEqual(t, region, other)
	require.NotEqual(t, region, md.AddColumn("region"))
	require.Equal(t, 3, md.NumColumns())
	require.Equal(t, "region:1", md.ColumnLabel(region))
}

func TestOperator(t *testing.T) {
	require.Equal(t, "window", WindowOp.String())
	require.True(t, WindowOp.IsPhysical())
	require.False(t, WindowOp.IsScalar())
	require.True(t, FunctionOp.IsScalar())
	require.True(t, LtOp.IsComparison())
	require.False(t, AndOp.IsComparison())
	require.Equal(t, "operator(999)", Operator(999).String())
}
