// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package util

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFNV64Mixing(t *testing.T) {
	a := FNV64AddUint64(FNV64AddUint64(FNV64Init(), 1), 2)
	b := FNV64AddUint64(FNV64AddUint64(FNV64Init(), 2), 1)
	require.NotEqual(t, a, b, "mixing must be order-sensitive")

	c := FNV64AddUint64(FNV64AddUint64(FNV64Init(), 1), 2)
	require.Equal(t, a, c)

	hi := FNV64AddUint64(FNV64Init(), 1<<40)
	lo := FNV64AddUint64(FNV64Init(), 0)
	require.NotEqual(t, hi, lo, "high bits must influence the hash")

	require.NotEqual(t, FNV64AddBool(FNV64Init(), true), FNV64AddBool(FNV64Init(), false))
}
