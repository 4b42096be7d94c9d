// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package log

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/cockroachdb/logtags"
	"github.com/cockroachdb/redact"
	"github.com/stretchr/testify/require"
)

func TestVerbosity(t *testing.T) {
	defer SetVerbosity(0)

	var buf bytes.Buffer
	defer SetOutput(&buf)()

	ctx := context.Background()
	VEventf(ctx, 2, "hidden %d", 1)
	require.Empty(t, buf.String())

	SetVerbosity(2)
	require.True(t, V(1))
	require.True(t, V(2))
	require.False(t, V(3))
	VEventf(ctx, 2, "shown %d", 2)
	require.Contains(t, buf.String(), "shown 2")
	require.True(t, strings.HasPrefix(buf.String(), "I"))
}

func TestTagsAndSeverity(t *testing.T) {
	var buf bytes.Buffer
	defer SetOutput(&buf)()

	ctx := logtags.AddTag(context.Background(), "n", 1)
	ctx = logtags.AddTag(ctx, "memo", nil)
	Warningf(ctx, "group %d deduplicated", 7)

	out := buf.String()
	require.True(t, strings.HasPrefix(out, "W"), out)
	require.Contains(t, out, "[n1,memo]")
	require.Contains(t, out, "group 7 deduplicated")
	require.True(t, strings.HasSuffix(out, "\n"))
}

func TestRedactable(t *testing.T) {
	var buf bytes.Buffer
	defer SetOutput(&buf)()
	defer SetRedactable(false)

	ctx := context.Background()
	Infof(ctx, "value %s", "secret")
	require.Contains(t, buf.String(), "value secret")
	require.NotContains(t, buf.String(), string(redact.StartMarker()))

	buf.Reset()
	SetRedactable(true)
	Infof(ctx, "value %s", "secret")
	require.Contains(t, buf.String(), string(redact.StartMarker())+"secret")
}

func TestEveryN(t *testing.T) {
	defer SetVerbosity(0)

	e := Every(time.Hour)
	require.True(t, e.ShouldLog())
	require.False(t, e.ShouldLog())

	SetVerbosity(2)
	require.True(t, e.ShouldLog())
}
