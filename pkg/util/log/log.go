// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package log is a small leveled logger in the style of the CockroachDB
// logging package. Entries carry the context's log tags and redactable
// payloads; verbose messages are gated by a global verbosity level.
package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/physplan/pkg/util/syncutil"
	"github.com/cockroachdb/logtags"
	"github.com/cockroachdb/redact"
)

// Severity identifies the importance of a log entry.
type Severity int32

const (
	// SeverityInfo is used for informational and verbose messages.
	SeverityInfo Severity = iota
	// SeverityWarning is used for unexpected but recoverable conditions.
	SeverityWarning
	// SeverityError is used for failures.
	SeverityError
	// SeverityFatal entries terminate the process after being written.
	SeverityFatal
)

var severityChar = [...]byte{'I', 'W', 'E', 'F'}

// String implements fmt.Stringer.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	case SeverityFatal:
		return "FATAL"
	}
	return fmt.Sprintf("Severity(%d)", int32(s))
}

// SafeValue implements redact.SafeValue.
func (Severity) SafeValue() {}

var logging struct {
	verbosity  atomic.Int32
	redactable atomic.Bool

	mu struct {
		syncutil.Mutex
		out io.Writer
	}
}

func init() {
	logging.mu.out = os.Stderr
}

// SetOutput redirects all log entries to w and returns a function that
// restores the previous destination.
func SetOutput(w io.Writer) (restore func()) {
	logging.mu.Lock()
	defer logging.mu.Unlock()
	prev := logging.mu.out
	logging.mu.out = w
	return func() {
		logging.mu.Lock()
		defer logging.mu.Unlock()
		logging.mu.out = prev
	}
}

// SetVerbosity sets the global verbosity level used by V and VEventf.
func SetVerbosity(level int32) {
	logging.verbosity.Store(level)
}

// SetRedactable controls whether redaction markers are kept in the output.
func SetRedactable(redactable bool) {
	logging.redactable.Store(redactable)
}

// V returns true if the logging verbosity is set to the specified level or
// higher.
func V(level int32) bool {
	return logging.verbosity.Load() >= level
}

// Infof logs to the INFO severity.
func Infof(ctx context.Context, format string, args ...interface{}) {
	logDepth(ctx, 1, SeverityInfo, format, args)
}

// Warningf logs to the WARNING severity.
func Warningf(ctx context.Context, format string, args ...interface{}) {
	logDepth(ctx, 1, SeverityWarning, format, args)
}

// Errorf logs to the ERROR severity.
func Errorf(ctx context.Context, format string, args ...interface{}) {
	logDepth(ctx, 1, SeverityError, format, args)
}

// Fatalf logs to the FATAL severity and then exits the process.
func Fatalf(ctx context.Context, format string, args ...interface{}) {
	logDepth(ctx, 1, SeverityFatal, format, args)
	os.Exit(255)
}

// VEventf logs an INFO entry if the verbosity is at least level.
func VEventf(ctx context.Context, level int32, format string, args ...interface{}) {
	if V(level) {
		logDepth(ctx, 1, SeverityInfo, format, args)
	}
}

func logDepth(
	ctx context.Context, depth int, sev Severity, format string, args []interface{},
) {
	entry := makeEntry(ctx, depth+1, sev, format, args)
	logging.mu.Lock()
	defer logging.mu.Unlock()
	_, _ = io.WriteString(logging.mu.out, entry)
}

// makeEntry formats a log line:
//
//	I261019 14:03:05.123456 memo.go:112 [n1,opt] message
func makeEntry(
	ctx context.Context, depth int, sev Severity, format string, args []interface{},
) string {
	var buf strings.Builder
	now := time.Now()
	buf.WriteByte(severityChar[sev])
	buf.WriteString(now.Format("060102 15:04:05.000000"))
	if _, file, line, ok := runtime.Caller(depth + 1); ok {
		fmt.Fprintf(&buf, " %s:%d", filepath.Base(file), line)
	}
	formatTags(ctx, &buf)
	buf.WriteByte(' ')
	msg := redact.Sprintf(format, args...)
	if logging.redactable.Load() {
		buf.WriteString(string(msg))
	} else {
		buf.WriteString(msg.StripMarkers())
	}
	if !strings.HasSuffix(buf.String(), "\n") {
		buf.WriteByte('\n')
	}
	return buf.String()
}

// formatTags appends the context's log tags, in brackets, to buf.
func formatTags(ctx context.Context, buf *strings.Builder) {
	tags := logtags.FromContext(ctx)
	if tags == nil {
		return
	}
	buf.WriteString(" [")
	for i, t := range tags.Get() {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(t.Key())
		if v := t.Value(); v != nil {
			if len(t.Key()) > 1 {
				buf.WriteByte('=')
			}
			fmt.Fprint(buf, v)
		}
	}
	buf.WriteByte(']')
}
