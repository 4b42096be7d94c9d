// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package util

import (
	"time"

	"github.com/cockroachdb/physplan/pkg/util/syncutil"
)

// EveryN rate limits events: ShouldProcess returns true at most once per
// interval N. It is safe for concurrent use.
//
// The zero value is usable and is equivalent to Every(0): every event is
// processed. Log messages should use log.EveryN, which also honors the
// verbosity level.
type EveryN struct {
	// N is the minimum duration between two processed events.
	N time.Duration

	mu struct {
		syncutil.Mutex
		lastProcessed time.Time
	}
}

// Every returns an EveryN that processes at most one event every n.
func Every(n time.Duration) *EveryN {
	return &EveryN{N: n}
}

// ShouldProcess returns whether at least N has elapsed since the last
// processed event, and if so records now as the last processed event.
func (e *EveryN) ShouldProcess(now time.Time) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.mu.lastProcessed.IsZero() && now.Sub(e.mu.lastProcessed) < e.N {
		return false
	}
	e.mu.lastProcessed = now
	return true
}
