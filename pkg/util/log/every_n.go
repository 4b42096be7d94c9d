// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package log

import (
	"time"

	"github.com/cockroachdb/physplan/pkg/util"
)

// EveryN rate limits log messages that would otherwise be emitted once per
// item of a large batch.
type EveryN struct {
	every *util.EveryN
}

// Every returns an EveryN that allows a message every n.
func Every(n time.Duration) EveryN {
	return EveryN{every: util.Every(n)}
}

// ShouldLog returns whether it has been more than n since the last message
// was allowed. At verbosity 2 and above every message is allowed.
func (e EveryN) ShouldLog() bool {
	if V(2) {
		return true
	}
	return e.every.ShouldProcess(time.Now())
}
