// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package syncutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMutexes(t *testing.T) {
	var mu struct {
		Mutex
		n int
	}
	var rw struct {
		RWMutex
		n int
	}
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				mu.Lock()
				mu.AssertHeld()
				mu.n++
				mu.Unlock()

				rw.Lock()
				rw.AssertHeld()
				rw.n++
				rw.Unlock()

				rw.RLock()
				rw.AssertRHeld()
				_ = rw.n
				rw.RUnlock()
			}
		}()
	}
	wg.Wait()
	require.Equal(t, 800, mu.n)
	require.Equal(t, 800, rw.n)
}
