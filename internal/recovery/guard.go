// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package recovery

import "sync"

// VerifyGuard remembers the leftUntilDone value observed when a verify was
// last issued per fingerprint, so a repeat verify for an unchanged data state
// can be skipped instead of hammering the engine.
type VerifyGuard struct {
	mu       sync.Mutex
	attempts map[string]int64
}

func NewVerifyGuard() *VerifyGuard {
	return &VerifyGuard{attempts: make(map[string]int64)}
}

// RecordVerifyAttempt stores the remaining-bytes count a verify was issued at.
func (g *VerifyGuard) RecordVerifyAttempt(fingerprint string, leftUntilDone int64) {
	if fingerprint == "" {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.attempts[fingerprint] = leftUntilDone
}

// ShouldSkipVerify reports whether a verify for this fingerprint was already
// issued at the same remaining-bytes count.
func (g *VerifyGuard) ShouldSkipVerify(fingerprint string, leftUntilDone int64) bool {
	if fingerprint == "" {
		return false
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	recorded, ok := g.attempts[fingerprint]
	return ok && recorded == leftUntilDone
}

// Reset drops all recorded attempts. Called when the engine session is torn
// down or swapped.
func (g *VerifyGuard) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.attempts = make(map[string]int64)
}
