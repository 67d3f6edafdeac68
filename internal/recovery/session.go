// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package recovery

import (
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/autobrr/rudder/internal/engine"
)

// Options tune the polling and probing cadence of a recovery session.
type Options struct {
	PollInterval  time.Duration
	VerifyTimeout time.Duration
	ProbeAttempts uint
	ProbeDelay    time.Duration
	HistorySize   int
}

const defaultHistorySize = 100

// DefaultOptions returns sane defaults.
func DefaultOptions() Options {
	return Options{
		PollInterval:  2 * time.Second,
		VerifyTimeout: 10 * time.Minute,
		ProbeAttempts: 3,
		ProbeDelay:    2 * time.Second,
		HistorySize:   defaultHistorySize,
	}
}

// ActivityEvent records one recovery sequence outcome for observability.
type ActivityEvent struct {
	Hash      string         `json:"hash"`
	Status    SequenceStatus `json:"status"`
	Log       string         `json:"log,omitempty"`
	Reason    string         `json:"reason,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// Session owns all state of the recovery engine for one engine session: the
// single-flight group, the verify guard and the classification override
// store. Reset discards everything when the underlying session is torn down
// or swapped, so stale fingerprints never leak across sessions.
type Session struct {
	client engine.Client
	opts   Options

	guard     *VerifyGuard
	overrides *OverrideStore

	flightMu sync.Mutex
	flight   *singleflight.Group

	historyMu sync.RWMutex
	history   []ActivityEvent

	outcomeMu sync.RWMutex
	onOutcome func(hash string, result SequenceResult)

	now func() time.Time
}

// NewSession constructs a recovery session over a connected engine client.
func NewSession(client engine.Client, opts Options) *Session {
	defaults := DefaultOptions()
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaults.PollInterval
	}
	if opts.VerifyTimeout <= 0 {
		opts.VerifyTimeout = defaults.VerifyTimeout
	}
	if opts.ProbeAttempts == 0 {
		opts.ProbeAttempts = defaults.ProbeAttempts
	}
	if opts.ProbeDelay <= 0 {
		opts.ProbeDelay = defaults.ProbeDelay
	}
	if opts.HistorySize <= 0 {
		opts.HistorySize = defaults.HistorySize
	}

	return &Session{
		client:    client,
		opts:      opts,
		guard:     NewVerifyGuard(),
		overrides: NewOverrideStore(),
		flight:    &singleflight.Group{},
		now:       time.Now,
	}
}

// Overrides exposes the subscribable classification override store.
func (s *Session) Overrides() *OverrideStore {
	return s.overrides
}

// ShouldSkipVerify reports whether a verify for this fingerprint already ran
// at the same remaining-bytes count.
func (s *Session) ShouldSkipVerify(fingerprint string, leftUntilDone int64) bool {
	return s.guard.ShouldSkipVerify(fingerprint, leftUntilDone)
}

// RecordVerifyAttempt stores the remaining-bytes count a verify was issued at.
func (s *Session) RecordVerifyAttempt(fingerprint string, leftUntilDone int64) {
	s.guard.RecordVerifyAttempt(fingerprint, leftUntilDone)
}

// ResetVerifyGuard clears the verify guard only.
func (s *Session) ResetVerifyGuard() {
	s.guard.Reset()
}

// Reset discards all session caches: in-flight dedup, verify guard and
// classification overrides. Call when the engine session ends.
func (s *Session) Reset() {
	s.flightMu.Lock()
	s.flight = &singleflight.Group{}
	s.flightMu.Unlock()

	s.guard.Reset()
	s.overrides.Reset()

	s.historyMu.Lock()
	s.history = nil
	s.historyMu.Unlock()
}

// SetOutcomeHandler registers a callback invoked after every completed
// sequence, used for metrics.
func (s *Session) SetOutcomeHandler(fn func(hash string, result SequenceResult)) {
	s.outcomeMu.Lock()
	defer s.outcomeMu.Unlock()
	s.onOutcome = fn
}

func (s *Session) notifyOutcome(hash string, result SequenceResult) {
	s.outcomeMu.RLock()
	fn := s.onOutcome
	s.outcomeMu.RUnlock()
	if fn != nil {
		fn(hash, result)
	}
}

func (s *Session) recordActivity(hash string, result SequenceResult) {
	reason := ""
	if result.Blocking != nil {
		reason = result.Blocking.Message
	}

	s.historyMu.Lock()
	defer s.historyMu.Unlock()

	s.history = append(s.history, ActivityEvent{
		Hash:      hash,
		Status:    result.Status,
		Log:       result.Log,
		Reason:    reason,
		Timestamp: s.now(),
	})
	if len(s.history) > s.opts.HistorySize {
		s.history = s.history[len(s.history)-s.opts.HistorySize:]
	}
}

// GetActivity returns the most recent recovery outcomes, newest last.
func (s *Session) GetActivity(limit int) []ActivityEvent {
	s.historyMu.RLock()
	defer s.historyMu.RUnlock()

	events := s.history
	if limit > 0 && len(events) > limit {
		events = events[len(events)-limit:]
	}
	out := make([]ActivityEvent, len(events))
	copy(out, events)
	return out
}
