// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package recovery

import "sync"

// OverrideStore publishes refined classifications mid-sequence, keyed by
// torrent id. Presentation layers subscribe to react without polling.
type OverrideStore struct {
	mu        sync.RWMutex
	overrides map[string]Classification
	listeners map[int]func(torrentID string, c Classification)
	nextID    int
}

func NewOverrideStore() *OverrideStore {
	return &OverrideStore{
		overrides: make(map[string]Classification),
		listeners: make(map[int]func(string, Classification)),
	}
}

// Set stores a refined classification and notifies subscribers. Listeners are
// invoked outside the lock so a subscriber may call back into the store.
func (o *OverrideStore) Set(torrentID string, c Classification) {
	if torrentID == "" {
		return
	}

	o.mu.Lock()
	o.overrides[torrentID] = c
	listeners := make([]func(string, Classification), 0, len(o.listeners))
	for _, fn := range o.listeners {
		listeners = append(listeners, fn)
	}
	o.mu.Unlock()

	for _, fn := range listeners {
		fn(torrentID, c)
	}
}

// Get returns the published override for a torrent, if any.
func (o *OverrideStore) Get(torrentID string) (Classification, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	c, ok := o.overrides[torrentID]
	return c, ok
}

// All returns a copy of every published override.
func (o *OverrideStore) All() map[string]Classification {
	o.mu.RLock()
	defer o.mu.RUnlock()
	out := make(map[string]Classification, len(o.overrides))
	for id, c := range o.overrides {
		out[id] = c
	}
	return out
}

// Subscribe registers a listener for future overrides and returns its cancel
// function.
func (o *OverrideStore) Subscribe(fn func(torrentID string, c Classification)) func() {
	o.mu.Lock()
	id := o.nextID
	o.nextID++
	o.listeners[id] = fn
	o.mu.Unlock()

	return func() {
		o.mu.Lock()
		delete(o.listeners, id)
		o.mu.Unlock()
	}
}

// Reset drops all published overrides. Subscriptions survive a reset; only the
// session-scoped data is discarded.
func (o *OverrideStore) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.overrides = make(map[string]Classification)
}
