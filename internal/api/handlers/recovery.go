// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package handlers

import (
	"net/http"

	"github.com/autobrr/rudder/internal/recovery"
)

type RecoveryHandler struct {
	session *recovery.Session
}

func NewRecoveryHandler(session *recovery.Session) *RecoveryHandler {
	return &RecoveryHandler{session: session}
}

// GetOverrides returns the classification overrides published mid-sequence,
// keyed by torrent ID.
func (h *RecoveryHandler) GetOverrides(w http.ResponseWriter, r *http.Request) {
	RespondJSON(w, http.StatusOK, h.session.Overrides().All())
}

// GetActivity returns the most recent recovery outcomes, newest last.
func (h *RecoveryHandler) GetActivity(w http.ResponseWriter, r *http.Request) {
	limit := ParseLimit(r, 50, 500)
	RespondJSON(w, http.StatusOK, h.session.GetActivity(limit))
}

// Reset discards all recovery session caches. Exposed for engine session
// swaps, so stale fingerprints never leak into the next session.
func (h *RecoveryHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.session.Reset()
	RespondJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}
