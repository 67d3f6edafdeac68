// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/autobrr/rudder/internal/engine"
)

type HealthHandler struct {
	client engine.Client
}

func NewHealthHandler(client engine.Client) *HealthHandler {
	return &HealthHandler{client: client}
}

func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HealthHandler) HandleLiveness(w http.ResponseWriter, r *http.Request) {
	RespondJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// HandleReady reports readiness based on the engine connection answering.
func (h *HealthHandler) HandleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, err := h.client.SessionStats(ctx); err != nil {
		RespondJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "engine unreachable",
		})
		return
	}

	RespondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
