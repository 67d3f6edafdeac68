// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package handlers

import (
	"net/http"

	"github.com/autobrr/rudder/internal/engine"
)

// EngineVersioner is implemented by adapters that can report the remote
// WebAPI version.
type EngineVersioner interface {
	WebAPIVersion() string
}

// CapabilitiesResponse describes which optional engine methods the connected
// adapter can serve.
type CapabilitiesResponse struct {
	FreeSpace      bool   `json:"freeSpace"`
	SetLocation    bool   `json:"setLocation"`
	TrackerEditing bool   `json:"trackerEditing"`
	ForceStart     bool   `json:"forceStart"`
	WebAPIVersion  string `json:"webAPIVersion,omitempty"`
}

type CapabilitiesHandler struct {
	client engine.Client
}

func NewCapabilitiesHandler(client engine.Client) *CapabilitiesHandler {
	return &CapabilitiesHandler{client: client}
}

func (h *CapabilitiesHandler) GetCapabilities(w http.ResponseWriter, r *http.Request) {
	caps := h.client.Capabilities()

	response := CapabilitiesResponse{
		FreeSpace:      caps.FreeSpace,
		SetLocation:    caps.SetLocation,
		TrackerEditing: caps.TrackerEditing,
		ForceStart:     caps.ForceStart,
	}

	if versioner, ok := h.client.(EngineVersioner); ok {
		response.WebAPIVersion = versioner.WebAPIVersion()
	}

	RespondJSON(w, http.StatusOK, response)
}
