// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package handlers

import (
	"context"
	"net/http"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/autobrr/rudder/internal/dispatch"
	"github.com/autobrr/rudder/internal/engine"
	"github.com/autobrr/rudder/internal/recovery"
)

type TorrentsHandler struct {
	client     engine.Client
	session    *recovery.Session
	dispatcher *dispatch.Dispatcher
	refresher  *EngineRefresher
}

func NewTorrentsHandler(client engine.Client, session *recovery.Session, dispatcher *dispatch.Dispatcher, refresher *EngineRefresher) *TorrentsHandler {
	return &TorrentsHandler{
		client:     client,
		session:    session,
		dispatcher: dispatcher,
		refresher:  refresher,
	}
}

type torrentListResponse struct {
	Torrents []engine.Torrent     `json:"torrents"`
	Total    int                  `json:"total"`
	Stats    *engine.SessionStats `json:"stats,omitempty"`
}

func (h *TorrentsHandler) ListTorrents(w http.ResponseWriter, r *http.Request) {
	torrents, err := h.client.ListTorrents(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list torrents")
		RespondError(w, http.StatusBadGateway, "Failed to list torrents")
		return
	}

	response := torrentListResponse{
		Torrents: torrents,
		Total:    len(torrents),
	}

	if stats, err := h.client.SessionStats(r.Context()); err == nil {
		stats.TorrentCount = len(torrents)
		response.Stats = stats
	}

	RespondJSON(w, http.StatusOK, response)
}

func (h *TorrentsHandler) GetTorrent(w http.ResponseWriter, r *http.Request) {
	hash, ok := ParseTorrentHash(w, r)
	if !ok {
		return
	}

	torrent, err := h.client.GetTorrentDetails(r.Context(), hash)
	if err != nil {
		if errors.Is(err, engine.ErrTorrentNotFound) {
			RespondError(w, http.StatusNotFound, "Torrent not found")
			return
		}
		log.Error().Err(err).Str("hash", hash).Msg("Failed to fetch torrent details")
		RespondError(w, http.StatusBadGateway, "Failed to fetch torrent details")
		return
	}

	RespondJSON(w, http.StatusOK, torrent)
}

type recoverRequest struct {
	RetryOnly bool `json:"retryOnly"`
}

// RecoverTorrent runs the missing-data recovery sequence for one torrent. The
// caller owns deciding what to do with a needsModal status; resolved and noop
// continue silently.
func (h *TorrentsHandler) RecoverTorrent(w http.ResponseWriter, r *http.Request) {
	hash, ok := ParseTorrentHash(w, r)
	if !ok {
		return
	}

	var req recoverRequest
	if !DecodeJSONOptional(w, r, &req) {
		return
	}

	torrent, err := h.client.GetTorrentDetails(r.Context(), hash)
	if err != nil {
		if errors.Is(err, engine.ErrTorrentNotFound) {
			RespondError(w, http.StatusNotFound, "Torrent not found")
			return
		}
		log.Error().Err(err).Str("hash", hash).Msg("Failed to fetch torrent for recovery")
		RespondError(w, http.StatusBadGateway, "Failed to fetch torrent details")
		return
	}

	result := h.session.RecoverMissingFiles(r.Context(), *torrent, recovery.RecoverOptions{
		RetryOnly: req.RetryOnly,
	})

	RespondJSON(w, http.StatusOK, result)
}

type commandRequest struct {
	Kind         dispatch.IntentKind   `json:"kind"`
	Path         string                `json:"path,omitempty"`
	LocationMode dispatch.LocationMode `json:"locationMode,omitempty"`
	TrackerURLs  []string              `json:"trackerUrls,omitempty"`
	OldURL       string                `json:"oldUrl,omitempty"`
	NewURL       string                `json:"newUrl,omitempty"`
}

// DispatchCommand executes one dispatch intent against a single torrent.
func (h *TorrentsHandler) DispatchCommand(w http.ResponseWriter, r *http.Request) {
	hash, ok := ParseTorrentHash(w, r)
	if !ok {
		return
	}

	var req commandRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.Kind == "" {
		RespondError(w, http.StatusBadRequest, "Intent kind is required")
		return
	}

	h.refresher.SetActive(hash)

	outcome := h.dispatcher.Dispatch(r.Context(), dispatch.Intent{
		Kind:         req.Kind,
		Hashes:       []string{hash},
		Path:         req.Path,
		LocationMode: req.LocationMode,
		TrackerURLs:  req.TrackerURLs,
		OldURL:       req.OldURL,
		NewURL:       req.NewURL,
	})

	RespondJSON(w, http.StatusOK, outcome)
}

// EngineRefresher implements dispatch.Refresher against the engine client.
// Refreshing the torrent list re-warms the adapter's short-lived cache after
// the dispatched mutation invalidated it; the active detail is the torrent the
// last command touched.
type EngineRefresher struct {
	client     engine.Client
	activeHash atomic.Value
}

func NewEngineRefresher(client engine.Client) *EngineRefresher {
	return &EngineRefresher{client: client}
}

func (e *EngineRefresher) SetActive(hash string) {
	e.activeHash.Store(hash)
}

func (e *EngineRefresher) RefreshTorrents(ctx context.Context) {
	if _, err := e.client.ListTorrents(ctx); err != nil {
		log.Debug().Err(err).Msg("Post-command torrent list refresh failed")
	}
}

func (e *EngineRefresher) RefreshSessionStats(ctx context.Context) {
	if _, err := e.client.SessionStats(ctx); err != nil {
		log.Debug().Err(err).Msg("Post-command session stats refresh failed")
	}
}

func (e *EngineRefresher) RefreshActiveDetail(ctx context.Context) {
	hash, _ := e.activeHash.Load().(string)
	if hash == "" {
		return
	}
	if _, err := e.client.GetTorrentDetails(ctx, hash); err != nil {
		log.Debug().Err(err).Str("hash", hash).Msg("Post-command detail refresh failed")
	}
}
