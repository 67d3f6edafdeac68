// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package qbit

import (
	"strings"
	"time"

	qbt "github.com/autobrr/go-qbittorrent"

	"github.com/autobrr/rudder/internal/engine"
)

// mapTorrent converts a WebAPI torrent into the adapter-neutral shape.
func mapTorrent(t qbt.Torrent) engine.Torrent {
	state := mapState(t.State)

	mapped := engine.Torrent{
		ID:            strings.ToUpper(strings.TrimSpace(t.Hash)),
		Hash:          strings.ToUpper(strings.TrimSpace(t.Hash)),
		Name:          t.Name,
		State:         state,
		Progress:      t.Progress,
		LeftUntilDone: t.AmountLeft,
		SizeWhenDone:  t.Size,
		TotalSize:     t.TotalSize,
		DownloadDir:   t.SavePath,
		Category:      t.Category,
		Tags:          t.Tags,
		AddedOn:       time.Unix(t.AddedOn, 0),
	}

	if envelope := mapErrorEnvelope(t, state); envelope != nil {
		mapped.ErrorEnvelope = envelope
	}

	return mapped
}

func mapState(s qbt.TorrentState) engine.TorrentState {
	switch s {
	case qbt.TorrentStateDownloading, qbt.TorrentStateForcedDl, qbt.TorrentStateMetaDl:
		return engine.StateDownloading
	case qbt.TorrentStateUploading, qbt.TorrentStateForcedUp:
		return engine.StateSeeding
	case qbt.TorrentStatePausedDl, qbt.TorrentStatePausedUp,
		qbt.TorrentStateStoppedDl, qbt.TorrentStateStoppedUp:
		return engine.StatePaused
	case qbt.TorrentStateQueuedDl, qbt.TorrentStateQueuedUp:
		return engine.StateQueued
	case qbt.TorrentStateStalledDl, qbt.TorrentStateStalledUp:
		return engine.StateStalled
	case qbt.TorrentStateCheckingDl, qbt.TorrentStateCheckingUp:
		return engine.StateChecking
	case qbt.TorrentStateCheckingResumeData, qbt.TorrentStateAllocating:
		return engine.StateCheckWaiting
	case qbt.TorrentStateMissingFiles:
		return engine.StateMissingFiles
	case qbt.TorrentStateError:
		return engine.StateError
	default:
		return engine.StateUnknown
	}
}

// mapErrorEnvelope synthesizes an error envelope for faulted states. The
// WebAPI does not expose a per-torrent error message, so the class carries the
// whole signal and the message stays a stable constant.
func mapErrorEnvelope(t qbt.Torrent, state engine.TorrentState) *engine.ErrorEnvelope {
	switch state {
	case engine.StateMissingFiles:
		now := time.Now()
		return &engine.ErrorEnvelope{
			ErrorClass:    engine.ErrorClassMissingFiles,
			ErrorMessage:  "no such file or directory",
			LastErrorAt:   &now,
			RecoveryState: engine.RecoveryStateTransientWaiting,
		}
	case engine.StateError:
		now := time.Now()
		return &engine.ErrorEnvelope{
			ErrorClass:    engine.ErrorClassLocalError,
			ErrorMessage:  "engine reported an error state",
			LastErrorAt:   &now,
			RecoveryState: engine.RecoveryStateBlocked,
		}
	default:
		return nil
	}
}
