// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package engine

import (
	"context"

	"github.com/pkg/errors"
)

var (
	ErrTorrentNotFound = errors.New("torrent not found")
	ErrNotSupported    = errors.New("engine method not supported")
)

// Client is the adapter boundary to an already-connected download engine.
// Implementations must be safe for concurrent use; every call takes a context
// and blocks until the engine answers or the context is done.
type Client interface {
	ListTorrents(ctx context.Context) ([]Torrent, error)
	GetTorrentDetails(ctx context.Context, hash string) (*Torrent, error)

	Verify(ctx context.Context, hashes []string) error
	Resume(ctx context.Context, hashes []string) error
	Pause(ctx context.Context, hashes []string) error
	ForceResume(ctx context.Context, hashes []string) error
	SetTorrentLocation(ctx context.Context, hash, path string, moveData bool) error

	// CheckFreeSpace probes a storage path. Adapters without the FreeSpace
	// capability return ErrNotSupported.
	CheckFreeSpace(ctx context.Context, path string) (*FreeSpaceInfo, error)

	AddTrackers(ctx context.Context, hash string, urls []string) error
	RemoveTrackers(ctx context.Context, hash string, urls []string) error
	ReplaceTracker(ctx context.Context, hash, oldURL, newURL string) error

	SessionStats(ctx context.Context) (*SessionStats, error)

	// Capabilities reports which optional methods this adapter can serve.
	Capabilities() Capabilities
}
