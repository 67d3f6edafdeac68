// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package qbit

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/autobrr/autobrr/pkg/ttlcache"
	qbt "github.com/autobrr/go-qbittorrent"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/autobrr/rudder/internal/engine"
)

var (
	setLocationMinVersion    = semver.MustParse("2.0.0")
	trackerEditingMinVersion = semver.MustParse("2.2.0")
)

const listCacheKey = "torrents"

// Config holds the connection settings for one qBittorrent instance.
type Config struct {
	Host          string
	Username      string
	Password      string
	TLSSkipVerify bool
	Timeout       time.Duration

	// LocalFilesystemAccess marks the engine's storage paths as mounted in
	// this process, enabling the path-based free-space probe.
	LocalFilesystemAccess bool
}

// Adapter implements engine.Client over the qBittorrent WebAPI.
type Adapter struct {
	client *qbt.Client

	mu                     sync.RWMutex
	webAPIVersion          string
	supportsSetLocation    bool
	supportsTrackerEditing bool
	localFSAccess          bool

	listCache *ttlcache.Cache[string, []engine.Torrent]
}

// NewAdapter connects and logs in to the configured instance.
func NewAdapter(ctx context.Context, cfg Config) (*Adapter, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	qbtClient := qbt.NewClient(qbt.Config{
		Host:          cfg.Host,
		Username:      cfg.Username,
		Password:      cfg.Password,
		Timeout:       int(timeout.Seconds()),
		TLSSkipVerify: cfg.TLSSkipVerify,
	})

	loginCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := qbtClient.LoginCtx(loginCtx); err != nil {
		return nil, fmt.Errorf("failed to connect to engine: %w", err)
	}

	a := &Adapter{
		client:        qbtClient,
		localFSAccess: cfg.LocalFilesystemAccess,
		listCache: ttlcache.New(ttlcache.Options[string, []engine.Torrent]{}.
			SetDefaultTTL(2 * time.Second)),
	}

	if err := a.RefreshCapabilities(loginCtx); err != nil {
		log.Warn().Err(err).Str("host", cfg.Host).Msg("Failed to refresh engine capabilities during adapter creation")
	}

	log.Debug().
		Str("host", cfg.Host).
		Str("webAPIVersion", a.WebAPIVersion()).
		Bool("localFilesystemAccess", cfg.LocalFilesystemAccess).
		Msg("Engine adapter created")

	return a, nil
}

// RefreshCapabilities fetches the WebAPI version and recalculates feature flags.
func (a *Adapter) RefreshCapabilities(ctx context.Context) error {
	version, err := a.client.GetWebAPIVersionCtx(ctx)
	if err != nil {
		return errors.Wrap(err, "get web API version")
	}

	version = strings.TrimSpace(version)
	if version == "" {
		return fmt.Errorf("web API version is empty")
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.webAPIVersion = version

	v, err := semver.NewVersion(version)
	if err != nil {
		log.Warn().Str("webAPIVersion", version).Err(err).
			Msg("Failed to parse engine WebAPI version; leaving capability flags unchanged")
		return nil
	}

	a.supportsSetLocation = !v.LessThan(setLocationMinVersion)
	a.supportsTrackerEditing = !v.LessThan(trackerEditingMinVersion)
	return nil
}

func (a *Adapter) WebAPIVersion() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.webAPIVersion
}

func (a *Adapter) Capabilities() engine.Capabilities {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return engine.Capabilities{
		FreeSpace:      a.localFSAccess && localFreeSpaceSupported,
		SetLocation:    a.supportsSetLocation,
		TrackerEditing: a.supportsTrackerEditing,
		ForceStart:     true,
	}
}

func (a *Adapter) ListTorrents(ctx context.Context) ([]engine.Torrent, error) {
	if cached, ok := a.listCache.Get(listCacheKey); ok {
		return cached, nil
	}

	raw, err := a.client.GetTorrentsCtx(ctx, qbt.TorrentFilterOptions{})
	if err != nil {
		return nil, errors.Wrap(err, "list torrents")
	}

	torrents := make([]engine.Torrent, 0, len(raw))
	for _, t := range raw {
		torrents = append(torrents, mapTorrent(t))
	}

	a.listCache.Set(listCacheKey, torrents, 2*time.Second)
	return torrents, nil
}

func (a *Adapter) GetTorrentDetails(ctx context.Context, hash string) (*engine.Torrent, error) {
	raw, err := a.client.GetTorrentsCtx(ctx, qbt.TorrentFilterOptions{Hashes: []string{hash}})
	if err != nil {
		return nil, errors.Wrap(err, "get torrent details")
	}
	if len(raw) == 0 {
		return nil, engine.ErrTorrentNotFound
	}

	mapped := mapTorrent(raw[0])
	return &mapped, nil
}

func (a *Adapter) Verify(ctx context.Context, hashes []string) error {
	a.listCache.Delete(listCacheKey)
	return a.client.RecheckCtx(ctx, hashes)
}

func (a *Adapter) Resume(ctx context.Context, hashes []string) error {
	a.listCache.Delete(listCacheKey)
	return a.client.ResumeCtx(ctx, hashes)
}

func (a *Adapter) Pause(ctx context.Context, hashes []string) error {
	a.listCache.Delete(listCacheKey)
	return a.client.PauseCtx(ctx, hashes)
}

func (a *Adapter) ForceResume(ctx context.Context, hashes []string) error {
	a.listCache.Delete(listCacheKey)
	return a.client.SetForceStartCtx(ctx, hashes, true)
}

func (a *Adapter) SetTorrentLocation(ctx context.Context, hash, path string, moveData bool) error {
	if !a.Capabilities().SetLocation {
		return engine.ErrNotSupported
	}
	// qBittorrent always leaves data in place on set-location; moveData is a
	// hint other engines honor, nothing to forward here.
	_ = moveData
	a.listCache.Delete(listCacheKey)
	return a.client.SetLocationCtx(ctx, []string{hash}, path)
}

func (a *Adapter) CheckFreeSpace(ctx context.Context, path string) (*engine.FreeSpaceInfo, error) {
	if !a.Capabilities().FreeSpace {
		return nil, engine.ErrNotSupported
	}
	return localFreeSpace(path)
}

func (a *Adapter) AddTrackers(ctx context.Context, hash string, urls []string) error {
	if !a.Capabilities().TrackerEditing {
		return engine.ErrNotSupported
	}
	return a.client.AddTrackersCtx(ctx, hash, strings.Join(urls, "\n"))
}

func (a *Adapter) RemoveTrackers(ctx context.Context, hash string, urls []string) error {
	if !a.Capabilities().TrackerEditing {
		return engine.ErrNotSupported
	}
	return a.client.RemoveTrackersCtx(ctx, hash, strings.Join(urls, "|"))
}

func (a *Adapter) ReplaceTracker(ctx context.Context, hash, oldURL, newURL string) error {
	if !a.Capabilities().TrackerEditing {
		return engine.ErrNotSupported
	}
	return a.client.EditTrackerCtx(ctx, hash, oldURL, newURL)
}

func (a *Adapter) SessionStats(ctx context.Context) (*engine.SessionStats, error) {
	info, err := a.client.GetTransferInfoCtx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "get transfer info")
	}

	return &engine.SessionStats{
		DownloadSpeed:    info.DlInfoSpeed,
		UploadSpeed:      info.UpInfoSpeed,
		ConnectionStatus: string(info.ConnectionStatus),
	}, nil
}

// Close releases adapter resources.
func (a *Adapter) Close() {
	a.listCache.Close()
}
