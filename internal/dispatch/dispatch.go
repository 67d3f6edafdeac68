// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package dispatch turns high-level torrent intents into engine calls with
// typed outcomes. It sits next to the recovery sequencer, not on top of it;
// both consume the same engine client.
package dispatch

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/autobrr/rudder/internal/engine"
)

// IntentKind names a high-level command. Each kind maps 1:1 to an engine
// method.
type IntentKind string

const (
	IntentEnsureActive     IntentKind = "ensureActive"
	IntentEnsureValid      IntentKind = "ensureValid"
	IntentEnsurePaused     IntentKind = "ensurePaused"
	IntentEnsureAtLocation IntentKind = "ensureAtLocation"
	IntentEnsureActiveNow  IntentKind = "ensureActiveNow"
	IntentAddTrackers      IntentKind = "addTrackers"
	IntentRemoveTrackers   IntentKind = "removeTrackers"
	IntentReplaceTracker   IntentKind = "replaceTracker"
)

// LocationMode distinguishes moving data from pointing the engine at data
// that already exists elsewhere.
type LocationMode string

const (
	// LocationModeMove relocates the payload on disk.
	LocationModeMove LocationMode = "move"
	// LocationModeLocate re-points the engine and verifies what it finds.
	LocationModeLocate LocationMode = "locate"
)

// Intent is one command against one or more torrents. Fields beyond Kind and
// Hashes are only read by the kinds that need them.
type Intent struct {
	Kind   IntentKind `json:"kind"`
	Hashes []string   `json:"hashes"`

	Path         string       `json:"path,omitempty"`
	LocationMode LocationMode `json:"locationMode,omitempty"`

	TrackerURLs []string `json:"trackerUrls,omitempty"`
	OldURL      string   `json:"oldUrl,omitempty"`
	NewURL      string   `json:"newUrl,omitempty"`
}

// OutcomeStatus is the top-level result of a dispatch.
type OutcomeStatus string

const (
	OutcomeApplied     OutcomeStatus = "applied"
	OutcomeUnsupported OutcomeStatus = "unsupported"
	OutcomeFailed      OutcomeStatus = "failed"
)

// Unsupported reasons.
const (
	ReasonMethodMissing     = "method_missing"
	ReasonIntentUnsupported = "intent_unsupported"
)

// Outcome reports how a dispatch ended. Reason is set for unsupported and
// failed outcomes only.
type Outcome struct {
	Status OutcomeStatus `json:"status"`
	Reason string        `json:"reason,omitempty"`
}

func applied() Outcome {
	return Outcome{Status: OutcomeApplied}
}

func unsupported(reason string) Outcome {
	return Outcome{Status: OutcomeUnsupported, Reason: reason}
}

func failed(err error) Outcome {
	return Outcome{Status: OutcomeFailed, Reason: err.Error()}
}

// Refresher refreshes the data views a successful command invalidates.
// Implementations must tolerate being called concurrently.
type Refresher interface {
	RefreshTorrents(ctx context.Context)
	RefreshSessionStats(ctx context.Context)
	RefreshActiveDetail(ctx context.Context)
}

// NoopRefresher satisfies Refresher without doing anything, for callers that
// manage their own data freshness.
type NoopRefresher struct{}

func (NoopRefresher) RefreshTorrents(context.Context)     {}
func (NoopRefresher) RefreshSessionStats(context.Context) {}
func (NoopRefresher) RefreshActiveDetail(context.Context) {}

// Dispatcher executes intents against an engine client and refreshes data
// views after every applied command.
type Dispatcher struct {
	client    engine.Client
	refresher Refresher
}

// NewDispatcher constructs a dispatcher. A nil refresher is replaced by
// NoopRefresher.
func NewDispatcher(client engine.Client, refresher Refresher) *Dispatcher {
	if refresher == nil {
		refresher = NoopRefresher{}
	}
	return &Dispatcher{client: client, refresher: refresher}
}

// Dispatch executes one intent. An intent whose engine method is missing on
// the current adapter returns unsupported without attempting the call. After
// any applied outcome the torrent list, session stats and active detail are
// refreshed unconditionally, so callers never refresh manually.
func (d *Dispatcher) Dispatch(ctx context.Context, intent Intent) Outcome {
	caps := d.client.Capabilities()

	var err error
	switch intent.Kind {
	case IntentEnsureActive:
		err = d.client.Resume(ctx, intent.Hashes)

	case IntentEnsureValid:
		err = d.client.Verify(ctx, intent.Hashes)

	case IntentEnsurePaused:
		err = d.client.Pause(ctx, intent.Hashes)

	case IntentEnsureActiveNow:
		if !caps.ForceStart {
			return unsupported(ReasonMethodMissing)
		}
		err = d.client.ForceResume(ctx, intent.Hashes)

	case IntentEnsureAtLocation:
		if !caps.SetLocation {
			return unsupported(ReasonMethodMissing)
		}
		err = d.ensureAtLocation(ctx, intent)

	case IntentAddTrackers:
		if !caps.TrackerEditing {
			return unsupported(ReasonMethodMissing)
		}
		err = d.forEachHash(intent.Hashes, func(hash string) error {
			return d.client.AddTrackers(ctx, hash, intent.TrackerURLs)
		})

	case IntentRemoveTrackers:
		if !caps.TrackerEditing {
			return unsupported(ReasonMethodMissing)
		}
		err = d.forEachHash(intent.Hashes, func(hash string) error {
			return d.client.RemoveTrackers(ctx, hash, intent.TrackerURLs)
		})

	case IntentReplaceTracker:
		if !caps.TrackerEditing {
			return unsupported(ReasonMethodMissing)
		}
		err = d.forEachHash(intent.Hashes, func(hash string) error {
			return d.client.ReplaceTracker(ctx, hash, intent.OldURL, intent.NewURL)
		})

	default:
		return unsupported(ReasonIntentUnsupported)
	}

	if err != nil {
		log.Error().Err(err).Str("intent", string(intent.Kind)).Msg("Dispatch failed")
		return failed(err)
	}

	d.refreshAll(ctx)
	return applied()
}

// ensureAtLocation re-points every hash at the target path. Locate mode never
// moves data and immediately verifies what the engine finds at the new
// location; a verify failure is logged but does not fail the dispatch, since
// the location change itself already applied.
func (d *Dispatcher) ensureAtLocation(ctx context.Context, intent Intent) error {
	moveData := intent.LocationMode != LocationModeLocate

	for _, hash := range intent.Hashes {
		if err := d.client.SetTorrentLocation(ctx, hash, intent.Path, moveData); err != nil {
			return err
		}
	}

	if intent.LocationMode == LocationModeLocate {
		if err := d.client.Verify(ctx, intent.Hashes); err != nil {
			log.Error().Err(err).Strs("hashes", intent.Hashes).Msg("Post-locate verify failed")
		}
	}
	return nil
}

func (d *Dispatcher) forEachHash(hashes []string, fn func(hash string) error) error {
	for _, hash := range hashes {
		if err := fn(hash); err != nil {
			return err
		}
	}
	return nil
}

func (d *Dispatcher) refreshAll(ctx context.Context) {
	d.refresher.RefreshTorrents(ctx)
	d.refresher.RefreshSessionStats(ctx)
	d.refresher.RefreshActiveDetail(ctx)
}
