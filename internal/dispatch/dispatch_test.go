// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package dispatch

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/autobrr/rudder/internal/engine"
)

type fakeEngine struct {
	caps engine.Capabilities

	resumeErr      error
	verifyErr      error
	setLocationErr error

	resumeCalls      int
	pauseCalls       int
	verifyCalls      int
	forceResumeCalls int
	locations        []struct {
		hash, path string
		moveData   bool
	}
	trackerAdds     int
	trackerRemoves  int
	trackerReplaces int
}

func (f *fakeEngine) ListTorrents(ctx context.Context) ([]engine.Torrent, error) { return nil, nil }
func (f *fakeEngine) GetTorrentDetails(ctx context.Context, hash string) (*engine.Torrent, error) {
	return nil, engine.ErrTorrentNotFound
}

func (f *fakeEngine) Verify(ctx context.Context, hashes []string) error {
	f.verifyCalls++
	return f.verifyErr
}

func (f *fakeEngine) Resume(ctx context.Context, hashes []string) error {
	f.resumeCalls++
	return f.resumeErr
}

func (f *fakeEngine) Pause(ctx context.Context, hashes []string) error {
	f.pauseCalls++
	return nil
}

func (f *fakeEngine) ForceResume(ctx context.Context, hashes []string) error {
	f.forceResumeCalls++
	return nil
}

func (f *fakeEngine) SetTorrentLocation(ctx context.Context, hash, path string, moveData bool) error {
	f.locations = append(f.locations, struct {
		hash, path string
		moveData   bool
	}{hash, path, moveData})
	return f.setLocationErr
}

func (f *fakeEngine) CheckFreeSpace(ctx context.Context, path string) (*engine.FreeSpaceInfo, error) {
	return nil, engine.ErrNotSupported
}

func (f *fakeEngine) AddTrackers(ctx context.Context, hash string, urls []string) error {
	f.trackerAdds++
	return nil
}

func (f *fakeEngine) RemoveTrackers(ctx context.Context, hash string, urls []string) error {
	f.trackerRemoves++
	return nil
}

func (f *fakeEngine) ReplaceTracker(ctx context.Context, hash, oldURL, newURL string) error {
	f.trackerReplaces++
	return nil
}

func (f *fakeEngine) SessionStats(ctx context.Context) (*engine.SessionStats, error) {
	return &engine.SessionStats{}, nil
}

func (f *fakeEngine) Capabilities() engine.Capabilities { return f.caps }

type countingRefresher struct {
	torrents, stats, detail int
}

func (r *countingRefresher) RefreshTorrents(context.Context)     { r.torrents++ }
func (r *countingRefresher) RefreshSessionStats(context.Context) { r.stats++ }
func (r *countingRefresher) RefreshActiveDetail(context.Context) { r.detail++ }

func fullCaps() engine.Capabilities {
	return engine.Capabilities{FreeSpace: true, SetLocation: true, TrackerEditing: true, ForceStart: true}
}

func TestDispatch_AppliedTriggersAllRefreshes(t *testing.T) {
	t.Parallel()

	eng := &fakeEngine{caps: fullCaps()}
	refresher := &countingRefresher{}
	d := NewDispatcher(eng, refresher)

	outcome := d.Dispatch(context.Background(), Intent{Kind: IntentEnsureActive, Hashes: []string{"abc"}})

	require.Equal(t, OutcomeApplied, outcome.Status)
	require.Equal(t, 1, eng.resumeCalls)
	require.Equal(t, 1, refresher.torrents)
	require.Equal(t, 1, refresher.stats)
	require.Equal(t, 1, refresher.detail)
}

func TestDispatch_FailedSkipsRefreshes(t *testing.T) {
	t.Parallel()

	eng := &fakeEngine{caps: fullCaps(), resumeErr: errors.New("engine unreachable")}
	refresher := &countingRefresher{}
	d := NewDispatcher(eng, refresher)

	outcome := d.Dispatch(context.Background(), Intent{Kind: IntentEnsureActive, Hashes: []string{"abc"}})

	require.Equal(t, OutcomeFailed, outcome.Status)
	require.Equal(t, "engine unreachable", outcome.Reason)
	require.Zero(t, refresher.torrents)
}

func TestDispatch_MissingMethodIsUnsupportedWithoutCall(t *testing.T) {
	t.Parallel()

	eng := &fakeEngine{caps: engine.Capabilities{}}
	d := NewDispatcher(eng, nil)

	tests := []IntentKind{IntentEnsureAtLocation, IntentEnsureActiveNow, IntentAddTrackers, IntentRemoveTrackers, IntentReplaceTracker}
	for _, kind := range tests {
		outcome := d.Dispatch(context.Background(), Intent{Kind: kind, Hashes: []string{"abc"}})
		require.Equal(t, OutcomeUnsupported, outcome.Status, "intent %s", kind)
		require.Equal(t, ReasonMethodMissing, outcome.Reason)
	}

	require.Empty(t, eng.locations)
	require.Zero(t, eng.forceResumeCalls)
	require.Zero(t, eng.trackerAdds)
}

func TestDispatch_UnknownIntent(t *testing.T) {
	t.Parallel()

	d := NewDispatcher(&fakeEngine{caps: fullCaps()}, nil)

	outcome := d.Dispatch(context.Background(), Intent{Kind: "defragment"})

	require.Equal(t, OutcomeUnsupported, outcome.Status)
	require.Equal(t, ReasonIntentUnsupported, outcome.Reason)
}

func TestDispatch_EnsureAtLocationMoveMode(t *testing.T) {
	t.Parallel()

	eng := &fakeEngine{caps: fullCaps()}
	d := NewDispatcher(eng, nil)

	outcome := d.Dispatch(context.Background(), Intent{
		Kind:         IntentEnsureAtLocation,
		Hashes:       []string{"abc"},
		Path:         "/mnt/media",
		LocationMode: LocationModeMove,
	})

	require.Equal(t, OutcomeApplied, outcome.Status)
	require.Len(t, eng.locations, 1)
	require.True(t, eng.locations[0].moveData)
	require.Zero(t, eng.verifyCalls, "move mode must not verify")
}

func TestDispatch_LocateModeVerifiesAfterLocation(t *testing.T) {
	t.Parallel()

	eng := &fakeEngine{caps: fullCaps()}
	d := NewDispatcher(eng, nil)

	outcome := d.Dispatch(context.Background(), Intent{
		Kind:         IntentEnsureAtLocation,
		Hashes:       []string{"abc", "def"},
		Path:         "/mnt/media",
		LocationMode: LocationModeLocate,
	})

	require.Equal(t, OutcomeApplied, outcome.Status)
	require.Len(t, eng.locations, 2)
	require.False(t, eng.locations[0].moveData, "locate mode must not move data")
	require.Equal(t, 1, eng.verifyCalls)
}

func TestDispatch_LocateModeVerifyFailureStillApplied(t *testing.T) {
	t.Parallel()

	eng := &fakeEngine{caps: fullCaps(), verifyErr: errors.New("verify rejected")}
	refresher := &countingRefresher{}
	d := NewDispatcher(eng, refresher)

	outcome := d.Dispatch(context.Background(), Intent{
		Kind:         IntentEnsureAtLocation,
		Hashes:       []string{"abc"},
		Path:         "/mnt/media",
		LocationMode: LocationModeLocate,
	})

	require.Equal(t, OutcomeApplied, outcome.Status)
	require.Equal(t, 1, refresher.torrents)
}
