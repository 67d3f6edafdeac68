// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package recovery

import (
	"context"
	"sync"

	"github.com/autobrr/rudder/internal/engine"
)

// fakeClient is a scriptable engine.Client for sequencer tests. Detail fetches
// are served from the details slice in order, repeating the last entry once
// exhausted. Free-space probes consume freeSpaceErrs the same way.
type fakeClient struct {
	mu sync.Mutex

	caps engine.Capabilities

	details   []engine.Torrent
	detailIdx int
	detailErr error

	freeSpaceErrs []error
	freeSpaceIdx  int

	verifyErr      error
	verifyEntered  chan struct{}
	verifyRelease  chan struct{}
	resumeErr      error
	setLocationErr error

	verifyCalls    int
	resumeCalls    int
	pauseCalls     int
	freeSpaceCalls int
	locationCalls  []string
}

var _ engine.Client = (*fakeClient)(nil)

func (f *fakeClient) ListTorrents(ctx context.Context) ([]engine.Torrent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]engine.Torrent, len(f.details))
	copy(out, f.details)
	return out, nil
}

func (f *fakeClient) GetTorrentDetails(ctx context.Context, hash string) (*engine.Torrent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.detailErr != nil {
		err := f.detailErr
		f.detailErr = nil
		return nil, err
	}
	if len(f.details) == 0 {
		return nil, engine.ErrTorrentNotFound
	}

	idx := f.detailIdx
	if idx >= len(f.details) {
		idx = len(f.details) - 1
	} else {
		f.detailIdx++
	}
	t := f.details[idx]
	return &t, nil
}

func (f *fakeClient) Verify(ctx context.Context, hashes []string) error {
	f.mu.Lock()
	f.verifyCalls++
	entered, release, err := f.verifyEntered, f.verifyRelease, f.verifyErr
	f.mu.Unlock()

	if entered != nil {
		close(entered)
		f.mu.Lock()
		f.verifyEntered = nil
		f.mu.Unlock()
	}
	if release != nil {
		<-release
	}
	return err
}

func (f *fakeClient) Resume(ctx context.Context, hashes []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resumeCalls++
	return f.resumeErr
}

func (f *fakeClient) Pause(ctx context.Context, hashes []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pauseCalls++
	return nil
}

func (f *fakeClient) ForceResume(ctx context.Context, hashes []string) error {
	return nil
}

func (f *fakeClient) SetTorrentLocation(ctx context.Context, hash, path string, moveData bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.locationCalls = append(f.locationCalls, path)
	return f.setLocationErr
}

func (f *fakeClient) CheckFreeSpace(ctx context.Context, path string) (*engine.FreeSpaceInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.freeSpaceCalls++

	if len(f.freeSpaceErrs) == 0 {
		return &engine.FreeSpaceInfo{Path: path, SizeBytes: 1 << 40}, nil
	}
	idx := f.freeSpaceIdx
	if idx >= len(f.freeSpaceErrs) {
		idx = len(f.freeSpaceErrs) - 1
	} else {
		f.freeSpaceIdx++
	}
	if err := f.freeSpaceErrs[idx]; err != nil {
		return nil, err
	}
	return &engine.FreeSpaceInfo{Path: path, SizeBytes: 1 << 40}, nil
}

func (f *fakeClient) AddTrackers(ctx context.Context, hash string, urls []string) error {
	return nil
}

func (f *fakeClient) RemoveTrackers(ctx context.Context, hash string, urls []string) error {
	return nil
}

func (f *fakeClient) ReplaceTracker(ctx context.Context, hash, oldURL, newURL string) error {
	return nil
}

func (f *fakeClient) SessionStats(ctx context.Context) (*engine.SessionStats, error) {
	return &engine.SessionStats{ConnectionStatus: "connected"}, nil
}

func (f *fakeClient) Capabilities() engine.Capabilities {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.caps
}

func (f *fakeClient) locationCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.locationCalls)
}

func (f *fakeClient) callCounts() (verify, resume int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.verifyCalls, f.resumeCalls
}
