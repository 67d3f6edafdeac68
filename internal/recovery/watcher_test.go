// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package recovery

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/autobrr/rudder/internal/engine"
)

func TestWatchVerifyCompletion_SuccessAfterChecking(t *testing.T) {
	t.Parallel()

	client := &fakeClient{
		details: []engine.Torrent{
			{Hash: "abc", State: engine.StateChecking, LeftUntilDone: 800},
			{Hash: "abc", State: engine.StateCheckWaiting, LeftUntilDone: 400},
			{Hash: "abc", State: engine.StateSeeding, LeftUntilDone: 0},
		},
	}
	session := NewSession(client, testOptions())

	result := session.WatchVerifyCompletion(context.Background(), "abc")

	require.True(t, result.Success)
	require.False(t, result.Aborted)
	require.Equal(t, engine.StateSeeding, result.State)
	require.Zero(t, result.LeftUntilDone)
}

func TestWatchVerifyCompletion_TerminalStateIsFailure(t *testing.T) {
	t.Parallel()

	client := &fakeClient{
		details: []engine.Torrent{
			{Hash: "abc", State: engine.StateChecking, LeftUntilDone: 800},
			{Hash: "abc", State: engine.StateMissingFiles, LeftUntilDone: 800},
		},
	}
	session := NewSession(client, testOptions())

	result := session.WatchVerifyCompletion(context.Background(), "abc")

	require.False(t, result.Success)
	require.False(t, result.Aborted, "a failed verify is not a cancellation")
	require.Equal(t, engine.StateMissingFiles, result.State)
}

func TestWatchVerifyCompletion_DeadlineIsNotAbort(t *testing.T) {
	t.Parallel()

	client := &fakeClient{
		details: []engine.Torrent{
			{Hash: "abc", State: engine.StateChecking, LeftUntilDone: 800},
		},
	}
	opts := testOptions()
	opts.VerifyTimeout = 20 * time.Millisecond
	session := NewSession(client, opts)

	result := session.WatchVerifyCompletion(context.Background(), "abc")

	require.False(t, result.Success)
	require.False(t, result.Aborted, "deadline and cancellation are distinct outcomes")
}

func TestWatchVerifyCompletion_CancelAborts(t *testing.T) {
	t.Parallel()

	client := &fakeClient{
		details: []engine.Torrent{
			{Hash: "abc", State: engine.StateChecking, LeftUntilDone: 800},
		},
	}
	session := NewSession(client, testOptions())

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	result := session.WatchVerifyCompletion(ctx, "abc")

	require.False(t, result.Success)
	require.True(t, result.Aborted)
}

func TestWatchVerifyCompletion_TransientFetchErrorKeepsPolling(t *testing.T) {
	t.Parallel()

	client := &fakeClient{
		detailErr: errors.New("connection reset"),
		details: []engine.Torrent{
			{Hash: "abc", State: engine.StateSeeding, LeftUntilDone: 0},
		},
	}
	session := NewSession(client, testOptions())

	result := session.WatchVerifyCompletion(context.Background(), "abc")

	require.True(t, result.Success)
	require.Equal(t, engine.StateSeeding, result.State)
}
