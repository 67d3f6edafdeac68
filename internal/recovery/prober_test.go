// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package recovery

import (
	"context"
	"syscall"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/autobrr/rudder/internal/engine"
)

func TestPollPathAvailability_SucceedsFirstTry(t *testing.T) {
	t.Parallel()

	client := &fakeClient{caps: engine.Capabilities{FreeSpace: true}}
	session := NewSession(client, testOptions())

	result := session.PollPathAvailability(context.Background(), "/mnt/downloads")

	require.True(t, result.Success)
	require.Equal(t, 1, client.freeSpaceCalls)
}

func TestPollPathAvailability_RetriesThenSucceeds(t *testing.T) {
	t.Parallel()

	client := &fakeClient{
		caps:          engine.Capabilities{FreeSpace: true},
		freeSpaceErrs: []error{syscall.ENOENT, nil},
	}
	session := NewSession(client, testOptions())

	result := session.PollPathAvailability(context.Background(), "/mnt/downloads")

	require.True(t, result.Success)
	require.Equal(t, 2, client.freeSpaceCalls)
}

func TestPollPathAvailability_ExhaustsAttempts(t *testing.T) {
	t.Parallel()

	client := &fakeClient{
		caps:          engine.Capabilities{FreeSpace: true},
		freeSpaceErrs: []error{syscall.ENOSPC},
	}
	session := NewSession(client, testOptions())

	result := session.PollPathAvailability(context.Background(), "/mnt/downloads")

	require.False(t, result.Success)
	require.Equal(t, engine.FSErrorENOSPC, result.ErrKind)
	require.Equal(t, 2, client.freeSpaceCalls, "attempt budget must be respected")
}

func TestEnsurePathReady_MapsFailuresToBlockingOutcomes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		err         error
		wantKind    BlockingKind
		wantReason  BlockingReason
		wantMessage string
	}{
		{"disk full", syscall.ENOSPC, BlockingBlocked, ReasonDiskFull, MsgDiskFull},
		{"access denied", syscall.EACCES, BlockingBlocked, ReasonAccessDenied, MsgPathAccessDenied},
		{"missing path", syscall.ENOENT, BlockingPathNeeded, ReasonMissing, MsgPathCheckFailed},
		{"unsupported probe", engine.ErrNotSupported, BlockingBlocked, ReasonError, MsgPathCheckFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := &fakeClient{
				caps:          engine.Capabilities{FreeSpace: true},
				freeSpaceErrs: []error{tt.err},
			}
			session := NewSession(client, testOptions())

			result := session.EnsurePathReady(context.Background(), "/mnt/downloads")

			require.False(t, result.Ready)
			require.NotNil(t, result.Blocking)
			require.Equal(t, tt.wantKind, result.Blocking.Kind)
			require.Equal(t, tt.wantReason, result.Blocking.Reason)
			require.Equal(t, tt.wantMessage, result.Blocking.Message)
		})
	}
}

func TestEnsurePathReady_Ready(t *testing.T) {
	t.Parallel()

	client := &fakeClient{caps: engine.Capabilities{FreeSpace: true}}
	session := NewSession(client, testOptions())

	result := session.EnsurePathReady(context.Background(), "/mnt/downloads")

	require.True(t, result.Ready)
	require.Nil(t, result.Blocking)
}
