// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package recovery

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVerifyGuard_Idempotency(t *testing.T) {
	t.Parallel()

	g := NewVerifyGuard()
	g.RecordVerifyAttempt("fp", 1024)

	require.True(t, g.ShouldSkipVerify("fp", 1024))
	require.False(t, g.ShouldSkipVerify("fp", 0), "changed remaining bytes invalidates the guard")
	require.False(t, g.ShouldSkipVerify("other", 1024))
}

func TestVerifyGuard_Reset(t *testing.T) {
	t.Parallel()

	g := NewVerifyGuard()
	g.RecordVerifyAttempt("fp", 512)
	g.Reset()

	require.False(t, g.ShouldSkipVerify("fp", 512))
}

func TestVerifyGuard_EmptyFingerprint(t *testing.T) {
	t.Parallel()

	g := NewVerifyGuard()
	g.RecordVerifyAttempt("", 512)
	require.False(t, g.ShouldSkipVerify("", 512))
}
