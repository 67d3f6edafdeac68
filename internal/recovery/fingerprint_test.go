// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package recovery

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveFingerprint_PriorityOrder(t *testing.T) {
	t.Parallel()

	require.Equal(t, "fp-1", ResolveFingerprint("fp-1", "HASH", "42"))
	require.Equal(t, "HASH", ResolveFingerprint("", "HASH", "42"))
	require.Equal(t, "42", ResolveFingerprint("", "", "42"))
	require.Equal(t, "", ResolveFingerprint("", "", ""))
}

func TestResolveFingerprint_WhitespaceIsEmpty(t *testing.T) {
	t.Parallel()

	require.Equal(t, "HASH", ResolveFingerprint("   ", "HASH", "42"))
	require.Equal(t, "42", ResolveFingerprint("", "  ", " 42 "))
}
