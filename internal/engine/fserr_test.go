// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package engine

import (
	"fmt"
	"io/fs"
	"syscall"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInterpretFSError_WrappedSyscall(t *testing.T) {
	t.Parallel()

	require.Equal(t, FSErrorENOENT, InterpretFSError(fmt.Errorf("statfs: %w", syscall.ENOENT)))
	require.Equal(t, FSErrorENOSPC, InterpretFSError(fmt.Errorf("write: %w", syscall.ENOSPC)))
	require.Equal(t, FSErrorEACCES, InterpretFSError(fmt.Errorf("open: %w", syscall.EACCES)))
	require.Equal(t, FSErrorENOENT, InterpretFSError(fmt.Errorf("probe: %w", fs.ErrNotExist)))
}

func TestInterpretFSError_MessageHeuristics(t *testing.T) {
	t.Parallel()

	require.Equal(t, FSErrorENOENT, InterpretFSError(fmt.Errorf("No such file or directory")))
	require.Equal(t, FSErrorENOENT, InterpretFSError(fmt.Errorf("The system cannot find the path specified")))
	require.Equal(t, FSErrorENOSPC, InterpretFSError(fmt.Errorf("no space left on device")))
	require.Equal(t, FSErrorEACCES, InterpretFSError(fmt.Errorf("Access is denied.")))
	require.Equal(t, FSErrorUnknown, InterpretFSError(fmt.Errorf("free-space failed")))
}

func TestInterpretFSError_Nil(t *testing.T) {
	t.Parallel()

	require.Equal(t, FSErrorNone, InterpretFSError(nil))
}
