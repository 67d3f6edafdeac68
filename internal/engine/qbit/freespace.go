// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

//go:build !windows

package qbit

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/autobrr/rudder/internal/engine"
)

const localFreeSpaceSupported = true

// localFreeSpace returns the available bytes on the filesystem containing path.
func localFreeSpace(path string) (*engine.FreeSpaceInfo, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return nil, fmt.Errorf("failed to get filesystem stats for %s: %w", path, err)
	}

	// Bavail is the number of free blocks available to unprivileged users,
	// Bsize the fundamental block size.
	//nolint:gosec // uint64 to int64 conversion is safe: disk sizes won't exceed int64 max
	return &engine.FreeSpaceInfo{
		Path:      path,
		SizeBytes: int64(stat.Bavail) * int64(stat.Bsize),
		TotalSize: int64(stat.Blocks) * int64(stat.Bsize),
	}, nil
}
