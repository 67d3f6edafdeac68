// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

//go:build windows

package qbit

import (
	"github.com/autobrr/rudder/internal/engine"
)

const localFreeSpaceSupported = false

// Path-based free space is not supported on Windows; the capability flag stays
// cleared and the recovery layer reports free_space_check_not_supported.
func localFreeSpace(path string) (*engine.FreeSpaceInfo, error) {
	return nil, engine.ErrNotSupported
}
