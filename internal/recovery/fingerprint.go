// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package recovery

import "strings"

// ResolveFingerprint derives the stable identity string for a torrent/error
// pair: the engine-supplied fingerprint when present, else the hash, else the
// id. Every component that needs dedup keying must resolve through here so a
// torrent always yields the same key within a session.
func ResolveFingerprint(explicit, hash, id string) string {
	if v := strings.TrimSpace(explicit); v != "" {
		return v
	}
	if v := strings.TrimSpace(hash); v != "" {
		return v
	}
	return strings.TrimSpace(id)
}
