// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package recovery

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/autobrr/rudder/internal/engine"
)

// WatchResult reports how a verify pass ended. A timeout is distinct from a
// cancellation: Aborted is only set when the context was cancelled, so a slow
// verify can be retried later while a cancelled one is simply dropped.
type WatchResult struct {
	Success       bool
	LeftUntilDone int64
	State         engine.TorrentState
	Aborted       bool
}

// WatchVerifyCompletion polls the torrent detail at a fixed interval until it
// leaves the checking states, the context is cancelled, or the verify
// deadline elapses. Polling is strictly sequential; a fetch is never issued
// while the previous one is outstanding. A terminal error or missingFiles
// exit state reports Success=false even though polling itself completed,
// because the caller must treat it as a recovery failure.
func (s *Session) WatchVerifyCompletion(ctx context.Context, hash string) WatchResult {
	deadline := time.NewTimer(s.opts.VerifyTimeout)
	defer deadline.Stop()
	ticker := time.NewTicker(s.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return WatchResult{Success: false, Aborted: true}
		case <-deadline.C:
			log.Debug().Str("hash", hash).Dur("timeout", s.opts.VerifyTimeout).Msg("Verify watch deadline elapsed")
			return WatchResult{Success: false}
		case <-ticker.C:
			detail, err := s.client.GetTorrentDetails(ctx, hash)
			if err != nil {
				if ctx.Err() != nil {
					return WatchResult{Success: false, Aborted: true}
				}
				// Transient fetch failures keep polling until the deadline.
				log.Debug().Err(err).Str("hash", hash).Msg("Verify watch detail fetch failed")
				continue
			}

			if detail.State.IsChecking() {
				continue
			}

			result := WatchResult{
				Success:       !detail.State.IsTerminalError(),
				LeftUntilDone: detail.LeftUntilDone,
				State:         detail.State,
			}
			log.Debug().
				Str("hash", hash).
				Str("state", string(detail.State)).
				Int64("leftUntilDone", detail.LeftUntilDone).
				Bool("success", result.Success).
				Msg("Verify watch completed")
			return result
		}
	}
}
