// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package recovery

import (
	"context"

	"github.com/avast/retry-go"
	"github.com/rs/zerolog/log"

	"github.com/autobrr/rudder/internal/engine"
)

// ProbeResult is the structured outcome of a path availability poll. Probing
// never returns an error; every failure is interpreted into an FSErrorKind.
type ProbeResult struct {
	Success bool
	ErrKind engine.FSErrorKind
}

// PathReadyResult carries either readiness or the blocking outcome explaining
// why the path cannot be used.
type PathReadyResult struct {
	Ready    bool
	Blocking *BlockingOutcome
}

// PollPathAvailability invokes the engine's free-space check against path
// until it succeeds, the context is cancelled, or the bounded attempt budget
// is spent.
func (s *Session) PollPathAvailability(ctx context.Context, path string) ProbeResult {
	err := retry.Do(
		func() error {
			_, err := s.client.CheckFreeSpace(ctx, path)
			return err
		},
		retry.Attempts(s.opts.ProbeAttempts),
		retry.Delay(s.opts.ProbeDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
	)
	if err == nil {
		return ProbeResult{Success: true}
	}

	kind := engine.InterpretFSError(err)
	log.Debug().Err(err).Str("path", path).Str("errKind", string(kind)).Msg("Path availability probe failed")
	return ProbeResult{Success: false, ErrKind: kind}
}

// EnsurePathReady probes the path once through the availability poll and maps
// any failure to the blocking outcome the caller surfaces.
func (s *Session) EnsurePathReady(ctx context.Context, path string) PathReadyResult {
	probe := s.PollPathAvailability(ctx, path)
	if probe.Success {
		return PathReadyResult{Ready: true}
	}

	outcome := blockingForFSError(probe.ErrKind)
	return PathReadyResult{Ready: false, Blocking: &outcome}
}

// blockingForFSError maps an interpreted filesystem error to the stable
// blocking outcome vocabulary.
func blockingForFSError(kind engine.FSErrorKind) BlockingOutcome {
	switch kind {
	case engine.FSErrorENOSPC:
		return BlockingOutcome{Kind: BlockingBlocked, Reason: ReasonDiskFull, Message: MsgDiskFull}
	case engine.FSErrorEACCES:
		return BlockingOutcome{Kind: BlockingBlocked, Reason: ReasonAccessDenied, Message: MsgPathAccessDenied}
	case engine.FSErrorENOENT:
		return BlockingOutcome{Kind: BlockingPathNeeded, Reason: ReasonMissing, Message: MsgPathCheckFailed}
	default:
		return BlockingOutcome{Kind: BlockingBlocked, Reason: ReasonError, Message: MsgPathCheckFailed}
	}
}
