// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package recovery

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/autobrr/rudder/internal/engine"
)

// RecoverOptions adjust a single recovery request.
type RecoverOptions struct {
	// RetryOnly re-probes availability without mutating torrent state.
	RetryOnly bool
	// Classification overrides the internally computed diagnosis.
	Classification *Classification
}

// RecoverMissingFiles runs the full recovery sequence for a torrent carrying
// an active error envelope. Concurrent calls with the same fingerprint share
// one execution and observe the same result; different fingerprints never
// block each other. Errors never escape: every failure is converted into a
// structured SequenceResult. Cancelling ctx yields a noop result, since no
// destructive action was guaranteed to complete.
func (s *Session) RecoverMissingFiles(ctx context.Context, torrent engine.Torrent, opts RecoverOptions) SequenceResult {
	envelope := torrent.ErrorEnvelope
	caps := s.client.Capabilities()

	var classification Classification
	if opts.Classification != nil {
		classification = *opts.Classification
	} else {
		classification = ClassifyMissingFilesState(envelope, torrent.DownloadDir, caps)
	}

	if envelope == nil || !envelope.ErrorClass.ActionableForRecovery() {
		return noopResult(classification)
	}

	fingerprint := ResolveFingerprint(envelope.Fingerprint, torrent.Hash, torrent.ID)
	if fingerprint == "" {
		return noopResult(classification)
	}

	s.flightMu.Lock()
	flight := s.flight
	s.flightMu.Unlock()

	ch := flight.DoChan(fingerprint, func() (res any, err error) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Str("hash", torrent.Hash).
					Msg("Recovery sequence panicked")
				res = blockedResult(classification, BlockingBlocked, ReasonError, MsgPathCheckFailed)
			}
		}()

		result := s.runSequence(ctx, torrent, classification, fingerprint, opts)
		s.recordActivity(torrent.Hash, result)
		s.notifyOutcome(torrent.Hash, result)

		log.Debug().
			Str("hash", torrent.Hash).
			Str("fingerprint", fingerprint).
			Str("status", string(result.Status)).
			Str("log", result.Log).
			Msg("Recovery sequence finished")

		return result, nil
	})

	select {
	case r := <-ch:
		if result, ok := r.Val.(SequenceResult); ok {
			return result
		}
		return noopResult(classification)
	case <-ctx.Done():
		// The shared execution keeps running for other callers; this caller
		// no longer cares.
		return noopResult(classification)
	}
}

func (s *Session) runSequence(ctx context.Context, torrent engine.Torrent, c Classification, fingerprint string, opts RecoverOptions) SequenceResult {
	caps := s.client.Capabilities()

	path := strings.TrimSpace(torrent.DownloadDir)
	if path == "" {
		return blockedResult(c, BlockingPathNeeded, ReasonMissing, MsgNoDownloadPathKnown)
	}

	if c.Kind == KindVolumeLoss {
		if !caps.FreeSpace {
			return blockedResult(c, BlockingBlocked, ReasonRootUnreachable, MsgFreeSpaceCheckNotSupported)
		}

		target := c.Root
		if target == "" {
			target = path
		}
		probe := s.PollPathAvailability(ctx, target)
		if ctx.Err() != nil {
			return noopResult(c)
		}
		if !probe.Success {
			outcome := blockingForFSError(probe.ErrKind)
			if probe.ErrKind == engine.FSErrorENOENT {
				outcome = BlockingOutcome{Kind: BlockingBlocked, Reason: ReasonRootUnreachable, Message: MsgPathCheckFailed}
			}
			return SequenceResult{Status: StatusNeedsModal, Classification: c, Blocking: &outcome}
		}

		c.Confidence = ConfidenceLikely
		s.overrides.Set(torrent.ID, c)
	}

	if opts.RetryOnly {
		return noopResult(c)
	}

	// Path readiness needs the free-space probe; without the capability the
	// sequence proceeds and lets the engine itself reject a bad path.
	if caps.FreeSpace {
		ready := s.EnsurePathReady(ctx, path)
		if ctx.Err() != nil {
			return noopResult(c)
		}
		if !ready.Ready {
			return SequenceResult{Status: StatusNeedsModal, Classification: c, Blocking: ready.Blocking}
		}
	}

	// Force a location re-application. Engines no-op a set-location whose
	// path string is byte-identical to the stored one; appending a trailing
	// separator forces re-validation, the engine normalizes it away.
	forced := ForcedLocationPath(path)
	if err := s.client.SetTorrentLocation(ctx, torrent.Hash, forced, false); err != nil {
		if ctx.Err() != nil {
			return noopResult(c)
		}
		outcome := blockingForFSError(engine.InterpretFSError(err))
		return SequenceResult{Status: StatusNeedsModal, Classification: c, Blocking: &outcome}
	}

	return s.runMinimalSequence(ctx, torrent, c, fingerprint)
}

// runMinimalSequence is the verify+resume cycle: decide whether verification
// is warranted, deduplicate repeats through the verify guard, watch the
// verify to completion and resume unless the user paused.
func (s *Session) runMinimalSequence(ctx context.Context, torrent engine.Torrent, c Classification, fingerprint string) SequenceResult {
	hash := torrent.Hash

	expected := torrent.SizeWhenDone
	if expected == 0 {
		expected = torrent.TotalSize
	}
	left := torrent.LeftUntilDone

	verifyNeeded := true
	watchNeeded := false
	switch {
	case torrent.State.IsChecking():
		// A verify pass is already running; attach to it instead.
		verifyNeeded = false
		watchNeeded = true
	case left == expected:
		// The engine already believes every byte is missing; a verify would
		// confirm nothing.
		verifyNeeded = false
	case torrent.State.IsActive() && left > 0:
		// Progress is happening, no verify is warranted.
		verifyNeeded = false
	}

	postState := torrent.State
	postLeft := left

	if verifyNeeded && s.guard.ShouldSkipVerify(fingerprint, left) {
		if torrent.State.IsTerminalError() {
			// Verified before at this exact data state and the engine still
			// reports a fault: repeating it will not help.
			return blockedResult(c, BlockingBlocked, ReasonError, MsgVerifyRequired)
		}
		// No bytes changed since the last verify; the engine is merely
		// re-confirming. The data gap is real.
		c.Kind = KindDataGap
		c.Confidence = ConfidenceCertain
		s.overrides.Set(torrent.ID, c)
		verifyNeeded = false
	}

	if verifyNeeded {
		if err := s.client.Verify(ctx, []string{hash}); err != nil {
			if ctx.Err() != nil {
				return noopResult(c)
			}
			return blockedResult(c, BlockingBlocked, ReasonError, MsgVerifyFailed)
		}
		watchNeeded = true
	}

	if watchNeeded {
		watch := s.WatchVerifyCompletion(ctx, hash)
		switch {
		case watch.Aborted:
			return noopResult(c)
		case !watch.Success && watch.State.IsTerminalError():
			return blockedResult(c, BlockingBlocked, ReasonError, MsgVerifyFailed)
		case !watch.Success:
			// Deadline elapsed. Do not block the user indefinitely on a slow
			// verify; the next recovery attempt picks it up.
			return resolvedResult(c, LogVerifyTimeout)
		}

		if verifyNeeded {
			s.guard.RecordVerifyAttempt(fingerprint, watch.LeftUntilDone)
			if watch.LeftUntilDone == left {
				// Verify made no measurable progress, the gap is real.
				c.Kind = KindDataGap
				c.Confidence = ConfidenceCertain
				s.overrides.Set(torrent.ID, c)
			}
		}

		postState = watch.State
		postLeft = watch.LeftUntilDone
	}

	if postState == engine.StatePaused {
		// Do not override a user's explicit pause.
		return resolvedResult(c, LogVerifyCompletedPaused)
	}

	if err := s.client.Resume(ctx, []string{hash}); err != nil {
		if ctx.Err() != nil {
			return noopResult(c)
		}
		// The path looked ready but the engine rejected it.
		return blockedResult(c, BlockingBlocked, ReasonError, MsgPathCheckFailed)
	}

	if postLeft == 0 {
		return resolvedResult(c, LogAllVerifiedResuming)
	}
	return resolvedResult(c, "")
}

// ForcedLocationPath appends a trailing path separator to dir so the engine
// sees a different string and re-validates the location. Windows drive and
// UNC shaped paths with no separator get a backslash; otherwise the separator
// already dominant in the string wins, defaulting to a forward slash.
func ForcedLocationPath(dir string) string {
	if dir == "" {
		return dir
	}

	backslashes := strings.Count(dir, `\`)
	slashes := strings.Count(dir, "/")

	var sep string
	switch {
	case backslashes == 0 && slashes == 0:
		if isWindowsShapedPath(dir) {
			sep = `\`
		} else {
			sep = "/"
		}
	case backslashes >= slashes:
		sep = `\`
	default:
		sep = "/"
	}

	return dir + sep
}

func isWindowsShapedPath(dir string) bool {
	if strings.HasPrefix(dir, `\\`) {
		return true
	}
	return len(dir) >= 2 && dir[1] == ':' && isDriveLetter(dir[0])
}
