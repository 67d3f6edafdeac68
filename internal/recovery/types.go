// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package recovery

// ClassificationKind is the diagnosed cause of a torrent's unavailable data.
type ClassificationKind string

const (
	KindPathLoss     ClassificationKind = "pathLoss"
	KindVolumeLoss   ClassificationKind = "volumeLoss"
	KindDataGap      ClassificationKind = "dataGap"
	KindAccessDenied ClassificationKind = "accessDenied"
	KindUnknown      ClassificationKind = "unknown"
)

// Confidence grades how certain the classifier is about its diagnosis.
type Confidence string

const (
	ConfidenceCertain Confidence = "certain"
	ConfidenceLikely  Confidence = "likely"
	ConfidenceUnknown Confidence = "unknown"
)

// Classification is the diagnosis for one missing-data condition. The
// sequencer may refine it in place mid-sequence and republish it through the
// override store.
type Classification struct {
	Kind               ClassificationKind `json:"kind"`
	Confidence         Confidence         `json:"confidence"`
	Path               string             `json:"path"`
	Root               string             `json:"root,omitempty"`
	RecommendedActions []string           `json:"recommendedActions,omitempty"`
}

// SequenceStatus is the top-level outcome of a recovery sequence.
type SequenceStatus string

const (
	StatusResolved   SequenceStatus = "resolved"
	StatusNeedsModal SequenceStatus = "needsModal"
	StatusNoop       SequenceStatus = "noop"
)

// BlockingKind separates outcomes that need a user decision about a path from
// outcomes that are simply blocked.
type BlockingKind string

const (
	BlockingBlocked    BlockingKind = "blocked"
	BlockingPathNeeded BlockingKind = "path-needed"
)

// BlockingReason is the machine-readable cause behind a blocking outcome.
type BlockingReason string

const (
	ReasonMissing         BlockingReason = "missing"
	ReasonDiskFull        BlockingReason = "disk-full"
	ReasonAccessDenied    BlockingReason = "access-denied"
	ReasonRootUnreachable BlockingReason = "root-unreachable"
	ReasonError           BlockingReason = "error"
)

// Stable machine-readable messages carried on blocking outcomes and resolved
// logs. Presentation layers key UX copy off these, so they never change shape.
const (
	MsgNoDownloadPathKnown        = "no_download_path_known"
	MsgFreeSpaceCheckNotSupported = "free_space_check_not_supported"
	MsgPathCheckFailed            = "path_check_failed"
	MsgPathAccessDenied           = "path_access_denied"
	MsgDiskFull                   = "disk_full"
	MsgVerifyRequired             = "verify_required"
	MsgVerifyFailed               = "verify_failed"

	LogAllVerifiedResuming   = "all_verified_resuming"
	LogVerifyCompletedPaused = "verify_completed_paused"
	LogVerifyTimeout         = "verify_timeout"
)

// BlockingOutcome describes a condition requiring human intervention before
// recovery can proceed.
type BlockingOutcome struct {
	Kind    BlockingKind   `json:"kind"`
	Reason  BlockingReason `json:"reason"`
	Message string         `json:"message"`
}

// SequenceResult is the structured outcome of one recovery sequence. A
// needsModal status always carries a Blocking outcome; resolved statuses may
// carry a Log sub-reason for telemetry and UX messaging.
type SequenceResult struct {
	Status         SequenceStatus   `json:"status"`
	Classification Classification   `json:"classification"`
	Log            string           `json:"log,omitempty"`
	Blocking       *BlockingOutcome `json:"blockingOutcome,omitempty"`
}

func noopResult(c Classification) SequenceResult {
	return SequenceResult{Status: StatusNoop, Classification: c}
}

func resolvedResult(c Classification, logReason string) SequenceResult {
	return SequenceResult{Status: StatusResolved, Classification: c, Log: logReason}
}

func blockedResult(c Classification, kind BlockingKind, reason BlockingReason, message string) SequenceResult {
	return SequenceResult{
		Status:         StatusNeedsModal,
		Classification: c,
		Blocking:       &BlockingOutcome{Kind: kind, Reason: reason, Message: message},
	}
}
