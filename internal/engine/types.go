// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package engine

import (
	"time"
)

// TorrentState mirrors the engine-reported processing state. Checking and
// check-waiting are mutually exclusive with every other processing state;
// only one verify pass may be attributed to a torrent at a time.
type TorrentState string

const (
	StateDownloading  TorrentState = "downloading"
	StateSeeding      TorrentState = "seeding"
	StatePaused       TorrentState = "paused"
	StateQueued       TorrentState = "queued"
	StateStalled      TorrentState = "stalled"
	StateChecking     TorrentState = "checking"
	StateCheckWaiting TorrentState = "checkWaiting"
	StateError        TorrentState = "error"
	StateMissingFiles TorrentState = "missingFiles"
	StateUnknown      TorrentState = "unknown"
)

// IsChecking reports whether the engine is hashing or queued to hash this torrent.
func (s TorrentState) IsChecking() bool {
	return s == StateChecking || s == StateCheckWaiting
}

// IsTerminalError reports whether the state itself signals a data fault.
func (s TorrentState) IsTerminalError() bool {
	return s == StateError || s == StateMissingFiles
}

// IsActive reports whether the torrent is making progress on its own.
func (s TorrentState) IsActive() bool {
	return s == StateDownloading || s == StateSeeding
}

// ErrorClass categorizes the fault the engine attached to a torrent.
type ErrorClass string

const (
	ErrorClassNone             ErrorClass = "none"
	ErrorClassMissingFiles     ErrorClass = "missingFiles"
	ErrorClassPermissionDenied ErrorClass = "permissionDenied"
	ErrorClassDiskFull         ErrorClass = "diskFull"
	ErrorClassTrackerWarning   ErrorClass = "trackerWarning"
	ErrorClassTrackerError     ErrorClass = "trackerError"
	ErrorClassLocalError       ErrorClass = "localError"
)

// ActionableForRecovery reports whether automated data recovery is allowed to
// touch this class. Tracker and network faults are explicitly passed through.
func (c ErrorClass) ActionableForRecovery() bool {
	switch c {
	case ErrorClassMissingFiles, ErrorClassPermissionDenied, ErrorClassDiskFull, ErrorClassLocalError:
		return true
	default:
		return false
	}
}

// RecoveryState tracks where a torrent sits in the retry lifecycle.
type RecoveryState string

const (
	RecoveryStateOK               RecoveryState = "ok"
	RecoveryStateBlocked          RecoveryState = "blocked"
	RecoveryStateTransientWaiting RecoveryState = "transientWaiting"
)

// ErrorEnvelope is attached to a torrent when the engine reports a fault.
// ErrorClass == none implies LastErrorAt is nil and no recovery session may
// reference the torrent.
type ErrorEnvelope struct {
	ErrorClass      ErrorClass    `json:"errorClass"`
	ErrorMessage    string        `json:"errorMessage"`
	LastErrorAt     *time.Time    `json:"lastErrorAt"`
	RecoveryState   RecoveryState `json:"recoveryState"`
	RetryCount      int           `json:"retryCount"`
	NextRetryAt     *time.Time    `json:"nextRetryAt"`
	RecoveryActions []string      `json:"recoveryActions,omitempty"`
	Fingerprint     string        `json:"fingerprint,omitempty"`
	PrimaryAction   string        `json:"primaryAction,omitempty"`
}

// Torrent is the engine-reported view of a torrent. The same shape serves the
// summary list and the per-torrent detail fetch.
type Torrent struct {
	ID            string         `json:"id"`
	Hash          string         `json:"hash"`
	Name          string         `json:"name"`
	State         TorrentState   `json:"state"`
	Progress      float64        `json:"progress"`
	LeftUntilDone int64          `json:"leftUntilDone"`
	SizeWhenDone  int64          `json:"sizeWhenDone"`
	TotalSize     int64          `json:"totalSize"`
	DownloadDir   string         `json:"downloadDir"`
	Category      string         `json:"category,omitempty"`
	Tags          string         `json:"tags,omitempty"`
	AddedOn       time.Time      `json:"addedOn"`
	ErrorEnvelope *ErrorEnvelope `json:"errorEnvelope,omitempty"`
}

// FreeSpaceInfo is the result of a free-space probe against a storage path.
type FreeSpaceInfo struct {
	Path      string `json:"path"`
	SizeBytes int64  `json:"sizeBytes"`
	TotalSize int64  `json:"totalSize,omitempty"`
}

// SessionStats carries the engine session counters the UI refreshes after
// every mutating command.
type SessionStats struct {
	DownloadSpeed    int64  `json:"downloadSpeed"`
	UploadSpeed      int64  `json:"uploadSpeed"`
	ConnectionStatus string `json:"connectionStatus"`
	TorrentCount     int    `json:"torrentCount"`
}

// Capabilities records which optional engine methods the current adapter can
// serve. A missing capability must short-circuit to an unsupported or blocking
// outcome instead of attempting the call.
type Capabilities struct {
	FreeSpace      bool `json:"freeSpace"`
	SetLocation    bool `json:"setLocation"`
	TrackerEditing bool `json:"trackerEditing"`
	ForceStart     bool `json:"forceStart"`
}
