// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package engine

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"syscall"
)

// FSErrorKind is the coarse interpretation of an engine or filesystem failure
// during a path probe. The recovery layer maps these onto blocking outcomes.
type FSErrorKind string

const (
	FSErrorNone    FSErrorKind = ""
	FSErrorENOENT  FSErrorKind = "enoent"
	FSErrorENOSPC  FSErrorKind = "enospc"
	FSErrorEACCES  FSErrorKind = "eacces"
	FSErrorUnknown FSErrorKind = "unknown"
)

// InterpretFSError classifies err into an FSErrorKind. It checks wrapped
// syscall and fs errors first, then falls back to message heuristics since
// remote engines often flatten errno into free text.
func InterpretFSError(err error) FSErrorKind {
	if err == nil {
		return FSErrorNone
	}

	switch {
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, syscall.ENOENT):
		return FSErrorENOENT
	case errors.Is(err, syscall.ENOSPC):
		return FSErrorENOSPC
	case errors.Is(err, fs.ErrPermission), errors.Is(err, syscall.EACCES), errors.Is(err, os.ErrPermission):
		return FSErrorEACCES
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "no such file"),
		strings.Contains(msg, "not found"),
		strings.Contains(msg, "does not exist"),
		strings.Contains(msg, "cannot find the path"):
		return FSErrorENOENT
	case strings.Contains(msg, "no space left"),
		strings.Contains(msg, "disk full"),
		strings.Contains(msg, "not enough space"):
		return FSErrorENOSPC
	case strings.Contains(msg, "permission denied"),
		strings.Contains(msg, "access is denied"),
		strings.Contains(msg, "operation not permitted"):
		return FSErrorEACCES
	default:
		return FSErrorUnknown
	}
}
