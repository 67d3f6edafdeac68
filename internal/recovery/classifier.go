// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package recovery

import (
	"strings"

	"github.com/autobrr/rudder/internal/engine"
)

var (
	accessDeniedPhrases = []string{
		"permission denied",
		"access is denied",
		"access denied",
		"operation not permitted",
	}
	missingPathPhrases = []string{
		"no such file or directory",
		"no such file",
		"not found",
		"does not exist",
		"cannot find the file",
		"cannot find the path",
	}
	volumeLossPhrases = []string{
		"volume",
		"mount",
		"no such device",
		"drive not ready",
		"device is not ready",
		"network path was not found",
	}
)

// ClassifyMissingFilesState maps an error envelope plus a candidate path into
// a recovery classification. Pure function of its inputs; the capability set
// only influences the recommended actions, since volumeLoss handling without a
// free-space probe must short-circuit to a blocking outcome downstream.
func ClassifyMissingFilesState(envelope *engine.ErrorEnvelope, candidatePath string, caps engine.Capabilities) Classification {
	c := Classification{
		Kind:       KindUnknown,
		Confidence: ConfidenceUnknown,
		Path:       candidatePath,
	}
	if envelope == nil {
		return c
	}

	message := strings.ToLower(envelope.ErrorMessage)

	switch {
	case envelope.ErrorClass == engine.ErrorClassPermissionDenied || containsAny(message, accessDeniedPhrases):
		c.Kind = KindAccessDenied
		c.Confidence = ConfidenceLikely
		c.RecommendedActions = []string{"fix-permissions", "verify", "resume"}

	case envelope.ErrorClass == engine.ErrorClassMissingFiles && containsAny(message, missingPathPhrases):
		c.Kind = KindPathLoss
		c.Confidence = ConfidenceLikely
		c.RecommendedActions = []string{"verify", "resume"}

	case containsAny(message, volumeLossPhrases):
		// The storage root itself looks unreachable. Confidence stays unknown
		// until a live probe confirms the volume answers again.
		c.Kind = KindVolumeLoss
		c.Confidence = ConfidenceUnknown
		c.Root = volumeRoot(candidatePath)
		if caps.FreeSpace {
			c.RecommendedActions = []string{"probe", "verify", "resume"}
		} else {
			c.RecommendedActions = []string{"relocate"}
		}

	default:
		c.RecommendedActions = []string{"verify"}
	}

	return c
}

func containsAny(message string, phrases []string) bool {
	for _, phrase := range phrases {
		if strings.Contains(message, phrase) {
			return true
		}
	}
	return false
}

// volumeRoot derives the storage root to probe for a volume-loss diagnosis:
// the drive for Windows paths, the share for UNC paths, the first path
// segment otherwise.
func volumeRoot(path string) string {
	if path == "" {
		return ""
	}

	if strings.HasPrefix(path, `\\`) {
		// UNC: \\server\share\rest -> \\server\share
		parts := strings.SplitN(strings.TrimPrefix(path, `\\`), `\`, 3)
		if len(parts) >= 2 {
			return `\\` + parts[0] + `\` + parts[1]
		}
		return path
	}

	if len(path) >= 2 && path[1] == ':' && isDriveLetter(path[0]) {
		return path[:2] + `\`
	}

	if strings.HasPrefix(path, "/") {
		rest := strings.TrimPrefix(path, "/")
		if idx := strings.IndexByte(rest, '/'); idx > 0 {
			return "/" + rest[:idx]
		}
		return "/" + rest
	}

	return path
}

func isDriveLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
