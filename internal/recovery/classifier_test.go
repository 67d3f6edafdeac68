// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package recovery

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/autobrr/rudder/internal/engine"
)

func TestClassify_AccessDenied(t *testing.T) {
	t.Parallel()

	envelope := &engine.ErrorEnvelope{
		ErrorClass:   engine.ErrorClassPermissionDenied,
		ErrorMessage: "Access is denied.",
	}

	c := ClassifyMissingFilesState(envelope, "/mnt/downloads", engine.Capabilities{})
	require.Equal(t, KindAccessDenied, c.Kind)
	require.Equal(t, ConfidenceLikely, c.Confidence)
	require.Equal(t, "/mnt/downloads", c.Path)
}

func TestClassify_AccessDeniedByMessageOnly(t *testing.T) {
	t.Parallel()

	envelope := &engine.ErrorEnvelope{
		ErrorClass:   engine.ErrorClassMissingFiles,
		ErrorMessage: "open failed: permission denied",
	}

	c := ClassifyMissingFilesState(envelope, "/mnt/downloads", engine.Capabilities{})
	require.Equal(t, KindAccessDenied, c.Kind, "access-denied phrases win over the missingFiles class")
	require.Equal(t, ConfidenceLikely, c.Confidence)
}

func TestClassify_PathLoss(t *testing.T) {
	t.Parallel()

	envelope := &engine.ErrorEnvelope{
		ErrorClass:   engine.ErrorClassMissingFiles,
		ErrorMessage: "No such file or directory",
	}

	c := ClassifyMissingFilesState(envelope, "/mnt/downloads", engine.Capabilities{})
	require.Equal(t, KindPathLoss, c.Kind)
	require.Equal(t, ConfidenceLikely, c.Confidence)
}

func TestClassify_VolumeLossRequiresProbe(t *testing.T) {
	t.Parallel()

	envelope := &engine.ErrorEnvelope{
		ErrorClass:   engine.ErrorClassLocalError,
		ErrorMessage: "mount point is gone",
	}

	c := ClassifyMissingFilesState(envelope, "/mnt/downloads/show", engine.Capabilities{FreeSpace: true})
	require.Equal(t, KindVolumeLoss, c.Kind)
	require.Equal(t, ConfidenceUnknown, c.Confidence, "volume loss needs a live probe to upgrade confidence")
	require.Equal(t, "/mnt", c.Root)
	require.Contains(t, c.RecommendedActions, "probe")
}

func TestClassify_Unknown(t *testing.T) {
	t.Parallel()

	envelope := &engine.ErrorEnvelope{
		ErrorClass:   engine.ErrorClassLocalError,
		ErrorMessage: "something odd happened",
	}

	c := ClassifyMissingFilesState(envelope, "/mnt/downloads", engine.Capabilities{})
	require.Equal(t, KindUnknown, c.Kind)
	require.Equal(t, ConfidenceUnknown, c.Confidence)
}

func TestClassify_NilEnvelope(t *testing.T) {
	t.Parallel()

	c := ClassifyMissingFilesState(nil, "/mnt/downloads", engine.Capabilities{})
	require.Equal(t, KindUnknown, c.Kind)
}

func TestVolumeRoot(t *testing.T) {
	t.Parallel()

	require.Equal(t, `D:\`, volumeRoot(`D:\Drive\sub`))
	require.Equal(t, `\\nas\media`, volumeRoot(`\\nas\media\tv`))
	require.Equal(t, "/mnt", volumeRoot("/mnt/downloads"))
	require.Equal(t, "/downloads", volumeRoot("/downloads"))
	require.Equal(t, "", volumeRoot(""))
}
