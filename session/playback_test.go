// ircam-viewer - view and record Y16 infrared camera video
//  Copyright (C) 2026, the ircam-viewer authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package session

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ircam-tools/ircam-viewer/camera"
	"github.com/ircam-tools/ircam-viewer/recorder"
)

func writeTestRecording(t *testing.T, dir string, frames ...[]byte) string {
	desc := camera.Supported[0]
	rec := recorder.NewCPTVFileRecorder(&desc, "test", dir, 0)
	require.NoError(t, rec.StartRecording())
	for _, raw := range frames {
		require.NoError(t, rec.WriteFrame(raw))
	}
	require.NoError(t, rec.StopRecording())

	matches, err := filepath.Glob(filepath.Join(dir, "*-raw.cptv"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	return matches[0]
}

func TestPlaybackLoops(t *testing.T) {
	desc := camera.Supported[0]

	a := make([]byte, desc.RawSize)
	b := make([]byte, desc.RawSize)
	for i := 0; i < len(a); i += 2 {
		a[i] = 0x10
		b[i] = 0x20
	}

	filename := writeTestRecording(t, t.TempDir(), a, b)

	src, err := OpenPlayback(filename)
	require.NoError(t, err)
	defer src.Close()

	got := src.Descriptor()
	assert.Equal(t, desc.Width, got.Width)
	assert.Equal(t, desc.Height, got.Height)
	assert.Equal(t, desc.FPS, got.FPS)
	assert.Equal(t, desc.RawSize, got.RawSize)

	// Two recorded frames, then the file loops.
	want := [][]byte{a, b, a}
	for i, expect := range want {
		frame, err := src.NextFrame()
		require.NoError(t, err)
		assert.Equal(t, uint32(i), frame.Seq)
		assert.Equal(t, expect, frame.Raw, "frame %d", i)
		require.NoError(t, src.ReleaseFrame(frame))
	}
}
