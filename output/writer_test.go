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

package output

import (
	"bytes"
	"compress/gzip"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	t0 := time.Now()
	header := NewFields()
	header.Timestamp(Timestamp, t0)
	header.Uint32(XResolution, 256)
	header.Uint32(YResolution, 192)
	header.Uint32(FrameRate, 25)
	require.NoError(t, w.WriteHeader(header))

	frames := [][]byte{
		{1, 2, 3, 255},
		{4, 5, 6, 255, 7, 8, 9, 255},
	}
	for i, data := range frames {
		fields := NewFields()
		fields.Uint64(Offset, uint64(i)*40000)
		fields.Uint32(FrameSize, uint32(len(data)))
		require.NoError(t, w.WriteFrame(fields, data))
	}
	require.NoError(t, w.Close())

	r, err := NewReader(&buf)
	require.NoError(t, err)

	h := r.Header()
	assert.Equal(t, uint32(256), h.XResolution)
	assert.Equal(t, uint32(192), h.YResolution)
	assert.Equal(t, uint32(25), h.FrameRate)
	// The timestamp survives at microsecond resolution.
	assert.WithinDuration(t, t0, h.Timestamp, time.Microsecond)

	for i, want := range frames {
		info, data, err := r.ReadFrame()
		require.NoError(t, err)
		assert.Equal(t, time.Duration(i)*40*time.Millisecond, info.Offset)
		assert.Equal(t, want, data)
	}

	_, _, err = r.ReadFrame()
	assert.Equal(t, io.EOF, err)
}

func TestRejectsBadMagic(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte("CPTV\x01H\x00"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = NewReader(&buf)
	assert.Error(t, err)
}

func TestTruncatedFrame(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	header := NewFields()
	header.Uint32(XResolution, 4)
	header.Uint32(YResolution, 4)
	require.NoError(t, w.WriteHeader(header))

	// Claim more data than is written.
	fields := NewFields()
	fields.Uint32(FrameSize, 64)
	require.NoError(t, w.WriteFrame(fields, []byte{1, 2, 3}))
	require.NoError(t, w.Close())

	r, err := NewReader(&buf)
	require.NoError(t, err)
	_, _, err = r.ReadFrame()
	assert.Equal(t, io.ErrUnexpectedEOF, err)
}

func TestRejectsOversizedFrame(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	header := NewFields()
	header.Uint32(XResolution, 2)
	header.Uint32(YResolution, 2)
	require.NoError(t, w.WriteHeader(header))

	// A size field beyond the header's resolution must be rejected
	// before any buffer is sized from it.
	fields := NewFields()
	fields.Uint64(FrameSize, 1<<40)
	require.NoError(t, w.WriteFrame(fields, []byte{1, 2, 3}))
	require.NoError(t, w.Close())

	r, err := NewReader(&buf)
	require.NoError(t, err)
	_, _, err = r.ReadFrame()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds")
}
