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

// Package output implements the IRV container, a gzipped stream of
// field-tagged records used for rendered BGRA recordings.
package output

import (
	"compress/gzip"
	"encoding/binary"
	"io"
	"time"
)

const (
	headerCode = 'H'
	frameCode  = 'F'

	// Header fields
	Timestamp   byte = 'T'
	XResolution byte = 'X'
	YResolution byte = 'Y'
	FrameRate   byte = 'R'

	// Frame fields
	Offset    byte = 't'
	FrameSize byte = 'f'

	magic        = "IRV"
	version byte = 0x01
)

func NewWriter(w io.Writer) *Writer {
	return &Writer{
		w: gzip.NewWriter(w),
	}
}

type Writer struct {
	w *gzip.Writer
}

func (w *Writer) WriteHeader(f *Fields) error {
	_, err := w.w.Write(append(
		[]byte(magic),
		version,
		headerCode,
		byte(f.fieldCount),
	))
	if err != nil {
		return err
	}

	_, err = w.w.Write(f.data)
	return err
}

func (w *Writer) WriteFrame(f *Fields, frameData []byte) error {
	// Frame header
	_, err := w.w.Write([]byte{frameCode, byte(f.fieldCount)})
	if err != nil {
		return err
	}

	// Frame fields
	_, err = w.w.Write(f.data)
	if err != nil {
		return err
	}

	// Frame pixel data
	_, err = w.w.Write(frameData)
	return err
}

func (w *Writer) Close() error {
	return w.w.Close()
}

func NewFields() *Fields {
	return &Fields{
		data: make([]byte, 0, 128),
	}
}

type Fields struct {
	data       []byte
	fieldCount uint8
}

func (f *Fields) Uint8(code byte, v uint8) {
	f.data = append(f.data, byte(1), code, byte(v))
	f.fieldCount++
}

func (f *Fields) Uint32(code byte, v uint32) {
	b := []byte{4, code, 0, 0, 0, 0}
	binary.LittleEndian.PutUint32(b[2:], v)
	f.data = append(f.data, b...)
	f.fieldCount++
}

func (f *Fields) Uint64(code byte, v uint64) {
	b := []byte{8, code, 0, 0, 0, 0, 0, 0, 0, 0}
	binary.LittleEndian.PutUint64(b[2:], v)
	f.data = append(f.data, b...)
	f.fieldCount++
}

func (f *Fields) Timestamp(code byte, t time.Time) {
	f.Uint64(code, uint64(t.UnixNano()/1000))
}
