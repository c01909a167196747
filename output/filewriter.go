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
	"bufio"
	"os"
	"time"

	"github.com/ircam-tools/ircam-viewer/camera"
)

func NewFileWriter(filename string, desc *camera.Descriptor) (*FileWriter, error) {
	f, err := os.Create(filename)
	if err != nil {
		return nil, err
	}
	bw := bufio.NewWriter(f)
	return &FileWriter{
		f:    f,
		bw:   bw,
		w:    NewWriter(bw),
		desc: desc,
	}, nil
}

type FileWriter struct {
	f    *os.File
	bw   *bufio.Writer
	w    *Writer
	desc *camera.Descriptor
	t0   time.Time
}

func (fw *FileWriter) WriteHeader() error {
	fw.t0 = time.Now()
	fields := NewFields()
	fields.Timestamp(Timestamp, fw.t0)
	fields.Uint32(XResolution, uint32(fw.desc.Width))
	fields.Uint32(YResolution, uint32(fw.desc.Height))
	fields.Uint32(FrameRate, fw.desc.FPS)
	return fw.w.WriteHeader(fields)
}

// WriteFrame appends one rendered BGRA frame.
func (fw *FileWriter) WriteFrame(frame []byte) error {
	dt := time.Since(fw.t0)

	fields := NewFields()
	fields.Uint64(Offset, uint64(dt/time.Microsecond))
	fields.Uint32(FrameSize, uint32(len(frame)))
	return fw.w.WriteFrame(fields, frame)
}

func (fw *FileWriter) Name() string {
	return fw.f.Name()
}

func (fw *FileWriter) Close() error {
	if err := fw.w.Close(); err != nil {
		fw.f.Close()
		return err
	}
	if err := fw.bw.Flush(); err != nil {
		fw.f.Close()
		return err
	}
	return fw.f.Close()
}
