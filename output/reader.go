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
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"time"
)

// Header holds the stream-level fields of an IRV recording.
type Header struct {
	Timestamp   time.Time
	XResolution uint32
	YResolution uint32
	FrameRate   uint32
}

// FrameInfo holds the per-frame fields of an IRV recording.
type FrameInfo struct {
	Offset time.Duration
}

// NewReader validates the IRV magic and version and reads the stream
// header.
func NewReader(r io.Reader) (*Reader, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, err
	}
	rd := &Reader{r: bufio.NewReader(zr)}

	pre := make([]byte, len(magic)+1)
	if _, err := io.ReadFull(rd.r, pre); err != nil {
		return nil, err
	}
	if string(pre[:len(magic)]) != magic {
		return nil, errors.New("not an IRV recording")
	}
	if pre[len(magic)] != version {
		return nil, fmt.Errorf("unsupported IRV version %d", pre[len(magic)])
	}

	code, fields, err := rd.readRecord()
	if err != nil {
		return nil, err
	}
	if code != headerCode {
		return nil, errors.New("missing IRV header record")
	}

	rd.header = Header{
		Timestamp:   time.Unix(0, int64(fields[Timestamp])*1000),
		XResolution: uint32(fields[XResolution]),
		YResolution: uint32(fields[YResolution]),
		FrameRate:   uint32(fields[FrameRate]),
	}
	return rd, nil
}

type Reader struct {
	r      *bufio.Reader
	header Header
}

func (rd *Reader) Header() Header {
	return rd.header
}

// ReadFrame returns the next frame's fields and pixel data. It
// returns io.EOF at the end of the recording.
func (rd *Reader) ReadFrame() (FrameInfo, []byte, error) {
	code, fields, err := rd.readRecord()
	if err != nil {
		return FrameInfo{}, nil, err
	}
	if code != frameCode {
		return FrameInfo{}, nil, fmt.Errorf("unexpected record %q", code)
	}

	size, ok := fields[FrameSize]
	if !ok {
		return FrameInfo{}, nil, errors.New("frame record missing size")
	}
	// Frames are BGRA images of the header's resolution, so anything
	// larger is a corrupt size field, not a bigger frame.
	maxSize := uint64(rd.header.XResolution) * uint64(rd.header.YResolution) * 4
	if size > maxSize {
		return FrameInfo{}, nil, fmt.Errorf("frame size %d exceeds %dx%d BGRA",
			size, rd.header.XResolution, rd.header.YResolution)
	}
	data := make([]byte, size)
	if _, err := io.ReadFull(rd.r, data); err != nil {
		return FrameInfo{}, nil, unexpectEOF(err)
	}

	info := FrameInfo{
		Offset: time.Duration(fields[Offset]) * time.Microsecond,
	}
	return info, data, nil
}

func (rd *Reader) readRecord() (byte, map[byte]uint64, error) {
	code, err := rd.r.ReadByte()
	if err != nil {
		return 0, nil, err
	}
	count, err := rd.r.ReadByte()
	if err != nil {
		return 0, nil, unexpectEOF(err)
	}

	fields := make(map[byte]uint64, count)
	for i := 0; i < int(count); i++ {
		size, err := rd.r.ReadByte()
		if err != nil {
			return 0, nil, unexpectEOF(err)
		}
		fcode, err := rd.r.ReadByte()
		if err != nil {
			return 0, nil, unexpectEOF(err)
		}
		if size > 8 {
			return 0, nil, fmt.Errorf("field %q too wide: %d", fcode, size)
		}
		buf := make([]byte, size)
		if _, err := io.ReadFull(rd.r, buf); err != nil {
			return 0, nil, unexpectEOF(err)
		}
		var v uint64
		for j := int(size) - 1; j >= 0; j-- {
			v = v<<8 | uint64(buf[j])
		}
		fields[fcode] = v
	}
	return code, fields, nil
}

// A stream that ends inside a record is corrupt, not merely over.
func unexpectEOF(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
