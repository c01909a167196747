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

package camera

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Pixel format fourcc codes as used by the V4L2 API.
const (
	PixFmtYUYV = uint32('Y') | uint32('U')<<8 | uint32('Y')<<16 | uint32('V')<<24
)

// Raw sample format codes carried in the descriptor. Only 16-bit
// little-endian grayscale is supported at present.
const (
	RawFormatY16LE uint32 = 1
)

// WireSize is the size of a descriptor record on the network: ten
// 32-bit little-endian fields followed by a 64 byte NUL padded name.
const WireSize = 10*4 + 64

// Descriptor holds the capture parameters for a supported camera
// model. It is immutable once selected.
//
// The device reports CaptureWidth x CaptureHeight frames in
// PixelFormat; the thermal payload is Width x Height 16-bit samples
// starting RawSkip bytes into each frame.
type Descriptor struct {
	Width         int32
	Height        int32
	FPS           uint32
	RawSize       uint32
	RawSkip       uint32
	VideoSize     uint32
	CaptureWidth  int32
	CaptureHeight int32
	PixelFormat   uint32
	RawFormat     uint32
	Name          string
}

// Supported lists the camera models this program knows how to drive.
var Supported = []Descriptor{
	// The device is a simple uvcvideo camera. It claims to provide
	// 256x384 YUYV video, but it actually gives two views of the same
	// 16-bit 256x192 image concatenated together. The first bitmap is
	// a dynamically scaled 8-bit rendering with a padding byte after
	// each real byte; it contains a strict subset of the data in the
	// second, so we skip it. The second is the real unscaled Y16
	// bitmap of raw sensor readings.
	{
		Width:         256,
		Height:        192,
		FPS:           25,
		RawSize:       256 * 192 * 2,
		RawSkip:       256 * 192 * 2,
		VideoSize:     256 * 192 * 4,
		CaptureWidth:  256,
		CaptureHeight: 384,
		PixelFormat:   PixFmtYUYV,
		RawFormat:     RawFormatY16LE,
		Name:          "TOPDON TC001 or compatible",
	},
}

// Default returns the descriptor assumed when no device probing has
// been done, currently the only supported model.
func Default() *Descriptor {
	return &Supported[0]
}

// Validate checks the descriptor's internal size invariants.
func (d *Descriptor) Validate() error {
	if d.Width <= 0 || d.Height <= 0 {
		return fmt.Errorf("camera: bad resolution %dx%d", d.Width, d.Height)
	}
	if d.FPS == 0 {
		return fmt.Errorf("camera: zero frame rate")
	}
	if d.RawSize != uint32(d.Width)*uint32(d.Height)*2 {
		return fmt.Errorf("camera: raw size %d does not match %dx%d 16-bit samples",
			d.RawSize, d.Width, d.Height)
	}
	if d.VideoSize != uint32(d.Width)*uint32(d.Height)*4 {
		return fmt.Errorf("camera: video size %d does not match %dx%d RGBA",
			d.VideoSize, d.Width, d.Height)
	}
	if len(d.Name) >= 64 {
		return fmt.Errorf("camera: name %q too long for wire form", d.Name)
	}
	return nil
}

// MarshalBinary encodes the descriptor in its canonical little-endian
// wire form. The result is always WireSize bytes.
func (d *Descriptor) MarshalBinary() ([]byte, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	buf := new(bytes.Buffer)
	buf.Grow(WireSize)
	for _, v := range d.wireFields() {
		binary.Write(buf, binary.LittleEndian, v)
	}
	var name [64]byte
	copy(name[:], d.Name)
	buf.Write(name[:])
	return buf.Bytes(), nil
}

// UnmarshalBinary decodes a wire form descriptor, converting fields
// back to host representation and checking the size invariants.
func (d *Descriptor) UnmarshalBinary(data []byte) error {
	if len(data) != WireSize {
		return fmt.Errorf("camera: descriptor record is %d bytes, want %d",
			len(data), WireSize)
	}
	r := bytes.NewReader(data)
	for _, v := range d.wireFields() {
		binary.Read(r, binary.LittleEndian, v)
	}
	name := data[40:]
	if i := bytes.IndexByte(name, 0); i >= 0 {
		name = name[:i]
	}
	d.Name = string(name)
	return d.Validate()
}

func (d *Descriptor) wireFields() []interface{} {
	return []interface{}{
		&d.Width, &d.Height, &d.FPS, &d.RawSize, &d.RawSkip,
		&d.VideoSize, &d.CaptureWidth, &d.CaptureHeight,
		&d.PixelFormat, &d.RawFormat,
	}
}
