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
	"errors"

	"github.com/ircam-tools/ircam-viewer/camera"
)

// ErrNoFrame is returned by a source when no frame was ready this
// time around. The caller just tries again.
var ErrNoFrame = errors.New("no frame available")

// Frame is one raw Y16 frame on loan from a source. Raw stays valid
// until ReleaseFrame.
type Frame struct {
	Raw []byte
	Seq uint32

	// Slot identifies the source buffer the frame lives in, for
	// sources that recycle buffers.
	Slot int
}

// Source produces raw camera frames. Implementations are a live
// V4L2 device, recorded file playback, and a network receiver.
type Source interface {
	Descriptor() *camera.Descriptor
	NextFrame() (*Frame, error)
	ReleaseFrame(*Frame) error
	Close() error
}
