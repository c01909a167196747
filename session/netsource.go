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
	"github.com/ircam-tools/ircam-viewer/camera"
	"github.com/ircam-tools/ircam-viewer/inet"
)

// NetSource streams frames pushed by a remote ircam-viewer sender.
// The remote end paces the stream at the camera's frame rate.
type NetSource struct {
	recv *inet.Receiver
	raw  []byte
	seq  uint32
}

// ListenNet waits for a remote sender to connect on addr.
func ListenNet(addr string) (*NetSource, error) {
	recv, err := inet.Listen(addr)
	if err != nil {
		return nil, err
	}
	return NewNetSource(recv), nil
}

// NewNetSource wraps an established receiver.
func NewNetSource(recv *inet.Receiver) *NetSource {
	return &NetSource{
		recv: recv,
		raw:  make([]byte, recv.Descriptor().RawSize),
	}
}

func (s *NetSource) Descriptor() *camera.Descriptor {
	return s.recv.Descriptor()
}

// NextFrame blocks for the next remote frame. A closed connection
// surfaces as an error and ends the session.
func (s *NetSource) NextFrame() (*Frame, error) {
	if err := s.recv.ReadFrame(s.raw); err != nil {
		return nil, err
	}
	s.seq++
	return &Frame{Raw: s.raw, Seq: s.seq - 1}, nil
}

func (s *NetSource) ReleaseFrame(*Frame) error {
	return nil
}

func (s *NetSource) Close() error {
	return s.recv.Close()
}
