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

// Package inet streams raw camera frames between hosts. A session
// opens with the wire form of the camera descriptor, then carries
// back-to-back raw frames until either side closes the connection.
package inet

import (
	"fmt"
	"io"
	"net"

	"github.com/ircam-tools/ircam-viewer/camera"
)

// Sender pushes raw frames to a remote viewer.
type Sender struct {
	conn net.Conn
	desc *camera.Descriptor
}

// Dial connects to a listening viewer and sends the descriptor
// handshake.
func Dial(addr string, desc *camera.Descriptor) (*Sender, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}
	s, err := NewSender(conn, desc)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return s, nil
}

// NewSender performs the descriptor handshake on an established
// connection.
func NewSender(conn net.Conn, desc *camera.Descriptor) (*Sender, error) {
	wire, err := desc.MarshalBinary()
	if err != nil {
		return nil, err
	}
	if _, err := conn.Write(wire); err != nil {
		return nil, err
	}
	return &Sender{conn: conn, desc: desc}, nil
}

// SendFrame writes one raw frame. The frame must be exactly RawSize
// bytes.
func (s *Sender) SendFrame(raw []byte) error {
	if len(raw) != int(s.desc.RawSize) {
		return fmt.Errorf("frame size %d, camera wants %d", len(raw), s.desc.RawSize)
	}
	_, err := s.conn.Write(raw)
	return err
}

func (s *Sender) Close() error {
	return s.conn.Close()
}

// Receiver consumes raw frames pushed by a remote sender.
type Receiver struct {
	conn net.Conn
	desc camera.Descriptor
}

// Listen accepts a single sender on addr and reads the descriptor
// handshake. The listener is closed once the sender is connected.
func Listen(addr string) (*Receiver, error) {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	defer l.Close()

	conn, err := l.Accept()
	if err != nil {
		return nil, err
	}
	r, err := NewReceiver(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return r, nil
}

// NewReceiver reads the descriptor handshake from an established
// connection.
func NewReceiver(conn net.Conn) (*Receiver, error) {
	wire := make([]byte, camera.WireSize)
	if _, err := io.ReadFull(conn, wire); err != nil {
		return nil, fmt.Errorf("reading camera descriptor: %w", err)
	}

	r := &Receiver{conn: conn}
	if err := r.desc.UnmarshalBinary(wire); err != nil {
		return nil, err
	}
	if err := r.desc.Validate(); err != nil {
		return nil, fmt.Errorf("remote camera descriptor: %w", err)
	}
	return r, nil
}

// Descriptor returns the remote camera's descriptor.
func (r *Receiver) Descriptor() *camera.Descriptor {
	return &r.desc
}

// ReadFrame fills raw with the next frame. A cleanly closed
// connection surfaces as io.EOF; a connection dropped mid-frame as
// io.ErrUnexpectedEOF.
func (r *Receiver) ReadFrame(raw []byte) error {
	if len(raw) != int(r.desc.RawSize) {
		return fmt.Errorf("frame buffer %d bytes, need %d", len(raw), r.desc.RawSize)
	}
	_, err := io.ReadFull(r.conn, raw)
	return err
}

func (r *Receiver) Close() error {
	return r.conn.Close()
}
