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

package inet

import (
	"io"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ircam-tools/ircam-viewer/camera"
)

func TestSendReceive(t *testing.T) {
	desc := camera.Supported[0]

	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	frame := make([]byte, desc.RawSize)
	for i := range frame {
		frame[i] = byte(i * 7)
	}

	errc := make(chan error, 1)
	go func() {
		sender, err := NewSender(client, &desc)
		if err != nil {
			errc <- err
			return
		}
		if err := sender.SendFrame(frame); err != nil {
			errc <- err
			return
		}
		errc <- sender.Close()
	}()

	recv, err := NewReceiver(server)
	require.NoError(t, err)
	assert.Equal(t, desc, *recv.Descriptor())

	got := make([]byte, desc.RawSize)
	require.NoError(t, recv.ReadFrame(got))
	assert.Equal(t, frame, got)

	// The sender hung up, so the stream is over.
	require.NoError(t, <-errc)
	err = recv.ReadFrame(got)
	assert.Error(t, err)

	require.NoError(t, recv.Close())
}

func TestSendFrameSizeCheck(t *testing.T) {
	desc := camera.Supported[0]

	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	go io.Copy(io.Discard, server)

	sender, err := NewSender(client, &desc)
	require.NoError(t, err)
	assert.Error(t, sender.SendFrame(make([]byte, 10)))
}

func TestReceiverRejectsBadDescriptor(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	go func() {
		// A descriptor full of zeroes never validates.
		client.Write(make([]byte, camera.WireSize))
		client.Close()
	}()

	_, err := NewReceiver(server)
	assert.Error(t, err)
}

func TestReceiverShortHandshake(t *testing.T) {
	client, server := net.Pipe()
	defer server.Close()

	go func() {
		client.Write(make([]byte, 10))
		client.Close()
	}()

	_, err := NewReceiver(server)
	assert.Error(t, err)
}
