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

//go:build linux && (amd64 || arm64)

package session

import (
	"fmt"

	"github.com/ircam-tools/ircam-viewer/camera"
	"github.com/ircam-tools/ircam-viewer/v4l2"
)

// LiveSource streams frames from a V4L2 capture device.
type LiveSource struct {
	dev *v4l2.Device
}

// OpenLive probes the device for a supported camera, configures it
// and starts streaming.
func OpenLive(path string) (*LiveSource, error) {
	desc := v4l2.LookupDescriptor(path)
	if desc == nil {
		return nil, fmt.Errorf("no supported camera found at %s", path)
	}

	dev, err := v4l2.Open(path, desc)
	if err != nil {
		return nil, err
	}
	if err := dev.StartStream(); err != nil {
		dev.Close()
		return nil, err
	}
	return &LiveSource{dev: dev}, nil
}

func (s *LiveSource) Descriptor() *camera.Descriptor {
	return s.dev.Descriptor()
}

func (s *LiveSource) NextFrame() (*Frame, error) {
	f, err := s.dev.NextFrame()
	if err == v4l2.ErrNoFrame {
		return nil, ErrNoFrame
	}
	if err != nil {
		return nil, err
	}
	return &Frame{Raw: f.Data, Seq: f.Seq, Slot: f.Slot}, nil
}

func (s *LiveSource) ReleaseFrame(f *Frame) error {
	return s.dev.Release(v4l2.Frame{Data: f.Raw, Seq: f.Seq, Slot: f.Slot})
}

func (s *LiveSource) Close() error {
	return s.dev.Close()
}
