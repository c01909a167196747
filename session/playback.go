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
	"fmt"
	"os"

	cptv "github.com/TheCacophonyProject/go-cptv"
	"github.com/TheCacophonyProject/go-cptv/cptvframe"
	"github.com/juju/ratelimit"

	"github.com/ircam-tools/ircam-viewer/camera"
	"github.com/ircam-tools/ircam-viewer/recorder"
)

// PlaybackSource replays a raw CPTV recording at the recorded frame
// rate, looping back to the start when the file runs out.
type PlaybackSource struct {
	filename string
	file     *os.File
	reader   *cptv.Reader
	desc     camera.Descriptor
	frame    *cptvframe.Frame
	raw      []byte
	seq      uint32
	bucket   *ratelimit.Bucket
}

// OpenPlayback opens a CPTV recording for paced replay.
func OpenPlayback(filename string) (*PlaybackSource, error) {
	s := &PlaybackSource{filename: filename}
	if err := s.open(); err != nil {
		return nil, err
	}

	w, h := s.reader.ResX(), s.reader.ResY()
	fps := s.reader.FPS()
	if fps <= 0 {
		fps = int(camera.Default().FPS)
	}
	name := s.reader.DeviceName()
	if len(name) >= 64 {
		name = name[:63]
	}
	s.desc = camera.Descriptor{
		Width:     int32(w),
		Height:    int32(h),
		FPS:       uint32(fps),
		RawSize:   uint32(w) * uint32(h) * 2,
		VideoSize: uint32(w) * uint32(h) * 4,
		RawFormat: camera.RawFormatY16LE,
		Name:      name,
	}
	if err := s.desc.Validate(); err != nil {
		return nil, fmt.Errorf("playback %s: %w", filename, err)
	}

	s.frame = cptvframe.NewFrame(recorder.CameraSpec{Desc: &s.desc})
	s.raw = make([]byte, s.desc.RawSize)
	s.bucket = ratelimit.NewBucketWithRate(float64(fps), 1)
	return s, nil
}

func (s *PlaybackSource) open() error {
	file, err := os.Open(s.filename)
	if err != nil {
		return err
	}
	reader, err := cptv.NewReader(file)
	if err != nil {
		file.Close()
		return err
	}
	s.file = file
	s.reader = reader
	return nil
}

func (s *PlaybackSource) Descriptor() *camera.Descriptor {
	return &s.desc
}

// NextFrame returns the next recorded frame, blocking to hold the
// recorded frame rate. At end of file the recording is reopened so
// playback loops forever.
func (s *PlaybackSource) NextFrame() (*Frame, error) {
	if err := s.reader.ReadFrame(s.frame); err != nil {
		s.file.Close()
		if err := s.open(); err != nil {
			return nil, fmt.Errorf("restarting playback: %w", err)
		}
		if err := s.reader.ReadFrame(s.frame); err != nil {
			return nil, fmt.Errorf("replaying %s: %w", s.filename, err)
		}
	}

	i := 0
	for _, row := range s.frame.Pix {
		for _, v := range row {
			s.raw[i] = byte(v)
			s.raw[i+1] = byte(v >> 8)
			i += 2
		}
	}

	s.seq++
	if s.bucket != nil {
		s.bucket.Wait(1)
	}
	return &Frame{Raw: s.raw, Seq: s.seq - 1}, nil
}

func (s *PlaybackSource) ReleaseFrame(*Frame) error {
	return nil
}

func (s *PlaybackSource) Close() error {
	return s.file.Close()
}
