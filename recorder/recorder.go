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

// Package recorder writes frame streams to disk. Raw Y16 frames go
// to CPTV files, rendered BGRA frames to IRV files.
package recorder

import (
	"golang.org/x/sys/unix"
)

type Recorder interface {
	StartRecording() error
	StopRecording() error
	WriteFrame(frame []byte) error
	CheckCanRecord() error
}

// NoWriteRecorder accepts frames and discards them.
type NoWriteRecorder struct {
}

func (*NoWriteRecorder) StartRecording() error         { return nil }
func (*NoWriteRecorder) StopRecording() error          { return nil }
func (*NoWriteRecorder) WriteFrame(frame []byte) error { return nil }
func (*NoWriteRecorder) CheckCanRecord() error         { return nil }

func checkDiskSpace(mb uint64, dir string) (bool, error) {
	var fs unix.Statfs_t
	if err := unix.Statfs(dir, &fs); err != nil {
		return false, err
	}
	return fs.Bavail*uint64(fs.Bsize)/1024/1024 >= mb, nil
}
