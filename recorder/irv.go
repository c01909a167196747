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

package recorder

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/ircam-tools/ircam-viewer/camera"
	"github.com/ircam-tools/ircam-viewer/output"
)

// NewIRVFileRecorder returns a recorder that writes rendered BGRA
// frames to timestamped IRV files in outputDir.
func NewIRVFileRecorder(desc *camera.Descriptor, outputDir string, minDiskSpaceMB uint64) *IRVFileRecorder {
	return &IRVFileRecorder{
		desc:         desc,
		outputDir:    outputDir,
		minDiskSpace: minDiskSpaceMB,
	}
}

type IRVFileRecorder struct {
	desc         *camera.Descriptor
	outputDir    string
	minDiskSpace uint64
	writer       *output.FileWriter
}

func (ifr *IRVFileRecorder) CheckCanRecord() error {
	enoughSpace, err := checkDiskSpace(ifr.minDiskSpace, ifr.outputDir)
	if err != nil {
		return fmt.Errorf("problem checking disk space: %v", err)
	} else if !enoughSpace {
		return errors.New("not enough free disk space to record")
	}
	return nil
}

func (ifr *IRVFileRecorder) StartRecording() error {
	filename := filepath.Join(ifr.outputDir, videoRecordingName(time.Now()))
	log.Printf("video recording started: %s", filename)

	writer, err := output.NewFileWriter(filename, ifr.desc)
	if err != nil {
		return err
	}
	if err := writer.WriteHeader(); err != nil {
		writer.Close()
		return err
	}

	ifr.writer = writer
	return nil
}

func (ifr *IRVFileRecorder) StopRecording() error {
	if ifr.writer == nil {
		return nil
	}
	name := ifr.writer.Name()
	err := ifr.writer.Close()
	log.Printf("video recording stopped: %s", name)
	ifr.writer = nil
	return err
}

func (ifr *IRVFileRecorder) WriteFrame(frame []byte) error {
	return ifr.writer.WriteFrame(frame)
}

func videoRecordingName(t time.Time) string {
	return fmt.Sprintf("%d-rgb.irv", t.Unix())
}
