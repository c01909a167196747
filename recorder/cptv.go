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

	cptv "github.com/TheCacophonyProject/go-cptv"
	"github.com/TheCacophonyProject/go-cptv/cptvframe"

	"github.com/ircam-tools/ircam-viewer/camera"
)

// CameraSpec adapts a camera descriptor to the interface go-cptv
// expects.
type CameraSpec struct {
	Desc *camera.Descriptor
}

func (c CameraSpec) ResX() int { return int(c.Desc.Width) }
func (c CameraSpec) ResY() int { return int(c.Desc.Height) }
func (c CameraSpec) FPS() int  { return int(c.Desc.FPS) }

// NewCPTVFileRecorder returns a recorder that writes raw Y16 frames
// to timestamped CPTV files in outputDir.
func NewCPTVFileRecorder(desc *camera.Descriptor, deviceName, outputDir string, minDiskSpaceMB uint64) *CPTVFileRecorder {
	return &CPTVFileRecorder{
		outputDir: outputDir,
		header: cptv.Header{
			DeviceName: deviceName,
			FPS:        int(desc.FPS),
			Brand:      "ircam",
			Model:      desc.Name,
		},
		minDiskSpace: minDiskSpaceMB,
		camera:       CameraSpec{Desc: desc},
	}
}

type CPTVFileRecorder struct {
	outputDir    string
	header       cptv.Header
	minDiskSpace uint64
	camera       CameraSpec
	writer       *cptv.FileWriter
}

func (cfr *CPTVFileRecorder) CheckCanRecord() error {
	enoughSpace, err := checkDiskSpace(cfr.minDiskSpace, cfr.outputDir)
	if err != nil {
		return fmt.Errorf("problem checking disk space: %v", err)
	} else if !enoughSpace {
		return errors.New("not enough free disk space to record")
	}
	return nil
}

func (cfr *CPTVFileRecorder) StartRecording() error {
	filename := filepath.Join(cfr.outputDir, rawRecordingName(time.Now()))
	log.Printf("raw recording started: %s", filename)

	writer, err := cptv.NewFileWriter(filename, cfr.camera)
	if err != nil {
		return err
	}

	if err := writer.WriteHeader(cfr.header); err != nil {
		writer.Close()
		return err
	}

	cfr.writer = writer
	return nil
}

func (cfr *CPTVFileRecorder) StopRecording() error {
	if cfr.writer == nil {
		return nil
	}
	cfr.writer.Close()
	log.Printf("raw recording stopped: %s", cfr.writer.Name())
	cfr.writer = nil
	return nil
}

// WriteFrame appends one little-endian Y16 frame.
func (cfr *CPTVFileRecorder) WriteFrame(raw []byte) error {
	frame := cptvframe.NewFrame(cfr.camera)
	i := 0
	for y := range frame.Pix {
		for x := range frame.Pix[y] {
			frame.Pix[y][x] = uint16(raw[i]) | uint16(raw[i+1])<<8
			i += 2
		}
	}
	return cfr.writer.WriteFrame(frame)
}

func rawRecordingName(t time.Time) string {
	return fmt.Sprintf("%d-raw.cptv", t.Unix())
}
