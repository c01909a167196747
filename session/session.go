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

// Package session runs the frame loop: acquire a raw frame, render
// it, feed the recorders and the network, paint the display, handle
// input. Everything happens on one goroutine; other goroutines talk
// to a running session only through Inject and Stop.
package session

import (
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/ircam-tools/ircam-viewer/inet"
	"github.com/ircam-tools/ircam-viewer/loglimiter"
	"github.com/ircam-tools/ircam-viewer/recorder"
	"github.com/ircam-tools/ircam-viewer/render"
)

// Event is one user action, decoupled from whatever key or remote
// call produced it.
type Event int

const (
	EvQuit Event = iota
	EvPause
	EvHelp
	EvLicense
	EvColormap
	EvAutoScale
	EvSeedScale
	EvText
	EvMarkers
	EvUnits
	EvInvert
	EvRotate
	EvMinUp
	EvMinDown
	EvMaxUp
	EvMaxDown
	EvMinFloor
	EvMaxCeil
	EvGamma
	EvContours
	EvRecordRaw
	EvRecordVideo
	EvCrosshairUp
	EvCrosshairDown
	EvCrosshairLeft
	EvCrosshairRight
)

// Text overlay modes cycled by EvText: white text, black text, none.
const (
	TextWhite = iota
	TextBlack
	TextOff
	numTextModes
)

// Overlay carries everything the display draws besides the pixels.
type Overlay struct {
	Stats render.Stats
	State *render.State

	Fahrenheit  bool
	TextMode    int
	Markers     bool
	Paused      bool
	ShowHelp    bool
	ShowLicense bool

	RecordingRaw   bool
	RecordingVideo bool

	Seq     uint32
	Dropped uint64
}

// UI is the display and input surface. Paint is called once per
// frame; PollEvents drains pending input without blocking.
type UI interface {
	Paint(pix []byte, ov Overlay) error
	PollEvents() ([]Event, error)
	Close() error
}

// Config holds the session settings that do not come from the
// camera.
type Config struct {
	DeviceName     string
	OutputDir      string
	MinDiskSpaceMB uint64

	// RecordRawOnStart starts a raw recording as soon as frames
	// flow, for headless capture.
	RecordRawOnStart bool
}

type Session struct {
	source Source
	ui     UI
	sender *inet.Sender
	cfg    Config

	engine *render.Engine
	state  *render.State
	pix    []byte

	rawRec   recorder.Recorder
	videoRec recorder.Recorder

	fahrenheit  bool
	textMode    int
	markers     bool
	paused      bool
	showHelp    bool
	showLicense bool

	lastStats render.Stats
	nextSeq   uint32
	haveSeq   bool
	dropped   uint64

	limiter   *loglimiter.LogLimiter
	inject    chan Event
	stop      int32
	frameHook func()
}

// New builds a session around a frame source. ui may be nil for
// headless operation.
func New(source Source, ui UI, cfg Config) *Session {
	desc := source.Descriptor()
	return &Session{
		source:     source,
		ui:         ui,
		cfg:        cfg,
		engine:     render.NewEngine(int(desc.Width), int(desc.Height)),
		state:      render.NewState(int(desc.Width), int(desc.Height)),
		pix:        make([]byte, desc.VideoSize),
		fahrenheit: true,
		limiter:    loglimiter.New(time.Minute),
		inject:     make(chan Event, 16),
	}
}

// SetSender streams every raw frame to a remote viewer as well.
func (s *Session) SetSender(sender *inet.Sender) {
	s.sender = sender
}

// SetFrameHook registers a function called once per loop iteration,
// before the next frame is acquired.
func (s *Session) SetFrameHook(hook func()) {
	s.frameHook = hook
}

// Stop ends the session after the current iteration. Safe to call
// from other goroutines.
func (s *Session) Stop() {
	atomic.StoreInt32(&s.stop, 1)
}

// Inject queues an event as if the user had pressed the matching
// key. Safe to call from other goroutines; events are dropped if
// the session cannot keep up.
func (s *Session) Inject(ev Event) {
	select {
	case s.inject <- ev:
	default:
	}
}

// Run drives the frame loop until Stop, EvQuit or a fatal error.
func (s *Session) Run() error {
	defer s.shutdown()

	if s.cfg.RecordRawOnStart {
		s.toggleRawRecording()
	}

	for atomic.LoadInt32(&s.stop) == 0 {
		if s.frameHook != nil {
			s.frameHook()
		}
		s.drainInjected()
		if atomic.LoadInt32(&s.stop) != 0 {
			break
		}

		frame, err := s.source.NextFrame()
		if err == ErrNoFrame {
			continue
		}
		if err != nil {
			return err
		}

		perr := s.processFrame(frame)
		if rerr := s.source.ReleaseFrame(frame); perr == nil {
			perr = rerr
		}
		if perr != nil {
			return perr
		}
	}
	return nil
}

func (s *Session) processFrame(frame *Frame) error {
	s.countDrops(frame.Seq)

	stats, err := s.engine.Transform(frame.Raw, s.state, s.pix)
	if err != nil {
		return fmt.Errorf("rendering frame %d: %w", frame.Seq, err)
	}
	s.lastStats = stats

	// A failed sink ends the session, but finalizing it first keeps
	// the already written output intact.
	if s.rawRec != nil {
		if err := s.rawRec.WriteFrame(frame.Raw); err != nil {
			s.rawRec.StopRecording()
			s.rawRec = nil
			return fmt.Errorf("raw recording failed: %w", err)
		}
	}
	if s.videoRec != nil {
		if err := s.videoRec.WriteFrame(s.pix); err != nil {
			s.videoRec.StopRecording()
			s.videoRec = nil
			return fmt.Errorf("video recording failed: %w", err)
		}
	}

	if s.sender != nil {
		if err := s.sender.SendFrame(frame.Raw); err != nil {
			return fmt.Errorf("remote viewer gone: %w", err)
		}
	}

	if s.ui != nil {
		// A paused display keeps its last frame; the source is
		// still drained so live buffers never starve.
		if !s.paused {
			if err := s.ui.Paint(s.pix, s.overlay(frame.Seq)); err != nil {
				s.limiter.Printf("paint failed: %v", err)
			}
		}
		events, err := s.ui.PollEvents()
		if err != nil {
			return err
		}
		for _, ev := range events {
			s.handleEvent(ev)
		}
	}
	return nil
}

func (s *Session) overlay(seq uint32) Overlay {
	return Overlay{
		Stats:          s.lastStats,
		State:          s.state,
		Fahrenheit:     s.fahrenheit,
		TextMode:       s.textMode,
		Markers:        s.markers,
		Paused:         s.paused,
		ShowHelp:       s.showHelp,
		ShowLicense:    s.showLicense,
		RecordingRaw:   s.rawRec != nil,
		RecordingVideo: s.videoRec != nil,
		Seq:            seq,
		Dropped:        s.dropped,
	}
}

func (s *Session) countDrops(seq uint32) {
	if s.haveSeq && seq != s.nextSeq {
		s.dropped += uint64(seq - s.nextSeq)
		s.limiter.Printf("dropped %d frame(s)", seq-s.nextSeq)
	}
	s.nextSeq = seq + 1
	s.haveSeq = true
}

func (s *Session) handleEvent(ev Event) {
	switch ev {
	case EvQuit:
		s.Stop()
	case EvPause:
		s.paused = !s.paused
	case EvHelp:
		s.showHelp = !s.showHelp
		s.showLicense = false
	case EvLicense:
		s.showLicense = !s.showLicense
		s.showHelp = false
	case EvColormap:
		s.state.Colormap = !s.state.Colormap
	case EvAutoScale:
		s.state.AutoScale()
	case EvSeedScale:
		s.state.SetManualScale(s.lastStats.RawMin, s.lastStats.RawMax)
	case EvText:
		s.textMode = (s.textMode + 1) % numTextModes
	case EvMarkers:
		s.markers = !s.markers
	case EvUnits:
		s.fahrenheit = !s.fahrenheit
	case EvInvert:
		s.state.Invert = !s.state.Invert
	case EvRotate:
		s.state.Rotate = !s.state.Rotate
	case EvMinUp:
		s.state.AdjustMin(render.ScaleStep)
	case EvMinDown:
		s.state.AdjustMin(-render.ScaleStep)
	case EvMaxUp:
		s.state.AdjustMax(render.ScaleStep)
	case EvMaxDown:
		s.state.AdjustMax(-render.ScaleStep)
	case EvMinFloor:
		if s.state.ManualScale() {
			s.state.ScaleMin = 0
		}
	case EvMaxCeil:
		if s.state.ManualScale() {
			s.state.ScaleMax = 0xFFFF
		}
	case EvGamma:
		s.state.CycleGamma()
	case EvContours:
		s.state.CycleContours()
	case EvRecordRaw:
		s.toggleRawRecording()
	case EvRecordVideo:
		s.toggleVideoRecording()
	case EvCrosshairUp:
		s.state.MoveCrosshair(0, -1)
	case EvCrosshairDown:
		s.state.MoveCrosshair(0, 1)
	case EvCrosshairLeft:
		s.state.MoveCrosshair(-1, 0)
	case EvCrosshairRight:
		s.state.MoveCrosshair(1, 0)
	}
}

func (s *Session) toggleRawRecording() {
	if s.rawRec != nil {
		if err := s.rawRec.StopRecording(); err != nil {
			log.Printf("stopping raw recording: %v", err)
		}
		s.rawRec = nil
		return
	}

	rec := recorder.NewCPTVFileRecorder(
		s.source.Descriptor(), s.cfg.DeviceName,
		s.cfg.OutputDir, s.cfg.MinDiskSpaceMB)
	if err := rec.CheckCanRecord(); err != nil {
		log.Printf("can't record: %v", err)
		return
	}
	if err := rec.StartRecording(); err != nil {
		log.Printf("starting raw recording: %v", err)
		return
	}
	s.rawRec = rec
}

func (s *Session) toggleVideoRecording() {
	if s.videoRec != nil {
		if err := s.videoRec.StopRecording(); err != nil {
			log.Printf("stopping video recording: %v", err)
		}
		s.videoRec = nil
		return
	}

	rec := recorder.NewIRVFileRecorder(
		s.source.Descriptor(), s.cfg.OutputDir, s.cfg.MinDiskSpaceMB)
	if err := rec.CheckCanRecord(); err != nil {
		log.Printf("can't record: %v", err)
		return
	}
	if err := rec.StartRecording(); err != nil {
		log.Printf("starting video recording: %v", err)
		return
	}
	s.videoRec = rec
}

func (s *Session) drainInjected() {
	for {
		select {
		case ev := <-s.inject:
			s.handleEvent(ev)
		default:
			return
		}
	}
}

// Sinks close in the reverse of the order frames flow through them.
func (s *Session) shutdown() {
	if s.ui != nil {
		if err := s.ui.Close(); err != nil {
			log.Printf("closing display: %v", err)
		}
	}
	if s.sender != nil {
		if err := s.sender.Close(); err != nil {
			log.Printf("closing network sender: %v", err)
		}
	}
	if s.videoRec != nil {
		s.videoRec.StopRecording()
		s.videoRec = nil
	}
	if s.rawRec != nil {
		s.rawRec.StopRecording()
		s.rawRec = nil
	}
	if err := s.source.Close(); err != nil {
		log.Printf("closing frame source: %v", err)
	}
}
