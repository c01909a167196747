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

package main

import (
	"fmt"
	"image"
	"log"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"github.com/veandco/go-sdl2/ttf"

	"github.com/ircam-tools/ircam-viewer/camera"
	"github.com/ircam-tools/ircam-viewer/render"
	"github.com/ircam-tools/ircam-viewer/session"
)

const windowName = "Linux V4L2/SDL2 IR Camera Viewer"

// Overlay text renders at font size 32 and paints at one fifth
// scale, like the original font cache did.
const (
	fontSize  = 32
	fontScale = 5
)

var (
	colorRed  = sdl.Color{R: 255, A: 255}
	colorBlue = sdl.Color{B: 255, A: 255}
)

type sdlUI struct {
	desc     *camera.Descriptor
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	font     *ttf.Font

	playback     bool
	textColor    sdl.Color
	showInitHelp bool
	opened       time.Time
}

// openSDL creates the viewer window. The renderer prefers hardware
// acceleration but falls back to software.
func openSDL(desc *camera.Descriptor, conf *Config, playback bool) (*sdlUI, error) {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("can't initialize SDL: %v", err)
	}

	windowFlags := uint32(sdl.WINDOW_OPENGL)
	if conf.Fullscreen {
		windowFlags |= sdl.WINDOW_FULLSCREEN
	}
	window, err := sdl.CreateWindow(windowName,
		sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		int32(conf.WindowWidth), int32(conf.WindowHeight()), windowFlags)
	if err != nil {
		return nil, fmt.Errorf("can't create window: %v", err)
	}

	renderer, err := sdl.CreateRenderer(window, -1,
		sdl.RENDERER_PRESENTVSYNC|sdl.RENDERER_ACCELERATED)
	if err != nil {
		log.Printf("falling back to software renderer: %v", err)
		renderer, err = sdl.CreateRenderer(window, -1,
			sdl.RENDERER_PRESENTVSYNC|sdl.RENDERER_SOFTWARE)
		if err != nil {
			return nil, fmt.Errorf("can't create renderer: %v", err)
		}
	}

	renderer.SetLogicalSize(desc.Width, desc.Height)
	sdl.ShowCursor(sdl.DISABLE)

	texture, err := renderer.CreateTexture(sdl.PIXELFORMAT_BGRA32,
		sdl.TEXTUREACCESS_STREAMING, desc.Width, desc.Height)
	if err != nil {
		return nil, fmt.Errorf("can't create texture: %v", err)
	}

	if err := ttf.Init(); err != nil {
		return nil, fmt.Errorf("can't initialize SDL-TTF: %v", err)
	}
	font, err := ttf.OpenFont(conf.Font, fontSize)
	if err != nil {
		return nil, fmt.Errorf("can't open %s, pass a valid font with -f: %v", conf.Font, err)
	}

	return &sdlUI{
		desc:         desc,
		window:       window,
		renderer:     renderer,
		texture:      texture,
		font:         font,
		playback:     playback,
		textColor:    sdl.Color{R: 255, G: 255, B: 255, A: 255},
		showInitHelp: !conf.HideHelp,
		opened:       time.Now(),
	}, nil
}

func (u *sdlUI) Paint(pix []byte, ov session.Overlay) error {
	if err := u.texture.Update(nil, pix, int(u.desc.Width)*4); err != nil {
		return err
	}
	if err := u.renderer.Copy(u.texture, nil, nil); err != nil {
		return err
	}

	if u.showInitHelp && time.Since(u.opened) > 5*time.Second {
		u.showInitHelp = false
	}

	if ov.TextMode != session.TextOff {
		val := uint8(255)
		if ov.TextMode == session.TextBlack {
			val = 0
		}
		u.textColor = sdl.Color{R: val, G: val, B: val, A: 255}

		u.drawOverlay(ov)

		if !ov.ShowHelp {
			u.drawMarker(ov.State.Crosshair, 2, u.textColor)
		}
		if ov.Markers && !ov.Paused {
			u.drawMarker(ov.Stats.MinPos, 1, colorBlue)
			u.drawMarker(ov.Stats.MaxPos, 1, colorRed)
		}
	}

	if ov.ShowHelp {
		u.drawHelp()
	} else if ov.ShowLicense {
		u.drawLicense()
	}

	u.renderer.Present()
	return nil
}

func (u *sdlUI) drawOverlay(ov session.Overlay) {
	min := render.RawToCelsius(ov.Stats.RawMin)
	cross := render.RawToCelsius(ov.Stats.Crosshair)
	max := render.RawToCelsius(ov.Stats.RawMax)

	u.drawText(0, 0, fmt.Sprintf("%s %s %s",
		formatTemp(min, ov.Fahrenheit),
		formatTemp(cross, ov.Fahrenheit),
		formatTemp(max, ov.Fahrenheit)))

	if ov.State.ManualScale() {
		u.drawText(0, 7, fmt.Sprintf("[%s   %s]",
			formatTemp(render.RawToCelsius(ov.State.ScaleMin), ov.Fahrenheit),
			formatTemp(render.RawToCelsius(ov.State.ScaleMax), ov.Fahrenheit)))
	} else {
		u.drawText(0, 7, "[   AUTO   AUTO   ]")
	}

	u.drawText(0, 14, fmt.Sprintf("[ GAM %s  CON %d ]",
		render.GammaLabels[ov.State.GammaIndex], ov.State.Contours))

	if ov.RecordingRaw && !u.playback {
		u.drawText(0, 21, "[REC]")
	}
	if ov.RecordingVideo {
		u.drawText(20, 21, "[VREC]")
	}
	if ov.Paused && u.playback {
		u.drawText(46, 21, "[PAUSE]")
	}

	fps := u.desc.FPS
	u.drawText(u.desc.Width-40, 1, fmt.Sprintf("[%05d.%02d]",
		ov.Seq/fps, ov.Seq%fps*100/fps))
	u.drawText(u.desc.Width-45, 8, fmt.Sprintf("%5d DROPS", ov.Dropped))

	if u.showInitHelp {
		u.drawText(90, 50, "HOLD [H] FOR HELP")
		u.drawText(90, 64, "THIS PROGRAM COMES WITH")
		u.drawText(90, 71, "ABSOLUTELY NO WARRANTY")
		u.drawText(90, 78, "HOLD [L] FOR LICENSE")
	}
}

func formatTemp(t render.Temp, fahrenheit bool) string {
	unit := byte('C')
	if fahrenheit {
		t = render.CelsiusToFahrenheit(t)
		unit = 'F'
	}
	sign := " "
	if t.Neg() {
		sign = "-"
	}
	return fmt.Sprintf("%s%d.%02d%c", sign, t.Whole(), t.Hundredths(), unit)
}

func (u *sdlUI) drawText(x, y int32, s string) {
	surface, err := u.font.RenderUTF8Blended(s, u.textColor)
	if err != nil {
		return
	}
	defer surface.Free()

	texture, err := u.renderer.CreateTextureFromSurface(surface)
	if err != nil {
		return
	}
	defer texture.Destroy()

	dst := sdl.Rect{X: x, Y: y, W: surface.W / fontScale, H: surface.H / fontScale}
	u.renderer.Copy(texture, nil, &dst)
}

func (u *sdlUI) drawMarker(center image.Point, size int32, color sdl.Color) {
	r, g, b, a, _ := u.renderer.GetDrawColor()
	u.renderer.SetDrawColor(color.R, color.G, color.B, color.A)

	x, y := int32(center.X), int32(center.Y)
	u.renderer.DrawLine(x, y-size, x, y+size)
	u.renderer.DrawLine(x-size, y, x+size, y)

	u.renderer.SetDrawColor(r, g, b, a)
}

var helpText = []string{
	"D: MANUAL SCALE",
	"E: AUTO SCALE",
	"Q/W: MAN SCALE MIN/MAX ++",
	"A/S: MAN SCALE MIN/MAX --",
	"Z: MIN TO MINIMUM",
	"X: MAX TO MAXIMUM",
	"R: TOGGLE Y16 RECORD",
	"V: TOGGLE RGBA RECORD",
	"T: TOGGLE TXT COLOR/ON/OFF",
	"M: TOGGLE SHOW MIN/MAX MARKER",
	"G: TOGGLE GAMMA CORR",
	"Y: TOGGLE CONTOURING",
	"F: TOGGLE UNITS F/C",
	"I: TOGGLE INVERT",
	"U: TOGGLE OUTPUT ROTATION",
	"C: TOGGLE GRAYSCALE",
	"ARROW KEYS MOVE CROSS",
	"SPACEBAR PAUSES PLAYBACK",
	"L: SHOW LICENSE DETAILS",
	"H: SHOW THIS HELP TEXT",
}

func (u *sdlUI) drawHelp() {
	for i, line := range helpText {
		u.drawText(40, int32(30+i*7), line)
	}
}

var licenseText = []string{
	"Linux Infrared Camera Viewer",
	"Copyright (C) 2026 the ircam-viewer authors",
	"",
	"This program is free software: you can",
	"redistribute it and/or modify it under the",
	"terms of the GNU General Public License as",
	"published by the Free Software Foundation,",
	"either version 3 of the License, or (at",
	"your option) any later version.",
	"",
	"This program is distributed in the hope that",
	"it will be useful, but WITHOUT ANY WARRANTY;",
	"without even the implied warranty of",
	"MERCHANTABILITY or FITNESS FOR A PARTICULAR",
	"PURPOSE. See the GNU General Public License",
	"for more details.",
	"",
	"You should have received a copy of the GNU",
	"General Public License along with this",
	"program. If not see <www.gnu.org/licenses>.",
}

func (u *sdlUI) drawLicense() {
	for i, line := range licenseText {
		u.drawText(40, int32(31+i*7), line)
	}
}

// PollEvents drains SDL's event queue. Help and license text shows
// while the key is held, so those keys report both edges.
func (u *sdlUI) PollEvents() ([]session.Event, error) {
	var events []session.Event

	for {
		event := sdl.PollEvent()
		if event == nil {
			return events, nil
		}

		switch ev := event.(type) {
		case *sdl.QuitEvent:
			events = append(events, session.EvQuit)

		case *sdl.KeyboardEvent:
			if e, ok := u.mapKey(ev); ok {
				events = append(events, e)
			}
		}
	}
}

func (u *sdlUI) mapKey(ev *sdl.KeyboardEvent) (session.Event, bool) {
	if ev.Type == sdl.KEYUP {
		// Release only matters for the held displays.
		switch ev.Keysym.Scancode {
		case sdl.SCANCODE_H:
			return session.EvHelp, true
		case sdl.SCANCODE_L:
			return session.EvLicense, true
		}
		return 0, false
	}
	if ev.Type != sdl.KEYDOWN {
		return 0, false
	}

	switch ev.Keysym.Scancode {
	case sdl.SCANCODE_H:
		return session.EvHelp, ev.Repeat == 0
	case sdl.SCANCODE_L:
		return session.EvLicense, ev.Repeat == 0
	case sdl.SCANCODE_C:
		return session.EvColormap, true
	case sdl.SCANCODE_E:
		return session.EvAutoScale, true
	case sdl.SCANCODE_T:
		return session.EvText, true
	case sdl.SCANCODE_M:
		return session.EvMarkers, true
	case sdl.SCANCODE_F:
		return session.EvUnits, true
	case sdl.SCANCODE_I:
		return session.EvInvert, true
	case sdl.SCANCODE_U:
		return session.EvRotate, true
	case sdl.SCANCODE_D:
		return session.EvSeedScale, true
	case sdl.SCANCODE_W:
		return session.EvMaxUp, true
	case sdl.SCANCODE_S:
		return session.EvMaxDown, true
	case sdl.SCANCODE_Q:
		return session.EvMinUp, true
	case sdl.SCANCODE_A:
		return session.EvMinDown, true
	case sdl.SCANCODE_Z:
		return session.EvMinFloor, true
	case sdl.SCANCODE_X:
		return session.EvMaxCeil, true
	case sdl.SCANCODE_G:
		return session.EvGamma, true
	case sdl.SCANCODE_R:
		return session.EvRecordRaw, true
	case sdl.SCANCODE_V:
		return session.EvRecordVideo, true
	case sdl.SCANCODE_Y:
		return session.EvContours, true
	case sdl.SCANCODE_RIGHT:
		return session.EvCrosshairRight, true
	case sdl.SCANCODE_LEFT:
		return session.EvCrosshairLeft, true
	case sdl.SCANCODE_UP:
		return session.EvCrosshairUp, true
	case sdl.SCANCODE_DOWN:
		return session.EvCrosshairDown, true
	case sdl.SCANCODE_SPACE:
		return session.EvPause, true
	case sdl.SCANCODE_ESCAPE:
		return session.EvQuit, true
	}
	return 0, false
}

func (u *sdlUI) Close() error {
	u.font.Close()
	ttf.Quit()
	u.texture.Destroy()
	u.renderer.Destroy()
	u.window.Destroy()
	sdl.Quit()
	return nil
}
