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

package render

import "image"

// ScaleStep is the raw-sample increment applied by the manual scale
// adjustment operations.
const ScaleStep = 8

// MaxContours is the largest contour band count; cycling wraps back
// to 1 (off).
const MaxContours = 8

// State holds the per-session render settings consulted by the
// transform. It is owned by the session controller and mutated only
// in response to input events.
type State struct {
	width  int
	height int

	Colormap   bool
	GammaIndex int
	Contours   int
	Invert     bool
	Rotate     bool

	// Manual scale bounds; 0/0 means auto scale.
	ScaleMin uint16
	ScaleMax uint16

	Crosshair image.Point
}

// NewState returns render settings with the startup defaults:
// colormap on, no gamma, no contours, crosshair centered.
func NewState(width, height int) *State {
	return &State{
		width:     width,
		height:    height,
		Colormap:  true,
		Contours:  1,
		Crosshair: image.Pt(width/2, height/2),
	}
}

// ManualScale reports whether a manual scale range is engaged.
func (s *State) ManualScale() bool {
	return s.ScaleMin != 0 || s.ScaleMax != 0
}

// SetManualScale pins the scale to an explicit raw-sample range,
// typically seeded from the current frame's statistics.
func (s *State) SetManualScale(min, max uint16) {
	s.ScaleMin = min
	s.ScaleMax = max
}

// AutoScale reverts to per-frame min/max scaling.
func (s *State) AutoScale() {
	s.ScaleMin = 0
	s.ScaleMax = 0
}

// AdjustMin steps the manual minimum, saturating at 0 and 65535.
// Ignored while auto scale is active.
func (s *State) AdjustMin(delta int) {
	if s.ManualScale() {
		s.ScaleMin = saturate(int(s.ScaleMin) + delta)
	}
}

// AdjustMax steps the manual maximum, saturating at 0 and 65535.
// Ignored while auto scale is active.
func (s *State) AdjustMax(delta int) {
	if s.ManualScale() {
		s.ScaleMax = saturate(int(s.ScaleMax) + delta)
	}
}

// CycleGamma advances to the next gamma preset.
func (s *State) CycleGamma() {
	s.GammaIndex = (s.GammaIndex + 1) % NumGammaVals
}

// CycleContours advances the contour band count, wrapping to 1.
func (s *State) CycleContours() {
	if s.Contours >= MaxContours {
		s.Contours = 1
	} else {
		s.Contours++
	}
}

// MoveCrosshair shifts the crosshair, wrapping at the frame edges.
func (s *State) MoveCrosshair(dx, dy int) {
	s.Crosshair.X = wrap(s.Crosshair.X+dx, s.width)
	s.Crosshair.Y = wrap(s.Crosshair.Y+dy, s.height)
}

func saturate(v int) uint16 {
	if v < 0 {
		return 0
	}
	if v > 0xFFFF {
		return 0xFFFF
	}
	return uint16(v)
}

func wrap(v, limit int) int {
	if v < 0 {
		return limit - 1
	}
	if v >= limit {
		return 0
	}
	return v
}
