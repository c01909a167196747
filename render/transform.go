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

import (
	"fmt"
	"image"
	"math"
)

// Stats describes a single transformed frame: the raw extremes and
// where they sit in display coordinates, the sample under the
// crosshair, and the scale range actually applied.
type Stats struct {
	RawMin uint16
	RawMax uint16
	MinPos image.Point
	MaxPos image.Point

	Crosshair uint16

	ScaleMin uint16
	ScaleMax uint16

	// Blank is set when the scale range was degenerate and the
	// output frame was zeroed.
	Blank bool
}

// Engine converts raw Y16 frames into displayable BGRA frames.
type Engine struct {
	width  int
	height int
}

// NewEngine returns a transform engine for the given frame geometry.
func NewEngine(width, height int) *Engine {
	return &Engine{width: width, height: height}
}

// Transform normalizes one little-endian Y16 frame into dst as BGRA,
// applying the contour, gamma, inversion and colormap settings from
// state. The raw buffer must hold width*height samples and dst must
// hold width*height*4 bytes; neither is retained.
func (e *Engine) Transform(raw []byte, state *State, dst []byte) (Stats, error) {
	total := e.width * e.height
	if len(raw) < total*2 {
		return Stats{}, fmt.Errorf("short raw frame: %d < %d", len(raw), total*2)
	}
	if len(dst) < total*4 {
		return Stats{}, fmt.Errorf("short output frame: %d < %d", len(dst), total*4)
	}

	stats := Stats{RawMin: math.MaxUint16}

	// With rotation the sample under the crosshair is the mirrored
	// one, so mirror the read rather than the whole frame.
	ci := state.Crosshair.Y*e.width + state.Crosshair.X
	if state.Rotate {
		ci = total - ci - 1
	}
	stats.Crosshair = uint16(raw[ci*2]) | uint16(raw[ci*2+1])<<8

	for i := 0; i < total; i++ {
		v := uint16(raw[i*2]) | uint16(raw[i*2+1])<<8
		if v > stats.RawMax {
			stats.RawMax = v
			stats.MaxPos = e.displayPoint(i, state.Rotate)
		}
		if v < stats.RawMin {
			stats.RawMin = v
			stats.MinPos = e.displayPoint(i, state.Rotate)
		}
	}

	min, max := stats.RawMin, stats.RawMax
	if state.ManualScale() {
		min, max = state.ScaleMin, state.ScaleMax
	}
	stats.ScaleMin, stats.ScaleMax = min, max

	// A manual range can be empty or inverted. Emit a black frame
	// instead of dividing by zero.
	if min >= max {
		for i := 0; i < total*4; i++ {
			dst[i] = 0
		}
		stats.Blank = true
		return stats, nil
	}

	// The scale denominator is constant across the frame, so one
	// division yields a 24-bit multiplicative inverse and each
	// sample costs a multiply and a shift.
	multinv := uint32(1<<24) / uint32(max-min)

	for i := 0; i < total; i++ {
		v := uint32(raw[i*2]) | uint32(raw[i*2+1])<<8

		var pval uint8
		switch {
		case v <= uint32(min):
			pval = 0
		case v >= uint32(max):
			pval = 255
		default:
			pval = uint8((multinv * (v - uint32(min))) >> 16)
		}

		out := i * 4
		if state.Rotate {
			// Rotating 180 degrees is walking the output
			// backwards while the channels stay in order.
			out = (total - i - 1) * 4
		}

		dst[out+0] = state.shade(Blue, pval)
		dst[out+1] = state.shade(Green, pval)
		dst[out+2] = state.shade(Red, pval)
		dst[out+3] = 0xFF
	}

	return stats, nil
}

// displayPoint maps a flattened sample index to display coordinates,
// accounting for rotation.
func (e *Engine) displayPoint(i int, rotate bool) image.Point {
	x, y := i%e.width, i/e.width
	if rotate {
		return image.Pt(e.width-1-x, e.height-1-y)
	}
	return image.Pt(x, y)
}

// shade runs one normalized sample through the postprocessing chain
// for a single color channel.
func (s *State) shade(channel int, v uint8) uint8 {
	if s.Contours > 1 {
		v = uint8(uint32(v) * uint32(s.Contours) & 0xFF)
	}
	if s.GammaIndex != 0 {
		v = gammaLookup[s.GammaIndex][v]
	}
	if s.Invert {
		v = ^v
	}
	if s.Colormap {
		return turboSRGB[v][channel]
	}
	return v
}
