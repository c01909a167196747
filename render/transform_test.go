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
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testWidth  = 4
	testHeight = 2
)

func makeRaw(samples ...uint16) []byte {
	raw := make([]byte, len(samples)*2)
	for i, s := range samples {
		raw[i*2] = byte(s)
		raw[i*2+1] = byte(s >> 8)
	}
	return raw
}

func grayState() *State {
	s := NewState(testWidth, testHeight)
	s.Colormap = false
	return s
}

func transform(t *testing.T, raw []byte, s *State) ([]byte, Stats) {
	e := NewEngine(testWidth, testHeight)
	dst := make([]byte, testWidth*testHeight*4)
	stats, err := e.Transform(raw, s, dst)
	require.NoError(t, err)
	return dst, stats
}

func TestTransformEndpoints(t *testing.T) {
	raw := makeRaw(1000, 1200, 1400, 1600, 1800, 2000, 2200, 2400)
	dst, stats := transform(t, raw, grayState())

	assert.Equal(t, uint16(1000), stats.RawMin)
	assert.Equal(t, uint16(2400), stats.RawMax)
	assert.Equal(t, image.Pt(0, 0), stats.MinPos)
	assert.Equal(t, image.Pt(3, 1), stats.MaxPos)

	// The coldest sample maps to 0 and the hottest to 255.
	assert.Equal(t, uint8(0), dst[0])
	assert.Equal(t, uint8(255), dst[7*4])
}

func TestTransformMidpoint(t *testing.T) {
	s := grayState()
	s.SetManualScale(1000, 2000)

	raw := makeRaw(1500, 1500, 1500, 1500, 1500, 1500, 1500, 1500)
	dst, stats := transform(t, raw, s)

	assert.Equal(t, uint16(1000), stats.ScaleMin)
	assert.Equal(t, uint16(2000), stats.ScaleMax)

	// floor(2^24/1000) = 16777; (16777*500)>>16 = 127. The inverse
	// approximation lands one below the exact midpoint.
	for i := 0; i < testWidth*testHeight; i++ {
		assert.Equal(t, uint8(127), dst[i*4])
	}
}

func TestTransformClampsOutsideManualScale(t *testing.T) {
	s := grayState()
	s.SetManualScale(1000, 2000)

	raw := makeRaw(5, 999, 1000, 2000, 2001, 60000, 1500, 1500)
	dst, _ := transform(t, raw, s)

	assert.Equal(t, uint8(0), dst[0*4])
	assert.Equal(t, uint8(0), dst[1*4])
	assert.Equal(t, uint8(0), dst[2*4])
	assert.Equal(t, uint8(255), dst[3*4])
	assert.Equal(t, uint8(255), dst[4*4])
	assert.Equal(t, uint8(255), dst[5*4])
}

func TestTransformBlankFrame(t *testing.T) {
	s := grayState()
	s.SetManualScale(2000, 1000)

	raw := makeRaw(1, 2, 3, 4, 5, 6, 7, 8)
	dst, stats := transform(t, raw, s)

	assert.True(t, stats.Blank)
	for i, b := range dst {
		assert.Zero(t, b, "offset %d", i)
	}
}

func TestTransformUniformFrameIsBlank(t *testing.T) {
	raw := makeRaw(500, 500, 500, 500, 500, 500, 500, 500)
	_, stats := transform(t, raw, grayState())
	assert.True(t, stats.Blank)
}

func TestTransformAlphaOpaque(t *testing.T) {
	raw := makeRaw(0, 100, 200, 300, 400, 500, 600, 65535)
	dst, _ := transform(t, raw, NewState(testWidth, testHeight))
	for i := 0; i < testWidth*testHeight; i++ {
		assert.Equal(t, uint8(0xFF), dst[i*4+3])
	}
}

func TestTransformRotate(t *testing.T) {
	raw := makeRaw(1000, 1200, 1400, 1600, 1800, 2000, 2200, 2400)

	plain, _ := transform(t, raw, grayState())

	s := grayState()
	s.Rotate = true
	rotated, stats := transform(t, raw, s)

	// Rotating 180 degrees reverses the pixel order.
	total := testWidth * testHeight
	for i := 0; i < total; i++ {
		j := total - i - 1
		assert.Equal(t, plain[i*4:i*4+4], rotated[j*4:j*4+4], "pixel %d", i)
	}

	// The extremes report display coordinates, not sensor ones.
	assert.Equal(t, image.Pt(3, 1), stats.MinPos)
	assert.Equal(t, image.Pt(0, 0), stats.MaxPos)
}

func TestTransformCrosshairSample(t *testing.T) {
	raw := makeRaw(10, 20, 30, 40, 50, 60, 70, 80)

	s := grayState()
	s.Crosshair = image.Pt(1, 0)
	_, stats := transform(t, raw, s)
	assert.Equal(t, uint16(20), stats.Crosshair)

	// Under rotation the crosshair reads the mirrored sample.
	s.Rotate = true
	_, stats = transform(t, raw, s)
	assert.Equal(t, uint16(70), stats.Crosshair)
}

func TestTransformInvert(t *testing.T) {
	raw := makeRaw(1000, 1200, 1400, 1600, 1800, 2000, 2200, 2400)

	s := grayState()
	s.Invert = true
	dst, _ := transform(t, raw, s)

	assert.Equal(t, uint8(255), dst[0])
	assert.Equal(t, uint8(0), dst[7*4])
}

func TestTransformContours(t *testing.T) {
	s := grayState()
	s.SetManualScale(1000, 2000)
	s.Contours = 2

	raw := makeRaw(1500, 1500, 1500, 1500, 1500, 1500, 1500, 1500)
	dst, _ := transform(t, raw, s)

	// Intensity 127 doubled stays below the wrap point.
	assert.Equal(t, uint8(254), dst[0])

	// A sample near the top of the range wraps: (16777*900)>>16 is
	// intensity 230, doubled keeps only the low byte (460 & 0xFF).
	raw = makeRaw(1900, 1900, 1900, 1900, 1900, 1900, 1900, 1900)
	dst, _ = transform(t, raw, s)
	assert.Equal(t, uint8(204), dst[0])
}

func TestTransformShortBuffers(t *testing.T) {
	e := NewEngine(testWidth, testHeight)
	s := grayState()

	_, err := e.Transform(make([]byte, 3), s, make([]byte, testWidth*testHeight*4))
	assert.Error(t, err)

	_, err = e.Transform(makeRaw(1, 2, 3, 4, 5, 6, 7, 8), s, make([]byte, 7))
	assert.Error(t, err)
}

func TestStateScaleAdjustment(t *testing.T) {
	s := NewState(testWidth, testHeight)

	// Adjustments are ignored until a manual scale is engaged.
	s.AdjustMax(ScaleStep)
	s.AdjustMin(-ScaleStep)
	assert.False(t, s.ManualScale())

	s.SetManualScale(5, 65530)
	s.AdjustMin(-ScaleStep)
	s.AdjustMax(ScaleStep)
	assert.Equal(t, uint16(0), s.ScaleMin)
	assert.Equal(t, uint16(65535), s.ScaleMax)

	s.AdjustMin(ScaleStep)
	s.AdjustMax(-ScaleStep)
	assert.Equal(t, uint16(ScaleStep), s.ScaleMin)
	assert.Equal(t, uint16(65535-ScaleStep), s.ScaleMax)

	s.AutoScale()
	assert.False(t, s.ManualScale())
}

func TestStateCrosshairWraps(t *testing.T) {
	s := NewState(testWidth, testHeight)
	assert.Equal(t, image.Pt(2, 1), s.Crosshair)

	s.MoveCrosshair(1, 0)
	assert.Equal(t, image.Pt(3, 1), s.Crosshair)
	s.MoveCrosshair(1, 0)
	assert.Equal(t, image.Pt(0, 1), s.Crosshair)
	s.MoveCrosshair(-1, 0)
	assert.Equal(t, image.Pt(3, 1), s.Crosshair)

	s.MoveCrosshair(0, 1)
	assert.Equal(t, image.Pt(3, 0), s.Crosshair)
	s.MoveCrosshair(0, -1)
	assert.Equal(t, image.Pt(3, 1), s.Crosshair)
}

func TestStateCycles(t *testing.T) {
	s := NewState(testWidth, testHeight)

	for i := 1; i < NumGammaVals; i++ {
		s.CycleGamma()
		assert.Equal(t, i, s.GammaIndex)
	}
	s.CycleGamma()
	assert.Equal(t, 0, s.GammaIndex)

	for i := 2; i <= MaxContours; i++ {
		s.CycleContours()
		assert.Equal(t, i, s.Contours)
	}
	s.CycleContours()
	assert.Equal(t, 1, s.Contours)
}
