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

import "math"

// Channel indexes into the colormap entries.
const (
	Red = iota
	Green
	Blue
)

// turboSRGB is the Turbo colormap, built from the published
// fifth-order polynomial fit. Turbo is perceptually smoother than
// the classic rainbow maps while keeping their intuitive
// cold-to-hot reading.
var turboSRGB [256][3]uint8

func init() {
	poly := func(t float64, c [6]float64) float64 {
		v := c[0] + t*(c[1]+t*(c[2]+t*(c[3]+t*(c[4]+t*c[5]))))
		return math.Min(1, math.Max(0, v))
	}
	rc := [6]float64{0.13572138, 4.61539260, -42.66032258, 132.13108234, -152.94239396, 59.28637943}
	gc := [6]float64{0.09140261, 2.19418839, 4.84296658, -14.18503333, 4.27729857, 2.82956604}
	bc := [6]float64{0.10667330, 12.64194608, -60.58204836, 110.36276771, -89.90310912, 27.34824973}

	for i := range turboSRGB {
		t := float64(i) / 255
		turboSRGB[i][Red] = uint8(math.Round(poly(t, rc) * 255))
		turboSRGB[i][Green] = uint8(math.Round(poly(t, gc) * 255))
		turboSRGB[i][Blue] = uint8(math.Round(poly(t, bc) * 255))
	}
}
