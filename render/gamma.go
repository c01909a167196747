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
	"math"
)

// Gamma correction presets cycled by the gamma toggle. Index 0 is a
// pass-through; the lookup for it is never consulted.
var gammaVals = []float64{1.0, 0.125, 0.25, 0.5, 0.75, 1.25, 1.5, 1.75, 2.0, 4.0}

// GammaLabels holds the preset names shown in the overlay.
var GammaLabels []string

// NumGammaVals is the number of gamma presets.
var NumGammaVals = len(gammaVals)

var gammaLookup [][256]uint8

func init() {
	GammaLabels = make([]string, len(gammaVals))
	gammaLookup = make([][256]uint8, len(gammaVals))
	for g, gval := range gammaVals {
		GammaLabels[g] = fmt.Sprintf("%1.2f", gval)
		for i := 0; i < 256; i++ {
			v := math.Round(math.Pow(float64(i)/255, 1/gval) * 255)
			gammaLookup[g][i] = uint8(v)
		}
	}
}
