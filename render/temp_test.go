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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRawToCelsius(t *testing.T) {
	assert.Equal(t, Temp(0), RawToCelsius(uint16(absZero)))
	assert.Equal(t, "0.00", RawToCelsius(uint16(absZero)).String())

	assert.Equal(t, "1.00", RawToCelsius(uint16(absZero)+64).String())
	assert.Equal(t, "-0.50", RawToCelsius(uint16(absZero)-32).String())
	assert.Equal(t, "-10.25", RawToCelsius(uint16(absZero)-10*64-16).String())
}

func TestCelsiusToFahrenheitFixedPoints(t *testing.T) {
	// Freezing and boiling.
	assert.Equal(t, "32.00", CelsiusToFahrenheit(0).String())
	assert.Equal(t, "212.00", CelsiusToFahrenheit(100*64).String())

	// The scales cross at -40.
	assert.Equal(t, "-40.00", CelsiusToFahrenheit(-40*64).String())
}

func TestCelsiusToFahrenheitSignFlip(t *testing.T) {
	// -17.78C is 0F: negative Celsius, non-negative Fahrenheit.
	f := CelsiusToFahrenheit(-(17*64 + 50))
	assert.False(t, f.Neg())
	assert.Equal(t, "0.00", f.String())

	// -1C stays above 0F.
	f = CelsiusToFahrenheit(-64)
	assert.False(t, f.Neg())
	assert.Equal(t, "30.20", f.String())

	// -20C lands below 0F.
	assert.True(t, CelsiusToFahrenheit(-20*64).Neg())
}

func TestCelsiusToFahrenheitTracksRealArithmetic(t *testing.T) {
	for raw := 0; raw <= 0xFFFF; raw += 7 {
		c := RawToCelsius(uint16(raw))
		f := CelsiusToFahrenheit(c)

		want := (float64(raw)-float64(absZero))/64*9/5 + 32
		got := float64(f) / 64

		assert.InDelta(t, want, got, 0.03, "raw=%d", raw)
	}
}

func TestTempAccessors(t *testing.T) {
	v := Temp(-(3*64 + 48))
	assert.True(t, v.Neg())
	assert.Equal(t, 3, v.Whole())
	assert.Equal(t, 48, v.Frac())
	assert.Equal(t, 75, v.Hundredths())
	assert.Equal(t, "-3.75", v.String())
}
