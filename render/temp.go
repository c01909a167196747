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

import "fmt"

// Temp is a fixed-point temperature in sixty-fourths of a degree.
// The sensor's raw samples are Kelvin in exactly this scale: the
// high bits of a sample are whole Kelvin, the low 6 bits are
// sixty-fourths.
type Temp int32

// The sensor's zero Celsius reference: 273 + 10/64 Kelvin.
const absZero Temp = 273*64 + 10

// RawToKelvin reinterprets a raw 16-bit sensor sample as Kelvin.
func RawToKelvin(raw uint16) Temp {
	return Temp(raw)
}

// KelvinToCelsius subtracts the absolute zero reference.
func KelvinToCelsius(t Temp) Temp {
	return t - absZero
}

// RawToCelsius converts a raw sensor sample to Celsius.
func RawToCelsius(raw uint16) Temp {
	return KelvinToCelsius(RawToKelvin(raw))
}

// Decimal lookup pair between sixty-fourths and hundredths:
//
//	python3 -c 'print([int(round(i / 64 * 100, 0)) for i in range(64)])'
//	python3 -c 'print([int(round(i / 100 * 64, 0)) for i in range(100)])'
var fracToHundredths = [64]uint8{
	0, 2, 3, 5, 6, 8, 9, 11, 12, 14, 16, 17, 19, 20, 22, 23,
	25, 27, 28, 30, 31, 33, 34, 36, 38, 39, 41, 42, 44, 45, 47, 48,
	50, 52, 53, 55, 56, 58, 59, 61, 62, 64, 66, 67, 69, 70, 72, 73,
	75, 77, 78, 80, 81, 83, 84, 86, 88, 89, 91, 92, 94, 95, 97, 98,
}

var hundredthsToFrac = [100]uint8{
	0, 1, 1, 2, 3, 3, 4, 4, 5, 6, 6, 7, 8, 8, 9, 10, 10,
	11, 12, 12, 13, 13, 14, 15, 15, 16, 17, 17, 18, 19, 19, 20, 20, 21,
	22, 22, 23, 24, 24, 25, 26, 26, 27, 28, 28, 29, 29, 30, 31, 31, 32,
	33, 33, 34, 35, 35, 36, 36, 37, 38, 38, 39, 40, 40, 41, 42, 42, 43,
	44, 44, 45, 45, 46, 47, 47, 48, 49, 49, 50, 51, 51, 52, 52, 53, 54,
	54, 55, 56, 56, 57, 58, 58, 59, 60, 60, 61, 61, 62, 63, 63,
}

// CelsiusToFahrenheit scales by 9/5 and offsets by 32, working in
// hundredths of a degree and rounding back to the nearest
// sixty-fourth. The sign flips when a negative Celsius value lands
// above zero Fahrenheit.
func CelsiusToFahrenheit(t Temp) Temp {
	hund := (uint32(t.Whole())*100 + uint32(fracToHundredths[t.Frac()])) * 9 / 5
	neg := t.Neg()

	if neg {
		if hund <= 3200 {
			hund = 3200 - hund
			neg = false
		} else {
			hund -= 3200
		}
	} else {
		hund += 3200
	}

	v := Temp(hund/100)*64 + Temp(hundredthsToFrac[hund%100])
	if neg {
		v = -v
	}
	return v
}

// Neg reports whether the temperature is below zero.
func (t Temp) Neg() bool {
	return t < 0
}

// Whole returns the whole degrees of the temperature's magnitude.
func (t Temp) Whole() int {
	return int(t.abs()) / 64
}

// Frac returns the fractional sixty-fourths of the magnitude.
func (t Temp) Frac() int {
	return int(t.abs()) % 64
}

// Hundredths returns the fractional part in hundredths, for display.
func (t Temp) Hundredths() int {
	return int(fracToHundredths[t.Frac()])
}

func (t Temp) abs() Temp {
	if t < 0 {
		return -t
	}
	return t
}

func (t Temp) String() string {
	sign := ""
	if t.Neg() {
		sign = "-"
	}
	return fmt.Sprintf("%s%d.%02d", sign, t.Whole(), t.Hundredths())
}
