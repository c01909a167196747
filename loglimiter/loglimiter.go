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

// Package loglimiter keeps per-frame failure paths from flooding the
// log: a message repeated within the interval is printed once and
// then swallowed until the interval passes or the message changes.
package loglimiter

import (
	"fmt"
	"log"
	"time"
)

// New returns a limiter that prints a repeated message at most once
// per interval.
func New(interval time.Duration) *LogLimiter {
	return &LogLimiter{
		interval: interval,
		nowFunc:  time.Now,
	}
}

// LogLimiter suppresses a log message when the same text was already
// printed within the interval. Different messages always print.
type LogLimiter struct {
	interval      time.Duration
	nowFunc       func() time.Time
	previousEntry string
	previousTime  time.Time
}

func (limiter *LogLimiter) Printf(format string, v ...interface{}) {
	limiter.Print(fmt.Sprintf(format, v...))
}

func (limiter *LogLimiter) Print(s string) {
	now := limiter.nowFunc()
	if now.Sub(limiter.previousTime) < limiter.interval && s == limiter.previousEntry {
		return
	}

	log.Print(s)
	limiter.previousTime = now
	limiter.previousEntry = s
}
