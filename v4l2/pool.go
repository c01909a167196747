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

package v4l2

import "fmt"

// MaxSlots caps the number of driver buffers requested at stream
// start. The kernel may grant fewer; granting more is fatal.
const MaxSlots = 64

type slotOwner uint8

const (
	ownedByKernel slotOwner = iota
	ownedByApp
)

// slotPool tracks which side owns each mapped driver buffer. A slot
// handed to the application by DQBUF must be returned exactly once
// with QBUF before its memory may be reused.
type slotPool struct {
	owners []slotOwner
}

func newSlotPool(count int) (*slotPool, error) {
	if count <= 0 {
		return nil, fmt.Errorf("v4l2: driver granted no buffers")
	}
	if count > MaxSlots {
		return nil, fmt.Errorf("v4l2: driver granted %d buffers, limit is %d",
			count, MaxSlots)
	}
	return &slotPool{owners: make([]slotOwner, count)}, nil
}

func (p *slotPool) size() int {
	return len(p.owners)
}

func (p *slotPool) acquire(slot int) error {
	if slot < 0 || slot >= len(p.owners) {
		return fmt.Errorf("v4l2: driver returned bad buffer index %d", slot)
	}
	if p.owners[slot] == ownedByApp {
		return fmt.Errorf("v4l2: buffer %d dequeued twice", slot)
	}
	p.owners[slot] = ownedByApp
	return nil
}

func (p *slotPool) release(slot int) error {
	if slot < 0 || slot >= len(p.owners) {
		return fmt.Errorf("v4l2: release of bad buffer index %d", slot)
	}
	if p.owners[slot] == ownedByKernel {
		return fmt.Errorf("v4l2: buffer %d released twice", slot)
	}
	p.owners[slot] = ownedByKernel
	return nil
}

// held returns the number of slots currently owned by the
// application. In the single-threaded frame loop this is 0 or 1.
func (p *slotPool) held() int {
	n := 0
	for _, o := range p.owners {
		if o == ownedByApp {
			n++
		}
	}
	return n
}
