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

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolRejectsOversizedGrant(t *testing.T) {
	_, err := newSlotPool(MaxSlots + 1)
	assert.Error(t, err)

	_, err = newSlotPool(0)
	assert.Error(t, err)

	p, err := newSlotPool(MaxSlots)
	require.NoError(t, err)
	assert.Equal(t, MaxSlots, p.size())
}

func TestPoolOwnershipCycle(t *testing.T) {
	p, err := newSlotPool(4)
	require.NoError(t, err)
	assert.Equal(t, 0, p.held())

	require.NoError(t, p.acquire(2))
	assert.Equal(t, 1, p.held())

	require.NoError(t, p.release(2))
	assert.Equal(t, 0, p.held())

	// Every acquire must be matched by exactly one release.
	require.NoError(t, p.acquire(2))
	require.NoError(t, p.release(2))
	assert.Error(t, p.release(2))
}

func TestPoolDoubleAcquire(t *testing.T) {
	p, err := newSlotPool(2)
	require.NoError(t, err)

	require.NoError(t, p.acquire(0))
	assert.Error(t, p.acquire(0))
}

func TestPoolBadIndexes(t *testing.T) {
	p, err := newSlotPool(2)
	require.NoError(t, err)

	assert.Error(t, p.acquire(-1))
	assert.Error(t, p.acquire(2))
	assert.Error(t, p.release(-1))
	assert.Error(t, p.release(2))
}

// The single-threaded frame loop holds at most one slot at a time;
// the pool itself allows more but keeps an accurate count.
func TestPoolHeldCount(t *testing.T) {
	p, err := newSlotPool(3)
	require.NoError(t, err)

	require.NoError(t, p.acquire(0))
	require.NoError(t, p.acquire(1))
	assert.Equal(t, 2, p.held())

	require.NoError(t, p.release(0))
	require.NoError(t, p.release(1))
	assert.Equal(t, 0, p.held())
}
