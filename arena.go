// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipe

import (
	"code.hybscloud.com/lfq"
)

// Arena is a fixed-capacity slab of pipe state slots. Slot addresses
// are stable for the arena's lifetime; a slot returns to the freelist
// only when the pipe's last reference drops, so recycled slots are
// never reachable through stale handles.
//
// An Arena belongs to a single activity, like the pipes it backs.
type Arena[T any] struct {
	slots   []center[T]
	free    lfq.SPSC[uint32]
	scratch uint32
	inUse   int
}

// NewArena creates an arena with room for capacity concurrent pipes.
// Capacities below 2 are raised to 2.
func NewArena[T any](capacity int) *Arena[T] {
	if capacity < 2 {
		capacity = 2
	}
	ar := &Arena[T]{slots: make([]center[T], capacity)}
	ar.free.Init(capacity)
	for i := range ar.slots {
		ar.scratch = uint32(i)
		if err := ar.free.Enqueue(&ar.scratch); err != nil {
			panic("pipe: arena freelist overflow during init")
		}
	}
	return ar
}

// alloc takes a free slot, or returns nil when the arena is exhausted.
func (ar *Arena[T]) alloc() *center[T] {
	idx, err := ar.free.Dequeue()
	if err != nil {
		return nil
	}
	c := &ar.slots[idx]
	c.home = ar
	c.slot = idx
	ar.inUse++
	return c
}

// recycle zeroes the slot and returns its index to the freelist.
func (ar *Arena[T]) recycle(idx uint32) {
	ar.slots[idx] = center[T]{}
	ar.scratch = idx
	if err := ar.free.Enqueue(&ar.scratch); err != nil {
		panic("pipe: arena freelist overflow on recycle")
	}
	ar.inUse--
}

// InUse reports how many slots are currently allocated.
func (ar *Arena[T]) InUse() int {
	return ar.inUse
}

// Cap reports the arena's slot capacity.
func (ar *Arena[T]) Cap() int {
	return len(ar.slots)
}
