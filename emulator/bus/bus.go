/*
Copyright (c) 2023-2026 The iris4d authors

This software is provided 'as-is', without any express or implied
warranty. In no event will the authors be held liable for any damages
arising from the use of this software.

Permission is granted to anyone to use this software for any purpose,
including commercial applications, and to alter it and redistribute it
freely, subject to the following restrictions:

1. The origin of this software must not be misrepresented; you must not
   claim that you wrote the original software. If you use this software
   in a product, an acknowledgment in the product documentation would be
   appreciated but is not required.
2. Altered source versions must be plainly marked as such, and must not be
   misrepresented as being the original software.
3. This notice may not be removed or altered from any source distribution.
*/

// Package bus routes physical addresses to device windows. Windows are
// fixed and non-overlapping; every address resolves to exactly one
// window or falls through to the unmapped handler. Passthrough taps can
// observe or modify word accesses over a range without owning it.
package bus

import (
	"fmt"
	"sort"

	"github.com/twintower/iris4d/emulator/memory"
)

type window struct {
	from, to memory.Address // inclusive, word aligned
	name     string
	dev      memory.Memory
}

// Bus is the address router for one 32-bit physical address space.
type Bus struct {
	windows  []window // sorted by from
	taps     []*Tap
	unmapped memory.Unmapped
}

func New() *Bus {
	return &Bus{}
}

// Quiet disables logging of unmapped accesses.
func (b *Bus) Quiet(q bool) {
	b.unmapped.Quiet = q
}

// Install registers dev over [from, to]. Windows must not overlap.
func (b *Bus) Install(dev memory.Memory, from, to memory.Address, name string) error {
	if from > to {
		return fmt.Errorf("window %s: from %v beyond to %v", name, from, to)
	}

	// Word-align before the overlap check: two requests that don't
	// touch as asked can still share an aligned word.
	from, to = from&^3, to|3
	for _, w := range b.windows {
		if from <= w.to && to >= w.from {
			return fmt.Errorf("window %s overlaps %s", name, w.name)
		}
	}
	b.windows = append(b.windows, window{from: from, to: to, name: name, dev: dev})
	sort.Slice(b.windows, func(i, j int) bool {
		return b.windows[i].from < b.windows[j].from
	})
	return nil
}

func (b *Bus) lookup(addr memory.Address) *window {
	i := sort.Search(len(b.windows), func(i int) bool {
		return b.windows[i].to >= addr
	})
	if i < len(b.windows) && b.windows[i].from <= addr {
		return &b.windows[i]
	}
	return nil
}

// WindowName reports which window addr belongs to, for diagnostics.
func (b *Bus) WindowName(addr memory.Address) string {
	if w := b.lookup(addr); w != nil {
		return w.name
	}
	return ""
}

// Read performs one word access with an explicit lane mask. Read taps
// run after the window handler and may replace the data.
func (b *Bus) Read(addr memory.Address, mask memory.Mask) uint32 {
	addr &^= 3

	var data uint32
	if w := b.lookup(addr); w != nil {
		data = w.dev.Read(addr-w.from, mask)
	} else {
		data = b.unmapped.Read(addr, mask)
	}

	for _, t := range b.taps {
		if !t.removed && t.from <= addr && addr <= t.to && t.read != nil {
			t.read(addr, &data, mask)
		}
	}
	return data
}

// Write performs one word access with an explicit lane mask. Write taps
// run before the window handler and may replace the data.
func (b *Bus) Write(addr memory.Address, data uint32, mask memory.Mask) {
	addr &^= 3

	for _, t := range b.taps {
		if !t.removed && t.from <= addr && addr <= t.to && t.write != nil {
			t.write(addr, &data, mask)
		}
	}

	if w := b.lookup(addr); w != nil {
		w.dev.Write(addr-w.from, data, mask)
	} else {
		b.unmapped.Write(addr, data, mask)
	}
}

func (b *Bus) Read32(addr memory.Address) uint32 {
	return b.Read(addr, memory.MaskWord)
}

func (b *Bus) Write32(addr memory.Address, data uint32) {
	b.Write(addr, data, memory.MaskWord)
}

func (b *Bus) Read16(addr memory.Address) uint16 {
	if addr&2 == 0 {
		return uint16(b.Read(addr, memory.MaskUpper) >> 16)
	}
	return uint16(b.Read(addr, memory.MaskLower))
}

func (b *Bus) Write16(addr memory.Address, data uint16) {
	if addr&2 == 0 {
		b.Write(addr, uint32(data)<<16, memory.MaskUpper)
		return
	}
	b.Write(addr, uint32(data), memory.MaskLower)
}

func (b *Bus) Read8(addr memory.Address) byte {
	lane := int(addr & 3)
	return memory.Lane(b.Read(addr, memory.LaneMask(lane)), lane)
}

func (b *Bus) Write8(addr memory.Address, data byte) {
	lane := int(addr & 3)
	b.Write(addr, memory.PutLane(0, lane, data), memory.LaneMask(lane))
}
