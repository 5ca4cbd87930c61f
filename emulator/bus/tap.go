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

package bus

import "github.com/twintower/iris4d/emulator/memory"

// ReadTap observes a word read. It runs after the window handler and
// may replace *data. addr is absolute and word aligned.
type ReadTap func(addr memory.Address, data *uint32, mask memory.Mask)

// WriteTap observes a word write before the window handler sees it.
type WriteTap func(addr memory.Address, data *uint32, mask memory.Mask)

// Tap is an owned handle to an installed passthrough tap. The holder
// removes it when done; a removed tap never fires again.
type Tap struct {
	from, to memory.Address
	name     string
	read     ReadTap
	write    WriteTap
	bus      *Bus
	removed  bool
}

// InstallTap hooks r and w over [from, to]. Either callback may be nil.
// The underlying window still services the access; taps only observe
// or rewrite the data word in flight.
func (b *Bus) InstallTap(from, to memory.Address, name string, r ReadTap, w WriteTap) *Tap {
	t := &Tap{from: from &^ 3, to: to | 3, name: name, read: r, write: w, bus: b}
	b.taps = append(b.taps, t)
	return t
}

// Remove uninstalls the tap. Safe to call from inside the tap's own
// callback; the bus skips removed taps while dispatching.
func (t *Tap) Remove() {
	if t.removed {
		return
	}
	t.removed = true

	// Fresh slice: dispatch may be mid-iteration over the old one.
	live := make([]*Tap, 0, len(t.bus.taps)-1)
	for _, x := range t.bus.taps {
		if !x.removed {
			live = append(live, x)
		}
	}
	t.bus.taps = live
}
