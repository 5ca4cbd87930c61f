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

package board

import "github.com/twintower/iris4d/emulator/memory"

// dmaDirRead is the direction bit in the low address register: set
// means disk to memory.
const dmaDirRead = 0x8000

// DMARequest is the disk controller's data-request line. Each
// assertion moves exactly one byte between the controller's DMA port
// and memory at the synthesized 28-bit address, then advances the
// address pair. There is no burst mode and no completion signal; the
// controller re-asserts the line for every byte.
func (b *Board) DMARequest(asserted bool) {
	if !asserted {
		return
	}

	addr := memory.Address(uint32(b.dmahi)<<12 | uint32(b.dmalo&0x0FFF))

	if b.dmalo&dmaDirRead != 0 {
		b.bus.Write8(addr, b.cfg.Disk.DMARead())
	} else {
		b.cfg.Disk.DMAWrite(b.bus.Read8(addr))
	}

	// The low register counts within a 0x8FFF mask so the direction
	// bit survives the increment; the high half advances on the
	// 12-bit wrap.
	b.dmalo = (b.dmalo + 1) & 0x8FFF
	if b.dmalo&0x0FFF == 0 {
		b.dmahi++
	}
}

// DMAAddress returns the effective address the next transfer will use.
func (b *Board) DMAAddress() memory.Address {
	return memory.Address(uint32(b.dmahi)<<12 | uint32(b.dmalo&0x0FFF))
}
