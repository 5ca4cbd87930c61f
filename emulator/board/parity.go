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

// Parity error flags: four source tags in the low nibble, four
// byte-lane flags in the high nibble (bit 7 = lane 0).
const (
	parLAN      byte = 0x01
	parDMA      byte = 0x02
	parCPU      byte = 0x04
	parVME      byte = 0x08
	parByte3    byte = 0x10
	parByte2    byte = 0x20
	parByte1    byte = 0x40
	parByte0    byte = 0x80
	parAllBytes byte = 0xF0
)

// parityState is the lazily allocated shadow over main memory: one bit
// per byte marking "this byte holds intentionally bad parity", packed
// two words per cell. nil shadow = uninitialized; the tap exists
// exactly while the shadow does.
type parityState struct {
	shadow []byte
	bad    uint32
	tap    tapHandle
}

// tapHandle keeps parityState testable without reaching into the bus.
type tapHandle interface {
	Remove()
}

func (p *parityState) live() bool {
	return p.shadow != nil
}

func (p *parityState) bit(addr memory.Address, lane int) uint {
	return uint((addr>>2)&1)*4 + uint(lane)
}

func (p *parityState) get(addr memory.Address, lane int) bool {
	return p.shadow[addr>>3]&(1<<p.bit(addr, lane)) != 0
}

func (p *parityState) set(addr memory.Address, lane int) {
	p.shadow[addr>>3] |= 1 << p.bit(addr, lane)
	p.bad++
}

func (p *parityState) clear(addr memory.Address, lane int) {
	p.shadow[addr>>3] &^= 1 << p.bit(addr, lane)
	p.bad--
}

// activateParity allocates the shadow and hooks the memory tap over
// all of RAM. Runs only on a 0->1 edge of the bad-parity bit while no
// shadow exists; deactivation is solely the counter reaching zero in
// the write path.
func (b *Board) activateParity() {
	b.trace("bad parity activated %dM", b.cfg.RAMSize>>20)

	b.parity.shadow = make([]byte, b.cfg.RAMSize>>3)
	b.parity.tap = b.bus.InstallTap(RAMBase, RAMBase+memory.Address(b.cfg.RAMSize-1),
		"parity", b.parityRead, b.parityWrite)
}

// parityRead is the check path. Gated on the parity-check enable bit:
// every selected lane with a poisoned shadow bit marks its lane flag
// and tags the CPU as originator; any hit latches the address and
// raises a bus error for the access.
func (b *Board) parityRead(addr memory.Address, data *uint32, mask memory.Mask) {
	if b.cpucfg&CfgChkPar == 0 {
		return
	}

	errFound := false
	for lane := 0; lane < 4; lane++ {
		if mask.Lane(lane) && b.parity.get(addr, lane) {
			b.parerr |= parByte0>>uint(lane) | parCPU
			errFound = true

			b.trace("bad parity err %v lane %d count %d", addr, lane, b.parity.bad)
		}
	}

	if errFound {
		b.erradr = addr
		b.cfg.CPU.BusError()
	}
}

// parityWrite is the maintain path. While injection is enabled every
// written lane is poisoned; once disabled every written lane heals.
// Bits only flip when they disagree with the desired state, so the
// counter cannot drift. The counter hitting zero tears the whole
// subsystem down; that is the only uninstall path.
func (b *Board) parityWrite(addr memory.Address, data *uint32, mask memory.Mask) {
	if b.cpucfg&CfgBadPar != 0 {
		for lane := 0; lane < 4; lane++ {
			if mask.Lane(lane) && !b.parity.get(addr, lane) {
				b.parity.set(addr, lane)

				b.trace("bad parity set %v lane %d count %d", addr, lane, b.parity.bad)
			}
		}
		return
	}

	for lane := 0; lane < 4; lane++ {
		if mask.Lane(lane) && b.parity.get(addr, lane) {
			b.parity.clear(addr, lane)

			b.trace("bad parity clr %v lane %d count %d", addr, lane, b.parity.bad)
		}
	}

	if b.parity.bad == 0 {
		b.trace("bad parity deactivated")

		b.parity.tap.Remove()
		b.parity = parityState{}
	}
}

// ParityActive reports whether the shadow is allocated and the memory
// tap installed.
func (b *Board) ParityActive() bool {
	return b.parity.live()
}

// BadParityCount is the live number of poisoned bytes.
func (b *Board) BadParityCount() uint32 {
	return b.parity.bad
}

// ParityError returns the sticky error byte as latched (not the
// bit-inverted form the status window reads).
func (b *Board) ParityError() byte {
	return b.parerr
}
