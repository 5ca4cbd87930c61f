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

// Package sound is the write-only register latch of the SAA1099-style
// synthesizer. The board forwards data/control bytes verbatim; the
// synth engine itself is outside this repo, so the device just latches
// the register file.
package sound

import (
	"github.com/twintower/iris4d/emulator/peripheral"
)

const numRegs = 0x20

type Device struct {
	peripheral.NullDevice

	addr   byte
	regs   [numRegs]byte
	writes int
}

func (m *Device) Name() string {
	return "Sound Synthesizer (SAA1099)"
}

func (m *Device) Reset() {
	*m = Device{}
}

// Control selects the register the next data write lands in.
func (m *Device) Control(data byte) {
	m.addr = data % numRegs
}

func (m *Device) Data(data byte) {
	m.regs[m.addr] = data
	m.writes++
}

// Reg peeks one latched register.
func (m *Device) Reg(i int) byte {
	return m.regs[i%numRegs]
}

// Writes counts data writes since reset.
func (m *Device) Writes() int {
	return m.writes
}
