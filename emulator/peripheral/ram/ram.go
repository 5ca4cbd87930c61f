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

package ram

import (
	"crypto/rand"

	"github.com/twintower/iris4d/emulator/memory"
	"github.com/twintower/iris4d/emulator/peripheral"
)

const Size = 0x800000 // 8MB

type Device struct {
	Clear bool
	mem   [Size]byte
}

func (m *Device) Install(p peripheral.Backplane) error {
	if !m.Clear {
		rand.Read(m.mem[:]) // Scramble memory.
	}
	return p.Bus().Install(m, 0x0, Size-1, "ram")
}

func (m *Device) Name() string {
	return "RAM"
}

func (m *Device) Reset() {
}

func (m *Device) Step(int) error {
	return nil
}

func (m *Device) Read(off memory.Address, mask memory.Mask) uint32 {
	return uint32(m.mem[off])<<24 | uint32(m.mem[off+1])<<16 |
		uint32(m.mem[off+2])<<8 | uint32(m.mem[off+3])
}

func (m *Device) Write(off memory.Address, data uint32, mask memory.Mask) {
	for lane := 0; lane < 4; lane++ {
		if mask.Lane(lane) {
			m.mem[off+memory.Address(lane)] = memory.Lane(data, lane)
		}
	}
}
