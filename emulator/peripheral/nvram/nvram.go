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

package nvram

import (
	"os"

	"github.com/spf13/afero"
	"github.com/twintower/iris4d/emulator/bus"
	"github.com/twintower/iris4d/emulator/memory"
	"github.com/twintower/iris4d/emulator/peripheral"
)

// ChipSize is the 2KiB battery-backed SRAM behind the 8KiB window;
// each byte sits on the top lane of its own word.
const ChipSize = 0x800

// WindowSize is the byte span of the NVRAM address window.
const WindowSize = ChipSize * 4

// Device is the battery-backed RAM. Contents load from Fs/Path at
// install time and persist back on Close. An empty Path keeps the
// contents in memory only.
type Device struct {
	Base memory.Address
	Fs   afero.Fs
	Path string

	mem [ChipSize]byte
}

func (m *Device) Install(p peripheral.Backplane) error {
	if m.Path != "" {
		img, err := afero.ReadFile(m.Fs, m.Path)
		if err != nil && !os.IsNotExist(err) {
			return err
		}
		copy(m.mem[:], img)
	}

	h := bus.Lane8(0,
		func(reg memory.Address) byte { return m.mem[reg&(ChipSize-1)] },
		func(reg memory.Address, data byte) { m.mem[reg&(ChipSize-1)] = data })

	return p.Bus().Install(h, m.Base, m.Base+WindowSize-1, "nvram")
}

func (m *Device) Name() string {
	return "NVRAM"
}

func (m *Device) Reset() {
}

func (m *Device) Step(int) error {
	return nil
}

// Close writes the contents back to the backing file.
func (m *Device) Close() error {
	if m.Path == "" {
		return nil
	}
	return afero.WriteFile(m.Fs, m.Path, m.mem[:], 0644)
}

// Byte peeks one byte of storage, bypassing the bus.
func (m *Device) Byte(i int) byte {
	return m.mem[i&(ChipSize-1)]
}
