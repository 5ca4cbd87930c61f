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

package rom

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/twintower/iris4d/emulator/memory"
	"github.com/twintower/iris4d/emulator/peripheral"
)

// Device is a fixed read-only region: the boot PROM or the 32-byte
// ID PROM. The image loads from Fs/Path at install time; an empty Path
// maps a blank image of Size bytes.
type Device struct {
	mem []byte

	Base    memory.Address
	Size    int
	RomName string
	Fs      afero.Fs
	Path    string
}

func (m *Device) Install(p peripheral.Backplane) error {
	if m.RomName == "" {
		m.RomName = "ROM"
	}

	if m.Path != "" {
		img, err := afero.ReadFile(m.Fs, m.Path)
		if err != nil {
			return err
		}
		m.mem = img
	}
	if m.Size > len(m.mem) {
		m.mem = append(m.mem, make([]byte, m.Size-len(m.mem))...)
	}
	if len(m.mem) == 0 {
		return fmt.Errorf("%s: empty image", m.RomName)
	}

	return p.Bus().Install(m, m.Base, m.Base+memory.Address(len(m.mem)-1), m.RomName)
}

func (m *Device) Name() string {
	return m.RomName
}

func (m *Device) Reset() {
}

func (m *Device) Step(int) error {
	return nil
}

func (m *Device) at(off memory.Address) byte {
	if int(off) >= len(m.mem) {
		return 0
	}
	return m.mem[off]
}

func (m *Device) Read(off memory.Address, mask memory.Mask) uint32 {
	return uint32(m.at(off))<<24 | uint32(m.at(off+1))<<16 |
		uint32(m.at(off+2))<<8 | uint32(m.at(off+3))
}

func (m *Device) Write(off memory.Address, data uint32, mask memory.Mask) {
	// PROMs ignore writes.
}
