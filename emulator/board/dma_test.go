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

import "testing"

type dmaDisk struct {
	nullDisk
	in  []byte
	out []byte
}

func (d *dmaDisk) DMARead() byte {
	if len(d.in) == 0 {
		return 0
	}
	data := d.in[0]
	d.in = d.in[1:]
	return data
}

func (d *dmaDisk) DMAWrite(data byte) {
	d.out = append(d.out, data)
}

func TestDMAToMemory(t *testing.T) {
	disk := &dmaDisk{in: []byte{0x11, 0x22, 0x33}}
	b, _ := testBoard(t, Config{Disk: disk})
	bu := b.Bus()

	// Direction bit set: disk to memory. Start two bytes short of the
	// 4KiB page boundary to cover the carry into the high half.
	bu.Write32(DMALow, 0x8FFE)
	bu.Write32(DMAHigh, 0x0005)

	for i := 0; i < 3; i++ {
		b.DMARequest(true)
	}

	if got := bu.Read8(0x5FFE); got != 0x11 {
		t.Errorf("byte 0 = 0x%02X", got)
	}
	if got := bu.Read8(0x5FFF); got != 0x22 {
		t.Errorf("byte 1 = 0x%02X", got)
	}
	if got := bu.Read8(0x6000); got != 0x33 {
		t.Errorf("byte across page = 0x%02X", got)
	}
	if b.DMAAddress() != 0x6001 {
		t.Errorf("next address %v", b.DMAAddress())
	}
}

func TestDMAFromMemory(t *testing.T) {
	disk := &dmaDisk{}
	b, _ := testBoard(t, Config{Disk: disk})
	bu := b.Bus()

	bu.Write8(0x2100, 0xAB)
	bu.Write8(0x2101, 0xCD)

	// Direction bit clear: memory to disk.
	bu.Write32(DMALow, 0x0100)
	bu.Write32(DMAHigh, 0x0002)

	b.DMARequest(true)
	b.DMARequest(true)

	if len(disk.out) != 2 || disk.out[0] != 0xAB || disk.out[1] != 0xCD {
		t.Errorf("drained %#v", disk.out)
	}
}

func TestDMARequestDeassert(t *testing.T) {
	disk := &dmaDisk{in: []byte{0x99}}
	b, _ := testBoard(t, Config{Disk: disk})

	b.Bus().Write32(DMALow, 0x8000)
	b.DMARequest(false)

	if len(disk.in) != 1 {
		t.Error("deasserted request moved data")
	}
	if b.DMAAddress() != 0 {
		t.Error("deasserted request advanced the address")
	}
}
