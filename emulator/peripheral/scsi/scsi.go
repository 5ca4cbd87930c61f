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

// Package scsi carries the register/line contract of the WD33C93-style
// disk controller: the indirect register pair, the byte-wide DMA port
// and the reset line. The SCSI protocol engine itself is outside this
// repo; this device moves bytes between a disk image and the DMA port
// so the board's engine has a real partner.
package scsi

import (
	"github.com/spf13/afero"
	"github.com/twintower/iris4d/emulator/peripheral"
)

const numRegs = 0x20

// Aux status bits visible through the address register.
const (
	auxDBR = 0x01 // data buffer ready
	auxINT = 0x80 // interrupt pending
)

type Device struct {
	IRQ  int
	Fs   afero.Fs
	Path string // optional disk image

	bp   peripheral.Backplane
	line peripheral.IntLine

	addr    byte
	regs    [numRegs]byte
	inReset bool
	irq     bool

	image   []byte
	pending []byte // bytes queued toward memory
	out     []byte // bytes received from memory
	stream  bool
}

func (m *Device) Install(p peripheral.Backplane) error {
	m.bp = p
	m.line = p.LocalInt(m.IRQ)

	if m.Path != "" {
		img, err := afero.ReadFile(m.Fs, m.Path)
		if err != nil {
			return err
		}
		m.image = img
	}
	return nil
}

func (m *Device) Name() string {
	return "Disk Controller (WD33C93)"
}

func (m *Device) Reset() {
	m.addr = 0
	m.regs = [numRegs]byte{}
	m.pending = nil
	m.out = nil
	m.stream = false
	m.setIRQ(false)
}

// Step pumps the data-request line: one byte of an active disk-to-
// memory stream per step, raising the completion interrupt when the
// stream drains.
func (m *Device) Step(int) error {
	if !m.stream || m.inReset {
		return nil
	}
	if len(m.pending) == 0 {
		m.stream = false
		m.setIRQ(true)
		return nil
	}
	m.bp.DMARequest(true)
	return nil
}

func (m *Device) setIRQ(asserted bool) {
	m.irq = asserted
	if m.line != nil {
		m.line(asserted)
	}
}

// StartRead queues n bytes of the disk image starting at off for DMA
// into memory. The board's DMA registers select the destination.
func (m *Device) StartRead(off, n int) {
	if off > len(m.image) {
		off = len(m.image)
	}
	if off+n > len(m.image) {
		n = len(m.image) - off
	}
	m.pending = append([]byte(nil), m.image[off:off+n]...)
	m.stream = true
}

// Output returns and clears the bytes DMA moved out of memory.
func (m *Device) Output() []byte {
	out := m.out
	m.out = nil
	return out
}

func (m *Device) ReadAddr() byte {
	s := byte(0)
	if len(m.pending) > 0 {
		s |= auxDBR
	}
	if m.irq {
		s |= auxINT
	}
	return s
}

func (m *Device) WriteAddr(data byte) {
	m.addr = data % numRegs
}

// ReadReg reads the selected internal register; the pointer
// auto-increments like the real part. Reading the status register
// clears the interrupt.
func (m *Device) ReadReg() byte {
	data := m.regs[m.addr]
	if m.addr == 0x17 {
		m.setIRQ(false)
	}
	m.addr = (m.addr + 1) % numRegs
	return data
}

func (m *Device) WriteReg(data byte) {
	m.regs[m.addr] = data
	m.addr = (m.addr + 1) % numRegs
}

func (m *Device) DMARead() byte {
	if len(m.pending) == 0 {
		return 0
	}
	data := m.pending[0]
	m.pending = m.pending[1:]
	return data
}

func (m *Device) DMAWrite(data byte) {
	m.out = append(m.out, data)
}

func (m *Device) SetReset(active bool) {
	if active && !m.inReset {
		m.Reset()
	}
	m.inReset = active
}
