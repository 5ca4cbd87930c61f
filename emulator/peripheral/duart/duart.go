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

// Package duart carries the register-level contract of one 2681-style
// dual-channel serial controller. Only the registers the board and
// console traffic need are modeled; the chip's internals are outside
// this repo's scope.
package duart

import (
	"io"

	"github.com/twintower/iris4d/emulator/peripheral"
)

// Channel register offsets as demultiplexed by the board.
const (
	regMRA = 0x0
	regSRA = 0x1
	regCRA = 0x2
	regHRA = 0x3 // RHR on read, THR on write
	regISR = 0x5 // IMR on write
	regMRB = 0x8
	regSRB = 0x9
	regCRB = 0xA
	regHRB = 0xB
)

// Status register bits.
const (
	srRxRDY = 0x01
	srTxRDY = 0x04
	srTxEMT = 0x08
)

// Interrupt status/mask bits.
const (
	isrTxA = 0x01
	isrRxA = 0x02
	isrTxB = 0x10
	isrRxB = 0x20
)

type channel struct {
	rx  []byte
	out io.Writer
}

// Device is one dual serial controller. Output writers receive
// transmitted bytes; received bytes are injected with Receive. The
// interrupt line asserts whenever the masked interrupt status is
// nonzero.
type Device struct {
	IRQ     int       // local I/O source number
	OutputA io.Writer // nil discards
	OutputB io.Writer

	ch   [2]channel
	imr  byte
	line peripheral.IntLine
}

func (m *Device) Install(p peripheral.Backplane) error {
	m.line = p.LocalInt(m.IRQ)
	m.ch[0].out = m.OutputA
	m.ch[1].out = m.OutputB
	return nil
}

func (m *Device) Name() string {
	return "Serial Controller (2681)"
}

func (m *Device) Reset() {
	m.ch[0].rx = nil
	m.ch[1].rx = nil
	m.imr = 0
	m.update()
}

func (m *Device) Step(int) error {
	return nil
}

// Receive injects one received byte on channel 0 (A) or 1 (B).
func (m *Device) Receive(chn int, data byte) {
	m.ch[chn].rx = append(m.ch[chn].rx, data)
	m.update()
}

func (m *Device) isr() byte {
	// Transmitters are always ready.
	s := byte(isrTxA | isrTxB)
	if len(m.ch[0].rx) > 0 {
		s |= isrRxA
	}
	if len(m.ch[1].rx) > 0 {
		s |= isrRxB
	}
	return s
}

func (m *Device) update() {
	if m.line != nil {
		m.line(m.isr()&m.imr != 0)
	}
}

func (m *Device) status(chn int) byte {
	s := byte(srTxRDY | srTxEMT)
	if len(m.ch[chn].rx) > 0 {
		s |= srRxRDY
	}
	return s
}

func (m *Device) pop(chn int) byte {
	c := &m.ch[chn]
	if len(c.rx) == 0 {
		return 0
	}
	data := c.rx[0]
	c.rx = c.rx[1:]
	m.update()
	return data
}

func (m *Device) Read(reg int) byte {
	switch reg {
	case regSRA:
		return m.status(0)
	case regSRB:
		return m.status(1)
	case regHRA:
		return m.pop(0)
	case regHRB:
		return m.pop(1)
	case regISR:
		return m.isr()
	}
	return 0
}

func (m *Device) Write(reg int, data byte) {
	switch reg {
	case regHRA:
		if m.ch[0].out != nil {
			m.ch[0].out.Write([]byte{data})
		}
	case regHRB:
		if m.ch[1].out != nil {
			m.ch[1].out.Write([]byte{data})
		}
	case regISR:
		m.imr = data
		m.update()
	}
}
