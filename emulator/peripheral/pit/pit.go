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

// Package pit carries the register contract of the 8254 interval
// timer. The countdown engine is external to this repo; the device
// latches register writes and lets its output lines be pulsed into the
// board, which turns channel 0/1 rising edges into CPU interrupts.
package pit

import (
	"github.com/twintower/iris4d/emulator/peripheral"
)

type channel struct {
	count  uint16
	loadLo bool
	mode   byte
}

type Device struct {
	bp       peripheral.Backplane
	channels [3]channel
	control  byte
}

func (m *Device) Install(p peripheral.Backplane) error {
	m.bp = p
	return nil
}

func (m *Device) Name() string {
	return "Interval Timer (Intel 8254)"
}

func (m *Device) Reset() {
	m.channels = [3]channel{}
	m.control = 0
}

func (m *Device) Step(int) error {
	return nil
}

// Pulse drives one output line high then low. The board latches
// rising edges of channels 0 and 1 into CPU interrupts.
func (m *Device) Pulse(channel int) {
	if m.bp == nil {
		return
	}
	m.bp.TimerOut(channel, true)
	m.bp.TimerOut(channel, false)
}

// Count returns the last value software loaded into a channel.
func (m *Device) Count(channel int) uint16 {
	return m.channels[channel].count
}

func (m *Device) Read(reg int) byte {
	if reg == 3 {
		return 0
	}
	return byte(m.channels[reg].count)
}

func (m *Device) Write(reg int, data byte) {
	if reg == 3 {
		ch := data >> 6 & 3
		if ch == 3 {
			// Read-back command, not modeled.
			return
		}
		m.control = data
		m.channels[ch].loadLo = true
		m.channels[ch].mode = data >> 1 & 7
		return
	}

	ch := &m.channels[reg]
	if ch.loadLo {
		ch.count = ch.count&0xFF00 | uint16(data)
		ch.loadLo = false
	} else {
		ch.count = ch.count&0x00FF | uint16(data)<<8
		ch.loadLo = true
	}
}
