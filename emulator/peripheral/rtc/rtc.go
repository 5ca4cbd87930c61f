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

// Package rtc is a DS1315-style phantom clock. The chip shares the
// NVRAM address window: while disabled it watches read traffic for a
// 64-bit recognition pattern bit-banged through the address lines;
// once the pattern matches, the chip enables and the next 64 bit-serial
// transfers move the time registers, after which it disarms again.
package rtc

import (
	"time"

	"github.com/twintower/iris4d/emulator/peripheral"
)

// The recognition pattern, presented LSB first per byte.
var pattern = [8]byte{0xC5, 0x3A, 0xA3, 0x5C, 0xC5, 0x3A, 0xA3, 0x5C}

const regBits = 64

type Device struct {
	peripheral.NullDevice

	// Now supplies the wall clock; tests override it.
	Now func() time.Time

	matched int
	enabled bool
	reg     uint64
	bits    int
}

func (m *Device) Name() string {
	return "Phantom Clock (DS1315)"
}

func (m *Device) Reset() {
	m.matched = 0
	m.enabled = false
	m.bits = 0
}

func (m *Device) ChipEnabled() bool {
	return m.enabled
}

func patternBit(n int) byte {
	return pattern[n/8] >> uint(n%8) & 1
}

func (m *Device) match(bit byte) {
	if m.enabled {
		return
	}

	if bit != patternBit(m.matched) {
		m.matched = 0
		if bit != patternBit(0) {
			return
		}
	}

	m.matched++
	if m.matched == regBits {
		m.matched = 0
		m.enabled = true
		m.bits = 0
		m.reg = m.timeReg()
	}
}

// Read0 and Read1 feed recognition bits while the chip is disabled.
func (m *Device) Read0() { m.match(0) }
func (m *Device) Read1() { m.match(1) }

// ReadData shifts out one bit of the time registers. The 64th bit
// disables the chip again.
func (m *Device) ReadData() byte {
	if !m.enabled {
		return 0
	}

	bit := byte(m.reg & 1)
	m.reg >>= 1

	m.bits++
	if m.bits == regBits {
		m.enabled = false
	}
	return bit
}

// WriteData shifts in one bit of a time update. The stub accepts and
// discards the value; the 64th bit disables the chip.
func (m *Device) WriteData(data byte) {
	if !m.enabled {
		return
	}

	m.bits++
	if m.bits == regBits {
		m.enabled = false
	}
}

func bcd(v int) uint64 {
	return uint64(v/10<<4 | v%10)
}

// timeReg packs the current time into the eight BCD registers,
// hundredths first, shifted out LSB first.
func (m *Device) timeReg() uint64 {
	now := time.Now
	if m.Now != nil {
		now = m.Now
	}
	t := now()

	var reg uint64
	reg |= bcd(t.Nanosecond() / 1e7)
	reg |= bcd(t.Second()) << 8
	reg |= bcd(t.Minute()) << 16
	reg |= bcd(t.Hour()) << 24
	reg |= bcd(int(t.Weekday())+1) << 32
	reg |= bcd(t.Day()) << 40
	reg |= bcd(int(t.Month())) << 48
	reg |= bcd(t.Year()%100) << 56
	return reg
}
