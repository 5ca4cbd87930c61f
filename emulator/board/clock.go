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

// installClockTap hooks the phantom real-time clock over the top four
// bytes of the NVRAM window. The tap never blocks the access: NVRAM
// storage underneath still sees it. While the chip is disabled, reads
// of the window bit-bang the recognition pattern (any nonzero word is
// a one bit); once enabled, reads return the clock's serial data on
// the top lane and writes feed it.
func (b *Board) installClockTap() {
	b.bus.InstallTap(ClockTap, ClockTap+3, "rtc",
		func(addr memory.Address, data *uint32, mask memory.Mask) {
			if b.cfg.Clock.ChipEnabled() {
				*data = uint32(b.cfg.Clock.ReadData()) << 24
			}
		},
		func(addr memory.Address, data *uint32, mask memory.Mask) {
			if !b.cfg.Clock.ChipEnabled() {
				if *data != 0 {
					b.cfg.Clock.Read1()
				} else {
					b.cfg.Clock.Read0()
				}
			} else {
				b.cfg.Clock.WriteData(byte(*data >> 24))
			}
		})
}
