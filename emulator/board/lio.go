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

import (
	"github.com/twintower/iris4d/emulator/peripheral"
	"github.com/twintower/iris4d/emulator/processor"
)

// LocalInt hands out the level-sensitive interrupt line for one of the
// eight local I/O sources. Peripherals receive theirs at assembly time
// and call it with true while requesting service.
func (b *Board) LocalInt(source int) peripheral.IntLine {
	return func(asserted bool) {
		b.localInt(source, asserted)
	}
}

// localInt records one active-low source bit (cleared = asserted) and
// propagates the wired-OR aggregate to the CPU. Only edges of the
// aggregate reach the interrupt input; re-asserting an already
// asserted aggregate is silent.
func (b *Board) localInt(source int, asserted bool) {
	if asserted {
		b.lioISR &^= 1 << uint(source)
	} else {
		b.lioISR |= 1 << uint(source)
	}

	agg := b.lioISR == 0
	if agg != b.lioInt {
		b.lioInt = agg
		b.cfg.CPU.SetInputLine(processor.IRQ1, agg)
	}
}

// IntStatusByte is the read-only status byte software uses to find the
// pending source: one bit per source, cleared while asserted.
func (b *Board) IntStatusByte() byte {
	return b.lioISR
}

// TimerOut is the interval timer's output-line callback. A rising edge
// on channel 0 or 1 latches a CPU interrupt that stays up until the
// matching acknowledge window is read.
func (b *Board) TimerOut(channel int, state bool) {
	if !state {
		return
	}
	switch channel {
	case 0:
		b.cfg.CPU.SetInputLine(processor.IRQ2, true)
	case 1:
		b.cfg.CPU.SetInputLine(processor.IRQ4, true)
	}
}
