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

// Package processor is the contract between the motherboard and the
// CPU core. The execution engine itself lives outside this repo; the
// board only drives its interrupt inputs and bus-error signal.
package processor

// Line identifies one CPU interrupt input.
type Line int

const (
	IRQ0 Line = iota
	IRQ1       // local I/O aggregate
	IRQ2       // interval timer channel 0
	IRQ3
	IRQ4 // interval timer channel 1
	IRQ5
)

// Processor receives signal-line transitions from the board. All calls
// are synchronous with the bus access or device callback that caused
// them.
type Processor interface {
	SetInputLine(line Line, asserted bool)

	// BusError aborts the access in flight, used by the parity fault
	// path when a checked read hits a poisoned byte.
	BusError()
}

// Null is a processor with no core attached. Line transitions are
// dropped; useful for assembling a board without an execution engine.
type Null struct{}

func (Null) SetInputLine(Line, bool) {}
func (Null) BusError()               {}
