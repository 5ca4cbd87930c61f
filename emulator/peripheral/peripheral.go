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

package peripheral

import (
	"github.com/twintower/iris4d/emulator/bus"
)

// IntLine is a level-sensitive signal capability handed to a device at
// assembly time. true means the device is requesting service.
type IntLine func(asserted bool)

// Backplane is what a peripheral sees of the motherboard when it is
// installed: the address router plus the signal lines the board owns.
type Backplane interface {
	Bus() *bus.Bus

	// LocalInt returns the local I/O interrupt line for one of the
	// eight aggregated sources.
	LocalInt(source int) IntLine

	// DMARequest is the disk controller's data-request line; each
	// assertion moves exactly one byte.
	DMARequest(asserted bool)

	// TimerOut is an interval-timer output channel; a rising edge on
	// channel 0 or 1 latches a CPU interrupt until acknowledged.
	TimerOut(channel int, state bool)
}

type Peripheral interface {
	Name() string
	Reset()
	Step(int) error
	Install(Backplane) error
}

type PeripheralCloser interface {
	Close() error
}

type NullDevice struct {
}

func (*NullDevice) Install(Backplane) error {
	return nil
}

func (*NullDevice) Name() string {
	return "Null Device"
}

func (*NullDevice) Reset() {
}

func (*NullDevice) Step(int) error {
	return nil
}
