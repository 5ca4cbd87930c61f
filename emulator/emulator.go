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

// Package emulator assembles the IP4 machine: motherboard plus the
// peripheral complement, wired once at construction time.
package emulator

import (
	"io"
	"log"
	"time"

	"github.com/spf13/afero"
	"github.com/twintower/iris4d/emulator/board"
	"github.com/twintower/iris4d/emulator/peripheral"
	"github.com/twintower/iris4d/emulator/peripheral/duart"
	"github.com/twintower/iris4d/emulator/peripheral/nvram"
	"github.com/twintower/iris4d/emulator/peripheral/pit"
	"github.com/twintower/iris4d/emulator/peripheral/ram"
	"github.com/twintower/iris4d/emulator/peripheral/rom"
	"github.com/twintower/iris4d/emulator/peripheral/rtc"
	"github.com/twintower/iris4d/emulator/peripheral/scsi"
	"github.com/twintower/iris4d/emulator/peripheral/sound"
	"github.com/twintower/iris4d/emulator/processor"
)

// BootROMSize is the 256KiB firmware region.
const BootROMSize = 0x40000

// IDPROMSize is the 32-byte identity block.
const IDPROMSize = 0x20

type Config struct {
	Fs afero.Fs

	PromPath   string
	IDPROMPath string
	NVRAMPath  string
	DiskPath   string

	// Console receives channel A output of the console duart.
	Console io.Writer

	CPU  processor.Processor
	LEDs func(index int, on bool)

	ClearRAM bool
	Trace    bool
}

// Machine is one assembled system.
type Machine struct {
	Board   *board.Board
	Console *duart.Device
	Disk    *scsi.Device
	NVRAM   *nvram.Device
	Timer   *pit.Device

	peripherals []peripheral.Peripheral
}

func New(cfg Config) (*Machine, error) {
	if cfg.Fs == nil {
		cfg.Fs = afero.NewMemMapFs()
	}

	console := &duart.Device{IRQ: board.IntSerial0, OutputA: cfg.Console}
	serial1 := &duart.Device{IRQ: board.IntSerial1}
	serial2 := &duart.Device{IRQ: board.IntSerial2}

	disk := &scsi.Device{IRQ: board.IntDisk, Fs: cfg.Fs, Path: cfg.DiskPath}
	timer := &pit.Device{}
	clock := &rtc.Device{}
	synth := &sound.Device{}

	nv := &nvram.Device{Base: board.NVRAMBase, Fs: cfg.Fs, Path: cfg.NVRAMPath}

	brd := board.New(board.Config{
		CPU:    cfg.CPU,
		Disk:   disk,
		Timer:  timer,
		Serial: [3]board.Serial{console, serial1, serial2},
		Clock:  clock,
		Sound:  synth,
		LEDs:   cfg.LEDs,
		Trace:  cfg.Trace,
	})

	m := &Machine{
		Board:   brd,
		Console: console,
		Disk:    disk,
		NVRAM:   nv,
		Timer:   timer,
		peripherals: []peripheral.Peripheral{
			&ram.Device{Clear: cfg.ClearRAM}, // RAM first: it claims the bottom of the map
			brd,
			&rom.Device{
				RomName: "Boot PROM",
				Base:    board.BootROMBase,
				Size:    BootROMSize,
				Fs:      cfg.Fs,
				Path:    cfg.PromPath,
			},
			&rom.Device{
				RomName: "ID PROM",
				Base:    board.IDPROMBase,
				Size:    IDPROMSize,
				Fs:      cfg.Fs,
				Path:    cfg.IDPROMPath,
			},
			nv,
			console, serial1, serial2,
			disk,
			timer,
			clock,
			synth,
		},
	}

	for _, d := range m.peripherals {
		if err := d.Install(brd); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Reset performs the soft-reset sequence on every device.
func (m *Machine) Reset() {
	log.Print("Machine reset!")
	for _, d := range m.peripherals {
		d.Reset()
	}
}

// Step runs every peripheral for one slice and services a pending
// soft-reset request.
func (m *Machine) Step(cycles int) error {
	for _, d := range m.peripherals {
		if err := d.Step(cycles); err != nil {
			return err
		}
	}
	if m.Board.SoftResetRequested() {
		m.Reset()
	}
	return nil
}

// Run steps the machine until stop closes.
func (m *Machine) Run(stop <-chan struct{}) error {
	for {
		select {
		case <-stop:
			return nil
		default:
		}

		if err := m.Step(1); err != nil {
			return err
		}
		time.Sleep(time.Millisecond)
	}
}

// Close releases peripherals that hold external resources.
func (m *Machine) Close() {
	for _, d := range m.peripherals {
		if cd, ok := d.(peripheral.PeripheralCloser); ok {
			if err := cd.Close(); err != nil {
				log.Print("Failed to close peripheral: ", err)
			}
		}
	}
}
