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

// Package board models the IP4 motherboard: the address router windows,
// the configuration register, local I/O interrupt aggregation, the
// byte-stepping disk DMA engine and the diagnostic parity-fault
// subsystem. The CPU core, serial controllers, SCSI engine, interval
// timer, sound chip and phantom clock are external collaborators
// reached through the narrow contracts below.
package board

import (
	"log"

	"github.com/twintower/iris4d/emulator/bus"
	"github.com/twintower/iris4d/emulator/memory"
	"github.com/twintower/iris4d/emulator/peripheral"
	"github.com/twintower/iris4d/emulator/processor"
)

// Configuration register bits.
const (
	CfgLEDs     uint16 = 0x001F // diagnostic LEDs
	CfgSerial01 uint16 = 0x0040 // enable serial ports 0,1
	CfgSerial23 uint16 = 0x0080 // enable serial ports 2,3
	CfgMailInt  uint16 = 0x0100 // enable mailbox interrupts
	CfgSysReset uint16 = 0x0200 // backplane sysreset (soft reset)
	CfgChkPar   uint16 = 0x0400 // enable parity checking
	CfgSlave    uint16 = 0x0800 // enable slave accesses
	CfgArbiter  uint16 = 0x1000 // enable backplane arbiter
	CfgBadPar   uint16 = 0x2000 // write bad parity
	CfgWatchdog uint16 = 0x4000 // enable watchdog timeout
	CfgAux2     uint16 = 0x8000 // unused
)

// Local I/O interrupt sources.
const (
	IntSerial0 = 0 // console duart
	IntSerial1 = 1 // serial ports 0,1
	IntSerial2 = 2 // serial ports 2,3
	IntDisk    = 4 // disk controller
	IntMailbox = 6 // backplane mailbox (not wired)
	IntACFail  = 7 // backplane AC fail (not wired)
)

// Register windows, absolute physical addresses.
const (
	RAMBase      memory.Address = 0x0000_0000
	SoundData    memory.Address = 0x1F60_0000
	SoundControl memory.Address = 0x1F60_0010
	SystemID     memory.Address = 0x1F80_0000
	ConfigReg    memory.Address = 0x1F88_0000
	DMALow       memory.Address = 0x1F90_0000
	DMAHigh      memory.Address = 0x1F92_0000
	DMAFlush     memory.Address = 0x1F94_0000
	IntStatus    memory.Address = 0x1F98_0000
	Switches     memory.Address = 0x1F9A_0000
	Timer1Ack    memory.Address = 0x1FA0_0000 // read deasserts IRQ4
	Timer0Ack    memory.Address = 0x1FA2_0000 // read deasserts IRQ2
	ErrAddr      memory.Address = 0x1FA4_0000
	DiskReset    memory.Address = 0x1FA8_0000
	ParityAck    memory.Address = 0x1FAA_0000
	ParityStatus memory.Address = 0x1FAA_0004
	IDPROMBase   memory.Address = 0x1FAE_0000
	DiskAddrReg  memory.Address = 0x1FB0_0000
	DiskDataReg  memory.Address = 0x1FB0_0100
	TimerBase    memory.Address = 0x1FB4_0000
	SerialBase   memory.Address = 0x1FB8_0000
	NVRAMBase    memory.Address = 0x1FBC_0000
	ClockTap     memory.Address = 0x1FBC_1FFC
	BootROMBase  memory.Address = 0x1FC0_0000
)

// DefaultRAMSize is the fixed 8 MiB memory complement of the board.
const DefaultRAMSize = 0x0080_0000

// DiskController is the register/line contract of the SCSI protocol
// engine (WD33C93 style): an indirect register pair, a byte-wide DMA
// port and a reset line. Its internals live outside this repo.
type DiskController interface {
	ReadAddr() byte
	WriteAddr(data byte)
	ReadReg() byte
	WriteReg(data byte)

	DMARead() byte
	DMAWrite(data byte)

	SetReset(active bool)
}

// Timer is the register contract of the interval timer (8254 style).
type Timer interface {
	Read(reg int) byte
	Write(reg int, data byte)
}

// Serial is the register contract of one dual-channel serial
// controller (2681 style), address-demultiplexed by the board.
type Serial interface {
	Read(reg int) byte
	Write(reg int, data byte)
}

// Clock is the line contract of the phantom real-time clock hidden
// under the top of the NVRAM window.
type Clock interface {
	ChipEnabled() bool
	ReadData() byte
	WriteData(data byte)
	Read0()
	Read1()
}

// Sound receives the write-only data/control bytes forwarded verbatim
// to the synthesizer.
type Sound interface {
	Data(data byte)
	Control(data byte)
}

// Config wires the board to its collaborators at assembly time. Nil
// fields are replaced with inert defaults.
type Config struct {
	CPU    processor.Processor
	Disk   DiskController
	Timer  Timer
	Serial [3]Serial
	Clock  Clock
	Sound  Sound

	// LEDs observes the five diagnostic LED bits on every
	// configuration register write.
	LEDs func(index int, on bool)

	RAMSize  uint32
	SystemID byte

	// Trace enables parity subsystem logging.
	Trace bool
}

// Board owns the configuration word, the interrupt status byte, the
// DMA address pair and the parity fault state. All mutation happens
// synchronously inside bus accesses and signal callbacks.
type Board struct {
	cfg Config
	bus *bus.Bus

	cpucfg uint16
	dmalo  uint16
	dmahi  uint16

	lioISR byte
	lioInt bool

	parerr byte
	erradr memory.Address
	parity parityState

	resetReq bool
}

func New(cfg Config) *Board {
	if cfg.CPU == nil {
		cfg.CPU = processor.Null{}
	}
	if cfg.Disk == nil {
		cfg.Disk = nullDisk{}
	}
	if cfg.Timer == nil {
		cfg.Timer = nullRegs{}
	}
	for i, s := range cfg.Serial {
		if s == nil {
			cfg.Serial[i] = nullRegs{}
		}
	}
	if cfg.Clock == nil {
		cfg.Clock = nullClock{}
	}
	if cfg.Sound == nil {
		cfg.Sound = nullSound{}
	}
	if cfg.RAMSize == 0 {
		cfg.RAMSize = DefaultRAMSize
	}

	return &Board{
		cfg:    cfg,
		bus:    bus.New(),
		lioISR: 0xFF,
	}
}

func (b *Board) Name() string {
	return "IP4 Motherboard"
}

// Reset models the soft-reset path: the error latch and parity error
// flags clear, everything else (configuration word, DMA address pair,
// parity shadow state) survives.
func (b *Board) Reset() {
	b.erradr = 0
	b.parerr = 0
}

func (b *Board) Step(int) error {
	return nil
}

// Bus exposes the address router. Board implements
// peripheral.Backplane, so self-installing devices claim their windows
// through this.
func (b *Board) Bus() *bus.Bus {
	return b.bus
}

// Install claims all board register windows and hooks the phantom
// clock tap. The Backplane argument is unused; the board is its own
// backplane.
func (b *Board) Install(peripheral.Backplane) error {
	bu := b.bus

	type win struct {
		from, to memory.Address
		name     string
		dev      memory.Memory
	}

	windows := []win{
		{SoundData, SoundData + 3, "sound data", bus.Lane8(0, nil,
			func(_ memory.Address, data byte) { b.cfg.Sound.Data(data) })},
		{SoundControl, SoundControl + 3, "sound control", bus.Lane8(0, nil,
			func(_ memory.Address, data byte) { b.cfg.Sound.Control(data) })},

		{SystemID, SystemID + 3, "sysid", bus.Lane8(1,
			func(memory.Address) byte { return b.cfg.SystemID }, nil)},

		{ConfigReg, ConfigReg + 3, "cpucfg", bus.Lane16(
			func(memory.Address) uint16 { return b.cpucfg },
			func(_ memory.Address, data uint16) { b.writeConfig(data) })},

		{DMALow, DMALow + 3, "dmalo", bus.Lane16(nil,
			func(_ memory.Address, data uint16) { b.dmalo = data })},
		{DMAHigh, DMAHigh + 3, "dmahi", bus.Lane16(nil,
			func(_ memory.Address, data uint16) { b.dmahi = data })},
		{DMAFlush, DMAFlush + 3, "dma flush", bus.Handler{}},

		{IntStatus, IntStatus + 3, "lio status", bus.Lane8(3,
			func(memory.Address) byte { return b.lioISR }, nil)},

		{Switches, Switches + 3, "switches", bus.Handler{}},

		{Timer1Ack, Timer1Ack + 3, "timer1 ack", bus.Lane8(0,
			func(memory.Address) byte {
				b.cfg.CPU.SetInputLine(processor.IRQ4, false)
				return 0
			}, nil)},
		{Timer0Ack, Timer0Ack + 3, "timer0 ack", bus.Lane8(0,
			func(memory.Address) byte {
				b.cfg.CPU.SetInputLine(processor.IRQ2, false)
				return 0
			}, nil)},

		{ErrAddr, ErrAddr + 3, "bus error address", bus.Handler{
			R: func(memory.Address, memory.Mask) uint32 { return uint32(b.erradr) },
		}},

		{DiskReset, DiskReset + 7, "disk reset", bus.Lane8(0,
			func(reg memory.Address) byte {
				b.cfg.Disk.SetReset(reg != 0)
				return 0
			}, nil)},

		{ParityAck, ParityAck + 3, "parity ack", bus.ByteLanes(
			func(lane int) byte {
				b.parerr &^= parAllBytes | 1<<uint(lane)
				return 0
			},
			func(lane int, _ byte) {
				b.parerr &^= parAllBytes | 1<<uint(lane)
			})},
		{ParityStatus, ParityStatus + 3, "parity status", bus.Lane8(1,
			func(memory.Address) byte { return b.parerr ^ parAllBytes }, nil)},

		{DiskAddrReg, DiskAddrReg + 3, "disk address", bus.Lane8(1,
			func(memory.Address) byte { return b.cfg.Disk.ReadAddr() },
			func(_ memory.Address, data byte) { b.cfg.Disk.WriteAddr(data) })},
		{DiskDataReg, DiskDataReg + 3, "disk data", bus.Lane8(1,
			func(memory.Address) byte { return b.cfg.Disk.ReadReg() },
			func(_ memory.Address, data byte) { b.cfg.Disk.WriteReg(data) })},

		{TimerBase, TimerBase + 0xF, "timer", bus.Lane8(0,
			func(reg memory.Address) byte { return b.cfg.Timer.Read(int(reg)) },
			func(reg memory.Address, data byte) { b.cfg.Timer.Write(int(reg), data) })},

		// Three serial controllers interleave on consecutive words:
		// controller = low 2 bits of the word index, channel register
		// = the rest.
		{SerialBase, SerialBase + 0xFF, "serial", bus.Lane8(0,
			func(reg memory.Address) byte {
				if s := b.serial(int(reg & 3)); s != nil {
					return s.Read(int(reg >> 2))
				}
				return 0
			},
			func(reg memory.Address, data byte) {
				if s := b.serial(int(reg & 3)); s != nil {
					s.Write(int(reg>>2), data)
				}
			})},
	}

	for _, w := range windows {
		if err := bu.Install(w.dev, w.from, w.to, w.name); err != nil {
			return err
		}
	}

	b.installClockTap()
	return nil
}

func (b *Board) serial(n int) Serial {
	if n >= len(b.cfg.Serial) {
		return nil
	}
	return b.cfg.Serial[n]
}

// writeConfig applies one write to the configuration register. The
// LED bits reflect on every write; the soft-reset request and parity
// activation fire on 0->1 edges only.
func (b *Board) writeConfig(data uint16) {
	if b.cfg.LEDs != nil {
		for i := 0; i < 5; i++ {
			b.cfg.LEDs(i, data&(1<<uint(i)) != 0)
		}
	}

	if data&CfgSysReset != 0 && b.cpucfg&CfgSysReset == 0 {
		b.resetReq = true
	}

	if (b.cpucfg^data)&CfgChkPar != 0 {
		b.trace("parity checking %d", boolbit(data&CfgChkPar != 0))
	}

	if (b.cpucfg^data)&CfgBadPar != 0 {
		b.trace("write bad parity %d", boolbit(data&CfgBadPar != 0))

		if data&CfgBadPar != 0 && !b.parity.live() {
			b.activateParity()
		}
	}

	b.cpucfg = data
}

// Config returns the configuration word as software last wrote it.
func (b *Board) Config() uint16 {
	return b.cpucfg
}

// SoftResetRequested reports (and rearms) the one-shot soft reset
// request raised by a 0->1 write of the sysreset bit.
func (b *Board) SoftResetRequested() bool {
	r := b.resetReq
	b.resetReq = false
	return r
}

// ErrAddress is the latched address of the last faulting access.
func (b *Board) ErrAddress() memory.Address {
	return b.erradr
}

func (b *Board) trace(format string, args ...interface{}) {
	if b.cfg.Trace {
		log.Printf(format, args...)
	}
}

func boolbit(b bool) int {
	if b {
		return 1
	}
	return 0
}

type nullDisk struct{}

func (nullDisk) ReadAddr() byte { return 0 }
func (nullDisk) WriteAddr(byte) {}
func (nullDisk) ReadReg() byte  { return 0 }
func (nullDisk) WriteReg(byte)  {}
func (nullDisk) DMARead() byte  { return 0 }
func (nullDisk) DMAWrite(byte)  {}
func (nullDisk) SetReset(bool)  {}

type nullRegs struct{}

func (nullRegs) Read(int) byte   { return 0 }
func (nullRegs) Write(int, byte) {}

type nullClock struct{}

func (nullClock) ChipEnabled() bool { return false }
func (nullClock) ReadData() byte    { return 0 }
func (nullClock) WriteData(byte)    {}
func (nullClock) Read0()            {}
func (nullClock) Read1()            {}

type nullSound struct{}

func (nullSound) Data(byte)    {}
func (nullSound) Control(byte) {}
