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
	"testing"

	"github.com/twintower/iris4d/emulator/memory"
	"github.com/twintower/iris4d/emulator/peripheral/ram"
	"github.com/twintower/iris4d/emulator/processor"
)

type testCPU struct {
	lines   map[processor.Line]bool
	calls   map[processor.Line]int
	busErrs int
}

func (c *testCPU) SetInputLine(line processor.Line, asserted bool) {
	c.lines[line] = asserted
	c.calls[line]++
}

func (c *testCPU) BusError() {
	c.busErrs++
}

// testBoard assembles a board over cleared RAM with a recording CPU.
func testBoard(t *testing.T, cfg Config) (*Board, *testCPU) {
	t.Helper()

	cpu := &testCPU{
		lines: make(map[processor.Line]bool),
		calls: make(map[processor.Line]int),
	}
	cfg.CPU = cpu

	b := New(cfg)
	b.Bus().Quiet(true)

	if err := (&ram.Device{Clear: true}).Install(b); err != nil {
		t.Fatal(err)
	}
	if err := b.Install(nil); err != nil {
		t.Fatal(err)
	}
	return b, cpu
}

func TestConfigRegister(t *testing.T) {
	leds := make(map[int]bool)
	b, _ := testBoard(t, Config{
		LEDs: func(index int, on bool) { leds[index] = on },
	})
	bu := b.Bus()

	t.Run("Readback", func(t *testing.T) {
		bu.Write32(ConfigReg, uint32(CfgArbiter|0x15))
		if b.Config() != CfgArbiter|0x15 {
			t.Errorf("config 0x%04X", b.Config())
		}
		if got := bu.Read32(ConfigReg); got != uint32(CfgArbiter|0x15) {
			t.Errorf("window read 0x%08X", got)
		}
	})

	t.Run("LEDs", func(t *testing.T) {
		bu.Write32(ConfigReg, 0x15)
		want := map[int]bool{0: true, 1: false, 2: true, 3: false, 4: true}
		for i, on := range want {
			if leds[i] != on {
				t.Errorf("LED %d = %v", i, leds[i])
			}
		}
	})
}

func TestSoftReset(t *testing.T) {
	b, _ := testBoard(t, Config{})
	bu := b.Bus()

	bu.Write32(ConfigReg, uint32(CfgSysReset))
	if !b.SoftResetRequested() {
		t.Fatal("no request after 0->1 write")
	}
	if b.SoftResetRequested() {
		t.Fatal("request did not rearm")
	}

	// Rewriting the already-set bit is not an edge.
	bu.Write32(ConfigReg, uint32(CfgSysReset))
	if b.SoftResetRequested() {
		t.Fatal("request on level, not edge")
	}

	bu.Write32(ConfigReg, 0)
	bu.Write32(ConfigReg, uint32(CfgSysReset))
	if !b.SoftResetRequested() {
		t.Fatal("no request after second edge")
	}
}

func TestReset(t *testing.T) {
	b, _ := testBoard(t, Config{})
	bu := b.Bus()

	bu.Write32(ConfigReg, uint32(CfgArbiter|0x0A))
	bu.Write32(DMALow, 0x0123)
	b.erradr = 0x1234
	b.parerr = 0x55

	b.Reset()

	if b.ErrAddress() != 0 || b.ParityError() != 0 {
		t.Error("error latches survived reset")
	}
	if b.Config() != CfgArbiter|0x0A {
		t.Error("configuration word lost on reset")
	}
	if b.dmalo != 0x0123 {
		t.Error("DMA address lost on reset")
	}
}

type fakeDisk struct {
	nullDisk
	resets []bool
	addrs  []byte
	regs   []byte
}

func (d *fakeDisk) SetReset(active bool) { d.resets = append(d.resets, active) }
func (d *fakeDisk) WriteAddr(data byte)  { d.addrs = append(d.addrs, data) }
func (d *fakeDisk) WriteReg(data byte)   { d.regs = append(d.regs, data) }
func (d *fakeDisk) ReadAddr() byte       { return 0x81 }
func (d *fakeDisk) ReadReg() byte        { return 0x42 }

type fakeSerial struct {
	writes map[int]byte
}

func (s *fakeSerial) Read(reg int) byte { return byte(0x80 | reg) }

func (s *fakeSerial) Write(reg int, data byte) {
	if s.writes == nil {
		s.writes = make(map[int]byte)
	}
	s.writes[reg] = data
}

type fakeSound struct {
	data, control []byte
}

func (s *fakeSound) Data(data byte)    { s.data = append(s.data, data) }
func (s *fakeSound) Control(data byte) { s.control = append(s.control, data) }

func TestRegisterWindows(t *testing.T) {
	disk := &fakeDisk{}
	snd := &fakeSound{}
	var serial [3]fakeSerial

	b, _ := testBoard(t, Config{
		Disk:     disk,
		Sound:    snd,
		Serial:   [3]Serial{&serial[0], &serial[1], &serial[2]},
		SystemID: 0x17,
	})
	bu := b.Bus()

	t.Run("SystemID", func(t *testing.T) {
		if got := bu.Read8(SystemID + 1); got != 0x17 {
			t.Errorf("sysid 0x%02X", got)
		}
		// Only byte lane 1 carries the ID.
		if got := bu.Read8(SystemID); got != 0 {
			t.Errorf("sysid lane 0 = 0x%02X", got)
		}
	})

	t.Run("Switches", func(t *testing.T) {
		if got := bu.Read32(Switches); got != 0 {
			t.Errorf("switches 0x%08X", got)
		}
	})

	t.Run("DiskReset", func(t *testing.T) {
		bu.Read8(DiskReset)
		bu.Read8(DiskReset + 4)
		want := []bool{false, true}
		if len(disk.resets) != 2 || disk.resets[0] != want[0] || disk.resets[1] != want[1] {
			t.Errorf("reset line %v", disk.resets)
		}
	})

	t.Run("DiskRegisters", func(t *testing.T) {
		bu.Write8(DiskAddrReg+1, 0x05)
		bu.Write8(DiskDataReg+1, 0xAA)
		if len(disk.addrs) != 1 || disk.addrs[0] != 0x05 {
			t.Errorf("address writes %v", disk.addrs)
		}
		if len(disk.regs) != 1 || disk.regs[0] != 0xAA {
			t.Errorf("register writes %v", disk.regs)
		}
		if got := bu.Read8(DiskAddrReg + 1); got != 0x81 {
			t.Errorf("aux status 0x%02X", got)
		}
		if got := bu.Read8(DiskDataReg + 1); got != 0x42 {
			t.Errorf("register read 0x%02X", got)
		}
	})

	t.Run("SerialDemux", func(t *testing.T) {
		// Controller = low two bits of the word index, channel
		// register = the rest.
		for ctrl := 0; ctrl < 3; ctrl++ {
			reg := 0x3 // channel A holding register
			addr := SerialBase + memory.Address((reg<<2|ctrl)<<2)
			bu.Write8(addr, byte(0x40+ctrl))
			if got := serial[ctrl].writes[reg]; got != byte(0x40+ctrl) {
				t.Errorf("controller %d reg %d = 0x%02X", ctrl, reg, got)
			}
			if got := bu.Read8(addr); got != byte(0x80|reg) {
				t.Errorf("controller %d read 0x%02X", ctrl, got)
			}
		}
	})

	t.Run("Sound", func(t *testing.T) {
		bu.Write8(SoundControl, 0x03)
		bu.Write8(SoundData, 0x7F)
		if len(snd.control) != 1 || snd.control[0] != 0x03 {
			t.Errorf("control writes %v", snd.control)
		}
		if len(snd.data) != 1 || snd.data[0] != 0x7F {
			t.Errorf("data writes %v", snd.data)
		}
	})

	t.Run("WriteOnlyDMARegs", func(t *testing.T) {
		bu.Write32(DMALow, 0x1234)
		if got := bu.Read32(DMALow); got != 0 {
			t.Errorf("dmalo reads 0x%08X", got)
		}
		bu.Write32(DMAFlush, 0xFFFFFFFF) // nop
	})
}
