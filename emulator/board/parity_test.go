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

import "testing"

func TestParityLifecycle(t *testing.T) {
	b, cpu := testBoard(t, Config{})
	bu := b.Bus()

	if b.ParityActive() {
		t.Fatal("subsystem up before first enable")
	}

	bu.Write32(ConfigReg, uint32(CfgBadPar))
	if !b.ParityActive() || b.BadParityCount() != 0 {
		t.Fatal("enable edge did not bring the subsystem up clean")
	}

	// Every written lane poisons one byte.
	bu.Write8(0x100, 0xAA)
	bu.Write8(0x205, 0xBB)
	bu.Write32(0x300, 0xDEADBEEF)
	if b.BadParityCount() != 6 {
		t.Fatalf("count %d after 6 poisoned bytes", b.BadParityCount())
	}

	// Rewriting an already poisoned byte must not drift the counter.
	bu.Write8(0x100, 0x55)
	if b.BadParityCount() != 6 {
		t.Fatalf("count drifted to %d", b.BadParityCount())
	}

	// Checking is off, so reads of poisoned bytes pass.
	bu.Read32(0x300)
	if cpu.busErrs != 0 {
		t.Fatal("bus error with checking disabled")
	}

	// Injection off: writes heal, and the subsystem stays up until the
	// last poisoned byte clears.
	bu.Write32(ConfigReg, 0)
	bu.Write32(0x300, 0)
	if b.BadParityCount() != 2 || !b.ParityActive() {
		t.Fatalf("count %d active %v after word heal", b.BadParityCount(), b.ParityActive())
	}
	bu.Write8(0x205, 0)
	if !b.ParityActive() {
		t.Fatal("tore down with a poisoned byte left")
	}
	bu.Write8(0x100, 0)
	if b.ParityActive() || b.BadParityCount() != 0 {
		t.Fatal("last heal did not tear the subsystem down")
	}

	// Down means down: plain writes don't resurrect it.
	bu.Write8(0x400, 1)
	if b.ParityActive() {
		t.Fatal("plain write resurrected the subsystem")
	}

	// Only the next enable edge does.
	bu.Write32(ConfigReg, uint32(CfgBadPar))
	if !b.ParityActive() || b.BadParityCount() != 0 {
		t.Fatal("second enable edge did not restart clean")
	}
}

func TestParityImmediateTeardown(t *testing.T) {
	b, _ := testBoard(t, Config{})
	bu := b.Bus()

	bu.Write32(ConfigReg, uint32(CfgBadPar))
	bu.Write32(ConfigReg, 0)

	// Nothing was poisoned, so the first clean write finds a zero
	// counter and tears down right away.
	bu.Write8(0x100, 0)
	if b.ParityActive() {
		t.Fatal("empty shadow survived a clean write")
	}
}

func TestParityDetection(t *testing.T) {
	b, cpu := testBoard(t, Config{})
	bu := b.Bus()

	bu.Write32(ConfigReg, uint32(CfgBadPar))
	bu.Write8(0x205, 0x5A) // lane 1 of word 0x204
	bu.Write32(ConfigReg, uint32(CfgChkPar))

	t.Run("CleanLane", func(t *testing.T) {
		bu.Read8(0x204)
		if cpu.busErrs != 0 {
			t.Error("clean lane faulted")
		}
	})

	t.Run("PoisonedLane", func(t *testing.T) {
		if got := bu.Read8(0x205); got != 0x5A {
			t.Errorf("data 0x%02X", got)
		}
		if cpu.busErrs != 1 {
			t.Fatalf("%d bus errors", cpu.busErrs)
		}
		if b.ErrAddress() != 0x204 {
			t.Errorf("latched %v", b.ErrAddress())
		}
		if b.ParityError() != parByte1|parCPU {
			t.Errorf("error byte 0x%02X", b.ParityError())
		}
		if got := bu.Read32(ErrAddr); got != 0x204 {
			t.Errorf("error address window 0x%08X", got)
		}
	})

	t.Run("WordRead", func(t *testing.T) {
		// A full word read selects the poisoned lane too.
		bu.Read32(0x204)
		if cpu.busErrs != 2 {
			t.Errorf("%d bus errors", cpu.busErrs)
		}
	})

	t.Run("StatusWindow", func(t *testing.T) {
		want := (parByte1 | parCPU) ^ parAllBytes
		if got := bu.Read8(ParityStatus + 1); got != want {
			t.Errorf("status 0x%02X, want 0x%02X", got, want)
		}
	})

	t.Run("Acknowledge", func(t *testing.T) {
		// The byte offset selects which source flag clears alongside
		// the lane flags; offset 2 carries the CPU tag.
		bu.Read8(ParityAck + 2)
		if b.ParityError() != 0 {
			t.Errorf("error byte 0x%02X after acknowledge", b.ParityError())
		}
	})

	t.Run("AcknowledgeByWrite", func(t *testing.T) {
		bu.Read8(0x205)
		if b.ParityError() == 0 {
			t.Fatal("fault did not latch again")
		}
		bu.Write8(ParityAck+2, 0)
		if b.ParityError() != 0 {
			t.Errorf("error byte 0x%02X after write acknowledge", b.ParityError())
		}
	})
}
