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

	"github.com/twintower/iris4d/emulator/processor"
)

func TestLocalIntAggregate(t *testing.T) {
	b, cpu := testBoard(t, Config{})

	lines := make([]func(bool), 8)
	for i := range lines {
		lines[i] = b.LocalInt(i)
	}

	// The wired-OR aggregate reaches the CPU only when every source
	// requests service at once. Walk all subsets.
	for set := 0; set < 256; set++ {
		for i := 0; i < 8; i++ {
			lines[i](set&(1<<uint(i)) != 0)
		}

		wantAgg := set == 0xFF
		if cpu.lines[processor.IRQ1] != wantAgg {
			t.Fatalf("subset 0x%02X: aggregate %v", set, cpu.lines[processor.IRQ1])
		}
		if got := b.IntStatusByte(); got != ^byte(set) {
			t.Fatalf("subset 0x%02X: status 0x%02X", set, got)
		}
	}
}

func TestLocalIntEdges(t *testing.T) {
	b, cpu := testBoard(t, Config{})

	for i := 0; i < 8; i++ {
		b.LocalInt(i)(true)
	}
	if calls := cpu.calls[processor.IRQ1]; calls != 1 {
		t.Errorf("%d line transitions while asserting", calls)
	}

	// Re-asserting an already asserted source is silent.
	b.LocalInt(IntDisk)(true)
	if calls := cpu.calls[processor.IRQ1]; calls != 1 {
		t.Errorf("%d transitions after re-assert", calls)
	}

	b.LocalInt(IntDisk)(false)
	if cpu.lines[processor.IRQ1] {
		t.Error("aggregate still up with one source clear")
	}
	if calls := cpu.calls[processor.IRQ1]; calls != 2 {
		t.Errorf("%d transitions after deassert", calls)
	}

	b.LocalInt(IntDisk)(true)
	if !cpu.lines[processor.IRQ1] || cpu.calls[processor.IRQ1] != 3 {
		t.Error("aggregate did not return")
	}
}

func TestIntStatusWindow(t *testing.T) {
	b, _ := testBoard(t, Config{})
	bu := b.Bus()

	if got := bu.Read8(IntStatus + 3); got != 0xFF {
		t.Errorf("idle status 0x%02X", got)
	}

	b.LocalInt(IntDisk)(true)
	if got := bu.Read8(IntStatus + 3); got != 0xFF&^(1<<IntDisk) {
		t.Errorf("disk pending status 0x%02X", got)
	}

	// The status byte sits on lane 3 only.
	if got := bu.Read8(IntStatus); got != 0 {
		t.Errorf("status lane 0 = 0x%02X", got)
	}
}

func TestTimerInterrupts(t *testing.T) {
	b, cpu := testBoard(t, Config{})
	bu := b.Bus()

	b.TimerOut(0, true)
	b.TimerOut(1, true)
	if !cpu.lines[processor.IRQ2] || !cpu.lines[processor.IRQ4] {
		t.Fatal("rising edges did not latch")
	}

	// Falling edges are ignored; the latch holds until acknowledged.
	b.TimerOut(0, false)
	b.TimerOut(1, false)
	if !cpu.lines[processor.IRQ2] || !cpu.lines[processor.IRQ4] {
		t.Fatal("latch dropped on falling edge")
	}

	bu.Read8(Timer0Ack)
	if cpu.lines[processor.IRQ2] {
		t.Error("channel 0 latch survived acknowledge")
	}
	if !cpu.lines[processor.IRQ4] {
		t.Error("wrong acknowledge cleared channel 1")
	}

	bu.Read8(Timer1Ack)
	if cpu.lines[processor.IRQ4] {
		t.Error("channel 1 latch survived acknowledge")
	}

	// Channel 2 has no interrupt wiring.
	b.TimerOut(2, true)
	if cpu.lines[processor.IRQ2] || cpu.lines[processor.IRQ4] {
		t.Error("channel 2 reached an interrupt line")
	}
}
