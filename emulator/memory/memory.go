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

package memory

import (
	"fmt"
	"log"
)

// Address is a location in the 32-bit physical address space.
type Address uint32

func (a Address) String() string {
	return fmt.Sprintf("0x%08X", uint32(a))
}

// Mask selects the active byte lanes of a 32-bit bus access. The data
// path is big endian: lane 0 carries the most significant byte, so a
// full word access is 0xFFFFFFFF and a byte access on lane 0 is
// 0xFF000000.
type Mask uint32

const (
	MaskNone  Mask = 0
	MaskWord  Mask = 0xFFFFFFFF
	MaskUpper Mask = 0xFFFF0000
	MaskLower Mask = 0x0000FFFF
)

// LaneMask returns the mask selecting byte lane n, 0 being the most
// significant byte of the word.
func LaneMask(lane int) Mask {
	return Mask(0xFF000000 >> uint(8*lane))
}

// Lane reports whether byte lane n takes part in the access.
func (m Mask) Lane(lane int) bool {
	return m&LaneMask(lane) != 0
}

// LaneShift is the bit position of byte lane n within a data word.
func LaneShift(lane int) uint {
	return uint(24 - 8*lane)
}

// Lane extracts byte lane n from a data word.
func Lane(data uint32, lane int) byte {
	return byte(data >> LaneShift(lane))
}

// PutLane merges b into byte lane n of data.
func PutLane(data uint32, lane int, b byte) uint32 {
	sh := LaneShift(lane)
	return data&^(0xFF<<sh) | uint32(b)<<sh
}

// Memory is a word-wide handler for one window of the address space.
// Handlers always receive the byte offset of the aligned word relative
// to the start of their window; mask tells which lanes the access
// touches.
type Memory interface {
	Read(off Address, mask Mask) uint32
	Write(off Address, data uint32, mask Mask)
}

// Unmapped backs every hole in the address space. Reserved regions
// read a fixed default and drop writes; nothing here ever faults.
type Unmapped struct {
	Quiet bool
}

func (m *Unmapped) Read(addr Address, mask Mask) uint32 {
	if !m.Quiet {
		log.Printf("reading unmapped memory: %v", addr)
	}
	return 0
}

func (m *Unmapped) Write(addr Address, data uint32, mask Mask) {
	if !m.Quiet {
		log.Printf("writing unmapped memory: %v", addr)
	}
}
