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

package bus

import "github.com/twintower/iris4d/emulator/memory"

// Handler adapts a pair of funcs to a window device, for small register
// windows that don't warrant a type of their own. A nil R reads zero; a
// nil W drops the write.
type Handler struct {
	R func(off memory.Address, mask memory.Mask) uint32
	W func(off memory.Address, data uint32, mask memory.Mask)
}

func (h Handler) Read(off memory.Address, mask memory.Mask) uint32 {
	if h.R == nil {
		return 0
	}
	return h.R(off, mask)
}

func (h Handler) Write(off memory.Address, data uint32, mask memory.Mask) {
	if h.W == nil {
		return
	}
	h.W(off, data, mask)
}

// Lane8 wires a byte-wide register file onto a single byte lane of the
// word bus, the way narrow parts sit on the IP4 board: one register per
// word, register index = word index within the window. Accesses that
// don't select the lane are ignored (reads return zero).
func Lane8(lane int, r func(reg memory.Address) byte, w func(reg memory.Address, data byte)) Handler {
	return Handler{
		R: func(off memory.Address, mask memory.Mask) uint32 {
			if r == nil || !mask.Lane(lane) {
				return 0
			}
			return memory.PutLane(0, lane, r(off>>2))
		},
		W: func(off memory.Address, data uint32, mask memory.Mask) {
			if w == nil || !mask.Lane(lane) {
				return
			}
			w(off>>2, memory.Lane(data, lane))
		},
	}
}

// Lane16 wires a half-word register onto the low 16 bits of the word
// bus (register index = word index within the window).
func Lane16(r func(reg memory.Address) uint16, w func(reg memory.Address, data uint16)) Handler {
	return Handler{
		R: func(off memory.Address, mask memory.Mask) uint32 {
			if r == nil || mask&memory.MaskLower == 0 {
				return 0
			}
			return uint32(r(off >> 2))
		},
		W: func(off memory.Address, data uint32, mask memory.Mask) {
			if w == nil || mask&memory.MaskLower == 0 {
				return
			}
			w(off>>2, uint16(data))
		},
	}
}

// ByteLanes adapts a handler that wants one callback per active byte
// lane, such as the parity acknowledge registers where the byte offset
// selects which flag to clear.
func ByteLanes(r func(lane int) byte, w func(lane int, data byte)) Handler {
	return Handler{
		R: func(off memory.Address, mask memory.Mask) uint32 {
			var data uint32
			for lane := 0; lane < 4; lane++ {
				if mask.Lane(lane) && r != nil {
					data = memory.PutLane(data, lane, r(lane))
				}
			}
			return data
		},
		W: func(off memory.Address, data uint32, mask memory.Mask) {
			for lane := 0; lane < 4; lane++ {
				if mask.Lane(lane) && w != nil {
					w(lane, memory.Lane(data, lane))
				}
			}
		},
	}
}
