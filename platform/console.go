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

// Package platform hosts the terminal frontend: a tcell screen playing
// the serial terminal on the console duart, plus a status row for the
// diagnostic LEDs. Ctrl-C ends the session.
package platform

import (
	"sync"

	"github.com/gdamore/tcell"
)

type Console struct {
	sync.Mutex

	screen tcell.Screen
	lines  [][]rune
	col    int
	leds   [5]bool

	input func(byte)
	quit  chan struct{}
	once  sync.Once
}

// NewConsole opens the terminal. Every keystroke is delivered to input
// as a serial byte.
func NewConsole(input func(byte)) (*Console, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := s.Init(); err != nil {
		return nil, err
	}
	s.SetStyle(tcell.StyleDefault)
	s.Clear()

	c := &Console{
		screen: s,
		lines:  [][]rune{nil},
		input:  input,
		quit:   make(chan struct{}),
	}
	go c.eventLoop()

	c.redraw()
	return c, nil
}

// SetInput replaces the keystroke sink. The console comes up before
// the machine during assembly, so the sink usually arrives late.
func (c *Console) SetInput(input func(byte)) {
	c.Lock()
	c.input = input
	c.Unlock()
}

func (c *Console) send(b byte) {
	c.Lock()
	input := c.input
	c.Unlock()

	if input != nil {
		input(b)
	}
}

// Done closes when the user asks to quit.
func (c *Console) Done() <-chan struct{} {
	return c.quit
}

// Stop restores the terminal.
func (c *Console) Stop() {
	c.once.Do(func() {
		close(c.quit)
	})
	c.Lock()
	c.screen.Fini()
	c.Unlock()
}

func (c *Console) eventLoop() {
	for {
		ev := c.screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventKey:
			switch ev.Key() {
			case tcell.KeyCtrlC:
				c.once.Do(func() {
					close(c.quit)
				})
				return
			case tcell.KeyEnter:
				c.send('\r')
			case tcell.KeyBackspace, tcell.KeyBackspace2:
				c.send(0x08)
			case tcell.KeyTab:
				c.send('\t')
			case tcell.KeyEscape:
				c.send(0x1B)
			case tcell.KeyRune:
				r := ev.Rune()
				if r < 0x80 {
					c.send(byte(r))
				}
			}
		case *tcell.EventResize:
			c.Lock()
			c.redraw()
			c.Unlock()
		case nil:
			return
		}
	}
}

// Write renders serial output. Implements io.Writer so it plugs
// straight into the console duart.
func (c *Console) Write(p []byte) (int, error) {
	c.Lock()
	defer c.Unlock()

	for _, b := range p {
		switch b {
		case '\r':
			c.col = 0
		case '\n':
			c.lines = append(c.lines, nil)
			c.col = 0
		case 0x08:
			if cur := len(c.lines) - 1; c.col > 0 && c.col <= len(c.lines[cur]) {
				c.col--
				c.lines[cur] = c.lines[cur][:c.col]
			}
		default:
			cur := len(c.lines) - 1
			for len(c.lines[cur]) < c.col {
				c.lines[cur] = append(c.lines[cur], ' ')
			}
			c.lines[cur] = append(c.lines[cur][:c.col], rune(b))
			c.col++
		}
	}

	c.redraw()
	return len(p), nil
}

// SetLED updates one diagnostic LED on the status row.
func (c *Console) SetLED(index int, on bool) {
	c.Lock()
	defer c.Unlock()

	if index >= 0 && index < len(c.leds) {
		c.leds[index] = on
	}
	c.redraw()
}

func (c *Console) redraw() {
	w, h := c.screen.Size()
	if w == 0 || h < 2 {
		return
	}
	c.screen.Clear()

	// Status row: the five LEDs.
	status := []rune("LEDs: ")
	for i := len(c.leds) - 1; i >= 0; i-- {
		if c.leds[i] {
			status = append(status, '*')
		} else {
			status = append(status, '.')
		}
	}
	for x, r := range status {
		if x < w {
			c.screen.SetContent(x, 0, r, nil, tcell.StyleDefault.Reverse(true))
		}
	}

	rows := h - 1
	first := 0
	if len(c.lines) > rows {
		first = len(c.lines) - rows
	}
	for y, line := range c.lines[first:] {
		for x, r := range line {
			if x < w {
				c.screen.SetContent(x, y+1, r, nil, tcell.StyleDefault)
			}
		}
	}

	c.screen.Show()
}
