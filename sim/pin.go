// Package sim models a 28C256 EEPROM socket, and the shift register that
// feeds its address lines on some rigs, behind peripheral.Pin so bus drivers
// and the controller run unmodified against it.
package sim

import (
	"omibyte.io/eeprog/peripheral"
)

// Pin is a simulated line. When it is an input and something on the board is
// driving it, Get returns the driven level; otherwise it returns the last
// level set.
type Pin struct {
	name  string
	level bool
	dir   peripheral.PinDirection

	drive       func() (level bool, driven bool)
	onChange    func(level bool)
	onDirection func(dir peripheral.PinDirection)

	edges int
}

func newPin(name string, level bool) *Pin {
	return &Pin{name: name, level: level}
}

func (p *Pin) Name() string {
	return p.name
}

func (p *Pin) High() {
	p.Set(true)
}

func (p *Pin) Low() {
	p.Set(false)
}

func (p *Pin) Set(on bool) {
	if p.level == on {
		return
	}
	p.level = on
	p.edges++
	if p.onChange != nil {
		p.onChange(on)
	}
}

func (p *Pin) Get() bool {
	if p.dir == peripheral.Input && p.drive != nil {
		if level, ok := p.drive(); ok {
			return level
		}
	}
	return p.level
}

func (p *Pin) SetDirection(dir peripheral.PinDirection) {
	if p.dir == dir {
		return
	}
	p.dir = dir
	p.edges++
	if p.onDirection != nil {
		p.onDirection(dir)
	}
}

func (p *Pin) GetDirection() peripheral.PinDirection {
	return p.dir
}

// Edges counts level and direction changes made through the pin.
func (p *Pin) Edges() int {
	return p.edges
}
