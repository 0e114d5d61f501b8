// Package pin adapts periph.io GPIO lines to peripheral.Pin.
package pin

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"

	"omibyte.io/eeprog/peripheral"
)

// GPIO drives a periph.io line. The level written while the line is an input
// is remembered and applied when it becomes an output, so a direction switch
// never glitches the line to a stale value.
type GPIO struct {
	io    gpio.PinIO
	dir   peripheral.PinDirection
	level gpio.Level
	err   error
}

func New(io gpio.PinIO) *GPIO {
	return &GPIO{
		io:  io,
		dir: peripheral.Input,
	}
}

func (p *GPIO) Name() string {
	return p.io.Name()
}

func (p *GPIO) High() {
	p.Set(true)
}

func (p *GPIO) Low() {
	p.Set(false)
}

func (p *GPIO) Set(on bool) {
	p.level = gpio.Level(on)
	if p.dir == peripheral.Output {
		p.check("out", p.io.Out(p.level))
	}
}

func (p *GPIO) Get() bool {
	if p.dir == peripheral.Output {
		return bool(p.level)
	}
	return bool(p.io.Read())
}

func (p *GPIO) SetDirection(dir peripheral.PinDirection) {
	p.dir = dir
	switch dir {
	case peripheral.Output:
		p.check("out", p.io.Out(p.level))
	default:
		p.check("in", p.io.In(gpio.Float, gpio.NoEdge))
	}
}

func (p *GPIO) GetDirection() peripheral.PinDirection {
	return p.dir
}

// Err returns the first error reported by the underlying line.
func (p *GPIO) Err() error {
	return p.err
}

func (p *GPIO) check(op string, err error) {
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("%s: %s: %w", p.io.Name(), op, err)
	}
}
