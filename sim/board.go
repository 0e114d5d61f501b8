package sim

import (
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"omibyte.io/eeprog/bus"
	"omibyte.io/eeprog/peripheral"
	"omibyte.io/eeprog/peripheral/delay"
)

// Wiring names the pins of a rig. Address is used by parallel rigs; Serial,
// Clock and Latch by shift-register rigs.
type Wiring struct {
	Address []string

	Serial string
	Clock  string
	Latch  string
	Bits   int
	Order  bus.BitOrder

	Data [8]string
	CE   string
	OE   string
	WE   string
	LED  string
}

// Board is a rig with a simulated part in its socket. Pins are looked up by
// the names used in the wiring, so rig descriptions written for hardware
// drive the simulation unchanged.
type Board struct {
	Device   *Device
	Register *ShiftRegister

	pins map[string]*Pin
}

func NewBoard(clock delay.Clock, w Wiring) (*Board, error) {
	b := &Board{
		Device: NewDevice(clock),
		pins:   map[string]*Pin{},
	}

	add := func(name string, p *Pin) error {
		if name == "" {
			return fmt.Errorf("%w: unnamed %s line", peripheral.ErrInvalidPinout, p.name)
		}
		if _, ok := b.pins[name]; ok {
			return fmt.Errorf("%w: %s used twice", peripheral.ErrInvalidPinout, name)
		}
		p.name = name
		b.pins[name] = p
		return nil
	}

	for i := range w.Data {
		if err := add(w.Data[i], b.Device.Data(i)); err != nil {
			return nil, err
		}
	}
	for _, c := range []struct {
		name string
		pin  *Pin
	}{
		{w.CE, b.Device.CE()},
		{w.OE, b.Device.OE()},
		{w.WE, b.Device.WE()},
	} {
		if err := add(c.name, c.pin); err != nil {
			return nil, err
		}
	}

	switch {
	case len(w.Address) > 0:
		lines := make([]*Pin, len(w.Address))
		for i, name := range w.Address {
			lines[i] = newPin(fmt.Sprintf("A%d", i), false)
			if err := add(name, lines[i]); err != nil {
				return nil, err
			}
		}
		b.Device.SetAddressSource(func() uint16 {
			var addr uint16
			for i, p := range lines {
				if p.level {
					addr |= 1 << i
				}
			}
			return addr
		})
	case w.Serial != "":
		if w.Bits < 1 || w.Bits > bus.MaxAddressBits {
			return nil, peripheral.ErrInvalidConfig
		}
		reg := NewShiftRegister(w.Bits)
		b.Register = reg

		serial := newPin("DS", false)
		clk := newPin("SHCP", false)
		latch := newPin("STCP", false)
		for _, c := range []struct {
			name string
			pin  *Pin
		}{
			{w.Serial, serial},
			{w.Clock, clk},
			{w.Latch, latch},
		} {
			if err := add(c.name, c.pin); err != nil {
				return nil, err
			}
		}
		clk.onChange = func(level bool) {
			if level {
				reg.Clock(serial.level)
			}
		}
		latch.onChange = func(level bool) {
			if level {
				reg.Latch()
			}
		}

		bits, order := w.Bits, w.Order
		b.Device.SetAddressSource(func() uint16 {
			q := reg.Outputs()
			if order == bus.MSBFirst {
				return q
			}
			// Reversed wiring: A0 hangs off the last output
			var addr uint16
			for i := 0; i < bits; i++ {
				if q>>(bits-1-i)&1 == 1 {
					addr |= 1 << i
				}
			}
			return addr
		})
	default:
		return nil, fmt.Errorf("%w: no address lines", peripheral.ErrInvalidPinout)
	}

	if w.LED != "" {
		if err := add(w.LED, newPin("LED", false)); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Pin returns the line wired under name.
func (b *Board) Pin(name string) (*Pin, error) {
	p, ok := b.pins[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", peripheral.ErrPinNotFound, name)
	}
	return p, nil
}

// Names lists the wired pin names in sorted order.
func (b *Board) Names() []string {
	names := maps.Keys(b.pins)
	slices.Sort(names)
	return names
}

// Edges is the total number of level and direction changes on the board.
func (b *Board) Edges() int {
	n := 0
	for _, p := range b.pins {
		n += p.Edges()
	}
	return n
}
