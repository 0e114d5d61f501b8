package bus

import (
	"omibyte.io/eeprog/peripheral"
)

// BitOrder is the order address bits enter the shift register. It must match
// how the register outputs are wired to the socket.
type BitOrder int

const (
	MSBFirst BitOrder = iota
	LSBFirst
)

func (o BitOrder) String() string {
	if o == LSBFirst {
		return "lsb"
	}
	return "msb"
}

// ShiftRegister clocks the address serially into a chain of 74HC595 style
// registers and latches it onto their parallel outputs.
type ShiftRegister struct {
	lines
	serial peripheral.Pin
	clock  peripheral.Pin
	latch  peripheral.Pin
	bits   int
	order  BitOrder
}

type ShiftConfig struct {
	Serial peripheral.Pin // DS
	Clock  peripheral.Pin // SHCP
	Latch  peripheral.Pin // STCP

	Bits  int
	Order BitOrder

	Data [8]peripheral.Pin
	CE   peripheral.Pin
	OE   peripheral.Pin
	WE   peripheral.Pin
}

func (b *ShiftRegister) Configure(config ShiftConfig) error {
	if config.Bits < 1 || config.Bits > MaxAddressBits {
		return peripheral.ErrInvalidConfig
	}
	if config.Order != MSBFirst && config.Order != LSBFirst {
		return peripheral.ErrInvalidConfig
	}
	if config.Serial == nil || config.Clock == nil || config.Latch == nil {
		return peripheral.ErrInvalidPinout
	}

	if err := b.lines.configure(config.Data, config.CE, config.OE, config.WE); err != nil {
		return err
	}

	b.serial, b.clock, b.latch = config.Serial, config.Clock, config.Latch
	b.bits = config.Bits
	b.order = config.Order
	for _, p := range []peripheral.Pin{b.serial, b.clock, b.latch} {
		p.Low()
		p.SetDirection(peripheral.Output)
	}
	return nil
}

func (b *ShiftRegister) AddressBits() int {
	return b.bits
}

// SetAddress returns only after the latch has been pulsed, so the address is
// stable on the socket before any control line moves.
func (b *ShiftRegister) SetAddress(addr uint16) {
	addr &= addressMask(b.bits)
	for i := 0; i < b.bits; i++ {
		bit := i
		if b.order == MSBFirst {
			bit = b.bits - 1 - i
		}
		b.serial.Set(addr>>bit&1 == 1)
		b.clock.High()
		b.clock.Low()
	}
	b.latch.High()
	b.latch.Low()
}
