// Package bus drives the address, data and control lines of a parallel
// EEPROM. Drivers perform unconditional pin operations; sequencing is the
// caller's responsibility.
package bus

import (
	"omibyte.io/eeprog/peripheral"
)

// MaxAddressBits is the widest address a 28C256 socket exposes (A0-A14).
const MaxAddressBits = 15

type Direction int

const (
	Input Direction = iota
	Output
)

func (d Direction) String() string {
	if d == Output {
		return "output"
	}
	return "input"
}

// Line is one of the active-low control signals.
type Line int

const (
	ChipEnable Line = iota
	OutputEnable
	WriteEnable
)

func (l Line) String() string {
	switch l {
	case ChipEnable:
		return "CE"
	case OutputEnable:
		return "OE"
	case WriteEnable:
		return "WE"
	}
	return "?"
}

type Driver interface {
	// AddressBits is the number of physically wired address lines.
	AddressBits() int

	// SetAddress presents the low AddressBits bits of addr. Higher bits are
	// discarded; unwired lines are grounded on the rig.
	SetAddress(addr uint16)

	SetDataDirection(dir Direction)
	ReadData() uint8
	WriteData(b uint8)

	// SetControl drives line to its asserted (low) or deasserted (high) level.
	SetControl(line Line, asserted bool)
}

func addressMask(bits int) uint16 {
	return uint16(1)<<bits - 1
}

// lines holds the pins shared by every rig: the data bus and CE/OE/WE.
type lines struct {
	data [8]peripheral.Pin
	ce   peripheral.Pin
	oe   peripheral.Pin
	we   peripheral.Pin
}

func (l *lines) configure(data [8]peripheral.Pin, ce, oe, we peripheral.Pin) error {
	if ce == nil || oe == nil || we == nil {
		return peripheral.ErrInvalidPinout
	}
	for _, p := range data {
		if p == nil {
			return peripheral.ErrInvalidPinout
		}
	}

	l.data = data
	l.ce, l.oe, l.we = ce, oe, we

	// Everything deasserted before the lines become outputs
	for _, p := range []peripheral.Pin{we, oe, ce} {
		p.High()
		p.SetDirection(peripheral.Output)
	}
	l.SetDataDirection(Input)
	return nil
}

func (l *lines) SetDataDirection(dir Direction) {
	pdir := peripheral.Input
	if dir == Output {
		pdir = peripheral.Output
	}
	for _, p := range l.data {
		p.SetDirection(pdir)
	}
}

func (l *lines) ReadData() uint8 {
	var b uint8
	for i, p := range l.data {
		if p.Get() {
			b |= 1 << i
		}
	}
	return b
}

func (l *lines) WriteData(b uint8) {
	for i, p := range l.data {
		p.Set(b>>i&1 == 1)
	}
}

func (l *lines) SetControl(line Line, asserted bool) {
	var p peripheral.Pin
	switch line {
	case ChipEnable:
		p = l.ce
	case OutputEnable:
		p = l.oe
	case WriteEnable:
		p = l.we
	default:
		return
	}
	p.Set(!asserted)
}
