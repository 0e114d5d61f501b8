package sim

import (
	"fmt"
	"io"
	"time"

	"omibyte.io/eeprog/peripheral"
	"omibyte.io/eeprog/peripheral/delay"
)

// Size is the capacity of the simulated part.
const Size = 32768

// DefaultWriteTime is the internal write cycle of the simulated part.
const DefaultWriteTime = 5 * time.Millisecond

// Write is a byte latched on a WE rising edge.
type Write struct {
	Address uint16
	Data    uint8
}

func (w Write) String() string {
	return fmt.Sprintf("0x%04X/0x%02X", w.Address, w.Data)
}

var (
	disableSequence = []Write{
		{0x5555, 0xAA}, {0x2AAA, 0x55}, {0x5555, 0x80},
		{0x5555, 0xAA}, {0x2AAA, 0x55}, {0x5555, 0x20},
	}
	enableSequence = []Write{
		{0x5555, 0xAA}, {0x2AAA, 0x55}, {0x5555, 0xA0},
	}
)

type latched struct {
	Write
	prev   uint8
	stored bool
}

// Device is a 28C256 with byte writes, DATA polling and software data
// protection. It samples its address through a source supplied by the board,
// so unwired address lines read as zero.
type Device struct {
	WriteTime time.Duration

	clock   delay.Clock
	mem     [Size]uint8
	address func() uint16

	data [8]*Pin
	ce   *Pin
	oe   *Pin
	we   *Pin

	busyUntil time.Duration
	busyData  uint8

	protected bool
	armed     bool
	recent    []latched

	writes     []Write
	contention int
}

func NewDevice(clock delay.Clock) *Device {
	d := &Device{
		WriteTime: DefaultWriteTime,
		clock:     clock,
		address:   func() uint16 { return 0 },
	}
	for i := range d.mem {
		d.mem[i] = 0xFF
	}

	// Control lines idle high through the board's pull-ups
	d.ce = newPin("CE", true)
	d.oe = newPin("OE", true)
	d.we = newPin("WE", true)

	d.we.onChange = func(level bool) {
		if level {
			d.latch()
		}
	}
	d.ce.onChange = func(bool) { d.checkContention() }
	d.oe.onChange = func(bool) { d.checkContention() }

	for i := range d.data {
		bit := i
		p := newPin(fmt.Sprintf("D%d", i), false)
		p.drive = func() (bool, bool) {
			if !d.driving() {
				return false, false
			}
			return d.output()>>bit&1 == 1, true
		}
		p.onDirection = func(peripheral.PinDirection) { d.checkContention() }
		d.data[i] = p
	}
	return d
}

func (d *Device) CE() *Pin { return d.ce }
func (d *Device) OE() *Pin { return d.oe }
func (d *Device) WE() *Pin { return d.we }

func (d *Device) Data(i int) *Pin {
	return d.data[i]
}

// SetAddressSource connects the device's address inputs.
func (d *Device) SetAddressSource(src func() uint16) {
	d.address = src
}

func (d *Device) selected() bool {
	return !d.ce.level
}

func (d *Device) driving() bool {
	return d.selected() && !d.oe.level && d.we.level
}

func (d *Device) busy() bool {
	return d.clock.Now() < d.busyUntil
}

func (d *Device) output() uint8 {
	if d.busy() {
		// DATA polling: bit 7 reads inverted until the cycle completes
		return d.busyData ^ 0x80
	}
	return d.mem[d.address()%Size]
}

func (d *Device) checkContention() {
	if !d.driving() {
		return
	}
	for _, p := range d.data {
		if p.dir == peripheral.Output {
			d.contention++
			return
		}
	}
}

func (d *Device) latch() {
	if !d.selected() || !d.oe.level {
		return
	}

	var data uint8
	for i, p := range d.data {
		if p.level {
			data |= 1 << i
		}
	}
	w := Write{Address: d.address() % Size, Data: data}
	d.writes = append(d.writes, w)

	l := latched{Write: w, prev: d.mem[w.Address]}
	if !d.protected || d.armed {
		d.armed = false
		d.commit(w)
		l.stored = true
	}

	d.recent = append(d.recent, l)
	if len(d.recent) > len(disableSequence) {
		d.recent = d.recent[1:]
	}
	switch {
	case hasSuffix(d.recent, disableSequence):
		d.endSequence(len(disableSequence))
		d.protected = false
	case hasSuffix(d.recent, enableSequence):
		d.endSequence(len(enableSequence))
		d.protected = true
		d.armed = true
	}
}

// endSequence undoes the array writes made by the last n latched bytes. Command
// sequences never reach the array, but the device cannot tell a command from
// data until the sequence completes.
func (d *Device) endSequence(n int) {
	for i := len(d.recent) - 1; i >= len(d.recent)-n; i-- {
		if l := d.recent[i]; l.stored {
			d.mem[l.Address] = l.prev
		}
	}
	d.recent = nil
	d.busyUntil = 0
}

func (d *Device) commit(w Write) {
	d.mem[w.Address] = w.Data
	d.busyData = w.Data
	d.busyUntil = d.clock.Now() + d.WriteTime
}

func hasSuffix(s []latched, suffix []Write) bool {
	if len(s) < len(suffix) {
		return false
	}
	off := len(s) - len(suffix)
	for i, w := range suffix {
		if s[off+i].Write != w {
			return false
		}
	}
	return true
}

// Peek returns the stored byte without bus activity.
func (d *Device) Peek(addr uint16) uint8 {
	return d.mem[addr%Size]
}

func (d *Device) Poke(addr uint16, v uint8) {
	d.mem[addr%Size] = v
}

func (d *Device) Protected() bool {
	return d.protected
}

func (d *Device) SetProtected(on bool) {
	d.protected = on
	d.armed = false
}

// Writes returns every byte latched so far, command bytes included.
func (d *Device) Writes() []Write {
	return d.writes
}

// Contention counts the times the controller drove the data bus while the
// device had its outputs enabled.
func (d *Device) Contention() int {
	return d.contention
}

func (d *Device) Load(r io.Reader) error {
	_, err := io.ReadFull(r, d.mem[:])
	return err
}

func (d *Device) Save(w io.Writer) error {
	_, err := w.Write(d.mem[:])
	return err
}
