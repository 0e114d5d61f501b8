package eeprom

import (
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"

	"omibyte.io/eeprog/bus"
)

// fakeBus records every driver call. Its data lines come from script when set,
// otherwise from a small memory that stores whatever is latched on WE.
type fakeBus struct {
	bits int

	calls    []string
	commands []Command

	addr uint16
	out  uint8
	ce   bool
	oe   bool
	we   bool

	mem    map[uint16]uint8
	stuck  map[uint16]bool
	script func(n int) uint8
	reads  int
}

func newFakeBus(bits int) *fakeBus {
	return &fakeBus{
		bits:  bits,
		mem:   map[uint16]uint8{},
		stuck: map[uint16]bool{},
	}
}

func (f *fakeBus) AddressBits() int {
	return f.bits
}

func (f *fakeBus) SetAddress(addr uint16) {
	f.addr = addr & (uint16(1)<<f.bits - 1)
	f.calls = append(f.calls, fmt.Sprintf("addr 0x%04X", f.addr))
}

func (f *fakeBus) SetDataDirection(dir bus.Direction) {
	f.calls = append(f.calls, "dir "+dir.String())
}

func (f *fakeBus) ReadData() uint8 {
	f.calls = append(f.calls, "read")
	f.reads++
	if f.script != nil {
		return f.script(f.reads)
	}
	if v, ok := f.mem[f.addr]; ok {
		return v
	}
	return 0xFF
}

func (f *fakeBus) WriteData(b uint8) {
	f.out = b
	f.calls = append(f.calls, fmt.Sprintf("data 0x%02X", b))
}

func (f *fakeBus) SetControl(line bus.Line, asserted bool) {
	state := "off"
	if asserted {
		state = "on"
	}
	f.calls = append(f.calls, line.String()+" "+state)

	switch line {
	case bus.ChipEnable:
		f.ce = asserted
	case bus.OutputEnable:
		f.oe = asserted
	case bus.WriteEnable:
		if f.we && !asserted && f.ce && !f.oe {
			f.commands = append(f.commands, Command{Address: f.addr, Data: f.out})
			if !f.stuck[f.addr] {
				f.mem[f.addr] = f.out
			}
		}
		f.we = asserted
	}
}

func (f *fakeBus) count(call string) int {
	n := 0
	for _, c := range f.calls {
		if c == call {
			n++
		}
	}
	return n
}

func quietLogger() log.FieldLogger {
	l := log.New()
	l.SetOutput(io.Discard)
	return l
}
