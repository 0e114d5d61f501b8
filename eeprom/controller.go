// Package eeprom implements the byte protocol of 28C256-class parallel
// EEPROMs on top of a bus.Driver: reads, data-polled writes, bulk
// erase/program/verify and the software data protection sequences.
package eeprom

import (
	"time"

	log "github.com/sirupsen/logrus"

	"omibyte.io/eeprog/bus"
	"omibyte.io/eeprog/peripheral/delay"
)

const (
	// DeviceSize is the capacity of a 28C256.
	DeviceSize = 32768

	// Sentinel is returned by ReadByte for addresses outside the window.
	Sentinel uint8 = 0xFF
)

type Options struct {
	DeviceSize int

	PulseWidth   time.Duration
	Settle       time.Duration
	WriteCycle   time.Duration
	PollInterval time.Duration
	PollTimeout  time.Duration

	// StableReads is the number of consecutive matching polls that complete a
	// write.
	StableReads int

	// Progress is the byte stride between progress lines in bulk operations.
	Progress int

	Logger log.FieldLogger
}

func (o Options) withDefaults() Options {
	if o.DeviceSize <= 0 {
		o.DeviceSize = DeviceSize
	}
	if o.PulseWidth <= 0 {
		o.PulseWidth = time.Microsecond
	}
	if o.Settle <= 0 {
		o.Settle = time.Microsecond
	}
	if o.WriteCycle <= 0 {
		o.WriteCycle = 100 * time.Microsecond
	}
	if o.PollInterval <= 0 {
		o.PollInterval = 10 * time.Microsecond
	}
	if o.PollTimeout <= 0 {
		o.PollTimeout = time.Second
	}
	if o.StableReads <= 0 {
		o.StableReads = 3
	}
	if o.Progress <= 0 {
		o.Progress = 8
	}
	if o.Logger == nil {
		o.Logger = log.StandardLogger()
	}
	return o
}

// Controller owns one EEPROM socket. It is not safe for concurrent use; the
// bus is a single exclusive resource driven in strict program order.
type Controller struct {
	bus   bus.Driver
	clock delay.Clock
	opts  Options
	log   log.FieldLogger
	limit int

	dir      bus.Direction
	dirKnown bool

	cycles []float64
}

func New(drv bus.Driver, clock delay.Clock, opts Options) *Controller {
	opts = opts.withDefaults()

	limit := opts.DeviceSize
	if wired := 1 << drv.AddressBits(); wired < limit {
		limit = wired
	}

	return &Controller{
		bus:   drv,
		clock: clock,
		opts:  opts,
		log:   opts.Logger,
		limit: limit,
	}
}

// Begin puts the socket into its idle state: every control line deasserted
// and the data bus released.
func (c *Controller) Begin() {
	c.bus.SetControl(bus.WriteEnable, false)
	c.bus.SetControl(bus.OutputEnable, false)
	c.bus.SetControl(bus.ChipEnable, false)
	c.dirKnown = false
	c.setDirection(bus.Input)
}

// Limit is one past the highest address the rig can reach.
func (c *Controller) Limit() int {
	return c.limit
}

func (c *Controller) inRange(addr uint16) bool {
	return int(addr) < c.limit
}

func (c *Controller) checkRange(start uint16, length int) error {
	if length < 0 || int(start) >= c.limit || int(start)+length > c.limit {
		return &RangeError{Start: start, Length: length, Limit: c.limit}
	}
	return nil
}

func (c *Controller) setDirection(dir bus.Direction) {
	if c.dirKnown && c.dir == dir {
		return
	}
	c.bus.SetDataDirection(dir)
	c.dir = dir
	c.dirKnown = true
}

func (c *Controller) pulseWrite() {
	c.bus.SetControl(bus.WriteEnable, true)
	c.clock.Wait(c.opts.PulseWidth)
	c.bus.SetControl(bus.WriteEnable, false)
}

// ReadByte returns the byte at addr, or Sentinel without touching the bus
// when addr is outside the window.
func (c *Controller) ReadByte(addr uint16) uint8 {
	if !c.inRange(addr) {
		return Sentinel
	}

	c.bus.SetAddress(addr)
	c.setDirection(bus.Input)

	c.bus.SetControl(bus.ChipEnable, true)
	c.bus.SetControl(bus.OutputEnable, true)

	c.clock.Wait(c.opts.Settle)
	data := c.bus.ReadData()

	c.bus.SetControl(bus.OutputEnable, false)
	c.bus.SetControl(bus.ChipEnable, false)

	return data
}

// WriteByte writes data to addr and waits for the device's internal write
// cycle to finish. It does not retry.
func (c *Controller) WriteByte(addr uint16, data uint8) error {
	if !c.inRange(addr) {
		return &RangeError{Start: addr, Length: 1, Limit: c.limit}
	}

	// OE goes high before the controller drives the data lines
	c.bus.SetControl(bus.OutputEnable, false)
	c.bus.SetControl(bus.ChipEnable, true)
	c.setDirection(bus.Output)

	c.bus.SetAddress(addr)
	c.bus.WriteData(data)
	c.pulseWrite()

	start := c.clock.Now()
	last, ok := c.waitForWriteComplete(data)
	c.bus.SetControl(bus.ChipEnable, false)

	if !ok {
		err := &WriteError{Address: addr, Data: data, Last: last}
		c.log.WithFields(log.Fields{
			"address": addr,
			"data":    data,
			"last":    last,
		}).Warnf("write failed at 0x%04X: expected 0x%02X, got 0x%02X", addr, data, last)
		return err
	}

	c.cycles = append(c.cycles, float64(c.clock.Now()-start)/float64(time.Microsecond))
	c.log.Debugf("write successful at 0x%04X with data 0x%02X", addr, data)
	return nil
}

// waitForWriteComplete polls the data bus until it reads back expected on
// StableReads consecutive samples. While the device is busy the top bit reads
// inverted, and the transition can bounce, so a single match is not enough.
// OE is released on every return.
func (c *Controller) waitForWriteComplete(expected uint8) (uint8, bool) {
	c.clock.Wait(c.opts.WriteCycle)

	c.setDirection(bus.Input)
	c.bus.SetControl(bus.OutputEnable, true)
	defer c.bus.SetControl(bus.OutputEnable, false)

	var last uint8
	stable := 0
	start := c.clock.Now()
	for c.clock.Now()-start < c.opts.PollTimeout {
		last = c.bus.ReadData()
		if last == expected {
			stable++
			if stable >= c.opts.StableReads {
				return last, true
			}
		} else {
			stable = 0
		}
		c.clock.Wait(c.opts.PollInterval)
	}
	return last, false
}
