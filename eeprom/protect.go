package eeprom

import (
	"omibyte.io/eeprog/bus"
)

// Command is one raw address/data write of a device command sequence.
type Command struct {
	Address uint16
	Data    uint8
}

var (
	// DisableSequence unlocks software data protection on a 28C256.
	DisableSequence = []Command{
		{0x5555, 0xAA},
		{0x2AAA, 0x55},
		{0x5555, 0x80},
		{0x5555, 0xAA},
		{0x2AAA, 0x55},
		{0x5555, 0x20},
	}

	// EnableSequence arms software data protection. The device locks once
	// the byte write following it completes.
	EnableSequence = []Command{
		{0x5555, 0xAA},
		{0x2AAA, 0x55},
		{0x5555, 0xA0},
	}
)

// DisableSoftwareDataProtection sends the unlock sequence. Steps are not
// polled; only a later byte write is.
func (c *Controller) DisableSoftwareDataProtection() {
	c.log.Info("sending SDP disable sequence")
	c.sendCommands(DisableSequence)
	c.log.Info("SDP disable sequence completed")
}

func (c *Controller) EnableSoftwareDataProtection() {
	c.log.Info("sending SDP enable sequence")
	c.sendCommands(EnableSequence)
	c.log.Info("SDP enable sequence completed")
}

func (c *Controller) sendCommands(seq []Command) {
	if bits := c.bus.AddressBits(); bits < bus.MaxAddressBits {
		c.log.Warnf("rig wires %d address bits; command addresses are truncated", bits)
	}

	c.bus.SetControl(bus.OutputEnable, false)
	c.setDirection(bus.Output)
	c.bus.SetControl(bus.ChipEnable, true)

	for _, cmd := range seq {
		c.bus.SetAddress(cmd.Address)
		c.bus.WriteData(cmd.Data)
		c.pulseWrite()
	}

	c.bus.SetControl(bus.ChipEnable, false)
}
