package eeprom

import (
	log "github.com/sirupsen/logrus"
)

// Erase writes 0xFF to every reachable address in ascending order and stops at
// the first failure.
func (c *Controller) Erase() error {
	c.log.Infof("erasing accessible addresses (0x0000-0x%04X)", c.limit-1)

	for addr := 0; addr < c.limit; addr++ {
		if err := c.WriteByte(uint16(addr), 0xFF); err != nil {
			c.log.Errorf("erase failed at 0x%04X", addr)
			return err
		}
		if addr%c.opts.Progress == 0 {
			c.log.Debugf("erased %d bytes", addr)
		}
	}

	c.log.Info("erase complete")
	return nil
}

// WriteBlock writes data starting at start, then verifies the whole block. A
// failed byte write stops the block; earlier bytes remain written.
func (c *Controller) WriteBlock(start uint16, data []byte) error {
	if err := c.checkRange(start, len(data)); err != nil {
		c.log.WithField("limit", c.limit).Error(err)
		return err
	}

	c.log.WithFields(log.Fields{
		"start":  start,
		"length": len(data),
	}).Info("writing data block")

	for i, b := range data {
		addr := start + uint16(i)
		if err := c.WriteByte(addr, b); err != nil {
			c.log.Errorf("block write failed at 0x%04X", addr)
			return err
		}
		if i%c.opts.Progress == 0 {
			c.log.Debugf("written %d bytes", i)
		}
	}

	c.log.Info("write complete")
	return c.Verify(start, data)
}

// Verify reads back the range starting at start and compares it with
// expected, stopping at the first mismatch.
func (c *Controller) Verify(start uint16, expected []byte) error {
	if err := c.checkRange(start, len(expected)); err != nil {
		c.log.WithField("limit", c.limit).Error(err)
		return err
	}

	c.log.Info("verifying data")

	for i, want := range expected {
		addr := start + uint16(i)
		got := c.ReadByte(addr)
		if got != want {
			err := &MismatchError{Address: addr, Expected: want, Actual: got}
			c.log.WithFields(log.Fields{
				"address":  addr,
				"expected": want,
				"actual":   got,
			}).Errorf("verify failed at 0x%04X: expected 0x%02X, got 0x%02X", addr, want, got)
			return err
		}
	}

	c.log.Info("verify complete")
	return nil
}

// Dump reads length bytes starting at start. Addresses beyond the window read
// as Sentinel.
func (c *Controller) Dump(start uint16, length int) []byte {
	out := make([]byte, 0, length)
	for i := 0; i < length; i++ {
		addr := int(start) + i
		if addr > 0xFFFF {
			out = append(out, Sentinel)
			continue
		}
		out = append(out, c.ReadByte(uint16(addr)))
	}
	return out
}
