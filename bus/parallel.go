package bus

import (
	"omibyte.io/eeprog/peripheral"
)

// Parallel drives every wired address line from its own pin.
type Parallel struct {
	lines
	address []peripheral.Pin
	mask    uint16
}

type ParallelConfig struct {
	// Address lists A0 upwards. Its length is the wired bit count.
	Address []peripheral.Pin
	Data    [8]peripheral.Pin

	CE peripheral.Pin
	OE peripheral.Pin
	WE peripheral.Pin
}

func (b *Parallel) Configure(config ParallelConfig) error {
	if len(config.Address) == 0 || len(config.Address) > MaxAddressBits {
		return peripheral.ErrInvalidConfig
	}
	for _, p := range config.Address {
		if p == nil {
			return peripheral.ErrInvalidPinout
		}
	}

	if err := b.lines.configure(config.Data, config.CE, config.OE, config.WE); err != nil {
		return err
	}

	b.address = append([]peripheral.Pin(nil), config.Address...)
	b.mask = addressMask(len(b.address))
	for _, p := range b.address {
		p.Low()
		p.SetDirection(peripheral.Output)
	}
	return nil
}

func (b *Parallel) AddressBits() int {
	return len(b.address)
}

func (b *Parallel) SetAddress(addr uint16) {
	addr &= b.mask
	for i, p := range b.address {
		p.Set(addr>>i&1 == 1)
	}
}
