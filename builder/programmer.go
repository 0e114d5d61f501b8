package builder

import (
	"errors"
	"os"

	"omibyte.io/eeprog/eeprom"
	"omibyte.io/eeprog/indicator"
	"omibyte.io/eeprog/peripheral/pin"
	"omibyte.io/eeprog/sim"
	"omibyte.io/eeprog/targets"
)

// Programmer is an assembled rig: the controller driving the socket, the
// status LED if the rig has one, and the simulated board when running
// without hardware.
type Programmer struct {
	Controller *eeprom.Controller
	LED        *indicator.LED
	Board      *sim.Board
	Target     targets.Target

	simImage string
	lines    []*pin.GPIO
}

// Blink flashes the status LED. Rigs without one ignore it.
func (p *Programmer) Blink(times int) {
	if p.LED != nil {
		p.LED.Blink(times)
	}
}

// Close releases the rig. In simulation the memory image is saved when one
// was configured. The first GPIO error seen during the session is returned.
func (p *Programmer) Close() error {
	if p.Board != nil && p.simImage != "" {
		f, err := os.Create(p.simImage)
		if err != nil {
			return errors.Join(ErrSimImage, err)
		}
		if err := p.Board.Device.Save(f); err != nil {
			f.Close()
			return errors.Join(ErrSimImage, err)
		}
		if err := f.Close(); err != nil {
			return errors.Join(ErrSimImage, err)
		}
	}

	for _, line := range p.lines {
		if err := line.Err(); err != nil {
			return err
		}
	}
	return nil
}
