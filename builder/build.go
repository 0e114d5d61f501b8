package builder

import (
	"errors"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"omibyte.io/eeprog/bus"
	"omibyte.io/eeprog/eeprom"
	"omibyte.io/eeprog/indicator"
	"omibyte.io/eeprog/peripheral"
	"omibyte.io/eeprog/peripheral/delay"
	"omibyte.io/eeprog/peripheral/pin"
	"omibyte.io/eeprog/sim"
	"omibyte.io/eeprog/targets"
)

// Build resolves the target rig, wires its pins either to the host's GPIO
// lines or to a simulated socket, and returns a programmer ready for use.
func Build(options Options) (*Programmer, error) {
	logger := options.Logger
	if logger == nil {
		logger = log.StandardLogger()
	}

	target, err := resolveTarget(options)
	if err != nil {
		return nil, err
	}
	logger.WithFields(log.Fields{
		"target":   target.Name,
		"bus":      target.Bus,
		"simulate": options.Simulate,
	}).Debug("building programmer")

	p := &Programmer{
		Target:   target,
		simImage: options.SimImage,
	}

	var clock delay.Clock
	var lookup func(name string) (peripheral.Pin, error)
	if options.Simulate {
		virtual := delay.NewVirtual()
		board, err := newBoard(virtual, target, options)
		if err != nil {
			return nil, err
		}
		p.Board = board
		clock = virtual
		lookup = func(name string) (peripheral.Pin, error) {
			line, err := board.Pin(name)
			if err != nil {
				return nil, err
			}
			return line, nil
		}
	} else {
		byName := options.Lookup
		if byName == nil {
			if _, err := host.Init(); err != nil {
				return nil, errors.Join(ErrHardwareInit, err)
			}
			byName = gpioreg.ByName
		}
		clock = delay.Spin()
		lookup = func(name string) (peripheral.Pin, error) {
			io := byName(name)
			if io == nil {
				return nil, fmt.Errorf("%w: %s", peripheral.ErrPinNotFound, name)
			}
			line := pin.New(io)
			p.lines = append(p.lines, line)
			return line, nil
		}
	}

	r := &resolver{lookup: lookup}
	drv, err := newDriver(target, r)
	if err != nil {
		return nil, err
	}

	p.Controller = eeprom.New(drv, clock, eeprom.Options{
		DeviceSize:   target.DeviceSize,
		PulseWidth:   target.Timing.Pulse,
		Settle:       target.Timing.Settle,
		WriteCycle:   target.Timing.WriteCycle,
		PollInterval: target.Timing.PollInterval,
		PollTimeout:  target.Timing.PollTimeout,
		Logger:       logger,
	})

	if target.LED.Pin != "" {
		p.LED = &indicator.LED{
			Pin:       r.pin(target.LED.Pin),
			ActiveLow: target.LED.ActiveLow,
			Clock:     clock,
		}
		if err := r.err(); err != nil {
			return nil, err
		}
		if err := p.LED.Configure(); err != nil {
			return nil, err
		}
	}

	p.Controller.Begin()
	logger.Infof("%s ready, %d bytes accessible", target.Name, p.Controller.Limit())
	return p, nil
}

func resolveTarget(options Options) (targets.Target, error) {
	all := targets.All()
	if options.TargetsFile != "" {
		f, err := os.Open(options.TargetsFile)
		if err != nil {
			return targets.Target{}, errors.Join(ErrTargetsFile, err)
		}
		defer f.Close()
		if all, err = targets.Load(f); err != nil {
			return targets.Target{}, errors.Join(ErrTargetsFile, err)
		}
	}

	name := options.Target
	if name == "" {
		name = DefaultTarget
	}
	target, err := all.FindByName(name)
	if err != nil {
		return targets.Target{}, err
	}
	return target, target.Validate()
}

func newBoard(clock delay.Clock, target targets.Target, options Options) (*sim.Board, error) {
	w := sim.Wiring{
		CE:  target.Control.CE,
		OE:  target.Control.OE,
		WE:  target.Control.WE,
		LED: target.LED.Pin,
	}
	copy(w.Data[:], target.Data)

	if target.Bus == targets.BusShift {
		order, err := target.BitOrder()
		if err != nil {
			return nil, err
		}
		w.Serial, w.Clock, w.Latch = target.Shift.Serial, target.Shift.Clock, target.Shift.Latch
		w.Bits, w.Order = target.AddressBits, order
	} else {
		w.Address = target.Address
	}

	board, err := sim.NewBoard(clock, w)
	if err != nil {
		return nil, err
	}
	if options.SimWriteTime > 0 {
		board.Device.WriteTime = options.SimWriteTime
	}

	if options.SimImage != "" {
		f, err := os.Open(options.SimImage)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// A new image starts erased
		case err != nil:
			return nil, errors.Join(ErrSimImage, err)
		default:
			defer f.Close()
			if err := board.Device.Load(f); err != nil {
				return nil, errors.Join(ErrSimImage, err)
			}
		}
	}
	return board, nil
}

type resolver struct {
	lookup func(name string) (peripheral.Pin, error)
	errs   []error
}

func (r *resolver) pin(name string) peripheral.Pin {
	p, err := r.lookup(name)
	if err != nil {
		r.errs = append(r.errs, err)
		return nil
	}
	return p
}

func (r *resolver) data(names []string) (data [8]peripheral.Pin) {
	for i, name := range names {
		data[i] = r.pin(name)
	}
	return data
}

func (r *resolver) err() error {
	return errors.Join(r.errs...)
}

func newDriver(target targets.Target, r *resolver) (bus.Driver, error) {
	data := r.data(target.Data)
	ce, oe, we := r.pin(target.Control.CE), r.pin(target.Control.OE), r.pin(target.Control.WE)

	switch target.Bus {
	case targets.BusParallel:
		config := bus.ParallelConfig{Data: data, CE: ce, OE: oe, WE: we}
		for _, name := range target.Address {
			config.Address = append(config.Address, r.pin(name))
		}
		if err := r.err(); err != nil {
			return nil, err
		}
		drv := &bus.Parallel{}
		if err := drv.Configure(config); err != nil {
			return nil, err
		}
		return drv, nil
	case targets.BusShift:
		order, err := target.BitOrder()
		if err != nil {
			return nil, err
		}
		config := bus.ShiftConfig{
			Serial: r.pin(target.Shift.Serial),
			Clock:  r.pin(target.Shift.Clock),
			Latch:  r.pin(target.Shift.Latch),
			Bits:   target.AddressBits,
			Order:  order,
			Data:   data,
			CE:     ce,
			OE:     oe,
			WE:     we,
		}
		if err := r.err(); err != nil {
			return nil, err
		}
		drv := &bus.ShiftRegister{}
		if err := drv.Configure(config); err != nil {
			return nil, err
		}
		return drv, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedIO, target.Bus)
}
