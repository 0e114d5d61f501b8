package targets

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"

	"omibyte.io/eeprog/bus"
	"omibyte.io/eeprog/peripheral"
)

//go:embed targets.yaml
var rawTargets []byte

var targets Targets
var ErrTargetNotFound = errors.New("target not found")

func All() Targets {
	return targets
}

const (
	BusParallel = "parallel"
	BusShift    = "shift"
)

type Targets []Target
type Target struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Bus         string   `yaml:"bus"`
	DeviceSize  int      `yaml:"deviceSize"`
	AddressBits int      `yaml:"addressBits"`
	Address     []string `yaml:"address"`
	Shift       Shift    `yaml:"shift"`
	Data        []string `yaml:"data"`
	Control     Control  `yaml:"control"`
	LED         LED      `yaml:"led"`
	Timing      Timing   `yaml:"timing"`
}

type Shift struct {
	Serial string `yaml:"serial"`
	Clock  string `yaml:"clock"`
	Latch  string `yaml:"latch"`
	Order  string `yaml:"order"`
}

type Control struct {
	CE string `yaml:"ce"`
	OE string `yaml:"oe"`
	WE string `yaml:"we"`
}

type LED struct {
	Pin       string `yaml:"pin"`
	ActiveLow bool   `yaml:"activeLow"`
}

// Timing overrides the controller defaults. Zero values keep the default.
type Timing struct {
	Pulse        time.Duration `yaml:"pulse"`
	Settle       time.Duration `yaml:"settle"`
	WriteCycle   time.Duration `yaml:"writeCycle"`
	PollInterval time.Duration `yaml:"pollInterval"`
	PollTimeout  time.Duration `yaml:"pollTimeout"`
}

// BitOrder returns the shift order of a shift-register rig.
func (t Target) BitOrder() (bus.BitOrder, error) {
	switch strings.ToLower(t.Shift.Order) {
	case "", "msb":
		return bus.MSBFirst, nil
	case "lsb":
		return bus.LSBFirst, nil
	}
	return bus.MSBFirst, fmt.Errorf("%w: shift order %q", peripheral.ErrInvalidConfig, t.Shift.Order)
}

// Pins lists every pin name the rig uses.
func (t Target) Pins() []string {
	var pins []string
	if t.Bus == BusShift {
		pins = append(pins, t.Shift.Serial, t.Shift.Clock, t.Shift.Latch)
	} else {
		pins = append(pins, t.Address...)
	}
	pins = append(pins, t.Data...)
	pins = append(pins, t.Control.CE, t.Control.OE, t.Control.WE)
	if t.LED.Pin != "" {
		pins = append(pins, t.LED.Pin)
	}
	return pins
}

func (t Target) Validate() error {
	var errs []error
	invalid := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%s: %w: %s", t.Name, peripheral.ErrInvalidConfig, fmt.Sprintf(format, args...)))
	}

	if t.Name == "" {
		invalid("missing name")
	}
	if t.AddressBits < 1 || t.AddressBits > bus.MaxAddressBits {
		invalid("addressBits %d outside 1-%d", t.AddressBits, bus.MaxAddressBits)
	}
	if t.DeviceSize < 0 || t.DeviceSize > 1<<bus.MaxAddressBits {
		invalid("deviceSize %d", t.DeviceSize)
	}

	switch t.Bus {
	case BusParallel:
		if len(t.Address) != t.AddressBits {
			invalid("%d address pins for %d address bits", len(t.Address), t.AddressBits)
		}
	case BusShift:
		if t.Shift.Serial == "" || t.Shift.Clock == "" || t.Shift.Latch == "" {
			invalid("shift register needs serial, clock and latch pins")
		}
		if _, err := t.BitOrder(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", t.Name, err))
		}
	default:
		invalid("unknown bus %q", t.Bus)
	}

	if len(t.Data) != 8 {
		invalid("%d data pins", len(t.Data))
	}
	if t.Control.CE == "" || t.Control.OE == "" || t.Control.WE == "" {
		invalid("missing control pin")
	}

	var seen []string
	for _, pin := range t.Pins() {
		if pin == "" {
			invalid("unnamed pin")
			continue
		}
		if slices.Contains(seen, pin) {
			invalid("pin %s used twice", pin)
		}
		seen = append(seen, pin)
	}

	return errors.Join(errs...)
}

func (t Targets) FindByName(name string) (Target, error) {
	for _, target := range t {
		if target.Name == strings.ToLower(name) {
			return target, nil
		}
	}
	return Target{}, fmt.Errorf("%w: %s", ErrTargetNotFound, name)
}

func (t Targets) Names() []string {
	names := make([]string, len(t))
	for i, target := range t {
		names[i] = target.Name
	}
	slices.Sort(names)
	return names
}

// Load parses a target table and validates every entry in it.
func Load(r io.Reader) (Targets, error) {
	var t struct {
		Elements []Target `yaml:"targets"`
	}
	if err := yaml.NewDecoder(r).Decode(&t); err != nil {
		return nil, err
	}

	var errs []error
	var names []string
	for _, target := range t.Elements {
		if err := target.Validate(); err != nil {
			errs = append(errs, err)
		}
		if slices.Contains(names, target.Name) {
			errs = append(errs, fmt.Errorf("%s: %w: duplicate target", target.Name, peripheral.ErrInvalidConfig))
		}
		names = append(names, target.Name)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return t.Elements, nil
}

func init() {
	t, err := Load(bytes.NewReader(rawTargets))
	if err != nil {
		panic(err)
	}

	targets = t
}
