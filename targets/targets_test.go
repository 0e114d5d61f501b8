package targets

import (
	"errors"
	"strings"
	"testing"
	"time"

	"omibyte.io/eeprog/bus"
	"omibyte.io/eeprog/peripheral"
)

func TestBuiltinTargets(t *testing.T) {
	tests := []struct {
		name      string
		bus       string
		bits      int
		activeLow bool
	}{
		{"nano-shift", BusShift, 15, false},
		{"nano-direct", BusParallel, 5, false},
		{"bluepill", BusParallel, 15, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			target, err := All().FindByName(tc.name)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if target.Bus != tc.bus || target.AddressBits != tc.bits || target.LED.ActiveLow != tc.activeLow {
				t.Errorf("unexpected target %+v", target)
			}
			if target.Timing.PollTimeout != time.Second || target.Timing.Pulse != time.Microsecond {
				t.Errorf("unexpected timing %+v", target.Timing)
			}
			if err := target.Validate(); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}

	if got := All().Names(); strings.Join(got, ",") != "bluepill,nano-direct,nano-shift" {
		t.Errorf("unexpected names %v", got)
	}
}

func TestFindByName(t *testing.T) {
	if _, err := All().FindByName("BluePill"); err != nil {
		t.Errorf("lookup should ignore case: %v", err)
	}
	if _, err := All().FindByName("uno"); !errors.Is(err, ErrTargetNotFound) {
		t.Errorf("expected ErrTargetNotFound, got %v", err)
	}
}

func TestBitOrder(t *testing.T) {
	tests := []struct {
		order    string
		expected bus.BitOrder
		ok       bool
	}{
		{"", bus.MSBFirst, true},
		{"msb", bus.MSBFirst, true},
		{"LSB", bus.LSBFirst, true},
		{"middle", bus.MSBFirst, false},
	}
	for _, tc := range tests {
		order, err := Target{Shift: Shift{Order: tc.order}}.BitOrder()
		if (err == nil) != tc.ok || order != tc.expected {
			t.Errorf("%q: got %v, %v", tc.order, order, err)
		}
	}
}

func TestLoad(t *testing.T) {
	const valid = `
targets:
  - name: tiny
    bus: parallel
    addressBits: 2
    address: [P0, P1]
    data: [P2, P3, P4, P5, P6, P7, P8, P9]
    control: {ce: P10, oe: P11, we: P12}
    timing:
      writeCycle: 250us
`
	targets, err := Load(strings.NewReader(valid))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(targets) != 1 || targets[0].Timing.WriteCycle != 250*time.Microsecond {
		t.Errorf("unexpected targets %+v", targets)
	}

	tests := []struct {
		name   string
		mutate func(*Target)
	}{
		{"address count", func(t *Target) { t.Address = t.Address[:1] }},
		{"too wide", func(t *Target) { t.AddressBits = 16 }},
		{"data count", func(t *Target) { t.Data = t.Data[:7] }},
		{"duplicate pin", func(t *Target) { t.Control.WE = "P0" }},
		{"missing control", func(t *Target) { t.Control.OE = "" }},
		{"unknown bus", func(t *Target) { t.Bus = "spi" }},
		{"shift without pins", func(t *Target) { t.Bus = BusShift }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			target := targets[0]
			target.Address = append([]string(nil), target.Address...)
			target.Data = append([]string(nil), target.Data...)
			tc.mutate(&target)
			if err := target.Validate(); !errors.Is(err, peripheral.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}

	dup := valid + strings.Replace(valid, "targets:\n", "", 1)
	if _, err := Load(strings.NewReader(dup)); !errors.Is(err, peripheral.ErrInvalidConfig) {
		t.Errorf("expected duplicate target to be rejected, got %v", err)
	}
}
