package indicator

import (
	"testing"
	"time"

	"omibyte.io/eeprog/peripheral"
	"omibyte.io/eeprog/peripheral/delay"
)

type recordingPin struct {
	level  bool
	dir    peripheral.PinDirection
	clock  *delay.Virtual
	levels []bool
	at     []time.Duration
}

func (p *recordingPin) High()     { p.Set(true) }
func (p *recordingPin) Low()      { p.Set(false) }
func (p *recordingPin) Get() bool { return p.level }

func (p *recordingPin) Set(on bool) {
	p.level = on
	p.levels = append(p.levels, on)
	p.at = append(p.at, p.clock.Now())
}

func (p *recordingPin) SetDirection(dir peripheral.PinDirection) { p.dir = dir }
func (p *recordingPin) GetDirection() peripheral.PinDirection    { return p.dir }

func TestBlink(t *testing.T) {
	tests := []struct {
		name      string
		activeLow bool
		times     int
	}{
		{"active high", false, 5},
		{"active low", true, 3},
		{"none", false, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			clk := delay.NewVirtual()
			pin := &recordingPin{clock: clk}
			led := &LED{Pin: pin, ActiveLow: tc.activeLow, Clock: clk}
			if err := led.Configure(); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if pin.dir != peripheral.Output {
				t.Errorf("expected output pin")
			}
			pin.levels, pin.at = nil, nil

			led.Blink(tc.times)

			if len(pin.levels) != 2*tc.times {
				t.Fatalf("expected %d transitions, got %d", 2*tc.times, len(pin.levels))
			}
			for i, level := range pin.levels {
				on := i%2 == 0
				if level != (on != tc.activeLow) {
					t.Errorf("transition %d: unexpected level %v", i, level)
				}
				if want := time.Duration(i) * DefaultPeriod; pin.at[i] != want {
					t.Errorf("transition %d at %v, expected %v", i, pin.at[i], want)
				}
			}
			if clk.Now() != time.Duration(2*tc.times)*DefaultPeriod {
				t.Errorf("unexpected total time %v", clk.Now())
			}
			if pin.level != tc.activeLow {
				t.Errorf("LED left on")
			}
		})
	}
}

func TestConfigureWithoutPin(t *testing.T) {
	led := &LED{}
	if err := led.Configure(); err != peripheral.ErrInvalidPinout {
		t.Errorf("expected ErrInvalidPinout, got %v", err)
	}
}
