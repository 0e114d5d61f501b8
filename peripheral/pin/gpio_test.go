package pin

import (
	"errors"
	"testing"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"

	"omibyte.io/eeprog/peripheral"
)

var errStuck = errors.New("stuck")

type stuckPin struct {
	*gpiotest.Pin
}

func (p stuckPin) Out(l gpio.Level) error {
	return errStuck
}

func TestGPIODirection(t *testing.T) {
	line := &gpiotest.Pin{N: "D5", Num: 5}
	p := New(line)

	if p.GetDirection() != peripheral.Input {
		t.Fatalf("expected new pin to be an input")
	}

	// Level set while input is applied when switching to output
	p.High()
	if line.L != gpio.Low {
		t.Errorf("input pin was driven")
	}
	p.SetDirection(peripheral.Output)
	if line.L != gpio.High {
		t.Errorf("expected line high after switching to output")
	}
	if !p.Get() {
		t.Errorf("expected Get to report the driven level")
	}

	p.Low()
	if line.L != gpio.Low {
		t.Errorf("expected line low")
	}

	// Inputs sample the line
	p.SetDirection(peripheral.Input)
	line.L = gpio.High
	if !p.Get() {
		t.Errorf("expected input to read high")
	}
	if line.P != gpio.Float {
		t.Errorf("expected floating input, got %v", line.P)
	}

	if err := p.Err(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestGPIOErrorIsKept(t *testing.T) {
	p := New(stuckPin{&gpiotest.Pin{N: "A3"}})
	p.SetDirection(peripheral.Output)
	p.High()

	if !errors.Is(p.Err(), errStuck) {
		t.Errorf("expected stuck error, got %v", p.Err())
	}
	if p.Name() != "A3" {
		t.Errorf("unexpected name %q", p.Name())
	}
}
