// Package indicator drives the programmer's status LED.
package indicator

import (
	"time"

	"omibyte.io/eeprog/peripheral"
	"omibyte.io/eeprog/peripheral/delay"
)

// DefaultPeriod is the on time, and the off time, of one blink.
const DefaultPeriod = 200 * time.Millisecond

type LED struct {
	Pin       peripheral.Pin
	ActiveLow bool
	Period    time.Duration
	Clock     delay.Clock
}

// Configure makes the pin an output and turns the LED off.
func (l *LED) Configure() error {
	if l.Pin == nil {
		return peripheral.ErrInvalidPinout
	}
	if l.Clock == nil {
		l.Clock = delay.Spin()
	}
	if l.Period <= 0 {
		l.Period = DefaultPeriod
	}
	l.Off()
	l.Pin.SetDirection(peripheral.Output)
	return nil
}

func (l *LED) On() {
	l.Pin.Set(!l.ActiveLow)
}

func (l *LED) Off() {
	l.Pin.Set(l.ActiveLow)
}

// Blink flashes the LED times times and leaves it off.
func (l *LED) Blink(times int) {
	for i := 0; i < times; i++ {
		l.On()
		l.Clock.Wait(l.Period)
		l.Off()
		l.Clock.Wait(l.Period)
	}
}
