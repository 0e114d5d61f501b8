// Package delay provides the wait primitive used by bus protocols. Protocol
// code asks for "at least d"; how that is achieved belongs to the Clock.
package delay

import (
	"time"
)

type Clock interface {
	// Now returns the time elapsed since an arbitrary fixed origin.
	Now() time.Duration

	// Wait blocks for at least d.
	Wait(d time.Duration)
}

// sleepThreshold is where Spin hands waits over to the scheduler. Anything
// shorter is below the resolution time.Sleep can promise.
const sleepThreshold = 2 * time.Millisecond

type spin struct {
	origin time.Time
}

// Spin returns a clock that busy-waits on the monotonic clock for short
// delays.
func Spin() Clock {
	return &spin{origin: time.Now()}
}

func (s *spin) Now() time.Duration {
	return time.Since(s.origin)
}

func (s *spin) Wait(d time.Duration) {
	if d <= 0 {
		return
	}
	deadline := time.Now().Add(d)
	if d >= sleepThreshold {
		time.Sleep(d - sleepThreshold/2)
	}
	for time.Now().Before(deadline) {
	}
}

// Virtual is a clock that only moves when waited on. Simulated devices share
// it with the controller so write cycles complete in simulated time.
type Virtual struct {
	now time.Duration
}

func NewVirtual() *Virtual {
	return &Virtual{}
}

func (v *Virtual) Now() time.Duration {
	return v.now
}

func (v *Virtual) Wait(d time.Duration) {
	if d > 0 {
		v.now += d
	}
}

// Advance moves the clock forward by d.
func (v *Virtual) Advance(d time.Duration) {
	v.Wait(d)
}
