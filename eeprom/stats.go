package eeprom

import (
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WriteStats summarises the write cycles observed since the controller was
// created or last reset. Durations run from the WE rising edge to the poll
// that completed the write.
type WriteStats struct {
	Count  int
	Mean   time.Duration
	StdDev time.Duration
	Max    time.Duration
}

func (c *Controller) Stats() WriteStats {
	if len(c.cycles) == 0 {
		return WriteStats{}
	}

	mean, std := stat.MeanStdDev(c.cycles, nil)
	if len(c.cycles) == 1 {
		std = 0
	}
	return WriteStats{
		Count:  len(c.cycles),
		Mean:   micros(mean),
		StdDev: micros(std),
		Max:    micros(floats.Max(c.cycles)),
	}
}

func (c *Controller) ResetStats() {
	c.cycles = c.cycles[:0]
}

func micros(v float64) time.Duration {
	return time.Duration(v * float64(time.Microsecond))
}
