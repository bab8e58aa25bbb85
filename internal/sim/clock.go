package sim

import (
	"fmt"
	"math"
)

// Clock tracks elapsed host time and the delta since the previous tick. It is never reset.
type Clock struct {
	Elapsed float64
	Delta   float64

	previous float64
}

// Advance records a new host time and returns the delta since the previous call.
// Time that is not finite or runs backwards is an error and leaves the clock unchanged.
func (c *Clock) Advance(elapsed float64) (float64, error) {
	if math.IsNaN(elapsed) || math.IsInf(elapsed, 0) {
		return 0, fmt.Errorf("host time is not finite: %v", elapsed)
	}
	if elapsed < c.previous {
		return 0, fmt.Errorf("host time went backwards: %v < %v", elapsed, c.previous)
	}
	c.Delta = elapsed - c.previous
	c.Elapsed = elapsed
	c.previous = elapsed
	return c.Delta, nil
}
