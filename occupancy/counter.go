package occupancy

import (
	"fmt"
	"sync/atomic"
)

// Max is the capacity of the monitored space.
const Max = 11

// Counter is a bounded occupancy counter in [0, Max].
//
// All mutations go through TryIncrement, TryDecrement and Reset, which are
// linearizable: they act on a single atomic word, so every reader observes
// the same total order of changes. The zero value is an empty counter.
type Counter struct {
	n atomic.Int32
}

// TryIncrement admits one occupant. It returns the new occupancy and true, or
// Max and false when the space is already full. A rejected attempt leaves the
// counter untouched.
func (c *Counter) TryIncrement() (int, bool) {
	for {
		cur := c.n.Load()
		if cur >= Max {
			return int(cur), false
		}
		if c.n.CompareAndSwap(cur, cur+1) {
			return int(cur + 1), true
		}
	}
}

// TryDecrement releases one occupant. It returns the new occupancy and true,
// or 0 and false when the space is already empty.
func (c *Counter) TryDecrement() (int, bool) {
	for {
		cur := c.n.Load()
		if cur <= 0 {
			return 0, false
		}
		if c.n.CompareAndSwap(cur, cur-1) {
			return int(cur - 1), true
		}
	}
}

// Reset empties the space. A mutation racing with Reset is ordered either
// entirely before it (and erased) or entirely after it (and applied to 0).
func (c *Counter) Reset() {
	c.n.Store(0)
}

// Read returns the current occupancy.
func (c *Counter) Read() int {
	return int(c.n.Load())
}

func (c *Counter) String() string {
	return fmt.Sprintf("Counter(%d/%d)", c.Read(), Max)
}
