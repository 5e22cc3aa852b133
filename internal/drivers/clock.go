// Package drivers provides the timing facilities behind the session
// machine: the 1 Hz wall clock and the hold-to-cancel press timer. Both
// deliver their callbacks outside of any internal lock so the session
// service can serialize them against user events without lock cycles.
package drivers

import (
	"sync"
	"time"

	"github.com/xvierd/dreadline/internal/ports"
)

// DefaultTickPeriod is the nominal clock period.
const DefaultTickPeriod = time.Second

// WallClock implements ports.Clock on a time.Ticker. Every tick carries a
// wall-clock sample; nothing here counts down, so a suspended process
// self-corrects on its next tick.
type WallClock struct {
	mu     sync.Mutex
	period time.Duration
	stop   chan struct{}
	gen    uint64
}

// NewWallClock creates a clock with the default 1 second period.
func NewWallClock() *WallClock {
	return &WallClock{period: DefaultTickPeriod}
}

// NewWallClockWithPeriod creates a clock with a custom period. Tests use
// short periods; the session always runs at the default.
func NewWallClockWithPeriod(period time.Duration) *WallClock {
	return &WallClock{period: period}
}

// Ensure WallClock implements ports.Clock.
var _ ports.Clock = (*WallClock)(nil)

// Start begins ticking into sink. A running clock is replaced, not
// duplicated: the previous ticking source is torn down first.
func (c *WallClock) Start(sink func(now time.Time)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stop != nil {
		close(c.stop)
	}
	c.gen++
	gen := c.gen
	stop := make(chan struct{})
	c.stop = stop

	go c.run(gen, stop, sink)
}

// Stop tears down the ticking source. Safe when not running. A tick that
// was already in flight may still reach the sink; the session machine
// treats ticks in non-ticking phases as no-ops, so stragglers are inert.
func (c *WallClock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stop != nil {
		close(c.stop)
		c.stop = nil
	}
}

// Running reports whether a ticking source is active.
func (c *WallClock) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stop != nil
}

func (c *WallClock) run(gen uint64, stop chan struct{}, sink func(time.Time)) {
	ticker := time.NewTicker(c.period)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			if !c.current(gen) {
				return
			}
			// Deliver outside the lock: the sink funnels into the
			// session service's own serialization point.
			sink(now)
		}
	}
}

// current reports whether this run is still the active ticking source.
func (c *WallClock) current(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stop != nil && c.gen == gen
}
