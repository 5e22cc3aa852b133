package drivers

import (
	"sync"
	"time"

	"github.com/xvierd/dreadline/internal/ports"
)

// PressTimer implements ports.HoldTimer on time.AfterFunc with a
// generation counter. The generation check runs under the lock before the
// fire callback is invoked, so an Abort that wins the lock first
// guarantees the callback never runs — true cancellation, not a dropped
// late callback.
type PressTimer struct {
	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	pending bool
}

// NewPressTimer creates an unarmed press timer.
func NewPressTimer() *PressTimer {
	return &PressTimer{}
}

// Ensure PressTimer implements ports.HoldTimer.
var _ ports.HoldTimer = (*PressTimer)(nil)

// Start arms the trigger. Arming while a trigger is pending implicitly
// cancels the prior one, so a session has at most one in-flight press.
func (p *PressTimer) Start(d time.Duration, fire func()) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.timer != nil {
		p.timer.Stop()
	}
	p.gen++
	gen := p.gen
	p.pending = true

	p.timer = time.AfterFunc(d, func() {
		p.mu.Lock()
		if p.gen != gen || !p.pending {
			p.mu.Unlock()
			return
		}
		p.pending = false
		p.timer = nil
		p.mu.Unlock()

		fire()
	})
}

// Abort disarms a pending trigger. If the expiry callback has not yet
// passed its generation check, it will never run; if expiry and abort
// race, the fire callback is serialized behind the abort at the session
// service, where the machine drops it as stale.
func (p *PressTimer) Abort() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.gen++
	p.pending = false
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
}

// Pending reports whether a trigger is armed.
func (p *PressTimer) Pending() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pending
}
