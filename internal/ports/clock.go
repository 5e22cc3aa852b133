package ports

import "time"

// Clock defines the interface for the 1 Hz wall-clock ticker that drives
// session re-evaluation. This is a driven port (implemented by drivers).
//
// Ticks are wall-clock samples, not a logical counter: a suspended process
// self-corrects on the next tick because all deadline decisions compare
// now against deadlineAt.
type Clock interface {
	// Start begins delivering ticks to the sink. Starting while already
	// running replaces the previous ticking source; there is never more
	// than one active source.
	Start(sink func(now time.Time))

	// Stop halts tick delivery. Safe to call when not running. After
	// Stop returns, no further tick reaches the sink.
	Stop()

	// Running reports whether a ticking source is active.
	Running() bool
}

// HoldTimer converts a sustained press into a single delayed trigger.
// This is a driven port (implemented by drivers).
type HoldTimer interface {
	// Start arms the trigger to fire after d. Starting while a trigger is
	// pending implicitly cancels the prior one; at most one fire per arm.
	Start(d time.Duration, fire func())

	// Abort disarms a pending trigger. An abort requested before the
	// expiry is observed guarantees the fire callback never runs, even
	// when abort and expiry race.
	Abort()

	// Pending reports whether a trigger is armed.
	Pending() bool
}
