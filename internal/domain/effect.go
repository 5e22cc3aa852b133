package domain

import "time"

// Effect is a side-effect request emitted by a transition. The machine
// never performs side effects itself; the session service executes effects
// after the state change has been applied.
type Effect interface {
	isEffect()
}

// StartClock enables the 1 Hz clock driver. Idempotent: starting while
// running replaces the ticking source, it never duplicates it.
type StartClock struct{}

// StopClock disables the clock driver. Safe when not running.
type StopClock struct{}

// StartHoldTimer arms the delayed cancel trigger.
type StartHoldTimer struct {
	Duration time.Duration
}

// AbortHoldTimer disarms a pending cancel trigger.
type AbortHoldTimer struct{}

// RequestEstimate asks the estimator adapter for a duration. The adapter
// must answer with exactly one EstimateResolved carrying the same token.
type RequestEstimate struct {
	Token      EstimateToken
	TaskLabel  string
	TaskDetail string
}

// RequestCapture invokes the capture & share pipeline. Emitted exactly once
// per session, on entry to PenaltyCapture.
type RequestCapture struct {
	TaskLabel string
	OverdueBy time.Duration
}

func (StartClock) isEffect()      {}
func (StopClock) isEffect()       {}
func (StartHoldTimer) isEffect()  {}
func (AbortHoldTimer) isEffect()  {}
func (RequestEstimate) isEffect() {}
func (RequestCapture) isEffect()  {}
