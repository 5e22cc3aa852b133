package domain

import "time"

// Event is one input to the session state machine. Events arrive from user
// interaction, the clock driver, the hold timer, and adapter completions;
// all of them are serialized through a single application point.
type Event interface {
	isEvent()
}

// StartManualSetup opens the manual deadline setup screen.
type StartManualSetup struct{}

// StartAiSetup opens the AI-estimated setup screen.
type StartAiSetup struct{}

// EstimateRequested asks the estimator adapter for a duration while in
// AiSetup. The machine records an in-flight token so a stale resolution
// can be ignored.
type EstimateRequested struct {
	TaskLabel  string
	TaskDetail string
}

// EstimateResolved delivers the estimator adapter's answer. Minutes is
// always a usable value; Fallback marks it as the deterministic substitute
// rather than a genuine estimate.
type EstimateResolved struct {
	Token    EstimateToken
	Minutes  int
	Fallback bool
}

// SetupConfirmed commits the task and deadline and leaves setup.
type SetupConfirmed struct {
	TaskLabel  string
	TaskDetail string
	DeadlineAt time.Time
	Now        time.Time
}

// SetupCancelled abandons setup and returns Home.
type SetupCancelled struct{}

// Tick is a wall-clock sample from the clock driver.
type Tick struct {
	Now time.Time
}

// SubmitRequested is the user declaring the task done.
type SubmitRequested struct {
	Now time.Time
}

// CancelPressStarted begins the sustained cancel press.
type CancelPressStarted struct{}

// CancelPressAborted releases the press before the hold threshold.
type CancelPressAborted struct{}

// CancelPressCompleted fires when the press was held through the threshold.
type CancelPressCompleted struct{}

// CancelConfirmed accepts the cancel confirmation dialog.
type CancelConfirmed struct{}

// CancelDismissed rejects the cancel confirmation dialog.
type CancelDismissed struct{}

// ReasonSubmitted submits the cancellation reason text.
type ReasonSubmitted struct {
	Text string
}

// LateAcknowledged is the user acknowledging an overdue submission.
type LateAcknowledged struct {
	Now time.Time
}

// CaptureCompleted delivers the capture adapter's result. Image is nil on
// any capture failure.
type CaptureCompleted struct {
	Image []byte
}

// ReturnHome resets the session from a terminal screen.
type ReturnHome struct{}

func (StartManualSetup) isEvent()     {}
func (StartAiSetup) isEvent()         {}
func (EstimateRequested) isEvent()    {}
func (EstimateResolved) isEvent()     {}
func (SetupConfirmed) isEvent()       {}
func (SetupCancelled) isEvent()       {}
func (Tick) isEvent()                 {}
func (SubmitRequested) isEvent()      {}
func (CancelPressStarted) isEvent()   {}
func (CancelPressAborted) isEvent()   {}
func (CancelPressCompleted) isEvent() {}
func (CancelConfirmed) isEvent()      {}
func (CancelDismissed) isEvent()      {}
func (ReasonSubmitted) isEvent()      {}
func (LateAcknowledged) isEvent()     {}
func (CaptureCompleted) isEvent()     {}
func (ReturnHome) isEvent()           {}
