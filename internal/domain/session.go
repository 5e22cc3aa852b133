package domain

import (
	"strings"
	"time"
)

// Phase represents the current screen of a deadline session.
type Phase string

const (
	PhaseHome           Phase = "home"
	PhaseManualSetup    Phase = "manual_setup"
	PhaseAiSetup        Phase = "ai_setup"
	PhaseActive         Phase = "active"
	PhaseCancelConfirm  Phase = "cancel_confirm"
	PhaseCancelReason   Phase = "cancel_reason"
	PhaseSuccess        Phase = "success"
	PhaseOverdue        Phase = "overdue"
	PhasePenaltyCapture Phase = "penalty_capture"
	PhaseFailure        Phase = "failure"
	PhaseThankYou       Phase = "thank_you"
)

// ClockEnabled reports whether the 1 Hz clock driver must be running in
// this phase. The countdown keeps ticking under the cancel overlay and the
// reason prompt so overdue detection never stalls.
func (p Phase) ClockEnabled() bool {
	return p == PhaseActive || p == PhaseCancelConfirm || p == PhaseCancelReason
}

// Terminal reports whether the phase is an end screen that only accepts
// ReturnHome.
func (p Phase) Terminal() bool {
	return p == PhaseSuccess || p == PhaseFailure || p == PhaseThankYou
}

// EstimateToken identifies one in-flight estimator request. A resolution
// carrying a stale token is ignored.
type EstimateToken string

// Session is the single mutable aggregate. It is mutated exclusively by
// Machine.Apply; everything else reads snapshots.
type Session struct {
	ID              string
	Phase           Phase
	TaskLabel       string
	TaskDetail      string
	DeadlineAt      time.Time
	Now             time.Time
	LateSubmittedAt *time.Time
	CancelReason    string
	PendingEstimate *EstimateToken

	// EstimatedMinutes holds the last resolved estimate while in AiSetup,
	// along with whether it was a genuine estimate or the fallback.
	EstimatedMinutes   int
	EstimateIsFallback bool

	// ReturnPhase records where CancelDismissed goes back to (Active or
	// Overdue). Only meaningful in CancelConfirm and CancelReason.
	ReturnPhase Phase

	// HoldPending is true while a cancel press is held and its delayed
	// trigger has not yet fired or been aborted.
	HoldPending bool

	// CapturedImage holds the shame card produced by the capture adapter,
	// nil when capture failed. Display-only; Failure renders the same
	// either way.
	CapturedImage []byte
}

// NewSession creates a fresh session at Home.
func NewSession() Session {
	return Session{
		ID:    generateID(),
		Phase: PhaseHome,
	}
}

// Remaining returns the time left until the deadline, clamped at zero.
func (s Session) Remaining(now time.Time) time.Duration {
	if s.DeadlineAt.IsZero() {
		return 0
	}
	remaining := s.DeadlineAt.Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// OverdueBy returns how far past the deadline now is, clamped at zero.
func (s Session) OverdueBy(now time.Time) time.Duration {
	if s.DeadlineAt.IsZero() {
		return 0
	}
	over := now.Sub(s.DeadlineAt)
	if over < 0 {
		return 0
	}
	return over
}

// PastDeadline reports whether now has reached the deadline.
func (s Session) PastDeadline(now time.Time) bool {
	return !s.DeadlineAt.IsZero() && !now.Before(s.DeadlineAt)
}

// ValidReason reports whether text is acceptable as a cancellation reason.
func ValidReason(text string) bool {
	return strings.TrimSpace(text) != ""
}

// GetPhaseLabel returns a human-readable label for the phase.
func GetPhaseLabel(p Phase) string {
	switch p {
	case PhaseHome:
		return "Home"
	case PhaseManualSetup:
		return "Setup"
	case PhaseAiSetup:
		return "AI Setup"
	case PhaseActive:
		return "Counting Down"
	case PhaseCancelConfirm:
		return "Confirm Cancel"
	case PhaseCancelReason:
		return "Cancel Reason"
	case PhaseSuccess:
		return "Made It"
	case PhaseOverdue:
		return "Overdue"
	case PhasePenaltyCapture:
		return "Penalty"
	case PhaseFailure:
		return "Missed It"
	case PhaseThankYou:
		return "Thank You"
	default:
		return "Unknown"
	}
}
