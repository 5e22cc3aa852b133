package domain

import "time"

// FlowConfig parameterizes the session flow. The original product shipped
// several near-identical flows; here they are one machine with switches.
type FlowConfig struct {
	// HoldDuration is how long the cancel press must be sustained before
	// the confirmation dialog appears.
	HoldDuration time.Duration

	// CancelReasonEnabled inserts the reason prompt between confirming a
	// cancel and the thank-you screen. When disabled, confirming goes
	// straight to ThankYou.
	CancelReasonEnabled bool

	// EstimatorEnabled offers the AI setup path. When disabled,
	// StartAiSetup falls through to manual setup.
	EstimatorEnabled bool
}

// DefaultFlowConfig returns the standard flow configuration.
func DefaultFlowConfig() FlowConfig {
	return FlowConfig{
		HoldDuration:        3 * time.Second,
		CancelReasonEnabled: true,
		EstimatorEnabled:    true,
	}
}

// Machine is the sole authority for phase transitions. Apply is a pure
// step function over the session value; it emits effect requests instead of
// touching timers or adapters.
type Machine struct {
	Config FlowConfig
}

// NewMachine creates a machine with the given flow configuration.
func NewMachine(cfg FlowConfig) *Machine {
	return &Machine{Config: cfg}
}

// Apply folds one event into the session and returns the next session
// value plus the side effects the transition demands. Unlisted
// (phase, event) pairs are no-ops: the same session comes back with no
// effects.
func (m *Machine) Apply(s Session, ev Event) (Session, []Effect) {
	switch ev := ev.(type) {
	case StartManualSetup:
		if s.Phase != PhaseHome {
			return s, nil
		}
		s.Phase = PhaseManualSetup
		return s, nil

	case StartAiSetup:
		if s.Phase != PhaseHome {
			return s, nil
		}
		if !m.Config.EstimatorEnabled {
			s.Phase = PhaseManualSetup
			return s, nil
		}
		s.Phase = PhaseAiSetup
		return s, nil

	case EstimateRequested:
		if s.Phase != PhaseAiSetup {
			return s, nil
		}
		token := EstimateToken(generateID())
		s.PendingEstimate = &token
		s.TaskLabel = ev.TaskLabel
		s.TaskDetail = ev.TaskDetail
		s.EstimatedMinutes = 0
		s.EstimateIsFallback = false
		return s, []Effect{RequestEstimate{
			Token:      token,
			TaskLabel:  ev.TaskLabel,
			TaskDetail: ev.TaskDetail,
		}}

	case EstimateResolved:
		if s.Phase != PhaseAiSetup || s.PendingEstimate == nil || *s.PendingEstimate != ev.Token {
			return s, nil
		}
		s.PendingEstimate = nil
		s.EstimatedMinutes = ev.Minutes
		s.EstimateIsFallback = ev.Fallback
		return s, nil

	case SetupConfirmed:
		if s.Phase != PhaseManualSetup && s.Phase != PhaseAiSetup {
			return s, nil
		}
		s.TaskLabel = ev.TaskLabel
		s.TaskDetail = ev.TaskDetail
		s.DeadlineAt = ev.DeadlineAt
		s.Now = ev.Now
		s.PendingEstimate = nil
		// A deadline already in the past goes straight to Overdue; the
		// countdown never shows a negative remaining time.
		if s.PastDeadline(ev.Now) {
			return m.enter(s, PhaseOverdue)
		}
		return m.enter(s, PhaseActive)

	case SetupCancelled:
		if s.Phase != PhaseManualSetup && s.Phase != PhaseAiSetup {
			return s, nil
		}
		return m.reset(s)

	case Tick:
		if !s.Phase.ClockEnabled() {
			return s, nil
		}
		s.Now = ev.Now
		switch s.Phase {
		case PhaseActive:
			if s.PastDeadline(ev.Now) {
				return m.enter(s, PhaseOverdue)
			}
		case PhaseCancelConfirm, PhaseCancelReason:
			// The deadline can pass while an overlay is up; dismissing
			// must come back to Overdue, not Active.
			if s.ReturnPhase == PhaseActive && s.PastDeadline(ev.Now) {
				s.ReturnPhase = PhaseOverdue
			}
		}
		return s, nil

	case SubmitRequested:
		switch s.Phase {
		case PhaseActive:
			s.Now = ev.Now
			if s.PastDeadline(ev.Now) {
				return m.enterPenalty(s, ev.Now)
			}
			return m.enter(s, PhaseSuccess)
		case PhaseOverdue:
			s.Now = ev.Now
			return m.enterPenalty(s, ev.Now)
		default:
			return s, nil
		}

	case LateAcknowledged:
		// Accepted at most once per session; the original app enforces
		// this by disabling the button after first use.
		if s.Phase != PhaseOverdue || s.LateSubmittedAt != nil {
			return s, nil
		}
		s.Now = ev.Now
		return m.enterPenalty(s, ev.Now)

	case CancelPressStarted:
		if s.Phase != PhaseActive && s.Phase != PhaseOverdue {
			return s, nil
		}
		if s.HoldPending {
			// Overlapping press-starts coalesce.
			return s, nil
		}
		s.HoldPending = true
		return s, []Effect{StartHoldTimer{Duration: m.Config.HoldDuration}}

	case CancelPressAborted:
		if !s.HoldPending {
			return s, nil
		}
		s.HoldPending = false
		return s, []Effect{AbortHoldTimer{}}

	case CancelPressCompleted:
		if !s.HoldPending {
			return s, nil
		}
		s.HoldPending = false
		if s.Phase != PhaseActive && s.Phase != PhaseOverdue {
			return s, nil
		}
		s.ReturnPhase = s.Phase
		next, effects := m.enter(s, PhaseCancelConfirm)
		// Disarm the driver too: a no-op when the trigger itself fired,
		// required when the completion was driven programmatically.
		return next, append(effects, AbortHoldTimer{})

	case CancelConfirmed:
		if s.Phase != PhaseCancelConfirm {
			return s, nil
		}
		if !m.Config.CancelReasonEnabled {
			return m.enter(s, PhaseThankYou)
		}
		return m.enter(s, PhaseCancelReason)

	case CancelDismissed:
		if s.Phase != PhaseCancelConfirm {
			return s, nil
		}
		target := s.ReturnPhase
		if target == PhaseActive && s.PastDeadline(s.Now) {
			target = PhaseOverdue
		}
		s.ReturnPhase = ""
		return m.enter(s, target)

	case ReasonSubmitted:
		if s.Phase != PhaseCancelReason || !ValidReason(ev.Text) {
			return s, nil
		}
		s.CancelReason = ev.Text
		return m.enter(s, PhaseThankYou)

	case CaptureCompleted:
		if s.Phase != PhasePenaltyCapture {
			return s, nil
		}
		s.CapturedImage = ev.Image
		return m.enter(s, PhaseFailure)

	case ReturnHome:
		if !s.Phase.Terminal() {
			return s, nil
		}
		return m.reset(s)

	default:
		return s, nil
	}
}

// enter moves the session to the target phase and emits clock effects for
// the edge. The clock runs if and only if the phase demands it, so start
// and stop are always paired with phase entry and exit.
func (m *Machine) enter(s Session, target Phase) (Session, []Effect) {
	wasTicking := s.Phase.ClockEnabled()
	s.Phase = target
	switch {
	case !wasTicking && target.ClockEnabled():
		return s, []Effect{StartClock{}}
	case wasTicking && !target.ClockEnabled():
		return s, []Effect{StopClock{}}
	default:
		return s, nil
	}
}

// enterPenalty records the late acknowledgment timestamp (first write wins)
// and moves to PenaltyCapture with the capture request.
func (m *Machine) enterPenalty(s Session, now time.Time) (Session, []Effect) {
	if s.LateSubmittedAt == nil && s.PastDeadline(now) {
		t := now
		s.LateSubmittedAt = &t
	}
	next, effects := m.enter(s, PhasePenaltyCapture)
	effects = append(effects, RequestCapture{
		TaskLabel: next.TaskLabel,
		OverdueBy: next.OverdueBy(now),
	})
	return next, effects
}

// reset reinitializes the session: every field back to its default, phase
// back to Home. A stopped clock and a disarmed hold timer are part of the
// contract on every path here.
func (m *Machine) reset(s Session) (Session, []Effect) {
	var effects []Effect
	if s.Phase.ClockEnabled() {
		effects = append(effects, StopClock{})
	}
	if s.HoldPending {
		effects = append(effects, AbortHoldTimer{})
	}
	return NewSession(), effects
}
