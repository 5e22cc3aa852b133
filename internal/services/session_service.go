// Package services wires the session state machine to its drivers and
// adapters. SessionService is the single serialization point demanded by
// the concurrency model: every event, whether from the UI, the clock, the
// press timer, or an adapter completion, is applied one at a time.
package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/xvierd/dreadline/internal/domain"
	"github.com/xvierd/dreadline/internal/ports"
)

// Session-level errors surfaced to the command layer.
var (
	ErrSessionActive   = fmt.Errorf("a deadline session is already active")
	ErrNoActiveSession = fmt.Errorf("no deadline session is active")
	ErrEmptyReason     = fmt.Errorf("cancellation reason must not be empty")
)

// SessionService owns the process-wide session. Effects emitted by the
// machine are executed under the same lock as the state change, so the
// clock and hold timer see transitions in the order they happened;
// adapter work runs on its own goroutine and reports back through Apply.
type SessionService struct {
	mu      sync.Mutex
	machine *domain.Machine
	session domain.Session

	clock     ports.Clock
	hold      ports.HoldTimer
	estimator ports.Estimator
	taunts    ports.TauntGenerator
	capture   ports.Capture
	share     ports.Share
}

// NewSessionService creates the service with a fresh session at Home.
func NewSessionService(
	cfg domain.FlowConfig,
	clock ports.Clock,
	hold ports.HoldTimer,
	estimator ports.Estimator,
	taunts ports.TauntGenerator,
	capture ports.Capture,
	share ports.Share,
) *SessionService {
	return &SessionService{
		machine:   domain.NewMachine(cfg),
		session:   domain.NewSession(),
		clock:     clock,
		hold:      hold,
		estimator: estimator,
		taunts:    taunts,
		capture:   capture,
		share:     share,
	}
}

// Apply folds one event into the session and executes the resulting
// effects before releasing the lock: two racing events cannot interleave
// their clock or hold-timer effects out of transition order. It returns
// the post-transition snapshot.
func (s *SessionService) Apply(ev domain.Event) domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, effects := s.machine.Apply(s.session, ev)
	s.session = next
	for _, effect := range effects {
		s.execute(effect)
	}
	return next
}

// Snapshot returns a copy of the current session.
func (s *SessionService) Snapshot() domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// Config returns the flow configuration the machine runs under.
func (s *SessionService) Config() domain.FlowConfig {
	return s.machine.Config
}

// execute performs one side-effect request while the session lock is
// held. The drivers deliver their callbacks outside their own locks and
// funnel back into Apply, so this cannot recurse or deadlock; estimator
// and capture work runs on its own goroutine.
func (s *SessionService) execute(effect domain.Effect) {
	switch effect := effect.(type) {
	case domain.StartClock:
		s.clock.Start(func(now time.Time) {
			s.Apply(domain.Tick{Now: now})
		})

	case domain.StopClock:
		s.clock.Stop()

	case domain.StartHoldTimer:
		s.hold.Start(effect.Duration, func() {
			s.Apply(domain.CancelPressCompleted{})
		})

	case domain.AbortHoldTimer:
		s.hold.Abort()

	case domain.RequestEstimate:
		go func() {
			result := s.estimator.Estimate(context.Background(), ports.EstimateRequest{
				TaskLabel:  effect.TaskLabel,
				TaskDetail: effect.TaskDetail,
			})
			s.Apply(domain.EstimateResolved{
				Token:    effect.Token,
				Minutes:  result.Minutes,
				Fallback: result.IsFallback,
			})
		}()

	case domain.RequestCapture:
		go func() {
			ctx := context.Background()
			style := s.taunts.Generate(ctx, effect.TaskLabel, "")
			image := s.capture.Capture(ctx, ports.CaptureRequest{
				TaskLabel: effect.TaskLabel,
				OverdueBy: effect.OverdueBy,
				Taunt:     style,
			})
			if image != nil {
				s.share.Share(ctx, image)
			}
			s.Apply(domain.CaptureCompleted{Image: image})
		}()
	}
}

// --- user-facing operations -------------------------------------------

// StartManualSetup opens manual setup from Home.
func (s *SessionService) StartManualSetup() domain.Session {
	return s.Apply(domain.StartManualSetup{})
}

// StartAiSetup opens AI setup from Home.
func (s *SessionService) StartAiSetup() domain.Session {
	return s.Apply(domain.StartAiSetup{})
}

// RequestEstimate asks the estimator for a duration while in AiSetup.
func (s *SessionService) RequestEstimate(label, detail string) domain.Session {
	return s.Apply(domain.EstimateRequested{TaskLabel: label, TaskDetail: detail})
}

// ConfirmSetup commits the task and deadline.
func (s *SessionService) ConfirmSetup(label, detail string, deadlineAt time.Time) domain.Session {
	return s.Apply(domain.SetupConfirmed{
		TaskLabel:  label,
		TaskDetail: detail,
		DeadlineAt: deadlineAt,
		Now:        time.Now(),
	})
}

// CancelSetup abandons setup and returns Home.
func (s *SessionService) CancelSetup() domain.Session {
	return s.Apply(domain.SetupCancelled{})
}

// Submit declares the task done.
func (s *SessionService) Submit() domain.Session {
	return s.Apply(domain.SubmitRequested{Now: time.Now()})
}

// AcknowledgeLate acknowledges an overdue submission.
func (s *SessionService) AcknowledgeLate() domain.Session {
	return s.Apply(domain.LateAcknowledged{Now: time.Now()})
}

// PressCancel begins the sustained cancel press.
func (s *SessionService) PressCancel() domain.Session {
	return s.Apply(domain.CancelPressStarted{})
}

// ReleaseCancel aborts the press before the hold threshold.
func (s *SessionService) ReleaseCancel() domain.Session {
	return s.Apply(domain.CancelPressAborted{})
}

// ConfirmCancel accepts the confirmation dialog.
func (s *SessionService) ConfirmCancel() domain.Session {
	return s.Apply(domain.CancelConfirmed{})
}

// DismissCancel rejects the confirmation dialog.
func (s *SessionService) DismissCancel() domain.Session {
	return s.Apply(domain.CancelDismissed{})
}

// SubmitReason submits the cancellation reason.
func (s *SessionService) SubmitReason(text string) domain.Session {
	return s.Apply(domain.ReasonSubmitted{Text: text})
}

// GoHome resets the session from a terminal screen.
func (s *SessionService) GoHome() domain.Session {
	return s.Apply(domain.ReturnHome{})
}

// --- ports.SessionControl (MCP surface) -------------------------------

// Ensure SessionService implements ports.SessionControl.
var _ ports.SessionControl = (*SessionService)(nil)

// StartDeadline runs Home -> ManualSetup -> Active (or Overdue) in one
// call for programmatic clients.
func (s *SessionService) StartDeadline(label, detail string, deadlineAt time.Time) (domain.Session, error) {
	if s.Snapshot().Phase != domain.PhaseHome {
		return s.Snapshot(), ErrSessionActive
	}
	s.Apply(domain.StartManualSetup{})
	return s.ConfirmSetup(label, detail, deadlineAt), nil
}

// EstimateDeadline calls the estimator directly; it does not touch the
// session, so it is usable in any phase.
func (s *SessionService) EstimateDeadline(ctx context.Context, label, detail string) ports.EstimateResult {
	return s.estimator.Estimate(ctx, ports.EstimateRequest{TaskLabel: label, TaskDetail: detail})
}

// Cancel runs the full cancellation path for programmatic clients:
// press, completion, confirmation, and the reason when the flow has one.
func (s *SessionService) Cancel(reason string) (domain.Session, error) {
	snapshot := s.Snapshot()
	if snapshot.Phase != domain.PhaseActive && snapshot.Phase != domain.PhaseOverdue {
		return snapshot, ErrNoActiveSession
	}
	if s.machine.Config.CancelReasonEnabled && !domain.ValidReason(reason) {
		return snapshot, ErrEmptyReason
	}

	s.Apply(domain.CancelPressStarted{})
	s.Apply(domain.CancelPressCompleted{})
	snapshot = s.Apply(domain.CancelConfirmed{})
	if s.machine.Config.CancelReasonEnabled {
		snapshot = s.Apply(domain.ReasonSubmitted{Text: reason})
	}
	return snapshot, nil
}

// Reset returns the session Home from a terminal phase.
func (s *SessionService) Reset() domain.Session {
	return s.Apply(domain.ReturnHome{})
}
