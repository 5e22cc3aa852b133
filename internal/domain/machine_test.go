package domain

import (
	"reflect"
	"testing"
	"time"
)

var t0 = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// startActive drives a fresh session into Active with a deadline at
// t0+lead.
func startActive(t *testing.T, m *Machine, lead time.Duration) Session {
	t.Helper()

	s := NewSession()
	s, _ = m.Apply(s, StartManualSetup{})
	s, effects := m.Apply(s, SetupConfirmed{
		TaskLabel:  "ship the release",
		DeadlineAt: t0.Add(lead),
		Now:        t0,
	})

	if s.Phase != PhaseActive {
		t.Fatalf("Phase = %v, want %v", s.Phase, PhaseActive)
	}
	if !hasEffect[StartClock](effects) {
		t.Fatal("expected StartClock on entering Active")
	}
	return s
}

func hasEffect[E Effect](effects []Effect) bool {
	for _, e := range effects {
		if _, ok := e.(E); ok {
			return true
		}
	}
	return false
}

func TestTickCountdownScenario(t *testing.T) {
	// deadline = t0+5s; ticks at +1..+4 stay Active, +5 flips to Overdue.
	m := NewMachine(DefaultFlowConfig())
	s := startActive(t, m, 5*time.Second)

	for i := 1; i <= 4; i++ {
		s, _ = m.Apply(s, Tick{Now: t0.Add(time.Duration(i) * time.Second)})
		if s.Phase != PhaseActive {
			t.Fatalf("tick +%ds: Phase = %v, want %v", i, s.Phase, PhaseActive)
		}
	}

	var effects []Effect
	s, effects = m.Apply(s, Tick{Now: t0.Add(5 * time.Second)})
	if s.Phase != PhaseOverdue {
		t.Fatalf("tick +5s: Phase = %v, want %v", s.Phase, PhaseOverdue)
	}
	if !hasEffect[StopClock](effects) {
		t.Error("expected StopClock on entering Overdue")
	}
}

func TestOverdueNeverReturnsToActive(t *testing.T) {
	m := NewMachine(DefaultFlowConfig())
	s := startActive(t, m, time.Second)

	s, _ = m.Apply(s, Tick{Now: t0.Add(time.Second)})
	if s.Phase != PhaseOverdue {
		t.Fatalf("Phase = %v, want %v", s.Phase, PhaseOverdue)
	}

	// No further tick can move the session back; ticks are not even
	// delivered in Overdue, and if one slips through it is a no-op.
	for i := 2; i <= 10; i++ {
		s, _ = m.Apply(s, Tick{Now: t0.Add(time.Duration(i) * time.Second)})
		if s.Phase != PhaseOverdue {
			t.Fatalf("tick +%ds: Phase = %v, want %v", i, s.Phase, PhaseOverdue)
		}
	}
}

func TestSetupConfirmedPastDeadlineSkipsActive(t *testing.T) {
	m := NewMachine(DefaultFlowConfig())
	s := NewSession()
	s, _ = m.Apply(s, StartManualSetup{})
	s, effects := m.Apply(s, SetupConfirmed{
		TaskLabel:  "taxes",
		DeadlineAt: t0.Add(-time.Minute),
		Now:        t0,
	})

	if s.Phase != PhaseOverdue {
		t.Fatalf("Phase = %v, want %v", s.Phase, PhaseOverdue)
	}
	if hasEffect[StartClock](effects) {
		t.Error("clock must not start for a deadline already in the past")
	}
}

func TestSubmitBeforeDeadline(t *testing.T) {
	m := NewMachine(DefaultFlowConfig())
	s := startActive(t, m, time.Minute)

	s, effects := m.Apply(s, SubmitRequested{Now: t0.Add(30 * time.Second)})
	if s.Phase != PhaseSuccess {
		t.Fatalf("Phase = %v, want %v", s.Phase, PhaseSuccess)
	}
	if !hasEffect[StopClock](effects) {
		t.Error("expected StopClock on entering Success")
	}
	if s.LateSubmittedAt != nil {
		t.Error("LateSubmittedAt must stay nil on an on-time submit")
	}
}

func TestSubmitAfterDeadlineEntersPenalty(t *testing.T) {
	m := NewMachine(DefaultFlowConfig())
	s := startActive(t, m, time.Second)

	// Submit lands after the deadline but before the overdue tick was
	// observed: straight to PenaltyCapture, never Success.
	late := t0.Add(2 * time.Second)
	s, effects := m.Apply(s, SubmitRequested{Now: late})
	if s.Phase != PhasePenaltyCapture {
		t.Fatalf("Phase = %v, want %v", s.Phase, PhasePenaltyCapture)
	}
	if !hasEffect[RequestCapture](effects) {
		t.Error("expected RequestCapture on entering PenaltyCapture")
	}
	if s.LateSubmittedAt == nil || !s.LateSubmittedAt.Equal(late) {
		t.Errorf("LateSubmittedAt = %v, want %v", s.LateSubmittedAt, late)
	}

	s, _ = m.Apply(s, CaptureCompleted{Image: nil})
	if s.Phase != PhaseFailure {
		t.Fatalf("Phase = %v, want %v", s.Phase, PhaseFailure)
	}
}

func TestLateAcknowledgedIsWriteOnce(t *testing.T) {
	m := NewMachine(DefaultFlowConfig())
	s := startActive(t, m, time.Second)
	s, _ = m.Apply(s, Tick{Now: t0.Add(time.Second)})

	first := t0.Add(3 * time.Second)
	s, effects := m.Apply(s, LateAcknowledged{Now: first})
	if s.Phase != PhasePenaltyCapture {
		t.Fatalf("Phase = %v, want %v", s.Phase, PhasePenaltyCapture)
	}
	if !hasEffect[RequestCapture](effects) {
		t.Error("expected RequestCapture after first acknowledgment")
	}
	if s.LateSubmittedAt == nil || !s.LateSubmittedAt.Equal(first) {
		t.Fatalf("LateSubmittedAt = %v, want %v", s.LateSubmittedAt, first)
	}

	// A second acknowledgment is a no-op and the timestamp is unchanged.
	second, effects := m.Apply(s, LateAcknowledged{Now: t0.Add(9 * time.Second)})
	if second.Phase != PhasePenaltyCapture {
		t.Errorf("Phase = %v, want %v", second.Phase, PhasePenaltyCapture)
	}
	if len(effects) != 0 {
		t.Errorf("second acknowledgment produced effects: %v", effects)
	}
	if !second.LateSubmittedAt.Equal(first) {
		t.Errorf("LateSubmittedAt changed to %v, want %v", second.LateSubmittedAt, first)
	}
}

func TestCancelPressLifecycle(t *testing.T) {
	m := NewMachine(DefaultFlowConfig())
	s := startActive(t, m, time.Minute)

	s, effects := m.Apply(s, CancelPressStarted{})
	if !s.HoldPending {
		t.Fatal("HoldPending should be set after press start")
	}
	if !hasEffect[StartHoldTimer](effects) {
		t.Fatal("expected StartHoldTimer")
	}

	// Overlapping press-starts coalesce.
	s, effects = m.Apply(s, CancelPressStarted{})
	if len(effects) != 0 {
		t.Errorf("second press start produced effects: %v", effects)
	}

	// Abort before the threshold: no completion may follow.
	s, effects = m.Apply(s, CancelPressAborted{})
	if s.HoldPending {
		t.Error("HoldPending should clear on abort")
	}
	if !hasEffect[AbortHoldTimer](effects) {
		t.Error("expected AbortHoldTimer")
	}

	// A completion arriving after the abort (lost race) is dropped.
	s, effects = m.Apply(s, CancelPressCompleted{})
	if s.Phase != PhaseActive {
		t.Errorf("Phase = %v, want %v after aborted press", s.Phase, PhaseActive)
	}
	if len(effects) != 0 {
		t.Errorf("stale completion produced effects: %v", effects)
	}
}

func TestCancelDismissedReturnsToPriorPhase(t *testing.T) {
	tests := []struct {
		name string
		from Phase
	}{
		{"from active", PhaseActive},
		{"from overdue", PhaseOverdue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMachine(DefaultFlowConfig())
			s := startActive(t, m, time.Minute)
			if tt.from == PhaseOverdue {
				s, _ = m.Apply(s, Tick{Now: t0.Add(time.Minute)})
				if s.Phase != PhaseOverdue {
					t.Fatalf("Phase = %v, want %v", s.Phase, PhaseOverdue)
				}
			}

			s, _ = m.Apply(s, CancelPressStarted{})
			s, _ = m.Apply(s, CancelPressCompleted{})
			if s.Phase != PhaseCancelConfirm {
				t.Fatalf("Phase = %v, want %v", s.Phase, PhaseCancelConfirm)
			}

			var effects []Effect
			s, effects = m.Apply(s, CancelDismissed{})
			if s.Phase != tt.from {
				t.Errorf("Phase = %v, want %v", s.Phase, tt.from)
			}
			if tt.from == PhaseOverdue && !hasEffect[StopClock](effects) {
				t.Error("expected StopClock when dismissing back to Overdue")
			}
		})
	}
}

func TestCancelDismissedAfterDeadlinePassedUnderOverlay(t *testing.T) {
	m := NewMachine(DefaultFlowConfig())
	s := startActive(t, m, 10*time.Second)

	s, _ = m.Apply(s, CancelPressStarted{})
	s, _ = m.Apply(s, CancelPressCompleted{})

	// The clock keeps ticking under the confirmation overlay; the deadline
	// passes while the dialog is up.
	s, _ = m.Apply(s, Tick{Now: t0.Add(11 * time.Second)})
	if s.Phase != PhaseCancelConfirm {
		t.Fatalf("Phase = %v, want %v", s.Phase, PhaseCancelConfirm)
	}

	s, _ = m.Apply(s, CancelDismissed{})
	if s.Phase != PhaseOverdue {
		t.Errorf("Phase = %v, want %v (never back to Active past deadline)", s.Phase, PhaseOverdue)
	}
}

func TestCancelReasonFlow(t *testing.T) {
	m := NewMachine(DefaultFlowConfig())
	s := startActive(t, m, time.Minute)

	s, _ = m.Apply(s, CancelPressStarted{})
	s, _ = m.Apply(s, CancelPressCompleted{})
	s, _ = m.Apply(s, CancelConfirmed{})
	if s.Phase != PhaseCancelReason {
		t.Fatalf("Phase = %v, want %v", s.Phase, PhaseCancelReason)
	}

	// Whitespace-only reasons are rejected by the guard.
	s, effects := m.Apply(s, ReasonSubmitted{Text: "   "})
	if s.Phase != PhaseCancelReason {
		t.Fatalf("empty reason accepted: Phase = %v", s.Phase)
	}
	if len(effects) != 0 {
		t.Errorf("blocked reason produced effects: %v", effects)
	}

	s, effects = m.Apply(s, ReasonSubmitted{Text: "the scope doubled"})
	if s.Phase != PhaseThankYou {
		t.Fatalf("Phase = %v, want %v", s.Phase, PhaseThankYou)
	}
	if s.CancelReason != "the scope doubled" {
		t.Errorf("CancelReason = %q", s.CancelReason)
	}
	if !hasEffect[StopClock](effects) {
		t.Error("expected StopClock on entering ThankYou")
	}
}

func TestCancelReasonDisabledSkipsToThankYou(t *testing.T) {
	cfg := DefaultFlowConfig()
	cfg.CancelReasonEnabled = false
	m := NewMachine(cfg)
	s := startActive(t, m, time.Minute)

	s, _ = m.Apply(s, CancelPressStarted{})
	s, _ = m.Apply(s, CancelPressCompleted{})
	s, _ = m.Apply(s, CancelConfirmed{})
	if s.Phase != PhaseThankYou {
		t.Errorf("Phase = %v, want %v", s.Phase, PhaseThankYou)
	}
}

func TestEstimatorDisabledFallsBackToManualSetup(t *testing.T) {
	cfg := DefaultFlowConfig()
	cfg.EstimatorEnabled = false
	m := NewMachine(cfg)

	s := NewSession()
	s, _ = m.Apply(s, StartAiSetup{})
	if s.Phase != PhaseManualSetup {
		t.Errorf("Phase = %v, want %v", s.Phase, PhaseManualSetup)
	}
}

func TestEstimateRequestAndResolution(t *testing.T) {
	m := NewMachine(DefaultFlowConfig())
	s := NewSession()
	s, _ = m.Apply(s, StartAiSetup{})

	s, effects := m.Apply(s, EstimateRequested{TaskLabel: "write the report", TaskDetail: "quarterly"})
	if s.PendingEstimate == nil {
		t.Fatal("PendingEstimate should be set")
	}
	if !hasEffect[RequestEstimate](effects) {
		t.Fatal("expected RequestEstimate")
	}
	token := *s.PendingEstimate

	// A resolution with a stale token is ignored.
	s, _ = m.Apply(s, EstimateResolved{Token: "stale", Minutes: 90})
	if s.PendingEstimate == nil || s.EstimatedMinutes != 0 {
		t.Fatal("stale resolution must not apply")
	}

	s, _ = m.Apply(s, EstimateResolved{Token: token, Minutes: 45, Fallback: true})
	if s.PendingEstimate != nil {
		t.Error("PendingEstimate should clear on resolution")
	}
	if s.EstimatedMinutes != 45 || !s.EstimateIsFallback {
		t.Errorf("estimate = %d fallback=%v, want 45 fallback=true", s.EstimatedMinutes, s.EstimateIsFallback)
	}

	// The session proceeds to Active with the fallback minutes, no error
	// branch anywhere.
	s, _ = m.Apply(s, SetupConfirmed{
		TaskLabel:  "write the report",
		DeadlineAt: t0.Add(45 * time.Minute),
		Now:        t0,
	})
	if s.Phase != PhaseActive {
		t.Errorf("Phase = %v, want %v", s.Phase, PhaseActive)
	}
}

func TestReturnHomeFullReset(t *testing.T) {
	for _, terminal := range []string{"success", "failure", "thankyou"} {
		t.Run(terminal, func(t *testing.T) {
			m := NewMachine(DefaultFlowConfig())
			s := startActive(t, m, time.Minute)

			switch terminal {
			case "success":
				s, _ = m.Apply(s, SubmitRequested{Now: t0.Add(time.Second)})
			case "failure":
				s, _ = m.Apply(s, Tick{Now: t0.Add(time.Minute)})
				s, _ = m.Apply(s, LateAcknowledged{Now: t0.Add(time.Minute + time.Second)})
				s, _ = m.Apply(s, CaptureCompleted{Image: []byte("card")})
			case "thankyou":
				s, _ = m.Apply(s, CancelPressStarted{})
				s, _ = m.Apply(s, CancelPressCompleted{})
				s, _ = m.Apply(s, CancelConfirmed{})
				s, _ = m.Apply(s, ReasonSubmitted{Text: "nope"})
			}
			if !s.Phase.Terminal() {
				t.Fatalf("Phase = %v, expected a terminal phase", s.Phase)
			}

			s, _ = m.Apply(s, ReturnHome{})

			// Modulo the generated ID, the reset session equals a freshly
			// constructed one.
			fresh := NewSession()
			s.ID = ""
			fresh.ID = ""
			if !reflect.DeepEqual(s, fresh) {
				t.Errorf("reset session = %+v, want %+v", s, fresh)
			}
		})
	}
}

func TestReturnHomeIgnoredOutsideTerminalPhases(t *testing.T) {
	m := NewMachine(DefaultFlowConfig())
	s := startActive(t, m, time.Minute)

	next, effects := m.Apply(s, ReturnHome{})
	if next.Phase != PhaseActive || len(effects) != 0 {
		t.Errorf("ReturnHome in Active: phase=%v effects=%v", next.Phase, effects)
	}
}

func TestClockRunsUnderCancelOverlays(t *testing.T) {
	m := NewMachine(DefaultFlowConfig())
	s := startActive(t, m, time.Minute)

	s, _ = m.Apply(s, CancelPressStarted{})
	s, effects := m.Apply(s, CancelPressCompleted{})
	if s.Phase != PhaseCancelConfirm {
		t.Fatalf("Phase = %v", s.Phase)
	}
	if hasEffect[StopClock](effects) {
		t.Error("clock must keep running under the confirmation overlay")
	}

	s, effects = m.Apply(s, CancelConfirmed{})
	if s.Phase != PhaseCancelReason {
		t.Fatalf("Phase = %v", s.Phase)
	}
	if hasEffect[StopClock](effects) {
		t.Error("clock must keep running during the reason prompt")
	}
}

func TestCancelConfirmEnteredFromOverdueRestartsClock(t *testing.T) {
	m := NewMachine(DefaultFlowConfig())
	s := startActive(t, m, time.Second)
	s, _ = m.Apply(s, Tick{Now: t0.Add(time.Second)})

	s, _ = m.Apply(s, CancelPressStarted{})
	s, effects := m.Apply(s, CancelPressCompleted{})
	if s.Phase != PhaseCancelConfirm {
		t.Fatalf("Phase = %v", s.Phase)
	}
	if !hasEffect[StartClock](effects) {
		t.Error("clock must restart when the overlay opens from Overdue")
	}
}
