package domain

import (
	"testing"
	"time"
)

func TestNewSession(t *testing.T) {
	s := NewSession()

	if s.ID == "" {
		t.Error("NewSession() ID is empty")
	}
	if s.Phase != PhaseHome {
		t.Errorf("Phase = %v, want %v", s.Phase, PhaseHome)
	}
	if s.LateSubmittedAt != nil {
		t.Error("LateSubmittedAt should start nil")
	}
	if s.PendingEstimate != nil {
		t.Error("PendingEstimate should start nil")
	}
}

func TestPhaseClockEnabled(t *testing.T) {
	tests := []struct {
		phase Phase
		want  bool
	}{
		{PhaseHome, false},
		{PhaseManualSetup, false},
		{PhaseAiSetup, false},
		{PhaseActive, true},
		{PhaseCancelConfirm, true},
		{PhaseCancelReason, true},
		{PhaseSuccess, false},
		{PhaseOverdue, false},
		{PhasePenaltyCapture, false},
		{PhaseFailure, false},
		{PhaseThankYou, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.phase), func(t *testing.T) {
			if got := tt.phase.ClockEnabled(); got != tt.want {
				t.Errorf("ClockEnabled() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSessionRemaining(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := Session{DeadlineAt: now.Add(90 * time.Second)}

	if got := s.Remaining(now); got != 90*time.Second {
		t.Errorf("Remaining = %v, want 90s", got)
	}
	if got := s.Remaining(now.Add(2 * time.Minute)); got != 0 {
		t.Errorf("Remaining past deadline = %v, want 0", got)
	}
	if got := (Session{}).Remaining(now); got != 0 {
		t.Errorf("Remaining with zero deadline = %v, want 0", got)
	}
}

func TestSessionOverdueBy(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := Session{DeadlineAt: now}

	if got := s.OverdueBy(now.Add(45 * time.Second)); got != 45*time.Second {
		t.Errorf("OverdueBy = %v, want 45s", got)
	}
	if got := s.OverdueBy(now.Add(-time.Second)); got != 0 {
		t.Errorf("OverdueBy before deadline = %v, want 0", got)
	}
}

func TestSessionPastDeadline(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := Session{DeadlineAt: now}

	if s.PastDeadline(now.Add(-time.Nanosecond)) {
		t.Error("PastDeadline just before the instant should be false")
	}
	if !s.PastDeadline(now) {
		t.Error("PastDeadline at the exact instant should be true")
	}
	if (Session{}).PastDeadline(now) {
		t.Error("PastDeadline with zero deadline should be false")
	}
}

func TestValidReason(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"", false},
		{"   ", false},
		{"\t\n", false},
		{"ran out of coffee", true},
		{"  padded  ", true},
	}

	for _, tt := range tests {
		if got := ValidReason(tt.input); got != tt.want {
			t.Errorf("ValidReason(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestGetPhaseLabel(t *testing.T) {
	if got := GetPhaseLabel(PhaseOverdue); got != "Overdue" {
		t.Errorf("GetPhaseLabel(overdue) = %q", got)
	}
	if got := GetPhaseLabel(Phase("bogus")); got != "Unknown" {
		t.Errorf("GetPhaseLabel(bogus) = %q", got)
	}
}
