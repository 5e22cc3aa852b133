package tui

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/xvierd/dreadline/internal/domain"
)

func TestShowStatusByPhase(t *testing.T) {
	now := time.Now()

	cases := []struct {
		name    string
		session domain.Session
		want    string
	}{
		{
			name:    "no session",
			session: domain.Session{Phase: domain.PhaseHome},
			want:    "No deadline session.",
		},
		{
			name: "active counts down",
			session: domain.Session{
				Phase:      domain.PhaseActive,
				TaskLabel:  "ship it",
				DeadlineAt: now.Add(90 * time.Second),
			},
			want: "due in",
		},
		{
			name: "overdue counts up",
			session: domain.Session{
				Phase:      domain.PhaseOverdue,
				TaskLabel:  "ship it",
				DeadlineAt: now.Add(-90 * time.Second),
			},
			want: "overdue by",
		},
		{
			name: "terminal reports the outcome",
			session: domain.Session{
				Phase:     domain.PhaseSuccess,
				TaskLabel: "ship it",
			},
			want: "Session finished",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			ShowStatus(&buf, tc.session)
			if !strings.Contains(buf.String(), tc.want) {
				t.Errorf("output %q missing %q", buf.String(), tc.want)
			}
		})
	}
}

func TestShowErrorWritesToWriter(t *testing.T) {
	var buf bytes.Buffer
	ShowError(&buf, errors.New("the clock broke"))

	if !strings.Contains(buf.String(), "the clock broke") {
		t.Errorf("output %q missing the error text", buf.String())
	}
}
