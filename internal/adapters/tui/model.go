// Package tui provides the terminal user interface implementation
// using the Bubbletea framework.
package tui

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	gitadapter "github.com/xvierd/dreadline/internal/adapters/git"
	"github.com/xvierd/dreadline/internal/config"
	"github.com/xvierd/dreadline/internal/domain"
	"github.com/xvierd/dreadline/internal/ports"
	"github.com/xvierd/dreadline/internal/services"
)

// resolveTheme fills any empty string fields in the given ThemeConfig with defaults.
// If theme is nil, returns the full default theme.
func resolveTheme(theme *config.ThemeConfig) config.ThemeConfig {
	defaults := config.DefaultThemeConfig()
	if theme == nil {
		return defaults
	}
	resolved := *theme
	rv := reflect.ValueOf(&resolved).Elem()
	dv := reflect.ValueOf(defaults)
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Field(i)
		if f.Kind() == reflect.String && f.String() == "" {
			f.SetString(dv.Field(i).String())
		}
	}
	return resolved
}

// tickMsg drives display refresh. The session clock lives in the service;
// this tick only re-renders and polls the snapshot.
type tickMsg time.Time

// setupStep indexes the setup form fields.
type setupStep int

const (
	stepLabel setupStep = iota
	stepDetail
	stepDuration
)

// Notifier is the slice of the notification adapter the TUI fires at
// phase edges.
type Notifier interface {
	NotifyDeadlinePassed(taskLabel string) error
	NotifySuccess(taskLabel string) error
}

// Model represents the TUI state. All session state lives in the
// service; the model holds only presentation state.
type Model struct {
	svc     *services.SessionService
	session domain.Session

	width  int
	height int

	theme    config.ThemeConfig
	notifier Notifier
	git      *ports.GitInfo

	// setup form
	labelInput  textinput.Model
	detailInput textinput.Model
	minuteInput textinput.Model
	reasonInput textinput.Model
	step        setupStep
	setupErr    string

	// countdown window, captured when the session goes Active
	startedAt time.Time

	// hold-to-cancel gauge
	holdStart time.Time

	quitting bool
}

// NewModel creates a new TUI model bound to the session service.
func NewModel(svc *services.SessionService, theme *config.ThemeConfig, notifier Notifier, git *ports.GitInfo) Model {
	labelInput := textinput.New()
	labelInput.Placeholder = "what are you finishing?"
	labelInput.CharLimit = 80
	labelInput.Width = 40

	detailInput := textinput.New()
	detailInput.Placeholder = "details (optional)"
	detailInput.CharLimit = 200
	detailInput.Width = 40

	minuteInput := textinput.New()
	minuteInput.Placeholder = "minutes"
	minuteInput.CharLimit = 4
	minuteInput.Width = 10

	reasonInput := textinput.New()
	reasonInput.Placeholder = "why are you giving up?"
	reasonInput.CharLimit = 200
	reasonInput.Width = 40

	if git != nil {
		labelInput.Placeholder = "what are you finishing? (enter = branch name)"
	}

	m := Model{
		svc:         svc,
		session:     svc.Snapshot(),
		theme:       resolveTheme(theme),
		notifier:    notifier,
		git:         git,
		labelInput:  labelInput,
		detailInput: detailInput,
		minuteInput: minuteInput,
		reasonInput: reasonInput,
	}
	// A session started from the command line is already running when
	// the UI attaches.
	if m.session.Phase == domain.PhaseActive {
		m.startedAt = time.Now()
	}
	return m
}

// Init initializes the TUI.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.tickInterval())
}

// tickInterval is short while the hold gauge animates, one second
// otherwise.
func (m Model) tickInterval() time.Duration {
	if m.session.HoldPending {
		return 100 * time.Millisecond
	}
	return time.Second
}

// refresh pulls the latest snapshot and fires edge notifications.
func (m *Model) refresh(next domain.Session) {
	prev := m.session
	m.session = next

	if prev.Phase == next.Phase {
		return
	}

	switch {
	case next.Phase == domain.PhaseActive && prev.Phase != domain.PhaseCancelConfirm:
		m.startedAt = time.Now()
	case next.Phase == domain.PhaseOverdue && prev.Phase == domain.PhaseActive:
		if m.notifier != nil {
			_ = m.notifier.NotifyDeadlinePassed(next.TaskLabel)
		}
	case next.Phase == domain.PhaseSuccess:
		if m.notifier != nil {
			_ = m.notifier.NotifySuccess(next.TaskLabel)
		}
	}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		m.refresh(m.svc.Snapshot())
		return m, tickCmd(m.tickInterval())

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		return m.handleKey(msg)
	}

	return m.updateFocusedInput(msg)
}

// handleKey dispatches a key press by phase.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.session.Phase {
	case domain.PhaseHome:
		return m.handleHomeKey(msg)
	case domain.PhaseManualSetup, domain.PhaseAiSetup:
		return m.handleSetupKey(msg)
	case domain.PhaseActive:
		return m.handleActiveKey(msg)
	case domain.PhaseCancelConfirm:
		return m.handleCancelConfirmKey(msg)
	case domain.PhaseCancelReason:
		return m.handleCancelReasonKey(msg)
	case domain.PhaseOverdue:
		return m.handleOverdueKey(msg)
	case domain.PhasePenaltyCapture:
		// The capture pipeline finishes on its own.
		return m, nil
	case domain.PhaseSuccess, domain.PhaseFailure, domain.PhaseThankYou:
		return m.handleTerminalKey(msg)
	}
	return m, nil
}

func (m Model) handleHomeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		m.quitting = true
		return m, tea.Quit
	case "m", "enter":
		m.refresh(m.svc.StartManualSetup())
		return m.beginSetup()
	case "a":
		m.refresh(m.svc.StartAiSetup())
		return m.beginSetup()
	}
	return m, nil
}

// beginSetup resets the form for a fresh setup pass.
func (m Model) beginSetup() (tea.Model, tea.Cmd) {
	m.step = stepLabel
	m.setupErr = ""
	m.labelInput.Reset()
	m.detailInput.Reset()
	m.minuteInput.Reset()
	m.labelInput.Focus()
	return m, m.labelInput.Cursor.BlinkCmd()
}

func (m Model) handleSetupKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.refresh(m.svc.CancelSetup())
		return m, nil
	case "enter":
		return m.advanceSetup()
	}
	return m.updateFocusedInput(msg)
}

// advanceSetup moves to the next form field, requesting the estimate or
// confirming the deadline when the form is done.
func (m Model) advanceSetup() (tea.Model, tea.Cmd) {
	switch m.step {
	case stepLabel:
		if strings.TrimSpace(m.labelInput.Value()) == "" && m.git != nil {
			m.labelInput.SetValue(gitadapter.TaskLabelFrom(m.git))
		}
		if strings.TrimSpace(m.labelInput.Value()) == "" {
			m.setupErr = "the task needs a name"
			return m, nil
		}
		m.setupErr = ""
		m.step = stepDetail
		m.labelInput.Blur()
		m.detailInput.Focus()
		return m, m.detailInput.Cursor.BlinkCmd()

	case stepDetail:
		m.detailInput.Blur()
		if m.session.Phase == domain.PhaseAiSetup {
			// Hand the task to the estimator; the resolution lands via tick.
			m.refresh(m.svc.RequestEstimate(m.labelInput.Value(), m.detailInput.Value()))
			m.step = stepDuration
			return m, nil
		}
		m.step = stepDuration
		m.minuteInput.Focus()
		return m, m.minuteInput.Cursor.BlinkCmd()

	case stepDuration:
		minutes, err := m.chosenMinutes()
		if err != nil {
			m.setupErr = err.Error()
			return m, nil
		}
		m.setupErr = ""
		m.minuteInput.Blur()
		m.refresh(m.svc.ConfirmSetup(
			strings.TrimSpace(m.labelInput.Value()),
			strings.TrimSpace(m.detailInput.Value()),
			time.Now().Add(time.Duration(minutes)*time.Minute),
		))
		return m, nil
	}
	return m, nil
}

// chosenMinutes resolves the deadline length: the typed count in manual
// setup, the estimate in AI setup.
func (m Model) chosenMinutes() (int, error) {
	if m.session.Phase == domain.PhaseAiSetup {
		if m.session.PendingEstimate != nil {
			return 0, fmt.Errorf("still estimating")
		}
		if m.session.EstimatedMinutes <= 0 {
			return 0, fmt.Errorf("no estimate yet")
		}
		return m.session.EstimatedMinutes, nil
	}

	minutes, err := strconv.Atoi(strings.TrimSpace(m.minuteInput.Value()))
	if err != nil || minutes <= 0 {
		return 0, fmt.Errorf("give the deadline in minutes, e.g. 45")
	}
	return minutes, nil
}

func (m Model) handleActiveKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "s", "enter":
		if m.session.HoldPending {
			m.refresh(m.svc.ReleaseCancel())
			return m, nil
		}
		m.refresh(m.svc.Submit())
		return m, nil
	case "c":
		if !m.session.HoldPending {
			m.holdStart = time.Now()
			m.refresh(m.svc.PressCancel())
			return m, tickCmd(m.tickInterval())
		}
		return m, nil
	default:
		// Any other key releases a pending hold.
		if m.session.HoldPending {
			m.refresh(m.svc.ReleaseCancel())
		}
		return m, nil
	}
}

func (m Model) handleOverdueKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "s", "enter":
		if m.session.HoldPending {
			m.refresh(m.svc.ReleaseCancel())
			return m, nil
		}
		if m.session.LateSubmittedAt == nil {
			m.refresh(m.svc.AcknowledgeLate())
		}
		return m, nil
	case "c":
		if !m.session.HoldPending {
			m.holdStart = time.Now()
			m.refresh(m.svc.PressCancel())
			return m, tickCmd(m.tickInterval())
		}
		return m, nil
	default:
		if m.session.HoldPending {
			m.refresh(m.svc.ReleaseCancel())
		}
		return m, nil
	}
}

func (m Model) handleCancelConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y":
		m.refresh(m.svc.ConfirmCancel())
		if m.session.Phase == domain.PhaseCancelReason {
			m.reasonInput.Reset()
			m.reasonInput.Focus()
			return m, m.reasonInput.Cursor.BlinkCmd()
		}
		return m, nil
	case "n", "esc":
		m.refresh(m.svc.DismissCancel())
		return m, nil
	}
	return m, nil
}

func (m Model) handleCancelReasonKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "enter" {
		if !domain.ValidReason(m.reasonInput.Value()) {
			m.setupErr = "the reason cannot be empty"
			return m, nil
		}
		m.setupErr = ""
		m.reasonInput.Blur()
		m.refresh(m.svc.SubmitReason(m.reasonInput.Value()))
		return m, nil
	}
	return m.updateFocusedInput(msg)
}

func (m Model) handleTerminalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		m.quitting = true
		return m, tea.Quit
	case "n", "enter":
		m.refresh(m.svc.GoHome())
		return m, nil
	}
	return m, nil
}

// updateFocusedInput routes a message to whichever text input has focus.
func (m Model) updateFocusedInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case m.labelInput.Focused():
		m.labelInput, cmd = m.labelInput.Update(msg)
	case m.detailInput.Focused():
		m.detailInput, cmd = m.detailInput.Update(msg)
	case m.minuteInput.Focused():
		m.minuteInput, cmd = m.minuteInput.Update(msg)
	case m.reasonInput.Focused():
		m.reasonInput, cmd = m.reasonInput.Update(msg)
	}
	return m, cmd
}

// tickCmd creates a command that sends a tick message.
func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// formatClock formats a duration as HH:MM:SS, or MM:SS under an hour.
func formatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}
