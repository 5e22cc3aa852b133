package tui

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/xvierd/dreadline/internal/config"
	"github.com/xvierd/dreadline/internal/domain"
	"github.com/xvierd/dreadline/internal/ports"
	"github.com/xvierd/dreadline/internal/services"
)

// Program wraps the Bubbletea program around the session service.
type Program struct {
	program *tea.Program
	mu      sync.Mutex
	cancel  context.CancelFunc
}

// NewProgram builds the full-screen session UI.
func NewProgram(svc *services.SessionService, theme *config.ThemeConfig, notifier Notifier, git *ports.GitInfo) *Program {
	model := NewModel(svc, theme, notifier, git)
	return &Program{
		program: tea.NewProgram(model, tea.WithAltScreen()),
	}
}

// Run starts the UI and blocks until the user leaves.
func (p *Program) Run(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	p.mu.Lock()
	p.cancel = cancel
	p.mu.Unlock()
	defer cancel()

	go func() {
		<-runCtx.Done()
		p.program.Quit()
	}()

	if _, err := p.program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// Stop gracefully stops the UI.
func (p *Program) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		p.cancel()
	}
	p.program.Quit()
}

// ShowStatus prints the current session without starting interactive mode.
func ShowStatus(w io.Writer, session domain.Session) {
	now := time.Now()

	switch {
	case session.Phase == domain.PhaseHome:
		fmt.Fprintln(w, "No deadline session.")
	case session.Phase.Terminal():
		fmt.Fprintf(w, "⏳ Session finished: %s\n", domain.GetPhaseLabel(session.Phase))
		if session.TaskLabel != "" {
			fmt.Fprintf(w, "   Task: %s\n", session.TaskLabel)
		}
	case session.PastDeadline(now):
		fmt.Fprintf(w, "💀 %s is overdue by %s\n", session.TaskLabel, session.OverdueBy(now).Round(time.Second))
	default:
		fmt.Fprintf(w, "⏳ %s due in %s\n", session.TaskLabel, session.Remaining(now).Round(time.Second))
	}
}

// ShowError displays an error message.
func ShowError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)
}
