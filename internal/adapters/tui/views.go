package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/xvierd/dreadline/internal/domain"
)

// View renders the TUI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "Loading..."
	}

	var sections []string

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.ColorTitle)).MarginBottom(1)
	sections = append(sections, titleStyle.Render(fmt.Sprintf("%s dreadline", m.theme.IconApp)))

	switch m.session.Phase {
	case domain.PhaseHome:
		sections = m.viewHome(sections)
	case domain.PhaseManualSetup, domain.PhaseAiSetup:
		sections = m.viewSetup(sections)
	case domain.PhaseActive:
		sections = m.viewActive(sections)
	case domain.PhaseCancelConfirm:
		sections = m.viewCancelConfirm(sections)
	case domain.PhaseCancelReason:
		sections = m.viewCancelReason(sections)
	case domain.PhaseOverdue:
		sections = m.viewOverdue(sections)
	case domain.PhasePenaltyCapture:
		sections = m.viewPenaltyCapture(sections)
	case domain.PhaseSuccess:
		sections = m.viewSuccess(sections)
	case domain.PhaseFailure:
		sections = m.viewFailure(sections)
	case domain.PhaseThankYou:
		sections = m.viewThankYou(sections)
	}

	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m Model) helpStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))
}

func (m Model) taskStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorTask))
}

func (m Model) taskLine() string {
	return m.taskStyle().Render(fmt.Sprintf("%s %s", m.theme.IconTask, m.session.TaskLabel))
}

func (m Model) viewHome(sections []string) []string {
	statusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorActive))

	sections = append(sections, statusStyle.Render("Name a task. Commit to a deadline. Survive it."))
	sections = append(sections, "")

	if m.git != nil && m.git.Repository != "" {
		gitLine := fmt.Sprintf("%s %s (%s)", m.theme.IconGit, m.git.Repository, m.git.Branch)
		sections = append(sections, m.helpStyle().Render(gitLine))
		sections = append(sections, "")
	}

	sections = append(sections, m.helpStyle().Render("[m] set my own deadline"))
	if m.svc.Config().EstimatorEnabled {
		sections = append(sections, m.helpStyle().Render("[a] let the machine decide"))
	}
	sections = append(sections, m.helpStyle().Render("[q] quit"))
	return sections
}

func (m Model) viewSetup(sections []string) []string {
	statusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorActive))

	if m.session.Phase == domain.PhaseAiSetup {
		sections = append(sections, statusStyle.Render("Describe the task; the estimator sets the deadline."))
	} else {
		sections = append(sections, statusStyle.Render("Set up your deadline."))
	}
	sections = append(sections, "")

	sections = append(sections, m.helpStyle().Render("Task: ")+m.labelInput.View())
	if m.step >= stepDetail {
		sections = append(sections, m.helpStyle().Render("Detail: ")+m.detailInput.View())
	}

	if m.step == stepDuration {
		switch {
		case m.session.Phase == domain.PhaseAiSetup && m.session.PendingEstimate != nil:
			sections = append(sections, "")
			sections = append(sections, statusStyle.Render("Estimating..."))
		case m.session.Phase == domain.PhaseAiSetup && m.session.EstimatedMinutes > 0:
			verdict := fmt.Sprintf("The machine gives you %d minutes.", m.session.EstimatedMinutes)
			if m.session.EstimateIsFallback {
				verdict = fmt.Sprintf("The machine is unreachable; you get the standard %d minutes.", m.session.EstimatedMinutes)
			}
			sections = append(sections, "")
			sections = append(sections, statusStyle.Render(verdict))
			sections = append(sections, m.helpStyle().Render("[enter] accept and start"))
		default:
			sections = append(sections, m.helpStyle().Render("Minutes: ")+m.minuteInput.View())
		}
	}

	if m.setupErr != "" {
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorFailure))
		sections = append(sections, "")
		sections = append(sections, errStyle.Render(m.setupErr))
	}

	sections = append(sections, "")
	sections = append(sections, m.helpStyle().Render("enter next · esc back out"))
	return sections
}

func (m Model) viewActive(sections []string) []string {
	now := time.Now()
	remaining := m.session.Remaining(now)
	timerColor := lipgloss.Color(m.theme.ColorActive)

	sections = append(sections, m.taskLine())
	sections = append(sections, "")
	sections = append(sections, renderBigTime(formatClock(remaining), timerColor, m.width))
	sections = append(sections, "")

	// Countdown bar drains from full toward the deadline.
	total := m.session.DeadlineAt.Sub(m.startedAt)
	if total > 0 {
		bar := progress.New(progress.WithGradient(m.theme.ActiveGradientStart, m.theme.ActiveGradientEnd))
		bar.Width = min(m.width-4, 60)
		sections = append(sections, bar.ViewAs(float64(remaining)/float64(total)))
	}

	if m.session.HoldPending {
		sections = append(sections, "")
		sections = append(sections, m.viewHoldGauge())
		sections = append(sections, m.helpStyle().Render("keep holding [c] to give up · any other key to recommit"))
	} else {
		sections = append(sections, "")
		sections = append(sections, m.helpStyle().Render("[s]ubmit  hold [c] to cancel"))
	}
	return sections
}

// viewHoldGauge renders the sustained-press gauge filling toward the
// confirmation threshold.
func (m Model) viewHoldGauge() string {
	hold := m.svc.Config().HoldDuration
	frac := 0.0
	if hold > 0 {
		frac = float64(time.Since(m.holdStart)) / float64(hold)
	}
	if frac > 1 {
		frac = 1
	}

	gauge := progress.New(progress.WithGradient(m.theme.HoldGradientStart, m.theme.HoldGradientEnd))
	gauge.Width = min(m.width-4, 40)
	return gauge.ViewAs(frac)
}

func (m Model) viewCancelConfirm(sections []string) []string {
	warnStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.ColorOverdue))

	sections = append(sections, m.taskLine())
	sections = append(sections, "")
	sections = append(sections, warnStyle.Render("Abandon this deadline?"))
	sections = append(sections, m.helpStyle().Render("The clock keeps running while you decide."))
	sections = append(sections, "")
	sections = append(sections, m.helpStyle().Render("[y] give up  [n] keep going"))
	return sections
}

func (m Model) viewCancelReason(sections []string) []string {
	warnStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.ColorOverdue))

	sections = append(sections, warnStyle.Render("Say it out loud."))
	sections = append(sections, "")
	sections = append(sections, m.helpStyle().Render("Reason: ")+m.reasonInput.View())

	if m.setupErr != "" {
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorFailure))
		sections = append(sections, errStyle.Render(m.setupErr))
	}

	sections = append(sections, "")
	sections = append(sections, m.helpStyle().Render("enter confirm"))
	return sections
}

func (m Model) viewOverdue(sections []string) []string {
	now := time.Now()
	overdueStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.ColorOverdue))

	sections = append(sections, m.taskLine())
	sections = append(sections, "")
	sections = append(sections, overdueStyle.Render(fmt.Sprintf("%s DEADLINE PASSED", m.theme.IconOverdue)))
	sections = append(sections, "")
	sections = append(sections, renderBigTime("+"+formatClock(m.session.OverdueBy(now)), lipgloss.Color(m.theme.ColorOverdue), m.width))
	sections = append(sections, "")

	if m.session.HoldPending {
		sections = append(sections, m.viewHoldGauge())
		sections = append(sections, m.helpStyle().Render("keep holding [c] to give up · any other key to stay"))
	} else if m.session.LateSubmittedAt == nil {
		sections = append(sections, m.helpStyle().Render("[s]ubmit late and face the consequences  hold [c] to cancel"))
	} else {
		sections = append(sections, m.helpStyle().Render("hold [c] to cancel"))
	}
	return sections
}

func (m Model) viewPenaltyCapture(sections []string) []string {
	statusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorOverdue))

	sections = append(sections, m.taskLine())
	sections = append(sections, "")
	sections = append(sections, statusStyle.Render("Hold still. Preparing your shame card..."))
	return sections
}

func (m Model) viewSuccess(sections []string) []string {
	successStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.ColorSuccess))

	sections = append(sections, m.taskLine())
	sections = append(sections, "")
	sections = append(sections, successStyle.Render("Submitted. The deadline never saw you coming."))
	sections = append(sections, "")
	sections = append(sections, m.helpStyle().Render("[n]ew deadline  [q]uit"))
	return sections
}

func (m Model) viewFailure(sections []string) []string {
	failStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.ColorFailure))

	sections = append(sections, failStyle.Render("Missed."))
	if len(m.session.CapturedImage) > 0 {
		sections = append(sections, "")
		sections = append(sections, string(m.session.CapturedImage))
	}
	sections = append(sections, "")
	sections = append(sections, m.helpStyle().Render("[n]ew deadline  [q]uit"))
	return sections
}

func (m Model) viewThankYou(sections []string) []string {
	statusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorTitle))

	sections = append(sections, statusStyle.Render("Deadline abandoned. Thanks for being honest about it."))
	sections = append(sections, "")
	sections = append(sections, m.helpStyle().Render("[n]ew deadline  [q]uit"))
	return sections
}
