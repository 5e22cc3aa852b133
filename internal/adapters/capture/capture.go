// Package capture renders the shame card: a styled panel built from the
// session context and the taunt overlay. The rendered card is the
// "image" of the penalty pipeline; it is a byte buffer of terminal text.
package capture

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
	"github.com/xvierd/dreadline/internal/ports"
)

const (
	defaultWidth = 60
	minWidth     = 40
	maxWidth     = 80
)

// Renderer produces shame cards.
type Renderer struct {
	// Width fixes the card width. Zero probes the terminal.
	Width int

	// Repository is stamped on the card when the session started inside
	// a git checkout.
	Repository string
}

// NewRenderer creates a renderer that sizes cards to the terminal.
func NewRenderer(repository string) *Renderer {
	return &Renderer{Repository: repository}
}

// Capture renders the card. It returns nil when nothing sensible can be
// rendered, which the session treats as "no image".
func (r *Renderer) Capture(_ context.Context, req ports.CaptureRequest) []byte {
	if strings.TrimSpace(req.TaskLabel) == "" {
		return nil
	}

	width := r.Width
	if width <= 0 {
		width = probeWidth()
	}

	card := r.render(req, width)
	if card == "" {
		return nil
	}
	return []byte(card)
}

func (r *Renderer) render(req ports.CaptureRequest, width int) string {
	inner := width - 4

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#E05C5C")).
		Width(inner).
		Align(lipgloss.Center)

	taskStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#A0AEC0")).
		Width(inner).
		Align(lipgloss.Center)

	overdueStyle := lipgloss.NewStyle().
		Bold(true).
		Width(inner).
		Align(lipgloss.Center)

	tauntStyle := lipgloss.NewStyle().
		Italic(true).
		Foreground(lipgloss.Color(hexColor(req.Taunt.Color))).
		Width(inner).
		Align(tauntAlign(req.Taunt.PositionX))

	metaStyle := lipgloss.NewStyle().
		Faint(true).
		Width(inner).
		Align(lipgloss.Center)

	lines := []string{
		titleStyle.Render("DEADLINE MISSED"),
		"",
		taskStyle.Render(req.TaskLabel),
		overdueStyle.Render("overdue by " + formatOverdue(req.OverdueBy)),
		"",
		tauntStyle.Render("“" + req.Taunt.Text + "”"),
	}

	meta := time.Now().Format("Mon Jan 2 15:04")
	if r.Repository != "" {
		meta = r.Repository + " · " + meta
	}
	lines = append(lines, "", metaStyle.Render(meta))

	border := lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(lipgloss.Color("#E05C5C")).
		Padding(0, 1).
		Width(width - 2)

	return border.Render(strings.Join(lines, "\n"))
}

// tauntAlign maps the [0,1] horizontal placement of the taunt contract
// onto the three alignments a text card can express.
func tauntAlign(x float64) lipgloss.Position {
	switch {
	case x < 0.34:
		return lipgloss.Left
	case x > 0.66:
		return lipgloss.Right
	default:
		return lipgloss.Center
	}
}

func hexColor(c ports.RGB) string {
	if c == (ports.RGB{}) {
		return "#E05C5C"
	}
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

func formatOverdue(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh %02dm %02ds", h, m, s)
	}
	return fmt.Sprintf("%dm %02ds", m, s)
}

func probeWidth() int {
	w, _, err := term.GetSize(os.Stdout.Fd())
	if err != nil || w <= 0 {
		return defaultWidth
	}
	if w < minWidth {
		return minWidth
	}
	if w > maxWidth {
		return maxWidth
	}
	return w
}
