// Package share hands the shame card off to the share surface: the
// clipboard when it is available, the terminal otherwise. Sharing is
// fire-and-forget; a failed handoff is dropped silently.
package share

import (
	"context"
	"fmt"
	"io"

	"github.com/atotto/clipboard"
	"github.com/xvierd/dreadline/internal/config"
)

// Publisher implements the share surface.
type Publisher struct {
	cfg      config.ShareConfig
	notifier Notifier
	out      io.Writer

	// writeClipboard is swappable for tests; clipboard access needs a
	// display server.
	writeClipboard func(string) error
}

// Notifier is the slice of the notification adapter the publisher needs.
type Notifier interface {
	Notify(title, message string) error
}

// NewPublisher creates a publisher. out receives the card when the
// clipboard handoff is unavailable; a nil notifier disables the
// notification.
func NewPublisher(cfg config.ShareConfig, notifier Notifier, out io.Writer) *Publisher {
	return &Publisher{
		cfg:            cfg,
		notifier:       notifier,
		out:            out,
		writeClipboard: clipboard.WriteAll,
	}
}

// Share publishes the card.
func (p *Publisher) Share(_ context.Context, image []byte) {
	if len(image) == 0 {
		return
	}

	copied := false
	if p.cfg.Clipboard {
		copied = p.writeClipboard(string(image)) == nil
	}
	if !copied && p.cfg.Terminal && p.out != nil {
		fmt.Fprintln(p.out, string(image))
	}

	if p.notifier != nil {
		if copied {
			p.notifier.Notify("📋 Shame Card Ready", "The card is on your clipboard.")
		} else {
			p.notifier.Notify("📋 Shame Card Ready", "The card is in your terminal.")
		}
	}
}
