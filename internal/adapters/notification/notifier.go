// Package notification provides desktop notification utilities.
package notification

import (
	"fmt"

	"github.com/gen2brain/beeep"
	"github.com/xvierd/dreadline/internal/config"
)

// Notifier handles desktop notifications.
type Notifier struct {
	cfg *config.NotificationConfig
}

// New creates a new notifier with the given configuration.
func New(cfg *config.NotificationConfig) *Notifier {
	return &Notifier{cfg: cfg}
}

// Notify displays a desktop notification if enabled.
func (n *Notifier) Notify(title, message string) error {
	if n.cfg == nil || !n.cfg.Enabled {
		return nil
	}

	return beeep.Notify(title, message, "")
}

// NotifyDeadlinePassed fires when the countdown crosses the deadline.
func (n *Notifier) NotifyDeadlinePassed(taskLabel string) error {
	title := "💀 Deadline Missed"
	message := fmt.Sprintf("Time's up on %q. Face the music.", taskLabel)
	return n.Notify(title, message)
}

// NotifySuccess fires when the task is submitted in time.
func (n *Notifier) NotifySuccess(taskLabel string) error {
	title := "✅ Made It"
	message := fmt.Sprintf("%q submitted before the deadline.", taskLabel)
	return n.Notify(title, message)
}

// IsEnabled returns true if notifications are enabled.
func (n *Notifier) IsEnabled() bool {
	return n.cfg != nil && n.cfg.Enabled
}
