package ports

import (
	"context"
	"time"

	"github.com/xvierd/dreadline/internal/domain"
)

// MCPHandler defines the interface for MCP server operations.
// This is a driving port (called by the application layer).
type MCPHandler interface {
	// Start begins serving MCP requests.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the server.
	Stop() error

	// IsRunning returns true if the server is active.
	IsRunning() bool
}

// SessionControl exposes the deadline session to the MCP server.
// This is a driven port (implemented by the services layer). State lives
// only in-process; there is nothing persisted behind it.
type SessionControl interface {
	// Snapshot returns a copy of the current session.
	Snapshot() domain.Session

	// StartDeadline confirms setup with the given label and deadline.
	StartDeadline(label, detail string, deadlineAt time.Time) (domain.Session, error)

	// EstimateDeadline asks the estimator for a duration.
	EstimateDeadline(ctx context.Context, label, detail string) EstimateResult

	// Submit declares the task done.
	Submit() domain.Session

	// AcknowledgeLate acknowledges an overdue submission.
	AcknowledgeLate() domain.Session

	// Cancel runs the full cancellation path with the given reason.
	Cancel(reason string) (domain.Session, error)

	// Reset returns the session Home from a terminal phase.
	Reset() domain.Session
}
