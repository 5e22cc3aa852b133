// Package mcp provides the MCP (Model Context Protocol) server
// implementation. It exposes the in-process deadline session to agents
// over stdio; there is no persisted state behind the tools.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/xvierd/dreadline/internal/domain"
	"github.com/xvierd/dreadline/internal/ports"
)

// Server implements the MCP server using mark3labs/mcp-go.
type Server struct {
	server  *server.MCPServer
	control ports.SessionControl
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewServer creates a new MCP server instance.
func NewServer(control ports.SessionControl) *Server {
	s := &Server{
		control: control,
	}

	s.server = server.NewMCPServer(
		"dreadline",
		"1.0.0",
		server.WithLogging(),
	)

	s.registerTools()

	return s
}

// registerTools registers all available MCP tools.
func (s *Server) registerTools() {
	// Tool: deadline_status
	s.server.AddTool(
		mcp.NewTool(
			"deadline_status",
			mcp.WithDescription("Get the current deadline session: phase, task, deadline, and remaining or overdue time"),
		),
		s.handleStatus,
	)

	// Tool: deadline_start
	startTool := mcp.NewTool(
		"deadline_start",
		mcp.WithDescription("Start a deadline session for a task. Give either an absolute deadline or a minute count"),
		mcp.WithString(
			"task_label",
			mcp.Required(),
			mcp.Description("Short name of the task"),
		),
		mcp.WithString(
			"task_detail",
			mcp.Description("Optional longer task description"),
		),
		mcp.WithString(
			"deadline",
			mcp.Description("Absolute deadline in RFC 3339 format, e.g. 2026-08-31T17:00:00Z"),
		),
		mcp.WithNumber(
			"minutes",
			mcp.Description("Deadline as minutes from now; ignored when deadline is given"),
		),
	)
	s.server.AddTool(startTool, s.handleStart)

	// Tool: estimate_deadline
	estimateTool := mcp.NewTool(
		"estimate_deadline",
		mcp.WithDescription("Ask the estimator how many minutes a task should take"),
		mcp.WithString(
			"task_label",
			mcp.Required(),
			mcp.Description("Short name of the task"),
		),
		mcp.WithString(
			"task_detail",
			mcp.Description("Optional longer task description"),
		),
	)
	s.server.AddTool(estimateTool, s.handleEstimate)

	// Tool: deadline_submit
	s.server.AddTool(
		mcp.NewTool(
			"deadline_submit",
			mcp.WithDescription("Declare the task done. Before the deadline this succeeds; after it the penalty pipeline runs"),
		),
		s.handleSubmit,
	)

	// Tool: deadline_acknowledge_late
	s.server.AddTool(
		mcp.NewTool(
			"deadline_acknowledge_late",
			mcp.WithDescription("Acknowledge an overdue deadline and accept the penalty"),
		),
		s.handleAcknowledgeLate,
	)

	// Tool: deadline_cancel
	cancelTool := mcp.NewTool(
		"deadline_cancel",
		mcp.WithDescription("Cancel the running deadline session"),
		mcp.WithString(
			"reason",
			mcp.Required(),
			mcp.Description("Why the deadline is being abandoned"),
		),
	)
	s.server.AddTool(cancelTool, s.handleCancel)

	// Tool: deadline_reset
	s.server.AddTool(
		mcp.NewTool(
			"deadline_reset",
			mcp.WithDescription("Return to the home screen from a finished session"),
		),
		s.handleReset,
	)
}

// Start begins serving MCP requests via stdio.
func (s *Server) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)

	return server.ServeStdio(s.server)
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	if s.cancel != nil {
		s.cancel()
	}
	return nil
}

// IsRunning returns true if the server is active.
func (s *Server) IsRunning() bool {
	if s.ctx == nil {
		return false
	}
	return s.ctx.Err() == nil
}

// Ensure Server implements ports.MCPHandler.
var _ ports.MCPHandler = (*Server)(nil)

// sessionResult renders a session snapshot as a tool result.
func sessionResult(session domain.Session) (*mcp.CallToolResult, error) {
	now := time.Now()

	result := map[string]interface{}{
		"phase":      string(session.Phase),
		"task_label": session.TaskLabel,
	}
	if session.TaskDetail != "" {
		result["task_detail"] = session.TaskDetail
	}
	if !session.DeadlineAt.IsZero() {
		result["deadline_at"] = session.DeadlineAt.Format(time.RFC3339)
		if session.PastDeadline(now) {
			result["overdue_by"] = session.OverdueBy(now).Round(time.Second).String()
		} else {
			result["remaining"] = session.Remaining(now).Round(time.Second).String()
		}
	}
	if session.LateSubmittedAt != nil {
		result["late_submitted_at"] = session.LateSubmittedAt.Format(time.RFC3339)
	}
	if session.CancelReason != "" {
		result["cancel_reason"] = session.CancelReason
	}

	jsonData, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session: %w", err)
	}

	return mcp.NewToolResultText(string(jsonData)), nil
}

// handleStatus handles the deadline_status tool.
func (s *Server) handleStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return sessionResult(s.control.Snapshot())
}

// handleStart handles the deadline_start tool.
func (s *Server) handleStart(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	taskLabel, err := request.RequireString("task_label")
	if err != nil {
		return mcp.NewToolResultError("task_label is required: " + err.Error()), nil
	}
	taskDetail := request.GetString("task_detail", "")

	var deadlineAt time.Time
	if raw := request.GetString("deadline", ""); raw != "" {
		deadlineAt, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid deadline %q: %v", raw, err)), nil
		}
	} else if minutes := request.GetFloat("minutes", 0); minutes > 0 {
		deadlineAt = time.Now().Add(time.Duration(minutes) * time.Minute)
	} else {
		return mcp.NewToolResultError("either deadline or minutes is required"), nil
	}

	session, err := s.control.StartDeadline(taskLabel, taskDetail, deadlineAt)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to start deadline: %v", err)), nil
	}

	return sessionResult(session)
}

// handleEstimate handles the estimate_deadline tool.
func (s *Server) handleEstimate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	taskLabel, err := request.RequireString("task_label")
	if err != nil {
		return mcp.NewToolResultError("task_label is required: " + err.Error()), nil
	}
	taskDetail := request.GetString("task_detail", "")

	estimate := s.control.EstimateDeadline(ctx, taskLabel, taskDetail)

	result := map[string]interface{}{
		"task_label":  taskLabel,
		"minutes":     estimate.Minutes,
		"is_fallback": estimate.IsFallback,
	}

	jsonData, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal estimate: %w", err)
	}

	return mcp.NewToolResultText(string(jsonData)), nil
}

// handleSubmit handles the deadline_submit tool.
func (s *Server) handleSubmit(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	before := s.control.Snapshot()
	if before.Phase != domain.PhaseActive && before.Phase != domain.PhaseOverdue {
		return mcp.NewToolResultError("no deadline session to submit"), nil
	}

	return sessionResult(s.control.Submit())
}

// handleAcknowledgeLate handles the deadline_acknowledge_late tool.
func (s *Server) handleAcknowledgeLate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	before := s.control.Snapshot()
	if before.Phase != domain.PhaseOverdue {
		return mcp.NewToolResultError("the session is not overdue"), nil
	}
	if before.LateSubmittedAt != nil {
		return mcp.NewToolResultError("the late submission was already acknowledged"), nil
	}

	return sessionResult(s.control.AcknowledgeLate())
}

// handleCancel handles the deadline_cancel tool.
func (s *Server) handleCancel(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	reason, err := request.RequireString("reason")
	if err != nil {
		return mcp.NewToolResultError("reason is required: " + err.Error()), nil
	}

	session, err := s.control.Cancel(reason)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to cancel: %v", err)), nil
	}

	return sessionResult(session)
}

// handleReset handles the deadline_reset tool.
func (s *Server) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	before := s.control.Snapshot()
	if !before.Phase.Terminal() {
		return mcp.NewToolResultError("the session is not finished; cancel or submit it first"), nil
	}

	return sessionResult(s.control.Reset())
}
