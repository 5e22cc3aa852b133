package ports

import "context"

// EstimateRequest describes the task to estimate.
type EstimateRequest struct {
	TaskLabel  string
	TaskDetail string
}

// EstimateResult is always usable: Minutes is clamped to the configured
// range, and IsFallback marks the deterministic substitute returned when
// the remote call failed, timed out, or was unparseable.
type EstimateResult struct {
	Minutes    int
	IsFallback bool
}

// Estimator defines the interface for the remote duration estimator.
// This is a driven port (implemented by adapters).
//
// Estimate never returns an error: every failure mode resolves to the
// fallback result so the state machine has no error branch for this call.
type Estimator interface {
	Estimate(ctx context.Context, req EstimateRequest) EstimateResult
}
