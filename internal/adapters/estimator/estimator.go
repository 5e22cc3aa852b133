// Package estimator implements the deadline estimator against an
// OpenAI-compatible chat completions endpoint. The adapter never fails:
// any transport, auth, or parse problem resolves to the configured
// fallback minutes with IsFallback set.
package estimator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xvierd/dreadline/internal/ports"
)

const systemPrompt = "You estimate how long a software or office task takes. " +
	"Reply with a single integer: the number of minutes. No other text."

var minutesPattern = regexp.MustCompile(`\d+`)

// Config holds the estimator client settings.
type Config struct {
	BaseURL         string
	APIKey          string
	Model           string
	Timeout         time.Duration
	FallbackMinutes int
	MinMinutes      int
	MaxMinutes      int
}

// Client calls the remote model for a duration estimate.
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient creates an estimator client. Zero bounds get the standard
// [30, 180] window and a 60 minute fallback.
func NewClient(cfg Config) *Client {
	if cfg.MinMinutes <= 0 {
		cfg.MinMinutes = 30
	}
	if cfg.MaxMinutes <= 0 {
		cfg.MaxMinutes = 180
	}
	if cfg.FallbackMinutes <= 0 {
		cfg.FallbackMinutes = 60
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Estimate asks the model for a minute count and clamps it into the
// configured window. Every failure path returns the fallback.
func (c *Client) Estimate(ctx context.Context, req ports.EstimateRequest) ports.EstimateResult {
	if c.cfg.APIKey == "" || c.cfg.BaseURL == "" {
		return c.fallback()
	}

	minutes, err := c.requestMinutes(ctx, req)
	if err != nil {
		return c.fallback()
	}
	return ports.EstimateResult{Minutes: c.clamp(minutes)}
}

func (c *Client) requestMinutes(ctx context.Context, req ports.EstimateRequest) (int, error) {
	prompt := req.TaskLabel
	if req.TaskDetail != "" {
		prompt += "\n\n" + req.TaskDetail
	}

	body, err := json.Marshal(chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to encode request: %w", err)
	}

	url := strings.TrimSuffix(c.cfg.BaseURL, "/") + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return 0, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return 0, fmt.Errorf("response carried no choices")
	}

	match := minutesPattern.FindString(parsed.Choices[0].Message.Content)
	if match == "" {
		return 0, fmt.Errorf("no minute count in %q", parsed.Choices[0].Message.Content)
	}
	return strconv.Atoi(match)
}

func (c *Client) clamp(minutes int) int {
	if minutes < c.cfg.MinMinutes {
		return c.cfg.MinMinutes
	}
	if minutes > c.cfg.MaxMinutes {
		return c.cfg.MaxMinutes
	}
	return minutes
}

func (c *Client) fallback() ports.EstimateResult {
	return ports.EstimateResult{
		Minutes:    c.clamp(c.cfg.FallbackMinutes),
		IsFallback: true,
	}
}
