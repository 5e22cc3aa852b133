// Package taunt generates the styled taunt line for the shame card. Like
// the estimator it rides the chat completions endpoint and degrades to a
// fixed default on any failure.
package taunt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/xvierd/dreadline/internal/ports"
)

const systemPrompt = "You write one short, playful jab at someone who just " +
	"missed a self-imposed deadline. Reply with a JSON object: " +
	`{"text", "fontSize", "color": {"r","g","b"}, "x", "y", ` +
	`"shadow": {"color", "offsetX", "offsetY", "blur"}}. ` +
	"x and y are fractions in [0,1]. No other text."

// Config holds the taunt client settings.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Client calls the remote model for a taunt.
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient creates a taunt client.
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

// DefaultStyle is the taunt used whenever generation fails or is
// disabled.
func DefaultStyle() ports.TauntStyle {
	return ports.TauntStyle{
		Text:      "The deadline came and went. You did not.",
		FontSize:  24,
		Color:     ports.RGB{R: 224, G: 92, B: 92},
		PositionX: 0.5,
		PositionY: 0.8,
		Shadow: &ports.Shadow{
			OffsetX: 2,
			OffsetY: 2,
			Blur:    4,
		},
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

// Generate returns a taunt for the missed task. The default style comes
// back whenever the remote call cannot produce a usable one.
func (c *Client) Generate(ctx context.Context, taskLabel, taskDetail string) ports.TauntStyle {
	if c.cfg.APIKey == "" || c.cfg.BaseURL == "" {
		return DefaultStyle()
	}

	style, err := c.requestStyle(ctx, taskLabel, taskDetail)
	if err != nil || strings.TrimSpace(style.Text) == "" {
		return DefaultStyle()
	}
	return style
}

func (c *Client) requestStyle(ctx context.Context, taskLabel, taskDetail string) (ports.TauntStyle, error) {
	var zero ports.TauntStyle

	prompt := "Missed task: " + taskLabel
	if taskDetail != "" {
		prompt += "\n" + taskDetail
	}

	body, err := json.Marshal(chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return zero, fmt.Errorf("failed to encode request: %w", err)
	}

	url := strings.TrimSuffix(c.cfg.BaseURL, "/") + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return zero, fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return zero, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return zero, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return zero, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return zero, fmt.Errorf("response carried no choices")
	}

	var style ports.TauntStyle
	content := stripFence(parsed.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), &style); err != nil {
		return zero, fmt.Errorf("failed to parse taunt JSON: %w", err)
	}
	return style, nil
}

// stripFence removes a surrounding markdown code fence, which models add
// despite instructions.
func stripFence(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	return strings.TrimSpace(content)
}
