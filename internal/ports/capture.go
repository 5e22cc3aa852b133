package ports

import (
	"context"
	"time"
)

// RGB is a color in the taunt style contract.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Shadow is the optional drop shadow of a taunt overlay.
type Shadow struct {
	Color   RGB     `json:"color"`
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
	Blur    float64 `json:"blur"`
}

// TauntStyle is the full overlay description returned by the taunt
// generator: text plus placement, with Position expressed in [0,1]
// fractions of the card.
type TauntStyle struct {
	Text      string  `json:"text"`
	FontSize  float64 `json:"fontSize"`
	Color     RGB     `json:"color"`
	PositionX float64 `json:"x"`
	PositionY float64 `json:"y"`
	Shadow    *Shadow `json:"shadow,omitempty"`
}

// TauntGenerator produces the taunt overlay for a missed deadline.
// This is a driven port (implemented by adapters).
//
// Generate never returns an error: any remote or parse failure yields the
// fixed default style and text.
type TauntGenerator interface {
	Generate(ctx context.Context, taskLabel, taskDetail string) TauntStyle
}

// CaptureRequest carries the session context the shame card is built from.
type CaptureRequest struct {
	TaskLabel string
	OverdueBy time.Duration
	Taunt     TauntStyle
}

// Capture defines the interface for producing the penalty image.
// This is a driven port (implemented by adapters).
//
// Capture returns nil on any failure; the failure screen renders the same
// either way, so the caller treats nil as "no image", not as an error.
type Capture interface {
	Capture(ctx context.Context, req CaptureRequest) []byte
}

// Share publishes a captured image to the share surface. Fire-and-forget:
// when the primary handoff is unavailable the adapter falls back to a
// generic share action on its own.
type Share interface {
	Share(ctx context.Context, image []byte)
}
