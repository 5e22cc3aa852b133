package taunt

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xvierd/dreadline/internal/ports"
)

func completionServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": content}},
			},
		})
	}))
}

func newTestClient(baseURL string) *Client {
	return NewClient(Config{BaseURL: baseURL, APIKey: "test-key", Model: "gpt-4o-mini"})
}

func TestGenerateParsesStyledTaunt(t *testing.T) {
	srv := completionServer(t, `{"text":"Bold of you to schedule that.",`+
		`"fontSize":28,"color":{"r":255,"g":80,"b":80},"x":0.5,"y":0.75,`+
		`"shadow":{"color":{"r":0,"g":0,"b":0},"offsetX":1,"offsetY":1,"blur":2}}`)
	defer srv.Close()

	style := newTestClient(srv.URL).Generate(context.Background(), "ship the release", "")

	assert.Equal(t, "Bold of you to schedule that.", style.Text)
	assert.Equal(t, 28.0, style.FontSize)
	assert.Equal(t, ports.RGB{R: 255, G: 80, B: 80}, style.Color)
	assert.Equal(t, 0.5, style.PositionX)
	assert.Equal(t, 0.75, style.PositionY)
	require.NotNil(t, style.Shadow)
	assert.Equal(t, 2.0, style.Shadow.Blur)
}

func TestGenerateStripsCodeFence(t *testing.T) {
	srv := completionServer(t, "```json\n{\"text\":\"Tick tock.\",\"fontSize\":24}\n```")
	defer srv.Close()

	style := newTestClient(srv.URL).Generate(context.Background(), "task", "")
	assert.Equal(t, "Tick tock.", style.Text)
}

func TestGenerateFallsBackOnBadJSON(t *testing.T) {
	srv := completionServer(t, "ha ha you missed it")
	defer srv.Close()

	style := newTestClient(srv.URL).Generate(context.Background(), "task", "")
	assert.Equal(t, DefaultStyle(), style)
}

func TestGenerateFallsBackOnEmptyText(t *testing.T) {
	srv := completionServer(t, `{"text":"  ","fontSize":24}`)
	defer srv.Close()

	style := newTestClient(srv.URL).Generate(context.Background(), "task", "")
	assert.Equal(t, DefaultStyle(), style)
}

func TestGenerateFallsBackOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	style := newTestClient(srv.URL).Generate(context.Background(), "task", "")
	assert.Equal(t, DefaultStyle(), style)
}

func TestGenerateWithoutKeyUsesDefault(t *testing.T) {
	client := NewClient(Config{})
	style := client.Generate(context.Background(), "task", "")

	assert.Equal(t, DefaultStyle(), style)
	assert.NotEmpty(t, style.Text)
}

func TestStripFence(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{"  {\"a\":1}  ", `{"a":1}`},
	}
	for _, tc := range cases {
		if got := stripFence(tc.in); got != tc.want {
			t.Errorf("stripFence(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
