package correlation

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewID(t *testing.T) {
	a, b := NewID(), NewID()

	assert.Len(t, a, 8)
	assert.NotEqual(t, a, b)
}

func TestID_RoundTrip(t *testing.T) {
	_, ok := ID(context.Background())
	assert.False(t, ok)

	_, ok = ID(WithID(context.Background(), ""))
	assert.False(t, ok, "empty id counts as missing")

	id, ok := ID(WithID(context.Background(), "abc123"))
	require.True(t, ok)
	assert.Equal(t, "abc123", id)
}

func TestFromHeader(t *testing.T) {
	tests := []struct {
		name   string
		value  string
		reused bool
	}{
		{"missing", "", false},
		{"proxy id", "req-42_a.b", true},
		{"too long", strings.Repeat("a", 65), false},
		{"spaces", "two words", false},
		{"log injection", "x\nlevel=ERROR", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			if tt.value != "" {
				h.Set(Header, tt.value)
			}

			id := FromHeader(h)

			if tt.reused {
				assert.Equal(t, tt.value, id)
			} else {
				assert.Len(t, id, 8)
			}
		})
	}
}

func logLine(t *testing.T, ctx context.Context, build func(slog.Handler) *slog.Logger) map[string]any {
	t.Helper()
	var buf bytes.Buffer
	logger := build(NewHandler(slog.NewJSONHandler(&buf, nil)))
	logger.InfoContext(ctx, "Sentiment data loaded", "entities", 3)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	return line
}

func TestHandler_AddsID(t *testing.T) {
	line := logLine(t, WithID(context.Background(), "feedbeef"), slog.New)

	assert.Equal(t, "feedbeef", line[AttrKey])
	assert.Equal(t, float64(3), line["entities"])
}

func TestHandler_NoIDInContext(t *testing.T) {
	line := logLine(t, context.Background(), slog.New)

	assert.NotContains(t, line, AttrKey)
}

func TestHandler_KeepsAttrsAndGroups(t *testing.T) {
	ctx := WithID(context.Background(), "feedbeef")

	line := logLine(t, ctx, func(h slog.Handler) *slog.Logger {
		return slog.New(h).With("component", "loader")
	})
	assert.Equal(t, "loader", line["component"])
	assert.Equal(t, "feedbeef", line[AttrKey])

	line = logLine(t, ctx, func(h slog.Handler) *slog.Logger {
		return slog.New(h).WithGroup("catalog")
	})
	group, ok := line["catalog"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "feedbeef", group[AttrKey])
}

func TestHandler_Enabled(t *testing.T) {
	h := NewHandler(slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelWarn}))

	assert.False(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, h.Enabled(context.Background(), slog.LevelError))
}
