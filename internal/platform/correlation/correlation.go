// Package correlation tags a request, a websocket session or the catalog load
// with a short id and adds it to every log line written with that context.
package correlation

import (
	"context"
	"encoding/hex"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
)

// Header lets a caller (a proxy, a load balancer) supply its own id.
const Header = "X-Correlation-ID"

// AttrKey is the log attribute carrying the id.
const AttrKey = "correlation_id"

const maxIDLength = 64

type idKey struct{}

// NewID returns 8 hex characters taken from a random UUID.
func NewID() string {
	u := uuid.New()
	return hex.EncodeToString(u[:4])
}

func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, idKey{}, id)
}

func ID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(idKey{}).(string)
	return id, ok && id != ""
}

// FromHeader returns the caller's id when it is short and printable, or a new one.
func FromHeader(h http.Header) string {
	if id := h.Get(Header); usable(id) {
		return id
	}
	return NewID()
}

func usable(id string) bool {
	if id == "" || len(id) > maxIDLength {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-' || r == '_' || r == '.':
		default:
			return false
		}
	}
	return true
}

// Handler is a slog.Handler that adds AttrKey from the record's context.
type Handler struct {
	next slog.Handler
}

func NewHandler(next slog.Handler) *Handler {
	return &Handler{next: next}
}

func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	id, ok := ID(ctx)
	if !ok {
		return h.next.Handle(ctx, r)
	}
	r = r.Clone()
	r.AddAttrs(slog.String(AttrKey, id))
	return h.next.Handle(ctx, r)
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return NewHandler(h.next.WithAttrs(attrs))
}

func (h *Handler) WithGroup(name string) slog.Handler {
	return NewHandler(h.next.WithGroup(name))
}
