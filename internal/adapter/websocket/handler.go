package websocket

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/google/uuid"
	ws "github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/roshda/galaxy-o-meter/internal/app"
	"github.com/roshda/galaxy-o-meter/internal/domain"
	"github.com/roshda/galaxy-o-meter/internal/platform/correlation"
	"golang.org/x/time/rate"
)

type catalogSource interface {
	Catalog() (*domain.Catalog, bool)
	State() domain.LoadState
	Ready() <-chan struct{}
}

type preferences interface {
	NeutralVisible(r *http.Request) bool
}

// Config holds the live view transport settings.
type Config struct {
	AppURL         string
	IsDevelopment  bool
	EnterRate      float64
	EnterBurst     int
	MaxConnections int64
	MaxPerIP       int
}

// Handler upgrades viewers to the live view websocket. Each connection gets its
// own controller; nothing is shared between viewers except the read-only catalog.
type Handler struct {
	upgrader    ws.Upgrader
	catalog     catalogSource
	presenter   *app.Presenter
	preferences preferences
	limits      *ConnectionLimits
	clock       clockwork.Clock
	recorder    Recorder
	enterRate   rate.Limit
	enterBurst  int

	ctx    context.Context
	cancel context.CancelFunc
	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

type HandlerOption func(*Handler)

func WithRecorder(r Recorder) HandlerOption {
	return func(h *Handler) { h.recorder = r }
}

func WithClock(c clockwork.Clock) HandlerOption {
	return func(h *Handler) { h.clock = c }
}

func NewHandler(cfg Config, catalog catalogSource, presenter *app.Presenter, prefs preferences, opts ...HandlerOption) *Handler {
	ctx, cancel := context.WithCancel(context.Background())
	h := &Handler{
		upgrader: ws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     NewCheckOrigin(cfg.AppURL, cfg.IsDevelopment),
		},
		catalog:     catalog,
		presenter:   presenter,
		preferences: prefs,
		clock:       clockwork.NewRealClock(),
		recorder:    noopRecorder{},
		enterRate:   rate.Limit(cfg.EnterRate),
		enterBurst:  cfg.EnterBurst,
		ctx:         ctx,
		cancel:      cancel,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.limits = NewConnectionLimits(cfg.MaxConnections, cfg.MaxPerIP, h.clock)
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ip := clientIP(r)
	if ok, reason := h.limits.Acquire(ip); !ok {
		h.recorder.ConnectionRejected(string(reason))
		slog.WarnContext(r.Context(), "WebSocket connection rejected", "reason", reason, "remote_ip", ip)
		http.Error(w, "too many connections", http.StatusTooManyRequests)
		return
	}
	defer h.limits.Release(ip)

	if !h.track() {
		h.recorder.ConnectionRejected("shutting_down")
		http.Error(w, "server shutting down", http.StatusServiceUnavailable)
		return
	}
	defer h.wg.Done()

	// The toggle cookie must be read before the connection is hijacked.
	neutralVisible := h.preferences.NeutralVisible(r)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.recorder.ConnectionRejected("upgrade_failed")
		slog.DebugContext(r.Context(), "WebSocket upgrade failed", "error", err)
		return
	}

	controller := app.NewController()
	controller.SetNeutralVisible(neutralVisible)

	s := &session{
		conn:       conn,
		writer:     newClientWriter(conn, h.clock, h.recorder),
		controller: controller,
		presenter:  h.presenter,
		catalog:    h.catalog,
		limiter:    rate.NewLimiter(h.enterRate, h.enterBurst),
		clock:      h.clock,
		recorder:   h.recorder,
		incoming:   make(chan []byte),
		done:       make(chan struct{}),
	}

	ctx := correlation.WithID(h.ctx, uuid.NewString())
	slog.DebugContext(ctx, "Viewer connected", "remote_ip", ip)
	s.run(ctx)
}

func (h *Handler) track() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.wg.Add(1)
	return true
}

// Shutdown closes every live connection with a close frame and waits for the
// sessions to finish. New connections are refused afterwards.
func (h *Handler) Shutdown() {
	h.mu.Lock()
	h.closed = true
	h.mu.Unlock()

	h.cancel()
	h.wg.Wait()
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
