package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	ws "github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/roshda/galaxy-o-meter/internal/app"
	"golang.org/x/time/rate"
)

// session is one viewer's live page. The run loop is the only goroutine that
// touches the controller.
type session struct {
	conn       *ws.Conn
	writer     *clientWriter
	controller *app.Controller
	presenter  *app.Presenter
	catalog    catalogSource
	limiter    *rate.Limiter
	clock      clockwork.Clock
	recorder   Recorder

	incoming chan []byte
	done     chan struct{}
}

func (s *session) run(ctx context.Context) {
	start := s.clock.Now()
	s.recorder.ConnectionOpened()
	defer func() { s.recorder.ConnectionClosed(s.clock.Since(start)) }()

	readerDone := make(chan struct{})
	go s.readLoop(readerDone)
	defer func() {
		close(s.done)
		s.writer.stop()
		<-readerDone
		slog.DebugContext(ctx, "Viewer disconnected", "duration", s.clock.Since(start))
	}()

	ready := s.catalog.Ready()
	if _, ok := s.catalog.Catalog(); ok {
		ready = nil
	}
	if !s.sendView(ctx) {
		return
	}

	for {
		select {
		case <-ctx.Done():
			s.writer.stopGraceful("server shutting down")
			return
		case <-s.writer.exited:
			return
		case <-ready:
			ready = nil
			if !s.sendView(ctx) {
				return
			}
		case data, ok := <-s.incoming:
			if !ok {
				return
			}
			s.writer.recordActivity()
			if !s.handle(ctx, data) {
				return
			}
		}
	}
}

func (s *session) readLoop(done chan<- struct{}) {
	defer close(done)
	defer close(s.incoming)

	s.conn.SetReadLimit(maxEventBytes)
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			return
		}
		select {
		case s.incoming <- data:
		case <-s.done:
			return
		}
	}
}

// handle applies one client event. It returns false when the connection should close.
func (s *session) handle(ctx context.Context, data []byte) bool {
	var ev clientEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		s.recorder.EventReceived("malformed")
		return s.sendError(ctx, "malformed event")
	}
	s.recorder.EventReceived(eventLabel(ev.Type))

	switch ev.Type {
	case eventEnter:
		return s.handleEnter(ctx, ev)
	case eventLeave:
		if s.controller.Leave(ev.ref()) {
			return s.sendTooltip(ctx)
		}
		return true
	case eventToggle:
		if ev.Neutral != nil {
			s.controller.SetNeutralVisible(*ev.Neutral)
		} else {
			s.controller.ToggleNeutral()
		}
		return s.sendView(ctx)
	default:
		return s.sendError(ctx, fmt.Sprintf("unknown event type %q", ev.Type))
	}
}

func (s *session) handleEnter(ctx context.Context, ev clientEvent) bool {
	if !s.limiter.AllowN(s.clock.Now(), 1) {
		s.recorder.EventRateLimited()
		return true
	}

	cat, _ := s.catalog.Catalog()
	ref := ev.ref()
	text, err := s.presenter.TooltipFor(cat, ref, s.controller.NeutralVisible())
	if err != nil {
		slog.DebugContext(ctx, "Rejected enter event", "entity", ref.Entity, "category", ref.Category, "error", err)
		return s.sendError(ctx, err.Error())
	}

	s.controller.Enter(ref, text, ev.X, ev.Y)
	return s.sendTooltip(ctx)
}

func (s *session) sendView(ctx context.Context) bool {
	cat, _ := s.catalog.Catalog()
	view := s.presenter.Build(cat, s.catalog.State(), s.controller.State())
	return s.send(ctx, frameView, viewFrame{Type: frameView, PageView: view})
}

func (s *session) sendTooltip(ctx context.Context) bool {
	state := s.controller.State()
	return s.send(ctx, frameTooltip, tooltipFrame{Type: frameTooltip, Tooltip: s.presenter.BuildTooltip(state.Tooltip)})
}

func (s *session) sendError(ctx context.Context, message string) bool {
	return s.send(ctx, frameError, errorFrame{Type: frameError, Error: message})
}

func (s *session) send(ctx context.Context, kind string, frame any) bool {
	data, err := json.Marshal(frame)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to encode frame", "type", kind, "error", err)
		return false
	}
	if !s.writer.send(kind, data) {
		slog.WarnContext(ctx, "Viewer not keeping up, closing connection", "type", kind)
		return false
	}
	return true
}
