package websocket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	ws "github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRecorder struct {
	mu          sync.Mutex
	opened      int
	closed      int
	rejected    map[string]int
	events      map[string]int
	rateLimited int
	sent        map[string]int
	idle        int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{
		rejected: make(map[string]int),
		events:   make(map[string]int),
		sent:     make(map[string]int),
	}
}

func (r *countingRecorder) ConnectionOpened() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.opened++
}

func (r *countingRecorder) ConnectionClosed(time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed++
}

func (r *countingRecorder) ConnectionRejected(reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rejected[reason]++
}

func (r *countingRecorder) EventReceived(eventType string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events[eventType]++
}

func (r *countingRecorder) EventRateLimited() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rateLimited++
}

func (r *countingRecorder) MessageSent(messageType string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent[messageType]++
}

func (r *countingRecorder) IdleDisconnect() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.idle++
}

func (r *countingRecorder) snapshot(f func(r *countingRecorder) int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return f(r)
}

func newTestConnPair(t *testing.T) (server *ws.Conn, client *ws.Conn) {
	t.Helper()
	upgrader := ws.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	ready := make(chan *ws.Conn, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		ready <- conn
	}))
	t.Cleanup(func() { srv.Close() })

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	clientConn, _, err := ws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { clientConn.Close() })

	serverConn := <-ready
	t.Cleanup(func() { serverConn.Close() })

	return serverConn, clientConn
}

// newFakeClock starts at the real time so connection deadlines derived from it are valid.
func newFakeClock() *clockwork.FakeClock {
	return clockwork.NewFakeClockAt(time.Now())
}

func TestClientWriter_SendDeliversFrame(t *testing.T) {
	server, client := newTestConnPair(t)
	rec := newCountingRecorder()

	cw := newClientWriter(server, newFakeClock(), rec)
	t.Cleanup(cw.stop)

	require.True(t, cw.send(frameView, []byte(`{"type":"view"}`)))

	require.NoError(t, client.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := client.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"view"}`, string(data))
	assert.Eventually(t, func() bool {
		return rec.snapshot(func(r *countingRecorder) int { return r.sent[frameView] }) == 1
	}, time.Second, 10*time.Millisecond)
}

func TestClientWriter_IdleTimeout(t *testing.T) {
	clock := newFakeClock()
	server, _ := newTestConnPair(t)

	cw := newClientWriter(server, clock, noopRecorder{})
	t.Cleanup(cw.stop)

	assert.False(t, cw.idle())

	clock.Advance(idleTimeout - time.Second)
	assert.False(t, cw.idle())

	clock.Advance(time.Second)
	assert.True(t, cw.idle())
}

func TestClientWriter_ActivityResetsIdleTimer(t *testing.T) {
	clock := newFakeClock()
	server, _ := newTestConnPair(t)

	cw := newClientWriter(server, clock, noopRecorder{})
	t.Cleanup(cw.stop)

	clock.Advance(3 * time.Minute)
	cw.recordActivity()
	clock.Advance(3 * time.Minute)

	assert.False(t, cw.idle(), "activity should reset the idle timer")

	clock.Advance(3 * time.Minute)
	assert.True(t, cw.idle())
}

func TestClientWriter_PingOnTick(t *testing.T) {
	clock := newFakeClock()
	server, client := newTestConnPair(t)

	pinged := make(chan struct{}, 1)
	client.SetPingHandler(func(string) error {
		select {
		case pinged <- struct{}{}:
		default:
		}
		return nil
	})
	go func() {
		for {
			if _, _, err := client.ReadMessage(); err != nil {
				return
			}
		}
	}()

	cw := newClientWriter(server, clock, noopRecorder{})
	t.Cleanup(cw.stop)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(pingInterval)

	select {
	case <-pinged:
	case <-time.After(2 * time.Second):
		t.Fatal("expected a ping after the ping interval")
	}
}

func TestClientWriter_IdleDisconnectOnTick(t *testing.T) {
	clock := newFakeClock()
	server, _ := newTestConnPair(t)
	rec := newCountingRecorder()

	cw := newClientWriter(server, clock, rec)
	t.Cleanup(cw.stop)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(idleTimeout)

	select {
	case <-cw.exited:
	case <-time.After(2 * time.Second):
		t.Fatal("writer should exit after the idle timeout")
	}
	assert.Equal(t, 1, rec.snapshot(func(r *countingRecorder) int { return r.idle }))
	assert.False(t, cw.send(frameView, []byte(`{}`)), "send after exit must fail")
}

func TestClientWriter_SendFullBuffer(t *testing.T) {
	server, _ := newTestConnPair(t)

	cw := &clientWriter{
		connection:  server,
		clock:       newFakeClock(),
		recorder:    noopRecorder{},
		sendChannel: make(chan outbound, 1),
		doneChannel: make(chan struct{}),
		exited:      make(chan struct{}),
	}

	assert.True(t, cw.send(frameView, []byte(`{}`)))
	assert.False(t, cw.send(frameView, []byte(`{}`)), "a full buffer means the client is not keeping up")
}

func TestClientWriter_GracefulStop(t *testing.T) {
	server, client := newTestConnPair(t)

	cw := newClientWriter(server, newFakeClock(), noopRecorder{})
	cw.stopGraceful("server shutting down")

	require.NoError(t, client.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := client.ReadMessage()
	require.Error(t, err)

	var closeErr *ws.CloseError
	require.ErrorAs(t, err, &closeErr)
	assert.Equal(t, ws.CloseNormalClosure, closeErr.Code)
	assert.Equal(t, "server shutting down", closeErr.Text)
}

func TestClientWriter_StopIdempotent(t *testing.T) {
	server, _ := newTestConnPair(t)

	cw := newClientWriter(server, newFakeClock(), noopRecorder{})

	assert.NotPanics(t, func() {
		cw.stop()
		cw.stop()
		cw.stopGraceful("again")
	})
}

func TestClientWriter_ConcurrentStop(t *testing.T) {
	server, _ := newTestConnPair(t)

	cw := newClientWriter(server, newFakeClock(), noopRecorder{})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cw.stop()
		}()
	}
	wg.Wait()

	select {
	case <-cw.exited:
	default:
		t.Fatal("writer goroutine should have exited")
	}
}
