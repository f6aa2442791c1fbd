package websocket

import (
	"sync"
	"time"

	ws "github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
)

const (
	writeDeadline     = 5 * time.Second
	pingInterval      = 30 * time.Second
	pongDeadline      = 60 * time.Second
	idleTimeout       = 5 * time.Minute
	messageBufferSize = 16
)

type outbound struct {
	kind string
	data []byte
}

// clientWriter owns every write to one connection: queued frames, keepalive pings
// and the idle cutoff.
type clientWriter struct {
	connection    *ws.Conn
	clock         clockwork.Clock
	recorder      Recorder
	sendChannel   chan outbound
	doneChannel   chan struct{}
	exited        chan struct{}
	stopOnce      sync.Once
	wg            sync.WaitGroup
	lastActivity  time.Time
	activityMutex sync.Mutex
}

func newClientWriter(connection *ws.Conn, clock clockwork.Clock, recorder Recorder) *clientWriter {
	cw := &clientWriter{
		connection:   connection,
		clock:        clock,
		recorder:     recorder,
		sendChannel:  make(chan outbound, messageBufferSize),
		doneChannel:  make(chan struct{}),
		exited:       make(chan struct{}),
		lastActivity: clock.Now(),
	}
	cw.configurePongHandler()
	cw.wg.Add(1)
	go cw.run()
	return cw
}

func (cw *clientWriter) run() {
	ticker := cw.clock.NewTicker(pingInterval)
	defer ticker.Stop()
	defer cw.wg.Done()
	defer close(cw.exited)

	for {
		select {
		case msg := <-cw.sendChannel:
			start := cw.clock.Now()
			cw.updateWriteDeadline()
			if err := cw.connection.WriteMessage(ws.TextMessage, msg.data); err != nil {
				return
			}
			cw.recorder.MessageSent(msg.kind, cw.clock.Since(start))
		case <-ticker.Chan():
			if cw.idle() {
				cw.recorder.IdleDisconnect()
				return
			}
			cw.updateWriteDeadline()
			if err := cw.connection.WriteMessage(ws.PingMessage, nil); err != nil {
				return
			}
		case <-cw.doneChannel:
			return
		}
	}
}

// send queues a frame. It reports false when the client is not keeping up or
// the writer has exited; the caller drops the connection.
func (cw *clientWriter) send(kind string, data []byte) bool {
	select {
	case <-cw.exited:
		return false
	default:
	}
	select {
	case cw.sendChannel <- outbound{kind: kind, data: data}:
		return true
	default:
		return false
	}
}

func (cw *clientWriter) stop() {
	cw.stopOnce.Do(func() {
		close(cw.doneChannel)
		_ = cw.connection.Close()
	})
	cw.wg.Wait()
}

// stopGraceful sends a close frame with reason before closing.
func (cw *clientWriter) stopGraceful(reason string) {
	cw.stopOnce.Do(func() {
		close(cw.doneChannel)

		// The run goroutine must exit before the close frame is written.
		cw.wg.Wait()

		closeMsg := ws.FormatCloseMessage(ws.CloseNormalClosure, reason)
		cw.updateWriteDeadline()
		_ = cw.connection.WriteMessage(ws.CloseMessage, closeMsg)
		_ = cw.connection.Close()
	})
	cw.wg.Wait()
}

func (cw *clientWriter) configurePongHandler() {
	cw.updateReadDeadline()
	cw.connection.SetPongHandler(func(string) error {
		cw.updateReadDeadline()
		cw.recordActivity()
		return nil
	})
}

func (cw *clientWriter) updateWriteDeadline() {
	_ = cw.connection.SetWriteDeadline(cw.clock.Now().Add(writeDeadline))
}

func (cw *clientWriter) updateReadDeadline() {
	_ = cw.connection.SetReadDeadline(cw.clock.Now().Add(pongDeadline))
}

// recordActivity marks the client as alive: pongs and pointer events both count.
func (cw *clientWriter) recordActivity() {
	cw.activityMutex.Lock()
	defer cw.activityMutex.Unlock()
	cw.lastActivity = cw.clock.Now()
}

func (cw *clientWriter) idle() bool {
	cw.activityMutex.Lock()
	defer cw.activityMutex.Unlock()
	return cw.clock.Since(cw.lastActivity) >= idleTimeout
}
