package websocket

import "time"

// Recorder receives connection and frame events. metrics.WebSocketMetrics implements it.
type Recorder interface {
	ConnectionOpened()
	ConnectionClosed(lifetime time.Duration)
	ConnectionRejected(reason string)
	EventReceived(eventType string)
	EventRateLimited()
	MessageSent(messageType string, d time.Duration)
	IdleDisconnect()
}

type noopRecorder struct{}

func (noopRecorder) ConnectionOpened() {}
func (noopRecorder) ConnectionClosed(time.Duration) {}
func (noopRecorder) ConnectionRejected(string) {}
func (noopRecorder) EventReceived(string) {}
func (noopRecorder) EventRateLimited() {}
func (noopRecorder) MessageSent(string, time.Duration) {}
func (noopRecorder) IdleDisconnect() {}
