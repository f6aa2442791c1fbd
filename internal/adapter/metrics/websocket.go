package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// WebSocketMetrics holds Prometheus metrics for live viewer connections.
type WebSocketMetrics struct {
	ActiveConnections   prometheus.Gauge
	ConnectionsRejected *prometheus.CounterVec
	ConnectionDuration  prometheus.Histogram
	EventsReceived      *prometheus.CounterVec
	EventsRateLimited   prometheus.Counter
	MessagesSent        *prometheus.CounterVec
	MessageSendDuration prometheus.Histogram
	IdleDisconnects     prometheus.Counter
}

// NewWebSocketMetrics creates and registers WebSocket metrics on the given registry.
func NewWebSocketMetrics(reg prometheus.Registerer) *WebSocketMetrics {
	m := &WebSocketMetrics{
		ActiveConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "websocket",
			Name:      "active_connections",
			Help:      "Number of active WebSocket connections.",
		}),
		ConnectionsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "websocket",
			Name:      "connections_rejected_total",
			Help:      "Total number of rejected WebSocket connections, by reason.",
		}, []string{"reason"}),
		ConnectionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "websocket",
			Name:      "connection_duration_seconds",
			Help:      "Lifetime of WebSocket connections in seconds.",
			Buckets:   []float64{1, 10, 60, 300, 900, 3600},
		}),
		EventsReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "websocket",
			Name:      "events_received_total",
			Help:      "Total number of pointer and toggle events received, by type.",
		}, []string{"type"}),
		EventsRateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "websocket",
			Name:      "events_rate_limited_total",
			Help:      "Total number of enter events dropped by the per-connection rate limit.",
		}),
		MessagesSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "websocket",
			Name:      "messages_sent_total",
			Help:      "Total number of WebSocket messages sent, by type.",
		}, []string{"type"}),
		MessageSendDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "websocket",
			Name:      "message_send_duration_seconds",
			Help:      "Time spent writing a single WebSocket message.",
			Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
		}),
		IdleDisconnects: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "websocket",
			Name:      "idle_disconnects_total",
			Help:      "Total number of connections closed for inactivity.",
		}),
	}

	reg.MustRegister(
		m.ActiveConnections,
		m.ConnectionsRejected,
		m.ConnectionDuration,
		m.EventsReceived,
		m.EventsRateLimited,
		m.MessagesSent,
		m.MessageSendDuration,
		m.IdleDisconnects,
	)
	return m
}

func (m *WebSocketMetrics) ConnectionOpened() {
	m.ActiveConnections.Inc()
}

func (m *WebSocketMetrics) ConnectionClosed(lifetime time.Duration) {
	m.ActiveConnections.Dec()
	m.ConnectionDuration.Observe(lifetime.Seconds())
}

func (m *WebSocketMetrics) ConnectionRejected(reason string) {
	m.ConnectionsRejected.WithLabelValues(reason).Inc()
}

func (m *WebSocketMetrics) EventReceived(eventType string) {
	m.EventsReceived.WithLabelValues(eventType).Inc()
}

func (m *WebSocketMetrics) EventRateLimited() {
	m.EventsRateLimited.Inc()
}

func (m *WebSocketMetrics) MessageSent(messageType string, d time.Duration) {
	m.MessagesSent.WithLabelValues(messageType).Inc()
	m.MessageSendDuration.Observe(d.Seconds())
}

func (m *WebSocketMetrics) IdleDisconnect() {
	m.IdleDisconnects.Inc()
}
