package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	apperrors "github.com/roshda/galaxy-o-meter/internal/platform/errors"
)

// ErrorMetrics counts HTTP errors by structured error type.
type ErrorMetrics struct {
	HTTPErrors *prometheus.CounterVec
}

// NewErrorMetrics creates and registers error metrics on the given registry.
func NewErrorMetrics(reg prometheus.Registerer) *ErrorMetrics {
	m := &ErrorMetrics{
		HTTPErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "errors_total",
			Help:      "Total HTTP errors by error type.",
		}, []string{"type"}),
	}

	reg.MustRegister(m.HTTPErrors)
	return m
}

// RecordError implements errors.Recorder.
func (m *ErrorMetrics) RecordError(t apperrors.ErrorType) {
	m.HTTPErrors.WithLabelValues(string(t)).Inc()
}
