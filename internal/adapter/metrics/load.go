package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/roshda/galaxy-o-meter/internal/domain"
)

// LoadMetrics records the outcome of the one-shot sentiment data read.
type LoadMetrics struct {
	Loads        *prometheus.CounterVec
	LoadDuration prometheus.Histogram
	Entities     prometheus.Gauge
	State        *prometheus.GaugeVec
}

// NewLoadMetrics creates and registers catalog load metrics on the given registry.
func NewLoadMetrics(reg prometheus.Registerer) *LoadMetrics {
	m := &LoadMetrics{
		Loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "loads_total",
			Help:      "Total number of sentiment data loads, by result.",
		}, []string{"result"}),
		LoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "load_duration_seconds",
			Help:      "Time taken to fetch and decode the sentiment data.",
			Buckets:   prometheus.DefBuckets,
		}),
		Entities: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "entities",
			Help:      "Number of entities in the loaded catalog.",
		}),
		State: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "state",
			Help:      "Current catalog load state (1 for the active state).",
		}, []string{"state"}),
	}

	reg.MustRegister(m.Loads, m.LoadDuration, m.Entities, m.State)
	return m
}

// ObserveLoad implements app.LoadRecorder.
func (m *LoadMetrics) ObserveLoad(state domain.LoadState, entities int, duration time.Duration) {
	m.Loads.WithLabelValues(state.String()).Inc()
	m.LoadDuration.Observe(duration.Seconds())
	m.Entities.Set(float64(entities))

	for _, s := range []domain.LoadState{domain.LoadIdle, domain.LoadLoading, domain.LoadLoaded, domain.LoadFailed} {
		v := 0.0
		if s == state {
			v = 1
		}
		m.State.WithLabelValues(s.String()).Set(v)
	}
}
