// Package metrics exposes the service's Prometheus metrics under the
// "galaxyometer" namespace.
package metrics

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/roshda/galaxy-o-meter/internal/platform/version"
)

const namespace = "galaxyometer"

// NewRegistry returns a private registry with runtime, process and build info
// collectors. Nothing is registered on the global default registry.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	info := version.Get()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "build_info",
			Help:        "Always 1, labelled with the running build.",
			ConstLabels: prometheus.Labels{"version": info.Version, "commit": info.Commit},
		}, func() float64 { return 1 }),
	)
	return reg
}

type promLogger struct{}

func (promLogger) Println(v ...any) {
	slog.Error("Metrics scrape failed", "error", v)
}

func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{
		ErrorLog:      promLogger{},
		ErrorHandling: promhttp.ContinueOnError,
	})
}
