// Package metrics exposes Prometheus collectors for QR generation and
// export.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Recorder struct {
	registry    *prometheus.Registry
	generations *prometheus.CounterVec
	exports     *prometheus.CounterVec
	composeTime *prometheus.HistogramVec
}

// New registers the collectors on a fresh registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		generations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "qrforge_generations_total",
				Help: "QR generations by result.",
			},
			[]string{"result"},
		),
		exports: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "qrforge_exports_total",
				Help: "Exports by format and result.",
			},
			[]string{"format", "result"},
		),
		composeTime: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "qrforge_compose_seconds",
				Help:    "Time spent composing an export, by format.",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
			},
			[]string{"format"},
		),
	}
	r.registry.MustRegister(r.generations, r.exports, r.composeTime)
	return r
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// Generation counts one generate attempt. Safe on a nil Recorder.
func (r *Recorder) Generation(err error) {
	if r == nil {
		return
	}
	r.generations.WithLabelValues(result(err)).Inc()
}

// Export counts one export attempt and its compose time. Safe on a nil
// Recorder.
func (r *Recorder) Export(format string, took time.Duration, err error) {
	if r == nil {
		return
	}
	r.exports.WithLabelValues(format, result(err)).Inc()
	r.composeTime.WithLabelValues(format).Observe(took.Seconds())
}

// Registry returns the registry holding the collectors.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Handler serves the collectors in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
