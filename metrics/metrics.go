// Package metrics exposes Prometheus counters for frame production.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	framesComposedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pal625_frames_composed_total",
		Help: "Total frames composed",
	})

	samplesEmittedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pal625_samples_emitted_total",
		Help: "Total samples handed to sinks",
	})

	composeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pal625_compose_duration_seconds",
		Help:    "Time spent composing one frame",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12), // 0.5ms to ~1s
	})

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pal625_errors_total",
		Help: "Errors per pipeline stage",
	}, []string{"stage"})

	sourceChangesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pal625_source_changes_total",
		Help: "Times the raster source was switched",
	})

	frameLag = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pal625_frame_lag_seconds",
		Help: "How long the last frame waited for its pacing slot",
	})
)

// RecordFrame records a composed frame of n samples.
func RecordFrame(n int, took time.Duration) {
	framesComposedTotal.Inc()
	samplesEmittedTotal.Add(float64(n))
	composeDuration.Observe(took.Seconds())
}

// RecordError records a failure in stage.
func RecordError(stage string) {
	errorsTotal.WithLabelValues(stage).Inc()
}

// RecordSourceChange records a switch of raster source.
func RecordSourceChange() {
	sourceChangesTotal.Inc()
}

// SetFrameLag records the pacing wait of the last frame.
func SetFrameLag(d time.Duration) {
	frameLag.Set(d.Seconds())
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
