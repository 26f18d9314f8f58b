// Package dialogmetrics provides a Prometheus-backed dialogs.Recorder
// using the promauto registration pattern.
package dialogmetrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements dialogs.Recorder by registering and updating a
// small set of Prometheus collectors scoped to one namespace/subsystem.
type Recorder struct {
	turnsTotal      *prometheus.CounterVec
	turnDuration    *prometheus.HistogramVec
	fallbacksTotal  *prometheus.CounterVec
}

// New registers the recorder's collectors against reg (pass
// prometheus.DefaultRegisterer for the global registry) under
// namespace "dialogs".
func New(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		turnsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dialogs",
			Name:      "turns_total",
			Help:      "Total number of dialog turns processed, by dialog and outcome.",
		}, []string{"dialog", "outcome"}),
		turnDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "dialogs",
			Name:      "turn_duration_seconds",
			Help:      "Time spent executing a single dialog turn.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"dialog"}),
		fallbacksTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dialogs",
			Name:      "fallbacks_total",
			Help:      "Total number of times a dialog entered its fallback path.",
		}, []string{"dialog"}),
	}
}

// ObserveTurn implements dialogs.Recorder.
func (r *Recorder) ObserveTurn(dialogName string, done bool, dur time.Duration) {
	outcome := "suspended"
	if done {
		outcome = "done"
	}
	r.turnsTotal.WithLabelValues(dialogName, outcome).Inc()
	r.turnDuration.WithLabelValues(dialogName).Observe(dur.Seconds())
}

// ObserveFallback implements dialogs.Recorder.
func (r *Recorder) ObserveFallback(dialogName string) {
	r.fallbacksTotal.WithLabelValues(dialogName).Inc()
}
