// Package metrics records interaction lifecycle events and exposes them in
// Prometheus format. The session core emits events; everything here is
// derived, nothing feeds back into orchestration.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"baristasim/internal/logging"
)

// Recorder aggregates training-run metrics. It implements the session
// orchestrator's recorder boundary and additionally tracks the satisfaction
// meter as a gauge.
type Recorder struct {
	registry *prometheus.Registry

	interactionsTotal   *prometheus.CounterVec
	choicesTotal        prometheus.Counter
	interactionDuration prometheus.Histogram
	satisfactionGauge   prometheus.Gauge

	mu        sync.Mutex
	openSince time.Time
	open      bool
}

// NewRecorder creates a recorder with its own registry so test instances
// never collide on metric names.
func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()

	r := &Recorder{
		registry: registry,
		interactionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "baristasim_interactions_total",
				Help: "Customer interactions started, by seeded complaint type.",
			},
			[]string{"complaint_type"},
		),
		choicesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "baristasim_choices_total",
				Help: "Operator reply choices made across all sessions.",
			},
		),
		interactionDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "baristasim_interaction_duration_seconds",
				Help:    "Wall time from interaction start to end.",
				Buckets: prometheus.ExponentialBuckets(0.5, 2, 12),
			},
		),
		satisfactionGauge: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "baristasim_satisfaction",
				Help: "Current satisfaction meter value, 0 to 100.",
			},
		),
	}

	registry.MustRegister(
		r.interactionsTotal,
		r.choicesTotal,
		r.interactionDuration,
		r.satisfactionGauge,
	)
	return r
}

// Registry exposes the recorder's registry for the exposition server.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// StartInteraction marks a new customer interaction of the given type.
func (r *Recorder) StartInteraction(complaintType string) {
	if complaintType == "" {
		complaintType = "unknown"
	}
	r.mu.Lock()
	r.openSince = time.Now()
	r.open = true
	r.mu.Unlock()

	r.interactionsTotal.WithLabelValues(complaintType).Inc()
	logging.Metrics("interaction started: type=%s", complaintType)
}

// RecordChoice counts one operator reply choice.
func (r *Recorder) RecordChoice() {
	r.choicesTotal.Inc()
}

// EndInteraction closes the open interaction and observes its duration.
// A stray end with no matching start is ignored.
func (r *Recorder) EndInteraction() {
	r.mu.Lock()
	if !r.open {
		r.mu.Unlock()
		return
	}
	elapsed := time.Since(r.openSince)
	r.open = false
	r.mu.Unlock()

	r.interactionDuration.Observe(elapsed.Seconds())
	logging.Metrics("interaction ended after %s", elapsed.Round(time.Millisecond))
}

// SetSatisfaction publishes the current satisfaction meter value.
func (r *Recorder) SetSatisfaction(value int) {
	r.satisfactionGauge.Set(float64(value))
}
