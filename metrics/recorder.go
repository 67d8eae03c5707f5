// Package metrics adapts pool events onto Prometheus collectors.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	pool "github.com/posidoni/resource-pool"
)

// Recorder is an EventListener that exports pool activity as Prometheus
// metrics. Register it with pool.WithEventListener(recorder).
type Recorder struct {
	namespace string

	eventsTotal    *prometheus.CounterVec
	createDuration prometheus.Histogram
	createErrors   prometheus.Counter
	destroysTotal  prometheus.Counter
	serveErrors    *prometheus.CounterVec

	createStarted map[string]time.Time
}

// NewRecorder builds and registers a Recorder's collectors under namespace
// with promauto, the pattern every Prometheus consumer in the retrieval
// pack uses for registration.
func NewRecorder(namespace string) *Recorder {
	return &Recorder{
		namespace: namespace,
		eventsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "pool_events_total",
				Help:      "Total number of pool events by name.",
			},
			[]string{"event"},
		),
		createDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "pool_resource_create_duration_seconds",
				Help:      "Time from commissioning a resource create to its outcome.",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
			},
		),
		createErrors: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "pool_resource_create_errors_total",
				Help:      "Total number of failed factory Create calls.",
			},
		),
		destroysTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "pool_resource_destroys_total",
				Help:      "Total number of resources destroyed.",
			},
		),
		serveErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "pool_serve_errors_total",
				Help:      "Total number of requests that completed with an error, by code.",
			},
			[]string{"code"},
		),
		createStarted: make(map[string]time.Time),
	}
}

// OnEvent implements pool.EventListener. It must not block or panic; the
// pool recovers panics from listeners but a recorder that panics still
// loses the event.
func (r *Recorder) OnEvent(e pool.Event) {
	r.eventsTotal.WithLabelValues(string(e.Name)).Inc()

	switch e.Name {
	case "createSuccess", "createError":
		if started, ok := r.createStarted[e.ResourceID]; ok {
			r.createDuration.Observe(e.At.Sub(started).Seconds())
			delete(r.createStarted, e.ResourceID)
		}
		if e.Name == "createError" {
			r.createErrors.Inc()
		}
	case "destroy":
		r.destroysTotal.Inc()
	case "serveError":
		code := "UNKNOWN"
		var perr *pool.PoolError
		if ok := asPoolError(e.Err, &perr); ok {
			code = string(perr.Code)
		}
		r.serveErrors.WithLabelValues(code).Inc()
	}
}

// MarkCreateStart records when a create was commissioned, so the next
// createSuccess/createError event for the same resource id can report a
// duration. Call it from a pool.EventListener wired alongside the Recorder,
// or omit it: OnEvent degrades gracefully (no duration observed) without it.
func (r *Recorder) MarkCreateStart(resourceID string, at time.Time) {
	r.createStarted[resourceID] = at
}

func asPoolError(err error, out **pool.PoolError) bool {
	pe, ok := err.(*pool.PoolError)
	if !ok {
		return false
	}
	*out = pe
	return true
}
