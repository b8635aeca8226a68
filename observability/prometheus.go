package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "statetree"

// PrometheusObserver counts events by type, source and severity.
type PrometheusObserver struct {
	events *prometheus.CounterVec
	last   *prometheus.GaugeVec
}

// NewPrometheusObserver creates the collectors and registers them with reg.
// Registering twice on the same registerer panics, as with promauto.
func NewPrometheusObserver(reg prometheus.Registerer) *PrometheusObserver {
	o := &PrometheusObserver{
		events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "events_total",
				Help:      "Events emitted by state tree components",
			},
			[]string{"type", "source", "severity"},
		),
		last: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Name:      "last_event_timestamp_seconds",
				Help:      "Unix time of the most recent event by type",
			},
			[]string{"type"},
		),
	}

	if reg != nil {
		reg.MustRegister(o.events, o.last)
	}
	return o
}

func (o *PrometheusObserver) OnEvent(ctx context.Context, event Event) {
	o.events.WithLabelValues(string(event.Type), event.Source, event.Level.String()).Inc()
	if !event.Timestamp.IsZero() {
		o.last.WithLabelValues(string(event.Type)).Set(float64(event.Timestamp.UnixNano()) / 1e9)
	}
}

// Events exposes the event counter, mainly for tests.
func (o *PrometheusObserver) Events() *prometheus.CounterVec {
	return o.events
}
