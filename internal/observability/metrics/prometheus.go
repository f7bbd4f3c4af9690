// Package metrics provides Prometheus metrics for the simulation layer.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all application metrics
type Metrics struct {
	EventsEmitted     *prometheus.CounterVec
	StateChanges      prometheus.Counter
	ListenerFailures  prometheus.Counter
	FoldDuration      prometheus.Histogram
	ActiveRiskAlerts  prometheus.Gauge
	PendingActions    prometheus.Gauge
	ScenarioActive    prometheus.Gauge
	AssessmentsCached prometheus.Gauge
}

// New creates and registers all metrics
func New() *Metrics {
	m := &Metrics{
		EventsEmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pulse_events_emitted_total",
			Help: "Total domain events emitted, by type and severity",
		}, []string{"type", "severity"}),
		StateChanges: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pulse_state_changes_total",
			Help: "Total application state replacements",
		}),
		ListenerFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pulse_listener_failures_total",
			Help: "Total state listener failures (panics and open circuits)",
		}),
		FoldDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "pulse_event_fold_duration_seconds",
			Help:    "Event fold and fan-out duration",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .025, .05, .1},
		}),
		ActiveRiskAlerts: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pulse_active_risk_alerts",
			Help: "Unacknowledged risk alerts in the current state",
		}),
		PendingActions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pulse_pending_care_actions",
			Help: "Care actions with pending status",
		}),
		ScenarioActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pulse_scenario_active",
			Help: "Whether a demo scenario is running (0 or 1)",
		}),
		AssessmentsCached: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pulse_risk_assessments_cached",
			Help: "Risk assessments currently cached",
		}),
	}

	prometheus.MustRegister(
		m.EventsEmitted,
		m.StateChanges,
		m.ListenerFailures,
		m.FoldDuration,
		m.ActiveRiskAlerts,
		m.PendingActions,
		m.ScenarioActive,
		m.AssessmentsCached,
	)

	return m
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}
