// Package metrics provides Prometheus metrics for the update checker.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels.
const (
	OutcomeSuccess         = "success"
	OutcomeNetworkFailure  = "network_failure"
	OutcomeDecodeFailure   = "decode_failure"
	OutcomeUpdateAvailable = "update_available"
	OutcomeNoUpdate        = "no_update"
	OutcomeCheckFailed     = "check_failed"
	OutcomeSkipped         = "skipped"
	OutcomeFailure         = "failure"
)

// Metrics holds all Prometheus collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registry *prometheus.Registry

	FetchTotal         *prometheus.CounterVec
	FetchDuration      prometheus.Histogram
	TriggersTotal      *prometheus.CounterVec
	NotificationsTotal *prometheus.CounterVec
	JobRegistered      prometheus.Gauge
	JobInterval        prometheus.Gauge
}

// New creates and registers all collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		FetchTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ffupdater_fetch_total",
				Help: "Total number of version document fetches",
			},
			[]string{"outcome"},
		),
		FetchDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "ffupdater_fetch_duration_seconds",
				Help:    "Duration of version document fetches in seconds",
				Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
		),
		TriggersTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ffupdater_triggers_total",
				Help: "Total number of update check firings",
			},
			[]string{"outcome"},
		),
		NotificationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ffupdater_notifications_total",
				Help: "Total number of update notifications sent",
			},
			[]string{"outcome"},
		),
		JobRegistered: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "ffupdater_job_registered",
				Help: "1 when the update check job is scheduled",
			},
		),
		JobInterval: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "ffupdater_job_interval_seconds",
				Help: "Interval of the scheduled update check job",
			},
		),
	}
}

// ObserveFetch records one fetch and its duration.
func (m *Metrics) ObserveFetch(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.FetchTotal.WithLabelValues(outcome).Inc()
	m.FetchDuration.Observe(d.Seconds())
}

// ObserveTrigger records one firing of the update check job.
func (m *Metrics) ObserveTrigger(outcome string) {
	if m == nil {
		return
	}
	m.TriggersTotal.WithLabelValues(outcome).Inc()
}

// ObserveNotification records one notification attempt.
func (m *Metrics) ObserveNotification(outcome string) {
	if m == nil {
		return
	}
	m.NotificationsTotal.WithLabelValues(outcome).Inc()
}

// SetRegistered reflects the job registration state.
func (m *Metrics) SetRegistered(registered bool, interval time.Duration) {
	if m == nil {
		return
	}
	if !registered {
		m.JobRegistered.Set(0)
		m.JobInterval.Set(0)
		return
	}
	m.JobRegistered.Set(1)
	m.JobInterval.Set(interval.Seconds())
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
