/*
Package metrics collects per-run scan metrics and pushes them to a Prometheus
Pushgateway. A nil *Scan is valid and records nothing.
*/
package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/shanehull/tripwatch/internal/types"
)

const namespace = "tripwatch"

// Probe outcomes.
const (
	OutcomeAvailable   = "available"
	OutcomeUnavailable = "unavailable"
	OutcomeFetchFailed = "fetch_failed"
)

// DefaultBuckets covers a page load from sub-second to the fetch timeout.
var DefaultBuckets = []float64{.25, .5, 1, 2.5, 5, 10, 15, 20, 30, 45, 60} //nolint: gochecknoglobals

type Scan struct {
	registry       *prometheus.Registry
	probes         *prometheus.CounterVec
	fetchFailures  *prometheus.CounterVec
	fetchDuration  *prometheus.HistogramVec
	availableDates prometheus.Gauge
	runDuration    prometheus.Gauge
}

func New() *Scan {
	s := &Scan{
		registry: prometheus.NewRegistry(),
		probes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "probes_total",
			Help:      "Dates probed, by route and outcome.",
		}, []string{"route", "outcome"}),
		fetchFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_failures_total",
			Help:      "Page fetches that failed, by route.",
		}, []string{"route"}),
		fetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Time spent fetching one result page.",
			Buckets:   DefaultBuckets,
		}, []string{"route"}),
		availableDates: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "available_dates",
			Help:      "Dates with bookable trips found by the last run.",
		}),
		runDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_duration_seconds",
			Help:      "Wall time of the last completed run.",
		}),
	}

	s.registry.MustRegister(s.probes, s.fetchFailures, s.fetchDuration, s.availableDates, s.runDuration)

	return s
}

func (s *Scan) Registry() *prometheus.Registry {
	if s == nil {
		return nil
	}
	return s.registry
}

func (s *Scan) ObserveFetch(route string, took time.Duration, err error) {
	if s == nil {
		return
	}
	s.fetchDuration.WithLabelValues(route).Observe(took.Seconds())
	if err != nil {
		s.fetchFailures.WithLabelValues(route).Inc()
	}
}

func (s *Scan) ObserveProbe(route, outcome string) {
	if s == nil {
		return
	}
	s.probes.WithLabelValues(route, outcome).Inc()
}

func (s *Scan) ObserveRun(result types.ScanResult) {
	if s == nil {
		return
	}
	s.availableDates.Set(float64(len(result.Records)))
	if !result.FinishedAt.IsZero() {
		s.runDuration.Set(result.FinishedAt.Sub(result.StartedAt).Seconds())
	}
}

// Push replaces the job's metrics on the Pushgateway at url.
func (s *Scan) Push(ctx context.Context, url, job string) error {
	if s == nil || url == "" {
		return nil
	}
	if err := push.New(url, job).Gatherer(s.registry).PushContext(ctx); err != nil {
		return fmt.Errorf("failed to push metrics to %s: %w", url, err)
	}
	return nil
}
