// Package metrics records registration and teardown metrics for a stack run
// on a private Prometheus registry.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "jenkins_stack"

// Result label values.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// Recorder holds the metrics of one process. A nil *Recorder records
// nothing.
type Recorder struct {
	registry *prometheus.Registry

	registrationsTotal   *prometheus.CounterVec
	registrationDuration *prometheus.HistogramVec
	deletionsTotal       *prometheus.CounterVec
	runDuration          *prometheus.HistogramVec
	lastRunSuccess       *prometheus.GaugeVec
	resourcesRegistered  prometheus.Gauge
}

// New creates a Recorder with all collectors registered.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),

		registrationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "engine",
				Name:      "registrations_total",
				Help:      "Total number of resource registrations by kind and result",
			},
			[]string{"kind", "result"},
		),

		registrationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "engine",
				Name:      "registration_duration_seconds",
				Help:      "Duration of a single resource registration in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~2.5s
			},
			[]string{"kind"},
		),

		deletionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "engine",
				Name:      "deletions_total",
				Help:      "Total number of resource deletions by kind and result",
			},
			[]string{"kind", "result"},
		),

		runDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "run",
				Name:      "duration_seconds",
				Help:      "Duration of a whole up or down pass in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10), // 100ms to ~51s
			},
			[]string{"operation"},
		),

		lastRunSuccess: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "run",
				Name:      "last_success",
				Help:      "Whether the last pass of the operation succeeded (1) or not (0)",
			},
			[]string{"operation"},
		),

		resourcesRegistered: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "stack",
				Name:      "resources_registered",
				Help:      "Number of resources registered by the last up pass",
			},
		),
	}

	r.registry.MustRegister(
		r.registrationsTotal,
		r.registrationDuration,
		r.deletionsTotal,
		r.runDuration,
		r.lastRunSuccess,
		r.resourcesRegistered,
	)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// RecordRegistration records one resource registration.
func (r *Recorder) RecordRegistration(kind string, err error, d time.Duration) {
	if r == nil {
		return
	}
	r.registrationsTotal.WithLabelValues(kind, result(err)).Inc()
	r.registrationDuration.WithLabelValues(kind).Observe(d.Seconds())
}

// RecordDeletion records one resource deletion.
func (r *Recorder) RecordDeletion(kind string, err error) {
	if r == nil {
		return
	}
	r.deletionsTotal.WithLabelValues(kind, result(err)).Inc()
}

// RecordRun records a completed up or down pass.
func (r *Recorder) RecordRun(operation string, err error, d time.Duration) {
	if r == nil {
		return
	}
	r.runDuration.WithLabelValues(operation).Observe(d.Seconds())
	if err != nil {
		r.lastRunSuccess.WithLabelValues(operation).Set(0)
	} else {
		r.lastRunSuccess.WithLabelValues(operation).Set(1)
	}
}

// SetResourcesRegistered records how many resources the last up pass
// registered.
func (r *Recorder) SetResourcesRegistered(n int) {
	if r == nil {
		return
	}
	r.resourcesRegistered.Set(float64(n))
}

// WriteTextfile writes all metrics to path in the Prometheus text format,
// suitable for the node exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}

func result(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultSuccess
}
