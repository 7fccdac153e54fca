// Package syncmetrics defines the metrics contract for the sync module.
package syncmetrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SyncMetrics records operational metrics for the reputation-sync service.
type SyncMetrics interface {
	RecordOperationAttempt(ctx context.Context, operation string)
	RecordOperationSuccess(ctx context.Context, operation string)
	RecordOperationFailure(ctx context.Context, operation string)
	RecordOperationDuration(ctx context.Context, operation string, duration time.Duration)
	RecordVerificationStatus(ctx context.Context, source, status string)
}

type prometheusMetrics struct {
	attempts  *prometheus.CounterVec
	successes *prometheus.CounterVec
	failures  *prometheus.CounterVec
	durations *prometheus.HistogramVec
	statuses  *prometheus.CounterVec
}

// NewPrometheusMetrics registers and returns sync metrics backed by the
// given registry.
func NewPrometheusMetrics(registry *prometheus.Registry) SyncMetrics {
	m := &prometheusMetrics{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sync_operation_attempts_total",
			Help: "Number of sync service operation attempts.",
		}, []string{"operation"}),
		successes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sync_operation_successes_total",
			Help: "Number of sync service operations that succeeded.",
		}, []string{"operation"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sync_operation_failures_total",
			Help: "Number of sync service operations that failed.",
		}, []string{"operation"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sync_operation_duration_seconds",
			Help:    "Duration of sync service operations.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		statuses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sync_verification_status_total",
			Help: "Verification outcomes per external reputation source.",
		}, []string{"source", "status"}),
	}

	registry.MustRegister(m.attempts, m.successes, m.failures, m.durations, m.statuses)
	return m
}

func (m *prometheusMetrics) RecordOperationAttempt(_ context.Context, operation string) {
	m.attempts.WithLabelValues(operation).Inc()
}

func (m *prometheusMetrics) RecordOperationSuccess(_ context.Context, operation string) {
	m.successes.WithLabelValues(operation).Inc()
}

func (m *prometheusMetrics) RecordOperationFailure(_ context.Context, operation string) {
	m.failures.WithLabelValues(operation).Inc()
}

func (m *prometheusMetrics) RecordOperationDuration(_ context.Context, operation string, duration time.Duration) {
	m.durations.WithLabelValues(operation).Observe(duration.Seconds())
}

func (m *prometheusMetrics) RecordVerificationStatus(_ context.Context, source, status string) {
	m.statuses.WithLabelValues(source, status).Inc()
}

// NoopMetrics is the metrics implementation used in tests.
type NoopMetrics struct{}

func (NoopMetrics) RecordOperationAttempt(context.Context, string)                 {}
func (NoopMetrics) RecordOperationSuccess(context.Context, string)                 {}
func (NoopMetrics) RecordOperationFailure(context.Context, string)                 {}
func (NoopMetrics) RecordOperationDuration(context.Context, string, time.Duration) {}
func (NoopMetrics) RecordVerificationStatus(context.Context, string, string)       {}
