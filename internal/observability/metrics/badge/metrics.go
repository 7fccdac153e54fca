// Package badgemetrics defines the metrics contract for the badge module.
package badgemetrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// BadgeMetrics records operational metrics for the badge service.
type BadgeMetrics interface {
	RecordOperationAttempt(ctx context.Context, operation string)
	RecordOperationSuccess(ctx context.Context, operation string)
	RecordOperationFailure(ctx context.Context, operation string)
	RecordOperationDuration(ctx context.Context, operation string, duration time.Duration)
	RecordBadgeUnlocked(ctx context.Context, badgeID string)
}

type prometheusMetrics struct {
	attempts  *prometheus.CounterVec
	successes *prometheus.CounterVec
	failures  *prometheus.CounterVec
	durations *prometheus.HistogramVec
	unlocks   *prometheus.CounterVec
}

// NewPrometheusMetrics registers and returns badge metrics backed by the
// given registry.
func NewPrometheusMetrics(registry *prometheus.Registry) BadgeMetrics {
	m := &prometheusMetrics{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "badge_operation_attempts_total",
			Help: "Number of badge service operation attempts.",
		}, []string{"operation"}),
		successes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "badge_operation_successes_total",
			Help: "Number of badge service operations that succeeded.",
		}, []string{"operation"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "badge_operation_failures_total",
			Help: "Number of badge service operations that failed.",
		}, []string{"operation"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "badge_operation_duration_seconds",
			Help:    "Duration of badge service operations.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		unlocks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "badge_unlocks_total",
			Help: "Number of badges newly unlocked.",
		}, []string{"badge_id"}),
	}

	registry.MustRegister(m.attempts, m.successes, m.failures, m.durations, m.unlocks)
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

func (m *prometheusMetrics) RecordBadgeUnlocked(_ context.Context, badgeID string) {
	m.unlocks.WithLabelValues(badgeID).Inc()
}

// NoopMetrics is the metrics implementation used in tests.
type NoopMetrics struct{}

func (NoopMetrics) RecordOperationAttempt(context.Context, string)                  {}
func (NoopMetrics) RecordOperationSuccess(context.Context, string)                  {}
func (NoopMetrics) RecordOperationFailure(context.Context, string)                  {}
func (NoopMetrics) RecordOperationDuration(context.Context, string, time.Duration)  {}
func (NoopMetrics) RecordBadgeUnlocked(context.Context, string)                     {}
