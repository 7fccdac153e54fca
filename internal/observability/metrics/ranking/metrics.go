// Package rankingmetrics defines the metrics contract for the ranking module.
package rankingmetrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RankingMetrics records operational metrics for the ranking service.
type RankingMetrics interface {
	RecordOperationAttempt(ctx context.Context, operation string)
	RecordOperationSuccess(ctx context.Context, operation string)
	RecordOperationFailure(ctx context.Context, operation string)
	RecordOperationDuration(ctx context.Context, operation string, duration time.Duration)
	RecordLeaderboardSize(ctx context.Context, size int)
	RecordTierTransition(ctx context.Context, fromTier, toTier string, promoted bool)
}

type prometheusMetrics struct {
	attempts    *prometheus.CounterVec
	successes   *prometheus.CounterVec
	failures    *prometheus.CounterVec
	durations   *prometheus.HistogramVec
	boardSize   prometheus.Gauge
	transitions *prometheus.CounterVec
}

// NewPrometheusMetrics registers and returns ranking metrics backed by the
// given registry.
func NewPrometheusMetrics(registry *prometheus.Registry) RankingMetrics {
	m := &prometheusMetrics{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ranking_operation_attempts_total",
			Help: "Number of ranking service operation attempts.",
		}, []string{"operation"}),
		successes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ranking_operation_successes_total",
			Help: "Number of ranking service operations that succeeded.",
		}, []string{"operation"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ranking_operation_failures_total",
			Help: "Number of ranking service operations that failed.",
		}, []string{"operation"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ranking_operation_duration_seconds",
			Help:    "Duration of ranking service operations.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		boardSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ranking_leaderboard_size",
			Help: "Number of forecasters on the most recent leaderboard snapshot.",
		}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ranking_tier_transitions_total",
			Help: "Number of tier transitions emitted by leaderboard rebuilds.",
		}, []string{"from_tier", "to_tier", "direction"}),
	}

	registry.MustRegister(m.attempts, m.successes, m.failures, m.durations, m.boardSize, m.transitions)
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

func (m *prometheusMetrics) RecordLeaderboardSize(_ context.Context, size int) {
	m.boardSize.Set(float64(size))
}

func (m *prometheusMetrics) RecordTierTransition(_ context.Context, fromTier, toTier string, promoted bool) {
	direction := "demotion"
	if promoted {
		direction = "promotion"
	}
	m.transitions.WithLabelValues(fromTier, toTier, direction).Inc()
}

// NoopMetrics is the metrics implementation used in tests.
type NoopMetrics struct{}

func (NoopMetrics) RecordOperationAttempt(context.Context, string)                {}
func (NoopMetrics) RecordOperationSuccess(context.Context, string)               {}
func (NoopMetrics) RecordOperationFailure(context.Context, string)               {}
func (NoopMetrics) RecordOperationDuration(context.Context, string, time.Duration) {}
func (NoopMetrics) RecordLeaderboardSize(context.Context, int)                   {}
func (NoopMetrics) RecordTierTransition(context.Context, string, string, bool)   {}
