package logger

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the rule pipeline and the API service.

var (
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "Duration of HTTP requests in seconds",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RulesParsedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rules_parsed_total",
			Help: "Total number of rule texts parsed, by outcome",
		},
		[]string{"outcome"},
	)

	EvaluationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "signal_evaluations_total",
			Help: "Total number of signal evaluations",
		},
	)

	BacktestsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "backtests_total",
			Help: "Total number of completed backtest runs",
		},
	)

	BacktestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "backtest_duration_seconds",
			Help: "Duration of a full parse-evaluate-simulate run in seconds",
		},
	)

	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "errors_total",
			Help: "Total number of errors",
		},
		[]string{"service", "error_type"},
	)
)
