package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)

	HTTPRequestsRateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsRateLimited,
			Help: HelpTextHTTPRequestsRateLimited,
		},
	)
)

// Command Metrics
var (
	CommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameCommandsTotal,
			Help: HelpTextCommandsTotal,
		},
		[]string{LabelCommand},
	)

	CommandErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameCommandErrors,
			Help: HelpTextCommandErrors,
		},
		[]string{LabelCommand},
	)
)

// Storage Metrics
var (
	StoreSaves = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameStoreSaves,
			Help: HelpTextStoreSaves,
		},
		[]string{LabelResult},
	)

	StoreLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameStoreLoads,
			Help: HelpTextStoreLoads,
		},
		[]string{LabelSource},
	)

	BackupAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameBackupAttempts,
			Help: HelpTextBackupAttempts,
		},
		[]string{LabelKind, LabelResult},
	)

	StatsRecords = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameStatsRecords,
			Help: HelpTextStatsRecords,
		},
	)
)

// ResultLabel maps an error to the result label value
func ResultLabel(err error) string {
	if err != nil {
		return ResultFailure
	}
	return ResultSuccess
}
