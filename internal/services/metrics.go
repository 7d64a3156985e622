package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all custom Prometheus metrics for the application
type Metrics struct {
	// Command metrics
	CommandRequests *prometheus.CounterVec
	CommandLatency  prometheus.Histogram
	CommandErrors   *prometheus.CounterVec

	// Provider call metrics
	ProviderCalls  *prometheus.CounterVec
	ProviderErrors *prometheus.CounterVec

	// Sync metrics
	SyncRuns     *prometheus.CounterVec
	SyncDuration *prometheus.HistogramVec

	// Token resolution outcomes
	TokenResolutions *prometheus.CounterVec
}

var globalMetrics *Metrics

// InitMetrics initializes the Prometheus metrics
func InitMetrics() *Metrics {
	metrics := &Metrics{
		// Commands by resolved intent and resulting action tag
		CommandRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "aura_commands_total",
			Help: "Total number of commands processed by intent and action",
		}, []string{"intent", "action"}),

		CommandLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "aura_command_duration_seconds",
			Help:    "Command processing latency in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
		}),

		CommandErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "aura_command_errors_total",
			Help: "Total number of command errors by intent",
		}, []string{"intent"}),

		ProviderCalls: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "aura_provider_calls_total",
			Help: "Total number of external provider API calls",
		}, []string{"provider", "operation"}),

		ProviderErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "aura_provider_errors_total",
			Help: "Total number of failed external provider API calls",
		}, []string{"provider", "operation"}),

		// Sync runs by provider and outcome ("success" or "error")
		SyncRuns: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "aura_sync_runs_total",
			Help: "Total number of sync runs by provider and outcome",
		}, []string{"provider", "outcome"}),

		SyncDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "aura_sync_duration_seconds",
			Help:    "Sync run duration in seconds by provider",
			Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		}, []string{"provider"}),

		// Outcomes: "stored", "cached", "refreshed", "unavailable"
		TokenResolutions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "aura_token_resolutions_total",
			Help: "Total number of access token resolutions by outcome",
		}, []string{"outcome"}),
	}

	globalMetrics = metrics
	return metrics
}

// GetMetrics returns the global metrics instance
func GetMetrics() *Metrics {
	return globalMetrics
}

// ProviderObserver returns a provider-client hook that counts every API call
// and its failures under the given provider label.
func ProviderObserver(provider string) func(operation string, err error) {
	return func(operation string, err error) {
		m := GetMetrics()
		if m == nil {
			return
		}
		m.ProviderCalls.WithLabelValues(provider, operation).Inc()
		if err != nil {
			m.ProviderErrors.WithLabelValues(provider, operation).Inc()
		}
	}
}
