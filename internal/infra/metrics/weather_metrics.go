// Package metrics exposes the resilience pipeline to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"weather-api/pkg/resilience/breaker"
	"weather-api/pkg/resilience/fetcher"
	"weather-api/pkg/resilience/retry"
)

var _ fetcher.Observer = (*WeatherMetrics)(nil)

// WeatherMetrics implements fetcher.Observer and records breaker transitions.
//
// Metrics:
//   - weather_cache_hits_total{namespace}
//   - weather_cache_misses_total{namespace}
//   - weather_upstream_retries_total{upstream}
//   - weather_upstream_requests_total{upstream,outcome}
//   - weather_fallback_total{namespace,kind}
//   - weather_circuit_breaker_state{upstream}: 0 closed, 1 half-open, 2 open
type WeatherMetrics struct {
	CacheHits        *prometheus.CounterVec
	CacheMisses      *prometheus.CounterVec
	Retries          *prometheus.CounterVec
	UpstreamRequests *prometheus.CounterVec
	Fallbacks        *prometheus.CounterVec
	BreakerState     *prometheus.GaugeVec
}

// NewWeatherMetrics registers the metrics with reg, or the default registerer when reg is nil.
func NewWeatherMetrics(reg prometheus.Registerer) *WeatherMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &WeatherMetrics{
		CacheHits: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "weather_cache_hits_total",
			Help: "Lookups served from a fresh cache entry",
		}, []string{"namespace"}),
		CacheMisses: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "weather_cache_misses_total",
			Help: "Lookups that had to call the upstream",
		}, []string{"namespace"}),
		Retries: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "weather_upstream_retries_total",
			Help: "Failed upstream attempts that were retried",
		}, []string{"upstream"}),
		UpstreamRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "weather_upstream_requests_total",
			Help: "Upstream calls by final outcome after retries",
		}, []string{"upstream", "outcome"}),
		Fallbacks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "weather_fallback_total",
			Help: "Lookups answered by a stale cache entry or a default value",
		}, []string{"namespace", "kind"}),
		BreakerState: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "weather_circuit_breaker_state",
			Help: "Circuit breaker state per upstream: 0 closed, 1 half-open, 2 open",
		}, []string{"upstream"}),
	}
}

func (m *WeatherMetrics) CacheHit(namespace string) {
	m.CacheHits.WithLabelValues(namespace).Inc()
}

func (m *WeatherMetrics) CacheMiss(namespace string) {
	m.CacheMisses.WithLabelValues(namespace).Inc()
}

// RetryAttempt counts only attempts that are followed by another one.
func (m *WeatherMetrics) RetryAttempt(upstream string, attempt retry.Attempt) {
	if attempt.RetriesLeft > 0 {
		m.Retries.WithLabelValues(upstream).Inc()
	}
}

func (m *WeatherMetrics) UpstreamResult(upstream, outcome string) {
	m.UpstreamRequests.WithLabelValues(upstream, outcome).Inc()
}

func (m *WeatherMetrics) Fallback(namespace, kind string) {
	m.Fallbacks.WithLabelValues(namespace, kind).Inc()
}

// TrackBreaker initialises the state gauge of an upstream; pass BreakerStateChanged as the
// breaker's OnStateChange to keep it current.
func (m *WeatherMetrics) TrackBreaker(name string) {
	m.BreakerState.WithLabelValues(name).Set(stateValue(breaker.StateClosed))
}

// BreakerStateChanged matches breaker.Config.OnStateChange.
func (m *WeatherMetrics) BreakerStateChanged(name string, _, to breaker.State) {
	m.BreakerState.WithLabelValues(name).Set(stateValue(to))
}

func stateValue(state breaker.State) float64 {
	switch state {
	case breaker.StateHalfOpen:
		return 1
	case breaker.StateOpen:
		return 2
	default:
		return 0
	}
}
