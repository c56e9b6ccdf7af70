package configs

import (
	"strings"
	"time"

	"weather-api/pkg/resource"
)

const (
	ProviderV2 = "v2"
	ProviderV3 = "v3"

	CacheTypeRedis  = "redis"
	CacheTypeMemory = "memory"
)

// WeatherConfig holds the upstream and resilience settings, resolved once at bootstrap
type WeatherConfig struct {
	APIKey           string
	ProviderVersion  string
	Units            string
	BaseURL          string
	GeocodingBaseURL string

	CacheType string
	CacheTTL  time.Duration
	StaleTTL  time.Duration
	Dedupe    bool

	MaxRetries        int
	InitialRetryDelay time.Duration
	RetryFactor       float64
	MaxRetryDelay     time.Duration

	BreakerTimeout               time.Duration
	BreakerErrorThresholdPercent float64
	BreakerResetTimeout          time.Duration
	BreakerRollingWindow         time.Duration
	BreakerMinRequests           uint32

	RequestsPerSecond float64
	Burst             int
}

// LoadWeatherConfig reads app.weather.* and app.cache.type from the application properties
func LoadWeatherConfig() WeatherConfig {
	return WeatherConfig{
		APIKey:           resource.GetString("app.weather.api-key"),
		ProviderVersion:  strings.ToLower(resource.GetStringOrDefault("app.weather.provider-version", ProviderV3)),
		Units:            resource.GetStringOrDefault("app.weather.units", "metric"),
		BaseURL:          resource.GetStringOrDefault("app.weather.base-url", "https://api.openweathermap.org"),
		GeocodingBaseURL: resource.GetStringOrDefault("app.weather.geocoding-base-url", "https://api.openweathermap.org"),

		CacheType: strings.ToLower(resource.GetStringOrDefault("app.cache.type", CacheTypeRedis)),
		CacheTTL:  resource.GetDurationOrDefault("app.weather.cache-ttl", 10*time.Minute),
		StaleTTL:  resource.GetDurationOrDefault("app.weather.stale-ttl", 24*time.Hour),
		Dedupe:    resource.GetBool("app.weather.dedupe"),

		MaxRetries:        resource.GetIntOrDefault("app.weather.retry.max-retries", 3),
		InitialRetryDelay: resource.GetDurationOrDefault("app.weather.retry.initial-delay", 500*time.Millisecond),
		RetryFactor:       floatOrDefault("app.weather.retry.factor", 2),
		MaxRetryDelay:     resource.GetDurationOrDefault("app.weather.retry.max-delay", 10*time.Second),

		BreakerTimeout:               resource.GetDurationOrDefault("app.weather.breaker.timeout", 5*time.Second),
		BreakerErrorThresholdPercent: floatOrDefault("app.weather.breaker.error-threshold-percent", 50),
		BreakerResetTimeout:          resource.GetDurationOrDefault("app.weather.breaker.reset-timeout", 10*time.Second),
		BreakerRollingWindow:         resource.GetDurationOrDefault("app.weather.breaker.rolling-window", 10*time.Second),
		BreakerMinRequests:           uint32(resource.GetIntOrDefault("app.weather.breaker.min-requests", 1)),

		RequestsPerSecond: floatOrDefault("app.weather.rate-limit.requests-per-second", 0),
		Burst:             resource.GetIntOrDefault("app.weather.rate-limit.burst", 1),
	}
}

func floatOrDefault(key string, def float64) float64 {
	if !resource.IsSet(key) {
		return def
	}
	if value := resource.GetFloat64(key); value > 0 {
		return value
	}
	return def
}
