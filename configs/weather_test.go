package configs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weather-api/pkg/resource"
)

func TestLoadWeatherConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "application.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
app:
  cache:
    type: MEMORY
  weather:
    api-key: ${TEST_WEATHER_API_KEY:fallback-key}
    provider-version: V2
    cache-ttl: 5m
    retry:
      max-retries: 0
      factor: 3
    breaker:
      min-requests: 2
`), 0o600))
	require.NoError(t, resource.Init(path))

	cfg := LoadWeatherConfig()

	assert.Equal(t, "fallback-key", cfg.APIKey)
	assert.Equal(t, ProviderV2, cfg.ProviderVersion)
	assert.Equal(t, CacheTypeMemory, cfg.CacheType)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 24*time.Hour, cfg.StaleTTL)
	assert.Equal(t, 0, cfg.MaxRetries)
	assert.Equal(t, 3.0, cfg.RetryFactor)
	assert.Equal(t, 500*time.Millisecond, cfg.InitialRetryDelay)
	assert.Equal(t, 5*time.Second, cfg.BreakerTimeout)
	assert.Equal(t, 10*time.Second, cfg.BreakerResetTimeout)
	assert.Equal(t, 50.0, cfg.BreakerErrorThresholdPercent)
	assert.Equal(t, uint32(2), cfg.BreakerMinRequests)
	assert.Equal(t, "metric", cfg.Units)
}
