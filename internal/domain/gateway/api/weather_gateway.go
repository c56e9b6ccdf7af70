package api

import (
	"context"
	"net/http"

	"weather-api/internal/domain/entity"
	"weather-api/internal/domain/model"
	"weather-api/pkg/apperror"
)

// ErrNotImplemented is returned by provider generations that cannot serve historical data.
var ErrNotImplemented = apperror.New(http.StatusNotImplemented, "Historical weather data not available in this API version")

// WeatherGateway defines the interface for weather-related external API calls.
// Transient upstream failures never reach the caller: they degrade to a stale cached value
// and then to a default value. The only hard error is a *fetcher.NotFoundError.
type WeatherGateway interface {
	// GetCurrentWeather returns the current weather of city
	GetCurrentWeather(ctx context.Context, city entity.City) (model.UnifiedCurrentWeather, error)

	// GetLast7DaysWeather returns one summary per day from today back six days, newest first.
	// Days that could not be fetched are left out.
	GetLast7DaysWeather(ctx context.Context, city entity.City) ([]model.UnifiedDaySummary, error)

	// Evict drops every cached response of city, so a removed city is not served stale
	Evict(ctx context.Context, city entity.City) error
}
