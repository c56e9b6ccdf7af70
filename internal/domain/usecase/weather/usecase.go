package weather

import (
	"context"

	"weather-api/internal/domain/model"
)

type UseCase interface {
	// GetCurrentWeather returns the current weather of the named city
	GetCurrentWeather(ctx context.Context, name string) (model.UnifiedCurrentWeather, error)
}
