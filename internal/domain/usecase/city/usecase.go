package city

import (
	"context"

	"weather-api/internal/domain/entity"
	"weather-api/internal/domain/model"
)

type UseCase interface {
	// Create fetches the current weather of name and stores the city with its first snapshot
	Create(ctx context.Context, name string) (*model.CityResponse, error)

	// FindAll lists the cities with a summary snapshot, or the full snapshot when full is set
	FindAll(ctx context.Context, full bool) ([]model.CityResponse, error)

	// Remove deletes a city and its snapshot
	Remove(ctx context.Context, id int64) (*entity.City, error)

	// Last7Days returns the daily summaries of the last seven days for name
	Last7Days(ctx context.Context, name string) ([]model.UnifiedDaySummary, error)

	// RefreshAll refreshes the snapshot of every city, inline or through the queue
	RefreshAll(ctx context.Context, requestID string) error

	// RefreshCity replaces the snapshot of a single city with its current weather
	RefreshCity(ctx context.Context, message model.CityRefreshMessage) error
}
