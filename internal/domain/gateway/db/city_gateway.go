package db

import (
	"context"
	"errors"

	"weather-api/internal/domain/entity"
)

// ErrCityExists is returned by Create when the name or id is already taken.
var ErrCityExists = errors.New("city already exists")

type CityGateway interface {
	// FindAll returns every city with its snapshot, ordered by id
	FindAll(ctx context.Context) ([]entity.City, error)
	// FindByID returns nil when no city has the id
	FindByID(ctx context.Context, id int64) (*entity.City, error)
	// FindByName returns nil when no city has the name
	FindByName(ctx context.Context, name string) (*entity.City, error)

	// Create stores the city and its first snapshot in one transaction. A zero city.ID lets the
	// database assign one.
	Create(ctx context.Context, city entity.City, snapshot entity.WeatherSnapshot) (*entity.City, error)
	// Delete removes the city and its snapshot, returning the removed city or nil when absent
	Delete(ctx context.Context, id int64) (*entity.City, error)

	// ReplaceSnapshot deletes the city's snapshot and stores the new one in one transaction
	ReplaceSnapshot(ctx context.Context, cityID int64, snapshot entity.WeatherSnapshot) (*entity.WeatherSnapshot, error)
}
