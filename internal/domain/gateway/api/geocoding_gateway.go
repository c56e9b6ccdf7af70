package api

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"weather-api/internal/domain/model"
	"weather-api/internal/domain/model/external"
	"weather-api/pkg/resilience/fetcher"
)

const geocodingNamespace = "geo"

// ErrNoGeocodingResult is returned when the geocoding API answers successfully with no match.
var ErrNoGeocodingResult = errors.New("no geocoding data found")

// GeocodingGateway resolves city names to coordinates.
type GeocodingGateway interface {
	// GetCoordinates returns the first match for name. Failures are returned to the caller,
	// which degrades through its own fallback chain.
	GetCoordinates(ctx context.Context, name string) (model.Coordinates, error)
}

type geocodingGatewayImpl struct {
	fetcher *fetcher.Fetcher
	apiKey  string
}

// NewGeocodingGateway creates a GeocodingGateway calling GET /geo/1.0/direct through f.
func NewGeocodingGateway(f *fetcher.Fetcher, apiKey string) GeocodingGateway {
	return &geocodingGatewayImpl{fetcher: f, apiKey: apiKey}
}

func (g *geocodingGatewayImpl) GetCoordinates(ctx context.Context, name string) (model.Coordinates, error) {
	return fetcher.Fetch(ctx, g.fetcher, fetcher.Lookup[model.Coordinates]{
		Namespace: geocodingNamespace,
		Target:    name,
		Load: func(ctx context.Context) (model.Coordinates, error) {
			matches, err := fetcher.Get[[]external.GeocodingResult](ctx, g.fetcher, fetcher.Request{
				Path: "/geo/1.0/direct",
				Params: map[string]string{
					"q":     name,
					"limit": strconv.Itoa(1),
					"appid": g.apiKey,
				},
				Target: name,
				Entity: "City",
			})
			if err != nil {
				return model.Coordinates{}, err
			}
			if len(*matches) == 0 {
				return model.Coordinates{}, fmt.Errorf("%w for %s", ErrNoGeocodingResult, name)
			}
			first := (*matches)[0]
			return model.Coordinates{Lat: first.Lat, Lon: first.Lon, Country: first.Country}, nil
		},
	})
}
