package api

import (
	"context"

	"github.com/jonboulle/clockwork"

	"weather-api/internal/domain/entity"
	"weather-api/internal/domain/model"
	"weather-api/internal/domain/model/external"
	"weather-api/pkg/log"
	"weather-api/pkg/resilience/fetcher"
)

const currentWeatherV2Namespace = "v2"

// ProviderConfig holds the values every OpenWeatherMap gateway resolves once at construction.
type ProviderConfig struct {
	APIKey string
	Units  string
	Clock  clockwork.Clock
}

func (c ProviderConfig) withDefaults() ProviderConfig {
	if c.Units == "" {
		c.Units = model.UnitsMetric
	}
	if c.Clock == nil {
		c.Clock = clockwork.NewRealClock()
	}
	return c
}

// openWeatherMapV2Gateway serves current weather from the 2.5 API, which needs no geocoding.
type openWeatherMapV2Gateway struct {
	fetcher *fetcher.Fetcher
	cfg     ProviderConfig
}

// NewOpenWeatherMapV2Gateway creates a WeatherGateway backed by GET /data/2.5/weather.
func NewOpenWeatherMapV2Gateway(f *fetcher.Fetcher, cfg ProviderConfig) WeatherGateway {
	return &openWeatherMapV2Gateway{fetcher: f, cfg: cfg.withDefaults()}
}

func (g *openWeatherMapV2Gateway) GetCurrentWeather(ctx context.Context, city entity.City) (model.UnifiedCurrentWeather, error) {
	return fetcher.Fetch(ctx, g.fetcher, fetcher.Lookup[model.UnifiedCurrentWeather]{
		Namespace: currentWeatherV2Namespace,
		Target:    city.Name,
		Load: func(ctx context.Context) (model.UnifiedCurrentWeather, error) {
			raw, err := fetcher.Get[external.OWMv2CurrentWeatherResponse](ctx, g.fetcher, fetcher.Request{
				Path: "/data/2.5/weather",
				Params: map[string]string{
					"q":     city.Name,
					"appid": g.cfg.APIKey,
					"units": g.cfg.Units,
				},
				Target: city.Name,
				Entity: "City",
			})
			if err != nil {
				return model.UnifiedCurrentWeather{}, err
			}
			return g.transform(raw, city), nil
		},
		Default: func() model.UnifiedCurrentWeather {
			return DefaultCurrentWeather(city, g.cfg.Clock.Now())
		},
	})
}

func (g *openWeatherMapV2Gateway) Evict(ctx context.Context, city entity.City) error {
	return g.fetcher.Evict(ctx, currentWeatherV2Namespace, city.Name)
}

// GetLast7DaysWeather is not supported by the 2.5 API.
func (g *openWeatherMapV2Gateway) GetLast7DaysWeather(_ context.Context, city entity.City) ([]model.UnifiedDaySummary, error) {
	log.Errorf("last 7 days weather requested for %s but the 2.5 API has no history", city.Name)
	return nil, ErrNotImplemented
}

func (g *openWeatherMapV2Gateway) transform(raw *external.OWMv2CurrentWeatherResponse, city entity.City) model.UnifiedCurrentWeather {
	now := g.cfg.Clock.Now().UTC()

	locationID := raw.ID
	if locationID == 0 {
		locationID = city.ID
	}

	condition := unknownCondition()
	if len(raw.Weather) > 0 {
		condition = raw.Weather[0]
	}

	return model.UnifiedCurrentWeather{
		BaseInfo: model.BaseInfo{
			Lat:            raw.Coord.Lat,
			Lon:            raw.Coord.Lon,
			LocationName:   city.Name,
			LocationID:     locationID,
			Country:        stringOr(raw.Sys.Country, defaultCountry),
			Timezone:       "N/A",
			TimezoneOffset: 0,
			Date:           now.Format(dateLayout),
			Datetime:       raw.Dt,
			Sunrise:        raw.Sys.Sunrise,
			Sunset:         raw.Sys.Sunset,
			Units:          g.cfg.Units,
		},
		Temp:       raw.Main.Temp,
		FeelsLike:  raw.Main.FeelsLike,
		Pressure:   raw.Main.Pressure,
		Humidity:   raw.Main.Humidity,
		DewPoint:   0,
		UVI:        0,
		Clouds:     raw.Clouds.All,
		Visibility: raw.Visibility,
		WindSpeed:  raw.Wind.Speed,
		WindDeg:    raw.Wind.Deg,
		WindGust:   raw.Wind.Gust,
		Weather:    []model.WeatherCondition{condition},
	}
}
