package api

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"weather-api/internal/domain/entity"
	"weather-api/internal/domain/model"
	"weather-api/internal/domain/model/external"
	"weather-api/pkg/log"
	"weather-api/pkg/resilience/batch"
	"weather-api/pkg/resilience/fetcher"
)

const (
	currentWeatherV3Namespace = "v3"
	last7DaysNamespace        = "last7days"
	oneCallPath               = "/data/3.0/onecall"
	oneCallExclude            = "minutely,hourly,daily,alerts"
)

// openWeatherMapV3Gateway serves the One Call 3.0 API, which is keyed by coordinates.
type openWeatherMapV3Gateway struct {
	fetcher   *fetcher.Fetcher
	geocoding GeocodingGateway
	cfg       ProviderConfig
}

// NewOpenWeatherMapV3Gateway creates a WeatherGateway that geocodes the city name before every
// One Call request.
func NewOpenWeatherMapV3Gateway(f *fetcher.Fetcher, geocoding GeocodingGateway, cfg ProviderConfig) WeatherGateway {
	return &openWeatherMapV3Gateway{fetcher: f, geocoding: geocoding, cfg: cfg.withDefaults()}
}

func (g *openWeatherMapV3Gateway) GetCurrentWeather(ctx context.Context, city entity.City) (model.UnifiedCurrentWeather, error) {
	return fetcher.Fetch(ctx, g.fetcher, fetcher.Lookup[model.UnifiedCurrentWeather]{
		Namespace: currentWeatherV3Namespace,
		Target:    city.Name,
		Load: func(ctx context.Context) (model.UnifiedCurrentWeather, error) {
			coords, err := g.geocoding.GetCoordinates(ctx, city.Name)
			if err != nil {
				return model.UnifiedCurrentWeather{}, fmt.Errorf("geocode %s: %w", city.Name, err)
			}

			raw, err := fetcher.Get[external.OWMv3CurrentWeatherResponse](ctx, g.fetcher, fetcher.Request{
				Path:   oneCallPath,
				Params: g.coordinateParams(coords, map[string]string{"exclude": oneCallExclude}),
				Target: city.Name,
				Entity: "City",
			})
			if err != nil {
				return model.UnifiedCurrentWeather{}, err
			}
			return g.transformCurrent(raw, coords, city), nil
		},
		Default: func() model.UnifiedCurrentWeather {
			return DefaultCurrentWeather(city, g.cfg.Clock.Now())
		},
	})
}

// GetLast7DaysWeather geocodes once, then fetches the seven day summaries concurrently. A failed
// day is skipped; if every day fails the batch counts as a failed load.
func (g *openWeatherMapV3Gateway) GetLast7DaysWeather(ctx context.Context, city entity.City) ([]model.UnifiedDaySummary, error) {
	return fetcher.Fetch(ctx, g.fetcher, fetcher.Lookup[[]model.UnifiedDaySummary]{
		Namespace: last7DaysNamespace,
		Target:    city.Name,
		Load: func(ctx context.Context) ([]model.UnifiedDaySummary, error) {
			dates := lastDates(g.cfg.Clock.Now(), historyDays)

			coords, err := g.geocoding.GetCoordinates(ctx, city.Name)
			if err != nil {
				return nil, fmt.Errorf("geocode %s: %w", city.Name, err)
			}

			results := batch.Run(ctx, len(dates), 0, func(ctx context.Context, i int) (model.UnifiedDaySummary, error) {
				raw, err := fetcher.Get[external.OWMv3DaySummaryResponse](ctx, g.fetcher, fetcher.Request{
					Path:   oneCallPath + "/day_summary",
					Params: g.coordinateParams(coords, map[string]string{"date": dates[i]}),
					Target: city.Name,
					Entity: "City",
				})
				if err != nil {
					log.Warn("failed to fetch day summary",
						zap.String("city", city.Name),
						zap.String("date", dates[i]),
						zap.Error(err))
					return model.UnifiedDaySummary{}, err
				}
				return g.transformDay(raw, dates[i], coords, city), nil
			})

			days := batch.Successful(results)
			if len(days) == 0 {
				return nil, fmt.Errorf("all %d day summaries failed for %s: %v", len(dates), city.Name, results[0].Err)
			}
			if failed := batch.Failed(results); len(failed) > 0 {
				log.Warn("serving partial day summaries",
					zap.String("city", city.Name),
					zap.Int("succeeded", len(days)),
					zap.Int("failed", len(failed)))
			}
			return days, nil
		},
		Default: func() []model.UnifiedDaySummary {
			return DefaultLast7DaysWeather(city, g.cfg.Clock.Now())
		},
	})
}

// Evict drops the current and daily responses of city. Coordinates stay cached.
func (g *openWeatherMapV3Gateway) Evict(ctx context.Context, city entity.City) error {
	return errors.Join(
		g.fetcher.Evict(ctx, currentWeatherV3Namespace, city.Name),
		g.fetcher.Evict(ctx, last7DaysNamespace, city.Name),
	)
}

func (g *openWeatherMapV3Gateway) coordinateParams(coords model.Coordinates, extra map[string]string) map[string]string {
	params := map[string]string{
		"lat":   strconv.FormatFloat(coords.Lat, 'f', -1, 64),
		"lon":   strconv.FormatFloat(coords.Lon, 'f', -1, 64),
		"appid": g.cfg.APIKey,
		"units": g.cfg.Units,
	}
	for k, v := range extra {
		params[k] = v
	}
	return params
}

func (g *openWeatherMapV3Gateway) transformCurrent(raw *external.OWMv3CurrentWeatherResponse, coords model.Coordinates, city entity.City) model.UnifiedCurrentWeather {
	now := g.cfg.Clock.Now().UTC()
	current := raw.Current

	conditions := current.Weather
	if len(conditions) == 0 {
		conditions = []model.WeatherCondition{unknownCondition()}
	}

	return model.UnifiedCurrentWeather{
		BaseInfo: model.BaseInfo{
			Lat:            coords.Lat,
			Lon:            coords.Lon,
			LocationName:   city.Name,
			LocationID:     city.ID,
			Country:        stringOr(coords.Country, defaultCountry),
			Timezone:       stringOr(raw.Timezone, defaultTimezone),
			TimezoneOffset: raw.TimezoneOffset,
			Date:           now.Format(dateLayout),
			Datetime:       current.Dt,
			Sunrise:        current.Sunrise,
			Sunset:         current.Sunset,
			Units:          g.cfg.Units,
		},
		Temp:       current.Temp,
		FeelsLike:  current.FeelsLike,
		Pressure:   current.Pressure,
		Humidity:   current.Humidity,
		DewPoint:   valueOr(current.DewPoint, 0),
		UVI:        valueOr(current.UVI, 0),
		Clouds:     current.Clouds,
		Visibility: current.Visibility,
		WindSpeed:  current.WindSpeed,
		WindDeg:    current.WindDeg,
		WindGust:   valueOr(current.WindGust, 0),
		Weather:    conditions,
	}
}

func (g *openWeatherMapV3Gateway) transformDay(raw *external.OWMv3DaySummaryResponse, requested string, coords model.Coordinates, city entity.City) model.UnifiedDaySummary {
	date := stringOr(raw.Date, requested)

	day := model.UnifiedDaySummary{
		BaseInfo: model.BaseInfo{
			Lat:          coords.Lat,
			Lon:          coords.Lon,
			LocationName: city.Name,
			LocationID:   city.ID,
			Country:      stringOr(coords.Country, defaultCountry),
			Timezone:     defaultTimezone,
			Date:         date,
			Datetime:     dateUnix(date),
			Units:        stringOr(raw.Units, g.cfg.Units),
		},
	}

	if raw.CloudCover != nil {
		day.CloudCover.Afternoon = valueOr(raw.CloudCover.Afternoon, 0)
	}
	if raw.Humidity != nil {
		day.Humidity.Afternoon = valueOr(raw.Humidity.Afternoon, 0)
	}
	if raw.Precipitation != nil {
		day.Precipitation.Total = valueOr(raw.Precipitation.Total, 0)
	}
	if raw.Pressure != nil {
		day.Pressure.Afternoon = valueOr(raw.Pressure.Afternoon, 0)
	}
	if t := raw.Temperature; t != nil {
		afternoon := valueOr(t.Afternoon, 0)
		day.Temperature = model.DayTemperature{
			Min:       valueOr(t.Min, 0),
			Max:       valueOr(t.Max, 0),
			Afternoon: afternoon,
			Night:     valueOr(t.Night, 0),
			Evening:   valueOr(t.Evening, afternoon),
			Morning:   valueOr(t.Morning, 0),
		}
	}
	if raw.Wind != nil && raw.Wind.Max != nil {
		day.Wind.Max = model.WindSample{
			Speed:     valueOr(raw.Wind.Max.Speed, 0),
			Direction: valueOr(raw.Wind.Max.Direction, 0),
		}
	}
	return day
}
