package city

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"weather-api/internal/domain/entity"
	"weather-api/internal/domain/gateway/api"
	"weather-api/internal/domain/gateway/db"
	"weather-api/internal/domain/gateway/queue"
	"weather-api/internal/domain/model"
	"weather-api/pkg/apperror"
	"weather-api/pkg/log"
)

var (
	ErrCityAlreadyExists = apperror.Conflict("City already exists")
	ErrNameRequired      = apperror.BadRequest("name is required")
	// ErrWeatherUnavailable keeps the stored snapshot when only the placeholder weather could be served
	ErrWeatherUnavailable = errors.New("current weather unavailable, keeping previous snapshot")
)

type cityUseCase struct {
	queueName   string
	queueSender queue.Sender
	apiGateway  api.WeatherGateway
	dbGateway   db.CityGateway
}

// NewCityUseCase builds the city usecase. A nil queueSender refreshes cities inline.
func NewCityUseCase(queueName string, queueSender queue.Sender, apiGateway api.WeatherGateway, dbGateway db.CityGateway) UseCase {
	return &cityUseCase{
		queueName:   queueName,
		queueSender: queueSender,
		apiGateway:  apiGateway,
		dbGateway:   dbGateway,
	}
}

// Create fetches the current weather of name and stores the city with its first snapshot
func (uc *cityUseCase) Create(ctx context.Context, name string) (*model.CityResponse, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	existing, err := uc.dbGateway.FindByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to find city by name: %w", err)
	}
	if existing != nil {
		return nil, ErrCityAlreadyExists
	}

	weather, err := uc.apiGateway.GetCurrentWeather(ctx, entity.City{Name: name})
	if err != nil {
		return nil, err
	}

	snapshot, err := snapshotOf(weather)
	if err != nil {
		return nil, err
	}

	created, err := uc.dbGateway.Create(ctx, entity.City{ID: weather.LocationID, Name: name}, snapshot)
	if err != nil {
		if errors.Is(err, db.ErrCityExists) {
			return nil, ErrCityAlreadyExists
		}
		return nil, fmt.Errorf("failed to save city: %w", err)
	}

	log.Info("City created", zap.String("city_name", created.Name), zap.Int64("city_id", created.ID))
	response := toResponse(*created, false)
	return &response, nil
}

// FindAll lists the cities with a summary snapshot, or the full snapshot when full is set
func (uc *cityUseCase) FindAll(ctx context.Context, full bool) ([]model.CityResponse, error) {
	cities, err := uc.dbGateway.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to find cities: %w", err)
	}

	responses := make([]model.CityResponse, len(cities))
	for i, city := range cities {
		responses[i] = toResponse(city, full)
	}
	return responses, nil
}

// Remove deletes a city and its snapshot
func (uc *cityUseCase) Remove(ctx context.Context, id int64) (*entity.City, error) {
	deleted, err := uc.dbGateway.Delete(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to delete city %d: %w", id, err)
	}
	if deleted == nil {
		return nil, apperror.NotFound(fmt.Sprintf("City with ID %d not found", id))
	}

	if err := uc.apiGateway.Evict(ctx, *deleted); err != nil {
		log.Warn("Failed to evict cached weather", zap.String("city_name", deleted.Name), zap.Error(err))
	}

	log.Info("City removed", zap.String("city_name", deleted.Name), zap.Int64("city_id", deleted.ID))
	return deleted, nil
}

// Last7Days resolves name against the stored cities, falling back to the provider's current
// weather so unknown names still get a location id, then fetches the daily summaries.
func (uc *cityUseCase) Last7Days(ctx context.Context, name string) ([]model.UnifiedDaySummary, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	stored, err := uc.dbGateway.FindByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to find city by name: %w", err)
	}

	city := entity.City{Name: name}
	if stored != nil {
		city = entity.City{ID: stored.ID, Name: stored.Name}
	} else {
		weather, err := uc.apiGateway.GetCurrentWeather(ctx, city)
		if err != nil {
			log.Error("Failed to resolve city for weekly weather", zap.String("city_name", name), zap.Error(err))
			return nil, err
		}
		city.ID = weather.LocationID
	}

	days, err := uc.apiGateway.GetLast7DaysWeather(ctx, city)
	if err != nil {
		log.Error("Failed to get weekly weather", zap.String("city_name", name), zap.Error(err))
		return nil, err
	}
	return days, nil
}

// RefreshAll refreshes every stored city. Per-city failures are logged and do not stop the run.
func (uc *cityUseCase) RefreshAll(ctx context.Context, requestID string) error {
	cities, err := uc.dbGateway.FindAll(ctx)
	if err != nil {
		log.Error("Failed to list cities for refresh", zap.String("request_id", requestID), zap.Error(err))
		return fmt.Errorf("failed to list cities: %w", err)
	}

	log.Info("Starting weather refresh",
		zap.String("request_id", requestID),
		zap.Int("cities", len(cities)),
		zap.Bool("queued", uc.queueSender != nil))

	if uc.queueSender != nil {
		return uc.enqueueRefresh(ctx, requestID, cities)
	}

	refreshed, failed := 0, 0
	for _, city := range cities {
		err := uc.RefreshCity(ctx, model.CityRefreshMessage{RequestID: requestID, CityID: city.ID, CityName: city.Name})
		if err != nil {
			failed++
			log.Warn("Failed to refresh city",
				zap.String("request_id", requestID),
				zap.String("city_name", city.Name),
				zap.Int64("city_id", city.ID),
				zap.Error(err))
			continue
		}
		refreshed++
	}

	log.Info("Completed weather refresh",
		zap.String("request_id", requestID),
		zap.Int("refreshed", refreshed),
		zap.Int("failed", failed))
	return nil
}

func (uc *cityUseCase) enqueueRefresh(ctx context.Context, requestID string, cities []entity.City) error {
	if len(cities) == 0 {
		return nil
	}

	messages := make([]queue.BatchMessage, len(cities))
	names := make(map[string]entity.City, len(cities))
	for i, city := range cities {
		messageID := fmt.Sprintf("refresh-city-%d", city.ID)
		names[messageID] = city
		messages[i] = queue.BatchMessage{
			MessageID: messageID,
			Body:      model.CityRefreshMessage{RequestID: requestID, CityID: city.ID, CityName: city.Name},
		}
	}

	result, err := uc.queueSender.SendMessageBatch(ctx, uc.queueName, messages)
	if err != nil {
		log.Warn("Failed to enqueue city refresh batch", zap.String("request_id", requestID), zap.Error(err))
		return fmt.Errorf("failed to enqueue refresh of %d cities: %w", len(cities), err)
	}

	for _, failedID := range result.Failed {
		city := names[failedID]
		log.Warn("Failed to enqueue city",
			zap.String("request_id", requestID),
			zap.String("city_name", city.Name),
			zap.Int64("city_id", city.ID))
	}
	log.Info("Enqueued city refresh",
		zap.String("request_id", requestID),
		zap.Int("enqueued", len(result.Successful)),
		zap.Int("failed", len(result.Failed)))
	return nil
}

// RefreshCity replaces the snapshot of a single city with its current weather
func (uc *cityUseCase) RefreshCity(ctx context.Context, message model.CityRefreshMessage) error {
	city := entity.City{ID: message.CityID, Name: message.CityName}
	weather, err := uc.apiGateway.GetCurrentWeather(ctx, city)
	if err != nil {
		return fmt.Errorf("failed to get weather for %s: %w", city.Name, err)
	}
	if api.IsDefaultCurrentWeather(weather) {
		return fmt.Errorf("%s: %w", city.Name, ErrWeatherUnavailable)
	}

	snapshot, err := snapshotOf(weather)
	if err != nil {
		return err
	}
	if _, err := uc.dbGateway.ReplaceSnapshot(ctx, city.ID, snapshot); err != nil {
		return fmt.Errorf("failed to replace snapshot of %s: %w", city.Name, err)
	}

	log.Info("Updated weather data for city",
		zap.String("request_id", message.RequestID),
		zap.String("city_name", city.Name),
		zap.Int64("city_id", city.ID))
	return nil
}

func snapshotOf(weather model.UnifiedCurrentWeather) (entity.WeatherSnapshot, error) {
	mainData, err := json.Marshal(weather)
	if err != nil {
		return entity.WeatherSnapshot{}, fmt.Errorf("failed to serialize weather data: %w", err)
	}
	return entity.WeatherSnapshot{
		Temp:      weather.Temp,
		FeelsLike: weather.FeelsLike,
		Humidity:  weather.Humidity,
		MainData:  mainData,
	}, nil
}

func toResponse(city entity.City, full bool) model.CityResponse {
	response := model.CityResponse{ID: city.ID, Name: city.Name}
	if city.Weather == nil {
		return response
	}
	if full {
		response.WeatherData = model.WeatherDetail{Timestamp: city.Weather.Timestamp, MainData: city.Weather.MainData}
	} else {
		response.WeatherData = model.WeatherSummary{Temp: city.Weather.Temp, FeelsLike: city.Weather.FeelsLike, Humidity: city.Weather.Humidity}
	}
	return response
}
