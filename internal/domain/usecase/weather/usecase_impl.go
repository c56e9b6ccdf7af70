package weather

import (
	"context"
	"fmt"
	"strings"

	"weather-api/internal/domain/entity"
	"weather-api/internal/domain/gateway/api"
	"weather-api/internal/domain/gateway/db"
	"weather-api/internal/domain/model"
	"weather-api/pkg/apperror"
)

type weatherUseCase struct {
	apiGateway api.WeatherGateway
	dbGateway  db.CityGateway
}

func NewWeatherUseCase(apiGateway api.WeatherGateway, dbGateway db.CityGateway) UseCase {
	return &weatherUseCase{
		apiGateway: apiGateway,
		dbGateway:  dbGateway,
	}
}

// GetCurrentWeather uses the stored city when there is one so defaults keep its id
func (uc *weatherUseCase) GetCurrentWeather(ctx context.Context, name string) (model.UnifiedCurrentWeather, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.UnifiedCurrentWeather{}, apperror.BadRequest("city is required")
	}

	city := entity.City{Name: name}
	stored, err := uc.dbGateway.FindByName(ctx, name)
	if err != nil {
		return model.UnifiedCurrentWeather{}, fmt.Errorf("failed to find city by name: %w", err)
	}
	if stored != nil {
		city.ID = stored.ID
	}

	return uc.apiGateway.GetCurrentWeather(ctx, city)
}
