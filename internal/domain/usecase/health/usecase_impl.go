package health

import (
	"context"

	"weather-api/internal/domain/gateway/api"
	"weather-api/internal/domain/gateway/cache"
	"weather-api/internal/domain/gateway/db"
	"weather-api/internal/domain/gateway/queue"
	"weather-api/internal/domain/model"
)

type healthUseCase struct {
	dbGateway       db.HealthDBGateway
	cacheGateway    cache.HealthGateway
	queueGateway    queue.HealthGateway
	upstreamGateway api.HealthGateway
}

func NewHealthUseCase(dbGateway db.HealthDBGateway, cacheGateway cache.HealthGateway, queueGateway queue.HealthGateway, upstreamGateway api.HealthGateway) UseCase {
	return &healthUseCase{
		dbGateway:       dbGateway,
		cacheGateway:    cacheGateway,
		queueGateway:    queueGateway,
		upstreamGateway: upstreamGateway,
	}
}

// CheckHealth is DOWN when the database or the cache is down. A stopped queue worker or an
// open breaker is reported but does not fail the application, since lookups degrade instead.
func (useCase *healthUseCase) CheckHealth(ctx context.Context) model.HealthResponse {
	dbHealth := useCase.dbGateway.Health(ctx)
	cacheHealth := useCase.cacheGateway.Health(ctx)
	queueHealth := useCase.queueGateway.Health()
	upstreamHealth := useCase.upstreamGateway.Health()

	overallStatus := model.StatusUp
	if dbHealth.Status != model.StatusUp || cacheHealth.Status != model.StatusUp {
		overallStatus = model.StatusDown
	}

	return model.HealthResponse{
		Status:    overallStatus,
		Database:  dbHealth,
		Cache:     cacheHealth,
		Queue:     queueHealth,
		Upstreams: upstreamHealth,
	}
}
