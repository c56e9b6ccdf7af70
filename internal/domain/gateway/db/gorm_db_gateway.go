package db

import (
	"context"
	"strconv"
	"time"

	"gorm.io/gorm"

	"weather-api/internal/domain/model"
)

type GormHealthDBGateway struct {
	DB *gorm.DB
}

var _ HealthDBGateway = (*GormHealthDBGateway)(nil)

func NewGormHealthDBGateway(db *gorm.DB) *GormHealthDBGateway {
	return &GormHealthDBGateway{DB: db}
}

func (gateway *GormHealthDBGateway) Health(ctx context.Context) model.ComponentHealthStatus {
	if gateway.DB == nil {
		return model.ComponentHealthStatus{
			Status:  model.StatusDown,
			Details: map[string]string{"message": "database not configured"},
		}
	}

	sqlDB, err := gateway.DB.DB()
	if err != nil {
		return down(err)
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err = sqlDB.PingContext(ctx); err != nil {
		return down(err)
	}

	stats := sqlDB.Stats()
	return model.ComponentHealthStatus{
		Status: model.StatusUp,
		Details: map[string]string{
			"message":          string(model.StatusUp),
			"open_connections": strconv.Itoa(stats.OpenConnections),
			"in_use":           strconv.Itoa(stats.InUse),
		},
	}
}

func down(err error) model.ComponentHealthStatus {
	return model.ComponentHealthStatus{
		Status: model.StatusDown,
		Details: map[string]string{
			"message": err.Error(),
		},
	}
}
