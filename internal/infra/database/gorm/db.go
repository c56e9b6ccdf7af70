package gorm

import (
	"database/sql"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"weather-api/internal/domain/entity"
)

// Open wraps an existing connection pool so health checks and migrations share it.
// The pool is not pinged; an unreachable database is reported by the health check.
func Open(conn *sql.DB) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: conn}), &gorm.Config{
		Logger:               logger.Default.LogMode(logger.Warn),
		DisableAutomaticPing: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm: %w", err)
	}
	return db, nil
}

// Migrate creates or updates the cities and weather_snapshots tables
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&entity.City{}, &entity.WeatherSnapshot{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
