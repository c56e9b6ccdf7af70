package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"weather-api/internal/domain/entity"
)

const uniqueViolation = "23505"

const selectCityWithSnapshot = `
	SELECT c.id, c.name, c.created_at,
		s.id, s.timestamp, s.temp, s.feels_like, s.humidity, s.main_data
	FROM cities c
	LEFT JOIN weather_snapshots s ON s.city_id = c.id`

type SQLCCityGateway struct {
	DB *sql.DB
}

var _ CityGateway = (*SQLCCityGateway)(nil)

func NewSQLCCityGateway(db *sql.DB) *SQLCCityGateway {
	return &SQLCCityGateway{DB: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanCity reads one row of selectCityWithSnapshot; the snapshot is nil when the join found none.
func scanCity(row rowScanner) (*entity.City, error) {
	var (
		city       entity.City
		snapshotID sql.NullString
		timestamp  sql.NullTime
		temp       sql.NullFloat64
		feelsLike  sql.NullFloat64
		humidity   sql.NullFloat64
		mainData   []byte
	)
	if err := row.Scan(&city.ID, &city.Name, &city.CreatedAt,
		&snapshotID, &timestamp, &temp, &feelsLike, &humidity, &mainData); err != nil {
		return nil, err
	}

	if snapshotID.Valid {
		city.Weather = &entity.WeatherSnapshot{
			ID:        snapshotID.String,
			Timestamp: timestamp.Time,
			Temp:      temp.Float64,
			FeelsLike: feelsLike.Float64,
			Humidity:  humidity.Float64,
			MainData:  mainData,
			CityID:    city.ID,
		}
	}
	return &city, nil
}

// FindAll retrieves all cities with their snapshot
func (gateway *SQLCCityGateway) FindAll(ctx context.Context) ([]entity.City, error) {
	rows, err := gateway.DB.QueryContext(ctx, selectCityWithSnapshot+" ORDER BY c.id ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cities := make([]entity.City, 0)
	for rows.Next() {
		city, err := scanCity(rows)
		if err != nil {
			return nil, err
		}
		cities = append(cities, *city)
	}
	return cities, rows.Err()
}

// FindByID finds a city by ID
func (gateway *SQLCCityGateway) FindByID(ctx context.Context, id int64) (*entity.City, error) {
	return gateway.findOne(ctx, selectCityWithSnapshot+" WHERE c.id = $1", id)
}

// FindByName finds a city by its exact name
func (gateway *SQLCCityGateway) FindByName(ctx context.Context, name string) (*entity.City, error) {
	return gateway.findOne(ctx, selectCityWithSnapshot+" WHERE c.name = $1", name)
}

func (gateway *SQLCCityGateway) findOne(ctx context.Context, query string, arg any) (*entity.City, error) {
	city, err := scanCity(gateway.DB.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return city, nil
}

// Create creates a new city together with its first snapshot
func (gateway *SQLCCityGateway) Create(ctx context.Context, city entity.City, snapshot entity.WeatherSnapshot) (*entity.City, error) {
	tx, err := gateway.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	city.CreatedAt = time.Now().UTC()

	if city.ID > 0 {
		err = tx.QueryRowContext(ctx, `
			INSERT INTO cities (id, name, created_at)
			VALUES ($1, $2, $3)
			RETURNING id`,
			city.ID, city.Name, city.CreatedAt).Scan(&city.ID)
	} else {
		err = tx.QueryRowContext(ctx, `
			INSERT INTO cities (name, created_at)
			VALUES ($1, $2)
			RETURNING id`,
			city.Name, city.CreatedAt).Scan(&city.ID)
	}
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, fmt.Errorf("%w: %s", ErrCityExists, city.Name)
		}
		return nil, err
	}

	stored, err := insertSnapshot(ctx, tx, city.ID, snapshot)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	city.Weather = stored
	return &city, nil
}

// Delete deletes a city by ID; its snapshot goes with it through ON DELETE CASCADE
func (gateway *SQLCCityGateway) Delete(ctx context.Context, id int64) (*entity.City, error) {
	var city entity.City
	err := gateway.DB.QueryRowContext(ctx, `
		DELETE FROM cities
		WHERE id = $1
		RETURNING id, name, created_at`, id).
		Scan(&city.ID, &city.Name, &city.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &city, nil
}

// ReplaceSnapshot keeps at most one snapshot per city
func (gateway *SQLCCityGateway) ReplaceSnapshot(ctx context.Context, cityID int64, snapshot entity.WeatherSnapshot) (*entity.WeatherSnapshot, error) {
	tx, err := gateway.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM weather_snapshots WHERE city_id = $1`, cityID); err != nil {
		return nil, err
	}

	stored, err := insertSnapshot(ctx, tx, cityID, snapshot)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return stored, nil
}

func insertSnapshot(ctx context.Context, tx *sql.Tx, cityID int64, snapshot entity.WeatherSnapshot) (*entity.WeatherSnapshot, error) {
	if snapshot.ID == "" {
		snapshot.ID = uuid.New().String()
	}
	if snapshot.Timestamp.IsZero() {
		snapshot.Timestamp = time.Now().UTC()
	}
	if len(snapshot.MainData) == 0 {
		snapshot.MainData = []byte("{}")
	}
	snapshot.CityID = cityID

	_, err := tx.ExecContext(ctx, `
		INSERT INTO weather_snapshots (id, timestamp, temp, feels_like, humidity, main_data, city_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		snapshot.ID, snapshot.Timestamp, snapshot.Temp, snapshot.FeelsLike, snapshot.Humidity,
		[]byte(snapshot.MainData), snapshot.CityID)
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}
