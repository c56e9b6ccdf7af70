package model

import (
	"encoding/json"
	"time"
)

// CreateCityDTO is the body of POST /cities.
type CreateCityDTO struct {
	Name string `json:"name" validate:"required,min=1,max=120"`
}

// WeatherSummary is the compact snapshot returned by default city listings.
type WeatherSummary struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	Humidity  float64 `json:"humidity"`
}

// WeatherDetail is the snapshot returned by GET /cities/weather.
type WeatherDetail struct {
	Timestamp time.Time       `json:"timestamp"`
	MainData  json.RawMessage `json:"mainData" swaggertype:"object"`
}

// CityResponse is a city with either a summary or a detailed snapshot.
type CityResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	WeatherData any    `json:"weatherData"`
}
