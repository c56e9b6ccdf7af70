package entity

import (
	"encoding/json"
	"time"
)

// City is a monitored location. ID comes from the weather provider when it supplies one.
type City struct {
	ID        int64            `json:"id" gorm:"primaryKey;autoIncrement"`
	Name      string           `json:"name" gorm:"uniqueIndex;not null"`
	CreatedAt time.Time        `json:"createdAt"`
	Weather   *WeatherSnapshot `json:"weatherData,omitempty" gorm:"foreignKey:CityID;constraint:OnDelete:CASCADE"`
}

// WeatherSnapshot is the latest stored current weather of a city; MainData holds the full unified payload.
type WeatherSnapshot struct {
	ID        string          `json:"id" gorm:"type:uuid;primaryKey"`
	Timestamp time.Time       `json:"timestamp"`
	Temp      float64         `json:"temp"`
	FeelsLike float64         `json:"feels_like"`
	Humidity  float64         `json:"humidity"`
	MainData  json.RawMessage `json:"mainData" gorm:"type:jsonb"`
	CityID    int64           `json:"cityId" gorm:"uniqueIndex;not null"`
}

func (WeatherSnapshot) TableName() string {
	return "weather_snapshots"
}
