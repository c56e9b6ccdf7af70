package model

// Measurement units accepted by the weather providers.
const (
	UnitsMetric   = "metric"
	UnitsImperial = "imperial"
	UnitsStandard = "standard"
)

// WeatherCondition is one entry of the weather conditions list.
type WeatherCondition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// Coordinates is the first geocoding match for a city name.
type Coordinates struct {
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Country string  `json:"country"`
}

// BaseInfo holds the location and time fields shared by every unified payload.
type BaseInfo struct {
	Lat            float64 `json:"lat"`
	Lon            float64 `json:"lon"`
	LocationName   string  `json:"location_name"`
	LocationID     int64   `json:"location_id"`
	Country        string  `json:"country"`
	Timezone       string  `json:"timezone"`
	TimezoneOffset int64   `json:"timezone_offset"`
	Date           string  `json:"date"`
	Datetime       int64   `json:"datetime"`
	Sunrise        int64   `json:"sunrise"`
	Sunset         int64   `json:"sunset"`
	Units          string  `json:"units"`
}

// UnifiedCurrentWeather is the provider-independent current weather. Every field is always set.
type UnifiedCurrentWeather struct {
	BaseInfo
	Temp       float64            `json:"temp"`
	FeelsLike  float64            `json:"feels_like"`
	Pressure   float64            `json:"pressure"`
	Humidity   float64            `json:"humidity"`
	DewPoint   float64            `json:"dew_point"`
	UVI        float64            `json:"uvi"`
	Clouds     float64            `json:"clouds"`
	Visibility float64            `json:"visibility"`
	WindSpeed  float64            `json:"wind_speed"`
	WindDeg    float64            `json:"wind_deg"`
	WindGust   float64            `json:"wind_gust"`
	Weather    []WeatherCondition `json:"weather"`
}

type Afternoon struct {
	Afternoon float64 `json:"afternoon"`
}

type Total struct {
	Total float64 `json:"total"`
}

type DayTemperature struct {
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
	Afternoon float64 `json:"afternoon"`
	Night     float64 `json:"night"`
	Evening   float64 `json:"evening"`
	Morning   float64 `json:"morning"`
}

type MaxWind struct {
	Max WindSample `json:"max"`
}

type WindSample struct {
	Speed     float64 `json:"speed"`
	Direction float64 `json:"direction"`
}

// UnifiedDaySummary is the provider-independent aggregate of one calendar day.
type UnifiedDaySummary struct {
	BaseInfo
	CloudCover    Afternoon      `json:"cloud_cover"`
	Humidity      Afternoon      `json:"humidity"`
	Precipitation Total          `json:"precipitation"`
	Pressure      Afternoon      `json:"pressure"`
	Temperature   DayTemperature `json:"temperature"`
	Wind          MaxWind        `json:"wind"`
}
