package external

import "weather-api/internal/domain/model"

// APIErrorResponse is the error body of every OpenWeatherMap endpoint.
// Cod is a number or a string depending on the endpoint.
type APIErrorResponse struct {
	Cod     any    `json:"cod"`
	Message string `json:"message"`
}

// OWMv2CurrentWeatherResponse is the body of GET /data/2.5/weather.
type OWMv2CurrentWeatherResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Coord struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"coord"`
	Weather []model.WeatherCondition `json:"weather"`
	Main    struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Pressure  float64 `json:"pressure"`
		Humidity  float64 `json:"humidity"`
	} `json:"main"`
	Visibility float64 `json:"visibility"`
	Wind       struct {
		Speed float64 `json:"speed"`
		Deg   float64 `json:"deg"`
		Gust  float64 `json:"gust"`
	} `json:"wind"`
	Clouds struct {
		All float64 `json:"all"`
	} `json:"clouds"`
	Dt  int64 `json:"dt"`
	Sys struct {
		Country string `json:"country"`
		Sunrise int64  `json:"sunrise"`
		Sunset  int64  `json:"sunset"`
	} `json:"sys"`
	Timezone int64 `json:"timezone"`
}

// OWMv3CurrentWeatherResponse is the body of GET /data/3.0/onecall with everything but current excluded.
type OWMv3CurrentWeatherResponse struct {
	Lat            float64 `json:"lat"`
	Lon            float64 `json:"lon"`
	Timezone       string  `json:"timezone"`
	TimezoneOffset int64   `json:"timezone_offset"`
	Current        struct {
		Dt         int64                    `json:"dt"`
		Sunrise    int64                    `json:"sunrise"`
		Sunset     int64                    `json:"sunset"`
		Temp       float64                  `json:"temp"`
		FeelsLike  float64                  `json:"feels_like"`
		Pressure   float64                  `json:"pressure"`
		Humidity   float64                  `json:"humidity"`
		DewPoint   *float64                 `json:"dew_point"`
		UVI        *float64                 `json:"uvi"`
		Clouds     float64                  `json:"clouds"`
		Visibility float64                  `json:"visibility"`
		WindSpeed  float64                  `json:"wind_speed"`
		WindDeg    float64                  `json:"wind_deg"`
		WindGust   *float64                 `json:"wind_gust"`
		Weather    []model.WeatherCondition `json:"weather"`
	} `json:"current"`
}

// OWMv3DaySummaryResponse is the body of GET /data/3.0/onecall/day_summary.
// Every block is optional in practice, hence the pointers.
type OWMv3DaySummaryResponse struct {
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	Tz         string  `json:"tz"`
	Date       string  `json:"date"`
	Units      string  `json:"units"`
	CloudCover *struct {
		Afternoon *float64 `json:"afternoon"`
	} `json:"cloud_cover"`
	Humidity *struct {
		Afternoon *float64 `json:"afternoon"`
	} `json:"humidity"`
	Precipitation *struct {
		Total *float64 `json:"total"`
	} `json:"precipitation"`
	Pressure *struct {
		Afternoon *float64 `json:"afternoon"`
	} `json:"pressure"`
	Temperature *struct {
		Min       *float64 `json:"min"`
		Max       *float64 `json:"max"`
		Afternoon *float64 `json:"afternoon"`
		Night     *float64 `json:"night"`
		Evening   *float64 `json:"evening"`
		Morning   *float64 `json:"morning"`
	} `json:"temperature"`
	Wind *struct {
		Max *struct {
			Speed     *float64 `json:"speed"`
			Direction *float64 `json:"direction"`
		} `json:"max"`
	} `json:"wind"`
}

// GeocodingResult is one entry of GET /geo/1.0/direct.
type GeocodingResult struct {
	Name    string  `json:"name"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Country string  `json:"country"`
	State   string  `json:"state"`
}
