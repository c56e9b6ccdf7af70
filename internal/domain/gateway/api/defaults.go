package api

import (
	"time"

	"weather-api/internal/domain/entity"
	"weather-api/internal/domain/model"
)

const (
	dateLayout       = "2006-01-02"
	historyDays      = 7
	defaultCountry   = "N/A"
	defaultTimezone  = "UTC"
	conditionMissing = "Weather data unavailable"
	defaultIcon      = "01d"
	unavailableMain  = "Unavailable"
)

// unknownCondition fills a successful response that carries no weather conditions.
func unknownCondition() model.WeatherCondition {
	return model.WeatherCondition{ID: 0, Main: "Unknown", Description: conditionMissing, Icon: defaultIcon}
}

// DefaultCurrentWeather is served when the upstream failed and nothing is cached.
func DefaultCurrentWeather(city entity.City, now time.Time) model.UnifiedCurrentWeather {
	now = now.UTC()
	return model.UnifiedCurrentWeather{
		BaseInfo: model.BaseInfo{
			LocationName: city.Name,
			LocationID:   city.ID,
			Country:      defaultCountry,
			Timezone:     defaultTimezone,
			Date:         now.Format(dateLayout),
			Datetime:     now.Unix(),
			Units:        model.UnitsMetric,
		},
		Weather: []model.WeatherCondition{
			{ID: 0, Main: unavailableMain, Description: conditionMissing, Icon: defaultIcon},
		},
	}
}

// IsDefaultCurrentWeather reports whether w is the placeholder built by DefaultCurrentWeather.
func IsDefaultCurrentWeather(w model.UnifiedCurrentWeather) bool {
	return len(w.Weather) == 1 && w.Weather[0].Main == unavailableMain && w.Weather[0].Description == conditionMissing
}

// DefaultLast7DaysWeather returns seven zeroed summaries, one per requested date.
func DefaultLast7DaysWeather(city entity.City, now time.Time) []model.UnifiedDaySummary {
	dates := lastDates(now, historyDays)
	days := make([]model.UnifiedDaySummary, len(dates))
	for i, date := range dates {
		days[i] = model.UnifiedDaySummary{
			BaseInfo: model.BaseInfo{
				LocationName: city.Name,
				LocationID:   city.ID,
				Country:      defaultCountry,
				Timezone:     defaultTimezone,
				Date:         date,
				Datetime:     dateUnix(date),
				Units:        model.UnitsMetric,
			},
		}
	}
	return days
}

// lastDates returns n UTC calendar dates starting today and going back, newest first.
func lastDates(now time.Time, n int) []string {
	now = now.UTC()
	dates := make([]string, n)
	for i := range dates {
		dates[i] = now.AddDate(0, 0, -i).Format(dateLayout)
	}
	return dates
}

// dateUnix returns the unix time of midnight UTC of date, or 0 when it does not parse.
func dateUnix(date string) int64 {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return 0
	}
	return t.Unix()
}

func valueOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}

func stringOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
