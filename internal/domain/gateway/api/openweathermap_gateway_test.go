package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weather-api/internal/domain/entity"
	"weather-api/internal/domain/model"
	"weather-api/pkg/apperror"
	"weather-api/pkg/cache"
	httpclient "weather-api/pkg/http"
	"weather-api/pkg/resilience/breaker"
	"weather-api/pkg/resilience/fetcher"
	"weather-api/pkg/resilience/retry"
)

var fixedNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

const (
	v2Body = `{
		"id": 2759794, "name": "Amsterdam",
		"coord": {"lat": 52.37, "lon": 4.89},
		"weather": [
			{"id": 500, "main": "Rain", "description": "light rain", "icon": "10d"},
			{"id": 701, "main": "Mist", "description": "mist", "icon": "50d"}
		],
		"main": {"temp": 14.2, "feels_like": 13.1, "pressure": 1012, "humidity": 81},
		"visibility": 9000,
		"wind": {"speed": 5.1, "deg": 240},
		"clouds": {"all": 75},
		"dt": 1749988800,
		"sys": {"country": "NL", "sunrise": 1749958000, "sunset": 1750018000}
	}`
	geoBody = `[{"name": "Amsterdam", "lat": 52.37, "lon": 4.89, "country": "NL"}]`
	v3Body  = `{
		"lat": 52.37, "lon": 4.89, "timezone": "Europe/Amsterdam", "timezone_offset": 7200,
		"current": {
			"dt": 1749988800, "sunrise": 1749958000, "sunset": 1750018000,
			"temp": 15.5, "feels_like": 14.9, "pressure": 1015, "humidity": 70,
			"uvi": 4.2, "clouds": 40, "visibility": 10000, "wind_speed": 3.6, "wind_deg": 200,
			"weather": []
		}
	}`
	daySummaryBody = `{
		"lat": 52.37, "lon": 4.89, "tz": "+02:00", "date": "%s", "units": "metric",
		"cloud_cover": {"afternoon": 20},
		"humidity": {"afternoon": 60},
		"precipitation": {"total": 1.5},
		"pressure": {"afternoon": 1010},
		"temperature": {"min": 10, "max": 20, "afternoon": 18, "night": 11, "morning": 12},
		"wind": {"max": {"speed": 8, "direction": 250}}
	}`
)

// fakeOWM serves the OpenWeatherMap endpoints used by the gateways and counts calls per path.
type fakeOWM struct {
	mu        sync.Mutex
	calls     map[string]int
	queries   map[string][]string
	handlers  map[string]http.HandlerFunc
	failDates map[string]bool
}

func newFakeOWM(t *testing.T) (*fakeOWM, *httptest.Server) {
	f := &fakeOWM{
		calls:     map[string]int{},
		queries:   map[string][]string{},
		handlers:  map[string]http.HandlerFunc{},
		failDates: map[string]bool{},
	}
	f.handle("/data/2.5/weather", http.StatusOK, v2Body)
	f.handle("/geo/1.0/direct", http.StatusOK, geoBody)
	f.handle("/data/3.0/onecall", http.StatusOK, v3Body)
	f.handlers["/data/3.0/onecall/day_summary"] = func(w http.ResponseWriter, r *http.Request) {
		date := r.URL.Query().Get("date")
		w.Header().Set("Content-Type", "application/json")
		f.mu.Lock()
		failing := f.failDates[date]
		f.mu.Unlock()
		if failing {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"cod": 500, "message": "internal error"}`))
			return
		}
		_, _ = w.Write([]byte(fmt.Sprintf(daySummaryBody, date)))
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.calls[r.URL.Path]++
		f.queries[r.URL.Path] = append(f.queries[r.URL.Path], r.URL.RawQuery)
		handler, ok := f.handlers[r.URL.Path]
		f.mu.Unlock()
		if !ok {
			http.NotFound(w, r)
			return
		}
		handler(w, r)
	}))
	t.Cleanup(server.Close)
	return f, server
}

func (f *fakeOWM) handle(path string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[path] = func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func (f *fakeOWM) count(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[path]
}

func (f *fakeOWM) lastQuery(path string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	q := f.queries[path]
	if len(q) == 0 {
		return ""
	}
	return q[len(q)-1]
}

func newTestFetcher(name, baseURL string, clock clockwork.Clock) *fetcher.Fetcher {
	bcfg := breaker.DefaultConfig(name)
	bcfg.MinRequests = 1000
	return fetcher.New(name,
		httpclient.NewHttpClient(baseURL, httpclient.ClientOptions{}),
		breaker.New(bcfg),
		cache.NewMemoryStore(clock),
		fetcher.Config{
			CacheTTL: time.Hour,
			StaleTTL: 24 * time.Hour,
			Retry: retry.Policy{
				MaxRetries:   1,
				InitialDelay: time.Millisecond,
				Factor:       2,
				Sleep:        func(context.Context, time.Duration) error { return nil },
			},
			NotFound: fetcher.MessageContains("city not found"),
		},
		fetcher.WithClock(clock))
}

type gateways struct {
	v2        WeatherGateway
	v3        WeatherGateway
	geocoding GeocodingGateway
}

func newGateways(serverURL string) gateways {
	clock := clockwork.NewFakeClockAt(fixedNow)
	cfg := ProviderConfig{APIKey: "secret", Clock: clock}
	geocoding := NewGeocodingGateway(newTestFetcher("geocoding", serverURL, clock), cfg.APIKey)
	weather := newTestFetcher("weather", serverURL, clock)
	return gateways{
		v2:        NewOpenWeatherMapV2Gateway(weather, cfg),
		v3:        NewOpenWeatherMapV3Gateway(weather, geocoding, cfg),
		geocoding: geocoding,
	}
}

func TestV2_GetCurrentWeatherTransformsResponse(t *testing.T) {
	owm, server := newFakeOWM(t)
	gw := newGateways(server.URL)

	got, err := gw.v2.GetCurrentWeather(context.Background(), entity.City{Name: "Amsterdam"})

	require.NoError(t, err)
	assert.Equal(t, "appid=secret&q=Amsterdam&units=metric", owm.lastQuery("/data/2.5/weather"))
	assert.Equal(t, int64(2759794), got.LocationID)
	assert.Equal(t, "Amsterdam", got.LocationName)
	assert.Equal(t, 52.37, got.Lat)
	assert.Equal(t, "NL", got.Country)
	assert.Equal(t, "N/A", got.Timezone)
	assert.Equal(t, "2025-06-15", got.Date)
	assert.Equal(t, int64(1749988800), got.Datetime)
	assert.Equal(t, 14.2, got.Temp)
	assert.Equal(t, 81.0, got.Humidity)
	assert.Zero(t, got.DewPoint)
	assert.Zero(t, got.UVI)
	assert.Equal(t, 75.0, got.Clouds)
	require.Len(t, got.Weather, 1)
	assert.Equal(t, "Rain", got.Weather[0].Main)
}

func TestV2_GetCurrentWeatherFillsMissingFields(t *testing.T) {
	owm, server := newFakeOWM(t)
	owm.handle("/data/2.5/weather", http.StatusOK, `{"coord": {"lat": 1, "lon": 2}, "main": {"temp": 3}}`)
	gw := newGateways(server.URL)

	got, err := gw.v2.GetCurrentWeather(context.Background(), entity.City{ID: 7, Name: "Nowhere"})

	require.NoError(t, err)
	assert.Equal(t, int64(7), got.LocationID)
	assert.Equal(t, "N/A", got.Country)
	assert.Equal(t, 3.0, got.Temp)
	require.Len(t, got.Weather, 1)
	assert.Equal(t, unknownCondition(), got.Weather[0])
	assert.Equal(t, "Weather data unavailable", got.Weather[0].Description)
}

func TestV2_GetCurrentWeatherCityNotFound(t *testing.T) {
	owm, server := newFakeOWM(t)
	owm.handle("/data/2.5/weather", http.StatusNotFound, `{"cod": "404", "message": "city not found"}`)
	gw := newGateways(server.URL)

	_, err := gw.v2.GetCurrentWeather(context.Background(), entity.City{Name: "Atlantis"})

	require.Error(t, err)
	assert.True(t, fetcher.IsNotFound(err))
	assert.Equal(t, "City not found: Atlantis", err.Error())
	assert.Equal(t, http.StatusNotFound, apperror.StatusOf(err))
	assert.Equal(t, 1, owm.count("/data/2.5/weather"))
}

func TestV2_GetCurrentWeatherDefaultsOnFailure(t *testing.T) {
	owm, server := newFakeOWM(t)
	owm.handle("/data/2.5/weather", http.StatusServiceUnavailable, `{"message": "down"}`)
	gw := newGateways(server.URL)

	got, err := gw.v2.GetCurrentWeather(context.Background(), entity.City{Name: "Lisbon"})

	require.NoError(t, err)
	assert.Equal(t, "Lisbon", got.LocationName)
	assert.Equal(t, "N/A", got.Country)
	assert.Equal(t, "UTC", got.Timezone)
	assert.Equal(t, "metric", got.Units)
	assert.Equal(t, "2025-06-15", got.Date)
	assert.Equal(t, fixedNow.Unix(), got.Datetime)
	assert.Zero(t, got.Temp)
	assert.Zero(t, got.FeelsLike)
	assert.Zero(t, got.Humidity)
	assert.Zero(t, got.Lat)
	require.Len(t, got.Weather, 1)
	assert.Equal(t, "Unavailable", got.Weather[0].Main)
	assert.True(t, IsDefaultCurrentWeather(got))
	assert.Equal(t, 2, owm.count("/data/2.5/weather"))
}

func TestV2_GetLast7DaysWeatherNotImplemented(t *testing.T) {
	_, server := newFakeOWM(t)
	gw := newGateways(server.URL)

	days, err := gw.v2.GetLast7DaysWeather(context.Background(), entity.City{Name: "Amsterdam"})

	assert.Nil(t, days)
	assert.ErrorIs(t, err, ErrNotImplemented)
	assert.Equal(t, http.StatusNotImplemented, apperror.StatusOf(err))
}

func TestV3_GetCurrentWeatherGeocodesFirst(t *testing.T) {
	owm, server := newFakeOWM(t)
	gw := newGateways(server.URL)

	got, err := gw.v3.GetCurrentWeather(context.Background(), entity.City{ID: 42, Name: "Amsterdam"})

	require.NoError(t, err)
	assert.Equal(t, "appid=secret&limit=1&q=Amsterdam", owm.lastQuery("/geo/1.0/direct"))
	assert.Equal(t,
		"appid=secret&exclude=minutely%2Chourly%2Cdaily%2Calerts&lat=52.37&lon=4.89&units=metric",
		owm.lastQuery("/data/3.0/onecall"))
	assert.Equal(t, int64(42), got.LocationID)
	assert.Equal(t, "NL", got.Country)
	assert.Equal(t, "Europe/Amsterdam", got.Timezone)
	assert.Equal(t, int64(7200), got.TimezoneOffset)
	assert.Equal(t, 15.5, got.Temp)
	assert.Equal(t, 4.2, got.UVI)
	assert.Zero(t, got.DewPoint)
	require.Len(t, got.Weather, 1)
	assert.Equal(t, "Unknown", got.Weather[0].Main)
}

func TestV3_GeocodingIsCachedAcrossLookups(t *testing.T) {
	owm, server := newFakeOWM(t)
	gw := newGateways(server.URL)
	ctx := context.Background()
	city := entity.City{Name: "Amsterdam"}

	_, err := gw.v3.GetCurrentWeather(ctx, city)
	require.NoError(t, err)
	_, err = gw.v3.GetLast7DaysWeather(ctx, city)
	require.NoError(t, err)
	_, err = gw.v3.GetCurrentWeather(ctx, city)
	require.NoError(t, err)

	assert.Equal(t, 1, owm.count("/geo/1.0/direct"))
	assert.Equal(t, 1, owm.count("/data/3.0/onecall"))
	assert.Equal(t, 7, owm.count("/data/3.0/onecall/day_summary"))
}

func TestV3_EvictRefetchesWeatherButKeepsCoordinates(t *testing.T) {
	owm, server := newFakeOWM(t)
	gw := newGateways(server.URL)
	ctx := context.Background()
	city := entity.City{Name: "Amsterdam"}

	_, err := gw.v3.GetCurrentWeather(ctx, city)
	require.NoError(t, err)
	_, err = gw.v3.GetLast7DaysWeather(ctx, city)
	require.NoError(t, err)

	require.NoError(t, gw.v3.Evict(ctx, city))

	_, err = gw.v3.GetCurrentWeather(ctx, city)
	require.NoError(t, err)
	_, err = gw.v3.GetLast7DaysWeather(ctx, city)
	require.NoError(t, err)

	assert.Equal(t, 1, owm.count("/geo/1.0/direct"))
	assert.Equal(t, 2, owm.count("/data/3.0/onecall"))
	assert.Equal(t, 14, owm.count("/data/3.0/onecall/day_summary"))
}

func TestV2_EvictRefetchesWeather(t *testing.T) {
	owm, server := newFakeOWM(t)
	gw := newGateways(server.URL)
	ctx := context.Background()
	city := entity.City{Name: "London"}

	_, err := gw.v2.GetCurrentWeather(ctx, city)
	require.NoError(t, err)
	require.NoError(t, gw.v2.Evict(ctx, city))
	_, err = gw.v2.GetCurrentWeather(ctx, city)
	require.NoError(t, err)

	assert.Equal(t, 2, owm.count("/data/2.5/weather"))
}

func TestV3_GetCurrentWeatherDegradesWhenGeocodingIsEmpty(t *testing.T) {
	owm, server := newFakeOWM(t)
	owm.handle("/geo/1.0/direct", http.StatusOK, `[]`)
	gw := newGateways(server.URL)

	got, err := gw.v3.GetCurrentWeather(context.Background(), entity.City{Name: "Qwerty"})

	require.NoError(t, err)
	assert.Equal(t, "Qwerty", got.LocationName)
	assert.Equal(t, "Unavailable", got.Weather[0].Main)
	assert.Zero(t, owm.count("/data/3.0/onecall"))
}

func TestV3_GetLast7DaysWeatherPartialSuccess(t *testing.T) {
	owm, server := newFakeOWM(t)
	owm.failDates["2025-06-13"] = true
	owm.failDates["2025-06-10"] = true
	gw := newGateways(server.URL)

	days, err := gw.v3.GetLast7DaysWeather(context.Background(), entity.City{ID: 5, Name: "Amsterdam"})

	require.NoError(t, err)
	dates := make([]string, len(days))
	for i, d := range days {
		dates[i] = d.Date
	}
	assert.Equal(t, []string{"2025-06-15", "2025-06-14", "2025-06-12", "2025-06-11", "2025-06-09"}, dates)

	first := days[0]
	assert.Equal(t, int64(5), first.LocationID)
	assert.Equal(t, "UTC", first.Timezone)
	assert.Zero(t, first.TimezoneOffset)
	assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC).Unix(), first.Datetime)
	assert.Zero(t, first.Sunrise)
	assert.Equal(t, "metric", first.Units)
	assert.Equal(t, 18.0, first.Temperature.Afternoon)
	assert.Equal(t, 18.0, first.Temperature.Evening, "missing evening falls back to afternoon")
	assert.Equal(t, 1.5, first.Precipitation.Total)
	assert.Equal(t, 250.0, first.Wind.Max.Direction)
	// two failing dates, each tried twice
	assert.Equal(t, 5+2*2, owm.count("/data/3.0/onecall/day_summary"))
}

func TestV3_GetLast7DaysWeatherDefaultsWhenEveryDayFails(t *testing.T) {
	owm, server := newFakeOWM(t)
	owm.handle("/data/3.0/onecall/day_summary", http.StatusBadGateway, `{}`)
	gw := newGateways(server.URL)

	days, err := gw.v3.GetLast7DaysWeather(context.Background(), entity.City{ID: 9, Name: "Amsterdam"})

	require.NoError(t, err)
	require.Len(t, days, 7)
	assert.Equal(t, "2025-06-15", days[0].Date)
	assert.Equal(t, "2025-06-09", days[6].Date)
	for _, d := range days {
		assert.Equal(t, int64(9), d.LocationID)
		assert.Equal(t, "Amsterdam", d.LocationName)
		assert.Zero(t, d.Temperature.Max)
		assert.Zero(t, d.Humidity.Afternoon)
		assert.Equal(t, "N/A", d.Country)
	}
}

func TestV3_DayTransformDefaultsMissingBlocks(t *testing.T) {
	owm, server := newFakeOWM(t)
	owm.handlers["/data/3.0/onecall/day_summary"] = func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"temperature": {"min": 1}}`))
	}
	gw := newGateways(server.URL)

	days, err := gw.v3.GetLast7DaysWeather(context.Background(), entity.City{Name: "Sparse"})

	require.NoError(t, err)
	require.Len(t, days, 7)
	d := days[3]
	assert.Equal(t, "2025-06-12", d.Date, "requested date is used when the body omits it")
	assert.Equal(t, "metric", d.Units)
	assert.Equal(t, 1.0, d.Temperature.Min)
	assert.Zero(t, d.Temperature.Evening)
	assert.Zero(t, d.CloudCover.Afternoon)
	assert.Zero(t, d.Wind.Max.Speed)
}

func TestV3_DayTransformKeepsReportedEvening(t *testing.T) {
	owm, server := newFakeOWM(t)
	owm.handlers["/data/3.0/onecall/day_summary"] = func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"temperature": {"afternoon": 18, "evening": 14}}`))
	}
	gw := newGateways(server.URL)

	days, err := gw.v3.GetLast7DaysWeather(context.Background(), entity.City{Name: "Utrecht"})

	require.NoError(t, err)
	require.Len(t, days, 7)
	assert.Equal(t, 14.0, days[0].Temperature.Evening)
	assert.Equal(t, 18.0, days[0].Temperature.Afternoon)
}

func TestGeocoding_NoResult(t *testing.T) {
	owm, server := newFakeOWM(t)
	owm.handle("/geo/1.0/direct", http.StatusOK, `[]`)
	gw := newGateways(server.URL)

	_, err := gw.geocoding.GetCoordinates(context.Background(), "Qwerty")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoGeocodingResult)
	assert.False(t, fetcher.IsNotFound(err))
}

func TestDefaults_LastDatesAreNewestFirst(t *testing.T) {
	dates := lastDates(time.Date(2025, 3, 2, 23, 30, 0, 0, time.UTC), 3)

	assert.Equal(t, []string{"2025-03-02", "2025-03-01", "2025-02-28"}, dates)
	assert.Zero(t, dateUnix("not-a-date"))
}

func TestDefaults_IsDefaultCurrentWeather(t *testing.T) {
	assert.True(t, IsDefaultCurrentWeather(DefaultCurrentWeather(entity.City{Name: "Oslo"}, fixedNow)))

	transformed := model.UnifiedCurrentWeather{Weather: []model.WeatherCondition{unknownCondition()}}
	assert.False(t, IsDefaultCurrentWeather(transformed))
	assert.False(t, IsDefaultCurrentWeather(model.UnifiedCurrentWeather{}))
}
