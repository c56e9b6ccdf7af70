package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awssqs "github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"weather-api/configs"
	"weather-api/docs"
	"weather-api/internal/application/controller"
	"weather-api/internal/application/middleware"
	"weather-api/internal/application/schedule"
	"weather-api/internal/domain/gateway/api"
	"weather-api/internal/domain/gateway/cache"
	"weather-api/internal/domain/gateway/db"
	"weather-api/internal/domain/gateway/queue"
	"weather-api/internal/domain/usecase/city"
	"weather-api/internal/domain/usecase/health"
	"weather-api/internal/domain/usecase/weather"
	"weather-api/internal/infra/aws"
	"weather-api/internal/infra/database"
	"weather-api/internal/infra/database/gorm"
	"weather-api/internal/infra/database/sqlc"
	"weather-api/internal/infra/metrics"
	cachestore "weather-api/pkg/cache"
	httpclient "weather-api/pkg/http"
	"weather-api/pkg/log"
	"weather-api/pkg/msg"
	"weather-api/pkg/redis"
	"weather-api/pkg/resilience/breaker"
	"weather-api/pkg/resilience/fetcher"
	"weather-api/pkg/resilience/retry"
	"weather-api/pkg/resource"
)

const (
	weatherUpstream   = "openweathermap"
	geocodingUpstream = "geocoding"
	refreshWorkerName = "city-refresh"
)

// @title       Weather API
// @version     1.0
// @description Current and historical weather for stored cities, served through a cache with retry, circuit breaker and fallback.
// @BasePath    /weather-api

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	weatherConfig := configs.LoadWeatherConfig()
	if weatherConfig.APIKey == "" {
		log.Warn(msg.GetMessage("app.missing-api-key"))
	}
	weatherMetrics := metrics.NewWeatherMetrics(nil)

	// Init cache
	redisClient, store, cacheHealth := initCache(ctx, weatherConfig.CacheType)

	// Init upstream gateways
	weatherBreaker := newBreaker(weatherUpstream, weatherConfig, weatherMetrics)
	geocodingBreaker := newBreaker(geocodingUpstream, weatherConfig, weatherMetrics)

	fetcherConfig := fetcher.Config{
		CacheTTL: weatherConfig.CacheTTL,
		StaleTTL: weatherConfig.StaleTTL,
		Retry: retry.Policy{
			MaxRetries:   weatherConfig.MaxRetries,
			InitialDelay: weatherConfig.InitialRetryDelay,
			Factor:       weatherConfig.RetryFactor,
			MaxDelay:     weatherConfig.MaxRetryDelay,
		},
		NotFound: fetcher.MessageContains("city not found"),
		Dedupe:   weatherConfig.Dedupe,
	}
	geocodingConfig := fetcherConfig
	geocodingConfig.NotFound = nil

	weatherFetcher := fetcher.New(weatherUpstream, newHttpClient(weatherConfig.BaseURL, weatherConfig),
		weatherBreaker, store, fetcherConfig, fetcher.WithObserver(weatherMetrics))
	geocodingFetcher := fetcher.New(geocodingUpstream, newHttpClient(weatherConfig.GeocodingBaseURL, weatherConfig),
		geocodingBreaker, store, geocodingConfig, fetcher.WithObserver(weatherMetrics))

	providerConfig := api.ProviderConfig{APIKey: weatherConfig.APIKey, Units: weatherConfig.Units}
	var weatherGateway api.WeatherGateway
	switch weatherConfig.ProviderVersion {
	case configs.ProviderV2:
		weatherGateway = api.NewOpenWeatherMapV2Gateway(weatherFetcher, providerConfig)
	default:
		geocodingGateway := api.NewGeocodingGateway(geocodingFetcher, weatherConfig.APIKey)
		weatherGateway = api.NewOpenWeatherMapV3Gateway(weatherFetcher, geocodingGateway, providerConfig)
	}
	log.Info("Weather provider selected", zap.String("version", weatherConfig.ProviderVersion))
	upstreamHealth := api.NewUpstreamHealthGateway(weatherBreaker, geocodingBreaker)

	// Init database
	sqlDB := initDatabase(ctx)
	gormDB, err := gorm.Open(sqlDB)
	if err != nil {
		log.Fatal("Fail to init gorm", zap.Error(err))
	}
	cityGateway := db.NewSQLCCityGateway(sqlDB)
	dbHealth := db.NewGormHealthDBGateway(gormDB)
	if resource.GetBool("app.db.auto-migrate") {
		if err := gorm.Migrate(gormDB); err != nil {
			log.Error(msg.GetMessage("app.dependency-unavailable", "schema migration"), zap.Error(err))
		}
	}

	// Init queue
	queueHealth := queue.NewWorkerHealthGateway()
	queueName := resource.GetStringOrDefault("app.sqs.refresh-queue", "weather-city-refresh")
	var queueSender queue.Sender
	var sqsClient *awssqs.Client
	if resource.GetBool("app.sqs.enabled") {
		sqsClient, err = initSQS(ctx)
		if err != nil {
			log.Error(msg.GetMessage("app.dependency-unavailable", "SQS"), zap.Error(err))
		} else {
			queueSender = aws.NewSQSSenderAdapter(sqsClient)
		}
	}

	// Init UseCase
	cityUseCase := city.NewCityUseCase(queueName, queueSender, weatherGateway, cityGateway)
	weatherUseCase := weather.NewWeatherUseCase(weatherGateway, cityGateway)
	healthUseCase := health.NewHealthUseCase(dbHealth, cacheHealth, queueHealth, upstreamHealth)

	if sqsClient != nil {
		startRefreshWorker(ctx, sqsClient, queueName, cityUseCase, queueHealth)
	}

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	middleware.SetupRequestLogger(e)
	middleware.SetupErrorHandler(e)
	middleware.SetupValidator(e)

	contextPath := configs.Env.ContextPath
	docs.SwaggerInfo.BasePath = contextPath
	apiGroup := e.Group(contextPath)

	// Init Routes
	controller.NewHealthController(apiGroup, healthUseCase).InitHealthRoutes()
	controller.NewCityController(apiGroup, cityUseCase).InitCityRoutes()
	controller.NewWeatherController(apiGroup, weatherUseCase).InitWeatherRoutes()
	apiGroup.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	apiGroup.GET("/swagger/*", echoSwagger.WrapHandler)

	// Init Schedule
	scheduler, err := schedule.NewRefreshScheduler(cityUseCase, redisClient, schedule.RefreshSchedulerConfig{
		CronExpression:  resource.GetStringOrDefault("app.scheduler.refresh.cron", "CRON_TZ=Europe/Amsterdam 30 * * * *"),
		LockTTL:         resource.GetDurationOrDefault("app.scheduler.refresh.lock-ttl", 10*time.Minute),
		RefreshInterval: resource.GetDurationOrDefault("app.scheduler.refresh.refresh-interval", time.Minute),
		RunOnStartup:    resource.GetBool("app.scheduler.refresh.run-on-startup"),
	})
	if err != nil {
		log.Fatal("Fail to create refresh scheduler", zap.Error(err))
	}
	if err := scheduler.InitRefreshScheduleTasks(ctx); err != nil {
		log.Fatal("Fail to schedule weather refresh", zap.Error(err))
	}

	// Start Routes
	port := resource.GetStringOrDefault("app.server.port", configs.Env.Port)
	go func() {
		log.Info(msg.GetMessage("app.started", port))
		if err := e.Start(":" + port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Fail to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info(msg.GetMessage("app.stopping"))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("Fail to shutdown server", zap.Error(err))
	}
	scheduler.Stop()
	queueHealth.UnregisterWorker(refreshWorkerName)
	_ = sqlDB.Close()
	if redisClient != nil {
		_ = redisClient.Close()
	}
	log.Info(msg.GetMessage("app.stopped"))
	_ = log.Sync()
}

// initCache returns the redis-backed store, or an in-memory store when redis is disabled or
// unreachable. The redis client is nil in the latter case.
func initCache(ctx context.Context, cacheType string) (*redis.Client, cachestore.Store, cache.HealthGateway) {
	if cacheType == configs.CacheTypeRedis {
		redisConfig := redis.NewRedisConfig().
			WithHost(resource.GetStringOrDefault("app.redis.host", "localhost")).
			WithPort(resource.GetIntOrDefault("app.redis.port", 6379)).
			WithPassword(resource.GetString("app.redis.password")).
			WithDatabase(resource.GetInt("app.redis.database"))

		client, err := redis.NewClient(redisConfig)
		if err == nil {
			err = client.Ping(ctx)
		}
		if err == nil {
			store := redis.NewCache(client, redis.NewCacheOptions())
			return client, store, cache.NewRedisHealthGateway(client)
		}
		log.Error(msg.GetMessage("app.dependency-unavailable", "Redis"), zap.Error(err))
		if client != nil {
			_ = client.Close()
		}
	}

	store := cachestore.NewMemoryStore(nil)
	go sweepMemoryStore(ctx, store)
	return nil, store, cache.NewMemoryHealthGateway(store)
}

func sweepMemoryStore(ctx context.Context, store *cachestore.MemoryStore) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := store.Sweep(); removed > 0 {
				log.Debug("Swept expired cache entries", zap.Int("removed", removed))
			}
		}
	}
}

func initDatabase(ctx context.Context) *sql.DB {
	sqlDB, err := sqlc.Open(database.SettingsFromProperties())
	if err != nil {
		log.Fatal("Fail to open database", zap.Error(err))
	}
	if err := sqlc.Ping(ctx, sqlDB); err != nil {
		log.Error(msg.GetMessage("app.dependency-unavailable", "Database"), zap.Error(err))
	}
	return sqlDB
}

func newBreaker(name string, cfg configs.WeatherConfig, weatherMetrics *metrics.WeatherMetrics) *breaker.CircuitBreaker {
	weatherMetrics.TrackBreaker(name)
	return breaker.New(breaker.Config{
		Name:                  name,
		CallTimeout:           cfg.BreakerTimeout,
		ErrorThresholdPercent: cfg.BreakerErrorThresholdPercent,
		ResetTimeout:          cfg.BreakerResetTimeout,
		RollingWindow:         cfg.BreakerRollingWindow,
		MinRequests:           cfg.BreakerMinRequests,
		IsSuccessful:          fetcher.IsNotFound,
		OnStateChange:         weatherMetrics.BreakerStateChanged,
	})
}

func newHttpClient(baseURL string, cfg configs.WeatherConfig) *httpclient.Client {
	return httpclient.NewHttpClient(baseURL, httpclient.ClientOptions{
		ConnectionTimeout: 5 * time.Second,
		ReadTimeout:       cfg.BreakerTimeout,
		IdleConnTimeout:   90 * time.Second,
		RequestsPerSecond: cfg.RequestsPerSecond,
		Burst:             cfg.Burst,
		Logger:            httpclient.NewZapLogger("appid"),
	})
}
