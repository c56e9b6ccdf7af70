package schedule

import (
	"context"
	"errors"
	"time"
	_ "time/tzdata"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"weather-api/internal/domain/usecase/city"
	"weather-api/pkg/log"
	"weather-api/pkg/msg"
	"weather-api/pkg/redis"
)

const (
	lockNamespace  = "weather_schedules"
	leaderLockKey  = "weather_refresh_scheduler"
	startupLockKey = "weather_refresh_startup"
)

// RefreshSchedulerConfig holds configuration for the refresh scheduler
type RefreshSchedulerConfig struct {
	CronExpression  string
	LockTTL         time.Duration
	RefreshInterval time.Duration
	RunOnStartup    bool
}

// RefreshScheduler refreshes every city's snapshot on a cron schedule. With a Redis client
// only the instance holding the leader lock runs the cron; the others stand by.
type RefreshScheduler struct {
	cron        *cron.Cron
	startup     gocron.Scheduler
	useCase     city.UseCase
	redisClient *redis.Client
	config      RefreshSchedulerConfig
}

// NewRefreshScheduler creates the scheduler. redisClient may be nil for a single instance.
func NewRefreshScheduler(useCase city.UseCase, redisClient *redis.Client, config RefreshSchedulerConfig) (*RefreshScheduler, error) {
	startup, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	if config.LockTTL <= 0 {
		config.LockTTL = 10 * time.Minute
	}
	if config.RefreshInterval <= 0 {
		config.RefreshInterval = time.Minute
	}

	return &RefreshScheduler{
		cron:        cron.New(),
		startup:     startup,
		useCase:     useCase,
		redisClient: redisClient,
		config:      config,
	}, nil
}

// InitRefreshScheduleTasks registers the startup run and the recurring refresh
func (s *RefreshScheduler) InitRefreshScheduleTasks(ctx context.Context) error {
	if s.config.RunOnStartup {
		_, err := s.startup.NewJob(
			gocron.OneTimeJob(gocron.OneTimeJobStartImmediately()),
			gocron.NewTask(func(ctx context.Context) {
				s.executeStartupTask(ctx)
			}),
			gocron.WithName("weather-refresh-startup"),
		)
		if err != nil {
			return err
		}
		s.startup.Start()
	}

	if _, err := s.cron.AddFunc(s.config.CronExpression, s.ExecuteScheduledTask); err != nil {
		return err
	}

	if s.redisClient == nil {
		s.cron.Start()
		log.Info(msg.GetMessage("refresh.cron.started", s.config.CronExpression))
		return nil
	}

	go s.lead(ctx)
	return nil
}

// lead waits for the leader lock, runs the cron while it holds it and stands by again when
// the lock is lost.
func (s *RefreshScheduler) lead(ctx context.Context) {
	for {
		lock, err := s.acquireLeadership(ctx)
		if err != nil {
			return
		}

		refreshErrChan := lock.AutoRefresh(ctx)
		s.cron.Start()
		log.Info(msg.GetMessage("refresh.cron.started", s.config.CronExpression))

		err = <-refreshErrChan
		cronCtx := s.cron.Stop()
		<-cronCtx.Done()

		if ctx.Err() != nil {
			_ = lock.Unlock(context.WithoutCancel(ctx))
			log.Info(msg.GetMessage("refresh.cron.stopped"))
			return
		}
		log.Error(msg.GetMessage("refresh.lock.lost"), zap.Error(err))
	}
}

// acquireLeadership retries the leader lock every RefreshInterval until it is acquired or
// ctx is done.
func (s *RefreshScheduler) acquireLeadership(ctx context.Context) (*redis.Lock, error) {
	opts := redis.NewLockOptions().
		WithTTL(s.config.LockTTL).
		WithRefreshInterval(s.config.RefreshInterval).
		WithLockNamespace(lockNamespace)

	for {
		lock := redis.NewLock(s.redisClient, leaderLockKey, opts)
		err := lock.Lock(ctx)
		if err == nil {
			return lock, nil
		}
		if !errors.Is(err, redis.ErrLockNotAcquired) {
			log.Warn(msg.GetMessage("refresh.lock.failed"), zap.Error(err))
		} else {
			log.Debug(msg.GetMessage("refresh.lock.standby"))
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.config.RefreshInterval):
		}
	}
}

// ExecuteScheduledTask refreshes every city
func (s *RefreshScheduler) ExecuteScheduledTask() {
	s.execute(context.Background())
}

func (s *RefreshScheduler) executeStartupTask(ctx context.Context) {
	if s.redisClient == nil {
		s.execute(ctx)
		return
	}

	opts := redis.NewLockOptions().WithTTL(s.config.LockTTL).WithLockNamespace(lockNamespace)
	err := redis.LockWithFunc(ctx, s.redisClient, startupLockKey, opts, func() error {
		s.execute(ctx)
		return nil
	})
	if errors.Is(err, redis.ErrLockNotAcquired) {
		log.Info(msg.GetMessage("refresh.startup.skipped"))
	} else if err != nil {
		log.Error(msg.GetMessage("refresh.lock.failed"), zap.Error(err))
	}
}

func (s *RefreshScheduler) execute(ctx context.Context) {
	requestID := uuid.New().String()

	log.Info(msg.GetMessage("refresh.cron.start"), zap.String("request_id", requestID))
	if err := s.useCase.RefreshAll(ctx, requestID); err != nil {
		log.Error(msg.GetMessage("refresh.error.failed"), zap.String("request_id", requestID), zap.Error(err))
		return
	}
	log.Info(msg.GetMessage("refresh.cron.end"), zap.String("request_id", requestID))
}

// Stop gracefully stops the scheduler
func (s *RefreshScheduler) Stop() {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}
	if s.startup != nil {
		_ = s.startup.Shutdown()
	}
}
