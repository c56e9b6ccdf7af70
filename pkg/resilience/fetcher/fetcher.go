// Package fetcher wraps a flaky upstream HTTP dependency with cache-aside reads, retries,
// a circuit breaker and graceful degradation to stale or default values.
//
// A Fetcher is bound to one upstream (one base URL and one breaker). Get performs a single
// guarded GET; Fetch runs a whole lookup through the cache and fallback chain:
//
//	fresh cache -> Load (retry -> breaker -> GET) -> cache write
//	            -> not found: error
//	            -> otherwise: stale cache -> Default
package fetcher

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"weather-api/pkg/cache"
	httpclient "weather-api/pkg/http"
	"weather-api/pkg/log"
	"weather-api/pkg/resilience/breaker"
	"weather-api/pkg/resilience/retry"
)

// KeyPrefix is the root namespace of every cache key written by a Fetcher.
const KeyPrefix = "weather"

// Outcomes reported to Observer.UpstreamResult.
const (
	OutcomeSuccess  = "success"
	OutcomeNotFound = "not_found"
	OutcomeRejected = "rejected"
	OutcomeFailure  = "failure"
)

// Fallback kinds reported to Observer.Fallback.
const (
	FallbackStale   = "stale"
	FallbackDefault = "default"
)

// Config holds the knobs shared by every lookup of a Fetcher.
type Config struct {
	// CacheTTL is how long a cached value is served without calling upstream
	CacheTTL time.Duration
	// StaleTTL is how long a value stays available as a degraded fallback; never shorter than CacheTTL
	StaleTTL time.Duration
	// Retry wraps every Get; Retryable is extended so not-found errors are never retried
	Retry retry.Policy
	// NotFound recognises upstream "entity does not exist" responses; nil disables the check
	NotFound NotFoundMatcher
	// Dedupe collapses concurrent misses on the same key into one upstream load
	Dedupe bool
}

// Observer receives pipeline events, typically to feed metrics.
type Observer interface {
	CacheHit(namespace string)
	CacheMiss(namespace string)
	RetryAttempt(upstream string, attempt retry.Attempt)
	UpstreamResult(upstream, outcome string)
	Fallback(namespace, kind string)
}

type noopObserver struct{}

func (noopObserver) CacheHit(string)                    {}
func (noopObserver) CacheMiss(string)                   {}
func (noopObserver) RetryAttempt(string, retry.Attempt) {}
func (noopObserver) UpstreamResult(string, string)      {}
func (noopObserver) Fallback(string, string)            {}

// Option customises a Fetcher.
type Option func(*Fetcher)

// WithObserver routes pipeline events to o.
func WithObserver(o Observer) Option {
	return func(f *Fetcher) {
		if o != nil {
			f.observer = o
		}
	}
}

// WithClock replaces the clock used to judge cache freshness.
func WithClock(c clockwork.Clock) Option {
	return func(f *Fetcher) {
		if c != nil {
			f.clock = c
		}
	}
}

// Fetcher is the resilient caller of one upstream. It is safe for concurrent use and meant to
// live as long as the process so its breaker observes every caller.
type Fetcher struct {
	name     string
	client   *httpclient.Client
	breaker  *breaker.CircuitBreaker
	store    cache.Store
	cfg      Config
	notFound NotFoundMatcher
	observer Observer
	clock    clockwork.Clock
	tracer   trace.Tracer
	group    singleflight.Group
}

// New creates a Fetcher for the upstream served by client and guarded by cb.
func New(name string, client *httpclient.Client, cb *breaker.CircuitBreaker, store cache.Store, cfg Config, opts ...Option) *Fetcher {
	if cfg.StaleTTL < cfg.CacheTTL {
		cfg.StaleTTL = cfg.CacheTTL
	}
	f := &Fetcher{
		name:     name,
		client:   client,
		breaker:  cb,
		store:    store,
		cfg:      cfg,
		notFound: cfg.NotFound,
		observer: noopObserver{},
		clock:    clockwork.NewRealClock(),
		tracer:   otel.Tracer("weather-api/fetcher"),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Name returns the upstream name.
func (f *Fetcher) Name() string {
	return f.name
}

// Breaker returns the breaker guarding the upstream.
func (f *Fetcher) Breaker() *breaker.CircuitBreaker {
	return f.breaker
}

// Evict drops the cached value of target in namespace, fresh or stale.
func (f *Fetcher) Evict(ctx context.Context, namespace, target string) error {
	return f.store.Delete(ctx, Key(namespace, target))
}

// Key builds the cache key "weather:<namespace>:<lower(target)>".
func Key(namespace, target string) string {
	return KeyPrefix + ":" + namespace + ":" + strings.ToLower(strings.TrimSpace(target))
}

// Request describes one upstream GET.
type Request struct {
	Path   string
	Params map[string]string
	// Target names the looked-up entity in not-found errors and logs
	Target string
	// Entity is the kind of Target, e.g. "City"
	Entity string
}

// Get performs req through retry -> breaker -> HTTP GET and decodes the 2xx body into R.
func Get[R any](ctx context.Context, f *Fetcher, req Request) (*R, error) {
	policy := f.cfg.Retry
	userRetryable := policy.Retryable
	policy.Retryable = func(err error) bool {
		if IsNotFound(err) {
			return false
		}
		return userRetryable == nil || userRetryable(err)
	}
	userHook := policy.OnFailedAttempt
	policy.OnFailedAttempt = func(a retry.Attempt) {
		f.observer.RetryAttempt(f.name, a)
		if a.RetriesLeft > 0 {
			log.Warn("upstream attempt failed, retrying",
				zap.String("upstream", f.name),
				zap.String("target", req.Target),
				zap.Int("attempt", a.Number),
				zap.Int("retries_left", a.RetriesLeft),
				zap.Duration("delay", a.Delay),
				zap.Error(a.Err))
		}
		if userHook != nil {
			userHook(a)
		}
	}

	out, err := retry.Do(ctx, policy, func(ctx context.Context) (*R, error) {
		value, err := f.breaker.Execute(ctx, func(ctx context.Context) (any, error) {
			resp := new(R)
			_, _, _, err := f.client.Request().
				WithPath(req.Path).
				WithQueryParams(req.Params).
				WithSuccessResp(resp).
				Execute(ctx)
			if err != nil {
				return nil, f.classify(err, req)
			}
			return resp, nil
		})
		if err != nil {
			return nil, err
		}
		return value.(*R), nil
	})

	switch {
	case err == nil:
		f.observer.UpstreamResult(f.name, OutcomeSuccess)
	case IsNotFound(err):
		f.observer.UpstreamResult(f.name, OutcomeNotFound)
	case breaker.IsRejection(err):
		f.observer.UpstreamResult(f.name, OutcomeRejected)
	default:
		f.observer.UpstreamResult(f.name, OutcomeFailure)
	}
	return out, err
}

// Lookup describes one cached, degradable lookup.
type Lookup[T any] struct {
	// Namespace separates kinds of lookups in the cache key
	Namespace string
	// Target is normalised into the cache key
	Target string
	// Load produces a fresh value, usually by calling Get and transforming the payload
	Load func(ctx context.Context) (T, error)
	// Default builds the last-resort value; nil propagates the load error instead
	Default func() T
}

// envelope is the cached representation; StoredAt decides freshness.
type envelope struct {
	StoredAt time.Time       `json:"stored_at"`
	Payload  json.RawMessage `json:"payload"`
}

// Fetch resolves l through the cache and fallback chain. Only a not-found error, or any error
// when l.Default is nil and no stale value exists, reaches the caller.
func Fetch[T any](ctx context.Context, f *Fetcher, l Lookup[T]) (T, error) {
	key := Key(l.Namespace, l.Target)
	ctx, span := f.tracer.Start(ctx, "fetcher.Fetch", trace.WithAttributes(
		attribute.String("fetcher.upstream", f.name),
		attribute.String("fetcher.namespace", l.Namespace),
		attribute.String("fetcher.key", key),
	))
	defer span.End()

	if cached, ok := readCache[T](ctx, f, key, true); ok {
		f.observer.CacheHit(l.Namespace)
		span.SetAttributes(attribute.String("fetcher.source", "cache"))
		log.Debug("cache hit", zap.String("key", key))
		return cached, nil
	}
	f.observer.CacheMiss(l.Namespace)
	log.Debug("cache miss", zap.String("key", key))

	value, err := load(ctx, f, key, l)
	if err == nil {
		span.SetAttributes(attribute.String("fetcher.source", "upstream"))
		return value, nil
	}

	var zero T
	if IsNotFound(err) {
		span.SetStatus(codes.Error, err.Error())
		log.Warn("upstream reported not found", zap.String("upstream", f.name), zap.String("target", l.Target))
		return zero, err
	}

	span.RecordError(err)
	log.Error("upstream lookup failed", zap.String("upstream", f.name), zap.String("key", key), zap.Error(err))

	if stale, ok := readCache[T](ctx, f, key, false); ok {
		f.observer.Fallback(l.Namespace, FallbackStale)
		span.SetAttributes(attribute.String("fetcher.source", FallbackStale))
		log.Warn("serving stale cache after upstream failure", zap.String("key", key))
		return stale, nil
	}

	if l.Default == nil {
		span.SetStatus(codes.Error, err.Error())
		return zero, err
	}

	f.observer.Fallback(l.Namespace, FallbackDefault)
	span.SetAttributes(attribute.String("fetcher.source", FallbackDefault))
	log.Warn("serving default value after upstream and cache failure", zap.String("key", key))
	return l.Default(), nil
}

// load runs l.Load and caches its result, collapsing concurrent loads of key when enabled.
func load[T any](ctx context.Context, f *Fetcher, key string, l Lookup[T]) (T, error) {
	run := func(ctx context.Context) (T, error) {
		value, err := l.Load(ctx)
		if err != nil {
			return value, err
		}
		writeCache(ctx, f, key, value)
		return value, nil
	}

	if !f.cfg.Dedupe {
		return run(ctx)
	}

	shared, err, _ := f.group.Do(key, func() (any, error) {
		value, err := run(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		return value, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return shared.(T), nil
}
