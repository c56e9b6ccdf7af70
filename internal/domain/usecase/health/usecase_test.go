package health

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"weather-api/internal/domain/gateway/queue"
	"weather-api/internal/domain/model"
)

type staticGateway model.HealthStatus

func (s staticGateway) status() model.ComponentHealthStatus {
	return model.ComponentHealthStatus{Status: model.HealthStatus(s), Details: map[string]string{}}
}

type staticCtxGateway struct{ staticGateway }

func (s staticCtxGateway) Health(context.Context) model.ComponentHealthStatus { return s.status() }

type staticQueueGateway struct{ staticGateway }

func (s staticQueueGateway) Health() model.ComponentHealthStatus { return s.status() }

func (staticQueueGateway) RegisterWorker(string, queue.WorkerHealthChecker) {}

func (staticQueueGateway) UnregisterWorker(string) {}

type staticUpstreamGateway struct{ staticGateway }

func (s staticUpstreamGateway) Health() model.ComponentHealthStatus { return s.status() }

func TestCheckHealth(t *testing.T) {
	up, down, unknown := staticGateway(model.StatusUp), staticGateway(model.StatusDown), staticGateway(model.StatusUnknown)

	tests := []struct {
		name     string
		db       staticGateway
		cache    staticGateway
		queue    staticGateway
		upstream staticGateway
		want     model.HealthStatus
	}{
		{name: "all up", db: up, cache: up, queue: up, upstream: up, want: model.StatusUp},
		{name: "no queue workers", db: up, cache: up, queue: unknown, upstream: up, want: model.StatusUp},
		{name: "open breaker", db: up, cache: up, queue: up, upstream: down, want: model.StatusUp},
		{name: "database down", db: down, cache: up, queue: up, upstream: up, want: model.StatusDown},
		{name: "cache down", db: up, cache: down, queue: up, upstream: up, want: model.StatusDown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := NewHealthUseCase(staticCtxGateway{tt.db}, staticCtxGateway{tt.cache},
				staticQueueGateway{tt.queue}, staticUpstreamGateway{tt.upstream})

			got := uc.CheckHealth(context.Background())

			assert.Equal(t, tt.want, got.Status)
			assert.Equal(t, model.HealthStatus(tt.queue), got.Queue.Status)
			assert.Equal(t, model.HealthStatus(tt.upstream), got.Upstreams.Status)
		})
	}
}
