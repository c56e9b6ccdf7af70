package queue

import (
	"weather-api/internal/domain/model"
	"weather-api/pkg/sqs"
)

// WorkerHealthChecker is implemented by *sqs.Worker
type WorkerHealthChecker interface {
	HealthCheck() sqs.HealthCheck
}

// HealthGateway reports the city refresh workers. Without workers the refresh runs inline
// and the component is UNKNOWN.
type HealthGateway interface {
	Health() model.ComponentHealthStatus
	RegisterWorker(name string, worker WorkerHealthChecker)
	UnregisterWorker(name string)
}
