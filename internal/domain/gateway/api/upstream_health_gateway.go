package api

import (
	"strconv"

	"weather-api/internal/domain/model"
	"weather-api/pkg/resilience/breaker"
)

type HealthGateway interface {
	Health() model.ComponentHealthStatus
}

// UpstreamHealthGateway reports the circuit breaker state of every upstream.
type UpstreamHealthGateway struct {
	breakers []*breaker.CircuitBreaker
}

func NewUpstreamHealthGateway(breakers ...*breaker.CircuitBreaker) *UpstreamHealthGateway {
	return &UpstreamHealthGateway{breakers: breakers}
}

// Health is DOWN while any breaker is open; a half-open breaker is still reported UP.
func (gateway *UpstreamHealthGateway) Health() model.ComponentHealthStatus {
	if len(gateway.breakers) == 0 {
		return model.ComponentHealthStatus{
			Status:  model.StatusUnknown,
			Details: map[string]string{"message": "No upstreams registered"},
		}
	}

	status := model.StatusUp
	details := make(map[string]string, len(gateway.breakers)*3)
	for _, cb := range gateway.breakers {
		counts := cb.Counts()
		details[cb.Name()+"_state"] = cb.State().String()
		details[cb.Name()+"_requests"] = strconv.FormatUint(uint64(counts.Requests), 10)
		details[cb.Name()+"_failures"] = strconv.FormatUint(uint64(counts.TotalFailures), 10)
		if cb.IsOpen() {
			status = model.StatusDown
		}
	}
	return model.ComponentHealthStatus{Status: status, Details: details}
}
