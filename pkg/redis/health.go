package redis

import (
	"context"
	"strconv"
	"time"
)

type HealthStatus string

const (
	StatusUp      HealthStatus = "UP"
	StatusDown    HealthStatus = "DOWN"
	StatusUnknown HealthStatus = "UNKNOWN"
)

// HealthCheck represents the health check response for Redis
type HealthCheck struct {
	Status  HealthStatus      `json:"status"`
	Details map[string]string `json:"details"`
}

// HealthChecker provides Redis health checking functionality
type HealthChecker struct {
	client  *Client
	timeout time.Duration
}

// NewHealthChecker creates a new Redis health checker
func NewHealthChecker(client *Client) *HealthChecker {
	return &HealthChecker{client: client, timeout: 2 * time.Second}
}

// HealthCheck pings Redis and reports pool statistics.
func (h *HealthChecker) HealthCheck(ctx context.Context) HealthCheck {
	if h.client == nil {
		return HealthCheck{Status: StatusUnknown, Details: map[string]string{"error": "redis client not configured"}}
	}

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	start := time.Now()
	err := h.client.Ping(ctx)
	latency := time.Since(start)

	details := map[string]string{
		"address":  h.client.GetConfig().Addr(),
		"database": strconv.Itoa(h.client.GetConfig().Database),
		"latency":  latency.String(),
	}
	if stats := h.client.Stats(); stats != nil {
		details["total_conns"] = strconv.FormatUint(uint64(stats.TotalConns), 10)
		details["idle_conns"] = strconv.FormatUint(uint64(stats.IdleConns), 10)
	}

	if err != nil {
		details["error"] = err.Error()
		return HealthCheck{Status: StatusDown, Details: details}
	}
	return HealthCheck{Status: StatusUp, Details: details}
}
