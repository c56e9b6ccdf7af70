package queue

import (
	"sort"
	"strconv"
	"sync"

	"weather-api/internal/domain/model"
	"weather-api/pkg/sqs"
)

type WorkerHealthGateway struct {
	mutex   sync.RWMutex
	workers map[string]WorkerHealthChecker
}

var _ HealthGateway = (*WorkerHealthGateway)(nil)

func NewWorkerHealthGateway() *WorkerHealthGateway {
	return &WorkerHealthGateway{workers: make(map[string]WorkerHealthChecker)}
}

func (gateway *WorkerHealthGateway) RegisterWorker(name string, worker WorkerHealthChecker) {
	gateway.mutex.Lock()
	defer gateway.mutex.Unlock()
	gateway.workers[name] = worker
}

func (gateway *WorkerHealthGateway) UnregisterWorker(name string) {
	gateway.mutex.Lock()
	defer gateway.mutex.Unlock()
	delete(gateway.workers, name)
}

// Health is DOWN when any registered worker is not polling its queue
func (gateway *WorkerHealthGateway) Health() model.ComponentHealthStatus {
	gateway.mutex.RLock()
	defer gateway.mutex.RUnlock()

	if len(gateway.workers) == 0 {
		return model.ComponentHealthStatus{
			Status: model.StatusUnknown,
			Details: map[string]string{
				"refresh_mode":  "inline",
				"workers_total": "0",
			},
		}
	}

	names := make([]string, 0, len(gateway.workers))
	for name := range gateway.workers {
		names = append(names, name)
	}
	sort.Strings(names)

	status := model.StatusUp
	details := map[string]string{"refresh_mode": "queue"}
	down := 0
	for _, name := range names {
		check := gateway.workers[name].HealthCheck()
		workerStatus := model.StatusUp
		if check.Status != sqs.StatusUp {
			workerStatus = model.StatusDown
			status = model.StatusDown
			down++
		}

		details[name+"_status"] = string(workerStatus)
		for key, value := range check.Details {
			details[name+"_"+key] = value
		}
	}

	details["workers_total"] = strconv.Itoa(len(names))
	details["workers_down"] = strconv.Itoa(down)
	return model.ComponentHealthStatus{Status: status, Details: details}
}
