package services

import (
	"context"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthService reports the reachability of each named dependency.
type HealthService struct {
	deps map[string]Pinger
}

func NewHealthService(deps map[string]Pinger) *HealthService {
	return &HealthService{deps: deps}
}

// Check returns "ok" or the error text for every dependency, and whether all
// of them are reachable.
func (s *HealthService) Check(ctx context.Context) (map[string]string, bool) {
	status := make(map[string]string, len(s.deps))
	healthy := true
	for name, dep := range s.deps {
		if dep == nil {
			continue
		}
		if err := dep.Ping(ctx); err != nil {
			status[name] = err.Error()
			healthy = false
			continue
		}
		status[name] = "ok"
	}
	return status, healthy
}
