// Package health aggregates dependency probes for the health endpoint.
package health

import (
	"context"
	"time"
)

// Status is the health report of one probe run.
type Status struct {
	Healthy    bool              `json:"healthy"`
	Components map[string]string `json:"components"`
}

// Service probes the database and embedding provider with a bounded timeout.
type Service struct {
	db       pinger
	embedder checker
	timeout  time.Duration
}

func NewService(db pinger, embedder checker, timeout time.Duration) *Service {
	return &Service{db: db, embedder: embedder, timeout: timeout}
}

// Check runs all probes and returns per-component results. It never
// returns an error; failures are reported in the status.
func (s *Service) Check(ctx context.Context) *Status {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	st := &Status{Healthy: true, Components: map[string]string{}}

	if err := s.db.Ping(ctx); err != nil {
		st.Healthy = false
		st.Components["database"] = err.Error()
	} else {
		st.Components["database"] = "ok"
	}

	if err := s.embedder.HealthCheck(ctx); err != nil {
		st.Healthy = false
		st.Components["embeddings"] = err.Error()
	} else {
		st.Components["embeddings"] = "ok"
	}

	return st
}
