package health

import "context"

// pinger checks database connectivity.
type pinger interface {
	Ping(ctx context.Context) error
}

// checker probes a dependency for reachability.
type checker interface {
	HealthCheck(ctx context.Context) error
}
