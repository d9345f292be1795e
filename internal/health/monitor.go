package health

import (
	"context"
	"log/slog"
	"time"

	"github.com/vietddude/chainlens/internal/infra/rpc/provider"
)

// Store is the comment storage as seen by the health check.
type Store interface {
	Storage() string
	Ping(ctx context.Context) error
}

// Monitor aggregates health status from the comment store and upstream providers.
type Monitor struct {
	store       Store
	providers   []provider.Provider
	pingTimeout time.Duration
}

// NewMonitor creates a new health monitor.
func NewMonitor(store Store, providers []provider.Provider) *Monitor {
	return &Monitor{store: store, providers: providers, pingTimeout: 2 * time.Second}
}

// CheckHealth builds a report. An unreachable store is critical because comments stop
// working; an unhealthy upstream only degrades lookups to mock results.
func (m *Monitor) CheckHealth(ctx context.Context) Report {
	report := Report{
		Status:    StatusHealthy,
		Storage:   m.store.Storage(),
		Upstreams: make(map[string]UpstreamHealth, len(m.providers)),
	}

	for _, p := range m.providers {
		up := evaluate(p.GetHealth())
		if up.Status != StatusHealthy {
			report.Status = StatusDegraded
		}
		report.Upstreams[p.GetName()] = up
	}

	pingCtx, cancel := context.WithTimeout(ctx, m.pingTimeout)
	defer cancel()
	if err := m.store.Ping(pingCtx); err != nil {
		slog.Warn("Comment storage unreachable", "storage", report.Storage, "error", err)
		report.Status = StatusCritical
	}
	return report
}

func evaluate(h provider.HealthStatus) UpstreamHealth {
	up := UpstreamHealth{
		Status:    StatusHealthy,
		Available: h.Available,
		ErrorRate: h.ErrorRate,
		LatencyMs: h.Latency.Milliseconds(),
		Throttle:  provider.StatusHealthy.String(),
	}
	if s := h.MonitorStats; s != nil {
		up.Throttle = s.Status
		up.Throttled = s.ThrottleCount429 + s.ThrottleCount403
	}

	switch {
	case !h.Available || up.Throttle == provider.StatusBlocked.String():
		up.Status = StatusCritical
	case h.ErrorRate > 0.1 || up.Throttle == provider.StatusThrottled.String():
		up.Status = StatusDegraded
	}
	return up
}
