// Package health provides system health monitoring and status reporting.
package health

// SystemStatus represents the overall health state of the system or a component.
type SystemStatus string

const (
	StatusHealthy  SystemStatus = "healthy"
	StatusDegraded SystemStatus = "degraded"
	StatusCritical SystemStatus = "critical"
)

// UpstreamHealth contains health metrics for one upstream data provider.
type UpstreamHealth struct {
	Status    SystemStatus `json:"status"`
	Available bool         `json:"available"`
	Throttle  string       `json:"throttle"`
	ErrorRate float64      `json:"error_rate"`
	LatencyMs int64        `json:"latency_ms"`
	Throttled int          `json:"throttled_responses"`
}

// Report contains the full system health report.
type Report struct {
	Status    SystemStatus              `json:"status"`
	Storage   string                    `json:"storage"`
	Upstreams map[string]UpstreamHealth `json:"upstreams"`
}
