// Package provider implements the transport to third-party data providers.
//
// This package contains:
//   - Provider interface: a named upstream REST endpoint
//   - HTTPProvider: JSON over HTTP GET with timeout and pacing
//   - ProviderMonitor: latency and throttle tracking
//
// Upstream calls are never retried. A provider that recently answered 429/403 fails
// fast until its cooldown expires so a lookup degrades instead of waiting.
package provider

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

// Request describes one REST call against a provider.
type Request struct {
	// Endpoint is a short label used in metrics and logs (e.g. "account", "events").
	Endpoint string

	// Path is appended to the provider base URL. It must already be escaped.
	Path string

	// Query parameters, encoded in key order.
	Query url.Values

	// Headers added on top of the provider defaults.
	Headers map[string]string
}

// Provider defines a named upstream data source.
type Provider interface {
	// GetName returns provider identifier (e.g., "tonapi", "blockcypher")
	GetName() string

	// GetHealth returns current health metrics
	GetHealth() HealthStatus

	// IsAvailable checks if the provider is healthy enough to use
	IsAvailable() bool

	// Get performs the request and returns the decoded JSON document
	Get(ctx context.Context, req Request) (any, error)

	// Close cleans up resources
	Close() error
}

// HealthStatus represents the health state of a provider.
type HealthStatus struct {
	Available     bool          `json:"available"`
	Latency       time.Duration `json:"latency"`
	ErrorRate     float64       `json:"error_rate"`
	LastSuccessAt time.Time     `json:"last_success_at"`
	LastFailureAt time.Time     `json:"last_failure_at"`
	MonitorStats  *MonitorStats `json:"monitor_stats,omitempty"`
}

// StatusError is returned when a provider answers with a non-200 status.
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: http %d: %s", e.Provider, e.StatusCode, e.Body)
}
