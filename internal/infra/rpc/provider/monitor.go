package provider

import (
	"strconv"
	"strings"
	"sync"
	"time"
)

// ProviderStatus represents the health state of a provider.
type ProviderStatus int

const (
	StatusHealthy   ProviderStatus = iota // Provider is working normally
	StatusDegraded                        // Provider is slow but working
	StatusThrottled                       // Provider is rate limiting
	StatusBlocked                         // Provider has blocked this client
)

func (s ProviderStatus) String() string {
	switch s {
	case StatusHealthy:
		return "healthy"
	case StatusDegraded:
		return "degraded"
	case StatusThrottled:
		return "throttled"
	case StatusBlocked:
		return "blocked"
	}
	return "unknown"
}

// MonitorStats holds monitoring statistics for a provider.
type MonitorStats struct {
	Status           string        `json:"status"`
	AverageLatency   time.Duration `json:"average_latency"`
	ThrottleCount429 int           `json:"throttle_count_429"`
	ThrottleCount403 int           `json:"throttle_count_403"`
	RetryAfter       time.Duration `json:"retry_after"`
}

// ProviderMonitor tracks provider latency and throttling responses.
type ProviderMonitor struct {
	mu sync.RWMutex

	recentLatencies  []time.Duration
	maxLatencyWindow int

	status429Count   int
	status403Count   int
	lastStatus       int
	throttlePatterns []string
	lastThrottleTime time.Time
	cooldown         time.Duration

	slowResponseThreshold time.Duration
	throttleCooldown      time.Duration
	blockCooldown         time.Duration
}

// NewProviderMonitor creates a new monitor with default settings.
func NewProviderMonitor() *ProviderMonitor {
	return &ProviderMonitor{
		recentLatencies:  make([]time.Duration, 0, 100),
		maxLatencyWindow: 100,
		throttlePatterns: []string{
			"rate limit exceeded",
			"too many requests",
			"limits reached",
			"daily request count exceeded",
			"monthly quota exceeded",
		},
		slowResponseThreshold: 3 * time.Second,
		throttleCooldown:      30 * time.Second,
		blockCooldown:         2 * time.Minute,
	}
}

// RecordRequest records a successful request with its latency.
func (pm *ProviderMonitor) RecordRequest(latency time.Duration) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	pm.recentLatencies = append(pm.recentLatencies, latency)
	if len(pm.recentLatencies) > pm.maxLatencyWindow {
		pm.recentLatencies = pm.recentLatencies[1:]
	}
}

// RecordThrottle records a rate limiting or blocking response. A numeric Retry-After
// header overrides the default cooldown.
func (pm *ProviderMonitor) RecordThrottle(statusCode int, retryAfter string) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	pm.lastThrottleTime = time.Now()
	pm.lastStatus = statusCode

	switch statusCode {
	case 429:
		pm.status429Count++
		pm.cooldown = pm.throttleCooldown
		if secs, err := strconv.Atoi(strings.TrimSpace(retryAfter)); err == nil && secs > 0 {
			pm.cooldown = time.Duration(secs) * time.Second
		}
	case 403:
		pm.status403Count++
		pm.cooldown = pm.blockCooldown
	}
}

// DetectThrottlePattern checks if a message contains throttle patterns.
func (pm *ProviderMonitor) DetectThrottlePattern(message string) bool {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	lowerMsg := strings.ToLower(message)
	for _, pattern := range pm.throttlePatterns {
		if strings.Contains(lowerMsg, pattern) {
			return true
		}
	}
	return false
}

// CheckProviderStatus returns the current status of the provider.
func (pm *ProviderMonitor) CheckProviderStatus() ProviderStatus {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return pm.statusLocked()
}

func (pm *ProviderMonitor) statusLocked() ProviderStatus {
	if !pm.lastThrottleTime.IsZero() && time.Since(pm.lastThrottleTime) < pm.cooldown {
		if pm.lastStatus == 403 {
			return StatusBlocked
		}
		return StatusThrottled
	}

	if len(pm.recentLatencies) > 10 && pm.averageLocked() > pm.slowResponseThreshold {
		return StatusDegraded
	}

	return StatusHealthy
}

// GetRetryAfter returns remaining time before calls are allowed again.
func (pm *ProviderMonitor) GetRetryAfter() time.Duration {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return pm.retryAfterLocked()
}

func (pm *ProviderMonitor) retryAfterLocked() time.Duration {
	if pm.lastThrottleTime.IsZero() {
		return 0
	}
	if remaining := pm.cooldown - time.Since(pm.lastThrottleTime); remaining > 0 {
		return remaining
	}
	return 0
}

// GetAverageLatency returns the average latency of recent requests.
func (pm *ProviderMonitor) GetAverageLatency() time.Duration {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return pm.averageLocked()
}

func (pm *ProviderMonitor) averageLocked() time.Duration {
	if len(pm.recentLatencies) == 0 {
		return 0
	}
	var total time.Duration
	for _, lat := range pm.recentLatencies {
		total += lat
	}
	return total / time.Duration(len(pm.recentLatencies))
}

// GetStats returns current monitoring statistics.
func (pm *ProviderMonitor) GetStats() MonitorStats {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	return MonitorStats{
		Status:           pm.statusLocked().String(),
		AverageLatency:   pm.averageLocked(),
		ThrottleCount429: pm.status429Count,
		ThrottleCount403: pm.status403Count,
		RetryAfter:       pm.retryAfterLocked(),
	}
}
