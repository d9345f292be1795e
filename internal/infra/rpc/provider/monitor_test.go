package provider

import (
	"testing"
	"time"
)

func TestMonitorLatencyWindow(t *testing.T) {
	m := NewProviderMonitor()

	for i := 0; i < 150; i++ {
		m.RecordRequest(50 * time.Millisecond)
	}

	if got := len(m.recentLatencies); got != 100 {
		t.Errorf("Expected latency window of 100, got %d", got)
	}
	if avg := m.GetAverageLatency(); avg != 50*time.Millisecond {
		t.Errorf("Expected average 50ms, got %v", avg)
	}
	if s := m.CheckProviderStatus(); s != StatusHealthy {
		t.Errorf("Expected healthy, got %s", s)
	}
}

func TestMonitorThrottleCooldown(t *testing.T) {
	m := NewProviderMonitor()

	m.RecordThrottle(429, "7")
	if s := m.CheckProviderStatus(); s != StatusThrottled {
		t.Fatalf("Expected throttled, got %s", s)
	}
	if ra := m.GetRetryAfter(); ra <= 0 || ra > 7*time.Second {
		t.Errorf("Expected retry-after within 7s, got %v", ra)
	}

	m.RecordThrottle(403, "")
	if s := m.CheckProviderStatus(); s != StatusBlocked {
		t.Errorf("Expected blocked, got %s", s)
	}

	stats := m.GetStats()
	if stats.ThrottleCount429 != 1 || stats.ThrottleCount403 != 1 {
		t.Errorf("Unexpected throttle counters: %+v", stats)
	}
}

func TestMonitorDegradedOnSlowResponses(t *testing.T) {
	m := NewProviderMonitor()
	for i := 0; i < 11; i++ {
		m.RecordRequest(5 * time.Second)
	}
	if s := m.CheckProviderStatus(); s != StatusDegraded {
		t.Errorf("Expected degraded, got %s", s)
	}
}

func TestDetectThrottlePattern(t *testing.T) {
	m := NewProviderMonitor()
	if !m.DetectThrottlePattern(`{"error":"Limits reached."}`) {
		t.Error("Expected throttle pattern to match")
	}
	if m.DetectThrottlePattern(`{"error":"not found"}`) {
		t.Error("Did not expect throttle pattern to match")
	}
}
