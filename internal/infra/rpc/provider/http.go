package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/vietddude/chainlens/internal/infra/chain/jsonx"
	"github.com/vietddude/chainlens/internal/metrics"
)

// maxBodySize bounds how much of an upstream response is read.
const maxBodySize = 8 << 20

// Config holds the settings of one HTTP provider.
type Config struct {
	Name      string
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	Headers   map[string]string

	// Params are added to the query of every request, e.g. an API token.
	Params map[string]string

	// RateLimit is the sustained requests per second allowed; 0 disables pacing.
	RateLimit float64
	Burst     int
}

// HTTPProvider implements Provider for JSON REST APIs over HTTP.
type HTTPProvider struct {
	name       string
	baseURL    string
	headers    map[string]string
	params     map[string]string
	httpClient *http.Client
	limiter    *rate.Limiter

	mu           sync.RWMutex
	health       HealthStatus
	totalLatency time.Duration
	successCount int
	failureCount int
	requestCount int

	Monitor *ProviderMonitor
}

// NewHTTPProvider creates a new HTTP-based provider.
func NewHTTPProvider(cfg Config) *HTTPProvider {
	headers := map[string]string{"Accept": "application/json"}
	if cfg.UserAgent != "" {
		headers["User-Agent"] = cfg.UserAgent
	}
	for k, v := range cfg.Headers {
		headers[k] = v
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	return &HTTPProvider{
		name:    cfg.Name,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		headers: headers,
		params:  cfg.Params,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: limiter,
		health: HealthStatus{
			Available:     true,
			LastSuccessAt: time.Now(),
		},
		Monitor: NewProviderMonitor(),
	}
}

// Get makes a single REST GET call. It is never retried.
func (p *HTTPProvider) Get(ctx context.Context, r Request) (any, error) {
	start := time.Now()
	metrics.UpstreamCallsTotal.WithLabelValues(p.name, r.Endpoint).Inc()

	// Pre-call checks
	if status := p.Monitor.CheckProviderStatus(); status == StatusThrottled || status == StatusBlocked {
		p.fail("throttled")
		return nil, fmt.Errorf("%s throttled, retry after: %v", p.name, p.Monitor.GetRetryAfter())
	}

	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			p.fail("rate_limit")
			return nil, fmt.Errorf("%s rate limit wait: %w", p.name, err)
		}
	}

	query := url.Values{}
	for k, v := range r.Query {
		query[k] = v
	}
	for k, v := range p.params {
		query.Set(k, v)
	}
	target := p.baseURL + r.Path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		p.fail("request")
		return nil, fmt.Errorf("create request: %w", err)
	}
	for k, v := range p.headers {
		req.Header.Set(k, v)
	}
	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			p.fail("timeout")
		} else {
			p.fail("transport")
		}
		return nil, fmt.Errorf("%s %s: %w", p.name, r.Endpoint, err)
	}
	defer resp.Body.Close()

	latency := time.Since(start)
	metrics.UpstreamLatency.WithLabelValues(p.name, r.Endpoint).Observe(latency.Seconds())

	// Rate limit detection
	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter := resp.Header.Get("Retry-After")
		p.Monitor.RecordThrottle(http.StatusTooManyRequests, retryAfter)
		p.fail("http_429")
		return nil, &StatusError{Provider: p.name, StatusCode: resp.StatusCode, Body: "rate limited"}
	}

	// IP blocked detection
	if resp.StatusCode == http.StatusForbidden {
		p.Monitor.RecordThrottle(http.StatusForbidden, "")
		p.fail("http_403")
		return nil, &StatusError{Provider: p.name, StatusCode: resp.StatusCode, Body: "forbidden"}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		p.fail("read")
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		p.fail(fmt.Sprintf("http_%d", resp.StatusCode))
		if p.Monitor.DetectThrottlePattern(string(body)) {
			p.Monitor.RecordThrottle(http.StatusTooManyRequests, "")
		}
		return nil, &StatusError{Provider: p.name, StatusCode: resp.StatusCode, Body: truncate(string(body), 256)}
	}

	doc, err := jsonx.Decode(body)
	if err != nil {
		p.fail("decode")
		return nil, fmt.Errorf("%s %s: %w", p.name, r.Endpoint, err)
	}

	p.Monitor.RecordRequest(latency)
	p.recordSuccess(latency)
	slog.Debug("upstream call", "provider", p.name, "endpoint", r.Endpoint, "latency", latency)

	return doc, nil
}

// GetName returns the provider's name.
func (p *HTTPProvider) GetName() string {
	return p.name
}

// GetHealth returns the provider's health status.
func (p *HTTPProvider) GetHealth() HealthStatus {
	p.mu.RLock()
	defer p.mu.RUnlock()
	h := p.health
	stats := p.Monitor.GetStats()
	h.MonitorStats = &stats
	return h
}

// IsAvailable checks if the provider is available.
func (p *HTTPProvider) IsAvailable() bool {
	status := p.Monitor.CheckProviderStatus()
	return status == StatusHealthy || status == StatusDegraded
}

// Close cleans up resources.
func (p *HTTPProvider) Close() error {
	p.httpClient.CloseIdleConnections()
	return nil
}

func (p *HTTPProvider) fail(errorType string) {
	metrics.UpstreamErrorsTotal.WithLabelValues(p.name, errorType).Inc()
	p.recordFailure()
}

func (p *HTTPProvider) recordSuccess(latency time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.successCount++
	p.requestCount++
	p.totalLatency += latency
	p.health.LastSuccessAt = time.Now()
	p.health.Available = true

	if p.requestCount > 0 {
		p.health.ErrorRate = float64(p.failureCount) / float64(p.requestCount)
	}
	if p.successCount > 0 {
		p.health.Latency = p.totalLatency / time.Duration(p.successCount)
	}
}

func (p *HTTPProvider) recordFailure() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.failureCount++
	p.requestCount++
	p.health.LastFailureAt = time.Now()

	if p.requestCount > 0 {
		p.health.ErrorRate = float64(p.failureCount) / float64(p.requestCount)
	}

	if p.health.ErrorRate > 0.5 {
		p.health.Available = false
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
