package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

func TestHTTPProvider_Get(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/accounts/0:abc" {
			t.Errorf("expected path /v2/accounts/0:abc, got %s", r.URL.Path)
			http.Error(w, "invalid path", http.StatusBadRequest)
			return
		}
		if r.Method != http.MethodGet {
			t.Errorf("expected method GET, got %s", r.Method)
		}
		if got := r.URL.Query().Get("limit"); got != "30" {
			t.Errorf("expected limit=30, got %q", got)
		}
		if got := r.Header.Get("User-Agent"); got != "explorer-ui" {
			t.Errorf("expected user agent explorer-ui, got %q", got)
		}
		_, _ = w.Write([]byte(`{"balance": 123456789012345678901, "status": "active"}`))
	}))
	defer server.Close()

	p := NewHTTPProvider(Config{Name: "tonapi-mock", BaseURL: server.URL, Timeout: 5 * time.Second, UserAgent: "explorer-ui"})

	result, err := p.Get(context.Background(), Request{
		Endpoint: "account",
		Path:     "/v2/accounts/0:abc",
		Query:    url.Values{"limit": {"30"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, ok := result.(map[string]any)
	if !ok {
		t.Fatalf("expected map[string]any, got %T", result)
	}
	if n, ok := data["balance"].(json.Number); !ok || n.String() != "123456789012345678901" {
		t.Errorf("expected exact balance, got %v", data["balance"])
	}
	if !p.GetHealth().Available {
		t.Error("expected provider to be available")
	}
}

func TestHTTPProvider_Non200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
	}))
	defer server.Close()

	p := NewHTTPProvider(Config{Name: "mock", BaseURL: server.URL})
	_, err := p.Get(context.Background(), Request{Endpoint: "account", Path: "/x"})

	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if se.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", se.StatusCode)
	}
}

func TestHTTPProvider_ThrottledFailsFast(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Retry-After", "60")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	p := NewHTTPProvider(Config{Name: "mock", BaseURL: server.URL})
	if _, err := p.Get(context.Background(), Request{Endpoint: "a", Path: "/"}); err == nil {
		t.Fatal("expected error on 429")
	}
	if _, err := p.Get(context.Background(), Request{Endpoint: "a", Path: "/"}); err == nil {
		t.Fatal("expected fail-fast error while throttled")
	}
	if calls != 1 {
		t.Errorf("expected exactly one upstream call, got %d", calls)
	}
	if p.IsAvailable() {
		t.Error("expected provider to be unavailable while throttled")
	}
}

func TestHTTPProvider_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	p := NewHTTPProvider(Config{Name: "slow", BaseURL: server.URL, Timeout: 20 * time.Millisecond})
	if _, err := p.Get(context.Background(), Request{Endpoint: "a", Path: "/"}); err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestHTTPProvider_ParamsAndHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("token"); got != "secret" {
			t.Errorf("expected token=secret, got %q", got)
		}
		if got := r.URL.Query().Get("limit"); got != "30" {
			t.Errorf("expected request query kept, got %q", got)
		}
		if got := r.Header.Get("X-Api-Key"); got != "k" {
			t.Errorf("expected api key header, got %q", got)
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	p := NewHTTPProvider(Config{
		Name:    "mock",
		BaseURL: server.URL + "/",
		Headers: map[string]string{"X-Api-Key": "k"},
		Params:  map[string]string{"token": "secret"},
	})
	if _, err := p.Get(context.Background(), Request{Endpoint: "x", Path: "/x", Query: url.Values{"limit": {"30"}}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
