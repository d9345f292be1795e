package api

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded for first entry", map[string]string{"X-Forwarded-For": " 1.1.1.1 , 2.2.2.2"}, "9.9.9.9:1", "1.1.1.1"},
		{"vercel", map[string]string{"X-Vercel-Forwarded-For": "3.3.3.3, 4.4.4.4"}, "9.9.9.9:1", "3.3.3.3"},
		{"cloudflare", map[string]string{"CF-Connecting-IP": "5.5.5.5"}, "9.9.9.9:1", "5.5.5.5"},
		{"real ip", map[string]string{"X-Real-IP": "6.6.6.6"}, "9.9.9.9:1", "6.6.6.6"},
		{"precedence", map[string]string{"X-Real-IP": "6.6.6.6", "X-Forwarded-For": "1.1.1.1"}, "9.9.9.9:1", "1.1.1.1"},
		{"remote addr", nil, "9.9.9.9:1234", "9.9.9.9"},
		{"ipv6 remote addr", nil, "[::1]:1234", "::1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, ClientIP(r))
		})
	}
}
