package api

import (
	"net"
	"net/http"
	"strings"
)

// forwardedHeaders are consulted in order; list-valued headers contribute their first entry.
var forwardedHeaders = []string{
	"X-Forwarded-For",
	"X-Vercel-Forwarded-For",
	"CF-Connecting-IP",
	"X-Real-IP",
}

// ClientIP resolves the address a request originates from.
func ClientIP(r *http.Request) string {
	for _, name := range forwardedHeaders {
		v := r.Header.Get(name)
		if v == "" {
			continue
		}
		if first, _, _ := strings.Cut(v, ","); strings.TrimSpace(first) != "" {
			return strings.TrimSpace(first)
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if host == "" {
		return "127.0.0.1"
	}
	return host
}
