package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name      string
		forwarded string
		realIP    string
		remote    string
		want      string
	}{
		{name: "forwarded chain", forwarded: "203.0.113.7, 10.0.0.2", remote: "10.0.0.9:4431", want: "203.0.113.7"},
		{name: "real ip header", realIP: " 198.51.100.4 ", remote: "10.0.0.9:4431", want: "198.51.100.4"},
		{name: "socket peer", remote: "192.0.2.10:55012", want: "192.0.2.10"},
		{name: "garbage forwarded falls through", forwarded: "unknown", remote: "[2001:db8::1]:443", want: "2001:db8::1"},
		{name: "nothing usable", remote: "pipe", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/internal/sync/run", nil)
			req.RemoteAddr = tt.remote
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			if tt.realIP != "" {
				req.Header.Set("X-Real-IP", tt.realIP)
			}
			if got := clientIP(req); got != tt.want {
				t.Fatalf("clientIP()=%q want=%q", got, tt.want)
			}
		})
	}
}

func TestRequestDetails_RedactsTokens(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/v1/internal/sync/range?api_token=secret&team=8", nil)
	req.Header.Set("X-Request-ID", "req-42")
	req.Header.Set("User-Agent", "ops-cron/1.0")

	details := requestDetails(req)
	if details["query"] != "api_token=REDACTED&team=8" {
		t.Fatalf("unexpected query detail: %v", details["query"])
	}
	if details["request_id"] != "req-42" || details["user_agent"] != "ops-cron/1.0" {
		t.Fatalf("unexpected details: %+v", details)
	}
	if details["path"] != "/v1/internal/sync/range" || details["method"] != http.MethodPost {
		t.Fatalf("unexpected request line details: %+v", details)
	}
}
