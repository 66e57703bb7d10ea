package httpapi

import (
	"net"
	"net/http"
	"net/url"
	"strings"
)

// sensitiveQueryKeys never reach the error log.
var sensitiveQueryKeys = []string{"api_token", "token"}

// clientIP prefers the left-most forwarded address, then the socket peer.
func clientIP(r *http.Request) string {
	for _, candidate := range []string{
		firstForwarded(r.Header.Get("X-Forwarded-For")),
		r.Header.Get("X-Real-IP"),
		r.RemoteAddr,
	} {
		candidate = strings.TrimSpace(candidate)
		if host, _, err := net.SplitHostPort(candidate); err == nil {
			candidate = host
		}
		if ip := net.ParseIP(candidate); ip != nil {
			return ip.String()
		}
	}
	return ""
}

func firstForwarded(header string) string {
	first, _, _ := strings.Cut(header, ",")
	return first
}

func redactQuery(values url.Values) string {
	if len(values) == 0 {
		return ""
	}
	out := make(url.Values, len(values))
	for key, vals := range values {
		out[key] = vals
		for _, sensitive := range sensitiveQueryKeys {
			if strings.EqualFold(key, sensitive) {
				out[key] = []string{"REDACTED"}
				break
			}
		}
	}
	return out.Encode()
}

// requestDetails is attached to error log entries raised by an operator request.
func requestDetails(r *http.Request) map[string]any {
	details := map[string]any{
		"method":     r.Method,
		"path":       r.URL.Path,
		"client_ip":  clientIP(r),
		"user_agent": r.UserAgent(),
	}
	if query := redactQuery(r.URL.Query()); query != "" {
		details["query"] = query
	}
	if requestID := strings.TrimSpace(r.Header.Get("X-Request-ID")); requestID != "" {
		details["request_id"] = requestID
	}
	return details
}
