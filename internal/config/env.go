package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"
)

// envReader reads typed settings and collects every parse failure. A failed
// setting yields its zero value.
type envReader struct {
	errs []error
}

func (r *envReader) fail(err error) {
	r.errs = append(r.errs, err)
}

func (r *envReader) require(ok bool, message string) {
	if !ok {
		r.fail(errors.New(message))
	}
}

func (r *envReader) err() error {
	return errors.Join(r.errs...)
}

// str returns the trimmed value, or fallback when unset or blank.
func (r *envReader) str(key, fallback string) string {
	return strings.TrimSpace(getEnv(key, fallback))
}

func (r *envReader) boolean(key string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		r.fail(fmt.Errorf("parse %s: %w", key, err))
	}
	return value
}

func (r *envReader) positiveDuration(key, fallback string) time.Duration {
	value, err := time.ParseDuration(r.str(key, fallback))
	switch {
	case err != nil:
		r.fail(fmt.Errorf("parse %s: %w", key, err))
	case value <= 0:
		r.fail(fmt.Errorf("%s must be > 0", key))
	}
	return value
}

func (r *envReader) intInRange(key string, fallback, minValue, maxValue int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	switch {
	case err != nil:
		r.fail(fmt.Errorf("parse %s: %w", key, err))
	case value < minValue || value > maxValue:
		r.fail(fmt.Errorf("%s must be between %d and %d", key, minValue, maxValue))
	}
	return value
}

// oneOf lower-cases the value and checks it against allowed.
func (r *envReader) oneOf(key, fallback string, allowed ...string) string {
	raw := getEnv(key, fallback)
	value := strings.ToLower(strings.TrimSpace(raw))
	if !slices.Contains(allowed, value) {
		r.fail(fmt.Errorf("invalid %s %q: valid values are %s", key, raw, strings.Join(allowed, ", ")))
	}
	return value
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func splitCSV(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if item := strings.TrimSpace(part); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// parseUptraceDSNFromOTLPHeaders picks uptrace-dsn out of an
// OTEL_EXPORTER_OTLP_HEADERS list such as `a=b,uptrace-dsn="https://..."`.
func parseUptraceDSNFromOTLPHeaders(raw string) string {
	for _, item := range splitCSV(raw) {
		key, value, ok := strings.Cut(item, "=")
		if ok && strings.EqualFold(strings.TrimSpace(key), "uptrace-dsn") {
			return strings.Trim(strings.TrimSpace(value), `"'`)
		}
	}
	return ""
}
