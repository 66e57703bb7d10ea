package resilience

import (
	"time"

	"github.com/riskibarqy/fixture-sync/internal/platform/logging"
)

type CircuitBreakerConfig struct {
	Enabled          bool
	Name             string
	FailureThreshold int
	OpenTimeout      time.Duration
	HalfOpenMaxReq   int
	// IsFailure picks the errors that count against the breaker. Nil counts
	// every error.
	IsFailure func(error) bool
	Logger    *logging.Logger
}

// DefaultCircuitBreakerConfig is disabled: outbound provider calls make a
// single attempt and only fail fast when an operator turns the breaker on.
func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:             "default",
		FailureThreshold: 5,
		OpenTimeout:      15 * time.Second,
		HalfOpenMaxReq:   2,
	}
}

func (cfg CircuitBreakerConfig) normalized() CircuitBreakerConfig {
	defaults := DefaultCircuitBreakerConfig()
	if cfg.Name == "" {
		cfg.Name = defaults.Name
	}
	if cfg.FailureThreshold < 1 {
		cfg.FailureThreshold = defaults.FailureThreshold
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = defaults.OpenTimeout
	}
	if cfg.HalfOpenMaxReq < 1 {
		cfg.HalfOpenMaxReq = defaults.HalfOpenMaxReq
	}
	return cfg
}

// Build returns a breaker for cfg, or nil when the breaker is disabled.
func (cfg CircuitBreakerConfig) Build() *CircuitBreaker {
	if !cfg.Enabled {
		return nil
	}
	return newCircuitBreaker(cfg.normalized())
}
