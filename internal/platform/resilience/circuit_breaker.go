package resilience

import (
	"errors"

	gobreaker "github.com/sony/gobreaker/v2"
)

// ErrCircuitOpen is returned when the breaker rejects a call, either because
// it is open or because the half-open probe budget is spent.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitBreaker trips after a run of consecutive counted failures and
// probes the dependency again once the open timeout elapses. A nil breaker
// admits every call.
type CircuitBreaker struct {
	cb *gobreaker.CircuitBreaker[struct{}]
}

func newCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	threshold := uint32(cfg.FailureThreshold)
	isFailure := cfg.IsFailure
	logger := cfg.Logger

	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: uint32(cfg.HalfOpenMaxReq),
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || (isFailure != nil && !isFailure(err))
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if logger == nil {
				return
			}
			if to == gobreaker.StateOpen {
				logger.Warn("circuit breaker opened", "breaker", name, "from", from.String())
				return
			}
			logger.Info("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	}
	return &CircuitBreaker{cb: gobreaker.NewCircuitBreaker[struct{}](settings)}
}

// Guard runs fn when the breaker admits the call. Errors the breaker does
// not count are still returned to the caller.
func (b *CircuitBreaker) Guard(fn func() error) error {
	if b == nil {
		return fn()
	}
	_, err := b.cb.Execute(func() (struct{}, error) {
		return struct{}{}, fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return ErrCircuitOpen
	}
	return err
}

// State reports "closed", "half-open" or "open".
func (b *CircuitBreaker) State() string {
	if b == nil {
		return gobreaker.StateClosed.String()
	}
	return b.cb.State().String()
}

// ConsecutiveFailures is the current run of counted failures.
func (b *CircuitBreaker) ConsecutiveFailures() int {
	if b == nil {
		return 0
	}
	return int(b.cb.Counts().ConsecutiveFailures)
}
