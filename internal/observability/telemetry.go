package observability

import (
	"context"
	"errors"
	"fmt"

	"github.com/riskibarqy/fixture-sync/internal/config"
	"github.com/riskibarqy/fixture-sync/internal/platform/logging"
)

type shutdownFunc func(context.Context) error

type namedShutdown struct {
	name string
	fn   shutdownFunc
}

// Telemetry owns the process-wide tracing and profiling hooks.
type Telemetry struct {
	logger    *logging.Logger
	shutdowns []namedShutdown
}

// Start enables uptrace, pyroscope and pprof as configured. A failure stops
// whatever already started.
func Start(cfg config.Config, logger *logging.Logger) (*Telemetry, error) {
	if logger == nil {
		logger = logging.Default()
	}
	t := &Telemetry{logger: logger}

	steps := []struct {
		name  string
		start func(config.Config, *logging.Logger) (shutdownFunc, error)
	}{
		{name: "uptrace", start: initUptrace},
		{name: "pyroscope", start: initPyroscope},
		{name: "pprof", start: startPprof},
	}
	for _, step := range steps {
		fn, err := step.start(cfg, logger)
		if err != nil {
			_ = t.Shutdown(context.Background())
			return nil, fmt.Errorf("start %s: %w", step.name, err)
		}
		if fn != nil {
			t.shutdowns = append(t.shutdowns, namedShutdown{name: step.name, fn: fn})
		}
	}
	return t, nil
}

// Shutdown stops hooks in reverse start order and joins their errors.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	if t == nil {
		return nil
	}
	var errs []error
	for i := len(t.shutdowns) - 1; i >= 0; i-- {
		s := t.shutdowns[i]
		if err := s.fn(ctx); err != nil {
			errs = append(errs, fmt.Errorf("stop %s: %w", s.name, err))
			continue
		}
		t.logger.Info("telemetry hook stopped", "hook", s.name)
	}
	t.shutdowns = nil
	return errors.Join(errs...)
}
