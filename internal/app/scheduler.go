package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/riskibarqy/fixture-sync/internal/domain/syncstate"
	"github.com/riskibarqy/fixture-sync/internal/platform/logging"
	"github.com/riskibarqy/fixture-sync/internal/usecase"
	"github.com/robfig/cron/v3"
)

// BatchRunner runs one fixture batch.
type BatchRunner interface {
	SyncTeamsFixtures(ctx context.Context, trigger syncstate.Trigger) (syncstate.Summary, error)
}

// Scheduler fires the recurring batch sync. Overlapping ticks are skipped.
type Scheduler struct {
	cron   *cron.Cron
	runner BatchRunner
	logger *logging.Logger
	entry  cron.EntryID
}

func NewScheduler(spec string, runner BatchRunner, logger *logging.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = logging.Default()
	}

	cronLog := cronLogger{logger: logger}
	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithLogger(cronLog),
			cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
		),
		runner: runner,
		logger: logger,
	}

	entry, err := s.cron.AddFunc(spec, s.run)
	if err != nil {
		return nil, fmt.Errorf("add sync schedule %q: %w", spec, err)
	}
	s.entry = entry
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("sync scheduler started", "next_run", s.Next())
}

// Stop waits for a running batch up to ctx's deadline.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.logger.Info("sync scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) Next() time.Time {
	return s.cron.Entry(s.entry).Next
}

func (s *Scheduler) run() {
	summary, err := s.runner.SyncTeamsFixtures(context.Background(), syncstate.TriggerScheduled)
	if errors.Is(err, usecase.ErrSyncInProgress) {
		s.logger.Info("scheduled sync skipped, another run is in progress")
		return
	}
	if err != nil {
		s.logger.Error("scheduled sync failed", "error", err)
		return
	}
	s.logger.Info("scheduled sync finished", "run_id", summary.RunID, "success", summary.Results.Success, "errors", summary.Results.Error)
}

type cronLogger struct {
	logger *logging.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
