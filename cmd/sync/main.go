package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/fixture-sync/internal/app"
	"github.com/riskibarqy/fixture-sync/internal/config"
	"github.com/riskibarqy/fixture-sync/internal/domain/syncstate"
	"github.com/riskibarqy/fixture-sync/internal/observability"
	"github.com/riskibarqy/fixture-sync/internal/platform/logging"
	"github.com/riskibarqy/fixture-sync/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

var errUnknownCommand = errors.New("unknown command")

func main() {
	os.Exit(run())
}

func run() int {
	if len(os.Args) < 2 {
		printUsage()
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		return 1
	}

	logger := logging.New(logging.Options{
		Writer:  os.Stderr,
		Level:   cfg.LogLevel,
		Service: cfg.ServiceName,
		Version: cfg.ServiceVersion,
	}).With("command", "sync")
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	// The CLI exits after one run; profiling endpoints would never be scraped.
	cfg.PprofEnabled = false
	telemetry, err := observability.Start(cfg, logger)
	if err != nil {
		logger.Error("start telemetry", "error", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Warn("shutdown telemetry", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		return 1
	}
	defer func() {
		if err := application.Close(); err != nil {
			logger.Warn("close storage", "error", err)
		}
	}()
	application.ConfigureTeams(ctx)

	result, err := runCommand(ctx, application.SyncManager, os.Args[1], os.Args[2:])
	if errors.Is(err, errUnknownCommand) {
		printUsage()
		return 2
	}
	if err != nil {
		logger.Error("sync command failed", "command", os.Args[1], "error", err)
		return 1
	}

	if err := sonic.ConfigDefault.NewEncoder(os.Stdout).Encode(result); err != nil {
		logger.Error("encode result", "error", err)
		return 1
	}
	return 0
}

func runCommand(ctx context.Context, manager *usecase.SyncManager, command string, args []string) (any, error) {
	switch strings.ToLower(strings.TrimSpace(command)) {
	case "run":
		return manager.SyncTeamsFixtures(ctx, syncstate.TriggerManual)
	case "range":
		if len(args) != 2 {
			return nil, fmt.Errorf("range requires FROM and TO dates (YYYY-MM-DD)")
		}
		return manager.SyncDateRange(ctx, strings.TrimSpace(args[0]), strings.TrimSpace(args[1]))
	case "deleted":
		trashed, err := manager.SyncDeletedFixtures(ctx)
		if err != nil {
			return nil, err
		}
		return map[string]int{"trashed": trashed}, nil
	case "refresh":
		ids, err := parseMatchIDs(args)
		if err != nil {
			return nil, err
		}
		if len(ids) == 1 {
			return manager.RefreshMatch(ctx, ids[0])
		}
		return manager.RefreshMatches(ctx, usecase.RefreshMatchesInput{ExternalIDs: ids})
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownCommand, command)
	}
}

func parseMatchIDs(args []string) ([]int64, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("refresh requires at least one match id")
	}
	ids := make([]int64, 0, len(args))
	for _, raw := range args {
		id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid match id %q", raw)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage:")
	fmt.Fprintln(os.Stderr, "  go run ./cmd/sync run")
	fmt.Fprintln(os.Stderr, "  go run ./cmd/sync range <YYYY-MM-DD> <YYYY-MM-DD>")
	fmt.Fprintln(os.Stderr, "  go run ./cmd/sync deleted")
	fmt.Fprintln(os.Stderr, "  go run ./cmd/sync refresh <match_id> [match_id...]")
}
