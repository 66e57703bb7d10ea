package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/fixture-sync/internal/domain/errorlog"
	"github.com/riskibarqy/fixture-sync/internal/platform/logging"
)

// stableJSON sorts map keys so exported context columns are comparable across rows.
var stableJSON = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	defaultErrorLogRetentionDays = 30
	errorLogExportLimit          = 1000
)

// ErrorLogService persists structured diagnostics and serves the admin reads.
type ErrorLogService struct {
	repo   errorlog.Repository
	logger *logging.Logger
	now    func() time.Time
}

func NewErrorLogService(repo errorlog.Repository, logger *logging.Logger) *ErrorLogService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ErrorLogService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// Report writes entry and mirrors it to the process log. Persistence
// failures are logged and swallowed so diagnostics never fail a sync.
func (s *ErrorLogService) Report(ctx context.Context, entry errorlog.Entry) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = s.now().UTC()
	}
	if strings.TrimSpace(entry.Type) == "" {
		entry.Type = errorlog.TypeSyncError
	}

	s.logger.WarnContext(ctx, entry.Message,
		"error_type", entry.Type,
		"error_code", entry.Code,
		"context", entry.Context,
	)
	if err := s.repo.Insert(ctx, entry); err != nil {
		s.logger.ErrorContext(ctx, "persist error log entry failed", "error", err, "error_code", entry.Code)
	}
}

type ErrorLogPage struct {
	Entries []errorlog.Entry `json:"entries"`
	Total   int              `json:"total"`
	Page    int              `json:"page"`
	PerPage int              `json:"per_page"`
}

func (s *ErrorLogService) List(ctx context.Context, filter errorlog.Filter) (ErrorLogPage, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ErrorLogService.List")
	defer span.End()

	filter = filter.Normalize()
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return ErrorLogPage{}, fmt.Errorf("%w: date_to must not be before date_from", ErrInvalidInput)
	}

	entries, err := s.repo.List(ctx, filter)
	if err != nil {
		return ErrorLogPage{}, fmt.Errorf("list error logs: %w", err)
	}
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return ErrorLogPage{}, fmt.Errorf("count error logs: %w", err)
	}
	return ErrorLogPage{
		Entries: entries,
		Total:   total,
		Page:    filter.Page,
		PerPage: filter.PerPage,
	}, nil
}

func (s *ErrorLogService) Count(ctx context.Context, filter errorlog.Filter) (int, error) {
	total, err := s.repo.Count(ctx, filter.Normalize())
	if err != nil {
		return 0, fmt.Errorf("count error logs: %w", err)
	}
	return total, nil
}

func (s *ErrorLogService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: log id is required", ErrInvalidInput)
	}
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete error log: %w", err)
	}
	if !deleted {
		return fmt.Errorf("%w: error log=%d", ErrNotFound, id)
	}
	return nil
}

// PurgeOlderThan removes entries older than days (default 30).
func (s *ErrorLogService) PurgeOlderThan(ctx context.Context, days int) (int64, error) {
	if days <= 0 {
		days = defaultErrorLogRetentionDays
	}
	before := s.now().UTC().AddDate(0, 0, -days)
	removed, err := s.repo.DeleteBefore(ctx, before)
	if err != nil {
		return 0, fmt.Errorf("purge error logs: %w", err)
	}
	return removed, nil
}

func (s *ErrorLogService) DeleteAll(ctx context.Context) (int64, error) {
	removed, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("delete all error logs: %w", err)
	}
	return removed, nil
}

// ExportCSV renders up to 1000 matching entries as CSV with a header row.
func (s *ErrorLogService) ExportCSV(ctx context.Context, filter errorlog.Filter) ([]byte, error) {
	filter.Page = 1
	filter.PerPage = errorLogExportLimit
	entries, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list error logs: %w", err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"ID", "Timestamp", "Error Type", "Error Message", "Error Code", "Context", "Request Details"}); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, entry := range entries {
		row := []string{
			strconv.FormatInt(entry.ID, 10),
			entry.Timestamp.UTC().Format(time.DateTime),
			entry.Type,
			entry.Message,
			entry.Code,
			encodeLogField(entry.Context),
			encodeLogField(entry.RequestDetails),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

func encodeLogField(value map[string]any) string {
	if len(value) == 0 {
		return "[]"
	}
	raw, err := stableJSON.Marshal(value)
	if err != nil {
		return ""
	}
	return string(raw)
}
