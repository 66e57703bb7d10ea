package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fixture-sync/internal/domain/errorlog"
	qb "github.com/riskibarqy/fixture-sync/internal/platform/querybuilder"
)

type errorLogTableModel struct {
	ID             int64          `db:"id"`
	Timestamp      time.Time      `db:"logged_at"`
	Type           string         `db:"error_type"`
	Message        string         `db:"error_message"`
	Code           sql.NullString `db:"error_code"`
	Context        string         `db:"context"`
	StackTrace     sql.NullString `db:"stack_trace"`
	RequestDetails string         `db:"request_details"`
}

type errorLogInsertModel struct {
	Timestamp      time.Time `db:"logged_at"`
	Type           string    `db:"error_type"`
	Message        string    `db:"error_message"`
	Code           *string   `db:"error_code"`
	Context        string    `db:"context"`
	StackTrace     *string   `db:"stack_trace"`
	RequestDetails string    `db:"request_details"`
}

type ErrorLogRepository struct {
	db *sqlx.DB
}

func NewErrorLogRepository(db *sqlx.DB) *ErrorLogRepository {
	return &ErrorLogRepository{db: db}
}

func (r *ErrorLogRepository) Insert(ctx context.Context, entry errorlog.Entry) error {
	loggedAt := entry.Timestamp
	if loggedAt.IsZero() {
		loggedAt = time.Now()
	}

	query, args, err := qb.InsertModel("error_logs", errorLogInsertModel{
		Timestamp:      loggedAt.UTC(),
		Type:           entry.Type,
		Message:        entry.Message,
		Code:           nullableString(entry.Code),
		Context:        encodeJSONMap(entry.Context),
		StackTrace:     nullableString(entry.StackTrace),
		RequestDetails: encodeJSONMap(entry.RequestDetails),
	}, "")
	if err != nil {
		return fmt.Errorf("build insert error log query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert error log type=%s: %w", entry.Type, err)
	}
	return nil
}

func (r *ErrorLogRepository) List(ctx context.Context, filter errorlog.Filter) ([]errorlog.Entry, error) {
	filter = filter.Normalize()
	query, args, err := qb.Select("*").From("error_logs").
		Where(errorLogConditions(filter)...).
		OrderBy("logged_at DESC", "id DESC").
		Limit(filter.PerPage).
		Offset(filter.Offset()).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list error logs query: %w", err)
	}

	var rows []errorLogTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list error logs: %w", err)
	}

	out := make([]errorlog.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, errorlog.Entry{
			ID:             row.ID,
			Timestamp:      row.Timestamp.UTC(),
			Type:           row.Type,
			Message:        row.Message,
			Code:           row.Code.String,
			Context:        decodeJSONMap(row.Context),
			StackTrace:     row.StackTrace.String,
			RequestDetails: decodeJSONMap(row.RequestDetails),
		})
	}
	return out, nil
}

func (r *ErrorLogRepository) Count(ctx context.Context, filter errorlog.Filter) (int, error) {
	query, args, err := qb.Select("COUNT(*)").From("error_logs").
		Where(errorLogConditions(filter)...).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count error logs query: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, query, args...); err != nil {
		return 0, fmt.Errorf("count error logs: %w", err)
	}
	return total, nil
}

func (r *ErrorLogRepository) Delete(ctx context.Context, id int64) (bool, error) {
	affected, err := r.deleteWhere(ctx, qb.Eq("id", id))
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *ErrorLogRepository) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	return r.deleteWhere(ctx, qb.Lt("logged_at", before.UTC()))
}

func (r *ErrorLogRepository) DeleteAll(ctx context.Context) (int64, error) {
	return r.deleteWhere(ctx)
}

func (r *ErrorLogRepository) deleteWhere(ctx context.Context, conditions ...qb.Condition) (int64, error) {
	query, args, err := qb.DeleteFrom("error_logs").Where(conditions...).ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build delete error logs query: %w", err)
	}
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete error logs: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected delete error logs: %w", err)
	}
	return affected, nil
}

func errorLogConditions(filter errorlog.Filter) []qb.Condition {
	conditions := make([]qb.Condition, 0, 3)
	if filter.Type != "" {
		conditions = append(conditions, qb.Eq("error_type", filter.Type))
	}
	if filter.From != nil {
		conditions = append(conditions, qb.Gte("logged_at", filter.From.UTC()))
	}
	if filter.To != nil {
		conditions = append(conditions, qb.Lte("logged_at", filter.To.UTC()))
	}
	return conditions
}
