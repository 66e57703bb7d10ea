package app

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/riskibarqy/fixture-sync/internal/config"
	"github.com/riskibarqy/fixture-sync/internal/platform/logging"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
)

const (
	dbPingTimeout        = 5 * time.Second
	maxTracedQueryLength = 512
	preparedBinaryParam  = "disable_prepared_binary_result"
)

// dbTarget is the resolved connection target for the fixture store.
type dbTarget struct {
	DSN  string
	Name string
}

func resolveDBTarget(cfg config.Config) (dbTarget, error) {
	dsn := DatabaseURL(cfg)
	if dsn == "" {
		return dbTarget{}, fmt.Errorf("DB_URL is required when STORAGE_DRIVER=%s", config.StoragePostgres)
	}
	return dbTarget{DSN: dsn, Name: dbNameFromURL(dsn)}, nil
}

func openDB(ctx context.Context, cfg config.Config, logger *logging.Logger) (*sqlx.DB, error) {
	target, err := resolveDBTarget(cfg)
	if err != nil {
		return nil, err
	}

	db, err := otelsqlx.Open("postgres", target.DSN,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(target.Name),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, dbPingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres %q: %w", target.Name, err)
	}

	logger.Info("postgres connected", "database", target.Name)
	return db, nil
}

// DatabaseURL is the DSN the service and the migrator connect with. URL-style
// DSNs get disable_prepared_binary_result=yes unless the caller set it.
func DatabaseURL(cfg config.Config) string {
	raw := strings.TrimSpace(cfg.DBURL)
	if raw == "" || !cfg.DBDisablePreparedBinary {
		return raw
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme == "" {
		return raw
	}
	query := parsed.Query()
	if query.Get(preparedBinaryParam) != "" {
		return raw
	}
	query.Set(preparedBinaryParam, "yes")
	parsed.RawQuery = query.Encode()
	return parsed.String()
}

// dbNameFromURL accepts both postgres:// URLs and key=value DSNs.
func dbNameFromURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if parsed, err := url.Parse(raw); err == nil && parsed.Scheme != "" {
		return strings.Trim(parsed.Path, "/ ")
	}
	for _, token := range strings.Fields(raw) {
		if name, ok := strings.CutPrefix(token, "dbname="); ok {
			return strings.Trim(name, `"'`)
		}
	}
	return ""
}

// formatDBQueryForTrace collapses whitespace and caps the statement so fixture
// upserts with long column lists stay readable in spans.
func formatDBQueryForTrace(query string) string {
	normalized := strings.Join(strings.Fields(query), " ")
	if len(normalized) <= maxTracedQueryLength {
		return normalized
	}

	cut := maxTracedQueryLength
	for cut > 0 && !utf8.RuneStart(normalized[cut]) {
		cut--
	}
	return normalized[:cut] + "..."
}
