package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"sync"
	"time"

	"github.com/riskibarqy/fixture-sync/internal/domain/errorlog"
	"github.com/riskibarqy/fixture-sync/internal/domain/fixture"
	"github.com/riskibarqy/fixture-sync/internal/domain/syncstate"
	"github.com/riskibarqy/fixture-sync/internal/platform/id"
	"github.com/riskibarqy/fixture-sync/internal/platform/logging"
	"github.com/sourcegraph/conc/panics"
	"go.opentelemetry.io/otel/attribute"
)

const (
	defaultDeletedWindowDays = 90
	maxDeletedWindowDays     = 365
	syncDateLayout           = "2006-01-02"
)

var syncDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// FixtureProvider is the upstream fixture source used by the sync manager.
type FixtureProvider interface {
	TeamFixtures(ctx context.Context, teamID int64, filters string) ([]fixture.Fixture, error)
	FixturesBetween(ctx context.Context, from, to string, teamID int64) ([]fixture.Fixture, error)
	DeletedFixtureIDs(ctx context.Context, day time.Time) ([]int64, error)
	Fixture(ctx context.Context, externalID int64) (fixture.Fixture, bool, error)
}

// ErrorReporter records structured sync diagnostics.
type ErrorReporter interface {
	Report(ctx context.Context, entry errorlog.Entry)
}

type SyncManagerConfig struct {
	Teams          []syncstate.TeamConfig
	DeletedEnabled bool
	DeletedDays    int
}

// MatchSyncResult is the outcome of upserting one fetched fixture.
type MatchSyncResult struct {
	Success  bool
	Created  bool
	RecordID int64
}

type SyncManager struct {
	provider   FixtureProvider
	fixtures   fixture.Repository
	state      syncstate.Repository
	taxonomy   *TaxonomyService
	satellites *SatelliteService
	reporter   ErrorReporter
	logger     *logging.Logger
	runIDs     id.Generator
	cfg        SyncManagerConfig
	now        func() time.Time

	runMu sync.Mutex
}

func NewSyncManager(
	provider FixtureProvider,
	fixtures fixture.Repository,
	state syncstate.Repository,
	taxonomy *TaxonomyService,
	satellites *SatelliteService,
	reporter ErrorReporter,
	cfg SyncManagerConfig,
	logger *logging.Logger,
) *SyncManager {
	if logger == nil {
		logger = logging.Default()
	}
	return &SyncManager{
		provider:   provider,
		fixtures:   fixtures,
		state:      state,
		taxonomy:   taxonomy,
		satellites: satellites,
		reporter:   reporter,
		logger:     logger,
		runIDs:     id.NewRunIDGenerator("sync"),
		cfg:        cfg,
		now:        time.Now,
	}
}

// SelectMode picks snapshot or incremental mode for a team watermark.
func (m *SyncManager) SelectMode(w syncstate.Watermark) syncstate.Mode {
	return w.SelectMode(m.now().UTC())
}

// SyncTeamsFixtures runs one batch over every configured team. Failures are
// counted per fixture or team and never abort the batch. The run is detached
// from ctx cancellation: once started it covers every team and every day of
// the deleted window.
func (m *SyncManager) SyncTeamsFixtures(ctx context.Context, trigger syncstate.Trigger) (syncstate.Summary, error) {
	ctx = context.WithoutCancel(ctx)
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncManager.SyncTeamsFixtures",
		attribute.String("sync.trigger", string(trigger)),
		attribute.Int("sync.teams", len(m.cfg.Teams)),
	)
	defer span.End()

	if !m.runMu.TryLock() {
		return syncstate.Summary{}, ErrSyncInProgress
	}
	defer m.runMu.Unlock()

	if trigger == "" {
		trigger = syncstate.TriggerScheduled
	}
	summary := m.beginRun(ctx, trigger)
	logger := m.logger.With("run_id", summary.RunID, "trigger", string(trigger))

	if len(m.cfg.Teams) == 0 {
		m.report(ctx, errorlog.CodeNoTeams, "No teams configured for synchronization", nil, "")
		return m.finishRun(ctx, summary), nil
	}

	for _, team := range m.cfg.Teams {
		if team.TeamID <= 0 {
			continue
		}
		team := team
		var catcher panics.Catcher
		catcher.Try(func() {
			m.syncTeam(ctx, team, &summary)
		})
		if recovered := catcher.Recovered(); recovered != nil {
			logger.ErrorContext(ctx, "team sync panicked", "team_id", team.TeamID, "panic", recovered.Value)
			m.report(ctx, errorlog.CodeException, fmt.Sprint(recovered.Value), map[string]any{"team_id": team.TeamID}, string(recovered.Stack))
			summary.Results.Error++
		}
	}

	if m.cfg.DeletedEnabled {
		trashed, err := m.syncDeleted(ctx)
		if err != nil {
			logger.WarnContext(ctx, "deleted fixture reconciliation failed", "error", err)
		}
		summary.Results.Trashed = trashed
	}

	summary = m.finishRun(ctx, summary)
	logger.InfoContext(ctx, "fixture sync finished",
		"success", summary.Results.Success,
		"errors", summary.Results.Error,
		"created", summary.Results.Created,
		"updated", summary.Results.Updated,
		"trashed", summary.Results.Trashed,
		"duration_seconds", summary.Metrics.DurationSeconds,
	)
	return summary, nil
}

func (m *SyncManager) syncTeam(ctx context.Context, team syncstate.TeamConfig, summary *syncstate.Summary) {
	watermark, err := m.state.GetWatermark(ctx, team.TeamID)
	if err != nil {
		m.logger.WarnContext(ctx, "load watermark failed, using snapshot mode", "team_id", team.TeamID, "error", err)
		watermark = syncstate.Watermark{TeamID: team.TeamID}
	}
	watermark.TeamID = team.TeamID

	mode := m.SelectMode(watermark)
	summary.Metrics.FixtureModes[strconv.FormatInt(team.TeamID, 10)] = mode

	filters := ""
	if mode == syncstate.ModeIncremental {
		filters = watermark.IDAfterFilter()
	}

	fixtures, err := m.provider.TeamFixtures(ctx, team.TeamID, filters)
	if !m.acceptFetched(ctx, team.TeamID, err, summary) {
		m.logger.WarnContext(ctx, "fetch team fixtures failed", "team_id", team.TeamID, "mode", string(mode), "error", err)
		summary.Results.Error++
		summary.Metrics.FixturesErrors++
		return
	}

	summary.Metrics.FixturesTotal += len(fixtures)
	for _, item := range fixtures {
		result := m.SyncSingleMatch(ctx, item, &team)
		countMatchResult(summary, result)
		watermark.Observe(item.ExternalID)
	}
	if mode == syncstate.ModeSnapshot {
		watermark.StampSnapshot(m.now())
	}
	if err := m.state.SaveWatermark(ctx, watermark); err != nil {
		m.logger.WarnContext(ctx, "save watermark failed", "team_id", team.TeamID, "error", err)
	}

	if m.satellites != nil {
		refreshed := m.satellites.RefreshTeam(ctx, team.TeamID)
		summary.Results.Squads += refreshed.Squads
		summary.Results.Injuries += refreshed.Injuries
		summary.Results.Transfers += refreshed.Transfers
	}
}

// SyncSingleMatch upserts one fetched fixture. team scopes the category
// mapping and may be nil.
func (m *SyncManager) SyncSingleMatch(ctx context.Context, item fixture.Fixture, team *syncstate.TeamConfig) MatchSyncResult {
	if item.ExternalID <= 0 {
		return MatchSyncResult{}
	}
	if !item.HasBothSides() {
		m.report(ctx, errorlog.CodeParticipantsMissing, "Fixture participants missing home/away positions", map[string]any{"fixture_id": item.ExternalID}, "")
	}

	now := m.now().UTC()
	record, exists, err := m.fixtures.GetByExternalID(ctx, item.ExternalID)
	if err != nil {
		m.report(ctx, errorlog.CodeStoreError, fmt.Sprintf("find fixture record: %v", err), map[string]any{"match_id": item.ExternalID}, "")
		return MatchSyncResult{}
	}

	if exists {
		record.Apply(item, now)
		record.UpdatedAt = now
		if err := m.fixtures.Update(ctx, record); err != nil {
			m.report(ctx, errorlog.CodeStoreError, fmt.Sprintf("update fixture record: %v", err), map[string]any{"match_id": item.ExternalID, "record_id": record.ID}, "")
			return MatchSyncResult{}
		}
		if !item.HasTeamNames() {
			m.report(ctx, errorlog.CodeMissingTeamNames, "Cannot update match title without team names", map[string]any{"match_id": item.ExternalID, "record_id": record.ID}, "")
		}
		m.associateTerms(ctx, record, team)
		return MatchSyncResult{Success: true, RecordID: record.ID}
	}

	if !item.HasTeamNames() {
		m.report(ctx, errorlog.CodeMissingTeamNames, "Cannot create match record without team names", map[string]any{"match_id": item.ExternalID}, "")
		return MatchSyncResult{}
	}

	record = fixture.Record{CreatedAt: now, UpdatedAt: now}
	record.Apply(item, now)
	created, err := m.fixtures.Create(ctx, record)
	if err != nil {
		m.report(ctx, errorlog.CodeStoreError, fmt.Sprintf("create fixture record: %v", err), map[string]any{"match_id": item.ExternalID}, "")
		return MatchSyncResult{}
	}
	m.associateTerms(ctx, created, team)
	return MatchSyncResult{Success: true, Created: true, RecordID: created.ID}
}

// acceptFetched reports whether the fetched list is usable. Malformed list
// items are reported and counted as errors while the rest is still synced.
func (m *SyncManager) acceptFetched(ctx context.Context, teamID int64, err error, summary *syncstate.Summary) bool {
	if err == nil {
		return true
	}
	var malformed fixture.PayloadErrors
	if !errors.As(err, &malformed) {
		return false
	}
	for _, item := range malformed {
		m.report(ctx, errorlog.CodeInvalidPayload, item.Error(), map[string]any{"team_id": teamID, "fixture_id": item.ExternalID, "item_index": item.Index}, "")
		summary.Results.Error++
		summary.Metrics.FixturesErrors++
	}
	return true
}

func (m *SyncManager) associateTerms(ctx context.Context, record fixture.Record, team *syncstate.TeamConfig) {
	if m.taxonomy == nil {
		return
	}
	var teamID int64
	if team != nil {
		teamID = team.TeamID
	}
	if err := m.taxonomy.AssociateRecord(ctx, record, teamID); err != nil {
		m.logger.WarnContext(ctx, "associate fixture terms failed", "match_id", record.ExternalID, "record_id", record.ID, "error", err)
	}
}

// SyncDateRange upserts every fixture of the configured teams between from
// and to (YYYY-MM-DD, inclusive). Watermarks are left untouched. Like
// SyncTeamsFixtures it ignores ctx cancellation once started.
func (m *SyncManager) SyncDateRange(ctx context.Context, from, to string) (syncstate.Summary, error) {
	ctx = context.WithoutCancel(ctx)
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncManager.SyncDateRange",
		attribute.String("sync.date_from", from),
		attribute.String("sync.date_to", to),
	)
	defer span.End()

	if !syncDatePattern.MatchString(from) || !syncDatePattern.MatchString(to) {
		return syncstate.Summary{}, fmt.Errorf("%w: dates must be YYYY-MM-DD", ErrInvalidInput)
	}
	fromDate, errFrom := time.Parse(syncDateLayout, from)
	toDate, errTo := time.Parse(syncDateLayout, to)
	if errFrom != nil || errTo != nil {
		return syncstate.Summary{}, fmt.Errorf("%w: dates must be valid calendar days", ErrInvalidInput)
	}
	if toDate.Before(fromDate) {
		return syncstate.Summary{}, fmt.Errorf("%w: date_from must not be after date_to", ErrInvalidInput)
	}

	if !m.runMu.TryLock() {
		return syncstate.Summary{}, ErrSyncInProgress
	}
	defer m.runMu.Unlock()

	summary := m.beginRun(ctx, syncstate.TriggerRange)
	for _, team := range m.cfg.Teams {
		if team.TeamID <= 0 {
			continue
		}
		fixtures, err := m.provider.FixturesBetween(ctx, from, to, team.TeamID)
		if !m.acceptFetched(ctx, team.TeamID, err, &summary) {
			m.logger.WarnContext(ctx, "fetch fixtures between dates failed", "team_id", team.TeamID, "from", from, "to", to, "error", err)
			summary.Results.Error++
			summary.Metrics.FixturesErrors++
			continue
		}

		team := team
		summary.Metrics.FixturesTotal += len(fixtures)
		for _, item := range fixtures {
			countMatchResult(&summary, m.SyncSingleMatch(ctx, item, &team))
		}
	}

	summary = m.finishRun(ctx, summary)
	m.logger.InfoContext(ctx, "fixture range sync finished",
		"run_id", summary.RunID,
		"from", from,
		"to", to,
		"success", summary.Results.Success,
		"errors", summary.Results.Error,
	)
	return summary, nil
}

// LastSummary returns the most recent stored run summary.
func (m *SyncManager) LastSummary(ctx context.Context) (syncstate.Summary, error) {
	summary, ok, err := m.state.LastSummary(ctx)
	if err != nil {
		return syncstate.Summary{}, fmt.Errorf("load last sync summary: %w", err)
	}
	if !ok {
		return syncstate.Summary{}, fmt.Errorf("%w: no sync run recorded", ErrNotFound)
	}
	return summary, nil
}

func (m *SyncManager) beginRun(ctx context.Context, trigger syncstate.Trigger) syncstate.Summary {
	startedAt := m.now().UTC()
	runID, err := m.runIDs.NewID()
	if err != nil {
		runID = "sync-" + startedAt.Format("20060102T150405Z")
	}
	if err := m.state.MarkRunStarted(ctx, runID, startedAt); err != nil {
		m.logger.WarnContext(ctx, "mark sync run started failed", "run_id", runID, "error", err)
	}
	return syncstate.Summary{
		RunID:     runID,
		Trigger:   trigger,
		StartedAt: startedAt,
		Metrics: syncstate.Metrics{
			FixtureModes: make(map[string]syncstate.Mode),
		},
	}
}

func (m *SyncManager) finishRun(ctx context.Context, summary syncstate.Summary) syncstate.Summary {
	summary.FinishedAt = m.now().UTC()
	seconds := summary.FinishedAt.Sub(summary.StartedAt).Seconds()
	summary.Metrics.DurationSeconds = math.Round(seconds*100) / 100
	if err := m.state.SaveSummary(ctx, summary); err != nil {
		m.logger.WarnContext(ctx, "save sync summary failed", "run_id", summary.RunID, "error", err)
	}
	return summary
}

func (m *SyncManager) report(ctx context.Context, code, message string, fields map[string]any, stack string) {
	if m.reporter == nil {
		m.logger.WarnContext(ctx, message, "error_code", code, "context", fields)
		return
	}
	m.reporter.Report(ctx, errorlog.Entry{
		Timestamp:  m.now().UTC(),
		Type:       errorlog.TypeSyncError,
		Message:    message,
		Code:       code,
		Context:    fields,
		StackTrace: stack,
	})
}

func countMatchResult(summary *syncstate.Summary, result MatchSyncResult) {
	if !result.Success {
		summary.Results.Error++
		summary.Metrics.FixturesErrors++
		return
	}
	summary.Results.Success++
	if result.Created {
		summary.Results.Created++
		summary.Metrics.FixturesCreated++
		return
	}
	summary.Results.Updated++
	summary.Metrics.FixturesUpdated++
}
