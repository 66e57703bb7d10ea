package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/fixture-sync/internal/domain/errorlog"
	"github.com/riskibarqy/fixture-sync/internal/domain/fixture"
	"github.com/riskibarqy/fixture-sync/internal/domain/syncstate"
	"github.com/riskibarqy/fixture-sync/internal/domain/taxonomy"
	"github.com/riskibarqy/fixture-sync/internal/infrastructure/repository/memory"
)

var syncTestNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

type syncHarness struct {
	manager  *SyncManager
	provider *stubFixtureProvider
	fixtures *memory.FixtureRepository
	state    *memory.SyncStateRepository
	taxonomy *memory.TaxonomyRepository
	reporter *recordingReporter
}

func newSyncHarness(t *testing.T, teams []syncstate.TeamConfig, records []fixture.Record) *syncHarness {
	t.Helper()

	h := &syncHarness{
		provider: newStubFixtureProvider(),
		fixtures: memory.NewFixtureRepository(records),
		state:    memory.NewSyncStateRepository(),
		taxonomy: memory.NewTaxonomyRepository(),
		reporter: &recordingReporter{},
	}
	taxonomySvc := NewTaxonomyService(h.taxonomy, nil)
	h.manager = NewSyncManager(h.provider, h.fixtures, h.state, taxonomySvc, nil, h.reporter, SyncManagerConfig{
		Teams: teams,
	}, nil)
	h.manager.now = func() time.Time { return syncTestNow }
	return h
}

func liverpoolEverton(id int64) fixture.Fixture {
	return fixture.Fixture{
		ExternalID:  id,
		HomeTeam:    fixture.Team{ID: 8, Name: "Liverpool"},
		AwayTeam:    fixture.Team{ID: 13, Name: "Everton"},
		LeagueID:    8,
		LeagueName:  "Premier League",
		ScheduledAt: time.Date(2026, 3, 7, 15, 0, 0, 0, time.UTC),
		Status:      "NS",
	}
}

func TestSyncManager_SyncTeamsFixtures_SnapshotThenIncremental(t *testing.T) {
	t.Parallel()

	h := newSyncHarness(t, []syncstate.TeamConfig{{TeamID: 8, TeamName: "Liverpool"}}, nil)
	h.provider.teamFixtures[8] = []fixture.Fixture{liverpoolEverton(1001), liverpoolEverton(1005)}

	summary, err := h.manager.SyncTeamsFixtures(context.Background(), syncstate.TriggerManual)
	if err != nil {
		t.Fatalf("sync teams fixtures: %v", err)
	}
	if summary.Results.Created != 2 || summary.Results.Success != 2 || summary.Results.Error != 0 {
		t.Fatalf("unexpected results: %+v", summary.Results)
	}
	if summary.Metrics.FixtureModes["8"] != syncstate.ModeSnapshot {
		t.Fatalf("expected snapshot mode, got %s", summary.Metrics.FixtureModes["8"])
	}
	if got := h.provider.filtersFor(8); len(got) != 1 || got[0] != "" {
		t.Fatalf("expected one unfiltered fetch, got %v", got)
	}

	watermark, err := h.state.GetWatermark(context.Background(), 8)
	if err != nil {
		t.Fatalf("get watermark: %v", err)
	}
	if watermark.LastSeenMaxID != 1005 || watermark.LastSnapshotAt == nil {
		t.Fatalf("unexpected watermark after snapshot: %+v", watermark)
	}

	h.provider.teamFixtures[8] = []fixture.Fixture{liverpoolEverton(1007)}
	summary, err = h.manager.SyncTeamsFixtures(context.Background(), syncstate.TriggerScheduled)
	if err != nil {
		t.Fatalf("second sync: %v", err)
	}
	if summary.Metrics.FixtureModes["8"] != syncstate.ModeIncremental {
		t.Fatalf("expected incremental mode, got %s", summary.Metrics.FixtureModes["8"])
	}
	filters := h.provider.filtersFor(8)
	if filters[len(filters)-1] != "idAfter:1005" {
		t.Fatalf("expected idAfter filter, got %v", filters)
	}

	stored, ok, err := h.manager.state.LastSummary(context.Background())
	if err != nil || !ok {
		t.Fatalf("expected stored summary, ok=%t err=%v", ok, err)
	}
	if stored.RunID != summary.RunID || stored.Trigger != syncstate.TriggerScheduled {
		t.Fatalf("unexpected stored summary: %+v", stored)
	}
}

func TestSyncManager_SyncTeamsFixtures_SamePayloadTwiceIsIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	h := newSyncHarness(t, []syncstate.TeamConfig{{TeamID: 8, TeamName: "Liverpool"}}, nil)
	h.provider.teamFixtures[8] = []fixture.Fixture{liverpoolEverton(1001)}
	h.provider.rangeFixtures[8] = []fixture.Fixture{liverpoolEverton(1001)}

	first, err := h.manager.SyncTeamsFixtures(ctx, syncstate.TriggerManual)
	if err != nil {
		t.Fatalf("first sync: %v", err)
	}
	if first.Results.Created != 1 || first.Results.Updated != 0 {
		t.Fatalf("unexpected first results: %+v", first.Results)
	}

	second, err := h.manager.SyncTeamsFixtures(ctx, syncstate.TriggerManual)
	if err != nil {
		t.Fatalf("second sync: %v", err)
	}
	if second.Metrics.FixtureModes["8"] != syncstate.ModeIncremental {
		t.Fatalf("expected incremental second run, got %s", second.Metrics.FixtureModes["8"])
	}
	if filters := h.provider.filtersFor(8); filters[len(filters)-1] != "idAfter:1001" {
		t.Fatalf("expected idAfter filter, got %v", filters)
	}
	if second.Results.Created != 0 || second.Results.Updated != 0 || second.Results.Error != 0 {
		t.Fatalf("expected nothing to change on second run, got %+v", second.Results)
	}

	watermark, err := h.state.GetWatermark(ctx, 8)
	if err != nil {
		t.Fatalf("get watermark: %v", err)
	}
	if watermark.LastSeenMaxID != 1001 {
		t.Fatalf("expected watermark to stay at 1001, got %d", watermark.LastSeenMaxID)
	}

	ranged, err := h.manager.SyncDateRange(ctx, "2026-03-01", "2026-03-31")
	if err != nil {
		t.Fatalf("range sync: %v", err)
	}
	if ranged.Results.Created != 0 || ranged.Results.Updated != 1 {
		t.Fatalf("expected refetched fixture to update in place, got %+v", ranged.Results)
	}

	active, err := h.fixtures.ListActive(ctx, 10)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 1 || active[0].ExternalID != 1001 {
		t.Fatalf("expected exactly one record, got %+v", active)
	}
}

func TestSyncManager_SyncTeamsFixtures_MalformedItemsAreCountedNotFatal(t *testing.T) {
	t.Parallel()

	h := newSyncHarness(t, []syncstate.TeamConfig{{TeamID: 8}}, nil)
	h.provider.teamFixtures[8] = []fixture.Fixture{liverpoolEverton(1001)}
	h.provider.teamErrors[8] = fixture.PayloadErrors{
		{Index: 1, ExternalID: 1002, Err: errors.New("participants: unexpected string")},
	}

	summary, err := h.manager.SyncTeamsFixtures(context.Background(), syncstate.TriggerManual)
	if err != nil {
		t.Fatalf("sync teams fixtures: %v", err)
	}
	if summary.Results.Created != 1 || summary.Results.Error != 1 {
		t.Fatalf("expected one created and one error, got %+v", summary.Results)
	}

	codes := h.reporter.codes()
	if len(codes) != 1 || codes[0] != errorlog.CodeInvalidPayload {
		t.Fatalf("expected invalid payload report, got %v", codes)
	}
	watermark, _ := h.state.GetWatermark(context.Background(), 8)
	if watermark.LastSeenMaxID != 1001 {
		t.Fatalf("expected watermark from decoded fixtures, got %d", watermark.LastSeenMaxID)
	}
}

func TestSyncManager_SyncTeamsFixtures_IgnoresCallerCancellation(t *testing.T) {
	t.Parallel()

	trashable := fixture.Record{ID: 70, Fixture: liverpoolEverton(2001), Title: "Liverpool vs Everton"}
	h := newSyncHarness(t, []syncstate.TeamConfig{{TeamID: 8}, {TeamID: 9}}, []fixture.Record{trashable})
	h.manager.cfg.DeletedEnabled = true
	h.manager.cfg.DeletedDays = 2
	h.provider.teamFixtures[8] = []fixture.Fixture{liverpoolEverton(1001)}
	h.provider.teamFixtures[9] = []fixture.Fixture{liverpoolEverton(1002)}
	h.provider.deletedByDay[syncTestNow.Format(syncDateLayout)] = []int64{2001}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h.provider.beforeFetch = func(teamID int64) {
		if teamID == 8 {
			cancel()
		}
	}

	summary, err := h.manager.SyncTeamsFixtures(ctx, syncstate.TriggerManual)
	if err != nil {
		t.Fatalf("sync teams fixtures: %v", err)
	}
	if len(h.provider.filtersFor(9)) != 1 {
		t.Fatalf("expected team 9 to be fetched after cancellation")
	}
	if summary.Results.Success != 2 || summary.Results.Error != 0 {
		t.Fatalf("expected both teams synced, got %+v", summary.Results)
	}
	if summary.Results.Trashed != 1 {
		t.Fatalf("expected deleted window to run to the end, got trashed=%d", summary.Results.Trashed)
	}
}

func TestSyncManager_SyncTeamsFixtures_EmptySnapshotStillStamps(t *testing.T) {
	t.Parallel()

	h := newSyncHarness(t, []syncstate.TeamConfig{{TeamID: 8}}, nil)

	if _, err := h.manager.SyncTeamsFixtures(context.Background(), syncstate.TriggerManual); err != nil {
		t.Fatalf("sync teams fixtures: %v", err)
	}
	watermark, _ := h.state.GetWatermark(context.Background(), 8)
	if watermark.LastSnapshotAt == nil || !watermark.LastSnapshotAt.Equal(syncTestNow) {
		t.Fatalf("expected snapshot stamp, got %+v", watermark)
	}
	if watermark.LastSeenMaxID != 0 {
		t.Fatalf("expected watermark to stay at zero, got %d", watermark.LastSeenMaxID)
	}
}

func TestSyncManager_SyncTeamsFixtures_UpdatesExistingRecord(t *testing.T) {
	t.Parallel()

	existing := fixture.Record{
		ID:      41,
		Fixture: fixture.Fixture{ExternalID: 1001, Status: "NS"},
		Title:   "TBD vs TBD",
	}
	h := newSyncHarness(t, []syncstate.TeamConfig{{TeamID: 8}}, []fixture.Record{existing})
	item := liverpoolEverton(1001)
	item.Status = "FT"
	item.ScoreHome = "2"
	item.ScoreAway = "1"
	h.provider.teamFixtures[8] = []fixture.Fixture{item}

	summary, err := h.manager.SyncTeamsFixtures(context.Background(), syncstate.TriggerManual)
	if err != nil {
		t.Fatalf("sync teams fixtures: %v", err)
	}
	if summary.Results.Updated != 1 || summary.Results.Created != 0 {
		t.Fatalf("unexpected results: %+v", summary.Results)
	}

	record, ok, _ := h.fixtures.GetByExternalID(context.Background(), 1001)
	if !ok || record.ID != 41 {
		t.Fatalf("expected record id to be preserved, got %+v", record)
	}
	if record.Title != "Liverpool vs Everton" || record.Status != "FT" || record.ScoreHome != "2" {
		t.Fatalf("unexpected updated record: %+v", record)
	}
	if !record.LastSyncedAt.Equal(syncTestNow) {
		t.Fatalf("expected last synced at %s, got %s", syncTestNow, record.LastSyncedAt)
	}
}

func TestSyncManager_SyncSingleMatch_CreateRequiresTeamNames(t *testing.T) {
	t.Parallel()

	h := newSyncHarness(t, nil, nil)
	item := liverpoolEverton(2001)
	item.AwayTeam.Name = ""

	result := h.manager.SyncSingleMatch(context.Background(), item, nil)
	if result.Success {
		t.Fatalf("expected create without names to fail")
	}
	if _, ok, _ := h.fixtures.GetByExternalID(context.Background(), 2001); ok {
		t.Fatalf("expected no record to be stored")
	}
	if !h.reporter.hasCode(errorlog.CodeMissingTeamNames) {
		t.Fatalf("expected %s report, got %v", errorlog.CodeMissingTeamNames, h.reporter.codes())
	}
}

func TestSyncManager_SyncSingleMatch_UpdateWithoutNamesKeepsTitle(t *testing.T) {
	t.Parallel()

	existing := fixture.Record{ID: 7, Fixture: liverpoolEverton(2002), Title: "Liverpool vs Everton"}
	h := newSyncHarness(t, nil, []fixture.Record{existing})
	item := liverpoolEverton(2002)
	item.HomeTeam.Name = ""
	item.Status = "LIVE"

	result := h.manager.SyncSingleMatch(context.Background(), item, nil)
	if !result.Success || result.Created || result.RecordID != 7 {
		t.Fatalf("unexpected result: %+v", result)
	}
	record, _, _ := h.fixtures.GetByExternalID(context.Background(), 2002)
	if record.Title != "Liverpool vs Everton" || record.Status != "LIVE" {
		t.Fatalf("unexpected record after update: %+v", record)
	}
	if !h.reporter.hasCode(errorlog.CodeMissingTeamNames) {
		t.Fatalf("expected missing names to be reported")
	}
}

func TestSyncManager_SyncSingleMatch_AssociatesTerms(t *testing.T) {
	t.Parallel()

	h := newSyncHarness(t, nil, nil)
	ctx := context.Background()
	category, err := h.manager.taxonomy.ConfigureTeam(ctx, 8, "Liverpool FC")
	if err != nil {
		t.Fatalf("configure team: %v", err)
	}

	result := h.manager.SyncSingleMatch(ctx, liverpoolEverton(3001), &syncstate.TeamConfig{TeamID: 8})
	if !result.Success {
		t.Fatalf("expected success, got %+v", result)
	}

	categories, _ := h.taxonomy.RecordTerms(ctx, result.RecordID, taxonomy.KindCategory)
	if len(categories) != 1 || categories[0] != category.ID {
		t.Fatalf("expected category term %d, got %v", category.ID, categories)
	}
	competitions, _ := h.taxonomy.RecordTerms(ctx, result.RecordID, taxonomy.KindCompetition)
	if len(competitions) != 1 {
		t.Fatalf("expected one competition term, got %v", competitions)
	}
	if termID, ok, _ := h.taxonomy.LeagueCompetition(ctx, 8); !ok || termID != competitions[0] {
		t.Fatalf("expected league 8 to map to competition %v, got %d ok=%t", competitions, termID, ok)
	}
}

func TestSyncManager_SyncTeamsFixtures_IsolatesTeamFailures(t *testing.T) {
	t.Parallel()

	h := newSyncHarness(t, []syncstate.TeamConfig{{TeamID: 8}, {TeamID: 13}, {TeamID: 14}}, nil)
	h.provider.teamErrors[8] = errors.New("connection reset")
	h.provider.teamPanics[13] = "nil map write"
	h.provider.teamFixtures[14] = []fixture.Fixture{liverpoolEverton(4001)}

	summary, err := h.manager.SyncTeamsFixtures(context.Background(), syncstate.TriggerManual)
	if err != nil {
		t.Fatalf("sync teams fixtures: %v", err)
	}
	if summary.Results.Error != 2 || summary.Results.Created != 1 {
		t.Fatalf("unexpected results: %+v", summary.Results)
	}
	if !h.reporter.hasCode(errorlog.CodeException) {
		t.Fatalf("expected panic to be reported as %s, got %v", errorlog.CodeException, h.reporter.codes())
	}
	entry := h.reporter.first(errorlog.CodeException)
	if entry.StackTrace == "" || entry.Context["team_id"] != int64(13) {
		t.Fatalf("unexpected exception entry: %+v", entry)
	}
}

func TestSyncManager_SyncTeamsFixtures_NoTeams(t *testing.T) {
	t.Parallel()

	h := newSyncHarness(t, nil, nil)
	summary, err := h.manager.SyncTeamsFixtures(context.Background(), "")
	if err != nil {
		t.Fatalf("sync teams fixtures: %v", err)
	}
	if summary.Trigger != syncstate.TriggerScheduled {
		t.Fatalf("expected default trigger, got %s", summary.Trigger)
	}
	if !h.reporter.hasCode(errorlog.CodeNoTeams) {
		t.Fatalf("expected %s report", errorlog.CodeNoTeams)
	}
	if _, ok, _ := h.state.LastSummary(context.Background()); !ok {
		t.Fatalf("expected summary to be stored for empty run")
	}
}

func TestSyncManager_RejectsConcurrentRuns(t *testing.T) {
	t.Parallel()

	h := newSyncHarness(t, []syncstate.TeamConfig{{TeamID: 8}}, nil)
	h.manager.runMu.Lock()
	defer h.manager.runMu.Unlock()

	if _, err := h.manager.SyncTeamsFixtures(context.Background(), syncstate.TriggerManual); !errors.Is(err, ErrSyncInProgress) {
		t.Fatalf("expected ErrSyncInProgress, got %v", err)
	}
	if _, err := h.manager.SyncDateRange(context.Background(), "2026-03-01", "2026-03-31"); !errors.Is(err, ErrSyncInProgress) {
		t.Fatalf("expected ErrSyncInProgress for range sync, got %v", err)
	}
	if _, err := h.manager.SyncDeletedFixtures(context.Background()); !errors.Is(err, ErrSyncInProgress) {
		t.Fatalf("expected ErrSyncInProgress for deleted sync, got %v", err)
	}
}

func TestSyncManager_SyncDateRange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		from    string
		to      string
		wantErr error
	}{
		{name: "valid range", from: "2026-03-01", to: "2026-03-31"},
		{name: "same day", from: "2026-03-01", to: "2026-03-01"},
		{name: "bad format", from: "01-03-2026", to: "2026-03-31", wantErr: ErrInvalidInput},
		{name: "impossible day", from: "2026-02-30", to: "2026-03-31", wantErr: ErrInvalidInput},
		{name: "reversed", from: "2026-03-31", to: "2026-03-01", wantErr: ErrInvalidInput},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			h := newSyncHarness(t, []syncstate.TeamConfig{{TeamID: 8}}, nil)
			h.provider.rangeFixtures[8] = []fixture.Fixture{liverpoolEverton(5001)}

			summary, err := h.manager.SyncDateRange(context.Background(), tc.from, tc.to)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("sync date range: %v", err)
			}
			if summary.Trigger != syncstate.TriggerRange || summary.Results.Created != 1 {
				t.Fatalf("unexpected summary: %+v", summary)
			}
			watermark, _ := h.state.GetWatermark(context.Background(), 8)
			if watermark.LastSeenMaxID != 0 || watermark.LastSnapshotAt != nil {
				t.Fatalf("expected range sync to leave watermark untouched, got %+v", watermark)
			}
		})
	}
}

type stubFixtureProvider struct {
	mu            sync.Mutex
	teamFixtures  map[int64][]fixture.Fixture
	teamErrors    map[int64]error
	teamPanics    map[int64]string
	rangeFixtures map[int64][]fixture.Fixture
	deletedByDay  map[string][]int64
	deletedErrors map[string]error
	byID          map[int64]fixture.Fixture
	byIDErrors    map[int64]error
	filters       map[int64][]string
	beforeFetch   func(teamID int64)
}

func newStubFixtureProvider() *stubFixtureProvider {
	return &stubFixtureProvider{
		teamFixtures:  make(map[int64][]fixture.Fixture),
		teamErrors:    make(map[int64]error),
		teamPanics:    make(map[int64]string),
		rangeFixtures: make(map[int64][]fixture.Fixture),
		deletedByDay:  make(map[string][]int64),
		deletedErrors: make(map[string]error),
		byID:          make(map[int64]fixture.Fixture),
		byIDErrors:    make(map[int64]error),
		filters:       make(map[int64][]string),
	}
}

func (s *stubFixtureProvider) TeamFixtures(_ context.Context, teamID int64, filters string) ([]fixture.Fixture, error) {
	s.mu.Lock()
	s.filters[teamID] = append(s.filters[teamID], filters)
	panicValue := s.teamPanics[teamID]
	err := s.teamErrors[teamID]
	items := s.teamFixtures[teamID]
	hook := s.beforeFetch
	s.mu.Unlock()

	if hook != nil {
		hook(teamID)
	}
	if panicValue != "" {
		panic(panicValue)
	}
	if raw, ok := strings.CutPrefix(filters, "idAfter:"); ok {
		after, convErr := strconv.ParseInt(raw, 10, 64)
		if convErr != nil {
			return nil, convErr
		}
		newer := make([]fixture.Fixture, 0, len(items))
		for _, item := range items {
			if item.ExternalID > after {
				newer = append(newer, item)
			}
		}
		items = newer
	}
	return items, err
}

func (s *stubFixtureProvider) FixturesBetween(_ context.Context, _, _ string, teamID int64) ([]fixture.Fixture, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rangeFixtures[teamID], nil
}

func (s *stubFixtureProvider) DeletedFixtureIDs(_ context.Context, day time.Time) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := day.Format(syncDateLayout)
	if err := s.deletedErrors[key]; err != nil {
		return nil, err
	}
	return s.deletedByDay[key], nil
}

func (s *stubFixtureProvider) Fixture(_ context.Context, externalID int64) (fixture.Fixture, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.byIDErrors[externalID]; err != nil {
		return fixture.Fixture{}, false, err
	}
	item, ok := s.byID[externalID]
	return item, ok, nil
}

func (s *stubFixtureProvider) filtersFor(teamID int64) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.filters[teamID]...)
}

type recordingReporter struct {
	mu      sync.Mutex
	entries []errorlog.Entry
}

func (r *recordingReporter) Report(_ context.Context, entry errorlog.Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
}

func (r *recordingReporter) codes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, 0, len(r.entries))
	for _, entry := range r.entries {
		out = append(out, entry.Code)
	}
	return out
}

func (r *recordingReporter) hasCode(code string) bool {
	return r.first(code).Code == code
}

func (r *recordingReporter) first(code string) errorlog.Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, entry := range r.entries {
		if entry.Code == code {
			return entry
		}
	}
	return errorlog.Entry{}
}

type statusError int

func (e statusError) Error() string       { return fmt.Sprintf("API request failed with status code %d", int(e)) }
func (e statusError) HTTPStatusCode() int { return int(e) }
