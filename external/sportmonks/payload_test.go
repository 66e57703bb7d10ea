package sportmonks

import (
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/fixture-sync/internal/domain/fixture"
)

func TestParseFixture_MapsCoreFields(t *testing.T) {
	t.Parallel()

	raw := []byte(`{
		"id": 19135003,
		"league_id": 462,
		"starting_at": "2026-02-14 20:30:00",
		"league": {"data": {"id": 462, "name": "Liga Portugal"}},
		"state": {"id": 5, "state": "FT", "name": "Full Time", "short_name": "FT"},
		"venue": {"id": 1234, "name": "Estadio do Dragao"},
		"participants": [
			{"id": 652, "name": "FC Porto", "image_path": "https://cdn/652.png", "meta": {"location": "home"}},
			{"id": 593, "name": "Benfica", "image_path": "https://cdn/593.png", "meta": {"location": "away"}}
		],
		"scores": [
			{"id": 1, "participant_id": 652, "description": "CURRENT", "score": {"goals": 2, "participant": "home"}},
			{"id": 2, "participant_id": 593, "description": "CURRENT", "score": {"goals": 1, "participant": "away"}}
		]
	}`)

	got, err := ParseFixture(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.ExternalID != 19135003 || got.LeagueID != 462 || got.LeagueName != "Liga Portugal" {
		t.Fatalf("unexpected league mapping: %+v", got)
	}
	if got.HomeTeam.ID != 652 || got.AwayTeam.ID != 593 {
		t.Fatalf("unexpected sides: home=%+v away=%+v", got.HomeTeam, got.AwayTeam)
	}
	if got.Title() != "FC Porto vs Benfica" {
		t.Fatalf("unexpected title: %q", got.Title())
	}
	if got.Status != "Full Time" {
		t.Fatalf("expected state name to win, got=%q", got.Status)
	}
	if got.VenueID != 1234 || got.VenueName != "Estadio do Dragao" {
		t.Fatalf("unexpected venue: %d %q", got.VenueID, got.VenueName)
	}
	if !got.ScheduledAt.Equal(time.Date(2026, 2, 14, 20, 30, 0, 0, time.UTC)) {
		t.Fatalf("unexpected kickoff: %s", got.ScheduledAt)
	}
	if got.ScoreHome != "2" || got.ScoreAway != "1" {
		t.Fatalf("expected 2-1, got=%q-%q", got.ScoreHome, got.ScoreAway)
	}
}

func TestParseFixture_ScoreRules(t *testing.T) {
	t.Parallel()

	participants := `"participants": [
		{"id": 10, "name": "Home", "meta": {"position": "home"}},
		{"id": 20, "name": "Away", "meta": {"position": "away"}}
	]`

	testCases := []struct {
		name     string
		scores   string
		wantHome string
		wantAway string
	}{
		{
			name:     "no tagged entries stay empty",
			scores:   `[{"description": "1ST_HALF", "score": {"goals": 0, "participant": "home"}}]`,
			wantHome: "",
			wantAway: "",
		},
		{
			name:     "current zero is kept",
			scores:   `[{"description": "CURRENT", "score": {"goals": 0, "participant": "home"}}, {"description": "CURRENT", "score": {"goals": 3, "participant": "away"}}]`,
			wantHome: "0",
			wantAway: "3",
		},
		{
			name:     "legacy full time by participant id",
			scores:   `[{"participant_id": 10, "score": 4, "meta": {"type": "ft"}}, {"participant_id": 20, "score": {"score": 1}, "meta": {"type": "ft"}}]`,
			wantHome: "4",
			wantAway: "1",
		},
		{
			name:     "current wins over legacy",
			scores:   `[{"participant_id": 10, "score": 9, "meta": {"type": "ft"}}, {"description": "CURRENT", "score": {"goals": 1, "participant": "home"}}]`,
			wantHome: "1",
			wantAway: "",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			raw := []byte(`{"id": 1, ` + participants + `, "scores": ` + tc.scores + `}`)
			got, err := ParseFixture(raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.ScoreHome != tc.wantHome || got.ScoreAway != tc.wantAway {
				t.Fatalf("expected %q-%q, got=%q-%q", tc.wantHome, tc.wantAway, got.ScoreHome, got.ScoreAway)
			}
		})
	}
}

func TestParseFixture_DefaultsAndMissingSides(t *testing.T) {
	t.Parallel()

	got, err := ParseFixture([]byte(`{"id": 7, "league": {"id": 8}, "participants": {"data": [{"id": 1, "name": "Solo", "meta": {"location": "home", "position": 3}}]}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != fixture.StatusNotStarted {
		t.Fatalf("expected default status NS, got=%q", got.Status)
	}
	if got.LeagueID != 8 {
		t.Fatalf("expected league id from relation, got=%d", got.LeagueID)
	}
	if got.HasBothSides() {
		t.Fatalf("expected away side to be missing")
	}
	if got.HomeTeam.Name != "Solo" {
		t.Fatalf("expected wrapped participants to be read, got=%+v", got.HomeTeam)
	}
}

func TestParseFixtures_AcceptsObjectOrList(t *testing.T) {
	t.Parallel()

	single, err := ParseFixtures([]byte(`{"id": 1}`))
	if err != nil || len(single) != 1 || single[0].ExternalID != 1 {
		t.Fatalf("expected one fixture from object, got=%v err=%v", single, err)
	}

	list, err := ParseFixtures([]byte(`[{"id": 1}, {"id": 2}]`))
	if err != nil || len(list) != 2 {
		t.Fatalf("expected two fixtures from list, got=%v err=%v", list, err)
	}

	empty, err := ParseFixtures([]byte(`null`))
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected no fixtures from null, got=%v err=%v", empty, err)
	}
}

func TestParseFixture_EmptyArrayMetaIsTolerated(t *testing.T) {
	t.Parallel()

	got, err := ParseFixture([]byte(`{
		"id": 31,
		"participants": [
			{"id": 10, "name": "Home", "meta": {"location": "home"}},
			{"id": 20, "name": "Away", "meta": []}
		],
		"scores": [
			{"participant_id": 10, "description": "CURRENT", "score": {"goals": 2, "participant": "home"}, "meta": []}
		]
	}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.HomeTeam.ID != 10 || got.AwayTeam.ID != 0 {
		t.Fatalf("expected only the home side to be placed, home=%+v away=%+v", got.HomeTeam, got.AwayTeam)
	}
	if got.HasBothSides() {
		t.Fatalf("expected participant without meta to leave the away side empty")
	}
	if got.ScoreHome != "2" {
		t.Fatalf("expected current score to survive empty score meta, got=%q", got.ScoreHome)
	}
}

func TestParseFixtures_MalformedItemDoesNotDropList(t *testing.T) {
	t.Parallel()

	got, err := ParseFixtures([]byte(`[
		{"id": 1, "participants": [{"id": 10, "name": "Home", "meta": []}]},
		{"id": 2, "participants": "broken"},
		{"id": 3}
	]`))
	if len(got) != 2 || got[0].ExternalID != 1 || got[1].ExternalID != 3 {
		t.Fatalf("expected fixtures 1 and 3 to decode, got=%v", got)
	}

	var failed fixture.PayloadErrors
	if !errors.As(err, &failed) {
		t.Fatalf("expected payload errors, got %v", err)
	}
	if len(failed) != 1 || failed[0].Index != 1 || failed[0].ExternalID != 2 {
		t.Fatalf("unexpected item errors: %+v", failed)
	}
}

func TestParseFixtureIDs(t *testing.T) {
	t.Parallel()

	ids, err := ParseFixtureIDs([]byte(`[{"id": 11}, {"id": 0}, {"id": 12}]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 2 || ids[0] != 11 || ids[1] != 12 {
		t.Fatalf("unexpected ids: %v", ids)
	}

	ids, err = ParseFixtureIDs([]byte(`{"id": 5}`))
	if err != nil || len(ids) != 1 || ids[0] != 5 {
		t.Fatalf("expected single id, got=%v err=%v", ids, err)
	}
}
