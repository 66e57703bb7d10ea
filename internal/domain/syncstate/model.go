package syncstate

import (
	"strconv"
	"time"
)

// SnapshotInterval bounds how long incremental runs may go without a full refresh.
const SnapshotInterval = 24 * time.Hour

type Mode string

const (
	ModeSnapshot    Mode = "snapshot"
	ModeIncremental Mode = "incremental"
)

// Watermark tracks the incremental position for one configured team.
type Watermark struct {
	TeamID         int64
	LastSeenMaxID  int64
	LastSnapshotAt *time.Time
}

// SelectMode picks a full snapshot for unsynced teams or stale snapshots.
func (w Watermark) SelectMode(now time.Time) Mode {
	if w.LastSeenMaxID <= 0 || w.LastSnapshotAt == nil || w.LastSnapshotAt.IsZero() {
		return ModeSnapshot
	}
	if now.Sub(*w.LastSnapshotAt) > SnapshotInterval {
		return ModeSnapshot
	}
	return ModeIncremental
}

// IDAfterFilter is the provider filter restricting results to ids above the watermark.
func (w Watermark) IDAfterFilter() string {
	return "idAfter:" + strconv.FormatInt(w.LastSeenMaxID, 10)
}

// Observe advances the max id; it never moves backwards.
func (w *Watermark) Observe(id int64) {
	if id > w.LastSeenMaxID {
		w.LastSeenMaxID = id
	}
}

func (w *Watermark) StampSnapshot(at time.Time) {
	v := at.UTC()
	w.LastSnapshotAt = &v
}

// Feature is a team-level sync category that can be switched off.
type Feature string

const (
	FeatureSquads    Feature = "squads"
	FeatureInjuries  Feature = "injuries"
	FeatureTransfers Feature = "transfers"
)

func Features() []Feature {
	return []Feature{FeatureSquads, FeatureInjuries, FeatureTransfers}
}

func ParseFeature(raw string) (Feature, bool) {
	for _, f := range Features() {
		if string(f) == raw {
			return f, true
		}
	}
	return "", false
}

// FeatureOverride is a durable operator or breaker decision that wins over config.
type FeatureOverride struct {
	Feature   Feature   `json:"feature"`
	Enabled   bool      `json:"enabled"`
	Reason    string    `json:"reason,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Trigger string

const (
	TriggerScheduled Trigger = "scheduled"
	TriggerManual    Trigger = "manual"
	TriggerRange     Trigger = "range"
)

type Results struct {
	Success   int `json:"success"`
	Error     int `json:"error"`
	Created   int `json:"created"`
	Updated   int `json:"updated"`
	Trashed   int `json:"trashed"`
	Squads    int `json:"squads"`
	Injuries  int `json:"injuries"`
	Transfers int `json:"transfers"`
}

type Metrics struct {
	FixturesTotal   int             `json:"fixtures_total"`
	FixturesCreated int             `json:"fixtures_created"`
	FixturesUpdated int             `json:"fixtures_updated"`
	FixturesErrors  int             `json:"fixtures_errors"`
	FixtureModes    map[string]Mode `json:"fixture_modes"`
	DurationSeconds float64         `json:"duration_seconds"`
}

// Summary is written once per batch run.
type Summary struct {
	RunID      string    `json:"run_id"`
	Trigger    Trigger   `json:"trigger"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Results    Results   `json:"results"`
	Metrics    Metrics   `json:"metrics"`
}

// TeamConfig is one configured team to synchronize.
type TeamConfig struct {
	TeamID   int64  `json:"team_id"`
	TeamName string `json:"team_name"`
}
