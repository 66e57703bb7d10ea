package fixture

import (
	"fmt"
	"strings"
	"time"
)

// StatusNotStarted is used when the provider payload carries no state.
const StatusNotStarted = "NS"

// Team is one side of a fixture as reported by the provider.
type Team struct {
	ID      int64
	Name    string
	LogoURL string
}

// Fixture is the normalized provider view of one match.
type Fixture struct {
	ExternalID  int64
	HomeTeam    Team
	AwayTeam    Team
	LeagueID    int64
	LeagueName  string
	VenueID     int64
	VenueName   string
	ScheduledAt time.Time
	Status      string
	ScoreHome   string
	ScoreAway   string
}

// HasBothSides reports whether home and away were both identified.
func (f Fixture) HasBothSides() bool {
	return f.HomeTeam.ID > 0 && f.AwayTeam.ID > 0
}

// HasTeamNames reports whether a readable title can be built.
func (f Fixture) HasTeamNames() bool {
	return strings.TrimSpace(f.HomeTeam.Name) != "" && strings.TrimSpace(f.AwayTeam.Name) != ""
}

func (f Fixture) Title() string {
	return fmt.Sprintf("%s vs %s", strings.TrimSpace(f.HomeTeam.Name), strings.TrimSpace(f.AwayTeam.Name))
}

// Record is the locally stored fixture, one per ExternalID.
type Record struct {
	ID int64
	Fixture
	Title        string
	LastSyncedAt time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

func (r Record) IsTrashed() bool {
	return r.DeletedAt != nil
}

// Apply overwrites every mapped field with the fetched fixture. The title only
// changes when both team names are known.
func (r *Record) Apply(f Fixture, syncedAt time.Time) {
	r.Fixture = f
	if f.HasTeamNames() {
		r.Title = f.Title()
	}
	r.LastSyncedAt = syncedAt
}

func NormalizeStatus(value string) string {
	status := strings.TrimSpace(value)
	if status == "" {
		return StatusNotStarted
	}
	return status
}

func IsFinishedStatus(status string) bool {
	switch strings.ToUpper(NormalizeStatus(status)) {
	case "FT", "AET", "FT_PEN", "PEN", "FINISHED", "FULL TIME", "AWARDED":
		return true
	default:
		return false
	}
}

func IsCancelledLikeStatus(status string) bool {
	switch strings.ToUpper(NormalizeStatus(status)) {
	case "CANCELLED", "CANCL", "POSTPONED", "POSTP", "ABANDONED", "ABAN", "DELETED":
		return true
	default:
		return false
	}
}
