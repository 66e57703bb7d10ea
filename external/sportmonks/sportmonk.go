package sportmonks

import (
	"bytes"

	sonic "github.com/bytedance/sonic"
)

type Pagination struct {
	Count       int     `json:"count"`
	PerPage     int     `json:"per_page"`
	CurrentPage int     `json:"current_page"`
	NextPage    *string `json:"next_page"`
	HasMore     bool    `json:"has_more"`
}

type Season struct {
	ID         int64  `json:"id"`
	LeagueID   int64  `json:"league_id"`
	Name       string `json:"name"`
	IsCurrent  bool   `json:"is_current"`
	StartingAt string `json:"starting_at"`
	EndingAt   string `json:"ending_at"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
}

// teamSeasons is the part of teams/{id}?include=activeSeasons the season
// window lookup needs. The relation key differs between API revisions.
type teamSeasons struct {
	ID                 int64              `json:"id"`
	ActiveSeasons      relation[[]Season] `json:"active_seasons"`
	ActiveSeasonsCamel relation[[]Season] `json:"activeSeasons"`
}

func (t teamSeasons) first() (Season, bool) {
	seasons := t.ActiveSeasons.Data
	if len(seasons) == 0 {
		seasons = t.ActiveSeasonsCamel.Data
	}
	if len(seasons) == 0 {
		return Season{}, false
	}
	return seasons[0], true
}

type fixturePayload struct {
	ID           int64                          `json:"id"`
	LeagueID     int64                          `json:"league_id"`
	VenueID      int64                          `json:"venue_id"`
	StartingAt   string                         `json:"starting_at"`
	League       relation[leagueRef]            `json:"league"`
	State        relation[stateRef]             `json:"state"`
	Venue        relation[venueRef]             `json:"venue"`
	Participants relation[[]fixtureParticipant] `json:"participants"`
	Scores       relation[[]fixtureScoreItem]   `json:"scores"`
}

type leagueRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type stateRef struct {
	ID        int64  `json:"id"`
	State     string `json:"state"`
	Name      string `json:"name"`
	ShortName string `json:"short_name"`
}

type venueRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type fixtureParticipant struct {
	ID        int64                  `json:"id"`
	Name      string                 `json:"name"`
	ImagePath string                 `json:"image_path"`
	Meta      fixtureParticipantMeta `json:"meta"`
}

// Location is the v3 side tag; older payloads put the side in position,
// which newer payloads reuse for a numeric table position.
type fixtureParticipantMeta struct {
	Location string `json:"location"`
	Position any    `json:"position"`
}

type fixtureScoreItem struct {
	ID            int64         `json:"id"`
	ParticipantID int64         `json:"participant_id"`
	Description   string        `json:"description"`
	Score         any           `json:"score"`
	Meta          scoreItemMeta `json:"meta"`
}

type scoreItemMeta struct {
	Type string `json:"type"`
}

func (m *fixtureParticipantMeta) UnmarshalJSON(data []byte) error {
	type plain fixtureParticipantMeta
	var decoded plain
	if !decodeMetaObject(data, &decoded) {
		decoded = plain{}
	}
	*m = fixtureParticipantMeta(decoded)
	return nil
}

func (m *scoreItemMeta) UnmarshalJSON(data []byte) error {
	type plain scoreItemMeta
	var decoded plain
	if !decodeMetaObject(data, &decoded) {
		decoded = plain{}
	}
	*m = scoreItemMeta(decoded)
	return nil
}

// decodeMetaObject reports false for anything but a decodable object. The
// provider sends meta as [] when it has nothing to say.
func decodeMetaObject(data []byte, target any) bool {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return false
	}
	return sonic.Unmarshal(trimmed, target) == nil
}

type relation[T any] struct {
	Data T
	Set  bool
}

func (r *relation[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		r.Set = false
		return nil
	}

	var wrapped struct {
		Data *T `json:"data"`
	}
	if err := sonic.Unmarshal(trimmed, &wrapped); err == nil && wrapped.Data != nil {
		r.Data = *wrapped.Data
		r.Set = true
		return nil
	}

	var direct T
	if err := sonic.Unmarshal(trimmed, &direct); err != nil {
		return err
	}
	r.Data = direct
	r.Set = true
	return nil
}
