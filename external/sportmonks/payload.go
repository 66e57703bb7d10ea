package sportmonks

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/fixture-sync/internal/domain/fixture"
)

const (
	sideHome = "home"
	sideAway = "away"

	scoreDescriptionCurrent = "CURRENT"
	scoreTypeFullTime       = "ft"
)

// ParseFixtures accepts a data member holding either one fixture object or a
// list of them. List items are mapped one by one: a malformed item is left
// out and reported in a fixture.PayloadErrors returned with the rest.
func ParseFixtures(data []byte) ([]fixture.Fixture, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	if trimmed[0] != '[' {
		item, err := ParseFixture(trimmed)
		if err != nil {
			return nil, err
		}
		return []fixture.Fixture{item}, nil
	}

	var items []json.RawMessage
	if err := sonic.Unmarshal(trimmed, &items); err != nil {
		return nil, fmt.Errorf("decode fixture list: %w", err)
	}
	out := make([]fixture.Fixture, 0, len(items))
	var failed fixture.PayloadErrors
	for i, raw := range items {
		var payload fixturePayload
		if err := sonic.Unmarshal(raw, &payload); err != nil {
			failed = append(failed, fixture.ItemError{Index: i, ExternalID: peekFixtureID(raw), Err: err})
			continue
		}
		out = append(out, mapFixture(payload))
	}
	if len(failed) > 0 {
		return out, failed
	}
	return out, nil
}

// peekFixtureID reads only the id of an item whose full decode failed.
func peekFixtureID(raw []byte) int64 {
	var item struct {
		ID int64 `json:"id"`
	}
	if err := sonic.Unmarshal(raw, &item); err != nil {
		return 0
	}
	return item.ID
}

func ParseFixture(data []byte) (fixture.Fixture, error) {
	var payload fixturePayload
	if err := sonic.Unmarshal(bytes.TrimSpace(data), &payload); err != nil {
		return fixture.Fixture{}, fmt.Errorf("decode fixture: %w", err)
	}
	return mapFixture(payload), nil
}

// ParseFixtureIDs extracts only the ids of a fixture object or list.
func ParseFixtureIDs(data []byte) ([]int64, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	type idOnly struct {
		ID int64 `json:"id"`
	}
	if trimmed[0] != '[' {
		var item idOnly
		if err := sonic.Unmarshal(trimmed, &item); err != nil {
			return nil, fmt.Errorf("decode fixture id: %w", err)
		}
		if item.ID <= 0 {
			return nil, nil
		}
		return []int64{item.ID}, nil
	}

	var items []idOnly
	if err := sonic.Unmarshal(trimmed, &items); err != nil {
		return nil, fmt.Errorf("decode fixture ids: %w", err)
	}
	out := make([]int64, 0, len(items))
	for _, item := range items {
		if item.ID > 0 {
			out = append(out, item.ID)
		}
	}
	return out, nil
}

func mapFixture(payload fixturePayload) fixture.Fixture {
	out := fixture.Fixture{
		ExternalID: payload.ID,
		LeagueID:   pickID(payload.LeagueID, payload.League.Data.ID),
		LeagueName: strings.TrimSpace(payload.League.Data.Name),
		VenueID:    pickID(payload.Venue.Data.ID, payload.VenueID),
		VenueName:  strings.TrimSpace(payload.Venue.Data.Name),
		Status:     firstNonEmpty(payload.State.Data.Name, payload.State.Data.ShortName, fixture.StatusNotStarted),
	}
	if scheduledAt := parseProviderDateTime(payload.StartingAt); scheduledAt != nil {
		out.ScheduledAt = *scheduledAt
	}

	for _, participant := range payload.Participants.Data {
		team := fixture.Team{
			ID:      participant.ID,
			Name:    strings.TrimSpace(participant.Name),
			LogoURL: strings.TrimSpace(participant.ImagePath),
		}
		switch participant.Meta.side() {
		case sideHome:
			out.HomeTeam = team
		case sideAway:
			out.AwayTeam = team
		}
	}

	out.ScoreHome, out.ScoreAway = resolveFixtureScores(payload.Scores.Data, out.HomeTeam.ID, out.AwayTeam.ID)
	return out
}

func (m fixtureParticipantMeta) side() string {
	location := strings.ToLower(strings.TrimSpace(m.Location))
	if location == sideHome || location == sideAway {
		return location
	}
	if position, ok := m.Position.(string); ok {
		position = strings.ToLower(strings.TrimSpace(position))
		if position == sideHome || position == sideAway {
			return position
		}
	}
	return ""
}

// resolveFixtureScores applies two rules: CURRENT entries tagged with a side,
// then legacy full-time entries matched by participant id for any side the
// first rule left empty. Missing scores stay empty, never "0".
func resolveFixtureScores(scores []fixtureScoreItem, homeID, awayID int64) (string, string) {
	var home, away string
	var homeSet, awaySet bool

	for _, item := range scores {
		if !strings.EqualFold(strings.TrimSpace(item.Description), scoreDescriptionCurrent) {
			continue
		}
		payload, ok := item.Score.(map[string]any)
		if !ok {
			continue
		}
		value, found := firstPresent(payload, "goals", "score")
		if !found {
			continue
		}
		side, _ := payload["participant"].(string)
		switch strings.ToLower(strings.TrimSpace(side)) {
		case sideHome:
			home, homeSet = scoreString(value), true
		case sideAway:
			away, awaySet = scoreString(value), true
		}
	}

	for _, item := range scores {
		if !strings.EqualFold(strings.TrimSpace(item.Meta.Type), scoreTypeFullTime) {
			continue
		}
		var value any
		found := false
		if payload, ok := item.Score.(map[string]any); ok {
			value, found = firstPresent(payload, "goals", "score")
		} else if item.Score != nil {
			value, found = item.Score, true
		}
		if !found {
			continue
		}
		switch {
		case !homeSet && homeID > 0 && item.ParticipantID == homeID:
			home = scoreString(value)
		case !awaySet && awayID > 0 && item.ParticipantID == awayID:
			away = scoreString(value)
		}
	}

	return home, away
}

func firstPresent(src map[string]any, keys ...string) (any, bool) {
	for _, key := range keys {
		if value, ok := src[key]; ok && value != nil {
			return value, true
		}
	}
	return nil, false
}

func scoreString(value any) string {
	switch typed := value.(type) {
	case string:
		return strings.TrimSpace(typed)
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(typed, 10)
	case int:
		return strconv.Itoa(typed)
	case bool:
		if typed {
			return "1"
		}
		return ""
	default:
		return ""
	}
}

func parseProviderDateTime(raw string) *time.Time {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil
	}

	layouts := []string{
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05Z07:00",
		time.RFC3339,
		"2006-01-02",
	}
	for _, layout := range layouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			v := parsed.UTC()
			return &v
		}
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, item := range values {
		if strings.TrimSpace(item) != "" {
			return strings.TrimSpace(item)
		}
	}
	return ""
}

func pickID(current, candidate int64) int64 {
	if current > 0 {
		return current
	}
	if candidate > 0 {
		return candidate
	}
	return 0
}
