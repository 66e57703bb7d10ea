package sportmonks

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	dateLayout          = "2006-01-02"
	seasonFallbackDays  = 90
	syncPerPage         = "1000"
	deletedFixtureQuery = "deleted"
)

var (
	fixtureBaseInclude = []string{"participants", "scores", "state"}
	matchInclude       = []string{"participants", "scores", "state", "events", "lineups", "statistics", "venue", "referee"}
	syncFixtureInclude = []string{"participants", "scores", "state", "league"}
)

func (c *Client) GetTeam(ctx context.Context, teamID int64, include []string, useCache bool) (Response, error) {
	return c.Request(ctx, "teams/"+formatID(teamID), nil, include, useCache)
}

func (c *Client) GetTeamWithSeasons(ctx context.Context, teamID int64, useCache bool) (Response, error) {
	return c.GetTeam(ctx, teamID, []string{"activeSeasons"}, useCache)
}

// GetFixtures lists a team's fixtures inside its active season. When the
// season bounds cannot be resolved the window falls back to 90 days either
// side of today.
func (c *Client) GetFixtures(ctx context.Context, teamID int64, params map[string]string, extraInclude []string, useCache bool) (Response, error) {
	include := append(append([]string{}, fixtureBaseInclude...), extraInclude...)
	start, end := c.seasonWindow(ctx, teamID)
	return c.Request(ctx, fmt.Sprintf("fixtures/between/%s/%s/%d", start, end, teamID), params, include, useCache)
}

func (c *Client) seasonWindow(ctx context.Context, teamID int64) (string, string) {
	now := c.now().UTC()
	start := now.AddDate(0, 0, -seasonFallbackDays).Format(dateLayout)
	end := now.AddDate(0, 0, seasonFallbackDays).Format(dateLayout)

	resp, err := c.GetTeamWithSeasons(ctx, teamID, true)
	if err != nil {
		return start, end
	}
	var team teamSeasons
	if err := resp.DecodeData(&team); err != nil {
		c.logger.WarnContext(ctx, "decode team seasons failed", "team_id", teamID, "error", err)
		return start, end
	}
	season, ok := team.first()
	if !ok {
		return start, end
	}

	seasonStart := parseProviderDateTime(firstNonEmpty(season.StartingAt, season.StartDate))
	seasonEnd := parseProviderDateTime(firstNonEmpty(season.EndingAt, season.EndDate))
	if seasonStart == nil || seasonEnd == nil {
		return start, end
	}
	return seasonStart.Format(dateLayout), seasonEnd.Format(dateLayout)
}

func (c *Client) GetMatch(ctx context.Context, matchID int64, params map[string]string, extraInclude []string, useCache bool) (Response, error) {
	include := append(append([]string{}, matchInclude...), extraInclude...)
	return c.Request(ctx, "fixtures/"+formatID(matchID), params, include, useCache)
}

func (c *Client) GetLeague(ctx context.Context, leagueID int64, include []string, useCache bool) (Response, error) {
	return c.Request(ctx, "leagues/"+formatID(leagueID), nil, include, useCache)
}

func (c *Client) GetLeagueStandings(ctx context.Context, leagueID int64, extraInclude []string, useCache bool) (Response, error) {
	include := append([]string{"participant"}, extraInclude...)
	return c.Request(ctx, "standings/seasons/latest/leagues/"+formatID(leagueID), nil, include, useCache)
}

func (c *Client) GetLeagueTopScorers(ctx context.Context, leagueID int64, params map[string]string, useCache bool) (Response, error) {
	return c.Request(ctx, "topscorers/seasons/latest/leagues/"+formatID(leagueID), params, nil, useCache)
}

func (c *Client) GetHeadToHead(ctx context.Context, firstTeamID, secondTeamID int64, useCache bool) (Response, error) {
	return c.Request(ctx, fmt.Sprintf("teams/%d/h2h/%d", firstTeamID, secondTeamID), nil, []string{"fixtures"}, useCache)
}

func (c *Client) GetAllFixtures(ctx context.Context, params map[string]string, include []string, useCache bool) (Response, error) {
	return c.Request(ctx, "fixtures", params, include, useCache)
}

func (c *Client) GetFixturesByDate(ctx context.Context, date string, params map[string]string, include []string, useCache bool) (Response, error) {
	return c.Request(ctx, "fixtures/date/"+date, params, include, useCache)
}

func (c *Client) GetFixturesByDateRange(ctx context.Context, from, to string, params map[string]string, include []string, useCache bool) (Response, error) {
	return c.Request(ctx, fmt.Sprintf("fixtures/between/%s/%s", from, to), params, include, useCache)
}

func (c *Client) GetLatestUpdatedFixtures(ctx context.Context, params map[string]string, include []string, useCache bool) (Response, error) {
	return c.Request(ctx, "fixtures/latest", params, include, useCache)
}

func (c *Client) GetLivescores(ctx context.Context, params map[string]string, include []string, useCache bool) (Response, error) {
	return c.Request(ctx, "livescores", params, include, useCache)
}

func (c *Client) GetInplayLivescores(ctx context.Context, params map[string]string, include []string, useCache bool) (Response, error) {
	return c.Request(ctx, "livescores/inplay", params, include, useCache)
}

func (c *Client) GetTeamSquad(ctx context.Context, teamID int64, params map[string]string, include []string, useCache bool) (Response, error) {
	return c.Request(ctx, "squads/teams/"+formatID(teamID), params, include, useCache)
}

func (c *Client) GetTeamSquadExtended(ctx context.Context, teamID int64, params map[string]string, include []string, useCache bool) (Response, error) {
	return c.Request(ctx, "squads/teams/"+formatID(teamID)+"/extended", params, include, useCache)
}

func (c *Client) GetInjuries(ctx context.Context, params map[string]string, include []string, useCache bool) (Response, error) {
	return c.Request(ctx, "injuries", params, include, useCache)
}

func (c *Client) GetTeamSidelined(ctx context.Context, teamID int64, useCache bool) (Response, error) {
	return c.GetTeam(ctx, teamID, []string{"sidelined"}, useCache)
}

func (c *Client) GetTeamPlayers(ctx context.Context, teamID int64, useCache bool) (Response, error) {
	return c.GetTeam(ctx, teamID, []string{"players"}, useCache)
}

func (c *Client) GetTransfers(ctx context.Context, params map[string]string, include []string, useCache bool) (Response, error) {
	return c.Request(ctx, "transfers", params, include, useCache)
}

func (c *Client) GetTransfersByTeam(ctx context.Context, teamID int64, params map[string]string, include []string, useCache bool) (Response, error) {
	return c.Request(ctx, "transfers/teams/"+formatID(teamID), params, include, useCache)
}

func (c *Client) GetPlayer(ctx context.Context, playerID int64, include []string, useCache bool) (Response, error) {
	return c.Request(ctx, "players/"+formatID(playerID), nil, include, useCache)
}

func (c *Client) GetPlayerStatistics(ctx context.Context, playerID int64, useCache bool) (Response, error) {
	return c.GetPlayer(ctx, playerID, []string{"statistics"}, useCache)
}

func (c *Client) SearchPlayers(ctx context.Context, name string, params map[string]string, include []string, useCache bool) (Response, error) {
	return c.Request(ctx, "players/search/"+url.PathEscape(strings.TrimSpace(name)), params, include, useCache)
}

func (c *Client) SearchTeams(ctx context.Context, name string, params map[string]string, include []string, useCache bool) (Response, error) {
	return c.Request(ctx, "teams/search/"+url.PathEscape(strings.TrimSpace(name)), params, include, useCache)
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func formatDate(day time.Time) string {
	return day.UTC().Format(dateLayout)
}
