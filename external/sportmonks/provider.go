package sportmonks

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/fixture-sync/internal/domain/fixture"
	"github.com/riskibarqy/fixture-sync/internal/domain/satellite"
)

// TeamFixtures fetches the season fixtures of one team for a sync run.
// filters is passed through verbatim, e.g. "idAfter:123"; the response is
// served from the HTTP cache when fresh.
func (c *Client) TeamFixtures(ctx context.Context, teamID int64, filters string) ([]fixture.Fixture, error) {
	params := map[string]string{"per_page": syncPerPage}
	if filters != "" {
		params["filters"] = filters
	}

	resp, err := c.GetFixtures(ctx, teamID, params, []string{"league"}, true)
	if err != nil {
		return nil, err
	}
	return parseResponseFixtures(resp)
}

// FixturesBetween fetches a team's fixtures in [from, to] bypassing the cache.
func (c *Client) FixturesBetween(ctx context.Context, from, to string, teamID int64) ([]fixture.Fixture, error) {
	resp, err := c.Request(
		ctx,
		fmt.Sprintf("fixtures/between/%s/%s/%d", from, to, teamID),
		map[string]string{"per_page": syncPerPage},
		syncFixtureInclude,
		false,
	)
	if err != nil {
		return nil, err
	}
	return parseResponseFixtures(resp)
}

// DeletedFixtureIDs lists fixtures the provider marked deleted on day.
func (c *Client) DeletedFixtureIDs(ctx context.Context, day time.Time) ([]int64, error) {
	resp, err := c.GetFixturesByDate(ctx, formatDate(day), map[string]string{"filters": deletedFixtureQuery}, []string{"state"}, false)
	if err != nil {
		return nil, err
	}
	if !resp.HasData() {
		return nil, nil
	}
	return ParseFixtureIDs(resp.Data)
}

// Fixture fetches one fixture uncached. ok is false when the provider
// returned no data for the id.
func (c *Client) Fixture(ctx context.Context, externalID int64) (fixture.Fixture, bool, error) {
	resp, err := c.Request(ctx, "fixtures/"+formatID(externalID), nil, syncFixtureInclude, false)
	if err != nil {
		return fixture.Fixture{}, false, err
	}
	if !resp.HasData() {
		return fixture.Fixture{}, false, nil
	}
	item, err := ParseFixture(resp.Data)
	if err != nil {
		return fixture.Fixture{}, false, err
	}
	return item, true, nil
}

// Satellite fetches the raw payload for one satellite kind, bypassing the cache.
func (c *Client) Satellite(ctx context.Context, kind satellite.Kind, teamID int64) ([]byte, error) {
	var (
		resp Response
		err  error
	)
	switch kind {
	case satellite.KindSquads:
		resp, err = c.GetTeamSquad(ctx, teamID, nil, nil, false)
	case satellite.KindInjuries:
		resp, err = c.GetTeamSidelined(ctx, teamID, false)
	case satellite.KindTransfers:
		resp, err = c.GetTransfersByTeam(ctx, teamID, nil, nil, false)
	default:
		return nil, fmt.Errorf("unsupported satellite kind %q", kind)
	}
	if err != nil {
		return nil, err
	}
	return resp.Raw, nil
}

func parseResponseFixtures(resp Response) ([]fixture.Fixture, error) {
	if !resp.HasData() {
		return nil, nil
	}
	return ParseFixtures(resp.Data)
}
