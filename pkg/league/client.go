package league

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Client talks to the league data API, the read-only REST service serving
// rosters, standings, schedules and box scores. The reasoning agent queries
// the same service through its tools; this client exists for direct lookups
// that do not need a reasoning turn.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// NewClientWithTimeout builds a client with an explicit request timeout,
// used when the configured timeout differs from the default.
func NewClientWithTimeout(baseURL string, timeout time.Duration) *Client {
	c := NewClient(baseURL)
	if timeout > 0 {
		c.httpClient.Timeout = timeout
	}
	return c
}

func (c *Client) Roster(ctx context.Context, team string) (*RosterResponse, error) {
	var roster RosterResponse
	path := fmt.Sprintf("/api/teams/%s/roster", url.PathEscape(team))
	if err := c.get(ctx, path, &roster); err != nil {
		return nil, fmt.Errorf("failed to get roster: %w", err)
	}
	return &roster, nil
}

func (c *Client) Standings(ctx context.Context) (*StandingsResponse, error) {
	var standings StandingsResponse
	if err := c.get(ctx, "/api/standings", &standings); err != nil {
		return nil, fmt.Errorf("failed to get standings: %w", err)
	}
	return &standings, nil
}

func (c *Client) Schedule(ctx context.Context, team string) (*ScheduleResponse, error) {
	var schedule ScheduleResponse
	path := fmt.Sprintf("/api/teams/%s/schedule", url.PathEscape(team))
	if err := c.get(ctx, path, &schedule); err != nil {
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}
	return &schedule, nil
}

func (c *Client) BoxScore(ctx context.Context, gameID string) (*BoxScoreResponse, error) {
	var box BoxScoreResponse
	path := fmt.Sprintf("/api/games/%s/boxscore", url.PathEscape(gameID))
	if err := c.get(ctx, path, &box); err != nil {
		return nil, fmt.Errorf("failed to get box score: %w", err)
	}
	return &box, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("request failed with status: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
