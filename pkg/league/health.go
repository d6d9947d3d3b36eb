package league

import (
	"context"
	"fmt"
	"net/http"

	"github.com/courtside/courtside/pkg/logger"
)

// HealthStatus reports whether the league data API is reachable.
type HealthStatus struct {
	Available bool
	Error     error
}

// CheckHealth probes the API's health endpoint so startup can warn before
// the first lookup fails.
func (c *Client) CheckHealth(ctx context.Context) *HealthStatus {
	logger.Debug("checking league API health at %s", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/health", nil)
	if err != nil {
		return &HealthStatus{Available: false, Error: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Warn("league API unreachable: %v", err)
		return &HealthStatus{
			Available: false,
			Error:     fmt.Errorf("cannot connect to league API at %s: %w", c.baseURL, err),
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &HealthStatus{
			Available: false,
			Error:     fmt.Errorf("league API returned status %d", resp.StatusCode),
		}
	}

	return &HealthStatus{Available: true}
}
