package client

import (
	"context"
	"fmt"
	"time"

	domain "github.com/selhaddad/sakanalert/pkg/types"
)

// TriggerResult is the response of a manual matching run.
type TriggerResult struct {
	Success                bool      `json:"success"`
	Message                string    `json:"message"`
	AlertsProcessed        int       `json:"alerts_processed"`
	PropertiesChecked      int       `json:"properties_checked"`
	NotificationsGenerated int       `json:"notifications_generated"`
	ProcessedAt            time.Time `json:"processed_at"`
}

// TriggerMatchRun starts a matching run and waits for it to finish.
func (c *Client) TriggerMatchRun(ctx context.Context) (*TriggerResult, error) {
	var result TriggerResult
	if err := c.post(ctx, "/api/v1/match/run", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

type listRunsResponse struct {
	Runs []domain.MatchRun `json:"runs"`
}

// ListMatchRuns returns recent matching runs, newest first.
func (c *Client) ListMatchRuns(ctx context.Context, limit int) ([]domain.MatchRun, error) {
	path := "/api/v1/runs"
	if limit > 0 {
		path = fmt.Sprintf("%s?limit=%d", path, limit)
	}

	var resp listRunsResponse
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return resp.Runs, nil
}
