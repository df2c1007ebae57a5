package client

import (
	"context"
	"fmt"
	"net/url"

	domain "github.com/selhaddad/sakanalert/pkg/types"
)

// alertRequest contains only the fields the API accepts for create/update.
type alertRequest struct {
	UserID   string              `json:"user_id,omitempty"`
	Name     string              `json:"name,omitempty"`
	Filters  domain.AlertFilters `json:"filters,omitempty"`
	IsActive bool                `json:"is_active,omitempty"`
}

// ListAlerts returns all alerts for a user.
func (c *Client) ListAlerts(ctx context.Context, userID string) ([]domain.Alert, error) {
	var alerts []domain.Alert
	path := "/api/v1/alerts?user_id=" + url.QueryEscape(userID)
	if err := c.get(ctx, path, &alerts); err != nil {
		return nil, err
	}
	return alerts, nil
}

// GetAlert returns a single alert by ID.
func (c *Client) GetAlert(ctx context.Context, id string) (*domain.Alert, error) {
	var a domain.Alert
	if err := c.get(ctx, "/api/v1/alerts/"+id, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateAlert creates a new alert.
func (c *Client) CreateAlert(ctx context.Context, a *domain.Alert) (*domain.Alert, error) {
	var created domain.Alert
	req := alertRequest{
		UserID:   a.UserID,
		Name:     a.Name,
		Filters:  a.Filters,
		IsActive: a.IsActive,
	}
	if err := c.post(ctx, "/api/v1/alerts", req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// SetAlertActive activates or deactivates an alert.
func (c *Client) SetAlertActive(ctx context.Context, id string, active bool) error {
	body := map[string]bool{"active": active}
	return c.put(ctx, fmt.Sprintf("/api/v1/alerts/%s/active", id), body, nil)
}

// DeleteAlert deletes an alert by ID.
func (c *Client) DeleteAlert(ctx context.Context, id string) error {
	return c.del(ctx, "/api/v1/alerts/"+id, nil)
}
