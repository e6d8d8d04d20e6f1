package api

import (
	"context"
	"net/http"

	"github.com/adminkit/adminctl/internal/core/model"
)

// DashboardStats fetches the headline numbers and per-day sign-in series
// backing the dashboard view.
func (c *Client) DashboardStats(ctx context.Context) (model.DashboardStats, error) {
	return do[model.DashboardStats](ctx, c, http.MethodGet, "dashboard/stats", nil)
}
