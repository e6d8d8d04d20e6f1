package api

import (
	"context"
	"net/http"

	"github.com/adminkit/adminctl/internal/core/timeline"
)

// activityResponse wraps the grouped activity log.
type activityResponse struct {
	Groups []timeline.Group `json:"groups"`
}

// Activity fetches the full grouped activity log. Filtering happens
// client-side with timeline.Filter, the backend always returns the whole
// window it keeps.
func (c *Client) Activity(ctx context.Context) ([]timeline.Group, error) {
	resp, err := do[activityResponse](ctx, c, http.MethodGet, "activity", nil)
	if err != nil {
		return nil, err
	}
	return resp.Groups, nil
}
