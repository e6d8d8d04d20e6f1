package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/adminkit/adminctl/internal/core/model"
)

// ListUsers fetches one page of the IAM user table. Page numbering starts
// at 1; perPage 0 lets the backend pick its default.
func (c *Client) ListUsers(ctx context.Context, page, perPage int) (model.UserPage, error) {
	query := url.Values{}
	if page > 0 {
		query.Set("page", fmt.Sprintf("%d", page))
	}
	if perPage > 0 {
		query.Set("per_page", fmt.Sprintf("%d", perPage))
	}

	path := "iam/users"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}
	return do[model.UserPage](ctx, c, http.MethodGet, path, nil)
}

// GetUser fetches a single IAM user by id.
func (c *Client) GetUser(ctx context.Context, id string) (model.User, error) {
	return do[model.User](ctx, c, http.MethodGet, "iam/users/"+url.PathEscape(id), nil)
}

// CreateUser creates an IAM user. The backend sends the activation email.
func (c *Client) CreateUser(ctx context.Context, input model.UserInput) (model.User, error) {
	return do[model.User](ctx, c, http.MethodPost, "iam/users", input)
}

// UpdateUser applies the non-empty fields of input to an existing user.
func (c *Client) UpdateUser(ctx context.Context, id string, input model.UserInput) (model.User, error) {
	return do[model.User](ctx, c, http.MethodPut, "iam/users/"+url.PathEscape(id), input)
}

// DeleteUser removes an IAM user.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	_, err := do[struct{}](ctx, c, http.MethodDelete, "iam/users/"+url.PathEscape(id), nil)
	return err
}
