package api

import (
	"context"
	"net/http"

	"github.com/adminkit/adminctl/internal/core/model"
)

// Profile fetches the signed-in user's account.
func (c *Client) Profile(ctx context.Context) (model.Profile, error) {
	return do[model.Profile](ctx, c, http.MethodGet, "profile", nil)
}

// UpdateProfile applies the non-empty fields of input to the signed-in
// user's account.
func (c *Client) UpdateProfile(ctx context.Context, input model.ProfileInput) (model.Profile, error) {
	return do[model.Profile](ctx, c, http.MethodPut, "profile", input)
}

// MFASetup starts MFA enrolment and returns the shared secret plus the
// otpauth URI to load into an authenticator app.
func (c *Client) MFASetup(ctx context.Context) (model.MFASetup, error) {
	return do[model.MFASetup](ctx, c, http.MethodPost, "mfa/setup", nil)
}

// MFAVerify confirms enrolment (or a sign-in challenge) with a TOTP code.
func (c *Client) MFAVerify(ctx context.Context, code string) error {
	_, err := do[struct{}](ctx, c, http.MethodPost, "mfa/verify", map[string]string{"code": code})
	return err
}

// MFADisable turns MFA off for the signed-in user. The backend demands a
// current TOTP code as confirmation.
func (c *Client) MFADisable(ctx context.Context, code string) error {
	_, err := do[struct{}](ctx, c, http.MethodPost, "mfa/disable", map[string]string{"code": code})
	return err
}
