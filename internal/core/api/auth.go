package api

import (
	"context"
	"net/http"

	"github.com/adminkit/adminctl/internal/util"
)

// signInResponse is the backend's sign-in payload.
type signInResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	MFARequired  bool   `json:"mfa_required,omitempty"`
}

// SignInResult reports the outcome of a sign-in attempt.
type SignInResult struct {
	// MFARequired is set when the account needs a TOTP code before the
	// session is fully established.
	MFARequired bool
}

// SignIn authenticates with email and password and stores the returned
// token pair in the session store.
func (c *Client) SignIn(ctx context.Context, email, password string) (SignInResult, error) {
	payload := map[string]string{"email": email, "password": password}
	resp, err := do[signInResponse](ctx, c, http.MethodPost, "auth/sign-in", payload)
	if err != nil {
		return SignInResult{}, err
	}

	c.store.SetTokens(resp.AccessToken, resp.RefreshToken)
	util.LogInfof("Signed in as %s", email)
	return SignInResult{MFARequired: resp.MFARequired}, nil
}

// SignOut tells the backend to revoke the session and clears the local
// store. The store is cleared even when the API call fails, so a dead
// backend cannot pin a stale session on disk.
func (c *Client) SignOut(ctx context.Context) error {
	_, err := do[struct{}](ctx, c, http.MethodPost, "auth/sign-out", nil)
	c.store.Clear()
	if err != nil {
		util.LogWarnf("Sign-out API call failed (local session cleared anyway): %v", err)
	}
	return err
}

// ActivateAccount redeems an account activation token.
func (c *Client) ActivateAccount(ctx context.Context, token string) error {
	_, err := do[struct{}](ctx, c, http.MethodPost, "auth/activate", map[string]string{"token": token})
	return err
}

// ForgotPassword asks the backend to send a password reset email.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	_, err := do[struct{}](ctx, c, http.MethodPost, "auth/forgot-password", map[string]string{"email": email})
	return err
}

// ResetPassword redeems a reset token with a new password.
func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) error {
	payload := map[string]string{"token": token, "password": newPassword}
	_, err := do[struct{}](ctx, c, http.MethodPost, "auth/reset-password", payload)
	return err
}
