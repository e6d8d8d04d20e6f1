package api

import (
	"errors"
	"fmt"
)

// ErrInvalidRefreshToken signals that re-authentication is impossible: the
// stored refresh token is missing or the backend rejected it. Callers
// should treat it as "session over" and force a fresh sign-in.
var ErrInvalidRefreshToken = errors.New("invalid refresh token")

// Error code the backend attaches to a rejected refresh token.
const codeInvalidRefreshToken = "invalid_refresh_token"

// Status assigned when no HTTP response was obtained at all.
const statusTransportError = 500

// APIError is a failed API call. For non-2xx responses Status carries the
// real HTTP status and Code/Message the parsed error body; for transport
// failures Status is fixed at 500 with a generic message.
type APIError struct {
	Status  int    `json:"status"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api error %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// newTransportError wraps a network-level failure where no response was
// obtained.
func newTransportError(err error) *APIError {
	return &APIError{
		Status:  statusTransportError,
		Message: fmt.Sprintf("network error: %v", err),
	}
}

// IsStatus reports whether err is an APIError with the given HTTP status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// IsAuthExpired reports whether err means the session cannot be recovered
// without a new sign-in.
func IsAuthExpired(err error) bool {
	return errors.Is(err, ErrInvalidRefreshToken)
}
