// Package api implements the HTTP client for the admin backend. All calls
// funnel through a single request path that attaches auth headers and, on
// a 401, performs exactly one token refresh before retrying the original
// request once.
package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/adminkit/adminctl/internal/core/session"
	"github.com/adminkit/adminctl/internal/util"
)

const defaultTimeout = 30 * time.Second

// Options configures a Client.
type Options struct {
	BaseURL       string
	APIKey        string
	CookieSession bool          // Send the session as cookies instead of a bearer header
	Timeout       time.Duration // Zero means defaultTimeout
	Store         session.Store
	HTTPClient    *http.Client // Optional override, used by tests
}

// Client issues requests against the admin backend.
type Client struct {
	baseURL       string
	apiKey        string
	cookieSession bool
	store         session.Store
	httpClient    *http.Client

	// Coalesces concurrent refresh attempts into one upstream call, so a
	// burst of 401s does not fan out into parallel refreshes.
	refreshGroup singleflight.Group
}

// NewClient creates a client for the given backend.
func NewClient(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if opts.Store == nil {
		return nil, fmt.Errorf("session store is required")
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout == 0 {
			timeout = defaultTimeout
		}
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create cookie jar: %w", err)
		}
		httpClient = &http.Client{
			Timeout: timeout,
			Jar:     jar,
		}
	}

	return &Client{
		baseURL:       strings.TrimRight(opts.BaseURL, "/"),
		apiKey:        opts.APIKey,
		cookieSession: opts.CookieSession,
		store:         opts.Store,
		httpClient:    httpClient,
	}, nil
}

// Store exposes the session store backing this client.
func (c *Client) Store() session.Store {
	return c.store
}

// requestSpec describes one API call.
type requestSpec struct {
	method  string
	path    string
	headers map[string]string
	body    []byte // Replayed verbatim if the request is retried
}

// resolveURL passes absolute paths through and joins relative ones to the
// base URL with exactly one separator.
func (c *Client) resolveURL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

// buildHeaders merges the base header set with caller-supplied headers,
// caller values taking precedence. The bearer token is read from the
// session store at call time so a retry after refresh picks up the new
// access token.
func (c *Client) buildHeaders(spec requestSpec) http.Header {
	headers := make(http.Header)
	headers.Set("Content-Type", "application/json")
	headers.Set("X-Request-Id", uuid.NewString())
	if c.apiKey != "" {
		headers.Set("X-Api-Key", c.apiKey)
	}
	if !c.cookieSession {
		if token := c.store.AccessToken(); token != "" {
			headers.Set("Authorization", "Bearer "+token)
		}
	}
	for key, value := range spec.headers {
		headers.Set(key, value)
	}
	return headers
}

// request performs one API call with the 401-refresh-retry policy and
// returns the raw response body.
func (c *Client) request(ctx context.Context, spec requestSpec) ([]byte, error) {
	body, status, err := c.send(ctx, spec)
	if err != nil {
		return nil, err
	}
	if status == http.StatusUnauthorized {
		util.LogDebugf("Received 401 for %s %s, attempting token refresh", spec.method, spec.path)
		if err := c.refresh(ctx); err != nil {
			return nil, err
		}
		// One retry with identical method, headers and body. A second 401
		// surfaces as an ordinary API error; refresh is never re-entered.
		body, status, err = c.send(ctx, spec)
		if err != nil {
			return nil, err
		}
	}
	if status < 200 || status >= 300 {
		return nil, parseAPIError(status, body)
	}
	return body, nil
}

// send issues the HTTP call once and returns the body and status. Errors
// are returned only for transport failures where no response was obtained.
func (c *Client) send(ctx context.Context, spec requestSpec) ([]byte, int, error) {
	var reader io.Reader
	if len(spec.body) > 0 {
		reader = bytes.NewReader(spec.body)
	}

	req, err := http.NewRequestWithContext(ctx, spec.method, c.resolveURL(spec.path), reader)
	if err != nil {
		return nil, 0, newTransportError(err)
	}
	req.Header = c.buildHeaders(spec)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		util.LogDebugf("Transport failure for %s %s: %v", spec.method, spec.path, err)
		return nil, 0, newTransportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, newTransportError(err)
	}
	return body, resp.StatusCode, nil
}

// refreshResponse is the refresh endpoint's success payload.
type refreshResponse struct {
	AccessToken string `json:"access_token"`
}

// refresh exchanges the stored refresh token for a new access token.
// Concurrent callers share one upstream call through the singleflight
// group. Failures are terminal for the triggering request.
func (c *Client) refresh(ctx context.Context) error {
	_, err, _ := c.refreshGroup.Do("refresh", func() (interface{}, error) {
		refreshToken := c.store.RefreshToken()
		if refreshToken == "" {
			return nil, ErrInvalidRefreshToken
		}

		payload, err := sonic.Marshal(map[string]string{"refresh_token": refreshToken})
		if err != nil {
			return nil, fmt.Errorf("failed to encode refresh request: %w", err)
		}

		// The refresh call bypasses the retry path on purpose: a 401 here
		// must not recurse into another refresh.
		body, status, err := c.send(ctx, requestSpec{
			method: http.MethodPost,
			path:   "auth/refresh-token",
			body:   payload,
		})
		if err != nil {
			return nil, err
		}
		if status < 200 || status >= 300 {
			apiErr := parseAPIError(status, body)
			if apiErr.Code == codeInvalidRefreshToken {
				return nil, ErrInvalidRefreshToken
			}
			return nil, apiErr
		}

		var parsed refreshResponse
		if err := sonic.Unmarshal(body, &parsed); err != nil {
			return nil, fmt.Errorf("failed to parse refresh response: %w", err)
		}
		if parsed.AccessToken == "" {
			return nil, ErrInvalidRefreshToken
		}

		c.store.SetAccessToken(parsed.AccessToken)
		util.LogDebugf("Access token refreshed (%s)", util.MaskToken(parsed.AccessToken))
		return nil, nil
	})
	return err
}

// parseAPIError builds an APIError from a non-2xx response, falling back
// to the raw body when it is not the standard error shape.
func parseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status}
	if len(body) > 0 {
		if err := sonic.Unmarshal(body, apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(body))
		}
	}
	apiErr.Status = status
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}

// do issues a JSON request and decodes the response into T. A nil body
// sends no payload; an empty response body yields T's zero value.
func do[T any](ctx context.Context, c *Client, method, path string, payload interface{}) (T, error) {
	var result T

	var body []byte
	if payload != nil {
		encoded, err := sonic.Marshal(payload)
		if err != nil {
			return result, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = encoded
	}

	respBody, err := c.request(ctx, requestSpec{method: method, path: path, body: body})
	if err != nil {
		return result, err
	}
	if len(respBody) == 0 {
		return result, nil
	}
	if err := sonic.Unmarshal(respBody, &result); err != nil {
		return result, fmt.Errorf("failed to parse response body: %w", err)
	}
	return result, nil
}
