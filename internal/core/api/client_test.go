package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adminkit/adminctl/internal/core/session"
)

func newTestClient(t *testing.T, serverURL string, store session.Store) *Client {
	t.Helper()
	client, err := NewClient(Options{
		BaseURL: serverURL,
		APIKey:  "test-api-key",
		Store:   store,
	})
	require.NoError(t, err)
	return client
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func TestNewClientRequiresBaseURLAndStore(t *testing.T) {
	_, err := NewClient(Options{Store: session.NewMemoryStore()})
	assert.Error(t, err)

	_, err = NewClient(Options{BaseURL: "http://localhost"})
	assert.Error(t, err)
}

func TestResolveURL(t *testing.T) {
	client := newTestClient(t, "http://api.example.com/v1/", session.NewMemoryStore())

	tests := []struct {
		path string
		want string
	}{
		{"iam/users", "http://api.example.com/v1/iam/users"},
		{"/iam/users", "http://api.example.com/v1/iam/users"},
		{"//iam/users", "http://api.example.com/v1/iam/users"},
		{"http://elsewhere.example.com/raw", "http://elsewhere.example.com/raw"},
		{"https://elsewhere.example.com/raw", "https://elsewhere.example.com/raw"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, client.resolveURL(tt.path), "path %q", tt.path)
	}
}

func TestBuildHeaders(t *testing.T) {
	store := session.NewMemoryStore()
	store.SetTokens("access-1", "refresh-1")
	client := newTestClient(t, "http://api.example.com", store)

	headers := client.buildHeaders(requestSpec{})
	assert.Equal(t, "application/json", headers.Get("Content-Type"))
	assert.Equal(t, "test-api-key", headers.Get("X-Api-Key"))
	assert.Equal(t, "Bearer access-1", headers.Get("Authorization"))
	assert.NotEmpty(t, headers.Get("X-Request-Id"))
}

func TestBuildHeadersCallerOverridesBase(t *testing.T) {
	client := newTestClient(t, "http://api.example.com", session.NewMemoryStore())

	headers := client.buildHeaders(requestSpec{headers: map[string]string{
		"Content-Type": "text/plain",
		"X-Custom":     "yes",
	}})
	assert.Equal(t, "text/plain", headers.Get("Content-Type"))
	assert.Equal(t, "yes", headers.Get("X-Custom"))
}

func TestBuildHeadersCookieModeOmitsBearer(t *testing.T) {
	store := session.NewMemoryStore()
	store.SetTokens("access-1", "refresh-1")
	client, err := NewClient(Options{
		BaseURL:       "http://api.example.com",
		CookieSession: true,
		Store:         store,
	})
	require.NoError(t, err)

	headers := client.buildHeaders(requestSpec{})
	assert.Empty(t, headers.Get("Authorization"))
}

func TestRequestReturnsAPIErrorWithRealStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "not found"})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, session.NewMemoryStore())
	_, err := do[struct{}](context.Background(), client, http.MethodGet, "missing", nil)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.Status)
	assert.Equal(t, "not found", apiErr.Message)
	assert.True(t, IsStatus(err, 404))
}

func TestRequestNonJSONErrorBodyIsKept(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream exploded"))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, session.NewMemoryStore())
	_, err := do[struct{}](context.Background(), client, http.MethodGet, "x", nil)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 502, apiErr.Status)
	assert.Equal(t, "upstream exploded", apiErr.Message)
}

func TestRequestTransportFailureUsesSentinelStatus(t *testing.T) {
	// Closed server: connection refused, no response obtained
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := newTestClient(t, server.URL, session.NewMemoryStore())
	_, err := do[struct{}](context.Background(), client, http.MethodGet, "x", nil)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 500, apiErr.Status)
	assert.Contains(t, apiErr.Message, "network error")
}

func TestRequestRefreshesOnceAndRetries(t *testing.T) {
	store := session.NewMemoryStore()
	store.SetTokens("stale-access", "refresh-1")

	var refreshCalls, resourceCalls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/refresh-token":
			atomic.AddInt32(&refreshCalls, 1)
			var payload map[string]string
			json.NewDecoder(r.Body).Decode(&payload)
			assert.Equal(t, "refresh-1", payload["refresh_token"])
			writeJSON(w, http.StatusOK, map[string]string{"access_token": "fresh-access"})
		case "/resource":
			atomic.AddInt32(&resourceCalls, 1)
			if r.Header.Get("Authorization") != "Bearer fresh-access" {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "token expired"})
				return
			}
			writeJSON(w, http.StatusOK, map[string]string{"value": "ok"})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, store)
	result, err := do[map[string]string](context.Background(), client, http.MethodGet, "resource", nil)

	require.NoError(t, err)
	assert.Equal(t, "ok", result["value"])
	assert.Equal(t, int32(1), atomic.LoadInt32(&refreshCalls), "refresh endpoint called exactly once")
	assert.Equal(t, int32(2), atomic.LoadInt32(&resourceCalls), "original request retried exactly once")
	assert.Equal(t, "fresh-access", store.AccessToken())
}

func TestRequestRetryReplaysBody(t *testing.T) {
	store := session.NewMemoryStore()
	store.SetTokens("stale-access", "refresh-1")

	var bodies []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/refresh-token":
			writeJSON(w, http.StatusOK, map[string]string{"access_token": "fresh-access"})
		case "/things":
			var payload map[string]string
			json.NewDecoder(r.Body).Decode(&payload)
			bodies = append(bodies, payload["name"])
			if r.Header.Get("Authorization") != "Bearer fresh-access" {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "token expired"})
				return
			}
			writeJSON(w, http.StatusCreated, payload)
		}
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, store)
	_, err := do[map[string]string](context.Background(), client, http.MethodPost, "things",
		map[string]string{"name": "widget"})

	require.NoError(t, err)
	assert.Equal(t, []string{"widget", "widget"}, bodies, "retry carries the identical body")
}

func TestRequestWithoutRefreshTokenFailsFast(t *testing.T) {
	var refreshCalls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/refresh-token" {
			atomic.AddInt32(&refreshCalls, 1)
		}
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "unauthenticated"})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, session.NewMemoryStore())
	_, err := do[struct{}](context.Background(), client, http.MethodGet, "resource", nil)

	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	assert.True(t, IsAuthExpired(err))
	assert.Equal(t, int32(0), atomic.LoadInt32(&refreshCalls), "refresh endpoint never hit")
}

func TestRequestRejectedRefreshTokenIsTerminal(t *testing.T) {
	store := session.NewMemoryStore()
	store.SetTokens("stale-access", "revoked-refresh")

	var resourceCalls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/refresh-token":
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"code":    "invalid_refresh_token",
				"message": "refresh token revoked",
			})
		default:
			atomic.AddInt32(&resourceCalls, 1)
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "token expired"})
		}
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, store)
	_, err := do[struct{}](context.Background(), client, http.MethodGet, "resource", nil)

	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	assert.Equal(t, int32(1), atomic.LoadInt32(&resourceCalls), "no retry after a failed refresh")
}

func TestRequestSecond401IsNotRefreshedAgain(t *testing.T) {
	store := session.NewMemoryStore()
	store.SetTokens("stale-access", "refresh-1")

	var refreshCalls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/refresh-token" {
			atomic.AddInt32(&refreshCalls, 1)
			writeJSON(w, http.StatusOK, map[string]string{"access_token": "still-rejected"})
			return
		}
		// The backend keeps saying 401 even after the refresh
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "nope"})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, store)
	_, err := do[struct{}](context.Background(), client, http.MethodGet, "resource", nil)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 401, apiErr.Status)
	assert.Equal(t, int32(1), atomic.LoadInt32(&refreshCalls), "at most one refresh per failed request")
}

func TestConcurrent401sShareOneRefresh(t *testing.T) {
	const workers = 8

	store := session.NewMemoryStore()
	store.SetTokens("stale-access", "refresh-1")

	// The refresh handler blocks until every worker has received its 401,
	// so all of them are guaranteed to be waiting on the refresh at once.
	var refreshCalls, initial401s int32
	allUnauthorized := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/refresh-token":
			<-allUnauthorized
			// Give the last 401 recipient time to join the in-flight refresh
			time.Sleep(250 * time.Millisecond)
			atomic.AddInt32(&refreshCalls, 1)
			writeJSON(w, http.StatusOK, map[string]string{"access_token": "fresh-access"})
		case "/resource":
			if r.Header.Get("Authorization") != "Bearer fresh-access" {
				if atomic.AddInt32(&initial401s, 1) == workers {
					close(allUnauthorized)
				}
				writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "token expired"})
				return
			}
			writeJSON(w, http.StatusOK, map[string]string{"value": "ok"})
		}
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, store)

	var wg sync.WaitGroup
	errs := make([]error, workers)
	results := make([]map[string]string, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = do[map[string]string](context.Background(), client, http.MethodGet, "resource", nil)
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i], "worker %d", i)
		assert.Equal(t, "ok", results[i]["value"], "worker %d", i)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&refreshCalls),
		"concurrent 401s coalesce into a single refresh call")
	assert.Equal(t, "fresh-access", store.AccessToken())
}

func TestSequentialRequestsEachGetTheirOwnRefresh(t *testing.T) {
	store := session.NewMemoryStore()
	store.SetTokens("stale-access", "refresh-1")

	var refreshCalls int32
	validToken := "fresh-0"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/refresh-token" {
			n := atomic.AddInt32(&refreshCalls, 1)
			validToken = map[int32]string{1: "fresh-1", 2: "fresh-2"}[n]
			writeJSON(w, http.StatusOK, map[string]string{"access_token": validToken})
			return
		}
		if r.Header.Get("Authorization") != "Bearer "+validToken {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "token expired"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"value": "ok"})
		// Invalidate for the next round
		validToken = "rotated-away"
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, store)

	for i := 0; i < 2; i++ {
		result, err := do[map[string]string](context.Background(), client, http.MethodGet, "resource", nil)
		require.NoError(t, err)
		assert.Equal(t, "ok", result["value"])
	}
	assert.Equal(t, int32(2), atomic.LoadInt32(&refreshCalls))
}

func TestAPIErrorFormatting(t *testing.T) {
	withCode := &APIError{Status: 401, Code: "invalid_refresh_token", Message: "revoked"}
	assert.Equal(t, "api error 401 (invalid_refresh_token): revoked", withCode.Error())

	plain := &APIError{Status: 404, Message: "not found"}
	assert.Equal(t, "api error 404: not found", plain.Error())
}
