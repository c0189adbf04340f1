package graph

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventkit/eventkit/internal/config"
)

func graphSettings() *config.Settings {
	return &config.Settings{
		GraphTenantID:     "tenant-1234",
		GraphClientID:     "client-1",
		GraphClientSecret: "secret",
	}
}

func newTokenServer(t *testing.T, calls *int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/tenant-1234/oauth2/v2.0/token", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.Form.Get("grant_type"))
		assert.Equal(t, "https://graph.microsoft.com/.default", r.Form.Get("scope"))

		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "token-abc",
			"expires_in":   3600,
		})
	}))
}

func TestAccessToken_AcquiresAndCaches(t *testing.T) {
	calls := 0
	server := newTokenServer(t, &calls)
	defer server.Close()

	cachePath := filepath.Join(t.TempDir(), "token_cache.json")
	client, err := NewAuthClient(graphSettings(),
		WithAuthority(server.URL),
		WithCachePath(cachePath),
	)
	require.NoError(t, err)

	ctx := context.Background()
	token, err := client.AccessToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "token-abc", token)

	// Second call served from the in-memory cache.
	token, err = client.AccessToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "token-abc", token)
	assert.Equal(t, 1, calls)

	// A new client reads the on-disk cache and skips the network.
	fresh, err := NewAuthClient(graphSettings(),
		WithAuthority(server.URL),
		WithCachePath(cachePath),
	)
	require.NoError(t, err)
	token, err = fresh.AccessToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "token-abc", token)
	assert.Equal(t, 1, calls)
}

func TestAccessToken_RefreshesNearExpiry(t *testing.T) {
	calls := 0
	server := newTokenServer(t, &calls)
	defer server.Close()

	client, err := NewAuthClient(graphSettings(),
		WithAuthority(server.URL),
		WithCachePath(filepath.Join(t.TempDir(), "token_cache.json")),
	)
	require.NoError(t, err)

	// Token obtained an hour ago with a one hour lifetime is inside the
	// expiry buffer and must be refreshed.
	client.token = cachedToken{
		AccessToken: "stale",
		ExpiresIn:   3600,
		ObtainedAt:  float64(time.Now().Add(-time.Hour).Unix()),
	}

	token, err := client.AccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "token-abc", token)
	assert.Equal(t, 1, calls)
}

func TestAccessToken_ErrorResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "invalid_client"})
	}))
	defer server.Close()

	client, err := NewAuthClient(graphSettings(),
		WithAuthority(server.URL),
		WithCachePath(filepath.Join(t.TempDir(), "token_cache.json")),
	)
	require.NoError(t, err)

	_, err = client.AccessToken(context.Background())
	require.Error(t, err)
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Contains(t, authErr.Error(), "invalid_client")
}

func TestNewAuthClient_MissingCredentials(t *testing.T) {
	_, err := NewAuthClient(&config.Settings{GraphTenantID: "tenant"})
	require.Error(t, err)
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Contains(t, authErr.Error(), "missing credentials")
}
