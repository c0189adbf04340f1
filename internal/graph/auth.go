// Package graph integrates with the Microsoft Graph API: client-credentials
// authentication, calendar event fetching and transformation into sessions.
package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/eventkit/eventkit/internal/config"
)

// DefaultAuthority is the Microsoft identity platform endpoint.
const DefaultAuthority = "https://login.microsoftonline.com"

// tokenCacheFile is created in the user's home directory.
const tokenCacheFile = ".eventkit_token_cache.json"

// expiryBuffer refreshes tokens 5 minutes before they expire.
const expiryBuffer = 300 * time.Second

// AuthError indicates token acquisition failed.
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("graph auth: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("graph auth: %s", e.Message)
}

func (e *AuthError) Unwrap() error { return e.Err }

// cachedToken is the shape persisted to the on-disk cache file.
type cachedToken struct {
	AccessToken string  `json:"access_token"`
	ExpiresIn   float64 `json:"expires_in"`
	ObtainedAt  float64 `json:"obtained_at"`
}

func (t cachedToken) valid(now time.Time) bool {
	if t.AccessToken == "" {
		return false
	}
	obtained := time.Unix(int64(t.ObtainedAt), 0)
	ttl := time.Duration(t.ExpiresIn) * time.Second
	return now.Before(obtained.Add(ttl - expiryBuffer))
}

// AuthClient acquires app-only access tokens via the OAuth2 client
// credentials flow and caches them in memory and on disk.
type AuthClient struct {
	tenantID     string
	clientID     string
	clientSecret string
	authority    string
	cachePath    string
	httpClient   *http.Client

	mu    sync.Mutex
	token cachedToken
}

// AuthOption customizes an AuthClient.
type AuthOption func(*AuthClient)

// WithAuthority overrides the token endpoint base URL.
func WithAuthority(authority string) AuthOption {
	return func(c *AuthClient) { c.authority = strings.TrimSuffix(authority, "/") }
}

// WithCachePath overrides the on-disk token cache location.
func WithCachePath(path string) AuthOption {
	return func(c *AuthClient) { c.cachePath = path }
}

// WithAuthHTTPClient overrides the HTTP client used for token requests.
func WithAuthHTTPClient(client *http.Client) AuthOption {
	return func(c *AuthClient) { c.httpClient = client }
}

// NewAuthClient creates an AuthClient from settings. All three Graph
// credentials must be set.
func NewAuthClient(settings *config.Settings, opts ...AuthOption) (*AuthClient, error) {
	if !settings.GraphReady() {
		return nil, &AuthError{
			Message: "missing credentials: " + strings.Join(settings.GraphValidationErrors(), ", "),
		}
	}

	client := &AuthClient{
		tenantID:     settings.GraphTenantID,
		clientID:     settings.GraphClientID,
		clientSecret: settings.GraphClientSecret,
		authority:    DefaultAuthority,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
	}
	if home, err := os.UserHomeDir(); err == nil {
		client.cachePath = filepath.Join(home, tokenCacheFile)
	}
	for _, opt := range opts {
		opt(client)
	}

	client.loadCache()
	return client, nil
}

// AccessToken returns a valid access token, refreshing it when the cached
// one is missing or within the expiry buffer.
func (c *AuthClient) AccessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token.valid(time.Now()) {
		return c.token.AccessToken, nil
	}

	log.Printf("[graph] acquiring new access token for tenant %s...", truncate(c.tenantID, 8))
	token, err := c.acquireToken(ctx)
	if err != nil {
		return "", err
	}

	c.token = token
	c.saveCache()
	return token.AccessToken, nil
}

func (c *AuthClient) acquireToken(ctx context.Context) (cachedToken, error) {
	endpoint := fmt.Sprintf("%s/%s/oauth2/v2.0/token", c.authority, c.tenantID)

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)
	form.Set("scope", "https://graph.microsoft.com/.default")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return cachedToken{}, &AuthError{Message: "failed to build token request", Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return cachedToken{}, &AuthError{Message: "token request failed", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return cachedToken{}, &AuthError{Message: "failed to read token response", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		var errResp struct {
			Error            string `json:"error"`
			ErrorDescription string `json:"error_description"`
		}
		_ = json.Unmarshal(body, &errResp)
		if errResp.Error == "" {
			errResp.Error = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return cachedToken{}, &AuthError{Message: "failed to acquire token: " + errResp.Error}
	}

	var token cachedToken
	if err := json.Unmarshal(body, &token); err != nil {
		return cachedToken{}, &AuthError{Message: "failed to decode token response", Err: err}
	}
	if token.AccessToken == "" {
		return cachedToken{}, &AuthError{Message: "token response missing access_token"}
	}

	token.ObtainedAt = float64(time.Now().Unix())
	return token, nil
}

func (c *AuthClient) loadCache() {
	if c.cachePath == "" {
		return
	}
	data, err := os.ReadFile(c.cachePath)
	if err != nil {
		return
	}
	var token cachedToken
	if err := json.Unmarshal(data, &token); err != nil {
		log.Printf("[graph] ignoring unreadable token cache: %v", err)
		return
	}
	c.token = token
}

func (c *AuthClient) saveCache() {
	if c.cachePath == "" {
		return
	}
	data, err := json.MarshalIndent(c.token, "", "  ")
	if err != nil {
		return
	}
	if err := os.WriteFile(c.cachePath, data, 0600); err != nil {
		log.Printf("[graph] failed to save token cache: %v", err)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
