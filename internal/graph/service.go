package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/eventkit/eventkit/internal/types"
)

// DefaultBaseURL is the Microsoft Graph API root.
const DefaultBaseURL = "https://graph.microsoft.com/v1.0"

// DefaultCacheTTL is how long fetched events stay fresh.
const DefaultCacheTTL = 5 * time.Minute

// maxPageSize is the Graph API limit on $top.
const maxPageSize = 999

// ServiceError indicates a calendar fetch failed.
type ServiceError struct {
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("graph service: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("graph service: %s", e.Message)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// TokenSource supplies access tokens for Graph API calls.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// ServiceConfig customizes an EventService.
type ServiceConfig struct {
	BaseURL    string
	CacheTTL   time.Duration
	HTTPClient *http.Client
}

type cacheEntry struct {
	sessions  []types.Session
	fetchedAt time.Time
}

// EventService fetches calendar events and transforms them into sessions.
// Results are cached per query for CacheTTL, and concurrent fetches for the
// same query are collapsed into one API call.
type EventService struct {
	tokens     TokenSource
	baseURL    string
	cacheTTL   time.Duration
	httpClient *http.Client

	mu         sync.Mutex
	cache      map[string]cacheEntry
	retryAfter time.Time

	group singleflight.Group
}

// NewEventService creates an EventService backed by the given token source.
func NewEventService(tokens TokenSource, cfg ServiceConfig) *EventService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &EventService{
		tokens:     tokens,
		baseURL:    cfg.BaseURL,
		cacheTTL:   cfg.CacheTTL,
		httpClient: cfg.HTTPClient,
		cache:      make(map[string]cacheEntry),
	}
}

// Events returns calendar events in [start, end) transformed into sessions.
// A zero start defaults to now, a zero end to start plus seven days.
func (s *EventService) Events(ctx context.Context, start, end time.Time, top int) ([]types.Session, error) {
	if start.IsZero() {
		start = time.Now().UTC()
	}
	if end.IsZero() {
		end = start.Add(7 * 24 * time.Hour)
	}

	s.mu.Lock()
	if wait := time.Until(s.retryAfter); wait > 0 {
		s.mu.Unlock()
		return nil, &ServiceError{
			Message: fmt.Sprintf("rate limit exceeded, retry after %d seconds", int(wait.Seconds())+1),
		}
	}

	key := fmt.Sprintf("%s_%s_%d", start.Format("2006-01-02"), end.Format("2006-01-02"), top)
	if entry, ok := s.cache[key]; ok && time.Since(entry.fetchedAt) < s.cacheTTL {
		s.mu.Unlock()
		return entry.sessions, nil
	}
	s.mu.Unlock()

	result, err, _ := s.group.Do(key, func() (any, error) {
		events, err := s.fetchEvents(ctx, start, end, top)
		if err != nil {
			return nil, err
		}
		sessions := transformEvents(events)

		s.mu.Lock()
		s.cache[key] = cacheEntry{sessions: sessions, fetchedAt: time.Now()}
		s.mu.Unlock()

		log.Printf("[graph] fetched %d events, %d sessions after transform", len(events), len(sessions))
		return sessions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]types.Session), nil
}

// ClearCache drops all cached query results.
func (s *EventService) ClearCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]cacheEntry)
}

func (s *EventService) fetchEvents(ctx context.Context, start, end time.Time, top int) ([]graphEvent, error) {
	token, err := s.tokens.AccessToken(ctx)
	if err != nil {
		return nil, &ServiceError{Message: "authentication failed", Err: err}
	}

	params := url.Values{}
	params.Set("startDateTime", start.UTC().Format(time.RFC3339))
	params.Set("endDateTime", end.UTC().Format(time.RFC3339))
	params.Set("$top", strconv.Itoa(min(top, maxPageSize)))
	params.Set("$orderby", "start/dateTime")

	endpoint := s.baseURL + "/me/calendarview?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &ServiceError{Message: "failed to build request", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, &ServiceError{Message: "network error", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, &ServiceError{Message: "failed to read response", Err: err}
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusTooManyRequests:
		retryAfter := 60
		if v, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && v > 0 {
			retryAfter = v
		}
		s.mu.Lock()
		s.retryAfter = time.Now().Add(time.Duration(retryAfter) * time.Second)
		s.mu.Unlock()
		return nil, &ServiceError{Message: fmt.Sprintf("rate limited, retry after %d seconds", retryAfter)}
	case http.StatusUnauthorized:
		return nil, &ServiceError{Message: "authentication failed: invalid token"}
	default:
		return nil, &ServiceError{
			Message: fmt.Sprintf("Graph API returned %d: %s", resp.StatusCode, truncate(string(body), 100)),
		}
	}

	var data struct {
		Value []graphEvent `json:"value"`
	}
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, &ServiceError{Message: "failed to decode response", Err: err}
	}
	return data.Value, nil
}
