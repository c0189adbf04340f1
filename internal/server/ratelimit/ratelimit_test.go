package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllow_WithinLimit(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  5,
		DefaultWindow: time.Minute,
	})
	defer limiter.Stop()

	for i := 0; i < 5; i++ {
		allowed, info := limiter.Allow("client-1", "/recommend", "GET")
		assert.True(t, allowed, "request %d should be allowed", i)
		assert.Equal(t, 5, info.Limit)
	}
}

func TestAllow_BlocksWhenExhausted(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  2,
		DefaultWindow: time.Hour,
	})
	defer limiter.Stop()

	limiter.Allow("client-1", "/recommend", "GET")
	limiter.Allow("client-1", "/recommend", "GET")

	allowed, info := limiter.Allow("client-1", "/recommend", "GET")
	assert.False(t, allowed)
	assert.Greater(t, info.RetryAfter, time.Duration(0))
}

func TestAllow_ClientsAreIndependent(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Hour,
	})
	defer limiter.Stop()

	allowed, _ := limiter.Allow("client-1", "/recommend", "GET")
	assert.True(t, allowed)
	allowed, _ = limiter.Allow("client-1", "/recommend", "GET")
	assert.False(t, allowed)

	allowed, _ = limiter.Allow("client-2", "/recommend", "GET")
	assert.True(t, allowed)
}

func TestAllow_Whitelist(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Hour,
		Whitelist:     map[string]bool{"10.0.0.1": true},
	})
	defer limiter.Stop()

	for i := 0; i < 10; i++ {
		allowed, _ := limiter.Allow("10.0.0.1", "/recommend", "GET")
		assert.True(t, allowed)
	}
}

func TestAllow_Blacklist(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
		Blacklist:     map[string]bool{"10.0.0.2": true},
	})
	defer limiter.Stop()

	allowed, _ := limiter.Allow("10.0.0.2", "/recommend", "GET")
	assert.False(t, allowed)
}

func TestAllow_Disabled(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: false})
	defer limiter.Stop()

	for i := 0; i < 100; i++ {
		allowed, _ := limiter.Allow("client-1", "/recommend", "GET")
		assert.True(t, allowed)
	}
}

func TestMatchEndpoint_HealthIsUnlimited(t *testing.T) {
	config := MatchEndpoint("/health", "GET", DefaultEndpointConfigs())
	assert.NotNil(t, config)
	assert.Equal(t, 0, config.Limit)
}

func TestMatchEndpoint_ExactAndPrefix(t *testing.T) {
	configs := []EndpointConfig{
		{Path: "/recommend-graph", Method: "GET", Limit: 60, Window: time.Hour},
		{Path: "/profiles/", Method: "POST", Limit: 10, Window: time.Minute},
	}

	exact := MatchEndpoint("/recommend-graph", "GET", configs)
	assert.NotNil(t, exact)
	assert.Equal(t, 60, exact.Limit)

	prefix := MatchEndpoint("/profiles/mine", "POST", configs)
	assert.NotNil(t, prefix)
	assert.Equal(t, 10, prefix.Limit)

	assert.Nil(t, MatchEndpoint("/recommend-graph", "POST", configs))
}

func TestAllow_GraphEndpointTier(t *testing.T) {
	limiter := NewLimiter(LoadConfig())
	defer limiter.Stop()

	allowed, info := limiter.Allow("client-1", "/recommend-graph", "GET")
	assert.True(t, allowed)
	assert.Equal(t, 60, info.Limit)
}
