package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testConfig() *Config {
	return &Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
		EndpointConfigs: []EndpointConfig{
			{Path: "/api/generate", Method: "POST", Limit: 10, Window: time.Minute, Burst: 2},
			{Path: "/api/cv/", Method: "GET", Limit: 60, Window: time.Minute, Burst: 5},
		},
	}
}

func TestLimiterBurstExhaustion(t *testing.T) {
	l := NewLimiter(testConfig())
	defer l.Stop()

	allowed, info := l.Allow("1.2.3.4", "/api/generate", "POST")
	assert.True(t, allowed)
	assert.Equal(t, 10, info.Limit)

	allowed, _ = l.Allow("1.2.3.4", "/api/generate", "POST")
	assert.True(t, allowed)

	// Burst of 2 is spent
	allowed, info = l.Allow("1.2.3.4", "/api/generate", "POST")
	assert.False(t, allowed)
	assert.Zero(t, info.Remaining)
}

func TestLimiterClientsAreIndependent(t *testing.T) {
	l := NewLimiter(testConfig())
	defer l.Stop()

	for i := 0; i < 2; i++ {
		allowed, _ := l.Allow("1.2.3.4", "/api/generate", "POST")
		assert.True(t, allowed)
	}

	allowed, _ := l.Allow("5.6.7.8", "/api/generate", "POST")
	assert.True(t, allowed, "a different client has its own bucket")
}

func TestLimiterPrefixMatchSharesBucket(t *testing.T) {
	l := NewLimiter(testConfig())
	defer l.Stop()

	for i := 0; i < 5; i++ {
		allowed, _ := l.Allow("1.2.3.4", "/api/cv/slug-a", "GET")
		assert.True(t, allowed)
	}

	allowed, _ := l.Allow("1.2.3.4", "/api/cv/slug-b", "GET")
	assert.False(t, allowed, "prefix tier shares one bucket across slugs")
}

func TestLimiterHealthUnlimited(t *testing.T) {
	l := NewLimiter(testConfig())
	defer l.Stop()

	for i := 0; i < 500; i++ {
		allowed, _ := l.Allow("1.2.3.4", "/health", "GET")
		assert.True(t, allowed)
	}
}

func TestLimiterDisabled(t *testing.T) {
	l := NewLimiter(&Config{Enabled: false})
	defer l.Stop()

	for i := 0; i < 100; i++ {
		allowed, _ := l.Allow("1.2.3.4", "/api/generate", "POST")
		assert.True(t, allowed)
	}
}

func TestMatchEndpoint(t *testing.T) {
	configs := testConfig().EndpointConfigs

	assert.NotNil(t, matchEndpoint("/api/generate", "POST", configs))
	assert.Nil(t, matchEndpoint("/api/generate", "GET", configs))
	assert.NotNil(t, matchEndpoint("/api/cv/some-slug", "GET", configs))
	assert.Nil(t, matchEndpoint("/api/unknown", "POST", configs))

	health := matchEndpoint("/health", "GET", configs)
	assert.NotNil(t, health)
	assert.Zero(t, health.Limit)
}
