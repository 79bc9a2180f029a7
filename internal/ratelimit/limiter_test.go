package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainLimiter_PerHostBuckets(t *testing.T) {
	dl := NewDomainLimiter(1, 1)

	assert.True(t, dl.Allow("https://a.example.com/1"))
	assert.False(t, dl.Allow("https://a.example.com/2"), "second request to same host exceeds burst")
	assert.True(t, dl.Allow("https://B.example.com/1"), "other host has its own bucket")
	assert.Equal(t, 2, dl.Hosts())
}

func TestDomainLimiter_DisabledWhenRateIsZero(t *testing.T) {
	dl := NewDomainLimiter(0, 0)

	for i := 0; i < 100; i++ {
		require.True(t, dl.Allow("https://example.com/"))
	}
}

func TestDomainLimiter_WaitHonoursContext(t *testing.T) {
	dl := NewDomainLimiter(0.001, 1)
	require.True(t, dl.Allow("https://example.com/"))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	assert.Error(t, dl.Wait(ctx, "https://example.com/next"))
}

func TestDomainLimiter_InvalidURLPassesThrough(t *testing.T) {
	dl := NewDomainLimiter(1, 1)
	assert.NoError(t, dl.Wait(context.Background(), "://bad"))
	assert.Equal(t, 0, dl.Hosts())
}
