package github

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRateLimiter(t *testing.T) {
	rl := NewRateLimiter(nil)

	assert.Equal(t, DefaultRateLimiterConfig(), rl.config)
	assert.Equal(t, 5000, rl.remaining)
	assert.Equal(t, time.Duration(0), rl.GetDelay())
}

func TestRateLimiter_BaseDelay(t *testing.T) {
	rl := NewRateLimiter(&RateLimiterConfig{
		BaseDelay:            20 * time.Millisecond,
		MaxDelay:             time.Second,
		MinRemainingRequests: 10,
		ThrottleDelay:        time.Second,
	})

	require.NoError(t, rl.Wait(context.Background()))
	assert.Greater(t, rl.GetDelay(), time.Duration(0))

	start := time.Now()
	require.NoError(t, rl.Wait(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
	assert.Equal(t, int64(1), rl.GetStats().TotalWaits)
}

func TestRateLimiter_Throttle(t *testing.T) {
	rl := NewRateLimiter(&RateLimiterConfig{
		MaxDelay:             time.Minute,
		MinRemainingRequests: 100,
		ThrottleDelay:        10 * time.Second,
	})

	rl.UpdateLimits(50, time.Now().Add(time.Hour))
	assert.InDelta(t, float64(5*time.Second), float64(rl.GetDelay()), float64(10*time.Millisecond))

	rl.UpdateLimits(0, time.Now().Add(time.Hour))
	assert.Equal(t, time.Minute, rl.GetDelay())

	rl.UpdateLimits(0, time.Now().Add(-time.Second))
	assert.Equal(t, time.Duration(0), rl.GetDelay())
}

func TestRateLimiter_WaitHonoursContext(t *testing.T) {
	rl := NewRateLimiter(nil)
	rl.UpdateLimits(0, time.Now().Add(time.Hour))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := rl.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRateLimiter_Stats(t *testing.T) {
	rl := NewRateLimiter(nil)
	reset := time.Now().Add(time.Hour)

	rl.UpdateLimits(4000, reset)

	stats := rl.GetStats()
	assert.Equal(t, 4000, stats.RemainingRequests)
	assert.True(t, reset.Equal(stats.ResetTime))
}
