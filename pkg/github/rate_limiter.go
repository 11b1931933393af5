package github

import (
	"context"
	"sync"
	"time"
)

// RateLimiterStats provides statistics about rate limiter usage
type RateLimiterStats struct {
	RemainingRequests int           `json:"remaining_requests"`
	ResetTime         time.Time     `json:"reset_time"`
	CurrentDelay      time.Duration `json:"current_delay"`
	TotalWaits        int64         `json:"total_waits"`
	TotalDelayTime    time.Duration `json:"total_delay_time"`
}

// RateLimiterConfig configures the rate limiter behavior
type RateLimiterConfig struct {
	// BaseDelay is the minimum delay between requests
	BaseDelay time.Duration

	// MaxDelay is the maximum delay between requests
	MaxDelay time.Duration

	// MinRemainingRequests is the threshold below which we start throttling
	MinRemainingRequests int

	// ThrottleDelay is the delay applied when no requests remain above the threshold
	ThrottleDelay time.Duration
}

// DefaultRateLimiterConfig returns a default rate limiter configuration
func DefaultRateLimiterConfig() *RateLimiterConfig {
	return &RateLimiterConfig{
		BaseDelay:            100 * time.Millisecond,
		MaxDelay:             30 * time.Second,
		MinRemainingRequests: 100,
		ThrottleDelay:        2 * time.Second,
	}
}

// RateLimiter paces API calls using the rate limit headers GitHub returns
type RateLimiter struct {
	config *RateLimiterConfig
	mu     sync.Mutex

	remaining int
	resetTime time.Time
	lastCall  time.Time

	stats RateLimiterStats
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(config *RateLimiterConfig) *RateLimiter {
	if config == nil {
		config = DefaultRateLimiterConfig()
	}

	return &RateLimiter{
		config:    config,
		remaining: 5000, // GitHub's default authenticated limit
		resetTime: time.Now().Add(time.Hour),
	}
}

// Wait blocks until it's safe to make an API call
func (rl *RateLimiter) Wait(ctx context.Context) error {
	rl.mu.Lock()

	delay := rl.calculateDelay()
	if delay > 0 {
		rl.stats.TotalWaits++
		rl.stats.TotalDelayTime += delay
		rl.mu.Unlock()

		if err := sleep(ctx, delay); err != nil {
			return err
		}

		rl.mu.Lock()
	}

	rl.lastCall = time.Now()
	rl.mu.Unlock()
	return ctx.Err()
}

// UpdateLimits records the rate limit state reported by the last response
func (rl *RateLimiter) UpdateLimits(remaining int, resetTime time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.remaining = remaining
	rl.resetTime = resetTime
	rl.stats.RemainingRequests = remaining
	rl.stats.ResetTime = resetTime
}

// GetDelay returns the current delay before the next API call
func (rl *RateLimiter) GetDelay() time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	return rl.calculateDelay()
}

// GetStats returns current rate limiter statistics
func (rl *RateLimiter) GetStats() RateLimiterStats {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	stats := rl.stats
	stats.CurrentDelay = rl.calculateDelay()
	return stats
}

// calculateDelay calculates the delay needed before the next API call
func (rl *RateLimiter) calculateDelay() time.Duration {
	now := time.Now()

	if now.After(rl.resetTime) {
		return 0
	}

	var delay time.Duration

	if !rl.lastCall.IsZero() {
		if since := now.Sub(rl.lastCall); since < rl.config.BaseDelay {
			delay = rl.config.BaseDelay - since
		}
	}

	if rl.remaining < rl.config.MinRemainingRequests {
		if throttle := rl.throttleDelay(); throttle > delay {
			delay = throttle
		}
	}

	if delay > rl.config.MaxDelay {
		delay = rl.config.MaxDelay
	}
	return delay
}

// throttleDelay grows as the remaining budget shrinks and waits for the
// reset once nothing is left
func (rl *RateLimiter) throttleDelay() time.Duration {
	if rl.remaining <= 0 {
		if wait := time.Until(rl.resetTime); wait > 0 {
			return wait
		}
		return 0
	}

	ratio := float64(rl.remaining) / float64(rl.config.MinRemainingRequests)
	if ratio >= 1.0 {
		return 0
	}
	return time.Duration(float64(rl.config.ThrottleDelay) * (1.0 - ratio))
}
