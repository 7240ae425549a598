package github

import (
	"context"
	"sync"
	"time"

	"github.com/google/go-github/v66/github"
	"golang.org/x/time/rate"
)

// RateLimiterStats provides statistics about observed GitHub API quota
type RateLimiterStats struct {
	// Observed is false until a response with rate headers has been seen.
	Observed          bool          `json:"observed"`
	Limit             int           `json:"limit"`
	RemainingRequests int           `json:"remaining_requests"`
	ResetTime         time.Time     `json:"reset_time"`
	TotalWaits        int64         `json:"total_waits"`
	TotalDelayTime    time.Duration `json:"total_delay_time"`
}

// RateLimiter paces outgoing requests and records the quota GitHub reports.
// It is safe for concurrent use by all scan workers.
type RateLimiter struct {
	limiter *rate.Limiter
	mu      sync.RWMutex

	stats RateLimiterStats
}

// NewRateLimiter creates a RateLimiter allowing rps requests per second with
// the given burst. A non-positive rps disables pacing.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	if burst < 1 {
		burst = 1
	}

	return &RateLimiter{
		limiter: rate.NewLimiter(limit, burst),
	}
}

// Wait blocks until the limiter allows a request or the context is canceled.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	start := time.Now()
	if err := rl.limiter.Wait(ctx); err != nil {
		return err
	}

	if waited := time.Since(start); waited > time.Millisecond {
		rl.mu.Lock()
		rl.stats.TotalWaits++
		rl.stats.TotalDelayTime += waited
		rl.mu.Unlock()
	}
	return nil
}

// Observe records the rate headers of a response. Responses without rate
// headers leave the stats untouched.
func (rl *RateLimiter) Observe(r github.Rate) {
	if r.Limit == 0 {
		return
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.stats.Observed = true
	rl.stats.Limit = r.Limit
	rl.stats.RemainingRequests = r.Remaining
	rl.stats.ResetTime = r.Reset.Time
}

// GetStats returns current rate limiter statistics
func (rl *RateLimiter) GetStats() RateLimiterStats {
	rl.mu.RLock()
	defer rl.mu.RUnlock()

	return rl.stats
}
