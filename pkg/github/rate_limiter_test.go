package github

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/go-github/v66/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRateLimiter(t *testing.T) {
	t.Run("non-positive rate disables pacing", func(t *testing.T) {
		limiter := NewRateLimiter(0, 0)
		require.NotNil(t, limiter)

		start := time.Now()
		for i := 0; i < 50; i++ {
			require.NoError(t, limiter.Wait(context.Background()))
		}
		assert.Less(t, time.Since(start), time.Second)
		assert.Zero(t, limiter.GetStats().TotalWaits)
	})

	t.Run("stats start unobserved", func(t *testing.T) {
		stats := NewRateLimiter(10, 1).GetStats()
		assert.False(t, stats.Observed)
		assert.Zero(t, stats.Limit)
	})
}

func TestRateLimiter_Wait(t *testing.T) {
	t.Run("paces requests beyond the burst", func(t *testing.T) {
		limiter := NewRateLimiter(20, 1)

		require.NoError(t, limiter.Wait(context.Background()))
		require.NoError(t, limiter.Wait(context.Background()))

		stats := limiter.GetStats()
		assert.Equal(t, int64(1), stats.TotalWaits)
		assert.Greater(t, stats.TotalDelayTime, time.Duration(0))
	})

	t.Run("canceled context", func(t *testing.T) {
		limiter := NewRateLimiter(0.001, 1)
		require.NoError(t, limiter.Wait(context.Background()))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		assert.Error(t, limiter.Wait(ctx))
	})

	t.Run("concurrent waiters", func(t *testing.T) {
		limiter := NewRateLimiter(0, 1)

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, limiter.Wait(context.Background()))
			}()
		}
		wg.Wait()
	})
}

func TestRateLimiter_Observe(t *testing.T) {
	limiter := NewRateLimiter(0, 1)
	reset := time.Now().Add(time.Hour).Truncate(time.Second)

	limiter.Observe(github.Rate{})
	assert.False(t, limiter.GetStats().Observed)

	limiter.Observe(github.Rate{
		Limit:     60,
		Remaining: 12,
		Reset:     github.Timestamp{Time: reset},
	})

	stats := limiter.GetStats()
	assert.True(t, stats.Observed)
	assert.Equal(t, 60, stats.Limit)
	assert.Equal(t, 12, stats.RemainingRequests)
	assert.True(t, reset.Equal(stats.ResetTime))

	// A response without rate headers keeps the last observation.
	limiter.Observe(github.Rate{})
	assert.Equal(t, 12, limiter.GetStats().RemainingRequests)
}
