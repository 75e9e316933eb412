package ratelimit_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopkit/commerce-gateway/internal/adapter"
	"github.com/shopkit/commerce-gateway/internal/config"
	"github.com/shopkit/commerce-gateway/internal/mocks"
	"github.com/shopkit/commerce-gateway/internal/ratelimit"
)

var testConfig = config.RateLimitConfig{
	KeyPrefix:   "test:",
	DefaultPlan: "free",
	Plans: map[string]config.PlanLimit{
		"free": {PerMinute: 5, PerDay: 8},
		"pro":  {PerMinute: 50, PerDay: 1000},
	},
}

// memoryCounterStore is a single-process CounterStore with the same check-then-increment semantics
type memoryCounterStore struct {
	mu     sync.Mutex
	minute map[string]int64
	day    map[string]int64
}

func newMemoryCounterStore() *memoryCounterStore {
	return &memoryCounterStore{minute: map[string]int64{}, day: map[string]int64{}}
}

func (s *memoryCounterStore) Take(_ context.Context, tenantID string, limits ratelimit.Limits, _ time.Time) (ratelimit.Counts, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, d := s.minute[tenantID], s.day[tenantID]
	if m >= int64(limits.PerMinute) || d >= int64(limits.PerDay) {
		return ratelimit.Counts{Allowed: false, Minute: m, Day: d}, nil
	}
	s.minute[tenantID]++
	s.day[tenantID]++
	return ratelimit.Counts{Allowed: true, Minute: m + 1, Day: d + 1}, nil
}

func (s *memoryCounterStore) resetMinute() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.minute = map[string]int64{}
}

func TestLimiter_Check(t *testing.T) {
	store := newMemoryCounterStore()
	limiter, err := ratelimit.NewLimiter(testConfig, store, adapter.NewClock(), nil)
	require.NoError(t, err)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		res := limiter.Check(ctx, "tenant-a", "free")
		require.True(t, res.Allowed, "request %d", i)
		assert.Equal(t, 5, res.MinuteLimit)
		assert.Equal(t, 5-i, res.MinuteRemaining)
		assert.Equal(t, 8, res.DayLimit)
		assert.Equal(t, 8-i, res.DayRemaining)
		assert.Zero(t, res.RetryAfterSeconds)
	}

	res := limiter.Check(ctx, "tenant-a", "free")
	assert.False(t, res.Allowed)
	assert.Equal(t, 0, res.MinuteRemaining)
	assert.Equal(t, 3, res.DayRemaining)
	assert.Equal(t, 60, res.RetryAfterSeconds)

	other := limiter.Check(ctx, "tenant-b", "free")
	assert.True(t, other.Allowed, "tenants have independent counters")

	// a new minute window leaves the day counter in force
	store.resetMinute()
	for i := 0; i < 3; i++ {
		require.True(t, limiter.Check(ctx, "tenant-a", "free").Allowed)
	}
	res = limiter.Check(ctx, "tenant-a", "free")
	assert.False(t, res.Allowed)
	assert.Equal(t, 0, res.DayRemaining)
	assert.Equal(t, 2, res.MinuteRemaining)
}

func TestLimiter_UnknownPlanUsesDefault(t *testing.T) {
	limiter, err := ratelimit.NewLimiter(testConfig, newMemoryCounterStore(), adapter.NewClock(), nil)
	require.NoError(t, err)

	res := limiter.Check(context.Background(), "tenant-a", "platinum")
	assert.True(t, res.Allowed)
	assert.Equal(t, 5, res.MinuteLimit)
	assert.Equal(t, 8, res.DayLimit)
}

func TestLimiter_ConcurrentRequestsNeverExceedLimit(t *testing.T) {
	limiter, err := ratelimit.NewLimiter(testConfig, newMemoryCounterStore(), adapter.NewClock(), nil)
	require.NoError(t, err)

	var allowed atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if limiter.Check(context.Background(), "tenant-a", "pro").Allowed {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 50, allowed.Load())
}

func TestLimiter_FailOpen(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockCounterStore(ctrl)
	store.EXPECT().
		Take(gomock.Any(), "tenant-a", ratelimit.Limits{PerMinute: 50, PerDay: 1000}, gomock.Any()).
		Return(ratelimit.Counts{}, errors.New("connection refused"))

	limiter, err := ratelimit.NewLimiter(testConfig, store, adapter.NewClock(), nil)
	require.NoError(t, err)

	res := limiter.Check(context.Background(), "tenant-a", "pro")
	assert.Equal(t, ratelimit.Result{
		Allowed:         true,
		MinuteLimit:     50,
		MinuteRemaining: 50,
		DayLimit:        1000,
		DayRemaining:    1000,
		FailOpen:        true,
	}, res)
}

func TestNewLimiter_InvalidConfig(t *testing.T) {
	_, err := ratelimit.NewLimiter(config.RateLimitConfig{DefaultPlan: "free"}, newMemoryCounterStore(), adapter.NewClock(), nil)
	assert.Error(t, err)

	_, err = ratelimit.NewLimiter(config.RateLimitConfig{
		DefaultPlan: "gold",
		Plans:       map[string]config.PlanLimit{"free": {PerMinute: 1, PerDay: 1}},
	}, newMemoryCounterStore(), adapter.NewClock(), nil)
	assert.Error(t, err)

	_, err = ratelimit.NewLimiter(config.RateLimitConfig{
		DefaultPlan: "free",
		Plans:       map[string]config.PlanLimit{"free": {PerMinute: 0, PerDay: 1}},
	}, newMemoryCounterStore(), adapter.NewClock(), nil)
	assert.Error(t, err)
}
