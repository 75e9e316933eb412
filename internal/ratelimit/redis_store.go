package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/shopkit/commerce-gateway/internal/adapter"
	"github.com/shopkit/commerce-gateway/internal/logger"
)

// ErrBackendUnavailable is returned while the last health check failed
var ErrBackendUnavailable = errors.New("rate limit backend unavailable")

// takeScript reads both window counters, denies when either is exhausted and
// otherwise increments both. TTLs are set on the first increment of a window.
//
// KEYS[1] minute counter, KEYS[2] day counter
// ARGV[1] minute limit, ARGV[2] day limit, ARGV[3] minute ttl, ARGV[4] day ttl
// Returns {allowed, minute_count, day_count}
var takeScript = redis.NewScript(`
local minute = tonumber(redis.call('GET', KEYS[1]) or '0')
local day = tonumber(redis.call('GET', KEYS[2]) or '0')
if minute >= tonumber(ARGV[1]) or day >= tonumber(ARGV[2]) then
  return {0, minute, day}
end
minute = redis.call('INCR', KEYS[1])
if minute == 1 then
  redis.call('EXPIRE', KEYS[1], ARGV[3])
end
day = redis.call('INCR', KEYS[2])
if day == 1 then
  redis.call('EXPIRE', KEYS[2], ARGV[4])
end
return {1, minute, day}
`)

const (
	minuteWindowSeconds = 60
	dayWindowSeconds    = 86400
	// counters outlive their window slightly so late reads never see a reset mid-window
	ttlSlackSeconds = 60
)

// RedisCounterStore keeps fixed-window counters in Redis
type RedisCounterStore struct {
	redis     adapter.RedisClient
	clock     adapter.Clock
	keyPrefix string
	available atomic.Bool
	done      chan struct{}
	closeOnce sync.Once
}

// NewRedisCounterStore creates the store and starts a background health check every interval.
// An unreachable Redis at startup is not an error; requests fail open until it recovers.
func NewRedisCounterStore(rc adapter.RedisClient, clock adapter.Clock, keyPrefix string, interval time.Duration) *RedisCounterStore {
	if interval <= 0 {
		interval = 5 * time.Second
	}

	s := &RedisCounterStore{
		redis:     rc,
		clock:     clock,
		keyPrefix: keyPrefix,
		done:      make(chan struct{}),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rc.Ping(ctx); err != nil {
		logger.Warn("Redis unavailable, rate limiting will fail open", zap.Error(err))
	} else {
		s.available.Store(true)
	}

	go s.monitorHealth(interval)
	return s
}

// Take implements CounterStore
func (s *RedisCounterStore) Take(ctx context.Context, tenantID string, limits Limits, now time.Time) (Counts, error) {
	if !s.available.Load() {
		return Counts{}, ErrBackendUnavailable
	}

	minuteKey, dayKey := s.windowKeys(tenantID, now)
	res, err := s.redis.RunScript(ctx, takeScript,
		[]string{minuteKey, dayKey},
		limits.PerMinute, limits.PerDay,
		minuteWindowSeconds+ttlSlackSeconds, dayWindowSeconds+ttlSlackSeconds,
	)
	if err != nil {
		if ctx.Err() == nil {
			s.available.Store(false)
		}
		return Counts{}, fmt.Errorf("failed to run rate limit script: %w", err)
	}
	if len(res) != 3 {
		return Counts{}, fmt.Errorf("unexpected rate limit script result: %v", res)
	}

	return Counts{
		Allowed: res[0] == 1,
		Minute:  res[1],
		Day:     res[2],
	}, nil
}

func (s *RedisCounterStore) windowKeys(tenantID string, now time.Time) (string, string) {
	unix := now.Unix()
	return fmt.Sprintf("%s%s:m:%d", s.keyPrefix, tenantID, unix/minuteWindowSeconds),
		fmt.Sprintf("%s%s:d:%d", s.keyPrefix, tenantID, unix/dayWindowSeconds)
}

func (s *RedisCounterStore) monitorHealth(interval time.Duration) {
	ticker := s.clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
		}

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err := s.redis.Ping(ctx)
		cancel()

		wasAvailable := s.available.Swap(err == nil)
		switch {
		case err == nil && !wasAvailable:
			logger.Info("Redis connection restored")
		case err != nil && wasAvailable:
			logger.Warn("Redis health check failed", zap.Error(err))
		}
	}
}

// Close stops the health check and closes the Redis connection
func (s *RedisCounterStore) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		err = s.redis.Close()
	})
	return err
}
