// Package ratelimit enforces per-tenant request quotas over minute and day windows.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/shopkit/commerce-gateway/internal/adapter"
	"github.com/shopkit/commerce-gateway/internal/config"
	"github.com/shopkit/commerce-gateway/internal/logger"
	"github.com/shopkit/commerce-gateway/internal/metrics"
)

// RetryAfterSeconds is reported on every denial
const RetryAfterSeconds = 60

// Limits is the quota of a plan tier
type Limits struct {
	PerMinute int
	PerDay    int
}

// Result is the outcome of a quota check. Remaining values are within [0, limit].
type Result struct {
	Allowed           bool
	MinuteLimit       int
	MinuteRemaining   int
	DayLimit          int
	DayRemaining      int
	RetryAfterSeconds int
	// FailOpen is set when the counter store could not be consulted
	FailOpen bool
}

// Counts are the window counters after a Take
type Counts struct {
	Allowed bool
	Minute  int64
	Day     int64
}

// CounterStore atomically checks both windows and, only when both have room, increments them
//
//go:generate mockgen -source=limiter.go -destination=../mocks/ratelimit.go -package=mocks -mock_names=CounterStore=MockCounterStore,Limiter=MockLimiter
type CounterStore interface {
	Take(ctx context.Context, tenantID string, limits Limits, now time.Time) (Counts, error)
}

// Limiter checks and consumes tenant quota
type Limiter interface {
	// Check never fails. Backend errors allow the request and report the nominal limits.
	Check(ctx context.Context, tenantID string, plan string) Result
}

type limiter struct {
	store       CounterStore
	plans       map[string]Limits
	defaultPlan string
	clock       adapter.Clock
	metrics     *metrics.Metrics
}

// NewLimiter creates a limiter for the configured plans
func NewLimiter(cfg config.RateLimitConfig, store CounterStore, clock adapter.Clock, m *metrics.Metrics) (Limiter, error) {
	plans, err := validateConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("invalid rate limit configuration: %w", err)
	}

	return &limiter{
		store:       store,
		plans:       plans,
		defaultPlan: cfg.DefaultPlan,
		clock:       clock,
		metrics:     m,
	}, nil
}

func (l *limiter) limitsFor(plan string) (string, Limits) {
	if limits, ok := l.plans[plan]; ok {
		return plan, limits
	}
	return l.defaultPlan, l.plans[l.defaultPlan]
}

func (l *limiter) Check(ctx context.Context, tenantID string, plan string) Result {
	plan, limits := l.limitsFor(plan)

	counts, err := l.store.Take(ctx, tenantID, limits, l.clock.Now())
	if err != nil {
		logger.WarnCtx(ctx, "Rate limit backend unavailable, allowing request",
			zap.Error(err),
			zap.String("tenant_id", tenantID),
			zap.String("plan", plan),
		)
		l.metrics.ObserveRateLimit(plan, metrics.RateLimitFailOpen)
		return Result{
			Allowed:         true,
			MinuteLimit:     limits.PerMinute,
			MinuteRemaining: limits.PerMinute,
			DayLimit:        limits.PerDay,
			DayRemaining:    limits.PerDay,
			FailOpen:        true,
		}
	}

	result := Result{
		Allowed:         counts.Allowed,
		MinuteLimit:     limits.PerMinute,
		MinuteRemaining: remaining(limits.PerMinute, counts.Minute),
		DayLimit:        limits.PerDay,
		DayRemaining:    remaining(limits.PerDay, counts.Day),
	}
	if !counts.Allowed {
		result.RetryAfterSeconds = RetryAfterSeconds
		l.metrics.ObserveRateLimit(plan, metrics.RateLimitDenied)
		logger.DebugCtx(ctx, "Rate limit exceeded",
			zap.String("tenant_id", tenantID),
			zap.String("plan", plan),
			zap.Int64("minute_count", counts.Minute),
			zap.Int64("day_count", counts.Day),
		)
		return result
	}

	l.metrics.ObserveRateLimit(plan, metrics.RateLimitAllowed)
	return result
}

func remaining(limit int, used int64) int {
	r := int64(limit) - used
	if r < 0 {
		return 0
	}
	if r > int64(limit) {
		return limit
	}
	return int(r)
}

// validateConfig converts configured plans and checks the default plan exists
func validateConfig(cfg config.RateLimitConfig) (map[string]Limits, error) {
	if len(cfg.Plans) == 0 {
		return nil, fmt.Errorf("at least one plan must be configured")
	}

	plans := make(map[string]Limits, len(cfg.Plans))
	for name, p := range cfg.Plans {
		if p.PerMinute <= 0 || p.PerDay <= 0 {
			return nil, fmt.Errorf("plan %s: per_minute and per_day must be positive", name)
		}
		plans[name] = Limits{PerMinute: p.PerMinute, PerDay: p.PerDay}
	}

	if _, ok := plans[cfg.DefaultPlan]; !ok {
		return nil, fmt.Errorf("default plan %q is not configured", cfg.DefaultPlan)
	}
	return plans, nil
}
