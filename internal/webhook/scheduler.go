package webhook

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/shopkit/commerce-gateway/internal/adapter"
	"github.com/shopkit/commerce-gateway/internal/logger"
	"github.com/shopkit/commerce-gateway/internal/store/schema"
)

const (
	DefaultMaxAttempts = 3
	DefaultTimeout     = 30 * time.Second

	initialRetryInterval = time.Second
	retryMultiplier      = 2
	maxRetryInterval     = time.Hour
)

var errDeliveryFailed = errors.New("delivery failed")

// Result summarizes one scheduler run
type Result struct {
	Delivered bool
	Attempts  int
	// Last is the outcome of the last recorded attempt
	Last Outcome
	// Err is set when the run was cut short by cancellation
	Err error
}

// SchedulerOption configures a Scheduler
type SchedulerOption func(*Scheduler)

// WithTimer replaces the timer used to wait between attempts
func WithTimer(newTimer func() backoff.Timer) SchedulerOption {
	return func(s *Scheduler) {
		s.newTimer = newTimer
	}
}

// WithDefaults sets the attempt budget and per-attempt timeout used when a subscription has none
func WithDefaults(maxAttempts int, timeout time.Duration) SchedulerOption {
	return func(s *Scheduler) {
		if maxAttempts > 0 {
			s.defaultMaxAttempts = maxAttempts
		}
		if timeout > 0 {
			s.defaultTimeout = timeout
		}
	}
}

// Scheduler drives repeated delivery attempts of one envelope to one subscription
type Scheduler struct {
	deliverer          Deliverer
	recorder           Recorder
	clock              adapter.Clock
	newTimer           func() backoff.Timer
	defaultMaxAttempts int
	defaultTimeout     time.Duration
}

// NewScheduler creates a scheduler
func NewScheduler(deliverer Deliverer, recorder Recorder, clock adapter.Clock, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		deliverer:          deliverer,
		recorder:           recorder,
		clock:              clock,
		defaultMaxAttempts: DefaultMaxAttempts,
		defaultTimeout:     DefaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Scheduler) maxAttempts(sub *schema.WebhookSubscription) int {
	if sub.MaxAttempts > 0 {
		return sub.MaxAttempts
	}
	return s.defaultMaxAttempts
}

func (s *Scheduler) timeout(sub *schema.WebhookSubscription) time.Duration {
	if sub.TimeoutMs > 0 {
		return time.Duration(sub.TimeoutMs) * time.Millisecond
	}
	return s.defaultTimeout
}

// newBackOff waits 1s, 2s, 4s, ... between attempts and stops after maxAttempts-1 retries
func (s *Scheduler) newBackOff(ctx context.Context, maxAttempts int) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = initialRetryInterval
	exp.Multiplier = retryMultiplier
	exp.RandomizationFactor = 0
	exp.MaxInterval = maxRetryInterval
	exp.MaxElapsedTime = 0
	exp.Reset()

	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(maxAttempts-1)), ctx) //nolint:gosec,G115
}

// Run attempts delivery until one attempt succeeds or the subscription's attempt budget
// is spent. Every attempt is recorded before the next is scheduled. Exhaustion does not
// change the subscription.
func (s *Scheduler) Run(ctx context.Context, sub *schema.WebhookSubscription, env Envelope) Result {
	maxAttempts := s.maxAttempts(sub)
	var result Result

	operation := func() error {
		outcome, err := s.Once(ctx, sub, env, result.Attempts+1)
		if err != nil {
			return backoff.Permanent(err)
		}
		result.Attempts++
		result.Last = outcome
		if outcome.Success {
			return nil
		}
		return errDeliveryFailed
	}

	notify := func(_ error, next time.Duration) {
		logger.DebugCtx(ctx, "Scheduling webhook retry",
			zap.String("subscriptionID", sub.ID),
			zap.String("envelopeID", env.ID),
			zap.Int("attempt", result.Attempts),
			zap.Duration("backoff", next))
	}

	var timer backoff.Timer
	if s.newTimer != nil {
		timer = s.newTimer()
	}

	err := backoff.RetryNotifyWithTimer(operation, s.newBackOff(ctx, maxAttempts), notify, timer)
	switch {
	case err == nil:
		result.Delivered = true
		logger.InfoCtx(ctx, "Webhook delivered",
			zap.String("subscriptionID", sub.ID),
			zap.String("envelopeID", env.ID),
			zap.Int("attempts", result.Attempts))
	case errors.Is(err, errDeliveryFailed):
		logger.WarnCtx(ctx, "Webhook delivery attempts exhausted",
			zap.String("subscriptionID", sub.ID),
			zap.String("envelopeID", env.ID),
			zap.Int("attempts", result.Attempts))
	default:
		result.Err = err
		logger.InfoCtx(ctx, "Webhook delivery cancelled",
			zap.String("subscriptionID", sub.ID),
			zap.String("envelopeID", env.ID),
			zap.Int("attempts", result.Attempts),
			zap.Error(err))
	}
	return result
}

// Once performs and records a single attempt with the given attempt number
func (s *Scheduler) Once(ctx context.Context, sub *schema.WebhookSubscription, env Envelope, attemptNumber int) (Outcome, error) {
	outcome, err := s.deliverer.Attempt(ctx, sub.URL, env.Body, sub.Secret, s.timeout(sub))
	if err != nil {
		return Outcome{}, err
	}

	// the attempt happened, so it is recorded even if ctx ends now
	s.recorder.Record(context.WithoutCancel(ctx), newAttemptRecord(sub, env, attemptNumber, outcome, s.clock.Now()))
	return outcome, nil
}

func newAttemptRecord(sub *schema.WebhookSubscription, env Envelope, attemptNumber int, outcome Outcome, now time.Time) *schema.WebhookDeliveryAttempt {
	attempt := &schema.WebhookDeliveryAttempt{
		SubscriptionID: sub.ID,
		OrganizationID: sub.OrganizationID,
		EnvelopeID:     env.ID,
		EventType:      env.EventType,
		Payload:        datatypes.JSON(env.Body),
		AttemptNumber:  attemptNumber,
		HTTPStatus:     outcome.HTTPStatus,
		ResponseBody:   outcome.ResponseExcerpt,
		ErrorMessage:   outcome.ErrorMessage,
		DurationMs:     outcome.Duration.Milliseconds(),
	}
	if outcome.Success {
		deliveredAt := now
		attempt.DeliveredAt = &deliveredAt
	}
	return attempt
}
