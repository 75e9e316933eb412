package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/shopkit/commerce-gateway/internal/adapter"
	"github.com/shopkit/commerce-gateway/internal/logger"
	"github.com/shopkit/commerce-gateway/internal/store"
	"github.com/shopkit/commerce-gateway/internal/store/schema"
)

var (
	ErrSubscriptionNotFound = errors.New("webhook subscription not found")
	ErrAttemptNotFound      = errors.New("webhook delivery attempt not found")
	ErrDispatcherClosed     = errors.New("dispatcher closed")
)

// Dispatcher fans events out to matching subscriptions
//
//go:generate mockgen -source=dispatcher.go -destination=../mocks/dispatcher.go -package=mocks -mock_names=Dispatcher=MockDispatcher
type Dispatcher interface {
	// Trigger returns once deliveries are queued. Delivery failures are only visible in
	// the recorded attempts.
	Trigger(ctx context.Context, tenantID string, event Event) error

	// SendTest sends one recorded test event to the subscription and waits for the outcome
	SendTest(ctx context.Context, sub *schema.WebhookSubscription) (Outcome, error)

	// Replay re-sends a recorded attempt's payload once, reusing its envelope id
	Replay(ctx context.Context, tenantID string, attemptID uint64) (Outcome, error)

	// Close cancels in-flight deliveries and waits for them to stop
	Close()
}

type dispatcher struct {
	store     store.Store
	scheduler *Scheduler
	registry  *Registry
	json      adapter.JSON
	clock     adapter.Clock
	pool      pond.Pool
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// NewDispatcher creates a dispatcher whose deliveries run on a pool of maxWorkers goroutines.
// maxWorkers 0 means unbounded.
func NewDispatcher(s store.Store, scheduler *Scheduler, registry *Registry, j adapter.JSON, clock adapter.Clock, maxWorkers int) Dispatcher {
	ctx, cancel := context.WithCancel(context.Background())
	return &dispatcher{
		store:     s,
		scheduler: scheduler,
		registry:  registry,
		json:      j,
		clock:     clock,
		pool:      pond.NewPool(maxWorkers, pond.WithContext(ctx)),
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (d *dispatcher) Trigger(ctx context.Context, tenantID string, event Event) error {
	if event == nil || !d.registry.Known(event.EventType()) {
		eventType := "<nil>"
		if event != nil {
			eventType = event.EventType()
		}
		return fmt.Errorf("%w: %s", ErrUnknownEventType, eventType)
	}
	if d.ctx.Err() != nil {
		return ErrDispatcherClosed
	}

	subs, err := d.store.GetActiveSubscriptionsForEvent(ctx, tenantID, event.EventType())
	if err != nil {
		return fmt.Errorf("failed to load subscriptions: %w", err)
	}
	if len(subs) == 0 {
		logger.DebugCtx(ctx, "No active webhook subscriptions for event",
			zap.String("organizationID", tenantID),
			zap.String("eventType", event.EventType()))
		return nil
	}

	env, err := NewEnvelope(d.json, tenantID, event, d.clock.Now())
	if err != nil {
		return err
	}

	for _, sub := range subs {
		if err := d.pool.Go(func() {
			d.scheduler.Run(d.ctx, sub, env)
		}); err != nil {
			return fmt.Errorf("failed to queue delivery for subscription %s: %w", sub.ID, err)
		}
	}

	logger.InfoCtx(ctx, "Webhook deliveries queued",
		zap.String("organizationID", tenantID),
		zap.String("eventType", event.EventType()),
		zap.String("envelopeID", env.ID),
		zap.Int("subscriptions", len(subs)))
	return nil
}

func (d *dispatcher) SendTest(ctx context.Context, sub *schema.WebhookSubscription) (Outcome, error) {
	env, err := NewEnvelope(d.json, sub.OrganizationID, NewTestEvent(), d.clock.Now())
	if err != nil {
		return Outcome{}, err
	}
	return d.scheduler.Once(ctx, sub, env, 1)
}

func (d *dispatcher) Replay(ctx context.Context, tenantID string, attemptID uint64) (Outcome, error) {
	attempt, err := d.store.GetDeliveryAttempt(ctx, tenantID, attemptID)
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to load delivery attempt: %w", err)
	}
	if attempt == nil {
		return Outcome{}, ErrAttemptNotFound
	}

	sub, err := d.store.GetSubscription(ctx, tenantID, attempt.SubscriptionID)
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to load subscription: %w", err)
	}
	if sub == nil {
		return Outcome{}, ErrSubscriptionNotFound
	}

	last, err := d.store.GetLastAttemptNumber(ctx, sub.ID, attempt.EnvelopeID)
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to load last attempt number: %w", err)
	}

	// stored jsonb loses the canonical byte layout
	body, err := d.json.MarshalCanonical(json.RawMessage(attempt.Payload))
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to canonicalize stored payload: %w", err)
	}

	env := Envelope{ID: attempt.EnvelopeID, EventType: attempt.EventType, Body: body}
	return d.scheduler.Once(ctx, sub, env, last+1)
}

func (d *dispatcher) Close() {
	d.closeOnce.Do(func() {
		d.cancel()
		d.pool.StopAndWait()
	})
}
