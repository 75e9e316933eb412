package webhook

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/shopkit/commerce-gateway/internal/logger"
	"github.com/shopkit/commerce-gateway/internal/metrics"
	"github.com/shopkit/commerce-gateway/internal/store"
	"github.com/shopkit/commerce-gateway/internal/store/schema"
)

// Recorder persists delivery attempts. Failures are logged, never returned.
//
//go:generate mockgen -source=recorder.go -destination=../mocks/recorder.go -package=mocks -mock_names=Recorder=MockRecorder
type Recorder interface {
	Record(ctx context.Context, attempt *schema.WebhookDeliveryAttempt)
}

type storeRecorder struct {
	store   store.Store
	metrics *metrics.Metrics
}

// NewRecorder creates a recorder backed by the store
func NewRecorder(s store.Store, m *metrics.Metrics) Recorder {
	return &storeRecorder{store: s, metrics: m}
}

func (r *storeRecorder) Record(ctx context.Context, attempt *schema.WebhookDeliveryAttempt) {
	r.metrics.ObserveDelivery(attempt.EventType, attempt.Succeeded(), time.Duration(attempt.DurationMs)*time.Millisecond)

	if err := r.store.CreateDeliveryAttempt(ctx, attempt); err != nil {
		logger.WarnCtx(ctx, "Failed to record webhook delivery attempt",
			zap.Error(err),
			zap.String("subscriptionID", attempt.SubscriptionID),
			zap.String("envelopeID", attempt.EnvelopeID),
			zap.Int("attempt", attempt.AttemptNumber))
	}
}
