// Package usage records per-request API usage for tenants.
package usage

import (
	"context"
	"time"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/shopkit/commerce-gateway/internal/logger"
	"github.com/shopkit/commerce-gateway/internal/metrics"
	"github.com/shopkit/commerce-gateway/internal/store"
	"github.com/shopkit/commerce-gateway/internal/store/schema"
)

const writeTimeout = 5 * time.Second

// Entry is one authenticated API request
type Entry struct {
	TenantID       string
	Endpoint       string
	Method         string
	StatusCode     int
	ResponseTimeMs int64
	ClientIP       string
	UserAgent      string
}

// Recorder persists usage entries in the background.
// Record never blocks the request path and never fails it.
//
//go:generate mockgen -source=recorder.go -destination=../mocks/usage.go -package=mocks -mock_names=Recorder=MockUsageRecorder
type Recorder interface {
	Record(entry Entry)
	// Close waits for queued entries to be written
	Close()
}

type recorder struct {
	store   store.Store
	pool    pond.Pool
	metrics *metrics.Metrics
}

// NewRecorder creates a recorder writing with poolSize workers.
// At most queueSize entries wait for a worker; further entries are dropped.
func NewRecorder(s store.Store, m *metrics.Metrics, poolSize, queueSize int) Recorder {
	if poolSize <= 0 {
		poolSize = 1
	}
	return &recorder{
		store:   s,
		metrics: m,
		pool:    pond.NewPool(poolSize, pond.WithQueueSize(queueSize), pond.WithNonBlocking(true)),
	}
}

func (r *recorder) Record(entry Entry) {
	err := r.pool.Go(func() {
		r.write(entry)
	})
	if err != nil {
		r.metrics.UsageDropped()
		logger.Warn("Dropping usage entry",
			zap.Error(err),
			zap.String("organizationID", entry.TenantID),
			zap.String("endpoint", entry.Endpoint))
	}
}

func (r *recorder) write(entry Entry) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	log := &schema.APIUsageLog{
		OrganizationID: entry.TenantID,
		Endpoint:       entry.Endpoint,
		Method:         entry.Method,
		StatusCode:     entry.StatusCode,
		ResponseTimeMs: entry.ResponseTimeMs,
		ClientIP:       optional(entry.ClientIP),
		UserAgent:      optional(entry.UserAgent),
	}
	if err := r.store.CreateUsageLog(ctx, log); err != nil {
		logger.WarnCtx(ctx, "Failed to record API usage",
			zap.Error(err),
			zap.String("organizationID", entry.TenantID),
			zap.String("endpoint", entry.Endpoint))
	}
}

func (r *recorder) Close() {
	r.pool.StopAndWait()
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
