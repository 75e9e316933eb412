package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/shopkit/commerce-gateway/internal/adapter"
	"github.com/shopkit/commerce-gateway/internal/logger"
	"github.com/shopkit/commerce-gateway/internal/webhook"
)

// Config holds the configuration for the event bridge
type Config struct {
	URL            string
	StreamName     string
	ConsumerName   string
	Subject        string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectionName string
	AckWaitTimeout time.Duration
	MaxDeliver     int
}

// Bridge consumes commerce domain events from JetStream and triggers webhook deliveries
type Bridge interface {
	// Run consumes until ctx is cancelled or the consumer stops
	Run(ctx context.Context) error
	// Close closes the bridge and cleans up resources
	Close()
}

// inboundEvent is the message published by commerce services
type inboundEvent struct {
	OrganizationID string          `json:"organization_id"`
	Event          string          `json:"event"`
	Data           json.RawMessage `json:"data"`
}

type bridge struct {
	nc         adapter.NatsConn
	js         adapter.JetStream
	dispatcher webhook.Dispatcher
	registry   *webhook.Registry
	json       adapter.JSON
	config     Config
}

// NewBridge connects to NATS and creates a new event bridge
func NewBridge(
	cfg Config,
	natsJS adapter.NatsJetStream,
	dispatcher webhook.Dispatcher,
	registry *webhook.Registry,
	jsonAdapter adapter.JSON,
) (Bridge, error) {
	opts := []nats.Option{
		nats.Name(cfg.ConnectionName),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				logger.Warn("Disconnected from NATS", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("Reconnected to NATS", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
	}

	nc, js, err := natsJS.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS and create JetStream: %w", err)
	}

	return &bridge{
		nc:         nc,
		js:         js,
		dispatcher: dispatcher,
		registry:   registry,
		json:       jsonAdapter,
		config:     cfg,
	}, nil
}

// Run ensures the stream and durable consumer exist, then consumes messages
func (b *bridge) Run(ctx context.Context) error {
	logger.InfoCtx(ctx, "Starting event bridge",
		zap.String("stream", b.config.StreamName),
		zap.String("consumer", b.config.ConsumerName),
		zap.String("subject", b.config.Subject),
	)

	if err := b.js.EnsureStream(ctx, jetstream.StreamConfig{
		Name:     b.config.StreamName,
		Subjects: []string{b.config.Subject},
	}); err != nil {
		return fmt.Errorf("failed to create/update stream: %w", err)
	}

	consumer, err := b.js.CreateOrUpdateConsumer(ctx, b.config.StreamName, jetstream.ConsumerConfig{
		Durable:       b.config.ConsumerName,
		AckPolicy:     jetstream.AckExplicitPolicy,
		AckWait:       b.config.AckWaitTimeout,
		MaxDeliver:    b.config.MaxDeliver,
		FilterSubject: b.config.Subject,
	})
	if err != nil {
		return fmt.Errorf("failed to create/update consumer: %w", err)
	}

	cc, err := consumer.Consume(func(msg adapter.Message) {
		b.handleMessage(ctx, msg)
	})
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	logger.InfoCtx(ctx, "Started consuming messages")

	select {
	case <-ctx.Done():
		logger.InfoCtx(ctx, "Shutting down event bridge")
		cc.Drain()
		<-cc.Closed()
		return ctx.Err()
	case <-cc.Closed():
		return errors.New("consumer stopped unexpectedly")
	}
}

// handleMessage triggers the event carried by msg.
// Messages that can never be processed are terminated, dispatch failures are redelivered.
func (b *bridge) handleMessage(ctx context.Context, msg adapter.Message) {
	var deliveries uint64
	if md, err := msg.Metadata(); err == nil && md != nil {
		deliveries = md.NumDelivered
	}

	var in inboundEvent
	if err := b.json.Unmarshal(msg.Data(), &in); err != nil {
		logger.WarnCtx(ctx, "Terminating unparseable event",
			zap.Error(err),
			zap.String("subject", msg.Subject()))
		terminate(ctx, msg)
		return
	}
	if in.OrganizationID == "" || in.Event == "" {
		logger.WarnCtx(ctx, "Terminating event without organization or type",
			zap.String("subject", msg.Subject()),
			zap.String("organization_id", in.OrganizationID),
			zap.String("event", in.Event))
		terminate(ctx, msg)
		return
	}

	event, err := b.registry.Decode(in.Event, in.Data)
	if err != nil {
		logger.WarnCtx(ctx, "Terminating undecodable event",
			zap.Error(err),
			zap.String("organization_id", in.OrganizationID),
			zap.String("event", in.Event))
		terminate(ctx, msg)
		return
	}

	logger.DebugCtx(ctx, "Received event",
		zap.String("organization_id", in.OrganizationID),
		zap.String("event", in.Event),
		zap.Uint64("deliveryCount", deliveries))

	if err := b.dispatcher.Trigger(ctx, in.OrganizationID, event); err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to trigger webhook event: %w", err),
			zap.String("organization_id", in.OrganizationID),
			zap.String("event", in.Event),
			zap.Uint64("deliveryCount", deliveries))
		if err := msg.Nak(); err != nil {
			logger.ErrorCtx(ctx, fmt.Errorf("failed to NAK message: %w", err))
		}
		return
	}

	if err := msg.Ack(); err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to ACK message: %w", err))
	}
}

func terminate(ctx context.Context, msg adapter.Message) {
	if err := msg.Term(); err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to terminate message: %w", err))
	}
}

// Close closes the bridge and cleans up resources
func (b *bridge) Close() {
	if b.nc == nil {
		return
	}

	b.nc.Close()
}
