package executor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopkit/commerce-gateway/internal/api/shared/dto"
	apierrors "github.com/shopkit/commerce-gateway/internal/api/shared/errors"
	"github.com/shopkit/commerce-gateway/internal/auth"
	"github.com/shopkit/commerce-gateway/internal/store"
	"github.com/shopkit/commerce-gateway/internal/webhook"
)

// Executor is the interface for the API executor
//
//go:generate mockgen -source=executor.go -destination=../../../mocks/api_executor.go -package=mocks -mock_names=Executor=MockAPIExecutor
type Executor interface {
	// ListEventTypes returns the event types a subscription may filter on
	ListEventTypes(ctx context.Context) []string

	// CreateWebhook registers a subscription and returns it with its secret
	CreateWebhook(ctx context.Context, tenantID string, req dto.CreateWebhookRequest) (*dto.WebhookResponse, error)

	// ListWebhooks returns one page of the tenant's subscriptions
	ListWebhooks(ctx context.Context, tenantID string, page dto.PageQuery) (*dto.WebhookListResponse, error)

	// GetWebhook returns a single subscription
	GetWebhook(ctx context.Context, tenantID string, webhookID string) (*dto.WebhookResponse, error)

	// UpdateWebhook applies the non-nil fields of req
	UpdateWebhook(ctx context.Context, tenantID string, webhookID string, req dto.UpdateWebhookRequest) (*dto.WebhookResponse, error)

	// DeleteWebhook removes a subscription and its delivery history
	DeleteWebhook(ctx context.Context, tenantID string, webhookID string) error

	// RotateWebhookSecret replaces the signing secret and returns the new one
	RotateWebhookSecret(ctx context.Context, tenantID string, webhookID string) (*dto.WebhookResponse, error)

	// ListDeliveryAttempts returns one page of a subscription's attempts, newest first
	ListDeliveryAttempts(ctx context.Context, tenantID string, webhookID string, page dto.PageQuery) (*dto.DeliveryAttemptListResponse, error)

	// SendTestWebhook delivers a single test event and waits for the outcome
	SendTestWebhook(ctx context.Context, tenantID string, webhookID string) (*dto.DeliveryOutcomeResponse, error)

	// ReplayDeliveryAttempt re-sends the payload of a recorded attempt once
	ReplayDeliveryAttempt(ctx context.Context, tenantID string, attemptID uint64) (*dto.DeliveryOutcomeResponse, error)

	// CreateAPIKey issues a key. The raw key is only returned here.
	CreateAPIKey(ctx context.Context, tenantID string, req dto.CreateAPIKeyRequest) (*dto.APIKeyResponse, error)

	// ListAPIKeys returns the tenant's keys without their secret part
	ListAPIKeys(ctx context.Context, tenantID string) ([]dto.APIKeyResponse, error)

	// RevokeAPIKey deactivates a key
	RevokeAPIKey(ctx context.Context, tenantID string, keyID uint64) error
}

// WebhookDefaults are applied to subscriptions created without explicit limits
type WebhookDefaults struct {
	MaxAttempts int
	TimeoutMs   int
}

type executor struct {
	store      store.Store
	dispatcher webhook.Dispatcher
	registry   *webhook.Registry
	defaults   WebhookDefaults
}

func NewExecutor(store store.Store, dispatcher webhook.Dispatcher, registry *webhook.Registry, defaults WebhookDefaults) Executor {
	return &executor{store: store, dispatcher: dispatcher, registry: registry, defaults: defaults}
}

func (e *executor) ListEventTypes(ctx context.Context) []string {
	return e.registry.Types()
}

func (e *executor) validateEventTypes(eventTypes []string) error {
	var invalid []string
	for _, t := range eventTypes {
		if !e.registry.Subscribable(t) {
			invalid = append(invalid, t)
		}
	}
	if len(invalid) > 0 {
		return apierrors.NewValidationError(fmt.Sprintf("event_types: unknown event types %s", strings.Join(invalid, ", ")))
	}
	return nil
}

func (e *executor) CreateWebhook(ctx context.Context, tenantID string, req dto.CreateWebhookRequest) (*dto.WebhookResponse, error) {
	if err := e.validateEventTypes(req.EventTypes); err != nil {
		return nil, err
	}

	secret, err := webhook.GenerateSecret()
	if err != nil {
		return nil, apierrors.NewInternalError(fmt.Sprintf("Failed to generate secret: %v", err))
	}

	input := store.CreateSubscriptionInput{
		OrganizationID: tenantID,
		URL:            req.URL,
		Secret:         secret,
		EventTypes:     req.EventTypes,
		IsActive:       true,
		MaxAttempts:    e.defaults.MaxAttempts,
		TimeoutMs:      e.defaults.TimeoutMs,
	}
	if req.IsActive != nil {
		input.IsActive = *req.IsActive
	}
	if req.MaxAttempts != nil {
		input.MaxAttempts = *req.MaxAttempts
	}
	if req.TimeoutMs != nil {
		input.TimeoutMs = *req.TimeoutMs
	}

	sub, err := e.store.CreateSubscription(ctx, input)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to create webhook: %v", err))
	}

	resp := dto.MapWebhookToDTO(sub)
	resp.Secret = sub.Secret
	return &resp, nil
}

func (e *executor) ListWebhooks(ctx context.Context, tenantID string, page dto.PageQuery) (*dto.WebhookListResponse, error) {
	subs, total, err := e.store.ListSubscriptions(ctx, tenantID, page.Limit, page.Offset())
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to list webhooks: %v", err))
	}

	items := make([]dto.WebhookResponse, len(subs))
	for i, sub := range subs {
		items[i] = dto.MapWebhookToDTO(sub)
	}
	return &dto.WebhookListResponse{Items: items, Total: total}, nil
}

func (e *executor) GetWebhook(ctx context.Context, tenantID string, webhookID string) (*dto.WebhookResponse, error) {
	sub, err := e.store.GetSubscription(ctx, tenantID, webhookID)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get webhook: %v", err))
	}
	if sub == nil {
		return nil, apierrors.NewNotFoundError("Webhook not found")
	}

	resp := dto.MapWebhookToDTO(sub)
	return &resp, nil
}

func (e *executor) UpdateWebhook(ctx context.Context, tenantID string, webhookID string, req dto.UpdateWebhookRequest) (*dto.WebhookResponse, error) {
	if req.Empty() {
		return nil, apierrors.NewBadRequestError("No fields to update")
	}
	if req.EventTypes != nil {
		if err := e.validateEventTypes(req.EventTypes); err != nil {
			return nil, err
		}
	}

	sub, err := e.store.UpdateSubscription(ctx, tenantID, webhookID, store.UpdateSubscriptionInput{
		URL:         req.URL,
		EventTypes:  req.EventTypes,
		IsActive:    req.IsActive,
		MaxAttempts: req.MaxAttempts,
		TimeoutMs:   req.TimeoutMs,
	})
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to update webhook: %v", err))
	}
	if sub == nil {
		return nil, apierrors.NewNotFoundError("Webhook not found")
	}

	resp := dto.MapWebhookToDTO(sub)
	return &resp, nil
}

func (e *executor) DeleteWebhook(ctx context.Context, tenantID string, webhookID string) error {
	deleted, err := e.store.DeleteSubscription(ctx, tenantID, webhookID)
	if err != nil {
		return apierrors.NewDatabaseError(fmt.Sprintf("Failed to delete webhook: %v", err))
	}
	if !deleted {
		return apierrors.NewNotFoundError("Webhook not found")
	}
	return nil
}

func (e *executor) RotateWebhookSecret(ctx context.Context, tenantID string, webhookID string) (*dto.WebhookResponse, error) {
	secret, err := webhook.GenerateSecret()
	if err != nil {
		return nil, apierrors.NewInternalError(fmt.Sprintf("Failed to generate secret: %v", err))
	}

	sub, err := e.store.UpdateSubscription(ctx, tenantID, webhookID, store.UpdateSubscriptionInput{Secret: &secret})
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to rotate webhook secret: %v", err))
	}
	if sub == nil {
		return nil, apierrors.NewNotFoundError("Webhook not found")
	}

	resp := dto.MapWebhookToDTO(sub)
	resp.Secret = sub.Secret
	return &resp, nil
}

func (e *executor) ListDeliveryAttempts(ctx context.Context, tenantID string, webhookID string, page dto.PageQuery) (*dto.DeliveryAttemptListResponse, error) {
	sub, err := e.store.GetSubscription(ctx, tenantID, webhookID)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get webhook: %v", err))
	}
	if sub == nil {
		return nil, apierrors.NewNotFoundError("Webhook not found")
	}

	attempts, total, err := e.store.ListDeliveryAttempts(ctx, tenantID, webhookID, page.Limit, page.Offset())
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to list delivery attempts: %v", err))
	}

	items := make([]dto.DeliveryAttemptResponse, len(attempts))
	for i, a := range attempts {
		items[i] = dto.MapDeliveryAttemptToDTO(a)
	}
	return &dto.DeliveryAttemptListResponse{Items: items, Total: total}, nil
}

func (e *executor) SendTestWebhook(ctx context.Context, tenantID string, webhookID string) (*dto.DeliveryOutcomeResponse, error) {
	sub, err := e.store.GetSubscription(ctx, tenantID, webhookID)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get webhook: %v", err))
	}
	if sub == nil {
		return nil, apierrors.NewNotFoundError("Webhook not found")
	}

	outcome, err := e.dispatcher.SendTest(ctx, sub)
	if err != nil {
		return nil, deliveryError(err)
	}

	resp := dto.MapOutcomeToDTO(outcome)
	return &resp, nil
}

func (e *executor) ReplayDeliveryAttempt(ctx context.Context, tenantID string, attemptID uint64) (*dto.DeliveryOutcomeResponse, error) {
	outcome, err := e.dispatcher.Replay(ctx, tenantID, attemptID)
	if err != nil {
		switch {
		case errors.Is(err, webhook.ErrAttemptNotFound):
			return nil, apierrors.NewNotFoundError("Delivery attempt not found")
		case errors.Is(err, webhook.ErrSubscriptionNotFound):
			return nil, apierrors.NewNotFoundError("Webhook not found")
		}
		return nil, deliveryError(err)
	}

	resp := dto.MapOutcomeToDTO(outcome)
	return &resp, nil
}

func deliveryError(err error) error {
	if errors.Is(err, webhook.ErrAttemptCancelled) {
		return apierrors.NewInternalError("Delivery was interrupted", err.Error())
	}
	return apierrors.NewInternalError(fmt.Sprintf("Failed to deliver webhook: %v", err))
}

func (e *executor) CreateAPIKey(ctx context.Context, tenantID string, req dto.CreateAPIKeyRequest) (*dto.APIKeyResponse, error) {
	raw, hash, prefix, err := auth.GenerateAPIKey()
	if err != nil {
		return nil, apierrors.NewInternalError(fmt.Sprintf("Failed to generate API key: %v", err))
	}

	key, err := e.store.CreateAPIKey(ctx, store.CreateAPIKeyInput{
		OrganizationID: tenantID,
		KeyHash:        hash,
		KeyPrefix:      prefix,
		Name:           req.Name,
	})
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to create API key: %v", err))
	}

	resp := dto.MapAPIKeyToDTO(key)
	resp.Key = raw
	return &resp, nil
}

func (e *executor) ListAPIKeys(ctx context.Context, tenantID string) ([]dto.APIKeyResponse, error) {
	keys, err := e.store.ListAPIKeys(ctx, tenantID)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to list API keys: %v", err))
	}

	items := make([]dto.APIKeyResponse, len(keys))
	for i, k := range keys {
		items[i] = dto.MapAPIKeyToDTO(k)
	}
	return items, nil
}

func (e *executor) RevokeAPIKey(ctx context.Context, tenantID string, keyID uint64) error {
	revoked, err := e.store.RevokeAPIKey(ctx, tenantID, keyID)
	if err != nil {
		return apierrors.NewDatabaseError(fmt.Sprintf("Failed to revoke API key: %v", err))
	}
	if !revoked {
		return apierrors.NewNotFoundError("API key not found")
	}
	return nil
}
