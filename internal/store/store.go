package store

import (
	"context"

	"github.com/shopkit/commerce-gateway/internal/store/schema"
)

// Store defines the interface for database operations
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore
type Store interface {
	// GetCredentialByKeyHash resolves an API key hash to its tenant. Returns nil if no key matches.
	GetCredentialByKeyHash(ctx context.Context, keyHash string) (*CredentialRecord, error)
	// CreateAPIKey stores a new API key for a tenant
	CreateAPIKey(ctx context.Context, input CreateAPIKeyInput) (*schema.APIKey, error)
	// ListAPIKeys lists the API keys of a tenant, newest first
	ListAPIKeys(ctx context.Context, organizationID string) ([]*schema.APIKey, error)
	// RevokeAPIKey deactivates an API key. Returns false if the key does not belong to the tenant.
	RevokeAPIKey(ctx context.Context, organizationID string, keyID uint64) (bool, error)
	// CreateOrganization creates a tenant
	CreateOrganization(ctx context.Context, org *schema.Organization) error

	// GetActiveSubscriptionsForEvent returns the tenant's active subscriptions listening to eventType or "*"
	GetActiveSubscriptionsForEvent(ctx context.Context, organizationID string, eventType string) ([]*schema.WebhookSubscription, error)
	// GetSubscription retrieves a subscription owned by the tenant. Returns nil if not found.
	GetSubscription(ctx context.Context, organizationID string, subscriptionID string) (*schema.WebhookSubscription, error)
	// ListSubscriptions returns a page of the tenant's subscriptions and the total count
	ListSubscriptions(ctx context.Context, organizationID string, limit, offset int) ([]*schema.WebhookSubscription, int64, error)
	// CreateSubscription registers a subscription
	CreateSubscription(ctx context.Context, input CreateSubscriptionInput) (*schema.WebhookSubscription, error)
	// UpdateSubscription applies the non-nil fields of input. Returns nil if not found.
	UpdateSubscription(ctx context.Context, organizationID string, subscriptionID string, input UpdateSubscriptionInput) (*schema.WebhookSubscription, error)
	// DeleteSubscription removes a subscription and its attempts. Returns false if not found.
	DeleteSubscription(ctx context.Context, organizationID string, subscriptionID string) (bool, error)

	// CreateDeliveryAttempt appends a delivery attempt
	CreateDeliveryAttempt(ctx context.Context, attempt *schema.WebhookDeliveryAttempt) error
	// GetDeliveryAttempt retrieves an attempt owned by the tenant. Returns nil if not found.
	GetDeliveryAttempt(ctx context.Context, organizationID string, attemptID uint64) (*schema.WebhookDeliveryAttempt, error)
	// ListDeliveryAttempts returns a page of a subscription's attempts, newest first, and the total count
	ListDeliveryAttempts(ctx context.Context, organizationID string, subscriptionID string, limit, offset int) ([]*schema.WebhookDeliveryAttempt, int64, error)
	// GetLastAttemptNumber returns the highest attempt number recorded for an envelope on a subscription, or 0
	GetLastAttemptNumber(ctx context.Context, subscriptionID string, envelopeID string) (int, error)

	// CreateUsageLog appends a usage log entry
	CreateUsageLog(ctx context.Context, entry *schema.APIUsageLog) error
}

// CredentialRecord is the tenant identity an API key resolves to
type CredentialRecord struct {
	OrganizationID   string `gorm:"column:organization_id"`
	OrganizationName string `gorm:"column:organization_name"`
	Plan             string `gorm:"column:plan"`
	Active           bool   `gorm:"column:active"`
}

// CreateAPIKeyInput represents the data needed to store an API key
type CreateAPIKeyInput struct {
	OrganizationID string
	KeyHash        string
	KeyPrefix      string
	Name           string
}

// CreateSubscriptionInput represents the data needed to register a webhook subscription
type CreateSubscriptionInput struct {
	OrganizationID string
	URL            string
	Secret         string
	EventTypes     []string
	IsActive       bool
	MaxAttempts    int
	TimeoutMs      int
}

// UpdateSubscriptionInput holds optional changes to a subscription. Nil fields are left untouched.
type UpdateSubscriptionInput struct {
	URL         *string
	Secret      *string
	EventTypes  []string
	IsActive    *bool
	MaxAttempts *int
	TimeoutMs   *int
}
