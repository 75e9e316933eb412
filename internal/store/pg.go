package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/shopkit/commerce-gateway/internal/store/schema"
)

// WildcardEventType subscribes to every event type
const WildcardEventType = "*"

type pgStore struct {
	db *gorm.DB
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// ConfigureConnectionPool configures the pool of the sql.DB behind a gorm connection.
// Zero values fall back to the defaults of NormalizeConnectionPoolSettings.
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime =
		NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// NormalizeConnectionPoolSettings applies defaults and keeps idle connections within the open limit.
//
// Defaults (when zero):
//   - MaxOpenConns: 20
//   - MaxIdleConns: 5
//   - ConnMaxLifetime: 5 minutes
//   - ConnMaxIdleTime: 10 minutes
func NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) (int, int, time.Duration, time.Duration) {
	if maxOpenConns <= 0 {
		maxOpenConns = 20
	}
	if maxIdleConns <= 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime <= 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime <= 0 {
		connMaxIdleTime = 10 * time.Minute
	}
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	return maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime
}

// =============================================================================
// Credentials
// =============================================================================

// GetCredentialByKeyHash resolves an API key hash to its tenant
func (s *pgStore) GetCredentialByKeyHash(ctx context.Context, keyHash string) (*CredentialRecord, error) {
	var record CredentialRecord
	result := s.db.WithContext(ctx).
		Table("api_keys AS k").
		Select("k.organization_id, o.name AS organization_name, o.plan, k.is_active AS active").
		Joins("JOIN organizations o ON o.id = k.organization_id").
		Where("k.key_hash = ?", keyHash).
		Limit(1).
		Scan(&record)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get credential: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &record, nil
}

// CreateAPIKey stores a new API key for a tenant
func (s *pgStore) CreateAPIKey(ctx context.Context, input CreateAPIKeyInput) (*schema.APIKey, error) {
	key := &schema.APIKey{
		OrganizationID: input.OrganizationID,
		KeyHash:        input.KeyHash,
		KeyPrefix:      input.KeyPrefix,
		Name:           input.Name,
		IsActive:       true,
		CreatedAt:      time.Now(),
	}
	if err := s.db.WithContext(ctx).Create(key).Error; err != nil {
		return nil, fmt.Errorf("failed to create api key: %w", err)
	}
	return key, nil
}

// ListAPIKeys lists the API keys of a tenant, newest first
func (s *pgStore) ListAPIKeys(ctx context.Context, organizationID string) ([]*schema.APIKey, error) {
	var keys []*schema.APIKey
	err := s.db.WithContext(ctx).
		Where("organization_id = ?", organizationID).
		Order("created_at DESC, id DESC").
		Find(&keys).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list api keys: %w", err)
	}
	return keys, nil
}

// RevokeAPIKey deactivates an API key owned by the tenant
func (s *pgStore) RevokeAPIKey(ctx context.Context, organizationID string, keyID uint64) (bool, error) {
	result := s.db.WithContext(ctx).
		Model(&schema.APIKey{}).
		Where("id = ? AND organization_id = ?", keyID, organizationID).
		Update("is_active", false)
	if result.Error != nil {
		return false, fmt.Errorf("failed to revoke api key: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// CreateOrganization creates a tenant
func (s *pgStore) CreateOrganization(ctx context.Context, org *schema.Organization) error {
	if org.ID == "" {
		org.ID = uuid.NewString()
	}
	if err := s.db.WithContext(ctx).Create(org).Error; err != nil {
		return fmt.Errorf("failed to create organization: %w", err)
	}
	return nil
}

// =============================================================================
// Webhook subscriptions
// =============================================================================

// GetActiveSubscriptionsForEvent returns the tenant's active subscriptions for an event type
func (s *pgStore) GetActiveSubscriptionsForEvent(ctx context.Context, organizationID string, eventType string) ([]*schema.WebhookSubscription, error) {
	exact, err := json.Marshal([]string{eventType})
	if err != nil {
		return nil, fmt.Errorf("failed to encode event type: %w", err)
	}
	wildcard, _ := json.Marshal([]string{WildcardEventType})

	var subs []*schema.WebhookSubscription
	// jsonb containment matches either the exact event type or the wildcard
	err = s.db.WithContext(ctx).
		Where("organization_id = ? AND is_active", organizationID).
		Where("(event_types @> ?::jsonb OR event_types @> ?::jsonb)", string(exact), string(wildcard)).
		Order("created_at ASC").
		Find(&subs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get subscriptions for event: %w", err)
	}
	return subs, nil
}

// GetSubscription retrieves a subscription owned by the tenant
func (s *pgStore) GetSubscription(ctx context.Context, organizationID string, subscriptionID string) (*schema.WebhookSubscription, error) {
	if _, err := uuid.Parse(subscriptionID); err != nil {
		return nil, nil
	}

	var sub schema.WebhookSubscription
	err := s.db.WithContext(ctx).
		Where("id = ? AND organization_id = ?", subscriptionID, organizationID).
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	return &sub, nil
}

// ListSubscriptions returns a page of the tenant's subscriptions and the total count
func (s *pgStore) ListSubscriptions(ctx context.Context, organizationID string, limit, offset int) ([]*schema.WebhookSubscription, int64, error) {
	query := s.db.WithContext(ctx).
		Model(&schema.WebhookSubscription{}).
		Where("organization_id = ?", organizationID).
		Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count subscriptions: %w", err)
	}

	var subs []*schema.WebhookSubscription
	err := query.
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&subs).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	return subs, total, nil
}

// CreateSubscription registers a subscription
func (s *pgStore) CreateSubscription(ctx context.Context, input CreateSubscriptionInput) (*schema.WebhookSubscription, error) {
	eventTypes, err := json.Marshal(input.EventTypes)
	if err != nil {
		return nil, fmt.Errorf("failed to encode event types: %w", err)
	}

	now := time.Now()
	sub := &schema.WebhookSubscription{
		ID:             uuid.NewString(),
		OrganizationID: input.OrganizationID,
		URL:            input.URL,
		Secret:         input.Secret,
		EventTypes:     datatypes.JSON(eventTypes),
		IsActive:       input.IsActive,
		MaxAttempts:    input.MaxAttempts,
		TimeoutMs:      input.TimeoutMs,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.db.WithContext(ctx).Create(sub).Error; err != nil {
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}
	return sub, nil
}

// UpdateSubscription applies the non-nil fields of input
func (s *pgStore) UpdateSubscription(ctx context.Context, organizationID string, subscriptionID string, input UpdateSubscriptionInput) (*schema.WebhookSubscription, error) {
	if _, err := uuid.Parse(subscriptionID); err != nil {
		return nil, nil
	}

	updates := map[string]interface{}{
		"updated_at": time.Now(),
	}
	if input.URL != nil {
		updates["url"] = *input.URL
	}
	if input.Secret != nil {
		updates["secret"] = *input.Secret
	}
	if input.EventTypes != nil {
		eventTypes, err := json.Marshal(input.EventTypes)
		if err != nil {
			return nil, fmt.Errorf("failed to encode event types: %w", err)
		}
		updates["event_types"] = datatypes.JSON(eventTypes)
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if input.MaxAttempts != nil {
		updates["max_attempts"] = *input.MaxAttempts
	}
	if input.TimeoutMs != nil {
		updates["timeout_ms"] = *input.TimeoutMs
	}

	result := s.db.WithContext(ctx).
		Model(&schema.WebhookSubscription{}).
		Where("id = ? AND organization_id = ?", subscriptionID, organizationID).
		Updates(updates)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update subscription: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}

	return s.GetSubscription(ctx, organizationID, subscriptionID)
}

// DeleteSubscription removes a subscription. Attempts are removed by the foreign key cascade.
func (s *pgStore) DeleteSubscription(ctx context.Context, organizationID string, subscriptionID string) (bool, error) {
	if _, err := uuid.Parse(subscriptionID); err != nil {
		return false, nil
	}

	result := s.db.WithContext(ctx).
		Where("id = ? AND organization_id = ?", subscriptionID, organizationID).
		Delete(&schema.WebhookSubscription{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete subscription: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// =============================================================================
// Delivery attempts
// =============================================================================

// CreateDeliveryAttempt appends a delivery attempt
func (s *pgStore) CreateDeliveryAttempt(ctx context.Context, attempt *schema.WebhookDeliveryAttempt) error {
	if attempt.CreatedAt.IsZero() {
		attempt.CreatedAt = time.Now()
	}
	if err := s.db.WithContext(ctx).Create(attempt).Error; err != nil {
		return fmt.Errorf("failed to create delivery attempt: %w", err)
	}
	return nil
}

// GetDeliveryAttempt retrieves an attempt owned by the tenant
func (s *pgStore) GetDeliveryAttempt(ctx context.Context, organizationID string, attemptID uint64) (*schema.WebhookDeliveryAttempt, error) {
	var attempt schema.WebhookDeliveryAttempt
	err := s.db.WithContext(ctx).
		Where("id = ? AND organization_id = ?", attemptID, organizationID).
		First(&attempt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get delivery attempt: %w", err)
	}
	return &attempt, nil
}

// ListDeliveryAttempts returns a page of a subscription's attempts, newest first
func (s *pgStore) ListDeliveryAttempts(ctx context.Context, organizationID string, subscriptionID string, limit, offset int) ([]*schema.WebhookDeliveryAttempt, int64, error) {
	query := s.db.WithContext(ctx).
		Model(&schema.WebhookDeliveryAttempt{}).
		Where("subscription_id = ? AND organization_id = ?", subscriptionID, organizationID).
		Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count delivery attempts: %w", err)
	}

	var attempts []*schema.WebhookDeliveryAttempt
	err := query.
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&attempts).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list delivery attempts: %w", err)
	}
	return attempts, total, nil
}

// GetLastAttemptNumber returns the highest attempt number recorded for an envelope on a subscription
func (s *pgStore) GetLastAttemptNumber(ctx context.Context, subscriptionID string, envelopeID string) (int, error) {
	var last int
	err := s.db.WithContext(ctx).
		Model(&schema.WebhookDeliveryAttempt{}).
		Where("subscription_id = ? AND envelope_id = ?", subscriptionID, envelopeID).
		Select("COALESCE(MAX(attempt_number), 0)").
		Scan(&last).Error
	if err != nil {
		return 0, fmt.Errorf("failed to get last attempt number: %w", err)
	}
	return last, nil
}

// =============================================================================
// Usage logs
// =============================================================================

// CreateUsageLog appends a usage log entry
func (s *pgStore) CreateUsageLog(ctx context.Context, entry *schema.APIUsageLog) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create usage log: %w", err)
	}
	return nil
}
