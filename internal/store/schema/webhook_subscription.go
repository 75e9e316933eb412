package schema

import (
	"time"

	"gorm.io/datatypes"
)

// WebhookSubscription represents the webhook_subscriptions table - tenant endpoints registered for events
type WebhookSubscription struct {
	// ID is the subscription identifier (UUID)
	ID string `gorm:"column:id;primaryKey;type:uuid"`
	// OrganizationID is the tenant that owns the subscription
	OrganizationID string `gorm:"column:organization_id;not null;type:uuid"`
	// URL is the endpoint that receives deliveries
	URL string `gorm:"column:url;not null;type:text"`
	// Secret is the HMAC-SHA256 signing secret ("whsec_" + 64 hex chars)
	Secret string `gorm:"column:secret;not null;type:text"`
	// EventTypes is a JSON array of subscribed event types, e.g. ["order.paid"] or ["*"]
	EventTypes datatypes.JSON `gorm:"column:event_types;not null;type:jsonb"`
	// IsActive indicates whether the subscription receives deliveries
	IsActive bool `gorm:"column:is_active;not null"`
	// MaxAttempts is the total number of delivery attempts per event
	MaxAttempts int `gorm:"column:max_attempts;not null;default:3"`
	// TimeoutMs is the per-attempt deadline in milliseconds
	TimeoutMs int `gorm:"column:timeout_ms;not null;default:30000"`
	// CreatedAt is the timestamp when the subscription was registered
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp when the subscription was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the WebhookSubscription model
func (WebhookSubscription) TableName() string {
	return "webhook_subscriptions"
}
