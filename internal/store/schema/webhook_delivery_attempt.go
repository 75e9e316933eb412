package schema

import (
	"time"

	"gorm.io/datatypes"
)

// WebhookDeliveryAttempt represents the webhook_delivery_attempts table - one row per HTTP attempt.
// Rows are append-only.
type WebhookDeliveryAttempt struct {
	// ID is an auto-incrementing sequence number
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// SubscriptionID is the subscription the attempt was made for
	SubscriptionID string `gorm:"column:subscription_id;not null;type:uuid"`
	// OrganizationID is the tenant that owns the subscription
	OrganizationID string `gorm:"column:organization_id;not null;type:uuid"`
	// EnvelopeID is the envelope id shared by every attempt of the same event
	EnvelopeID string `gorm:"column:envelope_id;not null;type:varchar(64)"`
	// EventType is the envelope event type
	EventType string `gorm:"column:event_type;not null;type:varchar(64)"`
	// Payload is the exact request body that was signed and sent
	Payload datatypes.JSON `gorm:"column:payload;not null;type:jsonb"`
	// AttemptNumber starts at 1
	AttemptNumber int `gorm:"column:attempt_number;not null"`
	// HTTPStatus is absent when no response was received
	HTTPStatus *int `gorm:"column:http_status"`
	// ResponseBody is the first 1000 characters of the response body
	ResponseBody *string `gorm:"column:response_body;type:text"`
	// DeliveredAt is set only for 2xx responses
	DeliveredAt *time.Time `gorm:"column:delivered_at;type:timestamptz"`
	// ErrorMessage describes transport failures, timeouts and non-2xx statuses
	ErrorMessage *string `gorm:"column:error_message;type:text"`
	// DurationMs is the wall time of the attempt
	DurationMs int64 `gorm:"column:duration_ms;not null"`
	// CreatedAt is the timestamp when the attempt was recorded
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the WebhookDeliveryAttempt model
func (WebhookDeliveryAttempt) TableName() string {
	return "webhook_delivery_attempts"
}

// Succeeded reports whether the attempt received a 2xx response
func (a *WebhookDeliveryAttempt) Succeeded() bool {
	return a.DeliveredAt != nil
}
