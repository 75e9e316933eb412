package dto

import (
	"encoding/json"
	"time"

	"github.com/shopkit/commerce-gateway/internal/store/schema"
	"github.com/shopkit/commerce-gateway/internal/webhook"
)

// WebhookResponse represents a webhook subscription.
// Secret is only set when a secret is created or rotated.
type WebhookResponse struct {
	ID          string    `json:"id"`
	URL         string    `json:"url"`
	EventTypes  []string  `json:"event_types"`
	IsActive    bool      `json:"is_active"`
	MaxAttempts int       `json:"max_attempts"`
	TimeoutMs   int       `json:"timeout_ms"`
	Secret      string    `json:"secret,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// WebhookListResponse is one page of subscriptions
type WebhookListResponse struct {
	Items []WebhookResponse
	Total int64
}

// DeliveryAttemptResponse represents one recorded delivery attempt
type DeliveryAttemptResponse struct {
	ID            uint64          `json:"id"`
	EnvelopeID    string          `json:"envelope_id"`
	EventType     string          `json:"event_type"`
	AttemptNumber int             `json:"attempt_number"`
	Success       bool            `json:"success"`
	HTTPStatus    *int            `json:"http_status"`
	ResponseBody  *string         `json:"response_body"`
	ErrorMessage  *string         `json:"error_message"`
	DurationMs    int64           `json:"duration_ms"`
	DeliveredAt   *time.Time      `json:"delivered_at"`
	CreatedAt     time.Time       `json:"created_at"`
	Payload       json.RawMessage `json:"payload"`
}

// DeliveryAttemptListResponse is one page of delivery attempts
type DeliveryAttemptListResponse struct {
	Items []DeliveryAttemptResponse
	Total int64
}

// DeliveryOutcomeResponse is the synchronous result of a test or replayed delivery
type DeliveryOutcomeResponse struct {
	Success      bool    `json:"success"`
	HTTPStatus   *int    `json:"http_status"`
	ResponseBody *string `json:"response_body"`
	ErrorMessage *string `json:"error_message"`
	DurationMs   int64   `json:"duration_ms"`
}

// APIKeyResponse represents an API key. Key is only set when the key is issued.
type APIKeyResponse struct {
	ID         uint64     `json:"id"`
	Name       string     `json:"name"`
	KeyPrefix  string     `json:"key_prefix"`
	IsActive   bool       `json:"is_active"`
	Key        string     `json:"key,omitempty"`
	LastUsedAt *time.Time `json:"last_used_at"`
	CreatedAt  time.Time  `json:"created_at"`
}

// MapWebhookToDTO converts a subscription row. Malformed event type JSON maps to an empty list.
func MapWebhookToDTO(sub *schema.WebhookSubscription) WebhookResponse {
	eventTypes := []string{}
	if len(sub.EventTypes) > 0 {
		_ = json.Unmarshal(sub.EventTypes, &eventTypes)
	}
	return WebhookResponse{
		ID:          sub.ID,
		URL:         sub.URL,
		EventTypes:  eventTypes,
		IsActive:    sub.IsActive,
		MaxAttempts: sub.MaxAttempts,
		TimeoutMs:   sub.TimeoutMs,
		CreatedAt:   sub.CreatedAt,
		UpdatedAt:   sub.UpdatedAt,
	}
}

// MapDeliveryAttemptToDTO converts a delivery attempt row
func MapDeliveryAttemptToDTO(a *schema.WebhookDeliveryAttempt) DeliveryAttemptResponse {
	return DeliveryAttemptResponse{
		ID:            a.ID,
		EnvelopeID:    a.EnvelopeID,
		EventType:     a.EventType,
		AttemptNumber: a.AttemptNumber,
		Success:       a.Succeeded(),
		HTTPStatus:    a.HTTPStatus,
		ResponseBody:  a.ResponseBody,
		ErrorMessage:  a.ErrorMessage,
		DurationMs:    a.DurationMs,
		DeliveredAt:   a.DeliveredAt,
		CreatedAt:     a.CreatedAt,
		Payload:       json.RawMessage(a.Payload),
	}
}

// MapOutcomeToDTO converts a delivery outcome
func MapOutcomeToDTO(o webhook.Outcome) DeliveryOutcomeResponse {
	return DeliveryOutcomeResponse{
		Success:      o.Success,
		HTTPStatus:   o.HTTPStatus,
		ResponseBody: o.ResponseExcerpt,
		ErrorMessage: o.ErrorMessage,
		DurationMs:   o.Duration.Milliseconds(),
	}
}

// MapAPIKeyToDTO converts an API key row
func MapAPIKeyToDTO(k *schema.APIKey) APIKeyResponse {
	return APIKeyResponse{
		ID:         k.ID,
		Name:       k.Name,
		KeyPrefix:  k.KeyPrefix,
		IsActive:   k.IsActive,
		LastUsedAt: k.LastUsedAt,
		CreatedAt:  k.CreatedAt,
	}
}
