package dto

import (
	"github.com/shopkit/commerce-gateway/internal/api/shared/constants"
)

// CreateWebhookRequest represents the request body for creating a webhook subscription
type CreateWebhookRequest struct {
	URL         string   `json:"url" validate:"required,webhook_url,max=2048"`
	EventTypes  []string `json:"event_types" validate:"required,min=1,dive,required"`
	IsActive    *bool    `json:"is_active,omitempty"`
	MaxAttempts *int     `json:"max_attempts,omitempty" validate:"omitempty,min=1,max=10"`
	TimeoutMs   *int     `json:"timeout_ms,omitempty" validate:"omitempty,min=1000,max=60000"`
}

// UpdateWebhookRequest represents the request body for updating a webhook subscription.
// Absent fields are left unchanged.
type UpdateWebhookRequest struct {
	URL         *string  `json:"url,omitempty" validate:"omitempty,webhook_url,max=2048"`
	EventTypes  []string `json:"event_types,omitempty" validate:"omitempty,min=1,dive,required"`
	IsActive    *bool    `json:"is_active,omitempty"`
	MaxAttempts *int     `json:"max_attempts,omitempty" validate:"omitempty,min=1,max=10"`
	TimeoutMs   *int     `json:"timeout_ms,omitempty" validate:"omitempty,min=1000,max=60000"`
}

// Empty reports whether the update changes nothing
func (r *UpdateWebhookRequest) Empty() bool {
	return r.URL == nil && r.EventTypes == nil && r.IsActive == nil && r.MaxAttempts == nil && r.TimeoutMs == nil
}

// CreateAPIKeyRequest represents the request body for issuing an API key
type CreateAPIKeyRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// PageQuery holds pagination query parameters
type PageQuery struct {
	Page  int `form:"page" validate:"min=1"`
	Limit int `form:"limit" validate:"min=1,max=100"`
}

// Normalize fills in defaults for absent parameters
func (q *PageQuery) Normalize() {
	if q.Page == 0 {
		q.Page = constants.DEFAULT_PAGE
	}
	if q.Limit == 0 {
		q.Limit = constants.DEFAULT_PAGE_LIMIT
	}
}

// Offset is the number of rows before the page
func (q PageQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}
