package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/shopkit/commerce-gateway/internal/api/middleware"
	"github.com/shopkit/commerce-gateway/internal/api/response"
	"github.com/shopkit/commerce-gateway/internal/api/shared/dto"
	apierrors "github.com/shopkit/commerce-gateway/internal/api/shared/errors"
	"github.com/shopkit/commerce-gateway/internal/api/shared/executor"
)

// Handler defines the interface for REST API handlers
type Handler interface {
	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)

	// ListEventTypes lists the event types subscriptions may filter on
	// GET /api/v1/webhooks/event-types
	ListEventTypes(c *gin.Context)

	// CreateWebhook registers a subscription. The response carries the signing secret.
	// POST /api/v1/webhooks
	CreateWebhook(c *gin.Context)

	// ListWebhooks lists subscriptions
	// GET /api/v1/webhooks?page=<page>&limit=<limit>
	ListWebhooks(c *gin.Context)

	// GetWebhook retrieves one subscription
	// GET /api/v1/webhooks/:id
	GetWebhook(c *gin.Context)

	// UpdateWebhook changes url, event types, active flag or delivery limits
	// PUT /api/v1/webhooks/:id
	UpdateWebhook(c *gin.Context)

	// DeleteWebhook removes a subscription
	// DELETE /api/v1/webhooks/:id
	DeleteWebhook(c *gin.Context)

	// RotateWebhookSecret issues a new signing secret
	// POST /api/v1/webhooks/:id/rotate-secret
	RotateWebhookSecret(c *gin.Context)

	// ListDeliveryAttempts lists delivery attempts, newest first
	// GET /api/v1/webhooks/:id/attempts?page=<page>&limit=<limit>
	ListDeliveryAttempts(c *gin.Context)

	// SendTestWebhook sends a test event and returns the outcome
	// POST /api/v1/webhooks/:id/test
	SendTestWebhook(c *gin.Context)

	// ReplayDeliveryAttempt re-sends a recorded attempt's payload
	// POST /api/v1/deliveries/:id/replay
	ReplayDeliveryAttempt(c *gin.Context)

	// CreateAPIKey issues an API key. The raw key is only shown in this response.
	// POST /console/v1/api-keys
	CreateAPIKey(c *gin.Context)

	// ListAPIKeys lists API keys
	// GET /console/v1/api-keys
	ListAPIKeys(c *gin.Context)

	// RevokeAPIKey deactivates an API key
	// DELETE /console/v1/api-keys/:id
	RevokeAPIKey(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	executor executor.Executor
}

// NewHandler creates a new REST API handler using the shared executor
func NewHandler(exec executor.Executor) Handler {
	return &handler{executor: exec}
}

// bindJSON decodes and validates the request body. It writes the error response on failure.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return false
	}
	if err := dto.Validate(req); err != nil {
		response.FromError(c, err)
		return false
	}
	return true
}

func bindPage(c *gin.Context) (dto.PageQuery, bool) {
	var q dto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err.Error())
		return q, false
	}
	q.Normalize()
	if err := dto.Validate(q); err != nil {
		response.FromError(c, err)
		return q, false
	}
	return q, true
}

func idParam(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.FromError(c, apierrors.NewBadRequestError("Invalid id", "id must be a positive integer"))
		return 0, false
	}
	return id, true
}

func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "commerce-gateway",
	})
}

func (h *handler) ListEventTypes(c *gin.Context) {
	response.OK(c, h.executor.ListEventTypes(c.Request.Context()))
}

func (h *handler) CreateWebhook(c *gin.Context) {
	var req dto.CreateWebhookRequest
	if !bindJSON(c, &req) {
		return
	}

	webhook, err := h.executor.CreateWebhook(c.Request.Context(), middleware.TenantID(c), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, webhook, nil)
}

func (h *handler) ListWebhooks(c *gin.Context) {
	page, ok := bindPage(c)
	if !ok {
		return
	}

	list, err := h.executor.ListWebhooks(c.Request.Context(), middleware.TenantID(c), page)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Paginated(c, list.Items, page.Page, page.Limit, list.Total)
}

func (h *handler) GetWebhook(c *gin.Context) {
	webhook, err := h.executor.GetWebhook(c.Request.Context(), middleware.TenantID(c), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, webhook)
}

func (h *handler) UpdateWebhook(c *gin.Context) {
	var req dto.UpdateWebhookRequest
	if !bindJSON(c, &req) {
		return
	}

	webhook, err := h.executor.UpdateWebhook(c.Request.Context(), middleware.TenantID(c), c.Param("id"), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, webhook)
}

func (h *handler) DeleteWebhook(c *gin.Context) {
	if err := h.executor.DeleteWebhook(c.Request.Context(), middleware.TenantID(c), c.Param("id")); err != nil {
		response.FromError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) RotateWebhookSecret(c *gin.Context) {
	webhook, err := h.executor.RotateWebhookSecret(c.Request.Context(), middleware.TenantID(c), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, webhook)
}

func (h *handler) ListDeliveryAttempts(c *gin.Context) {
	page, ok := bindPage(c)
	if !ok {
		return
	}

	list, err := h.executor.ListDeliveryAttempts(c.Request.Context(), middleware.TenantID(c), c.Param("id"), page)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Paginated(c, list.Items, page.Page, page.Limit, list.Total)
}

func (h *handler) SendTestWebhook(c *gin.Context) {
	outcome, err := h.executor.SendTestWebhook(c.Request.Context(), middleware.TenantID(c), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, outcome)
}

func (h *handler) ReplayDeliveryAttempt(c *gin.Context) {
	attemptID, ok := idParam(c)
	if !ok {
		return
	}

	outcome, err := h.executor.ReplayDeliveryAttempt(c.Request.Context(), middleware.TenantID(c), attemptID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, outcome)
}

func (h *handler) CreateAPIKey(c *gin.Context) {
	var req dto.CreateAPIKeyRequest
	if !bindJSON(c, &req) {
		return
	}

	key, err := h.executor.CreateAPIKey(c.Request.Context(), middleware.TenantID(c), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, key, nil)
}

func (h *handler) ListAPIKeys(c *gin.Context) {
	keys, err := h.executor.ListAPIKeys(c.Request.Context(), middleware.TenantID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, keys)
}

func (h *handler) RevokeAPIKey(c *gin.Context) {
	keyID, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.executor.RevokeAPIKey(c.Request.Context(), middleware.TenantID(c), keyID); err != nil {
		response.FromError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
