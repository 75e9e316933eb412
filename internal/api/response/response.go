// Package response renders the JSON envelopes shared by every API endpoint.
package response

import (
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apierrors "github.com/shopkit/commerce-gateway/internal/api/shared/errors"
	"github.com/shopkit/commerce-gateway/internal/auth"
	"github.com/shopkit/commerce-gateway/internal/logger"
	"github.com/shopkit/commerce-gateway/internal/ratelimit"
)

// TimestampLayout is ISO-8601 UTC with millisecond precision
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// now is replaced in tests
var now = time.Now

// Timestamp formats t with TimestampLayout
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// Pagination describes one page of a list
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasMore    bool  `json:"hasMore"`
}

// NewPagination computes page metadata. page is 1-based.
func NewPagination(page, limit int, total int64) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(limit)))
	}
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasMore:    page < totalPages,
	}
}

type successBody struct {
	Data interface{}            `json:"data"`
	Meta map[string]interface{} `json:"meta"`
}

type errorBody struct {
	Error     string `json:"error"`
	Details   string `json:"details,omitempty"`
	Status    int    `json:"status"`
	Timestamp string `json:"timestamp"`
}

type quota struct {
	Limit     int `json:"limit"`
	Remaining int `json:"remaining"`
}

type rateLimitBody struct {
	Error  string `json:"error"`
	Msg    string `json:"message"`
	Status int    `json:"status"`
	Limits struct {
		Minute quota `json:"minute"`
		Day    quota `json:"day"`
	} `json:"limits"`
	RetryAfter int    `json:"retryAfter"`
	Timestamp  string `json:"timestamp"`
}

// Success writes {data, meta:{...meta, timestamp}}
func Success(c *gin.Context, status int, data interface{}, meta map[string]interface{}) {
	m := make(map[string]interface{}, len(meta)+1)
	for k, v := range meta {
		m[k] = v
	}
	m["timestamp"] = Timestamp(now())

	c.JSON(status, successBody{Data: data, Meta: m})
}

// OK writes a 200 success envelope without caller meta
func OK(c *gin.Context, data interface{}) {
	Success(c, http.StatusOK, data, nil)
}

// Paginated writes {data:[...], meta:{pagination, timestamp}}
func Paginated(c *gin.Context, data interface{}, page, limit int, total int64) {
	Success(c, http.StatusOK, data, map[string]interface{}{
		"pagination": NewPagination(page, limit, total),
	})
}

// Error writes {error, status, timestamp}
func Error(c *gin.Context, status int, message string, details ...string) {
	body := errorBody{
		Error:     message,
		Status:    status,
		Timestamp: Timestamp(now()),
	}
	if len(details) > 0 {
		body.Details = details[0]
	}
	c.AbortWithStatusJSON(status, body)
}

// RateLimited writes the 429 body carrying the caller's quota state
func RateLimited(c *gin.Context, result ratelimit.Result) {
	body := rateLimitBody{
		Error:      "Too Many Requests",
		Msg:        "API rate limit exceeded. Please try again later.",
		Status:     http.StatusTooManyRequests,
		RetryAfter: result.RetryAfterSeconds,
		Timestamp:  Timestamp(now()),
	}
	body.Limits.Minute = quota{Limit: result.MinuteLimit, Remaining: result.MinuteRemaining}
	body.Limits.Day = quota{Limit: result.DayLimit, Remaining: result.DayRemaining}

	c.AbortWithStatusJSON(http.StatusTooManyRequests, body)
}

// FromError maps err to its error envelope. Server-side failures are logged.
func FromError(c *gin.Context, err error) {
	ctx := c.Request.Context()

	var authErr *auth.Error
	var cfgErr *apierrors.ConfigurationError
	var apiErr *apierrors.APIError

	switch {
	case errors.As(err, &authErr):
		Error(c, http.StatusUnauthorized, authErr.Error())
	case errors.As(err, &cfgErr):
		logger.ErrorCtx(ctx, err, zap.String("path", c.Request.URL.Path))
		Error(c, http.StatusInternalServerError, cfgErr.APIError().Message)
	case errors.As(err, &apiErr):
		if apiErr.Status() >= http.StatusInternalServerError {
			logger.ErrorCtx(ctx, err, zap.String("path", c.Request.URL.Path))
			Error(c, apiErr.Status(), apiErr.Message)
			return
		}
		Error(c, apiErr.Status(), apiErr.Message, apiErr.Details)
	default:
		logger.ErrorCtx(ctx, err, zap.String("path", c.Request.URL.Path))
		Error(c, http.StatusInternalServerError, "Internal Server Error")
	}
}
