package middleware_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopkit/commerce-gateway/internal/adapter"
	"github.com/shopkit/commerce-gateway/internal/api/middleware"
	"github.com/shopkit/commerce-gateway/internal/api/response"
	"github.com/shopkit/commerce-gateway/internal/auth"
	"github.com/shopkit/commerce-gateway/internal/mocks"
	"github.com/shopkit/commerce-gateway/internal/ratelimit"
	"github.com/shopkit/commerce-gateway/internal/usage"
)

const tenantID = "2f7c1c9e-4f0a-4c43-9d59-3a1b5c7d9e0f"

func init() {
	gin.SetMode(gin.TestMode)
}

type gatewayMocks struct {
	resolver *mocks.MockResolver
	limiter  *mocks.MockLimiter
	recorder *mocks.MockUsageRecorder
}

func newGatewayRouter(t *testing.T) (*gin.Engine, gatewayMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := gatewayMocks{
		resolver: mocks.NewMockResolver(ctrl),
		limiter:  mocks.NewMockLimiter(ctrl),
		recorder: mocks.NewMockUsageRecorder(ctrl),
	}

	router := gin.New()
	api := router.Group("/api/v1", middleware.PublicCORS(), middleware.Gateway(m.resolver, m.limiter, m.recorder, adapter.NewClock()))
	api.OPTIONS("/*path", func(c *gin.Context) {})
	api.GET("/webhooks/:id", func(c *gin.Context) {
		response.OK(c, gin.H{"id": c.Param("id"), "tenant": middleware.TenantID(c)})
	})
	return router, m
}

func assertCORS(t *testing.T, w *httptest.ResponseRecorder) {
	t.Helper()
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, POST, PUT, DELETE, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type, Authorization", w.Header().Get("Access-Control-Allow-Headers"))
}

func TestGateway_Allowed(t *testing.T) {
	router, m := newGatewayRouter(t)

	m.resolver.EXPECT().
		Resolve(gomock.Any(), "Bearer sk_live_abc").
		Return(&auth.Credential{TenantID: tenantID, Plan: "pro", Active: true}, nil)
	m.limiter.EXPECT().
		Check(gomock.Any(), tenantID, "pro").
		Return(ratelimit.Result{Allowed: true, MinuteLimit: 600, MinuteRemaining: 599, DayLimit: 100000, DayRemaining: 99999})
	m.recorder.EXPECT().
		Record(gomock.Any()).
		Do(func(e usage.Entry) {
			assert.Equal(t, tenantID, e.TenantID)
			assert.Equal(t, "/api/v1/webhooks/:id", e.Endpoint)
			assert.Equal(t, http.MethodGet, e.Method)
			assert.Equal(t, http.StatusOK, e.StatusCode)
			assert.Equal(t, "test-agent", e.UserAgent)
			assert.GreaterOrEqual(t, e.ResponseTimeMs, int64(0))
		})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/webhooks/sub_1", nil)
	req.Header.Set("Authorization", "Bearer sk_live_abc")
	req.Header.Set("User-Agent", "test-agent")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assertCORS(t, w)
	assert.Equal(t, "600", w.Header().Get("X-RateLimit-Limit-Minute"))
	assert.Equal(t, "599", w.Header().Get("X-RateLimit-Remaining-Minute"))
	assert.Equal(t, "100000", w.Header().Get("X-RateLimit-Limit-Day"))
	assert.Equal(t, "99999", w.Header().Get("X-RateLimit-Remaining-Day"))
	assert.Empty(t, w.Header().Get("Retry-After"))

	var body struct {
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, tenantID, body.Data["tenant"])
}

func TestGateway_RateLimited(t *testing.T) {
	router, m := newGatewayRouter(t)

	m.resolver.EXPECT().
		Resolve(gomock.Any(), gomock.Any()).
		Return(&auth.Credential{TenantID: tenantID, Plan: "free", Active: true}, nil)
	m.limiter.EXPECT().
		Check(gomock.Any(), tenantID, "free").
		Return(ratelimit.Result{Allowed: false, MinuteLimit: 60, MinuteRemaining: 0, DayLimit: 1000, DayRemaining: 900, RetryAfterSeconds: 60})
	m.recorder.EXPECT().
		Record(gomock.Any()).
		Do(func(e usage.Entry) {
			assert.Equal(t, http.StatusTooManyRequests, e.StatusCode)
		})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/webhooks/sub_1", nil)
	req.Header.Set("Authorization", "Bearer sk_live_abc")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assertCORS(t, w)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining-Minute"))
	assert.Equal(t, "900", w.Header().Get("X-RateLimit-Remaining-Day"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Too Many Requests", body["error"])
	assert.EqualValues(t, 60, body["retryAfter"])
}

func TestGateway_Unauthorized(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		err     error
		message string
	}{
		{"missing", "", auth.ErrMissingHeader, "Missing Authorization header"},
		{"malformed", "Basic abc", auth.ErrMalformedHeader, "Invalid Authorization header format. Expected: Bearer <api_key>"},
		{"invalid", "Bearer nope", auth.ErrInvalidKey, "Invalid API key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, m := newGatewayRouter(t)
			m.resolver.EXPECT().Resolve(gomock.Any(), tt.header).Return(nil, tt.err)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/webhooks/sub_1", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assertCORS(t, w)
			assert.Empty(t, w.Header().Get("X-RateLimit-Limit-Minute"))

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.message, body["error"])
			assert.EqualValues(t, 401, body["status"])
		})
	}
}

func TestGateway_ResolverFailure(t *testing.T) {
	router, m := newGatewayRouter(t)
	m.resolver.EXPECT().Resolve(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection refused"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/webhooks/sub_1", nil)
	req.Header.Set("Authorization", "Bearer sk_live_abc")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assertCORS(t, w)
}

func TestGateway_Preflight(t *testing.T) {
	router, _ := newGatewayRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/webhooks/sub_1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
	assertCORS(t, w)
}

func TestCredentialFrom_Unauthenticated(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, ok := middleware.CredentialFrom(c)
	assert.False(t, ok)
	assert.Empty(t, middleware.TenantID(c))
}
