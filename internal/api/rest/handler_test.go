package rest_test

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/golang/mock/gomock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopkit/commerce-gateway/internal/adapter"
	"github.com/shopkit/commerce-gateway/internal/api/rest"
	"github.com/shopkit/commerce-gateway/internal/api/shared/dto"
	apierrors "github.com/shopkit/commerce-gateway/internal/api/shared/errors"
	"github.com/shopkit/commerce-gateway/internal/auth"
	"github.com/shopkit/commerce-gateway/internal/metrics"
	"github.com/shopkit/commerce-gateway/internal/mocks"
	"github.com/shopkit/commerce-gateway/internal/ratelimit"
)

const (
	tenantID  = "5d3c2b1a-9e8f-4a7b-b6c5-d4e3f2a1b0c9"
	webhookID = "0f1e2d3c-4b5a-4697-8877-665544332211"
	apiKey    = "Bearer sk_live_0123456789abcdef"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router     *gin.Engine
	executor   *mocks.MockAPIExecutor
	consoleKey *rsa.PrivateKey
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctrl := gomock.NewController(t)

	resolver := mocks.NewMockResolver(ctrl)
	resolver.EXPECT().Resolve(gomock.Any(), apiKey).
		Return(&auth.Credential{TenantID: tenantID, Plan: "pro", Active: true}, nil).AnyTimes()
	resolver.EXPECT().Resolve(gomock.Any(), gomock.Not(apiKey)).
		Return(nil, auth.ErrMissingHeader).AnyTimes()
	limiter := mocks.NewMockLimiter(ctrl)
	limiter.EXPECT().Check(gomock.Any(), tenantID, "pro").
		Return(ratelimit.Result{Allowed: true, MinuteLimit: 600, MinuteRemaining: 599, DayLimit: 100000, DayRemaining: 99999}).AnyTimes()
	recorder := mocks.NewMockUsageRecorder(ctrl)
	recorder.EXPECT().Record(gomock.Any()).AnyTimes()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	verifier, err := auth.NewConsoleVerifier(string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})))
	require.NoError(t, err)

	exec := mocks.NewMockAPIExecutor(ctrl)
	router := gin.New()
	rest.SetupRoutes(router, rest.NewHandler(exec), rest.RouteConfig{
		Resolver:        resolver,
		Limiter:         limiter,
		Usage:           recorder,
		Clock:           adapter.NewClock(),
		Metrics:         metrics.New(prometheus.NewRegistry()),
		ConsoleVerifier: verifier,
		ConsoleOrigins:  []string{"https://console.example.com"},
	})

	return &testServer{router: router, executor: exec, consoleKey: key}
}

func (s *testServer) consoleToken(t *testing.T) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, auth.ConsoleClaims{
		OrganizationID: tenantID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(s.consoleKey)
	require.NoError(t, err)
	return "Bearer " + token
}

func (s *testServer) do(method, path, authHeader string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Data json.RawMessage        `json:"data"`
	Meta map[string]interface{} `json:"meta"`
}

type errorEnvelope struct {
	Error   string `json:"error"`
	Details string `json:"details"`
	Status  int    `json:"status"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","service":"commerce-gateway"}`, w.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodGet, "/metrics", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "commerce_gateway_usage_entries_dropped_total")
}

func TestListEventTypes(t *testing.T) {
	s := newTestServer(t)
	s.executor.EXPECT().ListEventTypes(gomock.Any()).Return([]string{"order.created", "order.paid"})

	w := s.do(http.MethodGet, "/api/v1/webhooks/event-types", apiKey, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body envelope
	decode(t, w, &body)
	assert.JSONEq(t, `["order.created","order.paid"]`, string(body.Data))
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{3}Z$`, body.Meta["timestamp"])
}

func TestCreateWebhook(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		s := newTestServer(t)
		s.executor.EXPECT().
			CreateWebhook(gomock.Any(), tenantID, dto.CreateWebhookRequest{
				URL:        "https://hooks.example.com/orders",
				EventTypes: []string{"order.paid"},
			}).
			Return(&dto.WebhookResponse{ID: webhookID, Secret: "whsec_abc"}, nil)

		w := s.do(http.MethodPost, "/api/v1/webhooks", apiKey, map[string]interface{}{
			"url":         "https://hooks.example.com/orders",
			"event_types": []string{"order.paid"},
		})
		require.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "599", w.Header().Get("X-RateLimit-Remaining-Minute"))

		var body envelope
		decode(t, w, &body)
		var resp dto.WebhookResponse
		require.NoError(t, json.Unmarshal(body.Data, &resp))
		assert.Equal(t, webhookID, resp.ID)
		assert.Equal(t, "whsec_abc", resp.Secret)
	})

	t.Run("malformed body", func(t *testing.T) {
		s := newTestServer(t)
		w := s.do(http.MethodPost, "/api/v1/webhooks", apiKey, `{"url":`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var body errorEnvelope
		decode(t, w, &body)
		assert.Equal(t, "Invalid request body", body.Error)
		assert.Equal(t, http.StatusBadRequest, body.Status)
	})

	t.Run("validation failure", func(t *testing.T) {
		s := newTestServer(t)
		w := s.do(http.MethodPost, "/api/v1/webhooks", apiKey, map[string]interface{}{
			"url":         "ftp://hooks.example.com",
			"event_types": []string{},
			"timeout_ms":  10,
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var body errorEnvelope
		decode(t, w, &body)
		assert.Equal(t, "Validation failed", body.Error)
		assert.Contains(t, body.Details, "url must be an absolute http(s) URL")
		assert.Contains(t, body.Details, "event_types must contain at least 1 item(s)")
		assert.Contains(t, body.Details, "timeout_ms must be at least 1000")
	})

	t.Run("unauthenticated", func(t *testing.T) {
		s := newTestServer(t)
		w := s.do(http.MethodPost, "/api/v1/webhooks", "", map[string]interface{}{})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestListWebhooks(t *testing.T) {
	t.Run("paginated", func(t *testing.T) {
		s := newTestServer(t)
		s.executor.EXPECT().
			ListWebhooks(gomock.Any(), tenantID, dto.PageQuery{Page: 2, Limit: 5}).
			Return(&dto.WebhookListResponse{Items: []dto.WebhookResponse{{ID: webhookID}}, Total: 12}, nil)

		w := s.do(http.MethodGet, "/api/v1/webhooks?page=2&limit=5", apiKey, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Data []dto.WebhookResponse `json:"data"`
			Meta struct {
				Pagination struct {
					Page       int  `json:"page"`
					Limit      int  `json:"limit"`
					Total      int  `json:"total"`
					TotalPages int  `json:"totalPages"`
					HasMore    bool `json:"hasMore"`
				} `json:"pagination"`
			} `json:"meta"`
		}
		decode(t, w, &body)
		assert.Len(t, body.Data, 1)
		assert.Equal(t, 2, body.Meta.Pagination.Page)
		assert.Equal(t, 5, body.Meta.Pagination.Limit)
		assert.Equal(t, 12, body.Meta.Pagination.Total)
		assert.Equal(t, 3, body.Meta.Pagination.TotalPages)
		assert.True(t, body.Meta.Pagination.HasMore)
	})

	t.Run("defaults", func(t *testing.T) {
		s := newTestServer(t)
		s.executor.EXPECT().
			ListWebhooks(gomock.Any(), tenantID, dto.PageQuery{Page: 1, Limit: 20}).
			Return(&dto.WebhookListResponse{Items: []dto.WebhookResponse{}}, nil)

		w := s.do(http.MethodGet, "/api/v1/webhooks", apiKey, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("limit too large", func(t *testing.T) {
		s := newTestServer(t)
		w := s.do(http.MethodGet, "/api/v1/webhooks?limit=500", apiKey, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var body errorEnvelope
		decode(t, w, &body)
		assert.Equal(t, "limit must be at most 100", body.Details)
	})

	t.Run("non numeric page", func(t *testing.T) {
		s := newTestServer(t)
		w := s.do(http.MethodGet, "/api/v1/webhooks?page=two", apiKey, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetWebhook_NotFound(t *testing.T) {
	s := newTestServer(t)
	s.executor.EXPECT().GetWebhook(gomock.Any(), tenantID, webhookID).Return(nil, apierrors.NewNotFoundError("Webhook not found"))

	w := s.do(http.MethodGet, "/api/v1/webhooks/"+webhookID, apiKey, nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	var body errorEnvelope
	decode(t, w, &body)
	assert.Equal(t, "Webhook not found", body.Error)
	assert.Equal(t, http.StatusNotFound, body.Status)
}

func TestUpdateWebhook(t *testing.T) {
	s := newTestServer(t)
	active := false
	s.executor.EXPECT().
		UpdateWebhook(gomock.Any(), tenantID, webhookID, dto.UpdateWebhookRequest{IsActive: &active}).
		Return(&dto.WebhookResponse{ID: webhookID}, nil)

	w := s.do(http.MethodPut, "/api/v1/webhooks/"+webhookID, apiKey, map[string]interface{}{"is_active": false})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDeleteWebhook(t *testing.T) {
	s := newTestServer(t)
	s.executor.EXPECT().DeleteWebhook(gomock.Any(), tenantID, webhookID).Return(nil)

	w := s.do(http.MethodDelete, "/api/v1/webhooks/"+webhookID, apiKey, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestSendTestWebhook(t *testing.T) {
	s := newTestServer(t)
	status := 200
	s.executor.EXPECT().
		SendTestWebhook(gomock.Any(), tenantID, webhookID).
		Return(&dto.DeliveryOutcomeResponse{Success: true, HTTPStatus: &status, DurationMs: 15}, nil)

	w := s.do(http.MethodPost, "/api/v1/webhooks/"+webhookID+"/test", apiKey, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body envelope
	decode(t, w, &body)
	assert.JSONEq(t, `{"success":true,"http_status":200,"response_body":null,"error_message":null,"duration_ms":15}`, string(body.Data))
}

func TestReplayDeliveryAttempt(t *testing.T) {
	t.Run("replayed", func(t *testing.T) {
		s := newTestServer(t)
		s.executor.EXPECT().
			ReplayDeliveryAttempt(gomock.Any(), tenantID, uint64(31)).
			Return(&dto.DeliveryOutcomeResponse{Success: true}, nil)

		w := s.do(http.MethodPost, "/api/v1/deliveries/31/replay", apiKey, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		s := newTestServer(t)
		w := s.do(http.MethodPost, "/api/v1/deliveries/abc/replay", apiKey, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPublicPreflight(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodOptions, "/api/v1/webhooks", "", nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestConsoleAPIKeys(t *testing.T) {
	t.Run("create", func(t *testing.T) {
		s := newTestServer(t)
		s.executor.EXPECT().
			CreateAPIKey(gomock.Any(), tenantID, dto.CreateAPIKeyRequest{Name: "backend"}).
			Return(&dto.APIKeyResponse{ID: 4, Name: "backend", KeyPrefix: "sk_live_0123", Key: "sk_live_0123456789"}, nil)

		w := s.do(http.MethodPost, "/console/v1/api-keys", s.consoleToken(t), map[string]string{"name": "backend"})
		require.Equal(t, http.StatusCreated, w.Code)

		var body envelope
		decode(t, w, &body)
		var resp dto.APIKeyResponse
		require.NoError(t, json.Unmarshal(body.Data, &resp))
		assert.Equal(t, "sk_live_0123456789", resp.Key)
	})

	t.Run("revoke", func(t *testing.T) {
		s := newTestServer(t)
		s.executor.EXPECT().RevokeAPIKey(gomock.Any(), tenantID, uint64(4)).Return(nil)

		w := s.do(http.MethodDelete, "/console/v1/api-keys/4", s.consoleToken(t), nil)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("api keys are not console tokens", func(t *testing.T) {
		s := newTestServer(t)
		w := s.do(http.MethodGet, "/console/v1/api-keys", apiKey, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("webhooks are served under the console", func(t *testing.T) {
		s := newTestServer(t)
		s.executor.EXPECT().GetWebhook(gomock.Any(), tenantID, webhookID).Return(&dto.WebhookResponse{ID: webhookID}, nil)

		w := s.do(http.MethodGet, "/console/v1/webhooks/"+webhookID, s.consoleToken(t), nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("api keys are not exposed to the public API", func(t *testing.T) {
		s := newTestServer(t)
		w := s.do(http.MethodGet, "/api/v1/api-keys", apiKey, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
