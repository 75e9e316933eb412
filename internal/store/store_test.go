package store

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/shopkit/commerce-gateway/internal/store/schema"
)

// RunStoreTests runs the behavioural suite against a Store implementation.
// initDB must return an isolated store for each subtest.
func RunStoreTests(t *testing.T, initDB func(t *testing.T) Store) {
	t.Run("Credentials", func(t *testing.T) { testCredentials(t, initDB(t)) })
	t.Run("SubscriptionsForEvent", func(t *testing.T) { testSubscriptionsForEvent(t, initDB(t)) })
	t.Run("SubscriptionCRUD", func(t *testing.T) { testSubscriptionCRUD(t, initDB(t)) })
	t.Run("DeliveryAttempts", func(t *testing.T) { testDeliveryAttempts(t, initDB(t)) })
	t.Run("UsageLogs", func(t *testing.T) { testUsageLogs(t, initDB(t)) })
}

func createTestOrganization(t *testing.T, s Store, plan string) *schema.Organization {
	t.Helper()
	org := &schema.Organization{Name: "Shop " + plan, Plan: plan}
	require.NoError(t, s.CreateOrganization(context.Background(), org))
	require.NotEmpty(t, org.ID)
	return org
}

func createTestSubscription(t *testing.T, s Store, orgID string, active bool, eventTypes ...string) *schema.WebhookSubscription {
	t.Helper()
	sub, err := s.CreateSubscription(context.Background(), CreateSubscriptionInput{
		OrganizationID: orgID,
		URL:            "https://hooks.example.com/" + orgID,
		Secret:         "whsec_" + fmt.Sprintf("%064d", 1),
		EventTypes:     eventTypes,
		IsActive:       active,
		MaxAttempts:    3,
		TimeoutMs:      30000,
	})
	require.NoError(t, err)
	return sub
}

func subscriptionIDs(subs []*schema.WebhookSubscription) []string {
	ids := make([]string, 0, len(subs))
	for _, s := range subs {
		ids = append(ids, s.ID)
	}
	return ids
}

func testCredentials(t *testing.T, s Store) {
	ctx := context.Background()
	org := createTestOrganization(t, s, "pro")

	key, err := s.CreateAPIKey(ctx, CreateAPIKeyInput{
		OrganizationID: org.ID,
		KeyHash:        fmt.Sprintf("%064x", 42),
		KeyPrefix:      "sk_live_abcd",
		Name:           "backend",
	})
	require.NoError(t, err)
	assert.True(t, key.IsActive)

	record, err := s.GetCredentialByKeyHash(ctx, fmt.Sprintf("%064x", 42))
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, org.ID, record.OrganizationID)
	assert.Equal(t, "Shop pro", record.OrganizationName)
	assert.Equal(t, "pro", record.Plan)
	assert.True(t, record.Active)

	missing, err := s.GetCredentialByKeyHash(ctx, fmt.Sprintf("%064x", 7))
	require.NoError(t, err)
	assert.Nil(t, missing)

	other := createTestOrganization(t, s, "free")
	revoked, err := s.RevokeAPIKey(ctx, other.ID, key.ID)
	require.NoError(t, err)
	assert.False(t, revoked, "a tenant cannot revoke another tenant's key")

	revoked, err = s.RevokeAPIKey(ctx, org.ID, key.ID)
	require.NoError(t, err)
	assert.True(t, revoked)

	record, err = s.GetCredentialByKeyHash(ctx, fmt.Sprintf("%064x", 42))
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.False(t, record.Active)

	keys, err := s.ListAPIKeys(ctx, org.ID)
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.Equal(t, "sk_live_abcd", keys[0].KeyPrefix)
}

func testSubscriptionsForEvent(t *testing.T, s Store) {
	ctx := context.Background()
	org := createTestOrganization(t, s, "free")
	other := createTestOrganization(t, s, "free")

	paid := createTestSubscription(t, s, org.ID, true, "order.paid", "order.refunded")
	wildcard := createTestSubscription(t, s, org.ID, true, WildcardEventType)
	createTestSubscription(t, s, org.ID, false, "order.paid")
	createTestSubscription(t, s, other.ID, true, "order.paid")

	subs, err := s.GetActiveSubscriptionsForEvent(ctx, org.ID, "order.paid")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{paid.ID, wildcard.ID}, subscriptionIDs(subs))

	subs, err = s.GetActiveSubscriptionsForEvent(ctx, org.ID, "customer.created")
	require.NoError(t, err)
	assert.Equal(t, []string{wildcard.ID}, subscriptionIDs(subs))

	subs, err = s.GetActiveSubscriptionsForEvent(ctx, createTestOrganization(t, s, "free").ID, "order.paid")
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func testSubscriptionCRUD(t *testing.T, s Store) {
	ctx := context.Background()
	org := createTestOrganization(t, s, "starter")
	other := createTestOrganization(t, s, "starter")

	sub := createTestSubscription(t, s, org.ID, true, "order.created")

	got, err := s.GetSubscription(ctx, org.ID, sub.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, sub.URL, got.URL)
	assert.JSONEq(t, `["order.created"]`, string(got.EventTypes))

	got, err = s.GetSubscription(ctx, other.ID, sub.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = s.GetSubscription(ctx, org.ID, "not-a-uuid")
	require.NoError(t, err)
	assert.Nil(t, got)

	newURL := "https://hooks.example.com/v2"
	newSecret := "whsec_" + fmt.Sprintf("%064d", 2)
	inactive := false
	updated, err := s.UpdateSubscription(ctx, org.ID, sub.ID, UpdateSubscriptionInput{
		URL:        &newURL,
		Secret:     &newSecret,
		EventTypes: []string{"order.paid"},
		IsActive:   &inactive,
	})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, newURL, updated.URL)
	assert.Equal(t, newSecret, updated.Secret)
	assert.False(t, updated.IsActive)
	assert.Equal(t, 3, updated.MaxAttempts)
	assert.JSONEq(t, `["order.paid"]`, string(updated.EventTypes))

	updated, err = s.UpdateSubscription(ctx, other.ID, sub.ID, UpdateSubscriptionInput{URL: &newURL})
	require.NoError(t, err)
	assert.Nil(t, updated)

	for i := 0; i < 4; i++ {
		createTestSubscription(t, s, org.ID, true, "order.paid")
	}
	page, total, err := s.ListSubscriptions(ctx, org.ID, 2, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	assert.Len(t, page, 2)

	page, total, err = s.ListSubscriptions(ctx, org.ID, 2, 4)
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	assert.Len(t, page, 1)

	deleted, err := s.DeleteSubscription(ctx, other.ID, sub.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = s.DeleteSubscription(ctx, org.ID, sub.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	got, err = s.GetSubscription(ctx, org.ID, sub.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func testDeliveryAttempts(t *testing.T, s Store) {
	ctx := context.Background()
	org := createTestOrganization(t, s, "free")
	sub := createTestSubscription(t, s, org.ID, true, "order.paid")

	payload, err := json.Marshal(map[string]interface{}{"id": "01J0ENVELOPE", "event": "order.paid"})
	require.NoError(t, err)

	base := time.Now().Add(-time.Minute)
	status := 500
	errMsg := "HTTP 500"
	for i := 1; i <= 3; i++ {
		attempt := &schema.WebhookDeliveryAttempt{
			SubscriptionID: sub.ID,
			OrganizationID: org.ID,
			EnvelopeID:     "01J0ENVELOPE",
			EventType:      "order.paid",
			Payload:        datatypes.JSON(payload),
			AttemptNumber:  i,
			HTTPStatus:     &status,
			ErrorMessage:   &errMsg,
			DurationMs:     int64(10 * i),
			CreatedAt:      base.Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, s.CreateDeliveryAttempt(ctx, attempt))
		assert.NotZero(t, attempt.ID)
	}

	attempts, total, err := s.ListDeliveryAttempts(ctx, org.ID, sub.ID, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, attempts, 3)
	assert.Equal(t, 3, attempts[0].AttemptNumber, "newest first")
	assert.False(t, attempts[0].Succeeded())

	last, err := s.GetLastAttemptNumber(ctx, sub.ID, "01J0ENVELOPE")
	require.NoError(t, err)
	assert.Equal(t, 3, last)

	last, err = s.GetLastAttemptNumber(ctx, sub.ID, "unknown")
	require.NoError(t, err)
	assert.Equal(t, 0, last)

	got, err := s.GetDeliveryAttempt(ctx, org.ID, attempts[1].ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 2, got.AttemptNumber)
	assert.JSONEq(t, string(payload), string(got.Payload))

	got, err = s.GetDeliveryAttempt(ctx, createTestOrganization(t, s, "free").ID, attempts[1].ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func testUsageLogs(t *testing.T, s Store) {
	ctx := context.Background()
	org := createTestOrganization(t, s, "free")
	ip := "203.0.113.9"

	entry := &schema.APIUsageLog{
		OrganizationID: org.ID,
		Endpoint:       "/api/v1/webhooks/:id",
		Method:         "GET",
		StatusCode:     200,
		ResponseTimeMs: 12,
		ClientIP:       &ip,
	}
	require.NoError(t, s.CreateUsageLog(ctx, entry))
	assert.NotZero(t, entry.ID)
	assert.False(t, entry.CreatedAt.IsZero())
}
