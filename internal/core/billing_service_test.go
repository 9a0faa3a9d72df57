package core

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"summarist-backend-go/internal/billing"
	"summarist-backend-go/internal/config"
	"summarist-backend-go/internal/models"
)

type billingFixture struct {
	users     *fakeUserRepo
	subs      *fakeSubscriptionRepo
	checkouts *fakeCheckoutRepo
	events    *fakeEventRepo
	cache     *fakeCache
	client    *fakeBillingClient
	service   BillingService
}

func newBillingFixture() *billingFixture {
	f := &billingFixture{
		users:     newFakeUserRepo(),
		subs:      newFakeSubscriptionRepo(),
		checkouts: newFakeCheckoutRepo(),
		events:    newFakeEventRepo(),
		cache:     newFakeCache(),
		client:    newFakeBillingClient(),
	}
	plans := NewPlanTable(&config.Config{
		StripePriceIDMonthly: "price_monthly",
		StripePriceIDYearly:  "price_yearly",
		TrialPeriodDays:      7,
	})
	directory := &fakeDirectory{emails: map[string]string{"user-1": "reader@example.com"}}
	f.service = NewBillingService(f.users, f.subs, f.checkouts, f.events, directory, f.client, plans, f.cache, zap.NewNop())
	return f
}

func rawEvent(id, eventType string, payload map[string]interface{}) *billing.Event {
	raw, _ := json.Marshal(payload)
	return &billing.Event{ID: id, Type: eventType, Raw: raw}
}

func TestCreateCheckoutSessionCreatesCustomerOnce(t *testing.T) {
	f := newBillingFixture()
	ctx := context.Background()

	req := CheckoutRequest{
		PriceID:    "price_yearly",
		SuccessURL: "https://app.example.com/success",
		CancelURL:  "https://app.example.com/cancel",
	}

	session, err := f.service.CreateCheckoutSession(ctx, "user-1", req)
	require.NoError(t, err)
	require.NotEmpty(t, session.URL)

	// Second checkout must reuse the customer created by the first one.
	_, err = f.service.CreateCheckoutSession(ctx, "user-1", req)
	require.NoError(t, err)
	assert.Equal(t, 1, f.client.createCustomerCalls)

	user, err := f.users.GetByID(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "reader@example.com", user.Email)
	assert.NotEmpty(t, user.StripeCustomerID)

	require.Len(t, f.client.checkoutCalls, 2)
	assert.Equal(t, "user-1", f.client.checkoutCalls[0].ClientReferenceID)
	assert.Equal(t, int64(7), f.client.checkoutCalls[0].TrialPeriodDays)
	assert.NotEmpty(t, f.client.checkoutCalls[0].IdempotencyKey)
	assert.NotEqual(t, f.client.checkoutCalls[0].IdempotencyKey, f.client.checkoutCalls[1].IdempotencyKey)

	assert.Len(t, f.checkouts.records["user-1"], 2)
}

func TestCreateCheckoutSessionMonthlyHasNoTrial(t *testing.T) {
	f := newBillingFixture()

	_, err := f.service.CreateCheckoutSession(context.Background(), "user-1", CheckoutRequest{
		PriceID:    "price_monthly",
		SuccessURL: "https://app.example.com/success",
		CancelURL:  "https://app.example.com/cancel",
	})
	require.NoError(t, err)
	require.Len(t, f.client.checkoutCalls, 1)
	assert.Zero(t, f.client.checkoutCalls[0].TrialPeriodDays)
}

func TestCreateCheckoutSessionRejectsUnknownPrice(t *testing.T) {
	f := newBillingFixture()

	_, err := f.service.CreateCheckoutSession(context.Background(), "user-1", CheckoutRequest{
		PriceID:    "price_someone_elses",
		SuccessURL: "https://app.example.com/success",
		CancelURL:  "https://app.example.com/cancel",
	})
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Zero(t, f.client.createCustomerCalls)
	assert.Empty(t, f.checkouts.records)
}

func TestCreatePortalSessionRequiresLinkedCustomer(t *testing.T) {
	f := newBillingFixture()
	ctx := context.Background()

	require.NoError(t, f.users.Create(ctx, &models.User{ID: "user-1", Email: "reader@example.com"}))

	_, err := f.service.CreatePortalSession(ctx, "user-1", "https://app.example.com/settings")
	require.ErrorIs(t, err, ErrNotLinked)
}

func TestWebhookInvalidSignatureWritesNothing(t *testing.T) {
	f := newBillingFixture()
	f.client.constructErr = billing.ErrInvalidSignature

	err := f.service.HandleStripeWebhook(context.Background(), []byte(`{}`), "bad-sig")
	require.ErrorIs(t, err, billing.ErrInvalidSignature)
	assert.Empty(t, f.subs.subs)
	assert.Empty(t, f.events.seen)
}

func TestWebhookCheckoutCompleted(t *testing.T) {
	f := newBillingFixture()
	ctx := context.Background()

	require.NoError(t, f.users.Create(ctx, &models.User{ID: "user-1", Email: "reader@example.com", StripeCustomerID: "cus_1"}))
	trialEnd := time.Now().Add(7 * 24 * time.Hour).UTC().Truncate(time.Second)
	f.client.subscriptions["sub_1"] = &billing.Subscription{
		ID:               "sub_1",
		CustomerID:       "cus_1",
		Status:           models.SubscriptionStatusTrialing,
		PriceID:          "price_yearly",
		ProductName:      "Premium Yearly",
		TrialEnd:         &trialEnd,
		CurrentPeriodEnd: trialEnd,
	}
	f.client.event = rawEvent("evt_1", "checkout.session.completed", map[string]interface{}{
		"id":                  "cs_1",
		"mode":                "subscription",
		"client_reference_id": "user-1",
		"customer":            map[string]interface{}{"id": "cus_1"},
		"subscription":        map[string]interface{}{"id": "sub_1"},
	})

	require.NoError(t, f.service.HandleStripeWebhook(ctx, []byte(`{}`), "sig"))

	sub, err := f.subs.GetByID(ctx, "user-1", "sub_1")
	require.NoError(t, err)
	assert.Equal(t, models.RolePremium, sub.Role)
	assert.Equal(t, models.SubscriptionStatusTrialing, sub.Status)
	assert.Equal(t, "Premium Yearly", sub.ProductName)
	assert.True(t, sub.IsEntitling())

	assert.Contains(t, f.cache.invalidations, "user-1")
	assert.Contains(t, f.events.seen, "evt_1")
}

func TestWebhookRedeliveredEventIsSkipped(t *testing.T) {
	f := newBillingFixture()
	ctx := context.Background()

	require.NoError(t, f.events.MarkProcessed(ctx, &models.WebhookEventRecord{ID: "evt_1", Type: "checkout.session.completed"}))
	f.client.event = rawEvent("evt_1", "checkout.session.completed", map[string]interface{}{
		"id":                  "cs_1",
		"mode":                "subscription",
		"client_reference_id": "user-1",
		"subscription":        map[string]interface{}{"id": "sub_1"},
	})

	require.NoError(t, f.service.HandleStripeWebhook(ctx, []byte(`{}`), "sig"))
	assert.Empty(t, f.subs.subs)
}

func TestWebhookInvoicePaidTargetsTheRightUser(t *testing.T) {
	f := newBillingFixture()
	ctx := context.Background()

	require.NoError(t, f.users.Create(ctx, &models.User{ID: "user-a", StripeCustomerID: "cus_a"}))
	require.NoError(t, f.users.Create(ctx, &models.User{ID: "user-b", StripeCustomerID: "cus_b"}))

	periodEnd := time.Now().Add(30 * 24 * time.Hour).UTC().Truncate(time.Second)
	f.client.subscriptions["sub_b"] = &billing.Subscription{
		ID:               "sub_b",
		CustomerID:       "cus_b",
		Status:           models.SubscriptionStatusActive,
		PriceID:          "price_monthly",
		ProductName:      "Premium Monthly",
		CurrentPeriodEnd: periodEnd,
	}
	f.client.event = rawEvent("evt_2", "invoice.payment_succeeded", map[string]interface{}{
		"id":           "in_1",
		"customer":     map[string]interface{}{"id": "cus_b"},
		"subscription": map[string]interface{}{"id": "sub_b"},
	})

	require.NoError(t, f.service.HandleStripeWebhook(ctx, []byte(`{}`), "sig"))

	assert.Empty(t, f.subs.subs["user-a"])
	sub, err := f.subs.GetByID(ctx, "user-b", "sub_b")
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionStatusActive, sub.Status)
	assert.Equal(t, periodEnd, sub.CurrentPeriodEnd)
}

func TestWebhookSubscriptionDeletedCancels(t *testing.T) {
	f := newBillingFixture()
	ctx := context.Background()

	require.NoError(t, f.users.Create(ctx, &models.User{ID: "user-1", StripeCustomerID: "cus_1"}))
	require.NoError(t, f.subs.Upsert(ctx, "user-1", &models.Subscription{
		ID:     "sub_1",
		Role:   models.RolePremium,
		Status: models.SubscriptionStatusActive,
	}))

	f.client.event = rawEvent("evt_3", "customer.subscription.deleted", map[string]interface{}{
		"id":       "sub_1",
		"status":   "canceled",
		"customer": map[string]interface{}{"id": "cus_1"},
		"items": map[string]interface{}{
			"data": []interface{}{map[string]interface{}{
				"price": map[string]interface{}{"id": "price_monthly"},
			}},
		},
	})

	require.NoError(t, f.service.HandleStripeWebhook(ctx, []byte(`{}`), "sig"))

	sub, err := f.subs.GetByID(ctx, "user-1", "sub_1")
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionStatusCanceled, sub.Status)
	assert.False(t, sub.IsEntitling())
	assert.Contains(t, f.cache.invalidations, "user-1")
}

func TestWebhookUnknownCustomerIsAcknowledged(t *testing.T) {
	f := newBillingFixture()

	f.client.event = rawEvent("evt_4", "customer.subscription.updated", map[string]interface{}{
		"id":       "sub_x",
		"status":   "active",
		"customer": map[string]interface{}{"id": "cus_unknown"},
	})

	// A customer we never created must not fail the delivery; Stripe would
	// keep retrying forever.
	require.NoError(t, f.service.HandleStripeWebhook(context.Background(), []byte(`{}`), "sig"))
	assert.Empty(t, f.subs.subs)
}

func TestWebhookUnhandledTypeIsIgnored(t *testing.T) {
	f := newBillingFixture()
	f.client.event = &billing.Event{ID: "evt_5", Type: "customer.updated", Raw: []byte(`{}`)}

	require.NoError(t, f.service.HandleStripeWebhook(context.Background(), []byte(`{}`), "sig"))
	assert.Empty(t, f.events.seen)
}

func TestPlansListsConfiguredCatalog(t *testing.T) {
	f := newBillingFixture()

	plans := f.service.Plans()
	require.Len(t, plans, 2)
	assert.Equal(t, "price_monthly", plans[0].PriceID)
	assert.Equal(t, "price_yearly", plans[1].PriceID)
	assert.Equal(t, int64(7), plans[1].TrialPeriodDays)
}
