package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"
	"github.com/stripe/stripe-go/v78/webhook"
	"go.uber.org/zap"
)

// Key under which the Firebase UID is stored in Stripe customer metadata.
const metadataUserIDKey = "firebase_uid"

// stripeClient implements Client on top of the Stripe SDK. The underlying
// client.API is constructed here with the secret key from configuration
// instead of relying on the SDK's global key.
type stripeClient struct {
	api           *client.API
	webhookSecret string
	logger        *zap.Logger
}

// NewStripeClient creates a Stripe-backed billing client.
func NewStripeClient(secretKey, webhookSecret string, logger *zap.Logger) Client {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &stripeClient{
		api:           api,
		webhookSecret: webhookSecret,
		logger:        logger,
	}
}

// CreateCustomer creates a new Stripe customer tagged with the Firebase UID.
func (c *stripeClient) CreateCustomer(ctx context.Context, userID, email string) (string, error) {
	params := &stripe.CustomerParams{
		Email: stripe.String(email),
	}
	params.Context = ctx
	params.AddMetadata(metadataUserIDKey, userID)

	cus, err := c.api.Customers.New(params)
	if err != nil {
		c.logStripeError("CreateCustomer", err)
		return "", fmt.Errorf("stripe: failed to create customer: %w", err)
	}

	c.logger.Info("Stripe customer created",
		zap.String("stripeCustomerId", cus.ID),
		zap.String("userId", userID))
	return cus.ID, nil
}

// DeleteCustomer deletes the Stripe customer. A missing customer is
// treated as already deleted.
func (c *stripeClient) DeleteCustomer(ctx context.Context, customerID string) error {
	params := &stripe.CustomerParams{}
	params.Context = ctx

	if _, err := c.api.Customers.Del(customerID, params); err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.Code == stripe.ErrorCodeResourceMissing {
			c.logger.Warn("Stripe customer already deleted", zap.String("stripeCustomerId", customerID))
			return nil
		}
		c.logStripeError("DeleteCustomer", err)
		return fmt.Errorf("stripe: failed to delete customer: %w", err)
	}

	c.logger.Info("Stripe customer deleted", zap.String("stripeCustomerId", customerID))
	return nil
}

// CreateCheckoutSession creates a subscription-mode Checkout Session.
func (c *stripeClient) CreateCheckoutSession(ctx context.Context, p CheckoutParams) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Customer:          stripe.String(p.CustomerID),
		ClientReferenceID: stripe.String(p.ClientReferenceID),
		Mode:              stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(p.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(p.SuccessURL),
		CancelURL:  stripe.String(p.CancelURL),
	}
	params.Context = ctx
	if p.IdempotencyKey != "" {
		params.IdempotencyKey = stripe.String(p.IdempotencyKey)
	}
	if p.TrialPeriodDays > 0 {
		params.SubscriptionData = &stripe.CheckoutSessionSubscriptionDataParams{
			TrialPeriodDays: stripe.Int64(p.TrialPeriodDays),
		}
	}

	sess, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		c.logStripeError("CreateCheckoutSession", err)
		return nil, fmt.Errorf("stripe: failed to create checkout session: %w", err)
	}

	c.logger.Info("Stripe checkout session created",
		zap.String("sessionId", sess.ID),
		zap.String("priceId", p.PriceID),
		zap.String("stripeCustomerId", p.CustomerID))
	return &CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}

// CreatePortalSession creates a Billing Portal session for the customer.
func (c *stripeClient) CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	params := &stripe.BillingPortalSessionParams{
		Customer:  stripe.String(customerID),
		ReturnURL: stripe.String(returnURL),
	}
	params.Context = ctx

	sess, err := c.api.BillingPortalSessions.New(params)
	if err != nil {
		c.logStripeError("CreatePortalSession", err)
		return "", fmt.Errorf("stripe: failed to create portal session: %w", err)
	}

	c.logger.Info("Stripe portal session created", zap.String("stripeCustomerId", customerID))
	return sess.URL, nil
}

// GetSubscription fetches the subscription with its product expanded so
// the reconciled document can carry a display name.
func (c *stripeClient) GetSubscription(ctx context.Context, subscriptionID string) (*Subscription, error) {
	params := &stripe.SubscriptionParams{}
	params.Context = ctx
	params.AddExpand("items.data.price.product")

	sub, err := c.api.Subscriptions.Get(subscriptionID, params)
	if err != nil {
		c.logStripeError("GetSubscription", err)
		return nil, fmt.Errorf("stripe: failed to get subscription: %w", err)
	}

	return toSubscription(sub), nil
}

// ConstructEvent verifies the signature and wraps the event envelope.
func (c *stripeClient) ConstructEvent(payload []byte, sigHeader string) (*Event, error) {
	event, err := webhook.ConstructEvent(payload, sigHeader, c.webhookSecret)
	if err != nil {
		c.logger.Warn("Stripe webhook signature rejected", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return &Event{
		ID:   event.ID,
		Type: string(event.Type),
		Raw:  event.Data.Raw,
	}, nil
}

// logStripeError logs Stripe error details without leaking them to clients.
func (c *stripeClient) logStripeError(operation string, err error) {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		c.logger.Error("Stripe API error",
			zap.String("operation", operation),
			zap.String("type", string(stripeErr.Type)),
			zap.String("code", string(stripeErr.Code)),
			zap.String("requestId", stripeErr.RequestID),
			zap.Int("statusCode", stripeErr.HTTPStatusCode))
		return
	}
	c.logger.Error("Stripe operation failed",
		zap.String("operation", operation),
		zap.Error(err))
}

// toSubscription converts the SDK subscription into the provider-agnostic
// shape used by the reconciliation logic.
func toSubscription(sub *stripe.Subscription) *Subscription {
	out := &Subscription{
		ID:                sub.ID,
		Status:            string(sub.Status),
		CurrentPeriodEnd:  time.Unix(sub.CurrentPeriodEnd, 0).UTC(),
		CancelAtPeriodEnd: sub.CancelAtPeriodEnd,
		Created:           time.Unix(sub.Created, 0).UTC(),
	}
	if sub.Customer != nil {
		out.CustomerID = sub.Customer.ID
	}
	if sub.TrialEnd > 0 {
		t := time.Unix(sub.TrialEnd, 0).UTC()
		out.TrialEnd = &t
	}
	if sub.CanceledAt > 0 {
		t := time.Unix(sub.CanceledAt, 0).UTC()
		out.CanceledAt = &t
	}
	if sub.Items != nil && len(sub.Items.Data) > 0 {
		price := sub.Items.Data[0].Price
		if price != nil {
			out.PriceID = price.ID
			if price.Product != nil {
				out.ProductName = price.Product.Name
			}
		}
	}
	return out
}

// CheckoutCompleted decodes a checkout.session.completed payload.
func (e *Event) CheckoutCompleted() (*CheckoutCompleted, error) {
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(e.Raw, &sess); err != nil {
		return nil, fmt.Errorf("decode checkout.session: %w", err)
	}
	out := &CheckoutCompleted{
		SessionID:         sess.ID,
		ClientReferenceID: sess.ClientReferenceID,
		SubscriptionMode:  sess.Mode == stripe.CheckoutSessionModeSubscription,
	}
	if sess.Customer != nil {
		out.CustomerID = sess.Customer.ID
	}
	if sess.Subscription != nil {
		out.SubscriptionID = sess.Subscription.ID
	}
	return out, nil
}

// Subscription decodes a customer.subscription.* payload.
func (e *Event) Subscription() (*Subscription, error) {
	var sub stripe.Subscription
	if err := json.Unmarshal(e.Raw, &sub); err != nil {
		return nil, fmt.Errorf("decode subscription: %w", err)
	}
	return toSubscription(&sub), nil
}

// InvoicePaid decodes an invoice.payment_succeeded payload.
func (e *Event) InvoicePaid() (*InvoicePaid, error) {
	var inv stripe.Invoice
	if err := json.Unmarshal(e.Raw, &inv); err != nil {
		return nil, fmt.Errorf("decode invoice: %w", err)
	}
	out := &InvoicePaid{InvoiceID: inv.ID}
	if inv.Customer != nil {
		out.CustomerID = inv.Customer.ID
	}
	if inv.Subscription != nil {
		out.SubscriptionID = inv.Subscription.ID
	}
	return out, nil
}
