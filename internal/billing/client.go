package billing

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// ErrInvalidSignature is returned by ConstructEvent when the payload does
// not carry a valid Stripe-Signature for the configured webhook secret.
var ErrInvalidSignature = errors.New("webhook signature verification failed")

// Client defines the billing provider operations the application needs.
// It is implemented by the Stripe SDK wrapper below and by fakes in tests;
// services receive it via constructor injection, never through package
// globals.
type Client interface {
	// CreateCustomer creates a billing customer for the Firebase user and
	// returns its Stripe customer ID. The user ID is stored in customer
	// metadata for traceability.
	CreateCustomer(ctx context.Context, userID, email string) (string, error)

	// DeleteCustomer removes the customer (and cancels its subscriptions
	// provider-side). Deleting an already-deleted customer is not an error.
	DeleteCustomer(ctx context.Context, customerID string) error

	// CreateCheckoutSession creates a subscription-mode hosted Checkout
	// Session for the customer.
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error)

	// CreatePortalSession creates a Billing Portal session and returns its
	// URL.
	CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error)

	// GetSubscription fetches a subscription with its price and product
	// expanded.
	GetSubscription(ctx context.Context, subscriptionID string) (*Subscription, error)

	// ConstructEvent verifies the webhook signature and parses the event
	// envelope. A bad signature yields ErrInvalidSignature and the payload
	// must not be acted upon.
	ConstructEvent(payload []byte, sigHeader string) (*Event, error)
}

// CheckoutParams carries everything needed to open a hosted checkout.
type CheckoutParams struct {
	CustomerID        string
	PriceID           string
	SuccessURL        string
	CancelURL         string
	ClientReferenceID string // Firebase UID, echoed back in the completed event
	IdempotencyKey    string
	TrialPeriodDays   int64
}

// CheckoutSession is the created hosted-checkout handle returned to the
// client for redirection.
type CheckoutSession struct {
	ID  string
	URL string
}

// Subscription is the provider-agnostic view of a Stripe subscription used
// by the reconciliation logic.
type Subscription struct {
	ID                string
	CustomerID        string
	Status            string
	PriceID           string
	ProductName       string
	CurrentPeriodEnd  time.Time
	TrialEnd          *time.Time
	CanceledAt        *time.Time
	CancelAtPeriodEnd bool
	Created           time.Time
}

// CheckoutCompleted is the parsed payload of a checkout.session.completed
// event.
type CheckoutCompleted struct {
	SessionID         string
	CustomerID        string
	SubscriptionID    string
	ClientReferenceID string
	SubscriptionMode  bool
}

// InvoicePaid is the parsed payload of an invoice.payment_succeeded event.
type InvoicePaid struct {
	InvoiceID      string
	CustomerID     string
	SubscriptionID string
}

// Event is a verified webhook event. Payload accessors decode the raw
// object on demand so handlers only parse the shape they act on.
type Event struct {
	ID   string
	Type string
	Raw  json.RawMessage
}
