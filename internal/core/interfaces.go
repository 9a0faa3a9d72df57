package core

import (
	"context"

	"summarist-backend-go/internal/billing"
	"summarist-backend-go/internal/models"
)

// UserService manages user profile documents.
type UserService interface {
	// GetOrCreate returns the user's profile document, creating it from the
	// verified token claims on first contact. The second return value
	// reports whether the profile was created by this call.
	GetOrCreate(ctx context.Context, userID, email, displayName, photoURL string) (*models.User, bool, error)
	GetByID(ctx context.Context, userID string) (*models.User, error)
	// DeleteAccount removes the Stripe customer and every document owned by
	// the user.
	DeleteAccount(ctx context.Context, userID string) error
}

// CheckoutRequest carries the client's input for a new checkout session.
type CheckoutRequest struct {
	PriceID    string
	SuccessURL string
	CancelURL  string
	BookID     string
}

// BillingService owns every interaction with the billing provider: plans,
// checkout, the billing portal, and webhook reconciliation.
type BillingService interface {
	Plans() []models.Plan
	CreateCheckoutSession(ctx context.Context, userID string, req CheckoutRequest) (*billing.CheckoutSession, error)
	CreatePortalSession(ctx context.Context, userID, returnURL string) (string, error)
	// HandleStripeWebhook verifies the payload signature and applies the
	// event to the subscription store. Unrecognized event types are
	// acknowledged without side effects.
	HandleStripeWebhook(ctx context.Context, payload []byte, signature string) error
}

// EntitlementService answers the single question the reading apps ask:
// does this user currently have premium access.
type EntitlementService interface {
	PremiumStatus(ctx context.Context, userID string) (*models.PremiumStatus, error)
}

// LibraryService manages a user's saved books.
type LibraryService interface {
	List(ctx context.Context, userID string) ([]*models.LibraryEntry, error)
	Add(ctx context.Context, userID string, book *models.LibraryBookPayload) (*models.LibraryEntry, error)
	Remove(ctx context.Context, userID, bookID string) error
	ToggleFinished(ctx context.Context, userID, bookID string) (*models.LibraryEntry, error)
}

// BookService exposes the read-only book catalog.
type BookService interface {
	GetByID(ctx context.Context, bookID string) (*models.Book, error)
	ListByStatus(ctx context.Context, status string, limit int) ([]*models.Book, error)
}

// AuthDirectory looks up identity details that are not on the user
// document, backed by Firebase Auth in production.
type AuthDirectory interface {
	GetUserEmail(ctx context.Context, userID string) (string, error)
}
