package db

import (
	"context"

	"summarist-backend-go/internal/models"
)

// UserRepository defines the interface for user data storage operations.
type UserRepository interface {
	GetByID(ctx context.Context, userID string) (*models.User, error)
	GetByStripeCustomerID(ctx context.Context, customerID string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	// ClaimStripeCustomerID atomically assigns customerID to the user unless
	// another writer got there first, and returns the ID that won. This is
	// what keeps "at most one Stripe customer per user" true under
	// concurrent checkout requests.
	ClaimStripeCustomerID(ctx context.Context, userID, customerID string) (string, error)
	Delete(ctx context.Context, userID string) error
}

// SubscriptionRepository manages users/{uid}/subscriptions documents.
// Only the webhook path writes through this interface.
type SubscriptionRepository interface {
	Upsert(ctx context.Context, userID string, sub *models.Subscription) error
	GetByID(ctx context.Context, userID, subscriptionID string) (*models.Subscription, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Subscription, error)
	UpdateStatus(ctx context.Context, userID, subscriptionID, status string) error
	DeleteAllForUser(ctx context.Context, userID string) error
}

// CheckoutSessionRepository appends checkout attempt records to
// users/{uid}/checkout_sessions. Records are never updated or deleted.
type CheckoutSessionRepository interface {
	Create(ctx context.Context, userID string, record *models.CheckoutSessionRecord) (string, error)
}

// LibraryRepository manages libraries/{uid}/books documents.
type LibraryRepository interface {
	List(ctx context.Context, userID string) ([]*models.LibraryEntry, error)
	Get(ctx context.Context, userID, bookID string) (*models.LibraryEntry, error)
	Set(ctx context.Context, userID string, entry *models.LibraryEntry) error
	Delete(ctx context.Context, userID, bookID string) error
	// ToggleFinished flips the finished flag inside a transaction and
	// returns the new value.
	ToggleFinished(ctx context.Context, userID, bookID string) (bool, error)
	DeleteAllForUser(ctx context.Context, userID string) error
}

// BookRepository reads the externally maintained book catalog.
type BookRepository interface {
	GetByID(ctx context.Context, bookID string) (*models.Book, error)
	ListByStatus(ctx context.Context, status string, limit int) ([]*models.Book, error)
}

// WebhookEventRepository records processed Stripe event IDs so redelivered
// events are not applied twice.
type WebhookEventRepository interface {
	// Seen reports whether the event was recorded before.
	Seen(ctx context.Context, eventID string) (bool, error)
	// MarkProcessed records the event. It returns ErrAlreadyProcessed when
	// the event was recorded before.
	MarkProcessed(ctx context.Context, record *models.WebhookEventRecord) error
}
