package db

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"

	"summarist-backend-go/internal/models"
)

const checkoutSessionsSubcollection = "checkout_sessions"

// firestoreCheckoutSessionRepository implements CheckoutSessionRepository
// over users/{uid}/checkout_sessions with Firestore auto IDs. The
// collection is a write-once audit trail of purchase attempts.
type firestoreCheckoutSessionRepository struct {
	client *firestore.Client
}

// NewFirestoreCheckoutSessionRepository creates a new instance of firestoreCheckoutSessionRepository.
func NewFirestoreCheckoutSessionRepository(client *firestore.Client) CheckoutSessionRepository {
	return &firestoreCheckoutSessionRepository{client: client}
}

// Create appends a checkout attempt record and returns the new document ID.
// The Created field is populated server-side via its serverTimestamp tag.
func (r *firestoreCheckoutSessionRepository) Create(ctx context.Context, userID string, record *models.CheckoutSessionRecord) (string, error) {
	if userID == "" || record == nil {
		return "", errors.New("userID and record are required for Create")
	}

	ref := r.client.Collection(usersCollection).Doc(userID).
		Collection(checkoutSessionsSubcollection).NewDoc()
	if _, err := ref.Create(ctx, record); err != nil {
		return "", fmt.Errorf("failed to record checkout session for user '%s': %w", userID, err)
	}
	return ref.ID, nil
}
