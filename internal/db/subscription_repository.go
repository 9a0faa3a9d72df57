package db

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"summarist-backend-go/internal/models"
)

const subscriptionsSubcollection = "subscriptions"

// firestoreSubscriptionRepository implements SubscriptionRepository over
// the users/{uid}/subscriptions sub-collection. Documents are keyed by the
// Stripe subscription ID, which makes webhook upserts naturally idempotent.
type firestoreSubscriptionRepository struct {
	client *firestore.Client
}

// NewFirestoreSubscriptionRepository creates a new instance of firestoreSubscriptionRepository.
func NewFirestoreSubscriptionRepository(client *firestore.Client) SubscriptionRepository {
	return &firestoreSubscriptionRepository{client: client}
}

func (r *firestoreSubscriptionRepository) docRef(userID, subscriptionID string) *firestore.DocumentRef {
	return r.client.Collection(usersCollection).Doc(userID).
		Collection(subscriptionsSubcollection).Doc(subscriptionID)
}

// Upsert writes the subscription document, replacing an existing one with
// the same Stripe subscription ID.
func (r *firestoreSubscriptionRepository) Upsert(ctx context.Context, userID string, sub *models.Subscription) error {
	if userID == "" || sub == nil || sub.ID == "" {
		return errors.New("userID and subscription ID are required for Upsert")
	}
	_, err := r.docRef(userID, sub.ID).Set(ctx, sub)
	if err != nil {
		return fmt.Errorf("failed to upsert subscription '%s' for user '%s': %w", sub.ID, userID, err)
	}
	return nil
}

// GetByID retrieves one subscription document.
func (r *firestoreSubscriptionRepository) GetByID(ctx context.Context, userID, subscriptionID string) (*models.Subscription, error) {
	if userID == "" || subscriptionID == "" {
		return nil, errors.New("userID and subscriptionID are required for GetByID")
	}
	docSnap, err := r.docRef(userID, subscriptionID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("subscription '%s' not found for user '%s': %w", subscriptionID, userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get subscription '%s' for user '%s': %w", subscriptionID, userID, err)
	}

	var sub models.Subscription
	if err := docSnap.DataTo(&sub); err != nil {
		return nil, fmt.Errorf("failed to decode subscription '%s': %w", subscriptionID, err)
	}
	sub.ID = docSnap.Ref.ID
	return &sub, nil
}

// ListByUser returns every subscription document for the user. A user has
// at most a handful of subscription records over their lifetime, so no
// pagination is needed here.
func (r *firestoreSubscriptionRepository) ListByUser(ctx context.Context, userID string) ([]*models.Subscription, error) {
	if userID == "" {
		return nil, errors.New("userID cannot be empty for ListByUser")
	}

	iter := r.client.Collection(usersCollection).Doc(userID).
		Collection(subscriptionsSubcollection).
		Documents(ctx)
	defer iter.Stop()

	var subs []*models.Subscription
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list subscriptions for user '%s': %w", userID, err)
		}

		var sub models.Subscription
		if err := docSnap.DataTo(&sub); err != nil {
			return nil, fmt.Errorf("failed to decode subscription '%s': %w", docSnap.Ref.ID, err)
		}
		sub.ID = docSnap.Ref.ID
		subs = append(subs, &sub)
	}
	return subs, nil
}

// UpdateStatus changes only the status field of an existing subscription.
func (r *firestoreSubscriptionRepository) UpdateStatus(ctx context.Context, userID, subscriptionID, newStatus string) error {
	if userID == "" || subscriptionID == "" || newStatus == "" {
		return errors.New("userID, subscriptionID and status are required for UpdateStatus")
	}
	_, err := r.docRef(userID, subscriptionID).Update(ctx, []firestore.Update{
		{Path: "status", Value: newStatus},
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("subscription '%s' not found for user '%s': %w", subscriptionID, userID, ErrNotFound)
		}
		return fmt.Errorf("failed to update status of subscription '%s': %w", subscriptionID, err)
	}
	return nil
}

// DeleteAllForUser removes every subscription document for the user, used
// during account deletion.
func (r *firestoreSubscriptionRepository) DeleteAllForUser(ctx context.Context, userID string) error {
	if userID == "" {
		return errors.New("userID cannot be empty for DeleteAllForUser")
	}

	iter := r.client.Collection(usersCollection).Doc(userID).
		Collection(subscriptionsSubcollection).
		Documents(ctx)
	defer iter.Stop()

	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to iterate subscriptions for user '%s': %w", userID, err)
		}
		if _, err := docSnap.Ref.Delete(ctx); err != nil {
			return fmt.Errorf("failed to delete subscription '%s': %w", docSnap.Ref.ID, err)
		}
	}
	return nil
}
