package db

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"summarist-backend-go/internal/models"
)

const stripeEventsCollection = "stripe_events"

// firestoreWebhookEventRepository implements WebhookEventRepository over
// the stripe_events collection, keyed by Stripe event ID. Create fails
// with AlreadyExists on a duplicate, which is exactly the signal the
// webhook handler needs to skip redelivered events.
type firestoreWebhookEventRepository struct {
	client *firestore.Client
}

// NewFirestoreWebhookEventRepository creates a new instance of firestoreWebhookEventRepository.
func NewFirestoreWebhookEventRepository(client *firestore.Client) WebhookEventRepository {
	return &firestoreWebhookEventRepository{client: client}
}

// Seen reports whether the event ID was recorded before.
func (r *firestoreWebhookEventRepository) Seen(ctx context.Context, eventID string) (bool, error) {
	if eventID == "" {
		return false, errors.New("event ID is required for Seen")
	}
	_, err := r.client.Collection(stripeEventsCollection).Doc(eventID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return false, nil
		}
		return false, fmt.Errorf("failed to look up webhook event '%s': %w", eventID, err)
	}
	return true, nil
}

// MarkProcessed records the event, returning ErrAlreadyProcessed when the
// same event ID was recorded before.
func (r *firestoreWebhookEventRepository) MarkProcessed(ctx context.Context, record *models.WebhookEventRecord) error {
	if record == nil || record.ID == "" {
		return errors.New("event ID is required for MarkProcessed")
	}
	_, err := r.client.Collection(stripeEventsCollection).Doc(record.ID).Create(ctx, record)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return fmt.Errorf("event '%s': %w", record.ID, ErrAlreadyProcessed)
		}
		return fmt.Errorf("failed to record webhook event '%s': %w", record.ID, err)
	}
	return nil
}
