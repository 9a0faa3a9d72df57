package models

import "time"

// WebhookEventRecord is a document in stripe_events/{eventID} marking a
// Stripe event as processed. Stripe retries delivery until acknowledged,
// so the same event can arrive more than once; the record makes event
// processing idempotent across redeliveries.
type WebhookEventRecord struct {
	ID          string    `json:"id" firestore:"-"` // Stripe event ID
	Type        string    `json:"type" firestore:"type"`
	ProcessedAt time.Time `json:"processedAt" firestore:"processedAt,serverTimestamp"`
}
