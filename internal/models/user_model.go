package models

import "time"

// User represents a Summarist user profile.
// Entitlement is intentionally NOT stored on this document; the
// subscriptions sub-collection, written only by the Stripe webhook path,
// is the single source of truth for premium status.
type User struct {
	ID               string    `json:"id" firestore:"-"` // Firebase Auth UID, used as the document ID
	Email            string    `json:"email" firestore:"email"`
	DisplayName      string    `json:"displayName,omitempty" firestore:"displayName,omitempty"`
	PhotoURL         string    `json:"photoURL,omitempty" firestore:"photoURL,omitempty"`
	StripeCustomerID string    `json:"stripeCustomerId,omitempty" firestore:"stripeCustomerId,omitempty"`
	CreatedAt        time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp"`
	UpdatedAt        time.Time `json:"updatedAt" firestore:"updatedAt,serverTimestamp"`
}
