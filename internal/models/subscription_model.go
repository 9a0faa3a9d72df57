package models

import (
	"strings"
	"time"
)

// Subscription status values, mirroring the Stripe subscription lifecycle.
const (
	SubscriptionStatusActive     = "active"
	SubscriptionStatusTrialing   = "trialing"
	SubscriptionStatusPastDue    = "past_due"
	SubscriptionStatusCanceled   = "canceled"
	SubscriptionStatusIncomplete = "incomplete"
)

// RolePremium is the role written on subscription documents for the
// Summarist premium product. There is currently a single paid tier.
const RolePremium = "premium"

// Subscription is a document in users/{uid}/subscriptions/{stripeSubscriptionID}.
// It is upserted exclusively by the webhook handler.
type Subscription struct {
	ID                string     `json:"id" firestore:"-"` // Stripe subscription ID, used as the document ID
	Role              string     `json:"role" firestore:"role"`
	Status            string     `json:"status" firestore:"status"`
	PriceID           string     `json:"priceId" firestore:"priceId"`
	ProductName       string     `json:"productName,omitempty" firestore:"productName,omitempty"`
	CurrentPeriodEnd  time.Time  `json:"currentPeriodEnd" firestore:"currentPeriodEnd"`
	TrialEnd          *time.Time `json:"trialEnd,omitempty" firestore:"trialEnd,omitempty"`
	CanceledAt        *time.Time `json:"canceledAt,omitempty" firestore:"canceledAt,omitempty"`
	CancelAtPeriodEnd bool       `json:"cancelAtPeriodEnd" firestore:"cancelAtPeriodEnd"`
	Created           time.Time  `json:"created" firestore:"created"`
	UpdatedAt         time.Time  `json:"updatedAt" firestore:"updatedAt,serverTimestamp"`
}

// IsEntitling reports whether this subscription grants premium access:
// role "premium" with an active or trialing status.
func (s *Subscription) IsEntitling() bool {
	if !strings.EqualFold(s.Role, RolePremium) {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(s.Status)) {
	case SubscriptionStatusActive, SubscriptionStatusTrialing:
		return true
	default:
		return false
	}
}

// PremiumStatus is the answer to the premium-status query. TrialEnd is
// RFC 3339 and only present while the subscription is trialing.
type PremiumStatus struct {
	IsPremium          bool   `json:"isPremium"`
	SubscriptionStatus string `json:"subscriptionStatus,omitempty"`
	SubscriptionID     string `json:"subscriptionId,omitempty"`
	SubscriptionName   string `json:"subscriptionName,omitempty"`
	TrialEnd           string `json:"trialEnd,omitempty"`
}

// CheckoutSessionRecord is an append-only log entry in
// users/{uid}/checkout_sessions recording an initiated purchase attempt.
type CheckoutSessionRecord struct {
	ID              string    `json:"id" firestore:"-"`
	SessionID       string    `json:"sessionId" firestore:"sessionId"`
	PriceID         string    `json:"priceId" firestore:"priceId"`
	Mode            string    `json:"mode" firestore:"mode"`
	SuccessURL      string    `json:"successUrl" firestore:"successUrl"`
	CancelURL       string    `json:"cancelUrl" firestore:"cancelUrl"`
	TrialPeriodDays int64     `json:"trialPeriodDays" firestore:"trialPeriodDays"`
	BookID          string    `json:"bookId,omitempty" firestore:"bookId,omitempty"` // book that triggered the upsell, if any
	Created         time.Time `json:"created" firestore:"created,serverTimestamp"`
}

// Plan describes a purchasable subscription plan as exposed by the
// plans endpoint. The table is built once from configuration.
type Plan struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	Price           string `json:"price"`
	PriceID         string `json:"priceId"`
	TrialPeriodDays int64  `json:"trialPeriodDays"`
}
