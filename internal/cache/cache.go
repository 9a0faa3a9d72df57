package cache

import (
	"context"

	"summarist-backend-go/internal/models"
)

// EntitlementCache holds short-lived premium-status answers so hot pages
// do not hit Firestore on every view. Entries are invalidated whenever the
// webhook handler mutates a user's subscription state, so staleness is
// bounded by the TTL only for out-of-band changes.
type EntitlementCache interface {
	// Get returns the cached status and whether there was a hit.
	Get(ctx context.Context, userID string) (*models.PremiumStatus, bool)
	Set(ctx context.Context, userID string, status *models.PremiumStatus)
	Invalidate(ctx context.Context, userID string)
}

// noopCache is used when no Redis address is configured; every query goes
// straight to Firestore.
type noopCache struct{}

// NewNoopCache returns a cache that never hits.
func NewNoopCache() EntitlementCache {
	return noopCache{}
}

func (noopCache) Get(context.Context, string) (*models.PremiumStatus, bool) { return nil, false }
func (noopCache) Set(context.Context, string, *models.PremiumStatus)        {}
func (noopCache) Invalidate(context.Context, string)                        {}
