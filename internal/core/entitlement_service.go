package core

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"summarist-backend-go/internal/cache"
	"summarist-backend-go/internal/db"
	"summarist-backend-go/internal/models"
)

type entitlementService struct {
	subs        db.SubscriptionRepository
	statusCache cache.EntitlementCache
	logger      *zap.Logger
}

// NewEntitlementService creates a new instance of entitlementService.
func NewEntitlementService(subs db.SubscriptionRepository, statusCache cache.EntitlementCache, logger *zap.Logger) EntitlementService {
	return &entitlementService{subs: subs, statusCache: statusCache, logger: logger}
}

// PremiumStatus derives the user's entitlement from the subscription
// mirror. A user with no documents at all is simply not premium; that is
// a valid answer, not an error.
func (s *entitlementService) PremiumStatus(ctx context.Context, userID string) (*models.PremiumStatus, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user ID is required", ErrUnauthenticated)
	}

	if cached, ok := s.statusCache.Get(ctx, userID); ok {
		return cached, nil
	}

	subs, err := s.subs.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions for user '%s': %w", userID, err)
	}

	status := &models.PremiumStatus{}
	for _, sub := range subs {
		if !sub.IsEntitling() {
			continue
		}
		status.IsPremium = true
		status.SubscriptionStatus = sub.Status
		status.SubscriptionID = sub.ID
		status.SubscriptionName = sub.ProductName
		if status.SubscriptionName == "" {
			status.SubscriptionName = "Premium Subscription"
		}
		if sub.Status == models.SubscriptionStatusTrialing && sub.TrialEnd != nil {
			status.TrialEnd = sub.TrialEnd.UTC().Format(time.RFC3339)
		}
		break
	}

	s.statusCache.Set(ctx, userID, status)
	return status, nil
}
