package core

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"summarist-backend-go/internal/billing"
	"summarist-backend-go/internal/cache"
	"summarist-backend-go/internal/db"
	"summarist-backend-go/internal/models"
)

type userService struct {
	users      db.UserRepository
	subs       db.SubscriptionRepository
	library    db.LibraryRepository
	billing    billing.Client
	statusCache cache.EntitlementCache
	logger     *zap.Logger
}

// NewUserService creates a new instance of userService.
func NewUserService(
	users db.UserRepository,
	subs db.SubscriptionRepository,
	library db.LibraryRepository,
	billingClient billing.Client,
	statusCache cache.EntitlementCache,
	logger *zap.Logger,
) UserService {
	return &userService{
		users:      users,
		subs:       subs,
		library:    library,
		billing:    billingClient,
		statusCache: statusCache,
		logger:     logger,
	}
}

// GetOrCreate returns the profile document for userID, creating it from
// the token claims on first login.
func (s *userService) GetOrCreate(ctx context.Context, userID, email, displayName, photoURL string) (*models.User, bool, error) {
	if userID == "" {
		return nil, false, fmt.Errorf("%w: user ID is required", ErrUnauthenticated)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, db.ErrNotFound) {
		return nil, false, fmt.Errorf("failed to load user '%s': %w", userID, err)
	}

	user = &models.User{
		ID:          userID,
		Email:       email,
		DisplayName: displayName,
		PhotoURL:    photoURL,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, false, fmt.Errorf("failed to create user '%s': %w", userID, err)
	}
	s.logger.Info("created user profile", zap.String("userID", userID))
	return user, true, nil
}

func (s *userService) GetByID(ctx context.Context, userID string) (*models.User, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user ID is required", ErrUnauthenticated)
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("user '%s': %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load user '%s': %w", userID, err)
	}
	return user, nil
}

// DeleteAccount tears down everything owned by the user: the Stripe
// customer (which cancels its subscriptions provider-side), the
// subscription mirror, the library, and finally the profile document.
func (s *userService) DeleteAccount(ctx context.Context, userID string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("user '%s': %w", userID, ErrNotFound)
		}
		return fmt.Errorf("failed to load user '%s': %w", userID, err)
	}

	if user.StripeCustomerID != "" {
		if err := s.billing.DeleteCustomer(ctx, user.StripeCustomerID); err != nil {
			// The Firestore teardown still proceeds; an orphaned customer is
			// visible in the Stripe dashboard and can be removed by hand.
			s.logger.Warn("failed to delete stripe customer during account deletion",
				zap.String("userID", userID),
				zap.String("customerID", user.StripeCustomerID),
				zap.Error(err))
		}
	}

	if err := s.subs.DeleteAllForUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete subscriptions for user '%s': %w", userID, err)
	}
	if err := s.library.DeleteAllForUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete library for user '%s': %w", userID, err)
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete user '%s': %w", userID, err)
	}
	s.statusCache.Invalidate(ctx, userID)

	s.logger.Info("deleted user account", zap.String("userID", userID))
	return nil
}
