package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"summarist-backend-go/internal/billing"
	"summarist-backend-go/internal/cache"
	"summarist-backend-go/internal/db"
	"summarist-backend-go/internal/models"
)

type billingService struct {
	users       db.UserRepository
	subs        db.SubscriptionRepository
	checkouts   db.CheckoutSessionRepository
	events      db.WebhookEventRepository
	directory   AuthDirectory
	billing     billing.Client
	plans       *PlanTable
	statusCache cache.EntitlementCache
	logger      *zap.Logger
}

// NewBillingService creates a new instance of billingService.
func NewBillingService(
	users db.UserRepository,
	subs db.SubscriptionRepository,
	checkouts db.CheckoutSessionRepository,
	events db.WebhookEventRepository,
	directory AuthDirectory,
	billingClient billing.Client,
	plans *PlanTable,
	statusCache cache.EntitlementCache,
	logger *zap.Logger,
) BillingService {
	return &billingService{
		users:       users,
		subs:        subs,
		checkouts:   checkouts,
		events:      events,
		directory:   directory,
		billing:     billingClient,
		plans:       plans,
		statusCache: statusCache,
		logger:      logger,
	}
}

// Plans returns the purchasable plan catalog.
func (s *billingService) Plans() []models.Plan {
	return s.plans.List()
}

// CreateCheckoutSession opens a hosted Checkout Session for one of the
// configured plans, creating the user document and the Stripe customer on
// first purchase.
func (s *billingService) CreateCheckoutSession(ctx context.Context, userID string, req CheckoutRequest) (*billing.CheckoutSession, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user ID is required", ErrUnauthenticated)
	}
	if req.PriceID == "" || req.SuccessURL == "" || req.CancelURL == "" {
		return nil, fmt.Errorf("%w: priceId, successUrl and cancelUrl are required", ErrInvalidInput)
	}
	plan, ok := s.plans.Lookup(req.PriceID)
	if !ok {
		return nil, fmt.Errorf("%w: unknown priceId '%s'", ErrInvalidInput, req.PriceID)
	}

	user, err := s.ensureUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	customerID, err := s.ensureStripeCustomer(ctx, user)
	if err != nil {
		return nil, err
	}

	session, err := s.billing.CreateCheckoutSession(ctx, billing.CheckoutParams{
		CustomerID:        customerID,
		PriceID:           plan.PriceID,
		SuccessURL:        req.SuccessURL,
		CancelURL:         req.CancelURL,
		ClientReferenceID: userID,
		IdempotencyKey:    uuid.NewString(),
		TrialPeriodDays:   plan.TrialPeriodDays,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create checkout session: %v", ErrUpstream, err)
	}

	record := &models.CheckoutSessionRecord{
		SessionID:       session.ID,
		PriceID:         plan.PriceID,
		Mode:            "subscription",
		SuccessURL:      req.SuccessURL,
		CancelURL:       req.CancelURL,
		TrialPeriodDays: plan.TrialPeriodDays,
		BookID:          req.BookID,
	}
	if _, err := s.checkouts.Create(ctx, userID, record); err != nil {
		// The session is already live in Stripe; losing the log entry is not
		// a reason to fail the redirect.
		s.logger.Error("failed to record checkout session",
			zap.String("userID", userID),
			zap.String("sessionID", session.ID),
			zap.Error(err))
	}

	s.logger.Info("created checkout session",
		zap.String("userID", userID),
		zap.String("sessionID", session.ID),
		zap.String("priceID", plan.PriceID))
	return session, nil
}

// CreatePortalSession opens a Billing Portal session. The user must have
// been through checkout at least once, otherwise there is no customer to
// manage.
func (s *billingService) CreatePortalSession(ctx context.Context, userID, returnURL string) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("%w: user ID is required", ErrUnauthenticated)
	}
	if returnURL == "" {
		return "", fmt.Errorf("%w: returnUrl is required", ErrInvalidInput)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return "", fmt.Errorf("user '%s': %w", userID, ErrNotLinked)
		}
		return "", fmt.Errorf("failed to load user '%s': %w", userID, err)
	}
	if user.StripeCustomerID == "" {
		return "", fmt.Errorf("user '%s': %w", userID, ErrNotLinked)
	}

	url, err := s.billing.CreatePortalSession(ctx, user.StripeCustomerID, returnURL)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create portal session: %v", ErrUpstream, err)
	}
	return url, nil
}

// ensureUser loads the user document, creating it (with the directory
// email) when the user checks out before ever touching a profile endpoint.
// An existing document with no email gets it backfilled so the Stripe
// customer is created with a usable address.
func (s *billingService) ensureUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("failed to load user '%s': %w", userID, err)
		}
		user = &models.User{ID: userID, Email: s.directoryEmail(ctx, userID)}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to create user '%s': %w", userID, err)
		}
		return user, nil
	}

	if user.Email == "" {
		if email := s.directoryEmail(ctx, userID); email != "" {
			user.Email = email
			if err := s.users.Update(ctx, user); err != nil {
				s.logger.Warn("failed to backfill user email", zap.String("userID", userID), zap.Error(err))
			}
		}
	}
	return user, nil
}

func (s *billingService) directoryEmail(ctx context.Context, userID string) string {
	email, err := s.directory.GetUserEmail(ctx, userID)
	if err != nil {
		s.logger.Warn("failed to look up user email", zap.String("userID", userID), zap.Error(err))
		return ""
	}
	return email
}

// ensureStripeCustomer returns the user's Stripe customer ID, creating the
// customer on first use. The claim is transactional; if a concurrent
// checkout won the race, the freshly created duplicate is deleted and the
// stored ID is used.
func (s *billingService) ensureStripeCustomer(ctx context.Context, user *models.User) (string, error) {
	if user.StripeCustomerID != "" {
		return user.StripeCustomerID, nil
	}

	customerID, err := s.billing.CreateCustomer(ctx, user.ID, user.Email)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create billing customer: %v", ErrUpstream, err)
	}

	claimed, err := s.users.ClaimStripeCustomerID(ctx, user.ID, customerID)
	if err != nil {
		return "", fmt.Errorf("failed to claim customer ID for user '%s': %w", user.ID, err)
	}
	if claimed != customerID {
		s.logger.Warn("lost customer creation race, removing duplicate",
			zap.String("userID", user.ID),
			zap.String("duplicateCustomerID", customerID),
			zap.String("claimedCustomerID", claimed))
		if err := s.billing.DeleteCustomer(ctx, customerID); err != nil {
			s.logger.Warn("failed to delete duplicate customer",
				zap.String("customerID", customerID), zap.Error(err))
		}
	}
	user.StripeCustomerID = claimed
	return claimed, nil
}

// HandleStripeWebhook verifies and applies a Stripe event. Events are
// deduplicated by ID; redelivered or unrecognized events are acknowledged
// without side effects.
func (s *billingService) HandleStripeWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := s.billing.ConstructEvent(payload, signature)
	if err != nil {
		return err
	}

	seen, err := s.events.Seen(ctx, event.ID)
	if err != nil {
		return fmt.Errorf("failed to check event '%s': %w", event.ID, err)
	}
	if seen {
		s.logger.Info("skipping redelivered webhook event",
			zap.String("eventID", event.ID), zap.String("type", event.Type))
		return nil
	}

	switch event.Type {
	case "checkout.session.completed":
		err = s.handleCheckoutCompleted(ctx, event)
	case "customer.subscription.created", "customer.subscription.updated":
		err = s.handleSubscriptionChanged(ctx, event)
	case "customer.subscription.deleted":
		err = s.handleSubscriptionDeleted(ctx, event)
	case "invoice.payment_succeeded":
		err = s.handleInvoicePaid(ctx, event)
	default:
		s.logger.Debug("ignoring webhook event",
			zap.String("eventID", event.ID), zap.String("type", event.Type))
		return nil
	}
	if err != nil {
		return fmt.Errorf("event '%s' (%s): %w", event.ID, event.Type, err)
	}

	// Recorded only after successful handling so Stripe's retries can
	// recover a failed attempt. Subscription writes are idempotent upserts,
	// so the small double-processing window is harmless.
	if err := s.events.MarkProcessed(ctx, &models.WebhookEventRecord{ID: event.ID, Type: event.Type}); err != nil &&
		!errors.Is(err, db.ErrAlreadyProcessed) {
		s.logger.Warn("failed to record webhook event",
			zap.String("eventID", event.ID), zap.Error(err))
	}
	return nil
}

// handleCheckoutCompleted fetches the fresh subscription created by the
// completed session and mirrors it under the user identified by the
// session's client reference ID.
func (s *billingService) handleCheckoutCompleted(ctx context.Context, event *billing.Event) error {
	completed, err := event.CheckoutCompleted()
	if err != nil {
		return fmt.Errorf("failed to parse checkout payload: %w", err)
	}
	if !completed.SubscriptionMode || completed.SubscriptionID == "" {
		s.logger.Info("checkout completed without a subscription",
			zap.String("sessionID", completed.SessionID))
		return nil
	}

	userID := completed.ClientReferenceID
	if userID == "" {
		var err error
		userID, err = s.userIDForCustomer(ctx, completed.CustomerID)
		if err != nil {
			return err
		}
		if userID == "" {
			s.logger.Warn("checkout completed for unknown customer",
				zap.String("customerID", completed.CustomerID),
				zap.String("sessionID", completed.SessionID))
			return nil
		}
	}

	sub, err := s.billing.GetSubscription(ctx, completed.SubscriptionID)
	if err != nil {
		return fmt.Errorf("failed to fetch subscription '%s': %w", completed.SubscriptionID, err)
	}
	return s.applySubscription(ctx, userID, sub)
}

// handleSubscriptionChanged mirrors the state carried in the event payload
// itself; no extra Stripe round trip is needed.
func (s *billingService) handleSubscriptionChanged(ctx context.Context, event *billing.Event) error {
	sub, err := event.Subscription()
	if err != nil {
		return fmt.Errorf("failed to parse subscription payload: %w", err)
	}
	userID, err := s.userIDForCustomer(ctx, sub.CustomerID)
	if err != nil {
		return err
	}
	if userID == "" {
		s.logger.Warn("subscription change for unknown customer",
			zap.String("customerID", sub.CustomerID),
			zap.String("subscriptionID", sub.ID))
		return nil
	}
	return s.applySubscription(ctx, userID, sub)
}

func (s *billingService) handleSubscriptionDeleted(ctx context.Context, event *billing.Event) error {
	sub, err := event.Subscription()
	if err != nil {
		return fmt.Errorf("failed to parse subscription payload: %w", err)
	}
	userID, err := s.userIDForCustomer(ctx, sub.CustomerID)
	if err != nil {
		return err
	}
	if userID == "" {
		s.logger.Warn("subscription deletion for unknown customer",
			zap.String("customerID", sub.CustomerID),
			zap.String("subscriptionID", sub.ID))
		return nil
	}
	sub.Status = models.SubscriptionStatusCanceled
	if sub.CanceledAt == nil {
		now := time.Now().UTC()
		sub.CanceledAt = &now
	}
	return s.applySubscription(ctx, userID, sub)
}

// handleInvoicePaid covers renewals: the invoice carries the customer and
// subscription IDs, and the current subscription state is fetched so the
// mirror picks up the new period end. When Stripe cannot be reached the
// status alone is forced to active, which is what a paid invoice means.
func (s *billingService) handleInvoicePaid(ctx context.Context, event *billing.Event) error {
	invoice, err := event.InvoicePaid()
	if err != nil {
		return fmt.Errorf("failed to parse invoice payload: %w", err)
	}
	if invoice.SubscriptionID == "" {
		return nil // one-off invoice, nothing to reconcile
	}
	userID, err := s.userIDForCustomer(ctx, invoice.CustomerID)
	if err != nil {
		return err
	}
	if userID == "" {
		s.logger.Warn("paid invoice for unknown customer",
			zap.String("customerID", invoice.CustomerID),
			zap.String("invoiceID", invoice.InvoiceID))
		return nil
	}

	sub, err := s.billing.GetSubscription(ctx, invoice.SubscriptionID)
	if err != nil {
		s.logger.Warn("failed to fetch subscription after paid invoice, forcing status",
			zap.String("subscriptionID", invoice.SubscriptionID), zap.Error(err))
		if err := s.subs.UpdateStatus(ctx, userID, invoice.SubscriptionID, models.SubscriptionStatusActive); err != nil {
			return fmt.Errorf("failed to update subscription status: %w", err)
		}
		s.statusCache.Invalidate(ctx, userID)
		return nil
	}
	return s.applySubscription(ctx, userID, sub)
}

// applySubscription upserts the subscription mirror document and drops any
// cached entitlement answer for the user.
func (s *billingService) applySubscription(ctx context.Context, userID string, sub *billing.Subscription) error {
	doc := s.subscriptionDoc(sub)
	if err := s.subs.Upsert(ctx, userID, doc); err != nil {
		return fmt.Errorf("failed to upsert subscription '%s': %w", sub.ID, err)
	}
	s.statusCache.Invalidate(ctx, userID)
	s.logger.Info("applied subscription state",
		zap.String("userID", userID),
		zap.String("subscriptionID", sub.ID),
		zap.String("status", doc.Status))
	return nil
}

func (s *billingService) subscriptionDoc(sub *billing.Subscription) *models.Subscription {
	name := sub.ProductName
	if name == "" {
		if plan, ok := s.plans.Lookup(sub.PriceID); ok {
			name = plan.Name
		}
	}
	return &models.Subscription{
		ID:                sub.ID,
		Role:              models.RolePremium,
		Status:            sub.Status,
		PriceID:           sub.PriceID,
		ProductName:       name,
		CurrentPeriodEnd:  sub.CurrentPeriodEnd,
		TrialEnd:          sub.TrialEnd,
		CanceledAt:        sub.CanceledAt,
		CancelAtPeriodEnd: sub.CancelAtPeriodEnd,
		Created:           sub.Created,
	}
}

// userIDForCustomer maps a Stripe customer ID back to a Firebase UID. An
// empty result with nil error means no user document references the
// customer.
func (s *billingService) userIDForCustomer(ctx context.Context, customerID string) (string, error) {
	if customerID == "" {
		return "", nil
	}
	user, err := s.users.GetByStripeCustomerID(ctx, customerID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to resolve customer '%s': %w", customerID, err)
	}
	return user.ID, nil
}
