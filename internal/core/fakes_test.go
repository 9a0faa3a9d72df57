package core

import (
	"context"
	"fmt"
	"sync"

	"summarist-backend-go/internal/billing"
	"summarist-backend-go/internal/db"
	"summarist-backend-go/internal/models"
)

// In-memory fakes for the repository and billing interfaces. They keep
// the behavior the services rely on: sentinel errors, transactional
// customer claims, and document-per-ID upserts.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*models.User{}}
}

func (r *fakeUserRepo) GetByID(_ context.Context, userID string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return nil, db.ErrNotFound
	}
	cp := *user
	return &cp, nil
}

func (r *fakeUserRepo) GetByStripeCustomerID(_ context.Context, customerID string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.StripeCustomerID == customerID {
			cp := *user
			return &cp, nil
		}
	}
	return nil, db.ErrNotFound
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return db.ErrNotFound
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) ClaimStripeCustomerID(_ context.Context, userID, customerID string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return "", db.ErrNotFound
	}
	if user.StripeCustomerID != "" {
		return user.StripeCustomerID, nil
	}
	user.StripeCustomerID = customerID
	return customerID, nil
}

func (r *fakeUserRepo) Delete(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, userID)
	return nil
}

type fakeSubscriptionRepo struct {
	mu   sync.Mutex
	subs map[string]map[string]*models.Subscription // userID -> subID -> doc
}

func newFakeSubscriptionRepo() *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{subs: map[string]map[string]*models.Subscription{}}
}

func (r *fakeSubscriptionRepo) Upsert(_ context.Context, userID string, sub *models.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.subs[userID] == nil {
		r.subs[userID] = map[string]*models.Subscription{}
	}
	cp := *sub
	r.subs[userID][sub.ID] = &cp
	return nil
}

func (r *fakeSubscriptionRepo) GetByID(_ context.Context, userID, subscriptionID string) (*models.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sub, ok := r.subs[userID][subscriptionID]
	if !ok {
		return nil, db.ErrNotFound
	}
	cp := *sub
	return &cp, nil
}

func (r *fakeSubscriptionRepo) ListByUser(_ context.Context, userID string) ([]*models.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Subscription
	for _, sub := range r.subs[userID] {
		cp := *sub
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeSubscriptionRepo) UpdateStatus(_ context.Context, userID, subscriptionID, newStatus string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	sub, ok := r.subs[userID][subscriptionID]
	if !ok {
		return db.ErrNotFound
	}
	sub.Status = newStatus
	return nil
}

func (r *fakeSubscriptionRepo) DeleteAllForUser(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.subs, userID)
	return nil
}

type fakeCheckoutRepo struct {
	mu      sync.Mutex
	records map[string][]*models.CheckoutSessionRecord
}

func newFakeCheckoutRepo() *fakeCheckoutRepo {
	return &fakeCheckoutRepo{records: map[string][]*models.CheckoutSessionRecord{}}
}

func (r *fakeCheckoutRepo) Create(_ context.Context, userID string, record *models.CheckoutSessionRecord) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *record
	r.records[userID] = append(r.records[userID], &cp)
	return fmt.Sprintf("rec-%d", len(r.records[userID])), nil
}

type fakeEventRepo struct {
	mu   sync.Mutex
	seen map[string]string // eventID -> type
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{seen: map[string]string{}}
}

func (r *fakeEventRepo) Seen(_ context.Context, eventID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.seen[eventID]
	return ok, nil
}

func (r *fakeEventRepo) MarkProcessed(_ context.Context, record *models.WebhookEventRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.seen[record.ID]; ok {
		return db.ErrAlreadyProcessed
	}
	r.seen[record.ID] = record.Type
	return nil
}

type fakeLibraryRepo struct {
	mu      sync.Mutex
	entries map[string]map[string]*models.LibraryEntry
}

func newFakeLibraryRepo() *fakeLibraryRepo {
	return &fakeLibraryRepo{entries: map[string]map[string]*models.LibraryEntry{}}
}

func (r *fakeLibraryRepo) List(_ context.Context, userID string) ([]*models.LibraryEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.LibraryEntry
	for _, entry := range r.entries[userID] {
		cp := *entry
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeLibraryRepo) Get(_ context.Context, userID, bookID string) (*models.LibraryEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[userID][bookID]
	if !ok {
		return nil, db.ErrNotFound
	}
	cp := *entry
	return &cp, nil
}

func (r *fakeLibraryRepo) Set(_ context.Context, userID string, entry *models.LibraryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.entries[userID] == nil {
		r.entries[userID] = map[string]*models.LibraryEntry{}
	}
	cp := *entry
	r.entries[userID][entry.BookID] = &cp
	return nil
}

func (r *fakeLibraryRepo) Delete(_ context.Context, userID, bookID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries[userID], bookID)
	return nil
}

func (r *fakeLibraryRepo) ToggleFinished(_ context.Context, userID, bookID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[userID][bookID]
	if !ok {
		return false, db.ErrNotFound
	}
	entry.Finished = !entry.Finished
	return entry.Finished, nil
}

func (r *fakeLibraryRepo) DeleteAllForUser(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, userID)
	return nil
}

type fakeCache struct {
	mu            sync.Mutex
	values        map[string]*models.PremiumStatus
	invalidations []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: map[string]*models.PremiumStatus{}}
}

func (c *fakeCache) Get(_ context.Context, userID string) (*models.PremiumStatus, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	status, ok := c.values[userID]
	return status, ok
}

func (c *fakeCache) Set(_ context.Context, userID string, status *models.PremiumStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[userID] = status
}

func (c *fakeCache) Invalidate(_ context.Context, userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, userID)
	c.invalidations = append(c.invalidations, userID)
}

type fakeDirectory struct {
	emails map[string]string
}

func (d *fakeDirectory) GetUserEmail(_ context.Context, userID string) (string, error) {
	email, ok := d.emails[userID]
	if !ok {
		return "", db.ErrNotFound
	}
	return email, nil
}

// fakeBillingClient scripts the provider side: created customers and
// sessions are counted, subscriptions are served from a map, and
// ConstructEvent returns whatever the test staged.
type fakeBillingClient struct {
	mu sync.Mutex

	createCustomerCalls int
	deletedCustomers    []string
	checkoutCalls       []billing.CheckoutParams

	subscriptions map[string]*billing.Subscription

	event        *billing.Event
	constructErr error
}

func newFakeBillingClient() *fakeBillingClient {
	return &fakeBillingClient{subscriptions: map[string]*billing.Subscription{}}
}

func (f *fakeBillingClient) CreateCustomer(_ context.Context, userID, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCustomerCalls++
	return fmt.Sprintf("cus_%s_%d", userID, f.createCustomerCalls), nil
}

func (f *fakeBillingClient) DeleteCustomer(_ context.Context, customerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletedCustomers = append(f.deletedCustomers, customerID)
	return nil
}

func (f *fakeBillingClient) CreateCheckoutSession(_ context.Context, params billing.CheckoutParams) (*billing.CheckoutSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.checkoutCalls = append(f.checkoutCalls, params)
	id := fmt.Sprintf("cs_test_%d", len(f.checkoutCalls))
	return &billing.CheckoutSession{ID: id, URL: "https://checkout.stripe.com/c/pay/" + id}, nil
}

func (f *fakeBillingClient) CreatePortalSession(_ context.Context, customerID, _ string) (string, error) {
	return "https://billing.stripe.com/p/session/" + customerID, nil
}

func (f *fakeBillingClient) GetSubscription(_ context.Context, subscriptionID string) (*billing.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sub, ok := f.subscriptions[subscriptionID]
	if !ok {
		return nil, fmt.Errorf("no such subscription: %s", subscriptionID)
	}
	cp := *sub
	return &cp, nil
}

func (f *fakeBillingClient) ConstructEvent(_ []byte, _ string) (*billing.Event, error) {
	if f.constructErr != nil {
		return nil, f.constructErr
	}
	return f.event, nil
}
