package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"summarist-backend-go/internal/models"
)

type userFixture struct {
	users   *fakeUserRepo
	subs    *fakeSubscriptionRepo
	library *fakeLibraryRepo
	client  *fakeBillingClient
	cache   *fakeCache
	service UserService
}

func newUserFixture() *userFixture {
	f := &userFixture{
		users:   newFakeUserRepo(),
		subs:    newFakeSubscriptionRepo(),
		library: newFakeLibraryRepo(),
		client:  newFakeBillingClient(),
		cache:   newFakeCache(),
	}
	f.service = NewUserService(f.users, f.subs, f.library, f.client, f.cache, zap.NewNop())
	return f
}

func TestGetOrCreateNewUser(t *testing.T) {
	f := newUserFixture()
	ctx := context.Background()

	user, created, err := f.service.GetOrCreate(ctx, "user-1", "reader@example.com", "Reader", "https://example.com/p.png")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "reader@example.com", user.Email)

	again, created, err := f.service.GetOrCreate(ctx, "user-1", "changed@example.com", "", "")
	require.NoError(t, err)
	assert.False(t, created)
	// The stored profile wins over later token claims.
	assert.Equal(t, "reader@example.com", again.Email)
}

func TestGetByIDMissingUser(t *testing.T) {
	f := newUserFixture()

	_, err := f.service.GetByID(context.Background(), "user-404")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteAccountTearsEverythingDown(t *testing.T) {
	f := newUserFixture()
	ctx := context.Background()

	require.NoError(t, f.users.Create(ctx, &models.User{ID: "user-1", Email: "reader@example.com", StripeCustomerID: "cus_1"}))
	require.NoError(t, f.subs.Upsert(ctx, "user-1", &models.Subscription{ID: "sub_1", Role: models.RolePremium, Status: models.SubscriptionStatusActive}))
	require.NoError(t, f.library.Set(ctx, "user-1", &models.LibraryEntry{BookID: "book-1", Title: "Deep Work"}))
	f.cache.Set(ctx, "user-1", &models.PremiumStatus{IsPremium: true})

	require.NoError(t, f.service.DeleteAccount(ctx, "user-1"))

	_, err := f.users.GetByID(ctx, "user-1")
	require.Error(t, err)
	assert.Empty(t, f.subs.subs["user-1"])
	assert.Empty(t, f.library.entries["user-1"])
	assert.Contains(t, f.client.deletedCustomers, "cus_1")

	_, hit := f.cache.Get(ctx, "user-1")
	assert.False(t, hit)
}

func TestDeleteAccountMissingUser(t *testing.T) {
	f := newUserFixture()

	err := f.service.DeleteAccount(context.Background(), "user-404")
	require.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, f.client.deletedCustomers)
}

func TestDeleteAccountWithoutStripeCustomer(t *testing.T) {
	f := newUserFixture()
	ctx := context.Background()

	require.NoError(t, f.users.Create(ctx, &models.User{ID: "user-1", Email: "reader@example.com"}))

	require.NoError(t, f.service.DeleteAccount(ctx, "user-1"))
	assert.Empty(t, f.client.deletedCustomers)
}
