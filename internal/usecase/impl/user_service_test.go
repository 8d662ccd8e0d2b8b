package impl

import (
	"context"
	"testing"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/infra/persistence/memory"
	"storefront/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserService(store *memory.Store) (*userService, *fakeTokenService) {
	tokens := &fakeTokenService{}
	srv := &userService{
		txManager:    memory.NewTransactionManager(store),
		userRepo:     memory.NewUserRepository(store),
		storeRepo:    memory.NewStoreRepository(store),
		hasher:       fakeHasher{},
		tokenService: tokens,
		logger:       testLogger(),
	}

	return srv, tokens
}

func customerInput(email string) *usecase.CreateUserInput {
	return &usecase.CreateUserInput{
		Category:  entity.CategoryCustomer,
		Email:     email,
		FirstName: "Ana",
		LastName:  "Reyes",
		Password:  "secret-password",
		Country:   "Philippines",
		ZipCode:   "1000",
	}
}

func franchiseInput(email, username string) *usecase.CreateUserInput {
	in := customerInput(email)
	in.Category = entity.CategoryFranchise
	in.Username = username

	return in
}

func TestUserService_CreateUser_Customer(t *testing.T) {
	srv, _ := newUserService(newTestStore())
	ctx := context.Background()

	user, err := srv.CreateUser(ctx, customerInput("ana@example.com"))
	require.NoError(t, err)
	assert.Equal(t, "cu000001", user.ID)
	assert.Equal(t, entity.CategoryCustomer, user.Category)
	assert.Equal(t, "hashed:secret-password", user.PasswordHash)
	assert.True(t, user.IsActive)
	assert.False(t, user.IsOnline)
	assert.Equal(t, entity.SchemaVersion, user.SchemaVersion)

	second, err := srv.CreateUser(ctx, customerInput("ben@example.com"))
	require.NoError(t, err)
	assert.Equal(t, "cu000002", second.ID)
}

func TestUserService_CreateUser_Franchise(t *testing.T) {
	srv, _ := newUserService(newTestStore())

	user, err := srv.CreateUser(context.Background(), franchiseInput("shop@example.com", "shop_owner"))
	require.NoError(t, err)
	assert.Equal(t, "fr000001", user.ID)
	assert.Equal(t, entity.StoreStatusBuilding, user.StoreStatus)
}

func TestUserService_CreateUser_EmailConflict(t *testing.T) {
	srv, _ := newUserService(newTestStore())
	ctx := context.Background()

	_, err := srv.CreateUser(ctx, customerInput("ana@example.com"))
	require.NoError(t, err)

	_, err = srv.CreateUser(ctx, customerInput("ana@example.com"))
	assert.True(t, errors.Is(err, domainerrors.ErrEmailAlreadyExists))

	// A failed creation must not consume an identifier.
	user, err := srv.CreateUser(ctx, customerInput("ben@example.com"))
	require.NoError(t, err)
	assert.Equal(t, "cu000002", user.ID)
}

func TestUserService_CreateUser_UsernameRules(t *testing.T) {
	srv, _ := newUserService(newTestStore())
	ctx := context.Background()

	// Username is mandatory for non-customer categories.
	_, err := srv.CreateUser(ctx, franchiseInput("shop@example.com", ""))
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))

	_, err = srv.CreateUser(ctx, franchiseInput("shop@example.com", "no spaces here"))
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidUsername))

	_, err = srv.CreateUser(ctx, franchiseInput("shop@example.com", "shop_owner"))
	require.NoError(t, err)

	_, err = srv.CreateUser(ctx, franchiseInput("other@example.com", "shop_owner"))
	assert.True(t, errors.Is(err, domainerrors.ErrUsernameAlreadyExists))
}

func TestUserService_Login(t *testing.T) {
	srv, tokens := newUserService(newTestStore())
	ctx := context.Background()

	_, err := srv.CreateUser(ctx, customerInput("ana@example.com"))
	require.NoError(t, err)

	out, err := srv.Login(ctx, &usecase.LoginInput{Email: "ana@example.com", Password: "secret-password"})
	require.NoError(t, err)
	assert.Equal(t, "access-token", out.AccessToken)
	assert.Equal(t, "refresh-token", out.RefreshToken)
	assert.Equal(t, "cu000001", tokens.lastUserID)
	assert.Equal(t, "customer", tokens.lastCategory)
	assert.True(t, out.User.IsOnline)
	assert.NotNil(t, out.User.LastLoginAt)

	_, err = srv.Login(ctx, &usecase.LoginInput{Email: "ana@example.com", Password: "wrong"})
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))

	_, err = srv.Login(ctx, &usecase.LoginInput{Email: "ghost@example.com", Password: "secret-password"})
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestUserService_MigrateCategory_RoundTrip(t *testing.T) {
	store := newTestStore()
	srv, _ := newUserService(store)
	ctx := context.Background()

	created, err := srv.CreateUser(ctx, customerInput("ana@example.com"))
	require.NoError(t, err)
	customerID := created.ID

	// Upgrade allocates a fresh franchise identifier and retires the
	// customer record.
	upgraded, err := srv.MigrateCategory(ctx, customerID, entity.CategoryFranchise)
	require.NoError(t, err)
	assert.Equal(t, "fr000001", upgraded.UserID)

	_, err = srv.GetUser(ctx, customerID)
	assert.True(t, errors.Is(err, domainerrors.ErrUserNotFound))

	franchise, err := srv.GetUser(ctx, upgraded.UserID)
	require.NoError(t, err)
	assert.Equal(t, entity.CategoryFranchise, franchise.Category)
	assert.Equal(t, customerID, franchise.PreviousID)
	assert.Equal(t, entity.StoreStatusBuilding, franchise.StoreStatus)
	assert.Equal(t, "ana@example.com", franchise.Email)

	// Revert restores the original customer identifier and remembers the
	// vacated franchise identifier.
	reverted, err := srv.MigrateCategory(ctx, upgraded.UserID, entity.CategoryCustomer)
	require.NoError(t, err)
	assert.Equal(t, customerID, reverted.UserID)

	customer, err := srv.GetUser(ctx, customerID)
	require.NoError(t, err)
	assert.Equal(t, entity.CategoryCustomer, customer.Category)
	assert.Equal(t, "fr000001", customer.PreviousFranchiseID)
	assert.Empty(t, customer.PreviousID)

	// A second upgrade reclaims the vacated franchise identifier instead
	// of allocating a new one.
	again, err := srv.MigrateCategory(ctx, customerID, entity.CategoryFranchise)
	require.NoError(t, err)
	assert.Equal(t, "fr000001", again.UserID)
}

func TestUserService_MigrateCategory_RevertRequiresLineage(t *testing.T) {
	srv, _ := newUserService(newTestStore())
	ctx := context.Background()

	created, err := srv.CreateUser(ctx, franchiseInput("shop@example.com", "shop_owner"))
	require.NoError(t, err)

	// A franchise that never was a customer has no identifier to return to.
	_, err = srv.MigrateCategory(ctx, created.ID, entity.CategoryCustomer)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
}

func TestUserService_MigrateCategory_UnsupportedDirections(t *testing.T) {
	srv, _ := newUserService(newTestStore())
	ctx := context.Background()

	_, err := srv.MigrateCategory(ctx, "wm000001", entity.CategoryCustomer)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCategory))

	_, err = srv.MigrateCategory(ctx, "bogus-id", entity.CategoryFranchise)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
}

func TestUserService_ActivateStore(t *testing.T) {
	srv, _ := newUserService(newTestStore())
	ctx := context.Background()

	first, err := srv.CreateUser(ctx, franchiseInput("shop@example.com", "shop_owner"))
	require.NoError(t, err)

	out, err := srv.ActivateStore(ctx, &usecase.ActivateStoreInput{
		FranchiseID: first.ID,
		StoreName:   "Manila Fresh Goods",
	})
	require.NoError(t, err)
	assert.Equal(t, "manila-fresh-goods", out.StoreSlug)

	user, err := srv.GetUser(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StoreStatusActive, user.StoreStatus)
	assert.Equal(t, "Manila Fresh Goods", user.StoreName)

	// A second franchise with the same store name gets a suffixed slug.
	second, err := srv.CreateUser(ctx, franchiseInput("other@example.com", "other_owner"))
	require.NoError(t, err)

	out2, err := srv.ActivateStore(ctx, &usecase.ActivateStoreInput{
		FranchiseID: second.ID,
		StoreName:   "Manila Fresh Goods",
	})
	require.NoError(t, err)
	assert.Equal(t, "manila-fresh-goods-"+second.ID, out2.StoreSlug)
}

func TestUserService_ActivateStore_CustomerForbidden(t *testing.T) {
	srv, _ := newUserService(newTestStore())
	ctx := context.Background()

	customer, err := srv.CreateUser(ctx, customerInput("ana@example.com"))
	require.NoError(t, err)

	_, err = srv.ActivateStore(ctx, &usecase.ActivateStoreInput{
		FranchiseID: customer.ID,
		StoreName:   "Side Hustle",
	})
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))
}

func TestUserService_UpdateAndDelete(t *testing.T) {
	srv, _ := newUserService(newTestStore())
	ctx := context.Background()

	created, err := srv.CreateUser(ctx, customerInput("ana@example.com"))
	require.NoError(t, err)

	updated, err := srv.UpdateUser(ctx, created.ID, &usecase.UpdateUserInput{
		FirstName: "Anna",
		LastName:  "Reyes",
		City:      "Cebu",
	})
	require.NoError(t, err)
	assert.Equal(t, "Anna", updated.FirstName)
	assert.Equal(t, "Cebu", updated.City)
	// Email and category are immutable through this path.
	assert.Equal(t, "ana@example.com", updated.Email)

	require.NoError(t, srv.DeleteUser(ctx, created.ID))
	_, err = srv.GetUser(ctx, created.ID)
	assert.True(t, errors.Is(err, domainerrors.ErrUserNotFound))

	err = srv.DeleteUser(ctx, created.ID)
	assert.True(t, errors.Is(err, domainerrors.ErrUserNotFound))
}
