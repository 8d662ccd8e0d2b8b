package impl

import (
	"context"
	"sync"
	"testing"
	"time"

	"storefront/internal/domain/entity"
	"storefront/internal/infra/persistence/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func newIdentityService(store *memory.Store) *identityService {
	return &identityService{
		txManager: memory.NewTransactionManager(store),
		logger:    testLogger(),
	}
}

func TestIdentityService_AllocateID_Customer(t *testing.T) {
	srv := newIdentityService(newTestStore())
	ctx := context.Background()

	first, err := srv.AllocateID(ctx, entity.CategoryCustomer)
	require.NoError(t, err)
	assert.Equal(t, "cu000001", first)

	second, err := srv.AllocateID(ctx, entity.CategoryCustomer)
	require.NoError(t, err)
	assert.Equal(t, "cu000002", second)
}

func TestIdentityService_AllocateID_NamespacesAreIndependent(t *testing.T) {
	srv := newIdentityService(newTestStore())
	ctx := context.Background()

	customer, err := srv.AllocateID(ctx, entity.CategoryCustomer)
	require.NoError(t, err)
	franchise, err := srv.AllocateID(ctx, entity.CategoryFranchise)
	require.NoError(t, err)

	assert.Equal(t, "cu000001", customer)
	assert.Equal(t, "fr000001", franchise)
}

func TestIdentityService_AllocateID_ScanBasedNamespaces(t *testing.T) {
	store := newTestStore()
	srv := newIdentityService(store)
	ctx := context.Background()

	// Webmaster allocation scans existing records rather than a counter.
	first, err := srv.AllocateID(ctx, entity.CategoryWebmaster)
	require.NoError(t, err)
	assert.Equal(t, "wm000001", first)

	users := memory.NewUserRepository(store)
	require.NoError(t, users.Create(ctx, &entity.User{
		ID:        "wm000004",
		Category:  entity.CategoryWebmaster,
		Email:     "admin@example.com",
		CreatedAt: time.Now(),
	}))

	next, err := srv.AllocateID(ctx, entity.CategoryWebmaster)
	require.NoError(t, err)
	assert.Equal(t, "wm000005", next)
}

func TestIdentityService_AllocateID_UnknownCategory(t *testing.T) {
	srv := newIdentityService(newTestStore())

	_, err := srv.AllocateID(context.Background(), entity.Category("vendor"))
	assert.Error(t, err)
}

func TestIdentityService_AllocateID_ConcurrentAllocationsAreUnique(t *testing.T) {
	srv := newIdentityService(newTestStore())
	ctx := context.Background()

	const allocations = 50

	var mu sync.Mutex
	seen := make(map[string]bool)

	var group errgroup.Group
	for i := 0; i < allocations; i++ {
		group.Go(func() error {
			id, err := srv.AllocateID(ctx, entity.CategoryCustomer)
			if err != nil {
				return err
			}
			mu.Lock()
			seen[id] = true
			mu.Unlock()

			return nil
		})
	}
	require.NoError(t, group.Wait())

	assert.Len(t, seen, allocations)
	assert.True(t, seen["cu000001"])
	assert.True(t, seen["cu000050"])
}
