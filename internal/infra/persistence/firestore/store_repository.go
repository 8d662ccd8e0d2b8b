package firestore

import (
	"context"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/repository"
	"storefront/internal/infra/persistence/model"

	"cloud.google.com/go/firestore"
	"github.com/pkg/errors"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// storeRepository implements the domain StoreRepository interface on
// Firestore, keyed by slug.
type storeRepository struct {
	client *firestore.Client
	tx     *firestore.Transaction
}

// NewStoreRepository is the constructor for storeRepository.
func NewStoreRepository(client *firestore.Client) repository.StoreRepository {
	return &storeRepository{client: client}
}

func (repo *storeRepository) stores() *firestore.CollectionRef {
	return repo.client.Collection(storesCollection)
}

// FindBySlug retrieves a store by its slug, or nil when absent.
func (repo *storeRepository) FindBySlug(ctx context.Context, slug string) (*entity.Store, error) {
	ref := repo.stores().Doc(slug)

	var snap *firestore.DocumentSnapshot
	var err error
	if repo.tx != nil {
		snap, err = repo.tx.Get(ref)
	} else {
		snap, err = ref.Get(ctx)
	}
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}

		return nil, errors.Wrap(err, "failed to find store by slug")
	}

	var m model.StoreModel
	if err := snap.DataTo(&m); err != nil {
		return nil, errors.Wrap(err, "failed to decode store document")
	}

	return m.ToStoreDomain(snap.Ref.ID), nil
}

// FindByFranchise retrieves the store owned by a franchise, or nil.
func (repo *storeRepository) FindByFranchise(ctx context.Context, franchiseID string) (*entity.Store, error) {
	q := repo.stores().Query.Where("franchiseId", "==", franchiseID).Limit(1)

	var iter *firestore.DocumentIterator
	if repo.tx != nil {
		iter = repo.tx.Documents(q)
	} else {
		iter = q.Documents(ctx)
	}
	defer iter.Stop()

	snap, err := iter.Next()
	if errors.Is(err, iterator.Done) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to query stores")
	}

	var m model.StoreModel
	if err := snap.DataTo(&m); err != nil {
		return nil, errors.Wrap(err, "failed to decode store document")
	}

	return m.ToStoreDomain(snap.Ref.ID), nil
}

// Put creates or replaces the store record under its slug.
func (repo *storeRepository) Put(ctx context.Context, store *entity.Store) error {
	ref := repo.stores().Doc(store.Slug)
	m := model.FromStoreDomain(store)

	var err error
	if repo.tx != nil {
		err = repo.tx.Set(ref, m)
	} else {
		_, err = ref.Set(ctx, m)
	}
	if err != nil {
		return errors.Wrap(err, "failed to put store")
	}

	return nil
}
