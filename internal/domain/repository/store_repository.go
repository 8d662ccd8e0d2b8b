package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/entity"
)

// ErrStoreNotFound is a domain-specific error returned when a store is not found.
var ErrStoreNotFound = errors.New("store not found")

// StoreRepository defines the operations for slug-keyed store records.
type StoreRepository interface {
	// FindBySlug retrieves a store by its slug, or nil when absent.
	FindBySlug(ctx context.Context, slug string) (*entity.Store, error)

	// FindByFranchise retrieves the store owned by a franchise, or nil.
	FindByFranchise(ctx context.Context, franchiseID string) (*entity.Store, error)

	// Put creates or replaces the store record under its slug.
	Put(ctx context.Context, store *entity.Store) error
}
