package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/entity"
)

// ErrOrderNotFound is a domain-specific error returned when an order is not found.
var ErrOrderNotFound = errors.New("order not found")

// OrderRepository defines the standard operations for order persistence.
type OrderRepository interface {
	// FindByID retrieves a single order by document identifier, or nil
	// when the order does not exist.
	FindByID(ctx context.Context, id string) (*entity.Order, error)

	// FindByCodeAndOwner retrieves orders matching BOTH the order code
	// and the owner identifier. Filtering by both fields is the
	// authorization boundary; implementations must never relax this to a
	// code-only lookup.
	FindByCodeAndOwner(ctx context.Context, orderCode, ownerID string) ([]*entity.Order, error)

	// FindByOwner retrieves all orders owned by one customer.
	FindByOwner(ctx context.Context, ownerID string) ([]*entity.Order, error)

	// FindByFranchise retrieves all orders for one franchise storefront.
	FindByFranchise(ctx context.Context, franchiseID string) ([]*entity.Order, error)

	// FindAll retrieves every order across all storefronts. Reserved for
	// the webmaster console; delivery-layer role gating keeps it off the
	// customer and franchise surfaces.
	FindAll(ctx context.Context) ([]*entity.Order, error)

	// CountByOwner returns the number of existing orders owned by ownerID.
	CountByOwner(ctx context.Context, ownerID string) (int, error)

	// Create persists a new order and fills in its document identifier.
	Create(ctx context.Context, order *entity.Order) error

	// UpdateStatus persists a status change, stamping the update time and
	// resetting the follow-up flag to false.
	UpdateStatus(ctx context.Context, id string, status entity.OrderStatus, payment *entity.PaymentDetails) error

	// UpdateFollowUp persists only the follow-up flag and the update time.
	UpdateFollowUp(ctx context.Context, id string, followUp bool) error
}

// OrderWatcher delivers push notifications for the franchise-scoped live
// order feed. Every change to the matching set yields the full refreshed
// list, not an incremental delta.
type OrderWatcher interface {
	// WatchByFranchise invokes fn with the refreshed order list on every
	// change until ctx is cancelled or the returned stop function is
	// called. Callers must stop the watch when the consuming view goes
	// away to avoid leaking a permanent listener.
	WatchByFranchise(ctx context.Context, franchiseID string, fn func([]*entity.Order)) (stop func(), err error)
}
