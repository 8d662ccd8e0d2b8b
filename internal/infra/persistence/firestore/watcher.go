package firestore

import (
	"context"
	"log/slog"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/repository"
	"storefront/internal/infra/persistence/model"

	"cloud.google.com/go/firestore"
	"github.com/pkg/errors"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// orderWatcher implements the domain OrderWatcher interface using
// Firestore query snapshot listeners. Every snapshot yields the full
// refreshed order list for the franchise, never a delta.
type orderWatcher struct {
	client *firestore.Client
	logger *slog.Logger
}

// NewOrderWatcher is the constructor for orderWatcher.
func NewOrderWatcher(client *firestore.Client, logger *slog.Logger) repository.OrderWatcher {
	return &orderWatcher{client: client, logger: logger}
}

// WatchByFranchise invokes fn with the refreshed order list on every
// change until ctx is cancelled or the returned stop function is called.
func (w *orderWatcher) WatchByFranchise(ctx context.Context, franchiseID string, fn func([]*entity.Order)) (func(), error) {
	watchCtx, cancel := context.WithCancel(ctx)

	q := w.client.Collection(ordersCollection).Query.Where("franchiseId", "==", franchiseID)
	snaps := q.Snapshots(watchCtx)

	go func() {
		defer snaps.Stop()

		for {
			snap, err := snaps.Next()
			if err != nil {
				if status.Code(err) == codes.Canceled || errors.Is(err, context.Canceled) {
					return
				}
				w.logger.Error("Order watch terminated",
					slog.String("franchise_id", franchiseID),
					slog.Any("error", err),
				)

				return
			}

			orders, err := decodeSnapshot(snap)
			if err != nil {
				w.logger.Error("Failed to decode watched orders",
					slog.String("franchise_id", franchiseID),
					slog.Any("error", err),
				)

				continue
			}

			fn(orders)
		}
	}()

	return cancel, nil
}

func decodeSnapshot(snap *firestore.QuerySnapshot) ([]*entity.Order, error) {
	var orders []*entity.Order
	for {
		doc, err := snap.Documents.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "failed to iterate snapshot")
		}

		var m model.OrderModel
		if err := doc.DataTo(&m); err != nil {
			return nil, errors.Wrap(err, "failed to decode order document")
		}
		orders = append(orders, m.ToOrderDomain(doc.Ref.ID))
	}

	return orders, nil
}
