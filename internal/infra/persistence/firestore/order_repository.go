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

// orderRepository implements the domain OrderRepository interface on
// Firestore. A nil tx means operations run against the client directly.
type orderRepository struct {
	client *firestore.Client
	tx     *firestore.Transaction
}

// NewOrderRepository is the constructor for orderRepository.
func NewOrderRepository(client *firestore.Client) repository.OrderRepository {
	return &orderRepository{client: client}
}

func (repo *orderRepository) orders() *firestore.CollectionRef {
	return repo.client.Collection(ordersCollection)
}

func (repo *orderRepository) runQuery(ctx context.Context, q firestore.Query) *firestore.DocumentIterator {
	if repo.tx != nil {
		return repo.tx.Documents(q)
	}

	return q.Documents(ctx)
}

// FindByID retrieves a single order by document identifier, or nil when
// the order does not exist.
func (repo *orderRepository) FindByID(ctx context.Context, id string) (*entity.Order, error) {
	ref := repo.orders().Doc(id)

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

		return nil, errors.Wrap(err, "failed to find order by id")
	}

	var m model.OrderModel
	if err := snap.DataTo(&m); err != nil {
		return nil, errors.Wrap(err, "failed to decode order document")
	}

	return m.ToOrderDomain(snap.Ref.ID), nil
}

// FindByCodeAndOwner retrieves orders matching both the order code and
// the owner identifier. Both filters together are the authorization
// boundary for tracking lookups.
func (repo *orderRepository) FindByCodeAndOwner(ctx context.Context, orderCode, ownerID string) ([]*entity.Order, error) {
	q := repo.orders().Query.
		Where("orderCode", "==", orderCode).
		Where("userId", "==", ownerID)

	return repo.findAll(ctx, q)
}

// FindByOwner retrieves all orders owned by one customer.
func (repo *orderRepository) FindByOwner(ctx context.Context, ownerID string) ([]*entity.Order, error) {
	return repo.findAll(ctx, repo.orders().Query.Where("userId", "==", ownerID))
}

// FindByFranchise retrieves all orders for one franchise storefront.
func (repo *orderRepository) FindByFranchise(ctx context.Context, franchiseID string) ([]*entity.Order, error) {
	return repo.findAll(ctx, repo.orders().Query.Where("franchiseId", "==", franchiseID))
}

// FindAll retrieves every order in the collection. Webmaster console
// query; never exposed on customer or franchise surfaces.
func (repo *orderRepository) FindAll(ctx context.Context) ([]*entity.Order, error) {
	return repo.findAll(ctx, repo.orders().Query)
}

func (repo *orderRepository) findAll(ctx context.Context, q firestore.Query) ([]*entity.Order, error) {
	iter := repo.runQuery(ctx, q)
	defer iter.Stop()

	var orders []*entity.Order
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "failed to query orders")
		}

		var m model.OrderModel
		if err := snap.DataTo(&m); err != nil {
			return nil, errors.Wrap(err, "failed to decode order document")
		}
		orders = append(orders, m.ToOrderDomain(snap.Ref.ID))
	}

	return orders, nil
}

// CountByOwner returns the number of existing orders owned by ownerID.
// Inside a transaction the count is consistent with the pending writes,
// which is what the per-customer order sequence relies on.
func (repo *orderRepository) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	// Select() fetches document references only, no field data.
	q := repo.orders().Query.Where("userId", "==", ownerID).Select()

	iter := repo.runQuery(ctx, q)
	defer iter.Stop()

	count := 0
	for {
		_, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return 0, errors.Wrap(err, "failed to count orders")
		}
		count++
	}

	return count, nil
}

// Create persists a new order under a storage-generated identifier and
// fills it back into the entity.
func (repo *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	ref := repo.orders().NewDoc()
	m := model.FromOrderDomain(order)

	var err error
	if repo.tx != nil {
		err = repo.tx.Create(ref, m)
	} else {
		_, err = ref.Create(ctx, m)
	}
	if err != nil {
		return errors.Wrap(err, "failed to create order")
	}
	order.ID = ref.ID

	return nil
}

// UpdateStatus persists a status change, stamping the update time and
// resetting the follow-up flag to false. A non-nil payment snapshot is
// written alongside.
func (repo *orderRepository) UpdateStatus(ctx context.Context, id string, orderStatus entity.OrderStatus, payment *entity.PaymentDetails) error {
	updates := []firestore.Update{
		{Path: "status", Value: string(orderStatus)},
		{Path: "followUp", Value: false},
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	}
	if payment != nil {
		updates = append(updates, firestore.Update{
			Path: "payment",
			Value: &model.PaymentDetailsModel{
				Method:          payment.Method,
				Amount:          payment.Amount,
				ReferenceNumber: payment.ReferenceNumber,
				SubmittedAt:     payment.SubmittedAt,
			},
		})
	}

	return repo.update(ctx, id, updates)
}

// UpdateFollowUp persists only the follow-up flag and the update time.
func (repo *orderRepository) UpdateFollowUp(ctx context.Context, id string, followUp bool) error {
	return repo.update(ctx, id, []firestore.Update{
		{Path: "followUp", Value: followUp},
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	})
}

func (repo *orderRepository) update(ctx context.Context, id string, updates []firestore.Update) error {
	ref := repo.orders().Doc(id)

	var err error
	if repo.tx != nil {
		err = repo.tx.Update(ref, updates)
	} else {
		_, err = ref.Update(ctx, updates)
	}
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return repository.ErrOrderNotFound
		}

		return errors.Wrap(err, "failed to update order")
	}

	return nil
}
