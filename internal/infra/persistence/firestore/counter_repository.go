package firestore

import (
	"context"

	"storefront/internal/domain/repository"
	"storefront/internal/infra/persistence/model"

	"cloud.google.com/go/firestore"
	"github.com/pkg/errors"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// counterRepository implements the domain CounterRepository interface on
// Firestore. The read-increment-write is only atomic when bound to a
// transaction; the transaction manager always hands out the bound form.
type counterRepository struct {
	client *firestore.Client
	tx     *firestore.Transaction
}

// NewCounterRepository is the constructor for counterRepository.
func NewCounterRepository(client *firestore.Client) repository.CounterRepository {
	return &counterRepository{client: client}
}

// Next reads the counter, increments it by one, persists the new value
// and returns it. A missing counter document reads as zero, so the first
// allocation yields 1.
func (repo *counterRepository) Next(ctx context.Context, name string) (int64, error) {
	ref := repo.client.Collection(countersCollection).Doc(name)

	var m model.CounterModel

	var snap *firestore.DocumentSnapshot
	var err error
	if repo.tx != nil {
		snap, err = repo.tx.Get(ref)
	} else {
		snap, err = ref.Get(ctx)
	}
	switch {
	case status.Code(err) == codes.NotFound:
		m.Value = 0
	case err != nil:
		return 0, errors.Wrapf(err, "failed to read counter %s", name)
	default:
		if err := snap.DataTo(&m); err != nil {
			return 0, errors.Wrapf(err, "failed to decode counter %s", name)
		}
	}

	m.Value++

	if repo.tx != nil {
		err = repo.tx.Set(ref, &m)
	} else {
		_, err = ref.Set(ctx, &m)
	}
	if err != nil {
		return 0, errors.Wrapf(err, "failed to write counter %s", name)
	}

	return m.Value, nil
}
