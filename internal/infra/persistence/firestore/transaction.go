package firestore

import (
	"context"

	"storefront/internal/domain/repository"

	"cloud.google.com/go/firestore"
	"github.com/pkg/errors"
)

// firestoreTransactionManager implements the domain's TransactionManager
// interface using Firestore transactions.
type firestoreTransactionManager struct {
	client *firestore.Client
}

// firestoreRepositoryFactory implements the domain's RepositoryFactory
// interface. Every repository it hands out is bound to one transaction,
// so reads and writes through it share the transaction's snapshot and
// commit atomically.
type firestoreRepositoryFactory struct {
	client *firestore.Client
	tx     *firestore.Transaction
}

// Users returns a UserRepository bound to the current transaction.
func (f *firestoreRepositoryFactory) Users() repository.UserRepository {
	return &userRepository{client: f.client, tx: f.tx}
}

// Orders returns an OrderRepository bound to the current transaction.
func (f *firestoreRepositoryFactory) Orders() repository.OrderRepository {
	return &orderRepository{client: f.client, tx: f.tx}
}

// Counters returns a CounterRepository bound to the current transaction.
func (f *firestoreRepositoryFactory) Counters() repository.CounterRepository {
	return &counterRepository{client: f.client, tx: f.tx}
}

// Stores returns a StoreRepository bound to the current transaction.
func (f *firestoreRepositoryFactory) Stores() repository.StoreRepository {
	return &storeRepository{client: f.client, tx: f.tx}
}

// NewTransactionManager is the constructor for firestoreTransactionManager.
func NewTransactionManager(client *firestore.Client) repository.TransactionManager {
	return &firestoreTransactionManager{client: client}
}

// Execute runs the given function within a single Firestore transaction.
// Firestore retries fn on contention, so fn must be side-effect free
// outside the repositories it receives.
func (tm *firestoreTransactionManager) Execute(ctx context.Context, fn func(repoFactory repository.RepositoryFactory) error) error {
	err := tm.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		factory := &firestoreRepositoryFactory{client: tm.client, tx: tx}

		return fn(factory)
	})
	if err != nil {
		return errors.Wrap(err, "transaction failed")
	}

	return nil
}
