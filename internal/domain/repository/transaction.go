package repository

import "context"

// TransactionManager defines the interface for managing storage transactions.
// This allows the use case layer to handle transactions without depending on a
// specific storage client.
type TransactionManager interface {
	// Execute runs a function within a storage transaction.
	// If the function returns an error, the transaction is rolled back. Otherwise, it's committed.
	// All repository operations within the function must go through the factory
	// so they share the same transaction.
	Execute(ctx context.Context, fn func(txRepoFactory RepositoryFactory) error) error
}

// RepositoryFactory provides repository instances bound to a specific transaction.
type RepositoryFactory interface {
	// Users returns a UserRepository bound to the current transaction.
	Users() UserRepository

	// Orders returns an OrderRepository bound to the current transaction.
	Orders() OrderRepository

	// Counters returns a CounterRepository bound to the current transaction.
	Counters() CounterRepository

	// Stores returns a StoreRepository bound to the current transaction.
	Stores() StoreRepository
}
