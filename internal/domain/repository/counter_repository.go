package repository

import "context"

// Counter document names per identifier namespace.
const (
	CustomerCounter  = "customerCounter"
	FranchiseCounter = "franchiseCounter"
)

// CounterRepository manages the per-namespace sequence counters used by
// identifier allocation. A missing counter reads as 0.
//
// Increment is only safe against concurrent allocation when executed
// inside TransactionManager.Execute; implementations must make the
// read-increment-write atomic there.
type CounterRepository interface {
	// Next reads the counter, increments it by one, persists the new
	// value and returns it.
	Next(ctx context.Context, name string) (int64, error)
}
