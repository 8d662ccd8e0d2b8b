// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"storefront/internal/domain/entity"
)

// IdentityUsecase issues sequential, category-prefixed user identifiers.
type IdentityUsecase interface {
	// AllocateID returns the next identifier in the category's namespace,
	// formatted as prefix + zero-padded six-digit sequence. Customer and
	// franchise namespaces draw from an atomically incremented counter;
	// webmaster and test namespaces scan existing records for the highest
	// suffix. Both paths run inside a transaction, so no two callers ever
	// receive the same identifier for the same prefix.
	AllocateID(ctx context.Context, category entity.Category) (string, error)
}
