// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/entity"
)

// ErrUserNotFound is a domain-specific error returned when a user is not found.
var ErrUserNotFound = errors.New("user not found")

// UserRepository defines the standard operations for user persistence.
// The application layer will depend on this interface, not the concrete implementation.
type UserRepository interface {
	// FindByID retrieves a single user by their category-prefixed identifier.
	FindByID(ctx context.Context, id string) (*entity.User, error)

	// FindByEmail retrieves a single user by email, or nil when no user matches.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByUsername retrieves a single user by username, or nil when no user matches.
	FindByUsername(ctx context.Context, username string) (*entity.User, error)

	// HighestIDSuffix returns the largest numeric suffix among existing
	// identifiers under the given prefix, or 0 when none exist. Used by
	// the scan-based allocation path for webmaster/test namespaces.
	HighestIDSuffix(ctx context.Context, prefix string) (int64, error)

	// Create persists a new user entity under its identifier.
	Create(ctx context.Context, user *entity.User) error

	// Update replaces an existing user entity in the storage.
	Update(ctx context.Context, user *entity.User) error

	// Delete removes a user record by identifier.
	Delete(ctx context.Context, id string) error
}
