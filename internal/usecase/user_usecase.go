package usecase

import (
	"context"

	"storefront/internal/domain/entity"
)

// --- Input DTOs ---

// CreateUserInput defines the data required to create a user. The
// identifier is allocated by the service, never supplied by the caller.
type CreateUserInput struct {
	Category  entity.Category `json:"category" validate:"required"`
	Email     string          `json:"email" validate:"required,email"`
	FirstName string          `json:"firstName" validate:"required"`
	LastName  string          `json:"lastName" validate:"required"`
	Password  string          `json:"password" validate:"required"`
	Username  string          `json:"username"`

	Phone          string `json:"phone"`
	PrimaryPhone   string `json:"primaryPhone"`
	SecondaryPhone string `json:"secondaryPhone"`
	Address        string `json:"address"`
	City           string `json:"city"`
	State          string `json:"state"`
	Country        string `json:"country"`
	CountryCode    string `json:"countryCode"`
	ZipCode        string `json:"zipCode"`
}

// UpdateUserInput carries the mutable contact attributes of a user.
// Identifier, category and email are immutable through this path.
type UpdateUserInput struct {
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Phone          string `json:"phone"`
	PrimaryPhone   string `json:"primaryPhone"`
	SecondaryPhone string `json:"secondaryPhone"`
	Address        string `json:"address"`
	City           string `json:"city"`
	State          string `json:"state"`
	Country        string `json:"country"`
	CountryCode    string `json:"countryCode"`
	ZipCode        string `json:"zipCode"`
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ActivateStoreInput names the storefront of a franchise, moving it from
// the building state to active.
type ActivateStoreInput struct {
	FranchiseID string `json:"-"`
	StoreName   string `json:"storeName" validate:"required"`
}

// --- Output DTOs ---

// LoginOutput returns the session tokens after a successful login.
type LoginOutput struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	User         *entity.User `json:"user"`
}

// MigrateOutput returns the identifier the migrated user now lives under.
type MigrateOutput struct {
	UserID string `json:"userId"`
}

// ActivateStoreOutput returns the slug assigned to the activated store.
type ActivateStoreOutput struct {
	StoreSlug string `json:"storeSlug"`
}

// UserUsecase defines the user management and session operations.
type UserUsecase interface {
	// CreateUser allocates an identifier in the category's namespace,
	// enforces email/username uniqueness, and persists the record.
	CreateUser(ctx context.Context, input *CreateUserInput) (*entity.User, error)

	// GetUser retrieves a user by identifier.
	GetUser(ctx context.Context, id string) (*entity.User, error)

	// UpdateUser replaces the mutable contact attributes of a user.
	UpdateUser(ctx context.Context, id string, input *UpdateUserInput) (*entity.User, error)

	// DeleteUser removes a user record. Admin action.
	DeleteUser(ctx context.Context, id string) error

	// Login verifies credentials and issues session tokens.
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)

	// MigrateCategory re-categorizes a user between the customer and
	// franchise namespaces: retire the old record, birth a new one under
	// the target namespace's identifier, atomically.
	MigrateCategory(ctx context.Context, userID string, target entity.Category) (*MigrateOutput, error)

	// ActivateStore names a franchise's storefront, assigns a collision
	// free slug and flips the store status from building to active.
	ActivateStore(ctx context.Context, input *ActivateStoreInput) (*ActivateStoreOutput, error)

	// GetStoreBySlug resolves a public storefront by its URL slug.
	GetStoreBySlug(ctx context.Context, slug string) (*entity.Store, error)
}
