package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	"storefront/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// userService implements the UserUsecase interface.
type userService struct {
	txManager    repository.TransactionManager
	userRepo     repository.UserRepository
	storeRepo    repository.StoreRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	logger       *slog.Logger
}

// UserServiceParams holds dependencies for UserService, injected by Fx.
type UserServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	UserRepo     repository.UserRepository
	StoreRepo    repository.StoreRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Logger       *slog.Logger
}

// NewUserService is the constructor for userService. It receives all dependencies as interfaces.
func NewUserService(params UserServiceParams) usecase.UserUsecase {
	return &userService{
		txManager:    params.TxManager,
		userRepo:     params.UserRepo,
		storeRepo:    params.StoreRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *userService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// CreateUser allocates an identifier, enforces uniqueness and persists
// the record. Allocation, uniqueness checks and the write share one
// transaction, so the original's check-then-act race is closed.
func (srv *userService) CreateUser(ctx context.Context, input *usecase.CreateUserInput) (*entity.User, error) {
	if !input.Category.Valid() {
		return nil, domainerrors.ErrInvalidCategory.WithDetails(string(input.Category))
	}
	if input.Username == "" && input.Category != entity.CategoryCustomer {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("username is required for this category")
	}
	if input.Username != "" && !entity.ValidUsername(input.Username) {
		return nil, domainerrors.ErrInvalidUsername.WithDetails(input.Username)
	}

	hashed, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during user creation", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to hash password")
	}

	srv.log(ctx).Info("Creating user", slog.Any("category", input.Category), slog.String("email", input.Email))

	var created *entity.User
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.Users()

		existing, err := userRepo.FindByEmail(ctx, input.Email)
		if err != nil {
			return errors.Wrap(err, "failed to check email uniqueness")
		}
		if existing != nil {
			return domainerrors.ErrEmailAlreadyExists.WrapMessage("cannot create user")
		}

		if input.Username != "" {
			existing, err = userRepo.FindByUsername(ctx, input.Username)
			if err != nil {
				return errors.Wrap(err, "failed to check username uniqueness")
			}
			if existing != nil {
				return domainerrors.ErrUsernameAlreadyExists.WrapMessage("cannot create user")
			}
		}

		id, err := allocateID(ctx, repoFactory, input.Category)
		if err != nil {
			return errors.Wrap(err, "failed to allocate user identifier")
		}

		now := time.Now()
		user := &entity.User{
			ID:             id,
			Category:       input.Category,
			Email:          input.Email,
			FirstName:      input.FirstName,
			LastName:       input.LastName,
			PasswordHash:   hashed,
			Username:       input.Username,
			Phone:          input.Phone,
			PrimaryPhone:   input.PrimaryPhone,
			SecondaryPhone: input.SecondaryPhone,
			Address:        input.Address,
			City:           input.City,
			State:          input.State,
			Country:        input.Country,
			CountryCode:    input.CountryCode,
			ZipCode:        input.ZipCode,
			IsActive:       true,
			IsOnline:       false,
			SchemaVersion:  entity.SchemaVersion,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if user.Category == entity.CategoryFranchise {
			user.StoreStatus = entity.StoreStatusBuilding
		}

		if err := userRepo.Create(ctx, user); err != nil {
			return errors.Wrap(err, "failed to persist user")
		}
		created = user

		return nil
	})
	if err != nil {
		var appErr domainerrors.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		srv.log(ctx).Error("Failed to execute user creation transaction", slog.String("email", input.Email), slog.Any("error", err))

		return nil, domainerrors.NewStorageError(err, "user creation transaction failed")
	}

	srv.log(ctx).Debug("User created", slog.String("userID", created.ID))

	return created, nil
}

// GetUser retrieves a user by identifier.
func (srv *userService) GetUser(ctx context.Context, id string) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound.WithDetails(id)
		}

		return nil, domainerrors.NewStorageError(err, "failed to load user")
	}

	return user, nil
}

// UpdateUser replaces the mutable contact attributes of a user.
func (srv *userService) UpdateUser(ctx context.Context, id string, input *usecase.UpdateUserInput) (*entity.User, error) {
	user, err := srv.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	user.FirstName = input.FirstName
	user.LastName = input.LastName
	user.Phone = input.Phone
	user.PrimaryPhone = input.PrimaryPhone
	user.SecondaryPhone = input.SecondaryPhone
	user.Address = input.Address
	user.City = input.City
	user.State = input.State
	user.Country = input.Country
	user.CountryCode = input.CountryCode
	user.ZipCode = input.ZipCode
	user.UpdatedAt = time.Now()

	if err := srv.userRepo.Update(ctx, user); err != nil {
		return nil, domainerrors.NewStorageError(err, "failed to update user")
	}

	return user, nil
}

// DeleteUser removes a user record.
func (srv *userService) DeleteUser(ctx context.Context, id string) error {
	if err := srv.userRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domainerrors.ErrUserNotFound.WithDetails(id)
		}

		return domainerrors.NewStorageError(err, "failed to delete user")
	}

	return nil
}

// Login verifies credentials against the stored bcrypt hash and issues
// session tokens carrying the user's identifier and category.
func (srv *userService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	user, err := srv.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		return nil, domainerrors.NewStorageError(err, "failed to look up user for login")
	}
	if user == nil || !srv.hasher.Check(input.Password, user.PasswordHash) {
		srv.log(ctx).Warn("Login rejected", slog.String("email", input.Email))

		return nil, domainerrors.ErrInvalidCredentials.WrapMessage("login failed")
	}

	accessToken, refreshToken, err := srv.tokenService.GenerateTokens(user.ID, string(user.Category))
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate session tokens")
	}

	now := time.Now()
	user.LastLoginAt = &now
	user.IsOnline = true
	user.UpdatedAt = now
	if err := srv.userRepo.Update(ctx, user); err != nil {
		// Login stamp is best-effort; the session is already valid.
		srv.log(ctx).Warn("Failed to stamp last login", slog.String("userID", user.ID), slog.Any("error", err))
	}

	return &usecase.LoginOutput{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

// MigrateCategory re-categorizes a user between the customer and
// franchise namespaces. The identifier changes, so the old record is
// retired and a new one created under the target identifier, atomically,
// with lineage pointers for reversal. Historical orders keep pointing at
// the retired identifier.
func (srv *userService) MigrateCategory(ctx context.Context, userID string, target entity.Category) (*usecase.MigrateOutput, error) {
	current, ok := entity.CategoryFromID(userID)
	if !ok {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("invalid user identifier format")
	}

	switch {
	case current == entity.CategoryCustomer && target == entity.CategoryFranchise:
		return srv.upgradeToFranchise(ctx, userID)
	case current == entity.CategoryFranchise && target == entity.CategoryCustomer:
		return srv.revertToCustomer(ctx, userID)
	default:
		return nil, domainerrors.ErrInvalidCategory.WrapMessage("only customer<->franchise migration is supported")
	}
}

func (srv *userService) upgradeToFranchise(ctx context.Context, userID string) (*usecase.MigrateOutput, error) {
	srv.log(ctx).Info("Upgrading customer to franchise", slog.String("userID", userID))

	var newID string
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.Users()

		user, err := userRepo.FindByID(ctx, userID)
		if err != nil {
			return errors.Wrap(err, "failed to load user for upgrade")
		}

		// A customer who was previously a franchise reclaims the
		// identifier they vacated; anyone else gets a fresh one.
		if strings.HasPrefix(user.PreviousFranchiseID, entity.PrefixFranchise) {
			newID = user.PreviousFranchiseID
		} else {
			newID, err = allocateID(ctx, repoFactory, entity.CategoryFranchise)
			if err != nil {
				return errors.Wrap(err, "failed to allocate franchise identifier")
			}
		}

		migrated := *user
		migrated.ID = newID
		migrated.Category = entity.CategoryFranchise
		migrated.PreviousID = userID
		migrated.PreviousFranchiseID = ""
		migrated.StoreName = ""
		migrated.StoreSlug = ""
		migrated.StoreStatus = entity.StoreStatusBuilding
		migrated.UpdatedAt = time.Now()

		if err := userRepo.Create(ctx, &migrated); err != nil {
			return errors.Wrap(err, "failed to create franchise record")
		}
		if err := userRepo.Delete(ctx, userID); err != nil {
			return errors.Wrap(err, "failed to retire customer record")
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound.WithDetails(userID)
		}
		srv.log(ctx).Error("Upgrade transaction failed", slog.String("userID", userID), slog.Any("error", err))

		return nil, domainerrors.NewStorageError(err, "category upgrade transaction failed")
	}

	return &usecase.MigrateOutput{UserID: newID}, nil
}

func (srv *userService) revertToCustomer(ctx context.Context, userID string) (*usecase.MigrateOutput, error) {
	srv.log(ctx).Info("Reverting franchise to customer", slog.String("userID", userID))

	var newID string
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.Users()

		user, err := userRepo.FindByID(ctx, userID)
		if err != nil {
			return errors.Wrap(err, "failed to load user for revert")
		}

		if !strings.HasPrefix(user.PreviousID, entity.PrefixCustomer) {
			return domainerrors.ErrValidationFailed.WrapMessage("original customer identifier not found or invalid")
		}
		newID = user.PreviousID

		migrated := *user
		migrated.ID = newID
		migrated.Category = entity.CategoryCustomer
		// Record the vacated franchise identifier for a future re-upgrade.
		migrated.PreviousFranchiseID = userID
		migrated.PreviousID = ""
		migrated.UpdatedAt = time.Now()

		if err := userRepo.Create(ctx, &migrated); err != nil {
			return errors.Wrap(err, "failed to recreate customer record")
		}
		if err := userRepo.Delete(ctx, userID); err != nil {
			return errors.Wrap(err, "failed to retire franchise record")
		}

		return nil
	})
	if err != nil {
		var appErr domainerrors.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound.WithDetails(userID)
		}
		srv.log(ctx).Error("Revert transaction failed", slog.String("userID", userID), slog.Any("error", err))

		return nil, domainerrors.NewStorageError(err, "category revert transaction failed")
	}

	return &usecase.MigrateOutput{UserID: newID}, nil
}

// ActivateStore names a franchise's storefront, assigns a collision-free
// slug and flips the store status from building to active.
func (srv *userService) ActivateStore(ctx context.Context, input *usecase.ActivateStoreInput) (*usecase.ActivateStoreOutput, error) {
	slug := entity.StoreSlug(input.StoreName)
	if slug == "" {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("store name yields an empty slug")
	}

	var finalSlug string
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.Users()
		storeRepo := repoFactory.Stores()

		user, err := userRepo.FindByID(ctx, input.FranchiseID)
		if err != nil {
			return errors.Wrap(err, "failed to load franchise")
		}
		if user.Category != entity.CategoryFranchise {
			return domainerrors.ErrForbidden.WrapMessage("only franchises can activate a store")
		}

		finalSlug = slug
		existing, err := storeRepo.FindBySlug(ctx, slug)
		if err != nil {
			return errors.Wrap(err, "failed to check slug availability")
		}
		if existing != nil && existing.FranchiseID != input.FranchiseID {
			// Franchise identifiers are unique, so the suffixed slug is too.
			finalSlug = slug + "-" + input.FranchiseID
		}

		now := time.Now()
		user.StoreName = input.StoreName
		user.StoreSlug = finalSlug
		user.StoreStatus = entity.StoreStatusActive
		user.UpdatedAt = now
		if err := userRepo.Update(ctx, user); err != nil {
			return errors.Wrap(err, "failed to update franchise store fields")
		}

		store := &entity.Store{
			Slug:        finalSlug,
			FranchiseID: input.FranchiseID,
			Name:        input.StoreName,
			Status:      entity.StoreStatusActive,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := storeRepo.Put(ctx, store); err != nil {
			return errors.Wrap(err, "failed to persist store record")
		}

		return nil
	})
	if err != nil {
		var appErr domainerrors.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound.WithDetails(input.FranchiseID)
		}

		return nil, domainerrors.NewStorageError(err, "store activation transaction failed")
	}

	return &usecase.ActivateStoreOutput{StoreSlug: finalSlug}, nil
}

// GetStoreBySlug resolves a public storefront by its URL slug.
func (srv *userService) GetStoreBySlug(ctx context.Context, slug string) (*entity.Store, error) {
	store, err := srv.storeRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, domainerrors.NewStorageError(err, "failed to load store")
	}
	if store == nil {
		return nil, domainerrors.ErrStoreNotFound.WithDetails(slug)
	}

	return store, nil
}
