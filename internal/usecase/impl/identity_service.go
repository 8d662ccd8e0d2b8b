// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"fmt"
	"log/slog"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/usecase"

	"go.uber.org/fx"
)

// identityService implements the IdentityUsecase interface.
type identityService struct {
	txManager repository.TransactionManager
	logger    *slog.Logger
}

// IdentityServiceParams holds dependencies for identityService, injected by Fx.
type IdentityServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	Logger    *slog.Logger
}

// NewIdentityService is the constructor for identityService.
func NewIdentityService(params IdentityServiceParams) usecase.IdentityUsecase {
	return &identityService{
		txManager: params.TxManager,
		logger:    params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *identityService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// AllocateID issues the next identifier in the category's namespace.
func (srv *identityService) AllocateID(ctx context.Context, category entity.Category) (string, error) {
	if !category.Valid() {
		return "", domainerrors.ErrInvalidCategory.WrapMessage("unknown identifier namespace")
	}

	var allocated string
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		id, err := allocateID(ctx, repoFactory, category)
		if err != nil {
			return err
		}
		allocated = id

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to allocate identifier", slog.Any("category", category), slog.Any("error", err))

		// The caller must never fall back to a non-atomic guess.
		return "", domainerrors.NewStorageError(err, "identifier allocation transaction failed")
	}

	srv.log(ctx).Debug("Allocated identifier", slog.Any("category", category), slog.String("id", allocated))

	return allocated, nil
}

// allocateID issues an identifier inside an already-open transaction, so
// callers composing larger transactions (user creation, migration) share
// the atomicity guarantee. Customer and franchise namespaces draw from
// the counter documents; webmaster and test namespaces scan existing
// records for the highest suffix.
func allocateID(ctx context.Context, repoFactory repository.RepositoryFactory, category entity.Category) (string, error) {
	switch category {
	case entity.CategoryCustomer:
		next, err := repoFactory.Counters().Next(ctx, repository.CustomerCounter)
		if err != nil {
			return "", err
		}

		return formatID(entity.PrefixCustomer, next), nil

	case entity.CategoryFranchise:
		next, err := repoFactory.Counters().Next(ctx, repository.FranchiseCounter)
		if err != nil {
			return "", err
		}

		return formatID(entity.PrefixFranchise, next), nil

	default:
		highest, err := repoFactory.Users().HighestIDSuffix(ctx, category.Prefix())
		if err != nil {
			return "", err
		}

		return formatID(category.Prefix(), highest+1), nil
	}
}

// formatID renders prefix + zero-padded six-digit sequence, e.g. "cu000001".
func formatID(prefix string, n int64) string {
	return fmt.Sprintf("%s%06d", prefix, n)
}
