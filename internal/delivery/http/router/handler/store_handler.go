package handler

import (
	"log/slog"
	"net/http"

	"storefront/internal/delivery/http/middleware"
	"storefront/internal/delivery/http/response"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// StoreHandler holds dependencies for storefront handlers.
type StoreHandler struct {
	uc     usecase.UserUsecase
	logger *slog.Logger
}

// NewStoreHandler is the constructor for StoreHandler, injected by Fx.
func NewStoreHandler(uc usecase.UserUsecase, logger *slog.Logger) *StoreHandler {
	return &StoreHandler{
		uc:     uc,
		logger: logger,
	}
}

// GetStorefront resolves a public storefront page by its URL slug.
func (h *StoreHandler) GetStorefront(c echo.Context) error {
	store, err := h.uc.GetStoreBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, store, "")
}

// ActivateStore names the authenticated franchise's storefront and
// flips it from building to active.
func (h *StoreHandler) ActivateStore(c echo.Context) error {
	var input usecase.ActivateStoreInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid store input")
	}
	input.FranchiseID = middleware.SessionUserID(c)
	if err := c.Validate(&input); err != nil {
		return err
	}

	output, err := h.uc.ActivateStore(c.Request().Context(), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "Store activated")
}
