// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"

	"storefront/internal/delivery/http/middleware"
	"storefront/internal/delivery/http/response"
	"storefront/internal/domain/entity"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// UserHandler holds dependencies for user-related handlers.
type UserHandler struct {
	uc       usecase.UserUsecase
	identity usecase.IdentityUsecase
	logger   *slog.Logger
}

// NewUserHandler is the constructor for UserHandler, injected by Fx.
func NewUserHandler(uc usecase.UserUsecase, identity usecase.IdentityUsecase, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		uc:       uc,
		identity: identity,
		logger:   logger,
	}
}

// userView strips credentials before a user record leaves the API.
type userView struct {
	ID                  string             `json:"id"`
	Category            entity.Category    `json:"category"`
	Email               string             `json:"email"`
	FirstName           string             `json:"firstName"`
	LastName            string             `json:"lastName"`
	Username            string             `json:"userName,omitempty"`
	StoreName           string             `json:"storeName,omitempty"`
	StoreSlug           string             `json:"storeSlug,omitempty"`
	StoreStatus         entity.StoreStatus `json:"storeStatus,omitempty"`
	IsActive            bool               `json:"isActive"`
	PreviousID          string             `json:"previousId,omitempty"`
	PreviousFranchiseID string             `json:"previousFranchiseId,omitempty"`
}

func toUserView(user *entity.User) *userView {
	return &userView{
		ID:                  user.ID,
		Category:            user.Category,
		Email:               user.Email,
		FirstName:           user.FirstName,
		LastName:            user.LastName,
		Username:            user.Username,
		StoreName:           user.StoreName,
		StoreSlug:           user.StoreSlug,
		StoreStatus:         user.StoreStatus,
		IsActive:            user.IsActive,
		PreviousID:          user.PreviousID,
		PreviousFranchiseID: user.PreviousFranchiseID,
	}
}

// Register handles the user registration request.
func (h *UserHandler) Register(c echo.Context) error {
	var input usecase.CreateUserInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid registration input")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	user, err := h.uc.CreateUser(c.Request().Context(), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toUserView(user), "User registered successfully")
}

// Login handles the user login request.
func (h *UserHandler) Login(c echo.Context) error {
	var input usecase.LoginInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	output, err := h.uc.Login(c.Request().Context(), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]any{
		"accessToken":  output.AccessToken,
		"refreshToken": output.RefreshToken,
		"user":         toUserView(output.User),
	}, "Login successful")
}

// GetProfile returns the authenticated user's record.
func (h *UserHandler) GetProfile(c echo.Context) error {
	user, err := h.uc.GetUser(c.Request().Context(), middleware.SessionUserID(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toUserView(user), "")
}

// UpdateProfile replaces the authenticated user's contact attributes.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var input usecase.UpdateUserInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid profile input")
	}

	user, err := h.uc.UpdateUser(c.Request().Context(), middleware.SessionUserID(c), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toUserView(user), "Profile updated")
}

// migrateRequest names the category a user migrates into.
type migrateRequest struct {
	Target string `json:"target" validate:"required"`
}

// Migrate re-categorizes the authenticated user. The session becomes
// stale afterwards because the identifier changed; clients must log in
// again.
func (h *UserHandler) Migrate(c echo.Context) error {
	var req migrateRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid migration input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	output, err := h.uc.MigrateCategory(c.Request().Context(), middleware.SessionUserID(c), entity.Category(req.Target))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "Category migrated")
}

// MigrateUser re-categorizes an arbitrary user. Admin action.
func (h *UserHandler) MigrateUser(c echo.Context) error {
	var req migrateRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid migration input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	output, err := h.uc.MigrateCategory(c.Request().Context(), c.Param("id"), entity.Category(req.Target))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "Category migrated")
}

// DeleteUser removes a user record. Admin action.
func (h *UserHandler) DeleteUser(c echo.Context) error {
	if err := h.uc.DeleteUser(c.Request().Context(), c.Param("id")); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "User deleted")
}

// allocateIDRequest names the identifier namespace to draw from.
type allocateIDRequest struct {
	Category string `json:"category" validate:"required"`
}

// AllocateID issues the next identifier in a namespace without creating
// a record. Admin action for provisioning flows.
func (h *UserHandler) AllocateID(c echo.Context) error {
	var req allocateIDRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid allocation input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	id, err := h.identity.AllocateID(c.Request().Context(), entity.Category(req.Category))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, map[string]string{"id": id}, "Identifier allocated")
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
