package handler

import (
	"log/slog"
	"net/http"

	"storefront/internal/delivery/http/middleware"
	"storefront/internal/delivery/http/response"
	"storefront/internal/domain/service"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// OrderHandler holds dependencies for order-related handlers.
type OrderHandler struct {
	uc     usecase.OrderUsecase
	qr     service.QRCodeService
	logger *slog.Logger
}

// NewOrderHandler is the constructor for OrderHandler, injected by Fx.
func NewOrderHandler(uc usecase.OrderUsecase, qr service.QRCodeService, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{
		uc:     uc,
		qr:     qr,
		logger: logger,
	}
}

// Create handles the checkout submission. Public: guests check out with
// the owner identifier embedded in the storefront page.
func (h *OrderHandler) Create(c echo.Context) error {
	var input usecase.CreateOrderInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid order input")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	output, err := h.uc.CreateOrder(c.Request().Context(), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, output, "Order placed")
}

// Track returns the orders behind a tracking link. Public, but scoped
// by the owner identifier baked into the link so one customer cannot
// enumerate another's orders by code alone.
func (h *OrderHandler) Track(c echo.Context) error {
	orders, err := h.uc.GetOrdersByCode(c.Request().Context(), c.Param("orderCode"), c.Param("ownerId"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, orders, "")
}

// TrackQR renders the tracking link as a PNG QR code.
func (h *OrderHandler) TrackQR(c echo.Context) error {
	png, err := h.qr.GenerateTrackingQR(c.Param("ownerId"), c.Param("orderCode"))
	if err != nil {
		return errors.WithStack(err)
	}

	return c.Blob(http.StatusOK, "image/png", png)
}

// ListMine returns the authenticated customer's orders, newest first.
func (h *OrderHandler) ListMine(c echo.Context) error {
	orders, err := h.uc.GetOrdersByOwner(c.Request().Context(), middleware.SessionUserID(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, orders, "")
}

// SubmitPayment records the customer's payment details for an order.
// The owner comes from the session, not the body.
func (h *OrderHandler) SubmitPayment(c echo.Context) error {
	var input usecase.SubmitPaymentInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid payment input")
	}
	input.OrderID = c.Param("id")
	input.OwnerID = middleware.SessionUserID(c)
	if err := c.Validate(&input); err != nil {
		return err
	}

	if err := h.uc.SubmitPayment(c.Request().Context(), &input); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Payment submitted")
}

// followUpRequest toggles the customer's follow-up flag.
type followUpRequest struct {
	FollowUp bool `json:"followUp"`
}

// SetFollowUp raises or lowers the follow-up flag on an order.
func (h *OrderHandler) SetFollowUp(c echo.Context) error {
	var req followUpRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid follow-up input")
	}

	if err := h.uc.SetFollowUp(c.Request().Context(), c.Param("id"), middleware.SessionUserID(c), req.FollowUp); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Follow-up updated")
}

// ListFranchiseOrders returns the authenticated franchise's orders.
func (h *OrderHandler) ListFranchiseOrders(c echo.Context) error {
	orders, err := h.uc.GetOrdersByFranchise(c.Request().Context(), middleware.SessionUserID(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, orders, "")
}

// ListAllOrders returns every order across storefronts, newest first.
// Webmaster console view.
func (h *OrderHandler) ListAllOrders(c echo.Context) error {
	orders, err := h.uc.GetAllOrders(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, orders, "")
}

// statusRequest names the workflow state an order moves to.
type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdateStatus moves an order through the fulfillment workflow. The
// session user is the actor: franchises are scoped to their own orders,
// webmasters operate on any order.
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	var req statusRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid status input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.uc.UpdateStatus(c.Request().Context(), c.Param("id"), req.Status, middleware.SessionUserID(c)); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Status updated")
}
