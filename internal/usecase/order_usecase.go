package usecase

import (
	"context"

	"storefront/internal/domain/entity"
)

// --- Input DTOs ---

// OrderItemInput carries one checkout line item. Price and quantity
// arrive as strings from the client and are parsed with validation;
// non-numeric input is rejected rather than coerced.
type OrderItemInput struct {
	ID       string `json:"id"`
	Name     string `json:"name" validate:"required"`
	Price    string `json:"price" validate:"required"`
	Quantity string `json:"quantity" validate:"required"`
}

// CreateOrderInput defines the data required to place an order.
type CreateOrderInput struct {
	OwnerID         string                 `json:"userId" validate:"required"`
	FranchiseID     string                 `json:"franchiseId" validate:"required"`
	Items           []OrderItemInput       `json:"items" validate:"required,min=1,dive"`
	ShippingAddress entity.ShippingAddress `json:"shippingAddress"`
	CustomerInfo    entity.CustomerContact `json:"customerInfo"`
	SellerMessage   string                 `json:"sellerMessage"`
	StoreSlug       string                 `json:"storeSlug"`
}

// SubmitPaymentInput carries the customer's payment submission that
// moves an order from pending to verify payment.
type SubmitPaymentInput struct {
	OrderID         string `json:"orderId" validate:"required"`
	OwnerID         string `json:"-"` // Taken from the session, never the request body.
	Method          string `json:"paymentMethod" validate:"required"`
	Amount          string `json:"amount" validate:"required"`
	ReferenceNumber string `json:"referenceNumber"`
}

// --- Output DTOs ---

// CreateOrderOutput returns the identifiers the caller needs to build
// the tracking URL.
type CreateOrderOutput struct {
	OrderID                string `json:"orderId"`
	OrderCode              string `json:"orderCode"`
	OrderCodeWithFranchise string `json:"orderCodeWithFranchise"`
	OwnerID                string `json:"customerUserId"`
	TrackingNumber         string `json:"trackingNumber"`
}

// OrderUsecase defines the order lifecycle and query operations.
// This is the contract that the delivery layer depends on.
type OrderUsecase interface {
	// CreateOrder validates the checkout submission, derives the order
	// code and tracking number, and persists one pending order.
	CreateOrder(ctx context.Context, input *CreateOrderInput) (*CreateOrderOutput, error)

	// GetOrder returns the order with the given document ID, or nil when
	// it does not exist.
	GetOrder(ctx context.Context, orderID string) (*entity.Order, error)

	// GetOrdersByCode returns orders matching both the code and the
	// owner. The owner filter is the authorization boundary.
	GetOrdersByCode(ctx context.Context, orderCode, ownerID string) ([]*entity.Order, error)

	// GetOrdersByOwner returns one customer's orders, newest first.
	GetOrdersByOwner(ctx context.Context, ownerID string) ([]*entity.Order, error)

	// GetOrdersByFranchise returns one storefront's orders, newest first.
	GetOrdersByFranchise(ctx context.Context, franchiseID string) ([]*entity.Order, error)

	// GetAllOrders returns every order, newest first. Webmaster console
	// view; the delivery layer gates it to the webmaster category.
	GetAllOrders(ctx context.Context) ([]*entity.Order, error)

	// UpdateStatus moves an order to the named workflow state, resetting
	// the follow-up flag. Operator-triggered transitions go through here.
	// A franchise actor may only transition orders of their own
	// storefront; a webmaster actor may transition any order.
	UpdateStatus(ctx context.Context, orderID, status, actorID string) error

	// SubmitPayment records the customer's payment details and moves the
	// order from pending to verify payment.
	SubmitPayment(ctx context.Context, input *SubmitPaymentInput) error

	// SetFollowUp toggles the follow-up flag on an order owned by
	// ownerID. Setting it true requires the order to have left the
	// pending state; a mismatched owner is rejected.
	SetFollowUp(ctx context.Context, orderID, ownerID string, followUp bool) error

	// WatchFranchiseOrders starts the live order feed for a storefront.
	// The returned stop function tears the subscription down.
	WatchFranchiseOrders(ctx context.Context, franchiseID string, fn func([]*entity.Order)) (stop func(), err error)
}
