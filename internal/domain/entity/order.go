package entity

import (
	"strings"
	"time"
)

// OrderStatus is a workflow state of an order. The forward progression is
// pending -> verify payment -> processing order -> order sent. A
// "completed" value exists as a terminal state but no operation moves an
// order into it automatically.
type OrderStatus string

const (
	StatusPending         OrderStatus = "pending"
	StatusVerifyPayment   OrderStatus = "verify payment"
	StatusProcessingOrder OrderStatus = "processing order"
	StatusOrderSent       OrderStatus = "order sent"
	StatusCompleted       OrderStatus = "completed"
)

// ParseOrderStatus normalizes s to lower case and reports whether it
// names a known workflow state.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	status := OrderStatus(strings.ToLower(strings.TrimSpace(s)))
	switch status {
	case StatusPending, StatusVerifyPayment, StatusProcessingOrder, StatusOrderSent, StatusCompleted:
		return status, true
	}

	return "", false
}

// DefaultFranchiseID is the sentinel franchise identifier for orders
// placed on the platform storefront rather than a tenant store.
const DefaultFranchiseID = "default"

// OrderItem is one purchased line item. Price and Quantity are snapshots
// taken at checkout; they never change afterwards.
type OrderItem struct {
	ID       string
	Name     string
	Price    float64
	Quantity int
}

// Subtotal returns price multiplied by quantity for this line.
func (i OrderItem) Subtotal() float64 {
	return i.Price * float64(i.Quantity)
}

// ShippingAddress is the destination snapshot captured at checkout.
type ShippingAddress struct {
	Address string
	City    string
	State   string
	ZipCode string
	Country string // Two-letter country code.
}

// CustomerContact is the customer snapshot captured at checkout.
type CustomerContact struct {
	FirstName      string
	LastName       string
	Email          string
	Phone          string
	PrimaryPhone   string
	SecondaryPhone string
}

// PaymentDetails records the payment submission that moved an order from
// pending to verify payment. Verification happens out-of-band.
type PaymentDetails struct {
	Method          string
	Amount          float64
	ReferenceNumber string
	SubmittedAt     time.Time
}

// Order is one purchase transaction. Items and TotalAmount are immutable
// after creation; only Status, FollowUp and the payment snapshot mutate.
type Order struct {
	ID          string // Storage document identifier.
	OwnerID     string // Owning customer's identifier.
	FranchiseID string // Franchise identifier, or DefaultFranchiseID.

	OrderCode   string // Derived composite code, not guaranteed unique.
	OrderNumber int    // Per-customer order sequence at creation time.

	Items           []OrderItem
	ShippingAddress ShippingAddress
	CustomerInfo    CustomerContact
	SellerMessage   string
	StoreSlug       string

	Status         OrderStatus
	FollowUp       bool
	TotalAmount    float64
	TrackingNumber string
	Payment        *PaymentDetails

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ItemsTotal sums price x quantity over the given items. An order's
// TotalAmount always equals ItemsTotal of the items persisted with it.
func ItemsTotal(items []OrderItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Subtotal()
	}

	return total
}
