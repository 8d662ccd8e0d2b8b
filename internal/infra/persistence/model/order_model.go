package model

import (
	"time"

	"storefront/internal/domain/entity"
)

// OrderItemModel mirrors one line item inside an order document.
type OrderItemModel struct {
	ID       string  `firestore:"id"`
	Name     string  `firestore:"name"`
	Price    float64 `firestore:"price"`
	Quantity int     `firestore:"quantity"`
}

// ShippingAddressModel mirrors the shipping snapshot inside an order document.
type ShippingAddressModel struct {
	Address string `firestore:"address"`
	City    string `firestore:"city"`
	State   string `firestore:"state"`
	ZipCode string `firestore:"zipCode"`
	Country string `firestore:"country"`
}

// CustomerContactModel mirrors the customer snapshot inside an order document.
type CustomerContactModel struct {
	FirstName      string `firestore:"firstName"`
	LastName       string `firestore:"lastName"`
	Email          string `firestore:"email"`
	Phone          string `firestore:"phone"`
	PrimaryPhone   string `firestore:"primaryPhone"`
	SecondaryPhone string `firestore:"secondaryPhone"`
}

// PaymentDetailsModel mirrors the payment submission snapshot.
type PaymentDetailsModel struct {
	Method          string    `firestore:"method"`
	Amount          float64   `firestore:"amount"`
	ReferenceNumber string    `firestore:"referenceNumber"`
	SubmittedAt     time.Time `firestore:"submittedAt"`
}

// OrderModel mirrors a document in the 'orders' collection. The document
// ID is storage-generated and not stored as a field.
type OrderModel struct {
	OwnerID     string `firestore:"userId"`
	FranchiseID string `firestore:"franchiseId"`

	OrderCode   string `firestore:"orderCode"`
	OrderNumber int    `firestore:"orderNumber"`

	Items           []OrderItemModel     `firestore:"items"`
	ShippingAddress ShippingAddressModel `firestore:"shippingAddress"`
	CustomerInfo    CustomerContactModel `firestore:"customerInfo"`
	SellerMessage   string               `firestore:"sellerMessage,omitempty"`
	StoreSlug       string               `firestore:"storeSlug,omitempty"`

	Status         string               `firestore:"status"`
	FollowUp       bool                 `firestore:"followUp"`
	TotalAmount    float64              `firestore:"totalAmount"`
	TrackingNumber string               `firestore:"trackingNumber"`
	Payment        *PaymentDetailsModel `firestore:"payment,omitempty"`

	CreatedAt time.Time `firestore:"createdAt"`
	UpdatedAt time.Time `firestore:"updatedAt"`
}

// FromOrderDomain maps a domain order to its persistence model.
func FromOrderDomain(order *entity.Order) *OrderModel {
	items := make([]OrderItemModel, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemModel{
			ID:       item.ID,
			Name:     item.Name,
			Price:    item.Price,
			Quantity: item.Quantity,
		})
	}

	m := &OrderModel{
		OwnerID:     order.OwnerID,
		FranchiseID: order.FranchiseID,
		OrderCode:   order.OrderCode,
		OrderNumber: order.OrderNumber,
		Items:       items,
		ShippingAddress: ShippingAddressModel{
			Address: order.ShippingAddress.Address,
			City:    order.ShippingAddress.City,
			State:   order.ShippingAddress.State,
			ZipCode: order.ShippingAddress.ZipCode,
			Country: order.ShippingAddress.Country,
		},
		CustomerInfo: CustomerContactModel{
			FirstName:      order.CustomerInfo.FirstName,
			LastName:       order.CustomerInfo.LastName,
			Email:          order.CustomerInfo.Email,
			Phone:          order.CustomerInfo.Phone,
			PrimaryPhone:   order.CustomerInfo.PrimaryPhone,
			SecondaryPhone: order.CustomerInfo.SecondaryPhone,
		},
		SellerMessage:  order.SellerMessage,
		StoreSlug:      order.StoreSlug,
		Status:         string(order.Status),
		FollowUp:       order.FollowUp,
		TotalAmount:    order.TotalAmount,
		TrackingNumber: order.TrackingNumber,
		CreatedAt:      order.CreatedAt,
		UpdatedAt:      order.UpdatedAt,
	}
	if order.Payment != nil {
		m.Payment = &PaymentDetailsModel{
			Method:          order.Payment.Method,
			Amount:          order.Payment.Amount,
			ReferenceNumber: order.Payment.ReferenceNumber,
			SubmittedAt:     order.Payment.SubmittedAt,
		}
	}

	return m
}

// ToOrderDomain maps a persistence model back to a pure domain entity.
// The document ID is supplied by the caller.
func (m *OrderModel) ToOrderDomain(id string) *entity.Order {
	items := make([]entity.OrderItem, 0, len(m.Items))
	for _, item := range m.Items {
		items = append(items, entity.OrderItem{
			ID:       item.ID,
			Name:     item.Name,
			Price:    item.Price,
			Quantity: item.Quantity,
		})
	}

	order := &entity.Order{
		ID:          id,
		OwnerID:     m.OwnerID,
		FranchiseID: m.FranchiseID,
		OrderCode:   m.OrderCode,
		OrderNumber: m.OrderNumber,
		Items:       items,
		ShippingAddress: entity.ShippingAddress{
			Address: m.ShippingAddress.Address,
			City:    m.ShippingAddress.City,
			State:   m.ShippingAddress.State,
			ZipCode: m.ShippingAddress.ZipCode,
			Country: m.ShippingAddress.Country,
		},
		CustomerInfo: entity.CustomerContact{
			FirstName:      m.CustomerInfo.FirstName,
			LastName:       m.CustomerInfo.LastName,
			Email:          m.CustomerInfo.Email,
			Phone:          m.CustomerInfo.Phone,
			PrimaryPhone:   m.CustomerInfo.PrimaryPhone,
			SecondaryPhone: m.CustomerInfo.SecondaryPhone,
		},
		SellerMessage:  m.SellerMessage,
		StoreSlug:      m.StoreSlug,
		Status:         entity.OrderStatus(m.Status),
		FollowUp:       m.FollowUp,
		TotalAmount:    m.TotalAmount,
		TrackingNumber: m.TrackingNumber,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
	if m.Payment != nil {
		order.Payment = &entity.PaymentDetails{
			Method:          m.Payment.Method,
			Amount:          m.Payment.Amount,
			ReferenceNumber: m.Payment.ReferenceNumber,
			SubmittedAt:     m.Payment.SubmittedAt,
		}
	}

	return order
}
