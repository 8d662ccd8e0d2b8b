package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseOrderStatus(t *testing.T) {
	tests := []struct {
		input string
		want  OrderStatus
		ok    bool
	}{
		{"pending", StatusPending, true},
		{"verify payment", StatusVerifyPayment, true},
		{"processing order", StatusProcessingOrder, true},
		{"order sent", StatusOrderSent, true},
		{"completed", StatusCompleted, true},
		{"Verify Payment", StatusVerifyPayment, true},
		{"  ORDER SENT  ", StatusOrderSent, true},
		{"shipped", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseOrderStatus(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestItemsTotal(t *testing.T) {
	items := []OrderItem{
		{Name: "Tomato", Price: 2.5, Quantity: 3},
		{Name: "Basil", Price: 1.25, Quantity: 2},
	}

	assert.InDelta(t, 10.0, ItemsTotal(items), 1e-9)
	assert.InDelta(t, 7.5, items[0].Subtotal(), 1e-9)
	assert.Zero(t, ItemsTotal(nil))
}
