package impl

import (
	"context"
	"sync"
	"testing"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/infra/persistence/memory"
	"storefront/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrderService(store *memory.Store, publisher *capturePublisher) *orderService {
	srv := &orderService{
		txManager: memory.NewTransactionManager(store),
		orderRepo: memory.NewOrderRepository(store),
		watcher:   memory.NewOrderWatcher(store),
		logger:    testLogger(),
	}
	if publisher != nil {
		srv.publisher = publisher
	}

	return srv
}

func checkoutInput() *usecase.CreateOrderInput {
	return &usecase.CreateOrderInput{
		OwnerID:     "cu000001",
		FranchiseID: "fr000001",
		Items: []usecase.OrderItemInput{
			{ID: "sku-1", Name: "Tomato", Price: "2.50", Quantity: "3"},
			{ID: "sku-2", Name: "Basil", Price: "1.25", Quantity: "2"},
		},
		ShippingAddress: entity.ShippingAddress{
			Address: "1 Main St",
			City:    "Manila",
			ZipCode: "1000",
			Country: "PH",
		},
		CustomerInfo: entity.CustomerContact{
			FirstName: "Ana",
			LastName:  "Reyes",
			Email:     "ana@example.com",
		},
	}
}

func TestOrderService_CreateOrder(t *testing.T) {
	store := newTestStore()
	srv := newOrderService(store, nil)
	ctx := context.Background()

	out, err := srv.CreateOrder(ctx, checkoutInput())
	require.NoError(t, err)
	assert.NotEmpty(t, out.OrderID)
	assert.Equal(t, "cu1000phtoba1fr000001", out.OrderCode)
	assert.Equal(t, "cu000001", out.OwnerID)
	assert.Len(t, out.TrackingNumber, entity.TrackingNumberLength)

	order, err := srv.GetOrder(ctx, out.OrderID)
	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Equal(t, entity.StatusPending, order.Status)
	assert.False(t, order.FollowUp)
	assert.Equal(t, 1, order.OrderNumber)
	assert.InDelta(t, 10.0, order.TotalAmount, 1e-9)
	assert.Nil(t, order.Payment)
}

func TestOrderService_CreateOrder_SequencePerCustomer(t *testing.T) {
	store := newTestStore()
	srv := newOrderService(store, nil)
	ctx := context.Background()

	first, err := srv.CreateOrder(ctx, checkoutInput())
	require.NoError(t, err)
	second, err := srv.CreateOrder(ctx, checkoutInput())
	require.NoError(t, err)

	input := checkoutInput()
	input.OwnerID = "cu000002"
	other, err := srv.CreateOrder(ctx, input)
	require.NoError(t, err)

	firstOrder, _ := srv.GetOrder(ctx, first.OrderID)
	secondOrder, _ := srv.GetOrder(ctx, second.OrderID)
	otherOrder, _ := srv.GetOrder(ctx, other.OrderID)

	assert.Equal(t, 1, firstOrder.OrderNumber)
	assert.Equal(t, 2, secondOrder.OrderNumber)
	assert.Equal(t, 1, otherOrder.OrderNumber)
}

func TestOrderService_CreateOrder_Validation(t *testing.T) {
	srv := newOrderService(newTestStore(), nil)
	ctx := context.Background()

	missingOwner := checkoutInput()
	missingOwner.OwnerID = ""
	_, err := srv.CreateOrder(ctx, missingOwner)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))

	noItems := checkoutInput()
	noItems.Items = nil
	_, err = srv.CreateOrder(ctx, noItems)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))

	badPrice := checkoutInput()
	badPrice.Items[0].Price = "abc"
	_, err = srv.CreateOrder(ctx, badPrice)
	assert.Error(t, err)

	zeroQuantity := checkoutInput()
	zeroQuantity.Items[0].Quantity = "0"
	_, err = srv.CreateOrder(ctx, zeroQuantity)
	assert.Error(t, err)

	negativePrice := checkoutInput()
	negativePrice.Items[0].Price = "-1"
	_, err = srv.CreateOrder(ctx, negativePrice)
	assert.Error(t, err)
}

func TestOrderService_UpdateStatus(t *testing.T) {
	store := newTestStore()
	publisher := &capturePublisher{}
	srv := newOrderService(store, publisher)
	ctx := context.Background()

	out, err := srv.CreateOrder(ctx, checkoutInput())
	require.NoError(t, err)

	// Mixed case input is normalized.
	require.NoError(t, srv.UpdateStatus(ctx, out.OrderID, "Verify Payment", "fr000001"))

	order, err := srv.GetOrder(ctx, out.OrderID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusVerifyPayment, order.Status)

	events := publisher.published()
	require.Len(t, events, 1)
	assert.Equal(t, out.OrderID, events[0].OrderID)
	assert.Equal(t, string(entity.StatusVerifyPayment), events[0].Status)

	// Unknown status is rejected before any write.
	err = srv.UpdateStatus(ctx, out.OrderID, "shipped", "fr000001")
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidStatus))

	err = srv.UpdateStatus(ctx, "missing-order", "pending", "fr000001")
	assert.True(t, errors.Is(err, domainerrors.ErrOrderNotFound))
}

func TestOrderService_UpdateStatus_ScopedToOwnStorefront(t *testing.T) {
	srv := newOrderService(newTestStore(), nil)
	ctx := context.Background()

	out, err := srv.CreateOrder(ctx, checkoutInput())
	require.NoError(t, err)

	// Another storefront's operator cannot touch this order.
	err = srv.UpdateStatus(ctx, out.OrderID, "processing order", "fr000002")
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))

	order, _ := srv.GetOrder(ctx, out.OrderID)
	assert.Equal(t, entity.StatusPending, order.Status)

	// The owning storefront and the webmaster console both can.
	require.NoError(t, srv.UpdateStatus(ctx, out.OrderID, "verify payment", "fr000001"))
	require.NoError(t, srv.UpdateStatus(ctx, out.OrderID, "processing order", "wm000001"))

	order, _ = srv.GetOrder(ctx, out.OrderID)
	assert.Equal(t, entity.StatusProcessingOrder, order.Status)
}

func TestOrderService_StatusChangeResetsFollowUp(t *testing.T) {
	store := newTestStore()
	srv := newOrderService(store, nil)
	ctx := context.Background()

	out, err := srv.CreateOrder(ctx, checkoutInput())
	require.NoError(t, err)

	require.NoError(t, srv.UpdateStatus(ctx, out.OrderID, "verify payment", "fr000001"))
	require.NoError(t, srv.SetFollowUp(ctx, out.OrderID, "cu000001", true))

	order, _ := srv.GetOrder(ctx, out.OrderID)
	assert.True(t, order.FollowUp)

	// Raising the flag again is idempotent.
	require.NoError(t, srv.SetFollowUp(ctx, out.OrderID, "cu000001", true))
	order, _ = srv.GetOrder(ctx, out.OrderID)
	assert.True(t, order.FollowUp)

	require.NoError(t, srv.UpdateStatus(ctx, out.OrderID, "processing order", "fr000001"))
	order, _ = srv.GetOrder(ctx, out.OrderID)
	assert.Equal(t, entity.StatusProcessingOrder, order.Status)
	assert.False(t, order.FollowUp)
}

func TestOrderService_SetFollowUp_RequiresNonPending(t *testing.T) {
	srv := newOrderService(newTestStore(), nil)
	ctx := context.Background()

	out, err := srv.CreateOrder(ctx, checkoutInput())
	require.NoError(t, err)

	err = srv.SetFollowUp(ctx, out.OrderID, "cu000001", true)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))

	// Lowering the flag is always allowed.
	assert.NoError(t, srv.SetFollowUp(ctx, out.OrderID, "cu000001", false))
}

func TestOrderService_SetFollowUp_OwnershipEnforced(t *testing.T) {
	srv := newOrderService(newTestStore(), nil)
	ctx := context.Background()

	out, err := srv.CreateOrder(ctx, checkoutInput())
	require.NoError(t, err)
	require.NoError(t, srv.UpdateStatus(ctx, out.OrderID, "verify payment", "fr000001"))

	// Another customer cannot raise or lower the flag by guessing the ID.
	err = srv.SetFollowUp(ctx, out.OrderID, "cu000099", true)
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))

	order, _ := srv.GetOrder(ctx, out.OrderID)
	assert.False(t, order.FollowUp)

	require.NoError(t, srv.SetFollowUp(ctx, out.OrderID, "cu000001", true))

	err = srv.SetFollowUp(ctx, out.OrderID, "cu000099", false)
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))

	order, _ = srv.GetOrder(ctx, out.OrderID)
	assert.True(t, order.FollowUp)
}

func TestOrderService_SubmitPayment(t *testing.T) {
	srv := newOrderService(newTestStore(), nil)
	ctx := context.Background()

	out, err := srv.CreateOrder(ctx, checkoutInput())
	require.NoError(t, err)

	err = srv.SubmitPayment(ctx, &usecase.SubmitPaymentInput{
		OrderID:         out.OrderID,
		OwnerID:         "cu000001",
		Method:          "gcash",
		Amount:          "10.00",
		ReferenceNumber: "REF-123",
	})
	require.NoError(t, err)

	order, err := srv.GetOrder(ctx, out.OrderID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusVerifyPayment, order.Status)
	require.NotNil(t, order.Payment)
	assert.Equal(t, "gcash", order.Payment.Method)
	assert.InDelta(t, 10.0, order.Payment.Amount, 1e-9)
	assert.Equal(t, "REF-123", order.Payment.ReferenceNumber)

	// A second submission is rejected; the order already left pending.
	err = srv.SubmitPayment(ctx, &usecase.SubmitPaymentInput{
		OrderID: out.OrderID,
		OwnerID: "cu000001",
		Method:  "gcash",
		Amount:  "10.00",
	})
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
}

func TestOrderService_SubmitPayment_OwnershipEnforced(t *testing.T) {
	srv := newOrderService(newTestStore(), nil)
	ctx := context.Background()

	out, err := srv.CreateOrder(ctx, checkoutInput())
	require.NoError(t, err)

	err = srv.SubmitPayment(ctx, &usecase.SubmitPaymentInput{
		OrderID: out.OrderID,
		OwnerID: "cu000099",
		Method:  "gcash",
		Amount:  "10.00",
	})
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))
}

func TestOrderService_GetOrdersByCode_OwnerIsAuthorizationBoundary(t *testing.T) {
	srv := newOrderService(newTestStore(), nil)
	ctx := context.Background()

	out, err := srv.CreateOrder(ctx, checkoutInput())
	require.NoError(t, err)

	mine, err := srv.GetOrdersByCode(ctx, out.OrderCode, "cu000001")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, out.OrderID, mine[0].ID)

	// Guessing someone else's code yields nothing, not an error.
	theirs, err := srv.GetOrdersByCode(ctx, out.OrderCode, "cu000099")
	require.NoError(t, err)
	assert.Empty(t, theirs)
}

func TestOrderService_QueriesSortNewestFirst(t *testing.T) {
	srv := newOrderService(newTestStore(), nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := srv.CreateOrder(ctx, checkoutInput())
		require.NoError(t, err)
	}

	orders, err := srv.GetOrdersByOwner(ctx, "cu000001")
	require.NoError(t, err)
	require.Len(t, orders, 3)
	for i := 1; i < len(orders); i++ {
		assert.False(t, orders[i-1].CreatedAt.Before(orders[i].CreatedAt))
	}

	byFranchise, err := srv.GetOrdersByFranchise(ctx, "fr000001")
	require.NoError(t, err)
	assert.Len(t, byFranchise, 3)
}

func TestOrderService_GetAllOrders(t *testing.T) {
	srv := newOrderService(newTestStore(), nil)
	ctx := context.Background()

	_, err := srv.CreateOrder(ctx, checkoutInput())
	require.NoError(t, err)

	other := checkoutInput()
	other.OwnerID = "cu000002"
	other.FranchiseID = "fr000002"
	_, err = srv.CreateOrder(ctx, other)
	require.NoError(t, err)

	// The console view spans every storefront, newest first.
	orders, err := srv.GetAllOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	for i := 1; i < len(orders); i++ {
		assert.False(t, orders[i-1].CreatedAt.Before(orders[i].CreatedAt))
	}
}

func TestOrderService_WatchFranchiseOrders(t *testing.T) {
	srv := newOrderService(newTestStore(), nil)
	ctx := context.Background()

	var mu sync.Mutex
	var deliveries [][]*entity.Order

	stop, err := srv.WatchFranchiseOrders(ctx, "fr000001", func(orders []*entity.Order) {
		mu.Lock()
		defer mu.Unlock()
		deliveries = append(deliveries, orders)
	})
	require.NoError(t, err)
	defer stop()

	mu.Lock()
	require.Len(t, deliveries, 1)
	assert.Empty(t, deliveries[0])
	mu.Unlock()

	_, err = srv.CreateOrder(ctx, checkoutInput())
	require.NoError(t, err)

	mu.Lock()
	last := deliveries[len(deliveries)-1]
	mu.Unlock()
	require.Len(t, last, 1)
	assert.Equal(t, "fr000001", last[0].FranchiseID)

	// Orders for other storefronts never reach this feed.
	input := checkoutInput()
	input.FranchiseID = "fr000002"
	_, err = srv.CreateOrder(ctx, input)
	require.NoError(t, err)

	mu.Lock()
	last = deliveries[len(deliveries)-1]
	mu.Unlock()
	assert.Len(t, last, 1)
}
