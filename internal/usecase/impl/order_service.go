package impl

import (
	"context"
	"log/slog"
	"sort"
	"strconv"
	"time"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// orderService implements the OrderUsecase interface.
type orderService struct {
	txManager repository.TransactionManager
	orderRepo repository.OrderRepository
	watcher   repository.OrderWatcher
	publisher service.EventPublisher
	logger    *slog.Logger
}

// OrderServiceParams holds dependencies for orderService, injected by Fx.
type OrderServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	OrderRepo repository.OrderRepository
	Watcher   repository.OrderWatcher
	Publisher service.EventPublisher `optional:"true"`
	Logger    *slog.Logger
}

// NewOrderService is the constructor for orderService. It receives all dependencies as interfaces.
func NewOrderService(params OrderServiceParams) usecase.OrderUsecase {
	return &orderService{
		txManager: params.TxManager,
		orderRepo: params.OrderRepo,
		watcher:   params.Watcher,
		publisher: params.Publisher,
		logger:    params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *orderService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// CreateOrder validates the checkout submission and persists one pending
// order. The per-customer sequence read and the order write run in the
// same transaction, so two concurrent checkouts by one customer cannot
// observe the same order count.
func (srv *orderService) CreateOrder(ctx context.Context, input *usecase.CreateOrderInput) (*usecase.CreateOrderOutput, error) {
	if input.OwnerID == "" {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("userId is required for creating an order")
	}
	if input.FranchiseID == "" {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("franchiseId is required for creating an order")
	}
	if len(input.Items) == 0 {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("order must contain at least one item")
	}

	items, err := parseOrderItems(input.Items)
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Creating order",
		slog.String("ownerID", input.OwnerID),
		slog.String("franchiseID", input.FranchiseID),
		slog.Int("items", len(items)),
	)

	trackingNumber := entity.NewTrackingNumber()

	var created *entity.Order
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		orderRepo := repoFactory.Orders()

		count, err := orderRepo.CountByOwner(ctx, input.OwnerID)
		if err != nil {
			return errors.Wrap(err, "failed to count owner orders")
		}
		orderNumber := count + 1

		now := time.Now()
		order := &entity.Order{
			OwnerID:     input.OwnerID,
			FranchiseID: input.FranchiseID,
			OrderCode: entity.OrderCode(
				items,
				input.ShippingAddress.ZipCode,
				input.ShippingAddress.Country,
				orderNumber,
				input.FranchiseID,
			),
			OrderNumber:     orderNumber,
			Items:           items,
			ShippingAddress: input.ShippingAddress,
			CustomerInfo:    input.CustomerInfo,
			SellerMessage:   input.SellerMessage,
			StoreSlug:       input.StoreSlug,
			Status:          entity.StatusPending,
			TotalAmount:     entity.ItemsTotal(items),
			TrackingNumber:  trackingNumber,
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		if err := orderRepo.Create(ctx, order); err != nil {
			return errors.Wrap(err, "failed to persist order")
		}
		created = order

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to create order", slog.String("ownerID", input.OwnerID), slog.Any("error", err))

		return nil, domainerrors.NewStorageError(err, "order creation transaction failed")
	}

	srv.log(ctx).Debug("Order created",
		slog.String("orderID", created.ID),
		slog.String("orderCode", created.OrderCode),
	)

	return &usecase.CreateOrderOutput{
		OrderID:                created.ID,
		OrderCode:              created.OrderCode,
		OrderCodeWithFranchise: created.OrderCode,
		OwnerID:                created.OwnerID,
		TrackingNumber:         created.TrackingNumber,
	}, nil
}

// GetOrder returns the order with the given ID, or nil when absent.
func (srv *orderService) GetOrder(ctx context.Context, orderID string) (*entity.Order, error) {
	order, err := srv.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, domainerrors.NewStorageError(err, "failed to load order")
	}

	return order, nil
}

// GetOrdersByCode filters by both code and owner; the owner filter is
// what stops one customer reading another's order by guessing a code.
func (srv *orderService) GetOrdersByCode(ctx context.Context, orderCode, ownerID string) ([]*entity.Order, error) {
	orders, err := srv.orderRepo.FindByCodeAndOwner(ctx, orderCode, ownerID)
	if err != nil {
		return nil, domainerrors.NewStorageError(err, "failed to query orders by code")
	}

	return orders, nil
}

// GetOrdersByOwner returns one customer's orders, newest first.
func (srv *orderService) GetOrdersByOwner(ctx context.Context, ownerID string) ([]*entity.Order, error) {
	orders, err := srv.orderRepo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, domainerrors.NewStorageError(err, "failed to query orders by owner")
	}
	sortNewestFirst(orders)

	return orders, nil
}

// GetOrdersByFranchise returns one storefront's orders, newest first.
// Sorting happens here rather than in the storage query to avoid a
// composite index requirement.
func (srv *orderService) GetOrdersByFranchise(ctx context.Context, franchiseID string) ([]*entity.Order, error) {
	orders, err := srv.orderRepo.FindByFranchise(ctx, franchiseID)
	if err != nil {
		return nil, domainerrors.NewStorageError(err, "failed to query orders by franchise")
	}
	sortNewestFirst(orders)

	return orders, nil
}

// GetAllOrders returns every order, newest first. The webmaster console
// is the only consumer; role gating happens at the delivery layer.
func (srv *orderService) GetAllOrders(ctx context.Context) ([]*entity.Order, error) {
	orders, err := srv.orderRepo.FindAll(ctx)
	if err != nil {
		return nil, domainerrors.NewStorageError(err, "failed to query all orders")
	}
	sortNewestFirst(orders)

	return orders, nil
}

// UpdateStatus moves an order to the named workflow state. Any status
// change resets the customer's follow-up flag. A franchise actor is
// scoped to orders of their own storefront; webmasters operate on any
// order.
func (srv *orderService) UpdateStatus(ctx context.Context, orderID, status, actorID string) error {
	parsed, ok := entity.ParseOrderStatus(status)
	if !ok {
		return domainerrors.ErrInvalidStatus.WithDetails(status)
	}

	if actorID != "" {
		if category, ok := entity.CategoryFromID(actorID); ok && category == entity.CategoryFranchise {
			order, err := srv.orderRepo.FindByID(ctx, orderID)
			if err != nil {
				return domainerrors.NewStorageError(err, "failed to load order for status update")
			}
			if order == nil {
				return domainerrors.ErrOrderNotFound.WrapMessage("cannot update status")
			}
			if order.FranchiseID != actorID {
				return domainerrors.ErrForbidden.WrapMessage("order belongs to another storefront")
			}
		}
	}

	if err := srv.orderRepo.UpdateStatus(ctx, orderID, parsed, nil); err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return domainerrors.ErrOrderNotFound.WrapMessage("cannot update status")
		}

		return domainerrors.NewStorageError(err, "failed to update order status")
	}

	srv.publishStatusChange(ctx, orderID, parsed)

	return nil
}

// SubmitPayment records the customer's payment details and moves the
// order from pending to verify payment.
func (srv *orderService) SubmitPayment(ctx context.Context, input *usecase.SubmitPaymentInput) error {
	amount, err := strconv.ParseFloat(input.Amount, 64)
	if err != nil {
		return domainerrors.ErrValidationFailed.WrapMessage("payment amount must be numeric")
	}

	order, err := srv.orderRepo.FindByID(ctx, input.OrderID)
	if err != nil {
		return domainerrors.NewStorageError(err, "failed to load order for payment")
	}
	if order == nil {
		return domainerrors.ErrOrderNotFound.WrapMessage("cannot submit payment")
	}
	if input.OwnerID != "" && order.OwnerID != input.OwnerID {
		return domainerrors.ErrForbidden.WrapMessage("order belongs to another customer")
	}
	if order.Status != entity.StatusPending {
		return domainerrors.ErrValidationFailed.WrapMessage("payment already submitted for this order")
	}

	payment := &entity.PaymentDetails{
		Method:          input.Method,
		Amount:          amount,
		ReferenceNumber: input.ReferenceNumber,
		SubmittedAt:     time.Now(),
	}

	if err := srv.orderRepo.UpdateStatus(ctx, input.OrderID, entity.StatusVerifyPayment, payment); err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return domainerrors.ErrOrderNotFound.WrapMessage("cannot submit payment")
		}

		return domainerrors.NewStorageError(err, "failed to record payment submission")
	}

	srv.publishStatusChange(ctx, input.OrderID, entity.StatusVerifyPayment)

	return nil
}

// SetFollowUp toggles the customer's follow-up flag. The caller must
// own the order. The flag can only be raised once the order has left
// the pending state; only the next status transition lowers it again.
func (srv *orderService) SetFollowUp(ctx context.Context, orderID, ownerID string, followUp bool) error {
	order, err := srv.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return domainerrors.NewStorageError(err, "failed to load order for follow-up")
	}
	if order == nil {
		return domainerrors.ErrOrderNotFound.WrapMessage("cannot set follow-up")
	}
	if ownerID != "" && order.OwnerID != ownerID {
		return domainerrors.ErrForbidden.WrapMessage("order belongs to another customer")
	}
	if followUp && order.Status == entity.StatusPending {
		return domainerrors.ErrValidationFailed.WrapMessage("follow-up is not available while the order is pending")
	}

	if err := srv.orderRepo.UpdateFollowUp(ctx, orderID, followUp); err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return domainerrors.ErrOrderNotFound.WrapMessage("cannot set follow-up")
		}

		return domainerrors.NewStorageError(err, "failed to update follow-up flag")
	}

	return nil
}

// WatchFranchiseOrders starts the live order feed for a storefront. Each
// delivery carries the full refreshed list, newest first.
func (srv *orderService) WatchFranchiseOrders(ctx context.Context, franchiseID string, fn func([]*entity.Order)) (func(), error) {
	stop, err := srv.watcher.WatchByFranchise(ctx, franchiseID, func(orders []*entity.Order) {
		sortNewestFirst(orders)
		fn(orders)
	})
	if err != nil {
		return nil, domainerrors.NewStorageError(err, "failed to start franchise order watch")
	}

	return stop, nil
}

// publishStatusChange emits an order event; failures are logged, never
// surfaced, because the status write has already committed.
func (srv *orderService) publishStatusChange(ctx context.Context, orderID string, status entity.OrderStatus) {
	if srv.publisher == nil {
		return
	}

	order, err := srv.orderRepo.FindByID(ctx, orderID)
	if err != nil || order == nil {
		srv.log(ctx).Warn("Skipping event publish, order reload failed", slog.String("orderID", orderID), slog.Any("error", err))

		return
	}

	event := &service.OrderEvent{
		RequestID:   deliverycontext.GetRequestIDFromContext(ctx),
		EventID:     uuid.New().String(),
		OrderID:     order.ID,
		OrderCode:   order.OrderCode,
		OwnerID:     order.OwnerID,
		FranchiseID: order.FranchiseID,
		Status:      string(status),
		OccurredAt:  time.Now().UTC().Format(time.RFC3339),
	}

	if err := srv.publisher.PublishOrderEvent(ctx, event); err != nil {
		srv.log(ctx).Warn("Failed to publish order event", slog.String("orderID", orderID), slog.Any("error", err))
	}
}

// parseOrderItems coerces price and quantity with validation. Non-numeric
// input is rejected instead of propagating NaN or zero the way a blind
// parse would.
func parseOrderItems(inputs []usecase.OrderItemInput) ([]entity.OrderItem, error) {
	items := make([]entity.OrderItem, 0, len(inputs))
	for _, in := range inputs {
		price, err := strconv.ParseFloat(in.Price, 64)
		if err != nil {
			return nil, domainerrors.ErrValidationFailed.WithDetails("item price must be numeric: " + in.Name)
		}
		quantity, err := strconv.Atoi(in.Quantity)
		if err != nil {
			return nil, domainerrors.ErrValidationFailed.WithDetails("item quantity must be numeric: " + in.Name)
		}
		if price < 0 || quantity <= 0 {
			return nil, domainerrors.ErrValidationFailed.WithDetails("item price/quantity out of range: " + in.Name)
		}

		items = append(items, entity.OrderItem{
			ID:       in.ID,
			Name:     in.Name,
			Price:    price,
			Quantity: quantity,
		})
	}

	return items, nil
}

// sortNewestFirst orders by creation time descending.
func sortNewestFirst(orders []*entity.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}
