package usecase

import (
	"context"

	"github.com/google/uuid"

	domainErrors "github.com/shopline/storefront/internal/domain/errors"
	"github.com/shopline/storefront/internal/domain/model"
	"github.com/shopline/storefront/internal/domain/repository"
)

// Order listing pagination bounds.
const (
	defaultOrderLimit = 10
	maxOrderLimit     = 100
)

// OrderUseCase encapsulates order lifecycle logic.
type OrderUseCase struct {
	orders repository.OrderRepository
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(orders repository.OrderRepository) *OrderUseCase {
	return &OrderUseCase{orders: orders}
}

// PlaceOrderRequest is the typed placement payload.
type PlaceOrderRequest struct {
	Items           []model.RequestedItem
	ShippingAddress model.ShippingAddress
	PaymentMethod   model.PaymentMethod
	PaymentDetails  *model.PaymentDetails
}

// Place validates the request and creates the order. Owner name and email are
// snapshotted from the authenticated user; pricing is computed from catalog
// rows inside the placement transaction, never taken from the client.
func (u *OrderUseCase) Place(ctx context.Context, user *model.User, req PlaceOrderRequest) (*model.Order, error) {
	if len(req.Items) == 0 || !req.ShippingAddress.Complete() || req.PaymentMethod == "" {
		return nil, domainErrors.NewValidation("missing required order information")
	}
	if !model.ValidPaymentMethod(req.PaymentMethod) {
		return nil, domainErrors.NewValidation("unknown payment method %s", req.PaymentMethod)
	}
	for _, item := range req.Items {
		if item.ProductID == "" {
			return nil, domainErrors.NewValidation("order item without product id")
		}
		if item.Quantity < 1 {
			return nil, domainErrors.NewValidation("order item quantity must be at least 1")
		}
	}

	// Card details are recorded only for creditCard orders.
	details := req.PaymentDetails
	if req.PaymentMethod != model.PaymentMethodCreditCard {
		details = nil
	}

	order := &model.Order{
		ID:              uuid.NewString(),
		UserID:          user.ID,
		UserName:        user.Name,
		UserEmail:       user.Email,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		PaymentDetails:  details,
		Status:          model.OrderStatusPending,
	}
	if err := u.orders.Create(ctx, order, req.Items); err != nil {
		return nil, err
	}
	return order, nil
}

// Get returns the order detail view. Customers can only read their own
// orders; an order owned by someone else is reported as not found rather
// than revealing its existence.
func (u *OrderUseCase) Get(ctx context.Context, user *model.User, id string) (*model.OrderDetail, error) {
	detail, err := u.orders.GetDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	if detail.UserID != user.ID && !user.IsAdmin() {
		return nil, &domainErrors.NotFoundError{Resource: "order", ID: id}
	}
	return detail, nil
}

// List returns a page of orders plus the total match count.
func (u *OrderUseCase) List(ctx context.Context, filter model.OrderFilter) ([]model.Order, int, error) {
	if filter.Status != "" && !model.ValidOrderStatus(filter.Status) {
		return nil, 0, domainErrors.NewValidation("unknown order status %s", filter.Status)
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = defaultOrderLimit
	}
	if filter.Limit > maxOrderLimit {
		filter.Limit = maxOrderLimit
	}
	return u.orders.List(ctx, filter)
}

// UpdateStatus advances the order through the transition table. Cancelling
// does not restore stock; inventory corrections are an explicit
// administrative product update.
func (u *OrderUseCase) UpdateStatus(ctx context.Context, id string, to model.OrderStatus) (*model.Order, error) {
	if !model.ValidOrderStatus(to) {
		return nil, domainErrors.NewValidation("unknown order status %s", to)
	}

	order, err := u.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(to) {
		return nil, &domainErrors.InvalidTransitionError{From: order.Status, To: to}
	}

	// The conditional update reports a concurrent transition as an
	// InvalidTransitionError naming the winner's status.
	if err := u.orders.UpdateStatus(ctx, id, order.Status, to); err != nil {
		return nil, err
	}
	order.Status = to
	return order, nil
}

// UnpublishedEvents returns the next outbox batch for the dispatcher.
func (u *OrderUseCase) UnpublishedEvents(ctx context.Context, limit int) ([]model.OrderEvent, error) {
	return u.orders.UnpublishedEvents(ctx, limit)
}

// MarkEventPublished records successful delivery of an outbox event.
func (u *OrderUseCase) MarkEventPublished(ctx context.Context, eventID int64) error {
	return u.orders.MarkEventPublished(ctx, eventID)
}
