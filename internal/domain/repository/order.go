package repository

import (
	"context"

	"github.com/shopline/storefront/internal/domain/model"
)

// OrderRepository describes persistence operations with orders.
//
// Create runs as a single transaction: every requested item is decremented
// with a conditional update (stock >= quantity), prices and names are
// snapshotted from the catalog rows, the total is computed server-side, and
// the order, its items, and an order.created outbox event are inserted
// together. Any failed item aborts the whole transaction, so no stock is ever
// decremented for a rejected order.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order, items []model.RequestedItem) error
	GetByID(ctx context.Context, id string) (*model.Order, error)
	GetDetail(ctx context.Context, id string) (*model.OrderDetail, error)
	List(ctx context.Context, filter model.OrderFilter) ([]model.Order, int, error)
	UpdateStatus(ctx context.Context, id string, from, to model.OrderStatus) error
	UnpublishedEvents(ctx context.Context, limit int) ([]model.OrderEvent, error)
	MarkEventPublished(ctx context.Context, eventID int64) error
}
