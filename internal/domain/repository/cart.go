package repository

import (
	"context"

	"github.com/shopline/storefront/internal/domain/model"
)

// CartRepository describes per-user cart persistence.
type CartRepository interface {
	Items(ctx context.Context, userID string) ([]model.CartItem, error)
	Add(ctx context.Context, userID, productID string, quantity int) error
	SetQuantity(ctx context.Context, userID, productID string, quantity int) error
	Remove(ctx context.Context, userID, productID string) error
	Clear(ctx context.Context, userID string) error
}
