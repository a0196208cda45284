package repository

import (
	"context"

	"github.com/shopline/storefront/internal/domain/model"
)

// ProductRepository describes persistence operations with the catalog.
type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	GetByID(ctx context.Context, id string) (*model.Product, error)
	List(ctx context.Context, filter model.ProductFilter) ([]model.Product, int, error)
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id string) error
	AddReview(ctx context.Context, review *model.Review) error
}
