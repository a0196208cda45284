package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"

	domainErrors "github.com/shopline/storefront/internal/domain/errors"
	"github.com/shopline/storefront/internal/domain/model"
	"github.com/shopline/storefront/internal/domain/repository"
)

// Catalog pagination bounds.
const (
	defaultCatalogLimit = 8
	maxCatalogLimit     = 24
)

// ProductUseCase encapsulates catalog management.
type ProductUseCase struct {
	products repository.ProductRepository
}

// NewProductUseCase constructs ProductUseCase.
func NewProductUseCase(products repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{products: products}
}

// CreateProductParams carries the new-product payload.
type CreateProductParams struct {
	Name        string
	Description string
	Price       float64
	Category    string
	Images      []string
	Stock       int
}

// Create adds a product to the catalog.
func (u *ProductUseCase) Create(ctx context.Context, params CreateProductParams) (*model.Product, error) {
	name := strings.TrimSpace(params.Name)
	switch {
	case name == "":
		return nil, domainErrors.NewValidation("product name is required")
	case len(name) > 100:
		return nil, domainErrors.NewValidation("product name must be at most 100 characters")
	case strings.TrimSpace(params.Description) == "":
		return nil, domainErrors.NewValidation("product description is required")
	case strings.TrimSpace(params.Category) == "":
		return nil, domainErrors.NewValidation("product category is required")
	case params.Price < 0:
		return nil, domainErrors.NewValidation("product price must not be negative")
	case params.Stock < 0:
		return nil, domainErrors.NewValidation("product stock must not be negative")
	}

	product := &model.Product{
		ID:          uuid.NewString(),
		Name:        name,
		Description: params.Description,
		Price:       params.Price,
		Category:    params.Category,
		Images:      params.Images,
		Stock:       params.Stock,
	}
	if err := u.products.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Get fetches a single catalog entry.
func (u *ProductUseCase) Get(ctx context.Context, id string) (*model.Product, error) {
	return u.products.GetByID(ctx, id)
}

// List returns a catalog page plus the total match count.
func (u *ProductUseCase) List(ctx context.Context, filter model.ProductFilter) ([]model.Product, int, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = defaultCatalogLimit
	}
	if filter.Limit > maxCatalogLimit {
		filter.Limit = maxCatalogLimit
	}
	return u.products.List(ctx, filter)
}

// UpdateProductParams carries optional catalog edits. Nil fields are left
// untouched.
type UpdateProductParams struct {
	Name        *string
	Description *string
	Price       *float64
	Category    *string
	Images      []string
	Stock       *int
}

// Update applies partial edits to a product. Stock set here is an explicit
// administrative adjustment, distinct from order placement decrements.
func (u *ProductUseCase) Update(ctx context.Context, id string, params UpdateProductParams) (*model.Product, error) {
	product, err := u.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		name := strings.TrimSpace(*params.Name)
		if name == "" {
			return nil, domainErrors.NewValidation("product name must not be empty")
		}
		product.Name = name
	}
	if params.Description != nil {
		product.Description = *params.Description
	}
	if params.Price != nil {
		if *params.Price < 0 {
			return nil, domainErrors.NewValidation("product price must not be negative")
		}
		product.Price = *params.Price
	}
	if params.Category != nil {
		product.Category = *params.Category
	}
	if params.Images != nil {
		product.Images = params.Images
	}
	if params.Stock != nil {
		if *params.Stock < 0 {
			return nil, domainErrors.NewValidation("product stock must not be negative")
		}
		product.Stock = *params.Stock
	}

	if err := u.products.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete removes a product from the catalog. Existing orders keep their
// snapshots.
func (u *ProductUseCase) Delete(ctx context.Context, id string) error {
	return u.products.Delete(ctx, id)
}

// AddReview attaches a customer rating to a product.
func (u *ProductUseCase) AddReview(ctx context.Context, userID, productID string, rating int, comment string) (*model.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, domainErrors.NewValidation("rating must be between 1 and 5")
	}
	review := &model.Review{
		ID:        uuid.NewString(),
		ProductID: productID,
		UserID:    userID,
		Rating:    rating,
		Comment:   strings.TrimSpace(comment),
	}
	if err := u.products.AddReview(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}
