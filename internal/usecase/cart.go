package usecase

import (
	"context"
	"errors"

	domainErrors "github.com/shopline/storefront/internal/domain/errors"
	"github.com/shopline/storefront/internal/domain/model"
	"github.com/shopline/storefront/internal/domain/repository"
)

// CartUseCase manages the server-side shopping cart. The cart is a live view
// priced against the current catalog; snapshotting happens only at order
// placement.
type CartUseCase struct {
	carts    repository.CartRepository
	products repository.ProductRepository
}

// NewCartUseCase constructs CartUseCase.
func NewCartUseCase(carts repository.CartRepository, products repository.ProductRepository) *CartUseCase {
	return &CartUseCase{carts: carts, products: products}
}

// Get resolves the user's cart against the catalog. Entries whose product no
// longer exists are evicted from the stored cart.
func (u *CartUseCase) Get(ctx context.Context, userID string) (*model.Cart, error) {
	items, err := u.carts.Items(ctx, userID)
	if err != nil {
		return nil, err
	}

	cart := &model.Cart{Lines: make([]model.CartLine, 0, len(items))}
	for _, item := range items {
		product, err := u.products.GetByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, domainErrors.ErrNotFound) {
				if err := u.carts.Remove(ctx, userID, item.ProductID); err != nil {
					return nil, err
				}
				continue
			}
			return nil, err
		}
		subtotal := product.Price * float64(item.Quantity)
		cart.Lines = append(cart.Lines, model.CartLine{
			Product:  *product,
			Quantity: item.Quantity,
			Subtotal: subtotal,
		})
		cart.Total += subtotal
	}
	return cart, nil
}

// Add merges quantity for the product into the cart.
func (u *CartUseCase) Add(ctx context.Context, userID, productID string, quantity int) error {
	if quantity < 1 {
		return domainErrors.NewValidation("quantity must be at least 1")
	}
	if _, err := u.products.GetByID(ctx, productID); err != nil {
		return err
	}
	return u.carts.Add(ctx, userID, productID, quantity)
}

// SetQuantity overwrites the cart entry; zero removes it.
func (u *CartUseCase) SetQuantity(ctx context.Context, userID, productID string, quantity int) error {
	if quantity < 0 {
		return domainErrors.NewValidation("quantity must not be negative")
	}
	if quantity > 0 {
		if _, err := u.products.GetByID(ctx, productID); err != nil {
			return err
		}
	}
	return u.carts.SetQuantity(ctx, userID, productID, quantity)
}

// Remove deletes one product from the cart.
func (u *CartUseCase) Remove(ctx context.Context, userID, productID string) error {
	return u.carts.Remove(ctx, userID, productID)
}

// Clear drops the whole cart.
func (u *CartUseCase) Clear(ctx context.Context, userID string) error {
	return u.carts.Clear(ctx, userID)
}

// Items returns the raw cart entries for checkout.
func (u *CartUseCase) Items(ctx context.Context, userID string) ([]model.CartItem, error) {
	return u.carts.Items(ctx, userID)
}
