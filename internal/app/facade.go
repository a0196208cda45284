package app

import (
	"context"

	domainErrors "github.com/shopline/storefront/internal/domain/errors"
	"github.com/shopline/storefront/internal/domain/model"
	"github.com/shopline/storefront/internal/usecase"
)

// StorefrontFacade is the single application entry point consumed by the HTTP
// layer and the outbox dispatcher.
type StorefrontFacade struct {
	auth     *usecase.AuthUseCase
	products *usecase.ProductUseCase
	carts    *usecase.CartUseCase
	orders   *usecase.OrderUseCase
	admin    *usecase.AdminUseCase
}

func NewStorefrontFacade(
	auth *usecase.AuthUseCase,
	products *usecase.ProductUseCase,
	carts *usecase.CartUseCase,
	orders *usecase.OrderUseCase,
	admin *usecase.AdminUseCase,
) *StorefrontFacade {
	return &StorefrontFacade{auth: auth, products: products, carts: carts, orders: orders, admin: admin}
}

func (f *StorefrontFacade) Register(ctx context.Context, params usecase.RegisterParams) (*model.User, string, error) {
	return f.auth.Register(ctx, params)
}

func (f *StorefrontFacade) Authenticate(ctx context.Context, email, password string) (*model.User, string, error) {
	return f.auth.Authenticate(ctx, email, password)
}

func (f *StorefrontFacade) ParseToken(token string) (string, error) {
	return f.auth.ParseToken(token)
}

func (f *StorefrontFacade) User(ctx context.Context, id string) (*model.User, error) {
	return f.auth.GetByID(ctx, id)
}

func (f *StorefrontFacade) UpdateProfile(ctx context.Context, userID string, params usecase.UpdateProfileParams) (*model.User, error) {
	return f.auth.UpdateProfile(ctx, userID, params)
}

func (f *StorefrontFacade) ChangePassword(ctx context.Context, userID, current, next string) error {
	return f.auth.ChangePassword(ctx, userID, current, next)
}

func (f *StorefrontFacade) CreateProduct(ctx context.Context, params usecase.CreateProductParams) (*model.Product, error) {
	return f.products.Create(ctx, params)
}

func (f *StorefrontFacade) Product(ctx context.Context, id string) (*model.Product, error) {
	return f.products.Get(ctx, id)
}

func (f *StorefrontFacade) Products(ctx context.Context, filter model.ProductFilter) ([]model.Product, int, error) {
	return f.products.List(ctx, filter)
}

func (f *StorefrontFacade) UpdateProduct(ctx context.Context, id string, params usecase.UpdateProductParams) (*model.Product, error) {
	return f.products.Update(ctx, id, params)
}

func (f *StorefrontFacade) DeleteProduct(ctx context.Context, id string) error {
	return f.products.Delete(ctx, id)
}

func (f *StorefrontFacade) AddReview(ctx context.Context, userID, productID string, rating int, comment string) (*model.Review, error) {
	return f.products.AddReview(ctx, userID, productID, rating, comment)
}

func (f *StorefrontFacade) Cart(ctx context.Context, userID string) (*model.Cart, error) {
	return f.carts.Get(ctx, userID)
}

func (f *StorefrontFacade) AddToCart(ctx context.Context, userID, productID string, quantity int) error {
	return f.carts.Add(ctx, userID, productID, quantity)
}

func (f *StorefrontFacade) SetCartQuantity(ctx context.Context, userID, productID string, quantity int) error {
	return f.carts.SetQuantity(ctx, userID, productID, quantity)
}

func (f *StorefrontFacade) RemoveFromCart(ctx context.Context, userID, productID string) error {
	return f.carts.Remove(ctx, userID, productID)
}

func (f *StorefrontFacade) ClearCart(ctx context.Context, userID string) error {
	return f.carts.Clear(ctx, userID)
}

func (f *StorefrontFacade) PlaceOrder(ctx context.Context, user *model.User, req usecase.PlaceOrderRequest) (*model.Order, error) {
	return f.orders.Place(ctx, user, req)
}

// Checkout places an order from the stored cart and clears the cart only
// after placement succeeded. A failed placement leaves the cart intact so the
// customer can fix it and retry.
func (f *StorefrontFacade) Checkout(ctx context.Context, user *model.User, req usecase.PlaceOrderRequest) (*model.Order, error) {
	items, err := f.carts.Items(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, domainErrors.NewValidation("cart is empty")
	}

	req.Items = make([]model.RequestedItem, 0, len(items))
	for _, item := range items {
		req.Items = append(req.Items, model.RequestedItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	order, err := f.orders.Place(ctx, user, req)
	if err != nil {
		return nil, err
	}
	if err := f.carts.Clear(ctx, user.ID); err != nil {
		return order, err
	}
	return order, nil
}

func (f *StorefrontFacade) Order(ctx context.Context, user *model.User, id string) (*model.OrderDetail, error) {
	return f.orders.Get(ctx, user, id)
}

func (f *StorefrontFacade) Orders(ctx context.Context, filter model.OrderFilter) ([]model.Order, int, error) {
	return f.orders.List(ctx, filter)
}

func (f *StorefrontFacade) UpdateOrderStatus(ctx context.Context, id string, to model.OrderStatus) (*model.Order, error) {
	return f.orders.UpdateStatus(ctx, id, to)
}

func (f *StorefrontFacade) Users(ctx context.Context, filter model.UserFilter) ([]model.User, int, error) {
	return f.admin.ListUsers(ctx, filter)
}

func (f *StorefrontFacade) UserByID(ctx context.Context, id string) (*model.User, error) {
	return f.admin.GetUser(ctx, id)
}

func (f *StorefrontFacade) Dashboard(ctx context.Context) (*model.DashboardStats, error) {
	return f.admin.Dashboard(ctx)
}

func (f *StorefrontFacade) PendingOrderEvents(ctx context.Context, limit int) ([]model.OrderEvent, error) {
	return f.orders.UnpublishedEvents(ctx, limit)
}

func (f *StorefrontFacade) MarkOrderEventPublished(ctx context.Context, eventID int64) error {
	return f.orders.MarkEventPublished(ctx, eventID)
}
