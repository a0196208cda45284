package handlers

import (
	"context"

	"github.com/shopline/storefront/internal/domain/model"
	"github.com/shopline/storefront/internal/usecase"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, params usecase.RegisterParams) (*model.User, string, error)
	Authenticate(ctx context.Context, email, password string) (*model.User, string, error)
	ParseToken(token string) (string, error)
	User(ctx context.Context, id string) (*model.User, error)
	UpdateProfile(ctx context.Context, userID string, params usecase.UpdateProfileParams) (*model.User, error)
	ChangePassword(ctx context.Context, userID, current, next string) error
}

// CatalogFacade encapsulates product operations exposed via HTTP.
type CatalogFacade interface {
	CreateProduct(ctx context.Context, params usecase.CreateProductParams) (*model.Product, error)
	Product(ctx context.Context, id string) (*model.Product, error)
	Products(ctx context.Context, filter model.ProductFilter) ([]model.Product, int, error)
	UpdateProduct(ctx context.Context, id string, params usecase.UpdateProductParams) (*model.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	AddReview(ctx context.Context, userID, productID string, rating int, comment string) (*model.Review, error)
}

// CartFacade encapsulates cart operations exposed via HTTP.
type CartFacade interface {
	Cart(ctx context.Context, userID string) (*model.Cart, error)
	AddToCart(ctx context.Context, userID, productID string, quantity int) error
	SetCartQuantity(ctx context.Context, userID, productID string, quantity int) error
	RemoveFromCart(ctx context.Context, userID, productID string) error
	ClearCart(ctx context.Context, userID string) error
	Checkout(ctx context.Context, user *model.User, req usecase.PlaceOrderRequest) (*model.Order, error)
}

// OrderFacade encapsulates order operations exposed via HTTP.
type OrderFacade interface {
	PlaceOrder(ctx context.Context, user *model.User, req usecase.PlaceOrderRequest) (*model.Order, error)
	Order(ctx context.Context, user *model.User, id string) (*model.OrderDetail, error)
	Orders(ctx context.Context, filter model.OrderFilter) ([]model.Order, int, error)
	UpdateOrderStatus(ctx context.Context, id string, to model.OrderStatus) (*model.Order, error)
}

// AdminFacade serves administrative listings and the dashboard.
type AdminFacade interface {
	Users(ctx context.Context, filter model.UserFilter) ([]model.User, int, error)
	UserByID(ctx context.Context, id string) (*model.User, error)
	Dashboard(ctx context.Context) (*model.DashboardStats, error)
}

// StorefrontFacade aggregates the full set of operations used across handlers.
type StorefrontFacade interface {
	AuthFacade
	CatalogFacade
	CartFacade
	OrderFacade
	AdminFacade
}
