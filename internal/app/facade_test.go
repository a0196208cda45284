package app

import (
	"context"
	"errors"
	"testing"

	domainErrors "github.com/shopline/storefront/internal/domain/errors"
	"github.com/shopline/storefront/internal/domain/model"
	testhelpers "github.com/shopline/storefront/internal/test"
	"github.com/shopline/storefront/internal/usecase"
)

type facadeFixtures struct {
	users    *testhelpers.UserRepositoryStub
	products *testhelpers.ProductRepositoryStub
	orders   *testhelpers.OrderRepositoryStub
	carts    *testhelpers.CartRepositoryStub
	stats    *testhelpers.StatsRepositoryStub
}

func newFacade() (*StorefrontFacade, *facadeFixtures) {
	f := &facadeFixtures{
		users:    testhelpers.NewUserRepositoryStub(),
		products: testhelpers.NewProductRepositoryStub(),
		orders:   &testhelpers.OrderRepositoryStub{},
		carts:    testhelpers.NewCartRepositoryStub(),
		stats:    &testhelpers.StatsRepositoryStub{},
	}
	facade := NewStorefrontFacade(
		usecase.NewAuthUseCase(f.users, testhelpers.HasherStub{}, testhelpers.StrategyStub{}),
		usecase.NewProductUseCase(f.products),
		usecase.NewCartUseCase(f.carts, f.products),
		usecase.NewOrderUseCase(f.orders),
		usecase.NewAdminUseCase(f.users, f.stats),
	)
	return facade, f
}

func checkoutRequest() usecase.PlaceOrderRequest {
	return usecase.PlaceOrderRequest{
		ShippingAddress: model.ShippingAddress{
			Name: "Alice", Email: "alice@example.com", Phone: "1",
			Address: "1 Main St", City: "Springfield", PostalCode: "12345", Country: "US",
		},
		PaymentMethod: model.PaymentMethodPaypal,
	}
}

func TestStorefrontFacadeAuth(t *testing.T) {
	facade, f := newFacade()

	user, token, err := facade.Register(context.Background(), usecase.RegisterParams{
		Name: "Alice", Email: "alice@example.com", Password: "secret",
	})
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	if token != "token" {
		t.Fatalf("unexpected token %q", token)
	}
	if _, err := f.users.GetByEmail(context.Background(), "alice@example.com"); err != nil {
		t.Fatalf("user not stored: %v", err)
	}

	if _, _, err := facade.Authenticate(context.Background(), "alice@example.com", "secret"); err != nil {
		t.Fatalf("authenticate returned error: %v", err)
	}
	id, err := facade.ParseToken("anything")
	if err != nil {
		t.Fatalf("parse token returned error: %v", err)
	}
	if id != "user-1" {
		t.Fatalf("unexpected id %q", id)
	}
	if _, err := facade.User(context.Background(), user.ID); err != nil {
		t.Fatalf("user lookup failed: %v", err)
	}
}

func TestStorefrontFacadeCheckout(t *testing.T) {
	facade, f := newFacade()
	f.products.Products["p1"] = &model.Product{ID: "p1", Name: "Mug", Price: 10, Stock: 5}
	user := &model.User{ID: "u1", Name: "Alice", Email: "alice@example.com"}

	if err := facade.AddToCart(context.Background(), "u1", "p1", 2); err != nil {
		t.Fatalf("add to cart failed: %v", err)
	}

	order, err := facade.Checkout(context.Background(), user, checkoutRequest())
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if len(order.Items) != 1 || order.Items[0].ProductID != "p1" || order.Items[0].Quantity != 2 {
		t.Fatalf("cart entries not converted to order items: %+v", order.Items)
	}
	if len(f.carts.Cleared) != 1 {
		t.Fatalf("cart not cleared after successful checkout")
	}
}

func TestStorefrontFacadeCheckoutEmptyCart(t *testing.T) {
	facade, _ := newFacade()
	user := &model.User{ID: "u1"}

	_, err := facade.Checkout(context.Background(), user, checkoutRequest())
	var validation *domainErrors.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestStorefrontFacadeCheckoutKeepsCartOnFailure(t *testing.T) {
	facade, f := newFacade()
	f.products.Products["p1"] = &model.Product{ID: "p1", Name: "Mug", Price: 10, Stock: 5}
	f.orders.CreateFn = func(context.Context, *model.Order, []model.RequestedItem) error {
		return &domainErrors.InsufficientStockError{Product: "Mug", Available: 1}
	}
	user := &model.User{ID: "u1", Name: "Alice", Email: "alice@example.com"}

	if err := facade.AddToCart(context.Background(), "u1", "p1", 2); err != nil {
		t.Fatalf("add to cart failed: %v", err)
	}
	if _, err := facade.Checkout(context.Background(), user, checkoutRequest()); err == nil {
		t.Fatal("expected checkout to fail")
	}
	if len(f.carts.Cleared) != 0 {
		t.Fatalf("cart must stay intact after a failed placement")
	}
	items, _ := f.carts.Items(context.Background(), "u1")
	if len(items) != 1 {
		t.Fatalf("expected cart entry to survive, got %+v", items)
	}
}

func TestStorefrontFacadeOutboxPassthrough(t *testing.T) {
	facade, f := newFacade()
	f.orders.Events = []model.OrderEvent{{ID: 5, Subject: model.EventOrderCreated}}

	events, err := facade.PendingOrderEvents(context.Background(), 10)
	if err != nil {
		t.Fatalf("pending events failed: %v", err)
	}
	if len(events) != 1 || events[0].ID != 5 {
		t.Fatalf("unexpected events %+v", events)
	}
	if err := facade.MarkOrderEventPublished(context.Background(), 5); err != nil {
		t.Fatalf("mark published failed: %v", err)
	}
	if len(f.orders.Published) != 1 {
		t.Fatalf("publish not recorded")
	}
}
