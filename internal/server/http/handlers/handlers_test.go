package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/shopline/storefront/internal/app"
	"github.com/shopline/storefront/internal/domain/model"
	"github.com/shopline/storefront/internal/server/http/dto"
	"github.com/shopline/storefront/internal/server/http/middleware"
	testhelpers "github.com/shopline/storefront/internal/test"
	"github.com/shopline/storefront/internal/usecase"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fixtures struct {
	users    *testhelpers.UserRepositoryStub
	products *testhelpers.ProductRepositoryStub
	orders   *testhelpers.OrderRepositoryStub
	carts    *testhelpers.CartRepositoryStub
	stats    *testhelpers.StatsRepositoryStub
}

func newTestFacade() (*app.StorefrontFacade, *fixtures) {
	f := &fixtures{
		users:    testhelpers.NewUserRepositoryStub(),
		products: testhelpers.NewProductRepositoryStub(),
		orders:   &testhelpers.OrderRepositoryStub{},
		carts:    testhelpers.NewCartRepositoryStub(),
		stats:    &testhelpers.StatsRepositoryStub{},
	}
	facade := app.NewStorefrontFacade(
		usecase.NewAuthUseCase(f.users, testhelpers.HasherStub{}, testhelpers.StrategyStub{}),
		usecase.NewProductUseCase(f.products),
		usecase.NewCartUseCase(f.carts, f.products),
		usecase.NewOrderUseCase(f.orders),
		usecase.NewAdminUseCase(f.users, f.stats),
	)
	return facade, f
}

func asUser(user *model.User) func(*gin.Context) {
	return func(c *gin.Context) {
		c.Set(middleware.UserContextKey, user)
	}
}

func performRequest(t *testing.T, method, path string, handler gin.HandlerFunc, setup func(*gin.Context), body []byte) *httptest.ResponseRecorder {
	t.Helper()
	router := gin.New()
	router.Handle(method, path, func(c *gin.Context) {
		if setup != nil {
			setup(c)
		}
		handler(c)
	})

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success    bool            `json:"success"`
	Message    string          `json:"message"`
	Results    int             `json:"results"`
	Total      int             `json:"total"`
	Page       int             `json:"page"`
	TotalPages int             `json:"totalPages"`
	Data       json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, resp *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(resp.Body.Bytes(), &env); err != nil {
		t.Fatalf("malformed response %q: %v", resp.Body.String(), err)
	}
	return env
}

func TestCurrentUser(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if got := CurrentUser(c); got != nil {
		t.Fatalf("expected nil when not set, got %+v", got)
	}

	user := &model.User{ID: "u1"}
	c.Set(middleware.UserContextKey, user)
	if got := CurrentUser(c); got != user {
		t.Fatalf("expected stored user, got %+v", got)
	}
}

func TestAuthHandlerRegister(t *testing.T) {
	facade, f := newTestFacade()
	password := testhelpers.RandomASCIIString(8, 16)
	body, _ := json.Marshal(dto.RegisterRequest{Name: "Alice", Email: "alice@example.com", Password: password})

	resp := performRequest(t, http.MethodPost, "/signup", NewAuthHandler(facade).Register, nil, body)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}
	if resp.Header().Get("Authorization") == "" {
		t.Fatalf("expected auth header to be set")
	}

	env := decodeEnvelope(t, resp)
	if !env.Success {
		t.Fatalf("expected success envelope")
	}
	var user dto.UserResponse
	if err := json.Unmarshal(env.Data, &user); err != nil {
		t.Fatalf("decode user: %v", err)
	}
	if user.Email != "alice@example.com" || user.Role != "customer" {
		t.Fatalf("unexpected user payload %+v", user)
	}
	if _, ok := f.users.Users["alice@example.com"]; !ok {
		t.Fatalf("user not stored")
	}

	result := resp.Result()
	t.Cleanup(func() { _ = result.Body.Close() })
	found := false
	for _, cookie := range result.Cookies() {
		if cookie.Name == "storefront_token" && cookie.Value != "" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected auth cookie named storefront_token")
	}
}

func TestAuthHandlerRegisterDuplicate(t *testing.T) {
	facade, _ := newTestFacade()
	body, _ := json.Marshal(dto.RegisterRequest{Name: "Bob", Email: "bob@example.com", Password: "secret"})

	if resp := performRequest(t, http.MethodPost, "/signup", NewAuthHandler(facade).Register, nil, body); resp.Code != http.StatusCreated {
		t.Fatalf("first signup failed: %d", resp.Code)
	}
	resp := performRequest(t, http.MethodPost, "/signup", NewAuthHandler(facade).Register, nil, body)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", resp.Code)
	}
	if env := decodeEnvelope(t, resp); env.Success {
		t.Fatalf("expected failure envelope")
	}
}

func TestAuthHandlerLogin(t *testing.T) {
	facade, _ := newTestFacade()
	signup, _ := json.Marshal(dto.RegisterRequest{Name: "Carol", Email: "carol@example.com", Password: "secret"})
	if resp := performRequest(t, http.MethodPost, "/signup", NewAuthHandler(facade).Register, nil, signup); resp.Code != http.StatusCreated {
		t.Fatalf("signup failed: %d", resp.Code)
	}

	wrong, _ := json.Marshal(dto.LoginRequest{Email: "carol@example.com", Password: "bad"})
	if resp := performRequest(t, http.MethodPost, "/login", NewAuthHandler(facade).Login, nil, wrong); resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad password, got %d", resp.Code)
	}

	good, _ := json.Marshal(dto.LoginRequest{Email: "carol@example.com", Password: "secret"})
	resp := performRequest(t, http.MethodPost, "/login", NewAuthHandler(facade).Login, nil, good)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if resp.Header().Get("Authorization") == "" {
		t.Fatalf("expected auth header")
	}
}

func TestUserHandlerUpdateProfile(t *testing.T) {
	facade, f := newTestFacade()
	user := &model.User{ID: "u1", Name: "Dave", Email: "dave@example.com"}
	_ = f.users.Create(nil, user)
	stored := f.users.ByID["u1"]

	name := "David"
	body, _ := json.Marshal(dto.UpdateProfileRequest{Name: &name})
	resp := performRequest(t, http.MethodPatch, "/me", NewUserHandler(facade).UpdateProfile, asUser(stored), body)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if f.users.ByID["u1"].Name != "David" {
		t.Fatalf("profile not updated: %+v", f.users.ByID["u1"])
	}
}

func TestProductHandlerListEnvelope(t *testing.T) {
	facade, f := newTestFacade()
	f.products.Products["p1"] = &model.Product{ID: "p1", Name: "Mug", Price: 10}

	resp := performRequest(t, http.MethodGet, "/products", NewProductHandler(facade).List, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	env := decodeEnvelope(t, resp)
	if !env.Success || env.Total != 1 || env.Results != 1 || env.Page != 1 {
		t.Fatalf("unexpected envelope %+v", env)
	}
	if env.TotalPages != 1 {
		t.Fatalf("expected 1 total page, got %d", env.TotalPages)
	}
}

func TestProductHandlerCreateValidation(t *testing.T) {
	facade, _ := newTestFacade()
	body, _ := json.Marshal(dto.CreateProductRequest{Name: "", Description: "d", Category: "c"})

	resp := performRequest(t, http.MethodPost, "/products", NewProductHandler(facade).Create, nil, body)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestProductHandlerGetNotFound(t *testing.T) {
	facade, _ := newTestFacade()
	resp := performRequest(t, http.MethodGet, "/products/nope", NewProductHandler(facade).Get, nil, nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestCartHandlerAddAndCheckout(t *testing.T) {
	facade, f := newTestFacade()
	f.products.Products["p1"] = &model.Product{ID: "p1", Name: "Mug", Price: 10, Stock: 5}
	user := &model.User{ID: "u1", Name: "Eve", Email: "eve@example.com"}

	add, _ := json.Marshal(dto.AddToCartRequest{ProductID: "p1", Quantity: 2})
	resp := performRequest(t, http.MethodPost, "/cart/items", NewCartHandler(facade).Add, asUser(user), add)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	env := decodeEnvelope(t, resp)
	var cart dto.CartResponse
	if err := json.Unmarshal(env.Data, &cart); err != nil {
		t.Fatalf("decode cart: %v", err)
	}
	if cart.TotalPrice != 20 {
		t.Fatalf("expected total 20, got %f", cart.TotalPrice)
	}

	checkout, _ := json.Marshal(dto.PlaceOrderRequest{
		ShippingAddress: dto.ShippingAddressPayload{
			Name: "Eve", Email: "eve@example.com", Phone: "1", Address: "a", City: "c", PostalCode: "z", Country: "PT",
		},
		PaymentMethod: "paypal",
	})
	resp = performRequest(t, http.MethodPost, "/cart/checkout", NewCartHandler(facade).Checkout, asUser(user), checkout)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	if len(f.orders.Created) != 1 {
		t.Fatalf("expected one order, got %d", len(f.orders.Created))
	}
	if len(f.carts.Cleared) != 1 {
		t.Fatalf("cart not cleared after checkout")
	}
}

func TestCartHandlerCheckoutEmptyCart(t *testing.T) {
	facade, _ := newTestFacade()
	user := &model.User{ID: "u1"}
	checkout, _ := json.Marshal(dto.PlaceOrderRequest{
		ShippingAddress: dto.ShippingAddressPayload{
			Name: "n", Email: "e", Phone: "p", Address: "a", City: "c", PostalCode: "z", Country: "PT",
		},
		PaymentMethod: "paypal",
	})
	resp := performRequest(t, http.MethodPost, "/cart/checkout", NewCartHandler(facade).Checkout, asUser(user), checkout)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty cart, got %d", resp.Code)
	}
}

func TestOrderHandlerPlace(t *testing.T) {
	facade, f := newTestFacade()
	user := &model.User{ID: "u1", Name: "Frank", Email: "frank@example.com"}

	body, _ := json.Marshal(dto.PlaceOrderRequest{
		Products: []dto.OrderItemRequest{{ProductID: "p1", Quantity: 2}},
		ShippingAddress: dto.ShippingAddressPayload{
			Name: "Frank", Email: "frank@example.com", Phone: "1", Address: "a", City: "c", PostalCode: "z", Country: "PT",
		},
		PaymentMethod: "creditCard",
		PaymentDetails: &dto.PaymentDetailsPayload{
			CardNumber: "4111111111111111", ExpiryDate: "12/30",
		},
	})
	resp := performRequest(t, http.MethodPost, "/orders", NewOrderHandler(facade).Place, asUser(user), body)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	env := decodeEnvelope(t, resp)
	if env.Message != "order placed successfully" {
		t.Fatalf("unexpected message %q", env.Message)
	}
	var order dto.OrderResponse
	if err := json.Unmarshal(env.Data, &order); err != nil {
		t.Fatalf("decode order: %v", err)
	}
	if order.Status != "Pending" || order.UserName != "Frank" {
		t.Fatalf("unexpected order payload %+v", order)
	}
	if bytes.Contains(resp.Body.Bytes(), []byte("4111111111111111")) {
		t.Fatalf("card number must not be echoed back")
	}
	if len(f.orders.Created) != 1 {
		t.Fatalf("expected one created order")
	}
}

func TestOrderHandlerPlaceMissingFields(t *testing.T) {
	facade, _ := newTestFacade()
	user := &model.User{ID: "u1"}

	body, _ := json.Marshal(dto.PlaceOrderRequest{PaymentMethod: "paypal"})
	resp := performRequest(t, http.MethodPost, "/orders", NewOrderHandler(facade).Place, asUser(user), body)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if env := decodeEnvelope(t, resp); env.Message != "missing required order information" {
		t.Fatalf("unexpected message %q", env.Message)
	}
}

func TestOrderHandlerGetForeignOrder(t *testing.T) {
	facade, f := newTestFacade()
	f.orders.Orders = []model.Order{{ID: "o1", UserID: "owner", Status: model.OrderStatusPending}}

	resp := performRequest(t, http.MethodGet, "/orders/o1", NewOrderHandler(facade).Get, asUser(&model.User{ID: "intruder"}), nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign order, got %d", resp.Code)
	}
}

func TestOrderHandlerUpdateStatus(t *testing.T) {
	facade, f := newTestFacade()
	f.orders.Orders = []model.Order{{ID: "o1", UserID: "u1", Status: model.OrderStatusPending}}
	admin := &model.User{ID: "a1", Role: model.RoleAdmin}
	asAdminForOrder := func(c *gin.Context) {
		asUser(admin)(c)
		c.Params = append(c.Params, gin.Param{Key: "id", Value: "o1"})
	}

	body, _ := json.Marshal(dto.UpdateOrderStatusRequest{Status: "Processing"})
	resp := performRequest(t, http.MethodPatch, "/orders/o1/status", NewOrderHandler(facade).UpdateStatus, asAdminForOrder, body)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	body, _ = json.Marshal(dto.UpdateOrderStatusRequest{Status: "Delivered"})
	resp = performRequest(t, http.MethodPatch, "/orders/o1/status", NewOrderHandler(facade).UpdateStatus, asAdminForOrder, body)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for forbidden transition, got %d", resp.Code)
	}
	if env := decodeEnvelope(t, resp); env.Message != "invalid status transition from Processing to Delivered" {
		t.Fatalf("unexpected message %q", env.Message)
	}
}

func performListRequest(t *testing.T, path, target string, handler gin.HandlerFunc, setup func(*gin.Context)) *httptest.ResponseRecorder {
	t.Helper()
	router := gin.New()
	router.GET(path, func(c *gin.Context) {
		if setup != nil {
			setup(c)
		}
		handler(c)
	})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestOrderHandlerListOversizedLimit(t *testing.T) {
	facade, f := newTestFacade()
	var seenLimit int
	f.orders.ListFn = func(_ context.Context, filter model.OrderFilter) ([]model.Order, int, error) {
		seenLimit = filter.Limit
		return make([]model.Order, 100), 150, nil
	}

	resp := performListRequest(t, "/orders", "/orders?limit=1000", NewOrderHandler(facade).List, asUser(&model.User{ID: "u1"}))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if seenLimit != 100 {
		t.Fatalf("expected repository limit capped at 100, got %d", seenLimit)
	}
	env := decodeEnvelope(t, resp)
	if env.TotalPages != 2 {
		t.Fatalf("expected 2 total pages for 150 orders at limit 100, got %d", env.TotalPages)
	}
	if env.Results != 100 || env.Total != 150 || env.Page != 1 {
		t.Fatalf("unexpected envelope %+v", env)
	}
}

func TestAdminHandlerOrdersOversizedLimit(t *testing.T) {
	facade, f := newTestFacade()
	f.orders.ListFn = func(_ context.Context, filter model.OrderFilter) ([]model.Order, int, error) {
		return make([]model.Order, 100), 150, nil
	}

	resp := performListRequest(t, "/orders", "/orders?limit=1000", NewAdminHandler(facade).Orders, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if env := decodeEnvelope(t, resp); env.TotalPages != 2 {
		t.Fatalf("expected 2 total pages, got %d", env.TotalPages)
	}
}

func TestAdminHandlerDashboard(t *testing.T) {
	facade, f := newTestFacade()
	f.stats.Stats = &model.DashboardStats{TotalOrders: 3, TotalRevenue: 99.5}

	resp := performRequest(t, http.MethodGet, "/dashboard", NewAdminHandler(facade).Dashboard, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	env := decodeEnvelope(t, resp)
	var stats dto.DashboardResponse
	if err := json.Unmarshal(env.Data, &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.TotalOrders != 3 || stats.TotalRevenue != 99.5 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}
