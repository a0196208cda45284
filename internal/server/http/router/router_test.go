package router

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/shopline/storefront/internal/app"
	"github.com/shopline/storefront/internal/domain/model"
	"github.com/shopline/storefront/internal/server/http/handlers"
	testhelpers "github.com/shopline/storefront/internal/test"
	"github.com/shopline/storefront/internal/usecase"
)

func newTestEngine(t *testing.T) (*gin.Engine, *testhelpers.UserRepositoryStub, *testhelpers.ProductRepositoryStub) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := testhelpers.NewUserRepositoryStub()
	products := testhelpers.NewProductRepositoryStub()
	facade := app.NewStorefrontFacade(
		usecase.NewAuthUseCase(users, testhelpers.HasherStub{}, testhelpers.StrategyStub{
			IssueFn: func(id string) (string, error) { return "token:" + id, nil },
			ParseFn: func(token string) (string, error) { return token[len("token:"):], nil },
		}),
		usecase.NewProductUseCase(products),
		usecase.NewCartUseCase(testhelpers.NewCartRepositoryStub(), products),
		usecase.NewOrderUseCase(&testhelpers.OrderRepositoryStub{}),
		usecase.NewAdminUseCase(users, &testhelpers.StatsRepositoryStub{}),
	)

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return Setup(facade, logger), users, products
}

func perform(engine *gin.Engine, method, path, token string, payload any) *httptest.ResponseRecorder {
	var reader io.Reader
	if payload != nil {
		body, _ := json.Marshal(payload)
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Accept-Encoding", "identity")
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	return resp
}

func TestSetupRoutes(t *testing.T) {
	engine, _, products := newTestEngine(t)
	products.Products["p1"] = &model.Product{ID: "p1", Name: "Mug", Price: 10, Stock: 5}

	// public catalog
	resp := perform(engine, http.MethodGet, "/api/products", "", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for catalog, got %d", resp.Code)
	}

	// signup issues a token usable on protected routes
	resp = perform(engine, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"name": "Alice", "email": "alice@example.com", "password": "secret",
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 for signup, got %d: %s", resp.Code, resp.Body.String())
	}
	var signup struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &signup); err != nil {
		t.Fatalf("decode signup: %v", err)
	}
	token := "token:" + signup.Data.ID

	// protected routes reject anonymous callers
	if resp := perform(engine, http.MethodGet, "/api/cart", "", nil); resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for anonymous cart, got %d", resp.Code)
	}
	if resp := perform(engine, http.MethodGet, "/api/orders", "", nil); resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for anonymous orders, got %d", resp.Code)
	}

	// authenticated customer flow
	if resp := perform(engine, http.MethodGet, "/api/users/me", token, nil); resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for profile, got %d", resp.Code)
	}
	if resp := perform(engine, http.MethodPost, "/api/cart/items", token, map[string]any{"productId": "p1", "quantity": 1}); resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for cart add, got %d: %s", resp.Code, resp.Body.String())
	}
	if resp := perform(engine, http.MethodGet, "/api/orders", token, nil); resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for order list, got %d", resp.Code)
	}

	// admin surface is closed to customers
	if resp := perform(engine, http.MethodGet, "/api/admin/dashboard", token, nil); resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for customer on dashboard, got %d", resp.Code)
	}
	if resp := perform(engine, http.MethodPost, "/api/products", token, map[string]any{"name": "X"}); resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for customer product create, got %d", resp.Code)
	}
}

func TestSetupAdminRoutes(t *testing.T) {
	engine, users, _ := newTestEngine(t)

	resp := perform(engine, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"name": "Root", "email": "root@example.com", "password": "secret",
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("signup failed: %d", resp.Code)
	}
	var signup struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &signup); err != nil {
		t.Fatalf("decode signup: %v", err)
	}
	token := "token:" + signup.Data.ID

	// promote the account directly in storage
	users.ByID[signup.Data.ID].Role = model.RoleAdmin

	if resp := perform(engine, http.MethodGet, "/api/admin/dashboard", token, nil); resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin dashboard, got %d: %s", resp.Code, resp.Body.String())
	}
	if resp := perform(engine, http.MethodPost, "/api/products", token, map[string]any{
		"name": "Mug", "description": "Ceramic mug", "category": "kitchen", "price": 10, "stock": 3,
	}); resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 for admin product create, got %d: %s", resp.Code, resp.Body.String())
	}
}

var _ handlers.StorefrontFacade = (*app.StorefrontFacade)(nil)
