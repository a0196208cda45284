package usecase

import (
	"context"
	"errors"
	"testing"

	domainErrors "github.com/shopline/storefront/internal/domain/errors"
	"github.com/shopline/storefront/internal/domain/model"
	testhelpers "github.com/shopline/storefront/internal/test"
)

func TestProductUseCaseCreate(t *testing.T) {
	repo := testhelpers.NewProductRepositoryStub()
	uc := NewProductUseCase(repo)

	product, err := uc.Create(context.Background(), CreateProductParams{
		Name:        "Oak Chair",
		Description: "Solid oak dining chair",
		Price:       129.90,
		Category:    "furniture",
		Stock:       12,
	})
	if err != nil {
		t.Fatalf("create returned error: %v", err)
	}
	if product.ID == "" {
		t.Fatalf("expected product to have ID assigned")
	}
	if _, ok := repo.Products[product.ID]; !ok {
		t.Fatalf("product not stored")
	}
}

func TestProductUseCaseCreateValidation(t *testing.T) {
	uc := NewProductUseCase(testhelpers.NewProductRepositoryStub())

	longName := string(make([]byte, 101))
	cases := []struct {
		name   string
		params CreateProductParams
	}{
		{"missing name", CreateProductParams{Description: "d", Category: "c"}},
		{"long name", CreateProductParams{Name: longName, Description: "d", Category: "c"}},
		{"missing description", CreateProductParams{Name: "n", Category: "c"}},
		{"missing category", CreateProductParams{Name: "n", Description: "d"}},
		{"negative price", CreateProductParams{Name: "n", Description: "d", Category: "c", Price: -1}},
		{"negative stock", CreateProductParams{Name: "n", Description: "d", Category: "c", Stock: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Create(context.Background(), tc.params)
			var validation *domainErrors.ValidationError
			if !errors.As(err, &validation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestProductUseCaseListClampsPagination(t *testing.T) {
	var seen model.ProductFilter
	repo := testhelpers.NewProductRepositoryStub()
	repo.ListFn = func(_ context.Context, filter model.ProductFilter) ([]model.Product, int, error) {
		seen = filter
		return nil, 0, nil
	}
	uc := NewProductUseCase(repo)

	if _, _, err := uc.List(context.Background(), model.ProductFilter{Page: 0, Limit: 0}); err != nil {
		t.Fatalf("list returned error: %v", err)
	}
	if seen.Page != 1 || seen.Limit != defaultCatalogLimit {
		t.Fatalf("defaults not applied: page=%d limit=%d", seen.Page, seen.Limit)
	}

	if _, _, err := uc.List(context.Background(), model.ProductFilter{Page: 2, Limit: 500}); err != nil {
		t.Fatalf("list returned error: %v", err)
	}
	if seen.Limit != maxCatalogLimit {
		t.Fatalf("limit not clamped: %d", seen.Limit)
	}
}

func TestProductUseCaseUpdatePartial(t *testing.T) {
	repo := testhelpers.NewProductRepositoryStub()
	uc := NewProductUseCase(repo)

	product, err := uc.Create(context.Background(), CreateProductParams{
		Name: "Lamp", Description: "Desk lamp", Category: "lighting", Price: 30, Stock: 4,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	price := 25.0
	stock := 9
	updated, err := uc.Update(context.Background(), product.ID, UpdateProductParams{Price: &price, Stock: &stock})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Price != 25 || updated.Stock != 9 {
		t.Fatalf("edits not applied: %+v", updated)
	}
	if updated.Name != "Lamp" {
		t.Fatalf("untouched field changed: %q", updated.Name)
	}

	negative := -5.0
	if _, err := uc.Update(context.Background(), product.ID, UpdateProductParams{Price: &negative}); err == nil {
		t.Fatalf("expected validation error for negative price")
	}
	if _, err := uc.Update(context.Background(), "missing", UpdateProductParams{Price: &price}); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestProductUseCaseDelete(t *testing.T) {
	repo := testhelpers.NewProductRepositoryStub()
	uc := NewProductUseCase(repo)

	product, err := uc.Create(context.Background(), CreateProductParams{
		Name: "Rug", Description: "Wool rug", Category: "decor", Price: 80, Stock: 2,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := uc.Delete(context.Background(), product.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := uc.Delete(context.Background(), product.ID); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestProductUseCaseAddReview(t *testing.T) {
	repo := testhelpers.NewProductRepositoryStub()
	uc := NewProductUseCase(repo)

	product, err := uc.Create(context.Background(), CreateProductParams{
		Name: "Mug", Description: "Ceramic mug", Category: "kitchen", Price: 10, Stock: 50,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	for _, rating := range []int{0, 6} {
		if _, err := uc.AddReview(context.Background(), "user-1", product.ID, rating, "meh"); err == nil {
			t.Fatalf("expected validation error for rating %d", rating)
		}
	}

	review, err := uc.AddReview(context.Background(), "user-1", product.ID, 5, "  great mug  ")
	if err != nil {
		t.Fatalf("add review failed: %v", err)
	}
	if review.Comment != "great mug" {
		t.Fatalf("comment not trimmed: %q", review.Comment)
	}
	stored := repo.Products[product.ID]
	if stored.ReviewCount != 1 || stored.AvgRating != 5 {
		t.Fatalf("aggregates not updated: count=%d avg=%f", stored.ReviewCount, stored.AvgRating)
	}
}
