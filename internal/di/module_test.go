package di

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"go.uber.org/fx"

	"github.com/shopline/storefront/internal/adapter/events"
	"github.com/shopline/storefront/internal/app"
	"github.com/shopline/storefront/internal/config"
	"github.com/shopline/storefront/internal/domain/repository"
	"github.com/shopline/storefront/internal/storage/postgres"
	"github.com/shopline/storefront/internal/storage/rediscart"
	"github.com/shopline/storefront/internal/test"
)

func TestModuleComposesGraphWithReplacements(t *testing.T) {
	cfg := &config.Config{
		RunAddress:        ":0",
		DatabaseURI:       "postgres://stub",
		RedisAddress:      "localhost:0",
		NATSURL:           "nats://localhost:0",
		JWTSecret:         "secret",
		EventPollInterval: time.Millisecond,
		EventBatchSize:    1,
		WorkerPoolSize:    1,
		ShutdownTimeout:   time.Millisecond,
	}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	var facade *app.StorefrontFacade
	fxApp := fx.New(
		fx.NopLogger,
		fx.Supply(context.Background()),
		Module(
			fx.Replace(cfg),
			fx.Replace(logger),
			fx.Replace(&postgres.Storage{}),
			fx.Replace(&rediscart.Store{}),
			fx.Replace(&events.NATSPublisher{}),
			fx.Replace(events.Publisher(&test.PublisherStub{})),
			fx.Replace(repository.UserRepository(test.NewUserRepositoryStub())),
			fx.Replace(repository.ProductRepository(test.NewProductRepositoryStub())),
			fx.Replace(repository.OrderRepository(&test.OrderRepositoryStub{})),
			fx.Replace(repository.CartRepository(test.NewCartRepositoryStub())),
			fx.Replace(repository.StatsRepository(&test.StatsRepositoryStub{})),
		),
		fx.Populate(&facade),
	)

	if err := fxApp.Err(); err != nil {
		t.Fatalf("fx app returned error: %v", err)
	}
	t.Cleanup(func() { _ = fxApp.Stop(context.Background()) })
	if facade == nil {
		t.Fatal("expected storefront facade instance")
	}
}
