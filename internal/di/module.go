package di

import (
	"go.uber.org/fx"

	"github.com/shopline/storefront/internal/adapter/events"
	"github.com/shopline/storefront/internal/app"
	"github.com/shopline/storefront/internal/config"
	"github.com/shopline/storefront/internal/logger"
	"github.com/shopline/storefront/internal/pkg/auth"
	"github.com/shopline/storefront/internal/server/http/handlers"
	"github.com/shopline/storefront/internal/server/http/router"
	"github.com/shopline/storefront/internal/storage/postgres"
	"github.com/shopline/storefront/internal/storage/rediscart"
	"github.com/shopline/storefront/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		rediscart.Module,
		events.Module,
		usecase.Module,
		fx.Provide(func(f *app.StorefrontFacade) handlers.StorefrontFacade { return f }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
