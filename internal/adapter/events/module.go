package events

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/shopline/storefront/internal/config"
)

// Module exposes the NATS publisher to the fx graph.
var Module = fx.Options(
	fx.Provide(newPublisher),
	fx.Provide(func(p *NATSPublisher) Publisher { return p }),
	fx.Invoke(registerLifecycle),
)

type publisherParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newPublisher(p publisherParams) (*NATSPublisher, error) {
	return NewNATSPublisher(p.Config.NATSURL, p.Logger)
}

func registerLifecycle(lc fx.Lifecycle, publisher *NATSPublisher) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			publisher.Close()
			return nil
		},
	})
}
