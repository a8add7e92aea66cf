package config

import (
	"context"

	"go.uber.org/fx"

	"trading_bot/internal/modules/config/service"
)

func Module() fx.Option {
	return fx.Module("config",
		fx.Provide(
			service.NewAppConfig,
			service.NewManager,
			// единственный TradingConfig на процесс
			func(ctx context.Context, m *service.Manager) (*service.TradingConfig, error) {
				return m.Resolve(ctx)
			},
			service.NewStrategyConfig,
		),
	)
}
