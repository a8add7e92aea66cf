package runner

import (
	"context"

	"go.uber.org/fx"

	configsvc "trading_bot/internal/modules/config/service"
	healthsvc "trading_bot/internal/modules/health/service"
)

func Module() fx.Option {
	return fx.Module("runner",
		fx.Provide(
			New, // *Runner
		),
		fx.Invoke(func(
			lc fx.Lifecycle,
			r *Runner,
			m *configsvc.Manager,
			cfg *configsvc.TradingConfig,
			state *healthsvc.State,
			ctx context.Context,
		) {
			lc.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					// зеркалим актуальный конфиг обратно в стор, best-effort
					m.Save(ctx, cfg)
					state.SetReady(true)
					go r.Start(ctx)
					return nil
				},
				OnStop: func(_ context.Context) error {
					r.Stop()
					return nil
				},
			})
		}),
	)
}
