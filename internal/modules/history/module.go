package history

import (
	"context"
	"fmt"

	"go.uber.org/fx"

	configsvc "trading_bot/internal/modules/config/service"
	"trading_bot/internal/modules/history/service"
	"trading_bot/pkg/db"
	"trading_bot/pkg/logger"
)

func Module() fx.Option {
	return fx.Module("history",
		fx.Provide(
			func(ctx context.Context, lc fx.Lifecycle, cfg *configsvc.AppConfig) (service.Recorder, error) {
				if cfg.DB == "" {
					logger.Info("history: no DSN configured, recording disabled")
					return service.Noop{}, nil
				}

				pool, err := db.NewPool(ctx, db.PoolConfig{
					DSN: cfg.DB,
				})
				if err != nil {
					return nil, fmt.Errorf("failed to create pool: %w", err)
				}

				if err = pool.Ping(ctx); err != nil {
					return nil, err
				}

				m := db.NewPgTxManager(pool)
				lc.Append(fx.Hook{
					OnStop: func(context.Context) error {
						m.Close()
						return nil
					},
				})
				return service.NewPgRecorder(m), nil
			},
		),
	)
}
