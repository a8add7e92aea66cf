package firestore

import (
	"context"

	"go.uber.org/fx"

	configsvc "trading_bot/internal/modules/config/service"
	"trading_bot/internal/modules/firestore/service"
	"trading_bot/pkg/logger"
)

func Module() fx.Option {
	return fx.Module("firestore",
		fx.Provide(
			// nil-стор допустим: конфиг-менеджер тогда идёт сразу в окружение
			func(ctx context.Context, lc fx.Lifecycle) configsvc.Store {
				fs, err := service.NewFirestore(ctx)
				if err != nil {
					logger.Warn("firestore unavailable, remote config disabled: %v", err)
					return nil
				}
				lc.Append(fx.Hook{
					OnStop: func(context.Context) error {
						return fs.Close()
					},
				})
				return fs
			},
		),
	)
}
