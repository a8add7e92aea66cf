package main

import (
	"context"
	"log"

	"go.uber.org/fx"

	"trading_bot/internal/modules/config"
	configsvc "trading_bot/internal/modules/config/service"
	"trading_bot/internal/modules/firestore"
	"trading_bot/internal/modules/health"
	"trading_bot/internal/modules/history"
	"trading_bot/internal/modules/marketdata"
	"trading_bot/internal/notify"
	"trading_bot/internal/runner"
	"trading_bot/pkg/logger"
	"trading_bot/pkg/tracing"
)

func main() {
	if err := logger.Init(); err != nil {
		log.Fatal(err)
	}

	app := fx.New(
		fx.Provide(
			func() context.Context {
				return context.Background()
			},
			// Notifier: если TELEGRAM_* нет — используем stdout
			func(cfg *configsvc.AppConfig) notify.Notifier {
				if cfg.Telegram.Token != "" && cfg.Telegram.ChatID != 0 {
					if tg, err := notify.NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID); err == nil {
						return tg
					}
				}
				return notify.NewStdout()
			},
		),
		config.Module(),
		firestore.Module(),
		marketdata.Module(),
		history.Module(),
		health.Module(),
		runner.Module(),
		fx.Invoke(func(lc fx.Lifecycle, cfg *configsvc.AppConfig) {
			logger.SetServiceName(cfg.Service.Name)
			tracing.SetServiceName(cfg.Service.Name)

			_, closeTracer, err := tracing.InitTracer(tracing.Config{
				Host: cfg.Jaeger.Host,
				Port: cfg.Jaeger.Port,
			})
			if err != nil {
				logger.Warn("tracer init failed, spans disabled: %v", err)
				return
			}
			lc.Append(fx.Hook{
				OnStop: func(context.Context) error {
					closeTracer()
					return nil
				},
			})
		}),
	)
	app.Run()
}
