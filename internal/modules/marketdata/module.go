package marketdata

import (
	"go.uber.org/fx"

	"trading_bot/internal/exchange"
	configsvc "trading_bot/internal/modules/config/service"
	"trading_bot/internal/modules/marketdata/service"
)

func Module() fx.Option {
	return fx.Module("marketdata",
		fx.Provide(
			func(tc *configsvc.TradingConfig) service.Exchange {
				bn := exchange.NewBinance()
				bn.SetCreds(tc.APIKey, tc.APISecret)
				return bn
			},
			func(cfg *configsvc.AppConfig, ex service.Exchange) *service.Fetcher {
				return service.NewFetcher(ex, service.Options{
					MaxRetries:    cfg.Fetch.MaxRetries,
					RetryDelay:    cfg.Fetch.RetryDelay,
					MaxRetryDelay: cfg.Fetch.MaxRetryDelay,
					CandleLimit:   cfg.Fetch.CandleLimit,
				})
			},
		),
	)
}
