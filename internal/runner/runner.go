package runner

import (
	"context"
	"time"

	"trading_bot/internal/models"
	configsvc "trading_bot/internal/modules/config/service"
	healthsvc "trading_bot/internal/modules/health/service"
	historysvc "trading_bot/internal/modules/history/service"
	mdsvc "trading_bot/internal/modules/marketdata/service"
	"trading_bot/internal/notify"
	"trading_bot/pkg/logger"
	"trading_bot/pkg/tracing"
)

type priceStreamer interface {
	StreamPrices(ctx context.Context, symbol string) <-chan float64
}

// Runner опрашивает биржу по списку символов каждые update_interval секунд:
// тикер плюс свечи по таймфреймам стратегии. История — best-effort.
type Runner struct {
	cfg     *configsvc.TradingConfig
	app     *configsvc.AppConfig
	strat   configsvc.StrategyConfig
	fetcher *mdsvc.Fetcher
	ex      mdsvc.Exchange
	rec     historysvc.Recorder
	n       notify.Notifier
	state   *healthsvc.State

	ctx    context.Context
	cancel context.CancelFunc
}

func New(
	cfg *configsvc.TradingConfig,
	app *configsvc.AppConfig,
	strat configsvc.StrategyConfig,
	fetcher *mdsvc.Fetcher,
	ex mdsvc.Exchange,
	rec historysvc.Recorder,
	n notify.Notifier,
	state *healthsvc.State,
) *Runner {
	return &Runner{
		cfg:     cfg,
		app:     app,
		strat:   strat,
		fetcher: fetcher,
		ex:      ex,
		rec:     rec,
		n:       n,
		state:   state,
	}
}

func (r *Runner) Start(parent context.Context) {
	r.ctx, r.cancel = context.WithCancel(parent)

	logger.Info("runner started: mode=%s exchange=%s symbols=%v interval=%ds",
		r.cfg.Mode, r.cfg.Exchange, r.cfg.Symbols, r.cfg.UpdateInterval)

	if r.app.Stream.Enabled {
		go r.streamLoop(r.ctx)
	}

	interval := time.Duration(r.cfg.UpdateInterval) * time.Second
	t := time.NewTicker(interval)
	defer t.Stop()

	r.cycle(r.ctx)
	for {
		select {
		case <-r.ctx.Done():
			logger.Info("runner stopped")
			return
		case <-t.C:
			r.cycle(r.ctx)
		}
	}
}

func (r *Runner) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
}

func (r *Runner) cycle(ctx context.Context) {
	span, ctx := tracing.StartSpan(ctx, "runner.cycle", nil)
	defer span.Finish()

	ttl := r.app.Fetch.CacheTTL

	for _, sym := range r.cfg.Symbols {
		md, err := r.fetcher.GetTicker(ctx, sym, ttl)
		if err != nil {
			r.reportFetchErr(sym, err)
			continue
		}
		r.state.TouchFetch(md.FetchedAt)
		if err := r.rec.RecordTicker(ctx, *md.Ticker, md.FetchedAt); err != nil {
			logger.Warn("history ticker %s: %v", sym, err)
		}

		for _, tf := range r.strat.Timeframes {
			cm, err := r.fetcher.GetCandles(ctx, sym, tf, ttl)
			if err != nil {
				r.reportFetchErr(sym, err)
				continue
			}
			r.state.TouchFetch(cm.FetchedAt)
			if err := r.rec.RecordCandles(ctx, sym, tf, cm.Candles); err != nil {
				logger.Warn("history candles %s %s: %v", sym, tf, err)
			}
		}
	}
}

func (r *Runner) reportFetchErr(symbol string, err error) {
	if fe, ok := models.AsFetchError(err); ok && !fe.Temporary() {
		logger.Error("fetch %s rejected by exchange: %v", symbol, err)
		r.n.Sendf("⛔ биржа отклонила запрос %s: %v", symbol, fe.Err)
		return
	}
	logger.Error("fetch %s failed after retries: %v", symbol, err)
	r.n.Sendf("⚠️ нет данных по %s: %v", symbol, err)
}

func (r *Runner) streamLoop(ctx context.Context) {
	if len(r.cfg.Symbols) == 0 {
		return
	}
	s, ok := r.ex.(priceStreamer)
	if !ok {
		return
	}

	for price := range s.StreamPrices(ctx, r.cfg.Symbols[0]) {
		r.state.SetWSConnected(true)
		r.state.TouchTick(time.Now())
		_ = price // скаффолд: цена пока только двигает health
	}
	r.state.SetWSConnected(false)
}
