package service

import (
	"context"
	"sync"
	"time"

	"trading_bot/internal/models"
	"trading_bot/pkg/logger"
	"trading_bot/pkg/tracing"
)

// Exchange — внешний клиент биржи. Возвращает уже нормализованные данные,
// ошибки классифицированы в models.FetchError.
type Exchange interface {
	GetTicker(ctx context.Context, symbol string) (models.Ticker, error)
	GetCandles(ctx context.Context, symbol, timeframe string, limit int) ([]models.Candle, error)
}

type Options struct {
	MaxRetries    int           // дополнительных попыток после первой
	RetryDelay    time.Duration // базовая задержка, растёт экспоненциально
	MaxRetryDelay time.Duration
	Timeframe     string // таймфрейм свечей для Get(kind=candles)
	CandleLimit   int
}

func (o *Options) applyDefaults() {
	if o.MaxRetries <= 0 {
		o.MaxRetries = 3
	}
	if o.RetryDelay <= 0 {
		o.RetryDelay = 500 * time.Millisecond
	}
	if o.MaxRetryDelay <= 0 {
		o.MaxRetryDelay = 10 * time.Second
	}
	if o.Timeframe == "" {
		o.Timeframe = "1h"
	}
	if o.CandleLimit <= 0 {
		o.CandleLimit = 100
	}
}

type cacheKey struct {
	Symbol    string
	Kind      models.DataKind
	Timeframe string
}

type cacheEntry struct {
	data      models.MarketData
	fetchedAt time.Time
}

// Fetcher отдаёт рыночные данные из кеша по (symbol, kind), при промахе или
// протухании идёт на биржу. Кеш перезаписывается, записи не удаляются.
type Fetcher struct {
	ex   Exchange
	opts Options

	mu    sync.RWMutex
	cache map[cacheKey]cacheEntry

	now func() time.Time
}

func NewFetcher(ex Exchange, opts Options) *Fetcher {
	opts.applyDefaults()
	return &Fetcher{
		ex:    ex,
		opts:  opts,
		cache: make(map[cacheKey]cacheEntry),
		now:   time.Now,
	}
}

// Get — общий вход по виду данных. Для свечей берётся таймфрейм из опций.
func (f *Fetcher) Get(ctx context.Context, symbol string, kind models.DataKind, ttl time.Duration) (models.MarketData, error) {
	switch kind {
	case models.KindCandles:
		return f.GetCandles(ctx, symbol, f.opts.Timeframe, ttl)
	default:
		return f.GetTicker(ctx, symbol, ttl)
	}
}

func (f *Fetcher) GetTicker(ctx context.Context, symbol string, ttl time.Duration) (models.MarketData, error) {
	key := cacheKey{Symbol: symbol, Kind: models.KindTicker}
	return f.get(ctx, key, ttl, func(ctx context.Context) (models.MarketData, error) {
		t, err := f.ex.GetTicker(ctx, symbol)
		if err != nil {
			return models.MarketData{}, err
		}
		return models.MarketData{
			Symbol:    symbol,
			Kind:      models.KindTicker,
			Ticker:    &t,
			FetchedAt: f.now(),
		}, nil
	})
}

func (f *Fetcher) GetCandles(ctx context.Context, symbol, timeframe string, ttl time.Duration) (models.MarketData, error) {
	key := cacheKey{Symbol: symbol, Kind: models.KindCandles, Timeframe: timeframe}
	return f.get(ctx, key, ttl, func(ctx context.Context) (models.MarketData, error) {
		cs, err := f.ex.GetCandles(ctx, symbol, timeframe, f.opts.CandleLimit)
		if err != nil {
			return models.MarketData{}, err
		}
		return models.MarketData{
			Symbol:    symbol,
			Kind:      models.KindCandles,
			Timeframe: timeframe,
			Candles:   cs,
			FetchedAt: f.now(),
		}, nil
	})
}

func (f *Fetcher) get(ctx context.Context, key cacheKey, ttl time.Duration, call func(context.Context) (models.MarketData, error)) (models.MarketData, error) {
	// ttl == 0 выключает кеш: чтение мимо, запись всё равно делаем
	if ttl > 0 {
		if entry, ok := f.lookup(key); ok && f.now().Sub(entry.fetchedAt) < ttl {
			return entry.data, nil
		}
	}

	span, ctx := tracing.StartSpan(ctx, "marketdata.fetch", map[string]string{
		"symbol": key.Symbol,
		"kind":   string(key.Kind),
	})
	defer span.Finish()

	data, err := f.withRetry(ctx, key, call)
	if err != nil {
		return models.MarketData{}, err
	}

	f.store(key, data)
	return data, nil
}

func (f *Fetcher) lookup(key cacheKey) (cacheEntry, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	entry, ok := f.cache[key]
	if !ok {
		return cacheEntry{}, false
	}
	// битую запись считаем промахом, перезапишется следующим фетчем
	if entry.fetchedAt.IsZero() || (entry.data.Ticker == nil && len(entry.data.Candles) == 0) {
		return cacheEntry{}, false
	}
	return entry, true
}

func (f *Fetcher) store(key cacheKey, data models.MarketData) {
	f.mu.Lock()
	f.cache[key] = cacheEntry{data: data, fetchedAt: f.now()}
	f.mu.Unlock()
}

func (f *Fetcher) withRetry(ctx context.Context, key cacheKey, call func(context.Context) (models.MarketData, error)) (models.MarketData, error) {
	var lastErr error

	for attempt := 0; attempt <= f.opts.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := f.backoff(attempt)
			logger.Info("retrying %s %s, attempt %d after %v", key.Kind, key.Symbol, attempt, delay)
			if err := sleepWithContext(ctx, delay); err != nil {
				return models.MarketData{}, &models.FetchError{
					Kind:   models.FetchTransient,
					Symbol: key.Symbol,
					Op:     string(key.Kind),
					Err:    err,
				}
			}
		}

		data, err := call(ctx)
		if err == nil {
			if attempt > 0 {
				logger.Info("%s %s recovered after %d retries", key.Kind, key.Symbol, attempt)
			}
			return data, nil
		}

		if fe, ok := models.AsFetchError(err); ok && !fe.Temporary() {
			// отказ биржи, ретраи бессмысленны
			return models.MarketData{}, err
		}

		lastErr = err
		logger.Warn("%s %s failed on attempt %d: %v", key.Kind, key.Symbol, attempt+1, err)
	}

	if fe, ok := models.AsFetchError(lastErr); ok {
		return models.MarketData{}, fe
	}
	return models.MarketData{}, &models.FetchError{
		Kind:   models.FetchTransient,
		Symbol: key.Symbol,
		Op:     string(key.Kind),
		Err:    lastErr,
	}
}

func (f *Fetcher) backoff(attempt int) time.Duration {
	delay := f.opts.RetryDelay << (attempt - 1)
	if delay > f.opts.MaxRetryDelay {
		delay = f.opts.MaxRetryDelay
	}
	return delay
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
