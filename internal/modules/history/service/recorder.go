package service

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"trading_bot/internal/models"
	"trading_bot/pkg/db"
)

// Recorder — best-effort история сходивших фетчей. Ошибки записи
// обрабатывает вызывающий (раннер логирует и едет дальше).
type Recorder interface {
	RecordTicker(ctx context.Context, t models.Ticker, fetchedAt time.Time) error
	RecordCandles(ctx context.Context, symbol, timeframe string, candles []models.Candle) error
}

type PgRecorder struct {
	tm db.TxManager
}

func NewPgRecorder(tm db.TxManager) *PgRecorder {
	return &PgRecorder{tm: tm}
}

func (r *PgRecorder) RecordTicker(ctx context.Context, t models.Ticker, fetchedAt time.Time) error {
	const q = `INSERT INTO ticker_history (symbol, last_price, change_pct_24h, volume_24h, fetched_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.tm.Conn().Exec(ctx, q, t.Symbol, t.LastPrice, t.ChangePercent24h, t.Volume24h, fetchedAt)
	return err
}

func (r *PgRecorder) RecordCandles(ctx context.Context, symbol, timeframe string, candles []models.Candle) error {
	const q = `INSERT INTO candle_history (symbol, timeframe, open_time, open, high, low, close, volume)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (symbol, timeframe, open_time) DO UPDATE
		SET open = EXCLUDED.open, high = EXCLUDED.high, low = EXCLUDED.low,
		    close = EXCLUDED.close, volume = EXCLUDED.volume`

	return r.tm.Run(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		for _, c := range candles {
			if _, err := tx.Exec(ctxTx, q, symbol, timeframe, c.OpenTime, c.Open, c.High, c.Low, c.Close, c.Volume); err != nil {
				return err
			}
		}
		return nil
	})
}

// Noop — когда DSN не задан.
type Noop struct{}

func (Noop) RecordTicker(context.Context, models.Ticker, time.Time) error { return nil }
func (Noop) RecordCandles(context.Context, string, string, []models.Candle) error {
	return nil
}
