package exchange

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/bytedance/sonic"

	"trading_bot/internal/models"
)

func (b *Binance) GetTicker(ctx context.Context, symbol string) (models.Ticker, error) {
	const op = "ticker"

	u := b.baseURL + "/api/v3/ticker/24hr?symbol=" + url.QueryEscape(pairOf(symbol))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return models.Ticker{}, fetchErr(models.FetchPermanent, op, symbol, err)
	}

	resp, err := b.http.Do(req)
	if err != nil {
		return models.Ticker{}, fetchErr(models.FetchTransient, op, symbol, err)
	}
	defer resp.Body.Close()

	rb, _ := io.ReadAll(resp.Body)
	if resp.StatusCode/100 != 2 {
		return models.Ticker{}, fetchErr(classifyStatus(resp.StatusCode), op, symbol,
			fmt.Errorf("http %d: %s", resp.StatusCode, string(rb)))
	}

	var raw struct {
		Symbol             string `json:"symbol"`
		LastPrice          string `json:"lastPrice"`
		PriceChangePercent string `json:"priceChangePercent"`
		Volume             string `json:"volume"`
		QuoteVolume        string `json:"quoteVolume"`
	}
	if err := sonic.Unmarshal(rb, &raw); err != nil {
		return models.Ticker{}, fetchErr(models.FetchPermanent, op, symbol, err)
	}

	last, err := strconv.ParseFloat(raw.LastPrice, 64)
	if err != nil || last <= 0 {
		return models.Ticker{}, fetchErr(models.FetchPermanent, op, symbol,
			fmt.Errorf("lastPrice parse: %v (%q)", err, raw.LastPrice))
	}
	change, _ := strconv.ParseFloat(raw.PriceChangePercent, 64)
	vol, _ := strconv.ParseFloat(raw.Volume, 64)
	qvol, _ := strconv.ParseFloat(raw.QuoteVolume, 64)

	return models.Ticker{
		Symbol:           symbol,
		LastPrice:        last,
		ChangePercent24h: change,
		Volume24h:        vol,
		QuoteVolume24h:   qvol,
	}, nil
}

func (b *Binance) GetCandles(ctx context.Context, symbol, timeframe string, limit int) ([]models.Candle, error) {
	const op = "candles"

	if limit <= 0 {
		limit = 100
	}
	u := fmt.Sprintf("%s/api/v3/klines?symbol=%s&interval=%s&limit=%d",
		b.baseURL, url.QueryEscape(pairOf(symbol)), url.QueryEscape(timeframe), limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fetchErr(models.FetchPermanent, op, symbol, err)
	}

	resp, err := b.http.Do(req)
	if err != nil {
		return nil, fetchErr(models.FetchTransient, op, symbol, err)
	}
	defer resp.Body.Close()

	rb, _ := io.ReadAll(resp.Body)
	if resp.StatusCode/100 != 2 {
		return nil, fetchErr(classifyStatus(resp.StatusCode), op, symbol,
			fmt.Errorf("http %d: %s", resp.StatusCode, string(rb)))
	}

	// kline приходит позиционным массивом:
	// [openTime, open, high, low, close, volume, closeTime, ...]
	var rows [][]any
	if err := sonic.Unmarshal(rb, &rows); err != nil {
		return nil, fetchErr(models.FetchPermanent, op, symbol, err)
	}

	candles := make([]models.Candle, 0, len(rows))
	for _, row := range rows {
		c, err := candleFromRow(row)
		if err != nil {
			return nil, fetchErr(models.FetchPermanent, op, symbol, err)
		}
		candles = append(candles, c)
	}
	return candles, nil
}

func candleFromRow(row []any) (models.Candle, error) {
	if len(row) < 6 {
		return models.Candle{}, fmt.Errorf("kline row too short: %d fields", len(row))
	}

	openMs, ok := row[0].(float64)
	if !ok {
		return models.Candle{}, fmt.Errorf("kline openTime: %T", row[0])
	}

	vals := make([]float64, 5)
	for i := 1; i <= 5; i++ {
		s, ok := row[i].(string)
		if !ok {
			return models.Candle{}, fmt.Errorf("kline field %d: %T", i, row[i])
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return models.Candle{}, fmt.Errorf("kline field %d parse: %w", i, err)
		}
		vals[i-1] = v
	}

	return models.Candle{
		OpenTime: time.UnixMilli(int64(openMs)).UTC(),
		Open:     vals[0],
		High:     vals[1],
		Low:      vals[2],
		Close:    vals[3],
		Volume:   vals[4],
	}, nil
}
