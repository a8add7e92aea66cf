package models

import "time"

// DataKind — вид рыночных данных в кеше и в запросах фетчера.
type DataKind string

const (
	KindTicker  DataKind = "ticker"
	KindCandles DataKind = "candles"
)

type Ticker struct {
	Symbol           string  `json:"symbol"`
	LastPrice        float64 `json:"last_price"`
	ChangePercent24h float64 `json:"change_percent_24h"`
	Volume24h        float64 `json:"volume_24h"`
	QuoteVolume24h   float64 `json:"quote_volume_24h"`
}

type Candle struct {
	OpenTime time.Time `json:"open_time"`
	Open     float64   `json:"open"`
	High     float64   `json:"high"`
	Low      float64   `json:"low"`
	Close    float64   `json:"close"`
	Volume   float64   `json:"volume"`
}

// MarketData — каноническая форма после нормализации ответа биржи.
// Заполнено либо Ticker, либо Candles, в зависимости от Kind.
type MarketData struct {
	Symbol    string    `json:"symbol"`
	Kind      DataKind  `json:"kind"`
	Timeframe string    `json:"timeframe,omitempty"`
	Ticker    *Ticker   `json:"ticker,omitempty"`
	Candles   []Candle  `json:"candles,omitempty"`
	FetchedAt time.Time `json:"fetched_at"`
}
