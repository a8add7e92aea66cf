package service

import (
	"github.com/go-playground/validator/v10"
)

type TradingMode string

const (
	ModePaper    TradingMode = "paper"
	ModeLive     TradingMode = "live"
	ModeBacktest TradingMode = "backtest"
)

type ExchangeType string

const (
	ExchangeBinance  ExchangeType = "binance"
	ExchangeCoinbase ExchangeType = "coinbase"
	ExchangeKraken   ExchangeType = "kraken"
	ExchangeBybit    ExchangeType = "bybit"
)

// TradingConfig — основной торговый конфиг. Живёт один на процесс,
// резолвится менеджером на старте.
type TradingConfig struct {
	Mode           TradingMode  `json:"mode" validate:"required,oneof=paper live backtest"`
	Exchange       ExchangeType `json:"exchange" validate:"required,oneof=binance coinbase kraken bybit"`
	APIKey         string       `json:"api_key,omitempty"`
	APISecret      string       `json:"api_secret,omitempty"`
	Symbols        []string     `json:"symbols" validate:"required,min=1,dive,required"`
	UpdateInterval int          `json:"update_interval" validate:"required,gt=0"`
}

var validate = validator.New()

// Validate — чистая проверка схемы: возвращает ошибку, ничего не меняет.
func (c TradingConfig) Validate() error {
	return validate.Struct(c)
}

func DefaultTradingConfig() TradingConfig {
	return TradingConfig{
		Mode:           ModePaper,
		Exchange:       ExchangeBinance,
		Symbols:        []string{"BTC/USDT"},
		UpdateInterval: 60,
	}
}

// StrategyConfig — параметры стратегии. Торговой логики в скаффолде нет,
// но таймфреймы использует раннер при опросе свечей.
type StrategyConfig struct {
	Name          string         `json:"name" yaml:"name"`
	Version       string         `json:"version" yaml:"version"`
	Params        map[string]any `json:"params,omitempty" yaml:"params"`
	RiskPerTrade  float64        `json:"risk_per_trade" yaml:"risk_per_trade"`
	MaxOpenTrades int            `json:"max_open_trades" yaml:"max_open_trades"`
	Timeframes    []string       `json:"timeframes" yaml:"timeframes"`
}

func (s *StrategyConfig) ApplyDefaults() {
	if s.RiskPerTrade == 0 {
		s.RiskPerTrade = 0.02
	}
	if s.MaxOpenTrades == 0 {
		s.MaxOpenTrades = 5
	}
	if len(s.Timeframes) == 0 {
		s.Timeframes = []string{"1h", "4h", "1d"}
	}
}
