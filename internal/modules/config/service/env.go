package service

import (
	"fmt"
	"os"
	"strconv"

	"github.com/bytedance/sonic"
)

const (
	tradingModeENV    = "TRADING_MODE"
	exchangeENV       = "EXCHANGE"
	apiKeyENV         = "API_KEY"
	apiSecretENV      = "API_SECRET"
	symbolsENV        = "SYMBOLS"
	updateIntervalENV = "UPDATE_INTERVAL"
)

// FromEnv собирает TradingConfig из окружения поверх дефолтов.
// SYMBOLS — строка с JSON-массивом; мусор в ней — это ошибка конфигурации,
// а не повод молча взять дефолт.
func FromEnv() (TradingConfig, error) {
	cfg := DefaultTradingConfig()

	cfg.Mode = TradingMode(getenvDefault(tradingModeENV, string(cfg.Mode)))
	cfg.Exchange = ExchangeType(getenvDefault(exchangeENV, string(cfg.Exchange)))
	cfg.APIKey = os.Getenv(apiKeyENV)
	cfg.APISecret = os.Getenv(apiSecretENV)

	if raw := os.Getenv(symbolsENV); raw != "" {
		var symbols []string
		if err := sonic.UnmarshalString(raw, &symbols); err != nil {
			return TradingConfig{}, fmt.Errorf("parse %s: %w", symbolsENV, err)
		}
		cfg.Symbols = symbols
	}

	if raw := os.Getenv(updateIntervalENV); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return TradingConfig{}, fmt.Errorf("parse %s: %w", updateIntervalENV, err)
		}
		cfg.UpdateInterval = n
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
