package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTradingConfigValidate(t *testing.T) {
	cfg := DefaultTradingConfig()
	require.NoError(t, cfg.Validate())

	bad := cfg
	bad.Mode = "gambling"
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.Exchange = "nyse"
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.Symbols = nil
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.UpdateInterval = 0
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.UpdateInterval = -5
	assert.Error(t, bad.Validate())
}

func TestStrategyConfigDefaults(t *testing.T) {
	s := StrategyConfig{Name: "scaffold", Version: "0.1"}
	s.ApplyDefaults()

	assert.Equal(t, 0.02, s.RiskPerTrade)
	assert.Equal(t, 5, s.MaxOpenTrades)
	assert.Equal(t, []string{"1h", "4h", "1d"}, s.Timeframes)

	// явно заданные значения не трогаем
	s = StrategyConfig{RiskPerTrade: 0.01, MaxOpenTrades: 2, Timeframes: []string{"5m"}}
	s.ApplyDefaults()
	assert.Equal(t, 0.01, s.RiskPerTrade)
	assert.Equal(t, 2, s.MaxOpenTrades)
	assert.Equal(t, []string{"5m"}, s.Timeframes)
}

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"TRADING_MODE", "EXCHANGE", "API_KEY", "API_SECRET", "SYMBOLS", "UPDATE_INTERVAL"} {
		t.Setenv(key, "")
	}

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, DefaultTradingConfig(), cfg)
}

func TestFromEnvBadUpdateInterval(t *testing.T) {
	t.Setenv("UPDATE_INTERVAL", "soon")

	_, err := FromEnv()
	assert.Error(t, err)
}

func TestNewStrategyConfigMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("STRATEGY_FILE", "no_such_file.yaml")

	s, err := NewStrategyConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{"1h", "4h", "1d"}, s.Timeframes)
}

func TestNewStrategyConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "configs"), 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "configs", "strategy.yaml"),
		[]byte("name: ema\nversion: \"1.2\"\ntimeframes: [5m, 15m]\n"),
		0o644,
	))
	t.Chdir(dir)
	t.Setenv("STRATEGY_FILE", "")

	s, err := NewStrategyConfig()
	require.NoError(t, err)
	assert.Equal(t, "ema", s.Name)
	assert.Equal(t, []string{"5m", "15m"}, s.Timeframes)
	// незаполненное добирается дефолтами
	assert.Equal(t, 0.02, s.RiskPerTrade)
	assert.Equal(t, 5, s.MaxOpenTrades)
}
