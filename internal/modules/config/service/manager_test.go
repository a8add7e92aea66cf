package service

import (
	"context"
	"os"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trading_bot/internal/models"
	"trading_bot/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type stubStore struct {
	doc    map[string]any
	getErr error
	setErr error

	gets int
	sets []map[string]any
}

func (s *stubStore) GetDocument(_ context.Context, _, _ string) (map[string]any, error) {
	s.gets++
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.doc, nil
}

func (s *stubStore) SetDocument(_ context.Context, _, _ string, data map[string]any) error {
	s.sets = append(s.sets, data)
	return s.setErr
}

func clearTradingEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"TRADING_MODE", "EXCHANGE", "API_KEY", "API_SECRET", "SYMBOLS", "UPDATE_INTERVAL"} {
		t.Setenv(key, "")
	}
}

func TestResolveFromRemoteDocument(t *testing.T) {
	clearTradingEnv(t)

	store := &stubStore{doc: map[string]any{
		"mode":            "live",
		"exchange":        "kraken",
		"api_key":         "k",
		"api_secret":      "s",
		"symbols":         []any{"BTC/USDT", "ETH/USDT"},
		"update_interval": 30,
	}}

	cfg, err := NewManager(store).Resolve(context.Background())
	require.NoError(t, err)

	assert.Equal(t, ModeLive, cfg.Mode)
	assert.Equal(t, ExchangeKraken, cfg.Exchange)
	assert.Equal(t, "k", cfg.APIKey)
	assert.Equal(t, []string{"BTC/USDT", "ETH/USDT"}, cfg.Symbols)
	assert.Equal(t, 30, cfg.UpdateInterval)
	assert.Equal(t, 1, store.gets)
}

func TestResolveFallsBackToEnv(t *testing.T) {
	clearTradingEnv(t)
	t.Setenv("TRADING_MODE", "live")
	t.Setenv("SYMBOLS", `["ETH/USDT"]`)

	store := &stubStore{getErr: errors.Wrap(models.ErrRemoteStore, "dial timeout")}

	cfg, err := NewManager(store).Resolve(context.Background())
	require.NoError(t, err)

	assert.Equal(t, ModeLive, cfg.Mode)
	assert.Equal(t, []string{"ETH/USDT"}, cfg.Symbols)
	// остальное — дефолты
	assert.Equal(t, ExchangeBinance, cfg.Exchange)
	assert.Empty(t, cfg.APIKey)
	assert.Equal(t, 60, cfg.UpdateInterval)
}

func TestResolveNotFoundFallsBackToEnv(t *testing.T) {
	clearTradingEnv(t)

	store := &stubStore{getErr: models.ErrNotFound}

	cfg, err := NewManager(store).Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DefaultTradingConfig(), *cfg)
}

func TestResolveInvalidRemoteDocFallsBackToEnv(t *testing.T) {
	clearTradingEnv(t)

	store := &stubStore{doc: map[string]any{"mode": "yolo"}}

	cfg, err := NewManager(store).Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ModePaper, cfg.Mode)
}

func TestResolveMalformedSymbolsIsFatal(t *testing.T) {
	clearTradingEnv(t)
	t.Setenv("SYMBOLS", `not a json array`)

	store := &stubStore{getErr: errors.Wrap(models.ErrRemoteStore, "unavailable")}

	_, err := NewManager(store).Resolve(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrConfiguration)
}

func TestResolveInvalidEnvEnumIsFatal(t *testing.T) {
	clearTradingEnv(t)
	t.Setenv("TRADING_MODE", "gambling")

	_, err := NewManager(nil).Resolve(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrConfiguration)
}

func TestResolveWithoutStore(t *testing.T) {
	clearTradingEnv(t)
	t.Setenv("UPDATE_INTERVAL", "15")

	cfg, err := NewManager(nil).Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 15, cfg.UpdateInterval)
}

func TestSaveBestEffort(t *testing.T) {
	clearTradingEnv(t)

	cfg := DefaultTradingConfig()

	store := &stubStore{}
	NewManager(store).Save(context.Background(), &cfg)
	require.Len(t, store.sets, 1)
	assert.Equal(t, "paper", store.sets[0]["mode"])
	assert.Equal(t, "binance", store.sets[0]["exchange"])

	// ошибка записи глотается
	broken := &stubStore{setErr: errors.Wrap(models.ErrRemoteStore, "write denied")}
	NewManager(broken).Save(context.Background(), &cfg)
	assert.Len(t, broken.sets, 1)
}
