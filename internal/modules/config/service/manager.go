package service

import (
	"context"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"

	"trading_bot/internal/models"
	"trading_bot/pkg/logger"
)

const (
	ConfigCollection = "config"
	ConfigDocument   = "trading_config"
)

// Store — удалённый документный стор. Две операции, без частичных апдейтов.
type Store interface {
	GetDocument(ctx context.Context, collection, document string) (map[string]any, error)
	SetDocument(ctx context.Context, collection, document string, data map[string]any) error
}

// Manager резолвит TradingConfig: сначала удалённый стор, затем окружение.
// Стор может быть nil — тогда сразу работаем от окружения.
type Manager struct {
	store Store
}

func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

// Resolve — цепочка фолбеков. Ошибка только если и стор, и окружение
// не дали валидный конфиг: это ErrConfiguration, с ним процесс не живёт.
func (m *Manager) Resolve(ctx context.Context) (*TradingConfig, error) {
	if m.store != nil {
		data, err := m.store.GetDocument(ctx, ConfigCollection, ConfigDocument)
		switch {
		case err == nil:
			cfg, derr := decodeTradingConfig(data)
			if derr != nil {
				logger.Warn("remote config document malformed: %v", derr)
				break
			}
			if verr := cfg.Validate(); verr != nil {
				logger.Warn("remote config document invalid: %v", verr)
				break
			}
			logger.Info("loaded configuration from remote store")
			return &cfg, nil
		case errors.Is(err, models.ErrNotFound):
			logger.Info("no remote config document, falling back to environment")
		default:
			logger.Warn("could not load config from remote store: %v", err)
		}
	}

	cfg, err := FromEnv()
	if err != nil {
		return nil, errors.Wrapf(models.ErrConfiguration, "environment config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(models.ErrConfiguration, "environment config invalid: %v", err)
	}

	logger.Info("loaded configuration from environment")
	return &cfg, nil
}

// Save пишет конфиг в стор целиком. Best-effort: ошибки логируем и глотаем.
func (m *Manager) Save(ctx context.Context, cfg *TradingConfig) {
	if m.store == nil || cfg == nil {
		return
	}

	data, err := encodeTradingConfig(*cfg)
	if err != nil {
		logger.Error("failed to encode configuration: %v", err)
		return
	}
	if err := m.store.SetDocument(ctx, ConfigCollection, ConfigDocument, data); err != nil {
		logger.Error("failed to save configuration: %v", err)
		return
	}
	logger.Info("configuration saved to remote store")
}

func decodeTradingConfig(data map[string]any) (TradingConfig, error) {
	raw, err := sonic.Marshal(data)
	if err != nil {
		return TradingConfig{}, err
	}
	cfg := DefaultTradingConfig()
	if err := sonic.Unmarshal(raw, &cfg); err != nil {
		return TradingConfig{}, err
	}
	return cfg, nil
}

func encodeTradingConfig(cfg TradingConfig) (map[string]any, error) {
	raw, err := sonic.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	var data map[string]any
	if err := sonic.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	return data, nil
}
