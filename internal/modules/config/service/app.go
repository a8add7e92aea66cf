package service

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	configFilePathENV = "CONFIG_FILE"
	tokenTelegramENV  = "TELEGRAM_TOKEN"
	databaseDSN       = "DATABASE_DSN"
)

// AppConfig — процессные настройки, не связанные с торговым конфигом:
// health, трейсинг, телеграм, БД истории и тюнинг фетчера.
type AppConfig struct {
	Service struct {
		Name       string `mapstructure:"name"`
		HealthAddr string `mapstructure:"health_addr"`
	} `mapstructure:"service"`

	Jaeger struct {
		Host string `mapstructure:"host"`
		Port int    `mapstructure:"port"`
	} `mapstructure:"jaeger"`

	Telegram struct {
		Token  string `mapstructure:"token"`
		ChatID int64  `mapstructure:"chat_id"`
	} `mapstructure:"telegram"`

	DB string `mapstructure:"db_dsn"`

	Fetch struct {
		MaxRetries    int           `mapstructure:"max_retries"`
		RetryDelay    time.Duration `mapstructure:"retry_delay"`
		MaxRetryDelay time.Duration `mapstructure:"max_retry_delay"`
		CacheTTL      time.Duration `mapstructure:"cache_ttl"`
		CandleLimit   int           `mapstructure:"candle_limit"`
	} `mapstructure:"fetch"`

	Stream struct {
		Enabled bool `mapstructure:"enabled"`
	} `mapstructure:"stream"`
}

func NewAppConfig() (*AppConfig, error) {
	_ = godotenv.Load()

	v := viper.New()

	configFileName := os.Getenv(configFilePathENV)
	if configFileName == "" {
		configFileName = "values_local.yaml"
	}
	v.SetConfigFile("configs/" + configFileName)

	v.SetDefault("service.name", "trading_bot")
	v.SetDefault("service.health_addr", ":8080")
	v.SetDefault("jaeger.host", "localhost")
	v.SetDefault("jaeger.port", 6831)
	v.SetDefault("fetch.max_retries", 3)
	v.SetDefault("fetch.retry_delay", "500ms")
	v.SetDefault("fetch.max_retry_delay", "10s")
	v.SetDefault("fetch.cache_ttl", "60s")
	v.SetDefault("fetch.candle_limit", 100)
	v.SetDefault("stream.enabled", true)

	if err := v.ReadInConfig(); err != nil {
		// файла может не быть, тогда живём на дефолтах и окружении
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, err
		}
	}

	config := &AppConfig{}
	if err := v.Unmarshal(config); err != nil {
		return nil, err
	}

	if token := os.Getenv(tokenTelegramENV); token != "" {
		config.Telegram.Token = token
	}
	if dsn := os.Getenv(databaseDSN); dsn != "" {
		config.DB = dsn
	}

	return config, nil
}
