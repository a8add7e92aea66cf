package service

import (
	"os"

	"gopkg.in/yaml.v2"
)

const strategyFileENV = "STRATEGY_FILE"

// NewStrategyConfig читает configs/strategy.yaml (или $STRATEGY_FILE).
// Нет файла — не ошибка, работаем на дефолтах.
func NewStrategyConfig() (StrategyConfig, error) {
	fileName := getenvDefault(strategyFileENV, "strategy.yaml")

	s := StrategyConfig{}
	file, err := os.Open("configs/" + fileName)
	if err != nil {
		if os.IsNotExist(err) {
			s.ApplyDefaults()
			return s, nil
		}
		return StrategyConfig{}, err
	}
	defer func() {
		_ = file.Close()
	}()

	if err := yaml.NewDecoder(file).Decode(&s); err != nil {
		return StrategyConfig{}, err
	}

	s.ApplyDefaults()
	return s, nil
}
