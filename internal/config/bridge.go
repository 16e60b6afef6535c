package config

import (
	"fmt"
)

type BridgeConfig struct {
	MinAmountCSPR     float64            `mapstructure:"min-amount-cspr"`
	FeePercent        map[string]float64 `mapstructure:"fee-percent"`
	DefaultFeePercent float64            `mapstructure:"default-fee-percent"`
	SupportedChains   []string           `mapstructure:"supported-chains"`
}

func (cfg *BridgeConfig) Validate() error {
	if cfg.MinAmountCSPR <= 0 {
		return fmt.Errorf("min bridge amount must be positive")
	}

	if cfg.DefaultFeePercent < 0 || cfg.DefaultFeePercent >= 100 {
		return fmt.Errorf("default bridge fee percent must be in [0, 100)")
	}

	for chain, percent := range cfg.FeePercent {
		if percent < 0 || percent >= 100 {
			return fmt.Errorf("bridge fee percent for chain %s must be in [0, 100)", chain)
		}
	}

	if len(cfg.SupportedChains) < 2 {
		return fmt.Errorf("at least two supported chains are required for bridging")
	}

	return nil
}
