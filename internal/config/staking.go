package config

import (
	"fmt"
)

type StakingConfig struct {
	MinStakeCSPR  float64 `mapstructure:"min-stake-cspr"`
	MinLockDays   uint64  `mapstructure:"min-lock-days"`
	MaxLockDays   uint64  `mapstructure:"max-lock-days"`
	InflationRate float64 `mapstructure:"inflation-rate"`
	ScalingFactor float64 `mapstructure:"scaling-factor"`
	APYMin        float64 `mapstructure:"apy-min"`
	APYMax        float64 `mapstructure:"apy-max"`
}

func (cfg *StakingConfig) Validate() error {
	if cfg.MinStakeCSPR <= 0 {
		return fmt.Errorf("min stake must be positive")
	}

	if cfg.MinLockDays == 0 {
		return fmt.Errorf("min lock days must be positive")
	}

	if cfg.MaxLockDays < cfg.MinLockDays {
		return fmt.Errorf("max lock days must be greater than or equal to min lock days")
	}

	if cfg.InflationRate <= 0 {
		return fmt.Errorf("inflation rate must be positive")
	}

	if cfg.ScalingFactor <= 0 {
		return fmt.Errorf("scaling factor must be positive")
	}

	if cfg.APYMin < 0 {
		return fmt.Errorf("apy lower band cannot be negative")
	}

	if cfg.APYMax <= cfg.APYMin {
		return fmt.Errorf("apy upper band must be greater than the lower band")
	}

	return nil
}
