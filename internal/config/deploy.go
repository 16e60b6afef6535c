package config

import (
	"fmt"
)

type DeployConfig struct {
	BaseCostMotes    uint64 `mapstructure:"base-cost-motes"`
	PerByteCostMotes uint64 `mapstructure:"per-byte-cost-motes"`
	MaxCodeSizeBytes uint64 `mapstructure:"max-code-size-bytes"`
}

func (cfg *DeployConfig) Validate() error {
	if cfg.BaseCostMotes == 0 {
		return fmt.Errorf("deploy base cost must be positive")
	}

	if cfg.PerByteCostMotes == 0 {
		return fmt.Errorf("deploy per byte cost must be positive")
	}

	if cfg.MaxCodeSizeBytes == 0 {
		return fmt.Errorf("deploy max code size must be positive")
	}

	return nil
}
