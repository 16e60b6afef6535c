package config

import (
	"fmt"
	"time"
)

// OrchestratorConfig bounds the background polling of in-flight operations.
// An operation terminal-fails with POLLING_TIMEOUT once either MaxAttempts
// poll cycles have observed it pending or MaxPollDuration of wall-clock time
// has elapsed since creation, whichever comes first.
type OrchestratorConfig struct {
	PollInterval    time.Duration `mapstructure:"poll-interval"`
	MaxPollJitter   time.Duration `mapstructure:"max-poll-jitter"`
	MaxAttempts     uint64        `mapstructure:"max-attempts"`
	MaxPollDuration time.Duration `mapstructure:"max-poll-duration"`
}

func (cfg *OrchestratorConfig) Validate() error {
	if cfg.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive")
	}

	if cfg.MaxPollJitter < 0 {
		return fmt.Errorf("max poll jitter cannot be negative")
	}

	if cfg.MaxAttempts == 0 {
		return fmt.Errorf("max attempts must be positive")
	}

	if cfg.MaxPollDuration <= 0 {
		return fmt.Errorf("max poll duration must be positive")
	}

	if cfg.MaxPollDuration < cfg.PollInterval {
		return fmt.Errorf("max poll duration must be at least one poll interval")
	}

	return nil
}
