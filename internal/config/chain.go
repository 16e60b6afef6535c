package config

import (
	"fmt"
	"net/url"
	"time"
)

// ChainConfig configures the failover RPC client. Endpoints are tried in the
// order they are listed.
type ChainConfig struct {
	Name           string        `mapstructure:"name"`
	Endpoints      []string      `mapstructure:"endpoints"`
	RequestTimeout time.Duration `mapstructure:"request-timeout"`
	RetryAttempts  uint          `mapstructure:"retry-attempts"`
	RetryMinDelay  time.Duration `mapstructure:"retry-min-delay"`
}

func (cfg *ChainConfig) Validate() error {
	if cfg.Name == "" {
		return fmt.Errorf("missing chain name")
	}

	if len(cfg.Endpoints) == 0 {
		return fmt.Errorf("at least one chain rpc endpoint is required")
	}

	for _, endpoint := range cfg.Endpoints {
		u, err := url.Parse(endpoint)
		if err != nil {
			return fmt.Errorf("invalid chain rpc endpoint %s: %w", endpoint, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("unsupported chain rpc endpoint scheme: %s", u.Scheme)
		}
		if u.Host == "" {
			return fmt.Errorf("missing host in chain rpc endpoint: %s", endpoint)
		}
	}

	if cfg.RequestTimeout <= 0 {
		return fmt.Errorf("chain request timeout must be positive")
	}

	if cfg.RetryAttempts == 0 {
		return fmt.Errorf("chain retry attempts must be positive")
	}

	if cfg.RetryMinDelay <= 0 {
		return fmt.Errorf("chain retry min delay must be positive")
	}

	return nil
}
