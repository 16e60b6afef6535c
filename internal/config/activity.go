package config

import (
	"fmt"
	"net/url"
)

// ActivityConfig configures the audit event publisher. When disabled, events
// are dropped locally and the broker is never dialed.
type ActivityConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Url      string `mapstructure:"url"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Exchange string `mapstructure:"exchange"`
}

func (cfg *ActivityConfig) Validate() error {
	if !cfg.Enabled {
		return nil
	}

	if cfg.Url == "" {
		return fmt.Errorf("missing activity broker url")
	}

	u, err := url.Parse(cfg.Url)
	if err != nil {
		return fmt.Errorf("invalid activity broker url: %w", err)
	}

	if u.Scheme != "amqp" && u.Scheme != "amqps" {
		return fmt.Errorf("unsupported activity broker scheme: %s", u.Scheme)
	}

	if cfg.Exchange == "" {
		return fmt.Errorf("missing activity exchange name")
	}

	return nil
}
