package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Db           DbConfig           `mapstructure:"db"`
	Chain        ChainConfig        `mapstructure:"chain"`
	Orchestrator OrchestratorConfig `mapstructure:"orchestrator"`
	Staking      StakingConfig      `mapstructure:"staking"`
	Bridge       BridgeConfig       `mapstructure:"bridge"`
	Deploy       DeployConfig       `mapstructure:"deploy"`
	Activity     ActivityConfig     `mapstructure:"activity"`
	Metrics      MetricsConfig      `mapstructure:"metrics"`
}

func (cfg *Config) Validate() error {
	if err := cfg.Server.Validate(); err != nil {
		return err
	}

	if err := cfg.Db.Validate(); err != nil {
		return err
	}

	if err := cfg.Chain.Validate(); err != nil {
		return err
	}

	if err := cfg.Orchestrator.Validate(); err != nil {
		return err
	}

	if err := cfg.Staking.Validate(); err != nil {
		return err
	}

	if err := cfg.Bridge.Validate(); err != nil {
		return err
	}

	if err := cfg.Deploy.Validate(); err != nil {
		return err
	}

	if err := cfg.Activity.Validate(); err != nil {
		return err
	}

	if err := cfg.Metrics.Validate(); err != nil {
		return err
	}

	// Session bytes travel hex encoded, doubling the deploy payload on the
	// wire. The content length cap must leave room for a deploy at the code
	// size limit plus the surrounding request fields.
	minContentLength := int64(2*cfg.Deploy.MaxCodeSizeBytes) + requestEnvelopeBytes
	if cfg.Server.MaxContentLength < minContentLength {
		return fmt.Errorf(
			"server max content length %d cannot carry a hex encoded deploy at the %d byte code size limit, need at least %d",
			cfg.Server.MaxContentLength, cfg.Deploy.MaxCodeSizeBytes, minContentLength,
		)
	}

	return nil
}

// requestEnvelopeBytes is the allowance for the JSON fields around the hex
// encoded session in a deployment request.
const requestEnvelopeBytes = 4096

// New returns a fully parsed Config object from a given file directory
func New(cfgFile string) (*Config, error) {
	_, err := os.Stat(cfgFile)
	if err != nil {
		return nil, err
	}

	viper.SetConfigFile(cfgFile)

	viper.AutomaticEnv()
	/*
		Below code will replace nested fields in yml into `_` and any `-` into `__` when you try to override this config via env variable
		To give an example:
		1. `some.config.a` can be overriden by `SOME_CONFIG_A`
		2. `some.config-a` can be overriden by `SOME_CONFIG__A`
		This is to avoid using `-` in the environment variable as it's not supported in all os terminal/bash
		Note: vipner package use `.` as delimitter by default. Read more here: https://pkg.go.dev/github.com/spf13/viper#readme-accessing-nested-keys
	*/
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "__"))

	err = viper.ReadInConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err = viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err = cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
