package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:                "0.0.0.0",
			Port:                8092,
			WriteTimeout:        time.Minute,
			ReadTimeout:         time.Minute,
			IdleTimeout:         2 * time.Minute,
			MaxContentLength:    4_194_304,
			HealthCheckInterval: 60,
		},
		Db: DbConfig{
			Address:            "mongodb://localhost:27017",
			DbName:             "operations-api-service",
			MaxPaginationLimit: 10,
		},
		Chain: ChainConfig{
			Name:           "casper-test",
			Endpoints:      []string{"http://localhost:7777/rpc"},
			RequestTimeout: 10 * time.Second,
			RetryAttempts:  3,
			RetryMinDelay:  500 * time.Millisecond,
		},
		Orchestrator: OrchestratorConfig{
			PollInterval:    15 * time.Second,
			MaxPollJitter:   5 * time.Second,
			MaxAttempts:     40,
			MaxPollDuration: 30 * time.Minute,
		},
		Staking: StakingConfig{
			MinStakeCSPR:  500,
			MinLockDays:   1,
			MaxLockDays:   365,
			InflationRate: 0.02,
			ScalingFactor: 500,
			APYMin:        5,
			APYMax:        15,
		},
		Bridge: BridgeConfig{
			MinAmountCSPR:     50,
			DefaultFeePercent: 1,
			SupportedChains:   []string{"casper", "ethereum"},
		},
		Deploy: DeployConfig{
			BaseCostMotes:    2_500_000_000,
			PerByteCostMotes: 1_000,
			MaxCodeSizeBytes: 1_048_576,
		},
		Metrics: DefaultMetricsConfig(),
	}
}

func TestValidateAcceptsDeploySizedContentLength(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

// A content length cap below twice the code size limit would reject every
// deployment near the limit before validation ever sees it.
func TestValidateRejectsContentLengthBelowDeployLimit(t *testing.T) {
	cfg := validConfig()
	cfg.Server.MaxContentLength = 4096

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max content length")
}

func TestValidateRejectsContentLengthJustUnderEnvelope(t *testing.T) {
	cfg := validConfig()
	cfg.Server.MaxContentLength = int64(2*cfg.Deploy.MaxCodeSizeBytes) + requestEnvelopeBytes - 1

	require.Error(t, cfg.Validate())

	cfg.Server.MaxContentLength++
	require.NoError(t, cfg.Validate())
}
