package economics

import (
	"github.com/casperstation/operations-api-service/internal/config"
	"github.com/casperstation/operations-api-service/internal/types"
)

const daysPerYear = 365

// Calculator computes the economic parameters gating on-chain operations:
// deploy gas cost, validator APY, staking yield and bridge fees. It is pure
// and deterministic; all tunables come from configuration at construction.
type Calculator struct {
	staking *config.StakingConfig
	bridge  *config.BridgeConfig
	deploy  *config.DeployConfig
}

func NewCalculator(
	staking *config.StakingConfig, bridge *config.BridgeConfig, deploy *config.DeployConfig,
) *Calculator {
	return &Calculator{
		staking: staking,
		bridge:  bridge,
		deploy:  deploy,
	}
}

// EstimateDeployCost prices a contract deployment in motes from its session
// code size. Integer arithmetic throughout; conversion to CSPR happens only
// at presentation time.
func (c *Calculator) EstimateDeployCost(sizeBytes uint64) uint64 {
	return c.deploy.BaseCostMotes + sizeBytes*c.deploy.PerByteCostMotes
}

// ValidatorAPY derives the annualized yield offered by a validator from its
// commission. The result is clamped into the configured band, so it holds
// for any commission input including 0 and 100.
func (c *Calculator) ValidatorAPY(commissionPercent uint64) float64 {
	commission := float64(commissionPercent)
	if commission > 100 {
		commission = 100
	}
	apy := c.staking.InflationRate * (1 - commission/100) * c.staking.ScalingFactor

	if apy < c.staking.APYMin {
		return c.staking.APYMin
	}
	if apy > c.staking.APYMax {
		return c.staking.APYMax
	}
	return apy
}

// StakingYield accrues simple (non-compounding) daily rewards in CSPR.
// Elapsed time at or before the stake start yields exactly zero.
func (c *Calculator) StakingYield(amountCSPR, apyPercent float64, elapsedDays int64) float64 {
	if elapsedDays <= 0 {
		return 0
	}
	return amountCSPR * apyPercent / 100 * float64(elapsedDays) / daysPerYear
}

// BridgeFee computes the fee for moving amountCSPR out of sourceChain and the
// net amount arriving on the destination. The net amount is never negative.
func (c *Calculator) BridgeFee(amountCSPR float64, sourceChain string) (fee, net float64) {
	percent, ok := c.bridge.FeePercent[sourceChain]
	if !ok {
		percent = c.bridge.DefaultFeePercent
	}
	fee = amountCSPR * percent / 100
	net = amountCSPR - fee
	if net < 0 {
		net = 0
	}
	return fee, net
}

// MotesToCSPR converts motes to CSPR for presentation.
func MotesToCSPR(motes uint64) float64 {
	return float64(motes) / float64(types.MotesPerCSPR)
}

// CSPRToMotes converts a CSPR amount to motes, truncating sub-mote precision.
func CSPRToMotes(cspr float64) uint64 {
	return uint64(cspr * float64(types.MotesPerCSPR))
}
