package services

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/casperstation/operations-api-service/internal/economics"
	"github.com/casperstation/operations-api-service/internal/types"
)

// StakeAccepted is the response to an accepted delegation request.
type StakeAccepted struct {
	Operation                 OperationPublic `json:"operation"`
	APY                       float64         `json:"apy"`
	EstimatedAnnualRewardCSPR float64         `json:"estimated_annual_reward_cspr"`
	TrackingUrl               string          `json:"tracking_url,omitempty"`
}

// StartStake validates and submits a delegation and returns the tracked
// operation with its projected yield. The lock countdown starts at acceptance.
func (s *Services) StartStake(
	ctx context.Context, ownerPkHex, validatorPkHex string, amountMotes, lockDays uint64,
) (*StakeAccepted, *types.Error) {
	doc, svcErr := s.Orchestrator.Start(ctx, ownerPkHex, types.StakePayload{
		ValidatorPkHex: validatorPkHex,
		AmountMotes:    amountMotes,
		LockDays:       lockDays,
	})
	if svcErr != nil {
		return nil, svcErr
	}

	apy := s.validatorAPY(ctx, validatorPkHex)
	amountCSPR := economics.MotesToCSPR(amountMotes)
	return &StakeAccepted{
		Operation:                 fromOperationDocument(doc),
		APY:                       apy,
		EstimatedAnnualRewardCSPR: s.calculator.StakingYield(amountCSPR, apy, 365),
		TrackingUrl:               s.trackingUrl(doc.DeployHash),
	}, nil
}

// validatorAPY resolves the APY of a validator from the live auction state,
// falling back to the configured floor when the validator cannot be resolved.
func (s *Services) validatorAPY(ctx context.Context, validatorPkHex string) float64 {
	validators, err := s.clients.Chain.GetValidators(ctx)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("validators unavailable for apy projection, using floor")
		return s.cfg.Staking.APYMin
	}
	for _, bid := range validators.Bids {
		if bid.PublicKeyHex == validatorPkHex {
			return s.calculator.ValidatorAPY(bid.CommissionPercent)
		}
	}
	return s.cfg.Staking.APYMin
}

// WithdrawStake requests the unstaking of an active stake operation.
func (s *Services) WithdrawStake(ctx context.Context, operationId string) *types.Error {
	return s.Orchestrator.Withdraw(ctx, operationId)
}
