package services

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/casperstation/operations-api-service/internal/economics"
	"github.com/casperstation/operations-api-service/internal/types"
)

// ValidatorPublic is a validator bid enriched with its derived APY.
type ValidatorPublic struct {
	PublicKeyHex      string  `json:"public_key_hex"`
	TotalStakeMotes   uint64  `json:"total_stake_motes"`
	TotalStakeCSPR    float64 `json:"total_stake_cspr"`
	CommissionPercent uint64  `json:"commission_percent"`
	IsActive          bool    `json:"is_active"`
	APY               float64 `json:"apy"`
}

// ValidatorsPublic carries the validator set together with the sandbox marker.
// Sandbox true means the network was unreachable and the list is synthetic.
type ValidatorsPublic struct {
	Validators []ValidatorPublic `json:"validators"`
	Sandbox    bool              `json:"sandbox"`
}

// GetValidators lists the network validator set with per-validator APY.
func (s *Services) GetValidators(ctx context.Context) (*ValidatorsPublic, *types.Error) {
	result, err := s.clients.Chain.GetValidators(ctx)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("error while fetching validators")
		return nil, types.NewInternalServiceError(err)
	}

	validators := make([]ValidatorPublic, 0, len(result.Bids))
	for _, bid := range result.Bids {
		validators = append(validators, ValidatorPublic{
			PublicKeyHex:      bid.PublicKeyHex,
			TotalStakeMotes:   bid.TotalStakeMotes,
			TotalStakeCSPR:    economics.MotesToCSPR(bid.TotalStakeMotes),
			CommissionPercent: bid.CommissionPercent,
			IsActive:          bid.IsActive,
			APY:               s.calculator.ValidatorAPY(bid.CommissionPercent),
		})
	}
	return &ValidatorsPublic{Validators: validators, Sandbox: result.Degraded}, nil
}
