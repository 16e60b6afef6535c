package services

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/casperstation/operations-api-service/internal/economics"
	"github.com/casperstation/operations-api-service/internal/types"
)

// BalancePublic carries an account balance together with the degraded marker.
// A degraded balance is a zero fallback, never a confirmed zero.
type BalancePublic struct {
	Motes    uint64  `json:"motes"`
	CSPR     float64 `json:"cspr"`
	Degraded bool    `json:"degraded"`
}

// GetBalance resolves the main purse balance of an account public key.
func (s *Services) GetBalance(ctx context.Context, publicKeyHex string) (*BalancePublic, *types.Error) {
	balance, err := s.clients.Chain.GetBalance(ctx, publicKeyHex)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("error while fetching account balance")
		return nil, types.NewError(http.StatusBadRequest, types.ValidationError, err)
	}
	return &BalancePublic{
		Motes:    balance.Motes,
		CSPR:     economics.MotesToCSPR(balance.Motes),
		Degraded: balance.Degraded,
	}, nil
}
