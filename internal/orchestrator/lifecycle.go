package orchestrator

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/casperstation/operations-api-service/internal/economics"
	"github.com/casperstation/operations-api-service/internal/types"
	"github.com/casperstation/operations-api-service/internal/utils"
)

func (o *Orchestrator) validateDeploy(ctx context.Context, ownerPkHex string, p *types.DeployPayload) *types.Error {
	if p.Name == "" {
		return types.NewErrorWithMsg(http.StatusBadRequest, types.ValidationError, "contract name is required")
	}
	if !utils.IsValidHex(p.SessionBytesHex) {
		return types.NewErrorWithMsg(http.StatusBadRequest, types.ValidationError, "contract code is not valid hex")
	}
	// The declared size drives the cost estimate and the balance gate, so it
	// must match the session actually submitted.
	sessionSizeBytes := uint64(len(p.SessionBytesHex) / 2)
	if p.CodeSizeBytes != sessionSizeBytes {
		return types.NewErrorWithMsg(
			http.StatusBadRequest, types.ValidationError,
			fmt.Sprintf("declared code size %d bytes does not match the %d byte session", p.CodeSizeBytes, sessionSizeBytes),
		)
	}
	if p.CodeSizeBytes > o.cfg.Deploy.MaxCodeSizeBytes {
		return types.NewErrorWithMsg(
			http.StatusBadRequest, types.ValidationError,
			fmt.Sprintf("contract code exceeds the %d byte limit", o.cfg.Deploy.MaxCodeSizeBytes),
		)
	}

	estimatedCost := o.calculator.EstimateDeployCost(p.CodeSizeBytes)
	return o.checkBalanceCovers(ctx, ownerPkHex, estimatedCost)
}

func (o *Orchestrator) validateStake(ctx context.Context, ownerPkHex string, p *types.StakePayload) *types.Error {
	if !utils.IsValidPublicKey(p.ValidatorPkHex) {
		return types.NewErrorWithMsg(http.StatusBadRequest, types.ValidationError, "invalid validator public key")
	}

	minStakeMotes := economics.CSPRToMotes(o.cfg.Staking.MinStakeCSPR)
	if p.AmountMotes < minStakeMotes {
		return types.NewErrorWithMsg(
			http.StatusBadRequest, types.ValidationError,
			fmt.Sprintf("stake amount is below the %v CSPR minimum", o.cfg.Staking.MinStakeCSPR),
		)
	}
	if p.LockDays < o.cfg.Staking.MinLockDays || p.LockDays > o.cfg.Staking.MaxLockDays {
		return types.NewErrorWithMsg(
			http.StatusBadRequest, types.ValidationError,
			fmt.Sprintf("lock days must be between %d and %d", o.cfg.Staking.MinLockDays, o.cfg.Staking.MaxLockDays),
		)
	}

	validators, err := o.chainClient.GetValidators(ctx)
	if err != nil {
		return types.NewInternalServiceError(err)
	}
	var found *types.ValidatorBid
	for i := range validators.Bids {
		if validators.Bids[i].PublicKeyHex == p.ValidatorPkHex {
			found = &validators.Bids[i]
			break
		}
	}
	if found == nil {
		return types.NewErrorWithMsg(http.StatusBadRequest, types.PreconditionFailed, "validator not found in the auction state")
	}
	if !found.IsActive {
		return types.NewErrorWithMsg(http.StatusBadRequest, types.PreconditionFailed, "validator is not active")
	}

	return o.checkBalanceCovers(ctx, ownerPkHex, p.AmountMotes)
}

func (o *Orchestrator) validateBridge(ctx context.Context, ownerPkHex string, p *types.BridgePayload) *types.Error {
	if p.SourceChain == p.DestChain {
		return types.NewErrorWithMsg(http.StatusBadRequest, types.ValidationError, "source and destination chains must differ")
	}
	if !utils.Contains(o.cfg.Bridge.SupportedChains, p.SourceChain) {
		return types.NewErrorWithMsg(
			http.StatusBadRequest, types.ValidationError,
			fmt.Sprintf("unsupported source chain: %s", p.SourceChain),
		)
	}
	if !utils.Contains(o.cfg.Bridge.SupportedChains, p.DestChain) {
		return types.NewErrorWithMsg(
			http.StatusBadRequest, types.ValidationError,
			fmt.Sprintf("unsupported destination chain: %s", p.DestChain),
		)
	}

	minBridgeMotes := economics.CSPRToMotes(o.cfg.Bridge.MinAmountCSPR)
	if p.AmountMotes < minBridgeMotes {
		return types.NewErrorWithMsg(
			http.StatusBadRequest, types.ValidationError,
			fmt.Sprintf("bridge amount is below the %v CSPR minimum", o.cfg.Bridge.MinAmountCSPR),
		)
	}

	return o.checkBalanceCovers(ctx, ownerPkHex, p.AmountMotes)
}

// checkBalanceCovers rejects the request when the owner's confirmed balance
// does not cover the required motes. A degraded balance is rejected as a
// failed precondition rather than an insufficient balance, so the caller can
// tell "you are too poor" from "we could not check".
func (o *Orchestrator) checkBalanceCovers(ctx context.Context, ownerPkHex string, requiredMotes uint64) *types.Error {
	balance, err := o.chainClient.GetBalance(ctx, ownerPkHex)
	if err != nil {
		return types.NewError(http.StatusBadRequest, types.ValidationError, err)
	}
	if balance.Degraded {
		log.Ctx(ctx).Warn().Str("ownerPk", ownerPkHex).Msg("balance lookup degraded, rejecting operation")
		return types.NewErrorWithMsg(
			http.StatusServiceUnavailable, types.PreconditionFailed,
			"account balance could not be confirmed",
		)
	}
	if balance.Motes < requiredMotes {
		return types.NewErrorWithMsg(
			http.StatusBadRequest, types.InsufficientBalance,
			fmt.Sprintf("account balance %d motes does not cover the required %d motes", balance.Motes, requiredMotes),
		)
	}
	return nil
}

// deployDescriptor wraps a session under the standard deploy header. The wire
// format of the deploy is owned by the remote network; this service only
// passes it through.
func (o *Orchestrator) deployDescriptor(ownerPkHex string, session map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"header": map[string]interface{}{
			"account":    ownerPkHex,
			"chain_name": o.cfg.Chain.Name,
			"timestamp":  time.Now().UTC().Format(time.RFC3339),
		},
		"session": session,
	}
}

func deploySession(p *types.DeployPayload) map[string]interface{} {
	return map[string]interface{}{
		"module_bytes": map[string]interface{}{
			"module_bytes": p.SessionBytesHex,
			"name":         p.Name,
		},
	}
}

func delegateSession(p *types.StakePayload) map[string]interface{} {
	return map[string]interface{}{
		"delegate": map[string]interface{}{
			"validator": p.ValidatorPkHex,
			"amount":    fmt.Sprintf("%d", p.AmountMotes),
		},
	}
}

func undelegateSession(p *types.StakePayload) map[string]interface{} {
	return map[string]interface{}{
		"undelegate": map[string]interface{}{
			"validator": p.ValidatorPkHex,
			"amount":    fmt.Sprintf("%d", p.AmountMotes),
		},
	}
}

func lockSession(p *types.BridgePayload) map[string]interface{} {
	return map[string]interface{}{
		"bridge_lock": map[string]interface{}{
			"source_chain": p.SourceChain,
			"dest_chain":   p.DestChain,
			"amount":       fmt.Sprintf("%d", p.AmountMotes),
		},
	}
}

func mintSession(p *types.BridgePayload) map[string]interface{} {
	return map[string]interface{}{
		"bridge_mint": map[string]interface{}{
			"dest_chain": p.DestChain,
			"amount":     fmt.Sprintf("%d", p.AmountMotes),
		},
	}
}
