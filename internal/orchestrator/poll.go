package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/casperstation/operations-api-service/internal/clients/chain"
	"github.com/casperstation/operations-api-service/internal/db"
	"github.com/casperstation/operations-api-service/internal/db/model"
	"github.com/casperstation/operations-api-service/internal/economics"
	"github.com/casperstation/operations-api-service/internal/observability/metrics"
	"github.com/casperstation/operations-api-service/internal/types"
	"github.com/casperstation/operations-api-service/internal/utils"
)

// pollableStates returns the states in which an operation owns an outstanding
// scheduled poll. Active is deliberately absent: an active stake rests until
// a withdrawal is requested.
func pollableStates() []types.OperationState {
	return []types.OperationState{
		types.Pending, types.Initiated, types.Locked, types.Minting, types.Unstaking,
	}
}

// Poll advances an operation by a single step. It is idempotent: polling a
// terminal operation is a no-op. Connectivity failures and remote "still
// pending" answers both count against the attempt bound; exceeding the bound
// forces a local POLLING_TIMEOUT failure, which is never reported as a
// remote rejection.
func (o *Orchestrator) Poll(ctx context.Context, id string) (*model.OperationDocument, *types.Error) {
	doc, svcErr := o.GetOperation(ctx, id)
	if svcErr != nil {
		return nil, svcErr
	}

	if doc.State.IsTerminal() || doc.State == types.Active {
		return doc, nil
	}

	startTime := time.Now()
	defer func() {
		metrics.ObservePollCycleDuration(doc.Kind.ToString(), time.Since(startTime))
	}()

	// A locked bridge operation is waiting for its mint deploy to be
	// submitted, not for a remote answer.
	if doc.Kind == types.KindBridge && doc.State == types.Locked {
		return o.submitBridgeMint(ctx, doc)
	}

	status, err := o.chainClient.GetDeployStatus(ctx, doc.DeployHash)
	if err != nil {
		if chain.IsRemoteError(err) {
			return doc, o.failOperation(ctx, doc, types.RemoteError, err.Error())
		}
		log.Ctx(ctx).Warn().Err(err).Str("operationId", doc.Id).Msg("deploy status unavailable, will retry")
		return doc, o.registerPendingAttempt(ctx, doc)
	}

	switch status.Outcome {
	case types.DeployPending:
		return doc, o.registerPendingAttempt(ctx, doc)
	case types.DeployFailed:
		return doc, o.failOperation(ctx, doc, types.RemoteError, status.Reason)
	case types.DeploySucceeded:
		return doc, o.advance(ctx, doc, status)
	default:
		return doc, types.NewErrorWithMsg(
			types.UninitializedStatusCode, types.InternalServiceError,
			fmt.Sprintf("unknown deploy outcome: %s", status.Outcome),
		)
	}
}

// registerPendingAttempt counts one poll cycle against the operation's
// bounds. The attempt counter is monotonic and incremented by exactly one
// per cycle.
func (o *Orchestrator) registerPendingAttempt(ctx context.Context, doc *model.OperationDocument) *types.Error {
	now := time.Now().UTC()
	attempts, err := o.dbClient.IncrementOperationAttempts(ctx, doc.Id, now)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("operationId", doc.Id).Msg("failed to increment poll attempts")
		return types.NewInternalServiceError(err)
	}
	doc.Attempts = attempts
	doc.LastPolledAt = &now

	if attempts >= o.cfg.Orchestrator.MaxAttempts {
		return o.failOperation(
			ctx, doc, types.PollingTimeout,
			fmt.Sprintf("gave up after %d polling attempts without a remote answer", attempts),
		)
	}
	if now.Sub(doc.CreatedAt) > o.cfg.Orchestrator.MaxPollDuration {
		return o.failOperation(
			ctx, doc, types.PollingTimeout,
			fmt.Sprintf("gave up after %s without a remote answer", o.cfg.Orchestrator.MaxPollDuration),
		)
	}
	return nil
}

// advance applies the kind-specific stage graph after a successful remote
// execution of the currently tracked deploy.
func (o *Orchestrator) advance(
	ctx context.Context, doc *model.OperationDocument, status *types.DeployStatus,
) *types.Error {
	switch doc.Kind {
	case types.KindDeploy:
		return o.completeTransition(ctx, doc, types.Confirmed, utils.QualifiedStatesToConfirmed(), &model.OperationUpdate{
			DeployResult: &types.DeployResult{
				BlockHash: status.BlockHash,
				CostMotes: status.CostMotes,
			},
		}, "contract deployment confirmed")

	case types.KindStake:
		if doc.State == types.Unstaking {
			result := o.stakeResult(ctx, doc)
			return o.completeTransition(ctx, doc, types.Completed, utils.QualifiedStatesToCompleted(), &model.OperationUpdate{
				StakeResult: result,
			}, "stake withdrawal completed")
		}
		return o.stepTransition(ctx, doc, types.Active, utils.QualifiedStatesToActive(), nil, "stake delegation active")

	case types.KindBridge:
		if doc.State == types.Minting {
			result := o.bridgeResult(doc)
			return o.completeTransition(ctx, doc, types.Completed, utils.QualifiedStatesToCompleted(), &model.OperationUpdate{
				BridgeResult: result,
			}, "bridge transfer completed")
		}
		return o.stepTransition(ctx, doc, types.Locked, utils.QualifiedStatesToLocked(), nil, "bridge funds locked on source chain")

	default:
		return types.NewErrorWithMsg(
			types.UninitializedStatusCode, types.InternalServiceError,
			fmt.Sprintf("unknown operation kind: %s", doc.Kind),
		)
	}
}

// submitBridgeMint submits the destination-chain mint deploy and moves the
// operation into minting. Submission failures are retried within the same
// attempt bounds as regular polling.
func (o *Orchestrator) submitBridgeMint(ctx context.Context, doc *model.OperationDocument) (*model.OperationDocument, *types.Error) {
	deployHash, err := o.chainClient.PutDeploy(ctx, o.deployDescriptor(doc.OwnerPkHex, mintSession(doc.Bridge)))
	if err != nil {
		if chain.IsRemoteError(err) {
			return doc, o.failOperation(ctx, doc, types.RemoteError, err.Error())
		}
		log.Ctx(ctx).Warn().Err(err).Str("operationId", doc.Id).Msg("mint deploy submission unavailable, will retry")
		return doc, o.registerPendingAttempt(ctx, doc)
	}

	svcErr := o.stepTransition(ctx, doc, types.Minting, utils.QualifiedStatesToMinting(), &model.OperationUpdate{
		DeployHash: &deployHash,
	}, "bridge mint submitted on destination chain")
	if svcErr == nil {
		doc.DeployHash = deployHash
	}
	return doc, svcErr
}

// stepTransition moves the operation to a non-terminal stage.
func (o *Orchestrator) stepTransition(
	ctx context.Context, doc *model.OperationDocument, newState types.OperationState,
	eligible []types.OperationState, update *model.OperationUpdate, description string,
) *types.Error {
	err := o.dbClient.TransitionOperationState(ctx, doc.Id, newState, eligible, update)
	if err != nil {
		if db.IsNotFoundError(err) {
			log.Ctx(ctx).Warn().Str("operationId", doc.Id).Msg("operation no longer in eligible state, skipping transition")
			return nil
		}
		log.Ctx(ctx).Error().Err(err).Str("operationId", doc.Id).Msg("failed to transition operation state")
		return types.NewInternalServiceError(err)
	}

	doc.State = newState
	o.recordActivity(ctx, doc, description)
	return nil
}

// completeTransition moves the operation to a success-terminal stage.
func (o *Orchestrator) completeTransition(
	ctx context.Context, doc *model.OperationDocument, newState types.OperationState,
	eligible []types.OperationState, update *model.OperationUpdate, description string,
) *types.Error {
	now := time.Now().UTC()
	if update == nil {
		update = &model.OperationUpdate{}
	}
	update.TerminalAt = &now

	if svcErr := o.stepTransition(ctx, doc, newState, eligible, update, description); svcErr != nil {
		return svcErr
	}
	metrics.RecordTerminalOperation(doc.Kind.ToString(), newState.ToString())
	return nil
}

// failOperation forces the operation into the failed terminal state with the
// given reason. The eligible-state guard makes it a no-op on rows that have
// already reached a terminal state.
func (o *Orchestrator) failOperation(
	ctx context.Context, doc *model.OperationDocument, code types.ErrorCode, message string,
) *types.Error {
	now := time.Now().UTC()
	codeStr := code.String()
	err := o.dbClient.TransitionOperationState(
		ctx, doc.Id, types.Failed, utils.QualifiedStatesToFailed(),
		&model.OperationUpdate{
			ErrorCode:    &codeStr,
			ErrorMessage: &message,
			TerminalAt:   &now,
		},
	)
	if err != nil {
		if db.IsNotFoundError(err) {
			log.Ctx(ctx).Warn().Str("operationId", doc.Id).Msg("operation already terminal, skipping failure transition")
			return nil
		}
		log.Ctx(ctx).Error().Err(err).Str("operationId", doc.Id).Msg("failed to fail operation")
		return types.NewInternalServiceError(err)
	}

	doc.State = types.Failed
	doc.ErrorCode = codeStr
	doc.ErrorMessage = message
	metrics.RecordTerminalOperation(doc.Kind.ToString(), types.Failed.ToString())
	o.recordActivity(ctx, doc, message)
	return nil
}

// stakeResult computes the accumulated rewards of a completed withdrawal.
// When the validator cannot be resolved the configured APY floor is used.
func (o *Orchestrator) stakeResult(ctx context.Context, doc *model.OperationDocument) *types.StakeResult {
	elapsedDays := int64(time.Now().UTC().Sub(doc.CreatedAt).Hours() / 24)

	apy := o.cfg.Staking.APYMin
	validators, err := o.chainClient.GetValidators(ctx)
	if err == nil {
		for _, bid := range validators.Bids {
			if bid.PublicKeyHex == doc.Stake.ValidatorPkHex {
				apy = o.calculator.ValidatorAPY(bid.CommissionPercent)
				break
			}
		}
	} else {
		log.Ctx(ctx).Warn().Err(err).Str("operationId", doc.Id).Msg("validators unavailable for reward calculation, using apy floor")
	}

	amountCSPR := economics.MotesToCSPR(doc.Stake.AmountMotes)
	rewardsCSPR := o.calculator.StakingYield(amountCSPR, apy, elapsedDays)

	elapsed := uint64(0)
	if elapsedDays > 0 {
		elapsed = uint64(elapsedDays)
	}
	return &types.StakeResult{
		RewardsMotes: economics.CSPRToMotes(rewardsCSPR),
		ElapsedDays:  elapsed,
	}
}

func (o *Orchestrator) bridgeResult(doc *model.OperationDocument) *types.BridgeResult {
	amountCSPR := economics.MotesToCSPR(doc.Bridge.AmountMotes)
	feeCSPR, netCSPR := o.calculator.BridgeFee(amountCSPR, doc.Bridge.SourceChain)
	return &types.BridgeResult{
		DestTxHash: doc.DeployHash,
		FeeMotes:   economics.CSPRToMotes(feeCSPR),
		NetMotes:   economics.CSPRToMotes(netCSPR),
	}
}
