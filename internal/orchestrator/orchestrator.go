package orchestrator

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/casperstation/operations-api-service/internal/clients/activity"
	"github.com/casperstation/operations-api-service/internal/clients/chain"
	"github.com/casperstation/operations-api-service/internal/config"
	"github.com/casperstation/operations-api-service/internal/db"
	"github.com/casperstation/operations-api-service/internal/db/model"
	"github.com/casperstation/operations-api-service/internal/economics"
	"github.com/casperstation/operations-api-service/internal/types"
	"github.com/casperstation/operations-api-service/internal/utils"
)

// Orchestrator drives long-running on-chain operations from creation through
// polling to a terminal state. It is the only mutator of operation state:
// each active operation owns exactly one background runner, so no two polls
// for the same operation are ever in flight concurrently.
type Orchestrator struct {
	cfg            *config.Config
	dbClient       db.DBClient
	chainClient    chain.ChainClientInterface
	activityClient activity.ActivityClientInterface
	calculator     *economics.Calculator

	quitCtx context.Context
	quit    context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	runners map[string]context.CancelFunc
}

func New(
	ctx context.Context, cfg *config.Config, dbClient db.DBClient,
	chainClient chain.ChainClientInterface, activityClient activity.ActivityClientInterface,
	calculator *economics.Calculator,
) *Orchestrator {
	quitCtx, quit := context.WithCancel(ctx)
	return &Orchestrator{
		cfg:            cfg,
		dbClient:       dbClient,
		chainClient:    chainClient,
		activityClient: activityClient,
		calculator:     calculator,
		quitCtx:        quitCtx,
		quit:           quit,
		runners:        make(map[string]context.CancelFunc),
	}
}

// Start validates and prices the requested operation, submits its initial
// deploy, persists the first ledger entry and schedules background polling.
// A rejected request never creates a ledger entry.
func (o *Orchestrator) Start(
	ctx context.Context, ownerPkHex string, payload types.OperationPayload,
) (*model.OperationDocument, *types.Error) {
	if !utils.IsValidPublicKey(ownerPkHex) {
		return nil, types.NewErrorWithMsg(http.StatusBadRequest, types.ValidationError, "invalid owner public key")
	}

	var initialState types.OperationState
	var session map[string]interface{}

	switch p := payload.(type) {
	case types.DeployPayload:
		if err := o.validateDeploy(ctx, ownerPkHex, &p); err != nil {
			return nil, err
		}
		initialState = types.Pending
		session = deploySession(&p)
		payload = p
	case types.StakePayload:
		if err := o.validateStake(ctx, ownerPkHex, &p); err != nil {
			return nil, err
		}
		p.EndDate = time.Now().UTC().Add(time.Duration(p.LockDays) * 24 * time.Hour)
		initialState = types.Pending
		session = delegateSession(&p)
		payload = p
	case types.BridgePayload:
		if err := o.validateBridge(ctx, ownerPkHex, &p); err != nil {
			return nil, err
		}
		initialState = types.Initiated
		session = lockSession(&p)
		payload = p
	default:
		return nil, types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest, "unknown operation payload")
	}

	deployHash, err := o.chainClient.PutDeploy(ctx, o.deployDescriptor(ownerPkHex, session))
	if err != nil {
		return nil, chainErrorToServiceError(err)
	}

	doc := newOperationDocument(ownerPkHex, payload, initialState, deployHash)
	if err := o.dbClient.SaveOperation(ctx, doc); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("operationId", doc.Id).Msg("failed to save accepted operation")
		return nil, types.NewInternalServiceError(err)
	}

	o.recordActivity(ctx, doc, "operation accepted")
	o.scheduleRunner(doc.Id, doc.Kind)
	return doc, nil
}

// GetOperation returns a read-only snapshot of the operation. It never mutates.
func (o *Orchestrator) GetOperation(ctx context.Context, id string) (*model.OperationDocument, *types.Error) {
	doc, err := o.dbClient.FindOperationByID(ctx, id)
	if err != nil {
		if db.IsNotFoundError(err) {
			return nil, types.NewErrorWithMsg(http.StatusNotFound, types.NotFound, "operation not found")
		}
		log.Ctx(ctx).Error().Err(err).Str("operationId", id).Msg("error while fetching operation")
		return nil, types.NewInternalServiceError(err)
	}
	return doc, nil
}

// Withdraw requests the unstaking of an active stake operation. It fails fast
// with LOCK_NOT_ELAPSED before any state is mutated when the lock period has
// not passed yet.
func (o *Orchestrator) Withdraw(ctx context.Context, id string) *types.Error {
	doc, svcErr := o.GetOperation(ctx, id)
	if svcErr != nil {
		return svcErr
	}

	if doc.Kind != types.KindStake || doc.Stake == nil {
		return types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest, "operation is not a stake")
	}
	if doc.State != types.Active {
		return types.NewErrorWithMsg(http.StatusForbidden, types.Forbidden, "stake is not active, hence not eligible for withdrawal")
	}
	if time.Now().UTC().Before(doc.Stake.EndDate) {
		return types.NewErrorWithMsg(http.StatusForbidden, types.LockNotElapsed, "stake lock period has not elapsed")
	}

	deployHash, err := o.chainClient.PutDeploy(ctx, o.deployDescriptor(doc.OwnerPkHex, undelegateSession(doc.Stake)))
	if err != nil {
		return chainErrorToServiceError(err)
	}

	transitionErr := o.dbClient.TransitionOperationState(
		ctx, id, types.Unstaking, utils.QualifiedStatesToUnstaking(),
		&model.OperationUpdate{DeployHash: &deployHash},
	)
	if transitionErr != nil {
		if db.IsNotFoundError(transitionErr) {
			return types.NewErrorWithMsg(http.StatusForbidden, types.Forbidden, "stake no longer eligible for withdrawal")
		}
		log.Ctx(ctx).Error().Err(transitionErr).Str("operationId", id).Msg("failed to transition stake to unstaking")
		return types.NewInternalServiceError(transitionErr)
	}

	doc.State = types.Unstaking
	o.recordActivity(ctx, doc, "withdrawal requested")
	o.scheduleRunner(id, doc.Kind)
	return nil
}

// Cancel forces any non-terminal operation into a failed terminal state and
// stops its background polling. Terminal operations cannot be cancelled.
func (o *Orchestrator) Cancel(ctx context.Context, id string) *types.Error {
	doc, svcErr := o.GetOperation(ctx, id)
	if svcErr != nil {
		return svcErr
	}
	if doc.State.IsTerminal() {
		return types.NewErrorWithMsg(http.StatusForbidden, types.Forbidden, "operation is already terminal")
	}

	if err := o.failOperation(ctx, doc, types.OperationCancelled, "operation cancelled by owner"); err != nil {
		return err
	}
	o.stopRunner(id)
	return nil
}

// ResumeInFlight reschedules polling for every non-terminal operation found
// in the ledger. Called once on startup.
func (o *Orchestrator) ResumeInFlight(ctx context.Context) error {
	docs, err := o.dbClient.FindOperationsInStates(ctx, pollableStates())
	if err != nil {
		return err
	}
	for _, doc := range docs {
		o.scheduleRunner(doc.Id, doc.Kind)
	}
	if len(docs) > 0 {
		log.Ctx(ctx).Info().Int("count", len(docs)).Msg("resumed polling of in-flight operations")
	}
	return nil
}

// Stop cancels all background runners and waits for them to drain.
func (o *Orchestrator) Stop() {
	o.quit()
	o.wg.Wait()
}

func newOperationDocument(
	ownerPkHex string, payload types.OperationPayload, state types.OperationState, deployHash string,
) *model.OperationDocument {
	doc := &model.OperationDocument{
		Id:         uuid.NewString(),
		Kind:       payload.Kind(),
		OwnerPkHex: ownerPkHex,
		State:      state,
		Attempts:   0,
		DeployHash: deployHash,
		CreatedAt:  time.Now().UTC(),
	}
	switch p := payload.(type) {
	case types.DeployPayload:
		doc.Deploy = &p
	case types.StakePayload:
		doc.Stake = &p
	case types.BridgePayload:
		doc.Bridge = &p
	}
	return doc
}

func (o *Orchestrator) recordActivity(ctx context.Context, doc *model.OperationDocument, description string) {
	o.activityClient.Record(ctx, doc.Kind.ToString(), description, doc.State.ToString(), map[string]interface{}{
		"operation_id": doc.Id,
		"owner_pk":     doc.OwnerPkHex,
	})
}

func chainErrorToServiceError(err error) *types.Error {
	if chain.IsRemoteError(err) {
		return types.NewError(http.StatusBadGateway, types.RemoteError, err)
	}
	if chain.IsAllEndpointsUnavailableError(err) {
		return types.NewError(http.StatusServiceUnavailable, types.AllEndpointsUnavailable, err)
	}
	return types.NewInternalServiceError(err)
}
