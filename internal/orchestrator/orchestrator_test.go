package orchestrator_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casperstation/operations-api-service/internal/clients/chain"
	"github.com/casperstation/operations-api-service/internal/config"
	"github.com/casperstation/operations-api-service/internal/db"
	"github.com/casperstation/operations-api-service/internal/db/model"
	"github.com/casperstation/operations-api-service/internal/economics"
	"github.com/casperstation/operations-api-service/internal/orchestrator"
	"github.com/casperstation/operations-api-service/internal/types"
)

const (
	testOwnerPk     = "01" + "aa11aa11aa11aa11aa11aa11aa11aa11aa11aa11aa11aa11aa11aa11aa11aa11"
	testValidatorPk = "01" + "bb22bb22bb22bb22bb22bb22bb22bb22bb22bb22bb22bb22bb22bb22bb22bb22"
)

func testConfig() *config.Config {
	return &config.Config{
		Chain: config.ChainConfig{
			Name:           "casper-test",
			Endpoints:      []string{"http://localhost:7777/rpc"},
			RequestTimeout: time.Second,
			RetryAttempts:  1,
			RetryMinDelay:  time.Millisecond,
		},
		Orchestrator: config.OrchestratorConfig{
			PollInterval:    time.Hour,
			MaxPollJitter:   0,
			MaxAttempts:     3,
			MaxPollDuration: 24 * time.Hour,
		},
		Staking: config.StakingConfig{
			MinStakeCSPR:  500,
			MinLockDays:   1,
			MaxLockDays:   365,
			InflationRate: 0.02,
			ScalingFactor: 500,
			APYMin:        5,
			APYMax:        15,
		},
		Bridge: config.BridgeConfig{
			MinAmountCSPR:     50,
			FeePercent:        map[string]float64{"casper": 0.5},
			DefaultFeePercent: 1,
			SupportedChains:   []string{"casper", "ethereum"},
		},
		Deploy: config.DeployConfig{
			BaseCostMotes:    2_500_000_000,
			PerByteCostMotes: 1_000,
			MaxCodeSizeBytes: 1_048_576,
		},
	}
}

// deployPayload builds a deploy request whose declared size matches its
// session bytes.
func deployPayload(codeSizeBytes int) types.DeployPayload {
	return types.DeployPayload{
		Name:            "counter",
		CodeSizeBytes:   uint64(codeSizeBytes),
		SessionBytesHex: strings.Repeat("ff", codeSizeBytes),
	}
}

// fakeLedger is an in-memory DBClient with the same transition guard
// semantics as the real one.
type fakeLedger struct {
	mu   sync.Mutex
	docs map[string]*model.OperationDocument
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{docs: make(map[string]*model.OperationDocument)}
}

func (f *fakeLedger) Ping(ctx context.Context) error { return nil }

func (f *fakeLedger) SaveOperation(ctx context.Context, doc *model.OperationDocument) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.docs[doc.Id]; exists {
		return &db.DuplicateKeyError{Key: doc.Id, Message: "operation already exists"}
	}
	copied := *doc
	f.docs[doc.Id] = &copied
	return nil
}

func (f *fakeLedger) FindOperationByID(ctx context.Context, id string) (*model.OperationDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, exists := f.docs[id]
	if !exists {
		return nil, &db.NotFoundError{Key: id, Message: "operation not found"}
	}
	copied := *doc
	return &copied, nil
}

func (f *fakeLedger) FindOperationsByOwner(
	ctx context.Context, ownerPkHex string, paginationToken string, filter *db.OperationFilter,
) (*db.DbResultMap[model.OperationDocument], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []model.OperationDocument
	for _, doc := range f.docs {
		if doc.OwnerPkHex != ownerPkHex {
			continue
		}
		if filter != nil {
			if filter.Kind != nil && doc.Kind != *filter.Kind {
				continue
			}
			if filter.State != nil && doc.State != *filter.State {
				continue
			}
		}
		result = append(result, *doc)
	}
	return &db.DbResultMap[model.OperationDocument]{Data: result}, nil
}

func (f *fakeLedger) FindOperationsInStates(
	ctx context.Context, states []types.OperationState,
) ([]model.OperationDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []model.OperationDocument
	for _, doc := range f.docs {
		for _, state := range states {
			if doc.State == state {
				result = append(result, *doc)
				break
			}
		}
	}
	return result, nil
}

func (f *fakeLedger) TransitionOperationState(
	ctx context.Context, id string, newState types.OperationState,
	eligiblePreviousStates []types.OperationState, update *model.OperationUpdate,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, exists := f.docs[id]
	if !exists {
		return &db.NotFoundError{Key: id, Message: "operation not found"}
	}
	eligible := false
	for _, state := range eligiblePreviousStates {
		if doc.State == state {
			eligible = true
			break
		}
	}
	if !eligible {
		return &db.NotFoundError{Key: id, Message: "operation not in eligible state"}
	}
	doc.State = newState
	if update != nil {
		if update.DeployHash != nil {
			doc.DeployHash = *update.DeployHash
		}
		if update.DeployResult != nil {
			doc.DeployResult = update.DeployResult
		}
		if update.StakeResult != nil {
			doc.StakeResult = update.StakeResult
		}
		if update.BridgeResult != nil {
			doc.BridgeResult = update.BridgeResult
		}
		if update.ErrorCode != nil {
			doc.ErrorCode = *update.ErrorCode
		}
		if update.ErrorMessage != nil {
			doc.ErrorMessage = *update.ErrorMessage
		}
		if update.TerminalAt != nil {
			doc.TerminalAt = update.TerminalAt
		}
	}
	return nil
}

func (f *fakeLedger) IncrementOperationAttempts(
	ctx context.Context, id string, lastPolledAt time.Time,
) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, exists := f.docs[id]
	if !exists {
		return 0, &db.NotFoundError{Key: id, Message: "operation not found"}
	}
	doc.Attempts++
	doc.LastPolledAt = &lastPolledAt
	return doc.Attempts, nil
}

func (f *fakeLedger) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.docs)
}

func (f *fakeLedger) mutate(id string, fn func(*model.OperationDocument)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f.docs[id])
}

// scriptedChain is a ChainClientInterface whose answers are set per test.
type scriptedChain struct {
	mu                sync.Mutex
	balance           types.BalanceResult
	deployStatus      types.DeployStatus
	deployStatusErr   error
	putDeployErr      error
	putDeployCalls    int
	deployStatusCalls int
	nextDeployHash    int
}

func newScriptedChain() *scriptedChain {
	return &scriptedChain{
		balance:      types.BalanceResult{Motes: 1_000_000 * types.MotesPerCSPR},
		deployStatus: types.DeployStatus{Outcome: types.DeployPending},
	}
}

func (c *scriptedChain) Call(ctx context.Context, method string, params, result interface{}) error {
	return nil
}

func (c *scriptedChain) GetBalance(ctx context.Context, publicKeyHex string) (*types.BalanceResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	balance := c.balance
	return &balance, nil
}

func (c *scriptedChain) GetValidators(ctx context.Context) (*types.ValidatorsResult, error) {
	return &types.ValidatorsResult{
		Bids: []types.ValidatorBid{
			{PublicKeyHex: testValidatorPk, TotalStakeMotes: 90_000 * types.MotesPerCSPR, CommissionPercent: 10, IsActive: true},
		},
	}, nil
}

func (c *scriptedChain) GetDeployStatus(ctx context.Context, deployHash string) (*types.DeployStatus, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deployStatusCalls++
	if c.deployStatusErr != nil {
		return nil, c.deployStatusErr
	}
	status := c.deployStatus
	return &status, nil
}

func (c *scriptedChain) PutDeploy(ctx context.Context, deploy interface{}) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.putDeployCalls++
	if c.putDeployErr != nil {
		return "", c.putDeployErr
	}
	c.nextDeployHash++
	hash := strings.Repeat("0", 63) + string(rune('0'+c.nextDeployHash))
	return hash, nil
}

func (c *scriptedChain) setDeployStatus(status types.DeployStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deployStatus = status
	c.deployStatusErr = nil
}

func (c *scriptedChain) setDeployStatusErr(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deployStatusErr = err
}

func (c *scriptedChain) statusCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deployStatusCalls
}

func newTestOrchestrator(t *testing.T, cfg *config.Config, ledger *fakeLedger, chainClient chain.ChainClientInterface) *orchestrator.Orchestrator {
	t.Helper()
	calculator := economics.NewCalculator(&cfg.Staking, &cfg.Bridge, &cfg.Deploy)
	engine := orchestrator.New(
		context.Background(), cfg, ledger, chainClient,
		activityRecorder{}, calculator,
	)
	t.Cleanup(engine.Stop)
	return engine
}

type activityRecorder struct{}

func (activityRecorder) Record(ctx context.Context, kind, description, status string, metadata map[string]interface{}) {
}
func (activityRecorder) Close() error { return nil }

func TestStartDeployThenConfirm(t *testing.T) {
	ledger := newFakeLedger()
	chainClient := newScriptedChain()
	engine := newTestOrchestrator(t, testConfig(), ledger, chainClient)
	ctx := context.Background()

	doc, svcErr := engine.Start(ctx, testOwnerPk, deployPayload(50_000))
	require.Nil(t, svcErr)
	require.Equal(t, types.Pending, doc.State)
	require.Equal(t, types.KindDeploy, doc.Kind)
	require.NotEmpty(t, doc.DeployHash)

	chainClient.setDeployStatus(types.DeployStatus{
		Outcome:   types.DeploySucceeded,
		CostMotes: 2_550_000_000,
		BlockHash: "block-1",
	})
	polled, svcErr := engine.Poll(ctx, doc.Id)
	require.Nil(t, svcErr)
	assert.Equal(t, types.Confirmed, polled.State)

	stored, svcErr := engine.GetOperation(ctx, doc.Id)
	require.Nil(t, svcErr)
	assert.Equal(t, types.Confirmed, stored.State)
	require.NotNil(t, stored.DeployResult)
	assert.Equal(t, uint64(2_550_000_000), stored.DeployResult.CostMotes)
	assert.Equal(t, "block-1", stored.DeployResult.BlockHash)
	assert.NotNil(t, stored.TerminalAt)
}

func TestStartRejectedCreatesNoLedgerEntry(t *testing.T) {
	ledger := newFakeLedger()
	chainClient := newScriptedChain()
	chainClient.balance = types.BalanceResult{Motes: 1} // far below any deploy cost
	engine := newTestOrchestrator(t, testConfig(), ledger, chainClient)

	_, svcErr := engine.Start(context.Background(), testOwnerPk, deployPayload(50_000))
	require.NotNil(t, svcErr)
	assert.Equal(t, types.InsufficientBalance, svcErr.ErrorCode)
	assert.Equal(t, 0, ledger.count())
	assert.Equal(t, 0, chainClient.putDeployCalls)
}

func TestStartDegradedBalanceRejected(t *testing.T) {
	ledger := newFakeLedger()
	chainClient := newScriptedChain()
	chainClient.balance = types.BalanceResult{Motes: 0, Degraded: true}
	engine := newTestOrchestrator(t, testConfig(), ledger, chainClient)

	_, svcErr := engine.Start(context.Background(), testOwnerPk, deployPayload(50_000))
	require.NotNil(t, svcErr)
	assert.Equal(t, types.PreconditionFailed, svcErr.ErrorCode)
	assert.Equal(t, 503, svcErr.StatusCode)
	assert.Equal(t, 0, ledger.count())
}

func TestStartInvalidOwnerKey(t *testing.T) {
	engine := newTestOrchestrator(t, testConfig(), newFakeLedger(), newScriptedChain())

	_, svcErr := engine.Start(context.Background(), "not-a-key", deployPayload(1))
	require.NotNil(t, svcErr)
	assert.Equal(t, types.ValidationError, svcErr.ErrorCode)
}

func TestStartDeployDeclaredSizeMismatch(t *testing.T) {
	ledger := newFakeLedger()
	chainClient := newScriptedChain()
	engine := newTestOrchestrator(t, testConfig(), ledger, chainClient)
	ctx := context.Background()

	// Over-declared: pricing 50000 bytes against a 1 byte session.
	_, svcErr := engine.Start(ctx, testOwnerPk, types.DeployPayload{
		Name: "counter", CodeSizeBytes: 50_000, SessionBytesHex: "ff",
	})
	require.NotNil(t, svcErr)
	assert.Equal(t, types.ValidationError, svcErr.ErrorCode)

	// Under-declared: a large session priced as a single byte.
	_, svcErr = engine.Start(ctx, testOwnerPk, types.DeployPayload{
		Name: "counter", CodeSizeBytes: 1, SessionBytesHex: strings.Repeat("ab", 4096),
	})
	require.NotNil(t, svcErr)
	assert.Equal(t, types.ValidationError, svcErr.ErrorCode)

	assert.Equal(t, 0, ledger.count())
	assert.Equal(t, 0, chainClient.putDeployCalls)
}

func TestPollingTimeoutAfterExactAttemptBound(t *testing.T) {
	cfg := testConfig()
	cfg.Orchestrator.MaxAttempts = 3
	ledger := newFakeLedger()
	chainClient := newScriptedChain() // always pending
	engine := newTestOrchestrator(t, cfg, ledger, chainClient)
	ctx := context.Background()

	doc, svcErr := engine.Start(ctx, testOwnerPk, deployPayload(100))
	require.Nil(t, svcErr)

	for i := 0; i < 2; i++ {
		polled, svcErr := engine.Poll(ctx, doc.Id)
		require.Nil(t, svcErr)
		assert.Equal(t, types.Pending, polled.State)
	}

	polled, svcErr := engine.Poll(ctx, doc.Id)
	require.Nil(t, svcErr)
	assert.Equal(t, types.Failed, polled.State)

	stored, svcErr := engine.GetOperation(ctx, doc.Id)
	require.Nil(t, svcErr)
	assert.Equal(t, types.Failed, stored.State)
	assert.Equal(t, uint64(3), stored.Attempts)
	assert.Equal(t, types.PollingTimeout.String(), stored.ErrorCode)
}

func TestConnectivityFailuresCountAsAttempts(t *testing.T) {
	cfg := testConfig()
	cfg.Orchestrator.MaxAttempts = 2
	ledger := newFakeLedger()
	chainClient := newScriptedChain()
	engine := newTestOrchestrator(t, cfg, ledger, chainClient)
	ctx := context.Background()

	doc, svcErr := engine.Start(ctx, testOwnerPk, deployPayload(100))
	require.Nil(t, svcErr)

	chainClient.setDeployStatusErr(&chain.AllEndpointsUnavailableError{Attempted: 1})
	_, svcErr = engine.Poll(ctx, doc.Id)
	require.Nil(t, svcErr)
	_, svcErr = engine.Poll(ctx, doc.Id)
	require.Nil(t, svcErr)

	stored, svcErr := engine.GetOperation(ctx, doc.Id)
	require.Nil(t, svcErr)
	assert.Equal(t, types.Failed, stored.State)
	assert.Equal(t, types.PollingTimeout.String(), stored.ErrorCode)
}

func TestRemoteRejectionIsTerminalImmediately(t *testing.T) {
	ledger := newFakeLedger()
	chainClient := newScriptedChain()
	engine := newTestOrchestrator(t, testConfig(), ledger, chainClient)
	ctx := context.Background()

	doc, svcErr := engine.Start(ctx, testOwnerPk, deployPayload(100))
	require.Nil(t, svcErr)

	chainClient.setDeployStatus(types.DeployStatus{
		Outcome: types.DeployFailed,
		Reason:  "out of gas",
	})
	_, svcErr = engine.Poll(ctx, doc.Id)
	require.Nil(t, svcErr)

	stored, svcErr := engine.GetOperation(ctx, doc.Id)
	require.Nil(t, svcErr)
	assert.Equal(t, types.Failed, stored.State)
	assert.Equal(t, types.RemoteError.String(), stored.ErrorCode)
	assert.Equal(t, "out of gas", stored.ErrorMessage)
	// Timeout and remote rejection carry distinct error codes.
	assert.NotEqual(t, types.PollingTimeout.String(), stored.ErrorCode)
}

func TestPollTerminalOperationIsNoOp(t *testing.T) {
	ledger := newFakeLedger()
	chainClient := newScriptedChain()
	engine := newTestOrchestrator(t, testConfig(), ledger, chainClient)
	ctx := context.Background()

	doc, svcErr := engine.Start(ctx, testOwnerPk, deployPayload(100))
	require.Nil(t, svcErr)

	chainClient.setDeployStatus(types.DeployStatus{Outcome: types.DeploySucceeded, BlockHash: "b", CostMotes: 1})
	_, svcErr = engine.Poll(ctx, doc.Id)
	require.Nil(t, svcErr)

	callsBefore := chainClient.statusCalls()
	polled, svcErr := engine.Poll(ctx, doc.Id)
	require.Nil(t, svcErr)
	assert.Equal(t, types.Confirmed, polled.State)
	assert.Equal(t, callsBefore, chainClient.statusCalls())
}

func TestStakeLifecycleWithWithdrawal(t *testing.T) {
	ledger := newFakeLedger()
	chainClient := newScriptedChain()
	engine := newTestOrchestrator(t, testConfig(), ledger, chainClient)
	ctx := context.Background()

	doc, svcErr := engine.Start(ctx, testOwnerPk, types.StakePayload{
		ValidatorPkHex: testValidatorPk,
		AmountMotes:    1_000 * types.MotesPerCSPR,
		LockDays:       30,
	})
	require.Nil(t, svcErr)
	require.Equal(t, types.Pending, doc.State)

	chainClient.setDeployStatus(types.DeployStatus{Outcome: types.DeploySucceeded})
	polled, svcErr := engine.Poll(ctx, doc.Id)
	require.Nil(t, svcErr)
	require.Equal(t, types.Active, polled.State)

	// The lock has not elapsed, withdrawal must be refused without mutation.
	svcErr = engine.Withdraw(ctx, doc.Id)
	require.NotNil(t, svcErr)
	assert.Equal(t, types.LockNotElapsed, svcErr.ErrorCode)
	stored, _ := engine.GetOperation(ctx, doc.Id)
	assert.Equal(t, types.Active, stored.State)

	ledger.mutate(doc.Id, func(d *model.OperationDocument) {
		d.Stake.EndDate = time.Now().UTC().Add(-time.Hour)
		d.CreatedAt = time.Now().UTC().Add(-31 * 24 * time.Hour)
	})

	svcErr = engine.Withdraw(ctx, doc.Id)
	require.Nil(t, svcErr)
	stored, _ = engine.GetOperation(ctx, doc.Id)
	require.Equal(t, types.Unstaking, stored.State)

	polled, svcErr = engine.Poll(ctx, doc.Id)
	require.Nil(t, svcErr)
	assert.Equal(t, types.Completed, polled.State)

	stored, _ = engine.GetOperation(ctx, doc.Id)
	require.NotNil(t, stored.StakeResult)
	assert.Equal(t, uint64(31), stored.StakeResult.ElapsedDays)
	// 1000 CSPR at 9% APY (10% commission) over 31 days.
	assert.InDelta(t, 7.64*float64(types.MotesPerCSPR), float64(stored.StakeResult.RewardsMotes), 0.01*float64(types.MotesPerCSPR))
}

func TestWithdrawNonStakeRejected(t *testing.T) {
	ledger := newFakeLedger()
	chainClient := newScriptedChain()
	engine := newTestOrchestrator(t, testConfig(), ledger, chainClient)
	ctx := context.Background()

	doc, svcErr := engine.Start(ctx, testOwnerPk, deployPayload(100))
	require.Nil(t, svcErr)

	svcErr = engine.Withdraw(ctx, doc.Id)
	require.NotNil(t, svcErr)
	assert.Equal(t, types.BadRequest, svcErr.ErrorCode)
}

func TestBridgeLifecycle(t *testing.T) {
	ledger := newFakeLedger()
	chainClient := newScriptedChain()
	engine := newTestOrchestrator(t, testConfig(), ledger, chainClient)
	ctx := context.Background()

	doc, svcErr := engine.Start(ctx, testOwnerPk, types.BridgePayload{
		SourceChain: "casper",
		DestChain:   "ethereum",
		AmountMotes: 100 * types.MotesPerCSPR,
	})
	require.Nil(t, svcErr)
	require.Equal(t, types.Initiated, doc.State)
	lockHash := doc.DeployHash

	chainClient.setDeployStatus(types.DeployStatus{Outcome: types.DeploySucceeded})
	polled, svcErr := engine.Poll(ctx, doc.Id)
	require.Nil(t, svcErr)
	require.Equal(t, types.Locked, polled.State)

	// The next cycle submits the mint deploy and tracks its new hash.
	polled, svcErr = engine.Poll(ctx, doc.Id)
	require.Nil(t, svcErr)
	require.Equal(t, types.Minting, polled.State)
	require.NotEqual(t, lockHash, polled.DeployHash)

	polled, svcErr = engine.Poll(ctx, doc.Id)
	require.Nil(t, svcErr)
	assert.Equal(t, types.Completed, polled.State)

	stored, _ := engine.GetOperation(ctx, doc.Id)
	require.NotNil(t, stored.BridgeResult)
	// 0.5% fee out of the casper source chain.
	assert.Equal(t, uint64(0.5*float64(types.MotesPerCSPR)), stored.BridgeResult.FeeMotes)
	assert.Equal(t, uint64(99.5*float64(types.MotesPerCSPR)), stored.BridgeResult.NetMotes)
	assert.Equal(t, stored.DeployHash, stored.BridgeResult.DestTxHash)
}

func TestBridgeValidation(t *testing.T) {
	engine := newTestOrchestrator(t, testConfig(), newFakeLedger(), newScriptedChain())
	ctx := context.Background()

	_, svcErr := engine.Start(ctx, testOwnerPk, types.BridgePayload{
		SourceChain: "casper", DestChain: "casper", AmountMotes: 100 * types.MotesPerCSPR,
	})
	require.NotNil(t, svcErr)
	assert.Equal(t, types.ValidationError, svcErr.ErrorCode)

	_, svcErr = engine.Start(ctx, testOwnerPk, types.BridgePayload{
		SourceChain: "casper", DestChain: "solana", AmountMotes: 100 * types.MotesPerCSPR,
	})
	require.NotNil(t, svcErr)
	assert.Equal(t, types.ValidationError, svcErr.ErrorCode)

	_, svcErr = engine.Start(ctx, testOwnerPk, types.BridgePayload{
		SourceChain: "casper", DestChain: "ethereum", AmountMotes: types.MotesPerCSPR,
	})
	require.NotNil(t, svcErr)
	assert.Equal(t, types.ValidationError, svcErr.ErrorCode)
}

func TestCancelNonTerminal(t *testing.T) {
	ledger := newFakeLedger()
	chainClient := newScriptedChain()
	engine := newTestOrchestrator(t, testConfig(), ledger, chainClient)
	ctx := context.Background()

	doc, svcErr := engine.Start(ctx, testOwnerPk, deployPayload(100))
	require.Nil(t, svcErr)

	svcErr = engine.Cancel(ctx, doc.Id)
	require.Nil(t, svcErr)

	stored, _ := engine.GetOperation(ctx, doc.Id)
	assert.Equal(t, types.Failed, stored.State)
	assert.Equal(t, types.OperationCancelled.String(), stored.ErrorCode)

	// A second cancel hits a terminal operation.
	svcErr = engine.Cancel(ctx, doc.Id)
	require.NotNil(t, svcErr)
	assert.Equal(t, types.Forbidden, svcErr.ErrorCode)
}

func TestResumeInFlightPollsToCompletion(t *testing.T) {
	cfg := testConfig()
	cfg.Orchestrator.PollInterval = 10 * time.Millisecond
	ledger := newFakeLedger()
	chainClient := newScriptedChain()
	chainClient.setDeployStatus(types.DeployStatus{Outcome: types.DeploySucceeded, BlockHash: "b", CostMotes: 1})

	id := "11111111-1111-1111-1111-111111111111"
	require.NoError(t, ledger.SaveOperation(context.Background(), &model.OperationDocument{
		Id:         id,
		Kind:       types.KindDeploy,
		OwnerPkHex: testOwnerPk,
		State:      types.Pending,
		DeployHash: strings.Repeat("a", 64),
		CreatedAt:  time.Now().UTC(),
		Deploy:     &types.DeployPayload{Name: "counter", CodeSizeBytes: 1, SessionBytesHex: "ff"},
	}))

	engine := newTestOrchestrator(t, cfg, ledger, chainClient)
	require.NoError(t, engine.ResumeInFlight(context.Background()))

	require.Eventually(t, func() bool {
		doc, svcErr := engine.GetOperation(context.Background(), id)
		return svcErr == nil && doc.State == types.Confirmed
	}, 2*time.Second, 10*time.Millisecond)
}

func TestGetOperationNotFound(t *testing.T) {
	engine := newTestOrchestrator(t, testConfig(), newFakeLedger(), newScriptedChain())

	_, svcErr := engine.GetOperation(context.Background(), "22222222-2222-2222-2222-222222222222")
	require.NotNil(t, svcErr)
	assert.Equal(t, types.NotFound, svcErr.ErrorCode)
}
