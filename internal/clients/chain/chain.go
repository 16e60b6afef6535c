package chain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog/log"

	"github.com/casperstation/operations-api-service/internal/config"
	"github.com/casperstation/operations-api-service/internal/observability/metrics"
	"github.com/casperstation/operations-api-service/internal/types"
)

// ChainClient is the single point of contact with the remote network. It
// issues typed JSON-RPC calls and fails over across the configured endpoints
// in order. Connectivity and parse failures move on to the next endpoint;
// a remote-reported error is returned immediately.
type ChainClient struct {
	cfg        *config.ChainConfig
	httpClient *http.Client
	requestId  atomic.Uint64
}

func NewChainClient(cfg *config.ChainConfig) *ChainClient {
	httpClient := &http.Client{
		Timeout: cfg.RequestTimeout,
	}
	return &ChainClient{
		cfg:        cfg,
		httpClient: httpClient,
	}
}

func (c *ChainClient) Call(ctx context.Context, method string, params interface{}, result interface{}) error {
	var lastErr error
	for _, endpoint := range c.cfg.Endpoints {
		err := c.callEndpoint(ctx, endpoint, method, params, result)
		if err == nil {
			return nil
		}
		// The remote answered with an application-level rejection. Other
		// endpoints would answer the same, so do not fail over.
		if IsRemoteError(err) {
			return err
		}
		log.Ctx(ctx).Warn().Err(err).
			Str("endpoint", endpoint).
			Str("method", method).
			Msg("rpc endpoint unavailable, failing over")
		lastErr = err
	}
	return &AllEndpointsUnavailableError{
		Attempted: len(c.cfg.Endpoints),
		LastErr:   lastErr,
	}
}

// callEndpoint retries transient failures against a single endpoint with
// capped exponential backoff before the caller moves on to the next one.
func (c *ChainClient) callEndpoint(
	ctx context.Context, endpoint, method string, params interface{}, result interface{},
) error {
	return retry.Do(
		func() error {
			return c.doRequest(ctx, endpoint, method, params, result)
		},
		retry.Context(ctx),
		retry.Attempts(c.cfg.RetryAttempts),
		retry.Delay(c.cfg.RetryMinDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return !IsRemoteError(err)
		}),
	)
}

func (c *ChainClient) doRequest(
	ctx context.Context, endpoint, method string, params interface{}, result interface{},
) error {
	request := rpcRequest{
		JsonRpc: "2.0",
		Id:      c.requestId.Add(1),
		Method:  method,
		Params:  params,
	}
	body, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("failed to marshal rpc request: %w", err)
	}

	startTime := time.Now()
	outcome := metrics.Error

	defer func() {
		metrics.ObserveChainRpcLatency(method, outcome, time.Since(startTime))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create rpc request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send rpc request to %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected rpc status %d from %s", resp.StatusCode, endpoint)
	}

	var envelope rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("failed to decode rpc response from %s: %w", endpoint, err)
	}

	if envelope.Error != nil {
		outcome = metrics.Success // the transport worked, the call was rejected
		return &RemoteError{
			Code:    envelope.Error.Code,
			Message: envelope.Error.Message,
		}
	}

	if result != nil {
		if err := json.Unmarshal(envelope.Result, result); err != nil {
			return fmt.Errorf("malformed rpc result from %s: %w", endpoint, err)
		}
	}

	outcome = metrics.Success
	return nil
}

// GetBalance resolves the main purse balance of the given account public key
// through state root hash, account info and purse balance lookups. If any
// step is unavailable the returned balance is zero with Degraded set, so the
// caller can tell a confirmed zero from an unknown balance.
func (c *ChainClient) GetBalance(ctx context.Context, publicKeyHex string) (*types.BalanceResult, error) {
	accountHash, err := AccountHashFromPublicKey(publicKeyHex)
	if err != nil {
		return nil, fmt.Errorf("invalid account public key: %w", err)
	}

	degraded := &types.BalanceResult{Motes: 0, Degraded: true}

	var rootHash stateRootHashResult
	if err := c.Call(ctx, methodGetStateRootHash, nil, &rootHash); err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("state root hash unavailable, returning degraded zero balance")
		return degraded, nil
	}

	var account accountInfoResult
	accountParams := accountInfoParams{AccountIdentifier: accountHash}
	if err := c.Call(ctx, methodGetAccountInfo, accountParams, &account); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("accountHash", accountHash).Msg("account info unavailable, returning degraded zero balance")
		return degraded, nil
	}

	var balance balanceResult
	purseParams := balanceParams{
		StateRootHash: rootHash.StateRootHash,
		PurseUref:     account.Account.MainPurse,
	}
	if err := c.Call(ctx, methodGetBalance, purseParams, &balance); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("accountHash", accountHash).Msg("purse balance unavailable, returning degraded zero balance")
		return degraded, nil
	}

	motes, err := strconv.ParseUint(balance.BalanceValue, 10, 64)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("balanceValue", balance.BalanceValue).Msg("unparsable balance value, returning degraded zero balance")
		return degraded, nil
	}

	return &types.BalanceResult{Motes: motes, Degraded: false}, nil
}

// GetValidators queries the network auction state. When the network is
// unreachable or reports no bids, the fixed sandbox list is substituted and
// marked degraded so it is never presented as live network truth.
func (c *ChainClient) GetValidators(ctx context.Context) (*types.ValidatorsResult, error) {
	var auction auctionInfoResult
	if err := c.Call(ctx, methodGetAuctionInfo, nil, &auction); err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("auction state unavailable, returning sandbox validator set")
		return &types.ValidatorsResult{Bids: SandboxValidators(), Degraded: true}, nil
	}

	var bids []types.ValidatorBid
	for _, entry := range auction.AuctionState.Bids {
		stake, err := strconv.ParseUint(entry.Bid.StakedAmount, 10, 64)
		if err != nil {
			log.Ctx(ctx).Warn().Str("publicKey", entry.PublicKey).Str("stakedAmount", entry.Bid.StakedAmount).Msg("skipping bid with unparsable staked amount")
			continue
		}
		bids = append(bids, types.ValidatorBid{
			PublicKeyHex:      entry.PublicKey,
			TotalStakeMotes:   stake,
			CommissionPercent: entry.Bid.DelegationRate,
			IsActive:          !entry.Bid.Inactive,
		})
	}

	if len(bids) == 0 {
		log.Ctx(ctx).Warn().Msg("auction state returned no bids, returning sandbox validator set")
		return &types.ValidatorsResult{Bids: SandboxValidators(), Degraded: true}, nil
	}

	return &types.ValidatorsResult{Bids: bids, Degraded: false}, nil
}

// GetDeployStatus normalizes the remote execution result of a deploy into
// pending, succeeded or failed.
func (c *ChainClient) GetDeployStatus(ctx context.Context, deployHash string) (*types.DeployStatus, error) {
	var deploy getDeployResult
	if err := c.Call(ctx, methodGetDeploy, getDeployParams{DeployHash: deployHash}, &deploy); err != nil {
		return nil, err
	}

	if len(deploy.ExecutionResults) == 0 {
		return &types.DeployStatus{Outcome: types.DeployPending}, nil
	}

	execution := deploy.ExecutionResults[0]
	if execution.Result.Failure != nil {
		return &types.DeployStatus{
			Outcome: types.DeployFailed,
			Reason:  execution.Result.Failure.ErrorMessage,
		}, nil
	}

	var cost uint64
	if execution.Result.Success != nil {
		parsed, err := strconv.ParseUint(execution.Result.Success.Cost, 10, 64)
		if err == nil {
			cost = parsed
		}
	}
	return &types.DeployStatus{
		Outcome:   types.DeploySucceeded,
		CostMotes: cost,
		BlockHash: execution.BlockHash,
	}, nil
}

// PutDeploy submits a prepared deploy to the network and returns its hash.
func (c *ChainClient) PutDeploy(ctx context.Context, deploy interface{}) (string, error) {
	var result putDeployResult
	if err := c.Call(ctx, methodPutDeploy, putDeployParams{Deploy: deploy}, &result); err != nil {
		return "", err
	}
	if result.DeployHash == "" {
		return "", fmt.Errorf("remote node accepted deploy but returned no deploy hash")
	}
	return result.DeployHash, nil
}
