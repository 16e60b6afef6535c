package chain

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casperstation/operations-api-service/internal/config"
	"github.com/casperstation/operations-api-service/internal/types"
)

func testChainConfig(endpoints ...string) *config.ChainConfig {
	return &config.ChainConfig{
		Name:           "casper-test",
		Endpoints:      endpoints,
		RequestTimeout: time.Second,
		RetryAttempts:  1,
		RetryMinDelay:  time.Millisecond,
	}
}

// rpcHandler answers every JSON-RPC method with the scripted result.
func rpcHandler(t *testing.T, results map[string]interface{}) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		result, ok := results[req.Method]
		if !ok {
			t.Errorf("unexpected rpc method: %s", req.Method)
			http.Error(w, "unexpected method", http.StatusInternalServerError)
			return
		}
		raw, err := json.Marshal(result)
		require.NoError(t, err)

		resp := rpcResponse{JsonRpc: "2.0", Id: req.Id, Result: raw}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}
}

func TestCallFailsOverToNextEndpoint(t *testing.T) {
	var primaryHits, secondaryHits atomic.Int32

	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		primaryHits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer primary.Close()

	secondary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		secondaryHits.Add(1)
		var req rpcRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		raw, _ := json.Marshal(stateRootHashResult{StateRootHash: "root-1"})
		_ = json.NewEncoder(w).Encode(rpcResponse{JsonRpc: "2.0", Id: req.Id, Result: raw})
	}))
	defer secondary.Close()

	client := NewChainClient(testChainConfig(primary.URL, secondary.URL))

	var result stateRootHashResult
	err := client.Call(context.Background(), methodGetStateRootHash, nil, &result)
	require.NoError(t, err)
	assert.Equal(t, "root-1", result.StateRootHash)
	assert.Equal(t, int32(1), primaryHits.Load())
	assert.Equal(t, int32(1), secondaryHits.Load())
}

func TestCallRemoteErrorShortCircuitsFailover(t *testing.T) {
	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		_ = json.NewEncoder(w).Encode(rpcResponse{
			JsonRpc: "2.0", Id: req.Id,
			Error: &rpcError{Code: -32001, Message: "deploy not known"},
		})
	}))
	defer primary.Close()

	var secondaryHits atomic.Int32
	secondary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		secondaryHits.Add(1)
	}))
	defer secondary.Close()

	client := NewChainClient(testChainConfig(primary.URL, secondary.URL))

	err := client.Call(context.Background(), methodGetDeploy, nil, nil)
	require.Error(t, err)
	assert.True(t, IsRemoteError(err))
	assert.Contains(t, err.Error(), "deploy not known")
	assert.Equal(t, int32(0), secondaryHits.Load())
}

func TestCallAllEndpointsUnavailable(t *testing.T) {
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	down.Close() // connection refused from here on

	client := NewChainClient(testChainConfig(down.URL, down.URL))

	err := client.Call(context.Background(), methodGetStateRootHash, nil, nil)
	require.Error(t, err)
	assert.True(t, IsAllEndpointsUnavailableError(err))
	assert.False(t, IsRemoteError(err))
}

func TestCallRetriesTransientFailuresPerEndpoint(t *testing.T) {
	var hits atomic.Int32
	flaky := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		var req rpcRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		raw, _ := json.Marshal(stateRootHashResult{StateRootHash: "root-2"})
		_ = json.NewEncoder(w).Encode(rpcResponse{JsonRpc: "2.0", Id: req.Id, Result: raw})
	}))
	defer flaky.Close()

	cfg := testChainConfig(flaky.URL)
	cfg.RetryAttempts = 3
	client := NewChainClient(cfg)

	var result stateRootHashResult
	err := client.Call(context.Background(), methodGetStateRootHash, nil, &result)
	require.NoError(t, err)
	assert.Equal(t, "root-2", result.StateRootHash)
	assert.Equal(t, int32(2), hits.Load())
}

func TestGetBalance(t *testing.T) {
	const publicKey = "01" + "aa11aa11aa11aa11aa11aa11aa11aa11aa11aa11aa11aa11aa11aa11aa11aa11"

	server := httptest.NewServer(rpcHandler(t, map[string]interface{}{
		methodGetStateRootHash: stateRootHashResult{StateRootHash: "root-1"},
		methodGetAccountInfo: map[string]interface{}{
			"account": map[string]interface{}{
				"account_hash": "account-hash-abc",
				"main_purse":   "uref-000-007",
			},
		},
		methodGetBalance: balanceResult{BalanceValue: "123456789000"},
	}))
	defer server.Close()

	client := NewChainClient(testChainConfig(server.URL))

	balance, err := client.GetBalance(context.Background(), publicKey)
	require.NoError(t, err)
	assert.Equal(t, uint64(123456789000), balance.Motes)
	assert.False(t, balance.Degraded)
}

func TestGetBalanceDegradedWhenUnavailable(t *testing.T) {
	const publicKey = "01" + "aa11aa11aa11aa11aa11aa11aa11aa11aa11aa11aa11aa11aa11aa11aa11aa11"

	down := httptest.NewServer(nil)
	down.Close()

	client := NewChainClient(testChainConfig(down.URL))

	balance, err := client.GetBalance(context.Background(), publicKey)
	require.NoError(t, err)
	assert.True(t, balance.Degraded)
	assert.Equal(t, uint64(0), balance.Motes)
}

func TestGetBalanceDegradedOnUnparsableValue(t *testing.T) {
	const publicKey = "01" + "aa11aa11aa11aa11aa11aa11aa11aa11aa11aa11aa11aa11aa11aa11aa11aa11"

	server := httptest.NewServer(rpcHandler(t, map[string]interface{}{
		methodGetStateRootHash: stateRootHashResult{StateRootHash: "root-1"},
		methodGetAccountInfo: map[string]interface{}{
			"account": map[string]interface{}{"main_purse": "uref-000-007"},
		},
		methodGetBalance: balanceResult{BalanceValue: "not-a-number"},
	}))
	defer server.Close()

	client := NewChainClient(testChainConfig(server.URL))

	balance, err := client.GetBalance(context.Background(), publicKey)
	require.NoError(t, err)
	assert.True(t, balance.Degraded)
}

func TestGetBalanceInvalidPublicKey(t *testing.T) {
	client := NewChainClient(testChainConfig("http://localhost:1"))

	_, err := client.GetBalance(context.Background(), "zz")
	require.Error(t, err)
}

func TestGetValidators(t *testing.T) {
	server := httptest.NewServer(rpcHandler(t, map[string]interface{}{
		methodGetAuctionInfo: map[string]interface{}{
			"auction_state": map[string]interface{}{
				"bids": []map[string]interface{}{
					{
						"public_key": "01aaaa",
						"bid": map[string]interface{}{
							"staked_amount":   "5000000000000",
							"delegation_rate": 10,
							"inactive":        false,
						},
					},
					{
						"public_key": "01bbbb",
						"bid": map[string]interface{}{
							"staked_amount":   "junk",
							"delegation_rate": 5,
							"inactive":        false,
						},
					},
				},
			},
		},
	}))
	defer server.Close()

	client := NewChainClient(testChainConfig(server.URL))

	validators, err := client.GetValidators(context.Background())
	require.NoError(t, err)
	assert.False(t, validators.Degraded)
	// The bid with the unparsable stake is skipped, not fatal.
	require.Len(t, validators.Bids, 1)
	assert.Equal(t, "01aaaa", validators.Bids[0].PublicKeyHex)
	assert.Equal(t, uint64(5000000000000), validators.Bids[0].TotalStakeMotes)
	assert.Equal(t, uint64(10), validators.Bids[0].CommissionPercent)
	assert.True(t, validators.Bids[0].IsActive)
}

func TestGetValidatorsSandboxFallback(t *testing.T) {
	down := httptest.NewServer(nil)
	down.Close()

	client := NewChainClient(testChainConfig(down.URL))

	validators, err := client.GetValidators(context.Background())
	require.NoError(t, err)
	assert.True(t, validators.Degraded)
	assert.Equal(t, SandboxValidators(), validators.Bids)
	assert.NotEmpty(t, validators.Bids)
}

func TestGetValidatorsSandboxFallbackOnEmptyBids(t *testing.T) {
	server := httptest.NewServer(rpcHandler(t, map[string]interface{}{
		methodGetAuctionInfo: map[string]interface{}{
			"auction_state": map[string]interface{}{"bids": []interface{}{}},
		},
	}))
	defer server.Close()

	client := NewChainClient(testChainConfig(server.URL))

	validators, err := client.GetValidators(context.Background())
	require.NoError(t, err)
	assert.True(t, validators.Degraded)
	assert.Equal(t, SandboxValidators(), validators.Bids)
}

func TestGetDeployStatus(t *testing.T) {
	tests := []struct {
		name     string
		result   interface{}
		expected types.DeployStatus
	}{
		{
			name:     "pending without execution results",
			result:   map[string]interface{}{"execution_results": []interface{}{}},
			expected: types.DeployStatus{Outcome: types.DeployPending},
		},
		{
			name: "succeeded with cost and block hash",
			result: map[string]interface{}{
				"execution_results": []map[string]interface{}{
					{
						"block_hash": "block-9",
						"result": map[string]interface{}{
							"Success": map[string]interface{}{"cost": "2550000000"},
						},
					},
				},
			},
			expected: types.DeployStatus{
				Outcome:   types.DeploySucceeded,
				CostMotes: 2550000000,
				BlockHash: "block-9",
			},
		},
		{
			name: "failed with reason",
			result: map[string]interface{}{
				"execution_results": []map[string]interface{}{
					{
						"block_hash": "block-9",
						"result": map[string]interface{}{
							"Failure": map[string]interface{}{"error_message": "User error: 1"},
						},
					},
				},
			},
			expected: types.DeployStatus{Outcome: types.DeployFailed, Reason: "User error: 1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(rpcHandler(t, map[string]interface{}{
				methodGetDeploy: tt.result,
			}))
			defer server.Close()

			client := NewChainClient(testChainConfig(server.URL))

			status, err := client.GetDeployStatus(context.Background(), "deadbeef")
			require.NoError(t, err)
			assert.Equal(t, tt.expected, *status)
		})
	}
}

func TestPutDeploy(t *testing.T) {
	server := httptest.NewServer(rpcHandler(t, map[string]interface{}{
		methodPutDeploy: putDeployResult{DeployHash: "hash-42"},
	}))
	defer server.Close()

	client := NewChainClient(testChainConfig(server.URL))

	hash, err := client.PutDeploy(context.Background(), map[string]interface{}{"session": "s"})
	require.NoError(t, err)
	assert.Equal(t, "hash-42", hash)
}

func TestPutDeployMissingHash(t *testing.T) {
	server := httptest.NewServer(rpcHandler(t, map[string]interface{}{
		methodPutDeploy: putDeployResult{},
	}))
	defer server.Close()

	client := NewChainClient(testChainConfig(server.URL))

	_, err := client.PutDeploy(context.Background(), nil)
	require.Error(t, err)
}

func TestAccountHashFromPublicKey(t *testing.T) {
	const publicKey = "01" + "aa11aa11aa11aa11aa11aa11aa11aa11aa11aa11aa11aa11aa11aa11aa11aa11"

	hash, err := AccountHashFromPublicKey(publicKey)
	require.NoError(t, err)
	assert.Contains(t, hash, "account-hash-")
	assert.Len(t, hash, len("account-hash-")+64)

	// Deterministic.
	again, err := AccountHashFromPublicKey(publicKey)
	require.NoError(t, err)
	assert.Equal(t, hash, again)

	_, err = AccountHashFromPublicKey("not-hex")
	require.Error(t, err)

	_, err = AccountHashFromPublicKey(fmt.Sprintf("09%s", publicKey[2:]))
	require.Error(t, err)
}
