package chain

import (
	"context"

	"github.com/casperstation/operations-api-service/internal/types"
)

type ChainClientInterface interface {
	// Call issues a raw typed RPC call, failing over across the configured
	// endpoints. The decoded result is written into result when non-nil.
	Call(ctx context.Context, method string, params interface{}, result interface{}) error
	// GetBalance resolves the main purse balance of an account public key.
	// When any remote step is unavailable it returns a zero balance marked
	// degraded instead of an error.
	GetBalance(ctx context.Context, publicKeyHex string) (*types.BalanceResult, error)
	// GetValidators fetches the network auction state. On failure or an empty
	// bid set it returns the synthetic sandbox list marked degraded.
	GetValidators(ctx context.Context) (*types.ValidatorsResult, error)
	// GetDeployStatus fetches and normalizes the execution result of a deploy.
	GetDeployStatus(ctx context.Context, deployHash string) (*types.DeployStatus, error)
	// PutDeploy submits a prepared deploy and returns its deploy hash.
	PutDeploy(ctx context.Context, deploy interface{}) (string, error)
}
