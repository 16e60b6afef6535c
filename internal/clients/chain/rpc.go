package chain

import "encoding/json"

// JSON-RPC 2.0 envelope of the remote node. The payloads below describe only
// the fields this service consumes; everything else is passed through opaque.

type rpcRequest struct {
	JsonRpc string      `json:"jsonrpc"`
	Id      uint64      `json:"id"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	JsonRpc string          `json:"jsonrpc"`
	Id      uint64          `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

const (
	methodGetStateRootHash = "chain_get_state_root_hash"
	methodGetAccountInfo   = "state_get_account_info"
	methodGetBalance       = "state_get_balance"
	methodGetAuctionInfo   = "state_get_auction_info"
	methodGetDeploy        = "info_get_deploy"
	methodPutDeploy        = "account_put_deploy"
)

type stateRootHashResult struct {
	StateRootHash string `json:"state_root_hash"`
}

type accountInfoParams struct {
	AccountIdentifier string `json:"account_identifier"`
}

type accountInfoResult struct {
	Account struct {
		AccountHash string `json:"account_hash"`
		MainPurse   string `json:"main_purse"`
	} `json:"account"`
}

type balanceParams struct {
	StateRootHash string `json:"state_root_hash"`
	PurseUref     string `json:"purse_uref"`
}

type balanceResult struct {
	BalanceValue string `json:"balance_value"`
}

type auctionInfoResult struct {
	AuctionState struct {
		Bids []struct {
			PublicKey string `json:"public_key"`
			Bid       struct {
				StakedAmount   string `json:"staked_amount"`
				DelegationRate uint64 `json:"delegation_rate"`
				Inactive       bool   `json:"inactive"`
			} `json:"bid"`
		} `json:"bids"`
	} `json:"auction_state"`
}

type getDeployParams struct {
	DeployHash string `json:"deploy_hash"`
}

type getDeployResult struct {
	ExecutionResults []struct {
		BlockHash string `json:"block_hash"`
		Result    struct {
			Success *struct {
				Cost string `json:"cost"`
			} `json:"Success,omitempty"`
			Failure *struct {
				ErrorMessage string `json:"error_message"`
			} `json:"Failure,omitempty"`
		} `json:"result"`
	} `json:"execution_results"`
}

type putDeployParams struct {
	Deploy interface{} `json:"deploy"`
}

type putDeployResult struct {
	DeployHash string `json:"deploy_hash"`
}
