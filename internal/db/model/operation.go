package model

import (
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/casperstation/operations-api-service/internal/types"
)

const OperationCollection = "operations"

// OperationDocument is the persisted record of a long-running on-chain
// operation. Exactly one of the payload pointers is set, matching Kind, and
// at most one of the result pointers. ErrorCode/ErrorMessage are set only in
// the failed state.
type OperationDocument struct {
	Id           string               `bson:"_id"` // Primary key
	Kind         types.OperationKind  `bson:"kind"`
	OwnerPkHex   string               `bson:"owner_pk_hex"`
	State        types.OperationState `bson:"state"`
	Attempts     uint64               `bson:"attempts"`
	DeployHash   string               `bson:"deploy_hash,omitempty"` // remote handle currently being polled
	CreatedAt    time.Time            `bson:"created_at"`
	LastPolledAt *time.Time           `bson:"last_polled_at,omitempty"`
	TerminalAt   *time.Time           `bson:"terminal_at,omitempty"`

	Deploy *types.DeployPayload `bson:"deploy,omitempty"`
	Stake  *types.StakePayload  `bson:"stake,omitempty"`
	Bridge *types.BridgePayload `bson:"bridge,omitempty"`

	DeployResult *types.DeployResult `bson:"deploy_result,omitempty"`
	StakeResult  *types.StakeResult  `bson:"stake_result,omitempty"`
	BridgeResult *types.BridgeResult `bson:"bridge_result,omitempty"`

	ErrorCode    string `bson:"error_code,omitempty"`
	ErrorMessage string `bson:"error_message,omitempty"`
}

// OperationUpdate carries the optional fields written together with a state
// transition. Nil fields are left untouched.
type OperationUpdate struct {
	DeployHash   *string
	DeployResult *types.DeployResult
	StakeResult  *types.StakeResult
	BridgeResult *types.BridgeResult
	ErrorCode    *string
	ErrorMessage *string
	TerminalAt   *time.Time
}

type OperationByOwnerPagination struct {
	CreatedAt time.Time `json:"created_at"`
	Id        string    `json:"id"`
}

func DecodeOperationByOwnerPaginationToken(token string) (*OperationByOwnerPagination, error) {
	tokenBytes, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return nil, err
	}
	var d OperationByOwnerPagination
	err = json.Unmarshal(tokenBytes, &d)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (d *OperationByOwnerPagination) GetPaginationToken() (string, error) {
	tokenBytes, err := json.Marshal(d)
	if err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(tokenBytes), nil
}

func BuildOperationByOwnerPaginationToken(d OperationDocument) (string, error) {
	page := &OperationByOwnerPagination{
		CreatedAt: d.CreatedAt,
		Id:        d.Id,
	}
	token, err := page.GetPaginationToken()
	if err != nil {
		return "", err
	}
	return token, nil
}
