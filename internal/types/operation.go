package types

import (
	"fmt"
	"time"
)

type OperationKind string

const (
	KindDeploy OperationKind = "deploy"
	KindStake  OperationKind = "stake"
	KindBridge OperationKind = "bridge"
)

func (k OperationKind) ToString() string {
	return string(k)
}

func FromStringToOperationKind(s string) (OperationKind, error) {
	switch s {
	case "deploy":
		return KindDeploy, nil
	case "stake":
		return KindStake, nil
	case "bridge":
		return KindBridge, nil
	default:
		return "", fmt.Errorf("invalid operation kind: %s", s)
	}
}

type OperationState string

const (
	// Shared pending states. Deploy and stake operations start in Pending,
	// bridge operations start in Initiated.
	Pending   OperationState = "pending"
	Initiated OperationState = "initiated"

	// Stake intermediate and terminal states.
	Active    OperationState = "active"
	Unstaking OperationState = "unstaking"

	// Bridge intermediate states.
	Locked  OperationState = "locked"
	Minting OperationState = "minting"

	// Terminal states.
	Confirmed OperationState = "confirmed"
	Completed OperationState = "completed"
	Failed    OperationState = "failed"
)

func (s OperationState) ToString() string {
	return string(s)
}

func FromStringToOperationState(s string) (OperationState, error) {
	switch s {
	case "pending":
		return Pending, nil
	case "initiated":
		return Initiated, nil
	case "active":
		return Active, nil
	case "unstaking":
		return Unstaking, nil
	case "locked":
		return Locked, nil
	case "minting":
		return Minting, nil
	case "confirmed":
		return Confirmed, nil
	case "completed":
		return Completed, nil
	case "failed":
		return Failed, nil
	default:
		return "", fmt.Errorf("invalid operation state: %s", s)
	}
}

// IsTerminal reports whether no further transition is allowed out of the state.
func (s OperationState) IsTerminal() bool {
	switch s {
	case Confirmed, Completed, Failed:
		return true
	default:
		return false
	}
}

// OperationPayload is the kind-specific request data of an operation. Each
// kind carries its own variant so the engine dispatches on the concrete type
// instead of inspecting dynamic payload shapes.
type OperationPayload interface {
	Kind() OperationKind
}

type DeployPayload struct {
	Name            string `bson:"name"`
	CodeSizeBytes   uint64 `bson:"code_size_bytes"`
	SessionBytesHex string `bson:"session_bytes_hex"`
}

func (DeployPayload) Kind() OperationKind { return KindDeploy }

type StakePayload struct {
	ValidatorPkHex string    `bson:"validator_pk_hex"`
	AmountMotes    uint64    `bson:"amount_motes"`
	LockDays       uint64    `bson:"lock_days"`
	EndDate        time.Time `bson:"end_date"`
}

func (StakePayload) Kind() OperationKind { return KindStake }

type BridgePayload struct {
	SourceChain string `bson:"source_chain"`
	DestChain   string `bson:"dest_chain"`
	AmountMotes uint64 `bson:"amount_motes"`
}

func (BridgePayload) Kind() OperationKind { return KindBridge }

// OperationResult is the kind-specific terminal data, present only on a
// success-terminal operation.
type DeployResult struct {
	BlockHash string `bson:"block_hash"`
	CostMotes uint64 `bson:"cost_motes"`
}

type StakeResult struct {
	RewardsMotes uint64 `bson:"rewards_motes"`
	ElapsedDays  uint64 `bson:"elapsed_days"`
}

type BridgeResult struct {
	DestTxHash string `bson:"dest_tx_hash"`
	FeeMotes   uint64 `bson:"fee_motes"`
	NetMotes   uint64 `bson:"net_motes"`
}
