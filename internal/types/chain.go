package types

// MotesPerCSPR is the number of motes in one CSPR.
const MotesPerCSPR uint64 = 1_000_000_000

// BalanceResult carries a purse balance together with a degraded marker.
// Degraded means at least one of the remote lookups behind the balance was
// unavailable and the zero value is a fallback, not a confirmed balance.
type BalanceResult struct {
	Motes    uint64 `json:"motes"`
	Degraded bool   `json:"degraded"`
}

// ValidatorBid is a single entry of the network auction state.
type ValidatorBid struct {
	PublicKeyHex      string `json:"public_key_hex"`
	TotalStakeMotes   uint64 `json:"total_stake_motes"`
	CommissionPercent uint64 `json:"commission_percent"`
	IsActive          bool   `json:"is_active"`
}

// ValidatorsResult is the outcome of an auction state query. Degraded marks
// the synthetic sandbox list substituted when the network is unreachable; it
// must never be presented as live network truth.
type ValidatorsResult struct {
	Bids     []ValidatorBid `json:"bids"`
	Degraded bool           `json:"degraded"`
}

type DeployOutcome string

const (
	DeployPending   DeployOutcome = "pending"
	DeploySucceeded DeployOutcome = "succeeded"
	DeployFailed    DeployOutcome = "failed"
)

// DeployStatus is the normalized execution result of a submitted deploy.
type DeployStatus struct {
	Outcome   DeployOutcome `json:"outcome"`
	CostMotes uint64        `json:"cost_motes,omitempty"`
	BlockHash string        `json:"block_hash,omitempty"`
	Reason    string        `json:"reason,omitempty"`
}
