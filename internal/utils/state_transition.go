package utils

import (
	"github.com/casperstation/operations-api-service/internal/types"
)

// QualifiedStatesToActive returns the qualified existing states to transition to "active"
func QualifiedStatesToActive() []types.OperationState {
	return []types.OperationState{types.Pending}
}

// QualifiedStatesToConfirmed returns the qualified existing states to transition to "confirmed"
func QualifiedStatesToConfirmed() []types.OperationState {
	return []types.OperationState{types.Pending}
}

// QualifiedStatesToUnstaking returns the qualified existing states to transition to "unstaking"
func QualifiedStatesToUnstaking() []types.OperationState {
	return []types.OperationState{types.Active}
}

// QualifiedStatesToLocked returns the qualified existing states to transition to "locked"
func QualifiedStatesToLocked() []types.OperationState {
	return []types.OperationState{types.Initiated}
}

// QualifiedStatesToMinting returns the qualified existing states to transition to "minting"
func QualifiedStatesToMinting() []types.OperationState {
	return []types.OperationState{types.Locked}
}

// QualifiedStatesToCompleted returns the qualified existing states to transition to "completed".
// Unstaking covers the stake graph, minting covers the bridge graph.
func QualifiedStatesToCompleted() []types.OperationState {
	return []types.OperationState{types.Unstaking, types.Minting}
}

// QualifiedStatesToFailed returns the qualified existing states to transition
// to "failed". Any non-terminal state may fail; a terminal state never does.
func QualifiedStatesToFailed() []types.OperationState {
	return []types.OperationState{
		types.Pending, types.Initiated, types.Active,
		types.Unstaking, types.Locked, types.Minting,
	}
}

func StatesToStrings(states []types.OperationState) []string {
	out := make([]string, 0, len(states))
	for _, s := range states {
		out = append(out, s.ToString())
	}
	return out
}
