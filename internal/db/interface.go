package db

import (
	"context"
	"time"

	"github.com/casperstation/operations-api-service/internal/db/model"
	"github.com/casperstation/operations-api-service/internal/types"
)

// DBClient is the narrow interface the rest of the service consumes the
// operation ledger through. All writes are single-row, keyed by operation id.
type DBClient interface {
	Ping(ctx context.Context) error
	SaveOperation(ctx context.Context, doc *model.OperationDocument) error
	FindOperationByID(ctx context.Context, id string) (*model.OperationDocument, error)
	FindOperationsByOwner(
		ctx context.Context, ownerPkHex string, paginationToken string, filter *OperationFilter,
	) (*DbResultMap[model.OperationDocument], error)
	FindOperationsInStates(
		ctx context.Context, states []types.OperationState,
	) ([]model.OperationDocument, error)
	// TransitionOperationState moves an operation into newState if and only
	// if its current state is one of eligiblePreviousStates, atomically
	// applying update. Returns NotFoundError when the operation does not
	// exist or is not in an eligible state.
	TransitionOperationState(
		ctx context.Context, id string, newState types.OperationState,
		eligiblePreviousStates []types.OperationState, update *model.OperationUpdate,
	) error
	// IncrementOperationAttempts bumps the poll attempt counter by one and
	// stamps lastPolledAt, returning the new counter value.
	IncrementOperationAttempts(ctx context.Context, id string, lastPolledAt time.Time) (uint64, error)
}
