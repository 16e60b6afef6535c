package db

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/casperstation/operations-api-service/internal/db/model"
	"github.com/casperstation/operations-api-service/internal/types"
	"github.com/casperstation/operations-api-service/internal/utils"
)

func (db *Database) SaveOperation(ctx context.Context, doc *model.OperationDocument) error {
	client := db.Client.Database(db.DbName).Collection(model.OperationCollection)
	_, err := client.InsertOne(ctx, doc)
	if err != nil {
		var writeErr mongo.WriteException
		if errors.As(err, &writeErr) {
			for _, e := range writeErr.WriteErrors {
				if mongo.IsDuplicateKeyError(e) {
					// Return the custom error type so that we can return 4xx errors to client
					return &DuplicateKeyError{
						Key:     doc.Id,
						Message: "Operation already exists",
					}
				}
			}
		}
		return err
	}
	return nil
}

func (db *Database) FindOperationByID(ctx context.Context, id string) (*model.OperationDocument, error) {
	client := db.Client.Database(db.DbName).Collection(model.OperationCollection)
	filter := bson.M{"_id": id}
	var operation model.OperationDocument
	err := client.FindOne(ctx, filter).Decode(&operation)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &NotFoundError{
				Key:     id,
				Message: "Operation not found",
			}
		}
		return nil, err
	}
	return &operation, nil
}

// OperationFilter narrows an owner listing down to a kind and/or state.
// A nil filter or nil field means no restriction.
type OperationFilter struct {
	Kind  *types.OperationKind
	State *types.OperationState
}

func (db *Database) FindOperationsByOwner(
	ctx context.Context, ownerPkHex string, paginationToken string, opFilter *OperationFilter,
) (*DbResultMap[model.OperationDocument], error) {
	client := db.Client.Database(db.DbName).Collection(model.OperationCollection)

	filter := bson.M{"owner_pk_hex": ownerPkHex}
	if opFilter != nil {
		if opFilter.Kind != nil {
			filter["kind"] = opFilter.Kind.ToString()
		}
		if opFilter.State != nil {
			filter["state"] = opFilter.State.ToString()
		}
	}
	options := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}})
	options.SetLimit(db.cfg.MaxPaginationLimit)

	// Decode the pagination token first if it exist
	if paginationToken != "" {
		decodedToken, err := model.DecodeOperationByOwnerPaginationToken(paginationToken)
		if err != nil {
			return nil, &InvalidPaginationTokenError{
				Message: "Invalid pagination token",
			}
		}
		filter["$or"] = []bson.M{
			{"created_at": bson.M{"$lt": decodedToken.CreatedAt}},
			{"created_at": decodedToken.CreatedAt, "_id": bson.M{"$gt": decodedToken.Id}},
		}
	}

	cursor, err := client.Find(ctx, filter, options)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var operations []model.OperationDocument
	if err = cursor.All(ctx, &operations); err != nil {
		return nil, err
	}

	return toResultMapWithPaginationToken(db.cfg, operations, model.BuildOperationByOwnerPaginationToken)
}

// FindOperationsInStates returns every operation currently in one of the
// given states. Used to resume polling of in-flight operations on startup.
func (db *Database) FindOperationsInStates(
	ctx context.Context, states []types.OperationState,
) ([]model.OperationDocument, error) {
	client := db.Client.Database(db.DbName).Collection(model.OperationCollection)
	filter := bson.M{"state": bson.M{"$in": utils.StatesToStrings(states)}}

	cursor, err := client.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var operations []model.OperationDocument
	if err = cursor.All(ctx, &operations); err != nil {
		return nil, err
	}
	return operations, nil
}

// TransitionOperationState updates the state of an operation to a new state.
// The filter guards on the eligible previous states, so a row whose state has
// moved on (or is already terminal) is never overwritten.
// It returns a NotFoundError if the operation is not found or not in an eligible state.
func (db *Database) TransitionOperationState(
	ctx context.Context, id string, newState types.OperationState,
	eligiblePreviousStates []types.OperationState, update *model.OperationUpdate,
) error {
	client := db.Client.Database(db.DbName).Collection(model.OperationCollection)
	filter := bson.M{
		"_id":   id,
		"state": bson.M{"$in": utils.StatesToStrings(eligiblePreviousStates)},
	}

	set := bson.M{"state": newState.ToString()}
	if update != nil {
		if update.DeployHash != nil {
			set["deploy_hash"] = *update.DeployHash
		}
		if update.DeployResult != nil {
			set["deploy_result"] = update.DeployResult
		}
		if update.StakeResult != nil {
			set["stake_result"] = update.StakeResult
		}
		if update.BridgeResult != nil {
			set["bridge_result"] = update.BridgeResult
		}
		if update.ErrorCode != nil {
			set["error_code"] = *update.ErrorCode
		}
		if update.ErrorMessage != nil {
			set["error_message"] = *update.ErrorMessage
		}
		if update.TerminalAt != nil {
			set["terminal_at"] = *update.TerminalAt
		}
	}

	result, err := client.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return &NotFoundError{
			Key:     id,
			Message: "Operation not found or not in eligible state to transition",
		}
	}
	return nil
}

func (db *Database) IncrementOperationAttempts(
	ctx context.Context, id string, lastPolledAt time.Time,
) (uint64, error) {
	client := db.Client.Database(db.DbName).Collection(model.OperationCollection)
	filter := bson.M{"_id": id}
	update := bson.M{
		"$inc": bson.M{"attempts": 1},
		"$set": bson.M{"last_polled_at": lastPolledAt},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var operation model.OperationDocument
	err := client.FindOneAndUpdate(ctx, filter, update, opts).Decode(&operation)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, &NotFoundError{
				Key:     id,
				Message: "Operation not found",
			}
		}
		return 0, err
	}
	return operation.Attempts, nil
}
