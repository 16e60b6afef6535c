package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/casperstation/operations-api-service/internal/types"
	"github.com/casperstation/operations-api-service/internal/utils"
)

// GetOperationStatus returns the current snapshot of a tracked operation.
func (h *Handler) GetOperationStatus(request *http.Request) (*Result, *types.Error) {
	operationId, err := parseOperationIdQuery(request, "operation_id")
	if err != nil {
		return nil, err
	}

	operation, statusErr := h.services.GetOperationStatus(request.Context(), operationId)
	if statusErr != nil {
		return nil, statusErr
	}

	return NewResult(operation), nil
}

// GetOwnerOperations lists the operations of an owner public key, newest
// first, with opaque pagination and optional kind and state filters.
func (h *Handler) GetOwnerOperations(request *http.Request) (*Result, *types.Error) {
	ownerPkHex, err := parsePublicKeyQuery(request, "owner_pk")
	if err != nil {
		return nil, err
	}

	paginationKey := request.URL.Query().Get("pagination_key")
	kind := request.URL.Query().Get("kind")
	state := request.URL.Query().Get("state")

	operations, nextPageToken, listErr := h.services.OperationsByOwner(
		request.Context(), ownerPkHex, paginationKey, kind, state,
	)
	if listErr != nil {
		return nil, listErr
	}

	return NewResultWithPagination(operations, nextPageToken), nil
}

type CancelOperationRequestPayload struct {
	OperationId string `json:"operation_id"`
}

// CancelOperation force-fails a non-terminal operation.
func (h *Handler) CancelOperation(request *http.Request) (*Result, *types.Error) {
	payload := &CancelOperationRequestPayload{}
	if err := json.NewDecoder(request.Body).Decode(payload); err != nil {
		return nil, types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest, "invalid request payload")
	}
	if !utils.IsValidOperationID(payload.OperationId) {
		return nil, types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest, "invalid operation id")
	}

	if err := h.services.CancelOperation(request.Context(), payload.OperationId); err != nil {
		return nil, err
	}

	return &Result{Status: http.StatusOK}, nil
}
