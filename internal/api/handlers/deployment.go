package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/casperstation/operations-api-service/internal/types"
	"github.com/casperstation/operations-api-service/internal/utils"
)

type StartDeploymentRequestPayload struct {
	OwnerPkHex      string `json:"owner_pk_hex"`
	Name            string `json:"name"`
	CodeSizeBytes   uint64 `json:"code_size_bytes"`
	SessionBytesHex string `json:"session_bytes_hex"`
}

func parseStartDeploymentRequestPayload(request *http.Request) (*StartDeploymentRequestPayload, *types.Error) {
	payload := &StartDeploymentRequestPayload{}
	err := json.NewDecoder(request.Body).Decode(payload)
	if err != nil {
		return nil, types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest, "invalid request payload")
	}
	if !utils.IsValidPublicKey(payload.OwnerPkHex) {
		return nil, types.NewErrorWithMsg(
			http.StatusBadRequest, types.BadRequest, "invalid owner public key",
		)
	}
	return payload, nil
}

// StartDeployment submits a contract deployment for asynchronous processing
// and returns the accepted operation for tracking.
func (h *Handler) StartDeployment(request *http.Request) (*Result, *types.Error) {
	payload, err := parseStartDeploymentRequestPayload(request)
	if err != nil {
		return nil, err
	}

	operation, startErr := h.services.StartDeployment(
		request.Context(), payload.OwnerPkHex, payload.Name,
		payload.CodeSizeBytes, payload.SessionBytesHex,
	)
	if startErr != nil {
		return nil, startErr
	}

	res := &PublicResponse[any]{Data: operation}
	return &Result{Data: res, Status: http.StatusAccepted}, nil
}
