package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/casperstation/operations-api-service/internal/types"
	"github.com/casperstation/operations-api-service/internal/utils"
)

type StartBridgeRequestPayload struct {
	OwnerPkHex  string `json:"owner_pk_hex"`
	SourceChain string `json:"source_chain"`
	DestChain   string `json:"dest_chain"`
	AmountMotes uint64 `json:"amount_motes"`
}

func parseStartBridgeRequestPayload(request *http.Request) (*StartBridgeRequestPayload, *types.Error) {
	payload := &StartBridgeRequestPayload{}
	err := json.NewDecoder(request.Body).Decode(payload)
	if err != nil {
		return nil, types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest, "invalid request payload")
	}
	if !utils.IsValidPublicKey(payload.OwnerPkHex) {
		return nil, types.NewErrorWithMsg(
			http.StatusBadRequest, types.BadRequest, "invalid owner public key",
		)
	}
	if payload.SourceChain == "" || payload.DestChain == "" {
		return nil, types.NewErrorWithMsg(
			http.StatusBadRequest, types.BadRequest, "source and destination chains are required",
		)
	}
	return payload, nil
}

// StartBridge submits a cross-chain transfer for asynchronous processing and
// returns the accepted operation for tracking.
func (h *Handler) StartBridge(request *http.Request) (*Result, *types.Error) {
	payload, err := parseStartBridgeRequestPayload(request)
	if err != nil {
		return nil, err
	}

	operation, startErr := h.services.StartBridge(
		request.Context(), payload.OwnerPkHex, payload.SourceChain,
		payload.DestChain, payload.AmountMotes,
	)
	if startErr != nil {
		return nil, startErr
	}

	res := &PublicResponse[any]{Data: operation}
	return &Result{Data: res, Status: http.StatusAccepted}, nil
}
