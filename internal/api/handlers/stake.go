package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/casperstation/operations-api-service/internal/types"
	"github.com/casperstation/operations-api-service/internal/utils"
)

type StartStakeRequestPayload struct {
	OwnerPkHex     string `json:"owner_pk_hex"`
	ValidatorPkHex string `json:"validator_pk_hex"`
	AmountMotes    uint64 `json:"amount_motes"`
	LockDays       uint64 `json:"lock_days"`
}

func parseStartStakeRequestPayload(request *http.Request) (*StartStakeRequestPayload, *types.Error) {
	payload := &StartStakeRequestPayload{}
	err := json.NewDecoder(request.Body).Decode(payload)
	if err != nil {
		return nil, types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest, "invalid request payload")
	}
	if !utils.IsValidPublicKey(payload.OwnerPkHex) {
		return nil, types.NewErrorWithMsg(
			http.StatusBadRequest, types.BadRequest, "invalid owner public key",
		)
	}
	if !utils.IsValidPublicKey(payload.ValidatorPkHex) {
		return nil, types.NewErrorWithMsg(
			http.StatusBadRequest, types.BadRequest, "invalid validator public key",
		)
	}
	return payload, nil
}

// StartStake submits a delegation for asynchronous processing and returns the
// accepted operation for tracking.
func (h *Handler) StartStake(request *http.Request) (*Result, *types.Error) {
	payload, err := parseStartStakeRequestPayload(request)
	if err != nil {
		return nil, err
	}

	operation, startErr := h.services.StartStake(
		request.Context(), payload.OwnerPkHex, payload.ValidatorPkHex,
		payload.AmountMotes, payload.LockDays,
	)
	if startErr != nil {
		return nil, startErr
	}

	res := &PublicResponse[any]{Data: operation}
	return &Result{Data: res, Status: http.StatusAccepted}, nil
}

type WithdrawStakeRequestPayload struct {
	OperationId string `json:"operation_id"`
}

// WithdrawStake requests the unstaking of an active stake operation once its
// lock period has elapsed.
func (h *Handler) WithdrawStake(request *http.Request) (*Result, *types.Error) {
	payload := &WithdrawStakeRequestPayload{}
	if err := json.NewDecoder(request.Body).Decode(payload); err != nil {
		return nil, types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest, "invalid request payload")
	}
	if !utils.IsValidOperationID(payload.OperationId) {
		return nil, types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest, "invalid operation id")
	}

	if err := h.services.WithdrawStake(request.Context(), payload.OperationId); err != nil {
		return nil, err
	}

	return &Result{Status: http.StatusAccepted}, nil
}
