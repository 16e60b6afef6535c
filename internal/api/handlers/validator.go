package handlers

import (
	"net/http"

	"github.com/casperstation/operations-api-service/internal/types"
)

// GetValidators lists the network validator set with per-validator APY. The
// sandbox flag in the response marks a synthetic fallback list.
func (h *Handler) GetValidators(request *http.Request) (*Result, *types.Error) {
	validators, err := h.services.GetValidators(request.Context())
	if err != nil {
		return nil, err
	}

	return NewResult(validators), nil
}
