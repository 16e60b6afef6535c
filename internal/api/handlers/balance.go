package handlers

import (
	"net/http"

	"github.com/casperstation/operations-api-service/internal/types"
)

// GetBalance resolves the main purse balance of an account public key. A
// degraded response means the balance could not be confirmed.
func (h *Handler) GetBalance(request *http.Request) (*Result, *types.Error) {
	publicKeyHex, err := parsePublicKeyQuery(request, "public_key")
	if err != nil {
		return nil, err
	}

	balance, balanceErr := h.services.GetBalance(request.Context(), publicKeyHex)
	if balanceErr != nil {
		return nil, balanceErr
	}

	return NewResult(balance), nil
}
