package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casperstation/operations-api-service/internal/api/handlers"
	"github.com/casperstation/operations-api-service/internal/types"
)

func serve(t *testing.T, handlerFunc func(*http.Request) (*handlers.Result, *types.Error)) *httptest.ResponseRecorder {
	t.Helper()
	recorder := httptest.NewRecorder()
	registerHandler(handlerFunc)(recorder, httptest.NewRequest(http.MethodGet, "/v1/balance", nil))
	return recorder
}

func TestRegisterHandlerSuccess(t *testing.T) {
	recorder := serve(t, func(*http.Request) (*handlers.Result, *types.Error) {
		return handlers.NewResult(map[string]string{"motes": "42"}), nil
	})

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"data":{"motes":"42"}}`, recorder.Body.String())
}

func TestRegisterHandlerErrorEnvelope(t *testing.T) {
	recorder := serve(t, func(*http.Request) (*handlers.Result, *types.Error) {
		return nil, types.NewErrorWithMsg(http.StatusBadRequest, types.ValidationError, "bad input")
	})

	require.Equal(t, http.StatusBadRequest, recorder.Code)
	var body apiError
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, types.ValidationError.String(), body.ErrorCode)
	assert.Equal(t, "bad input", body.Message)
}

func TestRegisterHandlerHidesInternalMessages(t *testing.T) {
	recorder := serve(t, func(*http.Request) (*handlers.Result, *types.Error) {
		return nil, types.NewErrorWithMsg(http.StatusInternalServerError, types.InternalServiceError, "dial tcp: connection refused")
	})

	require.Equal(t, http.StatusInternalServerError, recorder.Code)
	var body apiError
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, internalErrorMessage, body.Message)
	assert.NotContains(t, recorder.Body.String(), "dial tcp")
}

func TestRegisterHandlerNormalizesUnknownStatus(t *testing.T) {
	recorder := serve(t, func(*http.Request) (*handlers.Result, *types.Error) {
		return nil, &types.Error{StatusCode: 999, ErrorCode: types.ValidationError, Err: assert.AnError}
	})

	require.Equal(t, http.StatusInternalServerError, recorder.Code)
}

func TestRegisterHandlerNilResult(t *testing.T) {
	recorder := serve(t, func(*http.Request) (*handlers.Result, *types.Error) {
		return nil, nil
	})

	require.Equal(t, http.StatusInternalServerError, recorder.Code)
	var body apiError
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, types.InternalServiceError.String(), body.ErrorCode)
}
