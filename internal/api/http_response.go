package api

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/casperstation/operations-api-service/internal/api/handlers"
	"github.com/casperstation/operations-api-service/internal/observability/metrics"
	"github.com/casperstation/operations-api-service/internal/types"
)

// apiError is the JSON error envelope of every failed request.
type apiError struct {
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
}

const internalErrorMessage = "internal service error"

// registerHandler adapts a service handler into an http.HandlerFunc, taking
// care of the error envelope and the per-endpoint duration metric.
func registerHandler(handlerFunc func(*http.Request) (*handlers.Result, *types.Error)) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		timer := metrics.StartHttpRequestDurationTimer(r.URL.Path)

		result, svcErr := handlerFunc(r)
		if svcErr != nil {
			status, body := errorEnvelope(r, svcErr)
			timer(status)
			writeJSON(w, r, status, body)
			return
		}

		if result == nil || http.StatusText(result.Status) == "" {
			log.Ctx(r.Context()).Error().Msg("handler produced no usable result")
			timer(http.StatusInternalServerError)
			writeJSON(w, r, http.StatusInternalServerError, &apiError{
				ErrorCode: types.InternalServiceError.String(),
				Message:   internalErrorMessage,
			})
			return
		}

		timer(result.Status)
		writeJSON(w, r, result.Status, result.Data)
	}
}

// errorEnvelope maps a service error onto its wire status and body. Messages
// of 5xx errors are replaced so internals never leak to the client.
func errorEnvelope(r *http.Request, svcErr *types.Error) (int, *apiError) {
	status := svcErr.StatusCode
	if http.StatusText(status) == "" {
		log.Ctx(r.Context()).Error().Err(svcErr).Int("status_code", status).Msg("unknown status code on service error")
		status = http.StatusInternalServerError
	}

	body := &apiError{
		ErrorCode: svcErr.ErrorCode.String(),
		Message:   svcErr.Err.Error(),
	}
	if status >= http.StatusInternalServerError {
		log.Ctx(r.Context()).Error().Err(svcErr).Msg("request failed with 5xx error")
		body.Message = internalErrorMessage
	}
	return status, body
}

func writeJSON(w http.ResponseWriter, r *http.Request, statusCode int, res interface{}) {
	respBytes, err := json.Marshal(res)
	if err != nil {
		log.Ctx(r.Context()).Err(err).Msg("failed to marshal response")
		http.Error(w, "Failed to process the request. Please try again later.", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(respBytes) // nolint:errcheck
}
