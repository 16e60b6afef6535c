package api

import (
	"github.com/go-chi/chi"
)

func (a *Server) SetupRoutes(r *chi.Mux) {
	handlers := a.handlers
	r.Get("/healthcheck", registerHandler(handlers.HealthCheck))

	r.Post("/v1/deployments", registerHandler(handlers.StartDeployment))
	r.Post("/v1/stake", registerHandler(handlers.StartStake))
	r.Post("/v1/stake/withdraw", registerHandler(handlers.WithdrawStake))
	r.Post("/v1/bridge", registerHandler(handlers.StartBridge))

	r.Get("/v1/operations", registerHandler(handlers.GetOwnerOperations))
	r.Get("/v1/operations/status", registerHandler(handlers.GetOperationStatus))
	r.Post("/v1/operations/cancel", registerHandler(handlers.CancelOperation))

	r.Get("/v1/validators", registerHandler(handlers.GetValidators))
	r.Get("/v1/balance", registerHandler(handlers.GetBalance))
}
