package middlewares

import (
	"net/http"

	"github.com/rs/cors"

	"github.com/casperstation/operations-api-service/internal/config"
)

const (
	maxAge = 300
)

func CorsMiddleware(cfg *config.Config) func(http.Handler) http.Handler {
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		MaxAge:         maxAge,
	})
	return corsHandler.Handler
}
