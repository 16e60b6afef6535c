package main

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/casperstation/operations-api-service/cmd/operations-api-service/cli"
	"github.com/casperstation/operations-api-service/internal/api"
	"github.com/casperstation/operations-api-service/internal/clients"
	"github.com/casperstation/operations-api-service/internal/config"
	"github.com/casperstation/operations-api-service/internal/db/model"
	"github.com/casperstation/operations-api-service/internal/observability/healthcheck"
	"github.com/casperstation/operations-api-service/internal/observability/metrics"
	"github.com/casperstation/operations-api-service/internal/services"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("failed to load .env file")
	}
}

func main() {
	ctx := context.Background()

	// setup cli commands and flags
	if err := cli.Setup(); err != nil {
		log.Fatal().Err(err).Msg("error while setting up cli")
	}

	// load config
	cfgPath := cli.GetConfigPath()
	cfg, err := config.New(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg(fmt.Sprintf("error while loading config file: %s", cfgPath))
	}

	// initialize metrics with the metrics port from config
	metricsPort := cfg.Metrics.GetMetricsPort()
	metrics.Init(metricsPort)

	err = model.Setup(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("error while setting up operations db model")
	}

	clients := clients.New(cfg)
	services, err := services.New(ctx, cfg, clients)
	if err != nil {
		log.Fatal().Err(err).Msg("error while setting up operations services layer")
	}

	// Pick up the operations a previous run left in flight.
	if err := services.ResumeInFlightOperations(ctx); err != nil {
		log.Fatal().Err(err).Msg("error while resuming in-flight operations")
	}

	if err := healthcheck.StartHealthCheckCron(ctx, services, cfg.Server.HealthCheckInterval); err != nil {
		log.Fatal().Err(err).Msg("error while starting health check cron")
	}

	apiServer, err := api.New(ctx, cfg, services)
	if err != nil {
		log.Fatal().Err(err).Msg("error while setting up operations api service")
	}
	if err = apiServer.Start(); err != nil {
		log.Fatal().Err(err).Msg("error while starting operations api service")
	}
}
