package services

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/casperstation/operations-api-service/internal/clients"
	"github.com/casperstation/operations-api-service/internal/config"
	"github.com/casperstation/operations-api-service/internal/db"
	"github.com/casperstation/operations-api-service/internal/economics"
	"github.com/casperstation/operations-api-service/internal/orchestrator"
)

// Service layer contains the business logic and is used to interact with
// the database, the remote network and the operation engine.
type Services struct {
	DbClient     db.DBClient
	Orchestrator *orchestrator.Orchestrator
	cfg          *config.Config
	clients      *clients.Clients
	calculator   *economics.Calculator
}

func New(ctx context.Context, cfg *config.Config, clients *clients.Clients) (*Services, error) {
	dbClient, err := db.New(ctx, cfg.Db)
	if err != nil {
		log.Ctx(ctx).Fatal().Err(err).Msg("error while creating db client")
		return nil, err
	}

	calculator := economics.NewCalculator(&cfg.Staking, &cfg.Bridge, &cfg.Deploy)
	engine := orchestrator.New(ctx, cfg, dbClient, clients.Chain, clients.Activity, calculator)

	return &Services{
		DbClient:     dbClient,
		Orchestrator: engine,
		cfg:          cfg,
		clients:      clients,
		calculator:   calculator,
	}, nil
}

// ResumeInFlightOperations reschedules polling of every non-terminal
// operation left in the ledger by a previous run.
func (s *Services) ResumeInFlightOperations(ctx context.Context) error {
	return s.Orchestrator.ResumeInFlight(ctx)
}

// DoHealthCheck checks the health of the services by ping the database.
func (s *Services) DoHealthCheck(ctx context.Context) error {
	return s.DbClient.Ping(ctx)
}

// trackingUrl builds the public explorer link of a deploy, when a tracking
// base url is configured.
func (s *Services) trackingUrl(deployHash string) string {
	if s.cfg.Server.TrackingBaseUrl == "" || deployHash == "" {
		return ""
	}
	return s.cfg.Server.TrackingBaseUrl + "/" + deployHash
}
