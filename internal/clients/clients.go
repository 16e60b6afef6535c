package clients

import (
	"github.com/rs/zerolog/log"

	"github.com/casperstation/operations-api-service/internal/clients/activity"
	"github.com/casperstation/operations-api-service/internal/clients/chain"
	"github.com/casperstation/operations-api-service/internal/config"
)

type Clients struct {
	Chain    chain.ChainClientInterface
	Activity activity.ActivityClientInterface
}

func New(cfg *config.Config) *Clients {
	chainClient := chain.NewChainClient(&cfg.Chain)

	var activityClient activity.ActivityClientInterface
	if cfg.Activity.Enabled {
		amqpClient, err := activity.NewAmqpActivityClient(&cfg.Activity)
		if err != nil {
			log.Fatal().Err(err).Msg("error while creating activity client")
		}
		activityClient = amqpClient
	} else {
		activityClient = activity.NewNoopActivityClient()
	}

	return &Clients{
		Chain:    chainClient,
		Activity: activityClient,
	}
}
