package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"

	"github.com/casperstation/operations-api-service/internal/config"
)

// ActivityEvent is the audit record published for every operation transition.
type ActivityEvent struct {
	Kind        string                 `json:"kind"`
	Description string                 `json:"description"`
	Status      string                 `json:"status"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	RecordedAt  time.Time              `json:"recorded_at"`
}

// AmqpActivityClient publishes audit events to a fanout exchange.
type AmqpActivityClient struct {
	cfg        *config.ActivityConfig
	connection *amqp.Connection
	channel    *amqp.Channel
}

func NewAmqpActivityClient(cfg *config.ActivityConfig) (*AmqpActivityClient, error) {
	amqpURI := cfg.Url
	if cfg.User != "" {
		amqpURI = fmt.Sprintf("amqp://%s:%s@%s", cfg.User, cfg.Password, trimScheme(cfg.Url))
	}

	connection, err := amqp.Dial(amqpURI)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to activity broker: %w", err)
	}

	channel, err := connection.Channel()
	if err != nil {
		connection.Close()
		return nil, fmt.Errorf("failed to open activity channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		cfg.Exchange,
		"fanout",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		channel.Close()
		connection.Close()
		return nil, fmt.Errorf("failed to declare activity exchange: %w", err)
	}

	return &AmqpActivityClient{
		cfg:        cfg,
		connection: connection,
		channel:    channel,
	}, nil
}

func (c *AmqpActivityClient) Record(
	ctx context.Context, kind, description, status string, metadata map[string]interface{},
) {
	event := ActivityEvent{
		Kind:        kind,
		Description: description,
		Status:      status,
		Metadata:    metadata,
		RecordedAt:  time.Now().UTC(),
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("kind", kind).Msg("failed to marshal activity event")
		return
	}

	err = c.channel.PublishWithContext(
		ctx,
		c.cfg.Exchange,
		"",    // routing key ignored by fanout
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
			Timestamp:   event.RecordedAt,
		},
	)
	if err != nil {
		// Activity recording must never abort the orchestrator.
		log.Ctx(ctx).Error().Err(err).Str("kind", kind).Msg("failed to publish activity event")
	}
}

func (c *AmqpActivityClient) Close() error {
	if err := c.channel.Close(); err != nil {
		return err
	}
	return c.connection.Close()
}

func trimScheme(url string) string {
	for _, scheme := range []string{"amqps://", "amqp://"} {
		if len(url) > len(scheme) && url[:len(scheme)] == scheme {
			return url[len(scheme):]
		}
	}
	return url
}

// NoopActivityClient drops every event. Used when activity publishing is
// disabled and in tests.
type NoopActivityClient struct{}

func NewNoopActivityClient() *NoopActivityClient {
	return &NoopActivityClient{}
}

func (c *NoopActivityClient) Record(
	ctx context.Context, kind, description, status string, metadata map[string]interface{},
) {
	log.Ctx(ctx).Debug().Str("kind", kind).Str("status", status).Msg(description)
}

func (c *NoopActivityClient) Close() error {
	return nil
}
