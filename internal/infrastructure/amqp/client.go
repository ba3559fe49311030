package amqp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/iho/porket/internal/domain"
)

// publishChannel is the subset of *amqp091.Channel the client uses.
type publishChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

// Client publishes change events to a topic exchange. Events are routed by
// their type, e.g. "transaction.created".
type Client struct {
	conn         *amqp091.Connection
	channel      publishChannel
	exchangeName string
	logger       zerolog.Logger
}

// Config configures the AMQP client.
type Config struct {
	URL          string
	ExchangeName string
	// DialRetry bounds how long start-up keeps redialling. Zero dials once.
	DialRetry time.Duration
	Logger    zerolog.Logger
}

// NewClient dials the broker and declares the exchange.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	conn, err := dial(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		cfg.ExchangeName, // name
		"topic",          // type
		true,             // durable
		false,            // auto-deleted
		false,            // internal
		false,            // no-wait
		nil,              // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &Client{
		conn:         conn,
		channel:      channel,
		exchangeName: cfg.ExchangeName,
		logger:       cfg.Logger,
	}, nil
}

func dial(ctx context.Context, cfg Config) (*amqp091.Connection, error) {
	if cfg.DialRetry <= 0 {
		return amqp091.Dial(cfg.URL)
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = cfg.DialRetry

	return backoff.RetryNotifyWithData(func() (*amqp091.Connection, error) {
		return amqp091.Dial(cfg.URL)
	}, backoff.WithContext(b, ctx), func(err error, next time.Duration) {
		cfg.Logger.Warn().Err(err).Dur("retry_in", next).Msg("amqp broker not ready, retrying")
	})
}

// Name identifies the publisher in logs and metrics.
func (c *Client) Name() string { return "amqp" }

// Publish sends the event as a persistent JSON message.
func (c *Client) Publish(ctx context.Context, event domain.ChangeEvent) error {
	body, err := json.Marshal(event.Payload())
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = c.channel.PublishWithContext(
		ctx,
		c.exchangeName, // exchange
		event.Type,     // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			MessageId:    fmt.Sprintf("%s-%d", event.Type, event.Sequence),
			Timestamp:    event.At,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	c.logger.Debug().
		Str("exchange", c.exchangeName).
		Str("routing_key", event.Type).
		Uint64("sequence", event.Sequence).
		Msg("change event published")

	return nil
}

// Close closes the channel and the connection.
func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
