package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Config configures the Redis client used by the idempotency store.
type Config struct {
	URL string
	// ConnectRetry bounds how long start-up keeps retrying the first ping.
	// Zero pings once.
	ConnectRetry time.Duration
	Logger       zerolog.Logger
}

// NewClient creates a new Redis client and pings it once.
func NewClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	return NewClientWithConfig(ctx, Config{URL: redisURL, Logger: zerolog.Nop()})
}

// NewClientWithConfig creates a new Redis client, retrying the first ping
// with exponential backoff while the server comes up.
func NewClientWithConfig(ctx context.Context, cfg Config) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ping := func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		return client.Ping(pingCtx).Err()
	}

	if cfg.ConnectRetry <= 0 {
		err = ping()
	} else {
		b := backoff.NewExponentialBackOff()
		b.InitialInterval = 200 * time.Millisecond
		b.MaxElapsedTime = cfg.ConnectRetry
		err = backoff.RetryNotify(ping, backoff.WithContext(b, ctx), func(err error, next time.Duration) {
			cfg.Logger.Warn().Err(err).Str("target", "redis").Dur("retry_in", next).Msg("connection not ready, retrying")
		})
	}
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}
