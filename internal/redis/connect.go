package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type Options struct {
	// Addr is host:port or a redis:// / rediss:// URL.
	Addr       string
	Password   string
	MaxRetries int
	// BaseBackoff doubles after every failed ping.
	BaseBackoff time.Duration
}

// Connect pings until the server answers or the attempts run out.
func Connect(ctx context.Context, opts Options, logger *zerolog.Logger) (*redis.Client, error) {
	clientOpts, err := clientOptions(opts)
	if err != nil {
		return nil, err
	}

	attempts := max(opts.MaxRetries, 1)
	backoff := opts.BaseBackoff
	if backoff <= 0 {
		backoff = time.Second
	}

	client := redis.NewClient(clientOpts)

	for attempt := range attempts {
		if attempt > 0 {
			logger.Info().Dur("backoff", backoff).Msg("Waiting before Redis retry")
			select {
			case <-ctx.Done():
				_ = client.Close()
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		if err = client.Ping(ctx).Err(); err == nil {
			logger.Info().Str("addr", clientOpts.Addr).Int("attempts_needed", attempt+1).Msg("Redis connected")
			return client, nil
		}

		logger.Warn().Err(err).Int("attempt", attempt+1).Int("max_retries", attempts).Msg("Redis ping failed")
	}

	_ = client.Close()
	return nil, fmt.Errorf("failed to connect to Redis after %d attempts: %w", attempts, err)
}

func clientOptions(opts Options) (*redis.Options, error) {
	if strings.HasPrefix(opts.Addr, "redis://") || strings.HasPrefix(opts.Addr, "rediss://") {
		parsed, err := redis.ParseURL(opts.Addr)
		if err != nil {
			return nil, fmt.Errorf("invalid Redis URL: %w", err)
		}
		if parsed.Password == "" {
			parsed.Password = opts.Password
		}
		applyTimeouts(parsed)
		return parsed, nil
	}

	clientOpts := &redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
	}
	applyTimeouts(clientOpts)
	return clientOpts, nil
}

func applyTimeouts(o *redis.Options) {
	o.MaxRetries = 3
	o.MinRetryBackoff = 8 * time.Millisecond
	o.MaxRetryBackoff = 512 * time.Millisecond
	o.DialTimeout = 5 * time.Second
	o.ReadTimeout = 3 * time.Second
	o.WriteTimeout = 3 * time.Second
}
