// Package redis provides Redis client connection utilities.
package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config contains Redis connection configuration.
type Config struct {
	Addr            string
	Password        string
	DB              int
	DialTimeout     time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	PoolSize        int
	ConnectAttempts int
}

// Connect creates a Redis client and verifies connectivity with retry.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		PoolSize:     cfg.PoolSize,
	})

	attempts := cfg.ConnectAttempts
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := client.Ping(ctx).Err(); err != nil {
			lastErr = err
			if attempt < attempts {
				backoff := calcBackoff(attempt)
				slog.Warn("failed to ping redis, retrying",
					"attempt", attempt,
					"max_attempts", attempts,
					"backoff", backoff,
					"error", err,
				)
				if !sleep(ctx, backoff) {
					return nil, fmt.Errorf("connection cancelled: %w", ctx.Err())
				}
			}
			continue
		}

		slog.Info("connected to redis", "addr", cfg.Addr, "attempts", attempt)
		return client, nil
	}

	_ = client.Close()
	return nil, fmt.Errorf("connect to redis after %d attempts: %w", attempts, lastErr)
}

// calcBackoff returns exponential backoff duration capped at 16 seconds.
func calcBackoff(attempt int) time.Duration {
	backoff := time.Duration(1<<(attempt-1)) * time.Second
	if backoff > 16*time.Second {
		backoff = 16 * time.Second
	}
	return backoff
}

// sleep waits for duration or context cancellation. Returns false if cancelled.
func sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-time.After(d):
		return true
	case <-ctx.Done():
		return false
	}
}
