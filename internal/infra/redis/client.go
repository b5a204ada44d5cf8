package redis

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/arklim/social-platform-auth/internal/infra/config"
)

const (
	dialTimeout    = 5 * time.Second
	rwTimeout      = 3 * time.Second
	poolTimeout    = 4 * time.Second
	idleConnMaxAge = 5 * time.Minute
	pingTimeout    = 5 * time.Second
)

// Client owns the Redis connection pool used by the rate limiter.
type Client struct {
	client *redis.Client
	logger *zap.Logger
}

// NewClient opens a connection pool against the configured Redis node
// and verifies it with a ping before returning.
func NewClient(cfg config.RedisSettings, logger *zap.Logger) (*Client, error) {
	client := redis.NewClient(clientOptions(cfg))

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	logger.Info("connected to redis",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.Int("db", cfg.DB),
		zap.Bool("tls_enabled", cfg.TLSEnabled))

	return &Client{client: client, logger: logger}, nil
}

func clientOptions(cfg config.RedisSettings) *redis.Options {
	opts := &redis.Options{
		Addr:     net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Password: cfg.Password,
		DB:       cfg.DB,

		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,

		DialTimeout:     dialTimeout,
		ReadTimeout:     rwTimeout,
		WriteTimeout:    rwTimeout,
		PoolTimeout:     poolTimeout,
		ConnMaxIdleTime: idleConnMaxAge,
	}

	if cfg.TLSEnabled {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return opts
}

// Client exposes the underlying go-redis client for repositories.
func (c *Client) Client() *redis.Client {
	return c.client
}

// HealthCheck pings Redis, for the readiness endpoint.
func (c *Client) HealthCheck(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis health check: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (c *Client) Close() error {
	c.logger.Info("closing redis client")
	if err := c.client.Close(); err != nil {
		return fmt.Errorf("close redis: %w", err)
	}
	return nil
}
