package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bayuwidodo/belanja-backend/pkg/config"
	"github.com/redis/go-redis/v9"
)

const (
	keyNamespace      = "belanja"
	webhookPrefix     = "webhook"
	idempotencyPrefix = "idempotency"
)

// Client wraps the redis connection helpers needed by the platform.
type Client struct {
	raw *redis.Client
}

// Pinger exposes the health-check surface.
type Pinger interface {
	Ping(context.Context) error
}

// New bootstraps a Redis client with pooling/timeouts and verifies connectivity.
func New(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	opts, err := optionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	raw := redis.NewClient(opts)
	if err := raw.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Client{raw: raw}, nil
}

// NewFromAddr builds a client against a bare address; used by tests.
func NewFromAddr(addr string) *Client {
	return &Client{raw: redis.NewClient(&redis.Options{Addr: addr})}
}

func optionsFromConfig(cfg config.RedisConfig) (*redis.Options, error) {
	if cfg.URL == "" && cfg.Address == "" {
		return nil, errors.New("redis url or address is required")
	}
	var opts *redis.Options
	if cfg.URL != "" {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{
			Addr:     cfg.Address,
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns
	opts.DialTimeout = cfg.DialTimeout
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout
	return opts, nil
}

// Ping verifies the connection is alive.
func (c *Client) Ping(ctx context.Context) error {
	return c.raw.Ping(ctx).Err()
}

// Close releases pooled connections.
func (c *Client) Close() error {
	return c.raw.Close()
}

// Get fetches the value at key; redis.Nil errors pass through untouched
// so callers can distinguish absence from failure.
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	return c.raw.Get(ctx, key).Result()
}

// SetNX sets key to value only when absent, returning whether it was set.
func (c *Client) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	return c.raw.SetNX(ctx, key, value, ttl).Result()
}

// Del removes the given keys.
func (c *Client) Del(ctx context.Context, keys ...string) error {
	return c.raw.Del(ctx, keys...).Err()
}

// WebhookKey namespaces a provider notification id for replay guarding.
func (c *Client) WebhookKey(provider, notificationID string) string {
	return strings.Join([]string{keyNamespace, webhookPrefix, provider, notificationID}, ":")
}

// IdempotencyKey namespaces a client idempotency key within its request scope.
func (c *Client) IdempotencyKey(scope, key string) string {
	return strings.Join([]string{keyNamespace, idempotencyPrefix, scope, key}, ":")
}
