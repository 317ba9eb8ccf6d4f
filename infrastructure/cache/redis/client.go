// Package redis caches forecast responses.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/bizpredict-api/internal/config"
	"github.com/vfg2006/bizpredict-api/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const keyPrefix = "bizpredict:forecast:"

type Client struct {
	client *redis.Client
	ttl    time.Duration
}

func NewClient(ctx context.Context, cfg config.Redis) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if _, err := client.Ping(ctx).Result(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: connecting to %s: %w", cfg.Addr, err)
	}

	logrus.WithField("addr", cfg.Addr).Info("redis: forecast cache connected")

	return New(client, cfg.TTL), nil
}

// New wraps an existing client. A non-positive ttl keeps entries until evicted.
func New(client *redis.Client, ttl time.Duration) *Client {
	if ttl < 0 {
		ttl = 0
	}
	return &Client{client: client, ttl: ttl}
}

func (c *Client) Close() error {
	return c.client.Close()
}

func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *Client) Get(ctx context.Context, key string) (*domain.ForecastResponse, error) {
	data, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis: reading %s: %w", key, err)
	}

	var response domain.ForecastResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, fmt.Errorf("redis: decoding %s: %w", key, err)
	}

	logrus.WithField("key", key).Debug("redis: forecast cache hit")
	return &response, nil
}

func (c *Client) Set(ctx context.Context, key string, response *domain.ForecastResponse) error {
	data, err := json.Marshal(response)
	if err != nil {
		return fmt.Errorf("redis: encoding %s: %w", key, err)
	}

	if err := c.client.Set(ctx, keyPrefix+key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis: writing %s: %w", key, err)
	}

	return nil
}
