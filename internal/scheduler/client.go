package scheduler

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"assembly_portal_backend/platform/config"
)

const defaultQueue = "default"

// Client enqueues background tasks. A nil client silently drops tasks so
// callers need no redis guard of their own.
type Client struct {
	client *asynq.Client
}

// NewClient creates a task client from the redis configuration.
func NewClient(cfg config.RedisConfig) (*Client, error) {
	opt, err := redisClientOpt(cfg.GetRedisURL())
	if err != nil {
		return nil, err
	}
	return &Client{client: asynq.NewClient(opt)}, nil
}

// Close releases the underlying redis connections.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// EnqueueOrderConfirmation queues the order confirmation email task.
func (c *Client) EnqueueOrderConfirmation(ctx context.Context, payload OrderConfirmationPayload) error {
	if c == nil || c.client == nil {
		return nil
	}
	task, err := NewOrderConfirmationTask(payload)
	if err != nil {
		return err
	}
	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(defaultQueue), asynq.MaxRetry(5))
	return err
}

// EnqueueWelcomeEmail queues the welcome email task.
func (c *Client) EnqueueWelcomeEmail(ctx context.Context, payload WelcomeEmailPayload) error {
	if c == nil || c.client == nil {
		return nil
	}
	task, err := NewWelcomeEmailTask(payload)
	if err != nil {
		return err
	}
	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(defaultQueue), asynq.MaxRetry(5))
	return err
}

func redisClientOpt(redisURL string) (asynq.RedisClientOpt, error) {
	if redisURL == "" {
		return asynq.RedisClientOpt{}, fmt.Errorf("redis url not configured")
	}
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, fmt.Errorf("parse redis url: %w", err)
	}
	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: opt.TLSConfig,
	}, nil
}
