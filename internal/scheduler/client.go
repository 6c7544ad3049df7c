package scheduler

import (
	"context"
	"time"

	"sakkanal_backend/internal/email"
	"sakkanal_backend/platform/config"
	"sakkanal_backend/platform/redisconn"

	"github.com/hibiken/asynq"
)

const (
	defaultQueue = "default"
	maxRetry     = 5
	taskTimeout  = time.Minute
)

// Client enqueues sales notifications for the worker process.
type Client struct {
	client *asynq.Client
	queue  string
}

func NewClient(cfg config.SchedulerConfig) (*Client, error) {
	opt, err := redisClientOpt(cfg)
	if err != nil {
		return nil, err
	}
	return &Client{
		client: asynq.NewClient(opt),
		queue:  queueName(cfg),
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

func (c *Client) EnqueueLeadNotification(ctx context.Context, payload email.LeadNotification) error {
	if c == nil || c.client == nil {
		return nil
	}
	task, err := NewLeadNotificationTask(payload)
	if err != nil {
		return err
	}
	_, err = c.client.EnqueueContext(ctx, task, c.options()...)
	return err
}

func (c *Client) EnqueueContactMessage(ctx context.Context, payload email.ContactMessage) error {
	if c == nil || c.client == nil {
		return nil
	}
	task, err := NewContactMessageTask(payload)
	if err != nil {
		return err
	}
	_, err = c.client.EnqueueContext(ctx, task, c.options()...)
	return err
}

func (c *Client) options() []asynq.Option {
	return []asynq.Option{
		asynq.Queue(c.queue),
		asynq.MaxRetry(maxRetry),
		asynq.Timeout(taskTimeout),
	}
}

func redisClientOpt(cfg config.SchedulerConfig) (asynq.RedisClientOpt, error) {
	opt, err := redisconn.Options(cfg.GetRedisURL(), cfg.GetRedisTLSInsecure())
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}
	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Username:  opt.Username,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: opt.TLSConfig,
	}, nil
}

func queueName(cfg config.SchedulerConfig) string {
	if q := cfg.GetAsynqQueueName(); q != "" {
		return q
	}
	return defaultQueue
}
