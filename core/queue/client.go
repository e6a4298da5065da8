package queue

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hibiken/asynq"
)

// ErrDisabled is returned when enqueueing on a disabled queue.
var ErrDisabled = errors.New("queue disabled")

// Client wraps the asynq client.
type Client struct {
	client *asynq.Client
	queue  string
}

// NewClient creates a queue client. A disabled configuration yields a client
// whose Enabled method reports false.
func NewClient(cfg Config) *Client {
	if !cfg.Enabled {
		return &Client{queue: QueueName(cfg)}
	}
	return &Client{
		client: asynq.NewClient(RedisOpt(cfg)),
		queue:  QueueName(cfg),
	}
}

// Enabled reports whether tasks can be enqueued.
func (c *Client) Enabled() bool {
	return c != nil && c.client != nil
}

// Close closes the client.
func (c *Client) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}

// EnqueueSyncOrderEvents schedules an event sync for one order and returns the task id.
func (c *Client) EnqueueSyncOrderEvents(ctx context.Context, foID string) (string, error) {
	if !c.Enabled() {
		return "", ErrDisabled
	}
	task, err := NewSyncOrderEventsTask(SyncOrderEventsPayload{FoID: foID})
	if err != nil {
		return "", err
	}
	info, err := c.client.EnqueueContext(ctx, task, asynq.Queue(c.queue), asynq.MaxRetry(3))
	if err != nil {
		return "", fmt.Errorf("enqueue %s: %w", TaskSyncOrderEvents, err)
	}
	return info.ID, nil
}

// RedisOpt builds the asynq redis connection options.
func RedisOpt(cfg Config) asynq.RedisClientOpt {
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.Port
	if port <= 0 {
		port = 6379
	}
	return asynq.RedisClientOpt{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

// ServerConfig builds the asynq worker configuration.
func ServerConfig(cfg Config) asynq.Config {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}
	return asynq.Config{
		Concurrency: concurrency,
		Queues:      map[string]int{QueueName(cfg): 1},
	}
}

// QueueName returns the configured queue name with its default applied.
func QueueName(cfg Config) string {
	if name := strings.TrimSpace(cfg.Name); name != "" {
		return name
	}
	return "freight"
}
