package notify

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisSink publishes messages to a Redis pub/sub channel so other
// consumers of the shared Redis can observe monitoring events.
type RedisSink struct {
	client  *redis.Client
	channel string
}

func NewRedisSink(client *redis.Client, channel string) *RedisSink {
	return &RedisSink{
		client:  client,
		channel: channel,
	}
}

func (s *RedisSink) Name() string {
	return "redis"
}

func (s *RedisSink) Send(ctx context.Context, text string) error {
	if err := s.client.Publish(ctx, s.channel, text).Err(); err != nil {
		return fmt.Errorf("redis publish failed: %w", err)
	}
	return nil
}
