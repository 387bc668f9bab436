package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aebalz/wellmind-tracker/internal/metrics"
)

// ListPusher is the part of a redis client the sink needs.
type ListPusher interface {
	RPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
}

// RedisSink appends JSON messages to a redis list used as a work queue by the
// notification workers.
type RedisSink struct {
	client ListPusher
	key    string
	now    func() time.Time
}

func NewRedisSink(client ListPusher, key string) *RedisSink {
	return &RedisSink{client: client, key: key, now: time.Now}
}

func (s *RedisSink) Send(ctx context.Context, contact string, reasons []string) error {
	payload, err := json.Marshal(NewMessage(contact, reasons, s.now()))
	if err != nil {
		return fmt.Errorf("error encoding notification: %w", err)
	}
	if err := s.client.RPush(ctx, s.key, payload).Err(); err != nil {
		return fmt.Errorf("error pushing notification to %s: %w", s.key, err)
	}
	metrics.NotificationsSent.WithLabelValues("redis").Inc()
	return nil
}
