package notification

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu    sync.Mutex
	calls []Message
	err   error
	block chan struct{}
}

func (s *recordingSink) Send(_ context.Context, contact string, reasons []string) error {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, Message{Contact: contact, Reasons: reasons})
	return s.err
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

type fakePusher struct {
	key    string
	values []interface{}
	err    error
}

func (f *fakePusher) RPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd {
	f.key = key
	f.values = values
	cmd := redis.NewIntCmd(ctx)
	if f.err != nil {
		cmd.SetErr(f.err)
	} else {
		cmd.SetVal(int64(len(values)))
	}
	return cmd
}

func TestNewMessage(t *testing.T) {
	reasons := []string{"high stress", "low mood"}
	msg := NewMessage("ana@example.com", reasons, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))

	assert.Equal(t, "Alert for ana@example.com: high stress, low mood", msg.Text)
	reasons[0] = "changed"
	assert.Equal(t, "high stress", msg.Reasons[0])
}

func TestLogSink_NeverFails(t *testing.T) {
	sink := NewLogSink(zerolog.Nop())
	assert.NoError(t, sink.Send(context.Background(), "ana@example.com", []string{"low mood"}))
}

func TestRedisSink(t *testing.T) {
	t.Run("pushes json payload", func(t *testing.T) {
		pusher := &fakePusher{}
		sink := NewRedisSink(pusher, "wellness.notification")
		sink.now = func() time.Time { return time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC) }

		require.NoError(t, sink.Send(context.Background(), "ana@example.com", []string{"inadequate sleep"}))

		assert.Equal(t, "wellness.notification", pusher.key)
		require.Len(t, pusher.values, 1)
		var msg Message
		require.NoError(t, json.Unmarshal(pusher.values[0].([]byte), &msg))
		assert.Equal(t, "ana@example.com", msg.Contact)
		assert.Equal(t, []string{"inadequate sleep"}, msg.Reasons)
	})

	t.Run("propagates transport errors", func(t *testing.T) {
		sink := NewRedisSink(&fakePusher{err: errors.New("connection refused")}, "q")
		err := sink.Send(context.Background(), "ana@example.com", []string{"low mood"})
		assert.ErrorContains(t, err, "connection refused")
	})
}

func TestQueueSink_DeliversAndDrainsOnStop(t *testing.T) {
	next := &recordingSink{}
	q := NewQueueSink(next, 10, zerolog.Nop())
	q.Start(context.Background())

	for i := 0; i < 5; i++ {
		require.NoError(t, q.Send(context.Background(), "ana@example.com", []string{"low mood"}))
	}
	q.Stop()

	assert.Equal(t, 5, next.count())
	assert.ErrorIs(t, q.Send(context.Background(), "ana@example.com", nil), ErrQueueClosed)
}

func TestQueueSink_DropsWhenFull(t *testing.T) {
	next := &recordingSink{block: make(chan struct{})}
	q := NewQueueSink(next, 1, zerolog.Nop())

	require.NoError(t, q.Send(context.Background(), "a", []string{"low mood"}))
	assert.ErrorIs(t, q.Send(context.Background(), "b", []string{"low mood"}), ErrQueueFull)

	q.Start(context.Background())
	close(next.block)
	q.Stop()
	assert.Equal(t, 1, next.count())
}

func TestQueueSink_DeliveryErrorsAreSwallowed(t *testing.T) {
	next := &recordingSink{err: errors.New("smtp down")}
	q := NewQueueSink(next, 2, zerolog.Nop())
	q.Start(context.Background())

	assert.NoError(t, q.Send(context.Background(), "a", []string{"high stress"}))
	q.Stop()
	assert.Equal(t, 1, next.count())
}
