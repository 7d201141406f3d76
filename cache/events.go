package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// ActivityOp names the operation an Event reports on.
type ActivityOp string

const (
	ActivityGet        ActivityOp = "get"
	ActivityPut        ActivityOp = "put"
	ActivityDelete     ActivityOp = "delete"
	ActivityInvalidate ActivityOp = "invalidate"
)

// Event describes one completed Token operation, for the benefit of an
// out-of-scope admin or observability surface. It carries no values --
// only enough to say what happened and to what key or words.
type Event struct {
	Op     ActivityOp
	Key    string
	Words  []string
	Result ResultCode
	At     time.Time
}

// ActivityPublisher is notified after every completed Token operation.
// Publish runs on the pool goroutine that ran the operation, before the
// callback is posted to the token's worker, so implementations must not
// block for long and must
// never make the cache operation itself fail -- a publish error is
// logged and dropped.
type ActivityPublisher interface {
	Publish(ctx context.Context, ev Event)
}

// NoOpActivityPublisher discards every event. It is the default.
type NoOpActivityPublisher struct{}

func (NoOpActivityPublisher) Publish(context.Context, Event) {}

// RedisActivityPublisher broadcasts events as JSON on a Redis Pub/Sub
// channel. It is a one-way observability feed, not a coherence
// mechanism: nothing in this module subscribes to its own channel.
type RedisActivityPublisher struct {
	client  *redis.Client
	channel string
	logger  Logger
}

// NewRedisActivityPublisher returns a publisher that broadcasts on
// channel using client. client is not owned by the publisher and is not
// closed by it.
func NewRedisActivityPublisher(client *redis.Client, channel string, logger Logger) *RedisActivityPublisher {
	if logger == nil {
		logger = NewNoOpLogger()
	}
	return &RedisActivityPublisher{client: client, channel: channel, logger: logger}
}

type wireEvent struct {
	Op     string   `json:"op"`
	Key    string   `json:"key,omitempty"`
	Words  []string `json:"words,omitempty"`
	Result string   `json:"result"`
	At     int64    `json:"at"`
}

// Publish implements ActivityPublisher. Failures are logged at Warn and
// otherwise ignored.
func (p *RedisActivityPublisher) Publish(ctx context.Context, ev Event) {
	payload, err := json.Marshal(wireEvent{
		Op:     string(ev.Op),
		Key:    ev.Key,
		Words:  ev.Words,
		Result: ev.Result.String(),
		At:     ev.At.UnixMilli(),
	})
	if err != nil {
		p.logger.Warn("activity: could not marshal event", "op", ev.Op, "error", err)
		return
	}
	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		p.logger.Warn("activity: could not publish event", "op", ev.Op, "error", err)
	}
}
