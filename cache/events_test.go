package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestNoOpActivityPublisherDoesNothing(t *testing.T) {
	var p NoOpActivityPublisher
	p.Publish(context.Background(), Event{Op: ActivityGet, Key: "k", Result: ResultOK, At: time.Now()})
}

func TestRedisActivityPublisherBroadcasts(t *testing.T) {
	requireLiveRedis(t)

	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	sub := client.Subscribe(ctx, "cache-activity-test")
	defer sub.Close()

	received := make(chan string, 1)
	go func() {
		msg, err := sub.ReceiveMessage(ctx)
		if err == nil {
			received <- msg.Payload
		}
	}()
	time.Sleep(100 * time.Millisecond)

	pub := NewRedisActivityPublisher(client, "cache-activity-test", nil)
	pub.Publish(context.Background(), Event{Op: ActivityPut, Key: "k1", Result: ResultOK, At: time.Now()})

	select {
	case payload := <-received:
		if payload == "" {
			t.Fatal("expected a non-empty payload")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for published activity event")
	}
}
