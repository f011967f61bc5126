package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/diewo77/go-demenagement/internal/logging"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ChannelPrefix is prepended to the relation name to form the pub/sub channel.
const ChannelPrefix = "changes:"

// Redis is a Broker over Redis pub/sub, shared by every server instance.
type Redis struct {
	client *redis.Client
}

// NewRedis wraps an existing client.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// Channel returns the pub/sub channel for relation.
func Channel(relation string) string { return ChannelPrefix + relation }

// Publish sends e as JSON on the relation channel.
func (r *Redis) Publish(ctx context.Context, e Event) error {
	if e.At.IsZero() {
		e.At = time.Now()
	}
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := r.client.Publish(ctx, Channel(e.Relation), payload).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", e.Relation, err)
	}
	return nil
}

// Subscribe listens on the relation channel. Messages that do not decode are
// logged and skipped.
func (r *Redis) Subscribe(ctx context.Context, relation string) (<-chan Event, func()) {
	ctx, stop := context.WithCancel(ctx)
	pubsub := r.client.Subscribe(ctx, Channel(relation))
	out := make(chan Event, subscriberBuffer)

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			stop()
			if err := pubsub.Close(); err != nil {
				logging.LogError(logging.Get(), "feed", "Subscribe", "close pubsub", relation, err)
			}
		})
	}

	go func() {
		defer close(out)
		msgs := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var e Event
				if err := json.Unmarshal([]byte(msg.Payload), &e); err != nil {
					logging.Get().WithFields(logrus.Fields{
						"module":  "feed",
						"channel": msg.Channel,
					}).WithError(err).Warn("undecodable change event")
					continue
				}
				select {
				case out <- e:
				default:
				}
			}
		}
	}()
	go func() {
		<-ctx.Done()
		cancel()
	}()
	return out, cancel
}

// Close is a no-op; the client is owned by the caller.
func (r *Redis) Close() error { return nil }
