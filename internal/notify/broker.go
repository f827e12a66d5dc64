package notify

import (
	"context"
	"encoding/json"

	"github.com/anxyhq/anxy-backend/internal/models"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// EventKind distinguishes the two row-change classes carried on the bus.
type EventKind string

const (
	EventInsert EventKind = "insert"
	EventUpdate EventKind = "update"
)

// Event is a notification row change pushed to the recipient's channel.
type Event struct {
	Kind         EventKind           `json:"kind"`
	Notification models.Notification `json:"notification"`
}

// Publisher pushes notification events onto the per-user channel.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Subscription is a standing per-user event stream. At most one subscription
// exists per mounted feed; Close releases the underlying channel.
type Subscription interface {
	Events() <-chan Event
	Close() error
}

// Subscriber opens per-user event streams.
type Subscriber interface {
	Subscribe(ctx context.Context, userID string) (Subscription, error)
}

// Broker is a Redis pub/sub implementation of Publisher and Subscriber.
// Channel layout: one channel per recipient, events JSON-encoded.
type Broker struct {
	rdb    *redis.Client
	logger *zap.Logger
}

// NewBroker creates a Broker on top of an established Redis client
func NewBroker(rdb *redis.Client, logger *zap.Logger) *Broker {
	return &Broker{rdb: rdb, logger: logger}
}

func channelFor(userID string) string {
	return "notify:user:" + userID
}

// Publish sends the event to the recipient's channel
func (b *Broker) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, channelFor(event.Notification.UserID), payload).Err()
}

type redisSubscription struct {
	pubsub *redis.PubSub
	events chan Event
}

func (s *redisSubscription) Events() <-chan Event { return s.events }

func (s *redisSubscription) Close() error { return s.pubsub.Close() }

// Subscribe opens the per-user channel and decodes incoming payloads.
// Payloads that fail to decode are logged and skipped; the stream stays open.
func (b *Broker) Subscribe(ctx context.Context, userID string) (Subscription, error) {
	pubsub := b.rdb.Subscribe(ctx, channelFor(userID))
	sub := &redisSubscription{
		pubsub: pubsub,
		events: make(chan Event, 16),
	}

	go func() {
		defer close(sub.events)
		for msg := range pubsub.Channel() {
			var event Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				b.logger.Warn("dropping malformed notify payload",
					zap.String("user_id", userID),
					zap.Error(err))
				continue
			}
			sub.events <- event
		}
	}()

	return sub, nil
}
