package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"accessibilityhire/internal/model"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// RedisFeed shares events between server instances over Redis pub/sub
type RedisFeed struct {
	client  *redis.Client
	channel string
	log     *logrus.Entry
}

func NewRedisFeed(client *redis.Client, log *logrus.Entry) *RedisFeed {
	return &RedisFeed{client: client, channel: Channel, log: log.WithField("component", "feed")}
}

func (f *RedisFeed) Publish(ctx context.Context, evt model.Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := f.client.Publish(ctx, f.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", evt.Type, err)
	}
	return nil
}

func (f *RedisFeed) Subscribe(ctx context.Context) (<-chan model.Event, func(), error) {
	ctx, stop := context.WithCancel(ctx)
	pubsub := f.client.Subscribe(ctx, f.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		stop()
		_ = pubsub.Close()
		return nil, nil, fmt.Errorf("subscribe %s: %w", f.channel, err)
	}

	out := make(chan model.Event, subscriberBuffer)
	msgs := pubsub.Channel()
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var evt model.Event
				if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
					f.log.WithError(err).Warn("dropping malformed feed event")
					continue
				}
				select {
				case out <- evt:
				default:
				}
			}
		}
	}()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			stop()
			_ = pubsub.Close()
		})
	}
	return out, cancel, nil
}

// Close is a no-op; the shared client is closed by its owner.
func (f *RedisFeed) Close() error { return nil }
