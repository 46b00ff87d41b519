// Package feed broadcasts job and job-post change events to live subscribers.
package feed

import (
	"context"

	"accessibilityhire/internal/model"
)

// Channel is the pub/sub channel events are published on
const Channel = "EVENT_JOBS_CHANGED"

// subscriberBuffer bounds each subscriber queue; a slow subscriber misses events.
const subscriberBuffer = 64

// Feed publishes events and hands out subscriptions
type Feed interface {
	Publish(ctx context.Context, evt model.Event) error
	// Subscribe returns a channel of events that is closed when cancel is
	// called or ctx ends.
	Subscribe(ctx context.Context) (events <-chan model.Event, cancel func(), err error)
	Close() error
}
