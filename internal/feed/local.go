package feed

import (
	"context"
	"sync"

	"accessibilityhire/internal/model"
)

// LocalFeed fans events out within the process
type LocalFeed struct {
	mu     sync.RWMutex
	subs   map[chan model.Event]struct{}
	closed bool
}

func NewLocalFeed() *LocalFeed {
	return &LocalFeed{subs: make(map[chan model.Event]struct{})}
}

func (f *LocalFeed) Publish(_ context.Context, evt model.Event) error {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for ch := range f.subs {
		select {
		case ch <- evt:
		default:
		}
	}
	return nil
}

func (f *LocalFeed) Subscribe(ctx context.Context) (<-chan model.Event, func(), error) {
	ch := make(chan model.Event, subscriberBuffer)
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		close(ch)
		return ch, func() {}, nil
	}
	f.subs[ch] = struct{}{}
	f.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			f.mu.Lock()
			if _, ok := f.subs[ch]; ok {
				delete(f.subs, ch)
				close(ch)
			}
			f.mu.Unlock()
		})
	}
	go func() {
		<-ctx.Done()
		cancel()
	}()
	return ch, cancel, nil
}

func (f *LocalFeed) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.subs {
		delete(f.subs, ch)
		close(ch)
	}
	f.closed = true
	return nil
}
