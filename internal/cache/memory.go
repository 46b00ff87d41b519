package cache

import (
	"context"
	"strconv"
	"sync"
	"time"
)

type entry struct {
	value   []byte
	expires time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expires.IsZero() && !now.Before(e.expires)
}

// MemoryCache is a process-local Cache
type MemoryCache struct {
	mu    sync.Mutex
	items map[string]entry
	locks map[string]entry
	seq   uint64
	now   func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		items: make(map[string]entry),
		locks: make(map[string]entry),
		now:   time.Now,
	}
}

func (m *MemoryCache) expiry(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return m.now().Add(ttl)
}

func (m *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := make([]byte, len(value))
	copy(v, value)
	m.items[key] = entry{value: v, expires: m.expiry(ttl)}
	return nil
}

func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.items[key]
	if !ok || e.expired(m.now()) {
		delete(m.items, key)
		return nil, ErrMiss
	}
	v := make([]byte, len(e.value))
	copy(v, e.value)
	return v, nil
}

func (m *MemoryCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

func (m *MemoryCache) Exists(ctx context.Context, key string) (bool, error) {
	_, err := m.Get(ctx, key)
	if err == ErrMiss {
		return false, nil
	}
	return err == nil, err
}

func (m *MemoryCache) Lock(_ context.Context, name string, ttl time.Duration) (Unlock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if l, ok := m.locks[name]; ok && !l.expired(m.now()) {
		return nil, ErrLocked
	}
	m.seq++
	token := strconv.FormatUint(m.seq, 10)
	m.locks[name] = entry{value: []byte(token), expires: m.expiry(ttl)}
	return func(context.Context) error {
		m.mu.Lock()
		defer m.mu.Unlock()
		if l, ok := m.locks[name]; ok && string(l.value) == token {
			delete(m.locks, name)
		}
		return nil
	}, nil
}

func (m *MemoryCache) HealthCheck(context.Context) error { return nil }

func (m *MemoryCache) Close() error { return nil }
