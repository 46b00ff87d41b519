package cache

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		locked bool
	}{
		{name: "taken on quorum", err: &redsync.ErrTaken{Nodes: []int{0}}, locked: true},
		{name: "failed", err: redsync.ErrFailed, locked: true},
		{name: "node unreachable", err: fmt.Errorf("node 0: %w", errors.New("dial tcp 127.0.0.1:6379: connect: connection refused")), locked: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := lockError("sweep", tt.err)
			assert.Error(t, err)
			assert.Equal(t, tt.locked, errors.Is(err, ErrLocked))
			if !tt.locked {
				assert.ErrorIs(t, err, tt.err)
			}
		})
	}
}

// unreachableClient points at a closed port so every command fails fast
func unreachableClient(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisCache_Unreachable(t *testing.T) {
	ctx := context.Background()
	c := NewRedisCache(unreachableClient(t), "test:")

	_, err := c.Get(ctx, "k")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMiss, "an outage is not a miss")

	_, err = c.Exists(ctx, "k")
	assert.Error(t, err)

	unlock, err := c.Lock(ctx, "sweep", time.Second)
	require.Error(t, err)
	assert.Nil(t, unlock)
	assert.NotErrorIs(t, err, ErrLocked, "an outage is not contention")

	assert.Error(t, c.HealthCheck(ctx))
}
