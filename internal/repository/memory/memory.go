// Package memory provides in-process implementations of the repository
// interfaces. They follow the MongoDB implementations' semantics, including
// unique indexes and owner-filtered writes, and are used by DATA_STORE=memory
// and by tests.
package memory

import (
	"sort"
	"sync"
	"time"

	"accessibilityhire/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// New returns a fresh set of empty repositories
func New() *repository.Repositories {
	return &repository.Repositories{
		Users:    NewUserRepository(),
		Orgs:     NewOrgRepository(),
		JobPosts: NewJobPostRepository(),
		Jobs:     NewJobRepository(),
	}
}

// clock yields strictly increasing timestamps so that newest-first
// ordering is deterministic even within one clock tick.
type clock struct {
	mu   sync.Mutex
	last time.Time
}

func (c *clock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := time.Now().UTC()
	if !t.After(c.last) {
		t = c.last.Add(time.Microsecond)
	}
	c.last = t
	return t
}

func newestFirst[T any](items []T, createdAt func(T) time.Time, id func(T) primitive.ObjectID) {
	sort.SliceStable(items, func(i, j int) bool {
		ci, cj := createdAt(items[i]), createdAt(items[j])
		if !ci.Equal(cj) {
			return ci.After(cj)
		}
		a, b := id(items[i]), id(items[j])
		return a.Hex() > b.Hex()
	})
}
