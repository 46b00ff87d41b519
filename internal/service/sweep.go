package service

import (
	"context"
	"fmt"
	"time"

	"accessibilityhire/internal/repository"
	"accessibilityhire/pkg/storage"
	"accessibilityhire/pkg/timer"

	"github.com/sirupsen/logrus"
)

// ImageSweeper removes profile images that no user references any more
type ImageSweeper struct {
	users   repository.IUserRepository
	store   storage.ObjectStore
	baseURL string
	grace   time.Duration
	log     *logrus.Entry
	now     func() time.Time
}

// NewImageSweeper creates a sweeper. Objects younger than grace are kept so
// that an upload whose profile update is still in flight survives.
func NewImageSweeper(users repository.IUserRepository, store storage.ObjectStore, baseURL string, grace time.Duration, log *logrus.Entry) *ImageSweeper {
	return &ImageSweeper{
		users:   users,
		store:   store,
		baseURL: baseURL,
		grace:   grace,
		log:     log.WithField("component", "sweeper"),
		now:     time.Now,
	}
}

// Sweep deletes orphaned profile images and reports how many were removed
func (s *ImageSweeper) Sweep(ctx context.Context) (int, error) {
	sw := timer.NewStopwatch(s.log)

	objects, err := s.store.List(ctx, ProfileImagePrefix+"/")
	if err != nil {
		return 0, fmt.Errorf("list profile images: %w", err)
	}
	sw.Lap("list")

	cutoff := s.now().Add(-s.grace)
	removed := 0
	for _, obj := range objects {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if obj.UpdatedAt.After(cutoff) {
			continue
		}
		refs, err := s.users.CountByPhotoURL(ctx, storage.PublicURL(s.baseURL, obj.Path))
		if err != nil {
			return removed, fmt.Errorf("count references to %s: %w", obj.Path, err)
		}
		if refs > 0 {
			continue
		}
		if err := s.store.Delete(ctx, obj.Path); err != nil {
			s.log.WithError(err).WithField("path", obj.Path).Warn("failed to delete orphaned image")
			continue
		}
		removed++
	}

	sw.Total("sweep")
	s.log.WithFields(logrus.Fields{"scanned": len(objects), "removed": removed}).Info("orphan sweep complete")
	return removed, nil
}
