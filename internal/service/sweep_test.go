package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"accessibilityhire/internal/logger"
	"accessibilityhire/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageSweeper_RemovesOnlyOrphans(t *testing.T) {
	env := newTestEnv(t)
	ctx := env.signIn(t, "ada@example.com")

	_, err := env.auth.UploadProfileImage(ctx, model.Upload{FileName: "kept.png", ContentType: "image/png", Reader: strings.NewReader(pngHeader)})
	require.NoError(t, err)
	_, err = env.store.Put(ctx, "profileImages/someone/orphan.png", "image/png", strings.NewReader("b"))
	require.NoError(t, err)

	sweeper := NewImageSweeper(env.repos.Users, env.store, env.cfg.Storage.PublicBaseURL, time.Hour, logger.Discard())

	removed, err := sweeper.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, removed, "young objects are within the grace period")

	sweeper.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	removed, err = sweeper.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	objects, err := env.store.List(context.Background(), ProfileImagePrefix+"/")
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.True(t, strings.HasSuffix(objects[0].Path, "/kept.png"))
}
