package service

import (
	"context"
	"testing"

	"accessibilityhire/internal/cache"
	"accessibilityhire/internal/config"
	"accessibilityhire/internal/feed"
	"accessibilityhire/internal/logger"
	"accessibilityhire/internal/oauth"
	"accessibilityhire/internal/repository"
	"accessibilityhire/internal/repository/memory"
	"accessibilityhire/internal/session"
	"accessibilityhire/pkg/storage"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type testEnv struct {
	cfg      *config.Config
	repos    *repository.Repositories
	sessions *session.Manager
	store    *storage.DiskStore
	events   *feed.LocalFeed
	google   *fakeGoogle

	auth     *AuthService
	orgs     *OrgService
	jobPosts *JobPostService
	jobs     *JobService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := config.New()
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.BcryptCost = 4
	cfg.Storage.PublicBaseURL = "http://files.test"
	cfg.Storage.MaxUploadMB = 1
	cfg.Jobs = config.JobsConfig{DefaultLimit: 100, MaxLimit: 500}

	store, err := storage.NewDiskStore(t.TempDir())
	require.NoError(t, err)

	log := logger.Discard()
	repos := memory.New()
	sessions := session.NewManager(cfg.Auth, cache.NewMemoryCache())
	events := feed.NewLocalFeed()
	google := &fakeGoogle{}

	return &testEnv{
		cfg:      cfg,
		repos:    repos,
		sessions: sessions,
		store:    store,
		events:   events,
		google:   google,
		auth:     NewAuthService(cfg, repos.Users, sessions, google, store, log),
		orgs:     NewOrgService(repos.Orgs, log),
		jobPosts: NewJobPostService(repos.JobPosts, repos.Orgs, events, log),
		jobs:     NewJobService(repos.Jobs, cfg.Jobs, events, log),
	}
}

// signIn registers a user and returns a context carrying its session
func (e *testEnv) signIn(t *testing.T, email string) context.Context {
	t.Helper()
	ctx := context.Background()
	res, err := e.auth.SignUpWithEmail(ctx, email, "secret123")
	require.NoError(t, err)
	caller, err := e.sessions.Parse(ctx, res.Token)
	require.NoError(t, err)
	return session.WithCaller(ctx, caller)
}

func callerID(t *testing.T, ctx context.Context) primitive.ObjectID {
	t.Helper()
	c, ok := session.CallerFrom(ctx)
	require.True(t, ok)
	return c.UserID
}

// pngHeader is the PNG signature, enough for content detection
const pngHeader = "\x89PNG\r\n\x1a\n"

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool { return &b }
func floatPtr(f float64) *float64 { return &f }

type fakeGoogle struct {
	identity *oauth.Identity
	err      error
}

func (f *fakeGoogle) AuthCodeURL(state string) string {
	return "https://accounts.google.test/auth?state=" + state
}

func (f *fakeGoogle) Exchange(context.Context, string) (*oauth.Identity, error) {
	return f.identity, f.err
}

var _ oauth.Provider = (*fakeGoogle)(nil)
