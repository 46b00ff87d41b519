package server

import (
	"strings"
	"time"

	"accessibilityhire/internal/cache"
	"accessibilityhire/internal/config"
	"accessibilityhire/internal/feed"
	"accessibilityhire/internal/handler"
	"accessibilityhire/internal/oauth"
	"accessibilityhire/internal/repository"
	"accessibilityhire/internal/service"
	"accessibilityhire/internal/session"
	"accessibilityhire/pkg/storage"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
)

// Deps are the infrastructure clients every component is built from
type Deps struct {
	Repos  *repository.Repositories
	Cache  cache.Cache
	Feed   feed.Feed
	Store  storage.ObjectStore
	Google oauth.Provider // nil disables Google sign-in
	Health map[string]handler.Pinger
}

// Services groups the business services
type Services struct {
	Sessions *session.Manager
	Auth     *service.AuthService
	Orgs     *service.OrgService
	JobPosts *service.JobPostService
	Jobs     *service.JobService
	Sweeper  *service.ImageSweeper
}

// Handlers groups the HTTP handlers
type Handlers struct {
	Auth    *handler.AuthHandler
	Org     *handler.OrgHandler
	JobPost *handler.JobPostHandler
	Job     *handler.JobHandler
	Files   *handler.FileHandler
	Feed    *handler.FeedHandler
	Health  *handler.HealthHandler
}

// InitRepositories builds the MongoDB repositories
func InitRepositories(db *mongo.Database) *repository.Repositories {
	return &repository.Repositories{
		Users:    repository.NewUserRepository(db),
		Orgs:     repository.NewOrgRepository(db),
		JobPosts: repository.NewJobPostRepository(db),
		Jobs:     repository.NewJobRepository(db),
	}
}

// InitServices wires the services to their stores
func InitServices(cfg *config.Config, deps *Deps, log *logrus.Entry) *Services {
	sessions := session.NewManager(cfg.Auth, deps.Cache)
	grace := time.Duration(cfg.Sweep.GraceMinutes) * time.Minute
	return &Services{
		Sessions: sessions,
		Auth:     service.NewAuthService(cfg, deps.Repos.Users, sessions, deps.Google, deps.Store, log),
		Orgs:     service.NewOrgService(deps.Repos.Orgs, log),
		JobPosts: service.NewJobPostService(deps.Repos.JobPosts, deps.Repos.Orgs, deps.Feed, log),
		Jobs:     service.NewJobService(deps.Repos.Jobs, cfg.Jobs, deps.Feed, log),
		Sweeper:  service.NewImageSweeper(deps.Repos.Users, deps.Store, cfg.Storage.PublicBaseURL, grace, log),
	}
}

// InitHandlers creates the HTTP handlers
func InitHandlers(cfg *config.Config, s *Services, deps *Deps, log *logrus.Entry) *Handlers {
	return &Handlers{
		Auth:    handler.NewAuthHandler(s.Auth, strings.HasPrefix(cfg.Storage.PublicBaseURL, "https://")),
		Org:     handler.NewOrgHandler(s.Orgs),
		JobPost: handler.NewJobPostHandler(s.JobPosts),
		Job:     handler.NewJobHandler(s.Jobs),
		Files:   handler.NewFileHandler(deps.Store),
		Feed:    handler.NewFeedHandler(deps.Feed, cfg.CORS, log),
		Health:  handler.NewHealthHandler(deps.Health),
	}
}
