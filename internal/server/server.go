package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"accessibilityhire/internal/cache"
	"accessibilityhire/internal/config"
	"accessibilityhire/internal/feed"
	"accessibilityhire/internal/handler"
	"accessibilityhire/internal/oauth"
	"accessibilityhire/internal/repository"
	"accessibilityhire/internal/repository/memory"
	"accessibilityhire/internal/scheduler"
	"accessibilityhire/internal/version"
	"accessibilityhire/pkg/storage"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	connectTimeout  = 10 * time.Second
	shutdownTimeout = 10 * time.Second
)

// Server represents the HTTP server
type Server struct {
	cfg       *config.Config
	log       *logrus.Logger
	router    *gin.Engine
	handler   http.Handler
	mongo     *mongo.Client
	redis     *redis.Client
	deps      *Deps
	services  *Services
	scheduler *scheduler.Scheduler
}

// New connects to the configured infrastructure and builds the server
func New(cfg *config.Config, log *logrus.Logger) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	entry := logrus.NewEntry(log)

	deps := &Deps{Health: map[string]handler.Pinger{}}
	var mongoClient *mongo.Client
	var db *mongo.Database

	switch cfg.DataStore {
	case config.DataStoreMemory:
		entry.Warn("using in-memory data store; data is lost on restart")
		if cfg.Auth.UsesDefaultSecret() {
			entry.Warn("signing sessions with the built-in development JWT secret")
		}
		deps.Repos = memory.New()
	case config.DataStoreMongo:
		client, err := Connect(ctx, cfg)
		if err != nil {
			return nil, err
		}
		mongoClient = client
		db = client.Database(cfg.Mongo.Database)
		if err := repository.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, fmt.Errorf("failed to ensure indexes: %w", err)
		}
		deps.Repos = InitRepositories(db)
		deps.Health["mongo"] = mongoPinger{client}
	default:
		return nil, fmt.Errorf("unknown DATA_STORE %q", cfg.DataStore)
	}

	store, err := newObjectStore(cfg, db, entry)
	if err != nil {
		return nil, err
	}
	deps.Store = store

	var redisClient *redis.Client
	if cfg.Redis.URL != "" {
		redisClient, err = cache.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			if mongoClient != nil {
				_ = mongoClient.Disconnect(context.Background())
			}
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		rc := cache.NewRedisCache(redisClient, "hire:")
		deps.Cache = rc
		deps.Feed = feed.NewRedisFeed(redisClient, entry)
		deps.Health["redis"] = rc
	} else {
		deps.Cache = cache.NewMemoryCache()
		deps.Feed = feed.NewLocalFeed()
	}

	if cfg.Google.Enabled() {
		deps.Google = oauth.NewGoogleProvider(cfg.Google)
	}

	srv := Build(cfg, log, deps)
	srv.mongo = mongoClient
	srv.redis = redisClient
	return srv, nil
}

// Build assembles the server from ready clients without connecting anywhere
func Build(cfg *config.Config, log *logrus.Logger, deps *Deps) *Server {
	entry := logrus.NewEntry(log)
	if deps.Health == nil {
		deps.Health = map[string]handler.Pinger{}
	}
	services := InitServices(cfg, deps, entry)
	handlers := InitHandlers(cfg, services, deps, entry)
	router := setupRouter(cfg, handlers, services, deps, log)

	return &Server{
		cfg:       cfg,
		log:       log,
		router:    router,
		handler:   withCORS(cfg, router),
		deps:      deps,
		services:  services,
		scheduler: scheduler.New(services.Sweeper, deps.Cache, cfg.Sweep.IntervalHours, entry),
	}
}

// Connect opens and pings the MongoDB client
func Connect(ctx context.Context, cfg *config.Config) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return client, nil
}

func newObjectStore(cfg *config.Config, db *mongo.Database, log *logrus.Entry) (storage.ObjectStore, error) {
	driver := cfg.Storage.Driver
	if driver == config.StorageGridFS && db == nil {
		log.Warn("GridFS needs MongoDB; falling back to disk storage")
		driver = config.StorageDisk
	}
	switch driver {
	case config.StorageGridFS:
		return storage.NewGridFSStore(db, cfg.Storage.Bucket), nil
	case config.StorageDisk:
		return storage.NewDiskStore(cfg.Storage.Dir)
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.Storage.Driver)
	}
}

// Handler is the root HTTP handler, CORS included
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Services exposes the wired services to commands
func (s *Server) Services() *Services {
	return s.services
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	if s.cfg.Sweep.Enabled {
		if err := s.scheduler.Start(ctx); err != nil {
			return err
		}
		defer s.scheduler.Stop()
	}

	httpServer := &http.Server{
		Addr:              s.cfg.Server.Address(),
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithFields(logrus.Fields{"addr": httpServer.Addr, "version": version.Get().String()}).Info("server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	// hijacked websocket connections are not tracked by Shutdown
	_ = s.deps.Feed.Close()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Close releases the infrastructure clients
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	if s.redis != nil {
		errs = append(errs, s.redis.Close())
	}
	if s.mongo != nil {
		errs = append(errs, s.mongo.Disconnect(ctx))
	}
	return errors.Join(errs...)
}

type mongoPinger struct {
	client *mongo.Client
}

func (p mongoPinger) HealthCheck(ctx context.Context) error {
	return p.client.Ping(ctx, readpref.Primary())
}
