package server

import (
	"net/http"
	"time"

	"accessibilityhire/internal/config"
	"accessibilityhire/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

// IdempotencyTTL is how long a create response is replayable
const IdempotencyTTL = 24 * time.Hour

func setupRouter(cfg *config.Config, h *Handlers, s *Services, deps *Deps, log *logrus.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log))
	r.MaxMultipartMemory = cfg.Storage.MaxUploadBytes()
	_ = r.SetTrustedProxies(nil)

	r.GET("/health", h.Health.Health)
	r.GET("/version", h.Health.Version)
	r.GET("/files/*path", h.Files.Serve)

	api := r.Group("/api")
	requireAuth := middleware.RequireAuth(s.Sessions)
	idempotent := middleware.Idempotency(deps.Cache, IdempotencyTTL, logrus.NewEntry(log).WithField("component", "idempotency"))

	auth := api.Group("/auth")
	{
		auth.POST("/signup", h.Auth.SignUp)
		auth.POST("/signin", h.Auth.SignIn)
		auth.POST("/signout", requireAuth, h.Auth.SignOut)
		auth.GET("/google/login", h.Auth.GoogleLogin)
		auth.POST("/google/callback", h.Auth.GoogleCallback)
		auth.GET("/me", requireAuth, h.Auth.Me)
		auth.PATCH("/profile", requireAuth, h.Auth.UpdateProfile)
		auth.POST("/profile/image", requireAuth, h.Auth.UploadProfileImage)
	}

	orgs := api.Group("/organizations")
	{
		orgs.GET("", h.Org.List)
		orgs.POST("", requireAuth, idempotent, h.Org.Create)
		orgs.GET("/me", requireAuth, h.Org.GetMine)
		orgs.PATCH("/:id", requireAuth, h.Org.Update)
	}

	posts := api.Group("/job-posts")
	{
		posts.GET("", h.JobPost.List)
		posts.GET("/mine", requireAuth, h.JobPost.ListMine)
		posts.GET("/:id", h.JobPost.Get)
		posts.POST("", requireAuth, idempotent, h.JobPost.Create)
		posts.PATCH("/:id", requireAuth, h.JobPost.Update)
		posts.DELETE("/:id", requireAuth, h.JobPost.Delete)
	}

	jobs := api.Group("/jobs")
	{
		jobs.GET("", h.Job.List)
		jobs.GET("/search", h.Job.Search)
		jobs.GET("/filter", h.Job.Filter)
		jobs.GET("/:id", h.Job.Get)
		jobs.POST("", requireAuth, idempotent, h.Job.Create)
		jobs.PATCH("/:id", requireAuth, h.Job.Update)
		jobs.DELETE("/:id", requireAuth, h.Job.Delete)
	}
	api.GET("/users/:userId/jobs", h.Job.ListByUser)
	api.GET("/feed", h.Feed.Stream)

	return r
}

// withCORS wraps the router with rs/cors. Credentials are only allowed for
// an explicit origin list.
func withCORS(cfg *config.Config, next http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", middleware.IdempotencyHeader, middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader, middleware.ReplayedHeader},
		AllowCredentials: len(cfg.CORS) > 0,
		MaxAge:           600,
	}).Handler(next)
}
