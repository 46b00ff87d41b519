package handler

import (
	"context"
	"net/http"
	"time"

	"accessibilityhire/internal/model"
	"accessibilityhire/internal/version"

	"github.com/gin-gonic/gin"
)

// Pinger is a dependency whose reachability is reported by /health
type Pinger interface {
	HealthCheck(ctx context.Context) error
}

// HealthHandler reports liveness and build information
type HealthHandler struct {
	deps map[string]Pinger
}

func NewHealthHandler(deps map[string]Pinger) *HealthHandler {
	return &HealthHandler{deps: deps}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := make(map[string]string, len(h.deps))
	for name, dep := range h.deps {
		if err := dep.HealthCheck(ctx); err != nil {
			checks[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}
	c.JSON(status, model.Response{
		Success: status == http.StatusOK,
		Message: http.StatusText(status),
		Data:    checks,
	})
}

// Version handles GET /version
func (h *HealthHandler) Version(c *gin.Context) {
	c.JSON(http.StatusOK, model.NewSuccessResponse("", version.Get()))
}
