package delivery

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Pinger is satisfied by *sql.DB; PingFunc adapts other clients.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type PingFunc func(ctx context.Context) error

func (f PingFunc) PingContext(ctx context.Context) error { return f(ctx) }

type HealthHandler struct {
	deps map[string]Pinger
	log  *logrus.Logger
}

func NewHealthHandler(deps map[string]Pinger, logger *logrus.Logger) *HealthHandler {
	return &HealthHandler{deps: deps, log: logger}
}

func (h *HealthHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/health", h.Health)
}

func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := make(map[string]string, len(h.deps))
	healthy := true
	for name, dep := range h.deps {
		if err := dep.PingContext(ctx); err != nil {
			h.log.Errorf("Health check for %s failed: %v", name, err)
			checks[name] = "down"
			healthy = false
			continue
		}
		checks[name] = "up"
	}

	if !healthy {
		c.JSON(http.StatusServiceUnavailable, Response{Status: "Fail", Message: "Service degraded", Data: checks})
		return
	}
	SuccessResponse(c, http.StatusOK, "Service healthy", checks)
}
