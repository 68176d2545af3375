package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	pkgredis "github.com/yourbuzzfeed/core/internal/pkg/redis"
)

const (
	stateUp       = "up"
	stateDown     = "down"
	stateDisabled = "disabled"

	pingTimeout = 2 * time.Second
)

// Pinger is satisfied by the storage layer.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Status is the body of GET /health.
type Status struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Redis    string `json:"redis"`
	Uptime   int64  `json:"uptime"`
}

type Handler struct {
	db      Pinger
	redis   *pkgredis.Client
	started time.Time
	now     func() time.Time
}

// NewHandler reports on db and, when rc is non-nil, on Redis. Uptime counts
// from started.
func NewHandler(db Pinger, rc *pkgredis.Client, started time.Time) *Handler {
	return &Handler{db: db, redis: rc, started: started, now: time.Now}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.health)
}

func (h *Handler) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
	defer cancel()

	body := Status{
		Status:   "ok",
		Database: stateUp,
		Redis:    stateDisabled,
		Uptime:   int64(h.now().Sub(h.started).Seconds()),
	}
	code := http.StatusOK

	if err := h.db.Ping(ctx); err != nil {
		body.Database = stateDown
	}
	if h.redis != nil {
		body.Redis = stateUp
		if err := h.redis.Ping(ctx); err != nil {
			body.Redis = stateDown
		}
	}
	if body.Database == stateDown || body.Redis == stateDown {
		body.Status = "degraded"
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, body)
}
