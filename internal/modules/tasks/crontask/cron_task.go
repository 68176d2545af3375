package crontask

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/yourbuzzfeed/core/internal/pkg/apperr"
	pkgcron "github.com/yourbuzzfeed/core/internal/pkg/cron"
	"github.com/yourbuzzfeed/core/internal/pkg/response"
)

// Handler wraps the scheduler for HTTP access.
type Handler struct {
	sched *pkgcron.Scheduler
}

func NewHandler(sched *pkgcron.Scheduler) *Handler {
	return &Handler{sched: sched}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/cron", authMW)
	g.GET("", h.list)
	g.GET("/:name", h.get)
	g.POST("/:name/run", h.run)
}

// GET /cron lists all jobs
func (h *Handler) list(c *gin.Context) {
	response.OK(c, h.sched.List())
}

// GET /cron/:name returns one job's last execution state
func (h *Handler) get(c *gin.Context) {
	result, err := h.sched.GetTask(c.Param("name"))
	if err != nil {
		response.Error(c, jobErr(err))
		return
	}
	response.OK(c, result)
}

// POST /cron/:name/run triggers a job in the background
func (h *Handler) run(c *gin.Context) {
	if err := h.sched.Run(c.Request.Context(), c.Param("name")); err != nil {
		response.Error(c, jobErr(err))
		return
	}
	response.Accepted(c, "Job triggered")
}

func jobErr(err error) error {
	switch {
	case errors.Is(err, pkgcron.ErrJobNotFound):
		return apperr.NotFound("Cron job")
	case errors.Is(err, pkgcron.ErrAlreadyRunning):
		return apperr.Conflict("Cron job is already running")
	default:
		return err
	}
}
