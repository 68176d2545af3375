package news

import (
	"github.com/gin-gonic/gin"
	"github.com/yourbuzzfeed/core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/news", authMW)
	g.POST("/scrape", h.scrape)
}

// scrape POST /news/scrape runs synchronously and returns the report.
func (h *Handler) scrape(c *gin.Context) {
	report, err := h.svc.Scrape(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, report)
}
