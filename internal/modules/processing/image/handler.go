package image

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yourbuzzfeed/core/internal/pkg/response"
)

type Handler struct {
	finder *Finder
}

func NewHandler(finder *Finder) *Handler {
	return &Handler{finder: finder}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/images", authMW)
	g.GET("/search", h.search)
}

// search GET /images/search?query=
func (h *Handler) search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		response.BadRequest(c, "Query is required")
		return
	}
	res, err := h.finder.Search(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, res)
}
