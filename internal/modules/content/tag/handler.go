package tag

import (
	"github.com/gin-gonic/gin"
	"github.com/yourbuzzfeed/core/internal/pkg/pagination"
	"github.com/yourbuzzfeed/core/internal/pkg/response"
	"github.com/yourbuzzfeed/core/internal/storage"
)

// Handler handles tag HTTP requests.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	tags := rg.Group("/tags")
	tags.GET("", h.list)
	tags.GET("/:slug/articles", h.articles)

	authed := tags.Group("", authMW)
	authed.POST("", h.create)
}

func (h *Handler) list(c *gin.Context) {
	tags, err := h.svc.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, tags)
}

// articles GET /tags/:slug/articles
func (h *Handler) articles(c *gin.Context) {
	articles, err := h.svc.Articles(c.Request.Context(), c.Param("slug"), pagination.Limit(c, storage.DefaultCategoryLimit))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, articles)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateTagDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "Tag name is required")
		return
	}
	t, err := h.svc.Create(c.Request.Context(), dto)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, t)
}
