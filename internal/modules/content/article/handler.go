package article

import (
	"github.com/gin-gonic/gin"
	"github.com/yourbuzzfeed/core/internal/middleware"
	"github.com/yourbuzzfeed/core/internal/pkg/pagination"
	"github.com/yourbuzzfeed/core/internal/pkg/response"
	"github.com/yourbuzzfeed/core/internal/storage"
)

// Handler handles article HTTP requests.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts article routes onto the given router group. GET
// /articles/:id takes the article slug; every other :id is numeric.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	articles := rg.Group("/articles")

	articles.GET("", h.list)
	articles.GET("/featured", h.featured)
	articles.GET("/popular", h.popular)
	articles.GET("/:id", h.getBySlug)
	articles.GET("/:id/related", h.related)
	articles.POST("/:id/share", h.share)

	authed := articles.Group("", authMW)
	authed.POST("", h.create)
	authed.POST("/bulk-delete", h.bulkDelete)
	authed.PATCH("/:id", h.update)
	authed.DELETE("/:id", h.delete)
}

// list GET /articles
func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c, storage.DefaultPageSize)
	articles, err := h.svc.List(c.Request.Context(), q.Limit, q.Offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, articles)
}

func (h *Handler) featured(c *gin.Context) {
	articles, err := h.svc.Featured(c.Request.Context(), pagination.Limit(c, storage.DefaultFeaturedLimit))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, articles)
}

func (h *Handler) popular(c *gin.Context) {
	articles, err := h.svc.Popular(c.Request.Context(), pagination.Limit(c, storage.DefaultPopularLimit))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, articles)
}

// getBySlug GET /articles/:slug
func (h *Handler) getBySlug(c *gin.Context) {
	detail, err := h.svc.View(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, detail)
}

func (h *Handler) related(c *gin.Context) {
	id, ok := response.ParamID(c, "id")
	if !ok {
		return
	}
	articles, err := h.svc.Related(c.Request.Context(), id, pagination.Limit(c, storage.DefaultRelatedLimit))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, articles)
}

func (h *Handler) share(c *gin.Context) {
	id, ok := response.ParamID(c, "id")
	if !ok {
		return
	}
	shares, err := h.svc.Share(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, shareResponse{ID: id, Shares: shares})
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateArticleDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "Title and content are required")
		return
	}
	detail, err := h.svc.Create(c.Request.Context(), middleware.CurrentUserID(c), dto)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, detail)
}

func (h *Handler) update(c *gin.Context) {
	id, ok := response.ParamID(c, "id")
	if !ok {
		return
	}
	var patch storage.ArticlePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.BadRequest(c, "Invalid article data")
		return
	}
	a, err := h.svc.Update(c.Request.Context(), id, patch)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, a)
}

func (h *Handler) delete(c *gin.Context) {
	id, ok := response.ParamID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// bulkDelete POST /articles/bulk-delete
func (h *Handler) bulkDelete(c *gin.Context) {
	var dto BulkDeleteDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "ids must be a non-empty array")
		return
	}
	response.OK(c, h.svc.BulkDelete(c.Request.Context(), dto.IDs))
}
