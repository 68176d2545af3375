package ai

import (
	"github.com/gin-gonic/gin"
	"github.com/yourbuzzfeed/core/internal/middleware"
	"github.com/yourbuzzfeed/core/internal/pkg/response"
)

// Handler handles AI generation HTTP requests.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the generation routes. Every route requires auth.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/ai", authMW)

	g.POST("/generate-content", h.generateContent)
	g.POST("/generate-ideas", h.generateIdeas)
	g.POST("/generate-listicle", h.generateListicle)
	g.POST("/create-article", h.createArticle)
	g.POST("/create-listicle", h.createListicle)
	g.POST("/batch-generate", h.batchGenerate)
}

func (h *Handler) generateContent(c *gin.Context) {
	var dto generateContentDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "Topic is required")
		return
	}
	g, err := h.svc.GenerateContent(c.Request.Context(), ContentRequest{Topic: dto.Topic, Category: dto.Category, Tone: dto.Tone})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, g)
}

func (h *Handler) generateIdeas(c *gin.Context) {
	var dto generateIdeasDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "Category is required")
		return
	}
	ideas, err := h.svc.GenerateIdeas(c.Request.Context(), dto.Category, dto.Count)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, ideasResponse{Ideas: ideas})
}

func (h *Handler) generateListicle(c *gin.Context) {
	var dto generateListicleDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "Topic is required")
		return
	}
	g, err := h.svc.GenerateListicle(c.Request.Context(), ListicleRequest{Topic: dto.Topic, Category: dto.Category, Items: dto.Items})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, g)
}

// createArticle POST /ai/create-article
func (h *Handler) createArticle(c *gin.Context) {
	var dto generateContentDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "Topic is required")
		return
	}
	a, err := h.svc.CreateArticle(c.Request.Context(), middleware.CurrentUserID(c),
		ContentRequest{Topic: dto.Topic, Category: dto.Category, Tone: dto.Tone})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, a)
}

// createListicle POST /ai/create-listicle
func (h *Handler) createListicle(c *gin.Context) {
	var dto generateListicleDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "Topic is required")
		return
	}
	a, err := h.svc.CreateListicle(c.Request.Context(), middleware.CurrentUserID(c),
		ListicleRequest{Topic: dto.Topic, Category: dto.Category, Items: dto.Items})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, a)
}

// batchGenerate POST /ai/batch-generate
func (h *Handler) batchGenerate(c *gin.Context) {
	var dto batchGenerateDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "Invalid batch request")
		return
	}
	res, err := h.svc.batchGenerate(c.Request.Context(), middleware.CurrentUserID(c), dto)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, res)
}
