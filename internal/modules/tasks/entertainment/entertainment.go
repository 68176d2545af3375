// Package entertainment generates pop-culture articles from LLM topic ideas.
package entertainment

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yourbuzzfeed/core/internal/middleware"
	"github.com/yourbuzzfeed/core/internal/models"
	"github.com/yourbuzzfeed/core/internal/modules/processing/ai"
	"github.com/yourbuzzfeed/core/internal/pkg/response"
)

const (
	Category          = "Entertainment"
	defaultBatchCount = 5
)

type generateDTO struct {
	Topic string             `json:"topic" binding:"max=300"`
	Type  models.ContentType `json:"type"  binding:"omitempty,oneof=article listicle"`
}

type generateBatchDTO struct {
	Count int `json:"count" binding:"gte=0,lte=10"`
}

type Service struct {
	ai *ai.Service
}

func NewService(aiSvc *ai.Service) *Service {
	return &Service{ai: aiSvc}
}

// Generate publishes one entertainment piece. Without a topic it asks the
// model for one first.
func (s *Service) Generate(ctx context.Context, authorID uint, topic string, contentType models.ContentType) (*models.Article, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		ideas, err := s.ai.GenerateIdeas(ctx, Category, 1)
		if err != nil {
			return nil, err
		}
		topic = ideas[0]
	}
	return s.ai.Create(ctx, authorID, ai.BatchTopic{Topic: topic, Category: Category, Type: contentType})
}

// GenerateBatch publishes count pieces, alternating listicles and articles.
func (s *Service) GenerateBatch(ctx context.Context, authorID uint, count int) (response.BatchResult[ai.BatchItem], error) {
	if count <= 0 {
		count = defaultBatchCount
	}
	topics, err := s.ai.TopicsFromIdeas(ctx, Category, count, models.ContentTypeArticle)
	if err != nil {
		return response.BatchResult[ai.BatchItem]{}, err
	}
	for i := range topics {
		if i%2 == 0 {
			topics[i].Type = models.ContentTypeListicle
		}
	}
	return s.ai.Batch(ctx, authorID, topics), nil
}

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/entertainment", authMW)
	g.POST("/generate", h.generate)
	g.POST("/generate-batch", h.generateBatch)
}

func (h *Handler) generate(c *gin.Context) {
	var dto generateDTO
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&dto); err != nil {
			response.BadRequest(c, "Invalid entertainment request")
			return
		}
	}
	a, err := h.svc.Generate(c.Request.Context(), middleware.CurrentUserID(c), dto.Topic, dto.Type)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, a)
}

func (h *Handler) generateBatch(c *gin.Context) {
	var dto generateBatchDTO
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&dto); err != nil {
			response.BadRequest(c, "count must be between 1 and 10")
			return
		}
	}
	res, err := h.svc.GenerateBatch(c.Request.Context(), middleware.CurrentUserID(c), dto.Count)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, res)
}
